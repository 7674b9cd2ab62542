package service

import (
	"strings"

	"carmarket/internal/model"
)

func parseIntField(field string, n *model.NumericInput) (int, error) {
	v, err := n.Int()
	if err != nil {
		return 0, &model.ValidationError{Field: field, Reason: "must be a whole number", Err: err}
	}
	return v, nil
}

func parseFloatField(field string, n *model.NumericInput) (float64, error) {
	v, err := n.Float()
	if err != nil {
		return 0, &model.ValidationError{Field: field, Reason: "must be a number", Err: err}
	}
	return v, nil
}

func checkEnum(field, value string, valid func(string) bool) error {
	if !valid(value) {
		return model.NewValidationError(field, "unsupported value "+value)
	}
	return nil
}

func checkNonNegative(field string, v float64) error {
	if v < 0 {
		return model.NewValidationError(field, "must not be negative")
	}
	return nil
}

// checkPrice rejects prices that would overflow the column once rounded to cents.
func checkPrice(price float64) error {
	if err := checkNonNegative("price", price); err != nil {
		return err
	}
	if price >= model.PriceCeiling-0.005 {
		return model.NewValidationError("price", "must be less than 10000000000")
	}
	return nil
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// newCarFromRequest validates a create request and builds the listing row.
func newCarFromRequest(req *model.CreateCarRequest) (*model.Car, error) {
	required := []struct {
		field string
		value string
	}{
		{"title", req.Title},
		{"make", req.Make},
		{"model", req.Model},
		{"fuelType", req.FuelType},
		{"transmission", req.Transmission},
		{"bodyType", req.BodyType},
		{"condition", req.Condition},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return nil, model.NewValidationError(r.field, "is required")
		}
	}
	numeric := []struct {
		field string
		value *model.NumericInput
	}{
		{"year", req.Year},
		{"price", req.Price},
		{"mileage", req.Mileage},
	}
	for _, n := range numeric {
		if n.value == nil {
			return nil, model.NewValidationError(n.field, "is required")
		}
	}

	year, err := parseIntField("year", req.Year)
	if err != nil {
		return nil, err
	}
	price, err := parseFloatField("price", req.Price)
	if err != nil {
		return nil, err
	}
	mileage, err := parseIntField("mileage", req.Mileage)
	if err != nil {
		return nil, err
	}
	if err := checkPrice(price); err != nil {
		return nil, err
	}
	if err := checkNonNegative("mileage", float64(mileage)); err != nil {
		return nil, err
	}

	status := req.Status
	if status == "" {
		status = model.StatusActive
	}

	enums := []struct {
		field string
		value string
		valid func(string) bool
	}{
		{"fuelType", req.FuelType, model.IsValidFuelType},
		{"transmission", req.Transmission, model.IsValidTransmission},
		{"bodyType", req.BodyType, model.IsValidBodyType},
		{"condition", req.Condition, model.IsValidCondition},
		{"status", status, model.IsValidStatus},
	}
	for _, e := range enums {
		if err := checkEnum(e.field, e.value, e.valid); err != nil {
			return nil, err
		}
	}

	return &model.Car{
		Title:        strings.TrimSpace(req.Title),
		Make:         strings.TrimSpace(req.Make),
		Model:        strings.TrimSpace(req.Model),
		Year:         year,
		Price:        price,
		Mileage:      mileage,
		FuelType:     req.FuelType,
		Transmission: req.Transmission,
		BodyType:     req.BodyType,
		Color:        req.Color,
		Condition:    req.Condition,
		Description:  req.Description,
		Images:       orEmpty(req.Images),
		Location:     req.Location,
		Features:     orEmpty(req.Features),
		Status:       status,
	}, nil
}

// parseCarUpdate validates the fields present in req. Absent fields stay nil.
func parseCarUpdate(req *model.UpdateCarRequest) (model.CarUpdate, error) {
	upd := model.CarUpdate{
		Title:       req.Title,
		Make:        req.Make,
		Model:       req.Model,
		Color:       req.Color,
		Description: req.Description,
		Images:      req.Images,
		Location:    req.Location,
		Features:    req.Features,
	}

	nonEmpty := []struct {
		field string
		value *string
	}{
		{"title", req.Title},
		{"make", req.Make},
		{"model", req.Model},
	}
	for _, v := range nonEmpty {
		if v.value != nil && strings.TrimSpace(*v.value) == "" {
			return model.CarUpdate{}, model.NewValidationError(v.field, "must not be empty")
		}
	}

	if req.Year != nil {
		year, err := parseIntField("year", req.Year)
		if err != nil {
			return model.CarUpdate{}, err
		}
		upd.Year = &year
	}
	if req.Price != nil {
		price, err := parseFloatField("price", req.Price)
		if err != nil {
			return model.CarUpdate{}, err
		}
		if err := checkPrice(price); err != nil {
			return model.CarUpdate{}, err
		}
		upd.Price = &price
	}
	if req.Mileage != nil {
		mileage, err := parseIntField("mileage", req.Mileage)
		if err != nil {
			return model.CarUpdate{}, err
		}
		if err := checkNonNegative("mileage", float64(mileage)); err != nil {
			return model.CarUpdate{}, err
		}
		upd.Mileage = &mileage
	}

	enums := []struct {
		field string
		value *string
		valid func(string) bool
		dest  **string
	}{
		{"fuelType", req.FuelType, model.IsValidFuelType, &upd.FuelType},
		{"transmission", req.Transmission, model.IsValidTransmission, &upd.Transmission},
		{"bodyType", req.BodyType, model.IsValidBodyType, &upd.BodyType},
		{"condition", req.Condition, model.IsValidCondition, &upd.Condition},
		{"status", req.Status, model.IsValidStatus, &upd.Status},
	}
	for _, e := range enums {
		if e.value == nil {
			continue
		}
		if err := checkEnum(e.field, *e.value, e.valid); err != nil {
			return model.CarUpdate{}, err
		}
		*e.dest = e.value
	}

	return upd, nil
}
