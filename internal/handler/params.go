package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"carmarket/internal/model"
	"carmarket/internal/transport/http/middleware"
)

const maxBodyBytes = 1 << 20 // 1MB is plenty for JSON

// decodeJSON reads a single JSON object from the request body into dst.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("request body is empty")
		}
		return err
	}
	return nil
}

func principal(r *http.Request) (model.Principal, bool) {
	return middleware.PrincipalFromContext(r.Context())
}

func queryInt(q url.Values, key string, min int) (*int, error) {
	raw := strings.TrimSpace(q.Get(key))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, fmt.Errorf("%s must be an integer", key)
	}
	if v < min {
		return nil, fmt.Errorf("%s must be at least %d", key, min)
	}
	return &v, nil
}

func queryFloat(q url.Values, key string) (*float64, error) {
	raw := strings.TrimSpace(q.Get(key))
	if raw == "" {
		return nil, nil
	}
	v, err := model.NumericInput(raw).Float()
	if err != nil {
		return nil, fmt.Errorf("%s must be a number", key)
	}
	return &v, nil
}

// parseCarFilter reads the GET /cars query string. Malformed numbers are an error.
func parseCarFilter(q url.Values) (model.CarFilter, error) {
	f := model.CarFilter{
		Search:       strings.TrimSpace(q.Get("search")),
		Make:         strings.TrimSpace(q.Get("make")),
		Model:        strings.TrimSpace(q.Get("model")),
		FuelType:     q.Get("fuelType"),
		Transmission: q.Get("transmission"),
		BodyType:     q.Get("bodyType"),
		Condition:    q.Get("condition"),
		Location:     strings.TrimSpace(q.Get("location")),
		SellerID:     strings.TrimSpace(q.Get("sellerId")),
		SortBy:       q.Get("sortBy"),
		Page:         model.DefaultCarPage,
		Limit:        model.DefaultCarLimit,
	}

	page, err := queryInt(q, "page", 1)
	if err != nil {
		return f, err
	}
	if page != nil {
		f.Page = *page
	}

	limit, err := queryInt(q, "limit", 1)
	if err != nil {
		return f, err
	}
	if limit != nil {
		f.Limit = *limit
	}

	if f.MinYear, err = queryInt(q, "minYear", 0); err != nil {
		return f, err
	}
	if f.MaxYear, err = queryInt(q, "maxYear", 0); err != nil {
		return f, err
	}
	if f.MinPrice, err = queryFloat(q, "minPrice"); err != nil {
		return f, err
	}
	if f.MaxPrice, err = queryFloat(q, "maxPrice"); err != nil {
		return f, err
	}

	return f, nil
}
