package repository

import (
	"fmt"
	"strings"

	"carmarket/internal/model"
)

var carOrderBy = map[string]string{
	model.SortNewest:     "c.created_at DESC",
	model.SortOldest:     "c.created_at ASC",
	model.SortPriceAsc:   "c.price ASC",
	model.SortPriceDesc:  "c.price DESC",
	model.SortYearDesc:   "c.year DESC",
	model.SortMileageAsc: "c.mileage ASC",
}

// orderByClause maps a sort token to its ORDER BY expression. Unknown tokens
// sort newest first. The id tiebreak keeps pages stable.
func orderByClause(sortBy string) string {
	expr, ok := carOrderBy[sortBy]
	if !ok {
		expr = carOrderBy[model.SortNewest]
	}
	return expr + ", c.id"
}

// escapeLike makes s match literally inside a LIKE pattern.
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

func contains(s string) string {
	return "%" + escapeLike(s) + "%"
}

// buildCarWhere renders the WHERE clause for f against the cars table aliased as c.
// Placeholders are numbered from $1; the returned args line up with them.
func buildCarWhere(f model.CarFilter) (string, []interface{}) {
	var conds []string
	var args []interface{}

	add := func(cond string, arg interface{}) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if f.SellerID != "" {
		add("c.seller_id = $%d", f.SellerID)
	} else {
		add("c.status = $%d", model.StatusActive)
	}

	if f.Search != "" {
		args = append(args, contains(f.Search))
		n := len(args)
		conds = append(conds, fmt.Sprintf(
			"(c.title ILIKE $%[1]d OR c.make ILIKE $%[1]d OR c.model ILIKE $%[1]d OR c.description ILIKE $%[1]d)", n))
	}
	if f.Make != "" {
		add("c.make ILIKE $%d", escapeLike(f.Make))
	}
	if f.Model != "" {
		add("c.model ILIKE $%d", contains(f.Model))
	}
	if f.MinYear != nil {
		add("c.year >= $%d", *f.MinYear)
	}
	if f.MaxYear != nil {
		add("c.year <= $%d", *f.MaxYear)
	}
	if f.MinPrice != nil {
		add("c.price >= $%d", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		add("c.price <= $%d", *f.MaxPrice)
	}
	if f.FuelType != "" {
		add("c.fuel_type = $%d", f.FuelType)
	}
	if f.Transmission != "" {
		add("c.transmission = $%d", f.Transmission)
	}
	if f.BodyType != "" {
		add("c.body_type = $%d", f.BodyType)
	}
	if f.Condition != "" {
		add("c.condition = $%d", f.Condition)
	}
	if f.Location != "" {
		add("c.location ILIKE $%d", contains(f.Location))
	}

	return "WHERE " + strings.Join(conds, " AND "), args
}
