package model

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// NumericInput holds a numeric request field that clients may send either as a
// JSON number or as a numeric string ("2020"). Parsing is deferred so that a
// malformed value surfaces as a validation error rather than a decode error.
type NumericInput string

func (n *NumericInput) UnmarshalJSON(b []byte) error {
	raw := strings.TrimSpace(string(b))
	if strings.HasPrefix(raw, `"`) {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		raw = strings.TrimSpace(s)
	}
	*n = NumericInput(raw)
	return nil
}

// Int parses the value as a whole number that fits a PostgreSQL INTEGER.
// "2020" and 2020.0 are accepted, 2020.5 is not.
func (n NumericInput) Int() (int, error) {
	if i, err := strconv.ParseInt(string(n), 10, 64); err == nil {
		if i > math.MaxInt32 || i < math.MinInt32 {
			return 0, ErrInvalidNumber
		}
		return int(i), nil
	}
	f, err := n.Float()
	if err != nil {
		return 0, err
	}
	if f != math.Trunc(f) || f > math.MaxInt32 || f < math.MinInt32 {
		return 0, ErrInvalidNumber
	}
	return int(f), nil
}

// Float parses the value as a finite decimal number.
func (n NumericInput) Float() (float64, error) {
	f, err := strconv.ParseFloat(string(n), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, ErrInvalidNumber
	}
	return f, nil
}
