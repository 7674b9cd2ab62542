package model

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestNumericInput_UnmarshalJSON(t *testing.T) {
	var body struct {
		Year  *NumericInput `json:"year"`
		Price *NumericInput `json:"price"`
	}

	if err := json.Unmarshal([]byte(`{"year": " 2020 ", "price": 15999.5}`), &body); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if body.Year == nil || *body.Year != "2020" {
		t.Errorf("year = %v, want 2020", body.Year)
	}
	if body.Price == nil || *body.Price != "15999.5" {
		t.Errorf("price = %v, want 15999.5", body.Price)
	}
}

func TestNumericInput_Int(t *testing.T) {
	tests := []struct {
		in      NumericInput
		want    int
		wantErr bool
	}{
		{"2020", 2020, false},
		{"2020.0", 2020, false},
		{"-5", -5, false},
		{"2020.5", 0, true},
		{"abc", 0, true},
		{"", 0, true},
		{"1e20", 0, true},
		{"2147483647", 2147483647, false},
		{"-2147483648", -2147483648, false},
		// Out of INTEGER range whichever way it is spelled.
		{"3000000000", 0, true},
		{"3000000000.0", 0, true},
		{"-2147483649", 0, true},
		{"99999999999999999999", 0, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.in), func(t *testing.T) {
			got, err := tt.in.Int()
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidNumber) {
					t.Errorf("Int(%q) error = %v, want ErrInvalidNumber", tt.in, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Int(%q) unexpected error: %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("Int(%q) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestNumericInput_Float(t *testing.T) {
	tests := []struct {
		in      NumericInput
		want    float64
		wantErr bool
	}{
		{"15000", 15000, false},
		{"15000.99", 15000.99, false},
		{"NaN", 0, true},
		{"Inf", 0, true},
		{"12,000", 0, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.in), func(t *testing.T) {
			got, err := tt.in.Float()
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidNumber) {
					t.Errorf("Float(%q) error = %v, want ErrInvalidNumber", tt.in, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Float(%q) unexpected error: %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("Float(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestValidationError_Matching(t *testing.T) {
	err := error(&ValidationError{Field: "year", Reason: "must be a number", Err: ErrInvalidNumber})

	if !errors.Is(err, ErrInvalidInput) {
		t.Error("expected ValidationError to match ErrInvalidInput")
	}
	if !errors.Is(err, ErrInvalidNumber) {
		t.Error("expected ValidationError to unwrap to ErrInvalidNumber")
	}
	if err.Error() != "year: must be a number" {
		t.Errorf("Error() = %q", err.Error())
	}
	if !errors.Is(ErrCannotMessageSelf, ErrInvalidInput) {
		t.Error("messaging errors should match ErrInvalidInput")
	}
}
