package model

import (
	"math"
	"strconv"
)

// Cents is a money amount in minor currency units.
// All price arithmetic in this codebase is integer cents; floats appear only
// at the JSON boundary, where the backend API speaks decimal dollar amounts.
type Cents int64

// CentsFromFloat converts a decimal dollar amount to cents.
// The backend API returns prices as JSON numbers (e.g. 79.99 = $79.99).
// math.Round handles both positive and negative amounts correctly.
// Examples: 79.99 → 7999, 1234.5 → 123450, 0 → 0
func CentsFromFloat(f float64) Cents {
	return Cents(math.Round(f * 100))
}

// ParseCents converts decimal string amounts (dollars) to cents.
// Handles edge cases: empty strings, missing decimals, large values.
// Examples: "99.00" → 9900, "1234.56" → 123456, "" → 0
func ParseCents(s string) Cents {
	if s == "" {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return CentsFromFloat(f)
}

// Float returns the amount in major units for the JSON boundary.
func (c Cents) Float() float64 {
	return float64(c) / 100
}

// String renders the amount as a decimal dollar string, e.g. 15998 → "159.98".
func (c Cents) String() string {
	return strconv.FormatFloat(c.Float(), 'f', 2, 64)
}

// Mul multiplies the amount by a quantity.
func (c Cents) Mul(qty int) Cents {
	return c * Cents(qty)
}
