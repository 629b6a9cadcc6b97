package models

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Number is a reported financial value. Whole numbers (yen amounts) stay integral;
// per-share amounts and ratios keep their fractional part.
type Number struct {
	value decimal.Decimal
}

// NewInt returns an integral Number.
func NewInt(n int64) Number {
	return Number{value: decimal.NewFromInt(n)}
}

// NewFloat returns a Number from a float.
func NewFloat(f float64) Number {
	return Number{value: decimal.NewFromFloat(f)}
}

// NewDecimal wraps a decimal value.
func NewDecimal(d decimal.Decimal) Number {
	return Number{value: d}
}

// ParseNumber parses XBRL fact text such as "1,234,567" or "-12.5".
// Thousands separators and surrounding whitespace are ignored.
func ParseNumber(s string) (Number, error) {
	cleaned := strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if cleaned == "" {
		return Number{}, fmt.Errorf("empty numeric value")
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return Number{}, fmt.Errorf("invalid numeric value %q: %w", s, err)
	}
	return Number{value: d}, nil
}

// IsInteger reports whether the value has no fractional part.
func (n Number) IsInteger() bool {
	return n.value.IsInteger()
}

// Int64 returns the integer part of the value.
func (n Number) Int64() int64 {
	return n.value.IntPart()
}

// Float64 returns the value as a float.
func (n Number) Float64() float64 {
	return n.value.InexactFloat64()
}

// Decimal returns the underlying decimal.
func (n Number) Decimal() decimal.Decimal {
	return n.value
}

// Equal reports whether two numbers hold the same value.
func (n Number) Equal(other Number) bool {
	return n.value.Equal(other.value)
}

func (n Number) String() string {
	if n.IsInteger() {
		return n.value.StringFixed(0)
	}
	return n.value.String()
}

// MarshalJSON emits integers without a decimal point and fractions as JSON numbers.
func (n Number) MarshalJSON() ([]byte, error) {
	return []byte(n.String()), nil
}

// UnmarshalJSON accepts a JSON number or a numeric string.
func (n *Number) UnmarshalJSON(b []byte) error {
	var raw json.Number
	if err := json.Unmarshal(b, &raw); err != nil {
		var s string
		if err2 := json.Unmarshal(b, &s); err2 != nil {
			return err
		}
		raw = json.Number(s)
	}
	parsed, err := ParseNumber(string(raw))
	if err != nil {
		return err
	}
	*n = parsed
	return nil
}
