// Package core holds the ledger domain types and the money and date
// arithmetic shared by the calculators.
//
// Amounts are integer cents. Decimal text and JSON go through
// shopspring/decimal so that parsing and formatting never touch floats.
package core

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

// Money is an amount in cents.
type Money struct {
	Cents int64
}

var hundred = decimal.NewFromInt(100)

// Cents builds a Money from a cent count.
func Cents(c int64) Money {
	return Money{Cents: c}
}

// MoneyFromDecimal rounds d half away from zero to whole cents.
func MoneyFromDecimal(d decimal.Decimal) Money {
	return Money{Cents: d.Shift(2).Round(0).IntPart()}
}

// ParseMoney parses a signed decimal amount. Both dot (12.34) and comma (12,34)
// decimal separators are accepted; digits past the second decimal are rounded
// half-up.
func ParseMoney(s string) (Money, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Money{}, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, ",", ".")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, ErrInvalidAmount
	}
	return MoneyFromDecimal(d), nil
}

// ParseDecimalToCents converts a decimal string to strictly positive cents.
//
// Examples:
//
//	ParseDecimalToCents("12.34") -> 1234, nil
//	ParseDecimalToCents("12,34") -> 1234, nil
//	ParseDecimalToCents("12.345") -> 1235, nil (rounds half-up)
//	ParseDecimalToCents("0") -> 0, ErrInvalidAmount
func ParseDecimalToCents(s string) (int64, error) {
	if strings.HasPrefix(strings.TrimSpace(s), "+") {
		return 0, ErrInvalidAmount
	}
	m, err := ParseMoney(s)
	if err != nil {
		return 0, err
	}
	if m.Cents <= 0 {
		return 0, ErrInvalidAmount
	}
	return m.Cents, nil
}

// MoneyOrZero parses s and degrades anything unparsable to zero.
func MoneyOrZero(s string) Money {
	m, err := ParseMoney(s)
	if err != nil {
		return Money{}
	}
	return m
}

func (m Money) Add(o Money) Money { return Money{Cents: m.Cents + o.Cents} }
func (m Money) Sub(o Money) Money { return Money{Cents: m.Cents - o.Cents} }
func (m Money) Neg() Money        { return Money{Cents: -m.Cents} }
func (m Money) IsZero() bool      { return m.Cents == 0 }
func (m Money) IsNegative() bool  { return m.Cents < 0 }

// Decimal returns the amount in currency units.
func (m Money) Decimal() decimal.Decimal {
	return decimal.New(m.Cents, -2)
}

func (m Money) String() string {
	return m.Decimal().StringFixed(2)
}

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

// Split divides the amount into n parts of equal cents; the last part absorbs
// the remainder so the parts always add up to the original amount.
func (m Money) Split(n int) []Money {
	if n < 1 {
		return nil
	}
	per := m.Cents / int64(n)
	parts := make([]Money, n)
	for i := range parts {
		parts[i] = Money{Cents: per}
	}
	parts[n-1] = Money{Cents: m.Cents - per*int64(n-1)}
	return parts
}

// Percent returns part/whole*100, or 0 when whole is zero.
func Percent(part, whole Money) float64 {
	if whole.IsZero() {
		return 0
	}
	return decimal.NewFromInt(part.Cents).
		Mul(hundred).
		Div(decimal.NewFromInt(whole.Cents)).
		InexactFloat64()
}

// MarshalJSON encodes the amount as a decimal number, e.g. 12.34.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalJSON accepts a JSON number or string. Values that are not numeric
// decode to zero rather than failing the whole document.
func (m *Money) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*m = Money{}
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			*m = Money{}
			return nil
		}
		*m = MoneyOrZero(s)
		return nil
	}
	*m = MoneyOrZero(string(data))
	return nil
}
