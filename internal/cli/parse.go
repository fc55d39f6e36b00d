package cli

import (
	"fmt"
	"strings"
	"time"

	"finflow/internal/core"
)

// ParseMonth reads a YYYY-MM flag value. Empty means the month of now.
func ParseMonth(s string, now time.Time) (year, month int, err error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return now.Year(), int(now.Month()), nil
	}
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid month %q, expected YYYY-MM", s)
	}
	return t.Year(), int(t.Month()), nil
}

// ParseDateOrToday reads a YYYY-MM-DD flag value. Empty means the day of now.
func ParseDateOrToday(s string, now time.Time) (core.Date, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return core.DateOf(now), nil
	}
	d, err := core.ParseDate(s)
	if err != nil {
		return core.Date{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD: %w", s, err)
	}
	return d, nil
}

// ParseAmount reads a strictly positive decimal amount.
func ParseAmount(s string) (core.Money, error) {
	cents, err := core.ParseDecimalToCents(s)
	if err != nil {
		return core.Money{}, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return core.Cents(cents), nil
}

// ParseSignedAmount reads a decimal amount that may be zero or negative,
// such as an opening balance.
func ParseSignedAmount(s string) (core.Money, error) {
	if strings.TrimSpace(s) == "" {
		return core.Money{}, nil
	}
	m, err := core.ParseMoney(s)
	if err != nil {
		return core.Money{}, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return m, nil
}
