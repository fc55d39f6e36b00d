package core

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// DateLayout is the wire and storage format for calendar dates.
const DateLayout = "2006-01-02"

// Date is a calendar day at UTC midnight.
type Date struct {
	time.Time
}

// NewDate creates a new Date from year, month, day. Out of range values
// normalize the way time.Date does.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// DateOf returns the calendar day of t in t's own location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return NewDate(y, int(m), d)
}

// ParseDate parses YYYY-MM-DD, falling back to RFC 3339 timestamps.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(DateLayout, s); err == nil {
		return DateOf(t), nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return Date{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return DateOf(t), nil
}

// DaysInMonth returns the number of days of the given month. The month may be
// outside 1-12 and is normalized into the right year.
func DaysInMonth(year, month int) int {
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// ClampedDate builds a date on day of the given month, moving day back to the
// month's last day when the month is shorter. It never spills into the next month.
func ClampedDate(year, month, day int) Date {
	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	y, m := first.Year(), int(first.Month())
	if last := DaysInMonth(y, m); day > last {
		day = last
	}
	if day < 1 {
		day = 1
	}
	return NewDate(y, m, day)
}

// AddMonths moves the date n calendar months, clamping the day of month.
func (d Date) AddMonths(n int) Date {
	return ClampedDate(d.Year(), d.Month()+n, d.Day())
}

// AddDays moves the date n days.
func (d Date) AddDays(n int) Date {
	return Date{Time: d.Time.AddDate(0, 0, n)}
}

// Day returns the day of the month
func (d Date) Day() int {
	return d.Time.Day()
}

// Month returns the month
func (d Date) Month() int {
	return int(d.Time.Month())
}

// Year returns the year
func (d Date) Year() int {
	return d.Time.Year()
}

// InMonth reports whether the date falls in the given year and month.
func (d Date) InMonth(year, month int) bool {
	return d.Year() == year && d.Month() == month
}

func (d Date) IsBefore(o Date) bool {
	return d.Time.Before(o.Time)
}

func (d Date) IsAfter(o Date) bool {
	return d.Time.After(o.Time)
}

// Compare returns -1, 0 or +1 like time.Time.Compare.
func (d Date) Compare(o Date) int {
	return d.Time.Compare(o.Time)
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DateLayout)
}

func (d Date) Validate() error {
	if d.IsZero() {
		return errors.New("date cannot be zero")
	}
	_, month, day := d.Date()
	if day < 1 || day > 31 {
		return ErrInvalidDay
	}
	if month < 1 || month > 12 {
		return ErrInvalidMonth
	}
	return nil
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if string(data) == "null" {
		*d = Date{}
		return nil
	}
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("date must be a string: %w", err)
	}
	if strings.TrimSpace(s) == "" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
