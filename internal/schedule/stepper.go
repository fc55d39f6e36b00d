// Package schedule expands one requested entry into the dated sibling records
// that get persisted: installment plans, recurring series and transfer pairs.
//
// This file implements the Strategy Pattern for recurrence stepping. Each
// frequency (weekly, monthly, yearly) has its own stepper that computes the
// date of the k-th occurrence from the series' base date.
package schedule

import (
	"fmt"

	"finflow/internal/core"
)

// Stepper computes occurrence dates for one frequency.
type Stepper interface {
	// Step returns the date of occurrence k (0 is the base date itself).
	Step(base core.Date, k int) core.Date
}

// WeeklyStepper advances 7 days per occurrence.
type WeeklyStepper struct{}

func (WeeklyStepper) Step(base core.Date, k int) core.Date {
	return base.AddDays(7 * k)
}

// MonthlyStepper advances one calendar month per occurrence. Days missing in
// shorter months are clamped to the month's last day; each step is computed
// from the base date so a series started on the 31st returns to the 31st.
type MonthlyStepper struct{}

func (MonthlyStepper) Step(base core.Date, k int) core.Date {
	return base.AddMonths(k)
}

// YearlyStepper advances one calendar year per occurrence. A series started on
// 29 February falls on 28 February in common years.
type YearlyStepper struct{}

func (YearlyStepper) Step(base core.Date, k int) core.Date {
	return base.AddMonths(12 * k)
}

// steppers maps frequencies to their stepping strategy.
var steppers = map[core.Frequency]Stepper{
	core.Weekly:  WeeklyStepper{},
	core.Monthly: MonthlyStepper{},
	core.Yearly:  YearlyStepper{},
}

// GetStepper returns the stepper for a frequency.
func GetStepper(frequency core.Frequency) (Stepper, error) {
	s, ok := steppers[frequency]
	if !ok {
		return nil, fmt.Errorf("%w: %q", core.ErrInvalidFrequency, frequency)
	}
	return s, nil
}
