package recurrence

import (
	"errors"
	"fmt"
	"time"
)

// Validate range-checks every field and reports all problems at once.
//
// NextOccurrence never calls it: fields are expected to be checked by whoever
// builds the descriptor, and an unknown unit is a defined no-op there. Validate
// is stricter and rejects unknown units.
func (d Descriptor) Validate() error {
	var errs []error

	if !d.IntervalUnit.Known() {
		errs = append(errs, fmt.Errorf("%w: intervalUnit: unknown unit %q", ErrInvalidField, d.IntervalUnit))
	}
	if d.IntervalLength < 1 {
		errs = append(errs, fmt.Errorf("%w: intervalLength: must be at least 1, got %d", ErrInvalidField, d.IntervalLength))
	}
	if wn, ok := d.WeekNumber.Get(); ok && (wn < 1 || wn > LastWeek) {
		errs = append(errs, fmt.Errorf("%w: weekNumber: %d out of range 1-%d", ErrInvalidField, wn, LastWeek))
	}
	for _, wd := range d.DaysOfWeek {
		if wd < time.Sunday || wd > time.Saturday {
			errs = append(errs, fmt.Errorf("%w: daysOfWeek: %d out of range 0-6", ErrInvalidField, int(wd)))
		}
	}
	if m, ok := d.Month.Get(); ok && (m < time.January || m > time.December) {
		errs = append(errs, fmt.Errorf("%w: month: %d out of range", ErrInvalidField, int(m)))
	}
	if dom, ok := d.DayOfMonth.Get(); ok && (dom < 1 || dom > 31) {
		errs = append(errs, fmt.Errorf("%w: dayOfMonth: %d out of range 1-31", ErrInvalidField, dom))
	}
	switch d.policy() {
	case NoChange, PreviousWeekday, NextWeekday, NearestWeekday:
	default:
		errs = append(errs, fmt.Errorf("%w: onWeekend: unknown policy %q", ErrInvalidField, d.OnWeekend))
	}
	if n, ok := d.MaxCount.Get(); ok && n < 0 {
		errs = append(errs, fmt.Errorf("%w: maxCount: must not be negative, got %d", ErrInvalidField, n))
	}

	start, hasStart := d.StartDate.Get()
	end, hasEnd := d.EndDate.Get()
	if hasStart && hasEnd && calendarDay(end, time.UTC).Before(calendarDay(start, time.UTC)) {
		errs = append(errs, fmt.Errorf("%w: endDate: before startDate", ErrInvalidField))
	}

	return errors.Join(errs...)
}
