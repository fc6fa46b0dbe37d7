package recurrence

import (
	"slices"
	"time"

	"github.com/samber/mo"
)

// IntervalUnit is the calendar unit a recurrence repeats in
type IntervalUnit string

const (
	UnitDay   IntervalUnit = "day"
	UnitWeek  IntervalUnit = "week"
	UnitMonth IntervalUnit = "month"
	UnitYear  IntervalUnit = "year"
)

// Known reports whether the unit is one the engine has a calculator for
func (u IntervalUnit) Known() bool {
	switch u {
	case UnitDay, UnitWeek, UnitMonth, UnitYear:
		return true
	}
	return false
}

// WeekendPolicy controls how an occurrence landing on Saturday or Sunday is moved
type WeekendPolicy string

const (
	NoChange        WeekendPolicy = "no-change"
	PreviousWeekday WeekendPolicy = "previous-weekday"
	NextWeekday     WeekendPolicy = "next-weekday"
	NearestWeekday  WeekendPolicy = "nearest-weekday"
)

// LastWeek is the WeekNumber value meaning "last occurrence in the month"
const LastWeek = 5

// Descriptor describes a repeating schedule.
//
// A Descriptor is a value: optional fields are mo.Option so that copying a
// descriptor never shares state with the original. Only Advance mutates it.
type Descriptor struct {
	IntervalUnit     IntervalUnit
	IntervalLength   int
	StartDate        mo.Option[time.Time]
	BaseOnCompletion bool

	// Month unit selectors. WeekNumber is combined with the first entry of
	// DaysOfWeek; DayOfMonth is used by the Month and Year units.
	WeekNumber mo.Option[int]
	DaysOfWeek []time.Weekday
	Month      mo.Option[time.Month]
	DayOfMonth mo.Option[int]

	OnWeekend WeekendPolicy
	EndDate   mo.Option[time.Time]
	MaxCount  mo.Option[int]
}

// New returns the default descriptor for the given unit
func New(unit IntervalUnit) Descriptor {
	return Descriptor{
		IntervalUnit:   unit,
		IntervalLength: 1,
		OnWeekend:      NoChange,
	}
}

// length returns the interval length, treating anything below 1 as 1
func (d Descriptor) length() int {
	if d.IntervalLength < 1 {
		return 1
	}
	return d.IntervalLength
}

func (d Descriptor) policy() WeekendPolicy {
	if d.OnWeekend == "" {
		return NoChange
	}
	return d.OnWeekend
}

// Advance consumes one occurrence from MaxCount. It never goes below zero and
// leaves every other field untouched.
func (d *Descriptor) Advance() {
	if n, ok := d.MaxCount.Get(); ok && n > 0 {
		d.MaxCount = mo.Some(n - 1)
	}
}

// Ended reports whether the repetition count has been used up
func (d Descriptor) Ended() bool {
	n, ok := d.MaxCount.Get()
	return ok && n < 1
}

// IsDefault reports whether d equals New(d.IntervalUnit)
func (d Descriptor) IsDefault() bool {
	return d.IntervalLength == 1 &&
		d.StartDate.IsAbsent() &&
		!d.BaseOnCompletion &&
		d.WeekNumber.IsAbsent() &&
		len(d.DaysOfWeek) == 0 &&
		d.Month.IsAbsent() &&
		d.DayOfMonth.IsAbsent() &&
		d.policy() == NoChange &&
		d.EndDate.IsAbsent() &&
		d.MaxCount.IsAbsent()
}

// Equal compares two descriptors field by field, dates by instant
func (d Descriptor) Equal(o Descriptor) bool {
	return d.IntervalUnit == o.IntervalUnit &&
		d.length() == o.length() &&
		optionTimeEqual(d.StartDate, o.StartDate) &&
		d.BaseOnCompletion == o.BaseOnCompletion &&
		d.WeekNumber == o.WeekNumber &&
		slices.Equal(d.DaysOfWeek, o.DaysOfWeek) &&
		d.Month == o.Month &&
		d.DayOfMonth == o.DayOfMonth &&
		d.policy() == o.policy() &&
		optionTimeEqual(d.EndDate, o.EndDate) &&
		d.MaxCount == o.MaxCount
}

// Clone returns a copy that shares no backing storage with d
func (d Descriptor) Clone() Descriptor {
	d.DaysOfWeek = slices.Clone(d.DaysOfWeek)
	return d
}

func optionTimeEqual(a, b mo.Option[time.Time]) bool {
	av, aok := a.Get()
	bv, bok := b.Get()
	if aok != bok {
		return false
	}
	return !aok || av.Equal(bv)
}
