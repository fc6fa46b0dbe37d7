package recurrence

import (
	"time"

	"github.com/samber/mo"
)

// NextOccurrence computes the next date the schedule is due, relative to
// reference. A zero reference means now. The result is always at midnight in
// reference's location. StartDate and EndDate are calendar dates: only their
// year, month and day count, read in the location they carry.
//
// None means the series is over: either MaxCount is used up, or the computed
// date lies after EndDate. Callers should detach the recurrence when they see
// None. An unknown IntervalUnit yields the reference day itself.
func (d Descriptor) NextOccurrence(reference time.Time) mo.Option[time.Time] {
	// count is checked before anything is computed, the end date only after
	// weekend adjustment
	if d.Ended() {
		return mo.None[time.Time]()
	}

	if reference.IsZero() {
		reference = time.Now()
	}
	ref := StartOfDay(reference)
	start := d.effectiveStart(ref)

	var result time.Time
	switch d.IntervalUnit {
	case UnitDay:
		result = d.nextDay(ref, start)
	case UnitWeek:
		result = d.nextWeek(ref, start)
	case UnitMonth:
		result = d.nextMonth(ref, start)
	case UnitYear:
		result = d.nextYear(ref, start)
	default:
		result = ref
	}

	result = d.policy().Adjust(result)

	if end, ok := d.EndDate.Get(); ok && result.After(calendarDay(end, result.Location())) {
		return mo.None[time.Time]()
	}
	return mo.Some(result)
}

// effectiveStart is the lower bound for a computed occurrence: the later of
// ref and StartDate, pushed off the weekend where the weekend policy would
// otherwise move the result back before it.
func (d Descriptor) effectiveStart(ref time.Time) time.Time {
	start := ref
	if s, ok := d.StartDate.Get(); ok {
		if s = calendarDay(s, ref.Location()); s.After(ref) {
			start = s
		}
	}

	switch d.policy() {
	case PreviousWeekday:
		if isWeekend(start) {
			start = nextMatchingWeekday(start, []time.Weekday{time.Monday})
		}
	case NearestWeekday:
		if start.Weekday() == time.Saturday {
			start = addDays(start, 1)
		}
	}
	return start
}

func (d Descriptor) nextDay(ref, start time.Time) time.Time {
	result := addDays(ref, d.length())
	if result.Before(start) {
		result = start
	}
	return result
}

func (d Descriptor) nextWeek(ref, start time.Time) time.Time {
	if len(d.DaysOfWeek) == 0 {
		result := addDays(ref, 7*d.length())
		if result.Before(start) {
			result = nextMatchingWeekday(start, []time.Weekday{ref.Weekday()})
		}
		return result
	}

	result := nextWeeklyDay(ref, d.length(), d.DaysOfWeek)
	if result.Before(start) {
		result = nextMatchingWeekday(start, d.DaysOfWeek)
	}
	return result
}

// nextWeeklyDay finds the next listed weekday after from. Weeks start on
// Sunday; once the current week is used up, interval-1 weeks are skipped.
func nextWeeklyDay(from time.Time, interval int, days []time.Weekday) time.Time {
	today := from.Weekday()
	for _, wd := range days {
		if wd > today {
			return nextMatchingWeekday(addDays(from, 1), days)
		}
	}

	sunday := addDays(from, 7-int(today))
	return nextMatchingWeekday(addDays(sunday, 7*(interval-1)), days)
}

func (d Descriptor) nextMonth(ref, start time.Time) time.Time {
	if d.DayOfMonth.IsPresent() || d.WeekNumber.IsPresent() {
		// land two weeks short of the target month and resolve forward
		anchor := addDays(AddMonths(ref, d.length()), -14)
		result := d.resolveInMonth(anchor, ref)
		if result.Before(start) {
			result = d.resolveInMonth(start, ref)
		}
		return result
	}

	result := AddMonths(ref, d.length())
	if result.Before(start) {
		result = nextDayOfMonth(start, ref.Day())
	}
	return result
}

// resolveInMonth returns the first date on or after from that matches the
// day-of-month or n-th weekday selector. DayOfMonth wins when both are set.
func (d Descriptor) resolveInMonth(from, ref time.Time) time.Time {
	if dom, ok := d.DayOfMonth.Get(); ok {
		return nextDayOfMonth(from, dom)
	}

	weekday := ref.Weekday()
	if len(d.DaysOfWeek) > 0 {
		weekday = d.DaysOfWeek[0]
	}
	return nextNthWeekday(from, d.WeekNumber.OrElse(1), weekday)
}

func (d Descriptor) nextYear(ref, start time.Time) time.Time {
	if month, ok := d.Month.Get(); ok {
		day := d.DayOfMonth.OrElse(1)
		anchor := AddMonths(AddYears(ref, d.length()), -6)
		result := NextDayOfYear(anchor, month, day)
		if result.Before(start) {
			result = NextDayOfYear(start, month, day)
		}
		return result
	}

	result := AddYears(ref, d.length())
	if result.Before(start) {
		result = NextDayOfYear(start, ref.Month(), ref.Day())
	}
	return result
}

// Adjust moves a Saturday or Sunday date according to the policy. Weekdays
// are returned unchanged.
func (p WeekendPolicy) Adjust(t time.Time) time.Time {
	switch t.Weekday() {
	case time.Saturday:
		switch p {
		case PreviousWeekday, NearestWeekday:
			return addDays(t, -1)
		case NextWeekday:
			return addDays(t, 2)
		}
	case time.Sunday:
		switch p {
		case PreviousWeekday:
			return addDays(t, -2)
		case NextWeekday, NearestWeekday:
			return addDays(t, 1)
		}
	}
	return t
}
