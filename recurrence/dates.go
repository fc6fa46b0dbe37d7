package recurrence

import "time"

// StartOfDay returns midnight of t's calendar day in t's location
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// calendarDay rebuilds t's calendar date, as read in t's own location, at
// midnight in loc
func calendarDay(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// DaysInMonth returns the number of days in the month containing t
func DaysInMonth(t time.Time) int {
	return daysIn(t.Year(), t.Month())
}

func daysIn(year int, month time.Month) int {
	// day 0 of the following month is the last day of this one
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// ClampDayOfMonth returns monthStart's month with the day set to day, or to
// the last day of the month when the month is shorter. It never rolls over
// into the following month.
func ClampDayOfMonth(monthStart time.Time, day int) time.Time {
	y, m, _ := monthStart.Date()
	if last := daysIn(y, m); day > last {
		day = last
	}
	if day < 1 {
		day = 1
	}
	return time.Date(y, m, day, 0, 0, 0, 0, monthStart.Location())
}

// AddMonths adds n calendar months to t, clamping the day to the length of
// the target month: Jan 31 + 1 month is Feb 28 (or 29), not Mar 3.
func AddMonths(t time.Time, n int) time.Time {
	y, m, d := t.Date()
	first := time.Date(y, m+time.Month(n), 1, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
	if last := DaysInMonth(first); d > last {
		d = last
	}
	return first.AddDate(0, 0, d-1)
}

// AddYears adds n years to t with the same clamping as AddMonths
func AddYears(t time.Time, n int) time.Time {
	return AddMonths(t, 12*n)
}

func addDays(t time.Time, n int) time.Time {
	return t.AddDate(0, 0, n)
}

func isWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// NthWeekdayOfMonth returns the weekNumber-th weekday in monthStart's month.
// When the month has fewer occurrences (weekNumber 5 in a month with only
// four), the last occurrence is returned instead.
func NthWeekdayOfMonth(monthStart time.Time, weekNumber int, weekday time.Weekday) time.Time {
	if weekNumber < 1 {
		weekNumber = 1
	}
	if weekNumber > LastWeek {
		weekNumber = LastWeek
	}

	y, m, _ := monthStart.Date()
	first := time.Date(y, m, 1, 0, 0, 0, 0, monthStart.Location())
	day := 1 + (int(weekday)-int(first.Weekday())+7)%7 + (weekNumber-1)*7

	// at most one week past the last matching day
	if day > daysIn(y, m) {
		day -= 7
	}
	return time.Date(y, m, day, 0, 0, 0, 0, monthStart.Location())
}

// NextDayOfYear returns the first date on or after date that falls on the
// given month and day, with the day clamped to the month length.
func NextDayOfYear(date time.Time, month time.Month, day int) time.Time {
	loc := date.Location()
	thisYear := ClampDayOfMonth(time.Date(date.Year(), month, 1, 0, 0, 0, 0, loc), day)
	if !thisYear.Before(date) {
		return thisYear
	}
	return ClampDayOfMonth(time.Date(date.Year()+1, month, 1, 0, 0, 0, 0, loc), day)
}

// nextDayOfMonth returns the first date on or after from whose day of month
// is day (clamped).
func nextDayOfMonth(from time.Time, day int) time.Time {
	result := ClampDayOfMonth(from, day)
	if result.Before(from) {
		result = ClampDayOfMonth(nextMonthStart(from), day)
	}
	return result
}

// nextNthWeekday returns the first n-th weekday of a month on or after from
func nextNthWeekday(from time.Time, n int, weekday time.Weekday) time.Time {
	result := NthWeekdayOfMonth(from, n, weekday)
	if result.Before(from) {
		result = NthWeekdayOfMonth(nextMonthStart(from), n, weekday)
	}
	return result
}

func nextMonthStart(t time.Time) time.Time {
	y, m, _ := t.Date()
	return time.Date(y, m+1, 1, 0, 0, 0, 0, t.Location())
}

// nextMatchingWeekday returns the first date on or after from whose weekday
// is listed in days. days must not be empty.
func nextMatchingWeekday(from time.Time, days []time.Weekday) time.Time {
	best := 7
	for _, wd := range days {
		if delta := (int(wd) - int(from.Weekday()) + 7) % 7; delta < best {
			best = delta
		}
	}
	if best == 7 {
		return from
	}
	return addDays(from, best)
}
