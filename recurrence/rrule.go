package recurrence

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/samber/mo"
	"github.com/teambition/rrule-go"
)

// ErrUnsupportedRule is returned when a descriptor and an RRULE cannot be
// translated into each other
var ErrUnsupportedRule = errors.New("recurrence: unsupported rule")

// indexed by time.Weekday
var rruleWeekdays = [...]rrule.Weekday{rrule.SU, rrule.MO, rrule.TU, rrule.WE, rrule.TH, rrule.FR, rrule.SA}

// ROption translates the descriptor into iCalendar recurrence options.
//
// Weekend policy and completion basis have no RRULE form and are dropped.
// Days of month past the 28th are expressed with BYSETPOS=-1 so that short
// months clamp to their last day, the same way NextOccurrence does.
func (d Descriptor) ROption() (*rrule.ROption, error) {
	opt := &rrule.ROption{
		Interval: d.length(),
		Wkst:     rrule.SU,
	}

	switch d.IntervalUnit {
	case UnitDay:
		opt.Freq = rrule.DAILY
	case UnitWeek:
		opt.Freq = rrule.WEEKLY
		for _, wd := range d.DaysOfWeek {
			if wd < time.Sunday || wd > time.Saturday {
				return nil, fmt.Errorf("%w: weekday %d", ErrUnsupportedRule, int(wd))
			}
			opt.Byweekday = append(opt.Byweekday, rruleWeekdays[wd])
		}
	case UnitMonth:
		opt.Freq = rrule.MONTHLY
		if dom, ok := d.DayOfMonth.Get(); ok {
			opt.Bymonthday, opt.Bysetpos = clampedMonthDays(dom)
		} else if wn, ok := d.WeekNumber.Get(); ok {
			if len(d.DaysOfWeek) == 0 || d.DaysOfWeek[0] < time.Sunday || d.DaysOfWeek[0] > time.Saturday {
				return nil, fmt.Errorf("%w: weekNumber needs a valid first weekday", ErrUnsupportedRule)
			}
			n := wn
			if n == LastWeek {
				n = -1
			}
			wd := rruleWeekdays[d.DaysOfWeek[0]]
			opt.Byweekday = []rrule.Weekday{wd.Nth(n)}
		}
	case UnitYear:
		opt.Freq = rrule.YEARLY
		if m, ok := d.Month.Get(); ok {
			opt.Bymonth = []int{int(m)}
			opt.Bymonthday, opt.Bysetpos = clampedMonthDays(d.DayOfMonth.OrElse(1))
		}
	default:
		return nil, fmt.Errorf("%w: interval unit %q", ErrUnsupportedRule, d.IntervalUnit)
	}

	if n, ok := d.MaxCount.Get(); ok {
		if n < 1 {
			return nil, fmt.Errorf("%w: series has no occurrences left", ErrUnsupportedRule)
		}
		opt.Count = n
	}
	if end, ok := d.EndDate.Get(); ok {
		opt.Until = calendarDay(end, time.UTC)
	}
	if start, ok := d.StartDate.Get(); ok {
		opt.Dtstart = start
	}
	return opt, nil
}

// RRule returns the RRULE value (without DTSTART) for the descriptor
func (d Descriptor) RRule() (string, error) {
	opt, err := d.ROption()
	if err != nil {
		return "", err
	}
	return opt.RRuleString(), nil
}

func clampedMonthDays(day int) (bymonthday, bysetpos []int) {
	if day <= 28 {
		return []int{day}, nil
	}
	for i := 28; i <= day; i++ {
		bymonthday = append(bymonthday, i)
	}
	return bymonthday, []int{-1}
}

// FromROption builds a descriptor from recurrence options produced by
// ROption or by a calendar client using the same subset of RRULE.
func FromROption(opt *rrule.ROption) (Descriptor, error) {
	if opt == nil {
		return Descriptor{}, fmt.Errorf("%w: nil rule", ErrUnsupportedRule)
	}

	var d Descriptor
	switch opt.Freq {
	case rrule.DAILY:
		d = New(UnitDay)
	case rrule.WEEKLY:
		d = New(UnitWeek)
	case rrule.MONTHLY:
		d = New(UnitMonth)
	case rrule.YEARLY:
		d = New(UnitYear)
	default:
		return Descriptor{}, fmt.Errorf("%w: frequency %v", ErrUnsupportedRule, opt.Freq)
	}
	if opt.Interval > 1 {
		d.IntervalLength = opt.Interval
	}

	for _, wd := range opt.Byweekday {
		d.DaysOfWeek = append(d.DaysOfWeek, time.Weekday((wd.Day()+1)%7))
		if n := wd.N(); n != 0 {
			if d.IntervalUnit != UnitMonth || len(opt.Byweekday) > 1 {
				return Descriptor{}, fmt.Errorf("%w: BYDAY=%s", ErrUnsupportedRule, wd)
			}
			switch {
			case n == -1:
				d.WeekNumber = mo.Some(LastWeek)
			case n >= 1 && n <= 4:
				d.WeekNumber = mo.Some(n)
			default:
				return Descriptor{}, fmt.Errorf("%w: BYDAY=%s", ErrUnsupportedRule, wd)
			}
		}
	}

	if len(opt.Bymonth) > 1 {
		return Descriptor{}, fmt.Errorf("%w: more than one BYMONTH", ErrUnsupportedRule)
	}
	if len(opt.Bymonth) == 1 {
		d.Month = mo.Some(time.Month(opt.Bymonth[0]))
	}

	if len(opt.Bymonthday) > 0 {
		dom, err := monthDayFromRule(opt.Bymonthday, opt.Bysetpos)
		if err != nil {
			return Descriptor{}, err
		}
		d.DayOfMonth = mo.Some(dom)
	}

	if opt.Count > 0 {
		d.MaxCount = mo.Some(opt.Count)
	}
	if !opt.Until.IsZero() {
		d.EndDate = mo.Some(opt.Until)
	}
	if !opt.Dtstart.IsZero() {
		d.StartDate = mo.Some(opt.Dtstart)
	}
	return d, nil
}

func monthDayFromRule(days, setpos []int) (int, error) {
	if len(days) == 1 && len(setpos) == 0 {
		switch day := days[0]; {
		case day == -1:
			return 31, nil
		case day >= 1 && day <= 31:
			return day, nil
		}
	}

	// 28,29,...,N with BYSETPOS=-1 is how ROption writes a clamped day
	if slices.Equal(setpos, []int{-1}) && days[0] == 28 {
		for i, day := range days {
			if day != 28+i {
				return 0, fmt.Errorf("%w: BYMONTHDAY=%v", ErrUnsupportedRule, days)
			}
		}
		if last := days[len(days)-1]; last <= 31 {
			return last, nil
		}
	}
	return 0, fmt.Errorf("%w: BYMONTHDAY=%v", ErrUnsupportedRule, days)
}
