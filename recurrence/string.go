package recurrence

import (
	"fmt"
	"strings"
)

// DefaultDateLayout is used by Verbose when no layout is given
const DefaultDateLayout = "Jan 2, 2006"

var weekOrdinals = [...]string{"", "first", "second", "third", "fourth", "last"}

// String renders the pattern in fixed English, e.g. "Every 2 weeks on
// Monday, Wednesday", "Monthly on the 3rd" or "Annually on March 15th".
func (d Descriptor) String() string {
	var b strings.Builder
	b.WriteString(d.frequencyText())

	switch d.IntervalUnit {
	case UnitWeek:
		if len(d.DaysOfWeek) > 0 {
			names := make([]string, len(d.DaysOfWeek))
			for i, wd := range d.DaysOfWeek {
				names[i] = wd.String()
			}
			b.WriteString(" on ")
			b.WriteString(strings.Join(names, ", "))
		}
	case UnitMonth:
		if dom, ok := d.DayOfMonth.Get(); ok {
			fmt.Fprintf(&b, " on the %s", ordinal(dom))
		} else if wn, ok := d.WeekNumber.Get(); ok {
			b.WriteString(" on the ")
			if wn >= 1 && wn < len(weekOrdinals) {
				b.WriteString(weekOrdinals[wn])
			} else {
				b.WriteString(ordinal(wn))
			}
			if len(d.DaysOfWeek) > 0 {
				b.WriteString(" ")
				b.WriteString(d.DaysOfWeek[0].String())
			} else {
				b.WriteString(" week")
			}
		}
	case UnitYear:
		if month, ok := d.Month.Get(); ok {
			fmt.Fprintf(&b, " on %s %s", month, ordinal(d.DayOfMonth.OrElse(1)))
		}
	}
	return b.String()
}

func (d Descriptor) frequencyText() string {
	n := d.length()
	if n == 1 {
		switch d.IntervalUnit {
		case UnitDay:
			return "Daily"
		case UnitWeek:
			return "Weekly"
		case UnitMonth:
			return "Monthly"
		case UnitYear:
			return "Annually"
		}
		return fmt.Sprintf("Every %s", d.IntervalUnit)
	}
	return fmt.Sprintf("Every %d %ss", n, d.IntervalUnit)
}

// Verbose renders String plus the bounds, the remaining count, the completion
// basis and the weekend policy. layout is a time layout for the bounds;
// DefaultDateLayout is used when it is empty.
func (d Descriptor) Verbose(layout string) string {
	if layout == "" {
		layout = DefaultDateLayout
	}

	parts := []string{d.String()}
	if start, ok := d.StartDate.Get(); ok {
		parts = append(parts, "starting "+start.Format(layout))
	}
	if end, ok := d.EndDate.Get(); ok {
		parts = append(parts, "until "+end.Format(layout))
	}
	if n, ok := d.MaxCount.Get(); ok {
		if n == 1 {
			parts = append(parts, "1 more time")
		} else {
			parts = append(parts, fmt.Sprintf("%d more times", n))
		}
	}
	if d.BaseOnCompletion {
		parts = append(parts, "counted from completion date")
	}
	switch d.policy() {
	case PreviousWeekday:
		parts = append(parts, "weekends move to the previous weekday")
	case NextWeekday:
		parts = append(parts, "weekends move to the next weekday")
	case NearestWeekday:
		parts = append(parts, "weekends move to the nearest weekday")
	}
	return strings.Join(parts, ", ")
}

func ordinal(n int) string {
	suffix := "th"
	switch n % 100 {
	case 11, 12, 13:
	default:
		switch n % 10 {
		case 1:
			suffix = "st"
		case 2:
			suffix = "nd"
		case 3:
			suffix = "rd"
		}
	}
	return fmt.Sprintf("%d%s", n, suffix)
}

