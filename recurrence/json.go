package recurrence

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/samber/mo"
)

var (
	// ErrMissingIntervalUnit is returned when serialized input has no intervalUnit
	ErrMissingIntervalUnit = errors.New("recurrence: intervalUnit is required")
	// ErrInvalidField is returned when a serialized field cannot be decoded
	ErrInvalidField = errors.New("recurrence: invalid field")
)

// isoLayout matches the form JavaScript's Date.toISOString produces
const isoLayout = "2006-01-02T15:04:05.000Z"

// accepted date forms on input, tried in order
var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

type wireDescriptor struct {
	IntervalUnit     string  `json:"intervalUnit"`
	IntervalLength   int     `json:"intervalLength"`
	StartDate        *string `json:"startDate"`
	BaseOnCompletion bool    `json:"baseOnCompletion"`
	WeekNumber       *int    `json:"weekNumber"`
	DaysOfWeek       []int   `json:"daysOfWeek"`
	Month            *int    `json:"month"`
	DayOfMonth       *int    `json:"dayOfMonth"`
	OnWeekend        string  `json:"onWeekend"`
	EndDate          *string `json:"endDate"`
	MaxCount         *int    `json:"maxCount"`
}

// FromJSON decodes a serialized descriptor.
//
// A missing intervalUnit is rejected; an unknown one is kept as is, so the
// engine's fallback for unknown units still applies.
func FromJSON(data []byte) (Descriptor, error) {
	var d Descriptor
	if err := json.Unmarshal(data, &d); err != nil {
		return Descriptor{}, err
	}
	return d, nil
}

// ToJSON encodes d in its serialized form
func (d Descriptor) ToJSON() ([]byte, error) {
	return json.Marshal(d)
}

// MarshalJSON implements json.Marshaler
func (d Descriptor) MarshalJSON() ([]byte, error) {
	w := wireDescriptor{
		IntervalUnit:     string(d.IntervalUnit),
		IntervalLength:   d.length(),
		StartDate:        formatDate(d.StartDate),
		BaseOnCompletion: d.BaseOnCompletion,
		WeekNumber:       optionPtr(d.WeekNumber),
		DayOfMonth:       optionPtr(d.DayOfMonth),
		OnWeekend:        string(d.policy()),
		EndDate:          formatDate(d.EndDate),
		MaxCount:         optionPtr(d.MaxCount),
	}
	if d.DaysOfWeek != nil {
		w.DaysOfWeek = make([]int, len(d.DaysOfWeek))
		for i, wd := range d.DaysOfWeek {
			w.DaysOfWeek[i] = int(wd)
		}
	}
	if m, ok := d.Month.Get(); ok {
		zeroBased := int(m) - 1
		w.Month = &zeroBased
	}
	return json.Marshal(w)
}

// UnmarshalJSON implements json.Unmarshaler
func (d *Descriptor) UnmarshalJSON(data []byte) error {
	var w wireDescriptor
	if err := json.Unmarshal(data, &w); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return fmt.Errorf("%w: %s: %v", ErrInvalidField, typeErr.Field, err)
		}
		return fmt.Errorf("failed to decode recurrence: %w", err)
	}

	if w.IntervalUnit == "" {
		return ErrMissingIntervalUnit
	}

	out := Descriptor{
		IntervalUnit:     IntervalUnit(w.IntervalUnit),
		IntervalLength:   w.IntervalLength,
		BaseOnCompletion: w.BaseOnCompletion,
		WeekNumber:       ptrOption(w.WeekNumber),
		DayOfMonth:       ptrOption(w.DayOfMonth),
		OnWeekend:        WeekendPolicy(w.OnWeekend),
		MaxCount:         ptrOption(w.MaxCount),
	}

	var err error
	if out.StartDate, err = parseDate("startDate", w.StartDate); err != nil {
		return err
	}
	if out.EndDate, err = parseDate("endDate", w.EndDate); err != nil {
		return err
	}

	if w.DaysOfWeek != nil {
		out.DaysOfWeek = make([]time.Weekday, len(w.DaysOfWeek))
		for i, wd := range w.DaysOfWeek {
			out.DaysOfWeek[i] = time.Weekday(wd)
		}
	}

	if w.Month != nil {
		if *w.Month < 0 || *w.Month > 11 {
			return fmt.Errorf("%w: month: %d out of range 0-11", ErrInvalidField, *w.Month)
		}
		out.Month = mo.Some(time.Month(*w.Month + 1))
	}

	out.IntervalLength = out.length()
	out.OnWeekend = out.policy()
	*d = out
	return nil
}

func formatDate(o mo.Option[time.Time]) *string {
	t, ok := o.Get()
	if !ok {
		return nil
	}
	s := t.UTC().Format(isoLayout)
	return &s
}

func parseDate(field string, s *string) (mo.Option[time.Time], error) {
	if s == nil || *s == "" {
		return mo.None[time.Time](), nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, *s); err == nil {
			return mo.Some(t), nil
		}
	}
	return mo.None[time.Time](), fmt.Errorf("%w: %s: cannot parse %q as a date", ErrInvalidField, field, *s)
}

func optionPtr[T any](o mo.Option[T]) *T {
	v, ok := o.Get()
	if !ok {
		return nil
	}
	return &v
}

func ptrOption[T any](p *T) mo.Option[T] {
	if p == nil {
		return mo.None[T]()
	}
	return mo.Some(*p)
}
