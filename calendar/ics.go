// Package calendar exports tasks as iCalendar VTODO components, either in the
// plain text format (RFC 5545) or as xCal (RFC 6321).
package calendar

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/cyp0633/librecur/recurrence"
	"github.com/cyp0633/librecur/task"
	"github.com/emersion/go-ical"
	"github.com/samber/mo"
)

// ProductID is written to every exported calendar
const ProductID = "-//github.com/cyp0633/librecur//NONSGML v1.0//EN"

const (
	statusNeedsAction = "NEEDS-ACTION"
	statusCompleted   = "COMPLETED"
	dateFormat        = "20060102"
)

// NewCalendar returns an empty VCALENDAR with PRODID and VERSION set
func NewCalendar() *ical.Calendar {
	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropProductID, ProductID)
	cal.Props.SetText(ical.PropVersion, "2.0")
	return cal
}

// TodoComponent converts a task to a VTODO. now is used for DTSTAMP.
func TodoComponent(t task.Task, now time.Time) (*ical.Component, error) {
	todo := ical.NewComponent(ical.CompToDo)
	todo.Props.SetText(ical.PropUID, t.ID)
	todo.Props.SetDateTime(ical.PropDateTimeStamp, now.UTC())
	todo.Props.SetText(ical.PropSummary, t.Title)
	if t.Notes != "" {
		todo.Props.SetText(ical.PropDescription, t.Notes)
	}

	if d, ok := t.Recurrence.Get(); ok {
		if err := recurrence.ApplyToComponent(todo, d); err != nil {
			return nil, fmt.Errorf("task %s: %w", t.ID, err)
		}
	}

	if due, ok := t.Due.Get(); ok {
		setDate(todo.Props, ical.PropDue, due)
		// an RRULE needs a DTSTART; without a start date the series hangs off the due date
		if t.Repeats() && todo.Props.Get(ical.PropDateTimeStart) == nil {
			setDate(todo.Props, ical.PropDateTimeStart, due)
		}
	}

	if t.Completed {
		todo.Props.SetText(ical.PropStatus, statusCompleted)
		if at, ok := t.CompletedAt.Get(); ok {
			todo.Props.SetDateTime(ical.PropCompleted, at.UTC())
		}
	} else {
		todo.Props.SetText(ical.PropStatus, statusNeedsAction)
	}

	return todo, nil
}

// BuildICS encodes tasks as a VCALENDAR with one VTODO each
func BuildICS(tasks []task.Task, now time.Time) ([]byte, error) {
	cal := NewCalendar()
	for _, t := range tasks {
		todo, err := TodoComponent(t, now)
		if err != nil {
			return nil, err
		}
		cal.Children = append(cal.Children, todo)
	}

	var buf bytes.Buffer
	enc := ical.NewEncoder(&buf)
	if err := enc.Encode(cal); err != nil {
		return nil, fmt.Errorf("failed to encode calendar: %w", err)
	}
	return buf.Bytes(), nil
}

// ParseICS reads every VTODO of every calendar in r back into tasks. Other
// component types are skipped.
func ParseICS(r io.Reader) ([]task.Task, error) {
	dec := ical.NewDecoder(r)

	var tasks []task.Task
	for {
		cal, err := dec.Decode()
		if errors.Is(err, io.EOF) {
			break
		} else if err != nil {
			return nil, fmt.Errorf("failed to decode calendar: %w", err)
		}

		for _, child := range cal.Children {
			if child.Name != ical.CompToDo {
				continue
			}
			t, err := taskFromComponent(child)
			if err != nil {
				return nil, err
			}
			tasks = append(tasks, t)
		}
	}
	return tasks, nil
}

func taskFromComponent(comp *ical.Component) (task.Task, error) {
	var t task.Task

	uid, err := comp.Props.Text(ical.PropUID)
	if err != nil || uid == "" {
		return t, errors.New("VTODO without UID")
	}
	t.ID = uid
	t.Title, _ = comp.Props.Text(ical.PropSummary)
	t.Notes, _ = comp.Props.Text(ical.PropDescription)

	if comp.Props.Get(ical.PropDue) != nil {
		due, err := comp.Props.DateTime(ical.PropDue, time.UTC)
		if err != nil {
			return t, fmt.Errorf("task %s: invalid DUE: %w", uid, err)
		}
		t.Due = mo.Some(due)
	}

	if status, _ := comp.Props.Text(ical.PropStatus); status == statusCompleted {
		t.Completed = true
		if at, err := comp.Props.DateTime(ical.PropCompleted, time.UTC); err == nil && !at.IsZero() {
			t.CompletedAt = mo.Some(at)
		}
	}

	d, err := recurrence.ExtractDescriptorFromComponent(comp)
	if err != nil {
		return t, fmt.Errorf("task %s: %w", uid, err)
	}
	t.Recurrence = d

	// a DTSTART equal to DUE was only written to anchor the RRULE
	if start, ok := t.Due.Get(); ok && t.Repeats() {
		desc := t.Recurrence.MustGet()
		if s, ok := desc.StartDate.Get(); ok && s.Equal(start) {
			desc.StartDate = mo.None[time.Time]()
			t.Recurrence = mo.Some(desc)
		}
	}
	return t, nil
}

func setDate(props ical.Props, name string, t time.Time) {
	prop := ical.NewProp(name)
	prop.Params.Set(ical.ParamValue, "DATE")
	prop.Value = t.Format(dateFormat)
	props.Set(prop)
}
