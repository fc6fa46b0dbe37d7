// Package task models to-do items that may repeat, and the completion flow that
// rolls a repeating task forward to its next due date.
package task

import (
	"time"

	"github.com/cyp0633/librecur/recurrence"
	"github.com/google/uuid"
	"github.com/samber/mo"
)

// Task is a single to-do item
type Task struct {
	ID          string
	Title       string
	Notes       string
	Due         mo.Option[time.Time]
	Completed   bool
	CompletedAt mo.Option[time.Time]
	Recurrence  mo.Option[recurrence.Descriptor]
	Created     time.Time
	Modified    time.Time
}

// New creates an open task with a fresh ID
func New(title string) Task {
	return Task{
		ID:    uuid.NewString(),
		Title: title,
	}
}

// Repeats reports whether a recurrence is attached
func (t Task) Repeats() bool {
	return t.Recurrence.IsPresent()
}

// Clone returns a copy that shares no descriptor state with t
func (t Task) Clone() Task {
	if d, ok := t.Recurrence.Get(); ok {
		t.Recurrence = mo.Some(d.Clone())
	}
	return t
}

// Complete marks the task done at now.
//
// A repeating task is not closed: its due date moves to the next occurrence and
// one repetition is consumed. The base for that computation is now when the
// descriptor counts from completion, otherwise the current due date (or now if
// the task has none). When the series has ended the recurrence is detached and
// the task is closed like any other.
//
// Complete reports whether the task rolled over to a new due date.
func (t *Task) Complete(engine *recurrence.Engine, now time.Time) bool {
	d, ok := t.Recurrence.Get()
	if !ok {
		t.close(now)
		return false
	}

	base := now
	if due, hasDue := t.Due.Get(); hasDue && !d.BaseOnCompletion {
		base = due
	}

	next, ok := engine.Next(d, base).Get()
	if !ok {
		t.Recurrence = mo.None[recurrence.Descriptor]()
		t.close(now)
		return false
	}

	d = d.Clone()
	d.Advance()
	t.Recurrence = mo.Some(d)
	t.Due = mo.Some(next)
	t.Modified = now
	return true
}

// Reopen clears the completion state
func (t *Task) Reopen(now time.Time) {
	t.Completed = false
	t.CompletedAt = mo.None[time.Time]()
	t.Modified = now
}

func (t *Task) close(now time.Time) {
	t.Completed = true
	t.CompletedAt = mo.Some(now)
	t.Modified = now
}
