package task

import (
	"testing"
	"time"

	"github.com/cyp0633/librecur/recurrence"
	"github.com/samber/mo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func repeating(title string, due time.Time, d recurrence.Descriptor) Task {
	t := New(title)
	t.Due = mo.Some(due)
	t.Recurrence = mo.Some(d)
	return t
}

func TestNew(t *testing.T) {
	a, b := New("a"), New("b")
	assert.NotEmpty(t, a.ID)
	assert.NotEqual(t, a.ID, b.ID)
	assert.False(t, a.Repeats())
	assert.False(t, a.Completed)
}

func TestTask_Complete(t *testing.T) {
	engine := recurrence.NewEngine()
	defer engine.Close()

	now := time.Date(2024, 1, 10, 15, 30, 0, 0, time.UTC)

	t.Run("one-off", func(t *testing.T) {
		tk := New("file taxes")
		tk.Due = mo.Some(date(2024, 1, 8))

		assert.False(t, tk.Complete(engine, now))
		assert.True(t, tk.Completed)
		assert.Equal(t, mo.Some(now), tk.CompletedAt)
		assert.Equal(t, mo.Some(date(2024, 1, 8)), tk.Due)
	})

	t.Run("from due date", func(t *testing.T) {
		d := recurrence.New(recurrence.UnitWeek)
		d.MaxCount = mo.Some(3)
		tk := repeating("review", date(2024, 1, 8), d)

		assert.True(t, tk.Complete(engine, now))
		assert.False(t, tk.Completed)
		assert.Equal(t, mo.Some(date(2024, 1, 15)), tk.Due)
		assert.Equal(t, mo.Some(2), tk.Recurrence.MustGet().MaxCount)
		assert.Equal(t, mo.Some(3), d.MaxCount, "caller's descriptor must not change")
	})

	t.Run("from completion", func(t *testing.T) {
		d := recurrence.New(recurrence.UnitDay)
		d.IntervalLength = 3
		d.BaseOnCompletion = true
		tk := repeating("water plants", date(2024, 1, 8), d)

		assert.True(t, tk.Complete(engine, now))
		assert.Equal(t, mo.Some(date(2024, 1, 13)), tk.Due)
	})

	t.Run("without due date", func(t *testing.T) {
		tk := New("stretch")
		tk.Recurrence = mo.Some(recurrence.New(recurrence.UnitDay))

		assert.True(t, tk.Complete(engine, now))
		assert.Equal(t, mo.Some(date(2024, 1, 11)), tk.Due)
	})

	t.Run("count used up", func(t *testing.T) {
		d := recurrence.New(recurrence.UnitDay)
		d.MaxCount = mo.Some(1)
		tk := repeating("dose", date(2024, 1, 8), d)

		require.True(t, tk.Complete(engine, now))
		assert.Equal(t, mo.Some(date(2024, 1, 9)), tk.Due)

		assert.False(t, tk.Complete(engine, now))
		assert.True(t, tk.Completed)
		assert.False(t, tk.Repeats())
		assert.Equal(t, mo.Some(date(2024, 1, 9)), tk.Due)
	})

	t.Run("past end date", func(t *testing.T) {
		d := recurrence.New(recurrence.UnitDay)
		d.EndDate = mo.Some(date(2024, 1, 8))
		tk := repeating("campaign", date(2024, 1, 8), d)

		assert.False(t, tk.Complete(engine, now))
		assert.True(t, tk.Completed)
		assert.False(t, tk.Repeats())
	})
}

func TestTask_Reopen(t *testing.T) {
	engine := recurrence.NewEngineWithConfig(recurrence.DisabledCacheConfig)
	tk := New("call back")
	tk.Complete(engine, date(2024, 1, 1))
	require.True(t, tk.Completed)

	tk.Reopen(date(2024, 1, 2))
	assert.False(t, tk.Completed)
	assert.True(t, tk.CompletedAt.IsAbsent())
	assert.Equal(t, date(2024, 1, 2), tk.Modified)
}

func TestListOptions_Matches(t *testing.T) {
	open := New("open")
	open.Due = mo.Some(date(2024, 1, 5))
	closed := New("closed")
	closed.Completed = true
	undated := New("undated")

	cutoff := date(2024, 1, 6)
	early := date(2024, 1, 5)

	assert.True(t, (*ListOptions)(nil).Matches(&open))
	assert.False(t, (*ListOptions)(nil).Matches(&closed))
	assert.True(t, (&ListOptions{IncludeCompleted: true}).Matches(&closed))
	assert.True(t, (&ListOptions{DueBefore: &cutoff}).Matches(&open))
	assert.False(t, (&ListOptions{DueBefore: &early}).Matches(&open))
	assert.False(t, (&ListOptions{DueBefore: &cutoff}).Matches(&undated))
}

func TestError(t *testing.T) {
	err := &Error{Type: ErrNotFound, Message: "task not found"}
	assert.Equal(t, "not_found: task not found", err.Error())
	assert.True(t, IsErrorType(err, ErrNotFound))
	assert.False(t, IsErrorType(err, ErrInvalidInput))

	inner := assert.AnError
	wrapped := &Error{Type: ErrInvalidInput, Message: "invalid recurrence", Err: inner}
	assert.ErrorIs(t, wrapped, inner)
	assert.Contains(t, wrapped.Error(), inner.Error())
}
