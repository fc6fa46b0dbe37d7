package task

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/cyp0633/librecur/recurrence"
	"github.com/samber/mo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestService_Add(t *testing.T) {
	ctx := context.Background()

	t.Run("valid", func(t *testing.T) {
		store := new(MockStore)
		store.On("Create", ctx, mock.AnythingOfType("*task.Task")).Return(nil)

		tk := &Task{Title: "laundry", Recurrence: mo.Some(recurrence.New(recurrence.UnitWeek))}
		require.NoError(t, NewService(store).Add(ctx, tk))
		assert.NotEmpty(t, tk.ID)
		store.AssertExpectations(t)
	})

	t.Run("invalid recurrence", func(t *testing.T) {
		store := new(MockStore)
		d := recurrence.New(recurrence.UnitMonth)
		d.DayOfMonth = mo.Some(40)

		err := NewService(store).Add(ctx, &Task{Title: "rent", Recurrence: mo.Some(d)})
		assert.True(t, IsErrorType(err, ErrInvalidInput))
		assert.ErrorIs(t, err, recurrence.ErrInvalidField)
		store.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("store failure", func(t *testing.T) {
		store := new(MockStore)
		store.On("Create", ctx, mock.Anything).Return(&Error{Type: ErrAlreadyExists, Message: "task already exists"})

		err := NewService(store).Add(ctx, &Task{ID: "dup", Title: "dup"})
		assert.True(t, IsErrorType(err, ErrAlreadyExists))
	})
}

func TestService_Complete(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)

	t.Run("rolls forward", func(t *testing.T) {
		var logs bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&logs, nil))

		d := recurrence.New(recurrence.UnitMonth)
		d.DayOfMonth = mo.Some(31)
		stored := repeating("pay rent", date(2024, 1, 31), d)

		store := new(MockStore)
		store.On("Get", ctx, stored.ID).Return(&stored, nil)
		store.On("Update", ctx, mock.MatchedBy(func(tk *Task) bool {
			due, ok := tk.Due.Get()
			return ok && due.Equal(date(2024, 2, 29)) && !tk.Completed
		})).Return(nil)

		got, err := NewService(store, WithLogger(logger)).Complete(ctx, stored.ID, now)
		require.NoError(t, err)
		assert.Equal(t, mo.Some(date(2024, 2, 29)), got.Due)
		assert.Contains(t, logs.String(), "repeating task rolled forward")
		store.AssertExpectations(t)
	})

	t.Run("detaches ended recurrence", func(t *testing.T) {
		d := recurrence.New(recurrence.UnitDay)
		d.MaxCount = mo.Some(0)
		stored := repeating("trial", date(2024, 1, 9), d)

		store := new(MockStore)
		store.On("Get", ctx, stored.ID).Return(&stored, nil)
		store.On("Update", ctx, mock.MatchedBy(func(tk *Task) bool {
			return tk.Completed && !tk.Repeats()
		})).Return(nil)

		got, err := NewService(store).Complete(ctx, stored.ID, now)
		require.NoError(t, err)
		assert.True(t, got.Completed)
		store.AssertExpectations(t)
	})

	t.Run("already completed", func(t *testing.T) {
		stored := New("done")
		stored.Completed = true

		store := new(MockStore)
		store.On("Get", ctx, stored.ID).Return(&stored, nil)

		_, err := NewService(store).Complete(ctx, stored.ID, now)
		assert.True(t, IsErrorType(err, ErrInvalidInput))
		store.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("not found", func(t *testing.T) {
		store := new(MockStore)
		store.On("Get", ctx, "missing").Return(nil, &Error{Type: ErrNotFound, Message: "task not found"})

		_, err := NewService(store).Complete(ctx, "missing", now)
		assert.True(t, IsErrorType(err, ErrNotFound))
	})

	t.Run("update failure", func(t *testing.T) {
		stored := New("flaky")
		boom := errors.New("disk full")

		store := new(MockStore)
		store.On("Get", ctx, stored.ID).Return(&stored, nil)
		store.On("Update", ctx, mock.Anything).Return(boom)

		_, err := NewService(store).Complete(ctx, stored.ID, now)
		assert.ErrorIs(t, err, boom)
	})
}

func TestService_Upcoming(t *testing.T) {
	ctx := context.Background()

	d := recurrence.New(recurrence.UnitWeek)
	d.IntervalLength = 2
	d.DaysOfWeek = []time.Weekday{time.Monday, time.Wednesday, time.Friday}
	stored := repeating("gym", date(2024, 1, 10), d)
	plain := New("one-off")

	store := new(MockStore)
	store.On("Get", ctx, stored.ID).Return(&stored, nil)
	store.On("Get", ctx, plain.ID).Return(&plain, nil)

	svc := NewService(store)
	got, err := svc.Upcoming(ctx, stored.ID, 4)
	require.NoError(t, err)
	assert.Equal(t, []time.Time{
		date(2024, 1, 10),
		date(2024, 1, 12),
		date(2024, 1, 22),
		date(2024, 1, 24),
	}, got)

	got, err = svc.Upcoming(ctx, plain.ID, 4)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestService_SetRecurrence(t *testing.T) {
	ctx := context.Background()
	stored := New("inbox zero")

	store := new(MockStore)
	store.On("Get", ctx, stored.ID).Return(&stored, nil)
	store.On("Update", ctx, mock.MatchedBy(func(tk *Task) bool { return tk.Repeats() })).Return(nil).Once()

	svc := NewService(store)
	require.NoError(t, svc.SetRecurrence(ctx, stored.ID, mo.Some(recurrence.New(recurrence.UnitDay))))

	bad := recurrence.New(recurrence.UnitDay)
	bad.IntervalLength = 0
	err := svc.SetRecurrence(ctx, stored.ID, mo.Some(bad))
	assert.True(t, IsErrorType(err, ErrInvalidInput))

	store.AssertExpectations(t)
}
