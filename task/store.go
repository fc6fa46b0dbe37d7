package task

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Error types
type ErrorType string

const (
	ErrNotFound      ErrorType = "not_found"
	ErrAlreadyExists ErrorType = "already_exists"
	ErrInvalidInput  ErrorType = "invalid_input"
)

// Error represents a storage-related error
type Error struct {
	Type    ErrorType
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsErrorType reports whether err is, or wraps, a *Error of the given type
func IsErrorType(err error, typ ErrorType) bool {
	var e *Error
	return errors.As(err, &e) && e.Type == typ
}

// ListOptions narrows List results
type ListOptions struct {
	// IncludeCompleted returns closed tasks as well as open ones
	IncludeCompleted bool

	// DueBefore keeps only tasks with a due date strictly before it
	DueBefore *time.Time
}

// Store is the interface that must be implemented by task storage backends.
//
// Implementations hand out copies: mutating a returned Task, or the Task passed
// to Create or Update, never changes what is stored.
type Store interface {
	Get(ctx context.Context, id string) (*Task, error)
	List(ctx context.Context, opts *ListOptions) ([]*Task, error)
	Create(ctx context.Context, t *Task) error
	Update(ctx context.Context, t *Task) error
	Delete(ctx context.Context, id string) error
}

// Matches reports whether t passes the filter. A nil filter keeps open tasks.
func (o *ListOptions) Matches(t *Task) bool {
	if o == nil {
		return !t.Completed
	}
	if t.Completed && !o.IncludeCompleted {
		return false
	}
	if o.DueBefore != nil {
		due, ok := t.Due.Get()
		if !ok || !due.Before(*o.DueBefore) {
			return false
		}
	}
	return true
}
