package task

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/cyp0633/librecur/recurrence"
	"github.com/samber/mo"
)

// Service runs task operations against a Store
type Service struct {
	store  Store
	engine *recurrence.Engine
	logger *slog.Logger
}

// Option represents a configuration option for the Service
type Option func(*Service)

// WithLogger sets the logger for the service
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithEngine sets the recurrence engine used to roll tasks forward
func WithEngine(engine *recurrence.Engine) Option {
	return func(s *Service) {
		if engine != nil {
			s.engine = engine
		}
	}
}

// NewService creates a service backed by store
func NewService(store Store, opts ...Option) *Service {
	s := &Service{
		store:  store,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.engine == nil {
		s.engine = recurrence.NewEngineWithConfig(recurrence.DisabledCacheConfig)
	}

	return s
}

// Add validates t's recurrence, assigns an ID when missing and stores it
func (s *Service) Add(ctx context.Context, t *Task) error {
	if d, ok := t.Recurrence.Get(); ok {
		if err := d.Validate(); err != nil {
			s.logger.Warn("rejected task with invalid recurrence",
				"title", t.Title,
				"error", err)
			return &Error{
				Type:    ErrInvalidInput,
				Message: "invalid recurrence",
				Err:     err,
			}
		}
	}

	if t.ID == "" {
		t.ID = New(t.Title).ID
	}

	if err := s.store.Create(ctx, t); err != nil {
		return fmt.Errorf("create task %s: %w", t.ID, err)
	}

	s.logger.Info("task added",
		"id", t.ID,
		"repeats", t.Repeats())
	return nil
}

// Complete completes the task with the given id at now and persists the
// result. The returned task carries the new due date when the task repeats.
func (s *Service) Complete(ctx context.Context, id string, now time.Time) (*Task, error) {
	t, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get task %s: %w", id, err)
	}

	if t.Completed {
		return nil, &Error{
			Type:    ErrInvalidInput,
			Message: "task already completed",
		}
	}

	repeated := t.Repeats()
	rolled := t.Complete(s.engine, now)

	if err := s.store.Update(ctx, t); err != nil {
		return nil, fmt.Errorf("update task %s: %w", id, err)
	}

	switch {
	case rolled:
		s.logger.Info("repeating task rolled forward",
			"id", id,
			"due", t.Due.MustGet())
	case repeated:
		s.logger.Info("recurrence ended, task closed",
			"id", id)
	default:
		s.logger.Info("task completed",
			"id", id)
	}

	return t, nil
}

// Upcoming lists up to n due dates of a repeating task without changing it:
// the current due date first, then the dates it would roll forward to.
func (s *Service) Upcoming(ctx context.Context, id string, n int) ([]time.Time, error) {
	t, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get task %s: %w", id, err)
	}

	d, ok := t.Recurrence.Get()
	if !ok {
		return nil, nil
	}

	from := t.Due.OrElse(time.Now())
	out := []time.Time{}
	if t.Due.IsPresent() && n > 0 {
		out = append(out, from)
		n--
	}
	return append(out, s.engine.Preview(d, from, n)...), nil
}

// SetRecurrence attaches d to the task, or detaches when d is None
func (s *Service) SetRecurrence(ctx context.Context, id string, d mo.Option[recurrence.Descriptor]) error {
	if v, ok := d.Get(); ok {
		if err := v.Validate(); err != nil {
			return &Error{
				Type:    ErrInvalidInput,
				Message: "invalid recurrence",
				Err:     err,
			}
		}
	}

	t, err := s.store.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("get task %s: %w", id, err)
	}

	t.Recurrence = d
	t.Modified = time.Now()
	if err := s.store.Update(ctx, t); err != nil {
		return fmt.Errorf("update task %s: %w", id, err)
	}

	s.logger.Debug("recurrence updated",
		"id", id,
		"repeats", t.Repeats())
	return nil
}
