// memory based implementation for tests and the command line tool
package memory

import (
	"context"
	"io"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/cyp0633/librecur/task"
)

// Store implements task.Store using an in-memory map
type Store struct {
	mu     sync.RWMutex
	tasks  map[string]task.Task // key: task ID
	now    func() time.Time
	logger *slog.Logger
}

// Option represents a configuration option for the Store
type Option func(*Store)

// WithLogger sets the logger for the store
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock overrides the clock used for Created and Modified stamps
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// New creates a new in-memory task store
func New(opts ...Option) *Store {
	s := &Store{
		tasks:  make(map[string]task.Task),
		now:    time.Now,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

func (s *Store) Get(_ context.Context, id string) (*task.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.tasks[id]
	if !ok {
		return nil, &task.Error{
			Type:    task.ErrNotFound,
			Message: "task not found",
		}
	}

	out := t.Clone()
	return &out, nil
}

// List returns matching tasks ordered by due date, undated tasks last
func (s *Store) List(_ context.Context, opts *task.ListOptions) ([]*task.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var tasks []*task.Task
	for _, t := range s.tasks {
		if opts.Matches(&t) {
			out := t.Clone()
			tasks = append(tasks, &out)
		}
	}

	slices.SortFunc(tasks, compareDue)
	return tasks, nil
}

func (s *Store) Create(_ context.Context, t *task.Task) error {
	if t.ID == "" {
		return &task.Error{
			Type:    task.ErrInvalidInput,
			Message: "task ID is required",
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.tasks[t.ID]; exists {
		s.logger.Warn("failed to create task: already exists",
			"id", t.ID)
		return &task.Error{
			Type:    task.ErrAlreadyExists,
			Message: "task already exists",
		}
	}

	now := s.now()
	t.Created = now
	t.Modified = now
	s.tasks[t.ID] = t.Clone()

	s.logger.Debug("task created",
		"id", t.ID)
	return nil
}

func (s *Store) Update(_ context.Context, t *task.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	old, exists := s.tasks[t.ID]
	if !exists {
		return &task.Error{
			Type:    task.ErrNotFound,
			Message: "task not found",
		}
	}

	t.Created = old.Created
	t.Modified = s.now()
	s.tasks[t.ID] = t.Clone()

	s.logger.Debug("task updated",
		"id", t.ID)
	return nil
}

func (s *Store) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.tasks[id]; !exists {
		return &task.Error{
			Type:    task.ErrNotFound,
			Message: "task not found",
		}
	}

	delete(s.tasks, id)

	s.logger.Debug("task deleted",
		"id", id)
	return nil
}

func compareDue(a, b *task.Task) int {
	ad, aok := a.Due.Get()
	bd, bok := b.Due.Get()
	switch {
	case aok && bok:
		if c := ad.Compare(bd); c != 0 {
			return c
		}
	case aok:
		return -1
	case bok:
		return 1
	}
	if c := a.Created.Compare(b.Created); c != 0 {
		return c
	}
	return strings.Compare(a.ID, b.ID)
}

var _ task.Store = (*Store)(nil)
