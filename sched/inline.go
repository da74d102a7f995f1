package sched

import (
	"log/slog"
	"sync"
)

// Inline runs a task's body synchronously inside [Inline.Schedule], on the
// caller's goroutine. Priorities are recorded but not applied.
type Inline struct {
	mu     sync.Mutex
	tasks  map[*task]struct{}
	closed bool
}

// NewInline returns a synchronous scheduler.
func NewInline() *Inline {
	return &Inline{tasks: make(map[*task]struct{})}
}

// CreateTask implements [Scheduler].
func (s *Inline) CreateTask(body func(), priority int, name string) (Task, error) {
	if priority > MaxPriority {
		return nil, ErrPriority.With(slog.String("task", name), slog.Int("priority", priority))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrClosed.With(slog.String("task", name))
	}

	t := &task{name: name, priority: priority, body: body}
	s.tasks[t] = struct{}{}

	return t, nil
}

// Schedule implements [Scheduler].
func (s *Inline) Schedule(tk Task) error {
	t, _ := tk.(*task)

	s.mu.Lock()

	if s.closed {
		s.mu.Unlock()

		return ErrClosed
	}

	if _, ok := s.tasks[t]; !ok || t == nil {
		s.mu.Unlock()

		return ErrUnknownTask
	}

	s.mu.Unlock()

	t.body()

	return nil
}

// Close implements [Scheduler].
func (s *Inline) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true

	return nil
}
