package sched

import (
	"log/slog"
	"runtime"
	"sync"
)

// Aux runs every task on its own goroutine locked to an OS thread. Threads
// of tasks created with a positive priority run under SCHED_FIFO when the
// process is allowed to; otherwise a warning is logged and the task runs
// under the default policy.
type Aux struct {
	settings

	mu     sync.Mutex
	tasks  map[*task]struct{}
	quit   chan struct{}
	closed bool
	wg     sync.WaitGroup
}

// NewAux returns a threaded scheduler.
func NewAux(opts ...Option) *Aux {
	return &Aux{
		settings: makeSettings(opts...),
		tasks:    make(map[*task]struct{}),
		quit:     make(chan struct{}),
	}
}

// CreateTask implements [Scheduler]. It returns once the task thread is
// configured and idle.
func (a *Aux) CreateTask(body func(), priority int, name string) (Task, error) {
	if priority > MaxPriority {
		return nil, ErrPriority.With(
			slog.String("task", name),
			slog.Int("priority", priority),
			slog.Int("max", MaxPriority),
		)
	}

	t := &task{
		name:     name,
		priority: priority,
		body:     body,
		trigger:  make(chan struct{}, 1),
	}

	a.mu.Lock()

	if a.closed {
		a.mu.Unlock()

		return nil, ErrClosed.With(slog.String("task", name))
	}

	a.tasks[t] = struct{}{}
	a.wg.Add(1)
	a.mu.Unlock()

	ready := make(chan error, 1)

	go a.loop(t, ready)

	if err := <-ready; err != nil {
		a.mu.Lock()
		delete(a.tasks, t)
		a.mu.Unlock()

		return nil, err
	}

	a.logger.Debug("task created",
		slog.String("task", name),
		slog.Int("priority", priority),
		slog.Int("cpu", a.cpu),
	)

	return t, nil
}

// loop owns the task thread. The thread is never unlocked: it carries the
// task's scheduling policy and is discarded when the goroutine exits.
func (a *Aux) loop(t *task, ready chan<- error) {
	defer a.wg.Done()

	runtime.LockOSThread()

	err := a.configure(t)
	ready <- err

	if err != nil {
		return
	}

	for {
		select {
		case <-a.quit:
			return
		case <-t.trigger:
			t.body()
		}
	}
}

// Schedule implements [Scheduler].
func (a *Aux) Schedule(tk Task) error {
	t, _ := tk.(*task)

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.closed {
		return ErrClosed
	}

	if _, ok := a.tasks[t]; !ok || t == nil {
		return ErrUnknownTask
	}

	select {
	case t.trigger <- struct{}{}:
	default:
		a.logger.Trace("task already pending", slog.String("task", t.name))
	}

	return nil
}

// Close implements [Scheduler].
func (a *Aux) Close() error {
	a.mu.Lock()

	if a.closed {
		a.mu.Unlock()

		return nil
	}

	a.closed = true
	close(a.quit)
	a.mu.Unlock()

	a.wg.Wait()

	return nil
}

// configure applies affinity, priority and the thread init hook to the
// calling (locked) thread.
func (s settings) configure(t Task) error {
	if s.cpu >= 0 {
		if err := setAffinity(s.cpu); err != nil {
			s.logger.Warn("cpu affinity unavailable",
				slog.String("task", t.Name()),
				slog.Int("cpu", s.cpu),
				slog.Any("error", err),
			)
		}
	}

	if t.Priority() > 0 {
		if err := setPriority(t.Priority()); err != nil {
			s.logger.Warn("real-time priority unavailable",
				slog.String("task", t.Name()),
				slog.Any("error", err),
			)
		}
	}

	if s.threadInit != nil {
		if err := s.threadInit(t); err != nil {
			return ErrThreadInit.With(slog.String("task", t.Name())).Wrap(err)
		}
	}

	return nil
}
