package profiler

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/ardnew/ccnt/counter"
	"github.com/ardnew/ccnt/sched"
)

// request is one rendezvous. Each request owns its result channel so a
// result delivered after its requester gave up is never seen by a later
// request.
type request struct {
	fn     Func
	result chan Measurement
}

// Dispatcher runs measurements on a scheduler task and waits for them.
//
// At most one request is in flight; concurrent callers of
// [Dispatcher.MeasureOnce] fail with [ErrBusy].
type Dispatcher struct {
	counter counter.Counter
	sched   sched.Scheduler
	task    sched.Task
	opts    options

	busy    atomic.Bool
	current atomic.Pointer[request]
}

// NewDispatcher creates the profiling task on s. The counter is read from the
// task's thread and must already be initialised for it.
func NewDispatcher(
	c counter.Counter,
	s sched.Scheduler,
	opts ...Option,
) (*Dispatcher, error) {
	if c == nil {
		return nil, ErrNoCounter
	}

	d := &Dispatcher{counter: c, sched: s, opts: makeOptions(opts...)}

	t, err := s.CreateTask(d.body, d.opts.priority, d.opts.name)
	if err != nil {
		return nil, ErrCreateTask.Wrap(err).With(
			slog.String("task", d.opts.name),
			slog.Int("priority", d.opts.priority),
		)
	}

	d.task = t

	d.opts.logger.Debug("profiling task created",
		slog.String("task", t.Name()),
		slog.Int("priority", t.Priority()),
		slog.Duration("timeout", d.opts.timeout),
	)

	return d, nil
}

// Task returns the scheduler task that runs measurements.
func (d *Dispatcher) Task() sched.Task { return d.task }

// body is the task body. It delivers exactly one measurement to the
// current request, or nothing if no request was ever published.
func (d *Dispatcher) body() {
	req := d.current.Load()
	if req == nil {
		return
	}

	m := Measure(d.counter, req.fn)

	select {
	case req.result <- m:
	default:
	}
}

// MeasureOnce schedules one measurement of fn and waits for it.
//
// The wait ends with [ErrTimeout] after the configured timeout, or with
// ctx's error when ctx is done. A nil fn is not an error: the task reports
// an [Unset] measurement.
func (d *Dispatcher) MeasureOnce(ctx context.Context, fn Func) (Measurement, error) {
	if !d.busy.CompareAndSwap(false, true) {
		return Measurement{}, ErrBusy.With(slog.String("task", d.task.Name()))
	}
	defer d.busy.Store(false)

	req := &request{fn: fn, result: make(chan Measurement, 1)}
	d.current.Store(req)

	if err := d.sched.Schedule(d.task); err != nil {
		return Measurement{}, ErrSchedule.Wrap(err).With(slog.String("task", d.task.Name()))
	}

	var expired <-chan time.Time

	if d.opts.timeout > 0 {
		timer := time.NewTimer(d.opts.timeout)
		defer timer.Stop()

		expired = timer.C
	}

	select {
	case m := <-req.result:
		return m, nil

	case <-expired:
		d.opts.logger.Warn("profiling task did not report",
			slog.String("task", d.task.Name()),
			slog.Duration("timeout", d.opts.timeout),
		)

		return Measurement{}, ErrTimeout.With(
			slog.String("task", d.task.Name()),
			slog.Duration("timeout", d.opts.timeout),
		)

	case <-ctx.Done():
		return Measurement{}, ctx.Err()
	}
}
