package profiler

import (
	"log/slog"

	"github.com/ardnew/ccnt/counter"
	"github.com/ardnew/ccnt/workload"
)

// Sink receives round-robin results. Label starts a workload's line,
// Sample appends one cycle count and End terminates the line.
//
// Implementations are called from the ticking thread and must not block.
type Sink interface {
	Label(name string)
	Sample(c counter.Cycles)
	End()
}

type discard struct{}

func (discard) Label(string)          {}
func (discard) Sample(counter.Cycles) {}
func (discard) End()                  {}

// RoundRobin measures a fixed list of workloads n times each, one
// measurement per [RoundRobin.Tick]. It keeps its own position and shares no
// state with any [Dispatcher].
//
// Tick does not block, sleep or allocate. It is meant to be called from a
// periodic real-time callback.
type RoundRobin struct {
	counter counter.Counter
	sink    Sink
	tests   []workload.Workload
	runs    int

	test, step int
}

// NewRoundRobin returns a profiler taking runs samples of each test. A nil
// sink discards results.
func NewRoundRobin(
	c counter.Counter,
	runs int,
	sink Sink,
	tests ...workload.Workload,
) (*RoundRobin, error) {
	if c == nil {
		return nil, ErrNoCounter
	}

	if runs <= 0 {
		return nil, ErrEmptyRun.With(slog.Int("runs", runs))
	}

	for _, t := range tests {
		if t.Func == nil {
			return nil, workload.ErrNilFunc.With(slog.String("workload", t.Name))
		}
	}

	if sink == nil {
		sink = discard{}
	}

	return &RoundRobin{
		counter: c,
		sink:    sink,
		tests:   tests,
		runs:    runs,
	}, nil
}

// Tick advances the profiler by one sample. It returns false once every
// test has been sampled, without doing anything.
func (r *RoundRobin) Tick() bool {
	if r.test >= len(r.tests) {
		return false
	}

	t := &r.tests[r.test]

	if r.step == 0 {
		r.sink.Label(t.Name)
	}

	r.sink.Sample(measure(r.counter, t.Func))

	r.step++
	if r.step == r.runs {
		r.sink.End()
		r.test++
		r.step = 0
	}

	return true
}

// State returns the index of the current test and the number of samples
// already taken of it. test equals the number of tests when done.
func (r *RoundRobin) State() (test, step int) { return r.test, r.step }

// Done reports whether every test has been sampled.
func (r *RoundRobin) Done() bool { return r.test >= len(r.tests) }

// Len returns the total number of ticks needed to finish.
func (r *RoundRobin) Len() int { return len(r.tests) * r.runs }

// Progress returns the number of samples taken so far.
func (r *RoundRobin) Progress() int { return r.test*r.runs + r.step }

// Reset rewinds the profiler to the first sample of the first test.
func (r *RoundRobin) Reset() { r.test, r.step = 0, 0 }
