// Package profiler measures the cycle cost of functions under test.
//
// Two regimes are supported. A [Dispatcher] runs each measurement on a
// scheduler task and blocks the requester until the task reports back; the
// aggregators [CollectAll] and [CollectMinMax] repeat that rendezvous. A
// [RoundRobin] measures inline from a caller that must never block, taking
// one sample per [RoundRobin.Tick] and streaming results to a [Sink].
package profiler

import (
	"github.com/ardnew/ccnt/counter"
	"github.com/ardnew/ccnt/pkg"
)

// Func is a function under test. Closures may capture state; the same value
// may be invoked any number of times.
type Func func()

// Errors returned by this package.
var (
	ErrBusy       = pkg.NewError("profiling request already in flight")
	ErrTimeout    = pkg.NewError("timed out waiting for profiling task")
	ErrSchedule   = pkg.NewError("failed to schedule profiling task")
	ErrCreateTask = pkg.NewError("failed to create profiling task")
	ErrEmptyRun   = pkg.NewError("run length must be positive")
	ErrNoCounter  = pkg.NewError("no cycle counter")
)

// Measure brackets one call of fn with counter reads and returns the elapsed
// cycles. A nil fn yields an [Unset] measurement without reading c.
func Measure(c counter.Counter, fn Func) Measurement {
	if fn == nil {
		return Measurement{State: Unset}
	}

	return Measurement{State: Measured, Count: measure(c, fn)}
}

func measure(c counter.Counter, fn func()) counter.Cycles {
	pre := c.Read()
	fn()
	post := c.Read()

	return counter.Elapsed(pre, post)
}
