//go:generate go tool stringer --linecomment --type State --output state_string.go

package profiler

import (
	"log/slog"

	"github.com/ardnew/ccnt/counter"
)

// State tags a [Measurement].
type State uint8

// Measurement states.
const (
	// Pending means no measurement has been delivered.
	Pending State = iota // pending
	// Unset means the task ran without a designated function.
	Unset // unset
	// Measured means Count holds a genuine cycle count.
	Measured // measured
)

// SentinelUnset is the legacy cycle value reported for an [Unset]
// measurement.
const SentinelUnset counter.Cycles = 1

// Measurement is the result of one profiling run.
type Measurement struct {
	State State
	Count counter.Cycles
}

// Cycles returns the measurement as a single number: Count when measured,
// [SentinelUnset] when unset and 0 when pending. A measured 1 and an unset
// result are indistinguishable here; inspect State to tell them apart.
func (m Measurement) Cycles() counter.Cycles {
	switch m.State {
	case Measured:
		return m.Count
	case Unset:
		return SentinelUnset
	default:
		return 0
	}
}

// LogValue implements [slog.LogValuer].
func (m Measurement) LogValue() slog.Value {
	if m.State != Measured {
		return slog.StringValue(m.State.String())
	}

	return slog.Uint64Value(uint64(m.Count))
}

// Run is an ordered sequence of measurements, one per invocation.
type Run []Measurement

// Cycles returns the legacy value of every measurement in order.
func (r Run) Cycles() []counter.Cycles {
	out := make([]counter.Cycles, len(r))
	for i, m := range r {
		out[i] = m.Cycles()
	}

	return out
}

// MinMax returns the smallest and largest legacy values in r. Both are zero
// for an empty run.
func (r Run) MinMax() (lo, hi counter.Cycles) {
	for i, m := range r {
		c := m.Cycles()
		if i == 0 {
			lo, hi = c, c

			continue
		}

		lo = min(lo, c)
		hi = max(hi, c)
	}

	return lo, hi
}
