// Package counter provides access to a monotonically increasing 32-bit cycle
// counter that wraps modulo 2^32.
//
// A [Counter] must be initialised exactly once with [Counter.Init] before it
// is read. Reading is side-effect free and kept as cheap as the backend
// allows so it does not perturb the code it brackets.
//
// Three backends exist: [Perf] reads the CPU cycle counter through the Linux
// perf_event interface, [Clock] derives ticks from the monotonic clock, and
// [Fake] is a deterministic software counter for tests. [Auto] picks Perf
// when the process may use it and Clock otherwise.
package counter

import (
	"log/slog"
	"slices"
	"strings"

	"github.com/ardnew/ccnt/pkg"
)

// Cycles is a raw counter value, or the number of ticks between two values.
type Cycles uint32

// DividerShift is the base-2 logarithm of the divider applied when a counter
// is initialised with [WithDivider].
const DividerShift = 6

// Elapsed returns the ticks between pre and post. The subtraction is modular,
// so the result is correct when the counter overflowed at most once.
func Elapsed(pre, post Cycles) Cycles { return post - pre }

// Counter is a one-shot initialised cycle counter.
type Counter interface {
	// Init enables the counter for reading from the current context.
	Init(opts ...Option) error
	// Read returns the current counter value.
	Read() Cycles
	// Close releases any resources held by the counter.
	Close() error
}

// Kind names a counter backend.
type Kind string

const (
	KindAuto  Kind = "auto"
	KindPerf  Kind = "perf"
	KindClock Kind = "clock"
	KindFake  Kind = "fake"
)

// Kinds returns the names of all counter backends.
func Kinds() []string {
	return []string{string(KindAuto), string(KindClock), string(KindFake), string(KindPerf)}
}

// New returns an uninitialised counter of the named kind.
func New(kind string) (Counter, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(kind))) {
	case KindAuto:
		return NewAuto(), nil
	case KindPerf:
		return NewPerf(), nil
	case KindClock:
		return NewClock(), nil
	case KindFake:
		return NewFake(), nil
	default:
		return nil, ErrUnknownKind.With(
			slog.String("kind", kind),
			slog.String("valid", strings.Join(slices.Sorted(slices.Values(Kinds())), ",")),
		)
	}
}

// Errors returned by counters.
var (
	ErrInitialized    = pkg.NewError("counter already initialized")
	ErrNotInitialized = pkg.NewError("counter read before initialization")
	ErrPrivilege      = pkg.NewError("insufficient privilege for cycle counter access")
	ErrUnsupported    = pkg.NewError("cycle counter unsupported on this platform")
	ErrUnknownKind    = pkg.NewError("unknown counter kind")
	ErrOpen           = pkg.NewError("open cycle counter")
)
