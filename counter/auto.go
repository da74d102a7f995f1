package counter

import (
	"errors"
	"log/slog"
	"sync/atomic"

	"github.com/ardnew/ccnt/log"
)

// Auto initialises a [Perf] counter and falls back to a [Clock] when the
// hardware counter cannot be opened.
type Auto struct {
	Counter

	kind    atomic.Value // Kind
	claimed atomic.Bool  // set by the first Init
	ready   atomic.Bool  // set once Init completes
}

// NewAuto returns an uninitialised automatic counter.
func NewAuto() *Auto { return &Auto{} }

// Init implements [Counter].
func (a *Auto) Init(opts ...Option) error {
	if !a.claimed.CompareAndSwap(false, true) {
		return ErrInitialized.With(kindAttr(KindAuto))
	}

	perf := NewPerf()

	if err := perf.Init(opts...); err != nil {
		logf := log.Warn
		if errors.Is(err, ErrPrivilege) || errors.Is(err, ErrUnsupported) {
			logf = log.Debug
		}

		logf("hardware cycle counter unavailable, using clock", slog.Any("error", err))

		clock := NewClock()
		if err := clock.Init(opts...); err != nil {
			a.claimed.Store(false)

			return err
		}

		a.Counter = clock
		a.kind.Store(KindClock)
	} else {
		a.Counter = perf
		a.kind.Store(KindPerf)
	}

	a.ready.Store(true)

	return nil
}

// Read implements [Counter].
func (a *Auto) Read() Cycles {
	if !a.ready.Load() {
		panic(ErrNotInitialized.With(kindAttr(KindAuto)))
	}

	return a.Counter.Read()
}

// Close implements [Counter].
func (a *Auto) Close() error {
	if !a.ready.Load() {
		return nil
	}

	return a.Counter.Close()
}

// Backend returns the kind of counter chosen by Init, or [KindAuto] before
// initialisation.
func (a *Auto) Backend() Kind {
	if k, ok := a.kind.Load().(Kind); ok {
		return k
	}

	return KindAuto
}
