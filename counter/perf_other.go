//go:build !linux

package counter

import (
	"log/slog"
	"runtime"
)

// Perf is unavailable outside Linux; [Perf.Init] always fails.
type Perf struct{}

// NewPerf returns a perf counter that cannot be initialised on this platform.
func NewPerf() *Perf { return &Perf{} }

// Init implements [Counter].
func (*Perf) Init(...Option) error {
	return ErrUnsupported.With(kindAttr(KindPerf), slogOS())
}

// Read implements [Counter].
func (*Perf) Read() Cycles {
	panic(ErrNotInitialized.With(kindAttr(KindPerf)))
}

// Close implements [Counter].
func (*Perf) Close() error { return nil }

func slogOS() slog.Attr { return slog.String("goos", runtime.GOOS) }
