package counter

import (
	"sync/atomic"
	"time"
)

// Clock is a portable counter backed by the monotonic clock. One tick is one
// nanosecond (or 64 with the divider).
//
// Without reset the counter starts at the wall-clock nanosecond value
// truncated to 32 bits, so it wraps like a free-running hardware counter.
type Clock struct {
	base   time.Time
	offset uint64
	opts   Options

	claimed atomic.Bool // set by the first Init
	ready   atomic.Bool // set once Init completes
}

// NewClock returns an uninitialised monotonic clock counter.
func NewClock() *Clock { return &Clock{} }

// Init implements [Counter].
func (c *Clock) Init(opts ...Option) error {
	if !c.claimed.CompareAndSwap(false, true) {
		return ErrInitialized.With(kindAttr(KindClock))
	}

	c.opts = makeOptions(opts...)
	c.base = time.Now()

	if !c.opts.Reset {
		c.offset = uint64(c.base.UnixNano())
	}

	c.ready.Store(true)

	return nil
}

// Read implements [Counter].
func (c *Clock) Read() Cycles {
	if !c.ready.Load() {
		panic(ErrNotInitialized.With(kindAttr(KindClock)))
	}

	return c.opts.scale(c.offset + uint64(time.Since(c.base)))
}

// Close implements [Counter].
func (c *Clock) Close() error { return nil }
