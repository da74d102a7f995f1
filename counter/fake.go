package counter

import (
	"log/slog"
	"sync"
)

// Fake is a deterministic software counter for tests.
//
// Every [Fake.Read] returns the current raw value and then advances it by the
// step. With [WithDivider] the raw value is scaled like hardware would.
type Fake struct {
	mu    sync.Mutex
	raw   uint64
	step  func(read uint64) uint64
	reads uint64
	opts  Options
	ready bool
}

// FakeOption configures a [Fake].
type FakeOption func(*Fake)

// FakeStart sets the raw value returned by the first read. Use values near
// 2^32 to exercise wraparound.
func FakeStart(raw uint64) FakeOption {
	return func(f *Fake) { f.raw = raw }
}

// FakeStep advances the counter by a constant after each read.
func FakeStep(step uint64) FakeOption {
	return func(f *Fake) { f.step = func(uint64) uint64 { return step } }
}

// FakeStepFunc advances the counter by fn(n) after read number n (from 0).
func FakeStepFunc(fn func(read uint64) uint64) FakeOption {
	return func(f *Fake) { f.step = fn }
}

// NewFake returns an uninitialised fake counter advancing by 1 per read.
func NewFake(opts ...FakeOption) *Fake {
	f := &Fake{step: func(uint64) uint64 { return 1 }}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// Init implements [Counter].
func (f *Fake) Init(opts ...Option) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.ready {
		return ErrInitialized.With(kindAttr(KindFake))
	}

	f.opts = makeOptions(opts...)
	if f.opts.Reset {
		f.raw = 0
	}

	f.ready = true

	return nil
}

// Read implements [Counter].
func (f *Fake) Read() Cycles {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.ready {
		panic(ErrNotInitialized.With(kindAttr(KindFake)))
	}

	v := f.opts.scale(f.raw)
	f.raw += f.step(f.reads)
	f.reads++

	return v
}

// Advance moves the counter forward without a read, simulating work done
// between two reads.
func (f *Fake) Advance(ticks uint64) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.raw += ticks
}

// Reads returns how many times the counter has been read.
func (f *Fake) Reads() uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.reads
}

// Close implements [Counter].
func (f *Fake) Close() error { return nil }

func kindAttr(k Kind) slog.Attr { return slog.String("kind", string(k)) }
