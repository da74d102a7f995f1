package counter

// Options control counter initialisation.
type Options struct {
	// Reset zeroes the counter (and every other counter in its group).
	Reset bool
	// Divider makes the counter advance once per 64 underlying ticks.
	Divider bool
}

// Option applies a configuration option to Options.
type Option func(Options) Options

// WithReset returns an option that zeroes the counter during [Counter.Init].
func WithReset(reset bool) Option {
	return func(o Options) Options {
		o.Reset = reset

		return o
	}
}

// WithDivider returns an option that trades precision for range: the counter
// advances once per 64 underlying ticks.
func WithDivider(divider bool) Option {
	return func(o Options) Options {
		o.Divider = divider

		return o
	}
}

func makeOptions(opts ...Option) Options {
	var o Options

	for _, opt := range opts {
		if opt != nil {
			o = opt(o)
		}
	}

	return o
}

// scale converts a raw 64-bit tick count to a counter value.
func (o Options) scale(raw uint64) Cycles {
	if o.Divider {
		raw >>= DividerShift
	}

	return Cycles(raw)
}
