package profiler

import (
	"time"

	"github.com/ardnew/ccnt/log"
)

// Dispatcher defaults.
const (
	// DefaultPriority matches the priority of an audio render thread.
	DefaultPriority = 95
	DefaultName     = "ccnt-profiler"
	DefaultTimeout  = time.Second
)

type options struct {
	logger   log.Logger
	name     string
	priority int
	timeout  time.Duration
}

// Option configures a [Dispatcher].
type Option func(options) options

func makeOptions(opts ...Option) options {
	o := options{
		logger:   log.Default(),
		name:     DefaultName,
		priority: DefaultPriority,
		timeout:  DefaultTimeout,
	}

	for _, opt := range opts {
		if opt != nil {
			o = opt(o)
		}
	}

	return o
}

// WithPriority sets the scheduler priority of the profiling task.
func WithPriority(priority int) Option {
	return func(o options) options {
		o.priority = priority

		return o
	}
}

// WithName sets the name of the profiling task.
func WithName(name string) Option {
	return func(o options) options {
		o.name = name

		return o
	}
}

// WithTimeout bounds each rendezvous. Zero waits forever.
func WithTimeout(d time.Duration) Option {
	return func(o options) options {
		o.timeout = max(d, 0)

		return o
	}
}

// WithLogger sets the logger.
func WithLogger(l log.Logger) Option {
	return func(o options) options {
		o.logger = l

		return o
	}
}
