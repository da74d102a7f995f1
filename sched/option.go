package sched

import (
	"github.com/ardnew/ccnt/log"
)

type settings struct {
	logger     log.Logger
	threadInit func(Task) error
	cpu        int
	priority   int
}

// Option configures an [Aux] scheduler or a periodic [Run].
type Option func(settings) settings

func makeSettings(opts ...Option) settings {
	s := settings{logger: log.Default(), cpu: -1}

	for _, opt := range opts {
		if opt != nil {
			s = opt(s)
		}
	}

	return s
}

// WithLogger sets the logger used for thread setup diagnostics.
func WithLogger(l log.Logger) Option {
	return func(s settings) settings {
		s.logger = l

		return s
	}
}

// WithCPU pins task threads to the given CPU. A negative value leaves the
// affinity unchanged.
func WithCPU(cpu int) Option {
	return func(s settings) settings {
		s.cpu = cpu

		return s
	}
}

// WithThreadInit registers fn to run on each task thread after it is locked
// and configured, before the first body runs. Counters bound to a thread are
// initialised here. An error aborts task creation.
func WithThreadInit(fn func(Task) error) Option {
	return func(s settings) settings {
		s.threadInit = fn

		return s
	}
}

// WithPriority sets the real-time priority of the thread driven by [Run].
func WithPriority(priority int) Option {
	return func(s settings) settings {
		s.priority = priority

		return s
	}
}
