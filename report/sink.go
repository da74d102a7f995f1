package report

import (
	"io"
	"sync"
	"sync/atomic"

	"github.com/ardnew/ccnt/counter"
	"github.com/ardnew/ccnt/profiler"
)

// Sink defaults.
const (
	DefaultDepth   = 16
	DefaultLineCap = 512
)

// LineSink is a [profiler.Sink] that assembles lines in reusable buffers and
// hands complete lines to a writer goroutine. Calls never block: when the
// queue is full the line is dropped and counted.
//
// Label, Sample and End must be called from one goroutine at a time.
type LineSink struct {
	regime string
	line   []byte

	queue chan []byte
	free  chan []byte

	w       io.Writer
	dropped atomic.Uint64
	written atomic.Uint64

	once sync.Once
	done chan struct{}
	err  error
}

// NewLineSink starts a sink writing to w. Lines are labelled with regime.
// depth bounds the number of queued lines; values below 1 use
// [DefaultDepth].
func NewLineSink(w io.Writer, regime string, depth int) *LineSink {
	if depth < 1 {
		depth = DefaultDepth
	}

	s := &LineSink{
		regime: regime,
		queue:  make(chan []byte, depth),
		free:   make(chan []byte, depth+1),
		w:      w,
		done:   make(chan struct{}),
	}

	for range depth + 1 {
		s.free <- make([]byte, 0, DefaultLineCap)
	}

	go s.drain()

	return s
}

func (s *LineSink) drain() {
	defer close(s.done)

	for line := range s.queue {
		if s.err == nil {
			if _, err := s.w.Write(line); err != nil {
				s.err = err
			} else {
				s.written.Add(1)
			}
		}

		select {
		case s.free <- line[:0]:
		default:
		}
	}
}

func (s *LineSink) buffer() []byte {
	select {
	case b := <-s.free:
		return b[:0]
	default:
		return make([]byte, 0, DefaultLineCap)
	}
}

// Label implements [profiler.Sink].
func (s *LineSink) Label(name string) {
	if s.line == nil {
		s.line = s.buffer()
	}

	s.line = AppendLabel(s.line[:0], s.regime, name)
}

// Sample implements [profiler.Sink].
func (s *LineSink) Sample(c counter.Cycles) {
	if s.line == nil {
		s.line = s.buffer()
	}

	s.line = AppendSample(s.line, c)
}

// End implements [profiler.Sink].
func (s *LineSink) End() {
	if s.line == nil {
		return
	}

	line := append(s.line, '\n')
	s.line = nil

	select {
	case s.queue <- line:
	default:
		s.dropped.Add(1)

		select {
		case s.free <- line[:0]:
		default:
		}
	}
}

// Dropped returns the number of lines discarded because the queue was full.
func (s *LineSink) Dropped() uint64 { return s.dropped.Load() }

// Written returns the number of lines written.
func (s *LineSink) Written() uint64 { return s.written.Load() }

// Close flushes queued lines and stops the writer. It returns the first
// write error. No sink method may be called after Close.
func (s *LineSink) Close() error {
	s.once.Do(func() { close(s.queue) })
	<-s.done

	return s.err
}

// Tally is a [profiler.Sink] that only counts events. Its counters may be
// read from any goroutine while the profiler runs.
type Tally struct {
	labels  atomic.Int64
	samples atomic.Int64
	ends    atomic.Int64
	last    atomic.Uint32
}

// Label implements [profiler.Sink].
func (t *Tally) Label(string) { t.labels.Add(1) }

// Sample implements [profiler.Sink].
func (t *Tally) Sample(c counter.Cycles) {
	t.last.Store(uint32(c))
	t.samples.Add(1)
}

// End implements [profiler.Sink].
func (t *Tally) End() { t.ends.Add(1) }

// Labels returns the number of labels seen.
func (t *Tally) Labels() int { return int(t.labels.Load()) }

// Samples returns the number of samples seen.
func (t *Tally) Samples() int { return int(t.samples.Load()) }

// Ends returns the number of completed lines.
func (t *Tally) Ends() int { return int(t.ends.Load()) }

// Last returns the most recent sample.
func (t *Tally) Last() counter.Cycles { return counter.Cycles(t.last.Load()) }

// Multi fans sink calls out to every sink in order.
type Multi []profiler.Sink

// Label implements [profiler.Sink].
func (m Multi) Label(name string) {
	for _, s := range m {
		s.Label(name)
	}
}

// Sample implements [profiler.Sink].
func (m Multi) Sample(c counter.Cycles) {
	for _, s := range m {
		s.Sample(c)
	}
}

// End implements [profiler.Sink].
func (m Multi) End() {
	for _, s := range m {
		s.End()
	}
}
