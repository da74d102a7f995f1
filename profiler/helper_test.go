package profiler

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/ardnew/ccnt/counter"
	"github.com/ardnew/ccnt/log"
	"github.com/ardnew/ccnt/sched"
)

func quietLogger() log.Logger { return log.Make(io.Discard) }

func quiet() Option { return WithLogger(quietLogger()) }

func fake(t *testing.T, opts ...counter.FakeOption) *counter.Fake {
	t.Helper()

	f := counter.NewFake(opts...)
	if err := f.Init(); err != nil {
		t.Fatal(err)
	}

	return f
}

// cost returns a function under test that advances f by ticks.
func cost(f *counter.Fake, ticks uint64) Func {
	return func() { f.Advance(ticks) }
}

// recordSink records sink calls as a compact transcript.
type recordSink struct {
	calls []string
}

func (s *recordSink) Label(name string)       { s.calls = append(s.calls, "L:"+name) }
func (s *recordSink) Sample(c counter.Cycles) { s.calls = append(s.calls, fmt.Sprint(c)) }
func (s *recordSink) End()                    { s.calls = append(s.calls, "E") }

func (s *recordSink) count(prefix string) (n int) {
	for _, c := range s.calls {
		if strings.HasPrefix(c, prefix) {
			n++
		}
	}

	return n
}

// manualTask is the task handle of manualScheduler.
type manualTask struct{ name string }

func (t *manualTask) Name() string  { return t.name }
func (t *manualTask) Priority() int { return 0 }

// manualScheduler records Schedule calls and runs bodies only when the test
// asks. It models a scheduler that fails to run a task on time.
type manualScheduler struct {
	mu        sync.Mutex
	body      func()
	pending   int
	scheduled chan struct{}
}

func newManualScheduler() *manualScheduler {
	return &manualScheduler{scheduled: make(chan struct{}, 16)}
}

func (s *manualScheduler) CreateTask(body func(), _ int, name string) (sched.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.body = body

	return &manualTask{name: name}, nil
}

func (s *manualScheduler) Schedule(sched.Task) error {
	s.mu.Lock()
	s.pending++
	s.mu.Unlock()

	s.scheduled <- struct{}{}

	return nil
}

// runPending runs the body once per outstanding Schedule call.
func (s *manualScheduler) runPending() {
	s.mu.Lock()
	n := s.pending
	s.pending = 0
	body := s.body
	s.mu.Unlock()

	for range n {
		body()
	}
}

func (s *manualScheduler) Close() error { return nil }

// failingScheduler refuses to schedule.
type failingScheduler struct{ *manualScheduler }

var errRefused = errors.New("refused")

func (s *failingScheduler) Schedule(sched.Task) error { return errRefused }
