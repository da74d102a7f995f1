package profiler

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ardnew/ccnt/counter"
	"github.com/ardnew/ccnt/workload"
)

func named(f *counter.Fake, names ...string) []workload.Workload {
	ws := make([]workload.Workload, len(names))
	for i, name := range names {
		ws[i] = workload.Workload{Name: name, Func: cost(f, uint64(10*(i+1)))}
	}

	return ws
}

func TestRoundRobin_SixteenTicksOneFunction(t *testing.T) {
	f := fake(t, counter.FakeStep(1))
	sink := &recordSink{}

	rr, err := NewRoundRobin(f, 16, sink, named(f, "sin")...)
	if err != nil {
		t.Fatal(err)
	}

	for i := range 16 {
		if !rr.Tick() {
			t.Fatalf("tick %d reported done", i)
		}
	}

	if got := sink.count("L:"); got != 1 {
		t.Errorf("labels = %d, want 1", got)
	}

	if got := sink.count("11"); got != 16 {
		t.Errorf("samples = %d, want 16", got)
	}

	if got := sink.count("E"); got != 1 {
		t.Errorf("terminators = %d, want 1", got)
	}

	if test, step := rr.State(); test != 1 || step != 0 {
		t.Errorf("State() = (%d, %d), want (1, 0)", test, step)
	}

	if !rr.Done() {
		t.Error("Done() = false after all samples")
	}
}

func TestRoundRobin_Transcript(t *testing.T) {
	f := fake(t, counter.FakeStep(1))
	sink := &recordSink{}

	rr, err := NewRoundRobin(f, 2, sink, named(f, "a", "b")...)
	if err != nil {
		t.Fatal(err)
	}

	for rr.Tick() {
	}

	want := []string{"L:a", "11", "11", "E", "L:b", "21", "21", "E"}
	if diff := cmp.Diff(want, sink.calls); diff != "" {
		t.Errorf("transcript mismatch (-want +got):\n%s", diff)
	}
}

func TestRoundRobin_Termination(t *testing.T) {
	for _, tc := range []struct{ k, n int }{{1, 1}, {1, 16}, {4, 16}, {3, 5}, {0, 3}} {
		t.Run(fmt.Sprintf("K=%d,N=%d", tc.k, tc.n), func(t *testing.T) {
			f := fake(t)
			sink := &recordSink{}

			names := make([]string, tc.k)
			for i := range names {
				names[i] = fmt.Sprint("w", i)
			}

			rr, err := NewRoundRobin(f, tc.n, sink, named(f, names...)...)
			if err != nil {
				t.Fatal(err)
			}

			if rr.Len() != tc.k*tc.n {
				t.Errorf("Len() = %d, want %d", rr.Len(), tc.k*tc.n)
			}

			for i := range tc.k * tc.n {
				if rr.Done() {
					t.Fatalf("done after %d ticks", i)
				}

				if rr.Progress() != i {
					t.Errorf("Progress() = %d before tick %d", rr.Progress(), i)
				}

				if !rr.Tick() {
					t.Fatalf("tick %d was a no-op", i)
				}
			}

			calls := len(sink.calls)
			reads := f.Reads()

			for range 3 {
				if rr.Tick() {
					t.Fatal("tick after terminal state did work")
				}
			}

			if len(sink.calls) != calls || f.Reads() != reads {
				t.Error("terminal ticks touched the sink or counter")
			}

			if test, step := rr.State(); test != tc.k || step != 0 {
				t.Errorf("State() = (%d, %d), want (%d, 0)", test, step, tc.k)
			}

			if got := sink.count("E"); got != tc.k {
				t.Errorf("terminators = %d, want %d", got, tc.k)
			}
		})
	}
}

func TestRoundRobin_Reset(t *testing.T) {
	f := fake(t)
	sink := &recordSink{}

	rr, err := NewRoundRobin(f, 3, sink, named(f, "x")...)
	if err != nil {
		t.Fatal(err)
	}

	for rr.Tick() {
	}

	rr.Reset()

	if rr.Done() || rr.Progress() != 0 {
		t.Fatal("Reset did not rewind")
	}

	if !rr.Tick() {
		t.Error("Tick after Reset was a no-op")
	}

	if got := sink.count("L:x"); got != 2 {
		t.Errorf("labels = %d, want 2", got)
	}
}

func TestNewRoundRobin_Errors(t *testing.T) {
	f := fake(t)

	tests := []struct {
		name  string
		c     counter.Counter
		runs  int
		tests []workload.Workload
		want  error
	}{
		{"no counter", nil, 1, nil, ErrNoCounter},
		{"zero runs", f, 0, nil, ErrEmptyRun},
		{"negative runs", f, -4, nil, ErrEmptyRun},
		{"nil func", f, 1, []workload.Workload{{Name: "nil"}}, workload.ErrNilFunc},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewRoundRobin(tt.c, tt.runs, nil, tt.tests...); !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestRoundRobin_NilSinkDiscards(t *testing.T) {
	f := fake(t)

	rr, err := NewRoundRobin(f, 2, nil, named(f, "x")...)
	if err != nil {
		t.Fatal(err)
	}

	for rr.Tick() {
	}

	if f.Reads() != 4 {
		t.Errorf("Reads() = %d, want 4", f.Reads())
	}
}

func TestRoundRobin_TickDoesNotAllocate(t *testing.T) {
	f := fake(t)

	rr, err := NewRoundRobin(f, 1<<30, nil, workload.Builtins()...)
	if err != nil {
		t.Fatal(err)
	}

	if n := testing.AllocsPerRun(100, func() { rr.Tick() }); n != 0 {
		t.Errorf("Tick allocates %v times per call", n)
	}
}

func BenchmarkRoundRobin_Tick(b *testing.B) {
	c := counter.NewClock()
	if err := c.Init(); err != nil {
		b.Fatal(err)
	}

	rr, err := NewRoundRobin(c, 1<<30, nil, workload.Empty())
	if err != nil {
		b.Fatal(err)
	}

	for b.Loop() {
		rr.Tick()
	}
}
