package profiler

import (
	"context"
	"errors"
	"math"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/ardnew/ccnt/counter"
	"github.com/ardnew/ccnt/sched"
	"github.com/ardnew/ccnt/workload"
)

func TestMeasurement_Cycles(t *testing.T) {
	tests := []struct {
		name string
		m    Measurement
		want counter.Cycles
	}{
		{"pending", Measurement{}, 0},
		{"unset", Measurement{State: Unset}, SentinelUnset},
		{"measured zero", Measurement{State: Measured}, 0},
		{"measured one", Measurement{State: Measured, Count: 1}, 1},
		{"measured", Measurement{State: Measured, Count: 4321}, 4321},
		{"unset ignores count", Measurement{State: Unset, Count: 99}, SentinelUnset},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.m.Cycles(); got != tt.want {
				t.Errorf("Cycles() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestState_String(t *testing.T) {
	for s, want := range map[State]string{
		Pending:  "pending",
		Unset:    "unset",
		Measured: "measured",
		State(9): "State(9)",
	} {
		if got := s.String(); got != want {
			t.Errorf("State(%d).String() = %q, want %q", s, got, want)
		}
	}
}

func TestMeasure(t *testing.T) {
	f := fake(t, counter.FakeStep(3))

	if got := Measure(f, nil); got != (Measurement{State: Unset}) {
		t.Errorf("Measure(nil) = %+v", got)
	}

	if f.Reads() != 0 {
		t.Errorf("Measure(nil) read the counter %d times", f.Reads())
	}

	got := Measure(f, cost(f, 40))
	want := Measurement{State: Measured, Count: 43}

	if got != want {
		t.Errorf("Measure = %+v, want %+v", got, want)
	}
}

func TestMeasure_AcrossWrap(t *testing.T) {
	f := fake(t, counter.FakeStart(math.MaxUint32-5), counter.FakeStep(1))

	if got := Measure(f, cost(f, 20)); got.Count != 21 {
		t.Errorf("Count = %d across wrap, want 21", got.Count)
	}
}

func schedulers(t *testing.T) map[string]sched.Scheduler {
	t.Helper()

	m := map[string]sched.Scheduler{
		"inline": sched.NewInline(),
		"aux":    sched.NewAux(sched.WithLogger(quietLogger())),
	}

	for _, s := range m {
		t.Cleanup(func() { s.Close() })
	}

	return m
}

func TestDispatcher_SentinelForUnsetFunction(t *testing.T) {
	for name, s := range schedulers(t) {
		t.Run(name, func(t *testing.T) {
			d, err := NewDispatcher(fake(t, counter.FakeStep(7)), s, quiet(), WithName(name))
			if err != nil {
				t.Fatal(err)
			}

			for _, n := range []int{1, 2, 16} {
				run, err := CollectAll(context.Background(), d, n, nil)
				if err != nil {
					t.Fatal(err)
				}

				for i, m := range run {
					if m.State != Unset || m.Cycles() != SentinelUnset {
						t.Errorf("n=%d run[%d] = %+v, want unset sentinel", n, i, m)
					}
				}
			}
		})
	}
}

func TestDispatcher_MeasuresOnTask(t *testing.T) {
	for name, s := range schedulers(t) {
		t.Run(name, func(t *testing.T) {
			f := fake(t, counter.FakeStep(1))

			d, err := NewDispatcher(f, s, quiet(), WithPriority(0), WithName(name))
			if err != nil {
				t.Fatal(err)
			}

			m, err := d.MeasureOnce(context.Background(), cost(f, 250))
			if err != nil {
				t.Fatal(err)
			}

			if want := (Measurement{State: Measured, Count: 251}); m != want {
				t.Errorf("MeasureOnce = %+v, want %+v", m, want)
			}
		})
	}
}

func TestDispatcher_Busy(t *testing.T) {
	s := newManualScheduler()

	d, err := NewDispatcher(fake(t), s, quiet(), WithTimeout(0))
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())

	var (
		wg       sync.WaitGroup
		firstErr error
	)

	wg.Go(func() {
		_, firstErr = d.MeasureOnce(ctx, func() {})
	})

	<-s.scheduled

	if _, err := d.MeasureOnce(context.Background(), func() {}); !errors.Is(err, ErrBusy) {
		t.Errorf("concurrent MeasureOnce err = %v, want ErrBusy", err)
	}

	cancel()
	wg.Wait()

	if !errors.Is(firstErr, context.Canceled) {
		t.Errorf("first MeasureOnce err = %v, want context.Canceled", firstErr)
	}

	// The flag is released after the abandoned request.
	go func() {
		<-s.scheduled
		s.runPending()
	}()

	if _, err := d.MeasureOnce(context.Background(), func() {}); err != nil {
		t.Errorf("MeasureOnce after cancel: %v", err)
	}
}

func TestDispatcher_TimeoutIsolatesLateResult(t *testing.T) {
	f := fake(t, counter.FakeStep(1))
	s := newManualScheduler()

	d, err := NewDispatcher(f, s, quiet(), WithTimeout(10*time.Millisecond))
	if err != nil {
		t.Fatal(err)
	}

	_, err = d.MeasureOnce(context.Background(), cost(f, 7))
	if !errors.Is(err, ErrTimeout) {
		t.Fatalf("err = %v, want ErrTimeout", err)
	}

	<-s.scheduled

	// The abandoned run completes late and delivers to the dead request.
	s.runPending()

	go func() {
		<-s.scheduled
		s.runPending()
	}()

	m, err := d.MeasureOnce(context.Background(), cost(f, 500))
	if err != nil {
		t.Fatal(err)
	}

	if want := (Measurement{State: Measured, Count: 501}); m != want {
		t.Errorf("MeasureOnce = %+v, want %+v", m, want)
	}
}

func TestDispatcher_ScheduleError(t *testing.T) {
	d, err := NewDispatcher(fake(t), &failingScheduler{newManualScheduler()}, quiet())
	if err != nil {
		t.Fatal(err)
	}

	_, err = d.MeasureOnce(context.Background(), func() {})
	if !errors.Is(err, ErrSchedule) || !errors.Is(err, errRefused) {
		t.Errorf("err = %v, want ErrSchedule wrapping cause", err)
	}
}

func TestNewDispatcher_Errors(t *testing.T) {
	if _, err := NewDispatcher(nil, sched.NewInline()); !errors.Is(err, ErrNoCounter) {
		t.Errorf("nil counter err = %v, want ErrNoCounter", err)
	}

	s := sched.NewInline()
	s.Close()

	_, err := NewDispatcher(fake(t), s, quiet())
	if !errors.Is(err, ErrCreateTask) || !errors.Is(err, sched.ErrClosed) {
		t.Errorf("closed scheduler err = %v, want ErrCreateTask wrapping ErrClosed", err)
	}
}

func TestCollect_EmptyRun(t *testing.T) {
	d, err := NewDispatcher(fake(t), sched.NewInline(), quiet())
	if err != nil {
		t.Fatal(err)
	}

	for _, n := range []int{0, -1} {
		if _, err := CollectAll(context.Background(), d, n, nil); !errors.Is(err, ErrEmptyRun) {
			t.Errorf("CollectAll(%d) err = %v, want ErrEmptyRun", n, err)
		}

		if _, _, err := CollectMinMax(context.Background(), d, n, nil); !errors.Is(err, ErrEmptyRun) {
			t.Errorf("CollectMinMax(%d) err = %v, want ErrEmptyRun", n, err)
		}
	}
}

func TestCollectAll_LengthAndOrder(t *testing.T) {
	f := fake(t, counter.FakeStep(1))

	d, err := NewDispatcher(f, sched.NewInline(), quiet())
	if err != nil {
		t.Fatal(err)
	}

	// Call k costs k ticks, so each sample records its position.
	calls := uint64(0)
	fn := func() {
		f.Advance(calls)
		calls++
	}

	for _, n := range []int{1, 2, 16, 100} {
		calls = 0

		run, err := CollectAll(context.Background(), d, n, fn)
		if err != nil {
			t.Fatal(err)
		}

		if len(run) != n {
			t.Fatalf("len = %d, want %d", len(run), n)
		}

		want := make([]counter.Cycles, n)
		for i := range want {
			want[i] = counter.Cycles(i + 1)
		}

		if diff := cmp.Diff(want, run.Cycles()); diff != "" {
			t.Errorf("n=%d order mismatch (-want +got):\n%s", n, diff)
		}
	}
}

func TestCollectMinMax_Bounds(t *testing.T) {
	costs := []uint64{90, 3, 1000, 3, 42, 0, 77, 501}

	for n := 1; n <= len(costs); n++ {
		f := fake(t, counter.FakeStep(1))

		d, err := NewDispatcher(f, sched.NewInline(), quiet())
		if err != nil {
			t.Fatal(err)
		}

		i := 0
		fn := func() {
			f.Advance(costs[i%len(costs)])
			i++
		}

		lo, hi, err := CollectMinMax(context.Background(), d, n, fn)
		if err != nil {
			t.Fatal(err)
		}

		i = 0

		run, err := CollectAll(context.Background(), d, n, fn)
		if err != nil {
			t.Fatal(err)
		}

		for j, c := range run.Cycles() {
			if c < lo || c > hi {
				t.Errorf("n=%d run[%d]=%d outside [%d, %d]", n, j, c, lo, hi)
			}
		}

		if n == 1 && (lo != hi || lo != run[0].Cycles()) {
			t.Errorf("n=1: min=%d max=%d element=%d", lo, hi, run[0].Cycles())
		}

		if rlo, rhi := run.MinMax(); rlo != lo || rhi != hi {
			t.Errorf("n=%d Run.MinMax = (%d, %d), want (%d, %d)", n, rlo, rhi, lo, hi)
		}
	}
}

func TestCollect_AbortsOnError(t *testing.T) {
	d, err := NewDispatcher(fake(t), &failingScheduler{newManualScheduler()}, quiet())
	if err != nil {
		t.Fatal(err)
	}

	run, err := CollectAll(context.Background(), d, 4, func() {})
	if run != nil || !errors.Is(err, ErrSchedule) {
		t.Errorf("CollectAll = %v, %v; want nil, ErrSchedule", run, err)
	}

	if _, _, err := CollectMinMax(context.Background(), d, 4, func() {}); !errors.Is(err, errRefused) {
		t.Errorf("CollectMinMax err = %v, want wrapped cause", err)
	}
}

func TestCollectAll_HeavierMedianIsGreater(t *testing.T) {
	c := counter.NewClock()
	if err := c.Init(counter.WithReset(true)); err != nil {
		t.Fatal(err)
	}

	d, err := NewDispatcher(c, sched.NewInline(), quiet())
	if err != nil {
		t.Fatal(err)
	}

	median := func(fn Func) counter.Cycles {
		run, err := CollectAll(context.Background(), d, 31, fn)
		if err != nil {
			t.Fatal(err)
		}

		cs := run.Cycles()
		slices.Sort(cs)

		return cs[len(cs)/2]
	}

	acc := 1.0
	heavy := func() {
		for range 20 * workload.Iterations {
			acc = math.Sin(acc + 1)
		}
	}

	light, heavier := median(func() {}), median(heavy)
	if heavier <= light {
		t.Errorf("median(heavy) = %d <= median(empty) = %d", heavier, light)
	}
}
