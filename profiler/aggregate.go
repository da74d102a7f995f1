package profiler

import (
	"context"
	"log/slog"

	"github.com/ardnew/ccnt/counter"
	"github.com/ardnew/ccnt/pkg"
)

// Measurer performs one blocking measurement. [*Dispatcher] is the
// canonical implementation.
type Measurer interface {
	MeasureOnce(ctx context.Context, fn Func) (Measurement, error)
}

// CollectAll performs exactly n sequential measurements of fn and returns
// them in invocation order. The first failing rendezvous aborts the run.
func CollectAll(ctx context.Context, m Measurer, n int, fn Func) (Run, error) {
	if n <= 0 {
		return nil, ErrEmptyRun.With(slog.Int("runs", n))
	}

	run := make(Run, 0, n)

	for i := range n {
		r, err := m.MeasureOnce(ctx, fn)
		if err != nil {
			return nil, pkg.WrapError(err).With(slog.Int("index", i), slog.Int("runs", n))
		}

		run = append(run, r)
	}

	return run, nil
}

// CollectMinMax performs n sequential measurements of fn and returns the
// smallest and largest cycle counts. Unset measurements count as
// [SentinelUnset].
func CollectMinMax(
	ctx context.Context,
	m Measurer,
	n int,
	fn Func,
) (lo, hi counter.Cycles, err error) {
	if n <= 0 {
		return 0, 0, ErrEmptyRun.With(slog.Int("runs", n))
	}

	for i := range n {
		r, err := m.MeasureOnce(ctx, fn)
		if err != nil {
			return 0, 0, pkg.WrapError(err).With(slog.Int("index", i), slog.Int("runs", n))
		}

		c := r.Cycles()
		if i == 0 {
			lo, hi = c, c

			continue
		}

		lo = min(lo, c)
		hi = max(hi, c)
	}

	return lo, hi, nil
}
