package sched

import (
	"context"
	"log/slog"
	"runtime"
	"time"
)

// Run calls callback once per period on a dedicated locked thread until
// callback returns false or ctx is done. The thread is configured like an
// [Aux] task thread using [WithPriority], [WithCPU] and [WithThreadInit].
//
// Run returns nil when callback finished, or ctx's error.
func Run(
	ctx context.Context,
	period time.Duration,
	name string,
	callback func() bool,
	opts ...Option,
) error {
	if period <= 0 {
		return ErrPeriod.With(slog.Duration("period", period))
	}

	s := makeSettings(opts...)
	errc := make(chan error, 1)

	go func() {
		runtime.LockOSThread()

		t := &task{name: name, priority: s.priority}

		if err := s.configure(t); err != nil {
			errc <- err

			return
		}

		ticker := time.NewTicker(period)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				errc <- ctx.Err()

				return

			case <-ticker.C:
				if !callback() {
					errc <- nil

					return
				}
			}
		}
	}()

	return <-errc
}
