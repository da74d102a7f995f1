//go:build !linux

package sched

import (
	"log/slog"
	"runtime"
)

func setPriority(priority int) error {
	return ErrPriority.With(
		slog.Int("priority", priority),
		slog.String("goos", runtime.GOOS),
	)
}

func setAffinity(int) error { return nil }
