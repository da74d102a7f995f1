package log_test

import (
	"log/slog"
	"os"

	"github.com/ardnew/ccnt/log"
)

func Example_basic() {
	logger := log.Make(os.Stdout, log.WithTimeLayout("none"), log.WithPretty(false))
	logger.Info("profiling started", slog.Int("runs", 16))
	// Output: level=INFO msg="profiling started" runs=16
}

func Example_levels() {
	logger := log.Make(os.Stdout,
		log.WithLevel(log.LevelWarn),
		log.WithTimeLayout("none"),
		log.WithPretty(false))

	logger.Info("info message")
	logger.Warn("scheduler priority denied", slog.Int("priority", 95))
	// Output: level=WARN msg="scheduler priority denied" priority=95
}
