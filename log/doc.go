// Package log provides a concurrency-safe simplified logging interface
// based on [log/slog].
//
// Loggers are configured at creation time with functional options:
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelDebug),
//		log.WithFormat(log.FormatText),
//		log.WithPretty(true))
//
//	logger.Info("measured", slog.String("workload", "sin"), slog.Uint64("cycles", 4211))
//
// The package also keeps a default logger used by the package-level
// functions ([Info], [DebugContext], ...). [Config] replaces it with a copy
// carrying the given options, which is how the CLI applies its --log-*
// flags.
//
// Pretty text output colours keys, values and levels with lipgloss styles.
// When the output is not a terminal the styles render as plain text.
package log
