// Package cli contains the command line interface for ccnt.
//
// # Usage
//
//	ccnt [flags] [run] [workload ...]
//	ccnt setup --minmax sin sinf
//	ccnt render --tui
//	ccnt history --show 3
//
// Running ccnt without a command profiles every selected workload twice:
// first on a scheduled real-time task (setup), then inline from a periodic
// real-time loop that measures one workload per tick (render).
//
// # Configuration
//
// Flag defaults are read from config.yaml in the user configuration
// directory. Keys are flag names, with either hyphens or underscores:
//
//	log-level: debug
//	counter: perf
//	runs: 32
//
// The suite file (suite.yaml beside it by default) selects workloads, the
// counter backend, scheduling priority and CPU affinity. Write both files
// with their defaults using:
//
//	ccnt init
//
// # Logging Options
//
//   - --log-level: Set minimum log level (trace, debug, info, warn, error)
//   - --log-format: Set log output format (text, json)
//   - --log-time-layout: Set timestamp format (RFC3339, Kitchen, ...)
//   - --log-caller: Include caller information in log output
//   - --log-pretty: Colorize text output
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag
// (go build -tags pprof):
//
//   - --pprof-mode: Enable profiling (allocs, block, clock, cpu, goroutine,
//     heap, mem, mutex, thread, trace)
//   - --pprof-dir: Set profile output directory
package cli
