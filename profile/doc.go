// Package profile provides optional runtime profiling of the ccnt process
// itself.
//
// It wraps [github.com/pkg/profile] and is compiled in only with the pprof
// build tag:
//
//	go build -tags pprof .
//	ccnt --pprof-mode=cpu setup
//	go tool pprof -http=: ~/.cache/ccnt/pprof/cpu.pprof
//
// Without the tag, [Modes] is empty and [Profiler.Start] does nothing.
//
// Profiling ccnt perturbs the cycle counts it reports. Use it to investigate
// the harness, not the workloads.
package profile
