package profile

// Tag is the build tag that enables profiling. It also names the default
// output directory under the cache directory.
const Tag = "pprof"

// Profiler selects a profiling mode and output directory.
type Profiler struct {
	Mode  string
	Path  string
	Quiet bool
}

// Start begins profiling and returns a handle to stop it. An empty Mode, an
// unknown Mode, or a build without the pprof tag yields a no-op handle.
func (p Profiler) Start() interface{ Stop() } {
	if p.Mode == "" {
		return ignore{}
	}

	return start(p)
}

type ignore struct{}

func (ignore) Stop() {}
