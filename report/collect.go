package report

import (
	"github.com/ardnew/ccnt/counter"
)

// Collector is a [profiler.Sink] that keeps every sample in memory.
// Storage for the expected workloads is allocated up front so collecting
// does not allocate while the profiler runs.
type Collector struct {
	regime  string
	results []Result
	next    int
}

// NewCollector prepares storage for names in profiling order, runs samples
// each.
func NewCollector(regime string, runs int, names ...string) *Collector {
	c := &Collector{regime: regime, results: make([]Result, len(names))}

	for i, name := range names {
		c.results[i] = Result{
			Workload: name,
			Regime:   regime,
			Cycles:   make([]counter.Cycles, 0, runs),
		}
	}

	return c
}

// Label implements [profiler.Sink].
func (c *Collector) Label(name string) {
	if c.next == len(c.results) {
		c.results = append(c.results, Result{Regime: c.regime})
	}

	c.results[c.next].Workload = name
	c.next++
}

// Sample implements [profiler.Sink].
func (c *Collector) Sample(v counter.Cycles) {
	if c.next == 0 {
		return
	}

	r := &c.results[c.next-1]
	r.Cycles = append(r.Cycles, v)
}

// End implements [profiler.Sink].
func (*Collector) End() {}

// Results summarises the collected samples of every labelled workload.
func (c *Collector) Results() []Result {
	out := make([]Result, 0, c.next)
	for _, r := range c.results[:c.next] {
		out = append(out, NewResult(r.Regime, r.Workload, r.Cycles))
	}

	return out
}
