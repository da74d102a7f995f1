package cmd

import (
	"context"
	"log/slog"

	"github.com/ardnew/ccnt/log"
	"github.com/ardnew/ccnt/report"
)

// Setup profiles workloads through the scheduled regime: each sample is a
// rendezvous with a real-time task that owns the cycle counter.
type Setup struct {
	MinMax    bool     `help:"Report only the minimum and maximum of each workload." name:"minmax"`
	Format    string   `default:"text" enum:"${formatEnum}" help:"Output format (${enum})."       short:"F"`
	Output    string   `help:"Write output to file ('-' for stdout)."                             placeholder:"FILE" short:"o" type:"path"`
	Workloads []string `arg:""         help:"Workloads to profile (default: suite selection)."  optional:""`
}

// Run executes the setup command.
func (c *Setup) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	// Fail on a bad format or output before profiling.
	f, err := parseFormat(c.Format)
	if err != nil {
		return err
	}

	s, err := newSession(ctx, c.Workloads...)
	if err != nil {
		return err
	}

	w, err := openOutput(s.Stdout, c.Output, f)
	if err != nil {
		return err
	}

	defer closeOutput(w, c.Output, &err)

	r, err := s.setup(ctx, c.MinMax)
	if err != nil {
		return err
	}

	log.DebugContext(ctx, "setup complete",
		slog.Int("workloads", len(r.Results)),
		slog.Duration("elapsed", r.Elapsed),
	)

	if err := report.Write(w, f, r); err != nil {
		return err
	}

	return s.save(ctx, r)
}
