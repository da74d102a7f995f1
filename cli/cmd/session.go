package cmd

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"time"

	"github.com/ardnew/ccnt/counter"
	"github.com/ardnew/ccnt/log"
	"github.com/ardnew/ccnt/pkg"
	"github.com/ardnew/ccnt/profiler"
	"github.com/ardnew/ccnt/report"
	"github.com/ardnew/ccnt/sched"
	"github.com/ardnew/ccnt/store"
	"github.com/ardnew/ccnt/suite"
	"github.com/ardnew/ccnt/workload"
)

// renderTask names the periodic render thread.
const renderTask = pkg.Name + "-render"

// session is one profiling invocation: a suite with the global overrides
// applied and the workloads it selects.
type session struct {
	Globals

	suite     suite.Config
	workloads []workload.Workload
}

// newSession loads the suite named by the globals in ctx and selects the
// named workloads, or the suite's own selection when names is empty. A
// missing suite file at the default path is not an error.
func newSession(ctx context.Context, names ...string) (*session, error) {
	g := globalsFrom(ctx)

	cfg, err := loadSuite(ctx, g.Suite)
	if err != nil {
		return nil, err
	}

	if g.Counter != "" {
		cfg.Counter = g.Counter
	}

	if g.Runs > 0 {
		cfg.Runs = g.Runs
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	ws, err := cfg.Select(names...)
	if err != nil {
		return nil, err
	}

	log.DebugContext(ctx, "session",
		slog.String("suite", g.Suite),
		slog.String("counter", string(cfg.Counter)),
		slog.Int("runs", cfg.Runs),
		slog.Int("workloads", len(ws)),
	)

	return &session{Globals: g, suite: cfg, workloads: ws}, nil
}

func loadSuite(ctx context.Context, path string) (suite.Config, error) {
	if path == "" {
		return suite.Default(), nil
	}

	cfg, err := suite.Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		log.DebugContext(ctx, "suite file not found, using defaults",
			slog.String("path", path),
		)

		return suite.Default(), nil
	}

	return cfg, err
}

func (s *session) names() []string {
	names := make([]string, len(s.workloads))
	for i, w := range s.workloads {
		names[i] = w.Name
	}

	return names
}

func (s *session) counterOptions() []counter.Option {
	return []counter.Option{
		counter.WithReset(s.suite.Reset),
		counter.WithDivider(s.suite.Divider),
	}
}

// newCounter returns an uninitialised counter and a thread-init hook that
// initialises it on the thread that reads it.
func (s *session) newCounter() (counter.Counter, func(sched.Task) error, error) {
	c, err := counter.New(string(s.suite.Counter))
	if err != nil {
		return nil, nil, err
	}

	opts := s.counterOptions()

	return c, func(sched.Task) error { return c.Init(opts...) }, nil
}

// backend names the counter that was actually used.
func backend(c counter.Counter, kind counter.Kind) string {
	if a, ok := c.(*counter.Auto); ok {
		return string(a.Backend())
	}

	return string(kind)
}

func (s *session) report(
	started time.Time,
	c counter.Counter,
	minmax bool,
	results []report.Result,
) report.Report {
	return report.Report{
		Program:     pkg.Name,
		Version:     pkg.Version(),
		Counter:     backend(c, s.suite.Counter),
		Runs:        s.suite.Runs,
		MinMax:      minmax,
		Fingerprint: s.suite.Fingerprint(),
		Started:     started.UTC(),
		Elapsed:     time.Since(started),
		Results:     results,
	}
}

// setup measures every workload through the scheduled regime: a real-time
// task owns the counter and each sample is a rendezvous with it.
func (s *session) setup(ctx context.Context, minmax bool) (report.Report, error) {
	started := time.Now()

	c, threadInit, err := s.newCounter()
	if err != nil {
		return report.Report{}, err
	}
	defer c.Close()

	aux := sched.NewAux(
		sched.WithCPU(s.suite.CPU),
		sched.WithThreadInit(threadInit),
	)
	defer aux.Close()

	d, err := profiler.NewDispatcher(c, aux,
		profiler.WithPriority(s.suite.Priority),
		profiler.WithTimeout(s.suite.Timeout),
	)
	if err != nil {
		return report.Report{}, err
	}

	results := make([]report.Result, 0, len(s.workloads))

	for _, w := range s.workloads {
		if minmax {
			lo, hi, err := profiler.CollectMinMax(ctx, d, s.suite.Runs, w.Func)
			if err != nil {
				return report.Report{}, pkg.WrapError(err).With(slog.String("workload", w.Name))
			}

			results = append(results, report.NewMinMaxResult(report.RegimeSetup, w.Name, lo, hi))

			continue
		}

		run, err := profiler.CollectAll(ctx, d, s.suite.Runs, w.Func)
		if err != nil {
			return report.Report{}, pkg.WrapError(err).With(slog.String("workload", w.Name))
		}

		results = append(results, report.NewResult(report.RegimeSetup, w.Name, run.Cycles()))
	}

	return s.report(started, c, minmax, results), nil
}

// render measures every workload through the inline regime: a periodic
// real-time loop takes one sample per tick. Each sample is also delivered to
// sinks as it is taken.
func (s *session) render(
	ctx context.Context,
	period time.Duration,
	sinks ...profiler.Sink,
) (report.Report, error) {
	started := time.Now()

	if period <= 0 {
		period = s.suite.Period
	}

	c, threadInit, err := s.newCounter()
	if err != nil {
		return report.Report{}, err
	}
	defer c.Close()

	col := report.NewCollector(report.RegimeRender, s.suite.Runs, s.names()...)

	rr, err := profiler.NewRoundRobin(c, s.suite.Runs,
		append(report.Multi{col}, sinks...), s.workloads...)
	if err != nil {
		return report.Report{}, err
	}

	log.DebugContext(ctx, "render start",
		slog.Duration("period", period),
		slog.Int("ticks", rr.Len()),
	)

	err = sched.Run(ctx, period, renderTask, rr.Tick,
		sched.WithPriority(s.suite.Priority),
		sched.WithCPU(s.suite.CPU),
		sched.WithThreadInit(threadInit),
	)
	if err != nil {
		return report.Report{}, err
	}

	return s.report(started, c, false, col.Results()), nil
}

// save stores r in the results database unless storage is disabled.
func (s *session) save(ctx context.Context, r report.Report) error {
	if !s.storeEnabled() {
		return nil
	}

	db, err := store.Open(ctx, s.DB)
	if err != nil {
		return ErrStore.Wrap(err)
	}
	defer db.Close()

	id, err := db.Save(ctx, r)
	if err != nil {
		return ErrStore.Wrap(err)
	}

	log.InfoContext(ctx, "saved run",
		slog.Int64("id", id),
		slog.String("db", s.DB),
	)

	return nil
}
