package cmd

import (
	"context"
	"errors"
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/ccnt/log"
	"github.com/ardnew/ccnt/report"
)

// Render profiles workloads through the inline regime: a periodic real-time
// loop measures one sample per tick, round-robin over the workloads.
type Render struct {
	Period    time.Duration `help:"Callback period (default: suite period)."          placeholder:"DURATION"`
	TUI       bool          `help:"Show live progress, then print results."           name:"tui"`
	Workloads []string      `arg:""                                                   help:"Workloads to profile (default: suite selection)." optional:""`
}

// Run executes the render command.
func (c *Render) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	s, err := newSession(ctx, c.Workloads...)
	if err != nil {
		return err
	}

	r, err := c.render(ctx, s)
	if errors.Is(err, ErrStopped) {
		log.InfoContext(ctx, "render stopped by user")

		return nil
	}

	if err != nil {
		return err
	}

	return s.save(ctx, r)
}

// render prints each workload's line as soon as its last sample is taken,
// or shows a progress view when --tui is set and stdout is a terminal.
func (c *Render) render(ctx context.Context, s *session) (report.Report, error) {
	if c.TUI {
		if isTerminal(s.Stdout) {
			return c.renderTUI(ctx, s)
		}

		log.WarnContext(ctx, "stdout is not a terminal, ignoring --tui")
	}

	lines := report.NewLineSink(s.Stdout, report.RegimeRender, report.DefaultDepth)

	r, err := s.render(ctx, c.Period, lines)

	if cerr := lines.Close(); cerr != nil && err == nil {
		err = ErrOutput.Wrap(cerr)
	}

	if n := lines.Dropped(); n > 0 {
		log.WarnContext(ctx, "dropped render lines", slog.Uint64("count", n))
	}

	return r, err
}

func (c *Render) renderTUI(ctx context.Context, s *session) (report.Report, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	tally := new(report.Tally)
	prog := tea.NewProgram(
		newRenderView(tally, s.names(), s.suite.Runs, cancel),
		tea.WithContext(ctx),
		tea.WithOutput(s.Stdout),
	)

	var (
		r    report.Report
		rerr error
		done = make(chan struct{})
	)

	go func() {
		defer close(done)

		r, rerr = s.render(ctx, c.Period, tally)
		prog.Send(renderDoneMsg{err: rerr})
	}()

	final, err := prog.Run()

	cancel()
	<-done

	if rerr != nil {
		return r, stopErr(final, rerr)
	}

	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return r, err
	}

	return r, report.Write(s.Stdout, report.FormatText, r)
}
