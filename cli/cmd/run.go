package cmd

import (
	"context"
	"errors"
	"time"

	"github.com/ardnew/ccnt/log"
	"github.com/ardnew/ccnt/report"
)

// Profile runs the scheduled regime and then the inline regime over the same
// workloads.
type Profile struct {
	Period    time.Duration `help:"Render callback period (default: suite period)." placeholder:"DURATION"`
	Workloads []string      `arg:""                                                 help:"Workloads to profile (default: suite selection)." optional:""`
}

// Run executes the profile command.
func (c *Profile) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	s, err := newSession(ctx, c.Workloads...)
	if err != nil {
		return err
	}

	setup, err := s.setup(ctx, false)
	if err != nil {
		return err
	}

	if err := report.Write(s.Stdout, report.FormatText, setup); err != nil {
		return err
	}

	if err := s.save(ctx, setup); err != nil {
		return err
	}

	render := Render{Period: c.Period}

	r, err := render.render(ctx, s)
	if errors.Is(err, ErrStopped) {
		log.InfoContext(ctx, "render stopped by user")

		return nil
	}

	if err != nil {
		return err
	}

	return s.save(ctx, r)
}
