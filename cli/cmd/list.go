package cmd

import (
	"context"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/ardnew/ccnt/report"
)

// List prints the workloads defined by the suite.
type List struct {
	Selected bool `help:"Only list workloads the suite selects." short:"S"`
}

// Run executes the list command.
func (c *List) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	s, err := newSession(ctx)
	if err != nil {
		return err
	}

	reg, err := s.suite.Registry()
	if err != nil {
		return err
	}

	selected := mapset.NewThreadUnsafeSet(s.names()...)

	var rows [][]string

	for _, w := range reg.All() {
		mark := ""
		if selected.Contains(w.Name) {
			mark = "*"
		} else if c.Selected {
			continue
		}

		rows = append(rows, []string{w.Name, mark, w.Description})
	}

	return report.Table(s.Stdout, []string{"workload", "selected", "description"}, rows)
}
