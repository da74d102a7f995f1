package cmd

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"github.com/ardnew/ccnt/report"
	"github.com/ardnew/ccnt/store"
)

// History lists stored runs, or prints one stored report.
type History struct {
	Limit  int    `default:"20"   help:"Show at most N runs (0 for all)."              short:"l"`
	Show   int64  `help:"Print the stored report with this run ID."                    placeholder:"ID"`
	Format string `default:"text" enum:"${formatEnum}" help:"Format for --show (${enum})." short:"F"`
	Output string `help:"Write --show output to file ('-' for stdout)."                placeholder:"FILE" short:"o" type:"path"`
}

// Run executes the history command.
func (c *History) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	g := globalsFrom(ctx)
	if !g.storeEnabled() {
		return ErrNoStore.With(slog.String("db", g.DB))
	}

	db, err := store.Open(ctx, g.DB)
	if err != nil {
		return ErrStore.Wrap(err)
	}
	defer db.Close()

	if c.Show > 0 {
		return c.show(ctx, g, db)
	}

	runs, err := db.List(ctx, c.Limit)
	if err != nil {
		return ErrStore.Wrap(err)
	}

	rows := make([][]string, 0, len(runs))
	for _, r := range runs {
		mode := "all"
		if r.MinMax {
			mode = "minmax"
		}

		rows = append(rows, []string{
			strconv.FormatInt(r.ID, 10),
			r.Started.Local().Format(time.DateTime),
			r.Counter,
			strconv.Itoa(r.Runs),
			mode,
			strconv.Itoa(r.Workloads),
			r.Elapsed.Round(time.Millisecond).String(),
			r.Fingerprint,
		})
	}

	return report.Table(g.Stdout, []string{
		"id", "started", "counter", "runs", "mode", "workloads", "elapsed", "suite",
	}, rows)
}

func (c *History) show(ctx context.Context, g Globals, db *store.Store) (err error) {
	f, err := parseFormat(c.Format)
	if err != nil {
		return err
	}

	r, err := db.Load(ctx, c.Show)
	if err != nil {
		return ErrStore.Wrap(err)
	}

	w, err := openOutput(g.Stdout, c.Output, f)
	if err != nil {
		return err
	}

	defer closeOutput(w, c.Output, &err)

	return report.Write(w, f, r)
}
