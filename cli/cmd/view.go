package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/ccnt/report"
)

const (
	refreshInterval = 50 * time.Millisecond
	maxBarWidth     = 60
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true)
	nameStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	hintStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// refreshMsg prompts the view to reread the tally.
type refreshMsg time.Time

// renderDoneMsg is sent when the render loop returns.
type renderDoneMsg struct{ err error }

// renderView shows the progress of a render loop by polling a
// [report.Tally] that the loop updates.
type renderView struct {
	tally  *report.Tally
	names  []string
	total  int
	bar    progress.Model
	cancel context.CancelFunc
	done   bool
	err    error

	stopped bool // user quit before the loop returned
}

func newRenderView(
	tally *report.Tally,
	names []string,
	runs int,
	cancel context.CancelFunc,
) renderView {
	return renderView{
		tally:  tally,
		names:  names,
		total:  len(names) * runs,
		bar:    progress.New(progress.WithDefaultGradient(), progress.WithWidth(maxBarWidth)),
		cancel: cancel,
	}
}

func refresh() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg {
		return refreshMsg(t)
	})
}

func (m renderView) Init() tea.Cmd { return refresh() }

func (m renderView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc", "q":
			m.stopped = !m.done
			m.cancel()

			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.bar.Width = min(max(msg.Width-4, 10), maxBarWidth)

	case refreshMsg:
		if m.done {
			return m, nil
		}

		return m, refresh()

	case renderDoneMsg:
		m.done, m.err = true, msg.err

		return m, tea.Quit
	}

	return m, nil
}

// stopErr reports err as [ErrStopped] when the loop was canceled because the
// user quit the final view.
func stopErr(final tea.Model, err error) error {
	if v, ok := final.(renderView); ok && v.stopped && errors.Is(err, context.Canceled) {
		return ErrStopped
	}

	return err
}

// percent is the fraction of samples taken.
func (m renderView) percent() float64 {
	if m.total == 0 {
		return 1
	}

	return min(float64(m.tally.Samples())/float64(m.total), 1)
}

// current is the name of the workload being sampled.
func (m renderView) current() string {
	i := m.tally.Labels() - 1
	if i < 0 || i >= len(m.names) {
		return ""
	}

	return m.names[i]
}

func (m renderView) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(report.RegimeRender))

	if name := m.current(); name != "" {
		b.WriteString(" " + nameStyle.Render(name))
	}

	fmt.Fprintf(&b, "\n%s\n%d/%d samples, last %d cycles\n",
		m.bar.ViewAs(m.percent()),
		m.tally.Samples(), m.total, m.tally.Last(),
	)

	if !m.done {
		b.WriteString(hintStyle.Render("q to stop") + "\n")
	}

	return b.String()
}
