package cmd

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/ccnt/report"
)

func TestRenderView(t *testing.T) {
	var (
		tally    report.Tally
		canceled bool
	)

	m := newRenderView(&tally, []string{"empty", "sin"}, 4, func() { canceled = true })

	if got := m.percent(); got != 0 {
		t.Errorf("percent = %v, want 0", got)
	}

	tally.Label("empty")
	for range 4 {
		tally.Sample(3)
	}
	tally.End()
	tally.Label("sin")
	tally.Sample(9)

	if got, want := m.percent(), 5.0/8.0; got != want {
		t.Errorf("percent = %v, want %v", got, want)
	}

	view := m.View()
	for _, want := range []string{report.RegimeRender, "sin", "5/8 samples", "last 9 cycles", "q to stop"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}

	next, cmd := m.Update(refreshMsg{})
	if cmd == nil {
		t.Error("refresh returned no command")
	}

	next, cmd = next.Update(renderDoneMsg{})
	if cmd == nil {
		t.Fatal("done returned no command")
	}

	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Errorf("done command = %T, want tea.QuitMsg", cmd())
	}

	if v := next.(renderView); !v.done || strings.Contains(v.View(), "q to stop") {
		t.Errorf("view after done = %+v", v)
	}

	if canceled {
		t.Error("canceled before key press")
	}

	quit, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if !canceled || cmd == nil {
		t.Errorf("q: canceled = %v, cmd = %v", canceled, cmd)
	}

	if !quit.(renderView).stopped {
		t.Error("q did not mark the view stopped")
	}

	if after, _ := next.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}}); after.(renderView).stopped {
		t.Error("q after done marked the view stopped")
	}
}

func TestStopErr(t *testing.T) {
	var (
		running = newRenderView(new(report.Tally), nil, 1, func() {})
		stopped = running
		failed  = errors.New("failed")
	)

	stopped.stopped = true

	tests := []struct {
		name  string
		final tea.Model
		err   error
		want  error
	}{
		{"user stop", stopped, context.Canceled, ErrStopped},
		{"user stop other error", stopped, failed, failed},
		{"interrupt", running, context.Canceled, context.Canceled},
		{"no model", nil, context.Canceled, context.Canceled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := stopErr(tt.final, tt.err); !errors.Is(got, tt.want) {
				t.Errorf("stopErr() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRenderView_Empty(t *testing.T) {
	m := newRenderView(new(report.Tally), nil, 4, func() {})

	if got := m.percent(); got != 1 {
		t.Errorf("percent = %v, want 1", got)
	}

	if got := m.current(); got != "" {
		t.Errorf("current = %q, want empty", got)
	}
}
