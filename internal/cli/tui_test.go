package cli

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/antscheduler/pkg/observability"
)

func update(t *testing.T, m SearchModel, msg tea.Msg) (SearchModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	return next.(SearchModel), cmd
}

func TestSearchModelProgress(t *testing.T) {
	m := newSearchModel(nil)
	m, _ = update(t, m, runStartMsg{variant: "MaxMinAntSystem", operations: 12, ants: 8, maxIter: 10})
	m, _ = update(t, m, improvedMsg{iteration: 0, makespan: 42})
	m, _ = update(t, m, iterationMsg(observability.Iteration{Index: 0, Best: 42, Worst: 50, Mean: 45, BestEver: 42}))
	m, _ = update(t, m, iterationMsg(observability.Iteration{Index: 4, Best: 44, Worst: 51, Mean: 47, BestEver: 42}))

	if m.Iteration != 5 || m.BestEver != 42 || m.BestAt != 0 || m.Improvements != 1 {
		t.Errorf("model = %+v", m)
	}

	view := m.View()
	for _, want := range []string{"MaxMinAntSystem", "12 operations", "5/10", "best 42"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
}

func TestSearchModelBar(t *testing.T) {
	m := SearchModel{Width: 10, MaxIter: 4, Iteration: 2}
	bar := m.bar()
	if strings.Count(bar, "█") != 5 || strings.Count(bar, "░") != 5 {
		t.Errorf("bar = %q, want half full", bar)
	}

	m.Iteration = 9
	if strings.Count(m.bar(), "█") != 10 {
		t.Error("bar overflowed its width")
	}
}

func TestSearchModelStop(t *testing.T) {
	canceled := 0
	m := newSearchModel(func() { canceled++ })

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd != nil {
		t.Error("stop key should wait for the run to finish, not quit")
	}
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlC})
	if canceled != 1 || !m.Stopping {
		t.Errorf("canceled = %d, Stopping = %v", canceled, m.Stopping)
	}
	if !strings.Contains(m.View(), "stopping") {
		t.Error("view does not show stopping state")
	}

	m, cmd = update(t, m, runDoneMsg{err: errors.New("boom")})
	if cmd == nil {
		t.Error("runDoneMsg should quit")
	}
	if m.Err == nil || m.View() != "" {
		t.Errorf("Err = %v, view = %q", m.Err, m.View())
	}
}
