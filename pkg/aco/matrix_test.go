package aco

import (
	"testing"

	"github.com/matzehuels/antscheduler/pkg/dag"
)

func chain(t *testing.T) *dag.Graph {
	return build(t, []dag.Operation{
		{ID: "A", Duration: 1},
		{ID: "B", Duration: 1},
		{ID: "C", Duration: 1},
	}, [][2]string{{"A", "B"}, {"B", "C"}})
}

func TestMatrixExclusion(t *testing.T) {
	g := chain(t)
	m := NewMatrix(g, 1)

	tests := []struct {
		from, to int
		want     bool
	}{
		{Start, 0, true},
		{Start, 2, true},
		{0, 0, false}, // self
		{0, 1, true},
		{0, 2, true},
		{1, 0, false}, // A is an ancestor of B
		{1, 2, true},
		{2, 0, false},
		{2, 1, false},
		{3, 0, false}, // out of range
		{0, -2, false},
	}
	for _, tt := range tests {
		if got := m.Has(tt.from, tt.to); got != tt.want {
			t.Errorf("Has(%d, %d) = %v, want %v", tt.from, tt.to, got, tt.want)
		}
		if !tt.want && m.Get(tt.from, tt.to) != 0 {
			t.Errorf("Get(%d, %d) = %g on excluded pair", tt.from, tt.to, m.Get(tt.from, tt.to))
		}
	}
	if m.Len() != 6 {
		t.Errorf("Len() = %d, want 6", m.Len())
	}
	if m.Operations() != 3 {
		t.Errorf("Operations() = %d, want 3", m.Operations())
	}
}

func TestMatrixExclusionRandom(t *testing.T) {
	g := randomGraph(t, 15, 0.25, 7)
	m := NewMatrix(g, 1)
	for _, e := range m.Snapshot() {
		if e.From != Start && g.IsAncestor(e.To, e.From) {
			t.Errorf("entry (%d,%d) stored although %d is an ancestor of %d", e.From, e.To, e.To, e.From)
		}
	}
}

func TestMatrixEvaporateIsMonotone(t *testing.T) {
	g := randomGraph(t, 10, 0.3, 3)
	m := NewMatrix(g, 2)
	before := m.Snapshot()
	m.Evaporate(0.25)
	after := m.Snapshot()
	if len(before) != len(after) {
		t.Fatalf("entry count changed: %d -> %d", len(before), len(after))
	}
	for i := range before {
		if after[i].Value > before[i].Value {
			t.Errorf("(%d,%d) grew from %g to %g", before[i].From, before[i].To, before[i].Value, after[i].Value)
		}
		if after[i].Value != 1.5 {
			t.Errorf("(%d,%d) = %g, want 1.5", after[i].From, after[i].To, after[i].Value)
		}
	}
}

func TestMatrixReinforce(t *testing.T) {
	g := chain(t)
	m := NewMatrix(g, 1)

	m.Reinforce(1, 0, 5) // excluded: ignored
	if m.Get(1, 0) != 0 || m.Has(1, 0) {
		t.Error("reinforcing an excluded pair must not create it")
	}

	m.ReinforcePath([]int{0, 1, 2}, 0.5)
	for _, k := range [][2]int{{Start, 0}, {0, 1}, {1, 2}} {
		if got := m.Get(k[0], k[1]); got != 1.5 {
			t.Errorf("Get%v = %g, want 1.5", k, got)
		}
	}
	if got := m.Get(0, 2); got != 1 {
		t.Errorf("Get(0, 2) = %g, want untouched 1", got)
	}
}

func TestMatrixClamp(t *testing.T) {
	g := chain(t)
	m := NewMatrix(g, 1)
	m.Reinforce(0, 1, 10)
	m.Evaporate(0.99)
	m.Clamp(0.1, 5)
	for _, e := range m.Snapshot() {
		if e.Value < 0.1 || e.Value > 5 {
			t.Errorf("(%d,%d) = %g outside bounds", e.From, e.To, e.Value)
		}
	}
}
