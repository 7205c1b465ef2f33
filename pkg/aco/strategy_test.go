package aco

import (
	"errors"
	"math"
	"testing"

	"github.com/matzehuels/antscheduler/pkg/dag"
	apperrors "github.com/matzehuels/antscheduler/pkg/errors"
)

func TestParseVariant(t *testing.T) {
	tests := []struct {
		name    string
		want    Variant
		wantErr bool
	}{
		{"", AntSystem, false},
		{"AntSystem", AntSystem, false},
		{"antsystem", AntSystem, false},
		{"ElitistAntSystem", ElitistAntSystem, false},
		{"MAXMINANTSYSTEM", MaxMinAntSystem, false},
		{"RankBasedAntSystem", RankBasedAntSystem, false},
		{"BeeColony", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseVariant(tt.name)
			if tt.wantErr {
				if !errors.Is(err, ErrUnknownStrategy) {
					t.Fatalf("err = %v, want ErrUnknownStrategy", err)
				}
				if !apperrors.Is(err, apperrors.ErrCodeUnknownStrategy) {
					t.Errorf("code = %v", apperrors.GetCode(err))
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseVariant: %v", err)
			}
			if got != tt.want {
				t.Errorf("ParseVariant(%q) = %v, want %v", tt.name, got, tt.want)
			}
		})
	}
}

func TestVariantString(t *testing.T) {
	for _, name := range Variants() {
		v, err := ParseVariant(name)
		if err != nil {
			t.Fatalf("ParseVariant(%q): %v", name, err)
		}
		if v.String() != name {
			t.Errorf("String() = %q, want %q", v.String(), name)
		}
	}
	if got := Variant(42).String(); got != "Variant(42)" {
		t.Errorf("String() = %q", got)
	}
}

func pair(t *testing.T) *dag.Graph {
	return build(t, []dag.Operation{{ID: "A", Duration: 1}, {ID: "B", Duration: 1}}, nil)
}

func near(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestStrategyEvaporatesEveryEntry(t *testing.T) {
	g := abc(t)
	for _, name := range Variants() {
		t.Run(name, func(t *testing.T) {
			v, _ := ParseVariant(name)
			cfg := DefaultConfig()
			cfg.MinPheromone = 0
			cfg.MaxPheromone = 100
			m := NewMatrix(g, 1)
			newStrategy(v, cfg).Update(m, nil, nil)
			for _, e := range m.Snapshot() {
				if !near(e.Value, 1-cfg.EvaporationRate) {
					t.Errorf("(%d,%d) = %g, want %g", e.From, e.To, e.Value, 1-cfg.EvaporationRate)
				}
			}
		})
	}
}

func TestAntSystemUpdate(t *testing.T) {
	g := pair(t)
	m := NewMatrix(g, 1)
	ab := &Ant{Order: []int{0, 1}, Result: 10}
	ba := &Ant{Order: []int{1, 0}, Result: 20}

	antSystem{rho: 0.5, q: 100}.Update(m, []*Ant{ab, ba}, ab)

	want := map[[2]int]float64{
		{Start, 0}: 0.5 + 10,
		{0, 1}:     0.5 + 10,
		{Start, 1}: 0.5 + 5,
		{1, 0}:     0.5 + 5,
	}
	for k, w := range want {
		if got := m.Get(k[0], k[1]); !near(got, w) {
			t.Errorf("Get%v = %g, want %g", k, got, w)
		}
	}
}

func TestElitistUpdate(t *testing.T) {
	g := pair(t)
	m := NewMatrix(g, 1)
	iterBest := &Ant{Order: []int{1, 0}, Result: 20}
	best := &Ant{Order: []int{0, 1}, Result: 10}

	elitist{rho: 0.5, q: 100, weight: 2}.Update(m, []*Ant{iterBest}, best)

	want := map[[2]int]float64{
		{Start, 1}: 0.5 + 5,
		{1, 0}:     0.5 + 5,
		{Start, 0}: 0.5 + 20,
		{0, 1}:     0.5 + 20,
	}
	for k, w := range want {
		if got := m.Get(k[0], k[1]); !near(got, w) {
			t.Errorf("Get%v = %g, want %g", k, got, w)
		}
	}
}

func TestRankBasedUpdate(t *testing.T) {
	g := pair(t)
	m := NewMatrix(g, 1)
	ab := &Ant{Order: []int{0, 1}, Result: 10}
	ba := &Ant{Order: []int{1, 0}, Result: 20}

	rankBased{rho: 0.5, q: 100, width: 3}.Update(m, []*Ant{ab, ba}, ab)

	// rank 0 deposits 2*10, rank 1 deposits 1*5, best-ever deposits 3*10
	want := map[[2]int]float64{
		{Start, 0}: 0.5 + 20 + 30,
		{0, 1}:     0.5 + 20 + 30,
		{Start, 1}: 0.5 + 5,
		{1, 0}:     0.5 + 5,
	}
	for k, w := range want {
		if got := m.Get(k[0], k[1]); !near(got, w) {
			t.Errorf("Get%v = %g, want %g", k, got, w)
		}
	}
}

func TestMaxMinUpdateStaysBounded(t *testing.T) {
	g := pair(t)
	m := NewMatrix(g, 1)
	s := maxMin{rho: 0.5, q: 100, lo: 0.2, hi: 3}
	ab := &Ant{Order: []int{0, 1}, Result: 10}
	for i := 0; i < 10; i++ {
		s.Update(m, []*Ant{ab}, ab)
		for _, e := range m.Snapshot() {
			if e.Value < 0.2 || e.Value > 3 {
				t.Fatalf("round %d: (%d,%d) = %g outside [0.2, 3]", i, e.From, e.To, e.Value)
			}
		}
	}
	if got := m.Get(0, 1); got != 3 {
		t.Errorf("reinforced entry = %g, want max 3", got)
	}
	if got := m.Get(1, 0); got != 0.2 {
		t.Errorf("unused entry = %g, want min 0.2", got)
	}
}

func TestDepositZeroMakespan(t *testing.T) {
	if got := deposit(100, 0); got != 100 {
		t.Errorf("deposit(100, 0) = %g, want 100", got)
	}
	if got := deposit(100, 4); got != 25 {
		t.Errorf("deposit(100, 4) = %g, want 25", got)
	}
}
