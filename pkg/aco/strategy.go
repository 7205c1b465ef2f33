package aco

import (
	"strconv"
	"strings"

	apperrors "github.com/matzehuels/antscheduler/pkg/errors"
)

// Variant identifies a pheromone update strategy. The set is closed: every
// Variant has exactly one Strategy implementation, resolved once when the
// engine is built.
type Variant int

const (
	// AntSystem lets every ant of the iteration reinforce its path.
	AntSystem Variant = iota
	// ElitistAntSystem reinforces the iteration-best path plus the best-ever
	// path scaled by Config.ElitistWeight.
	ElitistAntSystem
	// MaxMinAntSystem reinforces the iteration-best path and clamps the
	// matrix to [Config.MinPheromone, Config.MaxPheromone].
	MaxMinAntSystem
	// RankBasedAntSystem lets the Config.RankWidth-1 best ants deposit
	// proportionally to their rank, plus the best-ever path with weight
	// Config.RankWidth.
	RankBasedAntSystem
)

var variantNames = [...]string{
	AntSystem:          "AntSystem",
	ElitistAntSystem:   "ElitistAntSystem",
	MaxMinAntSystem:    "MaxMinAntSystem",
	RankBasedAntSystem: "RankBasedAntSystem",
}

// String returns the canonical variant name.
func (v Variant) String() string {
	if v < 0 || int(v) >= len(variantNames) {
		return "Variant(" + strconv.Itoa(int(v)) + ")"
	}
	return variantNames[v]
}

// Variants returns the canonical names of all supported variants.
func Variants() []string {
	return append([]string(nil), variantNames[:]...)
}

// ParseVariant resolves a variant name case-insensitively.
// An empty name selects AntSystem. Unknown names return an error wrapping
// ErrUnknownStrategy.
func ParseVariant(name string) (Variant, error) {
	if name == "" {
		return AntSystem, nil
	}
	for v, n := range variantNames {
		if strings.EqualFold(n, name) {
			return Variant(v), nil
		}
	}
	return 0, apperrors.Wrap(apperrors.ErrCodeUnknownStrategy, ErrUnknownStrategy,
		"%q (must be one of: %s)", name, strings.Join(variantNames[:], ", "))
}

// Strategy applies the pheromone update phase of one iteration.
//
// ranked holds the iteration's ants sorted by ascending Result; best is the
// best-ever ant, already updated with this iteration. Update runs after all
// ants have finished and is the only place the matrix is written.
type Strategy interface {
	Variant() Variant
	Update(m *Matrix, ranked []*Ant, best *Ant)
}

func newStrategy(v Variant, cfg Config) Strategy {
	switch v {
	case ElitistAntSystem:
		return elitist{rho: cfg.EvaporationRate, q: cfg.Q, weight: cfg.ElitistWeight}
	case MaxMinAntSystem:
		return maxMin{rho: cfg.EvaporationRate, q: cfg.Q, lo: cfg.MinPheromone, hi: cfg.MaxPheromone}
	case RankBasedAntSystem:
		return rankBased{rho: cfg.EvaporationRate, q: cfg.Q, width: cfg.RankWidth}
	default:
		return antSystem{rho: cfg.EvaporationRate, q: cfg.Q}
	}
}

// deposit is the reinforcement amount for a solution: q / makespan, or q for
// a zero makespan.
func deposit(q, result float64) float64 {
	if result <= 0 {
		return q
	}
	return q / result
}

type antSystem struct{ rho, q float64 }

func (antSystem) Variant() Variant { return AntSystem }

func (s antSystem) Update(m *Matrix, ranked []*Ant, _ *Ant) {
	m.Evaporate(s.rho)
	for _, a := range ranked {
		m.ReinforcePath(a.Order, deposit(s.q, a.Result))
	}
}

type elitist struct{ rho, q, weight float64 }

func (elitist) Variant() Variant { return ElitistAntSystem }

func (s elitist) Update(m *Matrix, ranked []*Ant, best *Ant) {
	m.Evaporate(s.rho)
	if len(ranked) > 0 {
		m.ReinforcePath(ranked[0].Order, deposit(s.q, ranked[0].Result))
	}
	if best != nil {
		m.ReinforcePath(best.Order, s.weight*deposit(s.q, best.Result))
	}
}

type maxMin struct{ rho, q, lo, hi float64 }

func (maxMin) Variant() Variant { return MaxMinAntSystem }

func (s maxMin) Update(m *Matrix, ranked []*Ant, _ *Ant) {
	m.Evaporate(s.rho)
	if len(ranked) > 0 {
		m.ReinforcePath(ranked[0].Order, deposit(s.q, ranked[0].Result))
	}
	m.Clamp(s.lo, s.hi)
}

type rankBased struct {
	rho, q float64
	width  int
}

func (rankBased) Variant() Variant { return RankBasedAntSystem }

func (s rankBased) Update(m *Matrix, ranked []*Ant, best *Ant) {
	m.Evaporate(s.rho)
	for r := 0; r < s.width-1 && r < len(ranked); r++ {
		weight := float64(s.width - 1 - r)
		m.ReinforcePath(ranked[r].Order, weight*deposit(s.q, ranked[r].Result))
	}
	if best != nil {
		m.ReinforcePath(best.Order, float64(s.width)*deposit(s.q, best.Result))
	}
}
