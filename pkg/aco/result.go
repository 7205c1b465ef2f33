package aco

import (
	"time"

	"github.com/matzehuels/antscheduler/pkg/dag"
	"github.com/matzehuels/antscheduler/pkg/schedule"
)

// StopReason tells why a run ended.
type StopReason string

const (
	StopMaxIterations  StopReason = "max-iterations"
	StopStagnation     StopReason = "stagnation"
	StopTimeBudget     StopReason = "time-budget"
	StopCanceled       StopReason = "canceled"
	StopSingleOrdering StopReason = "single-ordering" // the graph admits exactly one ordering
)

// IterationStats summarizes the ants of one iteration.
type IterationStats struct {
	Iteration int     `json:"iteration"`
	Best      float64 `json:"best"`
	Worst     float64 `json:"worst"`
	Mean      float64 `json:"mean"`
}

// Result is the history of a run.
type Result struct {
	Variant Variant

	// History holds the iteration-best makespan of every iteration, in order.
	History []float64
	// Stats holds per-iteration best, worst and mean makespans.
	Stats []IterationStats

	// Best is the best-ever ant. It is replaced only by a strictly better
	// ant, so among equal results the earliest wins.
	Best *Ant
	// BestIteration is the zero-based iteration that produced Best.
	BestIteration int

	Iterations  int
	Evaluations int
	Stop        StopReason
	Duration    time.Duration
}

// Makespan returns the best-ever makespan, or 0 when the run produced no ant.
func (r *Result) Makespan() float64 {
	if r.Best == nil {
		return 0
	}
	return r.Best.Result
}

// BestIDs returns the operation IDs of the best-ever ordering.
func (r *Result) BestIDs(g *dag.Graph) []string {
	if r.Best == nil {
		return nil
	}
	return r.Best.Names(g)
}

// Schedule simulates the best-ever ordering on g.
func (r *Result) Schedule(g *dag.Graph) (schedule.Schedule, error) {
	if r.Best == nil {
		return schedule.Schedule{}, nil
	}
	return schedule.Simulate(g, r.Best.Order)
}

func statsOf(iteration int, ranked []*Ant) IterationStats {
	s := IterationStats{Iteration: iteration}
	if len(ranked) == 0 {
		return s
	}
	sum := 0.0
	for _, a := range ranked {
		sum += a.Result
	}
	s.Best = ranked[0].Result
	s.Worst = ranked[len(ranked)-1].Result
	s.Mean = sum / float64(len(ranked))
	return s
}
