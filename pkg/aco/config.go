package aco

import (
	"time"

	apperrors "github.com/matzehuels/antscheduler/pkg/errors"
)

// Heuristic names accepted by Config.Heuristic.
const (
	// HeuristicInverseDuration prefers short operations: η = 1/(duration+1).
	HeuristicInverseDuration = "inverse-duration"
	// HeuristicConstant disables the heuristic: η = 1.
	HeuristicConstant = "constant"
	// HeuristicSuccessors prefers operations that unlock much work:
	// η = 1 + number of transitive successors.
	HeuristicSuccessors = "successors"
)

// Config holds the search parameters.
type Config struct {
	// Variant names the pheromone update strategy, see ParseVariant.
	Variant string

	// InitialPheromone is the value every matrix entry starts with.
	InitialPheromone float64

	// Ants is the number of solutions constructed per iteration.
	Ants int

	// MaxIterations bounds the number of iterations.
	MaxIterations int
	// StagnationLimit stops the run after this many consecutive iterations
	// without a strict improvement of the best-ever result. 0 disables it.
	StagnationLimit int
	// TimeBudget stops the run at the first iteration boundary after the
	// budget is spent. 0 disables it.
	TimeBudget time.Duration

	// Alpha weights pheromone, Beta weights the heuristic.
	Alpha float64
	Beta  float64

	// EvaporationRate is the fraction of pheromone removed per iteration, in (0,1).
	EvaporationRate float64

	// Q is the reinforcement constant; an ant deposits Q / makespan.
	Q float64

	// MinPheromone and MaxPheromone bound the matrix for MaxMinAntSystem.
	MinPheromone float64
	MaxPheromone float64

	// ElitistWeight scales the best-ever deposit of ElitistAntSystem and
	// RankBasedAntSystem.
	ElitistWeight float64

	// RankWidth is the number of ranks that deposit in RankBasedAntSystem.
	RankWidth int

	// Heuristic selects the desirability function η.
	Heuristic string

	// Seed initializes the engine's random source.
	Seed int64

	// Workers is the number of goroutines constructing ants. 0 uses GOMAXPROCS.
	Workers int
}

// DefaultConfig returns the parameters used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		Variant: AntSystem.String(),

		InitialPheromone: 1.0,

		Ants:          20,
		MaxIterations: 100,

		Alpha: 1.0,
		Beta:  2.0,

		EvaporationRate: 0.1,
		Q:               100.0,

		MinPheromone: 0.01,
		MaxPheromone: 10.0,

		ElitistWeight: 2.0,
		RankWidth:     6,

		Heuristic: HeuristicInverseDuration,
		Seed:      42,
	}
}

// Validate checks parameter ranges and that the variant is supported.
// Errors wrap ErrInvalidConfig or ErrUnknownStrategy.
func (c Config) Validate() error {
	v, err := ParseVariant(c.Variant)
	if err != nil {
		return err
	}
	if c.MaxIterations <= 0 {
		return invalid("max iterations must be > 0 (got %d)", c.MaxIterations)
	}
	if c.Ants <= 0 {
		return invalid("ants must be > 0 (got %d)", c.Ants)
	}
	if c.InitialPheromone <= 0 {
		return invalid("initial pheromone must be > 0 (got %g)", c.InitialPheromone)
	}
	if c.Alpha < 0 {
		return invalid("alpha must be >= 0 (got %g)", c.Alpha)
	}
	if c.Beta < 0 {
		return invalid("beta must be >= 0 (got %g)", c.Beta)
	}
	if c.EvaporationRate <= 0 || c.EvaporationRate >= 1 {
		return invalid("evaporation rate must lie in (0,1) (got %g)", c.EvaporationRate)
	}
	if c.Q <= 0 {
		return invalid("Q must be > 0 (got %g)", c.Q)
	}
	if c.StagnationLimit < 0 {
		return invalid("stagnation limit must be >= 0 (got %d)", c.StagnationLimit)
	}
	if c.TimeBudget < 0 {
		return invalid("time budget must be >= 0 (got %s)", c.TimeBudget)
	}
	if c.Workers < 0 {
		return invalid("workers must be >= 0 (got %d)", c.Workers)
	}
	switch c.Heuristic {
	case HeuristicInverseDuration, HeuristicConstant, HeuristicSuccessors:
	default:
		return invalid("unknown heuristic %q", c.Heuristic)
	}

	switch v {
	case MaxMinAntSystem:
		if c.MinPheromone <= 0 || c.MaxPheromone <= c.MinPheromone {
			return invalid("pheromone bounds must satisfy 0 < min < max (got [%g, %g])", c.MinPheromone, c.MaxPheromone)
		}
	case ElitistAntSystem:
		if c.ElitistWeight <= 0 {
			return invalid("elitist weight must be > 0 (got %g)", c.ElitistWeight)
		}
	case RankBasedAntSystem:
		if c.RankWidth < 2 {
			return invalid("rank width must be >= 2 (got %d)", c.RankWidth)
		}
	}
	return nil
}

func invalid(format string, args ...any) error {
	return apperrors.Wrap(apperrors.ErrCodeInvalidConfig, ErrInvalidConfig, format, args...)
}
