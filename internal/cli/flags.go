package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/antscheduler/pkg/aco"
	"github.com/matzehuels/antscheduler/pkg/config"
)

// searchFlags are the search parameters settable on the command line.
// Flags the user set override the configuration file.
type searchFlags struct {
	variant    string
	ants       int
	iterations int
	stagnation int
	timeBudget time.Duration
	alpha      float64
	beta       float64
	rho        float64
	q          float64
	heuristic  string
	seed       int64
	workers    int
}

func (f *searchFlags) register(cmd *cobra.Command) {
	d := aco.DefaultConfig()
	fs := cmd.Flags()
	fs.StringVarP(&f.variant, "algorithm", "a", d.Variant, "search variant: AntSystem, ElitistAntSystem, MaxMinAntSystem, RankBasedAntSystem")
	fs.IntVar(&f.ants, "ants", d.Ants, "ants per iteration")
	fs.IntVarP(&f.iterations, "iterations", "n", d.MaxIterations, "maximum iterations")
	fs.IntVar(&f.stagnation, "stagnation", d.StagnationLimit, "stop after this many iterations without improvement (0 disables)")
	fs.DurationVar(&f.timeBudget, "time-budget", d.TimeBudget, "stop after this much wall-clock time (0 disables)")
	fs.Float64Var(&f.alpha, "alpha", d.Alpha, "pheromone weight")
	fs.Float64Var(&f.beta, "beta", d.Beta, "heuristic weight")
	fs.Float64Var(&f.rho, "evaporation", d.EvaporationRate, "evaporation rate in (0,1)")
	fs.Float64Var(&f.q, "q", d.Q, "deposit constant")
	fs.StringVar(&f.heuristic, "heuristic", d.Heuristic, "heuristic: inverse-duration, constant, successors")
	fs.Int64Var(&f.seed, "seed", d.Seed, "random seed")
	fs.IntVar(&f.workers, "workers", d.Workers, "construction goroutines (0 uses all CPUs)")
}

// apply copies the flags the user set onto cfg.
func (f *searchFlags) apply(cmd *cobra.Command, cfg *config.File) {
	fs := cmd.Flags()
	set := func(name string, fn func()) {
		if fs.Changed(name) {
			fn()
		}
	}
	set("algorithm", func() { cfg.AlgorithmType = f.variant })
	set("ants", func() { cfg.Ants = f.ants })
	set("iterations", func() { cfg.Iterations = f.iterations })
	set("stagnation", func() { cfg.StagnationLimit = f.stagnation })
	set("time-budget", func() { cfg.TimeBudget = f.timeBudget.String() })
	set("alpha", func() { cfg.Alpha = f.alpha })
	set("beta", func() { cfg.Beta = f.beta })
	set("evaporation", func() { cfg.EvaporationRate = f.rho })
	set("q", func() { cfg.Q = f.q })
	set("heuristic", func() { cfg.Heuristic = f.heuristic })
	set("seed", func() { cfg.Seed = f.seed })
	set("workers", func() { cfg.Workers = f.workers })
}
