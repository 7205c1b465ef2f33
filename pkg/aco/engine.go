package aco

import (
	"cmp"
	"context"
	"io"
	"math/rand"
	"runtime"
	"slices"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/antscheduler/pkg/dag"
	apperrors "github.com/matzehuels/antscheduler/pkg/errors"
	"github.com/matzehuels/antscheduler/pkg/observability"
)

// Engine runs the iterative search on one graph.
//
// An Engine owns its pheromone matrix and random source; Run must not be
// called concurrently on the same Engine. The graph is only read.
type Engine struct {
	g        *dag.Graph
	cfg      Config
	strategy Strategy
	matrix   *Matrix
	eta      []float64
	rng      *rand.Rand
	workers  int
	unique   bool // the graph admits exactly one ordering

	logger *log.Logger
	hooks  observability.SearchHooks
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *log.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithHooks sets the progress hooks called at iteration boundaries.
func WithHooks(h observability.SearchHooks) Option {
	return func(e *Engine) {
		if h != nil {
			e.hooks = h
		}
	}
}

// WithRand replaces the random source seeded from Config.Seed.
func WithRand(r *rand.Rand) Option {
	return func(e *Engine) {
		if r != nil {
			e.rng = r
		}
	}
}

// New validates cfg and g and prepares an engine.
//
// Errors wrap ErrInvalidConfig, ErrUnknownStrategy, ErrEmptyGraph or
// dag.ErrGraphHasCycle.
func New(g *dag.Graph, cfg Config, opts ...Option) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if g.Len() == 0 {
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidInput, ErrEmptyGraph, "search")
	}
	if err := g.Validate(); err != nil {
		return nil, err
	}
	variant, _ := ParseVariant(cfg.Variant)

	workers := cfg.Workers
	if workers == 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	workers = min(workers, cfg.Ants)

	e := &Engine{
		g:        g,
		cfg:      cfg,
		strategy: newStrategy(variant, cfg),
		matrix:   NewMatrix(g, cfg.InitialPheromone),
		eta:      heuristic(g, cfg.Heuristic),
		rng:      rand.New(rand.NewSource(cfg.Seed)),
		workers:  workers,
		unique:   uniqueOrdering(g),
		logger:   log.NewWithOptions(io.Discard, log.Options{}),
		hooks:    observability.NoopSearchHooks{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Variant returns the resolved update strategy.
func (e *Engine) Variant() Variant { return e.strategy.Variant() }

// Matrix returns the engine's pheromone matrix. It must not be modified
// while Run is in progress.
func (e *Engine) Matrix() *Matrix { return e.matrix }

// Graph returns the graph being searched.
func (e *Engine) Graph() *dag.Graph { return e.g }

// Run performs the search and returns its history.
//
// Iterations are strictly sequential. Within an iteration all ants are built
// in parallel against the same matrix, which is updated only after every ant
// has finished. Stop conditions are evaluated between iterations. When ctx is
// canceled after at least one iteration, Run returns the partial result with
// Stop set to StopCanceled; before the first iteration it returns ctx.Err().
func (e *Engine) Run(ctx context.Context) (*Result, error) {
	start := time.Now()
	variant := e.strategy.Variant()
	res := &Result{Variant: variant}

	e.hooks.OnRunStart(ctx, variant.String(), e.g.Len(), e.cfg.Ants, e.cfg.MaxIterations)
	e.logger.Info("search started",
		"variant", variant,
		"operations", e.g.Len(),
		"ants", e.cfg.Ants,
		"iterations", e.cfg.MaxIterations,
		"workers", e.workers)

	err := e.loop(ctx, start, res)
	res.Duration = time.Since(start)
	e.hooks.OnRunComplete(ctx, res.Iterations, res.Makespan(), res.Duration, err)
	if err != nil {
		e.logger.Error("search failed", "iterations", res.Iterations, "err", err)
		return nil, err
	}

	e.logger.Info("search finished",
		"iterations", res.Iterations,
		"best", res.Makespan(),
		"stop", res.Stop,
		"duration", res.Duration.Round(time.Millisecond))
	return res, nil
}

func (e *Engine) loop(ctx context.Context, start time.Time, res *Result) error {
	ants := make([]*Ant, e.cfg.Ants)
	for i := range ants {
		ants[i] = &Ant{Order: make([]int, 0, e.g.Len())}
	}
	builders := make([]*builder, e.workers)
	rngs := make([]*rand.Rand, e.workers)
	for w := range builders {
		builders[w] = newBuilder(e.g, e.eta, e.cfg.Alpha, e.cfg.Beta)
		rngs[w] = rand.New(rand.NewSource(0))
	}
	seeds := make([]int64, len(ants))
	ranked := make([]*Ant, len(ants))

	stagnant := 0
	for it := 0; ; it++ {
		if reason, ok := e.stop(ctx, it, stagnant, start); ok {
			if reason == StopCanceled && it == 0 {
				return ctx.Err()
			}
			res.Stop = reason
			return nil
		}

		// Seeds are drawn in ant order so results do not depend on how
		// ants are spread over workers.
		for i := range seeds {
			seeds[i] = e.rng.Int63()
		}

		var grp errgroup.Group
		for w := 0; w < e.workers; w++ {
			grp.Go(func() error {
				for i := w; i < len(ants); i += e.workers {
					rngs[w].Seed(seeds[i])
					if err := builders[w].construct(e.matrix, rngs[w], ants[i]); err != nil {
						return err
					}
				}
				return nil
			})
		}
		if err := grp.Wait(); err != nil {
			return err
		}

		copy(ranked, ants)
		slices.SortStableFunc(ranked, func(a, b *Ant) int { return cmp.Compare(a.Result, b.Result) })

		if res.Best == nil || ranked[0].Result < res.Best.Result {
			res.Best = ranked[0].clone()
			res.BestIteration = it
			stagnant = 0
			e.hooks.OnImprovement(ctx, it, res.Best.Result)
			e.logger.Debug("improved", "iteration", it, "makespan", res.Best.Result)
		} else {
			stagnant++
		}

		e.strategy.Update(e.matrix, ranked, res.Best)

		stats := statsOf(it, ranked)
		res.History = append(res.History, stats.Best)
		res.Stats = append(res.Stats, stats)
		res.Iterations++
		res.Evaluations += len(ants)
		e.hooks.OnIteration(ctx, observability.Iteration{
			Index:    it,
			Best:     stats.Best,
			Worst:    stats.Worst,
			Mean:     stats.Mean,
			BestEver: res.Best.Result,
		})

		if e.unique {
			res.Stop = StopSingleOrdering
			return nil
		}
	}
}

// stop reports whether the run should end before iteration it.
func (e *Engine) stop(ctx context.Context, it, stagnant int, start time.Time) (StopReason, bool) {
	switch {
	case ctx.Err() != nil:
		return StopCanceled, true
	case it >= e.cfg.MaxIterations:
		return StopMaxIterations, true
	case e.cfg.StagnationLimit > 0 && stagnant >= e.cfg.StagnationLimit:
		return StopStagnation, true
	case e.cfg.TimeBudget > 0 && it > 0 && time.Since(start) >= e.cfg.TimeBudget:
		return StopTimeBudget, true
	}
	return "", false
}

// uniqueOrdering reports whether g has exactly one topological ordering,
// which holds iff Kahn's algorithm never has more than one ready operation.
func uniqueOrdering(g *dag.Graph) bool {
	n := g.Len()
	pending := make([]int, n)
	var ready []int
	for i := 0; i < n; i++ {
		pending[i] = len(g.Predecessors(i))
		if pending[i] == 0 {
			ready = append(ready, i)
		}
	}
	for placed := 0; placed < n; placed++ {
		if len(ready) != 1 {
			return false
		}
		op := ready[0]
		ready = ready[:0]
		for _, s := range g.Successors(op) {
			pending[s]--
			if pending[s] == 0 {
				ready = append(ready, s)
			}
		}
	}
	return true
}
