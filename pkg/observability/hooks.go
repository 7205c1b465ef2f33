// Package observability provides hooks for progress reporting, metrics and
// tracing around a search run.
//
// This package enables optional instrumentation without adding hard
// dependencies on specific backends. Hooks are plain interfaces with no-op
// defaults; callers hand implementations to the components that emit events
// (aco.WithHooks, pipeline.Runner) instead of registering them globally, so
// two runs in one process can report to different sinks.
//
// # Usage
//
//	hooks := observability.MultiSearchHooks{progressView, metrics}
//	engine, err := aco.New(g, cfg, aco.WithHooks(hooks))
//
// Components call hooks to emit events:
//
//	hooks.OnIteration(ctx, observability.Iteration{Index: 3, Best: 41, BestEver: 40})
package observability

import (
	"context"
	"time"
)

// =============================================================================
// Search Hooks
// =============================================================================

// Iteration summarizes one completed iteration of the search loop.
type Iteration struct {
	Index    int     // Zero-based iteration index
	Best     float64 // Best makespan among this iteration's ants
	Worst    float64 // Worst makespan among this iteration's ants
	Mean     float64 // Mean makespan among this iteration's ants
	BestEver float64 // Best makespan found so far, including this iteration
}

// SearchHooks receives events from the search engine.
// Hooks are called from the goroutine running the search, at iteration
// boundaries only, and must not block for long.
type SearchHooks interface {
	// OnRunStart is called once before the first iteration.
	OnRunStart(ctx context.Context, variant string, operations, ants, maxIterations int)

	// OnIteration is called after the pheromone update of every iteration.
	OnIteration(ctx context.Context, it Iteration)

	// OnImprovement is called when an iteration strictly improves the best-ever result.
	OnImprovement(ctx context.Context, iteration int, makespan float64)

	// OnRunComplete is called once when the run ends, successfully or not.
	OnRunComplete(ctx context.Context, iterations int, best float64, duration time.Duration, err error)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopSearchHooks is a no-op implementation of SearchHooks.
type NoopSearchHooks struct{}

func (NoopSearchHooks) OnRunStart(context.Context, string, int, int, int)                 {}
func (NoopSearchHooks) OnIteration(context.Context, Iteration)                            {}
func (NoopSearchHooks) OnImprovement(context.Context, int, float64)                       {}
func (NoopSearchHooks) OnRunComplete(context.Context, int, float64, time.Duration, error) {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// =============================================================================
// Fan-out
// =============================================================================

// MultiSearchHooks forwards every event to each hook in order.
// Nil entries are skipped.
type MultiSearchHooks []SearchHooks

func (m MultiSearchHooks) OnRunStart(ctx context.Context, variant string, operations, ants, maxIterations int) {
	for _, h := range m {
		if h != nil {
			h.OnRunStart(ctx, variant, operations, ants, maxIterations)
		}
	}
}

func (m MultiSearchHooks) OnIteration(ctx context.Context, it Iteration) {
	for _, h := range m {
		if h != nil {
			h.OnIteration(ctx, it)
		}
	}
}

func (m MultiSearchHooks) OnImprovement(ctx context.Context, iteration int, makespan float64) {
	for _, h := range m {
		if h != nil {
			h.OnImprovement(ctx, iteration, makespan)
		}
	}
}

func (m MultiSearchHooks) OnRunComplete(ctx context.Context, iterations int, best float64, duration time.Duration, err error) {
	for _, h := range m {
		if h != nil {
			h.OnRunComplete(ctx, iterations, best, duration, err)
		}
	}
}

var (
	_ SearchHooks = NoopSearchHooks{}
	_ SearchHooks = MultiSearchHooks(nil)
	_ CacheHooks  = NoopCacheHooks{}
)
