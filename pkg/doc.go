// Package pkg provides the libraries behind antscheduler.
//
// # Overview
//
// antscheduler orders operations that depend on each other so that the
// resulting schedule finishes as early as possible. Each operation has a
// duration and runs on an exclusive resource; an ant colony search explores
// precedence-valid orderings and keeps the one with the smallest makespan.
//
// # Architecture
//
// The typical data flow:
//
//	CSV / JSON graph file
//	         ↓
//	    [io] package (parse into a precedence graph)
//	         ↓
//	    [dag] package (arena graph, reachability, cycle check)
//	         ↓
//	    [aco] package (pheromone search over orderings)
//	         ↓
//	    [schedule] package (ordering → timed schedule, makespan)
//	         ↓
//	    [render] package (DOT, SVG graph, Gantt chart)
//
// # Quick Start
//
//	g, _ := io.Import("jobs.csv")
//
//	cfg := aco.DefaultConfig()
//	cfg.Variant = aco.MaxMinAntSystem.String()
//
//	engine, _ := aco.New(g, cfg)
//	res, _ := engine.Run(context.Background())
//	fmt.Println(res.Makespan(), res.BestIDs(g))
//
// # Main Packages
//
// [dag] - Precedence graph stored in an arena with integer handles. Provides
// ancestor queries backed by a cached transitive closure, the eligible
// frontier of a partial ordering, and cycle detection.
//
// [dag/transform] - Transitive reduction and precedence-depth layering, used
// for drawing.
//
// [aco] - The search engine: pheromone matrix, ant construction, the four
// update strategies (AntSystem, ElitistAntSystem, MaxMinAntSystem,
// RankBasedAntSystem) and the iteration loop with its stop conditions.
//
// [schedule] - Turns an ordering into start and finish times per operation.
//
// [io] - CSV and JSON graph formats, and the JSON form of a finished run.
//
// [render] - Graphviz DOT and SVG output of the precedence graph, Gantt
// charts of schedules, and PDF/PNG conversion.
//
// ## Infrastructure
//
// [pipeline] - Load → solve → render → persist, shared by the CLI and the
// HTTP server.
//
// [cache] - File, Redis and no-op caches for solved runs and artifacts.
//
// [store] - In-memory and MongoDB run history.
//
// [config] - TOML and YAML configuration files.
//
// [errors] - Structured errors with machine-readable codes.
//
// [observability] - Progress and cache hooks.
//
// [dag]: https://pkg.go.dev/github.com/matzehuels/antscheduler/pkg/dag
// [dag/transform]: https://pkg.go.dev/github.com/matzehuels/antscheduler/pkg/dag/transform
// [aco]: https://pkg.go.dev/github.com/matzehuels/antscheduler/pkg/aco
// [schedule]: https://pkg.go.dev/github.com/matzehuels/antscheduler/pkg/schedule
// [io]: https://pkg.go.dev/github.com/matzehuels/antscheduler/pkg/io
// [render]: https://pkg.go.dev/github.com/matzehuels/antscheduler/pkg/render
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/antscheduler/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/antscheduler/pkg/cache
// [store]: https://pkg.go.dev/github.com/matzehuels/antscheduler/pkg/store
// [config]: https://pkg.go.dev/github.com/matzehuels/antscheduler/pkg/config
// [errors]: https://pkg.go.dev/github.com/matzehuels/antscheduler/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/antscheduler/pkg/observability
package pkg
