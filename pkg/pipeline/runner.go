package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/antscheduler/pkg/aco"
	"github.com/matzehuels/antscheduler/pkg/cache"
	"github.com/matzehuels/antscheduler/pkg/dag"
	pkgio "github.com/matzehuels/antscheduler/pkg/io"
	"github.com/matzehuels/antscheduler/pkg/render"
	"github.com/matzehuels/antscheduler/pkg/store"
)

// Runner executes the pipeline with caching and persistence.
//
// The Runner keeps no per-run state, so multiple goroutines can safely use
// the same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Store  store.Store // nil disables persistence
	Logger *log.Logger
}

// NewRunner creates a runner.
// A nil keyer selects DefaultKeyer, a nil cache disables caching and a nil
// store disables persistence.
func NewRunner(c cache.Cache, keyer cache.Keyer, st store.Store, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Store:  st,
		Logger: logger,
	}
}

// Execute loads opts.GraphFile and runs the remaining stages on it.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForLoad(); err != nil {
		return nil, err
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	loadStart := time.Now()
	g, err := r.Load(opts)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	loadTime := time.Since(loadStart)

	res, err := r.ExecuteGraph(ctx, g, opts)
	if err != nil {
		return nil, err
	}
	res.Stats.LoadTime = loadTime
	return res, nil
}

// ExecuteGraph runs solve, render and persist on an already loaded graph.
func (r *Runner) ExecuteGraph(ctx context.Context, g *dag.Graph, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{
		Graph:     g,
		GraphHash: GraphHash(g),
		Stats:     Stats{Operations: g.Len(), Edges: g.EdgeCount()},
	}

	solveStart := time.Now()
	doc, search, hit, err := r.SolveWithCacheInfo(ctx, g, opts)
	if err != nil {
		return nil, fmt.Errorf("solve: %w", err)
	}
	result.Run = doc
	result.Search = search
	result.Stats.SolveTime = time.Since(solveStart)
	result.CacheInfo.SolveHit = hit

	opts.Logger.Info("solved",
		"operations", g.Len(),
		"makespan", doc.Makespan,
		"iterations", doc.Iterations,
		"cached", hit,
		"duration", result.Stats.SolveTime.Round(time.Millisecond))
	opts.Logger.Info("result history", "makespans", doc.History)
	opts.Logger.Info("best path", "makespan", doc.Makespan, "order", BestPath(doc.Order))

	if len(opts.Formats) > 0 {
		renderStart := time.Now()
		artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, g, result.GraphHash, doc, opts)
		if err != nil {
			return nil, err
		}
		result.Artifacts = artifacts
		result.Stats.RenderTime = time.Since(renderStart)
		result.CacheInfo.RenderHit = renderHit
		opts.Logger.Debug("rendered outputs", "formats", opts.Formats, "duration", result.Stats.RenderTime)
	}

	if r.Store != nil {
		rec := store.NewRecord(opts.Source, result.GraphHash, g.Len(), doc)
		rec.Cached = hit
		if err := r.Store.Save(ctx, rec); err != nil {
			return nil, fmt.Errorf("persist: %w", err)
		}
		result.RecordID = rec.ID
		opts.Logger.Debug("stored run", "id", rec.ID)
	}

	return result, nil
}

// Load reads the graph named by opts.GraphFile.
func (r *Runner) Load(opts Options) (*dag.Graph, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForLoad(); err != nil {
		return nil, err
	}
	g, err := pkgio.Import(opts.GraphFile, pkgio.WithLogger(opts.Logger))
	if err != nil {
		return nil, err
	}
	if err := g.Validate(); err != nil {
		return nil, err
	}
	opts.Logger.Debug("loaded graph", "file", opts.GraphFile, "operations", g.Len(), "edges", g.EdgeCount())
	return g, nil
}

// SolveWithCacheInfo runs the search on g, or returns the cached run for the
// same graph and parameters. The engine result is nil on a cache hit.
func (r *Runner) SolveWithCacheInfo(ctx context.Context, g *dag.Graph, opts Options) (pkgio.RunDocument, *aco.Result, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return pkgio.RunDocument{}, nil, false, err
	}

	var key string
	if opts.Cacheable() {
		key = r.Keyer.RunKey(GraphHash(g), opts.KeyOpts())
		if !opts.Refresh {
			if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
				var doc pkgio.RunDocument
				if err := json.Unmarshal(data, &doc); err == nil {
					return doc, nil, true, nil
				}
			}
		}
	}

	engine, err := aco.New(g, opts.Search, aco.WithLogger(opts.Logger), aco.WithHooks(opts.Hooks))
	if err != nil {
		return pkgio.RunDocument{}, nil, false, err
	}
	res, err := engine.Run(ctx)
	if err != nil {
		return pkgio.RunDocument{}, nil, false, err
	}
	doc, err := pkgio.NewRunDocument(g, res)
	if err != nil {
		return pkgio.RunDocument{}, nil, false, err
	}

	// An interrupted search is not the result of these parameters.
	if key != "" && res.Stop != aco.StopCanceled {
		if data, err := json.Marshal(doc); err == nil {
			if err := r.Cache.Set(ctx, key, data, opts.CacheTTL); err != nil {
				opts.Logger.Warn("cache write failed", "err", err)
			}
		}
	}
	return doc, res, false, nil
}

// RenderWithCacheInfo produces every format in opts.Formats and reports
// whether all of them came from the cache.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, g *dag.Graph, graphHash string, doc pkgio.RunDocument, opts Options) (map[string][]byte, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}

	docData, err := json.Marshal(doc)
	if err != nil {
		return nil, false, fmt.Errorf("serialize run for cache key: %w", err)
	}
	sourceHash := cache.Hash(append([]byte(graphHash), docData...))

	artifacts := make(map[string][]byte, len(opts.Formats))
	allCached := true
	for _, format := range opts.Formats {
		key := r.Keyer.ArtifactKey(sourceHash, format)
		if !opts.Refresh {
			if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
				artifacts[format] = data
				continue
			}
		}
		allCached = false

		data, err := renderFormat(ctx, g, doc, docData, format)
		if err != nil {
			return nil, false, formatError(format, err)
		}
		artifacts[format] = data
		_ = r.Cache.Set(ctx, key, data, cache.TTLArtifact)
	}
	return artifacts, allCached, nil
}

func renderFormat(ctx context.Context, g *dag.Graph, doc pkgio.RunDocument, docData []byte, format string) ([]byte, error) {
	switch format {
	case FormatJSON:
		var buf bytes.Buffer
		if err := json.Indent(&buf, docData, "", "  "); err != nil {
			return nil, err
		}
		buf.WriteByte('\n')
		return buf.Bytes(), nil
	case FormatDOT:
		return []byte(render.ToDOT(g, render.Options{Reduce: true, Order: doc.Order})), nil
	case FormatGraph:
		return render.RenderSVG(ctx, render.ToDOT(g, render.Options{Reduce: true, Order: doc.Order}))
	case FormatGantt:
		return render.GanttSVG(doc.Schedule), nil
	case FormatPDF:
		return render.ToPDF(ctx, render.GanttSVG(doc.Schedule))
	case FormatPNG:
		return render.ToPNG(ctx, render.GanttSVG(doc.Schedule), 2)
	}
	return nil, ValidateFormat(format)
}

// GraphHash is the content hash of g's JSON export.
func GraphHash(g *dag.Graph) string {
	var buf bytes.Buffer
	if err := pkgio.WriteJSON(g, &buf); err != nil {
		return ""
	}
	return cache.Hash(buf.Bytes())
}

// Close releases the cache and the store.
func (r *Runner) Close(ctx context.Context) error {
	var err error
	if r.Cache != nil {
		err = r.Cache.Close()
	}
	if r.Store != nil {
		if serr := r.Store.Close(ctx); err == nil {
			err = serr
		}
	}
	return err
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
