// Package pipeline runs the load → solve → render → persist flow shared by
// the CLI and the HTTP server.
//
// By centralizing this logic both entry points cache, log and store runs
// the same way.
//
// # Stages
//
//  1. Load: read the precedence graph from a CSV or JSON file
//  2. Solve: run the search, or reuse a cached run for the same graph,
//     parameters and seed
//  3. Render: produce the requested artifacts (DOT, graph SVG, Gantt chart)
//  4. Persist: save the run to the configured store
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, store, logger)
//	opts := pipeline.Options{
//	    GraphFile: "jobs.csv",
//	    Search:    aco.DefaultConfig(),
//	    Formats:   []string{pipeline.FormatGantt},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.Run.Makespan, result.Run.Order)
package pipeline

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/antscheduler/pkg/aco"
	"github.com/matzehuels/antscheduler/pkg/cache"
	"github.com/matzehuels/antscheduler/pkg/dag"
	apperrors "github.com/matzehuels/antscheduler/pkg/errors"
	pkgio "github.com/matzehuels/antscheduler/pkg/io"
	"github.com/matzehuels/antscheduler/pkg/observability"
)

// Artifact formats.
const (
	FormatJSON  = "json"  // run document
	FormatDOT   = "dot"   // precedence graph as Graphviz source
	FormatGraph = "graph" // precedence graph as SVG
	FormatGantt = "gantt" // schedule as SVG
	FormatPDF   = "pdf"   // schedule as PDF
	FormatPNG   = "png"   // schedule as PNG
)

// ValidFormats is the set of supported artifact formats.
var ValidFormats = map[string]bool{
	FormatJSON:  true,
	FormatDOT:   true,
	FormatGraph: true,
	FormatGantt: true,
	FormatPDF:   true,
	FormatPNG:   true,
}

// FormatExt maps formats to output file extensions.
var FormatExt = map[string]string{
	FormatJSON:  ".json",
	FormatDOT:   ".dot",
	FormatGraph: ".graph.svg",
	FormatGantt: ".gantt.svg",
	FormatPDF:   ".pdf",
	FormatPNG:   ".png",
}

// Options configures one pipeline run.
type Options struct {
	// GraphFile is the CSV or JSON graph to load. Unused by ExecuteGraph.
	GraphFile string `json:"graph_file,omitempty"`
	// Source labels the run in the store; defaults to GraphFile.
	Source string `json:"source,omitempty"`

	Search aco.Config `json:"search"`

	Formats []string `json:"formats,omitempty"`

	// Refresh ignores cached runs and artifacts; results are still written.
	Refresh bool `json:"refresh,omitempty"`
	// CacheTTL overrides cache.TTLRun for solved runs.
	CacheTTL time.Duration `json:"-"`

	// Runtime options (not serialized)
	Logger *log.Logger                `json:"-"`
	Hooks  observability.SearchHooks `json:"-"`

	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	Graph     *dag.Graph
	GraphHash string

	// Run is the exported run, fresh or from cache.
	Run pkgio.RunDocument
	// Search is the engine result; nil when Run came from the cache.
	Search *aco.Result

	// Artifacts holds rendered outputs keyed by format.
	Artifacts map[string][]byte

	// RecordID is the store ID of the run, empty without a store.
	RecordID string

	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Operations int
	Edges      int
	LoadTime   time.Duration
	SolveTime  time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each stage.
type CacheInfo struct {
	SolveHit  bool
	RenderHit bool // whether every artifact came from the cache
}

// ValidateFormat checks that a format is supported.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return apperrors.New(apperrors.ErrCodeInvalidInput, "invalid format: %q (must be one of: json, dot, graph, gantt, pdf, png)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are supported.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateAndSetDefaults checks the options and fills in defaults.
// It is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.Search.Validate(); err != nil {
		return err
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.Source == "" {
		o.Source = o.GraphFile
	}
	if o.CacheTTL == 0 {
		o.CacheTTL = cache.TTLRun
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// ValidateForLoad checks the fields needed to load a graph.
func (o *Options) ValidateForLoad() error {
	if o.GraphFile == "" {
		return apperrors.New(apperrors.ErrCodeInvalidInput, "graph file is required")
	}
	return nil
}

// Cacheable reports whether the run's result is a pure function of the graph
// and the parameters. Wall-clock budgets make it depend on machine speed.
func (o *Options) Cacheable() bool {
	return o.Search.TimeBudget == 0
}

// KeyOpts returns the parameters that identify a run in the cache.
// Workers is left out: it does not change the result.
func (o *Options) KeyOpts() cache.RunKeyOpts {
	s := o.Search
	variant := s.Variant
	if v, err := aco.ParseVariant(s.Variant); err == nil {
		variant = v.String()
	}
	return cache.RunKeyOpts{
		Variant:          variant,
		InitialPheromone: s.InitialPheromone,
		Ants:             s.Ants,
		MaxIterations:    s.MaxIterations,
		StagnationLimit:  s.StagnationLimit,
		Alpha:            s.Alpha,
		Beta:             s.Beta,
		EvaporationRate:  s.EvaporationRate,
		Q:                s.Q,
		MinPheromone:     s.MinPheromone,
		MaxPheromone:     s.MaxPheromone,
		ElitistWeight:    s.ElitistWeight,
		RankWidth:        s.RankWidth,
		Heuristic:        s.Heuristic,
		Seed:             s.Seed,
	}
}

// BestPath joins an ordering with arrows for display.
func BestPath(order []string) string {
	return strings.Join(order, " -> ")
}

// formatError reports an artifact that could not be produced.
func formatError(format string, err error) error {
	return fmt.Errorf("render %s: %w", format, err)
}
