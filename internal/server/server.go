// Package server exposes the scheduler over HTTP.
//
// Routes:
//
//	POST /v1/solve      schedule a graph sent as CSV text or graph JSON
//	GET  /v1/runs       list stored runs, newest first (?limit=N)
//	GET  /v1/runs/{id}  fetch one stored run
//	GET  /healthz       liveness probe
//
// Errors are returned as {"error": {"code": "...", "message": "..."}} with
// the status derived from the error code.
package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/semaphore"

	"github.com/matzehuels/antscheduler/pkg/aco"
	"github.com/matzehuels/antscheduler/pkg/buildinfo"
	"github.com/matzehuels/antscheduler/pkg/dag"
	apperrors "github.com/matzehuels/antscheduler/pkg/errors"
	pkgio "github.com/matzehuels/antscheduler/pkg/io"
	"github.com/matzehuels/antscheduler/pkg/pipeline"
	"github.com/matzehuels/antscheduler/pkg/store"
)

const (
	// maxBodyBytes bounds a solve request.
	maxBodyBytes = 4 << 20

	// DefaultMaxConcurrent is the number of searches run at once.
	DefaultMaxConcurrent = 4
)

// Limits bound the work a single solve request may ask for. The pheromone
// matrix grows with the square of the operation count and every iteration
// allocates one ant per colony member, so unbounded values can exhaust
// memory. A zero field disables that check.
type Limits struct {
	Operations int
	Ants       int
	Iterations int
}

// DefaultLimits are applied by New unless WithLimits overrides them.
var DefaultLimits = Limits{
	Operations: 2000,
	Ants:       1000,
	Iterations: 100000,
}

func (l Limits) check(operations int, cfg aco.Config) error {
	if l.Operations > 0 && operations > l.Operations {
		return apperrors.New(apperrors.ErrCodeInvalidInput, "graph has %d operations (limit %d)", operations, l.Operations)
	}
	if l.Ants > 0 && cfg.Ants > l.Ants {
		return apperrors.New(apperrors.ErrCodeInvalidInput, "ants = %d exceeds the limit of %d", cfg.Ants, l.Ants)
	}
	if l.Iterations > 0 && cfg.MaxIterations > l.Iterations {
		return apperrors.New(apperrors.ErrCodeInvalidInput, "iterations = %d exceeds the limit of %d", cfg.MaxIterations, l.Iterations)
	}
	return nil
}

// Server handles API requests. Create one with New.
type Server struct {
	runner   *pipeline.Runner
	store    store.Store
	defaults aco.Config
	logger   *log.Logger
	sem      *semaphore.Weighted
	limits   Limits
}

// Option configures a Server.
type Option func(*Server)

// WithMaxConcurrent bounds the number of searches running at once.
func WithMaxConcurrent(n int) Option {
	return func(s *Server) {
		if n > 0 {
			s.sem = semaphore.NewWeighted(int64(n))
		}
	}
}

// WithLimits replaces DefaultLimits.
func WithLimits(l Limits) Option {
	return func(s *Server) { s.limits = l }
}

// New creates a server. Solve requests start from defaults and override the
// fields they set. A nil store disables the /v1/runs routes.
func New(runner *pipeline.Runner, st store.Store, defaults aco.Config, logger *log.Logger, opts ...Option) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{
		runner:   runner,
		store:    st,
		defaults: defaults,
		logger:   logger,
		sem:      semaphore.NewWeighted(DefaultMaxConcurrent),
		limits:   DefaultLimits,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/solve", s.handleSolve)
		r.Get("/runs", s.handleListRuns)
		r.Get("/runs/{id}", s.handleGetRun)
	})
	return r
}

// SearchParams are the tunable search parameters of a solve request.
type SearchParams struct {
	Variant          string  `json:"algorithm_type"`
	InitialPheromone float64 `json:"init_pheromone_value"`
	Ants             int     `json:"ants"`
	Iterations       int     `json:"iterations"`
	StagnationLimit  int     `json:"stagnation_limit"`
	TimeBudgetMS     int64   `json:"time_budget_ms"`
	Alpha            float64 `json:"alpha"`
	Beta             float64 `json:"beta"`
	EvaporationRate  float64 `json:"evaporation_rate"`
	Q                float64 `json:"q"`
	MinPheromone     float64 `json:"min_pheromone"`
	MaxPheromone     float64 `json:"max_pheromone"`
	ElitistWeight    float64 `json:"elitist_weight"`
	RankWidth        int     `json:"rank_width"`
	Heuristic        string  `json:"heuristic"`
	Seed             int64   `json:"seed"`
}

func paramsOf(c aco.Config) SearchParams {
	return SearchParams{
		Variant:          c.Variant,
		InitialPheromone: c.InitialPheromone,
		Ants:             c.Ants,
		Iterations:       c.MaxIterations,
		StagnationLimit:  c.StagnationLimit,
		TimeBudgetMS:     c.TimeBudget.Milliseconds(),
		Alpha:            c.Alpha,
		Beta:             c.Beta,
		EvaporationRate:  c.EvaporationRate,
		Q:                c.Q,
		MinPheromone:     c.MinPheromone,
		MaxPheromone:     c.MaxPheromone,
		ElitistWeight:    c.ElitistWeight,
		RankWidth:        c.RankWidth,
		Heuristic:        c.Heuristic,
		Seed:             c.Seed,
	}
}

// config applies p on top of base. Workers stay under server control.
func (p SearchParams) config(base aco.Config) aco.Config {
	base.Variant = p.Variant
	base.InitialPheromone = p.InitialPheromone
	base.Ants = p.Ants
	base.MaxIterations = p.Iterations
	base.StagnationLimit = p.StagnationLimit
	base.TimeBudget = time.Duration(p.TimeBudgetMS) * time.Millisecond
	base.Alpha = p.Alpha
	base.Beta = p.Beta
	base.EvaporationRate = p.EvaporationRate
	base.Q = p.Q
	base.MinPheromone = p.MinPheromone
	base.MaxPheromone = p.MaxPheromone
	base.ElitistWeight = p.ElitistWeight
	base.RankWidth = p.RankWidth
	base.Heuristic = p.Heuristic
	base.Seed = p.Seed
	return base
}

// SolveRequest is the body of POST /v1/solve. Exactly one of CSV and Graph
// must be set. Search fields left out keep the server defaults.
type SolveRequest struct {
	Source  string          `json:"source,omitempty"`
	CSV     string          `json:"csv,omitempty"`
	Graph   json.RawMessage `json:"graph,omitempty"`
	Search  SearchParams    `json:"search"`
	Refresh bool            `json:"refresh,omitempty"`
}

// SolveResponse is returned by POST /v1/solve.
type SolveResponse struct {
	ID        string            `json:"id,omitempty"`
	GraphHash string            `json:"graph_hash"`
	Cached    bool              `json:"cached"`
	Path      string            `json:"path"`
	Run       pkgio.RunDocument `json:"run"`
}

func (s *Server) handleSolve(w http.ResponseWriter, r *http.Request) {
	req := SolveRequest{Search: paramsOf(s.defaults)}
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		s.writeError(w, apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "decode request"))
		return
	}

	g, err := s.parseGraph(req)
	if err != nil {
		s.writeError(w, err)
		return
	}
	search := req.Search.config(s.defaults)
	if err := s.limits.check(g.Len(), search); err != nil {
		s.writeError(w, err)
		return
	}

	if err := s.sem.Acquire(r.Context(), 1); err != nil {
		s.writeError(w, err)
		return
	}
	defer s.sem.Release(1)

	source := req.Source
	if source == "" {
		source = "api"
	}
	res, err := s.runner.ExecuteGraph(r.Context(), g, pipeline.Options{
		Source:  source,
		Search:  search,
		Refresh: req.Refresh,
		Logger:  s.logger,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, SolveResponse{
		ID:        res.RecordID,
		GraphHash: res.GraphHash,
		Cached:    res.CacheInfo.SolveHit,
		Path:      pipeline.BestPath(res.Run.Order),
		Run:       res.Run,
	})
}

func (s *Server) parseGraph(req SolveRequest) (*dag.Graph, error) {
	hasCSV := strings.TrimSpace(req.CSV) != ""
	hasGraph := len(req.Graph) > 0 && !bytes.Equal(req.Graph, []byte("null"))
	switch {
	case hasCSV && hasGraph:
		return nil, apperrors.New(apperrors.ErrCodeInvalidInput, "set either csv or graph, not both")
	case hasCSV:
		return pkgio.ReadCSV(strings.NewReader(req.CSV), s.logger)
	case hasGraph:
		return pkgio.ReadJSON(bytes.NewReader(req.Graph))
	}
	return nil, apperrors.New(apperrors.ErrCodeInvalidInput, "request has no graph (set csv or graph)")
}

func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.writeError(w, apperrors.New(apperrors.ErrCodeUnsupported, "run store is disabled"))
		return
	}
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			s.writeError(w, apperrors.New(apperrors.ErrCodeInvalidInput, "invalid limit %q", v))
			return
		}
		limit = n
	}
	recs, err := s.store.List(r.Context(), limit)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"runs": recs})
}

func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.writeError(w, apperrors.New(apperrors.ErrCodeUnsupported, "run store is disabled"))
		return
	}
	id := chi.URLParam(r, "id")
	if !store.ValidID(id) {
		s.writeError(w, apperrors.New(apperrors.ErrCodeInvalidInput, "invalid run id %q", id))
		return
	}
	rec, err := s.store.Get(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, struct {
		Status string `json:"status"`
		buildinfo.Info
	}{"ok", buildinfo.Get()})
}

type errorBody struct {
	Code    apperrors.Code `json:"code"`
	Message string         `json:"message"`
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	code := apperrors.GetCode(err)
	status := apperrors.HTTPStatus(code)
	switch {
	case errors.Is(err, context.Canceled):
		code, status = "CANCELED", http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		code, status = "TIMEOUT", http.StatusGatewayTimeout
	case code == "":
		code = apperrors.ErrCodeInternal
	}
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "err", err)
	}
	writeJSON(w, status, map[string]errorBody{"error": {Code: code, Message: apperrors.UserMessage(err)}})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start).Round(time.Microsecond),
			"request_id", middleware.GetReqID(r.Context()))
	})
}
