package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/antscheduler/pkg/aco"
	"github.com/matzehuels/antscheduler/pkg/pipeline"
	"github.com/matzehuels/antscheduler/pkg/store"
)

const jobs = "A,2,1\nB,3,1,A\nC,1,2,A\n"

func newTestServer(t *testing.T, st store.Store, opts ...Option) *httptest.Server {
	t.Helper()
	logger := log.NewWithOptions(&bytes.Buffer{}, log.Options{})
	defaults := aco.DefaultConfig()
	defaults.Ants = 6
	defaults.MaxIterations = 10
	defaults.Workers = 2

	runner := pipeline.NewRunner(nil, nil, st, logger)
	srv := httptest.NewServer(New(runner, st, defaults, logger, opts...).Handler())
	t.Cleanup(srv.Close)
	return srv
}

func post(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatal(err)
	}
	resp, err := http.Post(url, "application/json", bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeError(t *testing.T, resp *http.Response) errorBody {
	t.Helper()
	var body map[string]errorBody
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	return body["error"]
}

func TestSolve(t *testing.T) {
	st := store.NewMemoryStore()
	srv := newTestServer(t, st)

	resp := post(t, srv.URL+"/v1/solve", map[string]any{
		"csv":    jobs,
		"search": map[string]any{"algorithm_type": "MaxMinAntSystem", "seed": 7},
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, error = %+v", resp.StatusCode, decodeError(t, resp))
	}

	var got SolveResponse
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatal(err)
	}
	if got.Run.Makespan != 5 {
		t.Errorf("makespan = %v, want 5", got.Run.Makespan)
	}
	if got.Run.Variant != "MaxMinAntSystem" {
		t.Errorf("variant = %q", got.Run.Variant)
	}
	if !strings.HasPrefix(got.Path, "A -> ") {
		t.Errorf("path = %q", got.Path)
	}
	if !store.ValidID(got.ID) {
		t.Fatalf("id = %q", got.ID)
	}

	runResp, err := http.Get(srv.URL + "/v1/runs/" + got.ID)
	if err != nil {
		t.Fatal(err)
	}
	defer runResp.Body.Close()
	if runResp.StatusCode != http.StatusOK {
		t.Fatalf("GET run status = %d", runResp.StatusCode)
	}
	var rec store.Record
	if err := json.NewDecoder(runResp.Body).Decode(&rec); err != nil {
		t.Fatal(err)
	}
	if rec.ID != got.ID || rec.Source != "api" || rec.Run.Makespan != 5 {
		t.Errorf("record = %+v", rec)
	}
}

func TestSolveGraphJSON(t *testing.T) {
	srv := newTestServer(t, nil)
	graph := `{"operations":[{"id":"A","duration":2,"resource":1},{"id":"B","duration":3,"resource":1}],
		"edges":[{"from":"A","to":"B"}]}`

	resp := post(t, srv.URL+"/v1/solve", map[string]any{"graph": json.RawMessage(graph)})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, error = %+v", resp.StatusCode, decodeError(t, resp))
	}
	var got SolveResponse
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatal(err)
	}
	if got.Run.Makespan != 5 || got.Path != "A -> B" {
		t.Errorf("run = %+v path = %q", got.Run, got.Path)
	}
	if got.ID != "" {
		t.Errorf("id = %q without a store", got.ID)
	}
}

func TestSolveErrors(t *testing.T) {
	srv := newTestServer(t, nil)

	tests := []struct {
		name   string
		body   any
		status int
		code   string
	}{
		{"no graph", map[string]any{}, http.StatusBadRequest, "INVALID_INPUT"},
		{"both graphs", map[string]any{"csv": jobs, "graph": map[string]any{}}, http.StatusBadRequest, "INVALID_INPUT"},
		{"unknown field", map[string]any{"csv": jobs, "bogus": 1}, http.StatusBadRequest, "INVALID_INPUT"},
		{"cycle", map[string]any{"csv": "A,1,1,B\nB,1,1,A\n"}, http.StatusUnprocessableEntity, "GRAPH_HAS_CYCLE"},
		{"unknown predecessor", map[string]any{"csv": "A,1,1,Z\n"}, http.StatusBadRequest, "UNKNOWN_OPERATION"},
		{"duplicate", map[string]any{"csv": "A,1,1\nA,2,1\n"}, http.StatusBadRequest, "DUPLICATE_OPERATION"},
		{"unknown variant", map[string]any{"csv": jobs, "search": map[string]any{"algorithm_type": "Bees"}}, http.StatusBadRequest, "UNKNOWN_STRATEGY"},
		{"bad ants", map[string]any{"csv": jobs, "search": map[string]any{"ants": 0}}, http.StatusBadRequest, "INVALID_CONFIG"},
		{"too many ants", map[string]any{"csv": jobs, "search": map[string]any{"ants": 1 << 36, "iterations": 1}}, http.StatusBadRequest, "INVALID_INPUT"},
		{"too many iterations", map[string]any{"csv": jobs, "search": map[string]any{"iterations": 1 << 40}}, http.StatusBadRequest, "INVALID_INPUT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := post(t, srv.URL+"/v1/solve", tt.body)
			if resp.StatusCode != tt.status {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.status)
			}
			if got := decodeError(t, resp); string(got.Code) != tt.code {
				t.Errorf("code = %q (%s), want %q", got.Code, got.Message, tt.code)
			}
		})
	}
}

func TestSolveLimits(t *testing.T) {
	srv := newTestServer(t, nil, WithLimits(Limits{Operations: 3, Ants: 8, Iterations: 20}))

	tests := []struct {
		name   string
		body   any
		status int
	}{
		{"within limits", map[string]any{"csv": jobs, "search": map[string]any{"ants": 8, "iterations": 20}}, http.StatusOK},
		{"too many operations", map[string]any{"csv": jobs + "D,1,1,B\n"}, http.StatusBadRequest},
		{"too many ants", map[string]any{"csv": jobs, "search": map[string]any{"ants": 9}}, http.StatusBadRequest},
		{"too many iterations", map[string]any{"csv": jobs, "search": map[string]any{"iterations": 21}}, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := post(t, srv.URL+"/v1/solve", tt.body)
			if resp.StatusCode != tt.status {
				t.Fatalf("status = %d, want %d", resp.StatusCode, tt.status)
			}
			if tt.status != http.StatusOK {
				if got := decodeError(t, resp); got.Code != "INVALID_INPUT" {
					t.Errorf("code = %q (%s), want INVALID_INPUT", got.Code, got.Message)
				}
			}
		})
	}
}

func TestLimitsZeroDisables(t *testing.T) {
	cfg := aco.DefaultConfig()
	cfg.Ants = 1 << 30
	cfg.MaxIterations = 1 << 30
	if err := (Limits{}).check(1<<20, cfg); err != nil {
		t.Errorf("check with zero limits = %v", err)
	}
	if err := DefaultLimits.check(DefaultLimits.Operations+1, aco.DefaultConfig()); err == nil {
		t.Error("check accepted a graph over the operation limit")
	}
}

func TestRuns(t *testing.T) {
	st := store.NewMemoryStore()
	srv := newTestServer(t, st)

	for range 3 {
		resp := post(t, srv.URL+"/v1/solve", map[string]any{"csv": jobs})
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("solve status = %d", resp.StatusCode)
		}
	}

	resp, err := http.Get(srv.URL + "/v1/runs?limit=2")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	var body struct {
		Runs []store.Record `json:"runs"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if len(body.Runs) != 2 {
		t.Errorf("len(runs) = %d, want 2", len(body.Runs))
	}

	tests := []struct {
		path   string
		status int
	}{
		{"/v1/runs?limit=x", http.StatusBadRequest},
		{"/v1/runs/not-a-uuid", http.StatusBadRequest},
		{"/v1/runs/2b1f3c1e-5f0a-4f7e-9a43-6f8b1c2d3e4f", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp, err := http.Get(srv.URL + tt.path)
			if err != nil {
				t.Fatal(err)
			}
			defer resp.Body.Close()
			if resp.StatusCode != tt.status {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.status)
			}
		})
	}
}

func TestRunsWithoutStore(t *testing.T) {
	srv := newTestServer(t, nil)
	resp, err := http.Get(srv.URL + "/v1/runs")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotImplemented {
		t.Errorf("status = %d, want 501", resp.StatusCode)
	}
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t, nil)
	resp, err := http.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d", resp.StatusCode)
	}
}

func TestSearchParamsRoundTrip(t *testing.T) {
	base := aco.DefaultConfig()
	base.Workers = 3
	if got := paramsOf(base).config(base); got != base {
		t.Errorf("config(paramsOf(base)) = %+v, want %+v", got, base)
	}
}

func TestSolveCanceled(t *testing.T) {
	logger := log.NewWithOptions(&bytes.Buffer{}, log.Options{})
	s := New(pipeline.NewRunner(nil, nil, nil, logger), nil, aco.DefaultConfig(), logger)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	body, _ := json.Marshal(map[string]any{"csv": jobs})
	req := httptest.NewRequest(http.MethodPost, "/v1/solve", bytes.NewReader(body)).WithContext(ctx)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", rec.Code)
	}
}
