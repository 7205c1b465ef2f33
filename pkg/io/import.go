package io

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/antscheduler/pkg/dag"
	apperrors "github.com/matzehuels/antscheduler/pkg/errors"
)

// ReadJSON decodes a JSON graph from r.
//
// The input must be a JSON object with "operations" and "edges" arrays:
//
//	{
//	  "operations": [{"id": "a", "duration": 1}, {"id": "b", "duration": 2}],
//	  "edges": [{"from": "a", "to": "b"}]
//	}
//
// Each operation must have an "id". Optional fields:
//   - duration: non-negative integer (defaults to 0)
//   - resource: integer resource tag (defaults to 0)
//   - meta: object with arbitrary key-value pairs
//
// Each edge must have "from" and "to" fields that reference operation IDs.
//
// ReadJSON returns an error if:
//   - The JSON is malformed or invalid
//   - An operation has a duplicate ID or a negative duration
//   - An edge references an unknown operation ID
//
// Errors are wrapped with context describing which operation or edge caused
// the problem. ReadJSON does not close r.
func ReadJSON(r io.Reader) (*dag.Graph, error) {
	var data graph
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidFormat, err, "decode")
	}

	g := dag.New(data.Meta)
	for _, op := range data.Operations {
		if err := g.AddOperation(dag.Operation{
			ID:       op.ID,
			Duration: op.Duration,
			Resource: op.Resource,
			Meta:     op.Meta,
		}); err != nil {
			return nil, fmt.Errorf("operation %s: %w", op.ID, err)
		}
	}
	for _, e := range data.Edges {
		if err := g.AddPrecedence(e.From, e.To); err != nil {
			return nil, fmt.Errorf("edge %s->%s: %w", e.From, e.To, err)
		}
	}
	return g, nil
}

// ImportJSON reads a JSON file at path and returns the decoded graph.
func ImportJSON(path string) (*dag.Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, apperrors.Wrap(apperrors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadJSON(f)
}

// ImportOption configures [Import].
type ImportOption func(*importOptions)

type importOptions struct {
	logger *log.Logger
}

// WithLogger sets the logger that receives warnings about skipped CSV rows.
func WithLogger(l *log.Logger) ImportOption {
	return func(o *importOptions) { o.logger = l }
}

// Import reads a graph file, choosing the format by extension: ".json" is
// decoded with [ReadJSON], anything else as CSV.
func Import(path string, opts ...ImportOption) (*dag.Graph, error) {
	var o importOptions
	for _, opt := range opts {
		opt(&o)
	}
	if isJSON(path) {
		return ImportJSON(path)
	}
	return ImportCSV(path, o.logger)
}
