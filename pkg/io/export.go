package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/matzehuels/antscheduler/pkg/dag"
)

type graph struct {
	Meta       dag.Metadata `json:"meta,omitempty"`
	Operations []operation  `json:"operations"`
	Edges      []edge       `json:"edges"`
}

type operation struct {
	ID       string       `json:"id"`
	Duration int          `json:"duration"`
	Resource int          `json:"resource"`
	Meta     dag.Metadata `json:"meta,omitempty"`
}

type edge struct {
	From string `json:"from"`
	To   string `json:"to"`
}

func isJSON(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".json")
}

// WriteJSON encodes a graph as JSON and writes it to w.
// The output can be re-imported with [ReadJSON] and yields an equal graph.
func WriteJSON(g *dag.Graph, w io.Writer) error {
	ops := g.Operations()
	edges := g.Edges()
	out := graph{
		Operations: make([]operation, len(ops)),
		Edges:      make([]edge, len(edges)),
	}
	if len(g.Meta()) > 0 {
		out.Meta = g.Meta()
	}
	for i, op := range ops {
		out.Operations[i] = operation{ID: op.ID, Duration: op.Duration, Resource: op.Resource}
		if len(op.Meta) > 0 {
			out.Operations[i].Meta = op.Meta
		}
	}
	for i, e := range edges {
		out.Edges[i] = edge{From: e.From, To: e.To}
	}
	return encode(w, out)
}

// ExportJSON writes a graph to a JSON file at path.
func ExportJSON(g *dag.Graph, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteJSON(g, f)
}

// Export writes g to path as JSON or CSV, chosen like [Import].
func Export(g *dag.Graph, path string) error {
	if isJSON(path) {
		return ExportJSON(g, path)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteCSV(g, f)
}

func encode(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}
