package render

import (
	"bytes"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/matzehuels/antscheduler/pkg/dag"
	"github.com/matzehuels/antscheduler/pkg/dag/transform"
)

// Options configures DOT generation.
type Options struct {
	// Detailed adds duration, resource and metadata to node labels.
	Detailed bool
	// Reduce draws only the transitive reduction of the precedence relation.
	Reduce bool
	// Order, when set, labels each operation with its 1-based position.
	Order []string
}

// resourceColors fills nodes by resource tag, cycling for larger tags.
var resourceColors = []string{
	"#cfe2f3", "#d9ead3", "#fff2cc", "#f4cccc", "#d9d2e9", "#fce5cd", "#d0e0e3", "#ead1dc",
}

func resourceColor(resource int) string {
	if resource < 0 {
		resource = -resource
	}
	return resourceColors[resource%len(resourceColors)]
}

// ToDOT converts a precedence graph to Graphviz DOT source.
// Operations of the same precedence level share a rank.
func ToDOT(g *dag.Graph, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fontsize=20, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	position := make(map[string]int, len(opts.Order))
	for i, id := range opts.Order {
		position[id] = i + 1
	}

	for _, op := range g.Operations() {
		label := fmtLabel(op, opts.Detailed, position[op.ID])
		fmt.Fprintf(&buf, "  %q [label=%q, fillcolor=%q];\n", op.ID, label, resourceColor(op.Resource))
	}

	buf.WriteString("\n")
	for _, level := range transform.ByLevel(g) {
		if len(level) < 2 {
			continue
		}
		ids := make([]string, len(level))
		for i, h := range level {
			ids[i] = fmt.Sprintf("%q", g.ID(h))
		}
		fmt.Fprintf(&buf, "  { rank=same; %s; }\n", strings.Join(ids, "; "))
	}

	edges := g.Edges()
	if opts.Reduce {
		edges = transform.TransitiveReduction(g)
	}
	for _, e := range edges {
		fmt.Fprintf(&buf, "  %q -> %q;\n", e.From, e.To)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(op dag.Operation, detailed bool, pos int) string {
	label := op.ID
	if pos > 0 {
		label = fmt.Sprintf("%d. %s", pos, op.ID)
	}
	if !detailed {
		return label
	}

	parts := []string{
		fmt.Sprintf("duration: %d", op.Duration),
		fmt.Sprintf("resource: %d", op.Resource),
	}
	for _, k := range slices.Sorted(maps.Keys(op.Meta)) {
		parts = append(parts, fmt.Sprintf("%s: %v", k, op.Meta[k]))
	}
	return label + "\n" + strings.Join(parts, "\n")
}
