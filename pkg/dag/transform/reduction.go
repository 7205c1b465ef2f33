package transform

import "github.com/matzehuels/antscheduler/pkg/dag"

// TransitiveReduction returns the precedence edges of g that are not implied
// by another path, in insertion order.
//
// An edge (u, v) is redundant when some other direct successor w of u
// reaches v. Reachability comes from the graph's cached closure, so the
// check costs O(E · out-degree).
//
// The graph is not modified.
func TransitiveReduction(g *dag.Graph) []dag.Edge {
	var kept []dag.Edge
	for _, e := range g.Edges() {
		u, _ := g.Index(e.From)
		v, _ := g.Index(e.To)
		redundant := false
		for _, w := range g.Successors(u) {
			if w != v && g.IsAncestor(w, v) {
				redundant = true
				break
			}
		}
		if !redundant {
			kept = append(kept, e)
		}
	}
	return kept
}
