package aco

import "github.com/matzehuels/antscheduler/pkg/dag"

// heuristic returns the desirability η of every operation, indexed by handle.
// Values are strictly positive so that a zero Beta never turns a candidate off.
func heuristic(g *dag.Graph, name string) []float64 {
	n := g.Len()
	eta := make([]float64, n)
	for i := 0; i < n; i++ {
		switch name {
		case HeuristicConstant:
			eta[i] = 1
		case HeuristicSuccessors:
			// Descendants includes i itself.
			eta[i] = float64(g.Descendants(i).Len())
		default:
			eta[i] = 1 / float64(g.Operation(i).Duration+1)
		}
	}
	return eta
}
