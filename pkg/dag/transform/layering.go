package transform

import "github.com/matzehuels/antscheduler/pkg/dag"

// Levels returns, per operation handle, the number of edges on the longest
// predecessor chain ending at that operation. Sources are at level 0.
//
// Levels uses Kahn's algorithm, so it runs in O(V + E). Operations on a
// cycle never reach in-degree zero and keep level 0; call [dag.Graph.Validate]
// first when that matters.
func Levels(g *dag.Graph) []int {
	n := g.Len()
	levels := make([]int, n)
	inDegree := make([]int, n)
	queue := make([]int, 0, n)

	for i := 0; i < n; i++ {
		inDegree[i] = len(g.Predecessors(i))
		if inDegree[i] == 0 {
			queue = append(queue, i)
		}
	}

	for len(queue) > 0 {
		curr := queue[0]
		queue = queue[1:]

		for _, succ := range g.Successors(curr) {
			if lvl := levels[curr] + 1; lvl > levels[succ] {
				levels[succ] = lvl
			}
			inDegree[succ]--
			if inDegree[succ] == 0 {
				queue = append(queue, succ)
			}
		}
	}
	return levels
}

// ByLevel groups operation handles by their level, in ascending level order.
func ByLevel(g *dag.Graph) [][]int {
	levels := Levels(g)
	top := 0
	for _, l := range levels {
		if l > top {
			top = l
		}
	}
	if g.Len() == 0 {
		return nil
	}
	groups := make([][]int, top+1)
	for i, l := range levels {
		groups[l] = append(groups[l], i)
	}
	return groups
}
