package dag_test

import (
	"fmt"

	"github.com/matzehuels/antscheduler/pkg/dag"
)

func ExampleGraph_basic() {
	// A precedes both B and C
	g := dag.New(nil)
	_ = g.AddOperation(dag.Operation{ID: "A", Duration: 2, Resource: 1})
	_ = g.AddOperation(dag.Operation{ID: "B", Duration: 3, Resource: 1})
	_ = g.AddOperation(dag.Operation{ID: "C", Duration: 1, Resource: 2})
	_ = g.AddPrecedence("A", "B")
	_ = g.AddPrecedence("A", "C")

	fmt.Println("Operations:", g.Len())
	fmt.Println("Edges:", g.EdgeCount())
	fmt.Println("Successors of A:", g.SuccessorIDs("A"))
	fmt.Println("A is ancestor of C:", g.IsAncestorID("A", "C"))
	fmt.Println("C is ancestor of A:", g.IsAncestorID("C", "A"))
	// Output:
	// Operations: 3
	// Edges: 2
	// Successors of A: [B C]
	// A is ancestor of C: true
	// C is ancestor of A: false
}

func ExampleGraph_Eligible() {
	g := dag.New(nil)
	_ = g.AddOperation(dag.Operation{ID: "A", Duration: 2})
	_ = g.AddOperation(dag.Operation{ID: "B", Duration: 3})
	_ = g.AddOperation(dag.Operation{ID: "C", Duration: 1})
	_ = g.AddPrecedence("A", "B")
	_ = g.AddPrecedence("A", "C")

	visited := dag.NewSet(g.Len())
	fmt.Println("Frontier:", ids(g, g.Eligible(visited)))

	a, _ := g.Index("A")
	visited.Add(a)
	fmt.Println("Frontier after A:", ids(g, g.Eligible(visited)))
	// Output:
	// Frontier: [A]
	// Frontier after A: [B C]
}

func ids(g *dag.Graph, handles []int) []string {
	out := make([]string, len(handles))
	for i, h := range handles {
		out[i] = g.ID(h)
	}
	return out
}
