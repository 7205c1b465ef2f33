package aco

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/matzehuels/antscheduler/pkg/dag"
)

func build(t *testing.T, ops []dag.Operation, edges [][2]string) *dag.Graph {
	t.Helper()
	g := dag.New(nil)
	for _, op := range ops {
		if err := g.AddOperation(op); err != nil {
			t.Fatalf("AddOperation(%s): %v", op.ID, err)
		}
	}
	for _, e := range edges {
		if err := g.AddPrecedence(e[0], e[1]); err != nil {
			t.Fatalf("AddPrecedence(%s, %s): %v", e[0], e[1], err)
		}
	}
	return g
}

func abc(t *testing.T) *dag.Graph {
	return build(t, []dag.Operation{
		{ID: "A", Duration: 2, Resource: 1},
		{ID: "B", Duration: 3, Resource: 1},
		{ID: "C", Duration: 1, Resource: 2},
	}, [][2]string{{"A", "B"}, {"A", "C"}})
}

// randomGraph builds an acyclic graph whose edges always point from a lower
// to a higher index.
func randomGraph(t *testing.T, n int, density float64, seed int64) *dag.Graph {
	t.Helper()
	rng := rand.New(rand.NewSource(seed))
	var ops []dag.Operation
	for i := 0; i < n; i++ {
		ops = append(ops, dag.Operation{
			ID:       fmt.Sprintf("op%02d", i),
			Duration: 1 + rng.Intn(9),
			Resource: rng.Intn(3),
		})
	}
	var edges [][2]string
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if rng.Float64() < density {
				edges = append(edges, [2]string{ops[i].ID, ops[j].ID})
			}
		}
	}
	return build(t, ops, edges)
}

func testConfig(variant Variant) Config {
	cfg := DefaultConfig()
	cfg.Variant = variant.String()
	cfg.Ants = 8
	cfg.MaxIterations = 25
	cfg.Workers = 2
	return cfg
}
