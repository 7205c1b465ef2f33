// Package dag provides the precedence graph that the scheduler optimizes over.
//
// # Overview
//
// An operation is a unit of work with a duration and a resource tag. A
// precedence edge pred → succ states that succ may only start once pred has
// finished. The graph of all operations and edges must be acyclic; every
// schedule the search engine produces is a topological ordering of it.
//
// # Basic Usage
//
// Create a graph with [New], add operations with [Graph.AddOperation] and
// precedence edges with [Graph.AddPrecedence]. Operation IDs must be unique and
// edges may only reference operations that already exist:
//
//	g := dag.New(nil)
//	g.AddOperation(dag.Operation{ID: "A", Duration: 2, Resource: 1})
//	g.AddOperation(dag.Operation{ID: "B", Duration: 3, Resource: 1})
//	g.AddPrecedence("A", "B")
//
// # Handles
//
// Operations live in an arena and are addressed by stable integer handles
// assigned in insertion order (see [Graph.Index]). Predecessor and successor
// relations are stored as handle slices, so there are no pointer cycles
// between operations and adjacency lookups are O(1). Hot paths such as ant
// construction work exclusively on handles; string IDs are for input and
// output.
//
// # Reachability
//
// [Graph.IsAncestor] answers whether one operation transitively precedes
// another. The transitive closure is computed lazily on first use, stored as
// one [Set] per operation, and discarded whenever the graph is mutated.
//
// # Concurrency
//
// Graph instances are not safe for concurrent mutation. Once construction is
// finished, all read methods may be called from multiple goroutines; the lazy
// closure computation is guarded internally.
package dag
