package dag

import (
	"errors"
	"slices"
	"sync"

	apperrors "github.com/matzehuels/antscheduler/pkg/errors"
)

var (
	// ErrInvalidOperationID is returned by [Graph.AddOperation] when the
	// operation ID is empty.
	ErrInvalidOperationID = errors.New("operation ID must not be empty")

	// ErrDuplicateOperation is returned by [Graph.AddOperation] when an
	// operation with the same ID already exists. Repeated names in the input
	// are rejected rather than merged.
	ErrDuplicateOperation = errors.New("duplicate operation")

	// ErrUnknownOperation is returned by [Graph.AddPrecedence] when either
	// endpoint does not name an existing operation.
	ErrUnknownOperation = errors.New("unknown operation")

	// ErrNegativeDuration is returned by [Graph.AddOperation] for durations
	// below zero.
	ErrNegativeDuration = errors.New("duration must not be negative")

	// ErrGraphHasCycle is returned by [Graph.Validate] when the precedence
	// relation is cyclic, and by [Graph.AddPrecedence] for self-edges.
	ErrGraphHasCycle = errors.New("precedence graph contains a cycle")
)

// Metadata stores arbitrary key-value pairs attached to operations or the graph.
type Metadata map[string]any

// Operation is a schedulable unit of work.
//
// The zero value is not usable - ID must be set before adding to a Graph.
type Operation struct {
	ID       string   // Unique name, also used as display label
	Duration int      // Processing time, >= 0
	Resource int      // Exclusive resource track the operation runs on
	Meta     Metadata // Arbitrary metadata (never nil after AddOperation)
}

// Edge is a direct precedence constraint: To may not start before From finishes.
type Edge struct {
	From string
	To   string
}

// Graph is a precedence graph over operations stored in an arena.
//
// The zero value is not usable - use New to create a valid Graph.
type Graph struct {
	ops   []Operation
	index map[string]int
	preds [][]int // handle -> direct predecessor handles
	succs [][]int // handle -> direct successor handles
	edges []Edge
	meta  Metadata

	mu    sync.Mutex
	reach []Set // reach[a].Has(b) iff b is reachable from a; nil when stale
}

// New creates an empty graph with optional graph-level metadata.
func New(meta Metadata) *Graph {
	if meta == nil {
		meta = Metadata{}
	}
	return &Graph{
		index: make(map[string]int),
		meta:  meta,
	}
}

// Meta returns the graph-level metadata map.
func (g *Graph) Meta() Metadata { return g.meta }

// AddOperation appends an operation to the arena and returns nil, or an error
// wrapping ErrInvalidOperationID, ErrNegativeDuration or ErrDuplicateOperation.
// The operation's handle is the number of operations added before it.
func (g *Graph) AddOperation(op Operation) error {
	if op.ID == "" {
		return apperrors.Wrap(apperrors.ErrCodeInvalidInput, ErrInvalidOperationID, "add operation")
	}
	if op.Duration < 0 {
		return apperrors.Wrap(apperrors.ErrCodeInvalidInput, ErrNegativeDuration, "operation %q: duration %d", op.ID, op.Duration)
	}
	if _, exists := g.index[op.ID]; exists {
		return apperrors.Wrap(apperrors.ErrCodeDuplicateOperation, ErrDuplicateOperation, "operation %q", op.ID)
	}
	if op.Meta == nil {
		op.Meta = Metadata{}
	}
	g.index[op.ID] = len(g.ops)
	g.ops = append(g.ops, op)
	g.preds = append(g.preds, nil)
	g.succs = append(g.succs, nil)
	g.invalidate()
	return nil
}

// AddPrecedence records that succ must follow pred.
// Returns an error wrapping ErrUnknownOperation if either ID is missing, or
// ErrGraphHasCycle if pred == succ. Adding an existing edge again is a no-op.
func (g *Graph) AddPrecedence(pred, succ string) error {
	p, ok := g.index[pred]
	if !ok {
		return apperrors.Wrap(apperrors.ErrCodeUnknownOperation, ErrUnknownOperation, "predecessor %q of %q", pred, succ)
	}
	s, ok := g.index[succ]
	if !ok {
		return apperrors.Wrap(apperrors.ErrCodeUnknownOperation, ErrUnknownOperation, "successor %q of %q", succ, pred)
	}
	if p == s {
		return apperrors.Wrap(apperrors.ErrCodeGraphHasCycle, ErrGraphHasCycle, "operation %q precedes itself", pred)
	}
	if slices.Contains(g.succs[p], s) {
		return nil
	}
	g.succs[p] = append(g.succs[p], s)
	g.preds[s] = append(g.preds[s], p)
	g.edges = append(g.edges, Edge{From: pred, To: succ})
	g.invalidate()
	return nil
}

// Len returns the number of operations.
func (g *Graph) Len() int { return len(g.ops) }

// EdgeCount returns the number of direct precedence edges.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// Index returns the handle of the operation with the given ID.
func (g *Graph) Index(id string) (int, bool) {
	i, ok := g.index[id]
	return i, ok
}

// Operation returns the operation stored at handle i.
// It panics if i is out of range.
func (g *Graph) Operation(i int) Operation { return g.ops[i] }

// ID returns the ID of the operation at handle i.
func (g *Graph) ID(i int) string { return g.ops[i].ID }

// Operations returns a copy of all operations in handle order.
func (g *Graph) Operations() []Operation { return slices.Clone(g.ops) }

// Edges returns a copy of all precedence edges in insertion order.
func (g *Graph) Edges() []Edge { return slices.Clone(g.edges) }

// Predecessors returns the direct predecessor handles of i.
// The returned slice must be treated as read-only.
func (g *Graph) Predecessors(i int) []int { return g.preds[i] }

// Successors returns the direct successor handles of i.
// The returned slice must be treated as read-only.
func (g *Graph) Successors(i int) []int { return g.succs[i] }

// PredecessorIDs returns the IDs of the direct predecessors of id, or nil
// if id is unknown.
func (g *Graph) PredecessorIDs(id string) []string { return g.idsOf(id, g.preds) }

// SuccessorIDs returns the IDs of the direct successors of id, or nil if id
// is unknown.
func (g *Graph) SuccessorIDs(id string) []string { return g.idsOf(id, g.succs) }

func (g *Graph) idsOf(id string, adj [][]int) []string {
	i, ok := g.index[id]
	if !ok {
		return nil
	}
	out := make([]string, len(adj[i]))
	for k, h := range adj[i] {
		out[k] = g.ops[h].ID
	}
	return out
}

// Sources returns the handles of operations without predecessors.
func (g *Graph) Sources() []int {
	var out []int
	for i := range g.ops {
		if len(g.preds[i]) == 0 {
			out = append(out, i)
		}
	}
	return out
}

// Sinks returns the handles of operations without successors.
func (g *Graph) Sinks() []int {
	var out []int
	for i := range g.ops {
		if len(g.succs[i]) == 0 {
			out = append(out, i)
		}
	}
	return out
}

// Eligible returns, in handle order, the operations not in visited whose
// predecessors are all in visited. This is the frontier of a topological
// ordering that has placed exactly the members of visited.
//
// On a cyclic graph the operations of a cycle never become eligible, so the
// frontier can be empty while operations remain.
func (g *Graph) Eligible(visited Set) []int {
	var out []int
	for i := range g.ops {
		if visited.Has(i) {
			continue
		}
		ready := true
		for _, p := range g.preds[i] {
			if !visited.Has(p) {
				ready = false
				break
			}
		}
		if ready {
			out = append(out, i)
		}
	}
	return out
}

// IsAncestor reports whether b is reachable from a by following successor
// edges zero or more times. Every operation is its own ancestor.
func (g *Graph) IsAncestor(a, b int) bool {
	return g.closure()[a].Has(b)
}

// IsAncestorID is IsAncestor addressed by operation IDs.
// Unknown IDs are never ancestors.
func (g *Graph) IsAncestorID(a, b string) bool {
	ai, ok := g.index[a]
	if !ok {
		return false
	}
	bi, ok := g.index[b]
	if !ok {
		return false
	}
	return g.IsAncestor(ai, bi)
}

// Descendants returns the set of operations reachable from i, including i.
// The returned set must be treated as read-only.
func (g *Graph) Descendants(i int) Set { return g.closure()[i] }

// Validate checks that the precedence relation is acyclic.
// Returns an error wrapping ErrGraphHasCycle naming one operation on a cycle.
//
// Cycle detection runs in O(N+E) time using depth-first search with
// white/gray/black coloring.
func (g *Graph) Validate() error {
	const (
		white = iota
		gray
		black
	)
	color := make([]int, len(g.ops))

	var visit func(i int) int
	visit = func(i int) int {
		color[i] = gray
		for _, s := range g.succs[i] {
			switch color[s] {
			case gray:
				return s
			case white:
				if c := visit(s); c >= 0 {
					return c
				}
			}
		}
		color[i] = black
		return -1
	}

	for i := range g.ops {
		if color[i] != white {
			continue
		}
		if c := visit(i); c >= 0 {
			return apperrors.Wrap(apperrors.ErrCodeGraphHasCycle, ErrGraphHasCycle, "operation %q is on a cycle", g.ops[c].ID)
		}
	}
	return nil
}

// Equal reports whether g and o contain the same operations (ID, duration,
// resource) and the same predecessor and successor sets per operation.
// Handle order and metadata are ignored.
func (g *Graph) Equal(o *Graph) bool {
	if g.Len() != o.Len() || g.EdgeCount() != o.EdgeCount() {
		return false
	}
	for _, op := range g.ops {
		j, ok := o.index[op.ID]
		if !ok {
			return false
		}
		other := o.ops[j]
		if op.Duration != other.Duration || op.Resource != other.Resource {
			return false
		}
		if !sameIDs(g.PredecessorIDs(op.ID), o.PredecessorIDs(op.ID)) ||
			!sameIDs(g.SuccessorIDs(op.ID), o.SuccessorIDs(op.ID)) {
			return false
		}
	}
	return true
}

func sameIDs(a, b []string) bool {
	a, b = slices.Clone(a), slices.Clone(b)
	slices.Sort(a)
	slices.Sort(b)
	return slices.Equal(a, b)
}

func (g *Graph) invalidate() {
	g.mu.Lock()
	g.reach = nil
	g.mu.Unlock()
}

// closure returns the reachability sets, computing them on first use.
// Each set is built by an iterative DFS, so cycles are tolerated.
func (g *Graph) closure() []Set {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.reach != nil {
		return g.reach
	}

	n := len(g.ops)
	reach := make([]Set, n)
	stack := make([]int, 0, n)
	for a := 0; a < n; a++ {
		seen := NewSet(n)
		seen.Add(a)
		stack = append(stack[:0], a)
		for len(stack) > 0 {
			cur := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			for _, s := range g.succs[cur] {
				if !seen.Has(s) {
					seen.Add(s)
					stack = append(stack, s)
				}
			}
		}
		reach[a] = seen
	}
	g.reach = reach
	return reach
}
