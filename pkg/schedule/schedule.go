// Package schedule turns an operation ordering into a timed schedule.
//
// Operations are dispatched in the order given. Each resource track runs its
// operations back to back in that order, and an operation additionally waits
// for all of its predecessors, on any resource, to finish. The makespan is
// the latest finish time.
//
// For the graph A(2, r1) → B(3, r1), A → C(1, r2) and ordering [A B C]:
//
//	A: 0..2   (r1)
//	B: 2..5   (r1, waits for A on the same track)
//	C: 2..3   (r2, waits for predecessor A)
//	makespan = 5
package schedule

import (
	"errors"

	"github.com/matzehuels/antscheduler/pkg/dag"
	apperrors "github.com/matzehuels/antscheduler/pkg/errors"
)

// ErrInvalidOrdering is returned when an ordering is not a precedence-valid
// permutation of the graph's operations.
var ErrInvalidOrdering = errors.New("invalid ordering")

// Entry is the timing of one operation.
type Entry struct {
	ID       string `json:"id"`
	Resource int    `json:"resource"`
	Start    int    `json:"start"`
	Finish   int    `json:"finish"`
}

// Schedule is a timed ordering. Entries follow the ordering's sequence.
type Schedule struct {
	Entries  []Entry `json:"entries"`
	Makespan int     `json:"makespan"`
}

// Resources returns the distinct resource tags in order of first use.
func (s Schedule) Resources() []int {
	seen := make(map[int]bool)
	var out []int
	for _, e := range s.Entries {
		if !seen[e.Resource] {
			seen[e.Resource] = true
			out = append(out, e.Resource)
		}
	}
	return out
}

// Evaluator computes makespans with reusable buffers.
// An Evaluator is not safe for concurrent use; create one per goroutine.
type Evaluator struct {
	g      *dag.Graph
	track  []int // handle -> dense resource index
	finish []int
	free   []int
}

// NewEvaluator prepares an evaluator for g.
func NewEvaluator(g *dag.Graph) *Evaluator {
	n := g.Len()
	track := make([]int, n)
	dense := make(map[int]int)
	for i := 0; i < n; i++ {
		r := g.Operation(i).Resource
		idx, ok := dense[r]
		if !ok {
			idx = len(dense)
			dense[r] = idx
		}
		track[i] = idx
	}
	return &Evaluator{
		g:      g,
		track:  track,
		finish: make([]int, n),
		free:   make([]int, len(dense)),
	}
}

// Makespan simulates order and returns the latest finish time.
// The ordering is assumed to be a valid permutation; use [Validate] when it
// comes from outside the search engine.
func (e *Evaluator) Makespan(order []int) int {
	for i := range e.free {
		e.free[i] = 0
	}
	makespan := 0
	for _, op := range order {
		start := e.free[e.track[op]]
		for _, p := range e.g.Predecessors(op) {
			if e.finish[p] > start {
				start = e.finish[p]
			}
		}
		end := start + e.g.Operation(op).Duration
		e.finish[op] = end
		e.free[e.track[op]] = end
		if end > makespan {
			makespan = end
		}
	}
	return makespan
}

// Simulate validates order against g and returns the full timed schedule.
func Simulate(g *dag.Graph, order []int) (Schedule, error) {
	if err := Validate(g, order); err != nil {
		return Schedule{}, err
	}
	e := NewEvaluator(g)
	makespan := e.Makespan(order)

	entries := make([]Entry, len(order))
	for pos, op := range order {
		o := g.Operation(op)
		entries[pos] = Entry{
			ID:       o.ID,
			Resource: o.Resource,
			Start:    e.finish[op] - o.Duration,
			Finish:   e.finish[op],
		}
	}
	return Schedule{Entries: entries, Makespan: makespan}, nil
}

// SimulateIDs is Simulate addressed by operation IDs.
func SimulateIDs(g *dag.Graph, ids []string) (Schedule, error) {
	order := make([]int, len(ids))
	for i, id := range ids {
		h, ok := g.Index(id)
		if !ok {
			return Schedule{}, apperrors.Wrap(apperrors.ErrCodeUnknownOperation, dag.ErrUnknownOperation, "ordering position %d: %q", i, id)
		}
		order[i] = h
	}
	return Simulate(g, order)
}

// Validate checks that order is a permutation of all operations of g in which
// every predecessor appears before its successors.
func Validate(g *dag.Graph, order []int) error {
	n := g.Len()
	if len(order) != n {
		return apperrors.Wrap(apperrors.ErrCodeInvalidInput, ErrInvalidOrdering, "length must be %d (got %d)", n, len(order))
	}
	placed := dag.NewSet(n)
	for pos, op := range order {
		if op < 0 || op >= n {
			return apperrors.Wrap(apperrors.ErrCodeInvalidInput, ErrInvalidOrdering, "position %d: handle %d out of range [0,%d)", pos, op, n)
		}
		if placed.Has(op) {
			return apperrors.Wrap(apperrors.ErrCodeInvalidInput, ErrInvalidOrdering, "position %d: duplicate operation %q", pos, g.ID(op))
		}
		for _, p := range g.Predecessors(op) {
			if !placed.Has(p) {
				return apperrors.Wrap(apperrors.ErrCodeInvalidInput, ErrInvalidOrdering, "operation %q placed before its predecessor %q", g.ID(op), g.ID(p))
			}
		}
		placed.Add(op)
	}
	return nil
}
