package aco

import "github.com/matzehuels/antscheduler/pkg/dag"

// Start is the virtual "from" handle used for the first move of every ant.
const Start = -1

// Matrix holds the pheromone value for every ordered pair of operations that
// may appear consecutively in some precedence-valid ordering, plus a row for
// the virtual start token.
//
// Pair (a, b) is excluded when b is an ancestor of a (including a == b): b
// can never directly follow a. Excluded pairs are not stored, read as 0 and
// ignore writes.
type Matrix struct {
	n       int
	values  []float64 // (n+1)*n, row n is Start
	allowed dag.Set   // same indexing as values
	count   int
}

// NewMatrix builds the matrix for g with every allowed entry set to initial.
func NewMatrix(g *dag.Graph, initial float64) *Matrix {
	n := g.Len()
	m := &Matrix{
		n:       n,
		values:  make([]float64, (n+1)*n),
		allowed: dag.NewSet((n + 1) * n),
	}
	for a := 0; a < n; a++ {
		for b := 0; b < n; b++ {
			if g.IsAncestor(b, a) {
				continue
			}
			m.allow(a, b, initial)
		}
	}
	for b := 0; b < n; b++ {
		m.allow(Start, b, initial)
	}
	return m
}

func (m *Matrix) allow(from, to int, v float64) {
	k := m.key(from, to)
	m.allowed.Add(k)
	m.values[k] = v
	m.count++
}

func (m *Matrix) key(from, to int) int {
	if from == Start {
		from = m.n
	}
	return from*m.n + to
}

func (m *Matrix) inRange(from, to int) bool {
	return from >= Start && from < m.n && to >= 0 && to < m.n
}

// Has reports whether (from, to) is an allowed pair.
func (m *Matrix) Has(from, to int) bool {
	return m.inRange(from, to) && m.allowed.Has(m.key(from, to))
}

// Get returns the pheromone on (from, to), or 0 for excluded pairs.
func (m *Matrix) Get(from, to int) float64 {
	if !m.Has(from, to) {
		return 0
	}
	return m.values[m.key(from, to)]
}

// Len returns the number of allowed entries.
func (m *Matrix) Len() int { return m.count }

// Operations returns the number of operations the matrix was built for.
func (m *Matrix) Operations() int { return m.n }

// Evaporate multiplies every allowed entry by (1 - rate).
func (m *Matrix) Evaporate(rate float64) {
	keep := 1 - rate
	for _, k := range m.allowed.Members() {
		m.values[k] *= keep
	}
}

// Reinforce adds amount to (from, to). Excluded pairs are left untouched.
func (m *Matrix) Reinforce(from, to int, amount float64) {
	if !m.Has(from, to) {
		return
	}
	m.values[m.key(from, to)] += amount
}

// ReinforcePath adds amount to every consecutive pair of order, starting with
// (Start, order[0]).
func (m *Matrix) ReinforcePath(order []int, amount float64) {
	prev := Start
	for _, op := range order {
		m.Reinforce(prev, op, amount)
		prev = op
	}
}

// Clamp bounds every allowed entry to [lo, hi].
func (m *Matrix) Clamp(lo, hi float64) {
	for _, k := range m.allowed.Members() {
		switch v := m.values[k]; {
		case v < lo:
			m.values[k] = lo
		case v > hi:
			m.values[k] = hi
		}
	}
}

// Entry is one allowed matrix cell.
type Entry struct {
	From  int // Start for the virtual start row
	To    int
	Value float64
}

// Snapshot returns every allowed entry, start row last.
func (m *Matrix) Snapshot() []Entry {
	out := make([]Entry, 0, m.count)
	for _, k := range m.allowed.Members() {
		from, to := k/m.n, k%m.n
		if from == m.n {
			from = Start
		}
		out = append(out, Entry{From: from, To: to, Value: m.values[k]})
	}
	return out
}
