package aco

import (
	"math"
	"math/rand"

	"github.com/matzehuels/antscheduler/pkg/dag"
	apperrors "github.com/matzehuels/antscheduler/pkg/errors"
	"github.com/matzehuels/antscheduler/pkg/schedule"
)

// Ant is one constructed solution: a precedence-valid ordering of every
// operation and its makespan.
type Ant struct {
	Order  []int
	Result float64
}

// Names returns the operation IDs of the ordering.
func (a *Ant) Names(g *dag.Graph) []string {
	out := make([]string, len(a.Order))
	for i, op := range a.Order {
		out[i] = g.ID(op)
	}
	return out
}

// clone returns a deep copy so the best-ever ant never aliases builder state.
func (a *Ant) clone() *Ant {
	order := make([]int, len(a.Order))
	copy(order, a.Order)
	return &Ant{Order: order, Result: a.Result}
}

// builder constructs orderings. It owns all scratch buffers and is used by a
// single goroutine.
type builder struct {
	g       *dag.Graph
	eta     []float64
	alpha   float64
	beta    float64
	eval    *schedule.Evaluator
	pending []int // handle -> predecessors not yet placed
	ready   []int
	weights []float64
}

func newBuilder(g *dag.Graph, eta []float64, alpha, beta float64) *builder {
	n := g.Len()
	return &builder{
		g:       g,
		eta:     eta,
		alpha:   alpha,
		beta:    beta,
		eval:    schedule.NewEvaluator(g),
		pending: make([]int, n),
		ready:   make([]int, 0, n),
		weights: make([]float64, n),
	}
}

// construct builds one ordering guided by m and fills ant.
// The matrix is only read.
func (b *builder) construct(m *Matrix, rng *rand.Rand, ant *Ant) error {
	n := b.g.Len()
	ant.Order = ant.Order[:0]

	b.ready = b.ready[:0]
	for i := 0; i < n; i++ {
		b.pending[i] = len(b.g.Predecessors(i))
		if b.pending[i] == 0 {
			b.ready = append(b.ready, i)
		}
	}

	prev := Start
	for len(ant.Order) < n {
		k := len(b.ready)
		if k == 0 {
			return apperrors.Wrap(apperrors.ErrCodeInfeasibleGraph, ErrInfeasibleGraph,
				"no eligible operation after %d of %d", len(ant.Order), n)
		}

		sum := 0.0
		for i, c := range b.ready {
			w := fastPow(m.Get(prev, c), b.alpha) * fastPow(b.eta[c], b.beta)
			if math.IsNaN(w) || math.IsInf(w, 0) {
				w = 0
			}
			b.weights[i] = w
			sum += w
		}

		var chosen int
		if sum <= 0 {
			chosen = rng.Intn(k)
		} else {
			r := rng.Float64() * sum
			acc := 0.0
			chosen = k - 1
			for i := 0; i < k; i++ {
				acc += b.weights[i]
				if r < acc {
					chosen = i
					break
				}
			}
		}

		op := b.ready[chosen]
		ant.Order = append(ant.Order, op)
		prev = op

		b.ready[chosen] = b.ready[k-1]
		b.ready = b.ready[:k-1]
		for _, s := range b.g.Successors(op) {
			b.pending[s]--
			if b.pending[s] == 0 {
				b.ready = append(b.ready, s)
			}
		}
	}

	ant.Result = float64(b.eval.Makespan(ant.Order))
	return nil
}

// fastPow avoids math.Pow for the common exponents 0, 1 and 2.
func fastPow(x, p float64) float64 {
	switch p {
	case 0:
		return 1
	case 1:
		return x
	case 2:
		return x * x
	}
	return math.Pow(x, p)
}
