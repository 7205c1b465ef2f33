package schedule

import (
	"errors"
	"slices"
	"testing"

	"github.com/matzehuels/antscheduler/pkg/dag"
)

func abc(t *testing.T) *dag.Graph {
	t.Helper()
	g := dag.New(nil)
	for _, op := range []dag.Operation{
		{ID: "A", Duration: 2, Resource: 1},
		{ID: "B", Duration: 3, Resource: 1},
		{ID: "C", Duration: 1, Resource: 2},
	} {
		if err := g.AddOperation(op); err != nil {
			t.Fatal(err)
		}
	}
	_ = g.AddPrecedence("A", "B")
	_ = g.AddPrecedence("A", "C")
	return g
}

func TestSimulateExample(t *testing.T) {
	g := abc(t)
	s, err := SimulateIDs(g, []string{"A", "B", "C"})
	if err != nil {
		t.Fatalf("SimulateIDs: %v", err)
	}
	if s.Makespan != 5 {
		t.Errorf("Makespan = %d, want 5", s.Makespan)
	}
	want := []Entry{
		{ID: "A", Resource: 1, Start: 0, Finish: 2},
		{ID: "B", Resource: 1, Start: 2, Finish: 5},
		{ID: "C", Resource: 2, Start: 2, Finish: 3},
	}
	if !slices.Equal(s.Entries, want) {
		t.Errorf("Entries = %+v, want %+v", s.Entries, want)
	}
	if got := s.Resources(); !slices.Equal(got, []int{1, 2}) {
		t.Errorf("Resources = %v", got)
	}
}

func TestMakespan(t *testing.T) {
	tests := []struct {
		name  string
		ops   []dag.Operation
		edges [][2]string
		order []string
		want  int
	}{
		{
			name:  "single",
			ops:   []dag.Operation{{ID: "x", Duration: 7}},
			order: []string{"x"},
			want:  7,
		},
		{
			name:  "parallel resources",
			ops:   []dag.Operation{{ID: "x", Duration: 4, Resource: 1}, {ID: "y", Duration: 3, Resource: 2}},
			order: []string{"x", "y"},
			want:  4,
		},
		{
			name:  "same resource serializes",
			ops:   []dag.Operation{{ID: "x", Duration: 4, Resource: 1}, {ID: "y", Duration: 3, Resource: 1}},
			order: []string{"y", "x"},
			want:  7,
		},
		{
			name: "cross-resource predecessor delays",
			ops: []dag.Operation{
				{ID: "x", Duration: 5, Resource: 1},
				{ID: "y", Duration: 1, Resource: 2},
				{ID: "z", Duration: 2, Resource: 2},
			},
			edges: [][2]string{{"x", "z"}},
			order: []string{"y", "x", "z"},
			want:  7,
		},
		{
			name: "order on a track matters",
			ops: []dag.Operation{
				{ID: "x", Duration: 5, Resource: 1},
				{ID: "y", Duration: 1, Resource: 2},
				{ID: "z", Duration: 2, Resource: 2},
			},
			edges: [][2]string{{"x", "z"}},
			order: []string{"x", "z", "y"},
			want:  8,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := dag.New(nil)
			for _, op := range tt.ops {
				_ = g.AddOperation(op)
			}
			for _, e := range tt.edges {
				_ = g.AddPrecedence(e[0], e[1])
			}
			s, err := SimulateIDs(g, tt.order)
			if err != nil {
				t.Fatalf("SimulateIDs: %v", err)
			}
			if s.Makespan != tt.want {
				t.Errorf("Makespan = %d, want %d", s.Makespan, tt.want)
			}
		})
	}
}

func TestEvaluatorReuse(t *testing.T) {
	g := abc(t)
	e := NewEvaluator(g)
	order := []int{0, 2, 1}
	first := e.Makespan(order)
	second := e.Makespan(order)
	if first != second || first != 5 {
		t.Errorf("Makespan = %d then %d, want 5 both times", first, second)
	}
}

func TestValidate(t *testing.T) {
	g := abc(t)
	tests := []struct {
		name  string
		order []int
		ok    bool
	}{
		{"valid", []int{0, 1, 2}, true},
		{"valid alt", []int{0, 2, 1}, true},
		{"too short", []int{0, 1}, false},
		{"duplicate", []int{0, 1, 1}, false},
		{"out of range", []int{0, 1, 5}, false},
		{"precedence violated", []int{1, 0, 2}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(g, tt.order)
			if (err == nil) != tt.ok {
				t.Fatalf("Validate(%v) = %v, ok %v", tt.order, err, tt.ok)
			}
			if err != nil && !errors.Is(err, ErrInvalidOrdering) {
				t.Errorf("err = %v, want ErrInvalidOrdering", err)
			}
		})
	}
}

func TestSimulateIDsUnknown(t *testing.T) {
	_, err := SimulateIDs(abc(t), []string{"A", "B", "Z"})
	if !errors.Is(err, dag.ErrUnknownOperation) {
		t.Errorf("err = %v, want ErrUnknownOperation", err)
	}
}
