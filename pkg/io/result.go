package io

import (
	"io"

	"github.com/matzehuels/antscheduler/pkg/aco"
	"github.com/matzehuels/antscheduler/pkg/dag"
	"github.com/matzehuels/antscheduler/pkg/schedule"
)

// RunDocument is the exported form of a finished run.
type RunDocument struct {
	Variant       string               `json:"variant"`
	Makespan      float64              `json:"makespan"`
	Order         []string             `json:"order"`
	Schedule      schedule.Schedule    `json:"schedule"`
	BestIteration int                  `json:"best_iteration"`
	Iterations    int                  `json:"iterations"`
	Evaluations   int                  `json:"evaluations"`
	Stop          string               `json:"stop"`
	DurationMS    int64                `json:"duration_ms"`
	History       []float64            `json:"history"`
	Stats         []aco.IterationStats `json:"stats,omitempty"`
}

// NewRunDocument resolves res against g into its exported form.
func NewRunDocument(g *dag.Graph, res *aco.Result) (RunDocument, error) {
	s, err := res.Schedule(g)
	if err != nil {
		return RunDocument{}, err
	}
	return RunDocument{
		Variant:       res.Variant.String(),
		Makespan:      res.Makespan(),
		Order:         res.BestIDs(g),
		Schedule:      s,
		BestIteration: res.BestIteration,
		Iterations:    res.Iterations,
		Evaluations:   res.Evaluations,
		Stop:          string(res.Stop),
		DurationMS:    res.Duration.Milliseconds(),
		History:       res.History,
		Stats:         res.Stats,
	}, nil
}

// WriteResultJSON encodes the result of a run on g as indented JSON.
func WriteResultJSON(g *dag.Graph, res *aco.Result, w io.Writer) error {
	doc, err := NewRunDocument(g, res)
	if err != nil {
		return err
	}
	return encode(w, doc)
}
