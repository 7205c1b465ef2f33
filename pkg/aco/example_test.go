package aco_test

import (
	"context"
	"fmt"

	"github.com/matzehuels/antscheduler/pkg/aco"
	"github.com/matzehuels/antscheduler/pkg/dag"
)

func ExampleEngine_Run() {
	g := dag.New(nil)
	_ = g.AddOperation(dag.Operation{ID: "A", Duration: 2, Resource: 1})
	_ = g.AddOperation(dag.Operation{ID: "B", Duration: 3, Resource: 1})
	_ = g.AddOperation(dag.Operation{ID: "C", Duration: 1, Resource: 2})
	_ = g.AddPrecedence("A", "B")
	_ = g.AddPrecedence("A", "C")

	cfg := aco.DefaultConfig()
	cfg.Variant = "MaxMinAntSystem"
	cfg.MaxIterations = 10

	engine, err := aco.New(g, cfg)
	if err != nil {
		fmt.Println(err)
		return
	}
	res, err := engine.Run(context.Background())
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println("variant:", res.Variant)
	fmt.Println("iterations:", res.Iterations)
	fmt.Println("makespan:", res.Makespan())
	fmt.Println("first:", res.BestIDs(g)[0])
	// Output:
	// variant: MaxMinAntSystem
	// iterations: 10
	// makespan: 5
	// first: A
}

func ExampleParseVariant() {
	v, err := aco.ParseVariant("elitistantsystem")
	fmt.Println(v, err)

	_, err = aco.ParseVariant("BeeColony")
	fmt.Println(err)
	// Output:
	// ElitistAntSystem <nil>
	// UNKNOWN_STRATEGY: "BeeColony" (must be one of: AntSystem, ElitistAntSystem, MaxMinAntSystem, RankBasedAntSystem): unknown search strategy
}
