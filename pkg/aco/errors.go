package aco

import "errors"

var (
	// ErrUnknownStrategy is returned by [ParseVariant], [Config.Validate] and
	// [New] when the configured variant name is not supported.
	ErrUnknownStrategy = errors.New("unknown search strategy")

	// ErrInfeasibleGraph is returned when an ant finds no eligible operation
	// while its ordering is still incomplete. This only happens on cyclic or
	// otherwise malformed precedence graphs.
	ErrInfeasibleGraph = errors.New("no eligible operation: precedence graph is infeasible")

	// ErrInvalidConfig is returned by [Config.Validate] for out-of-range parameters.
	ErrInvalidConfig = errors.New("invalid search configuration")
)

// ErrEmptyGraph is returned by [New] for a graph without operations.
var ErrEmptyGraph = errors.New("precedence graph has no operations")
