// Package transform provides read-only derivations of a precedence graph used
// when presenting it.
//
// # Layering
//
// [Levels] assigns every operation the length of the longest predecessor
// chain leading to it. Operations on the same level are mutually independent
// as far as direct precedence goes, which makes levels a natural rank for
// drawing the graph top to bottom.
//
// # Transitive Reduction
//
// [TransitiveReduction] lists the precedence edges that cannot be inferred
// from other paths. If A→B, B→C and A→C are declared, A→C is redundant: C
// has to wait for A anyway because it waits for B. Input files frequently
// spell out such redundant predecessors, and omitting them keeps graph
// drawings readable. The search engine itself always works on the full
// graph; redundant edges change nothing about which orderings are valid.
package transform
