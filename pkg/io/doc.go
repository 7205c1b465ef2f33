// Package io reads and writes precedence graphs and search results.
//
// # CSV Format
//
// The input format has one operation per row:
//
//	name,duration,resource,predecessor1 predecessor2 ...
//
// The predecessor column is optional and holds whitespace-separated operation
// names. Predecessors are resolved after all rows are read, so rows may appear
// in any order. Rows starting with '#' are comments. Rows with fewer than
// three fields are skipped with a warning instead of failing the load:
//
//	# name, duration, resource, predecessors
//	A,2,1
//	B,3,1,A
//	C,1,2,A
//
// Use [ImportCSV] for a file path or [ReadCSV] for any io.Reader.
//
// # JSON Format
//
// Graphs can also be exchanged as JSON with [ReadJSON] and [WriteJSON]:
//
//	{
//	  "operations": [
//	    {"id": "A", "duration": 2, "resource": 1},
//	    {"id": "B", "duration": 3, "resource": 1}
//	  ],
//	  "edges": [
//	    {"from": "A", "to": "B"}
//	  ]
//	}
//
// Both formats reject duplicate operation names and unknown predecessors.
// Errors carry codes from pkg/errors and wrap the sentinels of pkg/dag, so
// errors.Is(err, dag.ErrUnknownOperation) works on loader errors.
//
// # Results
//
// [WriteResultJSON] exports a finished run: the best ordering by name, its
// makespan and timed schedule, and the per-iteration history.
package io
