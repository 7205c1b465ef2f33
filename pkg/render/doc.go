// Package render draws precedence graphs and schedules.
//
// # Precedence Graphs
//
// [ToDOT] converts a graph to Graphviz DOT source, one rank per precedence
// level, and [RenderSVG] lays it out in-process with go-graphviz:
//
//	dot := render.ToDOT(g, render.Options{Reduce: true})
//	svg, err := render.RenderSVG(ctx, dot)
//
// When Options.Order is set, every operation is labeled with its position in
// that ordering, which makes a search result readable on the graph itself.
//
// # Schedules
//
// [GanttSVG] draws a timed schedule as a Gantt chart with one lane per
// resource:
//
//	s, _ := schedule.Simulate(g, order)
//	svg := render.GanttSVG(s)
//
// # Format Conversion
//
// [ToPDF] and [ToPNG] convert any SVG using the external rsvg-convert tool
// (from librsvg).
package render
