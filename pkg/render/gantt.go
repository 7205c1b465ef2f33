package render

import (
	"bytes"
	"fmt"
	"html"
	"slices"

	"github.com/matzehuels/antscheduler/pkg/schedule"
)

// Gantt chart geometry in SVG user units.
const (
	ganttMargin     = 20.0
	ganttLabelWidth = 110.0
	ganttLaneHeight = 36.0
	ganttLaneGap    = 8.0
	ganttAxisHeight = 28.0
	ganttMinWidth   = 480.0
	ganttUnitWidth  = 40.0 // per time unit, shrunk for long schedules
)

// GanttSVG draws s as a Gantt chart: one lane per resource in ascending tag
// order, one bar per operation, and a time axis up to the makespan.
func GanttSVG(s schedule.Schedule) []byte {
	resources := s.Resources()
	slices.Sort(resources)
	lane := make(map[int]int, len(resources))
	for i, r := range resources {
		lane[r] = i
	}

	span := max(s.Makespan, 1)
	unit := ganttUnitWidth
	if float64(span)*unit > 1600 {
		unit = 1600 / float64(span)
	}
	chartWidth := max(float64(span)*unit, ganttMinWidth-ganttLabelWidth-2*ganttMargin)
	unit = chartWidth / float64(span)

	width := 2*ganttMargin + ganttLabelWidth + chartWidth
	height := 2*ganttMargin + ganttAxisHeight + float64(len(resources))*(ganttLaneHeight+ganttLaneGap)
	x0 := ganttMargin + ganttLabelWidth
	y0 := ganttMargin

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f" font-family="sans-serif">`+"\n",
		width, height, width, height)
	fmt.Fprintf(&buf, `  <rect width="%.1f" height="%.1f" fill="white"/>`+"\n", width, height)

	for i, r := range resources {
		y := y0 + float64(i)*(ganttLaneHeight+ganttLaneGap)
		fmt.Fprintf(&buf, `  <text x="%.1f" y="%.1f" font-size="13" dominant-baseline="middle">resource %d</text>`+"\n",
			ganttMargin, y+ganttLaneHeight/2, r)
		fmt.Fprintf(&buf, `  <rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="#f6f6f6"/>`+"\n",
			x0, y, chartWidth, ganttLaneHeight)
	}

	for _, e := range s.Entries {
		y := y0 + float64(lane[e.Resource])*(ganttLaneHeight+ganttLaneGap)
		x := x0 + float64(e.Start)*unit
		w := float64(e.Finish-e.Start) * unit
		id := html.EscapeString(e.ID)
		fmt.Fprintf(&buf, `  <g class="op" id="op-%s">`+"\n", id)
		fmt.Fprintf(&buf, `    <title>%s: %d..%d</title>`+"\n", id, e.Start, e.Finish)
		fmt.Fprintf(&buf, `    <rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" rx="4" fill="%s" stroke="#333" stroke-width="1"/>`+"\n",
			x, y+2, w, ganttLaneHeight-4, resourceColor(e.Resource))
		if w >= 24 {
			fmt.Fprintf(&buf, `    <text x="%.1f" y="%.1f" font-size="12" text-anchor="middle" dominant-baseline="middle">%s</text>`+"\n",
				x+w/2, y+ganttLaneHeight/2, id)
		}
		buf.WriteString("  </g>\n")
	}

	axisY := y0 + float64(len(resources))*(ganttLaneHeight+ganttLaneGap)
	fmt.Fprintf(&buf, `  <line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="#333"/>`+"\n", x0, axisY, x0+chartWidth, axisY)
	step := tickStep(span)
	for t := 0; t <= span; t += step {
		x := x0 + float64(t)*unit
		fmt.Fprintf(&buf, `  <line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="#333"/>`+"\n", x, axisY, x, axisY+5)
		fmt.Fprintf(&buf, `  <text x="%.1f" y="%.1f" font-size="11" text-anchor="middle">%d</text>`+"\n", x, axisY+18, t)
	}
	fmt.Fprintf(&buf, `  <text x="%.1f" y="%.1f" font-size="11" text-anchor="end">makespan %d</text>`+"\n",
		x0+chartWidth, ganttMargin-6, s.Makespan)

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

// tickStep picks an axis step so that about ten ticks are drawn.
func tickStep(span int) int {
	for _, step := range []int{1, 2, 5, 10, 20, 50, 100, 200, 500, 1000} {
		if span/step <= 10 {
			return step
		}
	}
	return span / 10
}
