package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	pkgio "github.com/matzehuels/antscheduler/pkg/io"
	"github.com/matzehuels/antscheduler/pkg/schedule"
	"github.com/matzehuels/antscheduler/pkg/store"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // Teal - primary actions
	colorGreen  = lipgloss.Color("35")  // Green - success
	colorYellow = lipgloss.Color("220") // Amber - warnings
	colorRed    = lipgloss.Color("167") // Soft red - errors
	colorBlue   = lipgloss.Color("75")  // Light blue - commands
	colorWhite  = lipgloss.Color("255") // Bright white - values
	colorGray   = lipgloss.Color("245") // Gray - secondary text
	colorDim    = lipgloss.Color("240") // Dim gray - muted text
)

// =============================================================================
// Styles
// =============================================================================

var (
	StyleTitle     = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	StyleHighlight = lipgloss.NewStyle().Foreground(colorCyan)
	StyleDim       = lipgloss.NewStyle().Foreground(colorDim)
	StyleValue     = lipgloss.NewStyle().Foreground(colorWhite)
	StyleNumber    = lipgloss.NewStyle().Foreground(colorCyan)
	StyleSuccess   = lipgloss.NewStyle().Foreground(colorGreen)
	StyleWarning   = lipgloss.NewStyle().Foreground(colorYellow)
)

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)

	styleCached   = lipgloss.NewStyle().Foreground(colorGreen)
	styleComputed = lipgloss.NewStyle().Foreground(colorGray)
	styleCommand  = lipgloss.NewStyle().Foreground(colorBlue)
	styleHeader   = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	styleCell     = lipgloss.NewStyle().Padding(0, 1)
)

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
	iconCached  = "cached"
	iconFresh   = "fresh"
)

// =============================================================================
// Status Output
// =============================================================================

func printSuccess(format string, args ...any) {
	fmt.Println(styleIconSuccess.Render(iconSuccess) + " " + fmt.Sprintf(format, args...))
}

func printError(format string, args ...any) {
	fmt.Println(styleIconError.Render(iconError) + " " + fmt.Sprintf(format, args...))
}

func printWarning(format string, args ...any) {
	fmt.Println(styleIconWarning.Render(iconWarning) + " " + StyleWarning.Render(fmt.Sprintf(format, args...)))
}

func printInfo(format string, args ...any) {
	fmt.Println(styleIconInfo.Render(iconInfo) + " " + fmt.Sprintf(format, args...))
}

// printDetail prints an indented, dimmed line.
func printDetail(format string, args ...any) {
	fmt.Println("  " + StyleDim.Render(fmt.Sprintf(format, args...)))
}

func printFile(path string) {
	fmt.Println("  " + StyleDim.Render(iconArrow) + " " + StyleValue.Render(path))
}

func printKeyValue(key, value string) {
	keyStyle := lipgloss.NewStyle().Foreground(colorGray).Width(12)
	fmt.Println(keyStyle.Render(key) + " " + StyleValue.Render(value))
}

// printNextStep prints a suggested next command.
func printNextStep(description, cmd string) {
	fmt.Println(StyleDim.Render(description+":") + " " + styleCommand.Render(cmd))
}

// printStats prints graph statistics on a single line.
func printStats(operations, edges int, cached bool) {
	status, statusStyle := iconFresh, styleComputed
	if cached {
		status, statusStyle = iconCached, styleCached
	}
	parts := []string{
		StyleDim.Render(fmt.Sprintf("%d operations", operations)),
		StyleDim.Render(fmt.Sprintf("%d edges", edges)),
		statusStyle.Render(status),
	}
	fmt.Println("  " + strings.Join(parts, StyleDim.Render(" · ")))
}

// =============================================================================
// Run Output
// =============================================================================

// printRun prints the summary of a finished run followed by its schedule.
func printRun(doc pkgio.RunDocument) {
	printKeyValue("makespan", StyleNumber.Render(formatMakespan(doc.Makespan)))
	printKeyValue("variant", doc.Variant)
	printKeyValue("iterations", fmt.Sprintf("%d (best at %d, %d evaluations)", doc.Iterations, doc.BestIteration, doc.Evaluations))
	printKeyValue("stopped", doc.Stop)
	printKeyValue("order", strings.Join(doc.Order, " "+iconArrow+" "))
	fmt.Println()
	fmt.Println(scheduleTable(doc.Schedule))
}

// scheduleTable renders one row per operation in dispatch order.
func scheduleTable(s schedule.Schedule) string {
	rows := make([][]string, 0, len(s.Entries))
	for _, e := range s.Entries {
		rows = append(rows, []string{
			e.ID,
			strconv.Itoa(e.Resource),
			strconv.Itoa(e.Start),
			strconv.Itoa(e.Finish),
		})
	}
	return newTable("Operation", "Resource", "Start", "Finish").Rows(rows...).Render()
}

// runsTable renders stored runs, newest first.
func runsTable(recs []store.Record) string {
	rows := make([][]string, 0, len(recs))
	for _, r := range recs {
		cached := ""
		if r.Cached {
			cached = iconCached
		}
		rows = append(rows, []string{
			r.ID,
			r.CreatedAt.Local().Format("2006-01-02 15:04"),
			r.Source,
			r.Run.Variant,
			strconv.Itoa(r.Operations),
			formatMakespan(r.Run.Makespan),
			cached,
		})
	}
	return newTable("ID", "Created", "Source", "Variant", "Ops", "Makespan", "").Rows(rows...).Render()
}

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return styleHeader.Padding(0, 1)
			}
			return styleCell
		})
}

func formatMakespan(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
