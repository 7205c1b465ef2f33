package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/antscheduler/pkg/observability"
	"github.com/matzehuels/antscheduler/pkg/pipeline"
)

var (
	barFullStyle  = lipgloss.NewStyle().Foreground(colorCyan)
	barEmptyStyle = lipgloss.NewStyle().Foreground(colorDim)
)

const defaultBarWidth = 40

// =============================================================================
// Messages
// =============================================================================

type runStartMsg struct {
	variant    string
	operations int
	ants       int
	maxIter    int
}

type iterationMsg observability.Iteration

type improvedMsg struct {
	iteration int
	makespan  float64
}

type runDoneMsg struct {
	res *pipeline.Result
	err error
}

// teaHooks forwards engine events to a running program.
type teaHooks struct {
	send func(tea.Msg)
}

func (h teaHooks) OnRunStart(_ context.Context, variant string, operations, ants, maxIterations int) {
	h.send(runStartMsg{variant: variant, operations: operations, ants: ants, maxIter: maxIterations})
}

func (h teaHooks) OnIteration(_ context.Context, it observability.Iteration) {
	h.send(iterationMsg(it))
}

func (h teaHooks) OnImprovement(_ context.Context, iteration int, makespan float64) {
	h.send(improvedMsg{iteration: iteration, makespan: makespan})
}

func (teaHooks) OnRunComplete(context.Context, int, float64, time.Duration, error) {}

// =============================================================================
// SearchModel - live view of a running search
// =============================================================================

// SearchModel is the bubbletea model showing search progress.
type SearchModel struct {
	Variant    string
	Operations int
	Ants       int
	MaxIter    int

	Iteration    int // completed iterations
	Last         observability.Iteration
	BestEver     float64
	BestAt       int
	Improvements int

	Width    int
	Stopping bool

	Result *pipeline.Result
	Err    error

	cancel context.CancelFunc
}

func newSearchModel(cancel context.CancelFunc) SearchModel {
	return SearchModel{Width: defaultBarWidth, BestAt: -1, cancel: cancel}
}

func (m SearchModel) Init() tea.Cmd {
	return nil
}

func (m SearchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			// The search stops at the next iteration boundary and reports
			// through runDoneMsg.
			if !m.Stopping && m.cancel != nil {
				m.cancel()
			}
			m.Stopping = true
		}
	case tea.WindowSizeMsg:
		m.Width = min(max(msg.Width-30, 10), 80)
	case runStartMsg:
		m.Variant, m.Operations, m.Ants, m.MaxIter = msg.variant, msg.operations, msg.ants, msg.maxIter
	case iterationMsg:
		m.Last = observability.Iteration(msg)
		m.Iteration = msg.Index + 1
		m.BestEver = msg.BestEver
	case improvedMsg:
		m.BestEver = msg.makespan
		m.BestAt = msg.iteration
		m.Improvements++
	case runDoneMsg:
		m.Result, m.Err = msg.res, msg.err
		return m, tea.Quit
	}
	return m, nil
}

func (m SearchModel) View() string {
	if m.Result != nil || m.Err != nil {
		return ""
	}
	var b strings.Builder

	title := "Searching"
	if m.Variant != "" {
		title += " " + m.Variant
	}
	b.WriteString(StyleTitle.Render(title))
	b.WriteString("\n")
	if m.Operations > 0 {
		b.WriteString(StyleDim.Render(fmt.Sprintf("%d operations · %d ants", m.Operations, m.Ants)))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	b.WriteString(m.bar())
	b.WriteString(StyleDim.Render(fmt.Sprintf("  %d/%d", m.Iteration, m.MaxIter)))
	b.WriteString("\n")

	if m.BestAt >= 0 {
		b.WriteString(fmt.Sprintf("best %s %s\n",
			StyleNumber.Render(formatMakespan(m.BestEver)),
			StyleDim.Render(fmt.Sprintf("(iteration %d, %d improvements)", m.BestAt, m.Improvements))))
	}
	if m.Iteration > 0 {
		b.WriteString(StyleDim.Render(fmt.Sprintf("last iteration  best %s  mean %.1f  worst %s",
			formatMakespan(m.Last.Best), m.Last.Mean, formatMakespan(m.Last.Worst))))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.Stopping {
		b.WriteString(StyleWarning.Render("stopping after this iteration..."))
	} else {
		b.WriteString(StyleDim.Render("q stop"))
	}
	b.WriteString("\n")
	return b.String()
}

// bar renders iteration progress as a fixed-width bar.
func (m SearchModel) bar() string {
	width := m.Width
	if width <= 0 {
		width = defaultBarWidth
	}
	filled := 0
	if m.MaxIter > 0 {
		filled = min(width*m.Iteration/m.MaxIter, width)
	}
	return barFullStyle.Render(strings.Repeat("█", filled)) +
		barEmptyStyle.Render(strings.Repeat("░", width-filled))
}

// runWithTUI executes the pipeline while a SearchModel shows its progress on
// stderr. Pressing q stops the search at the next iteration boundary and
// returns the best result found so far.
func runWithTUI(ctx context.Context, runner *pipeline.Runner, opts pipeline.Options) (*pipeline.Result, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(newSearchModel(cancel), tea.WithOutput(os.Stderr))
	opts.Hooks = observability.MultiSearchHooks{teaHooks{send: p.Send}, opts.Hooks}

	done := make(chan runDoneMsg, 1)
	go func() {
		res, err := runner.Execute(ctx, opts)
		msg := runDoneMsg{res: res, err: err}
		done <- msg
		p.Send(msg)
	}()

	final, err := p.Run()
	if err != nil {
		cancel()
		<-done
		return nil, fmt.Errorf("progress view: %w", err)
	}
	m := final.(SearchModel)
	return m.Result, m.Err
}
