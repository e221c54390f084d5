// Package history provides the recent runs view for the TUI.
package history

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/failcast/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/failcast/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/failcast/internal/core/domain"
	"github.com/custodia-labs/failcast/internal/core/ports/driving"
)

// DefaultLimit is how many runs are loaded.
const DefaultLimit = 50

var errNoHistory = errors.New("run history is disabled")

// View lists recent pipeline runs.
type View struct {
	styles   *styles.Styles
	service  driving.HistoryService
	runs     []domain.Run
	err      error
	loaded   bool
	selected int
	width    int
	height   int
	ready    bool
}

// NewView creates a new history view.
func NewView(s *styles.Styles, service driving.HistoryService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &View{
		styles:  s,
		service: service,
		width:   80,
		height:  24,
	}
}

// Init loads the recent runs.
func (v *View) Init() tea.Cmd {
	return v.loadRuns()
}

func (v *View) loadRuns() tea.Cmd {
	service := v.service
	return func() tea.Msg {
		if service == nil {
			return messages.HistoryLoaded{Err: errNoHistory}
		}
		runs, err := service.List(context.Background(), DefaultLimit)
		return messages.HistoryLoaded{Runs: runs, Err: err}
	}
}

// Update handles messages for the history view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)

	case messages.HistoryLoaded:
		v.loaded = true
		v.runs = msg.Runs
		v.err = msg.Err
		if v.selected >= len(v.runs) {
			v.selected = 0
		}

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return v, func() tea.Msg {
				return messages.ViewChanged{View: messages.ViewMenu}
			}
		case "r":
			return v, v.loadRuns()
		case "up", "k":
			if v.selected > 0 {
				v.selected--
			}
		case "down", "j":
			if v.selected < len(v.runs)-1 {
				v.selected++
			}
		}
	}
	return v, nil
}

// View renders the run list.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	var b strings.Builder
	b.WriteString(v.styles.Title.Render("History"))
	b.WriteString("\n\n")

	switch {
	case !v.loaded:
		b.WriteString(v.styles.Muted.Render("Loading runs..."))
	case v.err != nil:
		b.WriteString(v.styles.Error.Render(fmt.Sprintf("Error: %v", v.err)))
	case len(v.runs) == 0:
		b.WriteString(v.styles.Muted.Render("No runs yet"))
	default:
		b.WriteString(v.renderRuns())
	}

	b.WriteString("\n\n")
	b.WriteString(v.styles.Help.Render("[j/k] navigate  [r] refresh  [esc] back"))
	return b.String()
}

func (v *View) renderRuns() string {
	lines := make([]string, 0, len(v.runs)+1)
	lines = append(lines, v.styles.Muted.Render(fmt.Sprintf("  %-19s  %-24s  %6s  %9s  %s",
		"Started", "Source", "Rows", "High risk", "Status")))

	visible := v.height - 8
	if visible < 1 {
		visible = 1
	}
	start := 0
	if v.selected >= visible {
		start = v.selected - visible + 1
	}
	end := start + visible
	if end > len(v.runs) {
		end = len(v.runs)
	}

	for i := start; i < end; i++ {
		lines = append(lines, v.renderRun(i, v.runs[i]))
	}
	return strings.Join(lines, "\n")
}

func (v *View) renderRun(i int, run domain.Run) string {
	cursor := "  "
	if i == v.selected {
		cursor = "> "
	}
	source := run.Source
	if len(source) > 24 {
		source = source[:21] + "..."
	}
	state := string(run.Status)
	if !run.Succeeded() && run.Stage != "" {
		state = fmt.Sprintf("%s at %s", run.Status, run.Stage)
	}
	line := fmt.Sprintf("%s%-19s  %-24s  %6d  %9d  %s",
		cursor, run.StartedAt.Local().Format("2006-01-02 15:04:05"), source, run.Rows, run.HighRisk, state)

	switch {
	case i == v.selected:
		return v.styles.Selected.Render(line)
	case !run.Succeeded():
		return v.styles.Error.Render(line)
	case run.HighRisk > 0:
		return v.styles.Warning.Render(line)
	default:
		return v.styles.Normal.Render(line)
	}
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
}

// Runs returns the loaded runs.
func (v *View) Runs() []domain.Run {
	return v.runs
}
