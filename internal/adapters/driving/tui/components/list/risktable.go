// Package list provides list display components for the TUI.
package list

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/failcast/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/failcast/internal/core/domain"
)

// RiskRow is one predicted row as shown in the table.
type RiskRow struct {
	// Index is the zero-based position of the row in the upload.
	Index    int
	Label    string
	Risk     float64
	HighRisk bool

	// Band places Risk relative to the threshold.
	Band styles.RiskBand
}

// RiskTable displays per-row predictions in a navigable table.
type RiskTable struct {
	rows         []RiskRow
	visible      []int
	highRiskOnly bool
	selected     int
	styles       *styles.Styles
	width        int
	height       int
}

// NewRiskTable creates a new risk table component.
func NewRiskTable(s *styles.Styles) *RiskTable {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &RiskTable{
		styles: s,
		width:  80,
		height: 10,
	}
}

// Init initialises the risk table.
func (r *RiskTable) Init() tea.Cmd {
	return nil
}

// Update handles table navigation messages.
func (r *RiskTable) Update(msg tea.Msg) (*RiskTable, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "up", "k":
			r.MoveUp()
		case "down", "j":
			r.MoveDown()
		case "pgup":
			for i := 0; i < r.pageSize(); i++ {
				r.MoveUp()
			}
		case "pgdown":
			for i := 0; i < r.pageSize(); i++ {
				r.MoveDown()
			}
		}
	}
	return r, nil
}

// View renders the risk table.
func (r *RiskTable) View() string {
	if len(r.visible) == 0 {
		if r.highRiskOnly && len(r.rows) > 0 {
			return r.styles.Success.Render("No high-risk rows")
		}
		return r.styles.Muted.Render("No predictions")
	}

	lines := make([]string, 0, r.pageSize()+3)

	title := fmt.Sprintf("Predictions (%d)", len(r.visible))
	if r.highRiskOnly {
		title = fmt.Sprintf("High risk (%d of %d)", len(r.visible), len(r.rows))
	}
	lines = append(lines,
		r.styles.Subtitle.Render(title),
		r.styles.Muted.Render(fmt.Sprintf("  %6s  %-*s  %s", "Row", labelWidth, domain.PredictedFailureColumn, domain.FailureRiskColumn)),
	)

	visibleCount := r.pageSize()
	start := 0
	if r.selected >= visibleCount {
		start = r.selected - visibleCount + 1
	}
	end := start + visibleCount
	if end > len(r.visible) {
		end = len(r.visible)
	}

	for i := start; i < end; i++ {
		lines = append(lines, r.renderRow(i, r.rows[r.visible[i]]))
	}

	return strings.Join(lines, "\n")
}

const labelWidth = 17

// renderRow formats a single prediction row.
func (r *RiskTable) renderRow(pos int, row RiskRow) string {
	indicator := "  "
	if pos == r.selected {
		indicator = "> "
	}

	line := fmt.Sprintf("%s%6d  %-*s  %6s", indicator, row.Index, labelWidth, row.Label, domain.FormatRisk(row.Risk))

	if pos == r.selected {
		return r.styles.Selected.Render(line)
	}
	return r.styles.ForBand(row.Band).Render(line)
}

// pageSize returns how many rows fit below the title and header.
func (r *RiskTable) pageSize() int {
	n := r.height - 2
	if n < 1 {
		n = 1
	}
	return n
}

// SetPrediction replaces the table contents with the rows of p.
func (r *RiskTable) SetPrediction(p *domain.Prediction) {
	r.rows = nil
	if p != nil {
		r.rows = make([]RiskRow, len(p.Risks))
		for i, risk := range p.Risks {
			label := ""
			if i < len(p.Labels) {
				label = p.Labels[i]
			}
			r.rows[i] = RiskRow{
				Index:    i,
				Label:    label,
				Risk:     risk,
				HighRisk: risk > p.Threshold,
				Band:     styles.BandFor(risk, p.Threshold),
			}
		}
	}
	r.refresh()
}

// Rows returns all rows regardless of the filter.
func (r *RiskTable) Rows() []RiskRow {
	return r.rows
}

// ToggleHighRiskOnly switches between all rows and high-risk rows.
func (r *RiskTable) ToggleHighRiskOnly() {
	r.highRiskOnly = !r.highRiskOnly
	r.refresh()
}

// HighRiskOnly reports whether only high-risk rows are shown.
func (r *RiskTable) HighRiskOnly() bool {
	return r.highRiskOnly
}

// refresh rebuilds the visible index and resets the selection.
func (r *RiskTable) refresh() {
	r.visible = r.visible[:0]
	for i, row := range r.rows {
		if r.highRiskOnly && !row.HighRisk {
			continue
		}
		r.visible = append(r.visible, i)
	}
	r.selected = 0
}

// Selected returns the position of the selected row among visible rows.
func (r *RiskTable) Selected() int {
	return r.selected
}

// SelectedRow returns the currently selected row, or nil if none.
func (r *RiskTable) SelectedRow() *RiskRow {
	if r.selected < 0 || r.selected >= len(r.visible) {
		return nil
	}
	row := r.rows[r.visible[r.selected]]
	return &row
}

// MoveUp moves selection up.
func (r *RiskTable) MoveUp() {
	if r.selected > 0 {
		r.selected--
	}
}

// MoveDown moves selection down.
func (r *RiskTable) MoveDown() {
	if r.selected < len(r.visible)-1 {
		r.selected++
	}
}

// SetDimensions sets the component dimensions.
func (r *RiskTable) SetDimensions(width, height int) {
	r.width = width
	r.height = height
}

// Width returns the current width.
func (r *RiskTable) Width() int {
	return r.width
}

// Height returns the current height.
func (r *RiskTable) Height() int {
	return r.height
}

// Count returns the number of visible rows.
func (r *RiskTable) Count() int {
	return len(r.visible)
}

// IsEmpty returns whether no rows are visible.
func (r *RiskTable) IsEmpty() bool {
	return len(r.visible) == 0
}
