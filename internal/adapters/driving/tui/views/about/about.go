// Package about provides the model description view for the TUI.
package about

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/failcast/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/failcast/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/failcast/internal/core/domain"
	"github.com/custodia-labs/failcast/internal/core/ports/driving"
)

// View shows what the loaded model expects and produces.
type View struct {
	styles    *styles.Styles
	service   driving.PredictionService
	threshold float64
	width     int
	height    int
	ready     bool
}

// NewView creates a new about view.
func NewView(s *styles.Styles, service driving.PredictionService, threshold float64) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &View{
		styles:    s,
		service:   service,
		threshold: threshold,
		width:     80,
		height:    24,
	}
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return nil
}

// Update handles messages for the about view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
	case tea.KeyMsg:
		if msg.String() == "esc" {
			return v, func() tea.Msg {
				return messages.ViewChanged{View: messages.ViewMenu}
			}
		}
	}
	return v, nil
}

// View renders the model description.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	var b strings.Builder
	b.WriteString(v.styles.Title.Render("About the model"))
	b.WriteString("\n\n")
	b.WriteString(v.styles.Normal.Render(
		"Upload sensor readings as CSV. Each row is scored by the model and gets\n" +
			"a Predicted Failure label and a Failure Risk (%) column."))
	b.WriteString("\n\n")

	if v.service == nil {
		b.WriteString(v.styles.Muted.Render("No model loaded"))
		return b.String()
	}

	info := v.service.ModelInfo()
	b.WriteString(v.line("Scaler", info.ScalerKind))
	b.WriteString(v.line("Model", info.ModelKind))
	if len(info.Features) > 0 {
		b.WriteString(v.line("Features", strings.Join(info.Features, ", ")))
	} else {
		b.WriteString(v.line("Features", "any numeric columns"))
	}
	if len(info.Classes) > 0 {
		b.WriteString(v.line("Classes", strings.Join(info.Classes, ", ")))
	}
	if class := info.PositiveClass(); class != "" {
		b.WriteString(v.line("Failure class", class))
	} else {
		b.WriteString(v.line("Failure class", fmt.Sprintf("column %d", info.PositiveClassIndex)))
	}
	if v.threshold > 0 {
		b.WriteString(v.line("High risk above", domain.FormatRisk(v.threshold)+"%"))
	}
	b.WriteString("\n")
	b.WriteString(v.styles.Help.Render("[esc] back"))
	return b.String()
}

func (v *View) line(label, value string) string {
	if value == "" {
		value = "-"
	}
	return v.styles.Subtitle.Render(fmt.Sprintf("%-16s", label)) + v.styles.Normal.Render(value) + "\n"
}

// SetThreshold sets the threshold shown for high-risk rows.
func (v *View) SetThreshold(threshold float64) {
	v.threshold = threshold
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
}
