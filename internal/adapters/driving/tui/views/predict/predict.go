// Package predict provides the file input and prediction results view.
package predict

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/failcast/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/failcast/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/failcast/internal/adapters/driving/tui/components/sparkline"
	"github.com/custodia-labs/failcast/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/failcast/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/failcast/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/failcast/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/failcast/internal/core/domain"
	"github.com/custodia-labs/failcast/internal/core/ports/driving"
	"github.com/custodia-labs/failcast/internal/core/services"
)

// AwaitingMessage is shown until a file has been predicted.
const AwaitingMessage = "Please choose a CSV file to begin."

// previewRows is how many uploaded rows are shown above the results.
const previewRows = 5

// errNoPredictionService is returned when the view has no pipeline.
var errNoPredictionService = errors.New("prediction service not available")

// View is the prediction view: a file path input followed by results.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	service   driving.PredictionService
	input     *input.PathInput
	table     *list.RiskTable
	sparkline *sparkline.Sparkline
	statusBar *status.Bar

	threshold  float64
	exportDir  string
	prediction *domain.Prediction
	err        error
	predicting bool

	width  int
	height int
	ready  bool
}

// NewView creates a new prediction view. A zero threshold uses the
// pipeline's configured threshold.
func NewView(s *styles.Styles, km *keymap.KeyMap, service driving.PredictionService, threshold float64) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	v := &View{
		styles:    s,
		keymap:    km,
		service:   service,
		input:     input.NewPathInput(s),
		table:     list.NewRiskTable(s),
		sparkline: sparkline.New(s, 60),
		statusBar: status.NewBar(s, km),
		threshold: threshold,
		exportDir: ".",
		width:     80,
		height:    24,
	}
	v.statusBar.SetMessage(AwaitingMessage)
	return v
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return v.input.Init()
}

// Update handles messages for the prediction view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case messages.PredictRequested:
		v.predicting = true
		v.err = nil
		v.statusBar.SetState(status.StatePredicting)
		return v, v.predict(msg.Path, msg.Threshold)

	case messages.PredictionCompleted:
		v.predicting = false
		if msg.Err != nil {
			v.err = msg.Err
			v.statusBar.SetState(status.StateError)
			v.statusBar.SetMessage(msg.Err.Error())
			return v, nil
		}
		v.showPrediction(msg.Prediction)
		return v, nil

	case messages.ExportCompleted:
		if msg.Err != nil {
			v.statusBar.SetMessage(fmt.Sprintf("export failed: %v", msg.Err))
			return v, nil
		}
		v.statusBar.SetMessage("Saved " + msg.Path)
		return v, nil

	case tea.KeyMsg:
		if v.predicting {
			return v, nil
		}
		if v.prediction != nil {
			return v.handleResultsKeys(msg)
		}
		return v.handleInputKeys(msg)
	}

	return v, nil
}

func (v *View) handleInputKeys(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch {
	case keymap.Matches(msg.String(), v.keymap.Back):
		return v, backToMenu
	case keymap.Matches(msg.String(), v.keymap.Submit):
		path := v.input.Path()
		if path == "" {
			return v, nil
		}
		threshold := v.threshold
		return v, func() tea.Msg {
			return messages.PredictRequested{Path: path, Threshold: threshold}
		}
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

func (v *View) handleResultsKeys(msg tea.KeyMsg) (*View, tea.Cmd) {
	keyStr := msg.String()
	switch {
	case keymap.Matches(keyStr, v.keymap.Back):
		return v, backToMenu
	case keymap.Matches(keyStr, v.keymap.NewFile):
		v.Reset()
		return v, v.input.Focus()
	case keymap.Matches(keyStr, v.keymap.Export):
		return v, v.export()
	case keymap.Matches(keyStr, v.keymap.HighRiskOnly):
		v.table.ToggleHighRiskOnly()
		return v, nil
	}

	var cmd tea.Cmd
	v.table, cmd = v.table.Update(msg)
	return v, cmd
}

func backToMenu() tea.Msg {
	return messages.ViewChanged{View: messages.ViewMenu}
}

// predict returns a command that runs the pipeline on the file at path.
func (v *View) predict(path string, threshold float64) tea.Cmd {
	service := v.service
	return func() tea.Msg {
		if service == nil {
			return messages.PredictionCompleted{Path: path, Err: errNoPredictionService}
		}
		f, err := os.Open(path)
		if err != nil {
			return messages.PredictionCompleted{Path: path, Err: err}
		}
		defer f.Close()

		opts := domain.PredictOptions{Source: filepath.Base(path)}
		if threshold > 0 {
			opts.Threshold = domain.ThresholdOption(threshold)
		}
		p, err := service.Predict(context.Background(), f, opts)
		return messages.PredictionCompleted{Path: path, Prediction: p, Err: err}
	}
}

// export returns a command that writes the annotated table to disk.
func (v *View) export() tea.Cmd {
	table := v.prediction.Table
	path := filepath.Join(v.exportDir, domain.ResultFileName)
	return func() tea.Msg {
		f, err := os.Create(path)
		if err != nil {
			return messages.ExportCompleted{Path: path, Err: err}
		}
		if err := services.WriteTable(f, table); err != nil {
			_ = f.Close()
			return messages.ExportCompleted{Path: path, Err: err}
		}
		return messages.ExportCompleted{Path: path, Err: f.Close()}
	}
}

func (v *View) showPrediction(p *domain.Prediction) {
	v.prediction = p
	v.err = nil
	v.input.Blur()
	v.table.SetPrediction(p)
	v.sparkline.SetValues(p.Risks)
	v.statusBar.SetState(status.StateResults)
	v.statusBar.SetCounts(p.Table.NumRows(), p.HighRiskCount())
	v.statusBar.SetMessage("")
}

// View renders the prediction view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	var b strings.Builder
	b.WriteString(v.styles.Title.Render("Predict"))
	b.WriteString("\n\n")

	if v.prediction == nil {
		b.WriteString(v.input.View())
		b.WriteString("\n\n")
		switch {
		case v.predicting:
			b.WriteString(v.styles.Muted.Render("Running inference..."))
		case v.err != nil:
			b.WriteString(v.styles.Error.Render(fmt.Sprintf("Error: %v", v.err)))
		default:
			b.WriteString(v.styles.Muted.Render(AwaitingMessage))
		}
		b.WriteString("\n")
	} else {
		b.WriteString(v.renderResults())
	}

	return lipgloss.JoinVertical(lipgloss.Left, b.String(), v.statusBar.View())
}

func (v *View) renderResults() string {
	p := v.prediction
	var b strings.Builder

	b.WriteString(v.styles.Subtitle.Render("Source: " + p.Source))
	b.WriteString("\n\n")

	if p.Preview != nil && p.Preview.Head != nil {
		b.WriteString(v.styles.Subtitle.Render(fmt.Sprintf("Uploaded data (%d rows)", p.Preview.Rows)))
		b.WriteString("\n")
		b.WriteString(v.styles.Normal.Render(renderGrid(p.Preview.Head.Head(previewRows))))
		b.WriteString("\n\n")
	}

	if spark := v.sparkline.View(); spark != "" {
		b.WriteString(v.styles.Muted.Render("Risk trend "))
		b.WriteString(spark)
		b.WriteString("\n\n")
	}

	if warning := p.Warning(); warning != "" {
		b.WriteString(v.styles.Warning.Render(warning))
	} else {
		b.WriteString(v.styles.Success.Render(fmt.Sprintf("No machines above %s%% risk.", domain.FormatRisk(p.Threshold))))
	}
	b.WriteString("\n\n")

	b.WriteString(v.table.View())
	b.WriteString("\n")
	return b.String()
}

// renderGrid lays a table out in space-padded columns.
func renderGrid(t *domain.Table) string {
	widths := make([]int, len(t.Columns))
	for i, c := range t.Columns {
		widths[i] = len(c)
	}
	for _, row := range t.Rows {
		for i, cell := range row {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	lines := make([]string, 0, len(t.Rows)+1)
	lines = append(lines, padRow(t.Columns, widths))
	for _, row := range t.Rows {
		lines = append(lines, padRow(row, widths))
	}
	return strings.Join(lines, "\n")
}

func padRow(cells []string, widths []int) string {
	parts := make([]string, len(cells))
	for i, cell := range cells {
		w := 0
		if i < len(widths) {
			w = widths[i]
		}
		parts[i] = fmt.Sprintf("%-*s", w, cell)
	}
	return strings.TrimRight(strings.Join(parts, "  "), " ")
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
	v.input.SetWidth(width)
	v.statusBar.SetWidth(width)
	v.sparkline.SetWidth(width - 12)

	// Title, source, warning, trend and status lines
	tableHeight := height - 12
	if v.prediction != nil && v.prediction.Preview != nil {
		tableHeight -= previewRows + 3
	}
	if tableHeight < 3 {
		tableHeight = 3
	}
	v.table.SetDimensions(width, tableHeight)
}

// SetThreshold overrides the high-risk threshold for new predictions.
func (v *View) SetThreshold(threshold float64) {
	v.threshold = threshold
}

// SetExportDir sets the directory exports are written to.
func (v *View) SetExportDir(dir string) {
	v.exportDir = dir
}

// Prediction returns the prediction being shown, or nil.
func (v *View) Prediction() *domain.Prediction {
	return v.prediction
}

// Err returns the last pipeline error.
func (v *View) Err() error {
	return v.err
}

// Reset clears results and returns to the file input.
func (v *View) Reset() {
	v.prediction = nil
	v.err = nil
	v.predicting = false
	v.input.Reset()
	v.table.SetPrediction(nil)
	v.sparkline.SetValues(nil)
	v.statusBar.Clear()
	v.statusBar.SetMessage(AwaitingMessage)
}
