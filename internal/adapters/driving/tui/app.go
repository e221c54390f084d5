package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/failcast/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/failcast/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/failcast/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/failcast/internal/adapters/driving/tui/views/about"
	"github.com/custodia-labs/failcast/internal/adapters/driving/tui/views/history"
	"github.com/custodia-labs/failcast/internal/adapters/driving/tui/views/menu"
	"github.com/custodia-labs/failcast/internal/adapters/driving/tui/views/predict"
	"github.com/custodia-labs/failcast/internal/adapters/driving/tui/views/settings"
	"github.com/custodia-labs/failcast/internal/core/domain"
)

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	// ports provides access to core services via driving ports.
	ports *Ports

	// ctx is the context for cancellation.
	ctx context.Context

	styles *styles.Styles
	keymap *keymap.KeyMap

	menuView     *menu.View
	predictView  *predict.View
	aboutView    *about.View
	historyView  *history.View
	settingsView *settings.View

	// currentView tracks which view is active.
	currentView messages.ViewType

	// err holds the last error that occurred.
	err error

	width  int
	height int
	ready  bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()

	menuView := menu.NewView(s, km)
	menuView.SetModelLine(modelLine(ports.Prediction.ModelInfo()))

	return &App{
		ports:        ports,
		ctx:          context.Background(),
		styles:       s,
		keymap:       km,
		menuView:     menuView,
		predictView:  predict.NewView(s, km, ports.Prediction, 0),
		aboutView:    about.NewView(s, ports.Prediction, 0),
		historyView:  history.NewView(s, ports.History),
		settingsView: settings.NewView(s, ports.Settings),
		currentView:  messages.ViewMenu,
	}, nil
}

// modelLine summarises the loaded model for the menu.
func modelLine(info domain.ModelInfo) string {
	if info.ModelKind == "" {
		return ""
	}
	if n := len(info.Features); n > 0 {
		return fmt.Sprintf("%s model, %d features", info.ModelKind, n)
	}
	return info.ModelKind + " model"
}

// WithContext sets the context for the app.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	return a
}

// WithThreshold sets the high-risk threshold used for predictions.
func (a *App) WithThreshold(threshold float64) *App {
	a.predictView.SetThreshold(threshold)
	a.aboutView.SetThreshold(threshold)
	return a
}

// WithExportDir sets where exported results are written.
func (a *App) WithExportDir(dir string) *App {
	a.predictView.SetExportDir(dir)
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnterAltScreen,
		tea.SetWindowTitle("failcast - Machine Failure Prediction"),
	)
}

// Update implements tea.Model.
//
//nolint:gocyclo // central message handler
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		// Global quit with ctrl+c
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		if a.currentView == messages.ViewHelp {
			if msg.Type == tea.KeyEsc {
				a.currentView = messages.ViewMenu
			}
			return a, nil
		}
		return a, a.forward(msg)

	case messages.ViewChanged:
		a.currentView = msg.View
		switch msg.View {
		case messages.ViewPredict:
			return a, a.predictView.Init()
		case messages.ViewHistory:
			return a, a.historyView.Init()
		case messages.ViewSettings:
			a.settingsView.Reset()
			return a, a.settingsView.Init()
		case messages.ViewMenu, messages.ViewAbout, messages.ViewHelp:
			// No initialisation needed
		}
		return a, nil

	case messages.PredictRequested, messages.PredictionCompleted, messages.ExportCompleted:
		a.predictView, cmd = a.predictView.Update(msg)
		a.err = a.predictView.Err()
		return a, cmd

	case messages.HistoryLoaded:
		a.historyView, cmd = a.historyView.Update(msg)
		return a, cmd

	case messages.SettingsLoaded, messages.SettingSaved:
		a.settingsView, cmd = a.settingsView.Update(msg)
		return a, cmd

	case messages.ErrorOccurred:
		a.err = msg.Err
		return a, nil

	case messages.Quit:
		return a, tea.Quit
	}

	return a, a.forward(msg)
}

// forward passes msg to the active view.
func (a *App) forward(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch a.currentView {
	case messages.ViewMenu:
		a.menuView, cmd = a.menuView.Update(msg)
	case messages.ViewPredict:
		a.predictView, cmd = a.predictView.Update(msg)
	case messages.ViewAbout:
		a.aboutView, cmd = a.aboutView.Update(msg)
	case messages.ViewHistory:
		a.historyView, cmd = a.historyView.Update(msg)
	case messages.ViewSettings:
		a.settingsView, cmd = a.settingsView.Update(msg)
	case messages.ViewHelp:
		// Help is static
	}
	return cmd
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	switch a.currentView {
	case messages.ViewPredict:
		return a.predictView.View()
	case messages.ViewAbout:
		return a.aboutView.View()
	case messages.ViewHistory:
		return a.historyView.View()
	case messages.ViewSettings:
		return a.settingsView.View()
	case messages.ViewHelp:
		return a.viewHelp()
	default:
		return a.menuView.View()
	}
}

// viewHelp renders the help view.
func (a *App) viewHelp() string {
	return `Help

Navigation:
  esc         Back to Menu
  ctrl+c      Quit

Menu:
  j/k, ↑/↓    Navigate options
  enter       Select option
  q           Quit

Predict:
  (type)      Enter the path of a CSV file
  enter       Run the prediction

Results:
  j/k, ↑/↓    Scroll rows
  h           Show only high-risk rows
  e           Export predicted_results.csv
  n           Predict another file
  esc         Back to Menu

[esc] back to menu`
}

// Run starts the TUI application.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(a.ctx))
	_, err := p.Run()
	return err
}

// CurrentView returns the current view type.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has been initialised.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions on the app and every view.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.menuView.SetDimensions(width, height)
	a.predictView.SetDimensions(width, height)
	a.aboutView.SetDimensions(width, height)
	a.historyView.SetDimensions(width, height)
	a.settingsView.SetDimensions(width, height)
}
