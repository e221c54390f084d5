// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/failcast/internal/core/domain"
)

// PredictRequested is a command to run the pipeline on a CSV file.
type PredictRequested struct {
	Path      string
	Threshold float64
}

// PredictionCompleted carries a pipeline result back to the model.
type PredictionCompleted struct {
	Path       string
	Prediction *domain.Prediction
	Err        error
}

// ExportCompleted signals the annotated table was written to disk.
type ExportCompleted struct {
	Path string
	Err  error
}

// HistoryLoaded carries recent runs from the history service.
type HistoryLoaded struct {
	Runs []domain.Run
	Err  error
}

// SettingsLoaded carries the application settings.
type SettingsLoaded struct {
	Settings domain.Settings
	Err      error
}

// SettingSaved signals a single setting was written.
type SettingSaved struct {
	Key string
	Err error
}

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewMenu is the main navigation menu.
	ViewMenu ViewType = iota
	// ViewPredict is the file input and prediction results view.
	ViewPredict
	// ViewAbout describes the loaded model.
	ViewAbout
	// ViewHistory lists recent runs.
	ViewHistory
	// ViewSettings is the settings configuration view.
	ViewSettings
	// ViewHelp is the help/keybindings view.
	ViewHelp
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewMenu:
		return "menu"
	case ViewPredict:
		return "predict"
	case ViewAbout:
		return "about"
	case ViewHistory:
		return "history"
	case ViewSettings:
		return "settings"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}
