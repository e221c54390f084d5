// Package tui provides an interactive terminal user interface for failcast.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/custodia-labs/failcast/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the TUI.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Prediction runs uploaded files through the pipeline.
	Prediction driving.PredictionService

	// History lists past runs. Optional.
	History driving.HistoryService

	// Settings manages application settings. Optional.
	Settings driving.SettingsService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Prediction == nil {
		return ErrMissingPredictionService
	}
	return nil
}
