package mcp

import (
	"github.com/custodia-labs/failcast/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Prediction runs the inference pipeline.
	Prediction driving.PredictionService

	// History lists past runs. Optional.
	History driving.HistoryService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Prediction == nil {
		return ErrMissingPredictionService
	}
	return nil
}
