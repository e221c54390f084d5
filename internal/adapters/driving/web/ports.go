package web

import (
	"errors"

	"github.com/custodia-labs/failcast/internal/core/ports/driven"
	"github.com/custodia-labs/failcast/internal/core/ports/driving"
)

// ErrMissingPredictionService is returned when the prediction service is not provided.
var ErrMissingPredictionService = errors.New("web: prediction service is required")

// ErrMissingResultCache is returned when the result cache is not provided.
var ErrMissingResultCache = errors.New("web: result cache is required")

// Ports aggregates the services the web server depends on.
type Ports struct {
	// Prediction runs the inference pipeline.
	Prediction driving.PredictionService

	// Results keeps predictions for the results page and download.
	Results driven.ResultCache

	// Chart renders the risk trend. Optional; the chart is hidden without it.
	Chart driven.ChartRenderer

	// Metrics backs GET /metrics. Optional.
	Metrics driven.Metrics
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Prediction == nil {
		return ErrMissingPredictionService
	}
	if p.Results == nil {
		return ErrMissingResultCache
	}
	return nil
}
