package driving

import (
	"context"
	"io"

	"github.com/custodia-labs/failcast/internal/core/domain"
)

// PredictionService runs uploaded sensor data through the inference pipeline.
type PredictionService interface {
	// Predict parses CSV from r and returns the annotated prediction.
	// Any failure is returned as a *domain.PipelineError and no partial
	// prediction is returned.
	Predict(ctx context.Context, r io.Reader, opts domain.PredictOptions) (*domain.Prediction, error)

	// ModelInfo describes the loaded scaler and classifier.
	ModelInfo() domain.ModelInfo
}
