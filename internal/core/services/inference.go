package services

import (
	"fmt"
	"math"

	"github.com/custodia-labs/failcast/internal/core/domain"
	"github.com/custodia-labs/failcast/internal/core/ports/driven"
)

// InferenceContext holds the loaded scaler and classifier.
// It is built once at start-up and shared read-only by every run.
type InferenceContext struct {
	scaler             driven.Scaler
	model              driven.Classifier
	positiveClassIndex int
}

// NewInferenceContext validates and bundles a scaler and classifier.
// positiveClassIndex selects the failure column of the classifier's
// probability output and must be within its classes when they are known.
func NewInferenceContext(
	scaler driven.Scaler,
	model driven.Classifier,
	positiveClassIndex int,
) (*InferenceContext, error) {
	if scaler == nil || model == nil {
		return nil, domain.ErrModelUnavailable
	}
	if positiveClassIndex < 0 {
		return nil, fmt.Errorf("%w: %d", domain.ErrPositiveClass, positiveClassIndex)
	}
	if classes := model.Classes(); len(classes) > 0 && positiveClassIndex >= len(classes) {
		return nil, fmt.Errorf("%w: index %d but model has %d classes %v",
			domain.ErrPositiveClass, positiveClassIndex, len(classes), classes)
	}
	return &InferenceContext{
		scaler:             scaler,
		model:              model,
		positiveClassIndex: positiveClassIndex,
	}, nil
}

// Scaler returns the feature scaler.
func (c *InferenceContext) Scaler() driven.Scaler {
	return c.scaler
}

// Model returns the classifier.
func (c *InferenceContext) Model() driven.Classifier {
	return c.model
}

// PositiveClassIndex returns the failure column of the probability matrix.
func (c *InferenceContext) PositiveClassIndex() int {
	return c.positiveClassIndex
}

// Info describes the scaler and classifier.
func (c *InferenceContext) Info() domain.ModelInfo {
	return domain.ModelInfo{
		ScalerKind:         c.scaler.Kind(),
		ModelKind:          c.model.Kind(),
		Features:           c.scaler.FeatureNames(),
		Classes:            c.model.Classes(),
		PositiveClassIndex: c.positiveClassIndex,
	}
}

// PositiveRisk extracts the failure probability of each row.
func (c *InferenceContext) PositiveRisk(proba [][]float64) ([]float64, error) {
	out := make([]float64, len(proba))
	for i, row := range proba {
		if c.positiveClassIndex >= len(row) {
			return nil, fmt.Errorf("%w: index %d but row %d has %d probabilities",
				domain.ErrPositiveClass, c.positiveClassIndex, i+1, len(row))
		}
		p := row[c.positiveClassIndex]
		if math.IsNaN(p) || p < 0 || p > 1 {
			return nil, fmt.Errorf("%w: row %d probability %v outside [0,1]",
				domain.ErrPredictionShape, i+1, p)
		}
		out[i] = p
	}
	return out, nil
}
