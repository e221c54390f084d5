package driven

import (
	"context"

	"github.com/custodia-labs/failcast/internal/core/domain"
)

// Scaler is a pre-fitted feature transformer.
// Implementations are immutable once loaded and safe for concurrent use.
type Scaler interface {
	// Kind names the scaler type, e.g. "standard".
	Kind() string

	// FeatureNames returns the columns the scaler was fitted on, in order.
	// Returns nil when the artefact does not record them.
	FeatureNames() []string

	// Transform scales a feature matrix. Errors are reported unchanged to the user.
	Transform(ctx context.Context, x domain.FeatureMatrix) (domain.FeatureMatrix, error)
}

// Classifier is a pre-trained classifier.
// Implementations are immutable once loaded and safe for concurrent use.
type Classifier interface {
	// Kind names the model type, e.g. "logistic".
	Kind() string

	// Classes returns the class labels in probability column order.
	// Returns nil when unknown.
	Classes() []string

	// Predict returns one class label per row.
	Predict(ctx context.Context, x domain.FeatureMatrix) ([]string, error)

	// PredictProba returns one probability row per input row, one column per class.
	PredictProba(ctx context.Context, x domain.FeatureMatrix) ([][]float64, error)
}

// JointPredictor is implemented by classifiers that produce labels and
// probabilities from one call, such as a remote model server.
type JointPredictor interface {
	PredictWithProba(ctx context.Context, x domain.FeatureMatrix) ([]string, [][]float64, error)
}
