package artifact

import (
	"context"
	"fmt"
	"math"

	"github.com/custodia-labs/failcast/internal/core/domain"
	"github.com/custodia-labs/failcast/internal/core/ports/driven"
)

// KindLogistic selects a LogisticRegression export.
const KindLogistic = "logistic"

var _ driven.Classifier = (*LogisticRegression)(nil)

// LogisticRegression is a fitted linear classifier.
// A single coefficient row is binary (sigmoid); k rows for k classes are
// multinomial (softmax).
type LogisticRegression struct {
	classes   []string
	coef      [][]float64
	intercept []float64
}

// NewLogisticRegression creates a logistic classifier.
func NewLogisticRegression(classes []string, coef [][]float64, intercept []float64) (*LogisticRegression, error) {
	if len(classes) < 2 {
		return nil, fmt.Errorf("%w: logistic model needs at least 2 classes, got %d",
			domain.ErrInvalidArtifact, len(classes))
	}
	rows := len(coef)
	switch {
	case len(classes) == 2 && rows != 1:
		return nil, fmt.Errorf("%w: binary logistic model needs 1 coefficient row, got %d",
			domain.ErrInvalidArtifact, rows)
	case len(classes) > 2 && rows != len(classes):
		return nil, fmt.Errorf("%w: %d classes need %d coefficient rows, got %d",
			domain.ErrInvalidArtifact, len(classes), len(classes), rows)
	}
	if len(intercept) != rows {
		return nil, fmt.Errorf("%w: intercept has %d entries, expected %d",
			domain.ErrInvalidArtifact, len(intercept), rows)
	}
	width := len(coef[0])
	if width == 0 {
		return nil, fmt.Errorf("%w: logistic model has no features", domain.ErrInvalidArtifact)
	}
	for i, row := range coef {
		if len(row) != width {
			return nil, fmt.Errorf("%w: coefficient row %d has %d entries, expected %d",
				domain.ErrInvalidArtifact, i, len(row), width)
		}
	}
	return &LogisticRegression{classes: classes, coef: coef, intercept: intercept}, nil
}

// Kind returns "logistic".
func (m *LogisticRegression) Kind() string { return KindLogistic }

// Classes returns the class labels.
func (m *LogisticRegression) Classes() []string { return m.classes }

// Predict returns the most probable class of each row.
func (m *LogisticRegression) Predict(ctx context.Context, x domain.FeatureMatrix) ([]string, error) {
	proba, err := m.PredictProba(ctx, x)
	if err != nil {
		return nil, err
	}
	return argmaxLabels(m.classes, proba), nil
}

// PredictProba returns class probabilities for each row.
func (m *LogisticRegression) PredictProba(_ context.Context, x domain.FeatureMatrix) ([][]float64, error) {
	width := len(m.coef[0])
	out := make([][]float64, len(x))
	for i, row := range x {
		if err := checkWidth(row, width, "LogisticRegression"); err != nil {
			return nil, err
		}
		scores := make([]float64, len(m.coef))
		for k, w := range m.coef {
			z := m.intercept[k]
			for j, v := range row {
				z += w[j] * v
			}
			scores[k] = z
		}
		if len(scores) == 1 {
			p := sigmoid(scores[0])
			out[i] = []float64{1 - p, p}
		} else {
			out[i] = softmax(scores)
		}
	}
	return out, nil
}

func sigmoid(z float64) float64 {
	if z >= 0 {
		return 1 / (1 + math.Exp(-z))
	}
	e := math.Exp(z)
	return e / (1 + e)
}

func softmax(z []float64) []float64 {
	peak := math.Inf(-1)
	for _, v := range z {
		peak = math.Max(peak, v)
	}
	var sum float64
	out := make([]float64, len(z))
	for i, v := range z {
		out[i] = math.Exp(v - peak)
		sum += out[i]
	}
	for i := range out {
		out[i] /= sum
	}
	return out
}

// argmaxLabels picks the first class with the highest probability per row.
func argmaxLabels(classes []string, proba [][]float64) []string {
	labels := make([]string, len(proba))
	for i, row := range proba {
		best := 0
		for k := 1; k < len(row); k++ {
			if row[k] > row[best] {
				best = k
			}
		}
		labels[i] = classes[best]
	}
	return labels
}
