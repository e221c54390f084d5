package artifact

import (
	"context"
	"fmt"

	"github.com/custodia-labs/failcast/internal/core/domain"
	"github.com/custodia-labs/failcast/internal/core/ports/driven"
)

// Scaler kinds.
const (
	KindStandard = "standard"
	KindMinMax   = "minmax"
)

var (
	_ driven.Scaler = (*StandardScaler)(nil)
	_ driven.Scaler = (*MinMaxScaler)(nil)
)

// StandardScaler computes (x - mean) / scale per feature.
type StandardScaler struct {
	names []string
	mean  []float64
	scale []float64
}

// NewStandardScaler creates a standard scaler. A nil mean centres nothing
// and a nil scale divides by one. Zero scales are treated as one.
func NewStandardScaler(names []string, mean, scale []float64) (*StandardScaler, error) {
	n := max(len(mean), len(scale), len(names))
	if n == 0 {
		return nil, fmt.Errorf("%w: standard scaler has no features", domain.ErrInvalidArtifact)
	}
	if mean == nil {
		mean = make([]float64, n)
	}
	if scale == nil {
		scale = ones(n)
	}
	if err := sameLength(n, names, "feature_names", len(mean), "mean", len(scale), "scale"); err != nil {
		return nil, err
	}
	safe := make([]float64, n)
	for i, s := range scale {
		if s == 0 {
			s = 1
		}
		safe[i] = s
	}
	return &StandardScaler{names: names, mean: mean, scale: safe}, nil
}

// Kind returns "standard".
func (s *StandardScaler) Kind() string { return KindStandard }

// FeatureNames returns the fitted column names.
func (s *StandardScaler) FeatureNames() []string { return s.names }

// Transform standardises x.
func (s *StandardScaler) Transform(_ context.Context, x domain.FeatureMatrix) (domain.FeatureMatrix, error) {
	return transform(x, len(s.mean), "StandardScaler", func(j int, v float64) float64 {
		return (v - s.mean[j]) / s.scale[j]
	})
}

// MinMaxScaler computes x * scale + min per feature.
type MinMaxScaler struct {
	names []string
	min   []float64
	scale []float64
}

// NewMinMaxScaler creates a min-max scaler from sklearn's min_ and scale_.
func NewMinMaxScaler(names []string, minimum, scale []float64) (*MinMaxScaler, error) {
	n := len(scale)
	if n == 0 {
		return nil, fmt.Errorf("%w: minmax scaler has no features", domain.ErrInvalidArtifact)
	}
	if err := sameLength(n, names, "feature_names", len(minimum), "min", len(scale), "scale"); err != nil {
		return nil, err
	}
	return &MinMaxScaler{names: names, min: minimum, scale: scale}, nil
}

// Kind returns "minmax".
func (s *MinMaxScaler) Kind() string { return KindMinMax }

// FeatureNames returns the fitted column names.
func (s *MinMaxScaler) FeatureNames() []string { return s.names }

// Transform rescales x.
func (s *MinMaxScaler) Transform(_ context.Context, x domain.FeatureMatrix) (domain.FeatureMatrix, error) {
	return transform(x, len(s.scale), "MinMaxScaler", func(j int, v float64) float64 {
		return v*s.scale[j] + s.min[j]
	})
}

func transform(x domain.FeatureMatrix, width int, name string, f func(j int, v float64) float64) (domain.FeatureMatrix, error) {
	out := make(domain.FeatureMatrix, len(x))
	for i, row := range x {
		if err := checkWidth(row, width, name); err != nil {
			return nil, err
		}
		scaled := make([]float64, width)
		for j, v := range row {
			scaled[j] = f(j, v)
		}
		out[i] = scaled
	}
	return out, nil
}

func checkWidth(row []float64, width int, name string) error {
	if len(row) != width {
		return fmt.Errorf("%w: X has %d features, but %s is expecting %d features as input",
			domain.ErrSchemaMismatch, len(row), name, width)
	}
	return nil
}

func sameLength(n int, names []string, namesField string, a int, aField string, b int, bField string) error {
	if names != nil && len(names) != n {
		return fmt.Errorf("%w: %s has %d entries, expected %d", domain.ErrInvalidArtifact, namesField, len(names), n)
	}
	if a != n {
		return fmt.Errorf("%w: %s has %d entries, expected %d", domain.ErrInvalidArtifact, aField, a, n)
	}
	if b != n {
		return fmt.Errorf("%w: %s has %d entries, expected %d", domain.ErrInvalidArtifact, bField, b, n)
	}
	return nil
}

func ones(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = 1
	}
	return out
}
