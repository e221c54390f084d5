package artifact

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cast"

	"github.com/custodia-labs/failcast/internal/core/domain"
	"github.com/custodia-labs/failcast/internal/core/ports/driven"
	"github.com/custodia-labs/failcast/internal/logger"
)

// scalerFile is the union of every scaler export.
type scalerFile struct {
	Kind         string    `json:"kind"`
	FeatureNames []string  `json:"feature_names"`
	Mean         []float64 `json:"mean"`
	Min          []float64 `json:"min"`
	Scale        []float64 `json:"scale"`
}

// modelFile is the union of every classifier export.
type modelFile struct {
	Kind      string      `json:"kind"`
	Classes   []any       `json:"classes"`
	Coef      [][]float64 `json:"coef"`
	Intercept []float64   `json:"intercept"`
	NFeatures int         `json:"n_features"`
	Trees     []Tree      `json:"trees"`
}

// LoadScaler reads a scaler export from path.
func LoadScaler(path string) (driven.Scaler, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidArtifact, err)
	}
	defer f.Close()

	s, err := ReadScaler(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	logger.Debug("Loaded %s scaler from %s (%d features)", s.Kind(), path, len(s.FeatureNames()))
	return s, nil
}

// ReadScaler decodes a scaler export.
func ReadScaler(r io.Reader) (driven.Scaler, error) {
	var sf scalerFile
	if err := json.NewDecoder(r).Decode(&sf); err != nil {
		return nil, fmt.Errorf("%w: decoding scaler: %w", domain.ErrInvalidArtifact, err)
	}
	switch sf.Kind {
	case KindStandard:
		return NewStandardScaler(sf.FeatureNames, sf.Mean, sf.Scale)
	case KindMinMax:
		return NewMinMaxScaler(sf.FeatureNames, sf.Min, sf.Scale)
	default:
		return nil, fmt.Errorf("%w: unknown scaler kind %q", domain.ErrInvalidArtifact, sf.Kind)
	}
}

// LoadClassifier reads a classifier export from path.
func LoadClassifier(path string) (driven.Classifier, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidArtifact, err)
	}
	defer f.Close()

	m, err := ReadClassifier(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	logger.Debug("Loaded %s model from %s (classes %v)", m.Kind(), path, m.Classes())
	return m, nil
}

// ReadClassifier decodes a classifier export.
func ReadClassifier(r io.Reader) (driven.Classifier, error) {
	var mf modelFile
	if err := json.NewDecoder(r).Decode(&mf); err != nil {
		return nil, fmt.Errorf("%w: decoding model: %w", domain.ErrInvalidArtifact, err)
	}
	classes, err := classLabels(mf.Classes)
	if err != nil {
		return nil, err
	}
	switch mf.Kind {
	case KindLogistic:
		return NewLogisticRegression(classes, mf.Coef, mf.Intercept)
	case KindForest:
		return NewRandomForest(classes, mf.NFeatures, mf.Trees)
	default:
		return nil, fmt.Errorf("%w: unknown model kind %q", domain.ErrInvalidArtifact, mf.Kind)
	}
}

// classLabels renders sklearn classes_ (numbers or strings) as text.
func classLabels(raw []any) ([]string, error) {
	out := make([]string, len(raw))
	for i, v := range raw {
		s, err := cast.ToStringE(v)
		if err != nil {
			return nil, fmt.Errorf("%w: class %d: %w", domain.ErrInvalidArtifact, i, err)
		}
		out[i] = s
	}
	return out, nil
}
