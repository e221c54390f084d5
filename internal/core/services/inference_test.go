package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/failcast/internal/core/domain"
)

func TestNewInferenceContext(t *testing.T) {
	scaler := &mockScaler{names: []string{"A", "B"}}
	model := &mockClassifier{classes: []string{"0", "1"}}

	ictx, err := NewInferenceContext(scaler, model, 1)
	require.NoError(t, err)

	assert.Same(t, scaler, ictx.Scaler())
	assert.Equal(t, 1, ictx.PositiveClassIndex())

	info := ictx.Info()
	assert.Equal(t, []string{"A", "B"}, info.Features)
	assert.Equal(t, "1", info.PositiveClass())
	assert.Equal(t, "mock", info.ModelKind)
}

func TestNewInferenceContext_MissingParts(t *testing.T) {
	_, err := NewInferenceContext(nil, &mockClassifier{}, 1)
	assert.ErrorIs(t, err, domain.ErrModelUnavailable)

	_, err = NewInferenceContext(&mockScaler{}, nil, 1)
	assert.ErrorIs(t, err, domain.ErrModelUnavailable)
}

func TestNewInferenceContext_PositiveClassOutOfRange(t *testing.T) {
	_, err := NewInferenceContext(&mockScaler{}, &mockClassifier{classes: []string{"0", "1"}}, 2)
	assert.ErrorIs(t, err, domain.ErrPositiveClass)

	_, err = NewInferenceContext(&mockScaler{}, &mockClassifier{}, -1)
	assert.ErrorIs(t, err, domain.ErrPositiveClass)
}

func TestNewInferenceContext_UnknownClassesDeferCheck(t *testing.T) {
	ictx, err := NewInferenceContext(&mockScaler{}, &mockClassifier{}, 3)
	require.NoError(t, err)

	_, err = ictx.PositiveRisk([][]float64{{0.2, 0.8}})
	assert.ErrorIs(t, err, domain.ErrPositiveClass)
}

func TestInferenceContext_PositiveRisk(t *testing.T) {
	ictx, err := NewInferenceContext(&mockScaler{}, &mockClassifier{classes: []string{"0", "1"}}, 1)
	require.NoError(t, err)

	risks, err := ictx.PositiveRisk([][]float64{{0.9, 0.1}, {0.2, 0.8}})
	require.NoError(t, err)
	assert.Equal(t, []float64{0.1, 0.8}, risks)

	_, err = ictx.PositiveRisk([][]float64{{-0.5, 1.5}})
	assert.ErrorIs(t, err, domain.ErrPredictionShape)
}
