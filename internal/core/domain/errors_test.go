package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPipelineError_MessageIsUnderlying(t *testing.T) {
	external := errors.New("X has 3 features, but StandardScaler is expecting 9 features as input")

	err := NewPipelineError(StageScale, external)

	assert.Equal(t, external.Error(), err.Error())
	assert.Equal(t, StageScale, err.Stage)
}

func TestPipelineError_Unwrap(t *testing.T) {
	err := NewPipelineError(StageFeatures, fmt.Errorf("column %q: %w", "VOC", ErrSchemaMismatch))

	assert.ErrorIs(t, err, ErrSchemaMismatch)
	assert.True(t, IsPipelineError(err))
	assert.True(t, IsPipelineError(fmt.Errorf("predict: %w", err)))
	assert.False(t, IsPipelineError(ErrSchemaMismatch))
}

func TestPipelineError_NilCause(t *testing.T) {
	err := &PipelineError{Stage: StagePredict}

	assert.Equal(t, "pipeline failed at predict", err.Error())
}

func TestSentinelErrors_Distinct(t *testing.T) {
	all := []error{
		ErrNotFound, ErrInvalidInput, ErrInvalidCSV, ErrSchemaMismatch,
		ErrNonNumeric, ErrPositiveClass, ErrPredictionShape, ErrRiskColumnMissing,
		ErrInvalidArtifact, ErrModelUnavailable, ErrRemoteModel,
	}
	for i := range all {
		for j := range all {
			if i != j {
				assert.NotErrorIs(t, all[i], all[j])
			}
		}
	}
}
