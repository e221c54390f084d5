package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// Pipeline Errors.

	// ErrInvalidCSV indicates the upload could not be parsed as CSV with a header row.
	ErrInvalidCSV = errors.New("invalid csv")

	// ErrSchemaMismatch indicates the feature columns differ from what the scaler was fitted on.
	ErrSchemaMismatch = errors.New("feature columns do not match the scaler")

	// ErrNonNumeric indicates a feature cell could not be read as a number.
	ErrNonNumeric = errors.New("non-numeric feature value")

	// ErrPositiveClass indicates the configured positive class index is outside
	// the probability matrix returned by the model.
	ErrPositiveClass = errors.New("positive class index out of range")

	// ErrPredictionShape indicates the model returned a different number of
	// rows than it was given.
	ErrPredictionShape = errors.New("prediction shape mismatch")

	// ErrRiskColumnMissing indicates a table has no Failure Risk (%) column.
	ErrRiskColumnMissing = errors.New("risk column missing")

	// Model Errors.

	// ErrInvalidArtifact indicates a scaler or model file could not be used.
	ErrInvalidArtifact = errors.New("invalid model artifact")

	// ErrModelUnavailable indicates no scaler or model is configured.
	ErrModelUnavailable = errors.New("model unavailable")

	// ErrRemoteModel indicates the remote model server rejected a request.
	ErrRemoteModel = errors.New("remote model error")
)

// Stage names the step of the inference pipeline where a run failed.
type Stage string

// Pipeline stages in execution order.
const (
	StageParse    Stage = "parse"
	StageFeatures Stage = "features"
	StageScale    Stage = "scale"
	StagePredict  Stage = "predict"
	StageAnnotate Stage = "annotate"
)

// PipelineError is the single failure type reported by a pipeline run.
// The message is the underlying error's message, unchanged, so errors raised
// by external scalers and models reach the user as-is.
type PipelineError struct {
	Stage Stage
	Err   error
}

// NewPipelineError wraps err as a failure of the given stage.
func NewPipelineError(stage Stage, err error) *PipelineError {
	return &PipelineError{Stage: stage, Err: err}
}

// Error implements error.
func (e *PipelineError) Error() string {
	if e.Err == nil {
		return "pipeline failed at " + string(e.Stage)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *PipelineError) Unwrap() error {
	return e.Err
}

// IsPipelineError reports whether err is, or wraps, a *PipelineError.
func IsPipelineError(err error) bool {
	var pe *PipelineError
	return errors.As(err, &pe)
}
