package domain

import "time"

// RunStatus is the outcome of a pipeline run.
type RunStatus string

// Run outcomes.
const (
	RunSucceeded RunStatus = "succeeded"
	RunFailed    RunStatus = "failed"
)

// Run summarises one execution of the inference pipeline.
// It never holds the uploaded or annotated data.
type Run struct {
	ID        string
	Source    string
	StartedAt time.Time
	Duration  time.Duration
	Rows      int
	HighRisk  int
	Threshold float64
	Status    RunStatus
	Stage     Stage
	Error     string
}

// Succeeded reports whether the run completed.
func (r Run) Succeeded() bool {
	return r.Status == RunSucceeded
}
