package driven

import (
	"time"

	"github.com/custodia-labs/failcast/internal/core/domain"
)

// Metrics records pipeline activity.
type Metrics interface {
	// RunSucceeded records a completed run.
	RunSucceeded(rows, highRisk int, elapsed time.Duration)

	// RunFailed records a failed run and the stage it failed at.
	RunFailed(stage domain.Stage, elapsed time.Duration)

	// Snapshot returns the current values keyed by metric name.
	Snapshot() map[string]map[string]any
}
