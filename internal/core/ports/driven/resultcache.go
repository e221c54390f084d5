package driven

import "github.com/custodia-labs/failcast/internal/core/domain"

// ResultCache holds predictions for the lifetime of a UI session.
// Entries expire; nothing is written to disk.
type ResultCache interface {
	// Put stores a prediction under its RunID.
	Put(p *domain.Prediction)

	// Get returns a stored prediction, or false if missing or expired.
	Get(runID string) (*domain.Prediction, bool)
}
