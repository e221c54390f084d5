package driven

import (
	"context"

	"github.com/custodia-labs/failcast/internal/core/domain"
)

// RunStore persists pipeline run summaries.
type RunStore interface {
	// Save stores a run. Saving an existing ID replaces it.
	Save(ctx context.Context, run domain.Run) error

	// Get retrieves a run by ID.
	// Returns domain.ErrNotFound if the run does not exist.
	Get(ctx context.Context, id string) (*domain.Run, error)

	// List returns the most recent runs first, at most limit of them.
	// A limit <= 0 returns every run.
	List(ctx context.Context, limit int) ([]domain.Run, error)

	// Prune deletes all but the most recent keep runs and returns the
	// number removed.
	Prune(ctx context.Context, keep int) (int, error)
}
