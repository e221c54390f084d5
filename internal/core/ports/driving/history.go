package driving

import (
	"context"

	"github.com/custodia-labs/failcast/internal/core/domain"
)

// HistoryService exposes past pipeline runs.
type HistoryService interface {
	// List returns the most recent runs, newest first.
	List(ctx context.Context, limit int) ([]domain.Run, error)

	// Get returns a single run.
	Get(ctx context.Context, id string) (*domain.Run, error)

	// Prune keeps only the most recent runs and returns the number removed.
	Prune(ctx context.Context, keep int) (int, error)
}
