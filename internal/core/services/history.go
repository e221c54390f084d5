package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/failcast/internal/core/domain"
	"github.com/custodia-labs/failcast/internal/core/ports/driven"
	"github.com/custodia-labs/failcast/internal/core/ports/driving"
)

// Ensure HistoryService implements the interface.
var _ driving.HistoryService = (*HistoryService)(nil)

// DefaultHistoryLimit is the number of runs listed when no limit is given.
const DefaultHistoryLimit = 20

// HistoryService lists recorded pipeline runs.
type HistoryService struct {
	runStore driven.RunStore
}

// NewHistoryService creates a new history service.
// A nil store yields an always-empty history.
func NewHistoryService(runStore driven.RunStore) *HistoryService {
	return &HistoryService{runStore: runStore}
}

// List returns up to limit runs, newest first.
func (s *HistoryService) List(ctx context.Context, limit int) ([]domain.Run, error) {
	if s.runStore == nil {
		return []domain.Run{}, nil
	}
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	return s.runStore.List(ctx, limit)
}

// Get returns a single run.
func (s *HistoryService) Get(ctx context.Context, id string) (*domain.Run, error) {
	if s.runStore == nil {
		return nil, domain.ErrNotFound
	}
	return s.runStore.Get(ctx, id)
}

// Prune keeps the most recent keep runs.
func (s *HistoryService) Prune(ctx context.Context, keep int) (int, error) {
	if keep < 0 {
		return 0, fmt.Errorf("%w: keep must not be negative", domain.ErrInvalidInput)
	}
	if s.runStore == nil {
		return 0, nil
	}
	return s.runStore.Prune(ctx, keep)
}
