package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/custodia-labs/failcast/internal/core/domain"
	"github.com/custodia-labs/failcast/internal/core/ports/driven"
)

// Ensure RunStore implements the interface.
var _ driven.RunStore = (*RunStore)(nil)

// RunStore is an in-memory implementation of driven.RunStore.
type RunStore struct {
	mu   sync.RWMutex
	runs map[string]storedRun
	seq  int
}

type storedRun struct {
	run domain.Run
	seq int
}

// NewRunStore creates a new in-memory run store.
func NewRunStore() *RunStore {
	return &RunStore{
		runs: make(map[string]storedRun),
	}
}

// Save stores or replaces a run.
func (s *RunStore) Save(_ context.Context, run domain.Run) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	s.runs[run.ID] = storedRun{run: run, seq: s.seq}
	return nil
}

// Get retrieves a run by ID.
func (s *RunStore) Get(_ context.Context, id string) (*domain.Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stored, ok := s.runs[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	run := stored.run
	return &run, nil
}

// List returns runs newest first.
func (s *RunStore) List(_ context.Context, limit int) ([]domain.Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ordered := s.ordered()
	if limit > 0 && limit < len(ordered) {
		ordered = ordered[:limit]
	}
	result := make([]domain.Run, len(ordered))
	for i, stored := range ordered {
		result[i] = stored.run
	}
	return result, nil
}

// Prune removes all but the newest keep runs.
func (s *RunStore) Prune(_ context.Context, keep int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ordered := s.ordered()
	if keep >= len(ordered) {
		return 0, nil
	}
	for _, stored := range ordered[keep:] {
		delete(s.runs, stored.run.ID)
	}
	return len(ordered) - keep, nil
}

// ordered must be called with the lock held.
func (s *RunStore) ordered() []storedRun {
	out := make([]storedRun, 0, len(s.runs))
	for _, stored := range s.runs {
		out = append(out, stored)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if !a.run.StartedAt.Equal(b.run.StartedAt) {
			return a.run.StartedAt.After(b.run.StartedAt)
		}
		return a.seq > b.seq
	})
	return out
}
