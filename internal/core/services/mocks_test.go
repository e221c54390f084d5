package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/custodia-labs/failcast/internal/core/domain"
	"github.com/custodia-labs/failcast/internal/core/ports/driven"
)

// --- Mock implementations ---

// mockScaler implements driven.Scaler by returning its input unchanged.
type mockScaler struct {
	names     []string
	err       error
	calls     int
	lastInput domain.FeatureMatrix
}

func (m *mockScaler) Kind() string { return "mock" }

func (m *mockScaler) FeatureNames() []string { return m.names }

func (m *mockScaler) Transform(_ context.Context, x domain.FeatureMatrix) (domain.FeatureMatrix, error) {
	m.calls++
	m.lastInput = x
	if m.err != nil {
		return nil, m.err
	}
	return x, nil
}

// mockClassifier implements driven.Classifier with canned outputs.
type mockClassifier struct {
	classes  []string
	labels   []string
	proba    [][]float64
	err      error
	probaErr error
	calls    int
}

func (m *mockClassifier) Kind() string { return "mock" }

func (m *mockClassifier) Classes() []string { return m.classes }

func (m *mockClassifier) Predict(_ context.Context, _ domain.FeatureMatrix) ([]string, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.labels, nil
}

func (m *mockClassifier) PredictProba(_ context.Context, _ domain.FeatureMatrix) ([][]float64, error) {
	if m.probaErr != nil {
		return nil, m.probaErr
	}
	return m.proba, nil
}

// mockRunStore implements driven.RunStore in memory.
type mockRunStore struct {
	mu      sync.Mutex
	runs    []domain.Run
	saveErr error
}

func (m *mockRunStore) Save(_ context.Context, run domain.Run) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.runs = append(m.runs, run)
	return nil
}

func (m *mockRunStore) Get(_ context.Context, id string) (*domain.Run, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.runs {
		if m.runs[i].ID == id {
			run := m.runs[i]
			return &run, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockRunStore) List(_ context.Context, limit int) ([]domain.Run, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.Run, 0, len(m.runs))
	for i := len(m.runs) - 1; i >= 0; i-- {
		out = append(out, m.runs[i])
	}
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (m *mockRunStore) Prune(_ context.Context, keep int) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if keep >= len(m.runs) {
		return 0, nil
	}
	removed := len(m.runs) - keep
	m.runs = m.runs[removed:]
	return removed, nil
}

// mockSummariser implements driven.TableSummariser.
type mockSummariser struct {
	err error
}

func (m *mockSummariser) Summarise(t *domain.Table, head int) (*domain.Summary, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &domain.Summary{Rows: t.NumRows(), Head: t.Head(head)}, nil
}

// mockMetrics implements driven.Metrics by counting calls.
type mockMetrics struct {
	succeeded int
	failed    map[domain.Stage]int
	rows      int
}

func newMockMetrics() *mockMetrics {
	return &mockMetrics{failed: make(map[domain.Stage]int)}
}

func (m *mockMetrics) RunSucceeded(rows, _ int, _ time.Duration) {
	m.succeeded++
	m.rows += rows
}

func (m *mockMetrics) RunFailed(stage domain.Stage, _ time.Duration) {
	m.failed[stage]++
}

func (m *mockMetrics) Snapshot() map[string]map[string]any {
	return map[string]map[string]any{}
}

var (
	_ driven.Scaler          = (*mockScaler)(nil)
	_ driven.Classifier      = (*mockClassifier)(nil)
	_ driven.RunStore        = (*mockRunStore)(nil)
	_ driven.TableSummariser = (*mockSummariser)(nil)
	_ driven.Metrics         = (*mockMetrics)(nil)
)

var errBoom = errors.New("boom")
