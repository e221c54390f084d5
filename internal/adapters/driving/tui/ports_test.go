package tui

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/failcast/internal/core/domain"
)

// MockPredictionService implements driving.PredictionService for testing.
type MockPredictionService struct {
	PredictFunc func(ctx context.Context, r io.Reader, opts domain.PredictOptions) (*domain.Prediction, error)
	Info        domain.ModelInfo
}

func (m *MockPredictionService) Predict(
	ctx context.Context, r io.Reader, opts domain.PredictOptions,
) (*domain.Prediction, error) {
	if m.PredictFunc != nil {
		return m.PredictFunc(ctx, r, opts)
	}
	return nil, nil
}

func (m *MockPredictionService) ModelInfo() domain.ModelInfo {
	return m.Info
}

// MockHistoryService implements driving.HistoryService for testing.
type MockHistoryService struct {
	Runs []domain.Run
}

func (m *MockHistoryService) List(_ context.Context, _ int) ([]domain.Run, error) {
	return m.Runs, nil
}

func (m *MockHistoryService) Get(_ context.Context, id string) (*domain.Run, error) {
	for i := range m.Runs {
		if m.Runs[i].ID == id {
			return &m.Runs[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *MockHistoryService) Prune(_ context.Context, _ int) (int, error) {
	return 0, nil
}

// MockSettingsService implements driving.SettingsService for testing.
type MockSettingsService struct {
	Settings domain.Settings
}

func (m *MockSettingsService) Get() (domain.Settings, error) {
	return m.Settings, nil
}

func (m *MockSettingsService) Set(_, _ string) error {
	return nil
}

func TestPorts_Validate(t *testing.T) {
	p := &Ports{}
	assert.ErrorIs(t, p.Validate(), ErrMissingPredictionService)

	p.Prediction = &MockPredictionService{}
	assert.NoError(t, p.Validate())
}

func TestPorts_OptionalServices(t *testing.T) {
	p := &Ports{
		Prediction: &MockPredictionService{},
		History:    &MockHistoryService{},
		Settings:   &MockSettingsService{},
	}

	assert.NoError(t, p.Validate())
}
