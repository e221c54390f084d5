package mcp

import (
	"context"
	"io"

	"github.com/custodia-labs/failcast/internal/core/domain"
)

// mockPredictionService is a mock implementation of driving.PredictionService.
type mockPredictionService struct {
	prediction *domain.Prediction
	info       domain.ModelInfo
	err        error
	lastCSV    string
	lastOpts   domain.PredictOptions
}

func (m *mockPredictionService) Predict(
	_ context.Context,
	r io.Reader,
	opts domain.PredictOptions,
) (*domain.Prediction, error) {
	data, _ := io.ReadAll(r)
	m.lastCSV = string(data)
	m.lastOpts = opts
	return m.prediction, m.err
}

func (m *mockPredictionService) ModelInfo() domain.ModelInfo {
	return m.info
}

// mockHistoryService is a mock implementation of driving.HistoryService.
type mockHistoryService struct {
	runs      []domain.Run
	err       error
	lastLimit int
}

func (m *mockHistoryService) List(_ context.Context, limit int) ([]domain.Run, error) {
	m.lastLimit = limit
	return m.runs, m.err
}

func (m *mockHistoryService) Get(_ context.Context, id string) (*domain.Run, error) {
	if m.err != nil {
		return nil, m.err
	}
	for i := range m.runs {
		if m.runs[i].ID == id {
			run := m.runs[i]
			return &run, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockHistoryService) Prune(_ context.Context, _ int) (int, error) {
	return 0, m.err
}

// samplePrediction builds a three-row prediction with one high-risk row.
func samplePrediction() *domain.Prediction {
	table := domain.NewTable(
		[]string{"Temperature", "VOC"},
		[][]string{{"21", "3"}, {"45", "6"}, {"19", "1"}},
	)
	annotated, _ := domain.Annotate(table, []string{"0", "1", "0"}, []float64{0.1, 0.85, 0.05})
	highRisk, _ := domain.SelectHighRisk(annotated, domain.DefaultRiskThreshold)
	return &domain.Prediction{
		RunID:     "run-1",
		Source:    "sensors.csv",
		Table:     annotated,
		Labels:    []string{"0", "1", "0"},
		Risks:     []float64{10, 85, 5},
		Threshold: domain.DefaultRiskThreshold,
		HighRisk:  highRisk,
	}
}
