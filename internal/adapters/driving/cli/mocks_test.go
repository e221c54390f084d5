package cli

import (
	"bytes"
	"context"
	"io"
	"sort"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/custodia-labs/failcast/internal/core/domain"
)

// mockPredictionService scores each row by its first cell: "hot" rows get
// 0.9 and everything else 0.1.
type mockPredictionService struct {
	opts domain.PredictOptions
	err  error
	info domain.ModelInfo
}

func (m *mockPredictionService) Predict(_ context.Context, r io.Reader, opts domain.PredictOptions) (*domain.Prediction, error) {
	m.opts = opts
	if m.err != nil {
		return nil, m.err
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	lines := bytes.Split(bytes.TrimSpace(data), []byte("\n"))
	table := domain.NewTable([]string{"Machine"}, nil)
	labels := []string{}
	probs := []float64{}
	for _, line := range lines[1:] {
		cell := string(line)
		table.Rows = append(table.Rows, []string{cell})
		if cell == "hot" {
			labels = append(labels, "1")
			probs = append(probs, 0.9)
		} else {
			labels = append(labels, "0")
			probs = append(probs, 0.1)
		}
	}
	annotated, err := domain.Annotate(table, labels, probs)
	if err != nil {
		return nil, err
	}
	threshold := domain.DefaultRiskThreshold
	if opts.Threshold != nil {
		threshold = *opts.Threshold
	}
	high, err := domain.SelectHighRisk(annotated, threshold)
	if err != nil {
		return nil, err
	}
	risks := make([]float64, len(probs))
	for i, p := range probs {
		risks[i] = domain.RiskPercent(p)
	}
	return &domain.Prediction{
		RunID:     "run-1",
		Source:    opts.Source,
		Table:     annotated,
		Labels:    labels,
		Risks:     risks,
		Threshold: threshold,
		HighRisk:  high,
	}, nil
}

func (m *mockPredictionService) ModelInfo() domain.ModelInfo {
	return m.info
}

type mockHistoryService struct {
	runs   []domain.Run
	pruned int
	keep   int
}

func (m *mockHistoryService) List(_ context.Context, limit int) ([]domain.Run, error) {
	if limit > 0 && limit < len(m.runs) {
		return m.runs[:limit], nil
	}
	return m.runs, nil
}

func (m *mockHistoryService) Get(_ context.Context, id string) (*domain.Run, error) {
	for i := range m.runs {
		if m.runs[i].ID == id {
			return &m.runs[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockHistoryService) Prune(_ context.Context, keep int) (int, error) {
	m.keep = keep
	return m.pruned, nil
}

type mockSettingsService struct {
	settings domain.Settings
	getErr   error
	setErr   error
	set      map[string]string
}

func (m *mockSettingsService) Get() (domain.Settings, error) {
	return m.settings, m.getErr
}

func (m *mockSettingsService) Set(key, value string) error {
	if m.setErr != nil {
		return m.setErr
	}
	if m.set == nil {
		m.set = make(map[string]string)
	}
	m.set[key] = value
	return nil
}

func (m *mockSettingsService) keys() []string {
	keys := make([]string, 0, len(m.set))
	for k := range m.set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

type mockChartRenderer struct {
	risks     []float64
	threshold float64
}

func (m *mockChartRenderer) RenderRiskTrend(w io.Writer, risks []float64, threshold float64) error {
	m.risks = risks
	m.threshold = threshold
	_, err := w.Write([]byte("\x89PNG"))
	return err
}

var (
	testPrediction *mockPredictionService
	testHistory    *mockHistoryService
	testSettings   *mockSettingsService
	testChart      *mockChartRenderer
)

// setupTestServices installs mock services and returns a cleanup function.
func setupTestServices() func() {
	origPrediction := predictionService
	origHistory := historyService
	origSettings := settingsService
	origChart := chartRenderer
	origLoader := loader

	testPrediction = &mockPredictionService{info: domain.ModelInfo{
		ScalerKind:         "standard",
		ModelKind:          "logistic",
		Features:           []string{"Temperature", "VOC"},
		Classes:            []string{"0", "1"},
		PositiveClassIndex: 1,
	}}
	testHistory = &mockHistoryService{}
	testSettings = &mockSettingsService{settings: domain.DefaultSettings()}
	testChart = &mockChartRenderer{}

	predictionService = testPrediction
	historyService = testHistory
	settingsService = testSettings
	chartRenderer = testChart
	loader = nil

	return func() {
		predictionService = origPrediction
		historyService = origHistory
		settingsService = origSettings
		chartRenderer = origChart
		loader = origLoader
	}
}

// execute runs the root command with args and returns combined output.
// Package-level flag variables are reset afterwards.
func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetIn(bytes.NewBufferString(stdin))
	rootCmd.SetArgs(args)
	defer func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
		resetFlags()
	}()

	err := rootCmd.Execute()
	return buf.String(), err
}

func resetFlags() {
	verbose = false
	configDir = ""
	noHistory = false
	predictOutput = ""
	predictThreshold = 0
	predictJSON = false
	predictChart = ""
	predictHighRisk = false
	historyLimit = 20
	historyJSON = false
	historyKeep = 100
	modelJSON = false
	serveAddr = ""
	watchOut = ""
	watchExisting = false
	watchThreshold = 0
	tuiExportDir = "."

	for _, cmd := range []*cobra.Command{rootCmd, predictCmd, watchCmd} {
		cmd.Flags().VisitAll(func(f *pflag.Flag) { f.Changed = false })
		cmd.PersistentFlags().VisitAll(func(f *pflag.Flag) { f.Changed = false })
	}
}
