package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
	"github.com/spf13/cast"

	"github.com/custodia-labs/failcast/internal/core/domain"
	"github.com/custodia-labs/failcast/internal/core/ports/driven"
	"github.com/custodia-labs/failcast/internal/core/ports/driving"
	"github.com/custodia-labs/failcast/internal/logger"
)

// Ensure Pipeline implements the interface.
var _ driving.PredictionService = (*Pipeline)(nil)

// DefaultPreviewRows is the number of uploaded rows kept in a preview.
const DefaultPreviewRows = 5

// PipelineConfig tunes the inference pipeline.
type PipelineConfig struct {
	// LabelColumn is dropped from model input, matched case-insensitively.
	LabelColumn string

	// Threshold is the default high-risk percentage. Zero means
	// domain.DefaultRiskThreshold.
	Threshold float64

	// StrictColumnOrder rejects feature columns not in the scaler's order.
	StrictColumnOrder bool

	// PreviewRows is the number of rows kept in the upload preview.
	PreviewRows int
}

// PipelineConfigFromSettings derives the pipeline configuration from settings.
func PipelineConfigFromSettings(s domain.Settings) PipelineConfig {
	return PipelineConfig{
		LabelColumn:       s.LabelColumn,
		Threshold:         s.Threshold,
		StrictColumnOrder: s.StrictColumnOrder,
		PreviewRows:       DefaultPreviewRows,
	}
}

// Pipeline turns an uploaded CSV into an annotated prediction.
// It holds no per-run state and is safe for concurrent use.
type Pipeline struct {
	inference  *InferenceContext
	config     PipelineConfig
	runStore   driven.RunStore
	summariser driven.TableSummariser
	metrics    driven.Metrics
	now        func() time.Time
	newID      func() string
}

// NewPipeline creates a pipeline around a loaded inference context.
func NewPipeline(inference *InferenceContext, config PipelineConfig) *Pipeline {
	if config.LabelColumn == "" {
		config.LabelColumn = domain.DefaultLabelColumn
	}
	if config.Threshold <= 0 {
		config.Threshold = domain.DefaultRiskThreshold
	}
	if config.PreviewRows <= 0 {
		config.PreviewRows = DefaultPreviewRows
	}
	return &Pipeline{
		inference: inference,
		config:    config,
		now:       time.Now,
		newID:     uuid.NewString,
	}
}

// SetRunStore enables run history.
func (p *Pipeline) SetRunStore(store driven.RunStore) {
	p.runStore = store
}

// SetSummariser enables upload previews.
func (p *Pipeline) SetSummariser(summariser driven.TableSummariser) {
	p.summariser = summariser
}

// SetMetrics enables run metrics.
func (p *Pipeline) SetMetrics(metrics driven.Metrics) {
	p.metrics = metrics
}

// ModelInfo describes the loaded scaler and classifier.
func (p *Pipeline) ModelInfo() domain.ModelInfo {
	return p.inference.Info()
}

// Predict runs the whole pipeline over one CSV upload.
// Failures are returned as *domain.PipelineError naming the failed stage.
// An out-of-range threshold is rejected with domain.ErrInvalidInput before
// the run starts.
func (p *Pipeline) Predict(ctx context.Context, r io.Reader, opts domain.PredictOptions) (*domain.Prediction, error) {
	threshold := p.config.Threshold
	if opts.Threshold != nil {
		threshold = *opts.Threshold
		if threshold < 0 || threshold > 100 || math.IsNaN(threshold) {
			return nil, fmt.Errorf("%w: threshold must be between 0 and 100, got %g",
				domain.ErrInvalidInput, threshold)
		}
	}

	started := p.now()
	run := domain.Run{
		ID:        p.newID(),
		Source:    opts.Source,
		StartedAt: started,
		Threshold: threshold,
	}

	logger.Section("Prediction")
	logger.Debug("Run %s: source=%q threshold=%.2f", run.ID, opts.Source, threshold)

	pred, err := p.predict(ctx, r, run.ID, opts.Source, threshold)
	run.Duration = p.now().Sub(started)

	if err != nil {
		stage := domain.StageParse
		var pe *domain.PipelineError
		if errors.As(err, &pe) {
			stage = pe.Stage
		}
		run.Status = domain.RunFailed
		run.Stage = stage
		run.Error = err.Error()
		logger.Warn("Run %s failed at %s: %v", run.ID, stage, err)
		if p.metrics != nil {
			p.metrics.RunFailed(stage, run.Duration)
		}
		p.record(ctx, run)
		return nil, err
	}

	run.Status = domain.RunSucceeded
	run.Rows = pred.Table.NumRows()
	run.HighRisk = pred.HighRiskCount()
	logger.Info("Run %s: %d rows, %d high risk in %s", run.ID, run.Rows, run.HighRisk, run.Duration)
	if p.metrics != nil {
		p.metrics.RunSucceeded(run.Rows, run.HighRisk, run.Duration)
	}
	p.record(ctx, run)
	return pred, nil
}

func (p *Pipeline) predict(
	ctx context.Context,
	r io.Reader,
	runID, source string,
	threshold float64,
) (*domain.Prediction, error) {
	table, err := ReadTable(r)
	if err != nil {
		return nil, domain.NewPipelineError(domain.StageParse, err)
	}
	table = domain.NormalizeColumns(table)
	logger.Debug("Parsed %d rows with columns %v", table.NumRows(), table.Columns)

	var preview *domain.Summary
	if p.summariser != nil {
		preview, err = p.summariser.Summarise(table, p.config.PreviewRows)
		if err != nil {
			logger.Warn("Preview unavailable: %v", err)
			preview = nil
		}
	}

	features := domain.DeriveFeatures(table, p.config.LabelColumn)
	labels, probs, err := p.Infer(ctx, features)
	if err != nil {
		return nil, err
	}

	annotated, err := domain.Annotate(table, labels, probs)
	if err != nil {
		return nil, domain.NewPipelineError(domain.StageAnnotate, err)
	}
	highRisk, err := domain.SelectHighRisk(annotated, threshold)
	if err != nil {
		return nil, domain.NewPipelineError(domain.StageAnnotate, err)
	}

	risks := make([]float64, len(probs))
	for i, prob := range probs {
		risks[i] = domain.RiskPercent(prob)
	}

	return &domain.Prediction{
		RunID:     runID,
		Source:    source,
		Table:     annotated,
		Labels:    labels,
		Risks:     risks,
		Threshold: threshold,
		HighRisk:  highRisk,
		Preview:   preview,
	}, nil
}

// Infer scales the feature table and classifies each row.
// It returns the predicted labels and the failure probability of each row.
// A table with no rows is checked against the scaler but never reaches the model.
func (p *Pipeline) Infer(ctx context.Context, features *domain.Table) ([]string, []float64, error) {
	defer logger.Elapsed("inference", time.Now())

	aligned, err := p.alignFeatures(features)
	if err != nil {
		return nil, nil, domain.NewPipelineError(domain.StageFeatures, err)
	}
	x, err := featureMatrix(aligned)
	if err != nil {
		return nil, nil, domain.NewPipelineError(domain.StageFeatures, err)
	}
	if len(x) == 0 {
		return []string{}, []float64{}, nil
	}

	scaled, err := p.inference.Scaler().Transform(ctx, x)
	if err != nil {
		return nil, nil, domain.NewPipelineError(domain.StageScale, err)
	}
	if len(scaled) != len(x) {
		return nil, nil, domain.NewPipelineError(domain.StageScale,
			fmt.Errorf("%w: scaler returned %d rows for %d", domain.ErrPredictionShape, len(scaled), len(x)))
	}

	labels, proba, err := classify(ctx, p.inference.Model(), scaled)
	if err != nil {
		return nil, nil, domain.NewPipelineError(domain.StagePredict, err)
	}
	if len(labels) != len(x) || len(proba) != len(x) {
		return nil, nil, domain.NewPipelineError(domain.StagePredict,
			fmt.Errorf("%w: %d rows but %d labels and %d probability rows",
				domain.ErrPredictionShape, len(x), len(labels), len(proba)))
	}

	probs, err := p.inference.PositiveRisk(proba)
	if err != nil {
		return nil, nil, domain.NewPipelineError(domain.StagePredict, err)
	}
	return labels, probs, nil
}

func classify(ctx context.Context, model driven.Classifier, x domain.FeatureMatrix) ([]string, [][]float64, error) {
	if joint, ok := model.(driven.JointPredictor); ok {
		return joint.PredictWithProba(ctx, x)
	}
	labels, err := model.Predict(ctx, x)
	if err != nil {
		return nil, nil, err
	}
	proba, err := model.PredictProba(ctx, x)
	if err != nil {
		return nil, nil, err
	}
	return labels, proba, nil
}

// alignFeatures checks the feature columns against the scaler's names and
// returns them in the scaler's order. A scaler without names leaves the
// table as is and enforces only its own width.
func (p *Pipeline) alignFeatures(features *domain.Table) (*domain.Table, error) {
	expected := p.inference.Scaler().FeatureNames()
	if len(expected) == 0 {
		return features, nil
	}

	want := make(map[string]bool, len(expected))
	for _, name := range expected {
		want[name] = true
	}

	var result *multierror.Error
	seen := make(map[string]bool, len(features.Columns))
	for _, name := range features.Columns {
		switch {
		case seen[name]:
			result = multierror.Append(result, fmt.Errorf("duplicate column %q", name))
		case !want[name]:
			result = multierror.Append(result, fmt.Errorf("unexpected column %q", name))
		}
		seen[name] = true
	}
	for _, name := range expected {
		if !seen[name] {
			result = multierror.Append(result, fmt.Errorf("missing column %q", name))
		}
	}
	if result != nil {
		result.ErrorFormat = joinErrors
		return nil, fmt.Errorf("%w: %w", domain.ErrSchemaMismatch, result)
	}

	if sameOrder(features.Columns, expected) {
		return features, nil
	}
	if p.config.StrictColumnOrder {
		return nil, fmt.Errorf("%w: columns must be in order %s",
			domain.ErrSchemaMismatch, strings.Join(expected, ", "))
	}
	logger.Debug("Reordering feature columns to %v", expected)
	return features.Select(expected)
}

// featureMatrix converts every cell of t to a float.
func featureMatrix(t *domain.Table) (domain.FeatureMatrix, error) {
	x := make(domain.FeatureMatrix, len(t.Rows))
	for i, row := range t.Rows {
		values := make([]float64, len(row))
		for j, cell := range row {
			v, ok := parseFeature(cell)
			if !ok {
				return nil, fmt.Errorf("%w: row %d column %q: %q",
					domain.ErrNonNumeric, i+1, t.Columns[j], cell)
			}
			values[j] = v
		}
		x[i] = values
	}
	return x, nil
}

// parseFeature reads a finite decimal number. Digit separators and
// hexadecimal notation are rejected.
func parseFeature(cell string) (float64, bool) {
	s := strings.TrimSpace(cell)
	if strings.ContainsAny(s, "_xXpP") {
		return 0, false
	}
	v, err := cast.ToFloat64E(s)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

func (p *Pipeline) record(ctx context.Context, run domain.Run) {
	if p.runStore == nil {
		return
	}
	if err := p.runStore.Save(ctx, run); err != nil {
		logger.Warn("Failed to record run %s: %v", run.ID, err)
	}
}

func sameOrder(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func joinErrors(errs []error) string {
	msgs := make([]string, len(errs))
	for i, err := range errs {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "; ")
}
