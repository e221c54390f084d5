package domain

import "fmt"

// PredictOptions controls a single pipeline run.
type PredictOptions struct {
	// Source names the upload, usually its file name.
	Source string

	// Threshold overrides the configured high-risk threshold when set.
	// Zero is a valid override.
	Threshold *float64
}

// ThresholdOption returns v as a PredictOptions threshold override.
func ThresholdOption(v float64) *float64 {
	return &v
}

// Prediction is the output of one pipeline run.
type Prediction struct {
	// RunID identifies the run that produced this prediction.
	RunID string

	// Source names the upload.
	Source string

	// Table is the uploaded table with normalised column names plus the
	// Predicted Failure and Failure Risk (%) columns.
	Table *Table

	// Labels holds the predicted class label for each row.
	Labels []string

	// Risks holds the failure risk percentage for each row.
	Risks []float64

	// Threshold is the risk percentage used to select HighRisk.
	Threshold float64

	// HighRisk holds the rows of Table whose risk exceeds Threshold.
	HighRisk *Table

	// Preview summarises the uploaded data. Nil when no summariser is configured.
	Preview *Summary
}

// HighRiskCount returns the number of high-risk rows.
func (p *Prediction) HighRiskCount() int {
	return p.HighRisk.NumRows()
}

// Results returns only the derived columns, one row per input row.
func (p *Prediction) Results() *Table {
	t, err := p.Table.Select([]string{PredictedFailureColumn, FailureRiskColumn})
	if err != nil {
		return NewTable([]string{PredictedFailureColumn, FailureRiskColumn}, nil)
	}
	return t
}

// Warning returns the high-risk banner, or "" when no row is high risk.
func (p *Prediction) Warning() string {
	n := p.HighRiskCount()
	if n == 0 {
		return ""
	}
	return fmt.Sprintf("⚠️ %d machines are at HIGH risk of failure!", n)
}

// ResultFileName is the download name of an exported prediction.
const ResultFileName = "predicted_results.csv"
