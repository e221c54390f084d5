package mcp

import (
	"context"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/failcast/internal/core/domain"
	"github.com/custodia-labs/failcast/internal/core/services"
)

// defaultRunLimit is the number of runs list_runs returns when no limit is given.
const defaultRunLimit = 10

// PredictInput is the input schema for the predict_failures tool.
type PredictInput struct {
	CSV       string   `json:"csv" jsonschema:"sensor readings as CSV text with a header row"`
	Threshold *float64 `json:"threshold,omitempty" jsonschema:"risk percentage from 0 to 100 above which a machine is high risk (default from config)"`
	Source    string   `json:"source,omitempty" jsonschema:"name of the data set, recorded in run history"`
}

// PredictOutput is the output schema for the predict_failures tool.
type PredictOutput struct {
	RunID     string      `json:"run_id"`
	Rows      int         `json:"rows"`
	HighRisk  int         `json:"high_risk"`
	Threshold float64     `json:"threshold"`
	Warning   string      `json:"warning,omitempty"`
	Results   []RowResult `json:"results"`
	CSV       string      `json:"csv"`
}

// RowResult is the prediction for one input row.
type RowResult struct {
	Row              int     `json:"row"`
	PredictedFailure string  `json:"predicted_failure"`
	FailureRisk      float64 `json:"failure_risk"`
	HighRisk         bool    `json:"high_risk"`
}

// ListRunsInput is the input schema for the list_runs tool.
type ListRunsInput struct {
	Limit int `json:"limit,omitempty" jsonschema:"maximum number of runs to return (default 10)"`
}

// ListRunsOutput is the output schema for the list_runs tool.
type ListRunsOutput struct {
	Runs  []RunOutput `json:"runs"`
	Count int         `json:"count"`
}

// RunOutput summarises one pipeline run.
type RunOutput struct {
	ID         string  `json:"id"`
	Source     string  `json:"source"`
	StartedAt  string  `json:"started_at"`
	DurationMS int64   `json:"duration_ms"`
	Rows       int     `json:"rows"`
	HighRisk   int     `json:"high_risk"`
	Threshold  float64 `json:"threshold"`
	Status     string  `json:"status"`
	Stage      string  `json:"stage,omitempty"`
	Error      string  `json:"error,omitempty"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "predict_failures",
		Description: "Predict machine failures from sensor readings and flag high-risk machines",
	}, s.handlePredict)

	if s.ports.History != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "list_runs",
			Description: "List recent prediction runs, newest first",
		}, s.handleListRuns)
	}
}

// handlePredict handles the predict_failures tool invocation.
func (s *Server) handlePredict(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input PredictInput,
) (*mcp.CallToolResult, PredictOutput, error) {
	source := input.Source
	if source == "" {
		source = "mcp"
	}

	pred, err := s.ports.Prediction.Predict(ctx, strings.NewReader(input.CSV), domain.PredictOptions{
		Source:    source,
		Threshold: input.Threshold,
	})
	if err != nil {
		return nil, PredictOutput{}, err
	}

	var csv strings.Builder
	if err := services.WriteTable(&csv, pred.Table); err != nil {
		return nil, PredictOutput{}, err
	}

	output := PredictOutput{
		RunID:     pred.RunID,
		Rows:      pred.Table.NumRows(),
		HighRisk:  pred.HighRiskCount(),
		Threshold: pred.Threshold,
		Warning:   pred.Warning(),
		Results:   make([]RowResult, len(pred.Risks)),
		CSV:       csv.String(),
	}
	for i, risk := range pred.Risks {
		output.Results[i] = RowResult{
			Row:              i,
			PredictedFailure: pred.Labels[i],
			FailureRisk:      risk,
			HighRisk:         risk > pred.Threshold,
		}
	}

	return nil, output, nil
}

// handleListRuns handles the list_runs tool invocation.
func (s *Server) handleListRuns(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ListRunsInput,
) (*mcp.CallToolResult, ListRunsOutput, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = defaultRunLimit
	}

	runs, err := s.ports.History.List(ctx, limit)
	if err != nil {
		return nil, ListRunsOutput{}, err
	}

	output := ListRunsOutput{
		Runs:  make([]RunOutput, len(runs)),
		Count: len(runs),
	}
	for i := range runs {
		output.Runs[i] = toRunOutput(runs[i])
	}
	return nil, output, nil
}

func toRunOutput(r domain.Run) RunOutput {
	return RunOutput{
		ID:         r.ID,
		Source:     r.Source,
		StartedAt:  r.StartedAt.UTC().Format(time.RFC3339),
		DurationMS: r.Duration.Milliseconds(),
		Rows:       r.Rows,
		HighRisk:   r.HighRisk,
		Threshold:  r.Threshold,
		Status:     string(r.Status),
		Stage:      string(r.Stage),
		Error:      r.Error,
	}
}
