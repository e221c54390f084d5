package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/failcast/internal/core/domain"
	"github.com/custodia-labs/failcast/internal/core/services"
	"github.com/custodia-labs/failcast/internal/logger"
)

var (
	predictOutput    string
	predictThreshold float64
	predictJSON      bool
	predictChart     string
	predictHighRisk  bool
)

var predictCmd = &cobra.Command{
	Use:   "predict [file.csv]",
	Short: "Predict machine failures for a CSV file",
	Long: `Runs a CSV file of sensor readings through the scaler and classifier and
adds Predicted Failure and Failure Risk (%) columns.

A column named "fail" (any case) is ignored as model input. Rows whose risk
is above the threshold are reported as high risk.

Use "-" to read from stdin. Without -o, the annotated CSV is written to
stdout when it is not a terminal; on a terminal a results table is shown.`,
	Args:        cobra.ExactArgs(1),
	Annotations: modelAnnotation(),
	RunE:        runPredict,
}

func init() {
	predictCmd.Flags().StringVarP(&predictOutput, "output", "o", "", "write the annotated CSV to this file")
	predictCmd.Flags().Float64Var(&predictThreshold, "threshold", 0, "high-risk threshold in percent (default from config)")
	predictCmd.Flags().BoolVar(&predictJSON, "json", false, "output results as JSON")
	predictCmd.Flags().StringVar(&predictChart, "chart", "", "write the risk trend chart as PNG to this file")
	predictCmd.Flags().BoolVar(&predictHighRisk, "high-risk", false, "only output high-risk rows")
	rootCmd.AddCommand(predictCmd)
}

func runPredict(cmd *cobra.Command, args []string) error {
	if predictionService == nil {
		return errNoPredictionService
	}
	if predictThreshold < 0 || predictThreshold > 100 {
		return fmt.Errorf("%w: threshold must be between 0 and 100", domain.ErrInvalidInput)
	}

	in, source, err := openInput(cmd, args[0])
	if err != nil {
		return err
	}
	defer in.Close()

	opts := domain.PredictOptions{Source: source}
	if cmd.Flags().Changed("threshold") {
		opts.Threshold = domain.ThresholdOption(predictThreshold)
	}
	pred, err := predictionService.Predict(cmd.Context(), in, opts)
	if err != nil {
		return err
	}

	if predictChart != "" {
		if err := writeChart(predictChart, pred); err != nil {
			return err
		}
	}

	table := pred.Table
	if predictHighRisk {
		table = pred.HighRisk
	}

	switch {
	case predictJSON:
		return outputPredictionJSON(cmd, pred, predictHighRisk)
	case predictOutput != "":
		if err := writeCSVFile(predictOutput, table); err != nil {
			return err
		}
		printSummary(cmd, pred)
		cmd.Printf("Saved %s\n", predictOutput)
		return nil
	case isTerminal(cmd.OutOrStdout()):
		outputPredictionTable(cmd, pred)
		return nil
	default:
		return services.WriteTable(cmd.OutOrStdout(), table)
	}
}

func openInput(cmd *cobra.Command, path string) (io.ReadCloser, string, error) {
	if path == "-" {
		return io.NopCloser(cmd.InOrStdin()), "stdin", nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, "", fmt.Errorf("opening input: %w", err)
	}
	return f, filepath.Base(path), nil
}

func writeCSVFile(path string, table *domain.Table) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating output: %w", err)
	}
	if err := services.WriteTable(f, table); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func writeChart(path string, pred *domain.Prediction) error {
	if chartRenderer == nil {
		return fmt.Errorf("chart renderer not configured")
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating chart: %w", err)
	}
	if err := chartRenderer.RenderRiskTrend(f, pred.Risks, pred.Threshold); err != nil {
		_ = f.Close()
		return fmt.Errorf("rendering chart: %w", err)
	}
	logger.Debug("Wrote chart to %s", path)
	return f.Close()
}

// isTerminal reports whether w is an interactive terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func printSummary(cmd *cobra.Command, pred *domain.Prediction) {
	cmd.Printf("%d rows, %d above %s%% risk\n",
		pred.Table.NumRows(), pred.HighRiskCount(), domain.FormatRisk(pred.Threshold))
	if warning := pred.Warning(); warning != "" {
		cmd.Println(warning)
	}
}

func outputPredictionTable(cmd *cobra.Command, pred *domain.Prediction) {
	cmd.Printf("Source: %s\n\n", pred.Source)
	cmd.Printf("  %5s  %-17s  %s\n", "Row", domain.PredictedFailureColumn, domain.FailureRiskColumn)
	for i, risk := range pred.Risks {
		if predictHighRisk && risk <= pred.Threshold {
			continue
		}
		marker := " "
		if risk > pred.Threshold {
			marker = "!"
		}
		cmd.Printf("%s %5d  %-17s  %s\n", marker, i, pred.Labels[i], domain.FormatRisk(risk))
	}
	cmd.Println()
	printSummary(cmd, pred)
}

type predictionJSON struct {
	RunID     string          `json:"run_id"`
	Source    string          `json:"source"`
	Rows      int             `json:"rows"`
	HighRisk  int             `json:"high_risk"`
	Threshold float64         `json:"threshold"`
	Warning   string          `json:"warning,omitempty"`
	Results   []rowResultJSON `json:"results"`
}

type rowResultJSON struct {
	Row              int     `json:"row"`
	PredictedFailure string  `json:"predicted_failure"`
	FailureRisk      float64 `json:"failure_risk"`
	HighRisk         bool    `json:"high_risk"`
}

func outputPredictionJSON(cmd *cobra.Command, pred *domain.Prediction, highRiskOnly bool) error {
	out := predictionJSON{
		RunID:     pred.RunID,
		Source:    pred.Source,
		Rows:      pred.Table.NumRows(),
		HighRisk:  pred.HighRiskCount(),
		Threshold: pred.Threshold,
		Warning:   pred.Warning(),
		Results:   make([]rowResultJSON, 0, len(pred.Risks)),
	}
	for i, risk := range pred.Risks {
		high := risk > pred.Threshold
		if highRiskOnly && !high {
			continue
		}
		out.Results = append(out.Results, rowResultJSON{
			Row:              i,
			PredictedFailure: pred.Labels[i],
			FailureRisk:      risk,
			HighRisk:         high,
		})
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}
