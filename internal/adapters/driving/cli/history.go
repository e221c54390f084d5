package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/failcast/internal/core/domain"
)

var (
	historyLimit int
	historyJSON  bool
	historyKeep  int
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent prediction runs",
	Long: `Lists recent pipeline runs, newest first. Only run summaries are kept;
uploaded and annotated data is never stored.`,
	Args: cobra.NoArgs,
	RunE: runHistoryList,
}

var historyShowCmd = &cobra.Command{
	Use:   "show [run-id]",
	Short: "Show a single run",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryShow,
}

var historyPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete all but the most recent runs",
	Args:  cobra.NoArgs,
	RunE:  runHistoryPrune,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "maximum number of runs")
	historyCmd.Flags().BoolVar(&historyJSON, "json", false, "output runs as JSON")
	historyPruneCmd.Flags().IntVar(&historyKeep, "keep", 100, "number of runs to keep")
	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historyPruneCmd)
	rootCmd.AddCommand(historyCmd)
}

func runHistoryList(cmd *cobra.Command, _ []string) error {
	if historyService == nil {
		return errors.New("history service not configured")
	}

	runs, err := historyService.List(cmd.Context(), historyLimit)
	if err != nil {
		return fmt.Errorf("listing runs: %w", err)
	}

	if historyJSON {
		data, err := json.MarshalIndent(toRunsJSON(runs), "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal runs: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	if len(runs) == 0 {
		cmd.Println("No runs recorded.")
		return nil
	}

	cmd.Printf("%-36s  %-19s  %-24s  %6s  %9s  %s\n", "ID", "Started", "Source", "Rows", "High risk", "Status")
	for _, run := range runs {
		cmd.Printf("%-36s  %-19s  %-24s  %6d  %9d  %s\n",
			run.ID, run.StartedAt.Local().Format("2006-01-02 15:04:05"),
			truncate(run.Source, 24), run.Rows, run.HighRisk, runStatus(run))
	}
	return nil
}

func runHistoryShow(cmd *cobra.Command, args []string) error {
	if historyService == nil {
		return errors.New("history service not configured")
	}

	run, err := historyService.Get(cmd.Context(), args[0])
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("run %s not found", args[0])
		}
		return fmt.Errorf("getting run: %w", err)
	}

	cmd.Printf("ID:        %s\n", run.ID)
	cmd.Printf("Source:    %s\n", run.Source)
	cmd.Printf("Started:   %s\n", run.StartedAt.Local().Format(time.RFC3339))
	cmd.Printf("Duration:  %s\n", run.Duration)
	cmd.Printf("Rows:      %d\n", run.Rows)
	cmd.Printf("High risk: %d (above %s%%)\n", run.HighRisk, domain.FormatRisk(run.Threshold))
	cmd.Printf("Status:    %s\n", runStatus(*run))
	if run.Error != "" {
		cmd.Printf("Error:     %s\n", run.Error)
	}
	return nil
}

func runHistoryPrune(cmd *cobra.Command, _ []string) error {
	if historyService == nil {
		return errors.New("history service not configured")
	}

	removed, err := historyService.Prune(cmd.Context(), historyKeep)
	if err != nil {
		return fmt.Errorf("pruning runs: %w", err)
	}
	cmd.Printf("Removed %d runs, kept the newest %d.\n", removed, historyKeep)
	return nil
}

func runStatus(run domain.Run) string {
	if !run.Succeeded() && run.Stage != "" {
		return fmt.Sprintf("%s at %s", run.Status, run.Stage)
	}
	return string(run.Status)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}

type runJSON struct {
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

func toRunsJSON(runs []domain.Run) []runJSON {
	out := make([]runJSON, 0, len(runs))
	for _, r := range runs {
		out = append(out, runJSON{
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
		})
	}
	return out
}
