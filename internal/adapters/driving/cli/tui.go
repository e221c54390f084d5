package cli

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/failcast/internal/adapters/driving/tui"
)

var tuiExportDir string

// tuiCmd represents the tui command.
var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive terminal UI",
	Long: `Launch the interactive terminal user interface for failcast.

Enter the path of a sensor CSV file to see the predicted failure risk of
every machine, a risk trend and the high-risk warning.

Controls:
  ↑/k, ↓/j - Navigate
  Enter    - Predict / Select
  h        - Show only high-risk rows
  e        - Export predicted_results.csv
  n        - Predict another file
  Esc      - Back
  q        - Quit (from the menu)`,
	Args:        cobra.NoArgs,
	Annotations: modelAnnotation(),
	RunE:        runTUI,
}

func init() {
	tuiCmd.Flags().StringVar(&tuiExportDir, "export-dir", ".", "directory exports are written to")
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, _ []string) error {
	// Add panic recovery to get stack traces
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
		}
	}()

	ports := &tui.Ports{
		Prediction: predictionService,
		History:    historyService,
		Settings:   settingsService,
	}

	app, err := tui.NewApp(ports)
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}

	app.WithContext(cmd.Context()).
		WithThreshold(currentSettings().Threshold).
		WithExportDir(tuiExportDir)

	if err := app.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
