package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/failcast/internal/adapters/driving/watch"
	"github.com/custodia-labs/failcast/internal/core/domain"
)

var (
	watchOut       string
	watchExisting  bool
	watchThreshold float64
)

var watchCmd = &cobra.Command{
	Use:   "watch [inbox]",
	Short: "Predict every CSV file dropped into a directory",
	Long: `Watches a directory and runs each new or changed CSV file through the
pipeline once writes have settled. Results are written as
<name>.predicted.csv to the output directory (the inbox by default).

Failed files are reported and the watcher keeps running until interrupted.`,
	Args:        cobra.ExactArgs(1),
	Annotations: modelAnnotation(),
	RunE:        runWatch,
}

func init() {
	watchCmd.Flags().StringVar(&watchOut, "out", "", "output directory (default: the inbox)")
	watchCmd.Flags().BoolVar(&watchExisting, "existing", false, "also process CSV files already in the inbox")
	watchCmd.Flags().Float64Var(&watchThreshold, "threshold", 0, "high-risk threshold in percent (default from config)")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if predictionService == nil {
		return errNoPredictionService
	}

	if watchThreshold < 0 || watchThreshold > 100 {
		return fmt.Errorf("%w: threshold must be between 0 and 100", domain.ErrInvalidInput)
	}

	config := watch.Config{
		OutDir:   watchOut,
		Existing: watchExisting,
	}
	if cmd.Flags().Changed("threshold") {
		config.Threshold = domain.ThresholdOption(watchThreshold)
	}
	w, err := watch.New(predictionService, args[0], config)
	if err != nil {
		return err
	}

	ctx, stop := signalContext(cmd.Context())
	defer stop()

	results, err := w.Watch(ctx)
	if err != nil {
		return err
	}
	cmd.Printf("Watching %s (ctrl+c to stop)\n", args[0])

	for r := range results {
		name := filepath.Base(r.Input)
		if r.Err != nil {
			cmd.PrintErrf("%s: Error: %v\n", name, r.Err)
			continue
		}
		line := fmt.Sprintf("%s: %d rows, %d high risk -> %s",
			name, r.Prediction.Table.NumRows(), r.Prediction.HighRiskCount(), r.Output)
		if warning := r.Prediction.Warning(); warning != "" {
			line += "  " + warning
		}
		cmd.Println(line)
	}
	return nil
}
