// Package cli provides the failcast command-line interface.
package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/failcast/internal/core/ports/driven"
	"github.com/custodia-labs/failcast/internal/core/ports/driving"
	"github.com/custodia-labs/failcast/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// annotationNeedsModel marks commands that load the scaler and classifier.
const annotationNeedsModel = "failcast/needs-model"

// errNoPredictionService is returned when a command needs the pipeline but
// none was wired.
var errNoPredictionService = errors.New("prediction service not configured")

// Global flags.
var (
	verbose   bool
	configDir string
	noHistory bool
)

// Services wired in by main.
var (
	predictionService driving.PredictionService
	historyService    driving.HistoryService
	settingsService   driving.SettingsService
	resultCache       driven.ResultCache
	chartRenderer     driven.ChartRenderer
	metricsRegistry   driven.Metrics
)

// Options carries the global flags to a Loader.
type Options struct {
	ConfigDir string
	NoHistory bool

	// NeedModel is true when the command runs predictions.
	NeedModel bool
}

// Services is the set of services a Loader builds.
type Services struct {
	Prediction driving.PredictionService
	History    driving.HistoryService
	Settings   driving.SettingsService
	Results    driven.ResultCache
	Chart      driven.ChartRenderer
	Metrics    driven.Metrics

	// Close releases stores opened for the command. Optional.
	Close func() error
}

// Loader builds services after the global flags have been parsed.
type Loader func(opts Options) (*Services, error)

var (
	loader        Loader
	closeServices func() error
)

var rootCmd = &cobra.Command{
	Use:   "failcast",
	Short: "Predict machine failures from sensor readings",
	Long: `failcast scores sensor readings with a trained scaler and classifier and
flags machines whose failure risk is above a threshold (80% by default).

Upload a CSV through the web UI (failcast serve), the terminal UI
(failcast tui), a drop folder (failcast watch) or directly:

  failcast predict sensors.csv -o predicted_results.csv`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
		return teardown()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "print diagnostic output to stderr")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "configuration directory (default ~/.failcast)")
	rootCmd.PersistentFlags().BoolVar(&noHistory, "no-history", false, "do not record runs")
}

// Execute runs the root command.
func Execute() error {
	defer func() {
		if err := teardown(); err != nil {
			logger.Warn("closing services: %v", err)
		}
	}()
	rootCmd.SetOut(os.Stdout)
	return rootCmd.Execute()
}

// SetLoader sets the function that builds services for each command.
func SetLoader(l Loader) {
	loader = l
}

// SetVersion sets the version reported by failcast version.
func SetVersion(v string) {
	version = v
}

// SetPredictionService sets the prediction service for commands.
func SetPredictionService(s driving.PredictionService) {
	predictionService = s
}

// SetHistoryService sets the history service for commands.
func SetHistoryService(s driving.HistoryService) {
	historyService = s
}

// SetSettingsService sets the settings service for commands.
func SetSettingsService(s driving.SettingsService) {
	settingsService = s
}

func setup(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)
	if loader == nil {
		return nil
	}

	svc, err := loader(Options{
		ConfigDir: configDir,
		NoHistory: noHistory,
		NeedModel: needsModel(cmd),
	})
	if err != nil {
		return err
	}
	apply(svc)
	return nil
}

func apply(svc *Services) {
	predictionService = svc.Prediction
	historyService = svc.History
	settingsService = svc.Settings
	resultCache = svc.Results
	chartRenderer = svc.Chart
	metricsRegistry = svc.Metrics
	closeServices = svc.Close
}

func teardown() error {
	if closeServices == nil {
		return nil
	}
	closeFn := closeServices
	closeServices = nil
	if err := closeFn(); err != nil {
		return fmt.Errorf("closing services: %w", err)
	}
	return nil
}

// needsModel reports whether cmd or one of its parents runs predictions.
func needsModel(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations[annotationNeedsModel] == "true" {
			return true
		}
	}
	return false
}

func modelAnnotation() map[string]string {
	return map[string]string{annotationNeedsModel: "true"}
}
