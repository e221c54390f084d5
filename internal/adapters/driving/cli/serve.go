package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/failcast/internal/adapters/driving/web"
	"github.com/custodia-labs/failcast/internal/core/domain"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the web UI",
	Long: `Start the web UI for uploading sensor CSV files.

Results are kept in memory for server.result_ttl_minutes so they can be
viewed, charted and downloaded as predicted_results.csv.`,
	Args:        cobra.NoArgs,
	Annotations: modelAnnotation(),
	RunE:        runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config, :8501)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	settings := currentSettings()

	server, err := web.NewServer(&web.Ports{
		Prediction: predictionService,
		Results:    resultCache,
		Chart:      chartRenderer,
		Metrics:    metricsRegistry,
	}, web.Config{Threshold: settings.Threshold})
	if err != nil {
		return err
	}

	addr := serveAddr
	if addr == "" {
		addr = settings.ServerAddr
	}

	ctx, stop := signalContext(cmd.Context())
	defer stop()

	cmd.Printf("failcast web UI listening on %s\n", displayAddr(addr))
	return server.Run(ctx, addr)
}

// currentSettings returns the configured settings, or the defaults when no
// settings service is wired or the stored settings are invalid.
func currentSettings() domain.Settings {
	if settingsService == nil {
		return domain.DefaultSettings()
	}
	settings, err := settingsService.Get()
	if err != nil {
		return domain.DefaultSettings()
	}
	return settings
}

// signalContext returns a context cancelled on interrupt or terminate.
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

func displayAddr(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		return fmt.Sprintf("http://localhost%s", addr)
	}
	return "http://" + addr
}
