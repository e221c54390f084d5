// Command failcast predicts machine failures from sensor readings.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/custodia-labs/failcast/internal/adapters/driven/artifact"
	"github.com/custodia-labs/failcast/internal/adapters/driven/cache"
	"github.com/custodia-labs/failcast/internal/adapters/driven/chart"
	"github.com/custodia-labs/failcast/internal/adapters/driven/config/file"
	"github.com/custodia-labs/failcast/internal/adapters/driven/metrics"
	"github.com/custodia-labs/failcast/internal/adapters/driven/remote"
	"github.com/custodia-labs/failcast/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/failcast/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/failcast/internal/adapters/driven/summary"
	"github.com/custodia-labs/failcast/internal/adapters/driving/cli"
	"github.com/custodia-labs/failcast/internal/core/domain"
	"github.com/custodia-labs/failcast/internal/core/ports/driven"
	"github.com/custodia-labs/failcast/internal/core/services"
	"github.com/custodia-labs/failcast/internal/logger"
)

// version is set at build time via -ldflags "-X main.version=...".
var version = "dev"

func main() {
	cli.SetVersion(version)
	cli.SetLoader(load)

	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}

// load builds the services a command needs from the configuration directory.
func load(opts cli.Options) (*cli.Services, error) {
	dir := opts.ConfigDir
	if dir == "" {
		d, err := file.DefaultDir()
		if err != nil {
			return nil, fmt.Errorf("locating config directory: %w", err)
		}
		dir = d
	}

	configStore, err := file.NewConfigStore(dir)
	if err != nil {
		return nil, fmt.Errorf("opening config: %w", err)
	}
	settingsService := services.NewSettingsService(configStore)

	var runStore driven.RunStore
	closeFn := func() error { return nil }
	if opts.NoHistory {
		runStore = memory.NewRunStore()
	} else {
		store, err := sqlite.NewStore(filepath.Join(dir, "data"))
		if err != nil {
			return nil, fmt.Errorf("opening history: %w", err)
		}
		if version, err := store.SchemaVersion(); err == nil {
			logger.Debug("Run history at %s (schema v%d)", store.Path(), version)
		}
		runStore = store.RunStore()
		closeFn = store.Close
	}

	svc := &cli.Services{
		History:  services.NewHistoryService(runStore),
		Settings: settingsService,
		Chart:    chart.NewRenderer(),
		Close:    closeFn,
	}

	if !opts.NeedModel {
		return svc, nil
	}

	settings, err := settingsService.Get()
	if err != nil {
		return nil, errors.Join(fmt.Errorf("invalid settings: %w", err), closeFn())
	}

	inference, err := loadModel(context.Background(), settings)
	if err != nil {
		return nil, errors.Join(err, closeFn())
	}

	registry := metrics.NewRegistry()
	pipeline := services.NewPipeline(inference, services.PipelineConfigFromSettings(settings))
	pipeline.SetRunStore(runStore)
	pipeline.SetSummariser(summary.NewSummariser())
	pipeline.SetMetrics(registry)

	svc.Prediction = pipeline
	svc.Results = cache.NewResultCache(settings.ResultTTL)
	svc.Metrics = registry
	return svc, nil
}

// loadModel loads the scaler and either the local classifier or the remote
// model server named in settings.
func loadModel(ctx context.Context, settings domain.Settings) (*services.InferenceContext, error) {
	logger.Section("Model")

	scaler, err := artifact.LoadScaler(settings.ScalerPath)
	if err != nil {
		return nil, fmt.Errorf("loading scaler: %w", err)
	}

	var model driven.Classifier
	if settings.UsesRemoteModel() {
		model, err = remote.New(ctx, remote.ConfigFromSettings(settings))
		if err != nil {
			return nil, fmt.Errorf("connecting to model server: %w", err)
		}
		logger.Debug("Using model server %s", settings.RemoteURL)
	} else {
		model, err = artifact.LoadClassifier(settings.ModelPath)
		if err != nil {
			return nil, fmt.Errorf("loading model: %w", err)
		}
	}

	return services.NewInferenceContext(scaler, model, settings.PositiveClassIndex)
}
