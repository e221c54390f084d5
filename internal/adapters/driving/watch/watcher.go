// Package watch runs CSV files dropped into a directory through the
// inference pipeline and writes the annotated results next to them.
package watch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/failcast/internal/core/domain"
	"github.com/custodia-labs/failcast/internal/core/ports/driving"
	"github.com/custodia-labs/failcast/internal/core/services"
	"github.com/custodia-labs/failcast/internal/logger"
)

// OutputSuffix is appended to the stem of each processed file.
const OutputSuffix = ".predicted.csv"

// DefaultSettle is how long a file must go without writes before it is read.
const DefaultSettle = 500 * time.Millisecond

var (
	// ErrMissingPredictionService is returned when no pipeline is provided.
	ErrMissingPredictionService = errors.New("watch: prediction service is required")

	// ErrNotDirectory is returned when the inbox is not a directory.
	ErrNotDirectory = errors.New("watch: inbox is not a directory")
)

// Config controls a Watcher.
type Config struct {
	// OutDir receives the annotated files. Defaults to the inbox.
	OutDir string

	// Threshold overrides the configured high-risk threshold when set.
	Threshold *float64

	// Settle is the quiet period after the last write before a file is read.
	Settle time.Duration

	// Existing processes CSV files already in the inbox at start-up.
	Existing bool
}

// Result reports one processed file.
type Result struct {
	Input      string
	Output     string
	Prediction *domain.Prediction
	Err        error
}

// Watcher turns an inbox directory into a batch prediction queue.
type Watcher struct {
	service driving.PredictionService
	inbox   string
	config  Config
}

// New creates a watcher for inbox.
func New(service driving.PredictionService, inbox string, config Config) (*Watcher, error) {
	if service == nil {
		return nil, ErrMissingPredictionService
	}
	if config.OutDir == "" {
		config.OutDir = inbox
	}
	if config.Settle <= 0 {
		config.Settle = DefaultSettle
	}
	return &Watcher{service: service, inbox: inbox, config: config}, nil
}

// settled is sent when a file's settle timer fires.
type settled struct {
	path string
	gen  int
}

// Watch starts watching the inbox. The returned channel receives one Result
// per processed file and is closed when ctx is cancelled.
func (w *Watcher) Watch(ctx context.Context) (<-chan Result, error) {
	info, err := os.Stat(w.inbox)
	if err != nil {
		return nil, fmt.Errorf("inbox: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrNotDirectory, w.inbox)
	}
	if err := os.MkdirAll(w.config.OutDir, 0o755); err != nil {
		return nil, fmt.Errorf("output directory: %w", err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	if err := fsw.Add(w.inbox); err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("watching %s: %w", w.inbox, err)
	}

	results := make(chan Result, 16)
	go w.loop(ctx, fsw, results)
	logger.Info("Watching %s", w.inbox)
	return results, nil
}

func (w *Watcher) loop(ctx context.Context, fsw *fsnotify.Watcher, results chan<- Result) {
	defer close(results)
	defer fsw.Close()

	timers := make(map[string]*time.Timer)
	gens := make(map[string]int)
	fired := make(chan settled)
	defer func() {
		for _, t := range timers {
			t.Stop()
		}
	}()

	emit := func(r Result) bool {
		select {
		case results <- r:
			return true
		case <-ctx.Done():
			return false
		}
	}

	if w.config.Existing {
		for _, path := range w.existing() {
			if !emit(w.Process(ctx, path)) {
				return
			}
		}
	}

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-fsw.Events:
			if !ok {
				return
			}
			path := w.handleFsEvent(event)
			if path == "" {
				continue
			}
			if t, ok := timers[path]; ok {
				t.Stop()
			}
			gens[path]++
			s := settled{path: path, gen: gens[path]}
			timers[path] = time.AfterFunc(w.config.Settle, func() {
				select {
				case fired <- s:
				case <-ctx.Done():
				}
			})

		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			logger.Warn("watch error: %v", err)

		case s := <-fired:
			// A newer write restarted the timer.
			if gens[s.path] != s.gen {
				continue
			}
			delete(timers, s.path)
			delete(gens, s.path)
			if !emit(w.Process(ctx, s.path)) {
				return
			}
		}
	}
}

// handleFsEvent returns the path to process for event, or "" to ignore it.
func (w *Watcher) handleFsEvent(event fsnotify.Event) string {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return ""
	}
	if !IsInput(event.Name) {
		return ""
	}
	info, err := os.Stat(event.Name)
	if err != nil || !info.Mode().IsRegular() {
		return ""
	}
	return event.Name
}

// existing lists CSV inputs already in the inbox, sorted by name.
func (w *Watcher) existing() []string {
	entries, err := os.ReadDir(w.inbox)
	if err != nil {
		logger.Warn("Listing %s: %v", w.inbox, err)
		return nil
	}
	var paths []string
	for _, e := range entries {
		if e.Type().IsRegular() && IsInput(e.Name()) {
			paths = append(paths, filepath.Join(w.inbox, e.Name()))
		}
	}
	return paths
}

// Process runs one file through the pipeline and writes the annotated table.
func (w *Watcher) Process(ctx context.Context, path string) Result {
	result := Result{Input: path}

	f, err := os.Open(path)
	if err != nil {
		result.Err = err
		logger.Error("%s: %v", filepath.Base(path), err)
		return result
	}
	defer f.Close()

	pred, err := w.service.Predict(ctx, f, domain.PredictOptions{
		Source:    filepath.Base(path),
		Threshold: w.config.Threshold,
	})
	if err != nil {
		result.Err = err
		logger.Error("%s: %v", filepath.Base(path), err)
		return result
	}
	result.Prediction = pred

	result.Output = filepath.Join(w.config.OutDir, OutputName(path))
	if err := writeResult(result.Output, pred.Table); err != nil {
		result.Err = err
		logger.Error("%s: %v", filepath.Base(path), err)
		return result
	}

	logger.Info("%s: %d rows, %d high risk -> %s",
		filepath.Base(path), pred.Table.NumRows(), pred.HighRiskCount(), result.Output)
	return result
}

// writeResult writes the table through a temporary file so a partially
// written output is never visible under its final name.
func writeResult(path string, table *domain.Table) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".failcast-*.tmp")
	if err != nil {
		return fmt.Errorf("creating output: %w", err)
	}
	if err := services.WriteTable(tmp, table); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("writing output: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("writing output: %w", err)
	}
	return nil
}

// IsInput reports whether name looks like a CSV upload rather than a hidden
// file or a previous output.
func IsInput(name string) bool {
	base := filepath.Base(name)
	if strings.HasPrefix(base, ".") {
		return false
	}
	lower := strings.ToLower(base)
	return strings.HasSuffix(lower, ".csv") && !strings.HasSuffix(lower, OutputSuffix)
}

// OutputName returns the file name results for input are written to.
func OutputName(input string) string {
	base := filepath.Base(input)
	return strings.TrimSuffix(base, filepath.Ext(base)) + OutputSuffix
}
