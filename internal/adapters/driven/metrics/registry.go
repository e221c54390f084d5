// Package metrics records pipeline activity in a go-metrics registry.
package metrics

import (
	"time"

	gometrics "github.com/rcrowley/go-metrics"

	"github.com/custodia-labs/failcast/internal/core/domain"
	"github.com/custodia-labs/failcast/internal/core/ports/driven"
)

// Metric names.
const (
	MetricRunsSucceeded = "runs.succeeded"
	MetricRunsFailed    = "runs.failed"
	MetricRowsScored    = "rows.scored"
	MetricRowsHighRisk  = "rows.high_risk"
	MetricRunRows       = "run.rows"
	MetricLatency       = "pipeline.latency"
)

// Ensure Registry implements the interface.
var _ driven.Metrics = (*Registry)(nil)

// Registry implements driven.Metrics.
type Registry struct {
	registry  gometrics.Registry
	succeeded gometrics.Counter
	failed    gometrics.Counter
	rows      gometrics.Counter
	highRisk  gometrics.Counter
	runRows   gometrics.Histogram
	latency   gometrics.Timer
}

// NewRegistry creates a registry with every pipeline metric registered.
func NewRegistry() *Registry {
	r := gometrics.NewRegistry()
	return &Registry{
		registry:  r,
		succeeded: gometrics.GetOrRegisterCounter(MetricRunsSucceeded, r),
		failed:    gometrics.GetOrRegisterCounter(MetricRunsFailed, r),
		rows:      gometrics.GetOrRegisterCounter(MetricRowsScored, r),
		highRisk:  gometrics.GetOrRegisterCounter(MetricRowsHighRisk, r),
		runRows:   gometrics.GetOrRegisterHistogram(MetricRunRows, r, gometrics.NewUniformSample(1024)),
		latency:   gometrics.GetOrRegisterTimer(MetricLatency, r),
	}
}

// RunSucceeded records a completed run.
func (m *Registry) RunSucceeded(rows, highRisk int, elapsed time.Duration) {
	m.succeeded.Inc(1)
	m.rows.Inc(int64(rows))
	m.highRisk.Inc(int64(highRisk))
	m.runRows.Update(int64(rows))
	m.latency.Update(elapsed)
}

// RunFailed records a failed run under the total and a per-stage counter.
func (m *Registry) RunFailed(stage domain.Stage, elapsed time.Duration) {
	m.failed.Inc(1)
	gometrics.GetOrRegisterCounter(MetricRunsFailed+"."+string(stage), m.registry).Inc(1)
	m.latency.Update(elapsed)
}

// Snapshot returns every metric's current values.
func (m *Registry) Snapshot() map[string]map[string]any {
	return m.registry.GetAll()
}
