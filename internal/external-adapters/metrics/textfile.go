// Package metrics exports run results in the Prometheus text format for textfile collectors.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/ochairo/nativecheck/internal/domain/entities"
)

// RunMetrics holds the gauges describing one run
type RunMetrics struct {
	registry *prometheus.Registry

	Packages        *prometheus.GaugeVec
	Modules         *prometheus.GaugeVec
	UnusedEntries   prometheus.Gauge
	RunDuration     prometheus.Gauge
	LastRun         prometheus.Gauge
	PackageDuration prometheus.Histogram
}

// NewRunMetrics creates metrics on a private registry
func NewRunMetrics() *RunMetrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &RunMetrics{
		registry: registry,
		Packages: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "nativecheck_packages",
			Help: "Packages verified in the last run by result",
		}, []string{"result"}),
		Modules: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "nativecheck_modules",
			Help: "Native modules in the last run by result",
		}, []string{"result"}),
		UnusedEntries: factory.NewGauge(prometheus.GaugeOpts{
			Name: "nativecheck_whitelist_unused_entries",
			Help: "Whitelist entries that suppressed nothing in the last run",
		}),
		RunDuration: factory.NewGauge(prometheus.GaugeOpts{
			Name: "nativecheck_run_duration_seconds",
			Help: "Wall time of the last run in seconds",
		}),
		LastRun: factory.NewGauge(prometheus.GaugeOpts{
			Name: "nativecheck_last_run_timestamp_seconds",
			Help: "Unix time the last run started",
		}),
		PackageDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "nativecheck_package_duration_seconds",
			Help:    "Time spent verifying each package in seconds",
			Buckets: prometheus.ExponentialBuckets(1, 2, 10), // 1s to ~17min
		}),
	}
}

// Record sets every metric from report
func (m *RunMetrics) Record(report *entities.RunReport) {
	m.Packages.WithLabelValues("total").Set(float64(report.Total))
	m.Packages.WithLabelValues("passed").Set(float64(report.Successful))
	m.Packages.WithLabelValues("failed").Set(float64(report.Failed))
	m.Packages.WithLabelValues("whitelisted").Set(float64(len(report.Whitelisted)))

	m.Modules.WithLabelValues("tested").Set(float64(report.TestedCount))
	m.Modules.WithLabelValues("failed").Set(float64(countModules(report.Failures)))
	m.Modules.WithLabelValues("whitelisted").Set(float64(countModules(report.Whitelisted)))

	unused := 0
	for _, modules := range report.Unused {
		unused += len(modules)
	}
	m.UnusedEntries.Set(float64(unused))
	m.RunDuration.Set(report.Duration)
	if !report.StartedAt.IsZero() {
		m.LastRun.Set(float64(report.StartedAt.Unix()))
	}

	for _, seconds := range report.Durations {
		m.PackageDuration.Observe(seconds)
	}
}

// WriteTextfile atomically writes the registry to path
func (m *RunMetrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("failed to write metrics file: %w", err)
	}
	return nil
}

// Registry exposes the underlying registry
func (m *RunMetrics) Registry() *prometheus.Registry {
	return m.registry
}

func countModules(byPackage map[string][]entities.ModuleError) int {
	n := 0
	for _, errs := range byPackage {
		n += len(errs)
	}
	return n
}
