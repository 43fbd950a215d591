// Package metrics collects generation and load counters and exports them as
// a Prometheus node exporter textfile.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

type Registry struct {
	reg           *prometheus.Registry
	RowsLoaded    *prometheus.CounterVec
	LoadFailures  *prometheus.CounterVec
	LoadDuration  *prometheus.HistogramVec
	GeneratedRows *prometheus.GaugeVec
}

func NewRegistry() *Registry {
	r := prometheus.NewRegistry()
	rowsLoaded := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "retailgen_rows_loaded_total",
		Help: "Rows written to the warehouse.",
	}, []string{"table"})
	failures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "retailgen_load_failures_total",
		Help: "Table loads that failed.",
	}, []string{"table"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "retailgen_load_duration_seconds",
		Help:    "Wall time of one table load.",
		Buckets: prometheus.DefBuckets,
	}, []string{"table"})
	generated := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "retailgen_generated_rows",
		Help: "Rows written to each generated file.",
	}, []string{"table"})

	r.MustRegister(rowsLoaded, failures, duration, generated)
	return &Registry{
		reg:           r,
		RowsLoaded:    rowsLoaded,
		LoadFailures:  failures,
		LoadDuration:  duration,
		GeneratedRows: generated,
	}
}

// ObserveLoad records one table load.
func (r *Registry) ObserveLoad(table string, rows int64, elapsed time.Duration, err error) {
	r.LoadDuration.WithLabelValues(table).Observe(elapsed.Seconds())
	if err != nil {
		r.LoadFailures.WithLabelValues(table).Inc()
		return
	}
	r.RowsLoaded.WithLabelValues(table).Add(float64(rows))
}

// ObserveGenerated records the row count of a generated file.
func (r *Registry) ObserveGenerated(table string, rows int) {
	r.GeneratedRows.WithLabelValues(table).Set(float64(rows))
}

// Gatherer exposes the underlying registry.
func (r *Registry) Gatherer() prometheus.Gatherer { return r.reg }

// WriteTextfile writes all metrics to path in the text exposition format.
func (r *Registry) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.reg); err != nil {
		return fmt.Errorf("failed to write metrics to %s: %w", path, err)
	}
	return nil
}
