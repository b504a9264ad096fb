package obs

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus collectors for pipeline runs.
type Metrics struct {
	Registry *prometheus.Registry

	RunsTotal        *prometheus.CounterVec
	RunErrors        *prometheus.CounterVec
	StageTransitions *prometheus.CounterVec
	UnitsShipped     *prometheus.CounterVec
	RunDuration      prometheus.Histogram
}

// NewMetrics registers the collectors on a fresh registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)
	return &Metrics{
		Registry: reg,
		RunsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pipeline_runs_total",
				Help: "Completed pipeline runs by branch taken",
			},
			[]string{"path"},
		),
		RunErrors: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pipeline_run_errors_total",
				Help: "Rejected or failed pipeline runs by error kind",
			},
			[]string{"kind"},
		),
		StageTransitions: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pipeline_stage_transitions_total",
				Help: "Stage transitions by stage and decision",
			},
			[]string{"stage", "decision"},
		),
		UnitsShipped: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pipeline_units_shipped_total",
				Help: "Units moved between tiers by source",
			},
			[]string{"source"},
		),
		RunDuration: f.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "pipeline_run_duration_seconds",
				Help:    "Pipeline run duration in seconds",
				Buckets: []float64{.0001, .0005, .001, .005, .01, .05, .1},
			},
		),
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}
