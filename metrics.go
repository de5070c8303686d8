package main

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors for the dashboard.
type Metrics struct {
	AnalysisRunsTotal *prometheus.CounterVec
	AnalysisDuration  *prometheus.HistogramVec
	DownloadsTotal    *prometheus.CounterVec
}

// NewMetrics creates and registers all collectors.
func NewMetrics() *Metrics {
	m := &Metrics{
		AnalysisRunsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "analysis_runs_total",
				Help: "Total analysis runs by kind (venn, enrichment) and status (ok, rejected, error).",
			},
			[]string{"kind", "status"},
		),
		AnalysisDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "analysis_duration_seconds",
				Help:    "Engine computation time per run in seconds.",
				Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
			},
			[]string{"kind"},
		),
		DownloadsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "downloads_total",
				Help: "Result downloads by artifact.",
			},
			[]string{"artifact"},
		),
	}

	prometheus.MustRegister(
		m.AnalysisRunsTotal,
		m.AnalysisDuration,
		m.DownloadsTotal,
	)
	return m
}
