package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// OutcomeOK labels a run that produced an enriched series.
const OutcomeOK = "ok"

// Metrics holds the Prometheus collectors for analysis runs.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	RunsTotal        *prometheus.CounterVec // labels: outcome
	PipelineDuration prometheus.Histogram
	FetchDuration    *prometheus.HistogramVec // labels: provider
	DroppedBars      prometheus.Counter
	CleanBars        prometheus.Gauge
}

// NewMetrics creates the collectors and registers them on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		RunsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tickerlens_runs_total",
			Help: "Analysis runs by outcome (ok or failure kind)",
		}, []string{"outcome"}),
		PipelineDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "tickerlens_pipeline_duration_seconds",
			Help:    "Validation, cleaning and indicator computation latency",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
		}),
		FetchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "tickerlens_fetch_duration_seconds",
			Help:    "Provider history fetch latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"provider"}),
		DroppedBars: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tickerlens_dropped_bars_total",
			Help: "Bars removed by the gap cleaner",
		}),
		CleanBars: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "tickerlens_clean_bars",
			Help: "Complete bars in the most recent run",
		}),
	}

	reg.MustRegister(
		m.RunsTotal,
		m.PipelineDuration,
		m.FetchDuration,
		m.DroppedBars,
		m.CleanBars,
	)
	return m
}

// ObserveRun records one pipeline run.
func (m *Metrics) ObserveRun(outcome string, d time.Duration, cleanBars, dropped int) {
	if m == nil {
		return
	}
	m.RunsTotal.WithLabelValues(outcome).Inc()
	m.PipelineDuration.Observe(d.Seconds())
	m.CleanBars.Set(float64(cleanBars))
	if dropped > 0 {
		m.DroppedBars.Add(float64(dropped))
	}
}

// ObserveFetch records one provider call.
func (m *Metrics) ObserveFetch(provider string, d time.Duration) {
	if m == nil {
		return
	}
	m.FetchDuration.WithLabelValues(provider).Observe(d.Seconds())
}
