package engine

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics instruments report builds for the watch-mode scrape endpoint.
type Metrics struct {
	ReportsBuilt    prometheus.Counter
	ReportFailures  prometheus.Counter
	BuildDuration   prometheus.Histogram
	InsightsEmitted prometheus.Histogram
	EventsProcessed prometheus.Counter
}

// NewMetrics registers the engine collectors on the given registerer.
// Pass prometheus.DefaultRegisterer for the process-wide registry.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		ReportsBuilt: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "insight_engine",
			Name:      "reports_built_total",
			Help:      "Number of analytics reports built successfully.",
		}),
		ReportFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "insight_engine",
			Name:      "report_failures_total",
			Help:      "Number of report builds that returned an error.",
		}),
		BuildDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "insight_engine",
			Name:      "report_build_duration_seconds",
			Help:      "Wall-clock time spent building a report.",
			Buckets:   prometheus.DefBuckets,
		}),
		InsightsEmitted: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "insight_engine",
			Name:      "insights_per_report",
			Help:      "Number of insights emitted per report.",
			Buckets:   []float64{0, 1, 2, 3, 5, 8, 13},
		}),
		EventsProcessed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "insight_engine",
			Name:      "events_processed_total",
			Help:      "Number of raw events fed into report builds.",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.ReportsBuilt, m.ReportFailures, m.BuildDuration, m.InsightsEmitted, m.EventsProcessed)
	}
	return m
}
