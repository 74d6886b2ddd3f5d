package engine

import (
	"context"
	"io"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/clickreach/insight-engine/pkg/aggregator"
	"github.com/clickreach/insight-engine/pkg/forecaster"
	"github.com/clickreach/insight-engine/pkg/insights"
	"github.com/clickreach/insight-engine/pkg/metrics"
	"github.com/clickreach/insight-engine/pkg/models"
	"github.com/clickreach/insight-engine/pkg/ranking"
)

// Engine runs the full analytics pipeline: aggregation, overview metrics,
// rankings, forecasting, and insight generation. It never mutates the
// event slices it is handed, so callers may share them across runs.
type Engine struct {
	benchmarks   insights.Benchmarks
	productLimit int
	sourceLimit  int
	logger       *logrus.Logger
	metrics      *Metrics
}

// Option customizes an Engine.
type Option func(*Engine)

// WithBenchmarks overrides the default industry benchmarks.
func WithBenchmarks(b insights.Benchmarks) Option {
	return func(e *Engine) { e.benchmarks = b }
}

// WithLimits overrides the ranking list sizes.
func WithLimits(products, sources int) Option {
	return func(e *Engine) {
		e.productLimit = products
		e.sourceLimit = sources
	}
}

// WithLogger attaches a logger. Without one the engine stays silent.
func WithLogger(logger *logrus.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// WithMetrics attaches prometheus instrumentation.
func WithMetrics(m *Metrics) Option {
	return func(e *Engine) { e.metrics = m }
}

// New constructs an Engine with default benchmarks and limits.
func New(opts ...Option) *Engine {
	e := &Engine{
		benchmarks:   insights.DefaultBenchmarks(),
		productLimit: ranking.DefaultProductLimit,
		sourceLimit:  ranking.DefaultSourceLimit,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = logrus.New()
		e.logger.SetOutput(io.Discard)
	}
	return e
}

// BuildReport runs the pipeline for the given range. Aggregation runs
// first because it validates the range; the independent stages then run
// concurrently and insights are derived from their combined output.
// Identical inputs always produce an identical report.
func (e *Engine) BuildReport(ctx context.Context, events []models.Event, conversions []models.ConversionEvent, dr models.DateRange) (*models.AnalyticsReport, error) {
	started := time.Now()

	series, err := aggregator.Aggregate(events, conversions, dr)
	if err != nil {
		e.observeFailure()
		return nil, err
	}

	var (
		overview   models.Overview
		products   []models.ProductStat
		sources    []models.TrafficSourceStat
		prediction models.Prediction
	)

	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		var calcErr error
		overview, calcErr = metrics.Calculate(events, conversions, dr)
		return calcErr
	})
	g.Go(func() error {
		products = ranking.TopProducts(events, conversions, dr, e.productLimit)
		sources = ranking.TopTrafficSources(events, dr, e.sourceLimit)
		return nil
	})
	g.Go(func() error {
		prediction = forecaster.Forecast(series)
		return nil
	})
	if err := g.Wait(); err != nil {
		e.observeFailure()
		return nil, err
	}

	report := &models.AnalyticsReport{
		Overview:       overview,
		TimeSeries:     series,
		TopProducts:    products,
		TrafficSources: sources,
		Predictions:    prediction,
		Insights: insights.Generate(insights.Input{
			Overview:    overview,
			TopProducts: products,
			Prediction:  prediction,
			TimeSeries:  series,
		}, e.benchmarks),
	}

	e.observeSuccess(len(events)+len(conversions), len(report.Insights), time.Since(started))
	e.logger.WithFields(logrus.Fields{
		"start":    dr.Start.Format("2006-01-02"),
		"end":      dr.End.Format("2006-01-02"),
		"days":     dr.Days(),
		"events":   len(events),
		"insights": len(report.Insights),
		"elapsed":  time.Since(started).Round(time.Millisecond),
	}).Info("analytics report built")

	return report, nil
}

// RealtimeSnapshot summarizes activity in the trailing 24 hours and hour
// relative to now. The reference time comes from the caller so the result
// is reproducible in tests and in replayed pipelines.
func (e *Engine) RealtimeSnapshot(events []models.Event, conversions []models.ConversionEvent, now time.Time) models.RealtimeSnapshot {
	now = now.UTC()
	dayAgo := now.Add(-24 * time.Hour)
	hourAgo := now.Add(-1 * time.Hour)

	snap := models.RealtimeSnapshot{Timestamp: now}

	for _, ev := range events {
		if ev.Kind != models.EventClick {
			continue
		}
		ts, err := models.ParseEventTime(ev.Timestamp)
		if err != nil || ts.After(now) || ts.Before(dayAgo) {
			continue
		}
		snap.Last24Hours.Clicks++
		if !ts.Before(hourAgo) {
			snap.LastHour.Clicks++
		}
	}

	for _, conv := range conversions {
		ts, err := models.ParseEventTime(conv.Timestamp)
		if err != nil || ts.After(now) || ts.Before(dayAgo) {
			continue
		}
		snap.Last24Hours.Conversions++
		snap.Last24Hours.Revenue += conv.OrderValue
	}

	return snap
}

func (e *Engine) observeSuccess(eventCount, insightCount int, elapsed time.Duration) {
	if e.metrics == nil {
		return
	}
	e.metrics.ReportsBuilt.Inc()
	e.metrics.EventsProcessed.Add(float64(eventCount))
	e.metrics.InsightsEmitted.Observe(float64(insightCount))
	e.metrics.BuildDuration.Observe(elapsed.Seconds())
}

func (e *Engine) observeFailure() {
	if e.metrics == nil {
		return
	}
	e.metrics.ReportFailures.Inc()
}
