package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clickreach/insight-engine/pkg/aggregator"
	"github.com/clickreach/insight-engine/pkg/forecaster"
	"github.com/clickreach/insight-engine/pkg/models"
)

func mustRange(t *testing.T, start, end string) models.DateRange {
	t.Helper()
	dr, err := models.NewDateRange(start, end)
	require.NoError(t, err)
	return dr
}

func TestBuildReportEmptyRange(t *testing.T) {
	e := New()
	dr := mustRange(t, "2025-03-01", "2025-03-05")

	report, err := e.BuildReport(context.Background(), nil, nil, dr)
	require.NoError(t, err)

	assert.Equal(t, models.Overview{}, report.Overview)

	require.Len(t, report.TimeSeries, 5)
	for i, bucket := range report.TimeSeries {
		assert.Zerof(t, bucket.Clicks, "bucket %d clicks", i)
		assert.Zerof(t, bucket.Revenue, "bucket %d revenue", i)
	}

	assert.Empty(t, report.TopProducts)
	assert.Empty(t, report.TrafficSources)
	assert.Empty(t, report.Insights)

	assert.Equal(t, models.TrendStable, report.Predictions.Trend)
	assert.Contains(t, report.Predictions.Factors, forecaster.InsufficientDataFactor)
	assert.Zero(t, report.Predictions.NextWeek.Revenue)
}

func TestBuildReportInvalidRange(t *testing.T) {
	e := New()
	dr := models.DateRange{
		Start: time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
	}

	report, err := e.BuildReport(context.Background(), nil, nil, dr)
	assert.Nil(t, report)

	var rangeErr *aggregator.InvalidRangeError
	require.ErrorAs(t, err, &rangeErr)
	assert.Equal(t, dr.Start, rangeErr.Start)
}

func TestBuildReportFlatWeek(t *testing.T) {
	e := New()
	dr := mustRange(t, "2025-03-01", "2025-03-07")

	var events []models.Event
	var conversions []models.ConversionEvent
	for d := 1; d <= 7; d++ {
		for i := 0; i < 10; i++ {
			events = append(events, models.Event{
				Timestamp: fmt.Sprintf("2025-03-%02dT%02d:00:00Z", d, 8+i),
				Kind:      models.EventClick,
				ProductID: "p1",
			})
		}
		conversions = append(conversions, models.ConversionEvent{
			Timestamp:  fmt.Sprintf("2025-03-%02dT12:00:00Z", d),
			ProductID:  "p1",
			OrderValue: 100,
		})
	}

	report, err := e.BuildReport(context.Background(), events, conversions, dr)
	require.NoError(t, err)

	assert.Equal(t, 70, report.Overview.TotalClicks)
	assert.InDelta(t, 700.0, report.Overview.TotalRevenue, 0.001)
	assert.InDelta(t, 700.0, report.Predictions.NextWeek.Revenue, 0.001)
	assert.Equal(t, models.TrendStable, report.Predictions.Trend)

	require.Len(t, report.TopProducts, 1)
	assert.Equal(t, "p1", report.TopProducts[0].ProductID)
}

func TestBuildReportDeterministic(t *testing.T) {
	e := New()
	dr := mustRange(t, "2025-03-01", "2025-03-14")

	var events []models.Event
	var conversions []models.ConversionEvent
	for d := 1; d <= 14; d++ {
		events = append(events,
			models.Event{Timestamp: fmt.Sprintf("2025-03-%02dT10:00:00Z", d), Kind: models.EventClick, ProductID: "p1", ReferrerDomain: "google.com"},
			models.Event{Timestamp: fmt.Sprintf("2025-03-%02dT11:00:00Z", d), Kind: models.EventClick, ProductID: "p2", ReferrerDomain: "reddit.com"},
			models.Event{Timestamp: fmt.Sprintf("2025-03-%02dT12:00:00Z", d), Kind: models.EventView},
		)
		conversions = append(conversions, models.ConversionEvent{
			Timestamp:  fmt.Sprintf("2025-03-%02dT13:00:00Z", d),
			ProductID:  "p1",
			OrderValue: float64(40 + d*5),
		})
	}

	first, err := e.BuildReport(context.Background(), events, conversions, dr)
	require.NoError(t, err)
	second, err := e.BuildReport(context.Background(), events, conversions, dr)
	require.NoError(t, err)

	firstJSON, err := json.Marshal(first)
	require.NoError(t, err)
	secondJSON, err := json.Marshal(second)
	require.NoError(t, err)
	assert.Equal(t, string(firstJSON), string(secondJSON))
}

func TestBuildReportDoesNotMutateInputs(t *testing.T) {
	e := New()
	dr := mustRange(t, "2025-03-01", "2025-03-03")

	events := []models.Event{
		{Timestamp: "2025-03-02T10:00:00Z", Kind: models.EventClick, ProductID: "p1"},
	}
	conversions := []models.ConversionEvent{
		{Timestamp: "2025-03-02T11:00:00Z", ProductID: "p1", OrderValue: 99},
	}
	eventsCopy := append([]models.Event(nil), events...)
	conversionsCopy := append([]models.ConversionEvent(nil), conversions...)

	_, err := e.BuildReport(context.Background(), events, conversions, dr)
	require.NoError(t, err)

	assert.Equal(t, eventsCopy, events)
	assert.Equal(t, conversionsCopy, conversions)
}

func TestBuildReportRecordsMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	e := New(WithMetrics(m))

	_, err := e.BuildReport(context.Background(), nil, nil, mustRange(t, "2025-03-01", "2025-03-02"))
	require.NoError(t, err)

	_, err = e.BuildReport(context.Background(), nil, nil, models.DateRange{
		Start: time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
	})
	require.Error(t, err)

	families, err := reg.Gather()
	require.NoError(t, err)

	counters := map[string]float64{}
	for _, fam := range families {
		if fam.GetType().String() == "COUNTER" {
			counters[fam.GetName()] = fam.GetMetric()[0].GetCounter().GetValue()
		}
	}
	assert.Equal(t, 1.0, counters["insight_engine_reports_built_total"])
	assert.Equal(t, 1.0, counters["insight_engine_report_failures_total"])
}

func TestRealtimeSnapshot(t *testing.T) {
	e := New()
	now := time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)

	events := []models.Event{
		{Timestamp: "2025-03-15T11:30:00Z", Kind: models.EventClick}, // last hour
		{Timestamp: "2025-03-15T08:00:00Z", Kind: models.EventClick}, // last 24h
		{Timestamp: "2025-03-14T13:00:00Z", Kind: models.EventClick}, // last 24h
		{Timestamp: "2025-03-14T11:00:00Z", Kind: models.EventClick}, // too old
		{Timestamp: "2025-03-15T11:45:00Z", Kind: models.EventView},  // views excluded
		{Timestamp: "2025-03-15T13:00:00Z", Kind: models.EventClick}, // future
	}
	conversions := []models.ConversionEvent{
		{Timestamp: "2025-03-15T09:00:00Z", ProductID: "p1", OrderValue: 120},
		{Timestamp: "2025-03-13T09:00:00Z", ProductID: "p1", OrderValue: 500}, // too old
	}

	snap := e.RealtimeSnapshot(events, conversions, now)

	assert.Equal(t, 3, snap.Last24Hours.Clicks)
	assert.Equal(t, 1, snap.LastHour.Clicks)
	assert.Equal(t, 1, snap.Last24Hours.Conversions)
	assert.InDelta(t, 120.0, snap.Last24Hours.Revenue, 0.001)
	assert.Equal(t, now, snap.Timestamp)
}
