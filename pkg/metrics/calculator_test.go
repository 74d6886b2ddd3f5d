package metrics

import (
	"math"
	"testing"
	"time"

	"github.com/clickreach/insight-engine/pkg/models"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t.UTC()
}

func TestCalculateRatios(t *testing.T) {
	dr := models.DateRange{Start: day("2025-03-01"), End: day("2025-03-07")}

	events := []models.Event{
		{Timestamp: "2025-03-01T10:00:00Z", Kind: models.EventView},
		{Timestamp: "2025-03-01T10:01:00Z", Kind: models.EventView},
		{Timestamp: "2025-03-01T10:02:00Z", Kind: models.EventView},
		{Timestamp: "2025-03-01T10:03:00Z", Kind: models.EventView},
		{Timestamp: "2025-03-02T11:00:00Z", Kind: models.EventClick},
		{Timestamp: "2025-03-03T11:00:00Z", Kind: models.EventClick},
	}
	conversions := []models.ConversionEvent{
		{Timestamp: "2025-03-03T12:00:00Z", ProductID: "p1", OrderValue: 150},
	}

	overview, err := Calculate(events, conversions, dr)
	if err != nil {
		t.Fatalf("Calculate failed: %v", err)
	}

	if overview.TotalClicks != 2 || overview.TotalViews != 4 || overview.TotalConversions != 1 {
		t.Errorf("Unexpected totals: %+v", overview)
	}
	if overview.TotalRevenue != 150 {
		t.Errorf("Expected revenue 150, got %.2f", overview.TotalRevenue)
	}
	if math.Abs(overview.ConversionRate-50.0) > 0.001 {
		t.Errorf("Expected conversion rate 50%%, got %.2f", overview.ConversionRate)
	}
	if math.Abs(overview.ClickThroughRate-50.0) > 0.001 {
		t.Errorf("Expected CTR 50%%, got %.2f", overview.ClickThroughRate)
	}
	if overview.AverageOrderValue != 150 {
		t.Errorf("Expected AOV 150, got %.2f", overview.AverageOrderValue)
	}
}

func TestCalculateGuardedDivisions(t *testing.T) {
	dr := models.DateRange{Start: day("2025-03-01"), End: day("2025-03-07")}

	overview, err := Calculate(nil, nil, dr)
	if err != nil {
		t.Fatalf("Calculate failed: %v", err)
	}

	for name, v := range map[string]float64{
		"conversionRate":    overview.ConversionRate,
		"averageOrderValue": overview.AverageOrderValue,
		"clickThroughRate":  overview.ClickThroughRate,
		"revenueGrowth":     overview.RevenueGrowth,
	} {
		if v != 0 {
			t.Errorf("%s: expected 0 on empty dataset, got %.2f", name, v)
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Errorf("%s: produced non-finite value", name)
		}
	}
}

func TestRevenueGrowthAgainstPriorWindow(t *testing.T) {
	dr := models.DateRange{Start: day("2025-03-08"), End: day("2025-03-14")}

	conversions := []models.ConversionEvent{
		// Prior window (Mar 1-7): 200 total.
		{Timestamp: "2025-03-02T10:00:00Z", ProductID: "p1", OrderValue: 120},
		{Timestamp: "2025-03-06T10:00:00Z", ProductID: "p2", OrderValue: 80},
		// Current window: 300 total.
		{Timestamp: "2025-03-09T10:00:00Z", ProductID: "p1", OrderValue: 300},
	}

	overview, err := Calculate(nil, conversions, dr)
	if err != nil {
		t.Fatalf("Calculate failed: %v", err)
	}

	if overview.TotalRevenue != 300 {
		t.Errorf("Expected current revenue 300, got %.2f", overview.TotalRevenue)
	}
	if math.Abs(overview.RevenueGrowth-50.0) > 0.001 {
		t.Errorf("Expected 50%% growth over prior window, got %.2f", overview.RevenueGrowth)
	}
}

func TestRevenueGrowthNoBaseline(t *testing.T) {
	dr := models.DateRange{Start: day("2025-03-08"), End: day("2025-03-14")}

	conversions := []models.ConversionEvent{
		{Timestamp: "2025-03-09T10:00:00Z", ProductID: "p1", OrderValue: 500},
	}

	overview, err := Calculate(nil, conversions, dr)
	if err != nil {
		t.Fatalf("Calculate failed: %v", err)
	}
	if overview.RevenueGrowth != 0 {
		t.Errorf("Expected zero growth without prior revenue, got %.2f", overview.RevenueGrowth)
	}
}

func TestCalculateIgnoresOutOfRange(t *testing.T) {
	dr := models.DateRange{Start: day("2025-03-08"), End: day("2025-03-14")}

	events := []models.Event{
		{Timestamp: "2025-03-01T10:00:00Z", Kind: models.EventClick}, // prior window
		{Timestamp: "2025-03-20T10:00:00Z", Kind: models.EventClick}, // future
		{Timestamp: "bogus", Kind: models.EventClick},
		{Timestamp: "2025-03-10T10:00:00Z", Kind: models.EventClick},
	}

	overview, err := Calculate(events, nil, dr)
	if err != nil {
		t.Fatalf("Calculate failed: %v", err)
	}
	if overview.TotalClicks != 1 {
		t.Errorf("Expected 1 in-range click, got %d", overview.TotalClicks)
	}
}
