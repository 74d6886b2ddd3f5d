package aggregator

import (
	"errors"
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

func TestAggregateContiguousSeries(t *testing.T) {
	dr := models.DateRange{Start: day("2025-03-01"), End: day("2025-03-10")}

	buckets, err := Aggregate(nil, nil, dr)
	if err != nil {
		t.Fatalf("Aggregate failed: %v", err)
	}

	if len(buckets) != 10 {
		t.Fatalf("Expected 10 buckets, got %d", len(buckets))
	}

	for i, b := range buckets {
		expected := dr.Start.AddDate(0, 0, i)
		if !b.Date.Equal(expected) {
			t.Errorf("Bucket %d: expected date %s, got %s", i, expected, b.Date)
		}
		if b.Clicks != 0 || b.Views != 0 || b.Conversions != 0 || b.Revenue != 0 {
			t.Errorf("Bucket %d: expected zero-filled bucket, got %+v", i, b)
		}
	}
}

func TestAggregatePreservesTotals(t *testing.T) {
	dr := models.DateRange{Start: day("2025-03-01"), End: day("2025-03-07")}

	events := []models.Event{
		{Timestamp: "2025-03-01T08:30:00Z", Kind: models.EventClick, ProductID: "p1"},
		{Timestamp: "2025-03-01T09:00:00Z", Kind: models.EventView},
		{Timestamp: "2025-03-03T14:10:00Z", Kind: models.EventClick, ProductID: "p2"},
		{Timestamp: "2025-03-07T23:59:59Z", Kind: models.EventClick, ProductID: "p1"},
		{Timestamp: "2025-03-05T12:00:00Z", Kind: models.EventView},
	}
	conversions := []models.ConversionEvent{
		{Timestamp: "2025-03-03T15:00:00Z", ProductID: "p2", OrderValue: 49.99},
		{Timestamp: "2025-03-06T10:00:00Z", ProductID: "p1", OrderValue: 120.00},
	}

	buckets, err := Aggregate(events, conversions, dr)
	if err != nil {
		t.Fatalf("Aggregate failed: %v", err)
	}

	clicks, views, convs, revenue := Totals(buckets)
	if clicks != 3 {
		t.Errorf("Expected 3 clicks, got %d", clicks)
	}
	if views != 2 {
		t.Errorf("Expected 2 views, got %d", views)
	}
	if convs != 2 {
		t.Errorf("Expected 2 conversions, got %d", convs)
	}
	if revenue != 169.99 {
		t.Errorf("Expected revenue 169.99, got %.2f", revenue)
	}

	// Events land on the right day.
	if buckets[0].Clicks != 1 || buckets[0].Views != 1 {
		t.Errorf("Day 1: expected 1 click / 1 view, got %d / %d", buckets[0].Clicks, buckets[0].Views)
	}
	if buckets[2].Conversions != 1 || buckets[2].Revenue != 49.99 {
		t.Errorf("Day 3: expected 1 conversion / 49.99, got %d / %.2f", buckets[2].Conversions, buckets[2].Revenue)
	}
}

func TestAggregateSkipsBadInput(t *testing.T) {
	dr := models.DateRange{Start: day("2025-03-01"), End: day("2025-03-03")}

	events := []models.Event{
		{Timestamp: "not-a-timestamp", Kind: models.EventClick},
		{Timestamp: "2025-02-28T10:00:00Z", Kind: models.EventClick}, // before range
		{Timestamp: "2025-03-04T10:00:00Z", Kind: models.EventClick}, // after range
		{Timestamp: "2025-03-02T10:00:00Z", Kind: "hover"},           // unrecognized kind
		{Timestamp: "2025-03-02T10:00:00Z", Kind: models.EventClick},
	}
	conversions := []models.ConversionEvent{
		{Timestamp: "garbage", ProductID: "p1", OrderValue: 10},
		{Timestamp: "2025-03-02T11:00:00Z", ProductID: "p1", OrderValue: 25},
	}

	buckets, err := Aggregate(events, conversions, dr)
	if err != nil {
		t.Fatalf("Aggregate failed: %v", err)
	}

	clicks, _, convs, revenue := Totals(buckets)
	if clicks != 1 {
		t.Errorf("Expected exactly 1 valid click, got %d", clicks)
	}
	if convs != 1 || revenue != 25 {
		t.Errorf("Expected 1 conversion worth 25, got %d worth %.2f", convs, revenue)
	}
}

func TestAggregateInvalidRange(t *testing.T) {
	dr := models.DateRange{Start: day("2025-03-10"), End: day("2025-03-01")}

	_, err := Aggregate(nil, nil, dr)
	if err == nil {
		t.Fatal("Expected error for inverted range, got nil")
	}

	var rangeErr *InvalidRangeError
	if !errors.As(err, &rangeErr) {
		t.Fatalf("Expected InvalidRangeError, got %T: %v", err, err)
	}
	if !rangeErr.Start.After(rangeErr.End) {
		t.Errorf("Error should carry the offending range, got %+v", rangeErr)
	}
}

func TestAggregateSingleDayRange(t *testing.T) {
	dr := models.DateRange{Start: day("2025-03-01"), End: day("2025-03-01")}

	events := []models.Event{
		{Timestamp: "2025-03-01T00:00:00Z", Kind: models.EventView},
		{Timestamp: "2025-03-01T23:59:59Z", Kind: models.EventClick},
	}

	buckets, err := Aggregate(events, nil, dr)
	if err != nil {
		t.Fatalf("Aggregate failed: %v", err)
	}
	if len(buckets) != 1 {
		t.Fatalf("Expected 1 bucket, got %d", len(buckets))
	}
	if buckets[0].Views != 1 || buckets[0].Clicks != 1 {
		t.Errorf("Expected both boundary events counted, got %+v", buckets[0])
	}
}
