package metrics

import (
	"time"

	"github.com/clickreach/insight-engine/pkg/aggregator"
	"github.com/clickreach/insight-engine/pkg/models"
)

// Calculate derives the overview ratios for the requested period from the
// full event and conversion lists. Revenue growth compares against the
// sliding window of equal length immediately preceding the range, so the
// caller should supply events reaching back that far when available.
// Every division is guarded; zero denominators yield zero, never NaN.
func Calculate(events []models.Event, conversions []models.ConversionEvent, dr models.DateRange) (models.Overview, error) {
	overview := models.Overview{}

	for _, ev := range events {
		ts, err := models.ParseEventTime(ev.Timestamp)
		if err != nil || !inRange(ts, dr) {
			continue
		}
		switch ev.Kind {
		case models.EventClick:
			overview.TotalClicks++
		case models.EventView:
			overview.TotalViews++
		}
	}

	for _, conv := range conversions {
		ts, err := models.ParseEventTime(conv.Timestamp)
		if err != nil || !inRange(ts, dr) {
			continue
		}
		overview.TotalConversions++
		overview.TotalRevenue += conv.OrderValue
	}

	if overview.TotalClicks > 0 {
		overview.ConversionRate = float64(overview.TotalConversions) / float64(overview.TotalClicks) * 100
	}
	if overview.TotalConversions > 0 {
		overview.AverageOrderValue = overview.TotalRevenue / float64(overview.TotalConversions)
	}
	if overview.TotalViews > 0 {
		overview.ClickThroughRate = float64(overview.TotalClicks) / float64(overview.TotalViews) * 100
	}

	growth, err := revenueGrowth(conversions, dr, overview.TotalRevenue)
	if err != nil {
		return models.Overview{}, err
	}
	overview.RevenueGrowth = growth

	return overview, nil
}

// revenueGrowth is the percentage change of total revenue versus the
// preceding period of equal length, computed through the same aggregator.
// Without prior-period revenue there is no meaningful baseline, so the
// growth reports as zero.
func revenueGrowth(conversions []models.ConversionEvent, dr models.DateRange, currentRevenue float64) (float64, error) {
	previous, err := aggregator.Aggregate(nil, conversions, dr.Previous())
	if err != nil {
		return 0, err
	}

	_, _, _, previousRevenue := aggregator.Totals(previous)
	if previousRevenue == 0 {
		return 0, nil
	}
	return (currentRevenue - previousRevenue) / previousRevenue * 100, nil
}

func inRange(ts time.Time, dr models.DateRange) bool {
	day := models.DayOf(ts)
	return !day.Before(models.DayOf(dr.Start)) && !day.After(models.DayOf(dr.End))
}
