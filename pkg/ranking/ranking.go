package ranking

import (
	"sort"
	"time"

	"github.com/clickreach/insight-engine/pkg/forecaster"
	"github.com/clickreach/insight-engine/pkg/models"
)

// Default list sizes for the dashboard rankings.
const (
	DefaultProductLimit = 10
	DefaultSourceLimit  = 6
)

// sourcePalette is the fixed display palette for traffic sources,
// assigned by rank position mod 6.
var sourcePalette = [6]string{
	"#3B82F6", // blue
	"#10B981", // green
	"#F59E0B", // amber
	"#EF4444", // red
	"#8B5CF6", // violet
	"#EC4899", // pink
}

// DirectSource is the sentinel bucket for events without a referrer.
const DirectSource = "Direct"

type productAccum struct {
	stat  models.ProductStat
	daily []float64
}

// TopProducts folds click events and the conversion stream by product,
// ranks by revenue descending, and returns the top rows. Ties keep
// first-seen order. Each product's trend comes from the forecaster's
// regression over its own daily revenue series, so the field agrees with
// the report-level prediction instead of being assigned arbitrarily.
func TopProducts(events []models.Event, conversions []models.ConversionEvent, dr models.DateRange, limit int) []models.ProductStat {
	days := dr.Days()
	if days <= 0 {
		return nil
	}
	start := models.DayOf(dr.Start)

	accums := make(map[string]*productAccum)
	var order []string

	get := func(id string) *productAccum {
		acc, ok := accums[id]
		if !ok {
			acc = &productAccum{
				stat:  models.ProductStat{ProductID: id},
				daily: make([]float64, days),
			}
			accums[id] = acc
			order = append(order, id)
		}
		return acc
	}

	for _, ev := range events {
		if ev.Kind != models.EventClick || ev.ProductID == "" {
			continue
		}
		if _, ok := dayOffset(ev.Timestamp, start, days); !ok {
			continue
		}
		acc := get(ev.ProductID)
		acc.stat.Clicks++
		if acc.stat.Name == "" && ev.ProductTitle != "" {
			acc.stat.Name = ev.ProductTitle
		}
	}

	for _, conv := range conversions {
		if conv.ProductID == "" {
			continue
		}
		offset, ok := dayOffset(conv.Timestamp, start, days)
		if !ok {
			continue
		}
		acc := get(conv.ProductID)
		acc.stat.Conversions++
		acc.stat.Revenue += conv.OrderValue
		acc.daily[offset] += conv.OrderValue
	}

	stats := make([]models.ProductStat, 0, len(order))
	for _, id := range order {
		acc := accums[id]
		if acc.stat.Name == "" {
			acc.stat.Name = id
		}
		if acc.stat.Clicks > 0 {
			acc.stat.ConversionRate = float64(acc.stat.Conversions) / float64(acc.stat.Clicks) * 100
		}
		acc.stat.Trend = forecaster.TrendOf(acc.daily)
		stats = append(stats, acc.stat)
	}

	sort.SliceStable(stats, func(i, j int) bool {
		return stats[i].Revenue > stats[j].Revenue
	})

	if limit > 0 && len(stats) > limit {
		stats = stats[:limit]
	}
	return stats
}

// TopTrafficSources folds click events by referrer domain, with missing
// referrers pooled under the Direct sentinel. Percentages are of all
// in-range clicks; colors follow rank order through the fixed palette.
func TopTrafficSources(events []models.Event, dr models.DateRange, limit int) []models.TrafficSourceStat {
	days := dr.Days()
	if days <= 0 {
		return nil
	}
	start := models.DayOf(dr.Start)

	clicksBySource := make(map[string]int)
	var order []string
	totalClicks := 0

	for _, ev := range events {
		if ev.Kind != models.EventClick {
			continue
		}
		if _, ok := dayOffset(ev.Timestamp, start, days); !ok {
			continue
		}
		source := ev.ReferrerDomain
		if source == "" {
			source = DirectSource
		}
		if _, seen := clicksBySource[source]; !seen {
			order = append(order, source)
		}
		clicksBySource[source]++
		totalClicks++
	}

	stats := make([]models.TrafficSourceStat, 0, len(order))
	for _, source := range order {
		stat := models.TrafficSourceStat{
			Source: source,
			Clicks: clicksBySource[source],
		}
		if totalClicks > 0 {
			stat.Percentage = float64(stat.Clicks) / float64(totalClicks) * 100
		}
		stats = append(stats, stat)
	}

	sort.SliceStable(stats, func(i, j int) bool {
		return stats[i].Clicks > stats[j].Clicks
	})

	if limit > 0 && len(stats) > limit {
		stats = stats[:limit]
	}
	for i := range stats {
		stats[i].Color = sourcePalette[i%len(sourcePalette)]
	}
	return stats
}

func dayOffset(raw string, start time.Time, days int) (int, bool) {
	ts, err := models.ParseEventTime(raw)
	if err != nil {
		return 0, false
	}
	offset := int(models.DayOf(ts).Sub(start).Hours() / 24)
	if offset < 0 || offset >= days {
		return 0, false
	}
	return offset, true
}
