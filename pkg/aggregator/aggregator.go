package aggregator

import (
	"fmt"
	"time"

	"github.com/clickreach/insight-engine/pkg/models"
)

// InvalidRangeError reports a date range whose start falls after its end.
// It is the only input problem the aggregator treats as fatal.
type InvalidRangeError struct {
	Start time.Time
	End   time.Time
}

func (e *InvalidRangeError) Error() string {
	return fmt.Sprintf("invalid date range: start %s is after end %s",
		e.Start.Format("2006-01-02"), e.End.Format("2006-01-02"))
}

// Aggregate buckets raw events and conversions into contiguous per-day
// totals covering every calendar day in the range, inclusive. Days without
// activity stay zero-filled. Events with unparseable timestamps, outside
// the range, or of unrecognized kind are skipped; they reflect upstream
// filtering bugs, not engine faults.
func Aggregate(events []models.Event, conversions []models.ConversionEvent, dr models.DateRange) ([]models.DailyBucket, error) {
	start := models.DayOf(dr.Start)
	end := models.DayOf(dr.End)
	if start.After(end) {
		return nil, &InvalidRangeError{Start: start, End: end}
	}

	days := int(end.Sub(start).Hours()/24) + 1
	buckets := make([]models.DailyBucket, days)
	for i := range buckets {
		buckets[i].Date = start.AddDate(0, 0, i)
	}

	for _, ev := range events {
		i, ok := bucketIndex(ev.Timestamp, start, days)
		if !ok {
			continue
		}
		switch ev.Kind {
		case models.EventClick:
			buckets[i].Clicks++
		case models.EventView:
			buckets[i].Views++
		}
	}

	for _, conv := range conversions {
		i, ok := bucketIndex(conv.Timestamp, start, days)
		if !ok {
			continue
		}
		buckets[i].Conversions++
		buckets[i].Revenue += conv.OrderValue
	}

	return buckets, nil
}

// bucketIndex maps a raw timestamp to its day offset within the range.
func bucketIndex(raw string, start time.Time, days int) (int, bool) {
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

// Totals sums a bucket series back into period totals.
func Totals(buckets []models.DailyBucket) (clicks, views, conversions int, revenue float64) {
	for _, b := range buckets {
		clicks += b.Clicks
		views += b.Views
		conversions += b.Conversions
		revenue += b.Revenue
	}
	return clicks, views, conversions, revenue
}
