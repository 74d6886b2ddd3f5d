package models

import (
	"fmt"
	"time"
)

// EventKind identifies the type of a tracking event.
type EventKind string

const (
	EventView  EventKind = "view"
	EventClick EventKind = "click"
)

// Event is a single page view or affiliate click as recorded by the
// collector. Timestamps arrive as ISO-8601 strings and may be malformed;
// consumers parse them with ParseEventTime and skip what cannot be parsed.
type Event struct {
	Timestamp      string    `json:"timestamp"`
	Kind           EventKind `json:"kind"`
	ProductID      string    `json:"productId,omitempty"`
	ProductTitle   string    `json:"productTitle,omitempty"`
	ReferrerDomain string    `json:"referrerDomain,omitempty"`
}

// ConversionEvent is a completed order attributed to a product. It is an
// independent stream, correlated to click events only by ProductID.
type ConversionEvent struct {
	Timestamp  string  `json:"timestamp"`
	ProductID  string  `json:"productId"`
	OrderValue float64 `json:"orderValue"`
}

// DateRange is an inclusive calendar-day window in UTC.
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// NewDateRange parses two ISO dates (YYYY-MM-DD) into a DateRange.
// Ordering is not validated here; the aggregator rejects inverted ranges.
func NewDateRange(start, end string) (DateRange, error) {
	s, err := time.Parse("2006-01-02", start)
	if err != nil {
		return DateRange{}, fmt.Errorf("invalid start date %q: %w", start, err)
	}
	e, err := time.Parse("2006-01-02", end)
	if err != nil {
		return DateRange{}, fmt.Errorf("invalid end date %q: %w", end, err)
	}
	return DateRange{Start: s.UTC(), End: e.UTC()}, nil
}

// Days returns the number of calendar days covered by the range, inclusive.
func (r DateRange) Days() int {
	start := DayOf(r.Start)
	end := DayOf(r.End)
	return int(end.Sub(start).Hours()/24) + 1
}

// Previous returns the sliding window of equal length immediately
// preceding this range, used for period-over-period comparisons.
func (r DateRange) Previous() DateRange {
	days := r.Days()
	prevEnd := DayOf(r.Start).AddDate(0, 0, -1)
	prevStart := prevEnd.AddDate(0, 0, -(days - 1))
	return DateRange{Start: prevStart, End: prevEnd}
}

// DayOf truncates a timestamp to its UTC calendar day.
func DayOf(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// eventTimeFormats lists the timestamp layouts the collector is known to
// emit. RFC3339 is the documented format; the rest cover legacy payloads.
var eventTimeFormats = []string{
	time.RFC3339,
	"2006-01-02T15:04:05.000Z",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseEventTime parses a raw event timestamp. Unparseable timestamps are
// an upstream filtering bug, not an engine fault, so callers skip the event
// instead of failing the run.
func ParseEventTime(raw string) (time.Time, error) {
	for _, layout := range eventTimeFormats {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable event timestamp %q", raw)
}
