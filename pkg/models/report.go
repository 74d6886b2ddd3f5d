package models

import "time"

// DailyBucket holds the totals for one calendar day. The aggregator
// guarantees one bucket per day in the requested range, zero-filled when
// no events fall on that day.
type DailyBucket struct {
	Date        time.Time `json:"date"`
	Clicks      int       `json:"clicks"`
	Views       int       `json:"views"`
	Conversions int       `json:"conversions"`
	Revenue     float64   `json:"revenue"`
}

// Overview contains the headline ratios for the requested period.
// All divisions are guarded; the fields never carry NaN or Inf.
type Overview struct {
	TotalClicks       int     `json:"totalClicks"`
	TotalViews        int     `json:"totalViews"`
	TotalConversions  int     `json:"totalConversions"`
	TotalRevenue      float64 `json:"totalRevenue"`
	ConversionRate    float64 `json:"conversionRate"`
	AverageOrderValue float64 `json:"averageOrderValue"`
	ClickThroughRate  float64 `json:"clickThroughRate"`
	RevenueGrowth     float64 `json:"revenueGrowth"`
}

// TrendDirection classifies the slope of a metric over time.
type TrendDirection string

const (
	TrendUp     TrendDirection = "up"
	TrendDown   TrendDirection = "down"
	TrendStable TrendDirection = "stable"
)

// ProductStat is one row of the top-products ranking.
type ProductStat struct {
	ProductID      string         `json:"productId"`
	Name           string         `json:"name"`
	Clicks         int            `json:"clicks"`
	Conversions    int            `json:"conversions"`
	Revenue        float64        `json:"revenue"`
	ConversionRate float64        `json:"conversionRate"`
	Trend          TrendDirection `json:"trend"`
}

// TrafficSourceStat is one row of the traffic-source ranking. Source is
// "Direct" when the originating event carried no referrer domain.
type TrafficSourceStat struct {
	Source     string  `json:"source"`
	Clicks     int     `json:"clicks"`
	Percentage float64 `json:"percentage"`
	Color      string  `json:"color"`
}

// HorizonForecast is the projected cumulative total for one horizon.
type HorizonForecast struct {
	Revenue float64 `json:"revenue"`
	Clicks  int     `json:"clicks"`
}

// ForecastInterval bounds a point forecast.
type ForecastInterval struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
}

// ForecastIntervals carries the confidence bounds for the one-week
// revenue and click forecasts.
type ForecastIntervals struct {
	Revenue ForecastInterval `json:"revenue"`
	Clicks  ForecastInterval `json:"clicks"`
}

// Prediction is the forecaster output: cumulative point forecasts for the
// next week and month with confidence bounds and qualitative factors.
type Prediction struct {
	NextWeek       HorizonForecast   `json:"nextWeek"`
	NextMonth      HorizonForecast   `json:"nextMonth"`
	Confidence     float64           `json:"confidence"`
	Trend          TrendDirection    `json:"trend"`
	SeasonalFactor float64           `json:"seasonalFactor"`
	Volatility     float64           `json:"volatility"`
	Intervals      ForecastIntervals `json:"intervals"`
	Factors        []string          `json:"factors"`
}

// InsightType categorizes an insight for presentation.
type InsightType string

const (
	InsightSuccess     InsightType = "success"
	InsightWarning     InsightType = "warning"
	InsightOpportunity InsightType = "opportunity"
)

// ImpactLevel grades how much an insight matters.
type ImpactLevel string

const (
	ImpactLow    ImpactLevel = "low"
	ImpactMedium ImpactLevel = "medium"
	ImpactHigh   ImpactLevel = "high"
)

// Weight returns the numeric weight used when ranking insights.
func (l ImpactLevel) Weight() int {
	switch l {
	case ImpactHigh:
		return 3
	case ImpactMedium:
		return 2
	default:
		return 1
	}
}

// Insight is a prioritized, human-readable recommendation.
type Insight struct {
	Type        InsightType `json:"type"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Impact      ImpactLevel `json:"impact"`
	Actionable  bool        `json:"actionable"`
	Actions     []string    `json:"actions,omitempty"`
	Confidence  float64     `json:"confidence"`
}

// Score is the ranking key for insights: impact weight times confidence.
func (i Insight) Score() float64 {
	return float64(i.Impact.Weight()) * i.Confidence
}

// AnalyticsReport is the full engine output for one date range. It holds
// only newly constructed values, never references back into the inputs.
type AnalyticsReport struct {
	Overview       Overview            `json:"overview"`
	TimeSeries     []DailyBucket       `json:"timeSeries"`
	TopProducts    []ProductStat       `json:"topProducts"`
	TrafficSources []TrafficSourceStat `json:"trafficSources"`
	Predictions    Prediction          `json:"predictions"`
	Insights       []Insight           `json:"insights"`
}

// WindowTotals summarizes activity inside a realtime window.
type WindowTotals struct {
	Clicks      int     `json:"clicks"`
	Conversions int     `json:"conversions"`
	Revenue     float64 `json:"revenue"`
}

// HourTotals summarizes the trailing hour.
type HourTotals struct {
	Clicks int `json:"clicks"`
}

// RealtimeSnapshot is the lightweight live view of recent activity.
type RealtimeSnapshot struct {
	Last24Hours WindowTotals `json:"last24Hours"`
	LastHour    HourTotals   `json:"lastHour"`
	Timestamp   time.Time    `json:"timestamp"`
}
