package forecaster

import (
	"math"

	"github.com/clickreach/insight-engine/pkg/models"
)

const (
	// minSeriesDays is the shortest series worth fitting. Anything
	// shorter gets the insufficient-data fallback.
	minSeriesDays  = 7
	recentDays     = 14
	historicalDays = 30
	maWindow       = 7

	// trendThreshold classifies a slope as up/down relative to the
	// current baseline; strongTrendThreshold flags it as notable.
	trendThreshold       = 0.05
	strongTrendThreshold = 0.1

	minConfidence = 0.3
	maxConfidence = 0.95
	zScore95      = 1.96
)

// InsufficientDataFactor marks a fallback prediction produced from a
// series too short to fit.
const InsufficientDataFactor = "Insufficient data for accurate prediction"

// Forecast fits a linear trend to the recent revenue and click series,
// smooths it with a trailing moving average, adjusts for day-of-week
// seasonality, and emits cumulative point forecasts for the next week and
// month with confidence bounds. Degenerate series (constant values, zero
// means) are handled by explicit guards and never fail.
func Forecast(series []models.DailyBucket) models.Prediction {
	if len(series) < minSeriesDays {
		return fallbackPrediction()
	}

	recent := tail(series, recentDays)
	historical := tail(series, historicalDays)

	revenues := bucketValues(recent, func(b models.DailyBucket) float64 { return b.Revenue })
	clicks := bucketValues(recent, func(b models.DailyBucket) float64 { return float64(b.Clicks) })

	revSlope, _, revR2 := linearRegression(revenues)
	clickSlope, _, clickR2 := linearRegression(clicks)

	revBaseline := movingAverage(revenues, maWindow)
	clickBaseline := movingAverage(clicks, maWindow)

	seasonal := seasonalFactor(historical)
	volatility := coefficientOfVariation(revenues)

	weekRevenue := cumulativeForecast(revBaseline, revSlope, 7, seasonal)
	monthRevenue := cumulativeForecast(revBaseline, revSlope, 30, seasonal)
	weekClicks := cumulativeForecast(clickBaseline, clickSlope, 7, seasonal)
	monthClicks := cumulativeForecast(clickBaseline, clickSlope, 30, seasonal)

	confidence := clamp(((revR2+clickR2)/2)*(1-volatility), minConfidence, maxConfidence)

	revMargin := weekRevenue * volatility * zScore95
	clickMargin := weekClicks * volatility * zScore95

	return models.Prediction{
		NextWeek: models.HorizonForecast{
			Revenue: weekRevenue,
			Clicks:  int(weekClicks),
		},
		NextMonth: models.HorizonForecast{
			Revenue: monthRevenue,
			Clicks:  int(monthClicks),
		},
		Confidence:     confidence,
		Trend:          classifyTrend(revSlope, revBaseline),
		SeasonalFactor: seasonal,
		Volatility:     volatility,
		Intervals: models.ForecastIntervals{
			Revenue: models.ForecastInterval{
				Lower: math.Max(0, weekRevenue-revMargin),
				Upper: weekRevenue + revMargin,
			},
			Clicks: models.ForecastInterval{
				Lower: math.Max(0, weekClicks-clickMargin),
				Upper: weekClicks + clickMargin,
			},
		},
		Factors: qualitativeFactors(revSlope, revBaseline, seasonal, volatility, revR2),
	}
}

// TrendOf classifies a single metric series with the same regression and
// baseline rules the forecaster applies to the full report. Product rows
// use it so their trend field stays consistent with the prediction.
func TrendOf(values []float64) models.TrendDirection {
	if len(values) < minSeriesDays {
		return models.TrendStable
	}
	recent := values
	if len(recent) > recentDays {
		recent = recent[len(recent)-recentDays:]
	}
	slope, _, _ := linearRegression(recent)
	return classifyTrend(slope, movingAverage(recent, maWindow))
}

func fallbackPrediction() models.Prediction {
	return models.Prediction{
		Confidence:     0.5,
		Trend:          models.TrendStable,
		SeasonalFactor: 1.0,
		Volatility:     0.5,
		Factors:        []string{InsufficientDataFactor},
	}
}

// cumulativeForecast projects each of the next h daily values along the
// fitted line, applies the seasonal factor, and sums them. The closed
// form of sum(baseline + slope*d) for d = 1..h avoids the loop.
func cumulativeForecast(baseline, slope, h, seasonal float64) float64 {
	total := (baseline*h + slope*h*(h+1)/2) * seasonal
	if total < 0 {
		return 0
	}
	return math.Round(total)
}

func classifyTrend(slope, baseline float64) models.TrendDirection {
	switch {
	case slope > trendThreshold*baseline:
		return models.TrendUp
	case slope < -trendThreshold*baseline:
		return models.TrendDown
	default:
		return models.TrendStable
	}
}

// seasonalFactor compares the average revenue of the anchor day-of-week
// (the last day of the series) against the overall day-of-week average.
// Short or zero-revenue histories default to the neutral factor 1.0.
func seasonalFactor(historical []models.DailyBucket) float64 {
	if len(historical) < 14 {
		return 1.0
	}

	var sums [7]float64
	var counts [7]int
	for _, b := range historical {
		wd := int(b.Date.Weekday())
		sums[wd] += b.Revenue
		counts[wd]++
	}

	var overall float64
	var present int
	for wd := 0; wd < 7; wd++ {
		if counts[wd] > 0 {
			overall += sums[wd] / float64(counts[wd])
			present++
		}
	}
	if present == 0 {
		return 1.0
	}
	overall /= float64(present)
	if overall == 0 {
		return 1.0
	}

	anchor := int(historical[len(historical)-1].Date.Weekday())
	if counts[anchor] == 0 {
		return 1.0
	}
	return (sums[anchor] / float64(counts[anchor])) / overall
}

// qualitativeFactors annotates the prediction. Conditions are independent
// and non-exclusive; a quiet forecast gets the generic stable note.
func qualitativeFactors(slope, baseline, seasonal, volatility, r2 float64) []string {
	var factors []string

	if baseline > 0 && math.Abs(slope)/baseline > strongTrendThreshold {
		factors = append(factors, "Strong revenue trend detected")
	}
	if seasonal > 1.1 {
		factors = append(factors, "Positive seasonal impact expected")
	} else if seasonal < 0.9 {
		factors = append(factors, "Negative seasonal impact expected")
	}
	if volatility > 0.3 {
		factors = append(factors, "High volatility may reduce forecast accuracy")
	}
	if r2 > 0.7 {
		factors = append(factors, "Strong predictive pattern identified")
	}

	if len(factors) == 0 {
		factors = append(factors, "Stable performance expected")
	}
	return factors
}

func tail(series []models.DailyBucket, n int) []models.DailyBucket {
	if len(series) <= n {
		return series
	}
	return series[len(series)-n:]
}

func bucketValues(series []models.DailyBucket, pick func(models.DailyBucket) float64) []float64 {
	values := make([]float64, len(series))
	for i, b := range series {
		values[i] = pick(b)
	}
	return values
}
