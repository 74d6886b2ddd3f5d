package insights

import (
	"fmt"
	"sort"

	"github.com/clickreach/insight-engine/pkg/models"
)

// Benchmarks are the industry reference points the rules compare against.
type Benchmarks struct {
	ConversionRate    float64 // percent
	AverageOrderValue float64 // currency units
}

// DefaultBenchmarks returns the affiliate-marketing reference values.
func DefaultBenchmarks() Benchmarks {
	return Benchmarks{
		ConversionRate:    3.5,
		AverageOrderValue: 75.0,
	}
}

// Input collects the upstream pipeline outputs the rules read.
type Input struct {
	Overview    models.Overview
	TopProducts []models.ProductStat
	Prediction  models.Prediction
	TimeSeries  []models.DailyBucket
}

// rule is one entry of the declarative table. Each rule independently
// emits zero or one insight; evaluation order is fixed so that equal
// scores rank deterministically.
type rule struct {
	name string
	eval func(in Input, b Benchmarks) *models.Insight
}

var ruleTable = []rule{
	{name: "revenue-growth", eval: revenueGrowthRule},
	{name: "forecast-opportunity", eval: forecastOpportunityRule},
	{name: "conversion-benchmark", eval: conversionBenchmarkRule},
	{name: "revenue-concentration", eval: revenueConcentrationRule},
	{name: "rising-stars", eval: risingStarsRule},
	{name: "seasonal-window", eval: seasonalWindowRule},
	{name: "volatility", eval: volatilityRule},
	{name: "week-over-week", eval: weekOverWeekRule},
	{name: "order-value", eval: orderValueRule},
}

// Generate evaluates the rule table in order and returns the emitted
// insights ranked by impact weight times confidence, descending. Ties
// keep rule-table order (stable sort), which makes the output fully
// deterministic for identical inputs.
func Generate(in Input, b Benchmarks) []models.Insight {
	var result []models.Insight
	for _, r := range ruleTable {
		if insight := r.eval(in, b); insight != nil {
			result = append(result, *insight)
		}
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Score() > result[j].Score()
	})
	return result
}

func revenueGrowthRule(in Input, _ Benchmarks) *models.Insight {
	growth := in.Overview.RevenueGrowth
	switch {
	case growth > 15:
		return &models.Insight{
			Type:        models.InsightSuccess,
			Title:       "Exceptional Revenue Growth",
			Description: fmt.Sprintf("Revenue grew %.1f%% versus the previous period.", growth),
			Impact:      models.ImpactHigh,
			Actionable:  true,
			Actions:     []string{"Increase budget on the channels driving this growth", "Lock in inventory for top products"},
			Confidence:  0.9,
		}
	case growth > 5:
		return &models.Insight{
			Type:        models.InsightSuccess,
			Title:       "Steady Revenue Growth",
			Description: fmt.Sprintf("Revenue is up %.1f%% versus the previous period.", growth),
			Impact:      models.ImpactMedium,
			Actionable:  false,
			Confidence:  0.8,
		}
	case growth < -10:
		return &models.Insight{
			Type:        models.InsightWarning,
			Title:       "Revenue Decline Detected",
			Description: fmt.Sprintf("Revenue dropped %.1f%% versus the previous period.", -growth),
			Impact:      models.ImpactHigh,
			Actionable:  true,
			Actions:     []string{"Review recent content and link placements", "Check top traffic sources for drops"},
			Confidence:  0.85,
		}
	}
	return nil
}

func forecastOpportunityRule(in Input, _ Benchmarks) *models.Insight {
	if in.Prediction.Confidence <= 0.8 {
		return nil
	}
	base := trailingRevenue(in.TimeSeries, 30)
	if base <= 0 {
		return nil
	}
	projectedGrowth := (in.Prediction.NextMonth.Revenue - base) / base * 100
	if projectedGrowth <= 20 {
		return nil
	}
	return &models.Insight{
		Type:        models.InsightOpportunity,
		Title:       "Strong Growth Forecast",
		Description: fmt.Sprintf("The model projects %.0f%% monthly revenue growth with high confidence.", projectedGrowth),
		Impact:      models.ImpactHigh,
		Actionable:  true,
		Actions:     []string{"Prepare stock and content for the projected demand", "Scale the best-performing campaigns"},
		Confidence:  in.Prediction.Confidence,
	}
}

func conversionBenchmarkRule(in Input, b Benchmarks) *models.Insight {
	if in.Overview.TotalClicks == 0 {
		return nil
	}
	rate := in.Overview.ConversionRate
	switch {
	case rate < 0.7*b.ConversionRate:
		return &models.Insight{
			Type:  models.InsightOpportunity,
			Title: "Conversion Rate Below Benchmark",
			Description: fmt.Sprintf("Conversion rate is %.2f%% against the %.1f%% industry benchmark.",
				rate, b.ConversionRate),
			Impact:     models.ImpactHigh,
			Actionable: true,
			Actions:    []string{"Audit landing pages of the most-clicked products", "Test stronger calls to action"},
			Confidence: 0.85,
		}
	case rate > 1.2*b.ConversionRate:
		return &models.Insight{
			Type:  models.InsightSuccess,
			Title: "Above-Benchmark Conversion Rate",
			Description: fmt.Sprintf("Conversion rate of %.2f%% beats the %.1f%% industry benchmark.",
				rate, b.ConversionRate),
			Impact:     models.ImpactMedium,
			Actionable: false,
			Confidence: 0.8,
		}
	}
	return nil
}

func revenueConcentrationRule(in Input, _ Benchmarks) *models.Insight {
	if in.Overview.TotalRevenue <= 0 || len(in.TopProducts) == 0 {
		return nil
	}
	share := in.TopProducts[0].Revenue / in.Overview.TotalRevenue * 100
	if share <= 40 {
		return nil
	}
	return &models.Insight{
		Type:  models.InsightWarning,
		Title: "High Revenue Concentration Risk",
		Description: fmt.Sprintf("%s generates %.0f%% of total revenue; a single product change could hurt earnings.",
			in.TopProducts[0].Name, share),
		Impact:     models.ImpactMedium,
		Actionable: true,
		Actions:    []string{"Diversify promoted products", "Build content around secondary performers"},
		Confidence: 0.9,
	}
}

func risingStarsRule(in Input, b Benchmarks) *models.Insight {
	var stars []string
	for _, p := range in.TopProducts {
		if p.Trend == models.TrendUp && p.ConversionRate > b.ConversionRate {
			stars = append(stars, p.Name)
		}
	}
	if len(stars) == 0 {
		return nil
	}
	return &models.Insight{
		Type:        models.InsightOpportunity,
		Title:       "Rising Star Products",
		Description: fmt.Sprintf("%d product(s) show rising revenue with above-benchmark conversion, led by %s.", len(stars), stars[0]),
		Impact:      models.ImpactMedium,
		Actionable:  true,
		Actions:     []string{"Feature these products more prominently", "Create dedicated comparison content"},
		Confidence:  0.75,
	}
}

func seasonalWindowRule(in Input, _ Benchmarks) *models.Insight {
	factor := in.Prediction.SeasonalFactor
	switch {
	case factor > 1.15:
		return &models.Insight{
			Type:        models.InsightOpportunity,
			Title:       "Favorable Seasonal Window",
			Description: fmt.Sprintf("Day-of-week seasonality is running %.0f%% above average.", (factor-1)*100),
			Impact:      models.ImpactMedium,
			Actionable:  true,
			Actions:     []string{"Schedule campaigns into the strong days"},
			Confidence:  0.7,
		}
	case factor < 0.85:
		return &models.Insight{
			Type:        models.InsightWarning,
			Title:       "Seasonal Slowdown Ahead",
			Description: fmt.Sprintf("Day-of-week seasonality is running %.0f%% below average.", (1-factor)*100),
			Impact:      models.ImpactMedium,
			Actionable:  false,
			Confidence:  0.7,
		}
	}
	return nil
}

func volatilityRule(in Input, _ Benchmarks) *models.Insight {
	// The fallback prediction carries a neutral 0.5 volatility; only a
	// fitted forecast justifies warning about revenue swings.
	if len(in.TimeSeries) < 7 || in.Prediction.Volatility <= 0.4 {
		return nil
	}
	return &models.Insight{
		Type:        models.InsightWarning,
		Title:       "Volatile Revenue Pattern",
		Description: fmt.Sprintf("Daily revenue varies heavily (volatility %.2f), making earnings hard to plan around.", in.Prediction.Volatility),
		Impact:      models.ImpactMedium,
		Actionable:  true,
		Actions:     []string{"Spread promotions across more products and sources"},
		Confidence:  0.75,
	}
}

func weekOverWeekRule(in Input, _ Benchmarks) *models.Insight {
	if len(in.TimeSeries) < 14 {
		return nil
	}
	current := trailingRevenue(in.TimeSeries, 7)
	previous := trailingRevenue(in.TimeSeries[:len(in.TimeSeries)-7], 7)
	if previous <= 0 {
		return nil
	}
	growth := (current - previous) / previous * 100
	if growth <= 25 {
		return nil
	}
	return &models.Insight{
		Type:        models.InsightSuccess,
		Title:       "Momentum Building Week Over Week",
		Description: fmt.Sprintf("Revenue is up %.0f%% against the prior week.", growth),
		Impact:      models.ImpactHigh,
		Actionable:  false,
		Confidence:  0.85,
	}
}

func orderValueRule(in Input, b Benchmarks) *models.Insight {
	if in.Overview.TotalConversions == 0 {
		return nil
	}
	aov := in.Overview.AverageOrderValue
	if aov >= 0.8*b.AverageOrderValue {
		return nil
	}
	return &models.Insight{
		Type:  models.InsightOpportunity,
		Title: "Order Value Upside",
		Description: fmt.Sprintf("Average order value of $%.2f sits below the $%.0f benchmark.",
			aov, b.AverageOrderValue),
		Impact:     models.ImpactMedium,
		Actionable: true,
		Actions:    []string{"Promote higher-ticket products", "Add bundle and accessory recommendations"},
		Confidence: 0.7,
	}
}

// trailingRevenue sums revenue over the last n buckets of the series.
func trailingRevenue(series []models.DailyBucket, n int) float64 {
	if len(series) > n {
		series = series[len(series)-n:]
	}
	total := 0.0
	for _, b := range series {
		total += b.Revenue
	}
	return total
}
