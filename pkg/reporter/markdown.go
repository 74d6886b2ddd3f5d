package reporter

import (
	"fmt"
	"io"
	"strings"
)

// GenerateMarkdown creates a Markdown report
func GenerateMarkdown(report *Report, writer io.Writer) error {
	var b strings.Builder
	a := report.Analytics

	fmt.Fprintf(&b, "# Affiliate Analytics Report - %s\n\n", report.SiteName)
	fmt.Fprintf(&b, "**Period:** %s to %s  \n", report.RangeStart.Format("2006-01-02"), report.RangeEnd.Format("2006-01-02"))
	fmt.Fprintf(&b, "**Generated:** %s\n\n", report.GeneratedAt.Format("2006-01-02 15:04 MST"))

	b.WriteString("## Overview\n\n")
	fmt.Fprintf(&b, "| Metric | Value |\n|---|---|\n")
	fmt.Fprintf(&b, "| Total Clicks | %d |\n", a.Overview.TotalClicks)
	fmt.Fprintf(&b, "| Total Views | %d |\n", a.Overview.TotalViews)
	fmt.Fprintf(&b, "| Conversions | %d |\n", a.Overview.TotalConversions)
	fmt.Fprintf(&b, "| Revenue | $%.2f |\n", a.Overview.TotalRevenue)
	fmt.Fprintf(&b, "| Conversion Rate | %.2f%% |\n", a.Overview.ConversionRate)
	fmt.Fprintf(&b, "| Avg Order Value | $%.2f |\n", a.Overview.AverageOrderValue)
	fmt.Fprintf(&b, "| Revenue Growth | %.1f%% |\n\n", a.Overview.RevenueGrowth)

	b.WriteString("## Forecast\n\n")
	fmt.Fprintf(&b, "- **Next week:** $%.0f revenue, %d clicks (confidence %.0f%%, interval $%.0f-$%.0f)\n",
		a.Predictions.NextWeek.Revenue, a.Predictions.NextWeek.Clicks,
		a.Predictions.Confidence*100,
		a.Predictions.Intervals.Revenue.Lower, a.Predictions.Intervals.Revenue.Upper)
	fmt.Fprintf(&b, "- **Next month:** $%.0f revenue, %d clicks\n", a.Predictions.NextMonth.Revenue, a.Predictions.NextMonth.Clicks)
	fmt.Fprintf(&b, "- **Trend:** %s, seasonal factor %.2f, volatility %.2f\n\n",
		a.Predictions.Trend, a.Predictions.SeasonalFactor, a.Predictions.Volatility)
	for _, factor := range a.Predictions.Factors {
		fmt.Fprintf(&b, "  - %s\n", factor)
	}
	b.WriteString("\n")

	if len(a.TopProducts) > 0 {
		b.WriteString("## Top Products\n\n")
		b.WriteString("| Product | Clicks | Conversions | Revenue | CR | Trend |\n|---|---|---|---|---|---|\n")
		for _, p := range a.TopProducts {
			fmt.Fprintf(&b, "| %s | %d | %d | $%.2f | %.2f%% | %s |\n",
				p.Name, p.Clicks, p.Conversions, p.Revenue, p.ConversionRate, p.Trend)
		}
		b.WriteString("\n")
	}

	if len(a.TrafficSources) > 0 {
		b.WriteString("## Traffic Sources\n\n")
		b.WriteString("| Source | Clicks | Share |\n|---|---|---|\n")
		for _, s := range a.TrafficSources {
			fmt.Fprintf(&b, "| %s | %d | %.1f%% |\n", s.Source, s.Clicks, s.Percentage)
		}
		b.WriteString("\n")
	}

	if len(a.Insights) > 0 {
		b.WriteString("## Insights\n\n")
		for _, insight := range a.Insights {
			fmt.Fprintf(&b, "### %s (%s, %s impact)\n\n%s\n\n", insight.Title, insight.Type, insight.Impact, insight.Description)
			for _, action := range insight.Actions {
				fmt.Fprintf(&b, "- %s\n", action)
			}
			if len(insight.Actions) > 0 {
				b.WriteString("\n")
			}
		}
	}

	_, err := io.WriteString(writer, b.String())
	return err
}
