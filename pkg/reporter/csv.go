package reporter

import (
	"encoding/csv"
	"fmt"
	"io"
)

// GenerateCSV creates a CSV report
func GenerateCSV(report *Report, writer io.Writer) error {
	w := csv.NewWriter(writer)
	defer w.Flush()

	a := report.Analytics

	header := []string{
		"Date",
		"Clicks",
		"Views",
		"Conversions",
		"Revenue ($)",
	}
	if err := w.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, bucket := range a.TimeSeries {
		row := []string{
			bucket.Date.Format("2006-01-02"),
			fmt.Sprintf("%d", bucket.Clicks),
			fmt.Sprintf("%d", bucket.Views),
			fmt.Sprintf("%d", bucket.Conversions),
			fmt.Sprintf("%.2f", bucket.Revenue),
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	// Summary rows
	w.Write([]string{}) // Empty row
	w.Write([]string{"SUMMARY"})
	w.Write([]string{"Total Clicks", fmt.Sprintf("%d", a.Overview.TotalClicks)})
	w.Write([]string{"Total Views", fmt.Sprintf("%d", a.Overview.TotalViews)})
	w.Write([]string{"Total Conversions", fmt.Sprintf("%d", a.Overview.TotalConversions)})
	w.Write([]string{"Total Revenue", fmt.Sprintf("$%.2f", a.Overview.TotalRevenue)})
	w.Write([]string{"Conversion Rate", fmt.Sprintf("%.2f%%", a.Overview.ConversionRate)})
	w.Write([]string{"Revenue Growth", fmt.Sprintf("%.1f%%", a.Overview.RevenueGrowth)})
	w.Write([]string{"Next Week Forecast", fmt.Sprintf("$%.0f", a.Predictions.NextWeek.Revenue)})

	// Product breakdown
	w.Write([]string{}) // Empty row
	w.Write([]string{"TOP PRODUCTS"})
	w.Write([]string{"Product", "Clicks", "Conversions", "Revenue", "Conversion Rate", "Trend"})
	for _, p := range a.TopProducts {
		w.Write([]string{
			p.Name,
			fmt.Sprintf("%d", p.Clicks),
			fmt.Sprintf("%d", p.Conversions),
			fmt.Sprintf("$%.2f", p.Revenue),
			fmt.Sprintf("%.2f%%", p.ConversionRate),
			string(p.Trend),
		})
	}

	// Traffic sources
	w.Write([]string{}) // Empty row
	w.Write([]string{"TRAFFIC SOURCES"})
	w.Write([]string{"Source", "Clicks", "Share"})
	for _, s := range a.TrafficSources {
		w.Write([]string{
			s.Source,
			fmt.Sprintf("%d", s.Clicks),
			fmt.Sprintf("%.1f%%", s.Percentage),
		})
	}

	return nil
}
