package reporter

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/clickreach/insight-engine/pkg/models"
)

func sampleReport(t *testing.T) *Report {
	t.Helper()
	dr, err := models.NewDateRange("2025-03-01", "2025-03-07")
	if err != nil {
		t.Fatalf("bad range: %v", err)
	}

	analytics := &models.AnalyticsReport{
		Overview: models.Overview{
			TotalClicks:       70,
			TotalViews:        400,
			TotalConversions:  7,
			TotalRevenue:      700,
			ConversionRate:    10,
			AverageOrderValue: 100,
			ClickThroughRate:  17.5,
		},
		TimeSeries: []models.DailyBucket{
			{Date: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), Clicks: 10, Revenue: 100},
			{Date: time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC), Clicks: 12, Revenue: 250},
		},
		TopProducts: []models.ProductStat{
			{ProductID: "p1", Name: "Standing Desk", Clicks: 40, Conversions: 5, Revenue: 500, ConversionRate: 12.5, Trend: models.TrendUp},
		},
		TrafficSources: []models.TrafficSourceStat{
			{Source: "google.com", Clicks: 42, Percentage: 60, Color: "#3B82F6"},
		},
		Predictions: models.Prediction{
			NextWeek:       models.HorizonForecast{Revenue: 700, Clicks: 70},
			NextMonth:      models.HorizonForecast{Revenue: 3000, Clicks: 300},
			Confidence:     0.95,
			Trend:          models.TrendStable,
			SeasonalFactor: 1.0,
		},
		Insights: []models.Insight{
			{
				Type:        models.InsightWarning,
				Title:       "High Revenue Concentration Risk",
				Description: "Standing Desk generates 71% of total revenue.",
				Impact:      models.ImpactMedium,
				Actionable:  true,
				Actions:     []string{"Diversify promoted products"},
				Confidence:  0.9,
			},
			{
				Type:        models.InsightSuccess,
				Title:       "Above-Benchmark Conversion Rate",
				Description: "Conversion rate of 10% beats the benchmark.",
				Impact:      models.ImpactMedium,
				Confidence:  0.8,
			},
		},
	}

	r := New(FormatMarkdown)
	report, err := r.Generate(analytics, "gearpicks.example", dr)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	return report
}

func TestGenerateStats(t *testing.T) {
	report := sampleReport(t)

	if report.ActionableCount != 1 {
		t.Errorf("Expected 1 actionable insight, got %d", report.ActionableCount)
	}
	if report.WarningCount != 1 {
		t.Errorf("Expected 1 warning, got %d", report.WarningCount)
	}
	if report.BestDay.Revenue != 250 {
		t.Errorf("Expected best day revenue 250, got %.2f", report.BestDay.Revenue)
	}
}

func TestGenerateNilAnalytics(t *testing.T) {
	r := New(FormatMarkdown)
	dr, _ := models.NewDateRange("2025-03-01", "2025-03-07")
	if _, err := r.Generate(nil, "site", dr); err == nil {
		t.Error("Expected error for nil analytics")
	}
}

func TestMarkdownOutput(t *testing.T) {
	report := sampleReport(t)

	var buf bytes.Buffer
	if err := GenerateMarkdown(report, &buf); err != nil {
		t.Fatalf("GenerateMarkdown failed: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"# Affiliate Analytics Report - gearpicks.example",
		"| Total Clicks | 70 |",
		"| Revenue | $700.00 |",
		"Standing Desk",
		"High Revenue Concentration Risk",
		"$700 revenue",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Markdown output missing %q", want)
		}
	}
}

func TestCSVOutput(t *testing.T) {
	report := sampleReport(t)

	var buf bytes.Buffer
	if err := GenerateCSV(report, &buf); err != nil {
		t.Fatalf("GenerateCSV failed: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"Date,Clicks,Views,Conversions,Revenue ($)",
		"2025-03-01,10,0,0,100.00",
		"Total Revenue,$700.00",
		"TOP PRODUCTS",
		"google.com,42,60.0%",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("CSV output missing %q", want)
		}
	}
}

func TestHTMLOutput(t *testing.T) {
	report := sampleReport(t)

	var buf bytes.Buffer
	if err := GenerateHTML(report, &buf); err != nil {
		t.Fatalf("GenerateHTML failed: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"<title>Affiliate Analytics Report - gearpicks.example</title>",
		"Standing Desk",
		"High Revenue Concentration Risk",
		`class="insight warning"`,
		"$700.00",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("HTML output missing %q", want)
		}
	}
}

func TestRenderDispatch(t *testing.T) {
	report := sampleReport(t)

	for _, format := range []ReportFormat{FormatMarkdown, FormatCSV, FormatHTML} {
		var buf bytes.Buffer
		if err := New(format).Render(report, &buf); err != nil {
			t.Errorf("Render(%s) failed: %v", format, err)
		}
		if buf.Len() == 0 {
			t.Errorf("Render(%s) produced no output", format)
		}
	}

	if err := New("pdf").Render(report, &bytes.Buffer{}); err == nil {
		t.Error("Expected error for unsupported format")
	}
}
