package reporter

import (
	"fmt"
	"io"
	"time"

	"github.com/clickreach/insight-engine/pkg/models"
)

// ReportFormat represents the output format
type ReportFormat string

const (
	FormatHTML     ReportFormat = "html"
	FormatMarkdown ReportFormat = "markdown"
	FormatCSV      ReportFormat = "csv"
)

// Report wraps an analytics report with the presentation metadata the
// renderers need.
type Report struct {
	SiteName    string
	RangeStart  time.Time
	RangeEnd    time.Time
	GeneratedAt time.Time
	Analytics   *models.AnalyticsReport

	ActionableCount int
	WarningCount    int
	BestDay         models.DailyBucket
}

// Reporter renders analytics reports for humans
type Reporter struct {
	format ReportFormat
}

// New creates a new reporter
func New(format ReportFormat) *Reporter {
	return &Reporter{
		format: format,
	}
}

// Generate builds the presentation wrapper around an analytics report.
func (r *Reporter) Generate(analytics *models.AnalyticsReport, siteName string, dr models.DateRange) (*Report, error) {
	if analytics == nil {
		return nil, fmt.Errorf("no analytics report to render")
	}

	report := &Report{
		SiteName:    siteName,
		RangeStart:  dr.Start,
		RangeEnd:    dr.End,
		GeneratedAt: time.Now(),
		Analytics:   analytics,
	}
	r.calculateStats(report)

	return report, nil
}

// Render writes the report in the configured format.
func (r *Reporter) Render(report *Report, w io.Writer) error {
	switch r.format {
	case FormatHTML:
		return GenerateHTML(report, w)
	case FormatMarkdown:
		return GenerateMarkdown(report, w)
	case FormatCSV:
		return GenerateCSV(report, w)
	default:
		return fmt.Errorf("unsupported report format: %s", r.format)
	}
}

// calculateStats derives the headline numbers the renderers show.
func (r *Reporter) calculateStats(report *Report) {
	for _, insight := range report.Analytics.Insights {
		if insight.Actionable {
			report.ActionableCount++
		}
		if insight.Type == models.InsightWarning {
			report.WarningCount++
		}
	}

	for _, bucket := range report.Analytics.TimeSeries {
		if bucket.Revenue > report.BestDay.Revenue {
			report.BestDay = bucket
		}
	}
}
