package reporter

import (
	"fmt"
	"html/template"
	"io"
)

const htmlTemplate = `
<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Affiliate Analytics Report - {{.SiteName}}</title>
    <style>
        * {
            margin: 0;
            padding: 0;
            box-sizing: border-box;
        }
        body {
            font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, 'Helvetica Neue', Arial, sans-serif;
            background: #f5f7fa;
            color: #333;
            padding: 20px;
            line-height: 1.6;
        }
        .container {
            max-width: 1200px;
            margin: 0 auto;
            background: white;
            border-radius: 8px;
            box-shadow: 0 2px 8px rgba(0, 0, 0, 0.1);
            overflow: hidden;
        }
        .header {
            background: linear-gradient(135deg, #3b82f6 0%, #1e40af 100%);
            color: white;
            padding: 40px;
        }
        .header h1 {
            font-size: 2.2em;
            margin-bottom: 10px;
        }
        .header .meta {
            opacity: 0.95;
        }
        .summary {
            display: grid;
            grid-template-columns: repeat(auto-fit, minmax(220px, 1fr));
            gap: 20px;
            padding: 30px 40px;
        }
        .summary-card {
            background: white;
            padding: 24px;
            border-radius: 10px;
            border: 1px solid #e8eaed;
        }
        .summary-card h3 {
            color: #5f6368;
            font-size: 0.8em;
            text-transform: uppercase;
            letter-spacing: 1px;
            margin-bottom: 10px;
        }
        .summary-card .value {
            font-size: 2.2em;
            font-weight: 700;
        }
        .summary-card.revenue { border-left: 5px solid #10b981; }
        .summary-card.revenue .value { color: #10b981; }
        .summary-card.clicks { border-left: 5px solid #3b82f6; }
        .summary-card.clicks .value { color: #3b82f6; }
        .summary-card.forecast { border-left: 5px solid #8b5cf6; }
        .summary-card.forecast .value { color: #8b5cf6; }
        .section {
            padding: 20px 40px 40px;
        }
        .section h2 {
            margin-bottom: 16px;
            color: #202124;
        }
        table {
            width: 100%;
            border-collapse: collapse;
        }
        th, td {
            text-align: left;
            padding: 10px 12px;
            border-bottom: 1px solid #e8eaed;
        }
        th {
            color: #5f6368;
            font-size: 0.85em;
            text-transform: uppercase;
        }
        .insight {
            border: 1px solid #e8eaed;
            border-radius: 8px;
            padding: 18px;
            margin-bottom: 14px;
        }
        .insight.success { border-left: 5px solid #10b981; }
        .insight.warning { border-left: 5px solid #f59e0b; }
        .insight.opportunity { border-left: 5px solid #3b82f6; }
        .insight h3 { margin-bottom: 6px; }
        .insight .impact {
            font-size: 0.8em;
            text-transform: uppercase;
            color: #5f6368;
        }
        .insight ul {
            margin: 8px 0 0 20px;
        }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h1>Affiliate Analytics Report</h1>
            <div class="meta">
                <strong>{{.SiteName}}</strong> &middot;
                {{.RangeStart.Format "Jan 2, 2006"}} to {{.RangeEnd.Format "Jan 2, 2006"}} &middot;
                generated {{.GeneratedAt.Format "Jan 2, 2006 15:04"}}
            </div>
        </div>

        <div class="summary">
            <div class="summary-card revenue">
                <h3>Total Revenue</h3>
                <div class="value">{{money .Analytics.Overview.TotalRevenue}}</div>
            </div>
            <div class="summary-card clicks">
                <h3>Total Clicks</h3>
                <div class="value">{{.Analytics.Overview.TotalClicks}}</div>
            </div>
            <div class="summary-card clicks">
                <h3>Conversion Rate</h3>
                <div class="value">{{pct .Analytics.Overview.ConversionRate}}</div>
            </div>
            <div class="summary-card forecast">
                <h3>Next Week Forecast</h3>
                <div class="value">{{money .Analytics.Predictions.NextWeek.Revenue}}</div>
            </div>
        </div>

        {{if .Analytics.TopProducts}}
        <div class="section">
            <h2>Top Products</h2>
            <table>
                <tr><th>Product</th><th>Clicks</th><th>Conversions</th><th>Revenue</th><th>CR</th><th>Trend</th></tr>
                {{range .Analytics.TopProducts}}
                <tr>
                    <td>{{.Name}}</td>
                    <td>{{.Clicks}}</td>
                    <td>{{.Conversions}}</td>
                    <td>{{money .Revenue}}</td>
                    <td>{{pct .ConversionRate}}</td>
                    <td>{{.Trend}}</td>
                </tr>
                {{end}}
            </table>
        </div>
        {{end}}

        {{if .Analytics.TrafficSources}}
        <div class="section">
            <h2>Traffic Sources</h2>
            <table>
                <tr><th>Source</th><th>Clicks</th><th>Share</th></tr>
                {{range .Analytics.TrafficSources}}
                <tr>
                    <td>{{.Source}}</td>
                    <td>{{.Clicks}}</td>
                    <td>{{pct .Percentage}}</td>
                </tr>
                {{end}}
            </table>
        </div>
        {{end}}

        {{if .Analytics.Insights}}
        <div class="section">
            <h2>Insights</h2>
            {{range .Analytics.Insights}}
            <div class="insight {{.Type}}">
                <h3>{{.Title}}</h3>
                <div class="impact">{{.Impact}} impact &middot; confidence {{pct (mul .Confidence 100)}}</div>
                <p>{{.Description}}</p>
                {{if .Actions}}
                <ul>
                    {{range .Actions}}<li>{{.}}</li>{{end}}
                </ul>
                {{end}}
            </div>
            {{end}}
        </div>
        {{end}}
    </div>
</body>
</html>
`

// GenerateHTML creates an HTML report
func GenerateHTML(report *Report, writer io.Writer) error {
	tmpl, err := template.New("report").Funcs(template.FuncMap{
		"money": func(v float64) string { return fmt.Sprintf("$%.2f", v) },
		"pct":   func(v float64) string { return fmt.Sprintf("%.1f%%", v) },
		"mul":   func(a, b float64) float64 { return a * b },
	}).Parse(htmlTemplate)
	if err != nil {
		return fmt.Errorf("failed to parse HTML template: %w", err)
	}

	if err := tmpl.Execute(writer, report); err != nil {
		return fmt.Errorf("failed to render HTML report: %w", err)
	}
	return nil
}
