package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/clickreach/insight-engine/pkg/config"
	"github.com/clickreach/insight-engine/pkg/engine"
	"github.com/clickreach/insight-engine/pkg/insights"
	"github.com/clickreach/insight-engine/pkg/models"
	"github.com/clickreach/insight-engine/pkg/reporter"
	"github.com/clickreach/insight-engine/pkg/storage"
)

var (
	// Report flags
	startDate       string
	endDate         string
	eventsFile      string
	conversionsFile string
	siteName        string
	outputFormat    string
	saveResults     bool
	verbose         bool
	generateReport  bool
	reportFormat    string
	reportOutput    string

	// Global config
	cfg    *config.Config
	store  storage.Store
	logger *logrus.Logger

	// History command vars
	historyLimit int
)

func main() {
	cfg = config.NewConfig()

	var rootCmd = &cobra.Command{
		Use:   "insight-report",
		Short: "Affiliate analytics report generator",
		Long:  `Aggregate tracking events into daily metrics, forecast revenue, and surface prioritized insights for an affiliate site.`,
		Run:   runReport,
	}

	rootCmd.PersistentFlags().StringVar(&eventsFile, "events-file", "", "JSON file with tracking events (uses database when empty)")
	rootCmd.PersistentFlags().StringVar(&conversionsFile, "conversions-file", "", "JSON file with conversion events")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")

	rootCmd.Flags().StringVar(&startDate, "start", "", "Range start (YYYY-MM-DD), default 30 days ago")
	rootCmd.Flags().StringVar(&endDate, "end", "", "Range end (YYYY-MM-DD), default today")
	rootCmd.Flags().StringVar(&siteName, "site", "default", "Site name for report headers")
	rootCmd.Flags().StringVarP(&outputFormat, "output", "o", "", "Output format: text, json")
	rootCmd.Flags().BoolVar(&saveResults, "save", false, "Save the report to the database")
	rootCmd.Flags().BoolVar(&generateReport, "generate-report", false, "Write a rendered report file")
	rootCmd.Flags().StringVar(&reportFormat, "report-format", "html", "Report format: html, markdown, csv")
	rootCmd.Flags().StringVar(&reportOutput, "report-output", "", "Output file for the rendered report")

	realtimeCmd := &cobra.Command{
		Use:   "realtime",
		Short: "Show a live snapshot of the last 24 hours",
		Run:   runRealtime,
	}

	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "List saved reports",
		Run:   runHistory,
	}
	historyCmd.Flags().IntVar(&historyLimit, "limit", 10, "Number of reports to show")

	watchCmd := &cobra.Command{
		Use:   "watch",
		Short: "Rebuild the report on an interval and expose metrics",
		Run:   runWatch,
	}

	rootCmd.AddCommand(realtimeCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(watchCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func setupLogger() *logrus.Logger {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	if verbose {
		level = logrus.DebugLevel
	}
	log.SetLevel(level)
	return log
}

func resolveRange() (models.DateRange, error) {
	end := endDate
	if end == "" {
		end = time.Now().UTC().Format("2006-01-02")
	}
	start := startDate
	if start == "" {
		s, err := time.Parse("2006-01-02", end)
		if err != nil {
			return models.DateRange{}, fmt.Errorf("invalid end date %q: %w", end, err)
		}
		start = s.AddDate(0, 0, -29).Format("2006-01-02")
	}
	return models.NewDateRange(start, end)
}

func initStorage() error {
	var err error
	store, err = storage.NewPostgresStore(cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	return nil
}

// loadData reads the event and conversion streams either from JSON files
// or from the database. Database loads reach back over the preceding
// window of equal length so the growth comparison has its baseline.
func loadData(ctx context.Context, dr models.DateRange) ([]models.Event, []models.ConversionEvent, error) {
	if eventsFile != "" || conversionsFile != "" {
		var events []models.Event
		var conversions []models.ConversionEvent
		if eventsFile != "" {
			if err := readJSONFile(eventsFile, &events); err != nil {
				return nil, nil, err
			}
		}
		if conversionsFile != "" {
			if err := readJSONFile(conversionsFile, &conversions); err != nil {
				return nil, nil, err
			}
		}
		return events, conversions, nil
	}

	if store == nil {
		if err := initStorage(); err != nil {
			return nil, nil, err
		}
	}

	loadRange := models.DateRange{Start: dr.Previous().Start, End: dr.End}
	events, err := store.LoadEvents(ctx, loadRange)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load events: %w", err)
	}
	conversions, err := store.LoadConversions(ctx, loadRange)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load conversions: %w", err)
	}
	return events, conversions, nil
}

func readJSONFile(path string, out interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}

func newEngine(m *engine.Metrics) *engine.Engine {
	opts := []engine.Option{
		engine.WithBenchmarks(insights.Benchmarks{
			ConversionRate:    cfg.ConversionBenchmark,
			AverageOrderValue: cfg.AOVBenchmark,
		}),
		engine.WithLimits(cfg.TopProductLimit, cfg.TopSourceLimit),
		engine.WithLogger(logger),
	}
	if m != nil {
		opts = append(opts, engine.WithMetrics(m))
	}
	return engine.New(opts...)
}

func runReport(cmd *cobra.Command, args []string) {
	logger = setupLogger()

	if outputFormat == "" {
		outputFormat = cfg.OutputFormat
	}
	if outputFormat != "text" && outputFormat != "json" {
		fmt.Fprintln(os.Stderr, "Error: output must be text or json")
		os.Exit(1)
	}

	dr, err := resolveRange()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	events, conversions, err := loadData(ctx, dr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if store != nil {
		defer store.Close()
	}

	logger.WithFields(logrus.Fields{
		"start":       dr.Start.Format("2006-01-02"),
		"end":         dr.End.Format("2006-01-02"),
		"events":      len(events),
		"conversions": len(conversions),
	}).Debug("input loaded")

	report, err := newEngine(nil).BuildReport(ctx, events, conversions, dr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if saveResults {
		if store == nil {
			if err := initStorage(); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
			defer store.Close()
		}
		id, err := store.SaveReport(ctx, dr, report)
		if err != nil {
			fmt.Fprintf(os.Stderr, "[WARN] Failed to save report: %v\n", err)
		} else {
			logger.WithField("id", id).Info("report saved")
		}
	}

	switch outputFormat {
	case "json":
		outputJSON(report)
	default:
		outputText(report, dr)
	}

	if generateReport {
		if err := writeRenderedReport(report, dr); err != nil {
			fmt.Fprintf(os.Stderr, "[ERROR] Failed to generate report: %v\n", err)
		}
	}
}

func runRealtime(cmd *cobra.Command, args []string) {
	logger = setupLogger()

	now := time.Now().UTC()
	dr := models.DateRange{Start: models.DayOf(now.AddDate(0, 0, -1)), End: models.DayOf(now)}

	ctx := context.Background()
	events, conversions, err := loadData(ctx, dr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if store != nil {
		defer store.Close()
	}

	snap := newEngine(nil).RealtimeSnapshot(events, conversions, now)

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(snap); err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding JSON: %v\n", err)
		os.Exit(1)
	}
}

func runHistory(cmd *cobra.Command, args []string) {
	logger = setupLogger()

	if err := initStorage(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	summaries, err := store.ListReports(context.Background(), historyLimit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if len(summaries) == 0 {
		fmt.Println("No saved reports found")
		return
	}

	fmt.Println("Recent reports:")
	fmt.Println()
	for i, sum := range summaries {
		fmt.Printf("%d. %s to %s (ID: %s)\n", i+1,
			sum.RangeStart.Format("2006-01-02"), sum.RangeEnd.Format("2006-01-02"), sum.ID)
		fmt.Printf("   Revenue: $%.2f\n", sum.TotalRevenue)
		fmt.Printf("   Insights: %d\n", sum.InsightCount)
		fmt.Printf("   Created: %s\n", sum.CreatedAt.Format("2006-01-02 15:04:05"))
		fmt.Println()
	}
}

func runWatch(cmd *cobra.Command, args []string) {
	logger = setupLogger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := engine.NewMetrics(prometheus.DefaultRegisterer)
	eng := newEngine(m)

	server := &http.Server{
		Addr:    cfg.MetricsListenAddr,
		Handler: promhttp.Handler(),
	}
	go func() {
		logger.WithField("addr", cfg.MetricsListenAddr).Info("metrics endpoint listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Error("metrics server failed")
		}
	}()

	build := func() {
		dr, err := resolveRange()
		if err != nil {
			logger.WithError(err).Error("invalid range")
			return
		}
		events, conversions, err := loadData(ctx, dr)
		if err != nil {
			logger.WithError(err).Error("failed to load data")
			return
		}
		report, err := eng.BuildReport(ctx, events, conversions, dr)
		if err != nil {
			logger.WithError(err).Error("report build failed")
			return
		}
		if store != nil {
			if _, err := store.SaveReport(ctx, dr, report); err != nil {
				logger.WithError(err).Warn("failed to save report")
			}
		}
	}

	build()
	ticker := time.NewTicker(cfg.WatchInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			build()
		case <-ctx.Done():
			logger.Info("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = server.Shutdown(shutdownCtx)
			if store != nil {
				store.Close()
			}
			return
		}
	}
}

func outputText(report *models.AnalyticsReport, dr models.DateRange) {
	fmt.Printf("=== Affiliate Analytics: %s to %s ===\n\n",
		dr.Start.Format("2006-01-02"), dr.End.Format("2006-01-02"))

	o := report.Overview
	fmt.Printf("Clicks: %d  Views: %d  Conversions: %d\n", o.TotalClicks, o.TotalViews, o.TotalConversions)
	fmt.Printf("Revenue: $%.2f  (growth %.1f%%)\n", o.TotalRevenue, o.RevenueGrowth)
	fmt.Printf("Conversion rate: %.2f%%  CTR: %.2f%%  AOV: $%.2f\n\n", o.ConversionRate, o.ClickThroughRate, o.AverageOrderValue)

	p := report.Predictions
	fmt.Printf("Forecast: $%.0f next week, $%.0f next month (%s trend, confidence %.0f%%)\n",
		p.NextWeek.Revenue, p.NextMonth.Revenue, p.Trend, p.Confidence*100)
	for _, factor := range p.Factors {
		fmt.Printf("  - %s\n", factor)
	}
	fmt.Println()

	if len(report.TopProducts) > 0 {
		fmt.Println("Top products:")
		for i, product := range report.TopProducts {
			fmt.Printf("%d. %s: $%.2f from %d conversions (%d clicks, %.2f%% CR, trend %s)\n",
				i+1, product.Name, product.Revenue, product.Conversions, product.Clicks, product.ConversionRate, product.Trend)
		}
		fmt.Println()
	}

	if len(report.TrafficSources) > 0 {
		fmt.Println("Traffic sources:")
		for _, source := range report.TrafficSources {
			fmt.Printf("  %-24s %5d clicks  %5.1f%%\n", source.Source, source.Clicks, source.Percentage)
		}
		fmt.Println()
	}

	if len(report.Insights) > 0 {
		fmt.Println("Insights:")
		for i, insight := range report.Insights {
			fmt.Printf("%d. [%s/%s] %s\n", i+1, strings.ToUpper(string(insight.Type)), insight.Impact, insight.Title)
			fmt.Printf("   %s\n", insight.Description)
			for _, action := range insight.Actions {
				fmt.Printf("   -> %s\n", action)
			}
		}
	}
}

func outputJSON(report *models.AnalyticsReport) {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(report); err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding JSON: %v\n", err)
		os.Exit(1)
	}
}

func writeRenderedReport(report *models.AnalyticsReport, dr models.DateRange) error {
	rep := reporter.New(reporter.ReportFormat(reportFormat))

	rendered, err := rep.Generate(report, siteName, dr)
	if err != nil {
		return fmt.Errorf("failed to generate report: %w", err)
	}

	reportsDir := "reports"
	if err := os.MkdirAll(reportsDir, 0755); err != nil {
		return fmt.Errorf("failed to create reports directory: %w", err)
	}

	outputFile := reportOutput
	if outputFile == "" {
		var ext string
		switch reportFormat {
		case "markdown", "md":
			ext = ".md"
		case "csv":
			ext = ".csv"
		default:
			ext = ".html"
		}
		timestamp := time.Now().Format("20060102-150405")
		outputFile = fmt.Sprintf("%s/analytics-%s-%s%s", reportsDir, siteName, timestamp, ext)
	} else if !strings.Contains(outputFile, "/") {
		outputFile = filepath.Join(reportsDir, outputFile)
	}

	file, err := os.Create(outputFile)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	defer file.Close()

	if err := rep.Render(rendered, file); err != nil {
		return err
	}

	fmt.Printf("\n[INFO] %s report generated: %s\n", strings.ToUpper(reportFormat), outputFile)
	if reportFormat == "html" {
		absPath, _ := filepath.Abs(outputFile)
		fmt.Printf("[INFO] Open in browser: file://%s\n", absPath)
	}

	return nil
}
