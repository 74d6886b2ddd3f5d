package storage

import (
	"context"
	"time"

	"github.com/clickreach/insight-engine/pkg/models"
)

// ReportSummary is one row of the saved-report listing.
type ReportSummary struct {
	ID           string    `json:"id"`
	RangeStart   time.Time `json:"rangeStart"`
	RangeEnd     time.Time `json:"rangeEnd"`
	TotalRevenue float64   `json:"totalRevenue"`
	InsightCount int       `json:"insightCount"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Store defines the interface for persistent storage.
type Store interface {
	LoadEvents(ctx context.Context, dr models.DateRange) ([]models.Event, error)
	LoadConversions(ctx context.Context, dr models.DateRange) ([]models.ConversionEvent, error)

	SaveReport(ctx context.Context, dr models.DateRange, report *models.AnalyticsReport) (string, error)
	GetReport(ctx context.Context, id string) (*models.AnalyticsReport, error)
	ListReports(ctx context.Context, limit int) ([]ReportSummary, error)

	Ping(ctx context.Context) error
	Close() error
}
