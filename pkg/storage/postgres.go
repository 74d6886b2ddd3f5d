package storage

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"

	"github.com/clickreach/insight-engine/pkg/models"
)

//go:embed migrations/*.sql
var postgresFS embed.FS

// PostgresStore implements Store using PostgreSQL.
type PostgresStore struct {
	db  *sql.DB
	dsn string
}

// NewPostgresStore opens a connection pool, verifies connectivity, and
// applies the schema migrations.
func NewPostgresStore(dsn string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store := &PostgresStore{
		db:  db,
		dsn: dsn,
	}

	if err := store.migrate(); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// migrate runs database migrations
func (s *PostgresStore) migrate() error {
	schema, err := postgresFS.ReadFile("migrations/001_postgres_schema.sql")
	if err != nil {
		return fmt.Errorf("failed to read schema: %w", err)
	}

	if _, err := s.db.Exec(string(schema)); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}

	return nil
}

// LoadEvents fetches raw tracking events whose timestamp falls on a day
// inside the range. Timestamps are re-encoded as RFC3339 strings, the
// format the pipeline parses.
func (s *PostgresStore) LoadEvents(ctx context.Context, dr models.DateRange) ([]models.Event, error) {
	query := `
		SELECT occurred_at, kind, product_id, product_title, referrer_domain
		FROM events
		WHERE occurred_at >= $1 AND occurred_at < $2
		ORDER BY occurred_at
	`

	rows, err := s.db.QueryContext(ctx, query, models.DayOf(dr.Start), models.DayOf(dr.End).AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []models.Event
	for rows.Next() {
		var occurredAt time.Time
		var kind string
		var productID, productTitle, referrer sql.NullString

		if err := rows.Scan(&occurredAt, &kind, &productID, &productTitle, &referrer); err != nil {
			return nil, err
		}

		events = append(events, models.Event{
			Timestamp:      occurredAt.UTC().Format(time.RFC3339),
			Kind:           models.EventKind(kind),
			ProductID:      productID.String,
			ProductTitle:   productTitle.String,
			ReferrerDomain: referrer.String,
		})
	}

	return events, rows.Err()
}

// LoadConversions fetches conversions for the range, same encoding rules
// as LoadEvents.
func (s *PostgresStore) LoadConversions(ctx context.Context, dr models.DateRange) ([]models.ConversionEvent, error) {
	query := `
		SELECT occurred_at, product_id, order_value
		FROM conversions
		WHERE occurred_at >= $1 AND occurred_at < $2
		ORDER BY occurred_at
	`

	rows, err := s.db.QueryContext(ctx, query, models.DayOf(dr.Start), models.DayOf(dr.End).AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var conversions []models.ConversionEvent
	for rows.Next() {
		var occurredAt time.Time
		var productID string
		var orderValue float64

		if err := rows.Scan(&occurredAt, &productID, &orderValue); err != nil {
			return nil, err
		}

		conversions = append(conversions, models.ConversionEvent{
			Timestamp:  occurredAt.UTC().Format(time.RFC3339),
			ProductID:  productID,
			OrderValue: orderValue,
		})
	}

	return conversions, rows.Err()
}

// SaveReport persists the full report as jsonb plus one row per insight,
// inside a single transaction. Returns the new report id.
func (s *PostgresStore) SaveReport(ctx context.Context, dr models.DateRange, report *models.AnalyticsReport) (string, error) {
	payload, err := json.Marshal(report)
	if err != nil {
		return "", fmt.Errorf("failed to encode report: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", err
	}
	defer tx.Rollback()

	id := uuid.New().String()
	_, err = tx.ExecContext(ctx, `
		INSERT INTO reports (id, range_start, range_end, total_revenue, payload, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, id, models.DayOf(dr.Start), models.DayOf(dr.End), report.Overview.TotalRevenue, payload, time.Now().UTC())
	if err != nil {
		return "", err
	}

	for i, insight := range report.Insights {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO report_insights (id, report_id, position, type, title, description, impact, actionable, confidence)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		`, uuid.New().String(), id, i, insight.Type, insight.Title, insight.Description,
			insight.Impact, insight.Actionable, insight.Confidence)
		if err != nil {
			return "", err
		}
	}

	if err := tx.Commit(); err != nil {
		return "", err
	}
	return id, nil
}

// GetReport retrieves a saved report by id.
func (s *PostgresStore) GetReport(ctx context.Context, id string) (*models.AnalyticsReport, error) {
	var payload []byte
	err := s.db.QueryRowContext(ctx, `SELECT payload FROM reports WHERE id = $1`, id).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("report not found: %s", id)
	}
	if err != nil {
		return nil, err
	}

	var report models.AnalyticsReport
	if err := json.Unmarshal(payload, &report); err != nil {
		return nil, fmt.Errorf("failed to decode report %s: %w", id, err)
	}
	return &report, nil
}

// ListReports returns the most recent saved reports, newest first.
func (s *PostgresStore) ListReports(ctx context.Context, limit int) ([]ReportSummary, error) {
	query := `
		SELECT r.id, r.range_start, r.range_end, r.total_revenue, r.created_at,
			(SELECT COUNT(*) FROM report_insights i WHERE i.report_id = r.id) AS insight_count
		FROM reports r
		ORDER BY r.created_at DESC
		LIMIT $1
	`

	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var summaries []ReportSummary
	for rows.Next() {
		var sum ReportSummary
		if err := rows.Scan(&sum.ID, &sum.RangeStart, &sum.RangeEnd, &sum.TotalRevenue, &sum.CreatedAt, &sum.InsightCount); err != nil {
			return nil, err
		}
		summaries = append(summaries, sum)
	}

	return summaries, rows.Err()
}

// Ping checks database connectivity.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database connection.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}
