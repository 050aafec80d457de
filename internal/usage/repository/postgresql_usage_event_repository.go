package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/allisson/gateway/internal/database"
	apperrors "github.com/allisson/gateway/internal/errors"
	usageDomain "github.com/allisson/gateway/internal/usage/domain"
)

// PostgreSQLUsageEventRepository implements UsageEvent persistence for PostgreSQL.
// The ledger is append-only, events are never updated or deleted.
type PostgreSQLUsageEventRepository struct {
	db *sql.DB
}

// Create appends a UsageEvent to the ledger.
func (p *PostgreSQLUsageEventRepository) Create(ctx context.Context, event *usageDomain.UsageEvent) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO usage_events (id, api_key_id, timestamp, endpoint, latency_ms, status_code)
			  VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := querier.ExecContext(
		ctx,
		query,
		event.ID,
		event.APIKeyID,
		event.Timestamp,
		event.Endpoint,
		event.LatencyMS,
		event.StatusCode,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create usage event")
	}

	return nil
}

// CountByKeyAndWindow returns the number of ledger events for a key within
// [windowStart, windowEnd). The reconciliation sweep treats this as the
// authoritative count for the window.
func (p *PostgreSQLUsageEventRepository) CountByKeyAndWindow(
	ctx context.Context,
	apiKeyID uuid.UUID,
	windowStart, windowEnd time.Time,
) (int64, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT COUNT(*) FROM usage_events
			  WHERE api_key_id = $1 AND timestamp >= $2 AND timestamp < $3`

	var count int64
	if err := querier.QueryRowContext(ctx, query, apiKeyID, windowStart, windowEnd).Scan(&count); err != nil {
		return 0, apperrors.Wrap(err, "failed to count usage events")
	}

	return count, nil
}

// TotalByUser returns the number of ledger events across the user's keys
// within [from, to), optionally filtered to one API.
func (p *PostgreSQLUsageEventRepository) TotalByUser(
	ctx context.Context,
	userID uuid.UUID,
	apiID *uuid.UUID,
	from, to time.Time,
) (int64, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT COUNT(*)
			  FROM usage_events ue
			  JOIN api_keys ak ON ak.id = ue.api_key_id
			  WHERE ak.user_id = $1 AND ue.timestamp >= $2 AND ue.timestamp < $3`
	args := []any{userID, from, to}

	if apiID != nil {
		query += ` AND ak.api_id = $4`
		args = append(args, *apiID)
	}

	var count int64
	if err := querier.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, apperrors.Wrap(err, "failed to total usage events")
	}

	return count, nil
}

// PerDayByUser returns per-UTC-day event counts across the user's keys
// within [from, to), optionally filtered to one API, ordered by day.
func (p *PostgreSQLUsageEventRepository) PerDayByUser(
	ctx context.Context,
	userID uuid.UUID,
	apiID *uuid.UUID,
	from, to time.Time,
) ([]usageDomain.DayCount, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT DATE_TRUNC('day', ue.timestamp AT TIME ZONE 'UTC') AS day, COUNT(*)
			  FROM usage_events ue
			  JOIN api_keys ak ON ak.id = ue.api_key_id
			  WHERE ak.user_id = $1 AND ue.timestamp >= $2 AND ue.timestamp < $3`
	args := []any{userID, from, to}

	if apiID != nil {
		query += ` AND ak.api_id = $4`
		args = append(args, *apiID)
	}
	query += ` GROUP BY day ORDER BY day ASC`

	rows, err := querier.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list per-day usage")
	}
	defer func() {
		_ = rows.Close()
	}()

	// Initialize empty slice to avoid returning nil for empty results
	days := make([]usageDomain.DayCount, 0)
	for rows.Next() {
		var day usageDomain.DayCount
		if err := rows.Scan(&day.Day, &day.Count); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan per-day usage")
		}
		days = append(days, day)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate per-day usage")
	}

	return days, nil
}

// NewPostgreSQLUsageEventRepository creates a new PostgreSQL UsageEvent repository.
func NewPostgreSQLUsageEventRepository(db *sql.DB) *PostgreSQLUsageEventRepository {
	return &PostgreSQLUsageEventRepository{db: db}
}
