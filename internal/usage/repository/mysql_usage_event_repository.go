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

// MySQLUsageEventRepository implements UsageEvent persistence for MySQL.
// The ledger is append-only, events are never updated or deleted.
type MySQLUsageEventRepository struct {
	db *sql.DB
}

// Create appends a UsageEvent to the ledger.
func (m *MySQLUsageEventRepository) Create(ctx context.Context, event *usageDomain.UsageEvent) error {
	querier := database.GetTx(ctx, m.db)

	query := `INSERT INTO usage_events (id, api_key_id, timestamp, endpoint, latency_ms, status_code)
			  VALUES (?, ?, ?, ?, ?, ?)`

	id, err := event.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal usage event id")
	}

	apiKeyID, err := event.APIKeyID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal api key id")
	}

	_, err = querier.ExecContext(
		ctx,
		query,
		id,
		apiKeyID,
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
// [windowStart, windowEnd).
func (m *MySQLUsageEventRepository) CountByKeyAndWindow(
	ctx context.Context,
	apiKeyID uuid.UUID,
	windowStart, windowEnd time.Time,
) (int64, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT COUNT(*) FROM usage_events
			  WHERE api_key_id = ? AND timestamp >= ? AND timestamp < ?`

	id, err := apiKeyID.MarshalBinary()
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to marshal api key id")
	}

	var count int64
	if err := querier.QueryRowContext(ctx, query, id, windowStart, windowEnd).Scan(&count); err != nil {
		return 0, apperrors.Wrap(err, "failed to count usage events")
	}

	return count, nil
}

// TotalByUser returns the number of ledger events across the user's keys
// within [from, to), optionally filtered to one API.
func (m *MySQLUsageEventRepository) TotalByUser(
	ctx context.Context,
	userID uuid.UUID,
	apiID *uuid.UUID,
	from, to time.Time,
) (int64, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT COUNT(*)
			  FROM usage_events ue
			  JOIN api_keys ak ON ak.id = ue.api_key_id
			  WHERE ak.user_id = ? AND ue.timestamp >= ? AND ue.timestamp < ?`

	userIDBytes, err := userID.MarshalBinary()
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to marshal user id")
	}
	args := []any{userIDBytes, from, to}

	if apiID != nil {
		apiIDBytes, err := apiID.MarshalBinary()
		if err != nil {
			return 0, apperrors.Wrap(err, "failed to marshal api id")
		}
		query += ` AND ak.api_id = ?`
		args = append(args, apiIDBytes)
	}

	var count int64
	if err := querier.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, apperrors.Wrap(err, "failed to total usage events")
	}

	return count, nil
}

// PerDayByUser returns per-UTC-day event counts across the user's keys
// within [from, to), optionally filtered to one API, ordered by day.
func (m *MySQLUsageEventRepository) PerDayByUser(
	ctx context.Context,
	userID uuid.UUID,
	apiID *uuid.UUID,
	from, to time.Time,
) ([]usageDomain.DayCount, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT DATE(ue.timestamp) AS day, COUNT(*)
			  FROM usage_events ue
			  JOIN api_keys ak ON ak.id = ue.api_key_id
			  WHERE ak.user_id = ? AND ue.timestamp >= ? AND ue.timestamp < ?`

	userIDBytes, err := userID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal user id")
	}
	args := []any{userIDBytes, from, to}

	if apiID != nil {
		apiIDBytes, err := apiID.MarshalBinary()
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to marshal api id")
		}
		query += ` AND ak.api_id = ?`
		args = append(args, apiIDBytes)
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

// NewMySQLUsageEventRepository creates a new MySQL UsageEvent repository.
func NewMySQLUsageEventRepository(db *sql.DB) *MySQLUsageEventRepository {
	return &MySQLUsageEventRepository{db: db}
}
