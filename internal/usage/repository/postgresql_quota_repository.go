// Package repository implements data persistence for usage accounting.
//
// Provides PostgreSQL and MySQL implementations with transaction support via database.GetTx().
// PostgreSQL uses native UUID types, MySQL uses BINARY(16) types. The quota
// reservation is a single conditional-increment statement per dialect, the
// database enforces the limit so concurrent reservations can never admit
// past it.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/allisson/gateway/internal/database"
	apperrors "github.com/allisson/gateway/internal/errors"
	usageDomain "github.com/allisson/gateway/internal/usage/domain"
)

// PostgreSQLQuotaRepository implements QuotaCounter persistence for PostgreSQL.
// Uses native UUID types with transaction support via database.GetTx().
type PostgreSQLQuotaRepository struct {
	db *sql.DB
}

// Reserve atomically increments the counter for the key's window if the
// current count is below the limit. Returns the count after the increment
// and whether the reservation was admitted. Callers must deny limit <= 0
// before reaching the database, a zero limit row would otherwise be created
// without ever admitting.
func (p *PostgreSQLQuotaRepository) Reserve(
	ctx context.Context,
	apiKeyID uuid.UUID,
	windowStart time.Time,
	limit int64,
) (count int64, admitted bool, err error) {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO quota_counters (api_key_id, window_start, count)
			  VALUES ($1, $2, 1)
			  ON CONFLICT (api_key_id, window_start)
			  DO UPDATE SET count = quota_counters.count + 1
			  WHERE quota_counters.count < $3
			  RETURNING count`

	err = querier.QueryRowContext(ctx, query, apiKeyID, windowStart, limit).Scan(&count)
	if err != nil {
		// No row returned means the conditional update found the counter at
		// or above the limit.
		if errors.Is(err, sql.ErrNoRows) {
			return 0, false, nil
		}
		return 0, false, apperrors.Wrap(err, "failed to reserve quota")
	}

	return count, true, nil
}

// GetCount retrieves the counter value for the key's window. Returns zero
// when no reservation has been made in the window yet.
func (p *PostgreSQLQuotaRepository) GetCount(
	ctx context.Context,
	apiKeyID uuid.UUID,
	windowStart time.Time,
) (int64, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT count FROM quota_counters WHERE api_key_id = $1 AND window_start = $2`

	var count int64
	err := querier.QueryRowContext(ctx, query, apiKeyID, windowStart).Scan(&count)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}
		return 0, apperrors.Wrap(err, "failed to get quota count")
	}

	return count, nil
}

// SetCount overwrites the counter value for the key's window. Used by the
// reconciliation sweep to rewrite counters from the ledger.
func (p *PostgreSQLQuotaRepository) SetCount(
	ctx context.Context,
	apiKeyID uuid.UUID,
	windowStart time.Time,
	count int64,
) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO quota_counters (api_key_id, window_start, count)
			  VALUES ($1, $2, $3)
			  ON CONFLICT (api_key_id, window_start)
			  DO UPDATE SET count = EXCLUDED.count`

	if _, err := querier.ExecContext(ctx, query, apiKeyID, windowStart, count); err != nil {
		return apperrors.Wrap(err, "failed to set quota count")
	}

	return nil
}

// ListCountersBefore retrieves counters for windows starting before the
// given time, ordered by window start, then key.
func (p *PostgreSQLQuotaRepository) ListCountersBefore(
	ctx context.Context,
	before time.Time,
	limit int,
) ([]*usageDomain.QuotaCounter, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT api_key_id, window_start, count
			  FROM quota_counters
			  WHERE window_start < $1
			  ORDER BY window_start ASC, api_key_id ASC
			  LIMIT $2`

	rows, err := querier.QueryContext(ctx, query, before, limit)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list quota counters")
	}
	defer func() {
		_ = rows.Close()
	}()

	// Initialize empty slice to avoid returning nil for empty results
	counters := make([]*usageDomain.QuotaCounter, 0)
	for rows.Next() {
		var counter usageDomain.QuotaCounter
		if err := rows.Scan(&counter.APIKeyID, &counter.WindowStart, &counter.Count); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan quota counter")
		}
		counters = append(counters, &counter)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate quota counters")
	}

	return counters, nil
}

// NewPostgreSQLQuotaRepository creates a new PostgreSQL QuotaCounter repository.
func NewPostgreSQLQuotaRepository(db *sql.DB) *PostgreSQLQuotaRepository {
	return &PostgreSQLQuotaRepository{db: db}
}
