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

// MySQLQuotaRepository implements QuotaCounter persistence for MySQL.
// Uses BINARY(16) UUID types with transaction support via database.GetTx().
type MySQLQuotaRepository struct {
	db *sql.DB
}

// Reserve atomically increments the counter for the key's window if the
// current count is below the limit. MySQL reports zero affected rows when
// the IF leaves the counter unchanged, which signals denial. Callers must
// deny limit <= 0 before reaching the database.
func (m *MySQLQuotaRepository) Reserve(
	ctx context.Context,
	apiKeyID uuid.UUID,
	windowStart time.Time,
	limit int64,
) (count int64, admitted bool, err error) {
	querier := database.GetTx(ctx, m.db)

	query := `INSERT INTO quota_counters (api_key_id, window_start, count)
			  VALUES (?, ?, 1)
			  ON DUPLICATE KEY UPDATE count = IF(count < ?, count + 1, count)`

	id, err := apiKeyID.MarshalBinary()
	if err != nil {
		return 0, false, apperrors.Wrap(err, "failed to marshal api key id")
	}

	result, err := querier.ExecContext(ctx, query, id, windowStart, limit)
	if err != nil {
		return 0, false, apperrors.Wrap(err, "failed to reserve quota")
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, false, apperrors.Wrap(err, "failed to get rows affected")
	}
	if rowsAffected == 0 {
		return 0, false, nil
	}

	count, err = m.GetCount(ctx, apiKeyID, windowStart)
	if err != nil {
		return 0, false, err
	}

	return count, true, nil
}

// GetCount retrieves the counter value for the key's window. Returns zero
// when no reservation has been made in the window yet.
func (m *MySQLQuotaRepository) GetCount(
	ctx context.Context,
	apiKeyID uuid.UUID,
	windowStart time.Time,
) (int64, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT count FROM quota_counters WHERE api_key_id = ? AND window_start = ?`

	id, err := apiKeyID.MarshalBinary()
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to marshal api key id")
	}

	var count int64
	err = querier.QueryRowContext(ctx, query, id, windowStart).Scan(&count)
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
func (m *MySQLQuotaRepository) SetCount(
	ctx context.Context,
	apiKeyID uuid.UUID,
	windowStart time.Time,
	count int64,
) error {
	querier := database.GetTx(ctx, m.db)

	query := `INSERT INTO quota_counters (api_key_id, window_start, count)
			  VALUES (?, ?, ?)
			  ON DUPLICATE KEY UPDATE count = VALUES(count)`

	id, err := apiKeyID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal api key id")
	}

	if _, err := querier.ExecContext(ctx, query, id, windowStart, count); err != nil {
		return apperrors.Wrap(err, "failed to set quota count")
	}

	return nil
}

// ListCountersBefore retrieves counters for windows starting before the
// given time, ordered by window start, then key.
func (m *MySQLQuotaRepository) ListCountersBefore(
	ctx context.Context,
	before time.Time,
	limit int,
) ([]*usageDomain.QuotaCounter, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT api_key_id, window_start, count
			  FROM quota_counters
			  WHERE window_start < ?
			  ORDER BY window_start ASC, api_key_id ASC
			  LIMIT ?`

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
		var idBytes []byte
		if err := rows.Scan(&idBytes, &counter.WindowStart, &counter.Count); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan quota counter")
		}
		if err := counter.APIKeyID.UnmarshalBinary(idBytes); err != nil {
			return nil, apperrors.Wrap(err, "failed to unmarshal api key id")
		}
		counters = append(counters, &counter)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate quota counters")
	}

	return counters, nil
}

// NewMySQLQuotaRepository creates a new MySQL QuotaCounter repository.
func NewMySQLQuotaRepository(db *sql.DB) *MySQLQuotaRepository {
	return &MySQLQuotaRepository{db: db}
}
