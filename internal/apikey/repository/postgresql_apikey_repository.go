// Package repository implements data persistence for API keys.
//
// Provides PostgreSQL and MySQL implementations with transaction support via database.GetTx().
// PostgreSQL uses native UUID types, MySQL uses BINARY(16) types. Key lookups
// only ever return active keys, revoked keys stop resolving immediately.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	apikeyDomain "github.com/allisson/gateway/internal/apikey/domain"
	"github.com/allisson/gateway/internal/database"
	apperrors "github.com/allisson/gateway/internal/errors"
)

// PostgreSQLAPIKeyRepository implements APIKey persistence for PostgreSQL.
// Uses native UUID types with transaction support via database.GetTx().
type PostgreSQLAPIKeyRepository struct {
	db *sql.DB
}

// Create inserts a new APIKey into the PostgreSQL database.
func (p *PostgreSQLAPIKeyRepository) Create(ctx context.Context, apiKey *apikeyDomain.APIKey) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO api_keys (id, user_id, api_id, key, is_active, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := querier.ExecContext(
		ctx,
		query,
		apiKey.ID,
		apiKey.UserID,
		apiKey.APIID,
		apiKey.Key,
		apiKey.IsActive,
		apiKey.CreatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create api key")
	}

	return nil
}

// Get retrieves an APIKey by ID from the PostgreSQL database.
func (p *PostgreSQLAPIKeyRepository) Get(ctx context.Context, apiKeyID uuid.UUID) (*apikeyDomain.APIKey, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, user_id, api_id, key, is_active, created_at, revoked_at
			  FROM api_keys
			  WHERE id = $1`

	return p.scanAPIKey(querier.QueryRowContext(ctx, query, apiKeyID))
}

// GetActiveByKey retrieves the active APIKey matching the key value.
// Revoked keys never match.
func (p *PostgreSQLAPIKeyRepository) GetActiveByKey(ctx context.Context, key string) (*apikeyDomain.APIKey, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, user_id, api_id, key, is_active, created_at, revoked_at
			  FROM api_keys
			  WHERE key = $1 AND is_active = true`

	return p.scanAPIKey(querier.QueryRowContext(ctx, query, key))
}

// GetActiveByUserAndAPI retrieves the user's active APIKey for an API, if any.
func (p *PostgreSQLAPIKeyRepository) GetActiveByUserAndAPI(
	ctx context.Context,
	userID, apiID uuid.UUID,
) (*apikeyDomain.APIKey, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, user_id, api_id, key, is_active, created_at, revoked_at
			  FROM api_keys
			  WHERE user_id = $1 AND api_id = $2 AND is_active = true
			  ORDER BY id DESC
			  LIMIT 1`

	return p.scanAPIKey(querier.QueryRowContext(ctx, query, userID, apiID))
}

// ListByUser retrieves a user's API keys ordered by ID descending with pagination.
func (p *PostgreSQLAPIKeyRepository) ListByUser(
	ctx context.Context,
	userID uuid.UUID,
	offset, limit int,
) ([]*apikeyDomain.APIKey, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, user_id, api_id, key, is_active, created_at, revoked_at
			  FROM api_keys
			  WHERE user_id = $1
			  ORDER BY id DESC
			  LIMIT $2 OFFSET $3`

	rows, err := querier.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list api keys")
	}
	defer func() {
		_ = rows.Close()
	}()

	// Initialize empty slice to avoid returning nil for empty results
	apiKeys := make([]*apikeyDomain.APIKey, 0)
	for rows.Next() {
		var apiKey apikeyDomain.APIKey
		var revokedAt sql.NullTime

		err := rows.Scan(
			&apiKey.ID,
			&apiKey.UserID,
			&apiKey.APIID,
			&apiKey.Key,
			&apiKey.IsActive,
			&apiKey.CreatedAt,
			&revokedAt,
		)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan api key")
		}

		if revokedAt.Valid {
			apiKey.RevokedAt = &revokedAt.Time
		}
		apiKeys = append(apiKeys, &apiKey)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate api keys")
	}

	return apiKeys, nil
}

// Deactivate revokes an active APIKey, recording the revocation time.
// Returns ErrAPIKeyNotFound if the key doesn't exist or is already revoked.
func (p *PostgreSQLAPIKeyRepository) Deactivate(ctx context.Context, apiKeyID uuid.UUID, revokedAt time.Time) error {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE api_keys
			  SET is_active = false, revoked_at = $1
			  WHERE id = $2 AND is_active = true`

	result, err := querier.ExecContext(ctx, query, revokedAt, apiKeyID)
	if err != nil {
		return apperrors.Wrap(err, "failed to deactivate api key")
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to get rows affected")
	}
	if rowsAffected == 0 {
		return apikeyDomain.ErrAPIKeyNotFound
	}

	return nil
}

func (p *PostgreSQLAPIKeyRepository) scanAPIKey(row *sql.Row) (*apikeyDomain.APIKey, error) {
	var apiKey apikeyDomain.APIKey
	var revokedAt sql.NullTime

	err := row.Scan(
		&apiKey.ID,
		&apiKey.UserID,
		&apiKey.APIID,
		&apiKey.Key,
		&apiKey.IsActive,
		&apiKey.CreatedAt,
		&revokedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apikeyDomain.ErrAPIKeyNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get api key")
	}

	if revokedAt.Valid {
		apiKey.RevokedAt = &revokedAt.Time
	}

	return &apiKey, nil
}

// NewPostgreSQLAPIKeyRepository creates a new PostgreSQL APIKey repository.
func NewPostgreSQLAPIKeyRepository(db *sql.DB) *PostgreSQLAPIKeyRepository {
	return &PostgreSQLAPIKeyRepository{db: db}
}
