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

// MySQLAPIKeyRepository implements APIKey persistence for MySQL.
// Uses BINARY(16) UUID types with transaction support via database.GetTx().
type MySQLAPIKeyRepository struct {
	db *sql.DB
}

// Create inserts a new APIKey into the MySQL database.
func (m *MySQLAPIKeyRepository) Create(ctx context.Context, apiKey *apikeyDomain.APIKey) error {
	querier := database.GetTx(ctx, m.db)

	query := `INSERT INTO api_keys (id, user_id, api_id, ` + "`key`" + `, is_active, created_at)
			  VALUES (?, ?, ?, ?, ?, ?)`

	id, err := apiKey.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal api key id")
	}

	userID, err := apiKey.UserID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal user id")
	}

	apiID, err := apiKey.APIID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal api id")
	}

	_, err = querier.ExecContext(
		ctx,
		query,
		id,
		userID,
		apiID,
		apiKey.Key,
		apiKey.IsActive,
		apiKey.CreatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create api key")
	}

	return nil
}

// Get retrieves an APIKey by ID from the MySQL database.
func (m *MySQLAPIKeyRepository) Get(ctx context.Context, apiKeyID uuid.UUID) (*apikeyDomain.APIKey, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, user_id, api_id, ` + "`key`" + `, is_active, created_at, revoked_at
			  FROM api_keys
			  WHERE id = ?`

	id, err := apiKeyID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal api key id")
	}

	return m.scanAPIKey(querier.QueryRowContext(ctx, query, id))
}

// GetActiveByKey retrieves the active APIKey matching the key value.
// Revoked keys never match.
func (m *MySQLAPIKeyRepository) GetActiveByKey(ctx context.Context, key string) (*apikeyDomain.APIKey, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, user_id, api_id, ` + "`key`" + `, is_active, created_at, revoked_at
			  FROM api_keys
			  WHERE ` + "`key`" + ` = ? AND is_active = true`

	return m.scanAPIKey(querier.QueryRowContext(ctx, query, key))
}

// GetActiveByUserAndAPI retrieves the user's active APIKey for an API, if any.
func (m *MySQLAPIKeyRepository) GetActiveByUserAndAPI(
	ctx context.Context,
	userID, apiID uuid.UUID,
) (*apikeyDomain.APIKey, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, user_id, api_id, ` + "`key`" + `, is_active, created_at, revoked_at
			  FROM api_keys
			  WHERE user_id = ? AND api_id = ? AND is_active = true
			  ORDER BY id DESC
			  LIMIT 1`

	userIDBytes, err := userID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal user id")
	}

	apiIDBytes, err := apiID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal api id")
	}

	return m.scanAPIKey(querier.QueryRowContext(ctx, query, userIDBytes, apiIDBytes))
}

// ListByUser retrieves a user's API keys ordered by ID descending with pagination.
func (m *MySQLAPIKeyRepository) ListByUser(
	ctx context.Context,
	userID uuid.UUID,
	offset, limit int,
) ([]*apikeyDomain.APIKey, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, user_id, api_id, ` + "`key`" + `, is_active, created_at, revoked_at
			  FROM api_keys
			  WHERE user_id = ?
			  ORDER BY id DESC
			  LIMIT ? OFFSET ?`

	userIDBytes, err := userID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal user id")
	}

	rows, err := querier.QueryContext(ctx, query, userIDBytes, limit, offset)
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
		var idBytes, userIDScan, apiIDBytes []byte
		var revokedAt sql.NullTime

		err := rows.Scan(
			&idBytes,
			&userIDScan,
			&apiIDBytes,
			&apiKey.Key,
			&apiKey.IsActive,
			&apiKey.CreatedAt,
			&revokedAt,
		)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan api key")
		}

		if err := apiKey.ID.UnmarshalBinary(idBytes); err != nil {
			return nil, apperrors.Wrap(err, "failed to unmarshal api key id")
		}
		if err := apiKey.UserID.UnmarshalBinary(userIDScan); err != nil {
			return nil, apperrors.Wrap(err, "failed to unmarshal user id")
		}
		if err := apiKey.APIID.UnmarshalBinary(apiIDBytes); err != nil {
			return nil, apperrors.Wrap(err, "failed to unmarshal api id")
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
func (m *MySQLAPIKeyRepository) Deactivate(ctx context.Context, apiKeyID uuid.UUID, revokedAt time.Time) error {
	querier := database.GetTx(ctx, m.db)

	query := `UPDATE api_keys
			  SET is_active = false, revoked_at = ?
			  WHERE id = ? AND is_active = true`

	id, err := apiKeyID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal api key id")
	}

	result, err := querier.ExecContext(ctx, query, revokedAt, id)
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

func (m *MySQLAPIKeyRepository) scanAPIKey(row *sql.Row) (*apikeyDomain.APIKey, error) {
	var apiKey apikeyDomain.APIKey
	var idBytes, userIDBytes, apiIDBytes []byte
	var revokedAt sql.NullTime

	err := row.Scan(
		&idBytes,
		&userIDBytes,
		&apiIDBytes,
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

	if err := apiKey.ID.UnmarshalBinary(idBytes); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal api key id")
	}
	if err := apiKey.UserID.UnmarshalBinary(userIDBytes); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal user id")
	}
	if err := apiKey.APIID.UnmarshalBinary(apiIDBytes); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal api id")
	}

	if revokedAt.Valid {
		apiKey.RevokedAt = &revokedAt.Time
	}

	return &apiKey, nil
}

// NewMySQLAPIKeyRepository creates a new MySQL APIKey repository.
func NewMySQLAPIKeyRepository(db *sql.DB) *MySQLAPIKeyRepository {
	return &MySQLAPIKeyRepository{db: db}
}
