package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	catalogDomain "github.com/allisson/gateway/internal/catalog/domain"
	"github.com/allisson/gateway/internal/database"
	apperrors "github.com/allisson/gateway/internal/errors"
)

// MySQLAPIRepository implements API persistence for MySQL.
// Uses BINARY(16) UUID types with transaction support via database.GetTx().
type MySQLAPIRepository struct {
	db *sql.DB
}

// Create inserts a new API into the MySQL database.
func (m *MySQLAPIRepository) Create(ctx context.Context, api *catalogDomain.API) error {
	querier := database.GetTx(ctx, m.db)

	query := `INSERT INTO apis (id, name, description, category, endpoint, usage_limit, created_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?)`

	id, err := api.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal api id")
	}

	_, err = querier.ExecContext(
		ctx,
		query,
		id,
		api.Name,
		api.Description,
		api.Category,
		api.Endpoint,
		api.UsageLimit,
		api.CreatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create api")
	}

	return nil
}

// Get retrieves an API by ID from the MySQL database.
func (m *MySQLAPIRepository) Get(ctx context.Context, apiID uuid.UUID) (*catalogDomain.API, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, name, description, category, endpoint, usage_limit, created_at
			  FROM apis
			  WHERE id = ?`

	id, err := apiID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal api id")
	}

	var api catalogDomain.API
	var idBytes []byte

	err = querier.QueryRowContext(ctx, query, id).Scan(
		&idBytes,
		&api.Name,
		&api.Description,
		&api.Category,
		&api.Endpoint,
		&api.UsageLimit,
		&api.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, catalogDomain.ErrAPINotFound
		}
		return nil, apperrors.Wrap(err, "failed to get api")
	}

	if err := api.ID.UnmarshalBinary(idBytes); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal api id")
	}

	return &api, nil
}

// List retrieves APIs ordered by ID descending with pagination support using BINARY(16)
// for UUIDs. Returns empty slice if no APIs found.
func (m *MySQLAPIRepository) List(ctx context.Context, offset, limit int) ([]*catalogDomain.API, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, name, description, category, endpoint, usage_limit, created_at
			  FROM apis
			  ORDER BY id DESC
			  LIMIT ? OFFSET ?`

	rows, err := querier.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list apis")
	}
	defer func() {
		_ = rows.Close()
	}()

	// Initialize empty slice to avoid returning nil for empty results
	apis := make([]*catalogDomain.API, 0)
	for rows.Next() {
		var api catalogDomain.API
		var idBytes []byte

		err := rows.Scan(
			&idBytes,
			&api.Name,
			&api.Description,
			&api.Category,
			&api.Endpoint,
			&api.UsageLimit,
			&api.CreatedAt,
		)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan api")
		}

		if err := api.ID.UnmarshalBinary(idBytes); err != nil {
			return nil, apperrors.Wrap(err, "failed to unmarshal api id")
		}

		apis = append(apis, &api)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate apis")
	}

	return apis, nil
}

// NewMySQLAPIRepository creates a new MySQL API repository.
func NewMySQLAPIRepository(db *sql.DB) *MySQLAPIRepository {
	return &MySQLAPIRepository{db: db}
}
