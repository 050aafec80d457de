// Package repository implements data persistence for catalog entities.
//
// Provides PostgreSQL and MySQL implementations with transaction support via database.GetTx().
// PostgreSQL uses native UUID types, MySQL uses BINARY(16) types.
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

// PostgreSQLAPIRepository implements API persistence for PostgreSQL.
// Uses native UUID types with transaction support via database.GetTx().
type PostgreSQLAPIRepository struct {
	db *sql.DB
}

// Create inserts a new API into the PostgreSQL database.
func (p *PostgreSQLAPIRepository) Create(ctx context.Context, api *catalogDomain.API) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO apis (id, name, description, category, endpoint, usage_limit, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := querier.ExecContext(
		ctx,
		query,
		api.ID,
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

// Get retrieves an API by ID from the PostgreSQL database.
func (p *PostgreSQLAPIRepository) Get(ctx context.Context, apiID uuid.UUID) (*catalogDomain.API, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, name, description, category, endpoint, usage_limit, created_at
			  FROM apis
			  WHERE id = $1`

	var api catalogDomain.API

	err := querier.QueryRowContext(ctx, query, apiID).Scan(
		&api.ID,
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

	return &api, nil
}

// List retrieves APIs ordered by ID descending with pagination support.
// Returns empty slice if no APIs found.
func (p *PostgreSQLAPIRepository) List(ctx context.Context, offset, limit int) ([]*catalogDomain.API, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, name, description, category, endpoint, usage_limit, created_at
			  FROM apis
			  ORDER BY id DESC
			  LIMIT $1 OFFSET $2`

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

		err := rows.Scan(
			&api.ID,
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

		apis = append(apis, &api)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate apis")
	}

	return apis, nil
}

// NewPostgreSQLAPIRepository creates a new PostgreSQL API repository.
func NewPostgreSQLAPIRepository(db *sql.DB) *PostgreSQLAPIRepository {
	return &PostgreSQLAPIRepository{db: db}
}
