package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/google/uuid"

	catalogDomain "github.com/allisson/gateway/internal/catalog/domain"
	"github.com/allisson/gateway/internal/database"
	apperrors "github.com/allisson/gateway/internal/errors"
)

// PostgreSQLPackageRepository implements Package persistence for PostgreSQL.
// Uses native UUID types with transaction support via database.GetTx().
// Package features are stored as JSON, API bindings live in the package_apis table.
type PostgreSQLPackageRepository struct {
	db *sql.DB
}

// Create inserts a new Package and its API bindings into the PostgreSQL database.
// Callers should wrap the call in a transaction so the package row and its
// package_apis rows commit together.
func (p *PostgreSQLPackageRepository) Create(ctx context.Context, pkg *catalogDomain.Package) error {
	querier := database.GetTx(ctx, p.db)

	featuresJSON, err := json.Marshal(pkg.Features)
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal package features")
	}

	query := `INSERT INTO packages (id, name, description, price_cents, billing_cycle, features, is_popular, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err = querier.ExecContext(
		ctx,
		query,
		pkg.ID,
		pkg.Name,
		pkg.Description,
		pkg.PriceCents,
		string(pkg.Cycle),
		featuresJSON,
		pkg.IsPopular,
		pkg.CreatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create package")
	}

	bindQuery := `INSERT INTO package_apis (package_id, api_id) VALUES ($1, $2)`
	for _, apiID := range pkg.APIIDs {
		if _, err := querier.ExecContext(ctx, bindQuery, pkg.ID, apiID); err != nil {
			return apperrors.Wrap(err, "failed to bind api to package")
		}
	}

	return nil
}

// Get retrieves a Package by ID from the PostgreSQL database, including its API bindings.
func (p *PostgreSQLPackageRepository) Get(ctx context.Context, packageID uuid.UUID) (*catalogDomain.Package, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, name, description, price_cents, billing_cycle, features, is_popular, created_at
			  FROM packages
			  WHERE id = $1`

	var pkg catalogDomain.Package
	var cycle string
	var featuresJSON []byte

	err := querier.QueryRowContext(ctx, query, packageID).Scan(
		&pkg.ID,
		&pkg.Name,
		&pkg.Description,
		&pkg.PriceCents,
		&cycle,
		&featuresJSON,
		&pkg.IsPopular,
		&pkg.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, catalogDomain.ErrPackageNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get package")
	}

	pkg.Cycle = catalogDomain.BillingCycle(cycle)

	if featuresJSON != nil {
		if err := json.Unmarshal(featuresJSON, &pkg.Features); err != nil {
			return nil, apperrors.Wrap(err, "failed to unmarshal package features")
		}
	}

	apiIDs, err := p.listAPIIDs(ctx, querier, packageID)
	if err != nil {
		return nil, err
	}
	pkg.APIIDs = apiIDs

	return &pkg, nil
}

// List retrieves Packages ordered by ID descending with pagination support.
// API bindings are loaded per package. Returns empty slice if no packages found.
func (p *PostgreSQLPackageRepository) List(ctx context.Context, offset, limit int) ([]*catalogDomain.Package, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, name, description, price_cents, billing_cycle, features, is_popular, created_at
			  FROM packages
			  ORDER BY id DESC
			  LIMIT $1 OFFSET $2`

	rows, err := querier.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list packages")
	}
	defer func() {
		_ = rows.Close()
	}()

	// Initialize empty slice to avoid returning nil for empty results
	packages := make([]*catalogDomain.Package, 0)
	for rows.Next() {
		var pkg catalogDomain.Package
		var cycle string
		var featuresJSON []byte

		err := rows.Scan(
			&pkg.ID,
			&pkg.Name,
			&pkg.Description,
			&pkg.PriceCents,
			&cycle,
			&featuresJSON,
			&pkg.IsPopular,
			&pkg.CreatedAt,
		)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan package")
		}

		pkg.Cycle = catalogDomain.BillingCycle(cycle)

		if featuresJSON != nil {
			if err := json.Unmarshal(featuresJSON, &pkg.Features); err != nil {
				return nil, apperrors.Wrap(err, "failed to unmarshal package features")
			}
		}

		packages = append(packages, &pkg)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate packages")
	}

	for _, pkg := range packages {
		apiIDs, err := p.listAPIIDs(ctx, querier, pkg.ID)
		if err != nil {
			return nil, err
		}
		pkg.APIIDs = apiIDs
	}

	return packages, nil
}

func (p *PostgreSQLPackageRepository) listAPIIDs(
	ctx context.Context,
	querier database.Querier,
	packageID uuid.UUID,
) ([]uuid.UUID, error) {
	query := `SELECT api_id FROM package_apis WHERE package_id = $1 ORDER BY api_id`

	rows, err := querier.QueryContext(ctx, query, packageID)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list package apis")
	}
	defer func() {
		_ = rows.Close()
	}()

	apiIDs := make([]uuid.UUID, 0)
	for rows.Next() {
		var apiID uuid.UUID
		if err := rows.Scan(&apiID); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan package api")
		}
		apiIDs = append(apiIDs, apiID)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate package apis")
	}

	return apiIDs, nil
}

// NewPostgreSQLPackageRepository creates a new PostgreSQL Package repository.
func NewPostgreSQLPackageRepository(db *sql.DB) *PostgreSQLPackageRepository {
	return &PostgreSQLPackageRepository{db: db}
}
