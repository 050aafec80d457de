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

// MySQLPackageRepository implements Package persistence for MySQL.
// Uses BINARY(16) UUID types with transaction support via database.GetTx().
// Package features are stored as JSON, API bindings live in the package_apis table.
type MySQLPackageRepository struct {
	db *sql.DB
}

// Create inserts a new Package and its API bindings into the MySQL database.
// Callers should wrap the call in a transaction so the package row and its
// package_apis rows commit together.
func (m *MySQLPackageRepository) Create(ctx context.Context, pkg *catalogDomain.Package) error {
	querier := database.GetTx(ctx, m.db)

	id, err := pkg.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal package id")
	}

	featuresJSON, err := json.Marshal(pkg.Features)
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal package features")
	}

	query := `INSERT INTO packages (id, name, description, price_cents, billing_cycle, features, is_popular, created_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	_, err = querier.ExecContext(
		ctx,
		query,
		id,
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

	bindQuery := `INSERT INTO package_apis (package_id, api_id) VALUES (?, ?)`
	for _, apiID := range pkg.APIIDs {
		apiIDBytes, err := apiID.MarshalBinary()
		if err != nil {
			return apperrors.Wrap(err, "failed to marshal api id")
		}
		if _, err := querier.ExecContext(ctx, bindQuery, id, apiIDBytes); err != nil {
			return apperrors.Wrap(err, "failed to bind api to package")
		}
	}

	return nil
}

// Get retrieves a Package by ID from the MySQL database, including its API bindings.
func (m *MySQLPackageRepository) Get(ctx context.Context, packageID uuid.UUID) (*catalogDomain.Package, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, name, description, price_cents, billing_cycle, features, is_popular, created_at
			  FROM packages
			  WHERE id = ?`

	id, err := packageID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal package id")
	}

	var pkg catalogDomain.Package
	var idBytes []byte
	var cycle string
	var featuresJSON []byte

	err = querier.QueryRowContext(ctx, query, id).Scan(
		&idBytes,
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

	if err := pkg.ID.UnmarshalBinary(idBytes); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal package id")
	}

	pkg.Cycle = catalogDomain.BillingCycle(cycle)

	if featuresJSON != nil {
		if err := json.Unmarshal(featuresJSON, &pkg.Features); err != nil {
			return nil, apperrors.Wrap(err, "failed to unmarshal package features")
		}
	}

	apiIDs, err := m.listAPIIDs(ctx, querier, packageID)
	if err != nil {
		return nil, err
	}
	pkg.APIIDs = apiIDs

	return &pkg, nil
}

// List retrieves Packages ordered by ID descending with pagination support using BINARY(16)
// for UUIDs. API bindings are loaded per package. Returns empty slice if no packages found.
func (m *MySQLPackageRepository) List(ctx context.Context, offset, limit int) ([]*catalogDomain.Package, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, name, description, price_cents, billing_cycle, features, is_popular, created_at
			  FROM packages
			  ORDER BY id DESC
			  LIMIT ? OFFSET ?`

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
		var idBytes []byte
		var cycle string
		var featuresJSON []byte

		err := rows.Scan(
			&idBytes,
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

		if err := pkg.ID.UnmarshalBinary(idBytes); err != nil {
			return nil, apperrors.Wrap(err, "failed to unmarshal package id")
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
		apiIDs, err := m.listAPIIDs(ctx, querier, pkg.ID)
		if err != nil {
			return nil, err
		}
		pkg.APIIDs = apiIDs
	}

	return packages, nil
}

func (m *MySQLPackageRepository) listAPIIDs(
	ctx context.Context,
	querier database.Querier,
	packageID uuid.UUID,
) ([]uuid.UUID, error) {
	query := `SELECT api_id FROM package_apis WHERE package_id = ? ORDER BY api_id`

	id, err := packageID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal package id")
	}

	rows, err := querier.QueryContext(ctx, query, id)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list package apis")
	}
	defer func() {
		_ = rows.Close()
	}()

	apiIDs := make([]uuid.UUID, 0)
	for rows.Next() {
		var apiIDBytes []byte
		if err := rows.Scan(&apiIDBytes); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan package api")
		}
		var apiID uuid.UUID
		if err := apiID.UnmarshalBinary(apiIDBytes); err != nil {
			return nil, apperrors.Wrap(err, "failed to unmarshal api id")
		}
		apiIDs = append(apiIDs, apiID)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate package apis")
	}

	return apiIDs, nil
}

// NewMySQLPackageRepository creates a new MySQL Package repository.
func NewMySQLPackageRepository(db *sql.DB) *MySQLPackageRepository {
	return &MySQLPackageRepository{db: db}
}
