// Package repository implements data persistence for subscriptions.
//
// Provides PostgreSQL and MySQL implementations with transaction support via database.GetTx().
// PostgreSQL uses native UUID types, MySQL uses BINARY(16) types. Entitlement
// queries join subscriptions against the package_apis table and always check
// the live period window.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/allisson/gateway/internal/database"
	apperrors "github.com/allisson/gateway/internal/errors"
	subscriptionDomain "github.com/allisson/gateway/internal/subscription/domain"
)

// PostgreSQLSubscriptionRepository implements Subscription persistence for PostgreSQL.
// Uses native UUID types with transaction support via database.GetTx().
type PostgreSQLSubscriptionRepository struct {
	db *sql.DB
}

// Create inserts a new Subscription into the PostgreSQL database.
func (p *PostgreSQLSubscriptionRepository) Create(
	ctx context.Context,
	subscription *subscriptionDomain.Subscription,
) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO subscriptions
			  (id, user_id, package_id, status, current_period_start, current_period_end, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := querier.ExecContext(
		ctx,
		query,
		subscription.ID,
		subscription.UserID,
		subscription.PackageID,
		string(subscription.Status),
		subscription.CurrentPeriodStart,
		subscription.CurrentPeriodEnd,
		subscription.CreatedAt,
		subscription.UpdatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create subscription")
	}

	return nil
}

// Update modifies an existing Subscription in the PostgreSQL database.
func (p *PostgreSQLSubscriptionRepository) Update(
	ctx context.Context,
	subscription *subscriptionDomain.Subscription,
) error {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE subscriptions
			  SET package_id = $1,
			  	  status = $2,
				  current_period_start = $3,
				  current_period_end = $4,
				  updated_at = $5
			  WHERE id = $6`

	_, err := querier.ExecContext(
		ctx,
		query,
		subscription.PackageID,
		string(subscription.Status),
		subscription.CurrentPeriodStart,
		subscription.CurrentPeriodEnd,
		subscription.UpdatedAt,
		subscription.ID,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to update subscription")
	}

	return nil
}

// Get retrieves a Subscription by ID from the PostgreSQL database.
func (p *PostgreSQLSubscriptionRepository) Get(
	ctx context.Context,
	subscriptionID uuid.UUID,
) (*subscriptionDomain.Subscription, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, user_id, package_id, status, current_period_start, current_period_end, created_at, updated_at
			  FROM subscriptions
			  WHERE id = $1`

	return p.scanSubscription(querier.QueryRowContext(ctx, query, subscriptionID))
}

// GetActiveByUserAndPackage retrieves the subscription currently granting the
// user access to the package, if any.
func (p *PostgreSQLSubscriptionRepository) GetActiveByUserAndPackage(
	ctx context.Context,
	userID, packageID uuid.UUID,
	now time.Time,
) (*subscriptionDomain.Subscription, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, user_id, package_id, status, current_period_start, current_period_end, created_at, updated_at
			  FROM subscriptions
			  WHERE user_id = $1 AND package_id = $2
			  	AND status = 'active'
				AND current_period_start <= $3 AND current_period_end > $3
			  ORDER BY id DESC
			  LIMIT 1`

	return p.scanSubscription(querier.QueryRowContext(ctx, query, userID, packageID, now))
}

// ListByUser retrieves a user's subscriptions ordered by ID descending with pagination.
func (p *PostgreSQLSubscriptionRepository) ListByUser(
	ctx context.Context,
	userID uuid.UUID,
	offset, limit int,
) ([]*subscriptionDomain.Subscription, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, user_id, package_id, status, current_period_start, current_period_end, created_at, updated_at
			  FROM subscriptions
			  WHERE user_id = $1
			  ORDER BY id DESC
			  LIMIT $2 OFFSET $3`

	rows, err := querier.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list subscriptions")
	}
	defer func() {
		_ = rows.Close()
	}()

	return p.collectSubscriptions(rows)
}

// ListDueForRenewal retrieves active subscriptions whose period ends before
// the given time, ordered by period end ascending.
func (p *PostgreSQLSubscriptionRepository) ListDueForRenewal(
	ctx context.Context,
	before time.Time,
	limit int,
) ([]*subscriptionDomain.Subscription, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, user_id, package_id, status, current_period_start, current_period_end, created_at, updated_at
			  FROM subscriptions
			  WHERE status = 'active' AND current_period_end <= $1
			  ORDER BY current_period_end ASC
			  LIMIT $2`

	rows, err := querier.QueryContext(ctx, query, before, limit)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list due subscriptions")
	}
	defer func() {
		_ = rows.Close()
	}()

	return p.collectSubscriptions(rows)
}

// HasAccess reports whether the user holds a live subscription to a package
// containing the API.
func (p *PostgreSQLSubscriptionRepository) HasAccess(
	ctx context.Context,
	userID, apiID uuid.UUID,
	now time.Time,
) (bool, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT EXISTS (
			  	SELECT 1
				FROM subscriptions s
				JOIN package_apis pa ON pa.package_id = s.package_id
				WHERE s.user_id = $1 AND pa.api_id = $2
				  AND s.status = 'active'
				  AND s.current_period_start <= $3 AND s.current_period_end > $3
			  )`

	var hasAccess bool
	if err := querier.QueryRowContext(ctx, query, userID, apiID, now).Scan(&hasAccess); err != nil {
		return false, apperrors.Wrap(err, "failed to check api access")
	}

	return hasAccess, nil
}

// AccessibleAPIIDs retrieves the distinct API IDs the user can currently reach
// through live subscriptions.
func (p *PostgreSQLSubscriptionRepository) AccessibleAPIIDs(
	ctx context.Context,
	userID uuid.UUID,
	now time.Time,
) ([]uuid.UUID, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT DISTINCT pa.api_id
			  FROM subscriptions s
			  JOIN package_apis pa ON pa.package_id = s.package_id
			  WHERE s.user_id = $1
			  	AND s.status = 'active'
				AND s.current_period_start <= $2 AND s.current_period_end > $2
			  ORDER BY pa.api_id`

	rows, err := querier.QueryContext(ctx, query, userID, now)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list accessible apis")
	}
	defer func() {
		_ = rows.Close()
	}()

	apiIDs := make([]uuid.UUID, 0)
	for rows.Next() {
		var apiID uuid.UUID
		if err := rows.Scan(&apiID); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan accessible api")
		}
		apiIDs = append(apiIDs, apiID)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate accessible apis")
	}

	return apiIDs, nil
}

func (p *PostgreSQLSubscriptionRepository) scanSubscription(row *sql.Row) (*subscriptionDomain.Subscription, error) {
	var subscription subscriptionDomain.Subscription
	var status string

	err := row.Scan(
		&subscription.ID,
		&subscription.UserID,
		&subscription.PackageID,
		&status,
		&subscription.CurrentPeriodStart,
		&subscription.CurrentPeriodEnd,
		&subscription.CreatedAt,
		&subscription.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, subscriptionDomain.ErrSubscriptionNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get subscription")
	}

	subscription.Status = subscriptionDomain.Status(status)

	return &subscription, nil
}

func (p *PostgreSQLSubscriptionRepository) collectSubscriptions(
	rows *sql.Rows,
) ([]*subscriptionDomain.Subscription, error) {
	// Initialize empty slice to avoid returning nil for empty results
	subscriptions := make([]*subscriptionDomain.Subscription, 0)
	for rows.Next() {
		var subscription subscriptionDomain.Subscription
		var status string

		err := rows.Scan(
			&subscription.ID,
			&subscription.UserID,
			&subscription.PackageID,
			&status,
			&subscription.CurrentPeriodStart,
			&subscription.CurrentPeriodEnd,
			&subscription.CreatedAt,
			&subscription.UpdatedAt,
		)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan subscription")
		}

		subscription.Status = subscriptionDomain.Status(status)
		subscriptions = append(subscriptions, &subscription)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate subscriptions")
	}

	return subscriptions, nil
}

// NewPostgreSQLSubscriptionRepository creates a new PostgreSQL Subscription repository.
func NewPostgreSQLSubscriptionRepository(db *sql.DB) *PostgreSQLSubscriptionRepository {
	return &PostgreSQLSubscriptionRepository{db: db}
}
