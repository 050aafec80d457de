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

// MySQLSubscriptionRepository implements Subscription persistence for MySQL.
// Uses BINARY(16) UUID types with transaction support via database.GetTx().
type MySQLSubscriptionRepository struct {
	db *sql.DB
}

// Create inserts a new Subscription into the MySQL database.
func (m *MySQLSubscriptionRepository) Create(
	ctx context.Context,
	subscription *subscriptionDomain.Subscription,
) error {
	querier := database.GetTx(ctx, m.db)

	query := `INSERT INTO subscriptions
			  (id, user_id, package_id, status, current_period_start, current_period_end, created_at, updated_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	id, err := subscription.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal subscription id")
	}

	userID, err := subscription.UserID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal user id")
	}

	packageID, err := subscription.PackageID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal package id")
	}

	_, err = querier.ExecContext(
		ctx,
		query,
		id,
		userID,
		packageID,
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

// Update modifies an existing Subscription in the MySQL database.
func (m *MySQLSubscriptionRepository) Update(
	ctx context.Context,
	subscription *subscriptionDomain.Subscription,
) error {
	querier := database.GetTx(ctx, m.db)

	query := `UPDATE subscriptions
			  SET package_id = ?,
			  	  status = ?,
				  current_period_start = ?,
				  current_period_end = ?,
				  updated_at = ?
			  WHERE id = ?`

	id, err := subscription.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal subscription id")
	}

	packageID, err := subscription.PackageID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal package id")
	}

	_, err = querier.ExecContext(
		ctx,
		query,
		packageID,
		string(subscription.Status),
		subscription.CurrentPeriodStart,
		subscription.CurrentPeriodEnd,
		subscription.UpdatedAt,
		id,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to update subscription")
	}

	return nil
}

// Get retrieves a Subscription by ID from the MySQL database.
func (m *MySQLSubscriptionRepository) Get(
	ctx context.Context,
	subscriptionID uuid.UUID,
) (*subscriptionDomain.Subscription, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, user_id, package_id, status, current_period_start, current_period_end, created_at, updated_at
			  FROM subscriptions
			  WHERE id = ?`

	id, err := subscriptionID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal subscription id")
	}

	return m.scanSubscription(querier.QueryRowContext(ctx, query, id))
}

// GetActiveByUserAndPackage retrieves the subscription currently granting the
// user access to the package, if any.
func (m *MySQLSubscriptionRepository) GetActiveByUserAndPackage(
	ctx context.Context,
	userID, packageID uuid.UUID,
	now time.Time,
) (*subscriptionDomain.Subscription, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, user_id, package_id, status, current_period_start, current_period_end, created_at, updated_at
			  FROM subscriptions
			  WHERE user_id = ? AND package_id = ?
			  	AND status = 'active'
				AND current_period_start <= ? AND current_period_end > ?
			  ORDER BY id DESC
			  LIMIT 1`

	userIDBytes, err := userID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal user id")
	}

	packageIDBytes, err := packageID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal package id")
	}

	return m.scanSubscription(querier.QueryRowContext(ctx, query, userIDBytes, packageIDBytes, now, now))
}

// ListByUser retrieves a user's subscriptions ordered by ID descending with pagination.
func (m *MySQLSubscriptionRepository) ListByUser(
	ctx context.Context,
	userID uuid.UUID,
	offset, limit int,
) ([]*subscriptionDomain.Subscription, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, user_id, package_id, status, current_period_start, current_period_end, created_at, updated_at
			  FROM subscriptions
			  WHERE user_id = ?
			  ORDER BY id DESC
			  LIMIT ? OFFSET ?`

	userIDBytes, err := userID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal user id")
	}

	rows, err := querier.QueryContext(ctx, query, userIDBytes, limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list subscriptions")
	}
	defer func() {
		_ = rows.Close()
	}()

	return m.collectSubscriptions(rows)
}

// ListDueForRenewal retrieves active subscriptions whose period ends before
// the given time, ordered by period end ascending.
func (m *MySQLSubscriptionRepository) ListDueForRenewal(
	ctx context.Context,
	before time.Time,
	limit int,
) ([]*subscriptionDomain.Subscription, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, user_id, package_id, status, current_period_start, current_period_end, created_at, updated_at
			  FROM subscriptions
			  WHERE status = 'active' AND current_period_end <= ?
			  ORDER BY current_period_end ASC
			  LIMIT ?`

	rows, err := querier.QueryContext(ctx, query, before, limit)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list due subscriptions")
	}
	defer func() {
		_ = rows.Close()
	}()

	return m.collectSubscriptions(rows)
}

// HasAccess reports whether the user holds a live subscription to a package
// containing the API.
func (m *MySQLSubscriptionRepository) HasAccess(
	ctx context.Context,
	userID, apiID uuid.UUID,
	now time.Time,
) (bool, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT EXISTS (
			  	SELECT 1
				FROM subscriptions s
				JOIN package_apis pa ON pa.package_id = s.package_id
				WHERE s.user_id = ? AND pa.api_id = ?
				  AND s.status = 'active'
				  AND s.current_period_start <= ? AND s.current_period_end > ?
			  )`

	userIDBytes, err := userID.MarshalBinary()
	if err != nil {
		return false, apperrors.Wrap(err, "failed to marshal user id")
	}

	apiIDBytes, err := apiID.MarshalBinary()
	if err != nil {
		return false, apperrors.Wrap(err, "failed to marshal api id")
	}

	var hasAccess bool
	if err := querier.QueryRowContext(ctx, query, userIDBytes, apiIDBytes, now, now).Scan(&hasAccess); err != nil {
		return false, apperrors.Wrap(err, "failed to check api access")
	}

	return hasAccess, nil
}

// AccessibleAPIIDs retrieves the distinct API IDs the user can currently reach
// through live subscriptions.
func (m *MySQLSubscriptionRepository) AccessibleAPIIDs(
	ctx context.Context,
	userID uuid.UUID,
	now time.Time,
) ([]uuid.UUID, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT DISTINCT pa.api_id
			  FROM subscriptions s
			  JOIN package_apis pa ON pa.package_id = s.package_id
			  WHERE s.user_id = ?
			  	AND s.status = 'active'
				AND s.current_period_start <= ? AND s.current_period_end > ?
			  ORDER BY pa.api_id`

	userIDBytes, err := userID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal user id")
	}

	rows, err := querier.QueryContext(ctx, query, userIDBytes, now, now)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list accessible apis")
	}
	defer func() {
		_ = rows.Close()
	}()

	apiIDs := make([]uuid.UUID, 0)
	for rows.Next() {
		var apiIDBytes []byte
		if err := rows.Scan(&apiIDBytes); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan accessible api")
		}
		var apiID uuid.UUID
		if err := apiID.UnmarshalBinary(apiIDBytes); err != nil {
			return nil, apperrors.Wrap(err, "failed to unmarshal api id")
		}
		apiIDs = append(apiIDs, apiID)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate accessible apis")
	}

	return apiIDs, nil
}

func (m *MySQLSubscriptionRepository) scanSubscription(row *sql.Row) (*subscriptionDomain.Subscription, error) {
	var subscription subscriptionDomain.Subscription
	var idBytes, userIDBytes, packageIDBytes []byte
	var status string

	err := row.Scan(
		&idBytes,
		&userIDBytes,
		&packageIDBytes,
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

	if err := subscription.ID.UnmarshalBinary(idBytes); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal subscription id")
	}
	if err := subscription.UserID.UnmarshalBinary(userIDBytes); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal user id")
	}
	if err := subscription.PackageID.UnmarshalBinary(packageIDBytes); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal package id")
	}

	subscription.Status = subscriptionDomain.Status(status)

	return &subscription, nil
}

func (m *MySQLSubscriptionRepository) collectSubscriptions(
	rows *sql.Rows,
) ([]*subscriptionDomain.Subscription, error) {
	// Initialize empty slice to avoid returning nil for empty results
	subscriptions := make([]*subscriptionDomain.Subscription, 0)
	for rows.Next() {
		var subscription subscriptionDomain.Subscription
		var idBytes, userIDBytes, packageIDBytes []byte
		var status string

		err := rows.Scan(
			&idBytes,
			&userIDBytes,
			&packageIDBytes,
			&status,
			&subscription.CurrentPeriodStart,
			&subscription.CurrentPeriodEnd,
			&subscription.CreatedAt,
			&subscription.UpdatedAt,
		)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan subscription")
		}

		if err := subscription.ID.UnmarshalBinary(idBytes); err != nil {
			return nil, apperrors.Wrap(err, "failed to unmarshal subscription id")
		}
		if err := subscription.UserID.UnmarshalBinary(userIDBytes); err != nil {
			return nil, apperrors.Wrap(err, "failed to unmarshal user id")
		}
		if err := subscription.PackageID.UnmarshalBinary(packageIDBytes); err != nil {
			return nil, apperrors.Wrap(err, "failed to unmarshal package id")
		}

		subscription.Status = subscriptionDomain.Status(status)
		subscriptions = append(subscriptions, &subscription)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate subscriptions")
	}

	return subscriptions, nil
}

// NewMySQLSubscriptionRepository creates a new MySQL Subscription repository.
func NewMySQLSubscriptionRepository(db *sql.DB) *MySQLSubscriptionRepository {
	return &MySQLSubscriptionRepository{db: db}
}
