package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	subscriptionDomain "github.com/allisson/gateway/internal/subscription/domain"
)

func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = db.Close()
	})

	return db, mock
}

func TestPostgreSQLSubscriptionRepository_Create(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPostgreSQLSubscriptionRepository(db)

	now := time.Now().UTC()
	subscription := &subscriptionDomain.Subscription{
		ID:                 uuid.Must(uuid.NewV7()),
		UserID:             uuid.Must(uuid.NewV7()),
		PackageID:          uuid.Must(uuid.NewV7()),
		Status:             subscriptionDomain.StatusActive,
		CurrentPeriodStart: now,
		CurrentPeriodEnd:   now.Add(30 * 24 * time.Hour),
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO subscriptions")).
		WithArgs(
			subscription.ID,
			subscription.UserID,
			subscription.PackageID,
			"active",
			subscription.CurrentPeriodStart,
			subscription.CurrentPeriodEnd,
			subscription.CreatedAt,
			subscription.UpdatedAt,
		).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Create(context.Background(), subscription)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgreSQLSubscriptionRepository_Get_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPostgreSQLSubscriptionRepository(db)

	subscriptionID := uuid.Must(uuid.NewV7())

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, user_id, package_id, status, current_period_start, current_period_end, created_at, updated_at")).
		WithArgs(subscriptionID).
		WillReturnError(sql.ErrNoRows)

	subscription, err := repo.Get(context.Background(), subscriptionID)
	require.Error(t, err)
	assert.Nil(t, subscription)
	assert.True(t, errors.Is(err, subscriptionDomain.ErrSubscriptionNotFound))
}

func TestPostgreSQLSubscriptionRepository_HasAccess(t *testing.T) {
	t.Run("Granted", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewPostgreSQLSubscriptionRepository(db)

		userID := uuid.Must(uuid.NewV7())
		apiID := uuid.Must(uuid.NewV7())
		now := time.Now().UTC()

		mock.ExpectQuery("SELECT EXISTS").
			WithArgs(userID, apiID, now).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

		hasAccess, err := repo.HasAccess(context.Background(), userID, apiID, now)
		require.NoError(t, err)
		assert.True(t, hasAccess)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Denied", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewPostgreSQLSubscriptionRepository(db)

		userID := uuid.Must(uuid.NewV7())
		apiID := uuid.Must(uuid.NewV7())
		now := time.Now().UTC()

		mock.ExpectQuery("SELECT EXISTS").
			WithArgs(userID, apiID, now).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

		hasAccess, err := repo.HasAccess(context.Background(), userID, apiID, now)
		require.NoError(t, err)
		assert.False(t, hasAccess)
	})

	t.Run("QueryError", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewPostgreSQLSubscriptionRepository(db)

		userID := uuid.Must(uuid.NewV7())
		apiID := uuid.Must(uuid.NewV7())
		now := time.Now().UTC()

		mock.ExpectQuery("SELECT EXISTS").
			WithArgs(userID, apiID, now).
			WillReturnError(errors.New("db down"))

		hasAccess, err := repo.HasAccess(context.Background(), userID, apiID, now)
		require.Error(t, err)
		assert.False(t, hasAccess)
	})
}

func TestPostgreSQLSubscriptionRepository_AccessibleAPIIDs(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPostgreSQLSubscriptionRepository(db)

	userID := uuid.Must(uuid.NewV7())
	firstAPI := uuid.Must(uuid.NewV7())
	secondAPI := uuid.Must(uuid.NewV7())
	now := time.Now().UTC()

	rows := sqlmock.NewRows([]string{"api_id"}).AddRow(firstAPI).AddRow(secondAPI)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT DISTINCT pa.api_id")).
		WithArgs(userID, now).
		WillReturnRows(rows)

	apiIDs, err := repo.AccessibleAPIIDs(context.Background(), userID, now)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{firstAPI, secondAPI}, apiIDs)
}

func TestPostgreSQLSubscriptionRepository_ListDueForRenewal(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPostgreSQLSubscriptionRepository(db)

	now := time.Now().UTC()
	subscriptionID := uuid.Must(uuid.NewV7())
	userID := uuid.Must(uuid.NewV7())
	packageID := uuid.Must(uuid.NewV7())

	rows := sqlmock.NewRows([]string{
		"id", "user_id", "package_id", "status",
		"current_period_start", "current_period_end", "created_at", "updated_at",
	}).AddRow(subscriptionID, userID, packageID, "active", now.Add(-30*24*time.Hour), now.Add(time.Hour), now, now)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE status = 'active' AND current_period_end <= $1")).
		WithArgs(now.Add(24*time.Hour), 100).
		WillReturnRows(rows)

	subscriptions, err := repo.ListDueForRenewal(context.Background(), now.Add(24*time.Hour), 100)
	require.NoError(t, err)
	require.Len(t, subscriptions, 1)
	assert.Equal(t, subscriptionID, subscriptions[0].ID)
	assert.Equal(t, subscriptionDomain.StatusActive, subscriptions[0].Status)
}
