package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	catalogDomain "github.com/allisson/gateway/internal/catalog/domain"
	usageDomain "github.com/allisson/gateway/internal/usage/domain"
)

// mockUsageEventRepository is a mock implementation of UsageEventRepository for testing.
type mockUsageEventRepository struct {
	mock.Mock
}

func (m *mockUsageEventRepository) Create(ctx context.Context, event *usageDomain.UsageEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *mockUsageEventRepository) CountByKeyAndWindow(
	ctx context.Context,
	apiKeyID uuid.UUID,
	windowStart, windowEnd time.Time,
) (int64, error) {
	args := m.Called(ctx, apiKeyID, windowStart, windowEnd)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockUsageEventRepository) TotalByUser(
	ctx context.Context,
	userID uuid.UUID,
	apiID *uuid.UUID,
	from, to time.Time,
) (int64, error) {
	args := m.Called(ctx, userID, apiID, from, to)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockUsageEventRepository) PerDayByUser(
	ctx context.Context,
	userID uuid.UUID,
	apiID *uuid.UUID,
	from, to time.Time,
) ([]usageDomain.DayCount, error) {
	args := m.Called(ctx, userID, apiID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]usageDomain.DayCount), args.Error(1)
}

// mockQuotaCounterRepository is a mock implementation of QuotaCounterRepository for testing.
type mockQuotaCounterRepository struct {
	mock.Mock
}

func (m *mockQuotaCounterRepository) Reserve(
	ctx context.Context,
	apiKeyID uuid.UUID,
	windowStart time.Time,
	limit int64,
) (int64, bool, error) {
	args := m.Called(ctx, apiKeyID, windowStart, limit)
	return args.Get(0).(int64), args.Bool(1), args.Error(2)
}

func (m *mockQuotaCounterRepository) GetCount(
	ctx context.Context,
	apiKeyID uuid.UUID,
	windowStart time.Time,
) (int64, error) {
	args := m.Called(ctx, apiKeyID, windowStart)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockQuotaCounterRepository) SetCount(
	ctx context.Context,
	apiKeyID uuid.UUID,
	windowStart time.Time,
	count int64,
) error {
	args := m.Called(ctx, apiKeyID, windowStart, count)
	return args.Error(0)
}

func (m *mockQuotaCounterRepository) ListCountersBefore(
	ctx context.Context,
	before time.Time,
	limit int,
) ([]*usageDomain.QuotaCounter, error) {
	args := m.Called(ctx, before, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*usageDomain.QuotaCounter), args.Error(1)
}

// mockAPIRepository is a mock implementation of APIRepository for testing.
type mockAPIRepository struct {
	mock.Mock
}

func (m *mockAPIRepository) Get(ctx context.Context, apiID uuid.UUID) (*catalogDomain.API, error) {
	args := m.Called(ctx, apiID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalogDomain.API), args.Error(1)
}

// mockEntitlementRepository is a mock implementation of EntitlementRepository for testing.
type mockEntitlementRepository struct {
	mock.Mock
}

func (m *mockEntitlementRepository) AccessibleAPIIDs(
	ctx context.Context,
	userID uuid.UUID,
	now time.Time,
) ([]uuid.UUID, error) {
	args := m.Called(ctx, userID, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

func setupUsageUseCase(t *testing.T) (
	UsageUseCase,
	*mockUsageEventRepository,
	*mockQuotaCounterRepository,
	*mockAPIRepository,
	*mockEntitlementRepository,
) {
	t.Helper()

	eventRepo := &mockUsageEventRepository{}
	quotaRepo := &mockQuotaCounterRepository{}
	apiRepo := &mockAPIRepository{}
	entitlementRepo := &mockEntitlementRepository{}

	return NewUsageUseCase(eventRepo, quotaRepo, apiRepo, entitlementRepo),
		eventRepo, quotaRepo, apiRepo, entitlementRepo
}

func TestUsageUseCase_Stats(t *testing.T) {
	from := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)

	t.Run("SingleAPI", func(t *testing.T) {
		useCase, eventRepo, _, apiRepo, _ := setupUsageUseCase(t)

		userID := uuid.Must(uuid.NewV7())
		apiID := uuid.Must(uuid.NewV7())

		perDay := []usageDomain.DayCount{
			{Day: from, Count: 5},
			{Day: from.AddDate(0, 0, 1), Count: 3},
		}

		eventRepo.On("TotalByUser", mock.Anything, userID, &apiID, from, to).Return(int64(8), nil)
		eventRepo.On("PerDayByUser", mock.Anything, userID, &apiID, from, to).Return(perDay, nil)
		apiRepo.On("Get", mock.Anything, apiID).Return(&catalogDomain.API{
			ID:         apiID,
			Name:       "weather",
			UsageLimit: 1000,
		}, nil)

		stats, err := useCase.Stats(context.Background(), &usageDomain.StatsInput{
			UserID: userID,
			APIID:  &apiID,
			From:   from,
			To:     to,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(8), stats.TotalCalls)
		assert.Equal(t, perDay, stats.PerDay)
		assert.Equal(t, int64(1000), stats.Limit)
		eventRepo.AssertExpectations(t)
	})

	t.Run("AllAPIsSumsLimits", func(t *testing.T) {
		useCase, eventRepo, _, apiRepo, entitlementRepo := setupUsageUseCase(t)

		userID := uuid.Must(uuid.NewV7())
		firstAPI := uuid.Must(uuid.NewV7())
		secondAPI := uuid.Must(uuid.NewV7())

		eventRepo.On("TotalByUser", mock.Anything, userID, (*uuid.UUID)(nil), from, to).Return(int64(20), nil)
		eventRepo.On("PerDayByUser", mock.Anything, userID, (*uuid.UUID)(nil), from, to).
			Return([]usageDomain.DayCount{}, nil)
		entitlementRepo.On("AccessibleAPIIDs", mock.Anything, userID, mock.AnythingOfType("time.Time")).
			Return([]uuid.UUID{firstAPI, secondAPI}, nil)
		apiRepo.On("Get", mock.Anything, firstAPI).Return(&catalogDomain.API{ID: firstAPI, UsageLimit: 1000}, nil)
		apiRepo.On("Get", mock.Anything, secondAPI).Return(&catalogDomain.API{ID: secondAPI, UsageLimit: 500}, nil)

		stats, err := useCase.Stats(context.Background(), &usageDomain.StatsInput{
			UserID: userID,
			From:   from,
			To:     to,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(20), stats.TotalCalls)
		assert.Equal(t, int64(1500), stats.Limit)
	})

	t.Run("UnknownAPI", func(t *testing.T) {
		useCase, eventRepo, _, apiRepo, _ := setupUsageUseCase(t)

		userID := uuid.Must(uuid.NewV7())
		apiID := uuid.Must(uuid.NewV7())

		eventRepo.On("TotalByUser", mock.Anything, userID, &apiID, from, to).Return(int64(0), nil)
		eventRepo.On("PerDayByUser", mock.Anything, userID, &apiID, from, to).
			Return([]usageDomain.DayCount{}, nil)
		apiRepo.On("Get", mock.Anything, apiID).Return(nil, catalogDomain.ErrAPINotFound)

		stats, err := useCase.Stats(context.Background(), &usageDomain.StatsInput{
			UserID: userID,
			APIID:  &apiID,
			From:   from,
			To:     to,
		})
		require.Error(t, err)
		assert.Nil(t, stats)
		assert.True(t, errors.Is(err, catalogDomain.ErrAPINotFound))
	})
}

func TestUsageUseCase_Reconcile(t *testing.T) {
	t.Run("RewritesMismatchedCounters", func(t *testing.T) {
		useCase, eventRepo, quotaRepo, _, _ := setupUsageUseCase(t)

		before := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
		windowStart := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
		windowEnd := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

		matchedKey := uuid.Must(uuid.NewV7())
		driftedKey := uuid.Must(uuid.NewV7())

		quotaRepo.On("ListCountersBefore", mock.Anything, before, 500).Return([]*usageDomain.QuotaCounter{
			{APIKeyID: matchedKey, WindowStart: windowStart, Count: 100},
			{APIKeyID: driftedKey, WindowStart: windowStart, Count: 101},
		}, nil)
		eventRepo.On("CountByKeyAndWindow", mock.Anything, matchedKey, windowStart, windowEnd).
			Return(int64(100), nil)
		eventRepo.On("CountByKeyAndWindow", mock.Anything, driftedKey, windowStart, windowEnd).
			Return(int64(99), nil)
		quotaRepo.On("SetCount", mock.Anything, driftedKey, windowStart, int64(99)).Return(nil)

		report, err := useCase.Reconcile(context.Background(), before, 500)
		require.NoError(t, err)
		assert.Equal(t, 2, report.Checked)
		assert.Equal(t, 1, report.Rewritten)
		quotaRepo.AssertExpectations(t)
		quotaRepo.AssertNotCalled(t, "SetCount", mock.Anything, matchedKey, windowStart, mock.Anything)
	})

	t.Run("NothingToReconcile", func(t *testing.T) {
		useCase, _, quotaRepo, _, _ := setupUsageUseCase(t)

		before := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

		quotaRepo.On("ListCountersBefore", mock.Anything, before, 500).
			Return([]*usageDomain.QuotaCounter{}, nil)

		report, err := useCase.Reconcile(context.Background(), before, 500)
		require.NoError(t, err)
		assert.Zero(t, report.Checked)
		assert.Zero(t, report.Rewritten)
	})
}
