package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	usageDomain "github.com/allisson/gateway/internal/usage/domain"
)

// mockQuotaReservationRepository is a mock implementation of
// QuotaReservationRepository for testing.
type mockQuotaReservationRepository struct {
	mock.Mock
}

func (m *mockQuotaReservationRepository) Reserve(
	ctx context.Context,
	apiKeyID uuid.UUID,
	windowStart time.Time,
	limit int64,
) (int64, bool, error) {
	args := m.Called(ctx, apiKeyID, windowStart, limit)
	return args.Get(0).(int64), args.Bool(1), args.Error(2)
}

// fakeQuotaStore reserves against an in-memory counter with the same
// conditional-increment contract the database statement has.
type fakeQuotaStore struct {
	mu    sync.Mutex
	count int64
}

func (f *fakeQuotaStore) Reserve(
	ctx context.Context,
	apiKeyID uuid.UUID,
	windowStart time.Time,
	limit int64,
) (int64, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.count >= limit {
		return 0, false, nil
	}
	f.count++
	return f.count, true, nil
}

func TestQuotaAccountant_CheckAndReserve(t *testing.T) {
	t.Run("Admitted", func(t *testing.T) {
		quotaRepo := &mockQuotaReservationRepository{}
		accountant := NewQuotaAccountant(quotaRepo)

		apiKeyID := uuid.Must(uuid.NewV7())

		quotaRepo.On("Reserve", mock.Anything, apiKeyID, mock.Anything, int64(1000)).Return(int64(42), true, nil)

		decision, err := accountant.CheckAndReserve(context.Background(), apiKeyID, 1000)
		require.NoError(t, err)
		assert.True(t, decision.Admitted)
		assert.Equal(t, int64(42), decision.Count)
		assert.Equal(t, usageDomain.WindowStart(time.Now().UTC()), decision.WindowStart)
		quotaRepo.AssertExpectations(t)
	})

	t.Run("DeniedAtLimit", func(t *testing.T) {
		quotaRepo := &mockQuotaReservationRepository{}
		accountant := NewQuotaAccountant(quotaRepo)

		apiKeyID := uuid.Must(uuid.NewV7())

		quotaRepo.On("Reserve", mock.Anything, apiKeyID, mock.Anything, int64(10)).Return(int64(0), false, nil)

		decision, err := accountant.CheckAndReserve(context.Background(), apiKeyID, 10)
		require.NoError(t, err)
		assert.False(t, decision.Admitted)
		quotaRepo.AssertExpectations(t)
	})

	t.Run("ZeroLimitDeniesWithoutStoreAccess", func(t *testing.T) {
		quotaRepo := &mockQuotaReservationRepository{}
		accountant := NewQuotaAccountant(quotaRepo)

		decision, err := accountant.CheckAndReserve(context.Background(), uuid.Must(uuid.NewV7()), 0)
		require.NoError(t, err)
		assert.False(t, decision.Admitted)
		assert.False(t, decision.WindowStart.IsZero())
		quotaRepo.AssertNotCalled(t, "Reserve", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("StoreFailure", func(t *testing.T) {
		quotaRepo := &mockQuotaReservationRepository{}
		accountant := NewQuotaAccountant(quotaRepo)

		apiKeyID := uuid.Must(uuid.NewV7())

		quotaRepo.On("Reserve", mock.Anything, apiKeyID, mock.Anything, int64(10)).
			Return(int64(0), false, errors.New("connection refused"))

		decision, err := accountant.CheckAndReserve(context.Background(), apiKeyID, 10)
		assert.Error(t, err)
		assert.Nil(t, decision)
		quotaRepo.AssertExpectations(t)
	})

	t.Run("ConcurrentReservationsNeverOvershoot", func(t *testing.T) {
		store := &fakeQuotaStore{}
		accountant := NewQuotaAccountant(store)

		apiKeyID := uuid.Must(uuid.NewV7())
		limit := int64(10)
		attempts := 50

		var wg sync.WaitGroup
		var mu sync.Mutex
		admitted := 0

		for i := 0; i < attempts; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				decision, err := accountant.CheckAndReserve(context.Background(), apiKeyID, limit)
				if !assert.NoError(t, err) {
					return
				}
				if decision.Admitted {
					mu.Lock()
					admitted++
					mu.Unlock()
				}
			}()
		}
		wg.Wait()

		assert.Equal(t, int(limit), admitted)
		assert.Equal(t, limit, store.count)
	})
}
