package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apikeyDomain "github.com/allisson/gateway/internal/apikey/domain"
	apperrors "github.com/allisson/gateway/internal/errors"
)

// mockAPIKeyRepository is a mock implementation of APIKeyRepository for testing.
type mockAPIKeyRepository struct {
	mock.Mock
}

func (m *mockAPIKeyRepository) GetActiveByKey(ctx context.Context, key string) (*apikeyDomain.APIKey, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*apikeyDomain.APIKey), args.Error(1)
}

func TestKeyResolver_Resolve(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		apiKeyRepo := &mockAPIKeyRepository{}
		resolver := NewKeyResolver(apiKeyRepo)

		apiKey := &apikeyDomain.APIKey{
			ID:     uuid.Must(uuid.NewV7()),
			UserID: uuid.Must(uuid.NewV7()),
			APIID:  uuid.Must(uuid.NewV7()),
		}

		apiKeyRepo.On("GetActiveByKey", mock.Anything, "ak_live_key").Return(apiKey, nil)

		keyContext, err := resolver.Resolve(context.Background(), "ak_live_key")
		require.NoError(t, err)
		assert.Equal(t, apiKey.ID, keyContext.APIKeyID)
		assert.Equal(t, apiKey.UserID, keyContext.UserID)
		assert.Equal(t, apiKey.APIID, keyContext.APIID)
		apiKeyRepo.AssertExpectations(t)
	})

	t.Run("UnknownKey", func(t *testing.T) {
		apiKeyRepo := &mockAPIKeyRepository{}
		resolver := NewKeyResolver(apiKeyRepo)

		apiKeyRepo.On("GetActiveByKey", mock.Anything, "ak_unknown").Return(nil, apikeyDomain.ErrAPIKeyNotFound)

		keyContext, err := resolver.Resolve(context.Background(), "ak_unknown")
		assert.Error(t, err)
		assert.Nil(t, keyContext)
		assert.True(t, errors.Is(err, apperrors.ErrUnauthorized))
		apiKeyRepo.AssertExpectations(t)
	})

	t.Run("StoreFailureIsNotUnauthorized", func(t *testing.T) {
		apiKeyRepo := &mockAPIKeyRepository{}
		resolver := NewKeyResolver(apiKeyRepo)

		storeErr := errors.New("connection refused")
		apiKeyRepo.On("GetActiveByKey", mock.Anything, "ak_live_key").Return(nil, storeErr)

		keyContext, err := resolver.Resolve(context.Background(), "ak_live_key")
		assert.Error(t, err)
		assert.Nil(t, keyContext)
		assert.False(t, errors.Is(err, apperrors.ErrUnauthorized))
		apiKeyRepo.AssertExpectations(t)
	})
}
