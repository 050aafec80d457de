package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	subscriptionDomain "github.com/allisson/gateway/internal/subscription/domain"
	"github.com/allisson/gateway/internal/subscription/usecase"
	userDomain "github.com/allisson/gateway/internal/user/domain"
	userHTTP "github.com/allisson/gateway/internal/user/http"
)

// mockSubscriptionUseCase is a mock implementation of SubscriptionUseCase for testing.
type mockSubscriptionUseCase struct {
	mock.Mock
}

func (m *mockSubscriptionUseCase) Subscribe(
	ctx context.Context,
	input *subscriptionDomain.SubscribeInput,
) (*subscriptionDomain.Subscription, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*subscriptionDomain.Subscription), args.Error(1)
}

func (m *mockSubscriptionUseCase) Cancel(ctx context.Context, userID, subscriptionID uuid.UUID) error {
	args := m.Called(ctx, userID, subscriptionID)
	return args.Error(0)
}

func (m *mockSubscriptionUseCase) List(
	ctx context.Context,
	userID uuid.UUID,
	offset, limit int,
) ([]*subscriptionDomain.Subscription, error) {
	args := m.Called(ctx, userID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*subscriptionDomain.Subscription), args.Error(1)
}

func (m *mockSubscriptionUseCase) ChangePackage(
	ctx context.Context,
	userID, subscriptionID, newPackageID uuid.UUID,
) (*subscriptionDomain.Subscription, error) {
	args := m.Called(ctx, userID, subscriptionID, newPackageID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*subscriptionDomain.Subscription), args.Error(1)
}

func (m *mockSubscriptionUseCase) RenewDue(
	ctx context.Context,
	before time.Time,
	limit int,
) (*usecase.RenewalReport, error) {
	args := m.Called(ctx, before, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.RenewalReport), args.Error(1)
}

// setupTestHandler creates a test handler with mocked dependencies.
func setupTestHandler(t *testing.T) (*SubscriptionHandler, *mockSubscriptionUseCase) {
	t.Helper()

	gin.SetMode(gin.TestMode)

	mockUseCase := &mockSubscriptionUseCase{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return NewSubscriptionHandler(mockUseCase, logger), mockUseCase
}

// createTestContext builds an authenticated gin context with an optional JSON body.
func createTestContext(
	method, target string,
	user *userDomain.User,
	body any,
) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	var reader io.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		reader = bytes.NewReader(data)
	}

	c.Request = httptest.NewRequest(method, target, reader)
	c.Request.Header.Set("Content-Type", "application/json")

	if user != nil {
		c.Request = c.Request.WithContext(userHTTP.WithUser(c.Request.Context(), user))
	}

	return c, w
}

func testUser() *userDomain.User {
	return &userDomain.User{
		ID:        uuid.Must(uuid.NewV7()),
		Name:      "Test User",
		Email:     "test@example.com",
		Phone:     "+15550001111",
		CreatedAt: time.Now().UTC(),
	}
}

func TestSubscriptionHandler_SubscribeHandler(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)
		user := testUser()
		packageID := uuid.Must(uuid.NewV7())
		now := time.Now().UTC()

		subscription := &subscriptionDomain.Subscription{
			ID:                 uuid.Must(uuid.NewV7()),
			UserID:             user.ID,
			PackageID:          packageID,
			Status:             subscriptionDomain.StatusActive,
			CurrentPeriodStart: now,
			CurrentPeriodEnd:   now.AddDate(0, 1, 0),
			CreatedAt:          now,
		}

		mockUseCase.On("Subscribe", mock.Anything, &subscriptionDomain.SubscribeInput{
			UserID:    user.ID,
			PackageID: packageID,
		}).Return(subscription, nil)

		c, w := createTestContext(http.MethodPost, "/v1/subscriptions", user, map[string]string{
			"package_id": packageID.String(),
		})

		handler.SubscribeHandler(c)

		assert.Equal(t, http.StatusCreated, w.Code)

		var response map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, subscription.ID.String(), response["id"])
		assert.Equal(t, packageID.String(), response["package_id"])
		assert.Equal(t, "active", response["status"])
		mockUseCase.AssertExpectations(t)
	})

	t.Run("AlreadySubscribed", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)
		user := testUser()
		packageID := uuid.Must(uuid.NewV7())

		mockUseCase.On("Subscribe", mock.Anything, mock.Anything).
			Return(nil, subscriptionDomain.ErrAlreadySubscribed)

		c, w := createTestContext(http.MethodPost, "/v1/subscriptions", user, map[string]string{
			"package_id": packageID.String(),
		})

		handler.SubscribeHandler(c)

		assert.Equal(t, http.StatusConflict, w.Code)
		mockUseCase.AssertExpectations(t)
	})

	t.Run("MissingPackageID", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)

		c, w := createTestContext(http.MethodPost, "/v1/subscriptions", testUser(), map[string]string{})

		handler.SubscribeHandler(c)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		mockUseCase.AssertNotCalled(t, "Subscribe")
	})

	t.Run("Unauthenticated", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)

		c, w := createTestContext(http.MethodPost, "/v1/subscriptions", nil, map[string]string{
			"package_id": uuid.Must(uuid.NewV7()).String(),
		})

		handler.SubscribeHandler(c)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		mockUseCase.AssertNotCalled(t, "Subscribe")
	})
}

func TestSubscriptionHandler_CancelHandler(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)
		user := testUser()
		subscriptionID := uuid.Must(uuid.NewV7())

		mockUseCase.On("Cancel", mock.Anything, user.ID, subscriptionID).Return(nil)

		c, w := createTestContext(http.MethodDelete, "/v1/subscriptions/"+subscriptionID.String(), user, nil)
		c.Params = gin.Params{{Key: "id", Value: subscriptionID.String()}}

		handler.CancelHandler(c)
		c.Writer.WriteHeaderNow()

		assert.Equal(t, http.StatusNoContent, w.Code)
		mockUseCase.AssertExpectations(t)
	})

	t.Run("NotFound", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)
		user := testUser()
		subscriptionID := uuid.Must(uuid.NewV7())

		mockUseCase.On("Cancel", mock.Anything, user.ID, subscriptionID).
			Return(subscriptionDomain.ErrSubscriptionNotFound)

		c, w := createTestContext(http.MethodDelete, "/v1/subscriptions/"+subscriptionID.String(), user, nil)
		c.Params = gin.Params{{Key: "id", Value: subscriptionID.String()}}

		handler.CancelHandler(c)

		assert.Equal(t, http.StatusNotFound, w.Code)
		mockUseCase.AssertExpectations(t)
	})

	t.Run("InvalidID", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)

		c, w := createTestContext(http.MethodDelete, "/v1/subscriptions/not-a-uuid", testUser(), nil)
		c.Params = gin.Params{{Key: "id", Value: "not-a-uuid"}}

		handler.CancelHandler(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		mockUseCase.AssertNotCalled(t, "Cancel")
	})
}

func TestSubscriptionHandler_ListHandler(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)
		user := testUser()
		now := time.Now().UTC()

		subscriptions := []*subscriptionDomain.Subscription{
			{
				ID:                 uuid.Must(uuid.NewV7()),
				UserID:             user.ID,
				PackageID:          uuid.Must(uuid.NewV7()),
				Status:             subscriptionDomain.StatusActive,
				CurrentPeriodStart: now,
				CurrentPeriodEnd:   now.AddDate(0, 1, 0),
				CreatedAt:          now,
			},
		}

		mockUseCase.On("List", mock.Anything, user.ID, 0, 50).Return(subscriptions, nil)

		c, w := createTestContext(http.MethodGet, "/v1/subscriptions", user, nil)

		handler.ListHandler(c)

		assert.Equal(t, http.StatusOK, w.Code)

		var response map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Len(t, response["subscriptions"], 1)
		mockUseCase.AssertExpectations(t)
	})

	t.Run("WithPagination", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)
		user := testUser()

		mockUseCase.On("List", mock.Anything, user.ID, 10, 20).
			Return([]*subscriptionDomain.Subscription{}, nil)

		c, w := createTestContext(http.MethodGet, "/v1/subscriptions?offset=10&limit=20", user, nil)

		handler.ListHandler(c)

		assert.Equal(t, http.StatusOK, w.Code)
		mockUseCase.AssertExpectations(t)
	})
}

func TestSubscriptionHandler_ChangePackageHandler(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)
		user := testUser()
		subscriptionID := uuid.Must(uuid.NewV7())
		newPackageID := uuid.Must(uuid.NewV7())
		now := time.Now().UTC()

		subscription := &subscriptionDomain.Subscription{
			ID:                 subscriptionID,
			UserID:             user.ID,
			PackageID:          newPackageID,
			Status:             subscriptionDomain.StatusActive,
			CurrentPeriodStart: now,
			CurrentPeriodEnd:   now.AddDate(0, 1, 0),
			CreatedAt:          now,
		}

		mockUseCase.On("ChangePackage", mock.Anything, user.ID, subscriptionID, newPackageID).
			Return(subscription, nil)

		c, w := createTestContext(
			http.MethodPost,
			"/v1/subscriptions/"+subscriptionID.String()+"/change",
			user,
			map[string]string{"package_id": newPackageID.String()},
		)
		c.Params = gin.Params{{Key: "id", Value: subscriptionID.String()}}

		handler.ChangePackageHandler(c)

		assert.Equal(t, http.StatusOK, w.Code)

		var response map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, newPackageID.String(), response["package_id"])
		mockUseCase.AssertExpectations(t)
	})

	t.Run("PaymentDeclined", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)
		user := testUser()
		subscriptionID := uuid.Must(uuid.NewV7())

		mockUseCase.On("ChangePackage", mock.Anything, user.ID, subscriptionID, mock.Anything).
			Return(nil, subscriptionDomain.ErrPaymentFailed)

		c, w := createTestContext(
			http.MethodPost,
			"/v1/subscriptions/"+subscriptionID.String()+"/change",
			user,
			map[string]string{"package_id": uuid.Must(uuid.NewV7()).String()},
		)
		c.Params = gin.Params{{Key: "id", Value: subscriptionID.String()}}

		handler.ChangePackageHandler(c)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		mockUseCase.AssertExpectations(t)
	})
}
