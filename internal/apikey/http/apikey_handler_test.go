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

	apikeyDomain "github.com/allisson/gateway/internal/apikey/domain"
	userDomain "github.com/allisson/gateway/internal/user/domain"
	userHTTP "github.com/allisson/gateway/internal/user/http"
)

// mockAPIKeyUseCase is a mock implementation of APIKeyUseCase for testing.
type mockAPIKeyUseCase struct {
	mock.Mock
}

func (m *mockAPIKeyUseCase) Issue(
	ctx context.Context,
	input *apikeyDomain.IssueInput,
) (*apikeyDomain.APIKey, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*apikeyDomain.APIKey), args.Error(1)
}

func (m *mockAPIKeyUseCase) Revoke(ctx context.Context, userID, apiKeyID uuid.UUID) error {
	args := m.Called(ctx, userID, apiKeyID)
	return args.Error(0)
}

func (m *mockAPIKeyUseCase) List(
	ctx context.Context,
	userID uuid.UUID,
	offset, limit int,
) ([]*apikeyDomain.APIKey, error) {
	args := m.Called(ctx, userID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*apikeyDomain.APIKey), args.Error(1)
}

// setupTestHandler creates a test handler with mocked dependencies.
func setupTestHandler(t *testing.T) (*APIKeyHandler, *mockAPIKeyUseCase) {
	t.Helper()

	gin.SetMode(gin.TestMode)

	mockUseCase := &mockAPIKeyUseCase{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return NewAPIKeyHandler(mockUseCase, logger), mockUseCase
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

func TestAPIKeyHandler_IssueHandler(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)
		user := testUser()
		apiID := uuid.Must(uuid.NewV7())

		apiKey := &apikeyDomain.APIKey{
			ID:        uuid.Must(uuid.NewV7()),
			UserID:    user.ID,
			APIID:     apiID,
			Key:       "ak_test-key-value",
			IsActive:  true,
			CreatedAt: time.Now().UTC(),
		}

		mockUseCase.On("Issue", mock.Anything, &apikeyDomain.IssueInput{
			UserID: user.ID,
			APIID:  apiID,
		}).Return(apiKey, nil)

		c, w := createTestContext(http.MethodPost, "/v1/api-keys", user, map[string]string{
			"api_id": apiID.String(),
		})

		handler.IssueHandler(c)

		assert.Equal(t, http.StatusCreated, w.Code)

		var response map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, apiKey.ID.String(), response["id"])
		assert.Equal(t, "ak_test-key-value", response["key"])
		assert.Equal(t, true, response["is_active"])
		mockUseCase.AssertExpectations(t)
	})

	t.Run("NotEntitled", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)
		user := testUser()

		mockUseCase.On("Issue", mock.Anything, mock.Anything).
			Return(nil, apikeyDomain.ErrNotEntitled)

		c, w := createTestContext(http.MethodPost, "/v1/api-keys", user, map[string]string{
			"api_id": uuid.Must(uuid.NewV7()).String(),
		})

		handler.IssueHandler(c)

		assert.Equal(t, http.StatusForbidden, w.Code)
		mockUseCase.AssertExpectations(t)
	})

	t.Run("InvalidAPIID", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)

		c, w := createTestContext(http.MethodPost, "/v1/api-keys", testUser(), map[string]string{
			"api_id": "not-a-uuid",
		})

		handler.IssueHandler(c)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		mockUseCase.AssertNotCalled(t, "Issue")
	})

	t.Run("Unauthenticated", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)

		c, w := createTestContext(http.MethodPost, "/v1/api-keys", nil, map[string]string{
			"api_id": uuid.Must(uuid.NewV7()).String(),
		})

		handler.IssueHandler(c)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		mockUseCase.AssertNotCalled(t, "Issue")
	})
}

func TestAPIKeyHandler_RevokeHandler(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)
		user := testUser()
		apiKeyID := uuid.Must(uuid.NewV7())

		mockUseCase.On("Revoke", mock.Anything, user.ID, apiKeyID).Return(nil)

		c, w := createTestContext(http.MethodDelete, "/v1/api-keys/"+apiKeyID.String(), user, nil)
		c.Params = gin.Params{{Key: "id", Value: apiKeyID.String()}}

		handler.RevokeHandler(c)
		c.Writer.WriteHeaderNow()

		assert.Equal(t, http.StatusNoContent, w.Code)
		mockUseCase.AssertExpectations(t)
	})

	t.Run("NotFound", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)
		user := testUser()
		apiKeyID := uuid.Must(uuid.NewV7())

		mockUseCase.On("Revoke", mock.Anything, user.ID, apiKeyID).
			Return(apikeyDomain.ErrAPIKeyNotFound)

		c, w := createTestContext(http.MethodDelete, "/v1/api-keys/"+apiKeyID.String(), user, nil)
		c.Params = gin.Params{{Key: "id", Value: apiKeyID.String()}}

		handler.RevokeHandler(c)

		assert.Equal(t, http.StatusNotFound, w.Code)
		mockUseCase.AssertExpectations(t)
	})

	t.Run("InvalidID", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)

		c, w := createTestContext(http.MethodDelete, "/v1/api-keys/not-a-uuid", testUser(), nil)
		c.Params = gin.Params{{Key: "id", Value: "not-a-uuid"}}

		handler.RevokeHandler(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		mockUseCase.AssertNotCalled(t, "Revoke")
	})
}

func TestAPIKeyHandler_ListHandler(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)
		user := testUser()

		apiKeys := []*apikeyDomain.APIKey{
			{
				ID:        uuid.Must(uuid.NewV7()),
				UserID:    user.ID,
				APIID:     uuid.Must(uuid.NewV7()),
				Key:       "ak_test-key-value",
				IsActive:  true,
				CreatedAt: time.Now().UTC(),
			},
		}

		mockUseCase.On("List", mock.Anything, user.ID, 0, 50).Return(apiKeys, nil)

		c, w := createTestContext(http.MethodGet, "/v1/api-keys", user, nil)

		handler.ListHandler(c)

		assert.Equal(t, http.StatusOK, w.Code)

		var response map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Len(t, response["api_keys"], 1)
		mockUseCase.AssertExpectations(t)
	})

	t.Run("InvalidPagination", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)

		c, w := createTestContext(http.MethodGet, "/v1/api-keys?limit=0", testUser(), nil)

		handler.ListHandler(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		mockUseCase.AssertNotCalled(t, "List")
	})
}
