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

	userDomain "github.com/allisson/gateway/internal/user/domain"
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

func TestPostgreSQLUserRepository_Create(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPostgreSQLUserRepository(db)

	user := &userDomain.User{
		ID:        uuid.Must(uuid.NewV7()),
		Name:      "Alice",
		Email:     "alice@example.com",
		Phone:     "+15550000001",
		CreatedAt: time.Now().UTC(),
	}

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO users")).
		WithArgs(user.ID, user.Name, user.Email, user.Phone, user.CreatedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Create(context.Background(), user)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgreSQLUserRepository_GetByPhone(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewPostgreSQLUserRepository(db)

		userID := uuid.Must(uuid.NewV7())
		rows := sqlmock.NewRows([]string{"id", "name", "email", "phone", "created_at"}).
			AddRow(userID, "Alice", "alice@example.com", "+15550000001", time.Now().UTC())

		mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name, email, phone, created_at FROM users WHERE phone = $1")).
			WithArgs("+15550000001").
			WillReturnRows(rows)

		user, err := repo.GetByPhone(context.Background(), "+15550000001")
		require.NoError(t, err)
		assert.Equal(t, userID, user.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("NotFound", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewPostgreSQLUserRepository(db)

		mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name, email, phone, created_at FROM users WHERE phone = $1")).
			WithArgs("+15550000002").
			WillReturnError(sql.ErrNoRows)

		user, err := repo.GetByPhone(context.Background(), "+15550000002")
		require.Error(t, err)
		assert.Nil(t, user)
		assert.True(t, errors.Is(err, userDomain.ErrUserNotFound))
	})
}

func TestPostgreSQLVerificationCodeRepository_Consume(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewPostgreSQLVerificationCodeRepository(db)

		codeID := uuid.Must(uuid.NewV7())
		consumedAt := time.Now().UTC()

		mock.ExpectExec(regexp.QuoteMeta("UPDATE verification_codes SET consumed_at = $1 WHERE id = $2 AND consumed_at IS NULL")).
			WithArgs(consumedAt, codeID).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.Consume(context.Background(), codeID, consumedAt)
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("AlreadyConsumed", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewPostgreSQLVerificationCodeRepository(db)

		codeID := uuid.Must(uuid.NewV7())
		consumedAt := time.Now().UTC()

		mock.ExpectExec(regexp.QuoteMeta("UPDATE verification_codes")).
			WithArgs(consumedAt, codeID).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Consume(context.Background(), codeID, consumedAt)
		require.Error(t, err)
		assert.True(t, errors.Is(err, userDomain.ErrInvalidVerificationCode))
	})
}

func TestPostgreSQLSessionRepository_GetByTokenHash_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPostgreSQLSessionRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, user_id, token_hash, expires_at, created_at FROM sessions WHERE token_hash = $1")).
		WithArgs("missing-hash").
		WillReturnError(sql.ErrNoRows)

	session, err := repo.GetByTokenHash(context.Background(), "missing-hash")
	require.Error(t, err)
	assert.Nil(t, session)
	assert.True(t, errors.Is(err, userDomain.ErrInvalidSession))
	assert.NoError(t, mock.ExpectationsWereMet())
}
