package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/allisson/gateway/internal/database"
	apperrors "github.com/allisson/gateway/internal/errors"
	userDomain "github.com/allisson/gateway/internal/user/domain"
)

// MySQLSessionRepository implements Session persistence for MySQL.
// Uses BINARY(16) UUID types with transaction support via database.GetTx().
type MySQLSessionRepository struct {
	db *sql.DB
}

// Create inserts a new Session into the MySQL database.
func (m *MySQLSessionRepository) Create(ctx context.Context, session *userDomain.Session) error {
	querier := database.GetTx(ctx, m.db)

	query := `INSERT INTO sessions (id, user_id, token_hash, expires_at, created_at)
			  VALUES (?, ?, ?, ?, ?)`

	id, err := session.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal session id")
	}

	userID, err := session.UserID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal user id")
	}

	_, err = querier.ExecContext(
		ctx,
		query,
		id,
		userID,
		session.TokenHash,
		session.ExpiresAt,
		session.CreatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create session")
	}

	return nil
}

// GetByTokenHash retrieves a Session by its token hash from the MySQL database.
func (m *MySQLSessionRepository) GetByTokenHash(
	ctx context.Context,
	tokenHash string,
) (*userDomain.Session, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, user_id, token_hash, expires_at, created_at FROM sessions WHERE token_hash = ?`

	var session userDomain.Session
	var idBytes []byte
	var userIDBytes []byte

	err := querier.QueryRowContext(ctx, query, tokenHash).Scan(
		&idBytes,
		&userIDBytes,
		&session.TokenHash,
		&session.ExpiresAt,
		&session.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, userDomain.ErrInvalidSession
		}
		return nil, apperrors.Wrap(err, "failed to get session")
	}

	if err := session.ID.UnmarshalBinary(idBytes); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal session id")
	}
	if err := session.UserID.UnmarshalBinary(userIDBytes); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal user id")
	}

	return &session, nil
}

// DeleteByTokenHash removes a Session by its token hash from the MySQL database.
func (m *MySQLSessionRepository) DeleteByTokenHash(ctx context.Context, tokenHash string) error {
	querier := database.GetTx(ctx, m.db)

	query := `DELETE FROM sessions WHERE token_hash = ?`

	if _, err := querier.ExecContext(ctx, query, tokenHash); err != nil {
		return apperrors.Wrap(err, "failed to delete session")
	}

	return nil
}

// NewMySQLSessionRepository creates a new MySQL Session repository.
func NewMySQLSessionRepository(db *sql.DB) *MySQLSessionRepository {
	return &MySQLSessionRepository{db: db}
}
