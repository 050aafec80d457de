package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/allisson/gateway/internal/database"
	apperrors "github.com/allisson/gateway/internal/errors"
	userDomain "github.com/allisson/gateway/internal/user/domain"
)

// PostgreSQLVerificationCodeRepository implements VerificationCode persistence for PostgreSQL.
// Uses native UUID types with transaction support via database.GetTx().
type PostgreSQLVerificationCodeRepository struct {
	db *sql.DB
}

// Create inserts a new VerificationCode into the PostgreSQL database.
func (p *PostgreSQLVerificationCodeRepository) Create(
	ctx context.Context,
	code *userDomain.VerificationCode,
) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO verification_codes (id, phone, code_hash, expires_at, consumed_at, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := querier.ExecContext(
		ctx,
		query,
		code.ID,
		code.Phone,
		code.CodeHash,
		code.ExpiresAt,
		code.ConsumedAt,
		code.CreatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create verification code")
	}

	return nil
}

// GetByPhoneAndHash retrieves the newest matching VerificationCode for a phone number.
func (p *PostgreSQLVerificationCodeRepository) GetByPhoneAndHash(
	ctx context.Context,
	phone, codeHash string,
) (*userDomain.VerificationCode, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, phone, code_hash, expires_at, consumed_at, created_at
			  FROM verification_codes
			  WHERE phone = $1 AND code_hash = $2
			  ORDER BY id DESC
			  LIMIT 1`

	var code userDomain.VerificationCode

	err := querier.QueryRowContext(ctx, query, phone, codeHash).Scan(
		&code.ID,
		&code.Phone,
		&code.CodeHash,
		&code.ExpiresAt,
		&code.ConsumedAt,
		&code.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, userDomain.ErrInvalidVerificationCode
		}
		return nil, apperrors.Wrap(err, "failed to get verification code")
	}

	return &code, nil
}

// Consume marks a VerificationCode as used. Only unconsumed codes are updated,
// so a code can be redeemed at most once even under concurrent verification.
func (p *PostgreSQLVerificationCodeRepository) Consume(
	ctx context.Context,
	codeID uuid.UUID,
	consumedAt time.Time,
) error {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE verification_codes SET consumed_at = $1 WHERE id = $2 AND consumed_at IS NULL`

	result, err := querier.ExecContext(ctx, query, consumedAt, codeID)
	if err != nil {
		return apperrors.Wrap(err, "failed to consume verification code")
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to check consumed verification code")
	}
	if rowsAffected == 0 {
		return userDomain.ErrInvalidVerificationCode
	}

	return nil
}

// NewPostgreSQLVerificationCodeRepository creates a new PostgreSQL VerificationCode repository.
func NewPostgreSQLVerificationCodeRepository(db *sql.DB) *PostgreSQLVerificationCodeRepository {
	return &PostgreSQLVerificationCodeRepository{db: db}
}
