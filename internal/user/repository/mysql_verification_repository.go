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

// MySQLVerificationCodeRepository implements VerificationCode persistence for MySQL.
// Uses BINARY(16) UUID types with transaction support via database.GetTx().
type MySQLVerificationCodeRepository struct {
	db *sql.DB
}

// Create inserts a new VerificationCode into the MySQL database.
func (m *MySQLVerificationCodeRepository) Create(
	ctx context.Context,
	code *userDomain.VerificationCode,
) error {
	querier := database.GetTx(ctx, m.db)

	query := `INSERT INTO verification_codes (id, phone, code_hash, expires_at, consumed_at, created_at)
			  VALUES (?, ?, ?, ?, ?, ?)`

	id, err := code.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal verification code id")
	}

	_, err = querier.ExecContext(
		ctx,
		query,
		id,
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
func (m *MySQLVerificationCodeRepository) GetByPhoneAndHash(
	ctx context.Context,
	phone, codeHash string,
) (*userDomain.VerificationCode, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, phone, code_hash, expires_at, consumed_at, created_at
			  FROM verification_codes
			  WHERE phone = ? AND code_hash = ?
			  ORDER BY id DESC
			  LIMIT 1`

	var code userDomain.VerificationCode
	var idBytes []byte

	err := querier.QueryRowContext(ctx, query, phone, codeHash).Scan(
		&idBytes,
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

	if err := code.ID.UnmarshalBinary(idBytes); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal verification code id")
	}

	return &code, nil
}

// Consume marks a VerificationCode as used. Only unconsumed codes are updated,
// so a code can be redeemed at most once even under concurrent verification.
func (m *MySQLVerificationCodeRepository) Consume(
	ctx context.Context,
	codeID uuid.UUID,
	consumedAt time.Time,
) error {
	querier := database.GetTx(ctx, m.db)

	query := `UPDATE verification_codes SET consumed_at = ? WHERE id = ? AND consumed_at IS NULL`

	id, err := codeID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal verification code id")
	}

	result, err := querier.ExecContext(ctx, query, consumedAt, id)
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

// NewMySQLVerificationCodeRepository creates a new MySQL VerificationCode repository.
func NewMySQLVerificationCodeRepository(db *sql.DB) *MySQLVerificationCodeRepository {
	return &MySQLVerificationCodeRepository{db: db}
}
