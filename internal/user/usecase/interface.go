// Package usecase defines business logic interfaces for account operations.
package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	userDomain "github.com/allisson/gateway/internal/user/domain"
)

// UserRepository defines persistence operations for user accounts.
// Implementations must support transaction-aware operations via context propagation.
type UserRepository interface {
	// Create stores a new user in the repository.
	Create(ctx context.Context, user *userDomain.User) error

	// Get retrieves a user by ID. Returns ErrUserNotFound if not found.
	Get(ctx context.Context, userID uuid.UUID) (*userDomain.User, error)

	// GetByPhone retrieves a user by phone number. Returns ErrUserNotFound if not found.
	GetByPhone(ctx context.Context, phone string) (*userDomain.User, error)
}

// SessionRepository defines persistence operations for authenticated sessions.
type SessionRepository interface {
	// Create stores a new session in the repository.
	Create(ctx context.Context, session *userDomain.Session) error

	// GetByTokenHash retrieves a session by token hash. Returns ErrInvalidSession if not found.
	GetByTokenHash(ctx context.Context, tokenHash string) (*userDomain.Session, error)

	// DeleteByTokenHash removes a session by token hash.
	DeleteByTokenHash(ctx context.Context, tokenHash string) error
}

// VerificationCodeRepository defines persistence operations for one-time codes.
type VerificationCodeRepository interface {
	// Create stores a new verification code in the repository.
	Create(ctx context.Context, code *userDomain.VerificationCode) error

	// GetByPhoneAndHash retrieves the newest matching code for a phone number.
	// Returns ErrInvalidVerificationCode if not found.
	GetByPhoneAndHash(ctx context.Context, phone, codeHash string) (*userDomain.VerificationCode, error)

	// Consume marks a code as used. Returns ErrInvalidVerificationCode if the
	// code was already consumed.
	Consume(ctx context.Context, codeID uuid.UUID, consumedAt time.Time) error
}

// UserUseCase defines business logic operations for account authentication.
// Accounts log in by redeeming a one-time code delivered to their phone,
// which yields an opaque session token.
type UserUseCase interface {
	// Register creates a new account. Returns ErrUserAlreadyExists if the
	// phone number is already registered.
	Register(ctx context.Context, input *userDomain.RegisterInput) (*userDomain.User, error)

	// RequestCode generates a one-time verification code for the phone number
	// and delivers it through the configured sender. The code is issued even
	// for unregistered phones so the endpoint doesn't leak account existence.
	RequestCode(ctx context.Context, phone string) error

	// Login redeems a verification code and opens a session.
	// Returns ErrInvalidVerificationCode if the code is wrong, expired, or
	// already used, and ErrUserNotFound if the phone isn't registered.
	// The plain session token is only returned once.
	Login(ctx context.Context, phone, code string) (*userDomain.LoginOutput, error)

	// Logout removes the session for the given token hash.
	Logout(ctx context.Context, tokenHash string) error

	// Me retrieves the account by ID. Returns ErrUserNotFound if not found.
	Me(ctx context.Context, userID uuid.UUID) (*userDomain.User, error)

	// Authenticate resolves a session token hash to its account.
	// Returns ErrInvalidSession for unknown or expired sessions.
	Authenticate(ctx context.Context, tokenHash string) (*userDomain.User, error)
}
