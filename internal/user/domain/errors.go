package domain

import (
	"github.com/allisson/gateway/internal/errors"
)

// User-specific error definitions.
var (
	// ErrUserNotFound indicates a user with the specified ID or phone was not found.
	ErrUserNotFound = errors.Wrap(errors.ErrNotFound, "user not found")

	// ErrUserAlreadyExists indicates the phone or email is already registered.
	ErrUserAlreadyExists = errors.Wrap(errors.ErrConflict, "user already exists")

	// ErrInvalidVerificationCode indicates the code is wrong, expired, or already used.
	ErrInvalidVerificationCode = errors.Wrap(errors.ErrUnauthorized, "invalid verification code")

	// ErrInvalidSession indicates the session token is unknown or expired.
	ErrInvalidSession = errors.Wrap(errors.ErrUnauthorized, "invalid session")
)
