// Package service provides technical services for account authentication.
//
// This package implements session token generation and one-time verification
// code handling using cryptographically secure random generation.
package service

import "context"

// TokenService defines operations for session token generation and hashing.
// Implementations must use cryptographically secure random generation and
// fast hashing algorithms suitable for short-lived tokens (e.g., SHA-256).
type TokenService interface {
	// GenerateToken creates a new cryptographically secure random token.
	// Returns both the plain text token (to be shared with the user) and
	// the hashed version (to be stored in the database).
	GenerateToken() (plainToken string, tokenHash string, error error)

	// HashToken hashes a plain text token using SHA-256.
	// Used for session lookup by comparing hashes.
	HashToken(plainToken string) string
}

// CodeService defines operations for one-time verification code generation.
type CodeService interface {
	// GenerateCode creates a new random numeric verification code.
	// Returns both the plain code (to be sent to the user) and the hashed
	// version (to be stored in the database).
	GenerateCode() (plainCode string, codeHash string, error error)

	// HashCode hashes a plain verification code using SHA-256.
	HashCode(plainCode string) string
}

// VerificationSender delivers one-time verification codes to phone numbers.
// Production deployments plug in an SMS provider, development uses a
// logging implementation.
type VerificationSender interface {
	SendCode(ctx context.Context, phone, code string) error
}
