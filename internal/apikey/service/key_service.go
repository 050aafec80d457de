// Package service provides API key generation.
package service

import (
	"crypto/rand"
	"encoding/base64"

	apperrors "github.com/allisson/gateway/internal/errors"
)

// keyPrefix marks generated keys so they are recognizable in logs and
// support tooling without revealing anything about the key itself.
const keyPrefix = "ak_"

// KeyService defines API key generation operations.
type KeyService interface {
	// GenerateKey creates a new cryptographically secure API key.
	GenerateKey() (string, error)
}

// keyService implements KeyService using crypto/rand.
type keyService struct{}

// GenerateKey creates a new 32-byte random key, base64 URL-encoded and
// prefixed for recognizability.
func (k *keyService) GenerateKey() (string, error) {
	randomBytes := make([]byte, 32)
	if _, err := rand.Read(randomBytes); err != nil {
		return "", apperrors.Wrap(err, "failed to generate random key")
	}

	return keyPrefix + base64.URLEncoding.EncodeToString(randomBytes), nil
}

// NewKeyService creates a new KeyService instance.
func NewKeyService() KeyService {
	return &keyService{}
}
