package service

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math/big"

	apperrors "github.com/allisson/gateway/internal/errors"
)

// codeDigits is the length of generated verification codes.
const codeDigits = 6

// codeService implements CodeService with 6-digit numeric codes.
type codeService struct{}

// GenerateCode creates a uniformly random 6-digit verification code.
// Returns the plain code and its SHA-256 hash.
func (s *codeService) GenerateCode() (plainCode string, codeHash string, error error) {
	max := big.NewInt(1)
	for i := 0; i < codeDigits; i++ {
		max.Mul(max, big.NewInt(10))
	}

	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", "", apperrors.Wrap(err, "failed to generate verification code")
	}

	plainCode = fmt.Sprintf("%0*d", codeDigits, n)
	codeHash = s.HashCode(plainCode)

	return plainCode, codeHash, nil
}

// HashCode hashes a plain verification code using SHA-256.
// Returns the hash as a hexadecimal string.
func (s *codeService) HashCode(plainCode string) string {
	hash := sha256.Sum256([]byte(plainCode))
	return hex.EncodeToString(hash[:])
}

// NewCodeService creates a new CodeService generating 6-digit numeric codes.
func NewCodeService() CodeService {
	return &codeService{}
}
