package service

import (
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyService_GenerateKey(t *testing.T) {
	service := NewKeyService()

	t.Run("GeneratesPrefixedKey", func(t *testing.T) {
		key, err := service.GenerateKey()
		require.NoError(t, err)

		assert.True(t, strings.HasPrefix(key, "ak_"))

		decoded, err := base64.URLEncoding.DecodeString(strings.TrimPrefix(key, "ak_"))
		require.NoError(t, err)
		assert.Len(t, decoded, 32)
	})

	t.Run("GeneratesUniqueKeys", func(t *testing.T) {
		seen := make(map[string]bool)
		for i := 0; i < 100; i++ {
			key, err := service.GenerateKey()
			require.NoError(t, err)
			assert.False(t, seen[key])
			seen[key] = true
		}
	})
}
