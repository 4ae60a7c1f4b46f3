//go:build unit

package selectiontoken_test

import (
	"encoding/base64"
	"testing"

	"booking-orchestrator/internal/pkg/selectiontoken"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssue(t *testing.T) {
	t.Run("raw token carries at least 256 bits and is url safe", func(t *testing.T) {
		raw, hash, err := selectiontoken.Issue()
		require.NoError(t, err)

		decoded, err := base64.RawURLEncoding.DecodeString(raw)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, len(decoded)*8, 256)
		assert.NotContains(t, raw, "+")
		assert.NotContains(t, raw, "/")
		assert.NotContains(t, raw, "=")

		assert.Len(t, hash, 64)
		assert.NotEqual(t, raw, hash)
	})

	t.Run("hash is a pure function of the raw token", func(t *testing.T) {
		raw, hash, err := selectiontoken.Issue()
		require.NoError(t, err)
		assert.Equal(t, hash, selectiontoken.Hash(raw))
		assert.Equal(t, hash, selectiontoken.Hash("  "+raw+"\n"))
	})

	t.Run("tokens do not repeat", func(t *testing.T) {
		seen := make(map[string]struct{}, 100)
		for range 100 {
			raw, _, err := selectiontoken.Issue()
			require.NoError(t, err)
			_, dup := seen[raw]
			require.False(t, dup)
			seen[raw] = struct{}{}
		}
	})
}

func TestPrefix(t *testing.T) {
	assert.Equal(t, "abc", selectiontoken.Prefix("abc"))
	assert.Equal(t, "0123456789ab", selectiontoken.Prefix("0123456789abcdef"))
}
