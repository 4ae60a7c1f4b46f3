//go:build unit || e2e

package testutil

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

// Mutation edits the JSON shape of a request before it is sent.
type Mutation func(map[string]any)

// DtoMap renders v through its json tags so tests can corrupt single fields.
func DtoMap(t *testing.T, v any, muts ...Mutation) map[string]any {
	t.Helper()
	raw, err := json.Marshal(v)
	require.NoError(t, err)

	m := map[string]any{}
	require.NoError(t, json.Unmarshal(raw, &m))
	for _, mut := range muts {
		mut(m)
	}
	return m
}

// Field overwrites key; a nil value is sent as JSON null.
func Field(key string, value any) Mutation {
	return func(m map[string]any) { m[key] = value }
}

// Without drops key from the payload entirely.
func Without(key string) Mutation {
	return func(m map[string]any) { delete(m, key) }
}
