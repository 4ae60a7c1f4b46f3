//go:build unit || e2e

package httptest

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

// AssertHeader compares one response header; an empty want only requires presence.
func AssertHeader(t *testing.T, w *httptest.ResponseRecorder, key, want string) bool {
	t.Helper()
	got := w.Header().Get(key)
	if want == "" {
		return assert.NotEmpty(t, got, "header %s missing", key)
	}
	return assert.Equal(t, want, got, "header %s", key)
}
