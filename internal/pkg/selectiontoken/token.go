package selectiontoken

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"strings"

	"booking-orchestrator/internal/pkg/errs"
)

// 32 bytes = 256 bits of entropy.
const rawTokenBytes = 32

const hashPrefixLen = 12

var ErrEntropyUnavailable = errs.New("secure random source unavailable")

// Issue returns a fresh URL-safe token and the hex SHA-256 digest that is the only form ever stored.
func Issue() (raw string, hash string, err error) {
	buf := make([]byte, rawTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", "", errs.Mark(err, ErrEntropyUnavailable)
	}
	raw = base64.RawURLEncoding.EncodeToString(buf)
	return raw, Hash(raw), nil
}

// Hash is a pure re-hash used for lookups. Unknown tokens simply produce a hash nothing matches.
func Hash(raw string) string {
	sum := sha256.Sum256([]byte(strings.TrimSpace(raw)))
	return hex.EncodeToString(sum[:])
}

// Prefix is safe to log and to embed in dedupe keys.
func Prefix(hash string) string {
	if len(hash) <= hashPrefixLen {
		return hash
	}
	return hash[:hashPrefixLen]
}
