// Package session mints opaque per-login credentials.
//
// Tokens are issued at register/login and returned to the caller; nothing in
// this service persists or later verifies them. Requests instead carry the
// user id in the X-User-Id header. That bearer-id trust model is inherited
// from the original service and is a known gap for any real deployment.
package session

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/google/uuid"
)

// Issue returns a 64-char hex token derived from the phone number, a
// high-resolution timestamp and a random UUID. Opaque, practically
// non-repeating, never blocks.
func Issue(phone string) string {
	data := phone + time.Now().Format(time.RFC3339Nano) + uuid.NewString()
	sum := sha256.Sum256([]byte(data))
	return hex.EncodeToString(sum[:])
}
