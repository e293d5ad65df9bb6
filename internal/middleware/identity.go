package middleware

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/pr-poehali-dev/milka-messenger-project/internal/httpx"
)

// IdentityRequired extracts the calling user's id from the X-User-Id header
// into c.Locals("userID") and rejects requests without one.
//
// The id is trusted as-is: session tokens issued at register/login are
// never presented back or verified. That bearer-id model is carried over
// from the original service deliberately; a real deployment needs a
// verification layer in front of this.
func IdentityRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := strings.TrimSpace(c.Get("X-User-Id"))
		if raw == "" {
			return httpx.Unauthorized(c, "missing_user_id", "User ID required in X-User-Id header")
		}

		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil || id == 0 {
			return httpx.Unauthorized(c, "invalid_user_id", "Invalid X-User-Id header")
		}

		c.Locals("userID", uint(id))
		return c.Next()
	}
}
