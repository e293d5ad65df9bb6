package validation

import (
	"os"
	"strconv"
	"strings"
)

const (
	DefaultUserAvatar  = "👤"
	DefaultGroupAvatar = "👥"
)

func NormalizePhone(phone string) string {
	return strings.TrimSpace(phone)
}

func NormalizeName(name string) string {
	return strings.TrimSpace(name)
}

func MaxMessageLength() int {
	maxStr := os.Getenv("MAX_MESSAGE_LENGTH")
	if maxStr == "" {
		return 4000
	}
	max, err := strconv.Atoi(maxStr)
	if err != nil || max < 1 {
		return 4000
	}
	return max
}

// SeedContactLimit bounds how many private chats are auto-created for a
// brand-new user at registration.
func SeedContactLimit() int {
	limitStr := os.Getenv("SEED_CONTACT_LIMIT")
	if limitStr == "" {
		return 3
	}
	limit, err := strconv.Atoi(limitStr)
	if err != nil || limit < 0 {
		return 3
	}
	if limit > 10 {
		return 10
	}
	return limit
}

func TrimAndLimit(s string, max int) string {
	s = strings.TrimSpace(s)
	if max > 0 && len(s) > max {
		return s[:max]
	}
	return s
}
