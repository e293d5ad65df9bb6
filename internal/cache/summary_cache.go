package cache

import (
	"fmt"
	"time"

	"github.com/pr-poehali-dev/milka-messenger-project/internal/models"
	"github.com/vmihailenco/msgpack/v5"
)

// SummaryTTL is short on purpose: summaries carry unread counts, and the
// handlers invalidate on every send and read anyway.
const SummaryTTL = 30 * time.Second

// SummaryCache caches the per-user chat list projection. Nil-safe: with no
// Redis configured every method is a no-op miss.
type SummaryCache struct {
	redis *RedisCache
}

// NewSummaryCache creates a new chat summary cache
func NewSummaryCache(redis *RedisCache) *SummaryCache {
	return &SummaryCache{redis: redis}
}

func summaryKey(userID uint) string {
	return fmt.Sprintf("summaries:%d", userID)
}

// Get retrieves the cached chat list for a user
func (sc *SummaryCache) Get(userID uint) ([]models.ChatSummary, bool) {
	if sc == nil || sc.redis == nil {
		return nil, false
	}
	data, err := sc.redis.Get(summaryKey(userID))
	if err != nil || data == nil {
		return nil, false
	}

	var summaries []models.ChatSummary
	if err := msgpack.Unmarshal(data, &summaries); err != nil {
		return nil, false
	}
	return summaries, true
}

// Set caches the chat list for a user
func (sc *SummaryCache) Set(userID uint, summaries []models.ChatSummary) error {
	if sc == nil || sc.redis == nil {
		return nil
	}
	data, err := msgpack.Marshal(summaries)
	if err != nil {
		return err
	}
	return sc.redis.Set(summaryKey(userID), data, SummaryTTL)
}

// Invalidate drops the cached chat lists of the given users. Called after
// a send (every member's last message changed) and after a read (the
// reader's unread counts changed).
func (sc *SummaryCache) Invalidate(userIDs ...uint) {
	if sc == nil || sc.redis == nil {
		return
	}
	for _, id := range userIDs {
		_ = sc.redis.Delete(summaryKey(id))
	}
}
