package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shoplane/support-chat/internal/domain"
)

const (
	suggestedCacheKey = "faq:suggested"
	suggestedCacheTTL = 1 * time.Minute
)

// SuggestedFAQCache caches the ranked "suggested on open" FAQ page so the hot
// session-open path does not hit the database on every request.
type SuggestedFAQCache struct {
	client *Client
}

// NewSuggestedFAQCache creates a new suggested-FAQ cache
func NewSuggestedFAQCache(client *Client) *SuggestedFAQCache {
	return &SuggestedFAQCache{client: client}
}

// Get retrieves the cached suggested page
func (c *SuggestedFAQCache) Get(ctx context.Context) ([]domain.FAQEntry, error) {
	data, err := c.client.rdb.Get(ctx, suggestedCacheKey).Bytes()
	if err != nil {
		return nil, nil // Cache miss
	}

	var entries []domain.FAQEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to unmarshal suggested page: %w", err)
	}

	return entries, nil
}

// Set caches the suggested page
func (c *SuggestedFAQCache) Set(ctx context.Context, entries []domain.FAQEntry) error {
	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("failed to marshal suggested page: %w", err)
	}

	return c.client.rdb.Set(ctx, suggestedCacheKey, data, suggestedCacheTTL).Err()
}

// Invalidate drops the cached page. Called after a view is recorded so the
// ranking catches up within one request rather than one TTL.
func (c *SuggestedFAQCache) Invalidate(ctx context.Context) error {
	return c.client.rdb.Del(ctx, suggestedCacheKey).Err()
}
