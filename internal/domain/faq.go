package domain

import (
	"context"
	"time"
)

// FAQEntry represents an admin-curated question/answer pair offered as a quick reply.
// Entries are created and edited by external admin tooling; the chat core only
// reads them and increments ViewCount.
type FAQEntry struct {
	ID        int64     `json:"id"`
	Question  string    `json:"question"`
	Answer    string    `json:"answer"`
	Category  string    `json:"category"`
	Tags      []string  `json:"tags"`
	ViewCount int64     `json:"view_count"`
	CreatedAt time.Time `json:"created_at"`
}

// FAQRepository defines the interface for FAQ storage
type FAQRepository interface {
	Get(ctx context.Context, id int64) (*FAQEntry, error)
	TopByViews(ctx context.Context, limit int) ([]FAQEntry, error)
	Search(ctx context.Context, query string, limit int) ([]FAQEntry, error)
	IncrementView(ctx context.Context, id int64) error
}
