package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shoplane/support-chat/internal/domain"
)

// FAQRepository implements domain.FAQRepository
type FAQRepository struct {
	pool *pgxpool.Pool
}

// NewFAQRepository creates a new FAQ repository
func NewFAQRepository(pool *pgxpool.Pool) *FAQRepository {
	return &FAQRepository{pool: pool}
}

const faqColumns = `id, question, answer, category, tags, view_count, created_at`

func (r *FAQRepository) Get(ctx context.Context, id int64) (*domain.FAQEntry, error) {
	query := `SELECT ` + faqColumns + ` FROM faq_entries WHERE id = $1`
	var f domain.FAQEntry
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&f.ID,
		&f.Question,
		&f.Answer,
		&f.Category,
		&f.Tags,
		&f.ViewCount,
		&f.CreatedAt,
	)
	if err != nil {
		return nil, wrapErr("get faq entry", err)
	}
	return &f, nil
}

// TopByViews returns the most viewed entries. The id tie-break keeps the
// ranking deterministic across equally viewed entries.
func (r *FAQRepository) TopByViews(ctx context.Context, limit int) ([]domain.FAQEntry, error) {
	query := `
		SELECT ` + faqColumns + `
		FROM faq_entries
		ORDER BY view_count DESC, id ASC
		LIMIT $1
	`
	return r.list(ctx, query, limit)
}

// Search matches the query case-insensitively against question text and tags.
func (r *FAQRepository) Search(ctx context.Context, query string, limit int) ([]domain.FAQEntry, error) {
	sql := `
		SELECT ` + faqColumns + `
		FROM faq_entries
		WHERE question ILIKE '%' || $1 || '%'
		   OR EXISTS (SELECT 1 FROM unnest(tags) AS t WHERE t ILIKE '%' || $1 || '%')
		ORDER BY view_count DESC, id ASC
		LIMIT $2
	`
	return r.list(ctx, sql, query, limit)
}

// IncrementView bumps the view counter by one. The increment is a single
// atomic UPDATE, so concurrent views never lose updates.
func (r *FAQRepository) IncrementView(ctx context.Context, id int64) error {
	query := `UPDATE faq_entries SET view_count = view_count + 1 WHERE id = $1`
	tag, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return wrapErr("increment faq view", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("increment faq view: %w", domain.ErrNotFound)
	}
	return nil
}

func (r *FAQRepository) list(ctx context.Context, query string, args ...any) ([]domain.FAQEntry, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, wrapErr("list faq entries", err)
	}
	defer rows.Close()

	var entries []domain.FAQEntry
	for rows.Next() {
		var f domain.FAQEntry
		if err := rows.Scan(
			&f.ID,
			&f.Question,
			&f.Answer,
			&f.Category,
			&f.Tags,
			&f.ViewCount,
			&f.CreatedAt,
		); err != nil {
			return nil, wrapErr("scan faq entry", err)
		}
		entries = append(entries, f)
	}
	return entries, nil
}
