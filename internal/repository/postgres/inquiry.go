package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shoplane/support-chat/internal/domain"
)

// InquiryRepository implements domain.InquiryRepository
type InquiryRepository struct {
	pool *pgxpool.Pool
}

// NewInquiryRepository creates a new inquiry repository
func NewInquiryRepository(pool *pgxpool.Pool) *InquiryRepository {
	return &InquiryRepository{pool: pool}
}

const inquiryColumns = `id, session_id, user_id, user_email, user_name, subject, message, category, priority, status, created_at, updated_at`

func (r *InquiryRepository) Create(ctx context.Context, inquiry *domain.CustomerInquiry) error {
	query := `
		INSERT INTO customer_inquiries (session_id, user_id, user_email, user_name, subject, message, category, priority, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id
	`
	err := r.pool.QueryRow(ctx, query,
		inquiry.SessionID,
		inquiry.UserID,
		inquiry.UserEmail,
		inquiry.UserName,
		inquiry.Subject,
		inquiry.Message,
		inquiry.Category,
		inquiry.Priority,
		inquiry.Status,
		inquiry.CreatedAt,
		inquiry.UpdatedAt,
	).Scan(&inquiry.ID)
	if err != nil {
		return wrapErr("create inquiry", err)
	}
	return nil
}

func (r *InquiryRepository) Get(ctx context.Context, id int64) (*domain.CustomerInquiry, error) {
	query := `SELECT ` + inquiryColumns + ` FROM customer_inquiries WHERE id = $1`
	var q domain.CustomerInquiry
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&q.ID,
		&q.SessionID,
		&q.UserID,
		&q.UserEmail,
		&q.UserName,
		&q.Subject,
		&q.Message,
		&q.Category,
		&q.Priority,
		&q.Status,
		&q.CreatedAt,
		&q.UpdatedAt,
	)
	if err != nil {
		return nil, wrapErr("get inquiry", err)
	}
	return &q, nil
}

func (r *InquiryRepository) List(ctx context.Context, filter domain.InquiryFilter) ([]domain.CustomerInquiry, error) {
	query := `SELECT ` + inquiryColumns + ` FROM customer_inquiries WHERE 1=1`
	var args []any

	if filter.Status != nil {
		args = append(args, *filter.Status)
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if filter.Priority != nil {
		args = append(args, *filter.Priority)
		query += fmt.Sprintf(" AND priority = $%d", len(args))
	}
	if filter.Category != nil {
		args = append(args, *filter.Category)
		query += fmt.Sprintf(" AND category = $%d", len(args))
	}
	if filter.From != nil {
		args = append(args, *filter.From)
		query += fmt.Sprintf(" AND created_at >= $%d", len(args))
	}
	if filter.To != nil {
		args = append(args, *filter.To)
		query += fmt.Sprintf(" AND created_at <= $%d", len(args))
	}

	args = append(args, filter.Limit)
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d", len(args))
	args = append(args, filter.Offset)
	query += fmt.Sprintf(" OFFSET $%d", len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, wrapErr("list inquiries", err)
	}
	defer rows.Close()

	var inquiries []domain.CustomerInquiry
	for rows.Next() {
		var q domain.CustomerInquiry
		if err := rows.Scan(
			&q.ID,
			&q.SessionID,
			&q.UserID,
			&q.UserEmail,
			&q.UserName,
			&q.Subject,
			&q.Message,
			&q.Category,
			&q.Priority,
			&q.Status,
			&q.CreatedAt,
			&q.UpdatedAt,
		); err != nil {
			return nil, wrapErr("scan inquiry", err)
		}
		inquiries = append(inquiries, q)
	}
	return inquiries, nil
}

func (r *InquiryRepository) UpdateStatus(ctx context.Context, id int64, status domain.InquiryStatus) error {
	query := `UPDATE customer_inquiries SET status = $1, updated_at = now() WHERE id = $2`
	tag, err := r.pool.Exec(ctx, query, status, id)
	if err != nil {
		return wrapErr("update inquiry status", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update inquiry status: %w", domain.ErrNotFound)
	}
	return nil
}

func (r *InquiryRepository) UpdatePriority(ctx context.Context, id int64, priority domain.InquiryPriority) error {
	query := `UPDATE customer_inquiries SET priority = $1, updated_at = now() WHERE id = $2`
	tag, err := r.pool.Exec(ctx, query, priority, id)
	if err != nil {
		return wrapErr("update inquiry priority", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update inquiry priority: %w", domain.ErrNotFound)
	}
	return nil
}
