package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shoplane/support-chat/internal/domain"
)

// SessionRepository implements domain.SessionRepository
type SessionRepository struct {
	pool *pgxpool.Pool
}

// NewSessionRepository creates a new session repository
func NewSessionRepository(pool *pgxpool.Pool) *SessionRepository {
	return &SessionRepository{pool: pool}
}

func (r *SessionRepository) Create(ctx context.Context, session *domain.ChatSession) error {
	query := `
		INSERT INTO chat_sessions (token, user_id, user_email, user_name, status, last_activity, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	err := r.pool.QueryRow(ctx, query,
		session.Token,
		session.UserID,
		session.UserEmail,
		session.UserName,
		session.Status,
		session.LastActivity,
		session.CreatedAt,
	).Scan(&session.ID)
	if err != nil {
		return wrapErr("create session", err)
	}
	return nil
}

const sessionColumns = `id, token, user_id, user_email, user_name, status, last_activity, created_at`

func (r *SessionRepository) GetByToken(ctx context.Context, token string) (*domain.ChatSession, error) {
	query := `SELECT ` + sessionColumns + ` FROM chat_sessions WHERE token = $1`
	return r.scanOne(r.pool.QueryRow(ctx, query, token))
}

func (r *SessionRepository) GetByID(ctx context.Context, id int64) (*domain.ChatSession, error) {
	query := `SELECT ` + sessionColumns + ` FROM chat_sessions WHERE id = $1`
	return r.scanOne(r.pool.QueryRow(ctx, query, id))
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *SessionRepository) scanOne(row rowScanner) (*domain.ChatSession, error) {
	var s domain.ChatSession
	err := row.Scan(
		&s.ID,
		&s.Token,
		&s.UserID,
		&s.UserEmail,
		&s.UserName,
		&s.Status,
		&s.LastActivity,
		&s.CreatedAt,
	)
	if err != nil {
		return nil, wrapErr("get session", err)
	}
	return &s, nil
}

// Close transitions the session to CLOSED. Closing an already closed session
// is a no-op, not an error.
func (r *SessionRepository) Close(ctx context.Context, id int64) error {
	query := `UPDATE chat_sessions SET status = $1 WHERE id = $2`
	tag, err := r.pool.Exec(ctx, query, domain.SessionClosed, id)
	if err != nil {
		return wrapErr("close session", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("close session: %w", domain.ErrNotFound)
	}
	return nil
}

func (r *SessionRepository) List(ctx context.Context, filter domain.SessionFilter) ([]domain.ChatSession, error) {
	query := `SELECT ` + sessionColumns + ` FROM chat_sessions WHERE 1=1`
	var args []any

	if filter.Status != nil {
		args = append(args, *filter.Status)
		query += fmt.Sprintf(" AND status = $%d", len(args))
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
	query += fmt.Sprintf(" ORDER BY last_activity DESC LIMIT $%d", len(args))
	args = append(args, filter.Offset)
	query += fmt.Sprintf(" OFFSET $%d", len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, wrapErr("list sessions", err)
	}
	defer rows.Close()

	var sessions []domain.ChatSession
	for rows.Next() {
		var s domain.ChatSession
		if err := rows.Scan(
			&s.ID,
			&s.Token,
			&s.UserID,
			&s.UserEmail,
			&s.UserName,
			&s.Status,
			&s.LastActivity,
			&s.CreatedAt,
		); err != nil {
			return nil, wrapErr("scan session", err)
		}
		sessions = append(sessions, s)
	}
	return sessions, nil
}

// CloseIdleBefore closes open sessions whose last activity is older than the
// cutoff. A concurrent append wins either way: it refreshes last_activity
// before this runs, or it reopens the session on the next message.
func (r *SessionRepository) CloseIdleBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	query := `UPDATE chat_sessions SET status = $1 WHERE status = $2 AND last_activity < $3`
	tag, err := r.pool.Exec(ctx, query, domain.SessionClosed, domain.SessionOpen, cutoff)
	if err != nil {
		return 0, wrapErr("close idle sessions", err)
	}
	return tag.RowsAffected(), nil
}

// PurgeClosedBefore deletes closed sessions older than the cutoff. Messages
// are removed by the ON DELETE CASCADE on chat_messages; inquiries keep their
// session back-reference untouched.
func (r *SessionRepository) PurgeClosedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	query := `DELETE FROM chat_sessions WHERE status = $1 AND last_activity < $2`
	tag, err := r.pool.Exec(ctx, query, domain.SessionClosed, cutoff)
	if err != nil {
		return 0, wrapErr("purge sessions", err)
	}
	return tag.RowsAffected(), nil
}
