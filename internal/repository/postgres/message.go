package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shoplane/support-chat/internal/domain"
)

// MessageRepository implements domain.MessageRepository
type MessageRepository struct {
	pool *pgxpool.Pool
}

// NewMessageRepository creates a new message repository
func NewMessageRepository(pool *pgxpool.Pool) *MessageRepository {
	return &MessageRepository{pool: pool}
}

// Append stores a message with the next sequence number for the session.
// The session row is updated first inside the transaction, which takes a row
// lock and serializes concurrent appends to the same session; the unique
// index on (session_id, seq) is the backstop. A unique violation indicates a
// benign race and gets exactly one automatic retry.
func (r *MessageRepository) Append(ctx context.Context, sessionID int64, author domain.AuthorType, content string) (*domain.ChatMessage, error) {
	msg, err := r.append(ctx, sessionID, author, content)
	if errors.Is(err, domain.ErrConflict) {
		msg, err = r.append(ctx, sessionID, author, content)
	}
	return msg, err
}

func (r *MessageRepository) append(ctx context.Context, sessionID int64, author domain.AuthorType, content string) (*domain.ChatMessage, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, wrapErr("append message", err)
	}
	defer tx.Rollback(ctx)

	// Reopen a closed session and refresh activity in the same transaction
	// as the insert, so a failed append leaves no partial state.
	tag, err := tx.Exec(ctx,
		`UPDATE chat_sessions SET status = $1, last_activity = now() WHERE id = $2`,
		domain.SessionOpen, sessionID,
	)
	if err != nil {
		return nil, wrapErr("append message", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, fmt.Errorf("append message: %w", domain.ErrNotFound)
	}

	var m domain.ChatMessage
	err = tx.QueryRow(ctx, `
		INSERT INTO chat_messages (session_id, seq, author_type, content)
		SELECT $1, COALESCE(MAX(seq), 0) + 1, $2, $3
		FROM chat_messages WHERE session_id = $1
		RETURNING id, session_id, seq, author_type, content, created_at
	`, sessionID, author, content).Scan(
		&m.ID,
		&m.SessionID,
		&m.Seq,
		&m.Author,
		&m.Content,
		&m.CreatedAt,
	)
	if err != nil {
		return nil, wrapErr("append message", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, wrapErr("append message", err)
	}
	return &m, nil
}

// ListBySession returns messages with seq > sinceSeq in sequence order.
// Pass sinceSeq 0 for the full log.
func (r *MessageRepository) ListBySession(ctx context.Context, sessionID int64, sinceSeq int64) ([]domain.ChatMessage, error) {
	query := `
		SELECT id, session_id, seq, author_type, content, created_at
		FROM chat_messages
		WHERE session_id = $1 AND seq > $2
		ORDER BY seq ASC
	`
	rows, err := r.pool.Query(ctx, query, sessionID, sinceSeq)
	if err != nil {
		return nil, wrapErr("list messages", err)
	}
	defer rows.Close()

	var messages []domain.ChatMessage
	for rows.Next() {
		var m domain.ChatMessage
		if err := rows.Scan(
			&m.ID,
			&m.SessionID,
			&m.Seq,
			&m.Author,
			&m.Content,
			&m.CreatedAt,
		); err != nil {
			return nil, wrapErr("scan message", err)
		}
		messages = append(messages, m)
	}
	return messages, nil
}
