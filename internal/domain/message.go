package domain

import (
	"context"
	"time"
)

// AuthorType represents the author of a chat message
type AuthorType string

const (
	AuthorVisitor   AuthorType = "VISITOR"
	AuthorAssistant AuthorType = "ASSISTANT"
	AuthorSystem    AuthorType = "SYSTEM"
)

// Valid reports whether the author type is one of the known values
func (a AuthorType) Valid() bool {
	switch a {
	case AuthorVisitor, AuthorAssistant, AuthorSystem:
		return true
	}
	return false
}

// ChatMessage represents one immutable utterance within a session.
// Seq is the ordering key; CreatedAt is informational only because two
// messages may share a timestamp at sub-resolution.
type ChatMessage struct {
	ID        int64      `json:"id"`
	SessionID int64      `json:"session_id"`
	Seq       int64      `json:"seq"`
	Author    AuthorType `json:"author_type"`
	Content   string     `json:"content"`
	CreatedAt time.Time  `json:"created_at"`
}

// MessageRepository defines the interface for the append-only message log.
// Append assigns the next per-session sequence number atomically, updates the
// session's last activity, and reopens a closed session, all in one transaction.
type MessageRepository interface {
	Append(ctx context.Context, sessionID int64, author AuthorType, content string) (*ChatMessage, error)
	ListBySession(ctx context.Context, sessionID int64, sinceSeq int64) ([]ChatMessage, error)
}
