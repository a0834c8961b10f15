package domain

import (
	"context"
	"time"
)

// SessionStatus represents the lifecycle state of a chat session
type SessionStatus string

const (
	SessionOpen   SessionStatus = "OPEN"
	SessionClosed SessionStatus = "CLOSED"
)

// Identity carries a visitor identity already resolved by the caller.
// All fields are empty for guest sessions.
type Identity struct {
	UserID string `json:"user_id,omitempty"`
	Email  string `json:"email,omitempty" validate:"omitempty,email,max=255"`
	Name   string `json:"name,omitempty" validate:"omitempty,max=255"`
}

// IsGuest reports whether the identity is anonymous
func (i Identity) IsGuest() bool {
	return i.UserID == "" && i.Email == ""
}

// ChatSession represents a support conversation between one visitor and the store
type ChatSession struct {
	ID           int64         `json:"id"`
	Token        string        `json:"token"`
	UserID       *string       `json:"user_id,omitempty"`
	UserEmail    *string       `json:"user_email,omitempty"`
	UserName     *string       `json:"user_name,omitempty"`
	Status       SessionStatus `json:"status"`
	LastActivity time.Time     `json:"last_activity"`
	CreatedAt    time.Time     `json:"created_at"`
}

// SessionFilter narrows admin session listings
type SessionFilter struct {
	Status *SessionStatus
	From   *time.Time
	To     *time.Time
	Limit  int
	Offset int
}

// SessionRepository defines the interface for session storage
type SessionRepository interface {
	Create(ctx context.Context, session *ChatSession) error
	GetByToken(ctx context.Context, token string) (*ChatSession, error)
	GetByID(ctx context.Context, id int64) (*ChatSession, error)
	Close(ctx context.Context, id int64) error
	List(ctx context.Context, filter SessionFilter) ([]ChatSession, error)
	CloseIdleBefore(ctx context.Context, cutoff time.Time) (int64, error)
	PurgeClosedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}
