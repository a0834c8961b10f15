package service

import (
	"context"

	"github.com/shoplane/support-chat/internal/domain"
)

// AdminService is the staff-facing read surface over sessions and their logs.
// It never mutates message history or FAQ entries.
type AdminService struct {
	sessionRepo domain.SessionRepository
	messageRepo domain.MessageRepository
}

// NewAdminService creates a new admin service
func NewAdminService(sessionRepo domain.SessionRepository, messageRepo domain.MessageRepository) *AdminService {
	return &AdminService{
		sessionRepo: sessionRepo,
		messageRepo: messageRepo,
	}
}

// ListSessions returns a filtered, paged session view
func (s *AdminService) ListSessions(ctx context.Context, filter domain.SessionFilter) ([]domain.ChatSession, error) {
	normalizePaging(&filter.Limit, &filter.Offset)
	return retryList(ctx, func() ([]domain.ChatSession, error) {
		return s.sessionRepo.List(ctx, filter)
	})
}

// SessionDetail couples a session with its full ordered message log
type SessionDetail struct {
	Session  *domain.ChatSession  `json:"session"`
	Messages []domain.ChatMessage `json:"messages"`
}

// GetSessionDetail returns the session plus its full log, read through the
// same message-log listing the visitor polls, so staff see the identical
// ordering.
func (s *AdminService) GetSessionDetail(ctx context.Context, sessionID int64) (*SessionDetail, error) {
	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	messages, err := retryList(ctx, func() ([]domain.ChatMessage, error) {
		return s.messageRepo.ListBySession(ctx, sessionID, 0)
	})
	if err != nil {
		return nil, err
	}

	return &SessionDetail{Session: session, Messages: messages}, nil
}
