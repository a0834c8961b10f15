package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shoplane/support-chat/internal/domain"
)

// sessionLockStripes sizes the append lock table. Appends to the same session
// always hit the same stripe, so they serialize; distinct sessions almost
// always proceed in parallel.
const sessionLockStripes = 256

// ChatService owns session lifecycle and the append-only message log
type ChatService struct {
	sessionRepo domain.SessionRepository
	messageRepo domain.MessageRepository

	ackEnabled bool
	ackText    string
	maxContent int

	locks [sessionLockStripes]chan struct{}
}

// NewChatService creates a new chat service. maxContent bounds accepted
// message length; ackText is the static assistant acknowledgement appended
// after plain visitor messages when ackEnabled is set.
func NewChatService(
	sessionRepo domain.SessionRepository,
	messageRepo domain.MessageRepository,
	ackEnabled bool,
	ackText string,
	maxContent int,
) *ChatService {
	s := &ChatService{
		sessionRepo: sessionRepo,
		messageRepo: messageRepo,
		ackEnabled:  ackEnabled,
		ackText:     ackText,
		maxContent:  maxContent,
	}
	for i := range s.locks {
		s.locks[i] = make(chan struct{}, 1)
	}
	return s
}

// Open creates a new session. identity may be nil for guests; the caller has
// already resolved it against the identity provider.
func (s *ChatService) Open(ctx context.Context, identity *domain.Identity) (*domain.ChatSession, error) {
	now := time.Now()
	session := &domain.ChatSession{
		Token:        uuid.NewString(),
		Status:       domain.SessionOpen,
		LastActivity: now,
		CreatedAt:    now,
	}
	if identity != nil && !identity.IsGuest() {
		if identity.UserID != "" {
			session.UserID = &identity.UserID
		}
		if identity.Email != "" {
			session.UserEmail = &identity.Email
		}
		if identity.Name != "" {
			session.UserName = &identity.Name
		}
	}

	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to open session: %w", err)
	}
	return session, nil
}

// GetByToken resolves a session by its client-visible token
func (s *ChatService) GetByToken(ctx context.Context, token string) (*domain.ChatSession, error) {
	return s.sessionRepo.GetByToken(ctx, token)
}

// PostResult carries an appended message plus the synthesized assistant
// acknowledgement, when one was produced.
type PostResult struct {
	Message *domain.ChatMessage `json:"message"`
	Ack     *domain.ChatMessage `json:"ack,omitempty"`
}

// Post validates and appends a message to the session identified by token.
// A plain visitor message also gets a static assistant acknowledgement when
// configured; FAQ selection replies come through here with AuthorAssistant
// and never trigger the acknowledgement.
func (s *ChatService) Post(ctx context.Context, token string, author domain.AuthorType, content string) (*PostResult, error) {
	if !author.Valid() {
		return nil, fmt.Errorf("unknown author type %q: %w", author, domain.ErrInvalidArgument)
	}
	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("empty message content: %w", domain.ErrInvalidArgument)
	}
	if s.maxContent > 0 && len(content) > s.maxContent {
		return nil, fmt.Errorf("message content exceeds %d bytes: %w", s.maxContent, domain.ErrInvalidArgument)
	}

	session, err := s.sessionRepo.GetByToken(ctx, token)
	if err != nil {
		return nil, err
	}

	if err := s.lockSession(ctx, session.ID); err != nil {
		return nil, err
	}
	defer s.unlockSession(session.ID)

	msg, err := s.messageRepo.Append(ctx, session.ID, author, content)
	if err != nil {
		return nil, err
	}

	result := &PostResult{Message: msg}
	if author == domain.AuthorVisitor && s.ackEnabled && s.ackText != "" {
		ack, err := s.messageRepo.Append(ctx, session.ID, domain.AuthorAssistant, s.ackText)
		if err != nil {
			return nil, fmt.Errorf("failed to append acknowledgement: %w", err)
		}
		result.Ack = ack
	}
	return result, nil
}

// Messages returns the ordered log with seq > sinceSeq. Transient storage
// failures on this read-only path are retried a bounded number of times.
func (s *ChatService) Messages(ctx context.Context, token string, sinceSeq int64) ([]domain.ChatMessage, error) {
	session, err := s.sessionRepo.GetByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	return retryList(ctx, func() ([]domain.ChatMessage, error) {
		return s.messageRepo.ListBySession(ctx, session.ID, sinceSeq)
	})
}

// Close transitions the session to CLOSED. Idempotent; a later append reopens it.
func (s *ChatService) Close(ctx context.Context, token string) error {
	session, err := s.sessionRepo.GetByToken(ctx, token)
	if err != nil {
		return err
	}
	return s.sessionRepo.Close(ctx, session.ID)
}

// lockSession serializes appends per session without blocking unrelated
// sessions. The storage layer's per-row locking is the authoritative
// guarantee; this keeps the benign-conflict retry path cold.
func (s *ChatService) lockSession(ctx context.Context, id int64) error {
	stripe := s.locks[uint64(id)%sessionLockStripes]
	select {
	case stripe <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *ChatService) unlockSession(id int64) {
	<-s.locks[uint64(id)%sessionLockStripes]
}
