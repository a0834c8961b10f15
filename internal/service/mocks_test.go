package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shoplane/support-chat/internal/domain"
	"github.com/stretchr/testify/mock"
)

// MockSessionRepository mocks the SessionRepository interface
type MockSessionRepository struct {
	mock.Mock
}

func (m *MockSessionRepository) Create(ctx context.Context, session *domain.ChatSession) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *MockSessionRepository) GetByToken(ctx context.Context, token string) (*domain.ChatSession, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ChatSession), args.Error(1)
}

func (m *MockSessionRepository) GetByID(ctx context.Context, id int64) (*domain.ChatSession, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ChatSession), args.Error(1)
}

func (m *MockSessionRepository) Close(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockSessionRepository) List(ctx context.Context, filter domain.SessionFilter) ([]domain.ChatSession, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.ChatSession), args.Error(1)
}

func (m *MockSessionRepository) CloseIdleBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSessionRepository) PurgeClosedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}

// MockMessageRepository mocks the MessageRepository interface
type MockMessageRepository struct {
	mock.Mock
}

func (m *MockMessageRepository) Append(ctx context.Context, sessionID int64, author domain.AuthorType, content string) (*domain.ChatMessage, error) {
	args := m.Called(ctx, sessionID, author, content)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ChatMessage), args.Error(1)
}

func (m *MockMessageRepository) ListBySession(ctx context.Context, sessionID int64, sinceSeq int64) ([]domain.ChatMessage, error) {
	args := m.Called(ctx, sessionID, sinceSeq)
	return args.Get(0).([]domain.ChatMessage), args.Error(1)
}

// MockFAQRepository mocks the FAQRepository interface
type MockFAQRepository struct {
	mock.Mock
}

func (m *MockFAQRepository) Get(ctx context.Context, id int64) (*domain.FAQEntry, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FAQEntry), args.Error(1)
}

func (m *MockFAQRepository) TopByViews(ctx context.Context, limit int) ([]domain.FAQEntry, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]domain.FAQEntry), args.Error(1)
}

func (m *MockFAQRepository) Search(ctx context.Context, query string, limit int) ([]domain.FAQEntry, error) {
	args := m.Called(ctx, query, limit)
	return args.Get(0).([]domain.FAQEntry), args.Error(1)
}

func (m *MockFAQRepository) IncrementView(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockInquiryRepository mocks the InquiryRepository interface
type MockInquiryRepository struct {
	mock.Mock
}

func (m *MockInquiryRepository) Create(ctx context.Context, inquiry *domain.CustomerInquiry) error {
	args := m.Called(ctx, inquiry)
	return args.Error(0)
}

func (m *MockInquiryRepository) Get(ctx context.Context, id int64) (*domain.CustomerInquiry, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CustomerInquiry), args.Error(1)
}

func (m *MockInquiryRepository) List(ctx context.Context, filter domain.InquiryFilter) ([]domain.CustomerInquiry, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.CustomerInquiry), args.Error(1)
}

func (m *MockInquiryRepository) UpdateStatus(ctx context.Context, id int64, status domain.InquiryStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockInquiryRepository) UpdatePriority(ctx context.Context, id int64, priority domain.InquiryPriority) error {
	args := m.Called(ctx, id, priority)
	return args.Error(0)
}

// MockAgentRepository mocks the AgentRepository interface
type MockAgentRepository struct {
	mock.Mock
}

func (m *MockAgentRepository) Create(ctx context.Context, agent *domain.SupportAgent) error {
	args := m.Called(ctx, agent)
	return args.Error(0)
}

func (m *MockAgentRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.SupportAgent, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SupportAgent), args.Error(1)
}

func (m *MockAgentRepository) GetByEmail(ctx context.Context, email string) (*domain.SupportAgent, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SupportAgent), args.Error(1)
}

func (m *MockAgentRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

// memStore is an in-memory session+message store with the same transactional
// semantics as the postgres repositories. The concurrency tests need real
// state transitions, which expectation-based mocks cannot express.
type memStore struct {
	mu       sync.Mutex
	nextSess int64
	nextMsg  int64
	sessions map[int64]*domain.ChatSession
	byToken  map[string]int64
	messages map[int64][]domain.ChatMessage
}

func newMemStore() *memStore {
	return &memStore{
		sessions: make(map[int64]*domain.ChatSession),
		byToken:  make(map[string]int64),
		messages: make(map[int64][]domain.ChatMessage),
	}
}

type memSessionRepo struct{ s *memStore }

func (r *memSessionRepo) Create(_ context.Context, session *domain.ChatSession) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.nextSess++
	session.ID = r.s.nextSess
	cp := *session
	r.s.sessions[session.ID] = &cp
	r.s.byToken[session.Token] = session.ID
	return nil
}

func (r *memSessionRepo) GetByToken(_ context.Context, token string) (*domain.ChatSession, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	id, ok := r.s.byToken[token]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *r.s.sessions[id]
	return &cp, nil
}

func (r *memSessionRepo) GetByID(_ context.Context, id int64) (*domain.ChatSession, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	sess, ok := r.s.sessions[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *sess
	return &cp, nil
}

func (r *memSessionRepo) Close(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	sess, ok := r.s.sessions[id]
	if !ok {
		return domain.ErrNotFound
	}
	sess.Status = domain.SessionClosed
	return nil
}

func (r *memSessionRepo) List(_ context.Context, filter domain.SessionFilter) ([]domain.ChatSession, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []domain.ChatSession
	for _, sess := range r.s.sessions {
		if filter.Status != nil && sess.Status != *filter.Status {
			continue
		}
		out = append(out, *sess)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memSessionRepo) CloseIdleBefore(_ context.Context, cutoff time.Time) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for _, sess := range r.s.sessions {
		if sess.Status == domain.SessionOpen && sess.LastActivity.Before(cutoff) {
			sess.Status = domain.SessionClosed
			n++
		}
	}
	return n, nil
}

func (r *memSessionRepo) PurgeClosedBefore(_ context.Context, cutoff time.Time) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for id, sess := range r.s.sessions {
		if sess.Status == domain.SessionClosed && sess.LastActivity.Before(cutoff) {
			delete(r.s.byToken, sess.Token)
			delete(r.s.sessions, id)
			delete(r.s.messages, id)
			n++
		}
	}
	return n, nil
}

type memMessageRepo struct{ s *memStore }

func (r *memMessageRepo) Append(_ context.Context, sessionID int64, author domain.AuthorType, content string) (*domain.ChatMessage, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	sess, ok := r.s.sessions[sessionID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	now := time.Now()
	sess.Status = domain.SessionOpen
	sess.LastActivity = now
	r.s.nextMsg++
	msg := domain.ChatMessage{
		ID:        r.s.nextMsg,
		SessionID: sessionID,
		Seq:       int64(len(r.s.messages[sessionID])) + 1,
		Author:    author,
		Content:   content,
		CreatedAt: now,
	}
	r.s.messages[sessionID] = append(r.s.messages[sessionID], msg)
	return &msg, nil
}

func (r *memMessageRepo) ListBySession(_ context.Context, sessionID int64, sinceSeq int64) ([]domain.ChatMessage, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []domain.ChatMessage
	for _, msg := range r.s.messages[sessionID] {
		if msg.Seq > sinceSeq {
			out = append(out, msg)
		}
	}
	return out, nil
}
