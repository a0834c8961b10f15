package service

import (
	"context"
	"testing"
	"time"

	"github.com/shoplane/support-chat/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestSweeper_Sweep(t *testing.T) {
	ctx := context.Background()

	t.Run("closes idle then purges expired", func(t *testing.T) {
		mockRepo := new(MockSessionRepository)
		mockRepo.On("CloseIdleBefore", ctx, mock.AnythingOfType("time.Time")).Return(int64(2), nil)
		mockRepo.On("PurgeClosedBefore", ctx, mock.AnythingOfType("time.Time")).Return(int64(1), nil)

		sweeper := NewSweeper(mockRepo, 30*time.Minute, 90*24*time.Hour, time.Minute)
		sweeper.Sweep(ctx)
		mockRepo.AssertExpectations(t)
	})

	t.Run("zero idle timeout disables closing", func(t *testing.T) {
		mockRepo := new(MockSessionRepository)
		mockRepo.On("PurgeClosedBefore", ctx, mock.AnythingOfType("time.Time")).Return(int64(0), nil)

		sweeper := NewSweeper(mockRepo, 0, 90*24*time.Hour, time.Minute)
		sweeper.Sweep(ctx)
		mockRepo.AssertNotCalled(t, "CloseIdleBefore", mock.Anything, mock.Anything)
	})

	t.Run("zero retention disables purging", func(t *testing.T) {
		mockRepo := new(MockSessionRepository)
		mockRepo.On("CloseIdleBefore", ctx, mock.AnythingOfType("time.Time")).Return(int64(0), nil)

		sweeper := NewSweeper(mockRepo, 30*time.Minute, 0, time.Minute)
		sweeper.Sweep(ctx)
		mockRepo.AssertNotCalled(t, "PurgeClosedBefore", mock.Anything, mock.Anything)
	})

	t.Run("close failure does not stop the purge", func(t *testing.T) {
		mockRepo := new(MockSessionRepository)
		mockRepo.On("CloseIdleBefore", ctx, mock.AnythingOfType("time.Time")).
			Return(int64(0), domain.ErrUnavailable)
		mockRepo.On("PurgeClosedBefore", ctx, mock.AnythingOfType("time.Time")).Return(int64(0), nil)

		sweeper := NewSweeper(mockRepo, 30*time.Minute, 90*24*time.Hour, time.Minute)
		sweeper.Sweep(ctx)
		mockRepo.AssertExpectations(t)
	})
}

func TestSweeper_LifecycleAgainstStore(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	sessionRepo := &memSessionRepo{s: store}
	chat := NewChatService(sessionRepo, &memMessageRepo{s: store}, false, "", 4000)

	idle, err := chat.Open(ctx, nil)
	require.NoError(t, err)
	active, err := chat.Open(ctx, nil)
	require.NoError(t, err)

	// age the idle session past the timeout
	store.mu.Lock()
	store.sessions[idle.ID].LastActivity = time.Now().Add(-time.Hour)
	store.mu.Unlock()

	sweeper := NewSweeper(sessionRepo, 30*time.Minute, 90*24*time.Hour, time.Minute)
	sweeper.Sweep(ctx)

	got, err := sessionRepo.GetByID(ctx, idle.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.SessionClosed, got.Status)

	got, err = sessionRepo.GetByID(ctx, active.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.SessionOpen, got.Status)

	// an append after the sweep reopens the closed session
	_, err = chat.Post(ctx, idle.Token, domain.AuthorVisitor, "back again")
	require.NoError(t, err)
	got, err = sessionRepo.GetByID(ctx, idle.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.SessionOpen, got.Status)
}

func TestSweeper_RunStopsOnCancel(t *testing.T) {
	mockRepo := new(MockSessionRepository)
	sweeper := NewSweeper(mockRepo, 0, 0, 5*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		sweeper.Run(ctx)
		close(done)
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop after cancel")
	}
}
