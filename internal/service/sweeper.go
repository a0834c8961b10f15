package service

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shoplane/support-chat/internal/domain"
)

// Sweeper closes idle sessions and purges closed sessions past retention.
// Both sweeps are single statements against the session store, so they never
// block foreground requests; an append racing the idle sweep simply reopens
// the session.
type Sweeper struct {
	sessionRepo domain.SessionRepository
	idleTimeout time.Duration
	retention   time.Duration
	interval    time.Duration
}

// NewSweeper creates a new sweeper. A zero idleTimeout disables idle closing;
// a zero retention disables purging.
func NewSweeper(sessionRepo domain.SessionRepository, idleTimeout, retention, interval time.Duration) *Sweeper {
	return &Sweeper{
		sessionRepo: sessionRepo,
		idleTimeout: idleTimeout,
		retention:   retention,
		interval:    interval,
	}
}

// Run loops until the context is cancelled
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.Sweep(ctx)
		case <-ctx.Done():
			return
		}
	}
}

// Sweep performs one pass
func (s *Sweeper) Sweep(ctx context.Context) {
	now := time.Now()

	if s.idleTimeout > 0 {
		closed, err := s.sessionRepo.CloseIdleBefore(ctx, now.Add(-s.idleTimeout))
		if err != nil {
			log.Error().Err(err).Msg("Failed to close idle sessions")
		} else if closed > 0 {
			log.Info().Int64("count", closed).Msg("Closed idle sessions")
		}
	}

	if s.retention > 0 {
		purged, err := s.sessionRepo.PurgeClosedBefore(ctx, now.Add(-s.retention))
		if err != nil {
			log.Error().Err(err).Msg("Failed to purge expired sessions")
		} else if purged > 0 {
			log.Info().Int64("count", purged).Msg("Purged expired sessions")
		}
	}
}
