package service

import (
	"context"
	"errors"
	"time"

	"github.com/shoplane/support-chat/internal/domain"
)

// listRetries bounds automatic retries of read-only list operations when
// storage reports a transient outage. Writes are never retried here.
const listRetries = 2

const retryBackoff = 50 * time.Millisecond

func retryList[T any](ctx context.Context, fn func() ([]T, error)) ([]T, error) {
	var out []T
	var err error
	for attempt := 0; ; attempt++ {
		out, err = fn()
		if err == nil || !errors.Is(err, domain.ErrUnavailable) || attempt >= listRetries {
			return out, err
		}
		select {
		case <-time.After(time.Duration(attempt+1) * retryBackoff):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}
