package arbiter

import (
	"context"
	"errors"
	"time"

	"stayfinder/internal/domain/booking"
)

// withRetry re-runs the critical section after a transient storage fault
// (a lost optimistic-concurrency race), waiting out the configured backoff
// schedule between attempts. Logical errors terminate immediately.
func (s *Service) withRetry(ctx context.Context, fn func() error) error {
	var err error
	for attempt := 0; ; attempt++ {
		err = fn()
		if err == nil || !transient(err) {
			return err
		}
		if attempt >= len(s.backoff) {
			return err
		}
		s.log.Warn("transient storage fault, retrying", "attempt", attempt+1, "backoff", s.backoff[attempt], "error", err)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(s.backoff[attempt]):
		}
	}
}

func transient(err error) bool {
	return errors.Is(err, booking.ErrConcurrentUpdate)
}
