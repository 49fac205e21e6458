package provider

import (
	"context"
	"time"

	"github.com/jlorelli/airalert/internal/domain"
)

// RetryReader wraps a Reader and retries failed fetches with a fixed
// backoff before giving up for the cycle.
type RetryReader struct {
	Inner    Reader
	Attempts int
	Backoff  time.Duration
}

func (r *RetryReader) Read(ctx context.Context, id domain.SensorID) (domain.Reading, error) {
	attempts := r.Attempts
	if attempts < 1 {
		attempts = 1
	}
	var lastErr error
	for i := 0; i < attempts; i++ {
		reading, err := r.Inner.Read(ctx, id)
		if err == nil {
			return reading, nil
		}
		lastErr = err
		if i < attempts-1 {
			select {
			case <-ctx.Done():
				return domain.Reading{}, ctx.Err()
			case <-time.After(r.Backoff):
			}
		}
	}
	return domain.Reading{}, lastErr
}
