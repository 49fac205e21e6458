package provider

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/jlorelli/airalert/internal/domain"
)

type flakyReader struct {
	failures int
	calls    int
}

func (f *flakyReader) Read(ctx context.Context, id domain.SensorID) (domain.Reading, error) {
	f.calls++
	if f.calls <= f.failures {
		return domain.Reading{}, fmt.Errorf("%w: attempt %d", ErrRead, f.calls)
	}
	return domain.Reading{SensorID: id, PM25: 10, AQI: 41.7}, nil
}

func TestRetryReader_SucceedsAfterRetry(t *testing.T) {
	inner := &flakyReader{failures: 1}
	r := &RetryReader{Inner: inner, Attempts: 3, Backoff: time.Millisecond}

	reading, err := r.Read(context.Background(), "61605")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if inner.calls != 2 {
		t.Fatalf("expected 2 attempts, got %d", inner.calls)
	}
	if reading.SensorID != "61605" {
		t.Fatalf("unexpected reading: %+v", reading)
	}
}

func TestRetryReader_GivesUpAfterAttempts(t *testing.T) {
	inner := &flakyReader{failures: 10}
	r := &RetryReader{Inner: inner, Attempts: 2, Backoff: time.Millisecond}

	if _, err := r.Read(context.Background(), "61605"); err == nil {
		t.Fatal("expected error after exhausting attempts")
	}
	if inner.calls != 2 {
		t.Fatalf("expected exactly 2 attempts, got %d", inner.calls)
	}
}

func TestRetryReader_HonorsCancellation(t *testing.T) {
	inner := &flakyReader{failures: 10}
	r := &RetryReader{Inner: inner, Attempts: 5, Backoff: time.Minute}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := r.Read(ctx, "61605"); err == nil {
		t.Fatal("expected context error")
	}
	if inner.calls != 1 {
		t.Fatalf("expected a single attempt before the backoff wait, got %d", inner.calls)
	}
}
