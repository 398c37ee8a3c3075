package resilience

import (
	"context"
	"errors"
	"testing"
	"time"

	"arkham/advisor/internal/advisorerrors"
)

func TestWithBackoffRetriesRetryableErrors(t *testing.T) {
	attempts := 0
	cfg := &RetryConfig{MaxRetries: 2, InitialInterval: time.Millisecond, MaxInterval: time.Millisecond, Multiplier: 1, RetryIf: advisorerrors.IsRetryable}

	got, err := WithBackoff(context.Background(), cfg, func() (string, error) {
		attempts++
		if attempts < 3 {
			return "", advisorerrors.New(advisorerrors.KindDependencyUnavailable, "transient")
		}
		return "ok", nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "ok" || attempts != 3 {
		t.Fatalf("expected 3 attempts ending in ok, got attempts=%d result=%q", attempts, got)
	}
}

func TestWithBackoffStopsOnNonRetryable(t *testing.T) {
	attempts := 0
	cfg := &RetryConfig{MaxRetries: 5, InitialInterval: time.Millisecond, MaxInterval: time.Millisecond, Multiplier: 1, RetryIf: advisorerrors.IsRetryable}

	_, err := WithBackoff(context.Background(), cfg, func() (string, error) {
		attempts++
		return "", advisorerrors.New(advisorerrors.KindInputInvalid, "bad input")
	})
	if err == nil {
		t.Fatalf("expected error")
	}
	if attempts != 1 {
		t.Fatalf("expected exactly 1 attempt for a non-retryable error, got %d", attempts)
	}
}

func TestCircuitBreakerOpensAfterFailures(t *testing.T) {
	cb := NewCircuitBreaker("test", 2, time.Hour)
	boom := errors.New("boom")

	_ = cb.Execute(func() error { return boom })
	_ = cb.Execute(func() error { return boom })

	if cb.State() != "open" {
		t.Fatalf("expected breaker to open after 2 failures, got %s", cb.State())
	}

	err := cb.Execute(func() error { return nil })
	var openErr *OpenError
	if !errors.As(err, &openErr) {
		t.Fatalf("expected OpenError while circuit is open, got %v", err)
	}
}

func TestCircuitBreakerGatesConcurrentHalfOpenProbes(t *testing.T) {
	cb := NewCircuitBreaker("test", 1, time.Millisecond)
	boom := errors.New("boom")

	_ = cb.Execute(func() error { return boom })
	if cb.State() != "open" {
		t.Fatalf("expected breaker to open after 1 failure, got %s", cb.State())
	}
	time.Sleep(2 * time.Millisecond)

	release := make(chan struct{})
	probing := make(chan struct{})
	go func() {
		_ = cb.Execute(func() error {
			close(probing)
			<-release
			return nil
		})
	}()

	<-probing
	err := cb.Execute(func() error { return nil })
	close(release)

	var openErr *OpenError
	if !errors.As(err, &openErr) {
		t.Fatalf("expected a second concurrent caller to see the breaker as open during the half-open probe, got %v", err)
	}
}
