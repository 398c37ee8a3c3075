// Copyright 2026 Arkham Advisor Contributors
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package resilience holds the retry and circuit-breaker primitives
// shared by every subagent's dependency calls (card store, corpus
// store, LLM router).
package resilience

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"arkham/advisor/internal/advisorerrors"
)

// RetryConfig configures exponential backoff retry.
type RetryConfig struct {
	MaxRetries      int
	InitialInterval time.Duration
	MaxInterval     time.Duration
	Multiplier      float64
	Jitter          float64
	RetryIf         func(error) bool
}

// DefaultRetryConfig retries only dependency-unavailable/budget-exceeded
// errors, per the advisor's error-kind classification.
func DefaultRetryConfig() *RetryConfig {
	return &RetryConfig{
		MaxRetries:      3,
		InitialInterval: 100 * time.Millisecond,
		MaxInterval:     5 * time.Second,
		Multiplier:      2.0,
		Jitter:          0.1,
		RetryIf:         advisorerrors.IsRetryable,
	}
}

// Func is the operation retried by WithBackoff.
type Func[T any] func() (T, error)

// WithBackoff runs fn, retrying on errors RetryIf accepts, with
// exponential backoff and jitter between attempts. It respects ctx
// cancellation between and during waits.
func WithBackoff[T any](ctx context.Context, cfg *RetryConfig, fn Func[T]) (T, error) {
	var zero T
	if cfg == nil {
		cfg = DefaultRetryConfig()
	}

	var lastErr error
	interval := cfg.InitialInterval

	for attempt := 0; attempt <= cfg.MaxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return zero, err
		}

		result, err := fn()
		if err == nil {
			return result, nil
		}
		lastErr = err

		if cfg.RetryIf != nil && !cfg.RetryIf(err) {
			return zero, err
		}
		if attempt >= cfg.MaxRetries {
			break
		}

		wait := interval
		if cfg.Jitter > 0 {
			wait += time.Duration(wait.Seconds() * cfg.Jitter * (rand.Float64()*2 - 1) * float64(time.Second))
		}
		if wait > cfg.MaxInterval {
			wait = cfg.MaxInterval
		}

		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case <-time.After(wait):
		}

		interval = time.Duration(float64(interval) * cfg.Multiplier)
		if interval > cfg.MaxInterval {
			interval = cfg.MaxInterval
		}
	}

	return zero, fmt.Errorf("resilience: exhausted %d attempts: %w", cfg.MaxRetries+1, lastErr)
}
