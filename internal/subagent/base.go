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

// Package subagent defines the uniform contract every specialized
// agent (rules, state, action-space, scenario) implements, plus the
// shared plumbing — caching, retry, circuit breaking, confidence
// bookkeeping — so each concrete agent's own file is pure domain logic.
package subagent

import (
	"context"
	"time"

	"arkham/advisor/internal/advisorerrors"
	"arkham/advisor/internal/cache"
	"arkham/advisor/internal/model"
	"arkham/advisor/internal/resilience"
	"arkham/advisor/shared/logger"
)

// Agent is implemented by every concrete subagent.
type Agent interface {
	Name() string
	Handle(ctx context.Context, req model.Request) (model.Response, error)
}

// Base bundles the plumbing shared by every concrete agent: a named
// logger, a response cache keyed by the caller, and a circuit breaker
// guarding the agent's own dependency calls.
type Base struct {
	AgentName string
	Log       *logger.Logger
	Cache     *cache.ResponseCache
	Breaker   *resilience.CircuitBreaker
	Retry     *resilience.RetryConfig
}

// NewBase wires the shared plumbing for a subagent named name.
func NewBase(name string, respCache *cache.ResponseCache) Base {
	return Base{
		AgentName: name,
		Log:       logger.New(name),
		Cache:     respCache,
		Breaker:   resilience.NewCircuitBreaker(name, 5, 30*time.Second),
		Retry:     resilience.DefaultRetryConfig(),
	}
}

// Compute runs fn behind the response cache: a cache hit skips
// dependency calls entirely; a cache miss runs fn under the retry
// policy, each attempt passing through the circuit breaker, and a
// fresh result is written back to the cache.
func (b Base) Compute(ctx context.Context, cacheKey string, fn func(ctx context.Context) (model.Response, error)) (model.Response, error) {
	var cached model.Response
	if b.Cache != nil && cacheKey != "" && b.Cache.GetJSON(ctx, cacheKey, &cached) {
		cached.Diagnostics.CacheHit = true
		return cached, nil
	}

	start := time.Now()
	resp, err := resilience.WithBackoff(ctx, b.Retry, func() (model.Response, error) {
		var out model.Response
		breakerErr := b.Breaker.Execute(func() error {
			var innerErr error
			out, innerErr = fn(ctx)
			return innerErr
		})
		return out, breakerErr
	})

	if err != nil {
		return model.Response{
			AgentName: b.AgentName,
			Confidence: 0,
			Diagnostics: model.Diagnostics{
				TookMillis: time.Since(start).Milliseconds(),
				Error:      true,
				ErrorKind:  string(advisorerrors.KindOf(err)),
			},
		}, err
	}

	resp.AgentName = b.AgentName
	resp.Confidence = model.ClampConfidence(resp.Confidence)
	resp.Diagnostics.TookMillis = time.Since(start).Milliseconds()

	if b.Cache != nil && cacheKey != "" {
		_ = b.Cache.SetJSON(ctx, cacheKey, resp)
	}
	return resp, nil
}
