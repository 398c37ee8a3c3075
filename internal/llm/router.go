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

package llm

import (
	"context"
	"fmt"
	"sync"
)

// Router holds an ordered list of providers and falls through to the
// next on error or when a provider reports itself unhealthy. Unlike
// the weighted multi-provider router this is grounded on, the advisor
// only ever needs one live answer per request, so the router is a
// priority chain rather than a load-balanced pool.
type Router struct {
	mu        sync.RWMutex
	providers []Provider
}

// NewRouter builds a router trying providers in the given order.
func NewRouter(providers ...Provider) *Router {
	return &Router{providers: providers}
}

// Complete tries each healthy provider in order, returning the first
// success. It returns the last error if every provider fails.
func (r *Router) Complete(ctx context.Context, prompt string, opts Options) (Completion, error) {
	r.mu.RLock()
	providers := make([]Provider, len(r.providers))
	copy(providers, r.providers)
	r.mu.RUnlock()

	var lastErr error
	for _, p := range providers {
		if !p.IsHealthy() {
			continue
		}
		completion, err := p.Complete(ctx, prompt, opts)
		if err == nil {
			return completion, nil
		}
		lastErr = err
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("llm: no healthy provider configured")
	}
	return Completion{}, lastErr
}

// Embed tries each healthy provider that implements Embedder, in
// priority order, returning the first success. It returns an error if
// no configured provider can embed text.
func (r *Router) Embed(ctx context.Context, text string) ([]float32, error) {
	r.mu.RLock()
	providers := make([]Provider, len(r.providers))
	copy(providers, r.providers)
	r.mu.RUnlock()

	var lastErr error
	for _, p := range providers {
		embedder, ok := p.(Embedder)
		if !ok || !p.IsHealthy() {
			continue
		}
		vec, err := embedder.Embed(ctx, text)
		if err == nil {
			return vec, nil
		}
		lastErr = err
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("llm: no healthy provider can embed text")
	}
	return nil, lastErr
}

// Providers returns the configured provider names, in priority order.
func (r *Router) Providers() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, len(r.providers))
	for i, p := range r.providers {
		names[i] = p.Name()
	}
	return names
}
