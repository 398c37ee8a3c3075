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

// Package llm abstracts the model call every subagent that generates
// prose makes, so a provider outage degrades to a heuristic response
// instead of failing the whole advisory request.
package llm

import (
	"context"
	"time"
)

// Options configures a single completion call.
type Options struct {
	MaxTokens    int
	Temperature  float64
	SystemPrompt string
}

// Completion is a provider's answer to one prompt.
type Completion struct {
	Content      string
	Model        string
	TokensUsed   int
	ResponseTime time.Duration
}

// Provider is implemented by every concrete model backend.
type Provider interface {
	Name() string
	Complete(ctx context.Context, prompt string, opts Options) (Completion, error)
	IsHealthy() bool
}

// Embedder is implemented by providers that can turn text into a
// dense vector for semantic search. Not every Provider backs one
// (Anthropic's Messages API doesn't serve embeddings), so callers
// must type-assert for it rather than require it on Provider.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}
