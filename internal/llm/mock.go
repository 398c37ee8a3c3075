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
	"crypto/sha256"
	"fmt"
)

// MockProvider returns a canned completion without making a network
// call. It backs local development and the subagent test suites.
type MockProvider struct {
	Response string
	Healthy  bool
}

// NewMockProvider builds a provider that always returns response.
func NewMockProvider(response string) *MockProvider {
	return &MockProvider{Response: response, Healthy: true}
}

func (p *MockProvider) Name() string    { return "mock" }
func (p *MockProvider) IsHealthy() bool { return p.Healthy }

// Complete echoes the configured response, ignoring the prompt.
func (p *MockProvider) Complete(ctx context.Context, prompt string, opts Options) (Completion, error) {
	if !p.Healthy {
		return Completion{}, fmt.Errorf("llm: mock provider marked unhealthy")
	}
	return Completion{Content: p.Response, Model: "mock", TokensUsed: len(prompt) / 4}, nil
}

// Embed derives a deterministic vector (components in [-1, 1], not
// normalized) from text's hash, so
// semantic search over mock data still ranks distinct texts
// differently without calling a real embedding model.
func (p *MockProvider) Embed(ctx context.Context, text string) ([]float32, error) {
	if !p.Healthy {
		return nil, fmt.Errorf("llm: mock provider marked unhealthy")
	}
	sum := sha256.Sum256([]byte(text))
	vec := make([]float32, len(sum))
	for i, b := range sum {
		vec[i] = float32(b)/127.5 - 1
	}
	return vec, nil
}
