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
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"
)

const (
	anthropicBaseURL    = "https://api.anthropic.com"
	anthropicAPIVersion = "2023-06-01"
	anthropicDefaultModel = "claude-3-5-sonnet-20241022"
)

// AnthropicProvider calls Claude directly over the Messages API,
// bypassing Bedrock. It's the fallback the router tries when Bedrock
// isn't configured for the deployment, or the preferred provider when
// an API key is set but no AWS credentials are.
type AnthropicProvider struct {
	apiKey string
	model  string
	client *http.Client

	mu      sync.RWMutex
	healthy bool
}

// NewAnthropicProvider builds a provider for the given API key and
// model, defaulting model to a current Sonnet release.
func NewAnthropicProvider(apiKey, model string) *AnthropicProvider {
	if model == "" {
		model = anthropicDefaultModel
	}
	return &AnthropicProvider{
		apiKey:  apiKey,
		model:   model,
		client:  &http.Client{Timeout: 60 * time.Second},
		healthy: true,
	}
}

func (p *AnthropicProvider) Name() string { return "anthropic" }

func (p *AnthropicProvider) IsHealthy() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.healthy
}

func (p *AnthropicProvider) setHealthy(v bool) {
	p.mu.Lock()
	p.healthy = v
	p.mu.Unlock()
}

type anthropicAPIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicAPIRequest struct {
	Model       string                `json:"model"`
	MaxTokens   int                   `json:"max_tokens"`
	Temperature float64               `json:"temperature"`
	System      string                `json:"system,omitempty"`
	Messages    []anthropicAPIMessage `json:"messages"`
}

type anthropicAPIResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Usage struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Complete posts one non-streaming Messages API request. Streaming is
// out of scope: the synthesizer and LLM-grounded subagents consume a
// single completed answer, never a token stream.
func (p *AnthropicProvider) Complete(ctx context.Context, prompt string, opts Options) (Completion, error) {
	start := time.Now()

	maxTokens := opts.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 1024
	}

	reqBody := anthropicAPIRequest{
		Model:       p.model,
		MaxTokens:   maxTokens,
		Temperature: opts.Temperature,
		System:      opts.SystemPrompt,
		Messages:    []anthropicAPIMessage{{Role: "user", Content: prompt}},
	}
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return Completion{}, fmt.Errorf("llm: failed to marshal anthropic request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, anthropicBaseURL+"/v1/messages", bytes.NewReader(payload))
	if err != nil {
		return Completion{}, fmt.Errorf("llm: failed to build anthropic request: %w", err)
	}
	httpReq.Header.Set("content-type", "application/json")
	httpReq.Header.Set("x-api-key", p.apiKey)
	httpReq.Header.Set("anthropic-version", anthropicAPIVersion)

	httpResp, err := p.client.Do(httpReq)
	if err != nil {
		p.setHealthy(false)
		return Completion{}, fmt.Errorf("llm: anthropic request failed: %w", err)
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		p.setHealthy(false)
		return Completion{}, fmt.Errorf("llm: failed to read anthropic response: %w", err)
	}

	var resp anthropicAPIResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		p.setHealthy(false)
		return Completion{}, fmt.Errorf("llm: failed to parse anthropic response: %w", err)
	}
	if httpResp.StatusCode != http.StatusOK || resp.Error != nil {
		p.setHealthy(httpResp.StatusCode < 500)
		msg := fmt.Sprintf("status %d", httpResp.StatusCode)
		if resp.Error != nil {
			msg = resp.Error.Message
		}
		return Completion{}, fmt.Errorf("llm: anthropic error: %s", msg)
	}
	p.setHealthy(true)

	var text string
	for _, block := range resp.Content {
		if block.Type == "text" {
			text += block.Text
		}
	}

	return Completion{
		Content:      text,
		Model:        p.model,
		TokensUsed:   resp.Usage.InputTokens + resp.Usage.OutputTokens,
		ResponseTime: time.Since(start),
	}, nil
}
