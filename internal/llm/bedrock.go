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
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
)

// BedrockProvider calls a Claude model through AWS Bedrock. It is the
// primary production provider; ScenarioAgent and RulesAgent's
// explanation step both route through it.
type BedrockProvider struct {
	client  *bedrockruntime.Client
	region  string
	model   string
	healthy bool
}

// NewBedrockProvider loads the default AWS credential chain for region
// and constructs a Bedrock runtime client.
func NewBedrockProvider(ctx context.Context, region, model string) (*BedrockProvider, error) {
	if region == "" {
		region = "us-east-1"
	}
	if model == "" {
		model = "anthropic.claude-3-5-sonnet-20240620-v1:0"
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("llm: failed to load AWS config for bedrock (region=%s): %w", region, err)
	}

	return &BedrockProvider{
		client:  bedrockruntime.NewFromConfig(awsCfg),
		region:  region,
		model:   model,
		healthy: true,
	}, nil
}

// Name identifies the provider for logging and routing decisions.
func (p *BedrockProvider) Name() string { return "bedrock" }

// IsHealthy reports the result of the most recent call.
func (p *BedrockProvider) IsHealthy() bool { return p.healthy }

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicRequest struct {
	AnthropicVersion string             `json:"anthropic_version"`
	MaxTokens        int                `json:"max_tokens"`
	Temperature      float64            `json:"temperature"`
	System           string             `json:"system,omitempty"`
	Messages         []anthropicMessage `json:"messages"`
}

type anthropicContentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type anthropicResponse struct {
	Content []anthropicContentBlock `json:"content"`
	Usage   struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
}

// Complete invokes the configured Claude model via Bedrock's
// InvokeModel API using AWS SigV4 auth (handled by the SDK client).
func (p *BedrockProvider) Complete(ctx context.Context, prompt string, opts Options) (Completion, error) {
	start := time.Now()

	maxTokens := opts.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 1024
	}

	reqBody := anthropicRequest{
		AnthropicVersion: "bedrock-2023-05-31",
		MaxTokens:        maxTokens,
		Temperature:      opts.Temperature,
		System:           opts.SystemPrompt,
		Messages:         []anthropicMessage{{Role: "user", Content: prompt}},
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return Completion{}, fmt.Errorf("llm: failed to marshal bedrock request: %w", err)
	}

	out, err := p.client.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(p.model),
		Body:        payload,
		ContentType: aws.String("application/json"),
		Accept:      aws.String("application/json"),
	})
	if err != nil {
		p.healthy = false
		return Completion{}, fmt.Errorf("llm: bedrock invoke failed: %w", err)
	}
	p.healthy = true

	var resp anthropicResponse
	if err := json.Unmarshal(out.Body, &resp); err != nil {
		return Completion{}, fmt.Errorf("llm: failed to parse bedrock response: %w", err)
	}

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

const titanEmbedModel = "amazon.titan-embed-text-v1"

type titanEmbedRequest struct {
	InputText string `json:"inputText"`
}

type titanEmbedResponse struct {
	Embedding []float32 `json:"embedding"`
}

// Embed invokes Amazon Titan's text-embedding model through the same
// Bedrock runtime client used for completions.
func (p *BedrockProvider) Embed(ctx context.Context, text string) ([]float32, error) {
	payload, err := json.Marshal(titanEmbedRequest{InputText: text})
	if err != nil {
		return nil, fmt.Errorf("llm: failed to marshal titan embed request: %w", err)
	}

	out, err := p.client.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(titanEmbedModel),
		Body:        payload,
		ContentType: aws.String("application/json"),
		Accept:      aws.String("application/json"),
	})
	if err != nil {
		return nil, fmt.Errorf("llm: bedrock embed invoke failed: %w", err)
	}

	var resp titanEmbedResponse
	if err := json.Unmarshal(out.Body, &resp); err != nil {
		return nil, fmt.Errorf("llm: failed to parse titan embed response: %w", err)
	}
	return resp.Embedding, nil
}
