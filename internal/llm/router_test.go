package llm

import (
	"context"
	"errors"
	"testing"
)

type errorProvider struct{ name string }

func (p *errorProvider) Name() string    { return p.name }
func (p *errorProvider) IsHealthy() bool { return true }
func (p *errorProvider) Complete(ctx context.Context, prompt string, opts Options) (Completion, error) {
	return Completion{}, errors.New("boom")
}

func TestRouterFallsThroughOnError(t *testing.T) {
	r := NewRouter(&errorProvider{name: "first"}, NewMockProvider("fallback answer"))

	got, err := r.Complete(context.Background(), "hello", Options{})
	if err != nil {
		t.Fatalf("expected fallback success, got error: %v", err)
	}
	if got.Content != "fallback answer" {
		t.Fatalf("expected fallback content, got %q", got.Content)
	}
}

func TestRouterSkipsUnhealthyProvider(t *testing.T) {
	unhealthy := &MockProvider{Response: "should not be used", Healthy: false}
	healthy := NewMockProvider("used")

	r := NewRouter(unhealthy, healthy)
	got, err := r.Complete(context.Background(), "hi", Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Content != "used" {
		t.Fatalf("expected healthy provider's content, got %q", got.Content)
	}
}

func TestRouterReturnsErrorWhenAllFail(t *testing.T) {
	r := NewRouter(&errorProvider{name: "only"})
	if _, err := r.Complete(context.Background(), "hi", Options{}); err == nil {
		t.Fatalf("expected error when all providers fail")
	}
}

func TestRouterEmbedSkipsNonEmbedders(t *testing.T) {
	r := NewRouter(&errorProvider{name: "no-embed"}, NewMockProvider("unused"))

	vec, err := r.Embed(context.Background(), "shrivelling")
	if err != nil {
		t.Fatalf("expected the mock provider's embedding, got error: %v", err)
	}
	if len(vec) == 0 {
		t.Fatalf("expected a non-empty embedding")
	}
}

func TestRouterEmbedIsDeterministic(t *testing.T) {
	r := NewRouter(NewMockProvider("unused"))

	v1, err1 := r.Embed(context.Background(), "shrivelling")
	v2, err2 := r.Embed(context.Background(), "shrivelling")
	if err1 != nil || err2 != nil {
		t.Fatalf("unexpected errors: %v, %v", err1, err2)
	}
	if len(v1) != len(v2) {
		t.Fatalf("expected matching embedding lengths")
	}
	for i := range v1 {
		if v1[i] != v2[i] {
			t.Fatalf("expected a deterministic embedding for the same text")
		}
	}
}

func TestRouterEmbedReturnsErrorWhenNoEmbedderConfigured(t *testing.T) {
	r := NewRouter(&errorProvider{name: "only"})
	if _, err := r.Embed(context.Background(), "hi"); err == nil {
		t.Fatalf("expected error when no provider can embed text")
	}
}
