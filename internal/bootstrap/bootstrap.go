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

// Package bootstrap wires every dependency the advisor needs from
// environment variables and returns an http.Handler for cmd/advisor's
// main to serve. It is kept separate from internal/orchestrator and
// internal/httpapi so httpapi can depend on orchestrator's types without
// an import cycle: bootstrap imports both, neither imports bootstrap.
package bootstrap

import (
	"context"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"arkham/advisor/internal/audit"
	"arkham/advisor/internal/cache"
	"arkham/advisor/internal/cardstore"
	"arkham/advisor/internal/corpus"
	"arkham/advisor/internal/httpapi"
	"arkham/advisor/internal/llm"
	"arkham/advisor/internal/metrics"
	"arkham/advisor/internal/orchestrator"
	"arkham/advisor/internal/subagent"
	"arkham/advisor/internal/subagent/actionspace"
	"arkham/advisor/internal/subagent/rules"
	"arkham/advisor/internal/subagent/scenario"
	"arkham/advisor/internal/subagent/state"
	"arkham/advisor/shared/logger"
)

const (
	agentRules       = "RulesAgent"
	agentState       = "StateAgent"
	agentActionSpace = "ActionSpaceAgent"
	agentScenario    = "ScenarioAgent"
)

// Run wires every dependency from environment variables, builds the
// Advisor, and returns the HTTP handler plus a cleanup func for
// cmd/advisor/main.go to defer. It initializes the same way the
// teacher's Run() does (env-driven provider construction, a logged
// provider status line) but doesn't call http.ListenAndServe itself,
// so tests can exercise the wiring without binding a socket.
func Run(ctx context.Context) (http.Handler, func(), error) {
	log := logger.New("advisor")

	cardStore, err := cardstore.Open(ctx, cardstore.Config{ConnectionURL: os.Getenv("ADVISOR_DATABASE_URL")})
	if err != nil {
		return nil, nil, err
	}
	corpusStore := corpus.New(cardStore.DB())

	respCache := buildResponseCache(ctx, log)
	router := buildLLMRouter(ctx, log)

	agents := map[string]subagent.Agent{
		agentRules:       rules.New(subagent.NewBase(agentRules, respCache), cardStore, corpusStore, router),
		agentState:       state.New(subagent.NewBase(agentState, respCache), cardStore),
		agentActionSpace: actionspace.New(subagent.NewBase(agentActionSpace, respCache), cardStore),
		agentScenario:    scenario.New(subagent.NewBase(agentScenario, respCache), corpusStore, router),
	}

	reg := prometheus.NewRegistry()
	collector := metrics.NewCollector(reg)
	auditLog := audit.NewLogger(1000, nil)

	advisor := orchestrator.New(orchestrator.LoadConfig(), agents, router, collector, auditLog, cardStore, corpusStore)

	log.Info("", "advisor initialized", map[string]interface{}{
		"llm_providers": router.Providers(),
	})

	server := &httpapi.Server{Advisor: advisor, Registry: reg}

	cleanup := func() {
		_ = cardStore.Close()
	}

	return server.NewRouter(), cleanup, nil
}

func buildLLMRouter(ctx context.Context, log *logger.Logger) *llm.Router {
	var providers []llm.Provider

	if region := os.Getenv("ADVISOR_BEDROCK_REGION"); region != "" {
		model := os.Getenv("ADVISOR_BEDROCK_MODEL")
		if p, err := llm.NewBedrockProvider(ctx, region, model); err == nil {
			providers = append(providers, p)
		} else {
			log.Warn("", "bedrock provider unavailable", map[string]interface{}{"error": err.Error()})
		}
	}
	if key := os.Getenv("ADVISOR_ANTHROPIC_API_KEY"); key != "" {
		providers = append(providers, llm.NewAnthropicProvider(key, os.Getenv("ADVISOR_ANTHROPIC_MODEL")))
	}
	if len(providers) == 0 {
		providers = append(providers, llm.NewMockProvider("The advisor is running without a configured language model."))
	}
	return llm.NewRouter(providers...)
}

// buildResponseCache builds the per-agent LRU, optionally fronted by a
// shared Redis L2 when ADVISOR_REDIS_ADDR is set. A Redis dial failure
// degrades to local-only caching rather than failing startup — the
// cache is an optimization, never a hard dependency (§5's "read-only,
// shared-reader" discipline doesn't require it to be up).
func buildResponseCache(ctx context.Context, log *logger.Logger) *cache.ResponseCache {
	local := cache.NewLRU(256, 10*time.Minute)

	addr := os.Getenv("ADVISOR_REDIS_ADDR")
	if addr == "" {
		return cache.NewResponseCache(local, nil)
	}

	db, _ := strconv.Atoi(os.Getenv("ADVISOR_REDIS_DB"))
	l2, err := cache.NewRedisLayer(ctx, cache.RedisConfig{
		Addr:     addr,
		Password: os.Getenv("ADVISOR_REDIS_PASSWORD"),
		DB:       db,
		TTL:      10 * time.Minute,
	})
	if err != nil {
		log.Warn("", "redis cache layer unavailable, degrading to local-only", map[string]interface{}{"error": err.Error()})
		return cache.NewResponseCache(local, nil)
	}
	return cache.NewResponseCache(local, l2)
}
