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

// Command advisor runs the Deck Advisor Core HTTP surface: the thin
// /v1/advise seam in front of the orchestrator, plus /healthz and
// /metrics for operability. No deckbuilding logic lives in main; it
// only wires dependencies and serves the handler bootstrap builds.
//
// Environment Variables:
//
//	ADVISOR_DATABASE_URL      - PostgreSQL connection string (cards, investigators, corpus)
//	ADVISOR_REDIS_ADDR        - optional shared L2 cache address
//	ADVISOR_REDIS_PASSWORD    - optional
//	ADVISOR_REDIS_DB          - optional, default 0
//	ADVISOR_BEDROCK_REGION    - optional, enables the Bedrock LLM provider
//	ADVISOR_BEDROCK_MODEL     - optional
//	ADVISOR_ANTHROPIC_API_KEY - optional, enables the direct Anthropic provider
//	ADVISOR_ANTHROPIC_MODEL   - optional
//	ADVISOR_PORT              - HTTP listen port (default: 8090)
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"arkham/advisor/internal/bootstrap"
	"arkham/advisor/shared/logger"
)

func main() {
	log := logger.New("main")
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	handler, cleanup, err := bootstrap.Run(ctx)
	if err != nil {
		log.Error("", "failed to initialize advisor", map[string]interface{}{"error": err.Error()})
		os.Exit(1)
	}
	defer cleanup()

	port := os.Getenv("ADVISOR_PORT")
	if port == "" {
		port = "8090"
	}

	httpServer := &http.Server{
		Addr:    ":" + port,
		Handler: handler,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = httpServer.Shutdown(shutdownCtx)
	}()

	log.Info("", "advisor listening", map[string]interface{}{"port": port})
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("", "server error", map[string]interface{}{"error": err.Error()})
		os.Exit(1)
	}
}
