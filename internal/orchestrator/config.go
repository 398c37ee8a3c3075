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

package orchestrator

import (
	"os"
	"strconv"
	"time"
)

// Config holds every orchestrator tunable, loaded once at startup from
// environment variables with hardcoded defaults — no external config
// library, matching the teacher's cmd/*/main.go convention.
type Config struct {
	PerAgentBudget time.Duration
	GlobalBudget   time.Duration
	MaxConcurrency int
}

// DefaultConfig returns the spec's stated defaults (20s/agent, 45s
// global, worker pool capped at 8).
func DefaultConfig() Config {
	return Config{
		PerAgentBudget: 20 * time.Second,
		GlobalBudget:   45 * time.Second,
		MaxConcurrency: 8,
	}
}

// LoadConfig reads ADVISOR_PER_AGENT_BUDGET_MS / ADVISOR_GLOBAL_BUDGET_MS /
// ADVISOR_MAX_CONCURRENCY, falling back to DefaultConfig for anything
// unset or unparsable.
func LoadConfig() Config {
	cfg := DefaultConfig()
	if v, ok := envInt("ADVISOR_PER_AGENT_BUDGET_MS"); ok {
		cfg.PerAgentBudget = time.Duration(v) * time.Millisecond
	}
	if v, ok := envInt("ADVISOR_GLOBAL_BUDGET_MS"); ok {
		cfg.GlobalBudget = time.Duration(v) * time.Millisecond
	}
	if v, ok := envInt("ADVISOR_MAX_CONCURRENCY"); ok {
		cfg.MaxConcurrency = v
	}
	return cfg
}

func envInt(key string) (int, bool) {
	raw := os.Getenv(key)
	if raw == "" {
		return 0, false
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}
