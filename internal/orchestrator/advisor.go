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

// Package orchestrator implements the classify → select → fanout →
// aggregate → synthesize pipeline: the single entry point the rest of
// the core is built to serve.
package orchestrator

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"arkham/advisor/internal/advisorerrors"
	"arkham/advisor/internal/audit"
	"arkham/advisor/internal/cardstore"
	"arkham/advisor/internal/corpus"
	"arkham/advisor/internal/llm"
	"arkham/advisor/internal/metrics"
	"arkham/advisor/internal/model"
	"arkham/advisor/internal/subagent"
	"arkham/advisor/shared/logger"
)

// AdvisorResponse is the discriminated union the orchestrator returns:
// exactly one of Advisory or DeckProposal is populated, per §4.1.
type AdvisorResponse struct {
	Kind         string        `json:"kind"`
	Advisory     *Advisory     `json:"advisory,omitempty"`
	DeckProposal *DeckProposal `json:"deck_proposal,omitempty"`
}

// Advisor carries every dependency the pipeline needs as fields, not
// package-level globals — the teacher's orchestrator/run.go wires
// llmRouter/responseProcessor etc. as mutable package vars; this core
// keeps the initialization sequence but not the shared mutable state,
// since OrchestratorState has no persistence across concurrent
// requests and globals would undermine that invariant.
type Advisor struct {
	Config  Config
	Agents  map[string]subagent.Agent
	LLM     *llm.Router
	Metrics *metrics.Collector
	Audit   *audit.Logger
	Log     *logger.Logger
	Cards   *cardstore.Store
	Corpus  *corpus.Store
}

// New builds an Advisor from its dependencies. agents maps agent name
// to its Agent implementation (RulesAgent/StateAgent/ActionSpaceAgent/
// ScenarioAgent).
func New(cfg Config, agents map[string]subagent.Agent, router *llm.Router, m *metrics.Collector, auditLog *audit.Logger, cards *cardstore.Store, corp *corpus.Store) *Advisor {
	return &Advisor{
		Config:  cfg,
		Agents:  agents,
		LLM:     router,
		Metrics: m,
		Audit:   auditLog,
		Log:     logger.New("orchestrator"),
		Cards:   cards,
		Corpus:  corp,
	}
}

// Advise runs one request through the full pipeline. It never panics
// and never returns a nil response on success; on cancellation it
// returns a well-formed, empty AdvisorResponse with status "cancelled".
func (a *Advisor) Advise(ctx context.Context, req model.Request) (*AdvisorResponse, error) {
	start := time.Now()
	if req.RequestID == "" {
		req.RequestID = uuid.NewString()
	}

	rc := &requestContext{request: req, state: stateNew, responses: map[string]model.Response{}}

	rc.state = stateClassifying
	rc.classification = classify(req)
	rc.selected = selectAgents(rc.classification, req)

	globalCtx, cancelGlobal := context.WithTimeout(ctx, a.Config.GlobalBudget)
	defer cancelGlobal()

	rc.state = stateDispatched
	a.fanout(globalCtx, rc)

	if globalCtx.Err() != nil {
		rc.state = stateCancelled
		a.recordAudit(rc, start, "cancelled")
		return &AdvisorResponse{Kind: "cancelled"}, nil
	}

	rc.state = stateCollecting
	ordered := a.aggregate(rc)

	rc.state = stateSynthesizing
	resp, err := a.synthesize(globalCtx, rc, ordered)
	if err != nil {
		rc.state = stateFailed
		a.recordAudit(rc, start, err.Error())
		return resp, nil
	}

	rc.state = stateDone
	a.recordAudit(rc, start, "")
	return resp, nil
}

// fanout invokes every selected agent concurrently with a per-agent
// timeout, following the teacher's goroutine-per-item + sync.WaitGroup
// + indexed result slice pattern (workflow_engine.go's
// executeStepsParallel), generalized from workflow steps to subagents.
func (a *Advisor) fanout(ctx context.Context, rc *requestContext) {
	names := rc.selected
	results := make([]model.Response, len(names))

	var wg sync.WaitGroup
	sem := make(chan struct{}, a.Config.MaxConcurrency)

	for i, name := range names {
		agent, ok := a.Agents[name]
		if !ok {
			results[i] = model.Response{AgentName: name, Diagnostics: model.Diagnostics{Error: true, ErrorKind: string(advisorerrors.KindNotFound)}}
			continue
		}

		wg.Add(1)
		sem <- struct{}{}
		go func(idx int, ag subagent.Agent) {
			defer wg.Done()
			defer func() { <-sem }()

			agentCtx, cancel := context.WithTimeout(ctx, a.Config.PerAgentBudget)
			defer cancel()

			resp, err := ag.Handle(agentCtx, rc.request)
			if err != nil || agentCtx.Err() != nil {
				kind := string(advisorerrors.KindOf(err))
				if agentCtx.Err() != nil && kind == "" {
					kind = string(advisorerrors.KindBudgetExceeded)
				}
				results[idx] = model.Response{AgentName: ag.Name(), Diagnostics: model.Diagnostics{Error: true, ErrorKind: kind}}
				if a.Metrics != nil {
					a.Metrics.AgentErrors.WithLabelValues(ag.Name(), kind).Inc()
				}
				return
			}
			results[idx] = resp
		}(i, agent)
	}

	wg.Wait()

	for i, name := range names {
		rc.responses[name] = results[i]
	}
}

// aggregate collects responses in deterministic agent-name-ascending
// order, independent of completion order, per §4.1.
func (a *Advisor) aggregate(rc *requestContext) []model.Response {
	names := make([]string, 0, len(rc.responses))
	for name := range rc.responses {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]model.Response, 0, len(names))
	for _, name := range names {
		out = append(out, rc.responses[name])
	}
	return out
}

func (a *Advisor) recordAudit(rc *requestContext, start time.Time, errMsg string) {
	if a.Audit == nil {
		return
	}
	agents := make([]string, 0, len(rc.selected))
	agents = append(agents, rc.selected...)

	conf := 0.0
	n := 0
	for _, resp := range rc.responses {
		conf += resp.Confidence
		n++
	}
	if n > 0 {
		conf /= float64(n)
	}

	a.Audit.Record(audit.Entry{
		RequestID:       rc.request.RequestID,
		Classification:  string(rc.classification),
		AgentsConsulted: agents,
		Confidence:      conf,
		Latency:         time.Since(start),
		Timestamp:       start,
		Error:           errMsg,
	})

	if a.Metrics != nil {
		status := "ok"
		if errMsg != "" {
			status = "error"
		}
		a.Metrics.RequestsTotal.WithLabelValues(string(rc.classification), status).Inc()
		a.Metrics.RequestDuration.WithLabelValues(string(rc.classification)).Observe(float64(time.Since(start).Milliseconds()))
	}
}

// IsHealthy aggregates the health of every dependency the advisor
// relies on, mirroring the teacher's IsHealthy() threaded through
// LLMRouter/WorkflowEngine/PlanningEngine.
func (a *Advisor) IsHealthy(ctx context.Context) bool {
	if a.LLM != nil && len(a.LLM.Providers()) == 0 {
		return false
	}
	if a.Cards != nil {
		if err := a.Cards.HealthCheck(ctx); err != nil {
			return false
		}
	}
	return true
}
