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
	"context"
	"testing"
	"time"

	"arkham/advisor/internal/audit"
	"arkham/advisor/internal/model"
	"arkham/advisor/internal/subagent"
)

type fakeAgent struct {
	name  string
	resp  model.Response
	delay time.Duration
}

func (f fakeAgent) Name() string { return f.name }

func (f fakeAgent) Handle(ctx context.Context, req model.Request) (model.Response, error) {
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return model.Response{}, ctx.Err()
		}
	}
	return f.resp, nil
}

func TestFanoutAndAggregateOrderingIsDeterministic(t *testing.T) {
	adv := &Advisor{
		Config: DefaultConfig(),
		Agents: map[string]subagent.Agent{
			"ZAgent": fakeAgent{name: "ZAgent", resp: model.Response{AgentName: "ZAgent", Content: "z"}},
			"AAgent": fakeAgent{name: "AAgent", resp: model.Response{AgentName: "AAgent", Content: "a"}},
		},
		Audit: audit.NewLogger(10, nil),
	}

	rc := &requestContext{
		request:   model.Request{Message: "hi"},
		selected:  []string{"ZAgent", "AAgent"},
		responses: map[string]model.Response{},
	}

	adv.fanout(context.Background(), rc)
	ordered := adv.aggregate(rc)

	if len(ordered) != 2 {
		t.Fatalf("expected 2 responses, got %d", len(ordered))
	}
	if ordered[0].AgentName != "AAgent" || ordered[1].AgentName != "ZAgent" {
		t.Fatalf("expected agent-name-ascending order, got %s then %s", ordered[0].AgentName, ordered[1].AgentName)
	}
}

func TestFanoutRecordsTimeoutAsError(t *testing.T) {
	cfg := DefaultConfig()
	cfg.PerAgentBudget = 10 * time.Millisecond

	adv := &Advisor{
		Config: cfg,
		Agents: map[string]subagent.Agent{
			"SlowAgent": fakeAgent{name: "SlowAgent", delay: 100 * time.Millisecond, resp: model.Response{AgentName: "SlowAgent", Content: "too slow"}},
		},
	}

	rc := &requestContext{
		request:   model.Request{Message: "hi"},
		selected:  []string{"SlowAgent"},
		responses: map[string]model.Response{},
	}

	adv.fanout(context.Background(), rc)

	resp := rc.responses["SlowAgent"]
	if !resp.Diagnostics.Error {
		t.Fatalf("expected a timed-out agent to be recorded as an error, got %+v", resp)
	}
}
