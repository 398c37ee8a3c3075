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
	"testing"

	"arkham/advisor/internal/model"
)

func TestClassifyScenarioHintWins(t *testing.T) {
	req := model.Request{Message: "can I include this", ScenarioName: "The Gathering"}
	if got := classify(req); got != ClassScenario {
		t.Fatalf("expected scenario classification from structured hint, got %s", got)
	}
}

func TestClassifyXPHintBiasesSearch(t *testing.T) {
	req := model.Request{Message: "hello", UpgradeXP: 5}
	if got := classify(req); got != ClassSearch {
		t.Fatalf("expected search classification from XP hint, got %s", got)
	}
}

func TestClassifyKeywordPriority(t *testing.T) {
	cases := []struct {
		message string
		want    Classification
	}{
		{"can I build a new deck starter for legal cards", ClassBuild},
		{"help me find and recommend an upgrade", ClassSearch},
		{"analyze the gaps in my curve", ClassAnalyze},
		{"is this card allowed under taboo", ClassRules},
		{"what do you think", ClassGeneral},
	}
	for _, c := range cases {
		if got := classify(model.Request{Message: c.message}); got != c.want {
			t.Errorf("classify(%q) = %s, want %s", c.message, got, c.want)
		}
	}
}

func TestSelectAgentsBuildDeckIncludesAllCore(t *testing.T) {
	agents := selectAgents(ClassBuild, model.Request{})
	want := map[string]bool{agentRules: true, agentActionSpace: true, agentState: true}
	for _, a := range agents {
		delete(want, a)
	}
	if len(want) != 0 {
		t.Fatalf("missing expected agents: %v", want)
	}
}

func TestSelectAgentsScenarioAddsStateWhenDeckPresent(t *testing.T) {
	deck := &model.Deck{}
	agents := selectAgents(ClassScenario, model.Request{Deck: deck})
	found := false
	for _, a := range agents {
		if a == agentState {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected StateAgent to be selected when a deck is present, got %v", agents)
	}
}
