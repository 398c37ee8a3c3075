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
	"strconv"
	"testing"

	"arkham/advisor/internal/audit"
	"arkham/advisor/internal/model"
	"arkham/advisor/internal/subagent"
	"arkham/advisor/internal/subagent/actionspace"
	"arkham/advisor/internal/subagent/state"
)

func TestAggregateConfidenceWeightsByRelevance(t *testing.T) {
	responses := []model.Response{
		{Confidence: 1.0, Relevance: 2.0},
		{Confidence: 0.0, Relevance: 1.0},
	}
	got := aggregateConfidence(responses)
	want := 2.0 / 3.0
	if got < want-0.001 || got > want+0.001 {
		t.Fatalf("expected weighted mean %.3f, got %.3f", want, got)
	}
}

func TestAggregateConfidenceEmptyIsZero(t *testing.T) {
	if got := aggregateConfidence(nil); got != 0 {
		t.Fatalf("expected 0 for no responses, got %f", got)
	}
}

func TestDegradedAdvisoryUsesHalvedMaxConfidence(t *testing.T) {
	rc := &requestContext{selected: []string{"RulesAgent"}}
	responses := []model.Response{
		{AgentName: "RulesAgent", Content: "a", Confidence: 0.8},
		{AgentName: "StateAgent", Content: "b", Confidence: 0.4},
	}
	adv := degradedAdvisory(rc, responses)
	if adv.Confidence != 0.4 {
		t.Fatalf("expected confidence 0.4 (0.8*0.5), got %f", adv.Confidence)
	}
	if adv.Content != "a\n\nb" {
		t.Fatalf("expected concatenated content, got %q", adv.Content)
	}
	if !adv.Metadata["degraded"].(bool) {
		t.Fatalf("expected metadata to flag the degraded path")
	}
}

func TestBuildDeckProposalSucceedsWithEnoughCandidates(t *testing.T) {
	candidates := make([]actionspace.Candidate, 30)
	for i := range candidates {
		code := "0" + strconv.Itoa(1000+i)
		candidates[i] = actionspace.Candidate{Code: code, Name: "Card " + code, Score: 1.0}
	}

	rc := &requestContext{
		request:        model.Request{InvestigatorID: "01001", InvestigatorName: "Roland Banks"},
		classification: ClassBuild,
		selected:       []string{"ActionSpaceAgent", "StateAgent"},
	}
	responses := []model.Response{
		{AgentName: "ActionSpaceAgent", Confidence: 0.8, Payload: actionspace.Payload{Candidates: candidates}},
		{AgentName: "StateAgent", Confidence: 0.8, Payload: state.Composition{Archetype: "big-gun"}},
	}

	proposal, ok := buildDeckProposal(rc, responses, aggregateConfidence(responses), 30)
	if !ok {
		t.Fatalf("expected buildDeckProposal to succeed with %d candidates", len(candidates))
	}
	if proposal.TotalCards != 30 {
		t.Fatalf("expected a 30-card proposal, got %d", proposal.TotalCards)
	}
	if proposal.Archetype != "big-gun" {
		t.Fatalf("expected archetype from StateAgent's payload, got %q", proposal.Archetype)
	}
}

func TestBuildDeckProposalFailsWithTooFewCandidates(t *testing.T) {
	rc := &requestContext{classification: ClassBuild}
	responses := []model.Response{
		{AgentName: "ActionSpaceAgent", Payload: actionspace.Payload{Candidates: []actionspace.Candidate{{Code: "01001"}}}},
	}
	if _, ok := buildDeckProposal(rc, responses, 0, 30); ok {
		t.Fatalf("expected buildDeckProposal to fail with only 1 candidate")
	}
}

func TestAdviseReturnsDeckProposalForBuildRequest(t *testing.T) {
	candidates := make([]actionspace.Candidate, 30)
	for i := range candidates {
		code := "0" + strconv.Itoa(1000+i)
		candidates[i] = actionspace.Candidate{Code: code, Name: "Card " + code, Score: 1.0}
	}

	adv := &Advisor{
		Config: DefaultConfig(),
		Agents: map[string]subagent.Agent{
			"RulesAgent": fakeAgent{name: "RulesAgent", resp: model.Response{AgentName: "RulesAgent", Confidence: 0.7}},
			"StateAgent": fakeAgent{name: "StateAgent", resp: model.Response{AgentName: "StateAgent", Confidence: 0.8, Payload: state.Composition{Archetype: "tank"}}},
			"ActionSpaceAgent": fakeAgent{name: "ActionSpaceAgent", resp: model.Response{
				AgentName: "ActionSpaceAgent", Confidence: 0.8, Payload: actionspace.Payload{Candidates: candidates},
			}},
		},
		Audit: audit.NewLogger(10, nil),
	}

	resp, err := adv.Advise(context.Background(), model.Request{Message: "build a new deck", InvestigatorID: "01001", InvestigatorName: "Roland Banks"})
	if err != nil {
		t.Fatalf("Advise returned error: %v", err)
	}
	if resp.Kind != "deck_proposal" || resp.DeckProposal == nil {
		t.Fatalf("expected a deck_proposal response, got kind %q", resp.Kind)
	}
	if resp.DeckProposal.TotalCards != 30 {
		t.Fatalf("expected 30 cards in the proposal, got %d", resp.DeckProposal.TotalCards)
	}
}
