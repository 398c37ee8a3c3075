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
	"fmt"
	"strings"

	"arkham/advisor/internal/llm"
	"arkham/advisor/internal/model"
	"arkham/advisor/internal/subagent/actionspace"
	"arkham/advisor/internal/subagent/state"
)

// synthesize invokes the language model with the aggregated subagent
// outputs and returns the appropriate response schema. The
// synthesizer is called at most twice (one retry) before degrading to
// a concatenation fallback, per §4.1's failure semantics.
func (a *Advisor) synthesize(ctx context.Context, rc *requestContext, ordered []model.Response) (*AdvisorResponse, error) {
	aggConf := aggregateConfidence(ordered)

	if rc.classification == ClassBuild {
		deckSize := 30
		if a.Cards != nil && rc.request.InvestigatorID != "" {
			if inv, err := a.Cards.GetInvestigator(ctx, rc.request.InvestigatorID); err == nil {
				deckSize = inv.EffectiveDeckSize()
			}
		}
		if proposal, ok := buildDeckProposal(rc, ordered, aggConf, deckSize); ok {
			return &AdvisorResponse{Kind: "deck_proposal", DeckProposal: proposal}, nil
		}
	}

	prompt := buildSynthesisPrompt(rc.request, ordered)

	var completion llm.Completion
	var err error
	if a.LLM != nil {
		completion, err = a.LLM.Complete(ctx, prompt, llm.Options{MaxTokens: 600, Temperature: 0.3})
		if err != nil {
			completion, err = a.LLM.Complete(ctx, prompt, llm.Options{MaxTokens: 600, Temperature: 0.3})
		}
	} else {
		err = fmt.Errorf("no language model configured")
	}

	if err != nil {
		return &AdvisorResponse{Kind: "advisory", Advisory: degradedAdvisory(rc, ordered)}, nil
	}

	return &AdvisorResponse{
		Kind: "advisory",
		Advisory: &Advisory{
			Content:         completion.Content,
			Confidence:      aggConf,
			AgentsConsulted: rc.selected,
			SubagentResults: summaries(ordered),
			Metadata: map[string]interface{}{
				"classification": string(rc.classification),
			},
		},
	}, nil
}

// aggregateConfidence computes the weighted mean of per-agent
// confidences weighted by each agent's declared relevance, clipped to
// [0,1]. Relevance defaults to 1.0 when unset.
func aggregateConfidence(responses []model.Response) float64 {
	var weightedSum, weightTotal float64
	for _, r := range responses {
		relevance := r.Relevance
		if relevance == 0 {
			relevance = 1.0
		}
		weightedSum += r.Confidence * relevance
		weightTotal += relevance
	}
	if weightTotal == 0 {
		return 0
	}
	return model.ClampConfidence(weightedSum / weightTotal)
}

// degradedAdvisory is the synthesizer failure fallback: concatenated
// agent contents, confidence = max per-agent confidence * 0.5.
func degradedAdvisory(rc *requestContext, responses []model.Response) *Advisory {
	var b strings.Builder
	maxConf := 0.0
	for i, r := range responses {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(r.Content)
		if r.Confidence > maxConf {
			maxConf = r.Confidence
		}
	}
	return &Advisory{
		Content:         b.String(),
		Confidence:      model.ClampConfidence(maxConf * 0.5),
		AgentsConsulted: rc.selected,
		SubagentResults: summaries(responses),
		Metadata: map[string]interface{}{
			"classification": string(rc.classification),
			"degraded":       true,
		},
	}
}

func summaries(responses []model.Response) []AgentResultSummary {
	out := make([]AgentResultSummary, 0, len(responses))
	for _, r := range responses {
		out = append(out, AgentResultSummary{AgentName: r.AgentName, Content: r.Content, Confidence: r.Confidence})
	}
	return out
}

func buildSynthesisPrompt(req model.Request, responses []model.Response) string {
	var b strings.Builder
	fmt.Fprintf(&b, "User request: %s\n\n", req.Message)
	b.WriteString("Subagent findings:\n")
	for _, r := range responses {
		fmt.Fprintf(&b, "[%s, confidence %.2f]: %s\n", r.AgentName, r.Confidence, r.Content)
	}
	b.WriteString("\nSynthesize a single coherent answer for the user, citing findings only where they support a claim.")
	return b.String()
}

// buildDeckProposal constructs the DeckProposal schema when the
// classification is build-deck and ActionSpaceAgent returned at least
// deckSize candidates. Returns ok=false when the payload can't support
// a proposal, in which case the caller falls back to Advisory.
func buildDeckProposal(rc *requestContext, responses []model.Response, aggConf float64, deckSize int) (*DeckProposal, bool) {
	var candidates []actionspace.Candidate
	var archetype string
	for _, r := range responses {
		if r.AgentName == "ActionSpaceAgent" {
			if payload, ok := r.Payload.(actionspace.Payload); ok {
				candidates = payload.Candidates
			}
		}
		if r.AgentName == "StateAgent" {
			if payload, ok := r.Payload.(state.Composition); ok {
				archetype = payload.Archetype
			}
		}
	}

	if deckSize <= 0 {
		deckSize = 30
	}
	if len(candidates) < deckSize {
		return nil, false
	}

	cards := make([]DeckProposalCard, 0, deckSize)
	total := 0
	for _, c := range candidates {
		if total >= deckSize {
			break
		}
		cards = append(cards, DeckProposalCard{
			CardID: c.Code, Name: c.Name, Quantity: 1,
			Category: "candidate", Reason: c.Reason,
		})
		total++
	}

	return &DeckProposal{
		DeckName:         rc.request.InvestigatorName + " deck",
		InvestigatorID:   rc.request.InvestigatorID,
		InvestigatorName: rc.request.InvestigatorName,
		Cards:            cards,
		TotalCards:       total,
		Reasoning:        "Selected from ActionSpaceAgent's highest-scoring candidates.",
		Archetype:        archetype,
		Confidence:       aggConf,
	}, true
}
