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

// Package rules implements RulesAgent: deterministic deckbuilding
// legality plus an LLM-explained answer grounded in rules-reference
// retrieval. The legality verdict is never produced by the model.
package rules

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"

	"arkham/advisor/internal/cardstore"
	"arkham/advisor/internal/corpus"
	"arkham/advisor/internal/legality"
	"arkham/advisor/internal/llm"
	"arkham/advisor/internal/model"
	"arkham/advisor/internal/subagent"
)

const topK = 8

// subIntent is the agent's own sub-classification of the user message,
// used only to pick a retrieval query template.
type subIntent string

const (
	intentIncludeLegality subIntent = "include-legality"
	intentTaboo           subIntent = "taboo"
	intentInteraction     subIntent = "interaction"
	intentGeneric         subIntent = "generic-rules"
)

// Agent answers legality and rules questions.
type Agent struct {
	subagent.Base
	Cards  *cardstore.Store
	Corpus *corpus.Store
	LLM    *llm.Router
}

// New builds a RulesAgent on base, which supplies its response cache and
// circuit breaker.
func New(base subagent.Base, cards *cardstore.Store, corp *corpus.Store, router *llm.Router) *Agent {
	base.AgentName = "RulesAgent"
	return &Agent{Base: base, Cards: cards, Corpus: corp, LLM: router}
}

func (a *Agent) Name() string { return "RulesAgent" }

func (a *Agent) Handle(ctx context.Context, req model.Request) (model.Response, error) {
	key := cacheKey(req)
	return a.Compute(ctx, key, func(ctx context.Context) (model.Response, error) {
		return a.evaluate(ctx, req)
	})
}

func (a *Agent) evaluate(ctx context.Context, req model.Request) (model.Response, error) {
	intent := classifyIntent(req.Message)
	chunks, err := a.retrieve(ctx, req, intent)
	if err != nil {
		a.Log.Warn(req.RequestID, "rules retrieval degraded", map[string]interface{}{"error": err.Error()})
	}

	var decisions []model.LegalityDecision
	if req.InvestigatorID != "" {
		inv, invErr := a.Cards.GetInvestigator(ctx, req.InvestigatorID)
		switch {
		case invErr != nil && req.Deck != nil:
			for _, dc := range req.Deck.Normalized().Cards {
				decisions = append(decisions, model.LegalityDecision{
					CardID: dc.Code, Verdict: model.VerdictUnknown, Reason: "investigator unknown",
				})
			}
		case invErr != nil:
			// no deck to report per-card against; leave decisions empty
		case req.Deck != nil:
			decisions = a.checkDeck(ctx, req, inv)
		default:
			if card, found, cardErr := a.Cards.FindCardByNameInText(ctx, req.Message); cardErr == nil && found {
				decisions = []model.LegalityDecision{a.checkCard(card, inv, req)}
			}
		}
	}

	deterministicCount := len(decisions)
	retrievalHits := len(chunks)
	topHits := retrievalHits
	if topHits > 3 {
		topHits = 3
	}
	confidence := subagent.Bounded(0.7, 0.1*float64(deterministicCount)+0.05*float64(topHits), 0.95)
	if len(decisions) > 0 && allUnknown(decisions) {
		confidence = subagent.Bounded(confidence, 0, 0.3)
	}

	content, err := a.explain(ctx, req, decisions, chunks)
	if err != nil {
		a.Log.Warn(req.RequestID, "rules explanation degraded to heuristic", map[string]interface{}{"error": err.Error()})
		content = heuristicExplanation(decisions)
	}

	return model.Response{
		Content:    content,
		Confidence: confidence,
		Relevance:  1.0,
		Payload:    map[string]interface{}{"legality_decisions": decisions, "sub_intent": string(intent)},
		Citations:  chunks,
		Diagnostics: model.Diagnostics{
			RetrievalHits: retrievalHits,
		},
	}, nil
}

func (a *Agent) checkDeck(ctx context.Context, req model.Request, inv model.Investigator) []model.LegalityDecision {
	deck := req.Deck.Normalized()
	decisions := make([]model.LegalityDecision, 0, len(deck.Cards))
	for _, dc := range deck.Cards {
		card, err := a.Cards.GetCard(ctx, dc.Code)
		if err != nil {
			decisions = append(decisions, model.LegalityDecision{CardID: dc.Code, Verdict: model.VerdictUnknown, Reason: "card unknown"})
			continue
		}
		decisions = append(decisions, a.checkCard(card, inv, req))
	}
	return decisions
}

func (a *Agent) checkCard(card model.Card, inv model.Investigator, req model.Request) model.LegalityDecision {
	return legality.Check(card, legality.Params{
		Investigator: inv,
		TabooMode:    req.TabooMode,
		UpgradeXP:    req.UpgradeXP,
		OwnedSets:    req.OwnedSets,
	})
}

func (a *Agent) retrieve(ctx context.Context, req model.Request, intent subIntent) ([]model.CorpusChunk, error) {
	query := retrievalQuery(req, intent)
	filters := model.CorpusFilters{InvestigatorCode: req.InvestigatorID, Limit: topK * 2}

	var queryEmbedding []float32
	if a.LLM != nil {
		if vec, err := a.LLM.Embed(ctx, query); err == nil {
			queryEmbedding = vec
		} else {
			a.Log.Warn(req.RequestID, "rules query embedding unavailable, ranking lexically only", map[string]interface{}{"error": err.Error()})
		}
	}

	lexical, lexErr := a.Corpus.LexicalSearch(ctx, query, filters)
	semantic, semErr := a.Corpus.SemanticSearch(ctx, queryEmbedding, filters)
	if lexErr != nil && semErr != nil {
		return nil, lexErr
	}

	merged := mergeChunks(lexical, semantic)
	sort.SliceStable(merged, func(i, j int) bool {
		if merged[i].Score != merged[j].Score {
			return merged[i].Score > merged[j].Score
		}
		return merged[i].SourceID < merged[j].SourceID
	})
	if len(merged) > topK {
		merged = merged[:topK]
	}
	return merged, nil
}

func mergeChunks(lexical, semantic []model.CorpusChunk) []model.CorpusChunk {
	byKey := make(map[string]*model.CorpusChunk)
	order := []string{}
	for _, c := range lexical {
		k := c.SourceID + "|" + c.SectionPath
		cp := c
		cp.Score = 0.5 * c.Score
		byKey[k] = &cp
		order = append(order, k)
	}
	for _, c := range semantic {
		k := c.SourceID + "|" + c.SectionPath
		if existing, ok := byKey[k]; ok {
			existing.Score += 0.5 * c.Score
			continue
		}
		cp := c
		cp.Score = 0.5 * c.Score
		byKey[k] = &cp
		order = append(order, k)
	}

	out := make([]model.CorpusChunk, 0, len(order))
	for _, k := range order {
		out = append(out, *byKey[k])
	}
	return out
}

func (a *Agent) explain(ctx context.Context, req model.Request, decisions []model.LegalityDecision, chunks []model.CorpusChunk) (string, error) {
	if a.LLM == nil {
		return heuristicExplanation(decisions), nil
	}

	var b strings.Builder
	b.WriteString("Answer the user's deckbuilding rules question using only the citations below. ")
	b.WriteString("The legality verdicts are already decided; explain them, do not re-derive them.\n\n")
	fmt.Fprintf(&b, "Question: %s\n", req.Message)
	for _, d := range decisions {
		fmt.Fprintf(&b, "Verdict: %s is %s (%s)\n", d.CardID, d.Verdict, d.Reason)
	}
	for _, c := range chunks {
		fmt.Fprintf(&b, "Citation [%s %s]: %s\n", c.SourceID, c.SectionPath, c.Text)
	}

	completion, err := a.LLM.Complete(ctx, b.String(), llm.Options{MaxTokens: 400, Temperature: 0.2})
	if err != nil {
		return "", err
	}
	return completion.Content, nil
}

func heuristicExplanation(decisions []model.LegalityDecision) string {
	if len(decisions) == 0 {
		return "No specific card legality was evaluated for this question."
	}
	var b strings.Builder
	for _, d := range decisions {
		fmt.Fprintf(&b, "%s: %s (%s). ", d.CardID, d.Verdict, d.Reason)
	}
	return strings.TrimSpace(b.String())
}

func allUnknown(decisions []model.LegalityDecision) bool {
	for _, d := range decisions {
		if d.Verdict != model.VerdictUnknown {
			return false
		}
	}
	return true
}

func classifyIntent(message string) subIntent {
	lower := strings.ToLower(message)
	switch {
	case containsAny(lower, "taboo"):
		return intentTaboo
	case containsAny(lower, "can include", "allowed", "legal"):
		return intentIncludeLegality
	case containsAny(lower, "how does", "interact", "interaction"):
		return intentInteraction
	default:
		return intentGeneric
	}
}

func containsAny(s string, substrs ...string) bool {
	for _, sub := range substrs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func retrievalQuery(req model.Request, intent subIntent) string {
	parts := []string{req.Message}
	if req.InvestigatorName != "" {
		parts = append(parts, req.InvestigatorName)
	}
	parts = append(parts, string(intent))
	return strings.Join(parts, " ")
}

func cacheKey(req model.Request) string {
	h := sha256.New()
	h.Write([]byte(req.Message + "|" + req.InvestigatorID))
	if req.Deck != nil {
		h.Write([]byte(req.Deck.ContentHash()))
	}
	return "rulesagent:" + hex.EncodeToString(h.Sum(nil))
}
