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

// Package scenario implements ScenarioAgent: threat-profile lookup
// against the corpus, with prose generation constrained to cite only
// retrieved chunks.
package scenario

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"arkham/advisor/internal/corpus"
	"arkham/advisor/internal/llm"
	"arkham/advisor/internal/model"
	"arkham/advisor/internal/subagent"
)

var traitByKeyword = map[string]string{
	"willpower": "spell", "horror": "occult", "combat": "weapon",
	"agility": "fleet-footed", "intellect": "lore",
}

// ThreatEntry is one ordered threat in the payload.
type ThreatEntry struct {
	Skill           string `json:"skill"`
	Severity        string `json:"severity"`
	EvidenceCitation string `json:"evidence_citation"`
}

// Payload is ScenarioAgent's structured response.
type Payload struct {
	Threats           []ThreatEntry `json:"threats"`
	RecommendedTraits []string      `json:"recommended_traits"`
}

// Agent surfaces scenario threat profiles.
type Agent struct {
	subagent.Base
	Corpus *corpus.Store
	LLM    *llm.Router
}

// New builds a ScenarioAgent.
func New(base subagent.Base, corp *corpus.Store, router *llm.Router) *Agent {
	base.AgentName = "ScenarioAgent"
	return &Agent{Base: base, Corpus: corp, LLM: router}
}

func (a *Agent) Name() string { return "ScenarioAgent" }

func (a *Agent) Handle(ctx context.Context, req model.Request) (model.Response, error) {
	return a.Compute(ctx, cacheKey(req), func(ctx context.Context) (model.Response, error) {
		return a.lookup(ctx, req)
	})
}

func (a *Agent) lookup(ctx context.Context, req model.Request) (model.Response, error) {
	if req.ScenarioName == "" {
		return model.Response{
			Content:    "No scenario was specified.",
			Confidence: 0.1,
			Relevance:  1.0,
			Payload:    Payload{},
		}, nil
	}

	chunks, err := a.Corpus.LexicalSearch(ctx, req.ScenarioName, model.CorpusFilters{ScenarioName: req.ScenarioName, Limit: 10})
	if err != nil || len(chunks) == 0 {
		return model.Response{
			Content:    fmt.Sprintf("Scenario %q was not found in the corpus.", req.ScenarioName),
			Confidence: 0.1,
			Relevance:  1.0,
			Payload:    Payload{},
		}, nil
	}

	threats := extractThreats(chunks)
	traits := recommendedTraits(threats)

	content, genErr := a.narrate(ctx, req, threats, chunks)
	if genErr != nil {
		content = fallbackNarration(threats)
	}

	confidence := 0.2
	if len(chunks) >= 3 {
		confidence = 0.9
	} else if len(chunks) > 0 {
		confidence = subagent.Bounded(0.2, 0.2*float64(len(chunks)), 0.9)
	}

	return model.Response{
		Content:    content,
		Confidence: confidence,
		Relevance:  1.0,
		Citations:  chunks,
		Payload:    Payload{Threats: threats, RecommendedTraits: traits},
		Diagnostics: model.Diagnostics{
			RetrievalHits: len(chunks),
		},
	}, nil
}

func extractThreats(chunks []model.CorpusChunk) []ThreatEntry {
	var out []ThreatEntry
	lowerCombined := ""
	for _, c := range chunks {
		lowerCombined += " " + strings.ToLower(c.Text)
	}
	for skill := range traitByKeyword {
		if strings.Contains(lowerCombined, skill) {
			severity := "moderate"
			if strings.Count(lowerCombined, skill) > 2 {
				severity = "high"
			}
			out = append(out, ThreatEntry{
				Skill:            skill,
				Severity:         severity,
				EvidenceCitation: chunks[0].SourceID + "#" + chunks[0].SectionPath,
			})
		}
	}
	return out
}

func recommendedTraits(threats []ThreatEntry) []string {
	seen := map[string]bool{}
	var traits []string
	for _, t := range threats {
		if trait, ok := traitByKeyword[t.Skill]; ok && !seen[trait] {
			seen[trait] = true
			traits = append(traits, trait)
		}
	}
	return traits
}

func (a *Agent) narrate(ctx context.Context, req model.Request, threats []ThreatEntry, chunks []model.CorpusChunk) (string, error) {
	if a.LLM == nil {
		return fallbackNarration(threats), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Describe how to prepare for the scenario %q, speaking only from the citations below.\n\n", req.ScenarioName)
	for _, c := range chunks {
		fmt.Fprintf(&b, "Citation [%s %s]: %s\n", c.SourceID, c.SectionPath, c.Text)
	}

	completion, err := a.LLM.Complete(ctx, b.String(), llm.Options{MaxTokens: 400, Temperature: 0.3})
	if err != nil {
		return "", err
	}
	return completion.Content, nil
}

func fallbackNarration(threats []ThreatEntry) string {
	if len(threats) == 0 {
		return "No clear threat profile could be extracted from the corpus."
	}
	var b strings.Builder
	b.WriteString("Expect pressure on: ")
	for i, t := range threats {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%s (%s)", t.Skill, t.Severity)
	}
	return b.String()
}

func cacheKey(req model.Request) string {
	h := sha256.New()
	h.Write([]byte(req.ScenarioName))
	return "scenarioagent:" + hex.EncodeToString(h.Sum(nil))
}
