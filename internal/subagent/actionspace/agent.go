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

// Package actionspace implements ActionSpaceAgent: a ranked list of
// candidate cards fitting the request, filtered to legality and
// ownership, scored but never actually added to a deck.
package actionspace

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strconv"
	"strings"

	"arkham/advisor/internal/capability"
	"arkham/advisor/internal/cardstore"
	"arkham/advisor/internal/legality"
	"arkham/advisor/internal/model"
	"arkham/advisor/internal/subagent"
)

// topK truncates the ranked candidate list. It must stay at or above
// the orchestrator's deck-proposal candidate floor (see
// buildDeckProposal's deckSize) or a build-deck request can never
// gather enough candidates to produce a DeckProposal.
const topK = 40

// weights for the candidate score: capability match, cost fit,
// archetype alignment, economy bonus.
const (
	weightCapability = 0.45
	weightCostFit    = 0.20
	weightArchetype  = 0.20
	weightEconomy    = 0.15
)

var keywordCapabilities = map[string]capability.Tag{
	"combat": capability.TagCombat, "fight": capability.TagCombat,
	"evade": capability.TagEvade,
	"clue":  capability.TagClue, "investigate": capability.TagClue,
	"heal":  capability.TagHealing,
	"draw":  capability.TagDraw,
	"money": capability.TagEconomy, "resource": capability.TagEconomy, "economy": capability.TagEconomy,
	"move": capability.TagMovement,
}

// Candidate is one scored card in the response payload.
type Candidate struct {
	Code                string           `json:"code"`
	Name                string           `json:"name"`
	Score               float64          `json:"score"`
	MatchedCapabilities []capability.Tag `json:"matched_capabilities"`
	Reason              string           `json:"reason"`
}

// Payload is ActionSpaceAgent's structured response.
type Payload struct {
	Candidates     []Candidate `json:"candidates"`
	AppliedFilters []string    `json:"applied_filters"`
}

// Agent produces the candidate card list.
type Agent struct {
	subagent.Base
	Cards *cardstore.Store
}

// New builds an ActionSpaceAgent.
func New(base subagent.Base, cards *cardstore.Store) *Agent {
	base.AgentName = "ActionSpaceAgent"
	return &Agent{Base: base, Cards: cards}
}

func (a *Agent) Name() string { return "ActionSpaceAgent" }

func (a *Agent) Handle(ctx context.Context, req model.Request) (model.Response, error) {
	return a.Compute(ctx, cacheKey(req), func(ctx context.Context) (model.Response, error) {
		return a.search(ctx, req)
	})
}

func (a *Agent) search(ctx context.Context, req model.Request) (model.Response, error) {
	needs := seedNeeds(req)

	var inv model.Investigator
	haveInvestigator := false
	if req.InvestigatorID != "" {
		if fetched, err := a.Cards.GetInvestigator(ctx, req.InvestigatorID); err == nil {
			inv, haveInvestigator = fetched, true
		}
	}

	pool, err := a.Cards.SearchCards(ctx, cardstore.SearchFilters{MaxXPLevel: req.UpgradeXP, Limit: 500})
	if err != nil {
		return model.Response{}, err
	}

	alreadyInDeck := map[string]int{}
	if req.Deck != nil {
		for _, dc := range req.Deck.Normalized().Cards {
			alreadyInDeck[dc.Code] = dc.Count
		}
	}

	var candidates []Candidate
	filters := []string{}
	if req.UpgradeXP > 0 {
		filters = append(filters, "xp<=budget")
	}
	if len(req.OwnedSets) > 0 {
		filters = append(filters, "owned-sets")
	}

	for _, card := range pool {
		tags := capability.Assign(card)
		matched := intersect(tags, needs)
		if len(matched) == 0 {
			continue
		}

		if len(req.OwnedSets) > 0 && card.SourcePack != "" {
			owned := false
			for _, pack := range req.OwnedSets {
				if strings.EqualFold(pack, card.SourcePack) {
					owned = true
					break
				}
			}
			if !owned {
				continue
			}
		}

		if haveInvestigator {
			d := legality.Check(card, legality.Params{
				Investigator:  inv,
				CopiesAlready: alreadyInDeck[card.Code],
				TabooMode:     req.TabooMode,
				UpgradeXP:     req.UpgradeXP,
				OwnedSets:     req.OwnedSets,
			})
			if d.Verdict != model.VerdictAllow {
				continue
			}
		}

		score := scoreCandidate(card, matched, needs)
		candidates = append(candidates, Candidate{
			Code: card.Code, Name: card.Name, Score: score,
			MatchedCapabilities: matched,
			Reason:              "matches " + joinTags(matched),
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Score != candidates[j].Score {
			return candidates[i].Score > candidates[j].Score
		}
		return candidates[i].Code < candidates[j].Code
	})
	if len(candidates) > topK {
		candidates = candidates[:topK]
	}

	confidence := subagent.Bounded(0.6, subagent.SublinearBonus(len(candidates), 0.01, 0.3), 1.0)
	if len(candidates) < 5 {
		confidence = subagent.Bounded(confidence, -0.2, 1.0)
	}

	return model.Response{
		Content:    "Found " + strconv.Itoa(len(candidates)) + " candidate cards.",
		Confidence: confidence,
		Relevance:  1.0,
		Payload:    Payload{Candidates: candidates, AppliedFilters: filters},
	}, nil
}

func seedNeeds(req model.Request) []capability.Tag {
	lower := strings.ToLower(req.Message)
	seen := map[capability.Tag]bool{}
	for kw, tag := range keywordCapabilities {
		if strings.Contains(lower, kw) {
			seen[tag] = true
		}
	}
	if len(seen) == 0 {
		return capability.All
	}
	out := make([]capability.Tag, 0, len(seen))
	for _, tag := range capability.All {
		if seen[tag] {
			out = append(out, tag)
		}
	}
	return out
}

func intersect(have []capability.Tag, want []capability.Tag) []capability.Tag {
	wantSet := make(map[capability.Tag]bool, len(want))
	for _, t := range want {
		wantSet[t] = true
	}
	var out []capability.Tag
	for _, t := range have {
		if wantSet[t] {
			out = append(out, t)
		}
	}
	return out
}

func scoreCandidate(card model.Card, matched []capability.Tag, needs []capability.Tag) float64 {
	capMatch := 0.0
	if len(needs) > 0 {
		capMatch = float64(len(matched)) / float64(len(needs))
		if capMatch > 1 {
			capMatch = 1
		}
	}

	costFit := 0.5
	if card.Cost != nil {
		cost := *card.Cost
		switch {
		case cost <= 2:
			costFit = 1.0
		case cost <= 4:
			costFit = 0.6
		default:
			costFit = 0.3
		}
	}

	archetypeAlignment := 0.5
	economyBonus := 0.0
	for _, tag := range matched {
		if tag == capability.TagEconomy {
			economyBonus = 1.0
		}
	}

	return weightCapability*capMatch + weightCostFit*costFit + weightArchetype*archetypeAlignment + weightEconomy*economyBonus
}

func joinTags(tags []capability.Tag) string {
	s := ""
	for i, t := range tags {
		if i > 0 {
			s += ", "
		}
		s += string(t)
	}
	return s
}

func cacheKey(req model.Request) string {
	h := sha256.New()
	h.Write([]byte(req.Message + "|" + req.InvestigatorID))
	if req.Deck != nil {
		h.Write([]byte(req.Deck.ContentHash()))
	}
	return "actionspaceagent:" + hex.EncodeToString(h.Sum(nil))
}
