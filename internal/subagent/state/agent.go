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

// Package state implements StateAgent: a pure, non-retrieving,
// non-LLM analysis of a deck's composition, gaps, and archetype.
package state

import (
	"context"
	"sort"
	"strings"

	"arkham/advisor/internal/capability"
	"arkham/advisor/internal/cardstore"
	"arkham/advisor/internal/model"
	"arkham/advisor/internal/subagent"
)

// expectedCoverage is the minimum fraction of cards expected to carry
// each capability tag in a well-rounded solo deck. In multiplayer the
// thresholds are scaled down (see expectedCoverageThreshold), since a
// team can lean on teammates for some roles.
var expectedCoverage = map[capability.Tag]float64{
	capability.TagCombat:     0.10,
	capability.TagEvade:      0.05,
	capability.TagClue:       0.10,
	capability.TagSoakDamage: 0.05,
	capability.TagSoakHorror: 0.05,
	capability.TagHealing:    0.03,
	capability.TagDraw:       0.05,
	capability.TagEconomy:    0.05,
	capability.TagMovement:   0.03,
	capability.TagSupport:    0.03,
	capability.TagMitigation: 0.03,
}

// archetypeKeywords scores a fixed set of archetype labels from the
// keywords present in the deck's card text. Ties are resolved via
// factionPreference for the most common faction among the deck's
// cards; the investigator's own faction is not consulted.
var archetypeKeywords = map[string][]string{
	"big-gun":           {"weapon", "fight", "+3", "+4", "+5"},
	"tank":              {"soak", "health", "armor"},
	"clue-compression":  {"clue", "investigate"},
	"big-hand":          {"draw", "hand size"},
	"deck-cycle":        {"shuffle", "draw deck", "discard pile into"},
	"big-money":         {"resource", "gain 3", "gain 4"},
	"succeed-by-x":      {"succeed by", "additional 1 token"},
	"evasion":           {"evade", "automatically evade"},
	"spells":            {"spell", "arcane"},
	"chaos-bag-control": {"seal", "chaos token", "add and remove"},
	"doom":              {"doom"},
	"fail-to-win":       {"if you fail", "this test by"},
	"recursion":         {"return it to your hand", "return from your discard"},
	"dark-horse":        {"random basic weakness"},
	"hybrid":            {},
}

var factionPreference = map[model.Faction]string{
	model.FactionGuardian: "big-gun",
	model.FactionSeeker:   "clue-compression",
	model.FactionRogue:    "big-money",
	model.FactionMystic:   "spells",
	model.FactionSurvivor: "tank",
}

// Agent computes deck composition and gap analysis. It performs no
// retrieval and makes no language-model call.
type Agent struct {
	subagent.Base
	Cards *cardstore.Store
}

// New builds a StateAgent.
func New(base subagent.Base, cards *cardstore.Store) *Agent {
	base.AgentName = "StateAgent"
	return &Agent{Base: base, Cards: cards}
}

func (a *Agent) Name() string { return "StateAgent" }

func (a *Agent) Handle(ctx context.Context, req model.Request) (model.Response, error) {
	return a.Compute(ctx, "", func(ctx context.Context) (model.Response, error) {
		return a.analyze(ctx, req)
	})
}

// Composition is StateAgent's structured payload.
type Composition struct {
	TotalCards       int                       `json:"total_cards"`
	ByType           map[string]int            `json:"by_type"`
	ByFaction        map[string]int            `json:"by_faction"`
	ByCostBin        map[string]int            `json:"by_cost_bin"`
	MeanCost         float64                   `json:"mean_cost"`
	MedianCost       float64                   `json:"median_cost"`
	P90Cost          float64                   `json:"p90_cost"`
	TopHeaviness     float64                   `json:"top_heaviness"`
	SkillIconTotals  model.SkillIcons          `json:"skill_icon_totals"`
	CapabilityCounts map[capability.Tag]int    `json:"capability_counts"`
	Gaps             []capability.Tag          `json:"gaps"`
	Archetype        string                    `json:"archetype"`
	Note             string                    `json:"note,omitempty"`
}

func (a *Agent) analyze(ctx context.Context, req model.Request) (model.Response, error) {
	if req.Deck == nil || len(req.Deck.Cards) == 0 {
		return model.Response{
			Content:    "No deck was provided to analyze.",
			Confidence: 0.1,
			Relevance:  1.0,
			Payload:    Composition{Note: "deck not provided"},
		}, nil
	}

	deck := req.Deck.Normalized()
	cards := make([]model.Card, 0, len(deck.Cards))
	for _, dc := range deck.Cards {
		card, err := a.Cards.GetCard(ctx, dc.Code)
		if err != nil {
			continue // unknown card contributes nothing; not a hard failure
		}
		for i := 0; i < dc.Count; i++ {
			cards = append(cards, card)
		}
	}

	comp := buildComposition(cards, req.EffectivePlayerCount())

	confidence := subagent.Bounded(0.9, 0, 1.0)
	if deck.TotalCount() < 15 {
		confidence = subagent.Bounded(confidence, -0.2, 1.0)
	}
	if req.InvestigatorID == "" {
		confidence = subagent.Bounded(confidence, -0.3, 1.0)
	}

	return model.Response{
		Content:    summarize(comp),
		Confidence: confidence,
		Relevance:  1.0,
		Payload:    comp,
	}, nil
}

func buildComposition(cards []model.Card, playerCount int) Composition {
	comp := Composition{
		ByType:           map[string]int{},
		ByFaction:        map[string]int{},
		ByCostBin:        map[string]int{},
		CapabilityCounts: map[capability.Tag]int{},
	}

	var countable []model.Card
	var costs []int
	archetypeScores := map[string]int{}

	for _, c := range cards {
		if c.Flags.Permanent || c.Flags.BondedTo != "" {
			continue
		}
		countable = append(countable, c)
		comp.ByType[string(c.Type)]++
		comp.ByFaction[string(c.Faction)]++
		comp.SkillIconTotals.Willpower += c.Icons.Willpower
		comp.SkillIconTotals.Intellect += c.Icons.Intellect
		comp.SkillIconTotals.Combat += c.Icons.Combat
		comp.SkillIconTotals.Agility += c.Icons.Agility
		comp.SkillIconTotals.Wild += c.Icons.Wild

		cost := 0
		if c.Cost != nil {
			cost = *c.Cost
		}
		costs = append(costs, cost)
		comp.ByCostBin[costBin(cost)]++

		for _, tag := range capability.Assign(c) {
			comp.CapabilityCounts[tag]++
		}

		lowerText := strings.ToLower(c.Text)
		for archetype, keywords := range archetypeKeywords {
			for _, kw := range keywords {
				if strings.Contains(lowerText, strings.ToLower(kw)) {
					archetypeScores[archetype]++
				}
			}
		}
	}

	comp.TotalCards = len(countable)
	comp.MeanCost, comp.MedianCost, comp.P90Cost, comp.TopHeaviness = costStats(costs)

	threshold := expectedCoverageThreshold(playerCount)
	for _, tag := range capability.All {
		coverage := 0.0
		if comp.TotalCards > 0 {
			coverage = float64(comp.CapabilityCounts[tag]) / float64(comp.TotalCards)
		}
		if coverage < expectedCoverage[tag]*threshold {
			comp.Gaps = append(comp.Gaps, tag)
		}
	}

	comp.Archetype = topArchetype(archetypeScores, cards)
	return comp
}

// expectedCoverageThreshold scales down the expected-coverage bar in
// multiplayer, where teammates can cover for a gap.
func expectedCoverageThreshold(playerCount int) float64 {
	if playerCount <= 1 {
		return 1.0
	}
	return 0.6
}

func topArchetype(scores map[string]int, cards []model.Card) string {
	best, bestScore := "hybrid", -1
	var bestNames []string
	for name, score := range scores {
		if score > bestScore {
			best, bestScore, bestNames = name, score, []string{name}
		} else if score == bestScore {
			bestNames = append(bestNames, name)
		}
	}
	if bestScore <= 0 {
		return "hybrid"
	}
	if len(bestNames) == 1 {
		return best
	}

	sort.Strings(bestNames)
	var primaryFaction model.Faction
	tally := map[model.Faction]int{}
	for _, c := range cards {
		tally[c.Faction]++
	}
	maxCount := -1
	for f, n := range tally {
		if n > maxCount || (n == maxCount && f < primaryFaction) {
			primaryFaction, maxCount = f, n
		}
	}
	if preferred, ok := factionPreference[primaryFaction]; ok {
		for _, name := range bestNames {
			if name == preferred {
				return preferred
			}
		}
	}
	return bestNames[0]
}

func costBin(cost int) string {
	switch {
	case cost <= 0:
		return "0"
	case cost == 1:
		return "1"
	case cost == 2:
		return "2"
	case cost == 3:
		return "3"
	case cost == 4:
		return "4"
	default:
		return "5+"
	}
}

func costStats(costs []int) (mean, median, p90, topHeaviness float64) {
	if len(costs) == 0 {
		return 0, 0, 0, 0
	}
	sorted := append([]int(nil), costs...)
	sort.Ints(sorted)

	sum := 0
	heavy := 0
	for _, c := range sorted {
		sum += c
		if c >= 4 {
			heavy++
		}
	}
	mean = float64(sum) / float64(len(sorted))
	median = percentile(sorted, 0.5)
	p90 = percentile(sorted, 0.9)
	topHeaviness = float64(heavy) / float64(len(sorted))
	return
}

func percentile(sorted []int, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	idx := int(p * float64(len(sorted)-1))
	return float64(sorted[idx])
}

func summarize(c Composition) string {
	if c.Note != "" {
		return c.Note
	}
	if len(c.Gaps) == 0 {
		return "Deck composition looks well-rounded across capability roles."
	}
	return "Deck composition shows coverage gaps: " + joinTags(c.Gaps)
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
