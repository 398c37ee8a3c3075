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

// Package simulator runs the Monte Carlo opening-hand and early-turn
// simulation: no skill tests, no encounter deck, no card abilities —
// shuffle, mulligan, greedily play what's affordable for a handful of
// turns, and report reliability metrics.
package simulator

import (
	"math"
	"math/rand"
	"sort"

	"arkham/advisor/internal/cardstore"
	"arkham/advisor/internal/model"
)

// Config parameterizes one simulation call.
type Config struct {
	NTrials          int
	Turns            int
	MulliganStrategy model.MulliganStrategy
	TargetCards      []string
	Seed             int64
}

// DefaultConfig fills in the spec's stated defaults.
func DefaultConfig() Config {
	return Config{NTrials: 1000, Turns: 5, MulliganStrategy: model.MulliganAggressive}
}

// drawable is one non-permanent, non-bonded copy of a card used for
// shuffling and the greedy play simulation.
type drawable struct {
	code string
	cost int
	isEvent bool
	isFast  bool
}

// Simulate runs cfg.NTrials independent trials against deck and
// returns the aggregated report. Given the same deck content and cfg
// (including Seed), Simulate is bit-for-bit deterministic.
func Simulate(deck model.Deck, cards *cardstore.Store, cfg Config, resolve func(code string) (model.Card, bool)) Report {
	pool := buildPool(deck, resolve)

	if cfg.NTrials <= 0 || len(pool) == 0 {
		return emptyReport(cfg, pool)
	}

	targets := cfg.TargetCards
	rng := rand.New(rand.NewSource(cfg.Seed))

	acc := newAccumulator(targets, cfg.Turns)
	for trial := 0; trial < cfg.NTrials; trial++ {
		trialSeed := rng.Int63()
		trialRand := rand.New(rand.NewSource(trialSeed))
		result := runTrial(pool, cfg, trialRand)
		acc.add(result)
	}

	return acc.report(cfg, len(pool))
}

func buildPool(deck model.Deck, resolve func(code string) (model.Card, bool)) []drawable {
	var pool []drawable
	for _, dc := range deck.Normalized().Cards {
		card, ok := resolve(dc.Code)
		if !ok {
			continue
		}
		if card.Flags.Permanent || card.Flags.BondedTo != "" {
			continue
		}
		cost := 0
		if card.Cost != nil {
			cost = *card.Cost
		}
		for i := 0; i < dc.Count; i++ {
			pool = append(pool, drawable{
				code: dc.Code, cost: cost,
				isEvent: card.Type == model.CardTypeEvent,
				isFast:  card.Flags.Fast,
			})
		}
	}
	return pool
}

type trialResult struct {
	setupTurn    int // math.MaxInt32 if never reached
	keyDrawTurn  map[string]int
	keyInOpening map[string]bool
	succeeded    bool
	mulliganed   bool
	playedCosts  []int
}

func runTrial(pool []drawable, cfg Config, rng *rand.Rand) trialResult {
	shuffled := shuffle(pool, rng)
	openingHand := shuffled[:min(5, len(shuffled))]
	hand, deck := openingHand, shuffled[min(5, len(shuffled)):]

	hand, deck = applyMulligan(hand, deck, cfg, rng)

	result := trialResult{
		setupTurn:    math.MaxInt32,
		keyDrawTurn:  map[string]int{},
		keyInOpening: map[string]bool{},
		mulliganed:   !sameHand(openingHand, hand),
	}
	for _, t := range cfg.TargetCards {
		result.keyDrawTurn[t] = -1
	}
	for _, c := range hand {
		if _, tracked := result.keyDrawTurn[c.code]; tracked {
			result.keyInOpening[c.code] = true
			result.keyDrawTurn[c.code] = 0
		}
	}

	resources := 0
	assetsInPlay := 0
	openingHandPlayable := keepHand(hand)
	overspent := false

	for turn := 1; turn <= cfg.Turns; turn++ {
		if len(deck) > 0 {
			drawn := deck[0]
			deck = deck[1:]
			hand = append(hand, drawn)
			if _, tracked := result.keyDrawTurn[drawn.code]; tracked && result.keyDrawTurn[drawn.code] < 0 {
				result.keyDrawTurn[drawn.code] = turn
			}
		}
		resources++

		played, remainingHand := playGreedy(hand, resources)
		hand = remainingHand
		spent := 0
		for _, c := range played {
			resources -= c.cost
			spent += c.cost
			result.playedCosts = append(result.playedCosts, c.cost)
			if !c.isEvent || c.isFast {
				assetsInPlay++
			}
		}
		if spent > 0 && turn == 1 {
			// resources gained this turn already accounted before spend
		}
		if resources < 0 {
			overspent = true
		}

		if assetsInPlay >= 2 && result.setupTurn == math.MaxInt32 {
			result.setupTurn = turn
		}
	}

	hasKeyByTurn3 := len(cfg.TargetCards) == 0
	for _, t := range cfg.TargetCards {
		if d, ok := result.keyDrawTurn[t]; ok && d >= 0 && d <= 3 {
			hasKeyByTurn3 = true
		}
	}

	result.succeeded = hasKeyByTurn3 && openingHandPlayable && !overspent
	return result
}

// playGreedy plays the highest-cost affordable, non-held cards it can
// within the available resources, returning what was played and the
// cards left in hand. Events are held (not played) in v1 unless fast.
func playGreedy(hand []drawable, resources int) (played []drawable, remaining []drawable) {
	sorted := append([]drawable(nil), hand...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].cost > sorted[j].cost })

	remainingResources := resources
	playedSet := map[int]bool{}
	for i, c := range sorted {
		if c.isEvent && !c.isFast {
			continue
		}
		if c.cost <= remainingResources {
			remainingResources -= c.cost
			playedSet[i] = true
			played = append(played, c)
		}
	}
	for i, c := range sorted {
		if !playedSet[i] {
			remaining = append(remaining, c)
		}
	}
	return played, remaining
}

// sameHand reports whether a post-mulligan hand is identical (by
// position and code) to the pre-mulligan opening hand.
func sameHand(a, b []drawable) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].code != b[i].code {
			return false
		}
	}
	return true
}

func shuffle(pool []drawable, rng *rand.Rand) []drawable {
	out := append([]drawable(nil), pool...)
	rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}
