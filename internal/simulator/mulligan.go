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

package simulator

import (
	"math/rand"

	"arkham/advisor/internal/model"
)

// applyMulligan redraws the opening hand per cfg's policy. Redrawn
// cards are never mulliganed a second time.
func applyMulligan(hand []drawable, deck []drawable, cfg Config, rng *rand.Rand) (newHand, newDeck []drawable) {
	switch cfg.MulliganStrategy {
	case model.MulliganConservative:
		if keepHand(hand) {
			return hand, deck
		}
		return mulliganAll(hand, deck, rng)
	default: // aggressive
		return mulliganAggressive(hand, deck, cfg.TargetCards, rng)
	}
}

// keepHand reports whether an opening hand already has at least 2
// cards playable by turn 2 assuming one resource gained per turn.
func keepHand(hand []drawable) bool {
	playableByTurn2 := 0
	for _, c := range hand {
		if c.cost <= 2 && (!c.isEvent || c.isFast) {
			playableByTurn2++
		}
	}
	return playableByTurn2 >= 2
}

func mulliganAll(hand []drawable, deck []drawable, rng *rand.Rand) (newHand, newDeck []drawable) {
	pool := append(append([]drawable(nil), hand...), deck...)
	rng.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
	n := len(hand)
	if n > len(pool) {
		n = len(pool)
	}
	return pool[:n], pool[n:]
}

func mulliganAggressive(hand []drawable, deck []drawable, targets []string, rng *rand.Rand) (newHand, newDeck []drawable) {
	targetSet := make(map[string]bool, len(targets))
	for _, t := range targets {
		targetSet[t] = true
	}

	var keep, toss []drawable
	for _, c := range hand {
		producesResource := !c.isEvent // assets/skills are treated as resource-relevant in v1's simplified model
		if targetSet[c.code] || producesResource {
			keep = append(keep, c)
		} else {
			toss = append(toss, c)
		}
	}
	if len(toss) == 0 {
		return hand, deck
	}

	pool := append(append([]drawable(nil), deck...))
	rng.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })

	n := len(toss)
	if n > len(pool) {
		n = len(pool)
	}
	redrawn := pool[:n]
	remainingDeck := append(pool[n:], toss...) // tossed cards return to the bottom of the deck

	newHand = append(keep, redrawn...)
	return newHand, remainingDeck
}
