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

// Package legality implements the one deterministic predicate both
// RulesAgent and ActionSpaceAgent apply to decide whether a card may
// enter a specific investigator's deck. It is computed before any
// language-model call touches the decision.
package legality

import (
	"fmt"
	"strings"

	"arkham/advisor/internal/model"
)

// Params bundles the context a legality check needs beyond the card
// and investigator themselves.
type Params struct {
	Investigator  model.Investigator
	CopiesAlready int  // copies of this exact card already in the deck
	TabooMode     bool
	UpgradeXP     int  // available XP budget; 0 means "no XP spend allowed"
	OwnedSets     []string
}

// maxCopies returns the per-title copy cap for a card, honoring
// Exceptional (1) and Myriad (3) overrides.
func maxCopies(c model.Card) int {
	switch {
	case c.Flags.Exceptional:
		return 1
	case c.Flags.Myriad:
		return 3
	default:
		return 2
	}
}

// Check applies the deterministic legality predicate from the
// deckbuilding rules: faction/level/trait access, Taboo exclusion,
// copy-count headroom, and XP budget.
func Check(c model.Card, p Params) model.LegalityDecision {
	decision := model.LegalityDecision{CardID: c.Code}

	if p.TabooMode && c.Flags.TabooBanned {
		decision.Verdict = model.VerdictDeny
		decision.Reason = "banned under the current taboo list"
		return decision
	}

	if isOwnedSignature(c, p.Investigator) {
		decision.Verdict = model.VerdictAllow
		decision.Reason = "signature card"
		return decision
	}

	if len(p.Investigator.Options) == 0 {
		decision.Verdict = model.VerdictUnknown
		decision.Reason = "investigator access rules unavailable"
		return decision
	}

	admitted := false
	for _, opt := range p.Investigator.Options {
		if opt.Admits(c) {
			admitted = true
			break
		}
	}
	if !admitted {
		decision.Verdict = model.VerdictDeny
		decision.Reason = "no deckbuilding option admits this card's faction, level, or traits"
		return decision
	}

	cap := maxCopies(c)
	if p.CopiesAlready >= cap {
		decision.Verdict = model.VerdictDeny
		if c.Flags.Exceptional {
			decision.Reason = "Exceptional: max 1"
		} else {
			decision.Reason = fmt.Sprintf("copy limit reached (max %d)", cap)
		}
		return decision
	}

	if c.XPLevel > p.UpgradeXP {
		decision.Verdict = model.VerdictDeny
		decision.Reason = fmt.Sprintf("requires %d XP, budget is %d", c.XPLevel, p.UpgradeXP)
		return decision
	}

	if len(p.OwnedSets) > 0 && c.SourcePack != "" && !ownsPack(p.OwnedSets, c.SourcePack) {
		decision.Verdict = model.VerdictDeny
		decision.Reason = fmt.Sprintf("card pack %q not in owned sets", c.SourcePack)
		return decision
	}

	decision.Verdict = model.VerdictAllow
	decision.Reason = "passes faction, level, copy, and XP checks"
	return decision
}

func isOwnedSignature(c model.Card, inv model.Investigator) bool {
	for _, sig := range inv.RequiredSignatures {
		if sig == c.Code {
			return true
		}
	}
	return false
}

func ownsPack(owned []string, pack string) bool {
	for _, o := range owned {
		if strings.EqualFold(o, pack) {
			return true
		}
	}
	return false
}
