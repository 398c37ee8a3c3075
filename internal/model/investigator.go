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

package model

import "strings"

// BaseSkills holds an investigator's four printed base skill values.
type BaseSkills struct {
	Willpower int `json:"willpower"`
	Intellect int `json:"intellect"`
	Combat    int `json:"combat"`
	Agility   int `json:"agility"`
}

// SlotKind distinguishes an unlimited access clause from one that
// consumes a bounded "other" slot pool.
type SlotKind string

const (
	SlotUnlimited    SlotKind = "unlimited"
	SlotLimitedOther SlotKind = "limited-other"
)

// DeckbuildingOption is one clause of an investigator's access rules.
// A card is admitted by a clause when its faction, level, and traits
// satisfy the clause (see RulesAgent legality predicate).
type DeckbuildingOption struct {
	FactionSet    []Faction `json:"faction_set"`
	LevelMin      int       `json:"level_min"`
	LevelMax      int       `json:"level_max"`
	TraitFilter   []string  `json:"trait_filter,omitempty"` // empty = any trait
	SlotKind      SlotKind  `json:"slot_kind"`
	SlotLimit     int       `json:"slot_limit,omitempty"` // only meaningful when SlotKind == SlotLimitedOther
	TextContains  string    `json:"text_contains,omitempty"`
}

// Admits reports whether the clause's faction/level/trait constraints match
// the card. Slot limits (SlotKind/SlotLimit) are not checked here, and no
// caller tracks slot usage.
func (o DeckbuildingOption) Admits(c Card) bool {
	factionOK := false
	for _, f := range o.FactionSet {
		if c.QualifiesForFaction(f) {
			factionOK = true
			break
		}
	}
	if !factionOK {
		return false
	}

	if c.XPLevel < o.LevelMin || c.XPLevel > o.LevelMax {
		return false
	}

	if len(o.TraitFilter) > 0 {
		matched := false
		for _, t := range o.TraitFilter {
			if c.HasTrait(t) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}

	if o.TextContains != "" && !strings.Contains(strings.ToLower(c.Text), strings.ToLower(o.TextContains)) {
		return false
	}

	return true
}

// Investigator is a Card of type Investigator plus the attributes the
// core needs for deckbuilding analysis.
type Investigator struct {
	Card
	BaseSkills          BaseSkills           `json:"base_skills"`
	Health              int                  `json:"health"`
	Sanity              int                  `json:"sanity"`
	DeckSize            int                  `json:"deck_size"` // default 30
	RequiredSignatures  []string             `json:"required_signatures"`
	RandomWeaknessCount int                  `json:"random_weakness_count"`
	Options             []DeckbuildingOption `json:"options"`
}

// EffectiveDeckSize returns DeckSize, defaulting to 30 when unset.
func (i Investigator) EffectiveDeckSize() int {
	if i.DeckSize <= 0 {
		return 30
	}
	return i.DeckSize
}
