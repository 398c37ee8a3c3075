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

// Package capability assigns a card to zero or more fixed functional
// roles (capability tags). StateAgent uses the assignment to total
// deck coverage; ActionSpaceAgent uses it to match candidates to a
// need. The rule is static over (traits, text keywords) — never
// probabilistic — so both agents see the same answer for the same card.
package capability

import (
	"strings"

	"arkham/advisor/internal/model"
)

// Tag is one of the fixed functional roles a card may fulfill.
type Tag string

const (
	TagCombat      Tag = "combat"
	TagEvade       Tag = "evade"
	TagClue        Tag = "clue"
	TagSoakDamage  Tag = "soak-damage"
	TagSoakHorror  Tag = "soak-horror"
	TagHealing     Tag = "healing"
	TagDraw        Tag = "draw"
	TagEconomy     Tag = "economy"
	TagMovement    Tag = "movement"
	TagSupport     Tag = "support"
	TagMitigation  Tag = "mitigation"
)

// All enumerates every capability tag, in the fixed order the
// expected-coverage table and gap reports use.
var All = []Tag{
	TagCombat, TagEvade, TagClue, TagSoakDamage, TagSoakHorror,
	TagHealing, TagDraw, TagEconomy, TagMovement, TagSupport, TagMitigation,
}

var keywordTags = map[Tag][]string{
	TagCombat:     {"fight", "attacks", "damage to an enemy", "combat test"},
	TagEvade:      {"evade", "evasion"},
	TagClue:       {"clue", "investigate"},
	TagSoakDamage: {"prevent that much damage", "soak", "damage from"},
	TagSoakHorror: {"prevent that much horror", "soak", "horror from"},
	TagHealing:    {"heal 1 damage", "heal 1 horror", "heal damage", "heal horror"},
	TagDraw:       {"draw 1 card", "draw a card", "draw cards"},
	TagEconomy:    {"gain 1 resource", "gain resources", "resource"},
	TagMovement:   {"move to a connecting", "move to any"},
	TagSupport:    {"each investigator", "another investigator"},
	TagMitigation: {"cancel that", "cancel the", "reduce"},
}

var traitTags = map[string][]Tag{
	"guardian":  {TagCombat},
	"seeker":    {TagClue},
	"rogue":     {TagEconomy, TagEvade},
	"mystic":    {TagMitigation},
	"survivor":  {TagSoakDamage, TagSoakHorror},
	"ally":      {TagSupport},
	"tool":      {TagCombat},
	"spell":     {TagMitigation},
	"talent":    {TagSupport},
}

// Assign returns every capability tag a card qualifies for, based on
// its traits and text keywords; the card type is not consulted. A tag
// granted by either source is included.
func Assign(c model.Card) []Tag {
	seen := make(map[Tag]bool)

	for _, trait := range c.Traits {
		for _, tag := range traitTags[strings.ToLower(trait)] {
			seen[tag] = true
		}
	}

	lowerText := strings.ToLower(c.Text)
	for tag, keywords := range keywordTags {
		for _, kw := range keywords {
			if strings.Contains(lowerText, kw) {
				seen[tag] = true
				break
			}
		}
	}

	tags := make([]Tag, 0, len(seen))
	for _, tag := range All {
		if seen[tag] {
			tags = append(tags, tag)
		}
	}
	return tags
}
