package capability

import (
	"testing"

	"arkham/advisor/internal/model"
)

func hasTag(tags []Tag, want Tag) bool {
	for _, t := range tags {
		if t == want {
			return true
		}
	}
	return false
}

func TestAssignTextKeyword(t *testing.T) {
	card := model.Card{Text: "Investigate. If you succeed, discover 1 clue at your location."}
	tags := Assign(card)
	if !hasTag(tags, TagClue) {
		t.Fatalf("expected clue tag, got %v", tags)
	}
}

func TestAssignTraitBased(t *testing.T) {
	card := model.Card{Traits: []string{"Ally"}}
	tags := Assign(card)
	if !hasTag(tags, TagSupport) {
		t.Fatalf("expected support tag from Ally trait, got %v", tags)
	}
}

func TestAssignNoMatch(t *testing.T) {
	card := model.Card{Text: "Flavor text only."}
	if tags := Assign(card); len(tags) != 0 {
		t.Fatalf("expected no tags, got %v", tags)
	}
}
