package model

import "testing"

func TestDeckbuildingOptionAdmitsFactionAndLevel(t *testing.T) {
	opt := DeckbuildingOption{
		FactionSet: []Faction{FactionGuardian},
		LevelMin:   0,
		LevelMax:   5,
		SlotKind:   SlotUnlimited,
	}

	card := Card{
		Code:     "01060",
		Faction:  FactionMystic,
		Factions: []Faction{FactionMystic},
		XPLevel:  0,
	}

	if opt.Admits(card) {
		t.Fatalf("a Mystic card should not be admitted by a Guardian-only option")
	}

	guardianCard := Card{Code: "01006", Faction: FactionGuardian, Factions: []Faction{FactionGuardian}, XPLevel: 0}
	if !opt.Admits(guardianCard) {
		t.Fatalf("expected Guardian card to be admitted")
	}
}

func TestDeckbuildingOptionLevelCap(t *testing.T) {
	opt := DeckbuildingOption{FactionSet: []Faction{FactionGuardian}, LevelMin: 0, LevelMax: 2}
	highLevel := Card{Faction: FactionGuardian, Factions: []Faction{FactionGuardian}, XPLevel: 4}

	if opt.Admits(highLevel) {
		t.Fatalf("expected level 4 card to be rejected by a level-0-2 option")
	}
}

func TestMultiClassCardQualifiesOnAnyFaction(t *testing.T) {
	card := Card{
		Faction:  FactionMulti,
		Factions: []Faction{FactionGuardian, FactionSeeker},
	}
	if !card.QualifiesForFaction(FactionSeeker) {
		t.Fatalf("expected multi-class card to qualify for Seeker")
	}
	if card.QualifiesForFaction(FactionRogue) {
		t.Fatalf("did not expect Rogue qualification")
	}
}
