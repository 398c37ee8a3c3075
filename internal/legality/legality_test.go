package legality

import (
	"testing"

	"arkham/advisor/internal/model"
)

func roland() model.Investigator {
	return model.Investigator{
		Card: model.Card{Code: "01001", Name: "Roland Banks", Faction: model.FactionGuardian},
		Options: []model.DeckbuildingOption{
			{FactionSet: []model.Faction{model.FactionGuardian}, LevelMin: 0, LevelMax: 5, SlotKind: model.SlotUnlimited},
			{FactionSet: []model.Faction{model.FactionNeutral}, LevelMin: 0, LevelMax: 5, SlotKind: model.SlotUnlimited},
		},
		RequiredSignatures: []string{"01006"},
	}
}

func TestCheckDeniesWrongFaction(t *testing.T) {
	shrivelling := model.Card{Code: "01060", Faction: model.FactionMystic, Factions: []model.Faction{model.FactionMystic}, XPLevel: 0}
	d := Check(shrivelling, Params{Investigator: roland(), UpgradeXP: 5})
	if d.Verdict != model.VerdictDeny {
		t.Fatalf("expected deny, got %s (%s)", d.Verdict, d.Reason)
	}
}

func TestCheckAllowsSignature(t *testing.T) {
	sig := model.Card{Code: "01006", Faction: model.FactionGuardian}
	d := Check(sig, Params{Investigator: roland()})
	if d.Verdict != model.VerdictAllow {
		t.Fatalf("expected signature to be allowed, got %s", d.Verdict)
	}
}

func TestCheckDeniesExceptionalSecondCopy(t *testing.T) {
	card := model.Card{
		Code: "01020", Faction: model.FactionGuardian, Factions: []model.Faction{model.FactionGuardian},
		Flags: model.Flags{Exceptional: true},
	}
	d := Check(card, Params{Investigator: roland(), CopiesAlready: 1, UpgradeXP: 5})
	if d.Verdict != model.VerdictDeny || d.Reason != "Exceptional: max 1" {
		t.Fatalf("expected exceptional denial, got %s (%s)", d.Verdict, d.Reason)
	}
}

func TestCheckDeniesOverXPBudget(t *testing.T) {
	card := model.Card{Code: "01030", Faction: model.FactionGuardian, Factions: []model.Faction{model.FactionGuardian}, XPLevel: 3}
	d := Check(card, Params{Investigator: roland(), UpgradeXP: 1})
	if d.Verdict != model.VerdictDeny {
		t.Fatalf("expected XP denial, got %s", d.Verdict)
	}
}

func TestCheckUnknownWhenNoOptions(t *testing.T) {
	card := model.Card{Code: "01040", Faction: model.FactionGuardian}
	d := Check(card, Params{Investigator: model.Investigator{}})
	if d.Verdict != model.VerdictUnknown {
		t.Fatalf("expected unknown verdict, got %s", d.Verdict)
	}
}

func TestCheckDeniesTabooBannedCardUnderTabooMode(t *testing.T) {
	card := model.Card{
		Code: "01050", Faction: model.FactionGuardian, Factions: []model.Faction{model.FactionGuardian},
		Flags: model.Flags{TabooBanned: true},
	}
	d := Check(card, Params{Investigator: roland(), TabooMode: true, UpgradeXP: 5})
	if d.Verdict != model.VerdictDeny || d.Reason != "banned under the current taboo list" {
		t.Fatalf("expected taboo denial, got %s (%s)", d.Verdict, d.Reason)
	}
}

func TestCheckIgnoresTabooBanWhenTabooModeOff(t *testing.T) {
	card := model.Card{
		Code: "01050", Faction: model.FactionGuardian, Factions: []model.Faction{model.FactionGuardian},
		Flags: model.Flags{TabooBanned: true},
	}
	d := Check(card, Params{Investigator: roland(), TabooMode: false, UpgradeXP: 5})
	if d.Verdict != model.VerdictAllow {
		t.Fatalf("expected allow when taboo mode is off, got %s (%s)", d.Verdict, d.Reason)
	}
}
