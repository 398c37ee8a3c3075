package model

import "testing"

func TestDeckContentHashIgnoresOrderAndMergesDuplicates(t *testing.T) {
	a := Deck{
		InvestigatorCode: "01001",
		Cards: []DeckCard{
			{Code: "01006", Count: 1},
			{Code: "01006", Count: 1},
			{Code: "01016", Count: 2},
		},
	}
	b := Deck{
		InvestigatorCode: "01001",
		Cards: []DeckCard{
			{Code: "01016", Count: 2},
			{Code: "01006", Count: 2},
		},
	}

	if a.ContentHash() != b.ContentHash() {
		t.Fatalf("expected equal hashes for equivalent multisets, got %s vs %s", a.ContentHash(), b.ContentHash())
	}
}

func TestDeckContentHashChangesWithContent(t *testing.T) {
	a := Deck{InvestigatorCode: "01001", Cards: []DeckCard{{Code: "01006", Count: 2}}}
	c := Deck{InvestigatorCode: "01001", Cards: []DeckCard{{Code: "01006", Count: 3}}}

	if a.ContentHash() == c.ContentHash() {
		t.Fatalf("expected different hashes for different counts")
	}
}

func TestNormalizedMergesDuplicateCodes(t *testing.T) {
	d := Deck{Cards: []DeckCard{{Code: "x", Count: 1}, {Code: "x", Count: 2}, {Code: "y", Count: 1}}}
	norm := d.Normalized()

	if norm.TotalCount() != 4 {
		t.Fatalf("expected total 4, got %d", norm.TotalCount())
	}
	if len(norm.Cards) != 2 {
		t.Fatalf("expected 2 distinct cards, got %d", len(norm.Cards))
	}
}
