package subagent

import "testing"

func TestBoundedClipsToCap(t *testing.T) {
	if got := Bounded(0.7, 0.5, 0.95); got != 0.95 {
		t.Fatalf("expected cap at 0.95, got %f", got)
	}
}

func TestBoundedClipsToOne(t *testing.T) {
	if got := Bounded(0.9, 0.5, 1.2); got != 1.0 {
		t.Fatalf("expected clip to 1.0, got %f", got)
	}
}

func TestSublinearBonusCapsOut(t *testing.T) {
	if got := SublinearBonus(10, 0.2, 0.3); got != 0.3 {
		t.Fatalf("expected cap at 0.3, got %f", got)
	}
}

func TestSublinearBonusZeroHits(t *testing.T) {
	if got := SublinearBonus(0, 0.1, 0.3); got != 0 {
		t.Fatalf("expected 0 for zero hits, got %f", got)
	}
}
