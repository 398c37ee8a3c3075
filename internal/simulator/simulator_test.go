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
	"reflect"
	"testing"

	"arkham/advisor/internal/model"
)

func sampleDeck() model.Deck {
	cards := []model.DeckCard{
		{Code: "key1", Count: 2},
	}
	for i := 0; i < 28; i++ {
		cards = append(cards, model.DeckCard{Code: "filler" + string(rune('a'+i%26)) + string(rune('0'+i/26)), Count: 1})
	}
	return model.Deck{InvestigatorCode: "01001", Cards: cards}
}

func sampleResolver() func(code string) (model.Card, bool) {
	cost1 := 1
	cost2 := 2
	return func(code string) (model.Card, bool) {
		if code == "key1" {
			return model.Card{Code: "key1", Name: "Key Asset", Type: model.CardTypeAsset, Cost: &cost2}, true
		}
		return model.Card{Code: code, Name: code, Type: model.CardTypeAsset, Cost: &cost1}, true
	}
}

func TestSimulateIsDeterministic(t *testing.T) {
	deck := sampleDeck()
	cfg := Config{NTrials: 200, Turns: 5, MulliganStrategy: model.MulliganAggressive, TargetCards: []string{"key1"}, Seed: 42}

	r1 := Simulate(deck, nil, cfg, sampleResolver())
	r2 := Simulate(deck, nil, cfg, sampleResolver())

	if !reflect.DeepEqual(r1, r2) {
		t.Fatalf("expected bit-equal reports for the same seed, got %+v vs %+v", r1, r2)
	}
	if r1.NTrials != 200 {
		t.Fatalf("expected 200 trials, got %d", r1.NTrials)
	}
}

func TestSimulateZeroTrialsIsWellFormed(t *testing.T) {
	deck := sampleDeck()
	cfg := Config{NTrials: 0, Turns: 5, TargetCards: []string{"key1"}}

	r := Simulate(deck, nil, cfg, sampleResolver())

	if r.NTrials != 0 {
		t.Fatalf("expected 0 trials, got %d", r.NTrials)
	}
	if r.SuccessRate != 0 || r.AverageSetupTurn != 0 || r.ResourceEfficiency != 0 {
		t.Fatalf("expected all-zero aggregate metrics for a zero-trial report, got %+v", r)
	}
	if len(r.CostCurve) != 0 {
		t.Fatalf("expected an empty cost curve, got %+v", r.CostCurve)
	}
	stat, ok := r.KeyCards["key1"]
	if !ok || stat.ProbabilityOpening != 0 || stat.ProbabilityTurn3 != 0 || stat.AverageDrawTurn != 0 {
		t.Fatalf("expected zero-value key card stats, got %+v", stat)
	}
}

func TestSimulateEmptyDeckWarnsAndDoesNotCrash(t *testing.T) {
	deck := model.Deck{InvestigatorCode: "01001"}
	cfg := Config{NTrials: 1000, Turns: 5, TargetCards: []string{"key1"}, Seed: 1}

	r := Simulate(deck, nil, cfg, sampleResolver())

	if r.SuccessRate != 0 {
		t.Fatalf("expected success rate 0 for an empty deck, got %f", r.SuccessRate)
	}
	found := false
	for _, w := range r.Warnings {
		if w == "insufficient deck size" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected an 'insufficient deck size' warning, got %v", r.Warnings)
	}
	stat := r.KeyCards["key1"]
	if stat.ProbabilityOpening != 0 || stat.ProbabilityTurn3 != 0 || stat.AverageDrawTurn != 0 {
		t.Fatalf("expected all key-card stats to be zero, got %+v", stat)
	}
}

func TestSuccessRequiresTwoPlayableOpeningHandCards(t *testing.T) {
	cost0 := 0
	cost4 := 4
	resolveOneCheapCard := func(code string) (model.Card, bool) {
		if code == "cheap" {
			return model.Card{Code: "cheap", Name: "Cheap", Type: model.CardTypeAsset, Cost: &cost0}, true
		}
		return model.Card{Code: code, Name: code, Type: model.CardTypeAsset, Cost: &cost4}, true
	}

	cards := []model.DeckCard{{Code: "cheap", Count: 1}}
	for i := 0; i < 29; i++ {
		cards = append(cards, model.DeckCard{Code: "filler" + string(rune('a'+i%26)) + string(rune('0'+i/26)), Count: 1})
	}
	deck := model.Deck{InvestigatorCode: "01001", Cards: cards}

	cfg := Config{NTrials: 500, Turns: 5, MulliganStrategy: model.MulliganConservative, Seed: 7}
	r := Simulate(deck, nil, cfg, resolveOneCheapCard)

	if r.SuccessRate != 0 {
		t.Fatalf("expected a zero success rate when no hand ever has 2 playable-by-turn-2 cards, got %f", r.SuccessRate)
	}
}

func TestWarningsFireOnThresholds(t *testing.T) {
	rep := Report{
		NTrials:          10,
		AverageSetupTurn: 4.0,
		SuccessRate:      0.2,
		KeyCards: map[string]KeyCardStat{
			"key1": {Code: "key1", ProbabilityTurn3: 0.1},
		},
	}
	w := warnings(rep, 30)
	want := map[string]bool{"slow setup": true, "low consistency": true, "unreliable key card key1": true}
	for _, got := range w {
		if !want[got] {
			t.Fatalf("unexpected warning %q", got)
		}
		delete(want, got)
	}
	if len(want) != 0 {
		t.Fatalf("missing expected warnings: %v", want)
	}
}
