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
	"fmt"
	"sort"
)

// KeyCardStat is per-key-card reliability across all trials.
type KeyCardStat struct {
	Code               string  `json:"code"`
	ProbabilityOpening float64 `json:"probability_in_opening_hand"`
	ProbabilityTurn3   float64 `json:"probability_by_turn_3"`
	AverageDrawTurn    float64 `json:"average_draw_turn"`
}

// Report is the immutable SimulationReport produced for one (deck,
// config) pair.
type Report struct {
	NTrials            int                    `json:"n_trials"`
	AverageSetupTurn   float64                `json:"average_setup_turn"`
	SuccessRate        float64                `json:"success_rate"`
	MulliganRate       float64                `json:"mulligan_rate"`
	ResourceEfficiency float64                `json:"resource_efficiency"`
	CostCurve          map[string]int         `json:"cost_curve"`
	KeyCards           map[string]KeyCardStat `json:"key_cards"`
	Warnings           []string               `json:"warnings"`
}

// accumulator folds per-trial results into running totals. It never
// holds more than O(targets) + O(turns) state regardless of trial
// count, so NTrials scales without memory growth.
type accumulator struct {
	targets []string
	turns   int

	trials          int
	setupTurnSum    int
	setupTurnCount  int
	succeeded       int
	mulliganed      int
	resourcesSpent  int
	resourcesGained int
	costCurve       map[string]int

	openingHits map[string]int
	byTurn3Hits map[string]int
	drawTurnSum map[string]int
	drawTurnHit map[string]int
}

func newAccumulator(targets []string, turns int) *accumulator {
	acc := &accumulator{
		targets:     targets,
		turns:       turns,
		costCurve:   map[string]int{},
		openingHits: map[string]int{},
		byTurn3Hits: map[string]int{},
		drawTurnSum: map[string]int{},
		drawTurnHit: map[string]int{},
	}
	for _, t := range targets {
		acc.openingHits[t] = 0
		acc.byTurn3Hits[t] = 0
		acc.drawTurnSum[t] = 0
		acc.drawTurnHit[t] = 0
	}
	return acc
}

func (a *accumulator) add(r trialResult) {
	a.trials++
	if r.setupTurn < a.turns+1 {
		a.setupTurnSum += r.setupTurn
		a.setupTurnCount++
	}
	if r.succeeded {
		a.succeeded++
	}
	if r.mulliganed {
		a.mulliganed++
	}
	for _, c := range r.playedCosts {
		a.resourcesSpent += c
		a.costCurve[costBin(c)]++
	}
	a.resourcesGained += a.turns

	for _, t := range a.targets {
		if r.keyInOpening[t] {
			a.openingHits[t]++
		}
		if d, ok := r.keyDrawTurn[t]; ok && d >= 0 {
			if d <= 3 {
				a.byTurn3Hits[t]++
			}
			a.drawTurnSum[t] += d
			a.drawTurnHit[t]++
		}
	}
}

func (a *accumulator) report(cfg Config, poolSize int) Report {
	rep := Report{
		NTrials:   a.trials,
		CostCurve: a.costCurve,
		KeyCards:  map[string]KeyCardStat{},
	}
	if a.trials == 0 {
		return rep
	}

	if a.setupTurnCount > 0 {
		rep.AverageSetupTurn = float64(a.setupTurnSum) / float64(a.setupTurnCount)
	}
	rep.SuccessRate = float64(a.succeeded) / float64(a.trials)
	rep.MulliganRate = float64(a.mulliganed) / float64(a.trials)
	if a.resourcesGained > 0 {
		rep.ResourceEfficiency = float64(a.resourcesSpent) / float64(a.resourcesGained)
	}

	for _, t := range a.targets {
		stat := KeyCardStat{
			Code:               t,
			ProbabilityOpening: float64(a.openingHits[t]) / float64(a.trials),
			ProbabilityTurn3:   float64(a.byTurn3Hits[t]) / float64(a.trials),
		}
		if a.drawTurnHit[t] > 0 {
			stat.AverageDrawTurn = float64(a.drawTurnSum[t]) / float64(a.drawTurnHit[t])
		}
		rep.KeyCards[t] = stat
	}

	rep.Warnings = warnings(rep, poolSize)
	return rep
}

func costBin(cost int) string {
	switch {
	case cost <= 0:
		return "0"
	case cost == 1:
		return "1"
	case cost == 2:
		return "2"
	case cost == 3:
		return "3"
	case cost == 4:
		return "4"
	default:
		return "5+"
	}
}

func warnings(rep Report, poolSize int) []string {
	var out []string
	if poolSize < 30 {
		out = append(out, "insufficient deck size")
	}
	if rep.AverageSetupTurn > 3.5 {
		out = append(out, "slow setup")
	}
	if rep.NTrials > 0 && rep.SuccessRate < 0.5 {
		out = append(out, "low consistency")
	}
	names := make([]string, 0, len(rep.KeyCards))
	for name := range rep.KeyCards {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if rep.KeyCards[name].ProbabilityTurn3 < 0.5 {
			out = append(out, fmt.Sprintf("unreliable key card %s", name))
		}
	}
	return out
}

// emptyReport handles n_trials == 0 and empty-deck boundary cases: a
// well-formed, NaN-free, zero-value report with no crash.
func emptyReport(cfg Config, pool []drawable) Report {
	rep := Report{
		NTrials:   0,
		CostCurve: map[string]int{},
		KeyCards:  map[string]KeyCardStat{},
	}
	for _, t := range cfg.TargetCards {
		rep.KeyCards[t] = KeyCardStat{Code: t}
	}
	if len(pool) < 30 {
		rep.Warnings = append(rep.Warnings, "insufficient deck size")
	}
	return rep
}
