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

package subagent

import "arkham/advisor/internal/model"

// Bounded starts from base, adds delta, and clips the result to
// [0, cap] (cap itself clipped to 1). Every concrete agent's
// confidence formula is base + a handful of additive terms bounded by
// a cap of at most 1.0, so this one helper expresses all of them.
func Bounded(base, delta, cap float64) float64 {
	if cap > 1 {
		cap = 1
	}
	v := base + delta
	if v > cap {
		v = cap
	}
	return model.ClampConfidence(v)
}

// SublinearBonus returns a diminishing-returns bonus for n occurrences
// (retrieval hits, deterministic decisions, ...): perItem for the
// first, halving thereafter, capped at maxBonus.
func SublinearBonus(n int, perItem, maxBonus float64) float64 {
	bonus := 0.0
	increment := perItem
	for i := 0; i < n; i++ {
		bonus += increment
		increment /= 2
		if bonus >= maxBonus {
			return maxBonus
		}
	}
	return bonus
}
