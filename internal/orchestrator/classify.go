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

package orchestrator

import (
	"strings"

	"arkham/advisor/internal/model"
)

// keywordClasses is checked in the fixed priority order below:
// build-deck > scenario > search > analyze > rules > general.
var keywordClasses = []struct {
	class    Classification
	keywords []string
}{
	{ClassBuild, []string{"build", "new deck", "starter"}},
	{ClassScenario, []string{"scenario", "prepare", "threats"}},
	{ClassSearch, []string{"find", "recommend", "suggest", "upgrade"}},
	{ClassAnalyze, []string{"analyze", "gaps", "curve", "balance"}},
	{ClassRules, []string{"legal", "include", "taboo", "allowed"}},
}

// classify maps a request to its primary query type. Structured-field
// hints are checked first, then the keyword table, then a
// fixed-priority fallback; classification never refuses silently.
func classify(req model.Request) Classification {
	if req.ScenarioName != "" {
		return ClassScenario
	}
	if req.UpgradeXP > 0 {
		return ClassSearch
	}

	lower := strings.ToLower(req.Message)
	for _, entry := range keywordClasses {
		for _, kw := range entry.keywords {
			if strings.Contains(lower, kw) {
				return entry.class
			}
		}
	}
	return ClassGeneral
}
