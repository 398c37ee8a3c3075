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

import "arkham/advisor/internal/model"

const (
	agentRules       = "RulesAgent"
	agentState       = "StateAgent"
	agentActionSpace = "ActionSpaceAgent"
	agentScenario    = "ScenarioAgent"
)

// selectAgents produces the set of subagents to invoke for a given
// classification and request context, per spec §4.1's Select rules.
func selectAgents(class Classification, req model.Request) []string {
	switch class {
	case ClassRules:
		return []string{agentRules}
	case ClassAnalyze:
		agents := []string{agentState}
		if req.InvestigatorID == "" || req.UpgradeXP > 0 {
			agents = append(agents, agentRules)
		}
		return agents
	case ClassSearch:
		agents := []string{agentState, agentActionSpace}
		if req.ScenarioName != "" {
			agents = append(agents, agentScenario)
		}
		return agents
	case ClassScenario:
		agents := []string{agentScenario}
		if req.Deck != nil {
			agents = append(agents, agentState)
		}
		return agents
	case ClassBuild:
		agents := []string{agentRules, agentActionSpace, agentState}
		if req.ScenarioName != "" {
			agents = append(agents, agentScenario)
		}
		return agents
	default: // general
		return []string{agentRules}
	}
}
