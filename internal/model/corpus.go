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

package model

// CorpusChunk is an addressable, read-only slice of a domain document:
// a rules-reference section, a meta-doctrine note, or a scenario entry.
type CorpusChunk struct {
	SourceID    string    `json:"source_id"`
	SectionPath string    `json:"section_path"`
	Text        string    `json:"text"`
	Embedding   []float32 `json:"embedding,omitempty"`
	Score       float64   `json:"score,omitempty"` // set by retrieval, not persisted
}

// CorpusFilters narrows a retrieval call, e.g. to an investigator's own
// rules section or a specific scenario's notes.
type CorpusFilters struct {
	SourceIDs        []string
	InvestigatorCode string
	ScenarioName     string
	Limit            int
}
