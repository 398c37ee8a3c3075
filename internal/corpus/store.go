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

// Package corpus is the Postgres-backed repository for rules-reference
// and scenario-doctrine text: lexical_search (ts_vector) and
// semantic_search (embedding cosine similarity) as used by the rules
// and scenario subagents.
package corpus

import (
	"context"
	"database/sql"
	"math"
	"sort"

	_ "github.com/lib/pq"

	"arkham/advisor/internal/advisorerrors"
	"arkham/advisor/internal/model"
)

// Store wraps a pooled Postgres connection holding the rules and
// scenario text chunks.
type Store struct {
	db *sql.DB
}

// New adopts an already-open pool; the cardstore package owns dialing
// and pool sizing, since both repositories share one database.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// LexicalSearch runs a full-text query over corpus_chunks.text and
// returns the top matches ranked by Postgres's ts_rank.
func (s *Store) LexicalSearch(ctx context.Context, query string, f model.CorpusFilters) ([]model.CorpusChunk, error) {
	limit := f.Limit
	if limit <= 0 || limit > 50 {
		limit = 10
	}

	const q = `SELECT source_id, section_path, text,
		ts_rank(search_vector, plainto_tsquery('english', $1)) AS score
		FROM corpus_chunks
		WHERE search_vector @@ plainto_tsquery('english', $1)
		AND ($2 = '' OR investigator_code = $2)
		AND ($3 = '' OR scenario_name = $3)
		ORDER BY score DESC LIMIT $4`

	rows, err := s.db.QueryContext(ctx, q, query, f.InvestigatorCode, f.ScenarioName, limit)
	if err != nil {
		return nil, advisorerrors.Wrap(advisorerrors.KindDependencyUnavailable, "corpus: lexical_search failed", err)
	}
	defer rows.Close()

	var out []model.CorpusChunk
	for rows.Next() {
		var c model.CorpusChunk
		if err := rows.Scan(&c.SourceID, &c.SectionPath, &c.Text, &c.Score); err != nil {
			return nil, advisorerrors.Wrap(advisorerrors.KindInternal, "corpus: scan failed", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// SemanticSearch scores every candidate chunk (optionally pre-narrowed
// by filters) against queryEmbedding with cosine similarity. Cosine
// similarity is computed in application code rather than a pgvector
// operator, since the corpus is small enough that this never becomes
// the bottleneck and it keeps the schema independent of any one
// vector extension.
func (s *Store) SemanticSearch(ctx context.Context, queryEmbedding []float32, f model.CorpusFilters) ([]model.CorpusChunk, error) {
	limit := f.Limit
	if limit <= 0 || limit > 50 {
		limit = 10
	}

	const q = `SELECT source_id, section_path, text, embedding
		FROM corpus_chunks
		WHERE ($1 = '' OR investigator_code = $1)
		AND ($2 = '' OR scenario_name = $2)`

	rows, err := s.db.QueryContext(ctx, q, f.InvestigatorCode, f.ScenarioName)
	if err != nil {
		return nil, advisorerrors.Wrap(advisorerrors.KindDependencyUnavailable, "corpus: semantic_search failed", err)
	}
	defer rows.Close()

	var candidates []model.CorpusChunk
	for rows.Next() {
		var c model.CorpusChunk
		var embedding []byte
		if err := rows.Scan(&c.SourceID, &c.SectionPath, &c.Text, &embedding); err != nil {
			return nil, advisorerrors.Wrap(advisorerrors.KindInternal, "corpus: scan failed", err)
		}
		c.Embedding = decodeEmbedding(embedding)
		c.Score = cosineSimilarity(queryEmbedding, c.Embedding)
		candidates = append(candidates, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	sort.Slice(candidates, func(i, j int) bool { return candidates[i].Score > candidates[j].Score })
	if len(candidates) > limit {
		candidates = candidates[:limit]
	}
	return candidates, nil
}

func cosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// decodeEmbedding reads a little-endian float32 vector stored as raw
// bytes (four bytes per dimension).
func decodeEmbedding(raw []byte) []float32 {
	n := len(raw) / 4
	out := make([]float32, n)
	for i := 0; i < n; i++ {
		bits := uint32(raw[i*4]) | uint32(raw[i*4+1])<<8 | uint32(raw[i*4+2])<<16 | uint32(raw[i*4+3])<<24
		out[i] = math.Float32frombits(bits)
	}
	return out
}
