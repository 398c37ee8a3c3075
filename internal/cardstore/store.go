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

// Package cardstore is the Postgres-backed repository for card and
// investigator reference data: get_card, search_cards and the
// investigator lookups the rules and action-space agents depend on.
package cardstore

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"

	"arkham/advisor/internal/advisorerrors"
	"arkham/advisor/internal/model"
)

// Store wraps a pooled Postgres connection.
type Store struct {
	db *sql.DB
}

// Config configures the connection pool.
type Config struct {
	ConnectionURL   string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// Open dials Postgres and verifies reachability with a ping, mirroring
// the pool-sizing discipline used for every pooled connection in this
// codebase: bounded open/idle counts and a bounded connection lifetime.
func Open(ctx context.Context, cfg Config) (*Store, error) {
	db, err := sql.Open("postgres", cfg.ConnectionURL)
	if err != nil {
		return nil, advisorerrors.Wrap(advisorerrors.KindDependencyUnavailable, "cardstore: open failed", err)
	}

	maxOpen := cfg.MaxOpenConns
	if maxOpen <= 0 {
		maxOpen = 25
	}
	maxIdle := cfg.MaxIdleConns
	if maxIdle <= 0 {
		maxIdle = 5
	}
	lifetime := cfg.ConnMaxLifetime
	if lifetime <= 0 {
		lifetime = 5 * time.Minute
	}

	db.SetMaxOpenConns(maxOpen)
	db.SetMaxIdleConns(maxIdle)
	db.SetConnMaxLifetime(lifetime)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		return nil, advisorerrors.Wrap(advisorerrors.KindDependencyUnavailable, "cardstore: ping failed", err)
	}

	return &Store{db: db}, nil
}

// Close releases the pool.
func (s *Store) Close() error { return s.db.Close() }

// HealthCheck verifies the pool is still reachable.
func (s *Store) HealthCheck(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// GetCard fetches a single card by its canonical code.
func (s *Store) GetCard(ctx context.Context, code string) (model.Card, error) {
	const q = `SELECT code, name, primary_faction, factions, card_type, subtype,
		traits, willpower, intellect, combat, agility, wild_icons, cost,
		xp_level, exceptional, permanent, myriad, fast, unique_card,
		bonded_to, taboo_banned, card_text, source_pack
		FROM cards WHERE code = $1`

	row := s.db.QueryRowContext(ctx, q, code)
	card, err := scanCard(row)
	if err == sql.ErrNoRows {
		return model.Card{}, advisorerrors.New(advisorerrors.KindNotFound, fmt.Sprintf("card %q not found", code))
	}
	if err != nil {
		return model.Card{}, advisorerrors.Wrap(advisorerrors.KindDependencyUnavailable, "cardstore: get_card failed", err)
	}
	return card, nil
}

// SearchFilters narrows SearchCards. SearchCards applies Factions,
// TraitLike and MaxXPLevel; Types and OwnedPacks are not applied.
type SearchFilters struct {
	Factions    []model.Faction
	Types       []model.CardType
	TraitLike   string
	MaxXPLevel  int
	OwnedPacks  []string
	Limit       int
}

// SearchCards returns cards matching the Factions, TraitLike and
// MaxXPLevel filters, ordered by code for stable pagination.
func (s *Store) SearchCards(ctx context.Context, f SearchFilters) ([]model.Card, error) {
	limit := f.Limit
	if limit <= 0 || limit > 500 {
		limit = 200
	}

	var b strings.Builder
	b.WriteString(`SELECT code, name, primary_faction, factions, card_type, subtype,
		traits, willpower, intellect, combat, agility, wild_icons, cost,
		xp_level, exceptional, permanent, myriad, fast, unique_card,
		bonded_to, taboo_banned, card_text, source_pack FROM cards WHERE 1=1`)

	args := []interface{}{}
	argN := 1

	if len(f.Factions) > 0 {
		ors := make([]string, len(f.Factions))
		for i, fac := range f.Factions {
			ors[i] = fmt.Sprintf("factions ILIKE $%d", argN)
			args = append(args, "%"+string(fac)+"%")
			argN++
		}
		b.WriteString(" AND (" + strings.Join(ors, " OR ") + ")")
	}
	if f.TraitLike != "" {
		b.WriteString(fmt.Sprintf(" AND traits ILIKE $%d", argN))
		args = append(args, "%"+f.TraitLike+"%")
		argN++
	}
	if f.MaxXPLevel > 0 {
		b.WriteString(fmt.Sprintf(" AND xp_level <= $%d", argN))
		args = append(args, f.MaxXPLevel)
		argN++
	}
	b.WriteString(fmt.Sprintf(" ORDER BY code LIMIT $%d", argN))
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, b.String(), args...)
	if err != nil {
		return nil, advisorerrors.Wrap(advisorerrors.KindDependencyUnavailable, "cardstore: search_cards failed", err)
	}
	defer rows.Close()

	var out []model.Card
	for rows.Next() {
		card, err := scanCard(rows)
		if err != nil {
			return nil, advisorerrors.Wrap(advisorerrors.KindInternal, "cardstore: scan failed", err)
		}
		out = append(out, card)
	}
	return out, rows.Err()
}

// FindCardByNameInText returns the longest card name that appears as a
// substring of text, for resolving a card mentioned in a free-text
// question (e.g. "Can Roland Banks include Shrivelling?") when no deck
// is supplied. Reports found=false when no card name matches.
func (s *Store) FindCardByNameInText(ctx context.Context, text string) (card model.Card, found bool, err error) {
	const q = `SELECT code, name, primary_faction, factions, card_type, subtype,
		traits, willpower, intellect, combat, agility, wild_icons, cost,
		xp_level, exceptional, permanent, myriad, fast, unique_card,
		bonded_to, taboo_banned, card_text, source_pack
		FROM cards
		WHERE card_type <> 'investigator' AND strpos(lower($1), lower(name)) > 0
		ORDER BY length(name) DESC
		LIMIT 1`

	row := s.db.QueryRowContext(ctx, q, text)
	card, err = scanCard(row)
	if err == sql.ErrNoRows {
		return model.Card{}, false, nil
	}
	if err != nil {
		return model.Card{}, false, advisorerrors.Wrap(advisorerrors.KindDependencyUnavailable, "cardstore: find_card_by_name failed", err)
	}
	return card, true, nil
}

// GetInvestigator fetches a single investigator by code.
func (s *Store) GetInvestigator(ctx context.Context, code string) (model.Investigator, error) {
	const q = `SELECT code, name, primary_faction, factions, willpower, intellect,
		combat, agility, health, sanity, deck_size, required_signatures,
		random_weakness_count, card_text FROM investigators WHERE code = $1`

	row := s.db.QueryRowContext(ctx, q, code)
	var inv model.Investigator
	var factionsRaw, sigsRaw string
	var text sql.NullString
	err := row.Scan(&inv.Code, &inv.Name, &inv.Faction, &factionsRaw,
		&inv.BaseSkills.Willpower, &inv.BaseSkills.Intellect, &inv.BaseSkills.Combat, &inv.BaseSkills.Agility,
		&inv.Health, &inv.Sanity, &inv.DeckSize, &sigsRaw, &inv.RandomWeaknessCount, &text)
	if err == sql.ErrNoRows {
		return model.Investigator{}, advisorerrors.New(advisorerrors.KindNotFound, fmt.Sprintf("investigator %q not found", code))
	}
	if err != nil {
		return model.Investigator{}, advisorerrors.Wrap(advisorerrors.KindDependencyUnavailable, "cardstore: get_investigator failed", err)
	}
	inv.Factions = splitFactions(factionsRaw)
	if sigsRaw != "" {
		inv.RequiredSignatures = strings.Split(sigsRaw, ",")
	}
	inv.Text = text.String
	return inv, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanCard(row rowScanner) (model.Card, error) {
	var c model.Card
	var factionsRaw, traits, subtype, bondedTo, text, pack sql.NullString
	var cost sql.NullInt64

	err := row.Scan(&c.Code, &c.Name, &c.Faction, &factionsRaw, &c.Type, &subtype,
		&traits, &c.Icons.Willpower, &c.Icons.Intellect, &c.Icons.Combat, &c.Icons.Agility, &c.Icons.Wild,
		&cost, &c.XPLevel, &c.Flags.Exceptional, &c.Flags.Permanent, &c.Flags.Myriad, &c.Flags.Fast,
		&c.Flags.Unique, &bondedTo, &c.Flags.TabooBanned, &text, &pack)
	if err != nil {
		return model.Card{}, err
	}

	c.Factions = splitFactions(factionsRaw.String)
	c.Subtype = subtype.String
	c.Flags.BondedTo = bondedTo.String
	c.Text = text.String
	c.SourcePack = pack.String
	if traits.Valid && traits.String != "" {
		c.Traits = strings.Split(traits.String, ",")
	}
	if cost.Valid {
		v := int(cost.Int64)
		c.Cost = &v
	}
	return c, nil
}

func splitFactions(raw string) []model.Faction {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]model.Faction, len(parts))
	for i, p := range parts {
		out[i] = model.Faction(strings.TrimSpace(p))
	}
	return out
}
