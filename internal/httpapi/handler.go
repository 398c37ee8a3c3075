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

// Package httpapi is the thin external seam in front of the
// orchestrator: one /v1/advise handler plus /healthz and /metrics for
// operability. No deckbuilding logic lives here — it only marshals
// HTTP requests into model.Request and AdvisorResponse back out,
// mirroring the teacher's run.go route registration, CORS wrapping,
// and Prometheus handler mounting.
package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"

	"arkham/advisor/internal/model"
	"arkham/advisor/internal/orchestrator"
)

// adviseRequest is the wire shape accepted by POST /v1/advise.
type adviseRequest struct {
	Message          string            `json:"message"`
	InvestigatorID   string            `json:"investigator_id"`
	InvestigatorName string            `json:"investigator_name"`
	DeckID           string            `json:"deck_id"`
	Deck             *model.Deck       `json:"deck,omitempty"`
	ScenarioName     string            `json:"scenario_name"`
	CampaignName     string            `json:"campaign_name"`
	UpgradeXP        int               `json:"upgrade_xp"`
	OwnedSets        []string          `json:"owned_sets"`
	TabooMode        bool              `json:"taboo_mode"`
	PlayerCount      int               `json:"player_count"`
	MulliganStrategy model.MulliganStrategy `json:"mulligan_strategy"`
}

// Server wires the Advisor behind gorilla/mux, CORS, and a Prometheus
// scrape endpoint.
type Server struct {
	Advisor  *orchestrator.Advisor
	Registry *prometheus.Registry // optional; falls back to the default registerer when nil
}

// NewRouter builds the full mux.Router for the advisor HTTP surface.
func (s *Server) NewRouter() http.Handler {
	r := mux.NewRouter()

	metricsHandler := promhttp.Handler()
	if s.Registry != nil {
		metricsHandler = promhttp.HandlerFor(s.Registry, promhttp.HandlerOpts{})
	}

	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	r.Handle("/metrics", metricsHandler).Methods(http.MethodGet)
	r.HandleFunc("/v1/advise", s.handleAdvise).Methods(http.MethodPost)

	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{http.MethodGet, http.MethodPost},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})
	return c.Handler(r)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if s.Advisor.IsHealthy(ctx) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
		return
	}
	w.WriteHeader(http.StatusServiceUnavailable)
	_, _ = w.Write([]byte(`{"status":"degraded"}`))
}

func (s *Server) handleAdvise(w http.ResponseWriter, r *http.Request) {
	var body adviseRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if body.Message == "" {
		http.Error(w, "message is required", http.StatusBadRequest)
		return
	}

	req := model.Request{
		Message:          body.Message,
		InvestigatorID:   body.InvestigatorID,
		InvestigatorName: body.InvestigatorName,
		DeckID:           body.DeckID,
		Deck:             body.Deck,
		ScenarioName:     body.ScenarioName,
		CampaignName:     body.CampaignName,
		UpgradeXP:        body.UpgradeXP,
		OwnedSets:        body.OwnedSets,
		TabooMode:        body.TabooMode,
		PlayerCount:      body.PlayerCount,
		MulliganStrategy: body.MulliganStrategy,
	}

	resp, err := s.Advisor.Advise(r.Context(), req)
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}
