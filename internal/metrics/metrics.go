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

// Package metrics exposes the core's Prometheus instrumentation as a
// registered collector set, not package-level globals, so multiple
// Advisor instances (e.g. in tests) never collide on registration.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Collector holds every metric the advisor emits.
type Collector struct {
	RequestsTotal    *prometheus.CounterVec
	RequestDuration  *prometheus.HistogramVec
	AgentDuration    *prometheus.HistogramVec
	AgentErrors      *prometheus.CounterVec
	SimulatorCacheHitRate prometheus.Gauge
}

// NewCollector builds and registers the collector set against reg. Pass
// prometheus.NewRegistry() in tests to avoid colliding with the
// default global registry.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		RequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "advisor_requests_total",
			Help: "Total number of advisory requests processed, by classification and outcome.",
		}, []string{"classification", "status"}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "advisor_request_duration_milliseconds",
			Help:    "Wall-clock duration of an Advise call in milliseconds.",
			Buckets: []float64{10, 50, 100, 250, 500, 1000, 2500, 5000, 10000, 45000},
		}, []string{"classification"}),
		AgentDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "advisor_agent_duration_milliseconds",
			Help:    "Per-subagent wall-clock duration in milliseconds.",
			Buckets: []float64{5, 20, 50, 100, 250, 500, 1000, 5000, 20000},
		}, []string{"agent"}),
		AgentErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "advisor_agent_errors_total",
			Help: "Total subagent failures, by agent and error kind.",
		}, []string{"agent", "kind"}),
		SimulatorCacheHitRate: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "advisor_simulator_cache_hit_rate",
			Help: "Rolling simulator report cache hit rate, updated per call.",
		}),
	}

	reg.MustRegister(c.RequestsTotal, c.RequestDuration, c.AgentDuration, c.AgentErrors, c.SimulatorCacheHitRate)
	return c
}
