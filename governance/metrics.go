// Copyright 2026 Blink Labs Software
//
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

package governance

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type governanceMetrics struct {
	proposalsCreated  prometheus.Counter
	proposalsExecuted *prometheus.CounterVec
	proposalsCanceled prometheus.Counter
	votesCast         prometheus.Counter
	delegations       prometheus.Gauge
	paused            prometheus.Gauge
}

func (g *Governance) initMetrics() {
	promautoFactory := promauto.With(g.config.PromRegistry)
	g.metrics = &governanceMetrics{}
	g.metrics.proposalsCreated = promautoFactory.NewCounter(
		prometheus.CounterOpts{
			Name: "governance_proposals_created_total",
			Help: "total proposals created",
		},
	)
	g.metrics.proposalsExecuted = promautoFactory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "governance_proposals_executed_total",
			Help: "total proposals executed by outcome",
		},
		[]string{"outcome"},
	)
	g.metrics.proposalsCanceled = promautoFactory.NewCounter(
		prometheus.CounterOpts{
			Name: "governance_proposals_canceled_total",
			Help: "total proposals canceled",
		},
	)
	g.metrics.votesCast = promautoFactory.NewCounter(
		prometheus.CounterOpts{
			Name: "governance_votes_cast_total",
			Help: "total ballots recorded",
		},
	)
	g.metrics.delegations = promautoFactory.NewGauge(
		prometheus.GaugeOpts{
			Name: "governance_delegations",
			Help: "current count of delegation edges",
		},
	)
	g.metrics.paused = promautoFactory.NewGauge(
		prometheus.GaugeOpts{
			Name: "governance_paused",
			Help: "1 when governance is paused",
		},
	)
}
