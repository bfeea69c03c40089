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

package journal

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type journalMetrics struct {
	records     prometheus.Counter
	writeErrors prometheus.Counter
	lastSeq     prometheus.Gauge
}

func (j *Journal) initMetrics() {
	promautoFactory := promauto.With(j.config.PromRegistry)
	j.metrics = &journalMetrics{}
	j.metrics.records = promautoFactory.NewCounter(
		prometheus.CounterOpts{
			Name: "journal_records_total",
			Help: "total journal records written",
		},
	)
	j.metrics.writeErrors = promautoFactory.NewCounter(
		prometheus.CounterOpts{
			Name: "journal_write_errors_total",
			Help: "total journal records that failed to encode or persist",
		},
	)
	j.metrics.lastSeq = promautoFactory.NewGauge(
		prometheus.GaugeOpts{
			Name: "journal_last_seq",
			Help: "sequence number of the most recent journal record",
		},
	)
}
