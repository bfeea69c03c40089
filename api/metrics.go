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

package api

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type apiMetrics struct {
	responses *prometheus.CounterVec
}

func (a *Api) initMetrics() {
	promautoFactory := promauto.With(a.config.PromRegistry)
	a.metrics = &apiMetrics{}
	a.metrics.responses = promautoFactory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_responses_total",
			Help: "total API responses by status code",
		},
		[]string{"status"},
	)
}

func (a *Api) countResponse(status int) {
	if a.metrics != nil {
		a.metrics.responses.WithLabelValues(
			strconv.Itoa(status),
		).Inc()
	}
}
