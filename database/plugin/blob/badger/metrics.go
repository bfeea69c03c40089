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

package badger

import "github.com/prometheus/client_golang/prometheus"

// Size gauges poll badger directly, so there is nothing to update on the
// hot path.
func (d *BlobStoreBadger) registerBlobMetrics() {
	lsmSize := prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "database_blob_lsm_size_bytes",
			Help: "Size of the badger LSM tree in bytes",
		},
		func() float64 {
			lsm, _ := d.db.Size()
			return float64(lsm)
		},
	)
	vlogSize := prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "database_blob_vlog_size_bytes",
			Help: "Size of the badger value log in bytes",
		},
		func() float64 {
			_, vlog := d.db.Size()
			return float64(vlog)
		},
	)
	d.promRegistry.MustRegister(lsmSize, vlogSize)
}
