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

package aws

import "github.com/prometheus/client_golang/prometheus"

// blobMetrics counters stay nil unless a registry was configured.
type blobMetrics struct {
	ops   prometheus.Counter
	bytes prometheus.Counter
}

func (d *BlobStoreS3) registerBlobMetrics() {
	d.metrics.ops = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "database_blob_ops_total",
		Help: "Total number of S3 blob operations",
	})
	d.metrics.bytes = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "database_blob_bytes_total",
		Help: "Total payload bytes moved by S3 blob operations",
	})
	d.promRegistry.MustRegister(d.metrics.ops, d.metrics.bytes)
}

// recordOp counts one completed blob operation and the payload bytes it
// moved.
func (d *BlobStoreS3) recordOp(n int) {
	if d.metrics.ops == nil {
		return
	}
	d.metrics.ops.Inc()
	d.metrics.bytes.Add(float64(n))
}
