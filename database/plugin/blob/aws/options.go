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

import (
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures a BlobStoreS3 before Start is called.
type Option func(*BlobStoreS3)

// WithLogger wraps the given logger for use by the store.
func WithLogger(logger *slog.Logger) Option {
	return func(b *BlobStoreS3) {
		b.logger = NewS3Logger(logger)
	}
}

// WithPromRegistry sets the registry blob metrics are registered on.
func WithPromRegistry(
	registry prometheus.Registerer,
) Option {
	return func(b *BlobStoreS3) {
		b.promRegistry = registry
	}
}

// WithBucket sets the S3 bucket holding the store's objects.
func WithBucket(bucket string) Option {
	return func(b *BlobStoreS3) {
		b.bucket = bucket
	}
}

// WithRegion overrides the region from the ambient AWS config.
func WithRegion(region string) Option {
	return func(b *BlobStoreS3) {
		b.region = region
	}
}

// WithPrefix sets a key prefix applied to every object.
func WithPrefix(prefix string) Option {
	return func(b *BlobStoreS3) {
		b.prefix = prefix
	}
}

// WithTimeout bounds each S3 request, 60 seconds when unset.
func WithTimeout(timeout time.Duration) Option {
	return func(b *BlobStoreS3) {
		b.timeout = timeout
	}
}

// WithEndpoint points the client at an S3-compatible server such as minio.
// Path-style addressing is enabled when an endpoint is set.
func WithEndpoint(endpoint string) Option {
	return func(b *BlobStoreS3) {
		b.endpoint = endpoint
	}
}
