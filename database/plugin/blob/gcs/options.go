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

package gcs

import (
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures a BlobStoreGCS before Start is called.
type Option func(*BlobStoreGCS)

// WithLogger wraps the given logger for use by the store.
func WithLogger(logger *slog.Logger) Option {
	return func(b *BlobStoreGCS) {
		b.logger = NewGcsLogger(logger)
	}
}

// WithPromRegistry sets the registry blob metrics are registered on.
func WithPromRegistry(
	registry prometheus.Registerer,
) Option {
	return func(b *BlobStoreGCS) {
		b.promRegistry = registry
	}
}

// WithBucket sets the GCS bucket holding the store's objects.
func WithBucket(bucket string) Option {
	return func(b *BlobStoreGCS) {
		b.bucketName = bucket
	}
}

// WithPrefix sets a name prefix applied to every object.
func WithPrefix(prefix string) Option {
	return func(b *BlobStoreGCS) {
		b.prefix = prefix
	}
}

// WithCredentialsFile sets a service account credentials file. When unset
// the client uses application default credentials.
func WithCredentialsFile(credentialsFile string) Option {
	return func(b *BlobStoreGCS) {
		b.credentialsFile = credentialsFile
	}
}

// WithTimeout bounds each GCS request, 60 seconds when unset.
func WithTimeout(timeout time.Duration) Option {
	return func(b *BlobStoreGCS) {
		b.timeout = timeout
	}
}
