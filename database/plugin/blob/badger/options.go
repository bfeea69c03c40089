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

import (
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures a BlobStoreBadger before it is
// opened by New.
type Option func(*BlobStoreBadger)

// WithLogger sets the logger, which is also passed through to badger.
func WithLogger(logger *slog.Logger) Option {
	return func(b *BlobStoreBadger) {
		b.logger = logger
	}
}

// WithPromRegistry sets the registry blob metrics are registered on.
func WithPromRegistry(
	registry prometheus.Registerer,
) Option {
	return func(b *BlobStoreBadger) {
		b.promRegistry = registry
	}
}

// WithDataDir sets the directory for persistent storage. An empty value
// selects badger's in-memory mode.
func WithDataDir(dataDir string) Option {
	return func(b *BlobStoreBadger) {
		b.dataDir = dataDir
	}
}

// WithBlockCacheSize sets the badger block cache size in bytes.
func WithBlockCacheSize(size uint64) Option {
	return func(b *BlobStoreBadger) {
		b.blockCacheSize = size
	}
}

// WithIndexCacheSize sets the badger index cache size in bytes.
func WithIndexCacheSize(size uint64) Option {
	return func(b *BlobStoreBadger) {
		b.indexCacheSize = size
	}
}

// WithGc toggles periodic value log garbage collection.
func WithGc(enabled bool) Option {
	return func(b *BlobStoreBadger) {
		b.gcEnabled = enabled
	}
}

// WithValueLogFileSize sets the value log segment size in bytes.
func WithValueLogFileSize(size int64) Option {
	return func(b *BlobStoreBadger) {
		b.valueLogFileSize = size
	}
}

// WithMemTableSize sets the memtable size in bytes.
func WithMemTableSize(size int64) Option {
	return func(b *BlobStoreBadger) {
		b.memTableSize = size
	}
}

// WithValueThreshold sets the size above which values are stored in the
// value log instead of the LSM tree.
func WithValueThreshold(threshold int64) Option {
	return func(b *BlobStoreBadger) {
		b.valueThreshold = threshold
	}
}
