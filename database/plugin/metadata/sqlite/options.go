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

package sqlite

import (
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
)

type Option func(*MetadataStoreSqlite)

// WithLogger specifies the logger to use
func WithLogger(logger *slog.Logger) Option {
	return func(d *MetadataStoreSqlite) {
		d.logger = logger
	}
}

// WithPromRegistry specifies a prometheus.Registerer instance to use
func WithPromRegistry(registry prometheus.Registerer) Option {
	return func(d *MetadataStoreSqlite) {
		d.promRegistry = registry
	}
}

// WithDataDir specifies the data directory to use. An empty value selects an
// in-memory database.
func WithDataDir(dataDir string) Option {
	return func(d *MetadataStoreSqlite) {
		d.dataDir = dataDir
	}
}
