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

package postgres

import (
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
)

type Option func(*MetadataStorePostgres)

// WithLogger specifies the logger to use
func WithLogger(logger *slog.Logger) Option {
	return func(d *MetadataStorePostgres) {
		d.logger = logger
	}
}

// WithPromRegistry specifies a prometheus.Registerer instance to use
func WithPromRegistry(registry prometheus.Registerer) Option {
	return func(d *MetadataStorePostgres) {
		d.promRegistry = registry
	}
}

// WithHost specifies the server hostname
func WithHost(host string) Option {
	return func(d *MetadataStorePostgres) {
		d.host = host
	}
}

// WithPort specifies the server port
func WithPort(port uint) Option {
	return func(d *MetadataStorePostgres) {
		d.port = port
	}
}

// WithUser specifies the connection username
func WithUser(user string) Option {
	return func(d *MetadataStorePostgres) {
		d.user = user
	}
}

// WithPassword specifies the connection password
func WithPassword(password string) Option {
	return func(d *MetadataStorePostgres) {
		d.password = password
	}
}

// WithDatabase specifies the database name
func WithDatabase(database string) Option {
	return func(d *MetadataStorePostgres) {
		d.database = database
	}
}

// WithSSLMode specifies the sslmode connection setting
func WithSSLMode(sslMode string) Option {
	return func(d *MetadataStorePostgres) {
		d.sslMode = sslMode
	}
}

// WithTimeZone specifies the session time zone
func WithTimeZone(timeZone string) Option {
	return func(d *MetadataStorePostgres) {
		d.timeZone = timeZone
	}
}

// WithDSN specifies a full connection string. When set it takes precedence
// over the individual connection options.
func WithDSN(dsn string) Option {
	return func(d *MetadataStorePostgres) {
		d.dsn = dsn
	}
}
