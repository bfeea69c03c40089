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

package gavel

import (
	"io"
	"log/slog"
	"time"

	"github.com/blinklabs-io/gavel/governance"
	"github.com/prometheus/client_golang/prometheus"
)

type Config struct {
	promRegistry     prometheus.Registerer
	logger           *slog.Logger
	clock            governance.Clock
	weightPolicy     governance.WeightPolicy
	dataDir          string
	blobPlugin       string
	metadataPlugin   string
	initialOwner     string
	apiListenAddress string
	ownerTokenFile   string
	initialQuorum    uint64
	tracing          bool
	tracingStdout    bool
	shutdownTimeout  time.Duration
}

// ConfigOption is a type that represents functions that modify the node config
type ConfigOption func(*Config)

// NewConfig creates a new gavel config with the specified options
func NewConfig(opts ...ConfigOption) Config {
	c := Config{
		// Default logger will throw away logs
		// We do this so we don't have to add guards around every log operation
		logger: slog.New(slog.NewJSONHandler(io.Discard, nil)),
	}
	// Apply options
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// WithLogger specifies the logger to use. This defaults to discarding log output
func WithLogger(logger *slog.Logger) ConfigOption {
	return func(c *Config) {
		c.logger = logger
	}
}

// WithDatabasePath specifies the persistent data directory to use. The default is to store everything in memory
func WithDatabasePath(dataDir string) ConfigOption {
	return func(c *Config) {
		c.dataDir = dataDir
	}
}

// WithBlobPlugin specifies the blob storage plugin to use.
func WithBlobPlugin(plugin string) ConfigOption {
	return func(c *Config) {
		c.blobPlugin = plugin
	}
}

// WithMetadataPlugin specifies the metadata storage plugin to use.
func WithMetadataPlugin(plugin string) ConfigOption {
	return func(c *Config) {
		c.metadataPlugin = plugin
	}
}

// WithInitialOwner specifies the owner identity used to seed the governance
// config the first time the node runs against an empty store. An existing
// store keeps its persisted owner and this value is ignored
func WithInitialOwner(owner string) ConfigOption {
	return func(c *Config) {
		c.initialOwner = owner
	}
}

// WithInitialQuorum specifies the quorum threshold used to seed the governance
// config the first time the node runs against an empty store. An existing
// store keeps its persisted quorum and this value is ignored
func WithInitialQuorum(quorum uint64) ConfigOption {
	return func(c *Config) {
		c.initialQuorum = quorum
	}
}

// WithClock specifies the tick source for proposal deadlines. The default is
// wall-clock seconds; pass a [governance.CounterClock] to drive deadlines from
// an external counter such as a block height
func WithClock(clock governance.Clock) ConfigOption {
	return func(c *Config) {
		c.clock = clock
	}
}

// WithWeightPolicy specifies the voting weight policy. The default reads
// administratively assigned weights from the metadata store; pass a
// [governance.BalanceWeightPolicy] to derive weights from an external balance
// lookup instead
func WithWeightPolicy(policy governance.WeightPolicy) ConfigOption {
	return func(c *Config) {
		c.weightPolicy = policy
	}
}

// WithApiListenAddress specifies the listen address for the REST API server.
// This defaults to ":8080"
func WithApiListenAddress(addr string) ConfigOption {
	return func(c *Config) {
		c.apiListenAddress = addr
	}
}

// WithOwnerTokenFile specifies the path to a bearer token file guarding
// owner-gated API routes. The file must not be readable by group or other.
// The default is empty (no token required)
func WithOwnerTokenFile(path string) ConfigOption {
	return func(c *Config) {
		c.ownerTokenFile = path
	}
}

// WithPrometheusRegistry specifies a prometheus.Registerer instance to add metrics to. In most cases, prometheus.DefaultRegistry would be
// a good choice to get metrics working
func WithPrometheusRegistry(registry prometheus.Registerer) ConfigOption {
	return func(c *Config) {
		c.promRegistry = registry
	}
}

// WithTracing enables tracing. By default, spans are submitted to a HTTP(s) endpoint using OTLP. This can be configured
// using the OTEL_EXPORTER_OTLP_* env vars documented in the README for [go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp]
func WithTracing(tracing bool) ConfigOption {
	return func(c *Config) {
		c.tracing = tracing
	}
}

// WithTracingStdout enables tracing output to stdout. This also requires tracing to enabled separately. This is mostly useful for debugging
func WithTracingStdout(stdout bool) ConfigOption {
	return func(c *Config) {
		c.tracingStdout = stdout
	}
}

// WithShutdownTimeout specifies the timeout for graceful shutdown. The default is 30 seconds
func WithShutdownTimeout(timeout time.Duration) ConfigOption {
	return func(c *Config) {
		c.shutdownTimeout = timeout
	}
}
