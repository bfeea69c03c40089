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

package database

import (
	"errors"
	"io"
	"log/slog"

	"github.com/blinklabs-io/gavel/database/plugin"
	"github.com/blinklabs-io/gavel/database/plugin/blob"
	"github.com/blinklabs-io/gavel/database/plugin/metadata"
	"github.com/prometheus/client_golang/prometheus"
)

// Config describes how to assemble a database from storage plugins
type Config struct {
	Logger         *slog.Logger
	PromRegistry   prometheus.Registerer
	DataDir        string
	BlobPlugin     string
	MetadataPlugin string
}

// Database combines a blob store for journal records with a metadata store
// for relational governance state
type Database struct {
	logger   *slog.Logger
	blob     blob.BlobStore
	metadata metadata.MetadataStore
	dataDir  string
}

// Blob returns the underlying blob store instance
func (d *Database) Blob() blob.BlobStore {
	return d.blob
}

// DataDir returns the path to the data directory used for storage
func (d *Database) DataDir() string {
	return d.dataDir
}

// Logger returns the logger instance
func (d *Database) Logger() *slog.Logger {
	return d.logger
}

// Metadata returns the underlying metadata store instance
func (d *Database) Metadata() metadata.MetadataStore {
	return d.metadata
}

// Transaction starts a new database transaction and returns a handle to it
func (d *Database) Transaction(readWrite bool) *Txn {
	return NewTxn(d, readWrite)
}

// BlobTransaction starts a new blob-only transaction
func (d *Database) BlobTransaction(readWrite bool) *Txn {
	return NewBlobOnlyTxn(d, readWrite)
}

// MetadataTransaction starts a new metadata-only transaction
func (d *Database) MetadataTransaction(readWrite bool) *Txn {
	return NewMetadataOnlyTxn(d, readWrite)
}

// Close cleans up the database connections
func (d *Database) Close() error {
	return errors.Join(
		d.metadata.Close(),
		d.blob.Close(),
	)
}

// New assembles a database from the configured storage plugins
func New(config *Config) (*Database, error) {
	if config == nil {
		config = &Config{}
	}
	if config.BlobPlugin == "" {
		config.BlobPlugin = "badger"
	}
	if config.MetadataPlugin == "" {
		config.MetadataPlugin = "sqlite"
	}
	// Hand the logger and metrics registry to the plugin constructors
	plugin.SetLogger(config.Logger)
	plugin.SetPromRegistry(config.PromRegistry)
	// Propagate the data directory to plugins that take one. Plugins without
	// a data-dir option (the cloud object stores) ignore this.
	for _, pluginType := range []plugin.PluginType{
		plugin.PluginTypeBlob,
		plugin.PluginTypeMetadata,
	} {
		pluginName := config.BlobPlugin
		if pluginType == plugin.PluginTypeMetadata {
			pluginName = config.MetadataPlugin
		}
		if err := plugin.SetPluginOption(
			pluginType,
			pluginName,
			"data-dir",
			config.DataDir,
		); err != nil {
			return nil, err
		}
	}
	metadataDb, err := metadata.New(config.MetadataPlugin)
	if err != nil {
		return nil, err
	}
	blobDb, err := blob.New(config.BlobPlugin)
	if err != nil {
		return nil, err
	}
	db := &Database{
		logger:   config.Logger,
		blob:     blobDb,
		metadata: metadataDb,
		dataDir:  config.DataDir,
	}
	if db.logger == nil {
		db.logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	if err := db.checkCommitTimestamp(); err != nil {
		// Hand back the handle so the caller can attempt recovery
		return db, err
	}
	return db, nil
}
