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
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/blinklabs-io/gavel/database/models"
	"github.com/glebarez/sqlite"
	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
	"gorm.io/plugin/opentelemetry/tracing"
)

const vacuumInterval = 24 * time.Hour

// MetadataStoreSqlite keeps governance state in a local SQLite database:
// proposals, votes, delegations, voting weights, and engine configuration.
// An empty data directory selects an in-memory database.
type MetadataStoreSqlite struct {
	promRegistry prometheus.Registerer
	db           *gorm.DB
	logger       *slog.Logger
	vacuumTimer  *time.Timer
	vacuumMutex  sync.Mutex
	vacuumWg     sync.WaitGroup
	dataDir      string
	closed       bool
}

// New creates a SQLite metadata store. Uses in-memory database if dataDir is empty.
func New(
	dataDir string,
	logger *slog.Logger,
	promRegistry prometheus.Registerer,
) (*MetadataStoreSqlite, error) {
	return NewWithOptions(
		WithDataDir(dataDir),
		WithLogger(logger),
		WithPromRegistry(promRegistry),
	)
}

// NewWithOptions creates a SQLite metadata store using options
func NewWithOptions(opts ...Option) (*MetadataStoreSqlite, error) {
	db := &MetadataStoreSqlite{}
	for _, opt := range opts {
		opt(db)
	}
	if db.logger == nil {
		db.logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	var err error
	if db.dataDir == "" {
		db.db, err = db.openInMemory()
	} else {
		db.db, err = db.openPersistent()
	}
	if err != nil {
		return nil, err
	}
	if err := db.db.Use(tracing.NewPlugin(tracing.WithoutMetrics())); err != nil {
		// The store handle stays usable for recovery, return it with the error
		return db, err
	}
	if err := db.migrateSchema(); err != nil {
		return db, err
	}
	db.scheduleVacuum()
	return db, nil
}

func (d *MetadataStoreSqlite) openInMemory() (*gorm.DB, error) {
	// cache=shared lets multiple connections see the same in-memory database
	return gorm.Open(
		sqlite.Open("file::memory:?cache=shared"),
		&gorm.Config{
			Logger:                 gormlogger.Discard,
			SkipDefaultTransaction: true,
		},
	)
}

func (d *MetadataStoreSqlite) openPersistent() (*gorm.DB, error) {
	// Create the data dir if it doesn't already exist
	if _, err := os.Stat(d.dataDir); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("inspect data dir: %w", err)
		}
		if err := os.MkdirAll(d.dataDir, fs.ModePerm); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
	}
	dbPath := filepath.Join(d.dataDir, "metadata.sqlite")
	// WAL journal, no fsync on write, 50MB page cache
	connOpts := "_pragma=journal_mode(WAL)&_pragma=sync(OFF)&_pragma=cache_size(-50000)"
	return gorm.Open(
		sqlite.Open(fmt.Sprintf("file:%s?%s", dbPath, connOpts)),
		&gorm.Config{
			Logger:                 gormlogger.Discard,
			SkipDefaultTransaction: true,
		},
	)
}

// migrateSchema creates or updates the tables for the commit timestamp and
// every registered governance model
func (d *MetadataStoreSqlite) migrateSchema() error {
	tables := append(
		[]any{&CommitTimestamp{}},
		models.MigrateModels...,
	)
	for _, model := range tables {
		d.logger.Debug(
			"migrating table",
			"model", fmt.Sprintf("%T", model),
			"component", "database",
		)
		if err := d.db.AutoMigrate(model); err != nil {
			return err
		}
	}
	return nil
}

// scheduleVacuum arms the timer for the next vacuum run. Each run
// reschedules itself until the store is closed.
func (d *MetadataStoreSqlite) scheduleVacuum() {
	d.vacuumMutex.Lock()
	defer d.vacuumMutex.Unlock()
	if d.closed {
		return
	}
	if d.vacuumTimer != nil {
		d.vacuumTimer.Stop()
	}
	d.vacuumTimer = time.AfterFunc(vacuumInterval, func() {
		d.logger.Debug("running periodic vacuum", "component", "database")
		defer d.scheduleVacuum()
		if err := d.vacuum(); err != nil {
			d.logger.Error(
				"periodic vacuum failed",
				"error", err,
				"component", "database",
			)
		}
	})
}

// vacuum frees unused space in the database file. In-memory stores have
// nothing to free.
func (d *MetadataStoreSqlite) vacuum() error {
	d.vacuumMutex.Lock()
	if d.dataDir == "" || d.closed {
		d.vacuumMutex.Unlock()
		return nil
	}
	// Track this vacuum operation while we know the store is open
	d.vacuumWg.Add(1)
	d.vacuumMutex.Unlock()
	defer d.vacuumWg.Done()

	if result := d.DB().Raw("VACUUM"); result.Error != nil {
		return result.Error
	}
	return nil
}

// AutoMigrate creates or updates database schema for the given models.
func (d *MetadataStoreSqlite) AutoMigrate(dst ...any) error {
	return d.DB().AutoMigrate(dst...)
}

// Start implements the plugin.Plugin interface
func (d *MetadataStoreSqlite) Start() error {
	// Database is already started in New(), so this is a no-op
	return nil
}

// Stop implements the plugin.Plugin interface
func (d *MetadataStoreSqlite) Stop() error {
	return d.Close()
}

// Close stops the vacuum timer, waits for an in-flight vacuum, and closes
// the database connection
func (d *MetadataStoreSqlite) Close() error {
	d.vacuumMutex.Lock()
	d.closed = true
	if d.vacuumTimer != nil {
		d.vacuumTimer.Stop()
		d.vacuumTimer = nil
	}
	d.vacuumMutex.Unlock()
	d.vacuumWg.Wait()

	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// DB returns the underlying GORM database handle.
func (d *MetadataStoreSqlite) DB() *gorm.DB {
	return d.db
}
