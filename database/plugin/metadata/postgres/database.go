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
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/blinklabs-io/gavel/database/models"
	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
	"gorm.io/plugin/opentelemetry/tracing"
)

const (
	defaultHost     = "localhost"
	defaultPort     = 5432
	defaultUser     = "postgres"
	defaultDatabase = "postgres"
	defaultSslMode  = "disable"
	defaultTimeZone = "UTC"

	maxIdleConns    = 10
	maxOpenConns    = 100
	connMaxLifetime = time.Hour
)

// MetadataStorePostgres keeps governance state in a Postgres database.
// Unlike the SQLite store it does not open a connection at construction
// time, Start connects and migrates the schema.
type MetadataStorePostgres struct {
	promRegistry prometheus.Registerer
	db           *gorm.DB
	logger       *slog.Logger

	host     string
	port     uint
	user     string
	password string
	database string
	sslMode  string
	timeZone string
	dsn      string // overrides the field-built connection string when set
}

// New creates a new database
func New(
	host string,
	port uint,
	user string,
	password string,
	database string,
	sslMode string,
	timeZone string,
	logger *slog.Logger,
	promRegistry prometheus.Registerer,
) (*MetadataStorePostgres, error) {
	return NewWithOptions(
		WithHost(host),
		WithPort(port),
		WithUser(user),
		WithPassword(password),
		WithDatabase(database),
		WithSSLMode(sslMode),
		WithTimeZone(timeZone),
		WithLogger(logger),
		WithPromRegistry(promRegistry),
	)
}

// NewWithOptions creates a new database with options. The connection is
// established by Start.
func NewWithOptions(opts ...Option) (*MetadataStorePostgres, error) {
	db := &MetadataStorePostgres{}
	for _, opt := range opts {
		opt(db)
	}
	db.applyDefaults()
	return db, nil
}

func (d *MetadataStorePostgres) applyDefaults() {
	if d.host == "" {
		d.host = defaultHost
	}
	if d.port == 0 {
		d.port = defaultPort
	}
	if d.user == "" {
		d.user = defaultUser
	}
	if d.database == "" {
		d.database = defaultDatabase
	}
	if d.sslMode == "" {
		d.sslMode = defaultSslMode
	}
	if d.timeZone == "" {
		d.timeZone = defaultTimeZone
	}
	if d.logger == nil {
		d.logger = slog.New(slog.NewTextHandler(os.Stderr, nil))
	}
}

// buildDSN returns the configured connection string, assembling one from the
// individual fields when no explicit DSN was given
func (d *MetadataStorePostgres) buildDSN() string {
	if dsn := strings.TrimSpace(d.dsn); dsn != "" {
		return dsn
	}
	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%d sslmode=%s",
		d.host, d.user, d.password, d.database, d.port, d.sslMode,
	)
	if d.timeZone != "" {
		dsn += " TimeZone=" + d.timeZone
	}
	return dsn
}

func (d *MetadataStorePostgres) connect() error {
	metadataDb, err := gorm.Open(
		postgres.Open(d.buildDSN()),
		&gorm.Config{
			Logger:                 gormlogger.Discard,
			SkipDefaultTransaction: true,
			PrepareStmt:            true,
		},
	)
	if err != nil {
		return err
	}
	d.db = metadataDb
	d.logger.Info(
		"metadata store connected",
		"host", d.host,
		"port", d.port,
		"database", d.database,
		"component", "database",
	)
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	sqlDB.SetMaxIdleConns(maxIdleConns)
	sqlDB.SetMaxOpenConns(maxOpenConns)
	sqlDB.SetConnMaxLifetime(connMaxLifetime)
	return nil
}

// migrateSchema creates or updates the tables for the commit timestamp and
// every registered governance model
func (d *MetadataStorePostgres) migrateSchema() error {
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

// AutoMigrate wraps the gorm AutoMigrate
func (d *MetadataStorePostgres) AutoMigrate(dst ...any) error {
	return d.DB().AutoMigrate(dst...)
}

// Start implements the plugin.Plugin interface. It connects to the
// configured server, wires GORM tracing, and migrates the schema.
func (d *MetadataStorePostgres) Start() error {
	if err := d.connect(); err != nil {
		return err
	}
	if err := d.db.Use(tracing.NewPlugin(tracing.WithoutMetrics())); err != nil {
		return err
	}
	return d.migrateSchema()
}

// Stop implements the plugin.Plugin interface
func (d *MetadataStorePostgres) Stop() error {
	return d.Close()
}

// Close closes the underlying database connection
func (d *MetadataStorePostgres) Close() error {
	// Nothing to close when Start never connected
	if d.db == nil {
		return nil
	}
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// DB returns the database handle
func (d *MetadataStorePostgres) DB() *gorm.DB {
	return d.db
}
