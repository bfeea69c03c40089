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
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/blinklabs-io/gavel/database/types"
	badger "github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/options"
	"github.com/prometheus/client_golang/prometheus"
)

const gcInterval = 5 * time.Minute

// BlobStoreBadger keeps journal records in a local badger database. An
// empty data directory selects badger's in-memory mode, where nothing
// survives process exit.
type BlobStoreBadger struct {
	promRegistry     prometheus.Registerer
	db               *badger.DB
	logger           *slog.Logger
	gcTicker         *time.Ticker
	gcStopCh         chan struct{}
	dataDir          string
	gcWg             sync.WaitGroup
	blockCacheSize   uint64
	indexCacheSize   uint64
	valueLogFileSize int64
	memTableSize     int64
	valueThreshold   int64
	gcEnabled        bool
}

// New opens the badger database immediately, Start is a no-op for this
// backend. Defaults are applied before options so an explicit zero (for
// example a disabled cache) wins over the default.
func New(opts ...Option) (*BlobStoreBadger, error) {
	db := &BlobStoreBadger{
		gcEnabled:        true,
		blockCacheSize:   DefaultBlockCacheSize,
		indexCacheSize:   DefaultIndexCacheSize,
		valueLogFileSize: int64(DefaultValueLogFileSize),
		memTableSize:     int64(DefaultMemTableSize),
		valueThreshold:   int64(DefaultValueThreshold),
	}
	for _, opt := range opts {
		opt(db)
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
	if err := db.init(); err != nil {
		return db, err
	}
	return db, nil
}

func (d *BlobStoreBadger) openInMemory() (*badger.DB, error) {
	badgerOpts := badger.DefaultOptions("").
		WithLogger(NewBadgerLogger(d.logger)).
		// Badger is chatty at INFO
		WithLoggingLevel(badger.WARNING).
		WithInMemory(true).
		WithValueThreshold(d.valueThreshold)
	return badger.Open(badgerOpts)
}

func (d *BlobStoreBadger) openPersistent() (*badger.DB, error) {
	// Create the data dir if it doesn't already exist
	if _, err := os.Stat(d.dataDir); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("inspect data dir: %w", err)
		}
		if err := os.MkdirAll(d.dataDir, 0o755); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
	}
	badgerOpts := badger.
		DefaultOptions(filepath.Join(d.dataDir, "blob")).
		WithLogger(NewBadgerLogger(d.logger)).
		WithLoggingLevel(badger.WARNING).
		WithBlockCacheSize(int64(d.blockCacheSize)). //nolint:gosec // cache sizes stay well under int64 range
		WithIndexCacheSize(int64(d.indexCacheSize)). //nolint:gosec // cache sizes stay well under int64 range
		WithValueLogFileSize(d.valueLogFileSize).
		WithMemTableSize(d.memTableSize).
		WithValueThreshold(d.valueThreshold).
		WithCompression(options.Snappy)
	return badger.Open(badgerOpts)
}

func (d *BlobStoreBadger) init() error {
	if d.logger == nil {
		// Discard logs rather than guard every log call
		d.logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	if d.promRegistry != nil {
		d.registerBlobMetrics()
	}
	if d.gcEnabled {
		d.gcTicker = time.NewTicker(gcInterval)
		d.gcStopCh = make(chan struct{})
		d.gcWg.Add(1)
		go d.gcLoop(d.gcTicker, d.gcStopCh)
	}
	return nil
}

func (d *BlobStoreBadger) gcLoop(t *time.Ticker, stop <-chan struct{}) {
	defer d.gcWg.Done()
	for {
		select {
		case <-t.C:
			d.runValueLogGc()
		case <-stop:
			return
		}
	}
}

// runValueLogGc rewrites value log files until badger reports nothing left
// worth rewriting
func (d *BlobStoreBadger) runValueLogGc() {
	for {
		err := d.DB().RunValueLogGC(0.5)
		if err == nil {
			continue
		}
		if !errors.Is(err, badger.ErrNoRewrite) {
			d.logger.Warn(
				"value log GC failure",
				"error", err,
				"component", "database",
			)
		}
		return
	}
}

// Start implements the plugin.Plugin interface. The database is already
// open by the time New returns.
func (d *BlobStoreBadger) Start() error {
	return nil
}

// Stop implements the plugin.Plugin interface
func (d *BlobStoreBadger) Stop() error {
	return d.Close()
}

// Close stops the GC goroutine and closes the underlying badger database
func (d *BlobStoreBadger) Close() error {
	if d.gcTicker != nil {
		d.gcTicker.Stop()
		if d.gcStopCh != nil {
			close(d.gcStopCh)
			d.gcStopCh = nil
		}
		d.gcWg.Wait()
		d.gcTicker = nil
	}
	return d.DB().Close()
}

// DB returns the database handle
func (d *BlobStoreBadger) DB() *badger.DB {
	return d.db
}

// Get returns the value stored at key. Missing keys report
// types.ErrBlobKeyNotFound.
func (d *BlobStoreBadger) Get(txn types.Txn, key []byte) ([]byte, error) {
	t, err := d.activeTxn(txn)
	if err != nil {
		return nil, err
	}
	item, err := t.tx.Get(key)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, types.ErrBlobKeyNotFound
	}
	if err != nil {
		return nil, err
	}
	return item.ValueCopy(nil)
}

// Set stores a key-value pair. Badger rejects writes on read-only
// transactions itself.
func (d *BlobStoreBadger) Set(txn types.Txn, key, val []byte) error {
	t, err := d.activeTxn(txn)
	if err != nil {
		return err
	}
	return t.tx.Set(key, val)
}

// Delete removes a key.
func (d *BlobStoreBadger) Delete(txn types.Txn, key []byte) error {
	t, err := d.activeTxn(txn)
	if err != nil {
		return err
	}
	return t.tx.Delete(key)
}

// NewIterator creates an iterator bound to the given transaction.
//
// Items returned by the iterator's Item() must only be accessed while the
// transaction used to create the iterator is still active.
func (d *BlobStoreBadger) NewIterator(
	txn types.Txn,
	opts types.BlobIteratorOptions,
) types.BlobIterator {
	t, err := d.activeTxn(txn)
	if err != nil {
		return &errorIterator{err: err}
	}
	return &nativeIterator{iter: t.tx.NewIterator(badger.IteratorOptions{
		Prefix:  opts.Prefix,
		Reverse: opts.Reverse,
	})}
}
