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
	"fmt"
	"sync"
	"time"

	"github.com/blinklabs-io/gavel/database/types"
)

// Txn coordinates sibling transactions on the blob and metadata stores. A
// transaction may span one store or both. When both take part, Commit stamps
// the same commit timestamp into each store so that a torn commit is
// detectable at the next startup.
type Txn struct {
	db       *Database
	blob     types.Txn
	metadata types.Txn
	mu       sync.Mutex
	finished bool
	writable bool
}

func newTxn(db *Database, writable, withBlob, withMetadata bool) *Txn {
	t := &Txn{db: db, writable: writable}
	if withBlob {
		if bs := db.Blob(); bs != nil {
			t.blob = bs.NewTransaction(writable)
		}
	}
	if withMetadata {
		if ms := db.Metadata(); ms != nil {
			t.metadata = ms.Transaction()
			if t.metadata == nil {
				db.logger.Warn(
					"metadata store produced a nil transaction",
					"component", "database",
				)
			}
		}
	}
	return t
}

// NewTxn starts a transaction spanning both stores
func NewTxn(db *Database, writable bool) *Txn {
	return newTxn(db, writable, true, true)
}

// NewBlobOnlyTxn starts a transaction on the blob store alone
func NewBlobOnlyTxn(db *Database, writable bool) *Txn {
	return newTxn(db, writable, true, false)
}

// NewMetadataOnlyTxn starts a transaction on the metadata store alone
func NewMetadataOnlyTxn(db *Database, writable bool) *Txn {
	return newTxn(db, writable, false, true)
}

func (t *Txn) DB() *Database {
	return t.db
}

// Metadata returns the underlying metadata transaction handle. It is nil for
// blob-only transactions and when the metadata store failed to start one.
func (t *Txn) Metadata() types.Txn {
	return t.metadata
}

// Blob returns the blob transaction handle
func (t *Txn) Blob() types.Txn {
	return t.blob
}

// Do runs fn inside the transaction, committing on a nil return and rolling
// back on an error
func (t *Txn) Do(fn func(*Txn) error) error {
	if err := fn(t); err != nil {
		if rbErr := t.Rollback(); rbErr != nil {
			return errors.Join(
				err,
				fmt.Errorf("rollback during cleanup: %w", rbErr),
			)
		}
		return err
	}
	if err := t.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (t *Txn) Commit() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.finished {
		return nil
	}
	// Read-only transactions have nothing to commit but still hold
	// snapshots and locks that need freeing
	if !t.writable {
		return t.rollback()
	}
	if t.blob == nil && t.metadata == nil {
		t.finished = true
		return types.ErrNoStoreAvailable
	}
	// Both stores get the same commit timestamp so a torn commit is
	// detectable at the next startup
	if t.blob != nil && t.metadata != nil {
		now := time.Now().UnixMilli()
		if err := t.db.updateCommitTimestamp(t, now); err != nil {
			return t.abort(
				fmt.Errorf("failed to update commit timestamp: %w", err),
			)
		}
	}
	// The blob store commits first, so a blob failure leaves metadata
	// untouched
	if t.blob != nil {
		if err := t.blob.Commit(); err != nil {
			return t.abort(fmt.Errorf("blob commit failed: %w", err))
		}
	}
	if t.metadata != nil {
		if err := t.metadata.Commit(); err != nil {
			// The blob side is already durable at this point
			t.db.logger.Error(
				"metadata commit failed after blob commit",
				"error", err,
				"component", "database",
			)
			_ = t.metadata.Rollback()
			t.finished = true
			return fmt.Errorf(
				"metadata commit failed with blob already durable: %w",
				err,
			)
		}
	}
	t.finished = true
	return nil
}

// abort rolls back whatever is still open and finishes the transaction,
// passing the given error through
func (t *Txn) abort(err error) error {
	if t.blob != nil {
		_ = t.blob.Rollback()
	}
	if t.metadata != nil {
		_ = t.metadata.Rollback()
	}
	t.finished = true
	return err
}

func (t *Txn) Rollback() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.rollback()
}

func (t *Txn) rollback() error {
	if t.finished {
		return nil
	}
	t.finished = true
	var blobErr, metadataErr error
	if t.blob != nil {
		if err := t.blob.Rollback(); err != nil {
			blobErr = fmt.Errorf("blob rollback: %w", err)
		}
	}
	if t.metadata != nil {
		if err := t.metadata.Rollback(); err != nil {
			metadataErr = fmt.Errorf("metadata rollback: %w", err)
		}
	}
	return errors.Join(blobErr, metadataErr)
}

// Release frees transaction resources and is safe for deferred calls. For
// writable transactions it is equivalent to Rollback. Errors are logged
// rather than returned.
func (t *Txn) Release() {
	if err := t.Rollback(); err != nil {
		t.db.logger.Debug(
			"rollback on release failed",
			"error", err,
			"writable", t.writable,
		)
	}
}
