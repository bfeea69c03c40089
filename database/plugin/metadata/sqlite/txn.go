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

	"github.com/blinklabs-io/gavel/database/types"
	"gorm.io/gorm"
)

// sqliteTxn wraps a GORM transaction and implements types.Txn
type sqliteTxn struct {
	store    *MetadataStoreSqlite
	db       *gorm.DB
	beginErr error
	finished bool
}

func newSqliteTxn(store *MetadataStoreSqlite) *sqliteTxn {
	txn := store.DB().Begin()
	return &sqliteTxn{
		store:    store,
		db:       txn,
		beginErr: txn.Error,
	}
}

// Commit commits the transaction
func (t *sqliteTxn) Commit() error {
	if t.beginErr != nil {
		return t.beginErr
	}
	if t.finished {
		return errors.New("transaction already finished")
	}
	t.finished = true
	return t.db.Commit().Error
}

// Rollback aborts the transaction
func (t *sqliteTxn) Rollback() error {
	if t.beginErr != nil {
		return t.beginErr
	}
	if t.finished {
		return errors.New("transaction already finished")
	}
	t.finished = true
	return t.db.Rollback().Error
}

// Transaction starts a new transaction against the metadata store
func (d *MetadataStoreSqlite) Transaction() types.Txn {
	return newSqliteTxn(d)
}

// resolveDB returns the database handle associated with the given transaction,
// or the store's base handle when txn is nil
func (d *MetadataStoreSqlite) resolveDB(txn types.Txn) (*gorm.DB, error) {
	if txn == nil {
		return d.DB(), nil
	}
	tmpTxn, ok := txn.(*sqliteTxn)
	if !ok {
		return nil, errors.New("unexpected transaction type")
	}
	if tmpTxn.store != d {
		return nil, errors.New("transaction from different store")
	}
	if tmpTxn.beginErr != nil {
		return nil, tmpTxn.beginErr
	}
	if tmpTxn.finished {
		return nil, errors.New("transaction already finished")
	}
	return tmpTxn.db, nil
}
