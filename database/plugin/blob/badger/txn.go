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

	"github.com/blinklabs-io/gavel/database/types"
	badger "github.com/dgraph-io/badger/v4"
)

// badgerTxn wraps a native badger transaction. Unlike the cloud backends
// badger provides real transaction semantics, including read-only
// enforcement, so only ownership and finished state are tracked here.
type badgerTxn struct {
	store    *BlobStoreBadger
	tx       *badger.Txn
	finished bool
}

// NewTransaction starts a badger transaction.
func (d *BlobStoreBadger) NewTransaction(update bool) types.Txn {
	return &badgerTxn{store: d, tx: d.DB().NewTransaction(update)}
}

// activeTxn checks that txn belongs to this store and is still usable.
func (d *BlobStoreBadger) activeTxn(txn types.Txn) (*badgerTxn, error) {
	if txn == nil {
		return nil, types.ErrNilTxn
	}
	t, ok := txn.(*badgerTxn)
	if !ok {
		return nil, types.ErrTxnWrongType
	}
	if t.store != d {
		return nil, errors.New("transaction from different store")
	}
	if t.finished {
		return nil, errors.New("transaction already finished")
	}
	if t.tx == nil {
		return nil, types.ErrBlobStoreUnavailable
	}
	return t, nil
}

// Commit applies the transaction. A failed commit leaves the transaction
// unfinished so a later Rollback still discards it.
func (t *badgerTxn) Commit() error {
	if t.finished || t.tx == nil {
		t.finished = true
		return nil
	}
	if err := t.tx.Commit(); err != nil {
		return err
	}
	t.finished = true
	return nil
}

func (t *badgerTxn) Rollback() error {
	if !t.finished && t.tx != nil {
		t.tx.Discard()
	}
	t.finished = true
	return nil
}
