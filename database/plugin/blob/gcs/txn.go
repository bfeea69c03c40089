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

package gcs

import (
	"errors"

	"github.com/blinklabs-io/gavel/database/types"
)

// gcsTxn satisfies types.Txn for the GCS backend. GCS has no transactions,
// so each operation is applied immediately. The wrapper only tracks
// read/write intent and finished state so the database layer can treat
// every blob backend the same way.
type gcsTxn struct {
	store     *BlobStoreGCS
	readWrite bool
	finished  bool
}

// NewTransaction returns a lightweight transaction wrapper.
func (d *BlobStoreGCS) NewTransaction(readWrite bool) types.Txn {
	return &gcsTxn{store: d, readWrite: readWrite}
}

// activeTxn checks that txn belongs to this store and is still usable.
func (d *BlobStoreGCS) activeTxn(txn types.Txn) (*gcsTxn, error) {
	if d.client == nil {
		return nil, types.ErrBlobStoreUnavailable
	}
	if txn == nil {
		return nil, types.ErrNilTxn
	}
	t, ok := txn.(*gcsTxn)
	if !ok || t.store != d {
		return nil, types.ErrTxnWrongType
	}
	if t.finished {
		return nil, errors.New("transaction already finished")
	}
	return t, nil
}

// writableTxn is activeTxn plus a write-intent check.
func (d *BlobStoreGCS) writableTxn(txn types.Txn) (*gcsTxn, error) {
	t, err := d.activeTxn(txn)
	if err != nil {
		return nil, err
	}
	if !t.readWrite {
		return nil, errors.New("transaction is read-only")
	}
	return t, nil
}

func (t *gcsTxn) Commit() error {
	t.finished = true
	return nil
}

func (t *gcsTxn) Rollback() error {
	t.finished = true
	return nil
}
