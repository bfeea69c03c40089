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
	"math/big"

	"github.com/blinklabs-io/gavel/database/types"
)

const (
	commitTimestampBlobKey = "metadata_commit_timestamp"
)

// SetRecord stores a journal record's encoded data by sequence number
func (b *BlobStoreBadger) SetRecord(
	txn types.Txn,
	seq uint64,
	data []byte,
) error {
	return b.Set(txn, types.JournalRecordKey(seq), data)
}

// GetRecord retrieves a journal record's encoded data by sequence number
func (b *BlobStoreBadger) GetRecord(
	txn types.Txn,
	seq uint64,
) ([]byte, error) {
	return b.Get(txn, types.JournalRecordKey(seq))
}

// GetCommitTimestamp reads the commit timestamp key, stored as big-endian
// big.Int bytes
func (b *BlobStoreBadger) GetCommitTimestamp() (int64, error) {
	txn := b.NewTransaction(false)
	defer txn.Rollback() //nolint:errcheck

	raw, err := b.Get(txn, []byte(commitTimestampBlobKey))
	if err != nil {
		return 0, err
	}
	return new(big.Int).SetBytes(raw).Int64(), nil
}

// SetCommitTimestamp writes the commit timestamp key within txn
func (b *BlobStoreBadger) SetCommitTimestamp(
	txn types.Txn,
	timestamp int64,
) error {
	if txn == nil {
		return types.ErrNilTxn
	}
	encoded := new(big.Int).SetInt64(timestamp).Bytes()
	return b.Set(txn, []byte(commitTimestampBlobKey), encoded)
}
