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
	"fmt"
)

// CommitTimestampError indicates that the blob and metadata stores were not
// committed together and may be out of sync
type CommitTimestampError struct {
	MetadataTimestamp int64
	BlobTimestamp     int64
}

func (e CommitTimestampError) Error() string {
	return fmt.Sprintf(
		"commit timestamps diverge: metadata %d, blob %d",
		e.MetadataTimestamp,
		e.BlobTimestamp,
	)
}

// checkCommitTimestamp compares the commit timestamps recorded in each store.
// A fresh database has no timestamp yet, which passes the check.
func (d *Database) checkCommitTimestamp() error {
	metadataTimestamp, err := d.Metadata().GetCommitTimestamp()
	if err != nil {
		return fmt.Errorf("read metadata commit timestamp: %w", err)
	}
	if metadataTimestamp <= 0 {
		return nil
	}
	blobTimestamp, err := d.Blob().GetCommitTimestamp()
	if err != nil {
		return fmt.Errorf("read blob commit timestamp: %w", err)
	}
	if blobTimestamp == metadataTimestamp {
		return nil
	}
	return CommitTimestampError{
		MetadataTimestamp: metadataTimestamp,
		BlobTimestamp:     blobTimestamp,
	}
}

// updateCommitTimestamp stamps both stores inside the given transaction
func (d *Database) updateCommitTimestamp(txn *Txn, timestamp int64) error {
	err := d.Metadata().SetCommitTimestamp(txn.Metadata(), timestamp)
	if err != nil {
		return err
	}
	return d.Blob().SetCommitTimestamp(txn.Blob(), timestamp)
}
