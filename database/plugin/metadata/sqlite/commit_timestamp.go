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
	"gorm.io/gorm/clause"
)

// CommitTimestamp is used to track the current commit timestamp for the metadata store
type CommitTimestamp struct {
	ID        uint `gorm:"primarykey"`
	Timestamp int64
}

// TableName returns the table name
func (CommitTimestamp) TableName() string {
	return "commit_timestamp"
}

const commitTimestampRowId = 1

// GetCommitTimestamp returns the stored commit timestamp, or zero if unset
func (d *MetadataStoreSqlite) GetCommitTimestamp() (int64, error) {
	var tmpCommitTimestamp CommitTimestamp
	result := d.DB().First(&tmpCommitTimestamp, commitTimestampRowId)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, result.Error
	}
	return tmpCommitTimestamp.Timestamp, nil
}

// SetCommitTimestamp updates the stored commit timestamp
func (d *MetadataStoreSqlite) SetCommitTimestamp(
	txn types.Txn,
	timestamp int64,
) error {
	db, err := d.resolveDB(txn)
	if err != nil {
		return err
	}
	tmpCommitTimestamp := CommitTimestamp{
		ID:        commitTimestampRowId,
		Timestamp: timestamp,
	}
	result := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"timestamp"}),
	}).Create(&tmpCommitTimestamp)
	return result.Error
}
