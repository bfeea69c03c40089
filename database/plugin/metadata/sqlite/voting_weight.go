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

	"github.com/blinklabs-io/gavel/database/models"
	"github.com/blinklabs-io/gavel/database/types"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GetVotingWeight returns the assigned weight row for the given member, or
// nil if no weight has been assigned
func (d *MetadataStoreSqlite) GetVotingWeight(
	member string,
	txn types.Txn,
) (*models.VotingWeight, error) {
	db, err := d.resolveDB(txn)
	if err != nil {
		return nil, err
	}
	ret := models.VotingWeight{}
	result := db.
		Where("member = ?", member).
		First(&ret)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return &ret, nil
}

// GetVotingWeights returns all assigned weight rows
func (d *MetadataStoreSqlite) GetVotingWeights(
	txn types.Txn,
) ([]models.VotingWeight, error) {
	db, err := d.resolveDB(txn)
	if err != nil {
		return nil, err
	}
	var ret []models.VotingWeight
	result := db.Order("id").Find(&ret)
	if result.Error != nil {
		return nil, result.Error
	}
	return ret, nil
}

// SetVotingWeight stores the assigned weight for a member, replacing any
// existing assignment
func (d *MetadataStoreSqlite) SetVotingWeight(
	member string,
	weight uint64,
	txn types.Txn,
) error {
	db, err := d.resolveDB(txn)
	if err != nil {
		return err
	}
	tmpWeight := models.VotingWeight{
		Member: member,
		Weight: types.Uint64(weight),
	}
	result := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "member"}},
		DoUpdates: clause.AssignmentColumns([]string{"weight"}),
	}).Create(&tmpWeight)
	return result.Error
}
