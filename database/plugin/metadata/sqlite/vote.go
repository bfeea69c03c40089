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
)

// GetVote returns the ballot cast by the given voter on the given proposal,
// or nil if the voter has not voted
func (d *MetadataStoreSqlite) GetVote(
	proposalId uint64,
	voter string,
	txn types.Txn,
) (*models.Vote, error) {
	db, err := d.resolveDB(txn)
	if err != nil {
		return nil, err
	}
	ret := models.Vote{}
	result := db.
		Where("proposal_id = ? AND voter = ?", proposalId, voter).
		First(&ret)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return &ret, nil
}

// GetVotesByProposal returns all ballots on the given proposal in cast order
func (d *MetadataStoreSqlite) GetVotesByProposal(
	proposalId uint64,
	txn types.Txn,
) ([]models.Vote, error) {
	db, err := d.resolveDB(txn)
	if err != nil {
		return nil, err
	}
	var ret []models.Vote
	result := db.
		Where("proposal_id = ?", proposalId).
		Order("id").
		Find(&ret)
	if result.Error != nil {
		return nil, result.Error
	}
	return ret, nil
}

// SetVote records a ballot. Ballots are insert-only; the unique index on
// (proposal_id, voter) rejects a second ballot from the same resolved voter.
func (d *MetadataStoreSqlite) SetVote(
	vote *models.Vote,
	txn types.Txn,
) error {
	db, err := d.resolveDB(txn)
	if err != nil {
		return err
	}
	result := db.Create(vote)
	return result.Error
}
