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

// NewProposal creates a proposal row and returns it with the assigned ID.
// IDs are allocated by the database starting at 1 and are never reused.
func (d *MetadataStoreSqlite) NewProposal(
	description string,
	deadline uint64,
	createdTick uint64,
	txn types.Txn,
) (*models.Proposal, error) {
	db, err := d.resolveDB(txn)
	if err != nil {
		return nil, err
	}
	tmpProposal := models.Proposal{
		Description: description,
		Deadline:    deadline,
		CreatedTick: createdTick,
	}
	result := db.Create(&tmpProposal)
	if result.Error != nil {
		return nil, result.Error
	}
	return &tmpProposal, nil
}

// GetProposal returns the proposal with the given ID, or nil if none exists
func (d *MetadataStoreSqlite) GetProposal(
	proposalId uint64,
	txn types.Txn,
) (*models.Proposal, error) {
	db, err := d.resolveDB(txn)
	if err != nil {
		return nil, err
	}
	ret := models.Proposal{}
	result := db.First(&ret, proposalId)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return &ret, nil
}

// GetProposals returns all proposals in ID order
func (d *MetadataStoreSqlite) GetProposals(
	txn types.Txn,
) ([]models.Proposal, error) {
	db, err := d.resolveDB(txn)
	if err != nil {
		return nil, err
	}
	var ret []models.Proposal
	result := db.Order("id").Find(&ret)
	if result.Error != nil {
		return nil, result.Error
	}
	return ret, nil
}

// SetProposal updates the mutable fields of an existing proposal row. The
// description and creation tick are fixed at creation and never rewritten.
func (d *MetadataStoreSqlite) SetProposal(
	proposal *models.Proposal,
	txn types.Txn,
) error {
	db, err := d.resolveDB(txn)
	if err != nil {
		return err
	}
	result := db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns(
			[]string{
				"deadline",
				"yes_weight",
				"no_weight",
				"executed",
				"canceled",
				"passed",
				"voters_count",
			},
		),
	}).Create(proposal)
	return result.Error
}
