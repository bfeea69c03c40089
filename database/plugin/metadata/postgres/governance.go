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

package postgres

import (
	"errors"

	"github.com/blinklabs-io/gavel/database/models"
	"github.com/blinklabs-io/gavel/database/types"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GetConfig returns the governance config row, or nil if it has not been
// written yet
func (d *MetadataStorePostgres) GetConfig(
	txn types.Txn,
) (*models.GovernanceConfig, error) {
	db, err := d.resolveDB(txn)
	if err != nil {
		return nil, err
	}
	ret := models.GovernanceConfig{}
	result := db.First(&ret, models.GovernanceConfigID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return &ret, nil
}

// SetConfig stores the governance config row, replacing any existing row
func (d *MetadataStorePostgres) SetConfig(
	config *models.GovernanceConfig,
	txn types.Txn,
) error {
	db, err := d.resolveDB(txn)
	if err != nil {
		return err
	}
	config.ID = models.GovernanceConfigID
	result := db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns(
			[]string{"owner", "paused", "quorum"},
		),
	}).Create(config)
	return result.Error
}

// NewProposal creates a proposal row and returns it with the assigned ID
func (d *MetadataStorePostgres) NewProposal(
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
func (d *MetadataStorePostgres) GetProposal(
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
func (d *MetadataStorePostgres) GetProposals(
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
func (d *MetadataStorePostgres) SetProposal(
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

// GetVote returns the ballot cast by the given voter on the given proposal,
// or nil if the voter has not voted
func (d *MetadataStorePostgres) GetVote(
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
func (d *MetadataStorePostgres) GetVotesByProposal(
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
func (d *MetadataStorePostgres) SetVote(
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

// GetDelegation returns the delegation edge for the given delegator, or nil
// if the delegator has no active delegation
func (d *MetadataStorePostgres) GetDelegation(
	delegator string,
	txn types.Txn,
) (*models.Delegation, error) {
	db, err := d.resolveDB(txn)
	if err != nil {
		return nil, err
	}
	ret := models.Delegation{}
	result := db.
		Where("delegator = ?", delegator).
		First(&ret)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return &ret, nil
}

// GetDelegations returns all active delegation edges
func (d *MetadataStorePostgres) GetDelegations(
	txn types.Txn,
) ([]models.Delegation, error) {
	db, err := d.resolveDB(txn)
	if err != nil {
		return nil, err
	}
	var ret []models.Delegation
	result := db.Order("id").Find(&ret)
	if result.Error != nil {
		return nil, result.Error
	}
	return ret, nil
}

// SetDelegation records a delegation edge. Edges are insert-only; the unique
// index on delegator rejects a second edge while one is active.
func (d *MetadataStorePostgres) SetDelegation(
	delegation *models.Delegation,
	txn types.Txn,
) error {
	db, err := d.resolveDB(txn)
	if err != nil {
		return err
	}
	result := db.Create(delegation)
	return result.Error
}

// DeleteDelegation removes the delegation edge for the given delegator
func (d *MetadataStorePostgres) DeleteDelegation(
	delegator string,
	txn types.Txn,
) error {
	db, err := d.resolveDB(txn)
	if err != nil {
		return err
	}
	result := db.
		Where("delegator = ?", delegator).
		Delete(&models.Delegation{})
	return result.Error
}

// GetVotingWeight returns the assigned weight row for the given member, or
// nil if no weight has been assigned
func (d *MetadataStorePostgres) GetVotingWeight(
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
func (d *MetadataStorePostgres) GetVotingWeights(
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
func (d *MetadataStorePostgres) SetVotingWeight(
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
