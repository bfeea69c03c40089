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

package metadata

import (
	"fmt"

	"github.com/blinklabs-io/gavel/database/models"
	"github.com/blinklabs-io/gavel/database/plugin"
	"github.com/blinklabs-io/gavel/database/types"
	"gorm.io/gorm"

	// Ensure the plugins self-register on startup
	_ "github.com/blinklabs-io/gavel/database/plugin/metadata/postgres"
	_ "github.com/blinklabs-io/gavel/database/plugin/metadata/sqlite"
)

// MetadataStore is the interface for governance metadata storage backends
type MetadataStore interface {
	AutoMigrate(...any) error
	Close() error
	DB() *gorm.DB
	Transaction() types.Txn
	GetCommitTimestamp() (int64, error)
	SetCommitTimestamp(types.Txn, int64) error

	// Governance config
	GetConfig(types.Txn) (*models.GovernanceConfig, error)
	SetConfig(*models.GovernanceConfig, types.Txn) error

	// Proposals
	NewProposal(
		description string,
		deadline uint64,
		createdTick uint64,
		txn types.Txn,
	) (*models.Proposal, error)
	GetProposal(uint64, types.Txn) (*models.Proposal, error)
	GetProposals(types.Txn) ([]models.Proposal, error)
	SetProposal(*models.Proposal, types.Txn) error

	// Votes
	GetVote(uint64, string, types.Txn) (*models.Vote, error)
	GetVotesByProposal(uint64, types.Txn) ([]models.Vote, error)
	SetVote(*models.Vote, types.Txn) error

	// Delegations
	GetDelegation(string, types.Txn) (*models.Delegation, error)
	GetDelegations(types.Txn) ([]models.Delegation, error)
	SetDelegation(*models.Delegation, types.Txn) error
	DeleteDelegation(string, types.Txn) error

	// Voting weights
	GetVotingWeight(string, types.Txn) (*models.VotingWeight, error)
	GetVotingWeights(types.Txn) ([]models.VotingWeight, error)
	SetVotingWeight(string, uint64, types.Txn) error
}

// New returns the started metadata plugin selected by name
func New(pluginName string) (MetadataStore, error) {
	// Get and start the plugin
	p, err := plugin.StartPlugin(plugin.PluginTypeMetadata, pluginName)
	if err != nil {
		return nil, err
	}

	// Type assert to MetadataStore interface
	metadataStore, ok := p.(MetadataStore)
	if !ok {
		return nil, fmt.Errorf(
			"plugin '%s' does not implement MetadataStore interface",
			pluginName,
		)
	}

	return metadataStore, nil
}
