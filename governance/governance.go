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

package governance

import (
	"errors"
	"io"
	"log/slog"
	"sync"

	"github.com/blinklabs-io/gavel/database"
	"github.com/blinklabs-io/gavel/database/models"
	"github.com/blinklabs-io/gavel/database/types"
	"github.com/blinklabs-io/gavel/event"
	"github.com/prometheus/client_golang/prometheus"
)

type GovernanceConfig struct {
	PromRegistry prometheus.Registerer
	Logger       *slog.Logger
	EventBus     *event.EventBus
	Database     *database.Database
	Clock        Clock
	WeightPolicy WeightPolicy
	// Owner and Quorum seed the governance config the first time an engine
	// runs against an empty store. An existing store keeps its persisted
	// values and these are ignored.
	Owner  string
	Quorum uint64
}

// Governance is the proposal lifecycle engine. It creates proposals,
// records weighted ballots with delegation resolution, and finalizes
// proposals against the quorum threshold. All state lives in the metadata
// store; the engine itself only orchestrates.
type Governance struct {
	config          GovernanceConfig
	db              *database.Database
	clock           Clock
	weights         WeightPolicy
	metrics         *governanceMetrics
	proposalLocks   sync.Map // proposal ID -> *sync.Mutex
	configMutex     sync.Mutex
	delegationMutex sync.Mutex
}

func NewGovernance(cfg GovernanceConfig) (*Governance, error) {
	if cfg.Logger == nil {
		// Create logger to throw away logs
		// We do this so we don't have to add guards around every log operation
		cfg.Logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	cfg.Logger = cfg.Logger.With("component", "governance")
	if cfg.Database == nil {
		return nil, errors.New("no database provided")
	}
	g := &Governance{
		config:  cfg,
		db:      cfg.Database,
		clock:   cfg.Clock,
		weights: cfg.WeightPolicy,
	}
	if g.clock == nil {
		g.clock = WallClock{}
	}
	if g.weights == nil {
		g.weights = NewAssignedWeightPolicy(g.db.Metadata())
	}
	if cfg.PromRegistry != nil {
		g.initMetrics()
	}
	if err := g.loadConfig(); err != nil {
		return nil, err
	}
	return g, nil
}

// loadConfig reads the persisted governance config, seeding it from the
// engine config on first run, and primes the gauges from stored state
func (g *Governance) loadConfig() error {
	txn := g.db.MetadataTransaction(true)
	return txn.Do(func(txn *database.Txn) error {
		conf, err := g.db.Metadata().GetConfig(txn.Metadata())
		if err != nil {
			return err
		}
		if conf == nil {
			if g.config.Owner == "" {
				return errors.New("no initial governance owner provided")
			}
			conf = &models.GovernanceConfig{
				Owner:  g.config.Owner,
				Paused: false,
				Quorum: types.Uint64(g.config.Quorum),
			}
			if err := g.db.Metadata().SetConfig(conf, txn.Metadata()); err != nil {
				return err
			}
			g.config.Logger.Info(
				"initialized governance config",
				"owner", conf.Owner,
				"quorum", uint64(conf.Quorum),
			)
		} else {
			g.config.Logger.Debug(
				"loaded governance config",
				"owner", conf.Owner,
				"quorum", uint64(conf.Quorum),
				"paused", conf.Paused,
			)
		}
		delegations, err := g.db.Metadata().GetDelegations(txn.Metadata())
		if err != nil {
			return err
		}
		if g.metrics != nil {
			if conf.Paused {
				g.metrics.paused.Set(1)
			}
			g.metrics.delegations.Set(float64(len(delegations)))
		}
		return nil
	})
}

// proposalLock returns the mutex serializing mutations of a single
// proposal. Locks are created on first use and never discarded, matching
// the append-only proposal set.
func (g *Governance) proposalLock(proposalId uint64) *sync.Mutex {
	lock, _ := g.proposalLocks.LoadOrStore(proposalId, &sync.Mutex{})
	return lock.(*sync.Mutex)
}

// governanceConfig fetches the persisted config row within a transaction
func (g *Governance) governanceConfig(
	txn types.Txn,
) (*models.GovernanceConfig, error) {
	conf, err := g.db.Metadata().GetConfig(txn)
	if err != nil {
		return nil, err
	}
	if conf == nil {
		return nil, errors.New("governance config not initialized")
	}
	return conf, nil
}

// Config returns the current governance config: owner, paused flag, and
// quorum threshold
func (g *Governance) Config() (*models.GovernanceConfig, error) {
	var ret *models.GovernanceConfig
	txn := g.db.MetadataTransaction(false)
	err := txn.Do(func(txn *database.Txn) error {
		conf, err := g.governanceConfig(txn.Metadata())
		if err != nil {
			return err
		}
		ret = conf
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ret, nil
}
