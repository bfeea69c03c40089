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
	"fmt"

	"github.com/blinklabs-io/gavel/database"
	"github.com/blinklabs-io/gavel/database/models"
	"github.com/blinklabs-io/gavel/database/types"
	"github.com/blinklabs-io/gavel/event"
)

// SetVotingWeight assigns a member's voting weight. The weight is consulted
// by the assigned-weight policy; a weight of zero clears the assignment, so
// the member falls back to the default weight of one.
func (g *Governance) SetVotingWeight(
	caller string,
	member string,
	weight uint64,
) error {
	if member == "" {
		return ErrInvalidTarget
	}
	now := g.clock.Now()
	g.configMutex.Lock()
	defer g.configMutex.Unlock()
	var oldWeight uint64
	txn := g.db.MetadataTransaction(true)
	err := txn.Do(func(txn *database.Txn) error {
		mtxn := txn.Metadata()
		conf, err := g.governanceConfig(mtxn)
		if err != nil {
			return err
		}
		if caller != conf.Owner {
			return ErrUnauthorized
		}
		existing, err := g.db.Metadata().GetVotingWeight(member, mtxn)
		if err != nil {
			return err
		}
		if existing != nil {
			oldWeight = uint64(existing.Weight)
		}
		return g.db.Metadata().SetVotingWeight(member, weight, mtxn)
	})
	if err != nil {
		return err
	}
	g.config.Logger.Info(
		"assigned voting weight",
		"member", member,
		"old_weight", oldWeight,
		"new_weight", weight,
	)
	if g.config.EventBus != nil {
		g.config.EventBus.Publish(
			event.VotingWeightUpdatedEventType,
			event.NewEvent(
				event.VotingWeightUpdatedEventType,
				event.VotingWeightUpdatedEvent{
					Member:    member,
					OldWeight: oldWeight,
					NewWeight: weight,
					Tick:      now,
				},
			),
		)
	}
	return nil
}

// UpdateQuorum changes the quorum threshold for all future finalizations
func (g *Governance) UpdateQuorum(caller string, quorum uint64) error {
	now := g.clock.Now()
	g.configMutex.Lock()
	defer g.configMutex.Unlock()
	var oldQuorum uint64
	txn := g.db.MetadataTransaction(true)
	err := txn.Do(func(txn *database.Txn) error {
		mtxn := txn.Metadata()
		conf, err := g.governanceConfig(mtxn)
		if err != nil {
			return err
		}
		if caller != conf.Owner {
			return ErrUnauthorized
		}
		oldQuorum = uint64(conf.Quorum)
		conf.Quorum = types.Uint64(quorum)
		return g.db.Metadata().SetConfig(conf, mtxn)
	})
	if err != nil {
		return err
	}
	g.config.Logger.Info(
		"updated quorum",
		"old_quorum", oldQuorum,
		"new_quorum", quorum,
	)
	if g.config.EventBus != nil {
		g.config.EventBus.Publish(
			event.QuorumUpdatedEventType,
			event.NewEvent(
				event.QuorumUpdatedEventType,
				event.QuorumUpdatedEvent{
					OldQuorum: oldQuorum,
					NewQuorum: quorum,
					Tick:      now,
				},
			),
		)
	}
	return nil
}

// ChangeOwner transfers governance ownership to a new identity
func (g *Governance) ChangeOwner(caller string, newOwner string) error {
	if newOwner == "" {
		return ErrInvalidTarget
	}
	now := g.clock.Now()
	g.configMutex.Lock()
	defer g.configMutex.Unlock()
	var oldOwner string
	txn := g.db.MetadataTransaction(true)
	err := txn.Do(func(txn *database.Txn) error {
		mtxn := txn.Metadata()
		conf, err := g.governanceConfig(mtxn)
		if err != nil {
			return err
		}
		if caller != conf.Owner {
			return ErrUnauthorized
		}
		oldOwner = conf.Owner
		conf.Owner = newOwner
		return g.db.Metadata().SetConfig(conf, mtxn)
	})
	if err != nil {
		return err
	}
	g.config.Logger.Info(
		"changed governance owner",
		"old_owner", oldOwner,
		"new_owner", newOwner,
	)
	if g.config.EventBus != nil {
		g.config.EventBus.Publish(
			event.OwnerChangedEventType,
			event.NewEvent(
				event.OwnerChangedEventType,
				event.OwnerChangedEvent{
					OldOwner: oldOwner,
					NewOwner: newOwner,
					Tick:     now,
				},
			),
		)
	}
	return nil
}

// Pause suspends proposal creation, voting, execution, and delegation
// changes. Already-recorded state is untouched, and owner operations stay
// available while paused.
func (g *Governance) Pause(caller string) error {
	now := g.clock.Now()
	g.configMutex.Lock()
	defer g.configMutex.Unlock()
	txn := g.db.MetadataTransaction(true)
	err := txn.Do(func(txn *database.Txn) error {
		mtxn := txn.Metadata()
		conf, err := g.governanceConfig(mtxn)
		if err != nil {
			return err
		}
		if caller != conf.Owner {
			return ErrUnauthorized
		}
		if conf.Paused {
			return fmt.Errorf("%w: already paused", ErrInvalidState)
		}
		conf.Paused = true
		return g.db.Metadata().SetConfig(conf, mtxn)
	})
	if err != nil {
		return err
	}
	g.config.Logger.Info("paused governance")
	if g.metrics != nil {
		g.metrics.paused.Set(1)
	}
	if g.config.EventBus != nil {
		g.config.EventBus.Publish(
			event.PausedEventType,
			event.NewEvent(
				event.PausedEventType,
				event.PausedEvent{
					Tick: now,
				},
			),
		)
	}
	return nil
}

// Unpause resumes normal operation after a pause
func (g *Governance) Unpause(caller string) error {
	now := g.clock.Now()
	g.configMutex.Lock()
	defer g.configMutex.Unlock()
	txn := g.db.MetadataTransaction(true)
	err := txn.Do(func(txn *database.Txn) error {
		mtxn := txn.Metadata()
		conf, err := g.governanceConfig(mtxn)
		if err != nil {
			return err
		}
		if caller != conf.Owner {
			return ErrUnauthorized
		}
		if !conf.Paused {
			return fmt.Errorf("%w: not paused", ErrInvalidState)
		}
		conf.Paused = false
		return g.db.Metadata().SetConfig(conf, mtxn)
	})
	if err != nil {
		return err
	}
	g.config.Logger.Info("unpaused governance")
	if g.metrics != nil {
		g.metrics.paused.Set(0)
	}
	if g.config.EventBus != nil {
		g.config.EventBus.Publish(
			event.UnpausedEventType,
			event.NewEvent(
				event.UnpausedEventType,
				event.UnpausedEvent{
					Tick: now,
				},
			),
		)
	}
	return nil
}

// VotingWeightOf returns the member's stored assigned weight, or zero when
// none has been assigned. This is the raw stored value, not the effective
// ballot weight under the configured policy.
func (g *Governance) VotingWeightOf(member string) (uint64, error) {
	var ret uint64
	txn := g.db.MetadataTransaction(false)
	err := txn.Do(func(txn *database.Txn) error {
		weight, err := g.db.Metadata().GetVotingWeight(member, txn.Metadata())
		if err != nil {
			return err
		}
		if weight != nil {
			ret = uint64(weight.Weight)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return ret, nil
}

// VotingWeights returns all stored weight assignments
func (g *Governance) VotingWeights() ([]models.VotingWeight, error) {
	var ret []models.VotingWeight
	txn := g.db.MetadataTransaction(false)
	err := txn.Do(func(txn *database.Txn) error {
		weights, err := g.db.Metadata().GetVotingWeights(txn.Metadata())
		if err != nil {
			return err
		}
		ret = weights
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ret, nil
}
