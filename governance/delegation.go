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
	"github.com/blinklabs-io/gavel/database"
	"github.com/blinklabs-io/gavel/database/models"
	"github.com/blinklabs-io/gavel/database/types"
	"github.com/blinklabs-io/gavel/event"
)

// maxDelegationHops bounds delegation chain traversal. Resolution follows
// edges until no edge exists or the bound is reached, so a delegation cycle
// resolves to whichever member was reached at the bound instead of looping
// forever. Cycles are tolerated, not detected.
const maxDelegationHops = 10

// resolveVoter follows delegation edges from a member to the effective
// voter within a transaction
func (g *Governance) resolveVoter(
	member string,
	txn types.Txn,
) (string, error) {
	resolved := member
	for range maxDelegationHops {
		edge, err := g.db.Metadata().GetDelegation(resolved, txn)
		if err != nil {
			return "", err
		}
		if edge == nil {
			break
		}
		resolved = edge.Delegate
	}
	return resolved, nil
}

// ResolveVoter returns the effective voter a ballot from the given member
// would be recorded under
func (g *Governance) ResolveVoter(member string) (string, error) {
	var ret string
	txn := g.db.MetadataTransaction(false)
	err := txn.Do(func(txn *database.Txn) error {
		resolved, err := g.resolveVoter(member, txn.Metadata())
		if err != nil {
			return err
		}
		ret = resolved
		return nil
	})
	if err != nil {
		return "", err
	}
	return ret, nil
}

// Delegate hands the caller's vote to another participant. A participant
// holds at most one outgoing edge at a time and must revoke it before
// delegating elsewhere. Self-delegation and empty targets are rejected.
func (g *Governance) Delegate(caller string, delegate string) error {
	if delegate == "" || delegate == caller {
		return ErrInvalidTarget
	}
	now := g.clock.Now()
	g.delegationMutex.Lock()
	defer g.delegationMutex.Unlock()
	txn := g.db.MetadataTransaction(true)
	err := txn.Do(func(txn *database.Txn) error {
		mtxn := txn.Metadata()
		conf, err := g.governanceConfig(mtxn)
		if err != nil {
			return err
		}
		if conf.Paused {
			return ErrPaused
		}
		existing, err := g.db.Metadata().GetDelegation(caller, mtxn)
		if err != nil {
			return err
		}
		if existing != nil {
			return ErrAlreadyDelegated
		}
		edge := &models.Delegation{
			Delegator:   caller,
			Delegate:    delegate,
			CreatedTick: now,
		}
		return g.db.Metadata().SetDelegation(edge, mtxn)
	})
	if err != nil {
		return err
	}
	g.config.Logger.Debug(
		"created delegation",
		"delegator", caller,
		"delegate", delegate,
	)
	if g.metrics != nil {
		g.metrics.delegations.Inc()
	}
	if g.config.EventBus != nil {
		g.config.EventBus.Publish(
			event.DelegatedEventType,
			event.NewEvent(
				event.DelegatedEventType,
				event.DelegatedEvent{
					Delegator: caller,
					Delegate:  delegate,
					Tick:      now,
				},
			),
		)
	}
	return nil
}

// RevokeDelegation removes the caller's delegation edge so they vote for
// themselves again
func (g *Governance) RevokeDelegation(caller string) error {
	now := g.clock.Now()
	g.delegationMutex.Lock()
	defer g.delegationMutex.Unlock()
	var revokedDelegate string
	txn := g.db.MetadataTransaction(true)
	err := txn.Do(func(txn *database.Txn) error {
		mtxn := txn.Metadata()
		conf, err := g.governanceConfig(mtxn)
		if err != nil {
			return err
		}
		if conf.Paused {
			return ErrPaused
		}
		existing, err := g.db.Metadata().GetDelegation(caller, mtxn)
		if err != nil {
			return err
		}
		if existing == nil {
			return ErrNoDelegation
		}
		revokedDelegate = existing.Delegate
		return g.db.Metadata().DeleteDelegation(caller, mtxn)
	})
	if err != nil {
		return err
	}
	g.config.Logger.Debug(
		"revoked delegation",
		"delegator", caller,
		"delegate", revokedDelegate,
	)
	if g.metrics != nil {
		g.metrics.delegations.Dec()
	}
	if g.config.EventBus != nil {
		g.config.EventBus.Publish(
			event.DelegationRevokedEventType,
			event.NewEvent(
				event.DelegationRevokedEventType,
				event.DelegationRevokedEvent{
					Delegator: caller,
					Delegate:  revokedDelegate,
					Tick:      now,
				},
			),
		)
	}
	return nil
}

// DelegationOf returns the member's outgoing delegation edge, or nil when
// they have none
func (g *Governance) DelegationOf(
	member string,
) (*models.Delegation, error) {
	var ret *models.Delegation
	txn := g.db.MetadataTransaction(false)
	err := txn.Do(func(txn *database.Txn) error {
		edge, err := g.db.Metadata().GetDelegation(member, txn.Metadata())
		if err != nil {
			return err
		}
		ret = edge
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ret, nil
}

// Delegations returns all delegation edges
func (g *Governance) Delegations() ([]models.Delegation, error) {
	var ret []models.Delegation
	txn := g.db.MetadataTransaction(false)
	err := txn.Do(func(txn *database.Txn) error {
		edges, err := g.db.Metadata().GetDelegations(txn.Metadata())
		if err != nil {
			return err
		}
		ret = edges
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ret, nil
}
