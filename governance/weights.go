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
	"fmt"

	"github.com/blinklabs-io/gavel/database/plugin/metadata"
	"github.com/blinklabs-io/gavel/database/types"
)

// defaultVotingWeight is the weight used by the assigned-weight policy for
// members with no stored weight
const defaultVotingWeight = 1

// WeightPolicy determines the voting weight of a resolved voter. The policy
// is fixed when the engine is constructed, and the weight is read once per
// ballot at the moment of voting, never cached.
type WeightPolicy interface {
	Weight(voter string, txn types.Txn) (uint64, error)
}

// AssignedWeightPolicy reads administratively assigned weights from the
// metadata store. A voter with no stored weight, or with a stored weight of
// zero, votes with a weight of one.
type AssignedWeightPolicy struct {
	store metadata.MetadataStore
}

func NewAssignedWeightPolicy(
	store metadata.MetadataStore,
) *AssignedWeightPolicy {
	return &AssignedWeightPolicy{
		store: store,
	}
}

func (p *AssignedWeightPolicy) Weight(
	voter string,
	txn types.Txn,
) (uint64, error) {
	weight, err := p.store.GetVotingWeight(voter, txn)
	if err != nil {
		return 0, err
	}
	if weight == nil || uint64(weight.Weight) == 0 {
		return defaultVotingWeight, nil
	}
	return uint64(weight.Weight), nil
}

// BalanceFunc looks up a member's balance from an external source
type BalanceFunc func(member string) (uint64, error)

// BalanceWeightPolicy derives voting weight from an external balance lookup
// at call time. A lookup failure aborts the ballot rather than defaulting
// to zero, and a zero balance is rejected with ErrNoVotingPower.
type BalanceWeightPolicy struct {
	balanceOf BalanceFunc
}

func NewBalanceWeightPolicy(balanceOf BalanceFunc) *BalanceWeightPolicy {
	return &BalanceWeightPolicy{
		balanceOf: balanceOf,
	}
}

func (p *BalanceWeightPolicy) Weight(
	voter string,
	txn types.Txn,
) (uint64, error) {
	if p.balanceOf == nil {
		return 0, errors.New("no balance source configured")
	}
	balance, err := p.balanceOf(voter)
	if err != nil {
		return 0, fmt.Errorf("balance lookup failed: %w", err)
	}
	if balance == 0 {
		return 0, ErrNoVotingPower
	}
	return balance, nil
}
