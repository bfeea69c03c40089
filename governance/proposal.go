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
	"math"

	"github.com/blinklabs-io/gavel/database"
	"github.com/blinklabs-io/gavel/database/models"
	"github.com/blinklabs-io/gavel/database/types"
	"github.com/blinklabs-io/gavel/event"
)

// addChecked adds two tick or weight values, rejecting uint64 wraparound
func addChecked(a uint64, b uint64) (uint64, error) {
	if a > math.MaxUint64-b {
		return 0, ErrArithmeticOverflow
	}
	return a + b, nil
}

// CreateProposal opens a new proposal for voting. The caller must be the
// governance owner and governance must not be paused. The proposal deadline
// is the current tick plus votingPeriod, and the assigned proposal ID is
// returned.
func (g *Governance) CreateProposal(
	caller string,
	description string,
	votingPeriod uint64,
) (uint64, error) {
	if votingPeriod == 0 {
		return 0, fmt.Errorf(
			"%w: voting period must be nonzero",
			ErrInvalidState,
		)
	}
	now := g.clock.Now()
	deadline, err := addChecked(now, votingPeriod)
	if err != nil {
		return 0, err
	}
	var proposal *models.Proposal
	txn := g.db.MetadataTransaction(true)
	err = txn.Do(func(txn *database.Txn) error {
		conf, err := g.governanceConfig(txn.Metadata())
		if err != nil {
			return err
		}
		if caller != conf.Owner {
			return ErrUnauthorized
		}
		if conf.Paused {
			return ErrPaused
		}
		proposal, err = g.db.Metadata().NewProposal(
			description,
			deadline,
			now,
			txn.Metadata(),
		)
		return err
	})
	if err != nil {
		return 0, err
	}
	g.config.Logger.Info(
		"created proposal",
		"proposal_id", proposal.ID,
		"deadline", deadline,
	)
	if g.metrics != nil {
		g.metrics.proposalsCreated.Inc()
	}
	if g.config.EventBus != nil {
		g.config.EventBus.Publish(
			event.ProposalCreatedEventType,
			event.NewEvent(
				event.ProposalCreatedEventType,
				event.ProposalCreatedEvent{
					ProposalId:  proposal.ID,
					Creator:     caller,
					Description: description,
					Deadline:    deadline,
					Tick:        now,
				},
			),
		)
	}
	return proposal.ID, nil
}

// Vote records a ballot on a proposal. The caller is resolved through the
// delegation chain first, and the ballot is recorded under the resolved
// voter with that voter's weight. A resolved voter gets exactly one ballot
// per proposal, no matter how many callers resolve to them.
func (g *Governance) Vote(
	caller string,
	proposalId uint64,
	support bool,
) error {
	now := g.clock.Now()
	lock := g.proposalLock(proposalId)
	lock.Lock()
	defer lock.Unlock()
	var voteEvt event.VoteCastEvent
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
		proposal, err := g.db.Metadata().GetProposal(proposalId, mtxn)
		if err != nil {
			return err
		}
		if proposal == nil {
			return fmt.Errorf("%w: proposal %d", ErrNotFound, proposalId)
		}
		if proposal.Canceled {
			return fmt.Errorf(
				"%w: proposal %d is canceled",
				ErrInvalidState,
				proposalId,
			)
		}
		if proposal.Executed {
			return fmt.Errorf(
				"%w: proposal %d is already executed",
				ErrInvalidState,
				proposalId,
			)
		}
		if now >= proposal.Deadline {
			return fmt.Errorf("%w: voting period has ended", ErrInvalidState)
		}
		voter, err := g.resolveVoter(caller, mtxn)
		if err != nil {
			return err
		}
		weight, err := g.weights.Weight(voter, mtxn)
		if err != nil {
			return err
		}
		if weight == 0 {
			return ErrNoVotingPower
		}
		existing, err := g.db.Metadata().GetVote(proposalId, voter, mtxn)
		if err != nil {
			return err
		}
		if existing != nil {
			return ErrAlreadyVoted
		}
		if support {
			newWeight, err := addChecked(uint64(proposal.YesWeight), weight)
			if err != nil {
				return err
			}
			proposal.YesWeight = types.Uint64(newWeight)
		} else {
			newWeight, err := addChecked(uint64(proposal.NoWeight), weight)
			if err != nil {
				return err
			}
			proposal.NoWeight = types.Uint64(newWeight)
		}
		proposal.VotersCount++
		vote := &models.Vote{
			ProposalID: proposalId,
			Voter:      voter,
			Caller:     caller,
			Support:    support,
			Weight:     types.Uint64(weight),
			CastTick:   now,
		}
		if err := g.db.Metadata().SetVote(vote, mtxn); err != nil {
			return err
		}
		if err := g.db.Metadata().SetProposal(proposal, mtxn); err != nil {
			return err
		}
		voteEvt = event.VoteCastEvent{
			ProposalId: proposalId,
			Caller:     caller,
			Voter:      voter,
			Support:    support,
			Weight:     weight,
			Tick:       now,
		}
		return nil
	})
	if err != nil {
		return err
	}
	g.config.Logger.Debug(
		"recorded ballot",
		"proposal_id", proposalId,
		"voter", voteEvt.Voter,
		"support", support,
		"weight", voteEvt.Weight,
	)
	if g.metrics != nil {
		g.metrics.votesCast.Inc()
	}
	if g.config.EventBus != nil {
		g.config.EventBus.Publish(
			event.VoteCastEventType,
			event.NewEvent(event.VoteCastEventType, voteEvt),
		)
	}
	return nil
}

// ExecuteProposal finalizes a proposal after its voting window closes. The
// combined yes and no weight must meet the quorum threshold, and the
// returned outcome is true only when the yes tally strictly exceeds the no
// tally. Execution is irreversible.
func (g *Governance) ExecuteProposal(
	caller string,
	proposalId uint64,
) (bool, error) {
	now := g.clock.Now()
	lock := g.proposalLock(proposalId)
	lock.Lock()
	defer lock.Unlock()
	var execEvt event.ProposalExecutedEvent
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
		proposal, err := g.db.Metadata().GetProposal(proposalId, mtxn)
		if err != nil {
			return err
		}
		if proposal == nil {
			return fmt.Errorf("%w: proposal %d", ErrNotFound, proposalId)
		}
		if proposal.Canceled {
			return fmt.Errorf(
				"%w: proposal %d is canceled",
				ErrInvalidState,
				proposalId,
			)
		}
		if now < proposal.Deadline {
			return fmt.Errorf(
				"%w: voting period has not ended",
				ErrInvalidState,
			)
		}
		if proposal.Executed {
			return fmt.Errorf(
				"%w: proposal %d is already executed",
				ErrInvalidState,
				proposalId,
			)
		}
		total, err := addChecked(
			uint64(proposal.YesWeight),
			uint64(proposal.NoWeight),
		)
		if err != nil {
			// Tallies whose sum exceeds the uint64 range are above any
			// representable quorum
			total = math.MaxUint64
		}
		if total < uint64(conf.Quorum) {
			return ErrQuorumNotMet
		}
		passed := uint64(proposal.YesWeight) > uint64(proposal.NoWeight)
		proposal.Executed = true
		proposal.Passed = passed
		if err := g.db.Metadata().SetProposal(proposal, mtxn); err != nil {
			return err
		}
		execEvt = event.ProposalExecutedEvent{
			ProposalId: proposalId,
			Passed:     passed,
			YesWeight:  uint64(proposal.YesWeight),
			NoWeight:   uint64(proposal.NoWeight),
			Tick:       now,
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	outcome := "rejected"
	if execEvt.Passed {
		outcome = "passed"
	}
	g.config.Logger.Info(
		"executed proposal",
		"proposal_id", proposalId,
		"outcome", outcome,
		"yes_weight", execEvt.YesWeight,
		"no_weight", execEvt.NoWeight,
	)
	if g.metrics != nil {
		g.metrics.proposalsExecuted.WithLabelValues(outcome).Inc()
	}
	if g.config.EventBus != nil {
		g.config.EventBus.Publish(
			event.ProposalExecutedEventType,
			event.NewEvent(event.ProposalExecutedEventType, execEvt),
		)
	}
	return execEvt.Passed, nil
}

// CancelProposal withdraws a proposal before its voting window closes.
// Only the owner may cancel, and a canceled proposal can never be voted
// on, extended, or executed.
func (g *Governance) CancelProposal(caller string, proposalId uint64) error {
	now := g.clock.Now()
	lock := g.proposalLock(proposalId)
	lock.Lock()
	defer lock.Unlock()
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
		proposal, err := g.db.Metadata().GetProposal(proposalId, mtxn)
		if err != nil {
			return err
		}
		if proposal == nil {
			return fmt.Errorf("%w: proposal %d", ErrNotFound, proposalId)
		}
		if proposal.Executed {
			return fmt.Errorf(
				"%w: proposal %d is already executed",
				ErrInvalidState,
				proposalId,
			)
		}
		if proposal.Canceled {
			return fmt.Errorf(
				"%w: proposal %d is already canceled",
				ErrInvalidState,
				proposalId,
			)
		}
		if now >= proposal.Deadline {
			return fmt.Errorf("%w: voting period has ended", ErrInvalidState)
		}
		proposal.Canceled = true
		return g.db.Metadata().SetProposal(proposal, mtxn)
	})
	if err != nil {
		return err
	}
	g.config.Logger.Info(
		"canceled proposal",
		"proposal_id", proposalId,
	)
	if g.metrics != nil {
		g.metrics.proposalsCanceled.Inc()
	}
	if g.config.EventBus != nil {
		g.config.EventBus.Publish(
			event.ProposalCanceledEventType,
			event.NewEvent(
				event.ProposalCanceledEventType,
				event.ProposalCanceledEvent{
					ProposalId: proposalId,
					Tick:       now,
				},
			),
		)
	}
	return nil
}

// ExtendVotingPeriod moves a proposal's deadline further into the future.
// Only the owner may extend, only before the current deadline passes, and
// the deadline only ever moves forward.
func (g *Governance) ExtendVotingPeriod(
	caller string,
	proposalId uint64,
	extraTicks uint64,
) error {
	if extraTicks == 0 {
		return fmt.Errorf("%w: extension must be nonzero", ErrInvalidState)
	}
	now := g.clock.Now()
	lock := g.proposalLock(proposalId)
	lock.Lock()
	defer lock.Unlock()
	var extendEvt event.ProposalExtendedEvent
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
		proposal, err := g.db.Metadata().GetProposal(proposalId, mtxn)
		if err != nil {
			return err
		}
		if proposal == nil {
			return fmt.Errorf("%w: proposal %d", ErrNotFound, proposalId)
		}
		if proposal.Executed {
			return fmt.Errorf(
				"%w: proposal %d is already executed",
				ErrInvalidState,
				proposalId,
			)
		}
		if proposal.Canceled {
			return fmt.Errorf(
				"%w: proposal %d is canceled",
				ErrInvalidState,
				proposalId,
			)
		}
		if now >= proposal.Deadline {
			return fmt.Errorf("%w: voting period has ended", ErrInvalidState)
		}
		newDeadline, err := addChecked(proposal.Deadline, extraTicks)
		if err != nil {
			return err
		}
		extendEvt = event.ProposalExtendedEvent{
			ProposalId:  proposalId,
			OldDeadline: proposal.Deadline,
			NewDeadline: newDeadline,
			Tick:        now,
		}
		proposal.Deadline = newDeadline
		return g.db.Metadata().SetProposal(proposal, mtxn)
	})
	if err != nil {
		return err
	}
	g.config.Logger.Info(
		"extended proposal voting period",
		"proposal_id", proposalId,
		"old_deadline", extendEvt.OldDeadline,
		"new_deadline", extendEvt.NewDeadline,
	)
	if g.config.EventBus != nil {
		g.config.EventBus.Publish(
			event.ProposalExtendedEventType,
			event.NewEvent(event.ProposalExtendedEventType, extendEvt),
		)
	}
	return nil
}

// Proposal returns a single proposal by ID
func (g *Governance) Proposal(proposalId uint64) (*models.Proposal, error) {
	var ret *models.Proposal
	txn := g.db.MetadataTransaction(false)
	err := txn.Do(func(txn *database.Txn) error {
		proposal, err := g.db.Metadata().GetProposal(
			proposalId,
			txn.Metadata(),
		)
		if err != nil {
			return err
		}
		if proposal == nil {
			return fmt.Errorf("%w: proposal %d", ErrNotFound, proposalId)
		}
		ret = proposal
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ret, nil
}

// Proposals returns all proposals in creation order
func (g *Governance) Proposals() ([]models.Proposal, error) {
	var ret []models.Proposal
	txn := g.db.MetadataTransaction(false)
	err := txn.Do(func(txn *database.Txn) error {
		proposals, err := g.db.Metadata().GetProposals(txn.Metadata())
		if err != nil {
			return err
		}
		ret = proposals
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ret, nil
}

// Votes returns all recorded ballots for a proposal in cast order
func (g *Governance) Votes(proposalId uint64) ([]models.Vote, error) {
	var ret []models.Vote
	txn := g.db.MetadataTransaction(false)
	err := txn.Do(func(txn *database.Txn) error {
		mtxn := txn.Metadata()
		proposal, err := g.db.Metadata().GetProposal(proposalId, mtxn)
		if err != nil {
			return err
		}
		if proposal == nil {
			return fmt.Errorf("%w: proposal %d", ErrNotFound, proposalId)
		}
		votes, err := g.db.Metadata().GetVotesByProposal(proposalId, mtxn)
		if err != nil {
			return err
		}
		ret = votes
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ret, nil
}

// HasVoted reports whether the given resolved voter has a ballot on the
// proposal. The identity is checked as-is, without delegation resolution.
func (g *Governance) HasVoted(
	proposalId uint64,
	voter string,
) (bool, error) {
	var ret bool
	txn := g.db.MetadataTransaction(false)
	err := txn.Do(func(txn *database.Txn) error {
		mtxn := txn.Metadata()
		proposal, err := g.db.Metadata().GetProposal(proposalId, mtxn)
		if err != nil {
			return err
		}
		if proposal == nil {
			return fmt.Errorf("%w: proposal %d", ErrNotFound, proposalId)
		}
		vote, err := g.db.Metadata().GetVote(proposalId, voter, mtxn)
		if err != nil {
			return err
		}
		ret = vote != nil
		return nil
	})
	if err != nil {
		return false, err
	}
	return ret, nil
}
