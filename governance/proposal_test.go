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

package governance_test

import (
	"math"
	"testing"

	"github.com/blinklabs-io/gavel/governance"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateProposal(t *testing.T) {
	g, _ := setupTestGovernance(t)
	// Only the owner may create proposals
	_, err := g.CreateProposal("bob", "rename the project", 50)
	assert.ErrorIs(t, err, governance.ErrUnauthorized)
	// A zero voting period is rejected
	_, err = g.CreateProposal(testOwner, "rename the project", 0)
	assert.ErrorIs(t, err, governance.ErrInvalidState)
	// IDs are assigned sequentially from 1
	firstId, err := g.CreateProposal(testOwner, "rename the project", 50)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), firstId)
	secondId, err := g.CreateProposal(testOwner, "adopt a mascot", 75)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), secondId)
	// Deadline is the creation tick plus the voting period
	proposal, err := g.Proposal(secondId)
	require.NoError(t, err)
	assert.Equal(t, "adopt a mascot", proposal.Description)
	assert.Equal(t, uint64(175), proposal.Deadline)
	assert.Equal(t, uint64(100), proposal.CreatedTick)
	// Deadline arithmetic must not wrap
	_, err = g.CreateProposal(testOwner, "overflow", math.MaxUint64)
	assert.ErrorIs(t, err, governance.ErrArithmeticOverflow)
}

func TestProposalNotFound(t *testing.T) {
	g, _ := setupTestGovernance(t)
	// ID zero is never a valid proposal
	_, err := g.Proposal(0)
	assert.ErrorIs(t, err, governance.ErrNotFound)
	err = g.Vote("xavier", 0, true)
	assert.ErrorIs(t, err, governance.ErrNotFound)
	_, err = g.ExecuteProposal("xavier", 99)
	assert.ErrorIs(t, err, governance.ErrNotFound)
	err = g.CancelProposal(testOwner, 99)
	assert.ErrorIs(t, err, governance.ErrNotFound)
	err = g.ExtendVotingPeriod(testOwner, 99, 10)
	assert.ErrorIs(t, err, governance.ErrNotFound)
}

// TestQuorumGate walks a proposal through the quorum threshold: combined
// yes and no weight of 9 against a quorum of 10 can never finalize, while
// 11 finalizes with the yes majority winning.
func TestQuorumGate(t *testing.T) {
	g, clock := setupTestGovernance(t)
	require.NoError(t, g.SetVotingWeight(testOwner, "xavier", 6))
	require.NoError(t, g.SetVotingWeight(testOwner, "yolanda", 3))
	require.NoError(t, g.SetVotingWeight(testOwner, "zoe", 2))
	// First proposal: 6 yes + 3 no = 9, below the quorum of 10
	shortId, err := g.CreateProposal(testOwner, "short of quorum", 50)
	require.NoError(t, err)
	require.NoError(t, g.Vote("xavier", shortId, true))
	require.NoError(t, g.Vote("yolanda", shortId, false))
	// Execution before the deadline is rejected regardless of tallies
	_, err = g.ExecuteProposal("xavier", shortId)
	assert.ErrorIs(t, err, governance.ErrInvalidState)
	clock.Advance(60)
	// Past the deadline the combined weight still gates finalization, so
	// this proposal can never be finalized as-is
	_, err = g.ExecuteProposal("xavier", shortId)
	assert.ErrorIs(t, err, governance.ErrQuorumNotMet)
	_, err = g.ExecuteProposal("xavier", shortId)
	assert.ErrorIs(t, err, governance.ErrQuorumNotMet)
	// Second proposal: the same ballots plus 2 more yes meet the quorum
	metId, err := g.CreateProposal(testOwner, "meets quorum", 50)
	require.NoError(t, err)
	require.NoError(t, g.Vote("xavier", metId, true))
	require.NoError(t, g.Vote("yolanda", metId, false))
	require.NoError(t, g.Vote("zoe", metId, true))
	clock.Advance(60)
	passed, err := g.ExecuteProposal("xavier", metId)
	require.NoError(t, err)
	assert.True(t, passed)
	proposal, err := g.Proposal(metId)
	require.NoError(t, err)
	assert.True(t, proposal.Executed)
	assert.True(t, proposal.Passed)
	assert.Equal(t, uint64(8), uint64(proposal.YesWeight))
	assert.Equal(t, uint64(3), uint64(proposal.NoWeight))
	assert.Equal(t, uint64(3), proposal.VotersCount)
	// Execution is irreversible
	_, err = g.ExecuteProposal("xavier", metId)
	assert.ErrorIs(t, err, governance.ErrInvalidState)
	err = g.CancelProposal(testOwner, metId)
	assert.ErrorIs(t, err, governance.ErrInvalidState)
}

// TestTieFailsToPass pins the quorum comparison to the combined yes+no
// weight: 3 yes and 3 no pass a quorum of 5 but a tie never passes.
func TestTieFailsToPass(t *testing.T) {
	g, clock := setupTestGovernance(t)
	require.NoError(t, g.UpdateQuorum(testOwner, 5))
	require.NoError(t, g.SetVotingWeight(testOwner, "xavier", 3))
	require.NoError(t, g.SetVotingWeight(testOwner, "yolanda", 3))
	proposalId, err := g.CreateProposal(testOwner, "tied outcome", 50)
	require.NoError(t, err)
	require.NoError(t, g.Vote("xavier", proposalId, true))
	require.NoError(t, g.Vote("yolanda", proposalId, false))
	clock.Advance(60)
	passed, err := g.ExecuteProposal("xavier", proposalId)
	require.NoError(t, err)
	assert.False(t, passed)
	proposal, err := g.Proposal(proposalId)
	require.NoError(t, err)
	assert.True(t, proposal.Executed)
	assert.False(t, proposal.Passed)
}

func TestVoteGuards(t *testing.T) {
	g, clock := setupTestGovernance(t)
	proposalId, err := g.CreateProposal(testOwner, "vote guards", 50)
	require.NoError(t, err)
	require.NoError(t, g.Vote("xavier", proposalId, true))
	// A resolved voter gets exactly one ballot
	err = g.Vote("xavier", proposalId, true)
	assert.ErrorIs(t, err, governance.ErrAlreadyVoted)
	err = g.Vote("xavier", proposalId, false)
	assert.ErrorIs(t, err, governance.ErrAlreadyVoted)
	// Voting closes at the deadline
	clock.Advance(60)
	err = g.Vote("yolanda", proposalId, true)
	assert.ErrorIs(t, err, governance.ErrInvalidState)
	// The failed ballots left no trace
	proposal, err := g.Proposal(proposalId)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), proposal.VotersCount)
	assert.Equal(t, uint64(1), uint64(proposal.YesWeight))
	assert.Equal(t, uint64(0), uint64(proposal.NoWeight))
}

func TestCancelProposal(t *testing.T) {
	g, clock := setupTestGovernance(t)
	proposalId, err := g.CreateProposal(testOwner, "cancel me", 50)
	require.NoError(t, err)
	// Only the owner may cancel
	err = g.CancelProposal("bob", proposalId)
	assert.ErrorIs(t, err, governance.ErrUnauthorized)
	require.NoError(t, g.CancelProposal(testOwner, proposalId))
	proposal, err := g.Proposal(proposalId)
	require.NoError(t, err)
	assert.True(t, proposal.Canceled)
	// A canceled proposal is absorbing: no votes, execution, extension, or
	// second cancel
	err = g.Vote("xavier", proposalId, true)
	assert.ErrorIs(t, err, governance.ErrInvalidState)
	_, err = g.ExecuteProposal("xavier", proposalId)
	assert.ErrorIs(t, err, governance.ErrInvalidState)
	err = g.ExtendVotingPeriod(testOwner, proposalId, 10)
	assert.ErrorIs(t, err, governance.ErrInvalidState)
	err = g.CancelProposal(testOwner, proposalId)
	assert.ErrorIs(t, err, governance.ErrInvalidState)
	// Cancellation is only possible while voting is open
	lateId, err := g.CreateProposal(testOwner, "too late to cancel", 50)
	require.NoError(t, err)
	clock.Advance(60)
	err = g.CancelProposal(testOwner, lateId)
	assert.ErrorIs(t, err, governance.ErrInvalidState)
}

// TestExtendVotingPeriod extends a deadline twice and verifies voting stays
// open past the original deadline because the effective deadline moved.
func TestExtendVotingPeriod(t *testing.T) {
	g, clock := setupTestGovernance(t)
	proposalId, err := g.CreateProposal(testOwner, "needs more time", 50)
	require.NoError(t, err)
	proposal, err := g.Proposal(proposalId)
	require.NoError(t, err)
	originalDeadline := proposal.Deadline
	require.Equal(t, uint64(150), originalDeadline)
	// Only the owner may extend, and only by a nonzero amount
	err = g.ExtendVotingPeriod("bob", proposalId, 10)
	assert.ErrorIs(t, err, governance.ErrUnauthorized)
	err = g.ExtendVotingPeriod(testOwner, proposalId, 0)
	assert.ErrorIs(t, err, governance.ErrInvalidState)
	// Each extension strictly increases the deadline
	require.NoError(t, g.ExtendVotingPeriod(testOwner, proposalId, 30))
	proposal, err = g.Proposal(proposalId)
	require.NoError(t, err)
	assert.Equal(t, uint64(180), proposal.Deadline)
	require.NoError(t, g.ExtendVotingPeriod(testOwner, proposalId, 20))
	proposal, err = g.Proposal(proposalId)
	require.NoError(t, err)
	assert.Equal(t, uint64(200), proposal.Deadline)
	// Voting still succeeds past the original deadline
	clock.Advance(60)
	require.Greater(t, clock.Now(), originalDeadline)
	require.NoError(t, g.Vote("xavier", proposalId, true))
	// Extension stops once the effective deadline passes
	clock.Advance(50)
	err = g.ExtendVotingPeriod(testOwner, proposalId, 10)
	assert.ErrorIs(t, err, governance.ErrInvalidState)
	// The deadline must not wrap
	extId, err := g.CreateProposal(testOwner, "overflow extension", 50)
	require.NoError(t, err)
	err = g.ExtendVotingPeriod(testOwner, extId, math.MaxUint64)
	assert.ErrorIs(t, err, governance.ErrArithmeticOverflow)
}

func TestTallyOverflowRejected(t *testing.T) {
	g, clock := setupTestGovernance(t)
	require.NoError(t, g.SetVotingWeight(testOwner, "whale", math.MaxUint64))
	require.NoError(t, g.SetVotingWeight(testOwner, "minnow", 5))
	proposalId, err := g.CreateProposal(testOwner, "tally overflow", 50)
	require.NoError(t, err)
	require.NoError(t, g.Vote("whale", proposalId, true))
	// A yes ballot that would wrap the yes tally is rejected whole
	err = g.Vote("minnow", proposalId, true)
	assert.ErrorIs(t, err, governance.ErrArithmeticOverflow)
	hasVoted, err := g.HasVoted(proposalId, "minnow")
	require.NoError(t, err)
	assert.False(t, hasVoted)
	// The same voter can still land on the other tally
	require.NoError(t, g.Vote("minnow", proposalId, false))
	proposal, err := g.Proposal(proposalId)
	require.NoError(t, err)
	assert.Equal(t, uint64(math.MaxUint64), uint64(proposal.YesWeight))
	assert.Equal(t, uint64(5), uint64(proposal.NoWeight))
	assert.Equal(t, uint64(2), proposal.VotersCount)
	// Execution still works with saturated tallies
	clock.Advance(60)
	passed, err := g.ExecuteProposal("whale", proposalId)
	require.NoError(t, err)
	assert.True(t, passed)
}

func TestVotesAndHasVoted(t *testing.T) {
	g, _ := setupTestGovernance(t)
	proposalId, err := g.CreateProposal(testOwner, "ballot listing", 50)
	require.NoError(t, err)
	require.NoError(t, g.Vote("xavier", proposalId, true))
	require.NoError(t, g.Vote("yolanda", proposalId, false))
	votes, err := g.Votes(proposalId)
	require.NoError(t, err)
	require.Len(t, votes, 2)
	assert.Equal(t, "xavier", votes[0].Voter)
	assert.True(t, votes[0].Support)
	assert.Equal(t, "yolanda", votes[1].Voter)
	assert.False(t, votes[1].Support)
	hasVoted, err := g.HasVoted(proposalId, "xavier")
	require.NoError(t, err)
	assert.True(t, hasVoted)
	hasVoted, err = g.HasVoted(proposalId, "zoe")
	require.NoError(t, err)
	assert.False(t, hasVoted)
	_, err = g.Votes(99)
	assert.ErrorIs(t, err, governance.ErrNotFound)
	_, err = g.HasVoted(99, "xavier")
	assert.ErrorIs(t, err, governance.ErrNotFound)
	proposals, err := g.Proposals()
	require.NoError(t, err)
	assert.Len(t, proposals, 1)
}
