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
	"testing"

	"github.com/blinklabs-io/gavel/governance"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDelegateValidation(t *testing.T) {
	g, _ := setupTestGovernance(t)
	// Empty and self targets are rejected
	err := g.Delegate("ann", "")
	assert.ErrorIs(t, err, governance.ErrInvalidTarget)
	err = g.Delegate("ann", "ann")
	assert.ErrorIs(t, err, governance.ErrInvalidTarget)
}

// TestDelegateRevokeRedelegate covers the one-edge-per-participant rule: a
// second delegation requires revoking the first.
func TestDelegateRevokeRedelegate(t *testing.T) {
	g, _ := setupTestGovernance(t)
	require.NoError(t, g.Delegate("ann", "bea"))
	err := g.Delegate("ann", "cal")
	assert.ErrorIs(t, err, governance.ErrAlreadyDelegated)
	// Revoking without an edge is rejected
	err = g.RevokeDelegation("cal")
	assert.ErrorIs(t, err, governance.ErrNoDelegation)
	require.NoError(t, g.RevokeDelegation("ann"))
	err = g.RevokeDelegation("ann")
	assert.ErrorIs(t, err, governance.ErrNoDelegation)
	require.NoError(t, g.Delegate("ann", "cal"))
	edge, err := g.DelegationOf("ann")
	require.NoError(t, err)
	require.NotNil(t, edge)
	assert.Equal(t, "cal", edge.Delegate)
	edges, err := g.Delegations()
	require.NoError(t, err)
	assert.Len(t, edges, 1)
}

func TestResolveVoterChain(t *testing.T) {
	g, _ := setupTestGovernance(t)
	// No edges resolves to the member themselves
	resolved, err := g.ResolveVoter("dan")
	require.NoError(t, err)
	assert.Equal(t, "dan", resolved)
	// Multi-hop chains resolve to the end of the chain
	require.NoError(t, g.Delegate("ann", "bea"))
	require.NoError(t, g.Delegate("bea", "cal"))
	resolved, err = g.ResolveVoter("ann")
	require.NoError(t, err)
	assert.Equal(t, "cal", resolved)
	resolved, err = g.ResolveVoter("bea")
	require.NoError(t, err)
	assert.Equal(t, "cal", resolved)
}

// TestDelegationCycleResolution builds the cycle ann -> bea -> cal -> ann
// and verifies resolution terminates at the hop bound instead of looping.
// Ten hops from ann land on bea.
func TestDelegationCycleResolution(t *testing.T) {
	g, _ := setupTestGovernance(t)
	require.NoError(t, g.Delegate("ann", "bea"))
	require.NoError(t, g.Delegate("bea", "cal"))
	require.NoError(t, g.Delegate("cal", "ann"))
	resolved, err := g.ResolveVoter("ann")
	require.NoError(t, err)
	assert.Equal(t, "bea", resolved)
	resolved, err = g.ResolveVoter("bea")
	require.NoError(t, err)
	assert.Equal(t, "cal", resolved)
	// A voter outside the cycle delegating into it terminates as well
	require.NoError(t, g.Delegate("dan", "ann"))
	resolved, err = g.ResolveVoter("dan")
	require.NoError(t, err)
	assert.Equal(t, "ann", resolved)
}

// TestVoteThroughDelegation verifies ballots are recorded under the
// resolved voter with that voter's weight, and that all callers resolving
// to the same voter collide on the single ballot.
func TestVoteThroughDelegation(t *testing.T) {
	g, _ := setupTestGovernance(t)
	require.NoError(t, g.SetVotingWeight(testOwner, "bea", 4))
	require.NoError(t, g.Delegate("ann", "bea"))
	proposalId, err := g.CreateProposal(testOwner, "delegated ballots", 50)
	require.NoError(t, err)
	// ann's ballot lands under bea with bea's weight
	require.NoError(t, g.Vote("ann", proposalId, true))
	votes, err := g.Votes(proposalId)
	require.NoError(t, err)
	require.Len(t, votes, 1)
	assert.Equal(t, "bea", votes[0].Voter)
	assert.Equal(t, "ann", votes[0].Caller)
	assert.Equal(t, uint64(4), uint64(votes[0].Weight))
	hasVoted, err := g.HasVoted(proposalId, "bea")
	require.NoError(t, err)
	assert.True(t, hasVoted)
	hasVoted, err = g.HasVoted(proposalId, "ann")
	require.NoError(t, err)
	assert.False(t, hasVoted)
	// bea voting directly collides with the delegated ballot
	err = g.Vote("bea", proposalId, false)
	assert.ErrorIs(t, err, governance.ErrAlreadyVoted)
	// Another caller delegating to bea collides as well
	require.NoError(t, g.Delegate("cal", "bea"))
	err = g.Vote("cal", proposalId, false)
	assert.ErrorIs(t, err, governance.ErrAlreadyVoted)
	proposal, err := g.Proposal(proposalId)
	require.NoError(t, err)
	assert.Equal(t, uint64(4), uint64(proposal.YesWeight))
	assert.Equal(t, uint64(1), proposal.VotersCount)
	// After ann revokes, their own ballot is independent of bea's
	require.NoError(t, g.RevokeDelegation("ann"))
	require.NoError(t, g.Vote("ann", proposalId, false))
	proposal, err = g.Proposal(proposalId)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), uint64(proposal.NoWeight))
	assert.Equal(t, uint64(2), proposal.VotersCount)
}
