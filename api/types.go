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

package api

import "github.com/blinklabs-io/gavel/database/models"

// RootResponse is returned by GET /.
type RootResponse struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// HealthResponse is returned by GET /health.
type HealthResponse struct {
	IsHealthy bool `json:"is_healthy"`
}

// ErrorResponse is the standard error body for all failed requests.
type ErrorResponse struct {
	StatusCode int    `json:"status_code"`
	Error      string `json:"error"`
	Message    string `json:"message"`
}

// CreateProposalRequest is the body for POST /api/v1/proposals. Duration
// is in ticks and must be present; zero is rejected by the engine.
type CreateProposalRequest struct {
	Description string  `json:"description"`
	Duration    *uint64 `json:"duration"`
}

// VoteRequest is the body for POST /api/v1/proposals/{id}/votes.
type VoteRequest struct {
	Support *bool `json:"support"`
}

// ExtendRequest is the body for POST /api/v1/proposals/{id}/extend.
type ExtendRequest struct {
	Extra *uint64 `json:"extra"`
}

// DelegateRequest is the body for POST /api/v1/delegations.
type DelegateRequest struct {
	Delegate string `json:"delegate"`
}

// QuorumRequest is the body for POST /api/v1/config/quorum.
type QuorumRequest struct {
	Quorum *uint64 `json:"quorum"`
}

// OwnerRequest is the body for POST /api/v1/config/owner.
type OwnerRequest struct {
	Owner string `json:"owner"`
}

// WeightRequest is the body for POST /api/v1/weights. A zero weight is
// valid and clears the member's voting power.
type WeightRequest struct {
	Member string  `json:"member"`
	Weight *uint64 `json:"weight"`
}

// ProposalResponse represents a proposal. Passed is null until the
// proposal has been executed.
type ProposalResponse struct {
	ProposalId  uint64 `json:"proposal_id"`
	Description string `json:"description"`
	Deadline    uint64 `json:"deadline"`
	YesWeight   uint64 `json:"yes_weight"`
	NoWeight    uint64 `json:"no_weight"`
	Executed    bool   `json:"executed"`
	Canceled    bool   `json:"canceled"`
	Passed      *bool  `json:"passed"`
	VotersCount uint64 `json:"voters_count"`
	CreatedTick uint64 `json:"created_tick"`
}

// VoteResponse represents a recorded ballot. Voter is the resolved
// identity the ballot counts for; Caller is who submitted it.
type VoteResponse struct {
	ProposalId uint64 `json:"proposal_id"`
	Voter      string `json:"voter"`
	Caller     string `json:"caller"`
	Support    bool   `json:"support"`
	Weight     uint64 `json:"weight"`
	CastTick   uint64 `json:"cast_tick"`
}

// ExecuteResponse is returned by POST /api/v1/proposals/{id}/execute.
type ExecuteResponse struct {
	ProposalId uint64 `json:"proposal_id"`
	Passed     bool   `json:"passed"`
}

// DelegationResponse represents a delegation edge. Delegate is empty and
// CreatedTick is zero when the member has no outgoing delegation.
// ResolvedVoter is only populated on single-member lookups.
type DelegationResponse struct {
	Member        string `json:"member"`
	Delegate      string `json:"delegate"`
	ResolvedVoter string `json:"resolved_voter,omitempty"`
	CreatedTick   uint64 `json:"created_tick"`
}

// ConfigResponse is returned by GET /api/v1/config.
type ConfigResponse struct {
	Owner  string `json:"owner"`
	Paused bool   `json:"paused"`
	Quorum uint64 `json:"quorum"`
}

// WeightResponse represents a member's assigned voting weight.
type WeightResponse struct {
	Member string `json:"member"`
	Weight uint64 `json:"weight"`
}

// EventResponse represents a journaled governance event.
type EventResponse struct {
	Seq       uint64 `json:"seq"`
	Type      string `json:"type"`
	Timestamp int64  `json:"timestamp"`
	Payload   any    `json:"payload"`
}

func proposalToResponse(p *models.Proposal) ProposalResponse {
	resp := ProposalResponse{
		ProposalId:  p.ID,
		Description: p.Description,
		Deadline:    p.Deadline,
		YesWeight:   uint64(p.YesWeight),
		NoWeight:    uint64(p.NoWeight),
		Executed:    p.Executed,
		Canceled:    p.Canceled,
		VotersCount: p.VotersCount,
		CreatedTick: p.CreatedTick,
	}
	if p.Executed {
		passed := p.Passed
		resp.Passed = &passed
	}
	return resp
}

func voteToResponse(v *models.Vote) VoteResponse {
	return VoteResponse{
		ProposalId: v.ProposalID,
		Voter:      v.Voter,
		Caller:     v.Caller,
		Support:    v.Support,
		Weight:     uint64(v.Weight),
		CastTick:   v.CastTick,
	}
}
