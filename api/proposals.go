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

import (
	"net/http"
	"slices"
)

// handleListProposals handles GET /api/v1/proposals and returns the
// proposal set, paginated in id order.
func (a *Api) handleListProposals(
	w http.ResponseWriter,
	r *http.Request,
) {
	pq, err := parsePageQuery(r)
	if err != nil {
		a.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	proposals, err := a.governance.Proposals()
	if err != nil {
		a.writeGovernanceError(w, err)
		return
	}
	if pq.Order == orderDesc {
		slices.Reverse(proposals)
	}
	writePageHeaders(w, len(proposals), pq)
	start, end := pageBounds(len(proposals), pq)
	resp := []ProposalResponse{}
	for i := start; i < end; i++ {
		resp = append(resp, proposalToResponse(&proposals[i]))
	}
	a.writeJSON(w, http.StatusOK, resp)
}

// handleCreateProposal handles POST /api/v1/proposals. The new proposal
// is returned so the caller learns its assigned id.
func (a *Api) handleCreateProposal(
	w http.ResponseWriter,
	r *http.Request,
) {
	caller, ok := a.actor(w, r)
	if !ok {
		return
	}
	var req CreateProposalRequest
	if err := decodeRequest(w, r, &req); err != nil {
		a.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Duration == nil {
		a.writeError(w, http.StatusBadRequest, "missing duration")
		return
	}
	id, err := a.governance.CreateProposal(
		caller,
		req.Description,
		*req.Duration,
	)
	if err != nil {
		a.writeGovernanceError(w, err)
		return
	}
	proposal, err := a.governance.Proposal(id)
	if err != nil {
		a.writeGovernanceError(w, err)
		return
	}
	a.writeJSON(
		w,
		http.StatusCreated,
		proposalToResponse(proposal),
	)
}

// handleGetProposal handles GET /api/v1/proposals/{id}.
func (a *Api) handleGetProposal(
	w http.ResponseWriter,
	r *http.Request,
) {
	id, ok := a.proposalId(w, r)
	if !ok {
		return
	}
	proposal, err := a.governance.Proposal(id)
	if err != nil {
		a.writeGovernanceError(w, err)
		return
	}
	a.writeJSON(w, http.StatusOK, proposalToResponse(proposal))
}

// handleListVotes handles GET /api/v1/proposals/{id}/votes and returns
// the recorded ballots, paginated in cast order.
func (a *Api) handleListVotes(
	w http.ResponseWriter,
	r *http.Request,
) {
	id, ok := a.proposalId(w, r)
	if !ok {
		return
	}
	pq, err := parsePageQuery(r)
	if err != nil {
		a.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	// Distinguish an unknown proposal from one with no ballots
	if _, err := a.governance.Proposal(id); err != nil {
		a.writeGovernanceError(w, err)
		return
	}
	votes, err := a.governance.Votes(id)
	if err != nil {
		a.writeGovernanceError(w, err)
		return
	}
	if pq.Order == orderDesc {
		slices.Reverse(votes)
	}
	writePageHeaders(w, len(votes), pq)
	start, end := pageBounds(len(votes), pq)
	resp := []VoteResponse{}
	for i := start; i < end; i++ {
		resp = append(resp, voteToResponse(&votes[i]))
	}
	a.writeJSON(w, http.StatusOK, resp)
}

// handleVote handles POST /api/v1/proposals/{id}/votes.
func (a *Api) handleVote(
	w http.ResponseWriter,
	r *http.Request,
) {
	id, ok := a.proposalId(w, r)
	if !ok {
		return
	}
	caller, ok := a.actor(w, r)
	if !ok {
		return
	}
	var req VoteRequest
	if err := decodeRequest(w, r, &req); err != nil {
		a.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Support == nil {
		a.writeError(w, http.StatusBadRequest, "missing support")
		return
	}
	if err := a.governance.Vote(caller, id, *req.Support); err != nil {
		a.writeGovernanceError(w, err)
		return
	}
	a.writeStatus(w, http.StatusNoContent)
}

// handleExecuteProposal handles POST /api/v1/proposals/{id}/execute.
func (a *Api) handleExecuteProposal(
	w http.ResponseWriter,
	r *http.Request,
) {
	id, ok := a.proposalId(w, r)
	if !ok {
		return
	}
	caller, ok := a.actor(w, r)
	if !ok {
		return
	}
	passed, err := a.governance.ExecuteProposal(caller, id)
	if err != nil {
		a.writeGovernanceError(w, err)
		return
	}
	a.writeJSON(w, http.StatusOK, ExecuteResponse{
		ProposalId: id,
		Passed:     passed,
	})
}

// handleCancelProposal handles POST /api/v1/proposals/{id}/cancel.
func (a *Api) handleCancelProposal(
	w http.ResponseWriter,
	r *http.Request,
) {
	id, ok := a.proposalId(w, r)
	if !ok {
		return
	}
	caller, ok := a.actor(w, r)
	if !ok {
		return
	}
	if err := a.governance.CancelProposal(caller, id); err != nil {
		a.writeGovernanceError(w, err)
		return
	}
	a.writeStatus(w, http.StatusNoContent)
}

// handleExtendProposal handles POST /api/v1/proposals/{id}/extend. The
// proposal is returned with its new deadline.
func (a *Api) handleExtendProposal(
	w http.ResponseWriter,
	r *http.Request,
) {
	id, ok := a.proposalId(w, r)
	if !ok {
		return
	}
	caller, ok := a.actor(w, r)
	if !ok {
		return
	}
	var req ExtendRequest
	if err := decodeRequest(w, r, &req); err != nil {
		a.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Extra == nil {
		a.writeError(w, http.StatusBadRequest, "missing extra")
		return
	}
	if err := a.governance.ExtendVotingPeriod(
		caller,
		id,
		*req.Extra,
	); err != nil {
		a.writeGovernanceError(w, err)
		return
	}
	proposal, err := a.governance.Proposal(id)
	if err != nil {
		a.writeGovernanceError(w, err)
		return
	}
	a.writeJSON(w, http.StatusOK, proposalToResponse(proposal))
}
