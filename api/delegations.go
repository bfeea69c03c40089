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

// handleListDelegations handles GET /api/v1/delegations and returns all
// delegation edges, paginated in creation order.
func (a *Api) handleListDelegations(
	w http.ResponseWriter,
	r *http.Request,
) {
	pq, err := parsePageQuery(r)
	if err != nil {
		a.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	delegations, err := a.governance.Delegations()
	if err != nil {
		a.writeGovernanceError(w, err)
		return
	}
	if pq.Order == orderDesc {
		slices.Reverse(delegations)
	}
	writePageHeaders(w, len(delegations), pq)
	start, end := pageBounds(len(delegations), pq)
	resp := []DelegationResponse{}
	for i := start; i < end; i++ {
		resp = append(resp, DelegationResponse{
			Member:      delegations[i].Delegator,
			Delegate:    delegations[i].Delegate,
			CreatedTick: delegations[i].CreatedTick,
		})
	}
	a.writeJSON(w, http.StatusOK, resp)
}

// handleGetDelegation handles GET /api/v1/delegations/{member} and
// returns the member's outgoing edge plus the voter their ballots
// resolve to. A member with no delegation resolves to themselves.
func (a *Api) handleGetDelegation(
	w http.ResponseWriter,
	r *http.Request,
) {
	member := r.PathValue("member")
	edge, err := a.governance.DelegationOf(member)
	if err != nil {
		a.writeGovernanceError(w, err)
		return
	}
	resolved, err := a.governance.ResolveVoter(member)
	if err != nil {
		a.writeGovernanceError(w, err)
		return
	}
	resp := DelegationResponse{
		Member:        member,
		ResolvedVoter: resolved,
	}
	if edge != nil {
		resp.Delegate = edge.Delegate
		resp.CreatedTick = edge.CreatedTick
	}
	a.writeJSON(w, http.StatusOK, resp)
}

// handleDelegate handles POST /api/v1/delegations. The stored edge is
// returned with the caller's new resolved voter.
func (a *Api) handleDelegate(
	w http.ResponseWriter,
	r *http.Request,
) {
	caller, ok := a.actor(w, r)
	if !ok {
		return
	}
	var req DelegateRequest
	if err := decodeRequest(w, r, &req); err != nil {
		a.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := a.governance.Delegate(caller, req.Delegate); err != nil {
		a.writeGovernanceError(w, err)
		return
	}
	resolved, err := a.governance.ResolveVoter(caller)
	if err != nil {
		a.writeGovernanceError(w, err)
		return
	}
	edge, err := a.governance.DelegationOf(caller)
	if err != nil {
		a.writeGovernanceError(w, err)
		return
	}
	resp := DelegationResponse{
		Member:        caller,
		Delegate:      req.Delegate,
		ResolvedVoter: resolved,
	}
	if edge != nil {
		resp.Delegate = edge.Delegate
		resp.CreatedTick = edge.CreatedTick
	}
	a.writeJSON(w, http.StatusCreated, resp)
}

// handleRevokeDelegation handles DELETE /api/v1/delegations.
func (a *Api) handleRevokeDelegation(
	w http.ResponseWriter,
	r *http.Request,
) {
	caller, ok := a.actor(w, r)
	if !ok {
		return
	}
	if err := a.governance.RevokeDelegation(caller); err != nil {
		a.writeGovernanceError(w, err)
		return
	}
	a.writeStatus(w, http.StatusNoContent)
}
