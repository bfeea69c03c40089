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

// handleGetConfig handles GET /api/v1/config.
func (a *Api) handleGetConfig(
	w http.ResponseWriter,
	_ *http.Request,
) {
	conf, err := a.governance.Config()
	if err != nil {
		a.writeGovernanceError(w, err)
		return
	}
	a.writeJSON(w, http.StatusOK, ConfigResponse{
		Owner:  conf.Owner,
		Paused: conf.Paused,
		Quorum: uint64(conf.Quorum),
	})
}

// handleUpdateQuorum handles POST /api/v1/config/quorum.
func (a *Api) handleUpdateQuorum(
	w http.ResponseWriter,
	r *http.Request,
) {
	caller, ok := a.actor(w, r)
	if !ok {
		return
	}
	var req QuorumRequest
	if err := decodeRequest(w, r, &req); err != nil {
		a.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Quorum == nil {
		a.writeError(w, http.StatusBadRequest, "missing quorum")
		return
	}
	if err := a.governance.UpdateQuorum(caller, *req.Quorum); err != nil {
		a.writeGovernanceError(w, err)
		return
	}
	a.writeStatus(w, http.StatusNoContent)
}

// handleChangeOwner handles POST /api/v1/config/owner.
func (a *Api) handleChangeOwner(
	w http.ResponseWriter,
	r *http.Request,
) {
	caller, ok := a.actor(w, r)
	if !ok {
		return
	}
	var req OwnerRequest
	if err := decodeRequest(w, r, &req); err != nil {
		a.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := a.governance.ChangeOwner(caller, req.Owner); err != nil {
		a.writeGovernanceError(w, err)
		return
	}
	a.writeStatus(w, http.StatusNoContent)
}

// handlePause handles POST /api/v1/config/pause.
func (a *Api) handlePause(
	w http.ResponseWriter,
	r *http.Request,
) {
	caller, ok := a.actor(w, r)
	if !ok {
		return
	}
	if err := a.governance.Pause(caller); err != nil {
		a.writeGovernanceError(w, err)
		return
	}
	a.writeStatus(w, http.StatusNoContent)
}

// handleUnpause handles POST /api/v1/config/unpause.
func (a *Api) handleUnpause(
	w http.ResponseWriter,
	r *http.Request,
) {
	caller, ok := a.actor(w, r)
	if !ok {
		return
	}
	if err := a.governance.Unpause(caller); err != nil {
		a.writeGovernanceError(w, err)
		return
	}
	a.writeStatus(w, http.StatusNoContent)
}

// handleListWeights handles GET /api/v1/weights and returns all assigned
// voting weights, paginated in member order.
func (a *Api) handleListWeights(
	w http.ResponseWriter,
	r *http.Request,
) {
	pq, err := parsePageQuery(r)
	if err != nil {
		a.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	weights, err := a.governance.VotingWeights()
	if err != nil {
		a.writeGovernanceError(w, err)
		return
	}
	if pq.Order == orderDesc {
		slices.Reverse(weights)
	}
	writePageHeaders(w, len(weights), pq)
	start, end := pageBounds(len(weights), pq)
	resp := []WeightResponse{}
	for i := start; i < end; i++ {
		resp = append(resp, WeightResponse{
			Member: weights[i].Member,
			Weight: uint64(weights[i].Weight),
		})
	}
	a.writeJSON(w, http.StatusOK, resp)
}

// handleGetWeight handles GET /api/v1/weights/{member}. Members with no
// assigned weight report zero.
func (a *Api) handleGetWeight(
	w http.ResponseWriter,
	r *http.Request,
) {
	member := r.PathValue("member")
	weight, err := a.governance.VotingWeightOf(member)
	if err != nil {
		a.writeGovernanceError(w, err)
		return
	}
	a.writeJSON(w, http.StatusOK, WeightResponse{
		Member: member,
		Weight: weight,
	})
}

// handleSetWeight handles POST /api/v1/weights.
func (a *Api) handleSetWeight(
	w http.ResponseWriter,
	r *http.Request,
) {
	caller, ok := a.actor(w, r)
	if !ok {
		return
	}
	var req WeightRequest
	if err := decodeRequest(w, r, &req); err != nil {
		a.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Weight == nil {
		a.writeError(w, http.StatusBadRequest, "missing weight")
		return
	}
	if err := a.governance.SetVotingWeight(
		caller,
		req.Member,
		*req.Weight,
	); err != nil {
		a.writeGovernanceError(w, err)
		return
	}
	a.writeStatus(w, http.StatusNoContent)
}
