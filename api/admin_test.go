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
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func getTestConfig(t *testing.T, a *Api) ConfigResponse {
	t.Helper()
	w := doRequest(
		t,
		a,
		http.MethodGet,
		"/api/v1/config",
		"",
		nil,
	)
	require.Equal(t, http.StatusOK, w.Code)
	var resp ConfigResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	return resp
}

func TestGetConfig(t *testing.T) {
	a, _ := setupTestApi(t)

	resp := getTestConfig(t, a)
	assert.Equal(t, testOwner, resp.Owner)
	assert.False(t, resp.Paused)
	assert.Equal(t, testQuorum, resp.Quorum)
}

func TestUpdateQuorum(t *testing.T) {
	a, _ := setupTestApi(t)

	quorum := uint64(5)
	w := doRequest(
		t,
		a,
		http.MethodPost,
		"/api/v1/config/quorum",
		testOwner,
		QuorumRequest{Quorum: &quorum},
	)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, uint64(5), getTestConfig(t, a).Quorum)
}

func TestUpdateQuorumNonOwner(t *testing.T) {
	a, _ := setupTestApi(t)

	quorum := uint64(5)
	w := doRequest(
		t,
		a,
		http.MethodPost,
		"/api/v1/config/quorum",
		"mallory",
		QuorumRequest{Quorum: &quorum},
	)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, testQuorum, getTestConfig(t, a).Quorum)
}

func TestUpdateQuorumMissingValue(t *testing.T) {
	a, _ := setupTestApi(t)

	w := doRequest(
		t,
		a,
		http.MethodPost,
		"/api/v1/config/quorum",
		testOwner,
		map[string]any{},
	)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestChangeOwner(t *testing.T) {
	a, _ := setupTestApi(t)

	w := doRequest(
		t,
		a,
		http.MethodPost,
		"/api/v1/config/owner",
		testOwner,
		OwnerRequest{Owner: "bob"},
	)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "bob", getTestConfig(t, a).Owner)

	// The previous owner has no authority left
	quorum := uint64(5)
	w = doRequest(
		t,
		a,
		http.MethodPost,
		"/api/v1/config/quorum",
		testOwner,
		QuorumRequest{Quorum: &quorum},
	)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// The new owner does
	w = doRequest(
		t,
		a,
		http.MethodPost,
		"/api/v1/config/quorum",
		"bob",
		QuorumRequest{Quorum: &quorum},
	)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestChangeOwnerEmptyTarget(t *testing.T) {
	a, _ := setupTestApi(t)

	w := doRequest(
		t,
		a,
		http.MethodPost,
		"/api/v1/config/owner",
		testOwner,
		OwnerRequest{},
	)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPauseUnpause(t *testing.T) {
	a, _ := setupTestApi(t)

	w := doRequest(
		t,
		a,
		http.MethodPost,
		"/api/v1/config/pause",
		testOwner,
		nil,
	)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.True(t, getTestConfig(t, a).Paused)

	w = doRequest(
		t,
		a,
		http.MethodPost,
		"/api/v1/config/unpause",
		testOwner,
		nil,
	)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.False(t, getTestConfig(t, a).Paused)
}

func TestPauseNonOwner(t *testing.T) {
	a, _ := setupTestApi(t)

	w := doRequest(
		t,
		a,
		http.MethodPost,
		"/api/v1/config/pause",
		"mallory",
		nil,
	)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestPausedAdminControls(t *testing.T) {
	a, _ := setupTestApi(t)

	w := doRequest(
		t,
		a,
		http.MethodPost,
		"/api/v1/config/pause",
		testOwner,
		nil,
	)
	require.Equal(t, http.StatusNoContent, w.Code)

	// Admin setters stay available while paused
	quorum := uint64(7)
	w = doRequest(
		t,
		a,
		http.MethodPost,
		"/api/v1/config/quorum",
		testOwner,
		QuorumRequest{Quorum: &quorum},
	)
	assert.Equal(t, http.StatusNoContent, w.Code)

	setTestWeight(t, a, "bob", 3)

	w = doRequest(
		t,
		a,
		http.MethodPost,
		"/api/v1/config/owner",
		testOwner,
		OwnerRequest{Owner: "bob"},
	)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestSetWeightNonOwner(t *testing.T) {
	a, _ := setupTestApi(t)

	weight := uint64(3)
	w := doRequest(
		t,
		a,
		http.MethodPost,
		"/api/v1/weights",
		"mallory",
		WeightRequest{Member: "mallory", Weight: &weight},
	)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestSetWeightMissingValue(t *testing.T) {
	a, _ := setupTestApi(t)

	w := doRequest(
		t,
		a,
		http.MethodPost,
		"/api/v1/weights",
		testOwner,
		WeightRequest{Member: "bob"},
	)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSetWeightEmptyMember(t *testing.T) {
	a, _ := setupTestApi(t)

	weight := uint64(3)
	w := doRequest(
		t,
		a,
		http.MethodPost,
		"/api/v1/weights",
		testOwner,
		WeightRequest{Weight: &weight},
	)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetWeight(t *testing.T) {
	a, _ := setupTestApi(t)
	setTestWeight(t, a, "bob", 3)

	w := doRequest(
		t,
		a,
		http.MethodGet,
		"/api/v1/weights/bob",
		"",
		nil,
	)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp WeightResponse
	err := json.NewDecoder(w.Body).Decode(&resp)
	require.NoError(t, err)
	assert.Equal(t, "bob", resp.Member)
	assert.Equal(t, uint64(3), resp.Weight)
}

func TestGetWeightUnassigned(t *testing.T) {
	a, _ := setupTestApi(t)

	w := doRequest(
		t,
		a,
		http.MethodGet,
		"/api/v1/weights/ghost",
		"",
		nil,
	)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp WeightResponse
	err := json.NewDecoder(w.Body).Decode(&resp)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), resp.Weight)
}

func TestListWeights(t *testing.T) {
	a, _ := setupTestApi(t)
	setTestWeight(t, a, "bob", 3)
	setTestWeight(t, a, "carol", 2)

	w := doRequest(
		t,
		a,
		http.MethodGet,
		"/api/v1/weights",
		"",
		nil,
	)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(
		t,
		"2",
		w.Header().Get("X-Total-Count"),
	)

	var resp []WeightResponse
	err := json.NewDecoder(w.Body).Decode(&resp)
	require.NoError(t, err)
	require.Len(t, resp, 2)
	assert.Equal(t, "bob", resp[0].Member)
	assert.Equal(t, uint64(3), resp[0].Weight)
	assert.Equal(t, "carol", resp[1].Member)
}
