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

	"github.com/blinklabs-io/gavel/event"
	"github.com/blinklabs-io/gavel/governance"
	"github.com/blinklabs-io/gavel/journal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestApiWithJournal(
	t *testing.T,
) (*Api, *governance.CounterClock) {
	t.Helper()
	db := setupTestDatabase(t)
	bus := event.NewEventBus(nil, nil)
	clock := governance.NewCounterClock(100)
	g, err := governance.NewGovernance(governance.GovernanceConfig{
		Database: db,
		EventBus: bus,
		Clock:    clock,
		Owner:    testOwner,
		Quorum:   testQuorum,
	})
	require.NoError(t, err)
	j, err := journal.NewJournal(journal.JournalConfig{
		EventBus: bus,
		Database: db,
	})
	require.NoError(t, err)
	require.NoError(t, j.Start())
	t.Cleanup(j.Stop)
	a, err := New(ApiConfig{
		Governance:    g,
		Journal:       j,
		ListenAddress: ":0",
	})
	require.NoError(t, err)
	return a, clock
}

func TestListEventsNoJournal(t *testing.T) {
	a, _ := setupTestApi(t)

	w := doRequest(
		t,
		a,
		http.MethodGet,
		"/api/v1/events",
		"",
		nil,
	)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestListEvents(t *testing.T) {
	a, _ := setupTestApiWithJournal(t)
	setTestWeight(t, a, "bob", 3)
	id := createTestProposal(t, a, 50)
	castTestVote(t, a, "bob", id, true)

	w := doRequest(
		t,
		a,
		http.MethodGet,
		"/api/v1/events",
		"",
		nil,
	)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp []EventResponse
	err := json.NewDecoder(w.Body).Decode(&resp)
	require.NoError(t, err)
	require.Len(t, resp, 3)
	assert.Equal(t, uint64(1), resp[0].Seq)
	assert.Equal(t, "weight.updated", resp[0].Type)
	assert.Equal(t, "proposal.created", resp[1].Type)
	assert.Equal(t, "vote.cast", resp[2].Type)
	assert.Positive(t, resp[0].Timestamp)

	payload, ok := resp[1].Payload.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(id), payload["ProposalId"])
	assert.Equal(t, testOwner, payload["Creator"])
	assert.Equal(
		t,
		"repaint the bikeshed",
		payload["Description"],
	)

	votePayload, ok := resp[2].Payload.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "bob", votePayload["Voter"])
	assert.Equal(t, true, votePayload["Support"])
	assert.Equal(t, float64(3), votePayload["Weight"])
}

func TestListEventsFrom(t *testing.T) {
	a, _ := setupTestApiWithJournal(t)
	setTestWeight(t, a, "bob", 3)
	id := createTestProposal(t, a, 50)
	castTestVote(t, a, "bob", id, true)

	w := doRequest(
		t,
		a,
		http.MethodGet,
		"/api/v1/events?from=3&count=1",
		"",
		nil,
	)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp []EventResponse
	err := json.NewDecoder(w.Body).Decode(&resp)
	require.NoError(t, err)
	require.Len(t, resp, 1)
	assert.Equal(t, uint64(3), resp[0].Seq)
}

func TestListEventsPastEnd(t *testing.T) {
	a, _ := setupTestApiWithJournal(t)
	createTestProposal(t, a, 50)

	w := doRequest(
		t,
		a,
		http.MethodGet,
		"/api/v1/events?from=10",
		"",
		nil,
	)

	assert.Equal(t, http.StatusOK, w.Code)
	// Should return empty array, not null
	assert.Equal(t, "[]\n", w.Body.String())
}

func TestListEventsInvalidParams(t *testing.T) {
	a, _ := setupTestApiWithJournal(t)

	w := doRequest(
		t,
		a,
		http.MethodGet,
		"/api/v1/events?from=bogus",
		"",
		nil,
	)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(
		t,
		a,
		http.MethodGet,
		"/api/v1/events?count=bogus",
		"",
		nil,
	)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListEventsCountClamped(t *testing.T) {
	a, _ := setupTestApiWithJournal(t)
	setTestWeight(t, a, "bob", 3)
	createTestProposal(t, a, 50)

	w := doRequest(
		t,
		a,
		http.MethodGet,
		"/api/v1/events?count=0",
		"",
		nil,
	)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp []EventResponse
	err := json.NewDecoder(w.Body).Decode(&resp)
	require.NoError(t, err)
	require.Len(t, resp, 1)
}

// Rejected operations must leave no journal trace visible to observers.
func TestListEventsOnlySuccesses(t *testing.T) {
	a, _ := setupTestApiWithJournal(t)
	createTestProposal(t, a, 50)

	duration := uint64(50)
	w := doRequest(
		t,
		a,
		http.MethodPost,
		"/api/v1/proposals",
		"mallory",
		CreateProposalRequest{
			Description: "hostile takeover",
			Duration:    &duration,
		},
	)
	require.Equal(t, http.StatusForbidden, w.Code)

	w = doRequest(
		t,
		a,
		http.MethodGet,
		"/api/v1/events",
		"",
		nil,
	)
	var resp []EventResponse
	err := json.NewDecoder(w.Body).Decode(&resp)
	require.NoError(t, err)
	require.Len(t, resp, 1)
	assert.Equal(
		t,
		"proposal.created",
		resp[0].Type,
	)
}
