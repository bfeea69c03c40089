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

package event

// DelegatedEventType is the event type for new delegation edges
const DelegatedEventType = EventType("delegation.created")

// DelegatedEvent is emitted when a participant delegates their vote
type DelegatedEvent struct {
	// Delegator is the participant handing off their vote
	Delegator string
	// Delegate is the participant receiving the vote
	Delegate string
	// Tick is the tick at which the delegation was recorded
	Tick uint64
}

// DelegationRevokedEventType is the event type for revoked delegations
const DelegationRevokedEventType = EventType("delegation.revoked")

// DelegationRevokedEvent is emitted when a participant revokes their
// delegation and resumes voting for themselves
type DelegationRevokedEvent struct {
	// Delegator is the participant revoking their delegation
	Delegator string
	// Delegate is the participant that previously held the vote
	Delegate string
	// Tick is the tick at which the revocation was recorded
	Tick uint64
}
