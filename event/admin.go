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

// VotingWeightUpdatedEventType is the event type for weight assignments
const VotingWeightUpdatedEventType = EventType("weight.updated")

// VotingWeightUpdatedEvent is emitted when the owner assigns a member's
// voting weight
type VotingWeightUpdatedEvent struct {
	// Member is the participant whose weight changed
	Member string
	// OldWeight is the stored weight before the change
	OldWeight uint64
	// NewWeight is the stored weight after the change
	NewWeight uint64
	// Tick is the tick at which the change was recorded
	Tick uint64
}

// QuorumUpdatedEventType is the event type for quorum changes
const QuorumUpdatedEventType = EventType("quorum.updated")

// QuorumUpdatedEvent is emitted when the owner changes the quorum threshold
type QuorumUpdatedEvent struct {
	// OldQuorum is the threshold before the change
	OldQuorum uint64
	// NewQuorum is the threshold after the change
	NewQuorum uint64
	// Tick is the tick at which the change was recorded
	Tick uint64
}

// OwnerChangedEventType is the event type for ownership transfers
const OwnerChangedEventType = EventType("owner.changed")

// OwnerChangedEvent is emitted when governance ownership is transferred
type OwnerChangedEvent struct {
	// OldOwner is the owner before the transfer
	OldOwner string
	// NewOwner is the owner after the transfer
	NewOwner string
	// Tick is the tick at which the transfer was recorded
	Tick uint64
}

// PausedEventType is the event type for governance pauses
const PausedEventType = EventType("governance.paused")

// PausedEvent is emitted when the owner pauses governance operations
type PausedEvent struct {
	// Tick is the tick at which governance was paused
	Tick uint64
}

// UnpausedEventType is the event type for governance resumes
const UnpausedEventType = EventType("governance.unpaused")

// UnpausedEvent is emitted when the owner resumes governance operations
type UnpausedEvent struct {
	// Tick is the tick at which governance was resumed
	Tick uint64
}
