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

// ProposalCreatedEventType is the event type for newly created proposals
const ProposalCreatedEventType = EventType("proposal.created")

// ProposalCreatedEvent is emitted when a proposal is opened for voting
type ProposalCreatedEvent struct {
	// ProposalId is the identifier assigned to the proposal
	ProposalId uint64
	// Creator is the participant that created the proposal
	Creator string
	// Description is the proposal text
	Description string
	// Deadline is the tick at which voting closes
	Deadline uint64
	// Tick is the tick at which the proposal was created
	Tick uint64
}

// ProposalExecutedEventType is the event type for executed proposals
const ProposalExecutedEventType = EventType("proposal.executed")

// ProposalExecutedEvent is emitted when a proposal is executed after its
// voting window closes. Passed reflects the recorded outcome.
type ProposalExecutedEvent struct {
	// ProposalId is the identifier of the executed proposal
	ProposalId uint64
	// Passed is true when the yes tally strictly exceeded the no tally
	Passed bool
	// YesWeight is the final yes tally
	YesWeight uint64
	// NoWeight is the final no tally
	NoWeight uint64
	// Tick is the tick at which execution happened
	Tick uint64
}

// ProposalCanceledEventType is the event type for canceled proposals
const ProposalCanceledEventType = EventType("proposal.canceled")

// ProposalCanceledEvent is emitted when the owner cancels a proposal
type ProposalCanceledEvent struct {
	// ProposalId is the identifier of the canceled proposal
	ProposalId uint64
	// Tick is the tick at which the proposal was canceled
	Tick uint64
}

// ProposalExtendedEventType is the event type for voting period extensions
const ProposalExtendedEventType = EventType("proposal.extended")

// ProposalExtendedEvent is emitted when the owner moves a proposal deadline
// further into the future
type ProposalExtendedEvent struct {
	// ProposalId is the identifier of the extended proposal
	ProposalId uint64
	// OldDeadline is the deadline before the extension
	OldDeadline uint64
	// NewDeadline is the deadline after the extension
	NewDeadline uint64
	// Tick is the tick at which the extension happened
	Tick uint64
}
