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

// VoteCastEventType is the event type for recorded ballots
const VoteCastEventType = EventType("vote.cast")

// VoteCastEvent is emitted when a ballot is recorded on a proposal. When the
// caller has delegated, Voter is the end of the delegation chain and differs
// from Caller.
type VoteCastEvent struct {
	// ProposalId is the identifier of the proposal voted on
	ProposalId uint64
	// Caller is the participant that submitted the ballot
	Caller string
	// Voter is the resolved voter the ballot is recorded under
	Voter string
	// Support is true for a yes ballot
	Support bool
	// Weight is the voting weight applied to the tally
	Weight uint64
	// Tick is the tick at which the ballot was cast
	Tick uint64
}
