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

package governance

import "errors"

// Operation errors. Each rejects the single call that triggered it; the
// engine applies no partial state change and remains usable afterward.
// Callers match on these with errors.Is, as some are returned wrapped with
// call details.
var (
	// ErrUnauthorized is returned when a non-owner calls an owner-gated
	// operation
	ErrUnauthorized = errors.New("caller is not the governance owner")
	// ErrPaused is returned for mutating operations while governance is
	// paused
	ErrPaused = errors.New("governance is paused")
	// ErrNotFound is returned for a zero or unknown proposal ID
	ErrNotFound = errors.New("proposal not found")
	// ErrInvalidState is returned when a proposal is in the wrong lifecycle
	// state for the requested transition
	ErrInvalidState = errors.New("invalid proposal state")
	// ErrAlreadyVoted is returned when the resolved voter already has a
	// ballot on the proposal
	ErrAlreadyVoted = errors.New("resolved voter has already voted")
	// ErrAlreadyDelegated is returned when the participant already holds a
	// delegation edge
	ErrAlreadyDelegated = errors.New("participant has already delegated")
	// ErrNoDelegation is returned when revoking without a delegation edge
	ErrNoDelegation = errors.New("participant has no delegation")
	// ErrInvalidTarget is returned for an empty or self-referential target
	// identity
	ErrInvalidTarget = errors.New("invalid target identity")
	// ErrNoVotingPower is returned when the weight policy resolves a voter
	// to zero weight
	ErrNoVotingPower = errors.New("resolved voter has no voting power")
	// ErrQuorumNotMet is returned when the combined yes and no weight is
	// below the quorum threshold
	ErrQuorumNotMet = errors.New("combined vote weight below quorum")
	// ErrArithmeticOverflow is returned when a tally or deadline addition
	// would overflow
	ErrArithmeticOverflow = errors.New("arithmetic overflow")
)
