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

package models

import "github.com/blinklabs-io/gavel/database/types"

// Vote records a single ballot on a proposal. Votes are keyed by the
// resolved voter (the end of the caller's delegation chain), so two callers
// delegating to the same voter collide on the unique index. The original
// caller is kept for audit.
type Vote struct {
	ID         uint         `gorm:"primarykey"`
	ProposalID uint64       `gorm:"uniqueIndex:idx_vote_proposal_voter,priority:1;not null"`
	Voter      string       `gorm:"uniqueIndex:idx_vote_proposal_voter,priority:2;size:128;not null"`
	Caller     string       `gorm:"size:128;not null"`
	Support    bool         `gorm:"not null"`
	Weight     types.Uint64 `gorm:"not null"`
	CastTick   uint64       `gorm:"index;not null"`
}

// TableName returns the table name
func (Vote) TableName() string {
	return "vote"
}
