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

// VotingWeight is an administratively assigned per-member weight, used by
// the assigned-weight policy. Members without a row (or with a stored zero)
// vote with the default weight of 1 under that policy.
type VotingWeight struct {
	ID     uint         `gorm:"primarykey"`
	Member string       `gorm:"uniqueIndex;size:128;not null"`
	Weight types.Uint64 `gorm:"not null"`
}

// TableName returns the table name
func (VotingWeight) TableName() string {
	return "voting_weight"
}
