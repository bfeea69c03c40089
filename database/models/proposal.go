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

// Proposal represents a single governance question with a voting window and
// a binary outcome. Proposal IDs are assigned by the database, start at 1,
// and are never reused; ID 0 always means "no such proposal".
type Proposal struct {
	ID          uint64       `gorm:"primarykey"`
	Description string       `gorm:"not null"`
	Deadline    uint64       `gorm:"index;not null"`
	YesWeight   types.Uint64 `gorm:"not null"`
	NoWeight    types.Uint64 `gorm:"not null"`
	Executed    bool         `gorm:"not null;default:false"`
	Canceled    bool         `gorm:"not null;default:false"`
	Passed      bool         `gorm:"not null;default:false"`
	VotersCount uint64       `gorm:"not null"`
	CreatedTick uint64       `gorm:"index;not null"`
}

// TableName returns the table name
func (Proposal) TableName() string {
	return "proposal"
}
