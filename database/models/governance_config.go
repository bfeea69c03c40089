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

// GovernanceConfigID is the primary key of the single governance config row.
const GovernanceConfigID = 1

// GovernanceConfig is the global governance state: the current owner, the
// paused flag, and the quorum threshold. Exactly one row exists.
type GovernanceConfig struct {
	ID     uint         `gorm:"primarykey"`
	Owner  string       `gorm:"size:128;not null"`
	Paused bool         `gorm:"not null;default:false"`
	Quorum types.Uint64 `gorm:"not null"`
}

// TableName returns the table name
func (GovernanceConfig) TableName() string {
	return "governance_config"
}
