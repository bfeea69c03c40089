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

// Delegation is a one-hop edge from a participant to the delegate who votes
// on their behalf. A participant holds at most one edge at a time.
type Delegation struct {
	ID          uint   `gorm:"primarykey"`
	Delegator   string `gorm:"uniqueIndex;size:128;not null"`
	Delegate    string `gorm:"index;size:128;not null"`
	CreatedTick uint64 `gorm:"not null"`
}

// TableName returns the table name
func (Delegation) TableName() string {
	return "delegation"
}
