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

package sqlite

import (
	"errors"

	"github.com/blinklabs-io/gavel/database/models"
	"github.com/blinklabs-io/gavel/database/types"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GetConfig returns the governance config row, or nil if it has not been
// written yet
func (d *MetadataStoreSqlite) GetConfig(
	txn types.Txn,
) (*models.GovernanceConfig, error) {
	db, err := d.resolveDB(txn)
	if err != nil {
		return nil, err
	}
	ret := models.GovernanceConfig{}
	result := db.First(&ret, models.GovernanceConfigID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return &ret, nil
}

// SetConfig stores the governance config row, replacing any existing row
func (d *MetadataStoreSqlite) SetConfig(
	config *models.GovernanceConfig,
	txn types.Txn,
) error {
	db, err := d.resolveDB(txn)
	if err != nil {
		return err
	}
	config.ID = models.GovernanceConfigID
	result := db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns(
			[]string{"owner", "paused", "quorum"},
		),
	}).Create(config)
	return result.Error
}
