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
)

// GetDelegation returns the delegation edge for the given delegator, or nil
// if the delegator has no active delegation
func (d *MetadataStoreSqlite) GetDelegation(
	delegator string,
	txn types.Txn,
) (*models.Delegation, error) {
	db, err := d.resolveDB(txn)
	if err != nil {
		return nil, err
	}
	ret := models.Delegation{}
	result := db.
		Where("delegator = ?", delegator).
		First(&ret)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return &ret, nil
}

// GetDelegations returns all active delegation edges
func (d *MetadataStoreSqlite) GetDelegations(
	txn types.Txn,
) ([]models.Delegation, error) {
	db, err := d.resolveDB(txn)
	if err != nil {
		return nil, err
	}
	var ret []models.Delegation
	result := db.Order("id").Find(&ret)
	if result.Error != nil {
		return nil, result.Error
	}
	return ret, nil
}

// SetDelegation records a delegation edge. Edges are insert-only; the unique
// index on delegator rejects a second edge while one is active.
func (d *MetadataStoreSqlite) SetDelegation(
	delegation *models.Delegation,
	txn types.Txn,
) error {
	db, err := d.resolveDB(txn)
	if err != nil {
		return err
	}
	result := db.Create(delegation)
	return result.Error
}

// DeleteDelegation removes the delegation edge for the given delegator
func (d *MetadataStoreSqlite) DeleteDelegation(
	delegator string,
	txn types.Txn,
) error {
	db, err := d.resolveDB(txn)
	if err != nil {
		return err
	}
	result := db.
		Where("delegator = ?", delegator).
		Delete(&models.Delegation{})
	return result.Error
}
