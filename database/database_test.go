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

package database_test

import (
	"sync"
	"testing"
	"time"

	"github.com/blinklabs-io/gavel/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var dbConfig = &database.Config{
	Logger:       nil,
	PromRegistry: nil,
	DataDir:      "",
}

func setupTestDatabase(t *testing.T) *database.Database {
	t.Helper()
	db, err := database.New(dbConfig)
	require.NoError(t, err)
	t.Cleanup(func() {
		db.Close() //nolint:errcheck
	})
	return db
}

func TestNewDefaults(t *testing.T) {
	db := setupTestDatabase(t)
	assert.NotNil(t, db.Blob())
	assert.NotNil(t, db.Metadata())
	assert.Equal(t, "", db.DataDir())
}

// TestInMemorySqliteMultipleTransaction tests that our sqlite connection allows multiple
// concurrent transactions when using in-memory mode. This requires special URI flags, and
// this is mostly making sure that we don't lose them
func TestInMemorySqliteMultipleTransaction(t *testing.T) {
	db := setupTestDatabase(t)
	doQuery := func(sleep time.Duration) error {
		txn := db.Metadata().Transaction()
		if _, err := db.Metadata().GetConfig(txn); err != nil {
			return err
		}
		time.Sleep(sleep)
		return txn.Commit()
	}
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		doQuery(2 * time.Second) //nolint:errcheck
	}()
	time.Sleep(500 * time.Millisecond)
	if err := doQuery(0); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	wg.Wait()
}

func TestTwoPhaseCommit(t *testing.T) {
	db := setupTestDatabase(t)

	txn := db.Transaction(true)
	err := db.Metadata().SetVotingWeight("alice", 4, txn.Metadata())
	require.NoError(t, err)
	err = db.Blob().SetRecord(txn.Blob(), 1, []byte("record one"))
	require.NoError(t, err)
	require.NoError(t, txn.Commit())

	// Both writes are visible
	weight, err := db.Metadata().GetVotingWeight("alice", nil)
	require.NoError(t, err)
	require.NotNil(t, weight)
	readTxn := db.Transaction(false)
	defer readTxn.Release()
	record, err := db.Blob().GetRecord(readTxn.Blob(), 1)
	require.NoError(t, err)
	assert.Equal(t, []byte("record one"), record)

	// Both stores carry the same commit timestamp
	metadataTs, err := db.Metadata().GetCommitTimestamp()
	require.NoError(t, err)
	blobTs, err := db.Blob().GetCommitTimestamp()
	require.NoError(t, err)
	assert.Equal(t, metadataTs, blobTs)
	assert.Positive(t, metadataTs)
}

func TestTxnRollback(t *testing.T) {
	db := setupTestDatabase(t)

	txn := db.Transaction(true)
	err := db.Metadata().SetVotingWeight("bob", 2, txn.Metadata())
	require.NoError(t, err)
	err = db.Blob().SetRecord(txn.Blob(), 2, []byte("record two"))
	require.NoError(t, err)
	require.NoError(t, txn.Rollback())

	// Neither write is visible
	weight, err := db.Metadata().GetVotingWeight("bob", nil)
	require.NoError(t, err)
	assert.Nil(t, weight)
	readTxn := db.Transaction(false)
	defer readTxn.Release()
	_, err = db.Blob().GetRecord(readTxn.Blob(), 2)
	assert.Error(t, err)
}

func TestTxnDo(t *testing.T) {
	db := setupTestDatabase(t)

	// Error inside the closure rolls everything back
	testErr := assert.AnError
	err := db.Transaction(true).Do(func(txn *database.Txn) error {
		if err := db.Metadata().SetVotingWeight("carol", 3, txn.Metadata()); err != nil {
			return err
		}
		return testErr
	})
	require.ErrorIs(t, err, testErr)
	weight, err := db.Metadata().GetVotingWeight("carol", nil)
	require.NoError(t, err)
	assert.Nil(t, weight)

	// Success commits
	err = db.Transaction(true).Do(func(txn *database.Txn) error {
		return db.Metadata().SetVotingWeight("carol", 3, txn.Metadata())
	})
	require.NoError(t, err)
	weight, err = db.Metadata().GetVotingWeight("carol", nil)
	require.NoError(t, err)
	require.NotNil(t, weight)
}
