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

package badger

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"github.com/blinklabs-io/gavel/database/types"
)

func setupTestStore(t *testing.T) *BlobStoreBadger {
	t.Helper()
	store, err := New(
		// Empty data dir gives us an in-memory store
		WithDataDir(""),
		WithGc(false),
	)
	if err != nil {
		t.Fatalf("unexpected error creating store: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("unexpected error closing store: %v", err)
		}
	})
	return store
}

func TestRecordRoundTrip(t *testing.T) {
	store := setupTestStore(t)

	txn := store.NewTransaction(true)
	if err := store.SetRecord(txn, 1, []byte("test record")); err != nil {
		t.Fatalf("unexpected error setting record: %v", err)
	}
	if err := txn.Commit(); err != nil {
		t.Fatalf("unexpected error committing: %v", err)
	}

	txn = store.NewTransaction(false)
	defer txn.Rollback() //nolint:errcheck
	data, err := store.GetRecord(txn, 1)
	if err != nil {
		t.Fatalf("unexpected error getting record: %v", err)
	}
	if !bytes.Equal(data, []byte("test record")) {
		t.Fatalf("did not get expected record data, got %q", data)
	}

	// Missing records should map to the shared sentinel
	if _, err := store.GetRecord(txn, 99); !errors.Is(err, types.ErrBlobKeyNotFound) {
		t.Fatalf("expected ErrBlobKeyNotFound, got %v", err)
	}
}

func TestRecordIterationOrder(t *testing.T) {
	store := setupTestStore(t)

	// Insert out of order, spanning a digit-width boundary
	txn := store.NewTransaction(true)
	for _, seq := range []uint64{10, 2, 1, 11, 3} {
		err := store.SetRecord(txn, seq, fmt.Appendf(nil, "record %d", seq))
		if err != nil {
			t.Fatalf("unexpected error setting record: %v", err)
		}
	}
	if err := txn.Commit(); err != nil {
		t.Fatalf("unexpected error committing: %v", err)
	}

	txn = store.NewTransaction(false)
	defer txn.Rollback() //nolint:errcheck
	iter := store.NewIterator(
		txn,
		types.BlobIteratorOptions{
			Prefix: []byte(types.JournalRecordKeyPrefix),
		},
	)
	defer iter.Close()

	var seqs []uint64
	for iter.Rewind(); iter.Valid(); iter.Next() {
		seq, err := types.ParseJournalRecordKey(iter.Item().Key())
		if err != nil {
			t.Fatalf("unexpected error parsing key: %v", err)
		}
		seqs = append(seqs, seq)
	}
	if err := iter.Err(); err != nil {
		t.Fatalf("unexpected iterator error: %v", err)
	}

	expected := []uint64{1, 2, 3, 10, 11}
	if len(seqs) != len(expected) {
		t.Fatalf("expected %d records, got %d", len(expected), len(seqs))
	}
	for i := range expected {
		if seqs[i] != expected[i] {
			t.Fatalf(
				"records out of order: expected %v, got %v",
				expected,
				seqs,
			)
		}
	}
}

func TestCommitTimestamp(t *testing.T) {
	store := setupTestStore(t)

	txn := store.NewTransaction(true)
	if err := store.SetCommitTimestamp(txn, 123456789); err != nil {
		t.Fatalf("unexpected error setting commit timestamp: %v", err)
	}
	if err := txn.Commit(); err != nil {
		t.Fatalf("unexpected error committing: %v", err)
	}

	ts, err := store.GetCommitTimestamp()
	if err != nil {
		t.Fatalf("unexpected error getting commit timestamp: %v", err)
	}
	if ts != 123456789 {
		t.Fatalf("expected commit timestamp 123456789, got %d", ts)
	}
}

func TestTxnValidation(t *testing.T) {
	store := setupTestStore(t)
	other := setupTestStore(t)

	// Nil transaction
	if _, err := store.Get(nil, []byte("x")); !errors.Is(err, types.ErrNilTxn) {
		t.Fatalf("expected ErrNilTxn, got %v", err)
	}

	// Transaction from a different store
	otherTxn := other.NewTransaction(false)
	defer otherTxn.Rollback() //nolint:errcheck
	if _, err := store.Get(otherTxn, []byte("x")); err == nil {
		t.Fatal("expected error for transaction from different store")
	}

	// Finished transaction
	txn := store.NewTransaction(true)
	if err := txn.Commit(); err != nil {
		t.Fatalf("unexpected error committing: %v", err)
	}
	if err := store.Set(txn, []byte("x"), []byte("y")); err == nil {
		t.Fatal("expected error for finished transaction")
	}
}
