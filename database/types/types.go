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

package types

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"strconv"
)

var (
	// ErrBlobKeyNotFound is returned by blob operations when a key is missing
	ErrBlobKeyNotFound = errors.New("blob key not found")

	// ErrTxnWrongType is returned when a transaction has the wrong type
	ErrTxnWrongType = errors.New("invalid transaction type")

	// ErrNilTxn is returned when a nil transaction is provided where a valid
	// transaction is required
	ErrNilTxn = errors.New("nil transaction")

	// ErrNoStoreAvailable is returned when no blob or metadata store is
	// available
	ErrNoStoreAvailable = errors.New("no store available")

	// ErrBlobStoreUnavailable is returned when the underlying blob store
	// cannot be reached or has not been started
	ErrBlobStoreUnavailable = errors.New("blob store unavailable")
)

// Uint64 is stored as a decimal string so the full unsigned range survives
// the round trip through SQLite's signed INTEGER columns. Vote weights and
// quorum values use it because the engine's overflow checks operate at the
// uint64 bound.
//
//nolint:recvcheck
type Uint64 uint64

func (u Uint64) Value() (driver.Value, error) {
	return strconv.FormatUint(uint64(u), 10), nil
}

// Scan accepts both string and []byte, since drivers differ in how they
// hand back TEXT columns
func (u *Uint64) Scan(val any) error {
	var s string
	switch v := val.(type) {
	case string:
		s = v
	case []byte:
		s = string(v)
	default:
		return fmt.Errorf("cannot scan %T into Uint64", val)
	}
	parsed, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid Uint64 column value %q: %w", s, err)
	}
	*u = Uint64(parsed)
	return nil
}

// Txn is a simple transaction handle for commit/rollback only.
// Database layer (Txn) coordinates metadata and blob operations separately.
type Txn interface {
	Commit() error
	Rollback() error
}

// BlobIteratorOptions configures iteration over blob keys
type BlobIteratorOptions struct {
	Prefix  []byte
	Reverse bool
}

// BlobIterator iterates over blob keys in lexical order
type BlobIterator interface {
	Rewind()
	Seek(prefix []byte)
	Valid() bool
	ValidForPrefix(prefix []byte) bool
	Next()
	Item() BlobItem
	Close()
	Err() error
}

// BlobItem is a single key-value pair yielded by a BlobIterator. Values must
// be accessed while the transaction used to create the iterator is still
// active.
type BlobItem interface {
	Key() []byte
	ValueCopy(dst []byte) ([]byte, error)
}
