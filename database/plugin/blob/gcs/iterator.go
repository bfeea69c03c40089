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

package gcs

import (
	"sort"
	"strings"

	"github.com/blinklabs-io/gavel/database/types"
)

// objectIterator walks a snapshot of object names listed when the iterator
// was created. Writes made after creation are not visible. The keys slice
// is ordered ascending, or descending when reverse is set.
type objectIterator struct {
	store   *BlobStoreGCS
	txn     types.Txn
	err     error
	keys    []string
	idx     int
	reverse bool
}

func (it *objectIterator) Rewind() {
	it.idx = 0
}

// Seek positions the iterator at the first key >= prefix, or <= prefix when
// iterating in reverse. Both directions leave the iterator exhausted when no
// key qualifies.
func (it *objectIterator) Seek(prefix []byte) {
	target := string(prefix)
	if it.reverse {
		it.idx = sort.Search(len(it.keys), func(i int) bool {
			return it.keys[i] <= target
		})
		return
	}
	it.idx = sort.SearchStrings(it.keys, target)
}

func (it *objectIterator) Valid() bool {
	return it.err == nil && it.idx < len(it.keys)
}

func (it *objectIterator) ValidForPrefix(prefix []byte) bool {
	return it.Valid() && strings.HasPrefix(it.keys[it.idx], string(prefix))
}

func (it *objectIterator) Next() {
	if it.idx < len(it.keys) {
		it.idx++
	}
}

func (it *objectIterator) Item() types.BlobItem {
	if !it.Valid() {
		return nil
	}
	return &objectItem{store: it.store, txn: it.txn, key: it.keys[it.idx]}
}

// Err reports any failure from the initial object listing.
func (it *objectIterator) Err() error {
	return it.err
}

func (it *objectIterator) Close() {}

// errorIterator is returned when an iterator cannot be created at all.
type errorIterator struct {
	err error
}

func (it *errorIterator) Err() error { return it.err }

func (it *errorIterator) Rewind()                      {}
func (it *errorIterator) Seek(prefix []byte)           {}
func (it *errorIterator) Next()                        {}
func (it *errorIterator) Valid() bool                  { return false }
func (it *errorIterator) ValidForPrefix(p []byte) bool { return false }
func (it *errorIterator) Item() types.BlobItem         { return nil }
func (it *errorIterator) Close()                       {}

// objectItem defers the value fetch until ValueCopy so that iteration over
// names alone costs one list request and no reads.
type objectItem struct {
	store *BlobStoreGCS
	txn   types.Txn
	key   string
}

func (i *objectItem) Key() []byte {
	return []byte(i.key)
}

// ValueCopy fetches the object contents. The transaction used to create the
// iterator must still be active.
func (i *objectItem) ValueCopy(dst []byte) ([]byte, error) {
	val, err := i.store.Get(i.txn, []byte(i.key))
	if err != nil || dst == nil {
		return val, err
	}
	return append(dst[:0], val...), nil
}
