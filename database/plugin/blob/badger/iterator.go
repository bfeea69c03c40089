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
	"github.com/blinklabs-io/gavel/database/types"
	badger "github.com/dgraph-io/badger/v4"
)

// nativeIterator forwards to badger's own iterator, which sees the
// transaction's uncommitted writes, unlike the listing snapshots used by
// the cloud backends.
type nativeIterator struct {
	iter *badger.Iterator
}

func (it *nativeIterator) Rewind()            { it.iter.Rewind() }
func (it *nativeIterator) Seek(prefix []byte) { it.iter.Seek(prefix) }
func (it *nativeIterator) Next()              { it.iter.Next() }

func (it *nativeIterator) Valid() bool { return it.iter.Valid() }

func (it *nativeIterator) ValidForPrefix(p []byte) bool {
	return it.iter.ValidForPrefix(p)
}

func (it *nativeIterator) Item() types.BlobItem {
	return &nativeItem{item: it.iter.Item()}
}

func (it *nativeIterator) Close()     { it.iter.Close() }
func (it *nativeIterator) Err() error { return nil }

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

type nativeItem struct {
	item *badger.Item
}

func (i *nativeItem) Key() []byte {
	return i.item.KeyCopy(nil)
}

func (i *nativeItem) ValueCopy(dst []byte) ([]byte, error) {
	return i.item.ValueCopy(dst)
}
