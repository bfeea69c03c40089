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
	"fmt"
	"strconv"
	"strings"
)

const (
	// JournalRecordKeyPrefix prefixes journal record keys in the blob store.
	// Sequence numbers are zero-padded decimal so keys sort in append order
	// under both badger's byte ordering and object-store name listings.
	JournalRecordKeyPrefix = "jr/"

	journalRecordSeqWidth = 20
)

// JournalRecordKey builds the blob key for a journal record sequence number
func JournalRecordKey(seq uint64) []byte {
	return fmt.Appendf(
		nil,
		"%s%0*d",
		JournalRecordKeyPrefix,
		journalRecordSeqWidth,
		seq,
	)
}

// ParseJournalRecordKey extracts the sequence number from a journal record key
func ParseJournalRecordKey(key []byte) (uint64, error) {
	keyStr := string(key)
	seqStr, ok := strings.CutPrefix(keyStr, JournalRecordKeyPrefix)
	if !ok {
		return 0, fmt.Errorf("not a journal record key: %q", keyStr)
	}
	if len(seqStr) != journalRecordSeqWidth {
		return 0, fmt.Errorf("malformed journal record key: %q", keyStr)
	}
	seq, err := strconv.ParseUint(seqStr, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("malformed journal record key: %q", keyStr)
	}
	return seq, nil
}
