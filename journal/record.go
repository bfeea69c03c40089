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

package journal

import (
	"fmt"
	"reflect"

	"github.com/fxamacker/cbor/v2"
)

// Record is a single journaled governance event. Records are CBOR-encoded
// in the blob store under a key derived from their sequence number, so a
// prefix scan yields them in sequence order.
type Record struct {
	// Seq is the record's position in the journal. Sequence numbers are
	// contiguous starting from 1.
	Seq uint64 `cbor:"seq" json:"seq"`
	// Type is the event type that produced this record
	Type string `cbor:"type" json:"type"`
	// Timestamp is the event publish time in nanoseconds since the Unix
	// epoch
	Timestamp int64 `cbor:"timestamp" json:"timestamp"`
	// Payload is the CBOR-encoded event payload
	Payload cbor.RawMessage `cbor:"payload" json:"-"`
}

var (
	recordEncMode cbor.EncMode
	recordDecMode cbor.DecMode
)

func init() {
	var err error
	recordEncMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic(err)
	}
	// Maps decode with string keys so decoded payloads can be re-encoded
	// as JSON
	recordDecMode, err = cbor.DecOptions{
		DefaultMapType: reflect.TypeOf(map[string]any{}),
	}.DecMode()
	if err != nil {
		panic(err)
	}
}

func encodeRecord(record Record) ([]byte, error) {
	data, err := recordEncMode.Marshal(record)
	if err != nil {
		return nil, fmt.Errorf("encoding journal record: %w", err)
	}
	return data, nil
}

func decodeRecord(data []byte) (Record, error) {
	var record Record
	if err := recordDecMode.Unmarshal(data, &record); err != nil {
		return Record{}, fmt.Errorf("decoding journal record: %w", err)
	}
	return record, nil
}

// DecodePayload decodes the record payload into a JSON-friendly value. Event
// payload structs come back as a map keyed by field name.
func (r *Record) DecodePayload() (any, error) {
	if len(r.Payload) == 0 {
		return nil, nil
	}
	var value any
	if err := recordDecMode.Unmarshal(r.Payload, &value); err != nil {
		return nil, fmt.Errorf("decoding journal record payload: %w", err)
	}
	return value, nil
}
