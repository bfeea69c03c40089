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
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/blinklabs-io/gavel/database"
	"github.com/blinklabs-io/gavel/database/types"
	"github.com/blinklabs-io/gavel/event"
	"github.com/prometheus/client_golang/prometheus"
)

// firstSeq is the sequence number assigned to the first journal record
const firstSeq = 1

// journaledEventTypes lists every event type the journal captures. New
// governance event types must be added here to be persisted.
var journaledEventTypes = []event.EventType{
	event.ProposalCreatedEventType,
	event.ProposalExecutedEventType,
	event.ProposalCanceledEventType,
	event.ProposalExtendedEventType,
	event.VoteCastEventType,
	event.DelegatedEventType,
	event.DelegationRevokedEventType,
	event.VotingWeightUpdatedEventType,
	event.QuorumUpdatedEventType,
	event.OwnerChangedEventType,
	event.PausedEventType,
	event.UnpausedEventType,
}

type JournalConfig struct {
	PromRegistry prometheus.Registerer
	Logger       *slog.Logger
	EventBus     *event.EventBus
	Database     *database.Database
}

type subscription struct {
	eventType event.EventType
	subId     event.EventSubscriberId
}

// Journal persists governance events to the blob store as an append-only
// record stream. It registers directly on the event bus, so records are
// written before Publish returns and a slow disk cannot cause events to be
// silently dropped the way a full channel buffer would.
//
// The journal is an observer: the governance engine never reads it back.
type Journal struct {
	config  JournalConfig
	db      *database.Database
	metrics *journalMetrics
	mutex   sync.Mutex
	nextSeq uint64
	subs    []subscription
}

func NewJournal(cfg JournalConfig) (*Journal, error) {
	if cfg.Logger == nil {
		// Create logger to throw away logs
		// We do this so we don't have to add guards around every log operation
		cfg.Logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	cfg.Logger = cfg.Logger.With("component", "journal")
	if cfg.Database == nil {
		return nil, errors.New("no database provided")
	}
	j := &Journal{
		config: cfg,
		db:     cfg.Database,
	}
	if cfg.PromRegistry != nil {
		j.initMetrics()
	}
	if err := j.recoverNextSeq(); err != nil {
		return nil, fmt.Errorf("failed to recover journal sequence: %w", err)
	}
	return j, nil
}

// Start subscribes the journal to all governance event types. It is a no-op
// when already started.
func (j *Journal) Start() error {
	if j.config.EventBus == nil {
		return errors.New("no event bus provided")
	}
	j.mutex.Lock()
	defer j.mutex.Unlock()
	if len(j.subs) > 0 {
		return nil
	}
	for _, eventType := range journaledEventTypes {
		subId := j.config.EventBus.RegisterSubscriber(eventType, j)
		j.subs = append(
			j.subs,
			subscription{eventType: eventType, subId: subId},
		)
	}
	j.config.Logger.Info(
		"started journal",
		"next_seq", j.nextSeq,
	)
	return nil
}

// Stop detaches the journal from the event bus. Records already written
// remain readable.
func (j *Journal) Stop() {
	j.mutex.Lock()
	subs := j.subs
	j.subs = nil
	j.mutex.Unlock()
	for _, sub := range subs {
		j.config.EventBus.Unsubscribe(sub.eventType, sub.subId)
	}
}

// Deliver implements event.Subscriber. Each event is encoded as a journal
// record and written to the blob store under the next sequence number. A
// failed write does not consume the sequence number, so persisted records
// stay contiguous.
func (j *Journal) Deliver(evt event.Event) error {
	j.mutex.Lock()
	defer j.mutex.Unlock()
	payload, err := recordEncMode.Marshal(evt.Data)
	if err != nil {
		j.config.Logger.Error(
			"failed to encode journal record payload",
			"type", evt.Type,
			"error", err,
		)
		if j.metrics != nil {
			j.metrics.writeErrors.Inc()
		}
		return nil
	}
	record := Record{
		Seq:       j.nextSeq,
		Type:      string(evt.Type),
		Timestamp: evt.Timestamp.UnixNano(),
		Payload:   payload,
	}
	data, err := encodeRecord(record)
	if err != nil {
		j.config.Logger.Error(
			"failed to encode journal record",
			"seq", record.Seq,
			"type", evt.Type,
			"error", err,
		)
		if j.metrics != nil {
			j.metrics.writeErrors.Inc()
		}
		return nil
	}
	txn := j.db.BlobTransaction(true)
	err = txn.Do(func(txn *database.Txn) error {
		return j.db.Blob().SetRecord(txn.Blob(), record.Seq, data)
	})
	if err != nil {
		// Returning an error would detach the journal from the bus, so
		// write failures are logged and counted instead
		j.config.Logger.Error(
			"failed to persist journal record",
			"seq", record.Seq,
			"type", evt.Type,
			"error", err,
		)
		if j.metrics != nil {
			j.metrics.writeErrors.Inc()
		}
		return nil
	}
	j.nextSeq++
	j.config.Logger.Debug(
		"journaled event",
		"seq", record.Seq,
		"type", evt.Type,
	)
	if j.metrics != nil {
		j.metrics.records.Inc()
		j.metrics.lastSeq.Set(float64(record.Seq))
	}
	return nil
}

// Close implements event.Subscriber. The journal holds no per-subscription
// resources, so there is nothing to release.
func (j *Journal) Close() {}

// NextSeq returns the sequence number the next record will be assigned
func (j *Journal) NextSeq() uint64 {
	j.mutex.Lock()
	defer j.mutex.Unlock()
	return j.nextSeq
}

// recoverNextSeq determines the next sequence number from the most recent
// record in the blob store
func (j *Journal) recoverNextSeq() error {
	blob := j.db.Blob()
	if blob == nil {
		return types.ErrBlobStoreUnavailable
	}
	txn := blob.NewTransaction(false)
	defer txn.Rollback() //nolint:errcheck
	iterOpts := types.BlobIteratorOptions{
		Reverse: true,
		Prefix:  []byte(types.JournalRecordKeyPrefix),
	}
	it := blob.NewIterator(txn, iterOpts)
	if it == nil {
		return errors.New("blob iterator is nil")
	}
	defer it.Close()
	// Generate our seek key
	// We use the record key prefix and append 0xFF to get a key that should
	// be after any legitimate key. This should leave our most recent record
	// as the next item when doing reverse iteration
	seekKey := append([]byte(types.JournalRecordKeyPrefix), 0xff)
	prefix := []byte(types.JournalRecordKeyPrefix)
	j.nextSeq = firstSeq
	for it.Seek(seekKey); it.ValidForPrefix(prefix); it.Next() {
		item := it.Item()
		if item == nil {
			continue
		}
		seq, err := types.ParseJournalRecordKey(item.Key())
		if err != nil {
			j.config.Logger.Warn(
				"skipping malformed journal record key",
				"error", err,
			)
			continue
		}
		j.nextSeq = seq + 1
		break
	}
	if err := it.Err(); err != nil {
		return fmt.Errorf("scanning journal records: %w", err)
	}
	if j.metrics != nil && j.nextSeq > firstSeq {
		j.metrics.lastSeq.Set(float64(j.nextSeq - 1))
	}
	return nil
}

// Records returns up to count records starting at sequence number from.
// Passing from = 0 starts at the beginning of the journal.
func (j *Journal) Records(from uint64, count int) ([]Record, error) {
	if count <= 0 {
		return nil, nil
	}
	blob := j.db.Blob()
	if blob == nil {
		return nil, types.ErrBlobStoreUnavailable
	}
	txn := blob.NewTransaction(false)
	defer txn.Rollback() //nolint:errcheck
	iterOpts := types.BlobIteratorOptions{
		Prefix: []byte(types.JournalRecordKeyPrefix),
	}
	it := blob.NewIterator(txn, iterOpts)
	if it == nil {
		return nil, errors.New("blob iterator is nil")
	}
	defer it.Close()
	prefix := []byte(types.JournalRecordKeyPrefix)
	ret := make([]Record, 0, count)
	for it.Seek(types.JournalRecordKey(from)); it.ValidForPrefix(prefix); it.Next() {
		item := it.Item()
		if item == nil {
			continue
		}
		data, err := item.ValueCopy(nil)
		if err != nil {
			return nil, fmt.Errorf("reading journal record: %w", err)
		}
		record, err := decodeRecord(data)
		if err != nil {
			return nil, err
		}
		ret = append(ret, record)
		if len(ret) >= count {
			break
		}
	}
	if err := it.Err(); err != nil {
		return nil, fmt.Errorf("scanning journal records: %w", err)
	}
	return ret, nil
}
