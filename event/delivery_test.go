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

package event

import (
	"errors"
	"testing"
	"time"
)

// brokenSubscriber fails every Deliver, like a remote client whose
// connection has dropped
type brokenSubscriber struct {
	deliverCalls int
	closeCalls   int
}

func (b *brokenSubscriber) Deliver(evt Event) error {
	b.deliverCalls++
	return errors.New("connection lost")
}

func (b *brokenSubscriber) Close() {
	b.closeCalls++
}

func TestDeliverFailureUnregisters(t *testing.T) {
	evtType := EventType("deliver.failure")
	eb := NewEventBus(nil, nil)
	defer eb.Stop()
	sub := &brokenSubscriber{}
	subId := eb.RegisterSubscriber(evtType, sub)

	eb.Publish(evtType, NewEvent(evtType, "first"))
	if sub.deliverCalls != 1 {
		t.Fatalf("got %d deliver calls, expected 1", sub.deliverCalls)
	}
	if sub.closeCalls != 1 {
		t.Fatalf(
			"got %d close calls after failed delivery, expected 1",
			sub.closeCalls,
		)
	}
	eb.mu.RLock()
	_, stillRegistered := eb.subscribers[evtType][subId]
	eb.mu.RUnlock()
	if stillRegistered {
		t.Fatal("failing subscriber still registered after Publish")
	}

	// Later publishes must not reach the removed subscriber
	eb.Publish(evtType, NewEvent(evtType, "second"))
	if sub.deliverCalls != 1 {
		t.Fatalf(
			"removed subscriber saw %d deliver calls, expected 1",
			sub.deliverCalls,
		)
	}
}

// A full buffer drops the event instead of blocking the publisher. Deliver
// holds the subscriber's read lock across the send, so a blocking send
// would deadlock against Close waiting on the write lock.
func TestChannelSubscriberDropsWhenFull(t *testing.T) {
	const buffer = 4
	sub := newChannelSubscriber(buffer, nil)
	for i := range buffer + 1 {
		returned := make(chan error, 1)
		go func() {
			returned <- sub.Deliver(NewEvent("drop.test", i))
		}()
		select {
		case err := <-returned:
			if err != nil {
				t.Fatalf("deliver %d failed: %v", i, err)
			}
		case <-time.After(time.Second):
			t.Fatalf("deliver %d blocked", i)
		}
	}
	// Only the buffered events survive, in order
	for i := range buffer {
		select {
		case evt := <-sub.ch:
			if evt.Data != i {
				t.Fatalf("got event %v at position %d", evt.Data, i)
			}
		default:
			t.Fatalf("missing buffered event %d", i)
		}
	}
	select {
	case evt := <-sub.ch:
		t.Fatalf("overflow event %v was not dropped", evt.Data)
	default:
	}
}

func TestChannelSubscriberDeliverAfterClose(t *testing.T) {
	sub := newChannelSubscriber(1, nil)
	sub.Close()
	if err := sub.Deliver(NewEvent("closed.test", nil)); err != nil {
		t.Fatalf("deliver after close returned error: %v", err)
	}
	if _, ok := <-sub.ch; ok {
		t.Fatal("event delivered after close")
	}
}

func TestChannelSubscriberCloseIdempotent(t *testing.T) {
	sub := newChannelSubscriber(1, nil)
	sub.Close()
	// A second Close must not panic on the already closed channel
	sub.Close()
}
