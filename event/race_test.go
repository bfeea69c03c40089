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
	"sync"
	"testing"
	"time"
)

// awaitDone fails the test when the group does not finish within timeout,
// which is how a deadlock in the bus shows up
func awaitDone(t *testing.T, wg *sync.WaitGroup, timeout time.Duration) {
	t.Helper()
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(timeout):
		t.Fatal("goroutines still blocked, likely deadlock")
	}
}

// Publishing while a subscriber is being unsubscribed and the bus stopped
// must never send on a closed channel. Run many rounds to give the
// scheduler a chance to interleave the close with an in-flight send.
func TestPublishRacesUnsubscribe(t *testing.T) {
	evtType := EventType("race.publish.unsubscribe")
	for range 1000 {
		eb := NewEventBus(nil, nil)
		subId, ch := eb.Subscribe(evtType)

		var wg sync.WaitGroup
		wg.Add(3)
		go func() {
			defer wg.Done()
			for i := range 10 {
				eb.Publish(evtType, NewEvent(evtType, i))
			}
		}()
		go func() {
			defer wg.Done()
			eb.Unsubscribe(evtType, subId)
			eb.Stop()
		}()
		go func() {
			defer wg.Done()
			for range ch {
			}
		}()
		awaitDone(t, &wg, 10*time.Second)
	}
}

// Concurrent SubscribeFunc and Stop calls contend on the subscriber map.
// Whatever the interleaving, nothing may panic and every handler goroutine
// that did get registered must be shut down.
func TestSubscribeFuncRacesStop(t *testing.T) {
	evtType := EventType("race.subscribefunc.stop")
	for range 1000 {
		eb := NewEventBus(nil, nil)
		var wg sync.WaitGroup
		for range 5 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				eb.SubscribeFunc(evtType, func(Event) {})
			}()
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			eb.Stop()
		}()
		awaitDone(t, &wg, 10*time.Second)
		// Sweep up subscriptions registered after the racing Stop ran
		eb.Stop()
	}
}

// A subscriber that never drains its channel must not stall Publish
func TestPublishWithSaturatedSubscriber(t *testing.T) {
	evtType := EventType("race.saturated")
	eb := NewEventBus(nil, nil)
	defer eb.Stop()
	_, ch := eb.Subscribe(evtType)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		// Twice the buffer size, so the second half lands on a full channel
		for i := range EventQueueSize * 2 {
			eb.Publish(evtType, NewEvent(evtType, i))
		}
	}()
	awaitDone(t, &wg, 5*time.Second)

	// The buffer holds the first EventQueueSize events, the rest dropped
	received := 0
	for {
		select {
		case <-ch:
			received++
		default:
			if received != EventQueueSize {
				t.Fatalf(
					"got %d buffered events, expected %d",
					received,
					EventQueueSize,
				)
			}
			return
		}
	}
}

// Unsubscribe closes the channel while publishers hammer a full buffer.
// Close waits on the subscriber write lock, so it only completes if Deliver
// never blocks while holding the read lock.
func TestUnsubscribeDuringPublishStorm(t *testing.T) {
	evtType := EventType("race.storm")
	for range 500 {
		eb := NewEventBus(nil, nil)
		subId, ch := eb.Subscribe(evtType)
		for range EventQueueSize {
			eb.Publish(evtType, NewEvent(evtType, "fill"))
		}

		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			for range 50 {
				eb.Publish(evtType, NewEvent(evtType, "storm"))
			}
		}()
		go func() {
			defer wg.Done()
			eb.Unsubscribe(evtType, subId)
		}()
		go func() {
			for range ch {
			}
		}()
		awaitDone(t, &wg, 5*time.Second)
		eb.Stop()
	}
}
