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

package event_test

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blinklabs-io/gavel/event"
	"github.com/blinklabs-io/gavel/internal/test/testutil"
)

func TestPublishDeliversTypedPayload(t *testing.T) {
	eb := event.NewEventBus(nil, nil)
	defer eb.Stop()
	_, subCh := eb.Subscribe(event.VoteCastEventType)
	payload := event.VoteCastEvent{
		ProposalId: 7,
		Caller:     "ann",
		Voter:      "bea",
		Support:    true,
		Weight:     4,
		Tick:       120,
	}
	eb.Publish(
		event.VoteCastEventType,
		event.NewEvent(event.VoteCastEventType, payload),
	)
	evt := testutil.RequireReceive(
		t,
		subCh,
		time.Second,
		"vote event not delivered",
	)
	assert.Equal(t, event.VoteCastEventType, evt.Type)
	assert.False(t, evt.Timestamp.IsZero())
	// Consumers type-assert Data back to the payload struct, so the
	// concrete type must survive delivery
	got, ok := evt.Data.(event.VoteCastEvent)
	require.True(t, ok, "payload type not preserved, got %T", evt.Data)
	assert.Equal(t, payload, got)
}

func TestPublishFansOut(t *testing.T) {
	eb := event.NewEventBus(nil, nil)
	defer eb.Stop()
	subChans := make([]<-chan event.Event, 0, 3)
	for range 3 {
		_, subCh := eb.Subscribe(event.ProposalCreatedEventType)
		subChans = append(subChans, subCh)
	}
	payload := event.ProposalCreatedEvent{
		ProposalId:  1,
		Creator:     "ann",
		Description: "plant a tree",
		Deadline:    150,
		Tick:        100,
	}
	eb.Publish(
		event.ProposalCreatedEventType,
		event.NewEvent(event.ProposalCreatedEventType, payload),
	)
	for i, subCh := range subChans {
		evt := testutil.RequireReceive(
			t,
			subCh,
			time.Second,
			"event not fanned out to every subscriber",
		)
		assert.Equal(t, payload, evt.Data, "subscriber %d", i)
	}
}

func TestPublishFiltersByType(t *testing.T) {
	eb := event.NewEventBus(nil, nil)
	defer eb.Stop()
	_, pausedCh := eb.Subscribe(event.PausedEventType)
	eb.Publish(
		event.QuorumUpdatedEventType,
		event.NewEvent(
			event.QuorumUpdatedEventType,
			event.QuorumUpdatedEvent{OldQuorum: 10, NewQuorum: 5, Tick: 100},
		),
	)
	testutil.RequireNoReceive(
		t,
		pausedCh,
		100*time.Millisecond,
		"subscriber received an event of a type it never subscribed to",
	)
}

func TestUnsubscribeClosesChannel(t *testing.T) {
	eb := event.NewEventBus(nil, nil)
	defer eb.Stop()
	subId, subCh := eb.Subscribe(event.PausedEventType)
	eb.Unsubscribe(event.PausedEventType, subId)
	eb.Publish(
		event.PausedEventType,
		event.NewEvent(event.PausedEventType, event.PausedEvent{Tick: 100}),
	)
	select {
	case _, ok := <-subCh:
		require.False(t, ok, "received event after Unsubscribe")
	case <-time.After(time.Second):
		t.Fatal("channel not closed after Unsubscribe")
	}
}

func TestStopClosesSubscribers(t *testing.T) {
	evtType := event.ProposalCanceledEventType
	eb := event.NewEventBus(nil, nil)
	_, subCh := eb.Subscribe(evtType)
	handled := make(chan event.Event, 1)
	eb.SubscribeFunc(evtType, func(evt event.Event) {
		handled <- evt
	})

	eb.Publish(
		evtType,
		event.NewEvent(evtType, event.ProposalCanceledEvent{
			ProposalId: 3,
			Tick:       100,
		}),
	)
	testutil.RequireReceive(
		t,
		handled,
		time.Second,
		"handler not invoked before Stop",
	)

	eb.Stop()

	// Drain anything buffered before Stop, then expect the close
	deadline := time.After(time.Second)
	for {
		select {
		case _, ok := <-subCh:
			if !ok {
				goto closed
			}
		case <-deadline:
			t.Fatal("subscriber channel not closed by Stop")
		}
	}
closed:
	// The handler goroutine exited with its channel, so a fresh publish
	// must not reach it
	eb.Publish(
		evtType,
		event.NewEvent(evtType, event.ProposalCanceledEvent{
			ProposalId: 4,
			Tick:       110,
		}),
	)
	testutil.RequireNoReceive(
		t,
		handled,
		100*time.Millisecond,
		"handler invoked after Stop",
	)
}

// The bus keeps working after Stop, so a node restart within the same
// process sees a clean bus.
func TestBusUsableAfterStop(t *testing.T) {
	evtType := event.UnpausedEventType
	eb := event.NewEventBus(nil, nil)
	eb.Stop()

	_, subCh := eb.Subscribe(evtType)
	eb.Publish(
		evtType,
		event.NewEvent(evtType, event.UnpausedEvent{Tick: 200}),
	)
	evt := testutil.RequireReceive(
		t,
		subCh,
		time.Second,
		"subscriber created after Stop not served",
	)
	assert.Equal(t, event.UnpausedEvent{Tick: 200}, evt.Data)
	eb.Stop()
}

func TestPublishAsyncDelivers(t *testing.T) {
	eb := event.NewEventBus(nil, nil)
	defer eb.Stop()
	_, subCh := eb.Subscribe(event.ProposalExecutedEventType)
	payload := event.ProposalExecutedEvent{
		ProposalId: 2,
		Passed:     true,
		YesWeight:  6,
		NoWeight:   5,
		Tick:       160,
	}
	queued := eb.PublishAsync(
		event.ProposalExecutedEventType,
		event.NewEvent(event.ProposalExecutedEventType, payload),
	)
	require.True(t, queued)
	evt := testutil.RequireReceive(
		t,
		subCh,
		time.Second,
		"async event not delivered",
	)
	assert.Equal(t, payload, evt.Data)
}

func TestSubscribeFuncPanicRecovery(t *testing.T) {
	evtType := event.OwnerChangedEventType
	eb := event.NewEventBus(nil, nil)
	defer eb.Stop()

	var received atomic.Int32
	// The handler panics on the first event, then settles down
	eb.SubscribeFunc(evtType, func(evt event.Event) {
		if received.Add(1) == 1 {
			panic("intentional test panic")
		}
	})

	eb.Publish(evtType, event.NewEvent(evtType, event.OwnerChangedEvent{
		OldOwner: "ann",
		NewOwner: "bea",
		Tick:     100,
	}))
	eb.Publish(evtType, event.NewEvent(evtType, event.OwnerChangedEvent{
		OldOwner: "bea",
		NewOwner: "cyn",
		Tick:     110,
	}))

	require.Eventually(t, func() bool {
		return received.Load() >= 2
	}, 2*time.Second, 10*time.Millisecond,
		"handler should keep processing events after a panic",
	)
}
