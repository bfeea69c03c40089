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

// Package event provides the process-wide event bus. The governance engine
// publishes an event after each successful state change and the journal and
// API stream consume them. Delivery to channel subscribers never blocks the
// publisher.
package event

import (
	"fmt"
	"log/slog"
	"maps"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	// Buffer size for channels handed out by Subscribe
	EventQueueSize = 20
	// Buffer size for the PublishAsync queue
	AsyncQueueSize = 1000
	// Worker goroutines draining the PublishAsync queue
	asyncWorkerCount = 4
)

type EventType string

type EventSubscriberId int

type EventHandlerFunc func(Event)

// Event is the envelope published on the bus. Data holds one of the typed
// payloads from events.go.
type Event struct {
	Timestamp time.Time
	Data      any
	Type      EventType
}

func NewEvent(eventType EventType, eventData any) Event {
	return Event{
		Type:      eventType,
		Timestamp: time.Now(),
		Data:      eventData,
	}
}

// Subscriber receives events published on the bus. Channel subscribers
// created through Subscribe and external adapters registered through
// RegisterSubscriber both implement it. Deliver returning an error removes
// the subscriber from the bus. Close must be idempotent.
type Subscriber interface {
	Deliver(Event) error
	Close()
}

// subscriberKind labels a subscriber for metrics
func subscriberKind(sub Subscriber) string {
	if _, ok := sub.(*channelSubscriber); ok {
		return "in-memory"
	}
	return "remote"
}

// safeDeliver invokes sub.Deliver, converting a panic into an error
func safeDeliver(sub Subscriber, evt Event) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("subscriber deliver panic: %v", r)
		}
	}()
	return sub.Deliver(evt)
}

type asyncEvent struct {
	typ EventType
	evt Event
}

// EventBus fans events out to subscribers by event type. The zero value is
// not usable, use NewEventBus.
type EventBus struct {
	subscribers map[EventType]map[EventSubscriberId]Subscriber
	metrics     *eventMetrics
	logger      *slog.Logger
	subIdSeq    EventSubscriberId
	mu          sync.RWMutex

	asyncQueue chan asyncEvent
	asyncWg    sync.WaitGroup
	stopCh     chan struct{}
	stopped    bool
	stopMu     sync.RWMutex
	// Serializes Stop calls so concurrent Stops cannot double the worker pool
	stopOpMu sync.Mutex
}

// NewEventBus returns a running bus. A nil promRegistry disables metrics and
// a nil logger disables delivery logging.
func NewEventBus(
	promRegistry prometheus.Registerer,
	logger *slog.Logger,
) *EventBus {
	e := &EventBus{
		subscribers: make(map[EventType]map[EventSubscriberId]Subscriber),
		logger:      logger,
		asyncQueue:  make(chan asyncEvent, AsyncQueueSize),
		stopCh:      make(chan struct{}),
	}
	if promRegistry != nil {
		e.initMetrics(promRegistry)
	}
	e.startAsyncWorkers()
	return e
}

func (e *EventBus) startAsyncWorkers() {
	for range asyncWorkerCount {
		e.asyncWg.Add(1)
		go e.asyncWorker()
	}
}

func (e *EventBus) asyncWorker() {
	defer e.asyncWg.Done()
	for {
		select {
		case <-e.stopCh:
			return
		case queued, ok := <-e.asyncQueue:
			if !ok {
				return
			}
			e.Publish(queued.typ, queued.evt)
		}
	}
}

// register adds a subscriber under lock and returns its assigned id
func (e *EventBus) register(
	eventType EventType,
	sub Subscriber,
) EventSubscriberId {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.subIdSeq++
	subId := e.subIdSeq
	subs := e.subscribers[eventType]
	if subs == nil {
		subs = make(map[EventSubscriberId]Subscriber)
		e.subscribers[eventType] = subs
	}
	subs[subId] = sub
	if e.metrics != nil {
		e.metrics.subscribers.
			WithLabelValues(string(eventType), subscriberKind(sub)).
			Inc()
	}
	return subId
}

// Subscribe registers a channel subscriber for the given event type. The
// returned channel is closed on Unsubscribe or Stop. When its buffer is full
// further events are dropped rather than blocking publishers.
func (e *EventBus) Subscribe(
	eventType EventType,
) (EventSubscriberId, <-chan Event) {
	chSub := newChannelSubscriber(EventQueueSize, e.logger)
	subId := e.register(eventType, chSub)
	return subId, chSub.ch
}

// SubscribeFunc registers a callback for the given event type. The callback
// runs on a dedicated goroutine which exits when the subscription is removed.
// Panics inside the callback are logged and do not kill the goroutine.
func (e *EventBus) SubscribeFunc(
	eventType EventType,
	handlerFunc EventHandlerFunc,
) EventSubscriberId {
	subId, ch := e.Subscribe(eventType)
	go func() {
		for evt := range ch {
			e.runHandler(handlerFunc, evt)
		}
	}()
	return subId
}

func (e *EventBus) runHandler(handlerFunc EventHandlerFunc, evt Event) {
	defer func() {
		if r := recover(); r != nil {
			if e.logger != nil {
				e.logger.Warn(
					"event handler panic",
					"type", evt.Type,
					"panic", r,
				)
			}
		}
	}()
	handlerFunc(evt)
}

// RegisterSubscriber registers an external Subscriber implementation, such
// as the journal, for the given event type. Delivery happens synchronously
// inside Publish.
func (e *EventBus) RegisterSubscriber(
	eventType EventType,
	sub Subscriber,
) EventSubscriberId {
	return e.register(eventType, sub)
}

// Unsubscribe removes a subscriber and closes it
func (e *EventBus) Unsubscribe(eventType EventType, subId EventSubscriberId) {
	e.mu.Lock()
	var removed Subscriber
	subs := e.subscribers[eventType]
	if sub, ok := subs[subId]; ok {
		removed = sub
		delete(subs, subId)
		if len(subs) == 0 {
			delete(e.subscribers, eventType)
		}
		if e.metrics != nil {
			e.metrics.subscribers.
				WithLabelValues(string(eventType), subscriberKind(sub)).
				Dec()
		}
	}
	e.mu.Unlock()
	// Close outside the lock since Close may block on in-flight delivery
	if removed != nil {
		removed.Close()
	}
}

// Publish delivers an event to every subscriber registered for its type. A
// subscriber whose Deliver returns an error or panics is removed from the
// bus.
func (e *EventBus) Publish(eventType EventType, evt Event) {
	// Snapshot the subscriber set so delivery happens outside the lock
	e.mu.RLock()
	targets := maps.Clone(e.subscribers[eventType])
	e.mu.RUnlock()

	for subId, sub := range targets {
		if err := safeDeliver(sub, evt); err != nil {
			e.dropSubscriber(eventType, subId, sub, err)
		}
	}
	if e.metrics != nil {
		e.metrics.eventsTotal.WithLabelValues(string(eventType)).Inc()
	}
}

func (e *EventBus) dropSubscriber(
	eventType EventType,
	subId EventSubscriberId,
	sub Subscriber,
	err error,
) {
	e.Unsubscribe(eventType, subId)
	if e.metrics != nil {
		e.metrics.deliveryErrors.
			WithLabelValues(string(eventType), subscriberKind(sub)).
			Inc()
	}
	logger := e.logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.Debug(
		"removing subscriber after failed delivery",
		"type", eventType,
		"error", err,
	)
}

// PublishAsync queues an event for delivery from the worker pool and returns
// without waiting for subscribers. Returns false when the bus is stopped or
// the queue is full, in which case the event is dropped.
func (e *EventBus) PublishAsync(eventType EventType, evt Event) bool {
	e.stopMu.RLock()
	stopped := e.stopped
	queue := e.asyncQueue
	e.stopMu.RUnlock()
	if stopped {
		return false
	}
	select {
	case queue <- asyncEvent{typ: eventType, evt: evt}:
		return true
	default:
		if e.logger != nil {
			e.logger.Warn(
				"async queue full, event dropped",
				"type", eventType,
			)
		}
		if e.metrics != nil {
			e.metrics.deliveryErrors.
				WithLabelValues(string(eventType), "async-dropped").
				Inc()
		}
		return false
	}
}

// Stop drains the async workers and closes every subscriber. Channels handed
// out by Subscribe are closed so consumer goroutines exit. The bus restarts
// its worker pool before returning and can keep being used afterwards.
func (e *EventBus) Stop() {
	e.stopOpMu.Lock()
	defer e.stopOpMu.Unlock()

	e.stopMu.Lock()
	wasStopped := e.stopped
	e.stopped = true
	e.stopMu.Unlock()
	if !wasStopped {
		close(e.stopCh)
		e.asyncWg.Wait()
	}

	e.mu.Lock()
	drained := e.subscribers
	e.subscribers = make(map[EventType]map[EventSubscriberId]Subscriber)
	e.mu.Unlock()
	for _, subs := range drained {
		for _, sub := range subs {
			sub.Close()
		}
	}
	if e.metrics != nil {
		e.metrics.subscribers.Reset()
	}

	e.stopMu.Lock()
	e.asyncQueue = make(chan asyncEvent, AsyncQueueSize)
	e.stopCh = make(chan struct{})
	e.stopped = false
	e.stopMu.Unlock()
	e.startAsyncWorkers()
}
