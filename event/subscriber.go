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
	"fmt"
	"log/slog"
	"sync"
)

// channelSubscriber backs the channel returned by Subscribe. Deliver never
// blocks: when the buffer is full the event is dropped so a slow consumer
// cannot stall the publisher.
type channelSubscriber struct {
	ch     chan Event
	logger *slog.Logger
	mu     sync.RWMutex
	closed bool
}

func newChannelSubscriber(buffer int, logger *slog.Logger) *channelSubscriber {
	return &channelSubscriber{
		ch:     make(chan Event, buffer),
		logger: logger,
	}
}

func (c *channelSubscriber) Deliver(evt Event) (err error) {
	// Holding the read lock across the send makes Close wait for in-flight
	// deliveries before closing the channel
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		// Events sent after close are silently dropped
		return nil
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("send on subscriber channel panicked: %v", r)
		}
	}()
	select {
	case c.ch <- evt:
	default:
		if c.logger != nil {
			c.logger.Warn(
				"subscriber buffer full, dropping event",
				"type", evt.Type,
			)
		}
	}
	return nil
}

func (c *channelSubscriber) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.ch)
}
