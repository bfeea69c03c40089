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

package governance

import (
	"sync/atomic"
	"time"
)

// Clock supplies the current tick used for all deadline comparisons. A
// governance instance uses exactly one tick domain for its whole lifetime:
// either wall-clock seconds or an externally advanced counter such as a
// block height. The two are never mixed within one instance.
type Clock interface {
	Now() uint64
}

// WallClock is a Clock backed by the system clock, ticking in Unix seconds
type WallClock struct{}

func (WallClock) Now() uint64 {
	return uint64(time.Now().Unix()) // #nosec G115 -- non-negative after 1970
}

// CounterClock is a Clock driven by an external counter, such as a block
// height fed in by whatever produces blocks. It never moves on its own.
type CounterClock struct {
	tick atomic.Uint64
}

// NewCounterClock returns a CounterClock starting at the given tick
func NewCounterClock(start uint64) *CounterClock {
	c := &CounterClock{}
	c.tick.Store(start)
	return c
}

func (c *CounterClock) Now() uint64 {
	return c.tick.Load()
}

// Advance moves the clock forward by delta ticks and returns the new tick
func (c *CounterClock) Advance(delta uint64) uint64 {
	return c.tick.Add(delta)
}

// Set moves the clock forward to the given tick. Ticks are monotonically
// non-decreasing, so a tick at or below the current one is ignored.
func (c *CounterClock) Set(tick uint64) {
	for {
		current := c.tick.Load()
		if tick <= current {
			return
		}
		if c.tick.CompareAndSwap(current, tick) {
			return
		}
	}
}
