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

package governance_test

import (
	"testing"

	"github.com/blinklabs-io/gavel/governance"
	"github.com/stretchr/testify/assert"
)

func TestWallClock(t *testing.T) {
	clock := governance.WallClock{}
	first := clock.Now()
	second := clock.Now()
	assert.Positive(t, first)
	assert.GreaterOrEqual(t, second, first)
}

func TestCounterClock(t *testing.T) {
	clock := governance.NewCounterClock(5)
	assert.Equal(t, uint64(5), clock.Now())
	assert.Equal(t, uint64(8), clock.Advance(3))
	assert.Equal(t, uint64(8), clock.Now())
	// Set only ever moves the clock forward
	clock.Set(20)
	assert.Equal(t, uint64(20), clock.Now())
	clock.Set(10)
	assert.Equal(t, uint64(20), clock.Now())
	clock.Set(20)
	assert.Equal(t, uint64(20), clock.Now())
}
