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

// Package testutil holds synchronization helpers shared across test packages
package testutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const pollInterval = 10 * time.Millisecond

// WaitForCondition polls condition until it returns true, failing the test
// with msg once timeout expires
func WaitForCondition(
	t *testing.T,
	condition func() bool,
	timeout time.Duration,
	msg string,
) {
	t.Helper()
	require.Eventually(t, condition, timeout, pollInterval, msg)
}

// RequireReceive returns the next value from ch, failing the test with msg
// if nothing arrives within timeout
func RequireReceive[T any](
	t *testing.T,
	ch <-chan T,
	timeout time.Duration,
	msg string,
) T {
	t.Helper()
	select {
	case v := <-ch:
		return v
	case <-time.After(timeout):
		t.Fatalf("no value on channel after %s: %s", timeout, msg)
	}
	var zero T
	return zero
}

// RequireNoReceive fails the test with msg if any value arrives on ch
// before duration elapses
func RequireNoReceive[T any](
	t *testing.T,
	ch <-chan T,
	duration time.Duration,
	msg string,
) {
	t.Helper()
	select {
	case v := <-ch:
		t.Fatalf("channel produced %v when nothing was expected: %s", v, msg)
	case <-time.After(duration):
	}
}
