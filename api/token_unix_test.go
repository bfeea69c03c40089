//go:build !windows

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

package api

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadOwnerTokenInsecureMode(t *testing.T) {
	testDefs := []struct {
		name string
		mode os.FileMode
		ok   bool
	}{
		{name: "owner read-write", mode: 0o600, ok: true},
		{name: "owner read-only", mode: 0o400, ok: true},
		{name: "group readable", mode: 0o640, ok: false},
		{name: "world readable", mode: 0o644, ok: false},
		{name: "group writable", mode: 0o620, ok: false},
	}
	for _, testDef := range testDefs {
		t.Run(testDef.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "owner.token")
			require.NoError(
				t,
				os.WriteFile(path, []byte("s3cret"), testDef.mode),
			)
			// WriteFile's mode is subject to the process umask, which can
			// strip bits the test depends on; set the exact mode explicitly.
			require.NoError(t, os.Chmod(path, testDef.mode))

			g, _ := setupTestGovernance(t)
			a, err := New(ApiConfig{
				Governance:     g,
				OwnerTokenFile: path,
			})
			require.NoError(t, err)

			err = a.loadOwnerToken()
			if testDef.ok {
				require.NoError(t, err)
				assert.Equal(t, []byte("s3cret"), a.ownerToken)
			} else {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInsecureFileMode)
			}
		})
	}
}
