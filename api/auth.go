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
	"bytes"
	"crypto/subtle"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
)

// ErrInsecureFileMode indicates the owner token file grants group or
// other access.
var ErrInsecureFileMode = errors.New("insecure file permissions")

// loadOwnerToken reads the configured owner token file. The file is
// opened first and permissions are checked on the open handle (via fstat
// on Unix) to avoid a TOCTOU race between the permission check and the
// read. Returns ErrInsecureFileMode if the file has group or other
// access.
func (a *Api) loadOwnerToken() error {
	path := a.config.OwnerTokenFile
	if path == "" {
		return nil
	}
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf(
			"failed to open owner token file %q: %w",
			path,
			err,
		)
	}
	defer f.Close() //nolint:errcheck

	if err := checkOpenFilePermissions(f); err != nil {
		return err
	}

	// Limit read to 1 MiB to guard against accidentally pointing at a
	// large file. Valid token files are well under this size.
	const maxTokenFileSize = 1 << 20
	data, err := io.ReadAll(io.LimitReader(f, maxTokenFileSize))
	if err != nil {
		return fmt.Errorf(
			"failed to read owner token file %q: %w",
			path,
			err,
		)
	}
	token := bytes.TrimSpace(data)
	if len(token) == 0 {
		return fmt.Errorf("owner token file %q is empty", path)
	}
	a.ownerToken = token
	return nil
}

// requireOwnerToken wraps owner-gated handlers with a bearer token
// check. The check only applies when an owner token file is configured;
// without one, owner routes rely on the engine's caller check alone.
func (a *Api) requireOwnerToken(
	next http.HandlerFunc,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if len(a.ownerToken) > 0 {
			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || subtle.ConstantTimeCompare(
				[]byte(token),
				a.ownerToken,
			) != 1 {
				a.writeError(
					w,
					http.StatusUnauthorized,
					"missing or invalid owner token",
				)
				return
			}
		}
		next(w, r)
	}
}
