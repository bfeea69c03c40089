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
	"fmt"
	"os"
)

// groupOtherBits covers every group and other permission bit
const groupOtherBits = 0o077

// checkOpenFilePermissions rejects token files readable beyond their owner.
// The check runs against the open handle (fstat), so the file inspected
// here is the file that gets read.
func checkOpenFilePermissions(f *os.File) error {
	fi, err := f.Stat()
	if err != nil {
		return fmt.Errorf(
			"failed to stat owner token file %q: %w",
			f.Name(),
			err,
		)
	}
	if mode := fi.Mode().Perm(); mode&groupOtherBits != 0 {
		return fmt.Errorf(
			"owner token file %q has mode %04o, group/other access not permitted: %w",
			f.Name(),
			mode,
			ErrInsecureFileMode,
		)
	}
	return nil
}
