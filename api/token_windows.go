//go:build windows

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
	"strings"

	"golang.org/x/sys/windows"
)

// broadAccessTrustees lists SDDL trustee strings, both the two-letter
// abbreviations and the raw SIDs, whose presence in an allow ACE makes the
// token file readable by effectively any local user.
var broadAccessTrustees = map[string]string{
	"WD":           "Everyone",
	"S-1-1-0":      "Everyone",
	"BU":           "BUILTIN\\Users",
	"S-1-5-32-545": "BUILTIN\\Users",
	"AU":           "Authenticated Users",
	"S-1-5-11":     "Authenticated Users",
}

// checkOpenFilePermissions verifies the owner token file's access controls.
// NTFS blocks replacing a file that is held open, so resolving the path
// from the open handle is not subject to the usual TOCTOU concerns.
func checkOpenFilePermissions(f *os.File) error {
	return checkFilePermissions(f.Name())
}

// checkFilePermissions reads the file's DACL as an SDDL string and rejects
// grants to Everyone, BUILTIN\Users or Authenticated Users.
//
// The security descriptor returned by GetNamedSecurityInfo is never freed.
// Freeing it takes unsafe pointer arithmetic that corrupts the heap under
// the Go 1.24+ GC (go.dev/issue/73199), and the descriptor is only a few
// hundred bytes fetched once at startup.
func checkFilePermissions(path string) error {
	sd, err := windows.GetNamedSecurityInfo(
		path,
		windows.SE_FILE_OBJECT,
		windows.DACL_SECURITY_INFORMATION,
	)
	if err != nil {
		return fmt.Errorf(
			"failed to get security info for %q: %w",
			path,
			err,
		)
	}
	sddl := sd.String()
	if sddl == "" {
		return fmt.Errorf("failed to read security descriptor for %q", path)
	}
	return checkTokenSDDL(path, sddl)
}

// checkTokenSDDL scans the DACL section of an SDDL string for allow ACEs
// granting access to one of the broad trustees
func checkTokenSDDL(path string, sddl string) error {
	_, dacl, found := strings.Cut(sddl, "D:")
	if !found {
		// No DACL at all means the object is unprotected
		return fmt.Errorf(
			"owner token file %q has no DACL (unrestricted access): %w",
			path,
			ErrInsecureFileMode,
		)
	}
	if before, _, foundSacl := strings.Cut(dacl, "S:"); foundSacl {
		dacl = before
	}

	// ACEs are parenthesised, with DACL control flags before the first one
	for _, entry := range strings.Split(dacl, "(") {
		ace, ok := strings.CutSuffix(entry, ")")
		if !ok {
			continue
		}
		// type;flags;rights;objectGuid;inheritGuid;trustee
		fields := strings.Split(ace, ";")
		if len(fields) < 6 {
			continue
		}
		// Only allow ACEs grant anything
		if fields[0] != "A" {
			continue
		}
		if name, ok := broadAccessTrustees[fields[5]]; ok {
			return fmt.Errorf(
				"owner token file %q grants access to %s: %w",
				path,
				name,
				ErrInsecureFileMode,
			)
		}
	}
	return nil
}
