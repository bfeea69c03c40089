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
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/windows"
)

// currentUserSIDString resolves the SID of the user running the tests
func currentUserSIDString(t *testing.T) string {
	t.Helper()

	var token windows.Token
	err := windows.OpenProcessToken(
		windows.CurrentProcess(),
		windows.TOKEN_QUERY,
		&token,
	)
	require.NoError(t, err)
	defer token.Close()

	tokenUser, err := token.GetTokenUser()
	require.NoError(t, err)

	return tokenUser.User.Sid.String()
}

// setDACLFromSDDL parses an SDDL string and applies its DACL to path.
// A protected DACL also suppresses entries inherited from the parent
// directory.
func setDACLFromSDDL(t *testing.T, path, sddl string, protected bool) {
	t.Helper()

	sd, err := windows.SecurityDescriptorFromString(sddl)
	require.NoError(t, err)

	dacl, _, err := sd.DACL()
	require.NoError(t, err)

	flags := windows.SECURITY_INFORMATION(windows.DACL_SECURITY_INFORMATION)
	if protected {
		flags |= windows.PROTECTED_DACL_SECURITY_INFORMATION
	}
	err = windows.SetNamedSecurityInfo(
		path,
		windows.SE_FILE_OBJECT,
		flags,
		nil, nil, dacl, nil,
	)
	require.NoError(t, err)
}

// setOwnerOnlyDACL locks the file down to the current user alone
func setOwnerOnlyDACL(t *testing.T, path string) {
	t.Helper()

	// P suppresses inherited entries, and the single ACE grants
	// GENERIC_ALL to our own SID
	sddl := fmt.Sprintf("D:P(A;;GA;;;%s)", currentUserSIDString(t))
	setDACLFromSDDL(t, path, sddl, true)
}

func TestCheckTokenSDDL(t *testing.T) {
	testDefs := []struct {
		name      string
		sddl      string
		expectErr bool
		contains  string
	}{
		{
			name:      "no DACL",
			sddl:      "O:BA",
			expectErr: true,
			contains:  "no DACL",
		},
		{
			name:      "everyone allowed",
			sddl:      "D:(A;;GR;;;WD)",
			expectErr: true,
			contains:  "Everyone",
		},
		{
			name:      "builtin users allowed",
			sddl:      "D:(A;;GR;;;BU)",
			expectErr: true,
			contains:  "BUILTIN\\Users",
		},
		{
			name:      "authenticated users allowed",
			sddl:      "D:(A;;GR;;;AU)",
			expectErr: true,
			contains:  "Authenticated Users",
		},
		{
			name:      "everyone denied is fine",
			sddl:      "D:(D;;GA;;;WD)",
			expectErr: false,
		},
		{
			name:      "owner only",
			sddl:      "D:P(A;;GA;;;S-1-5-21-1-2-3-1001)",
			expectErr: false,
		},
	}
	for _, testDef := range testDefs {
		t.Run(testDef.name, func(t *testing.T) {
			err := checkTokenSDDL("token.txt", testDef.sddl)
			if testDef.expectErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInsecureFileMode)
				assert.Contains(t, err.Error(), testDef.contains)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestInsecureTokenFileWindows(t *testing.T) {
	tmpDir := t.TempDir()
	testFile := filepath.Join(tmpDir, "owner.token")

	require.NoError(
		t,
		os.WriteFile(testFile, []byte("secret"), 0o600),
	)

	// Grant Everyone read access
	setDACLFromSDDL(t, testFile, "D:(A;;GR;;;WD)", false)

	err := checkFilePermissions(testFile)
	assert.Error(t, err)
	assert.ErrorIs(t, err, ErrInsecureFileMode)
	assert.Contains(t, err.Error(), "Everyone")
}

func TestSecureTokenFileWindows(t *testing.T) {
	tmpDir := t.TempDir()
	testFile := filepath.Join(tmpDir, "owner.token")

	require.NoError(
		t,
		os.WriteFile(testFile, []byte("secret"), 0o600),
	)

	// Files inherit ACL entries from the directory, usually including
	// BUILTIN\Users, so the inherited ACL would not pass the check
	setOwnerOnlyDACL(t, testFile)

	err := checkFilePermissions(testFile)
	assert.NoError(t, err)
}
