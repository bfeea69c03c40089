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

package gcs

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// ValidateCredentials checks that a GCS credentials file path, if set, points
// at a readable file. An empty path is valid, the client will fall back to
// application default credentials.
func ValidateCredentials(credentialsFile string) error {
	if credentialsFile == "" {
		return nil
	}
	info, err := os.Stat(credentialsFile)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf(
				"GCS credentials file does not exist: %s",
				credentialsFile,
			)
		}
		return fmt.Errorf("failed to read GCS credentials file: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf(
			"GCS credentials file is a directory: %s",
			credentialsFile,
		)
	}
	return nil
}
