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

package plugin_test

import (
	"fmt"
	"testing"

	"github.com/blinklabs-io/gavel/database/plugin"
	badgerplugin "github.com/blinklabs-io/gavel/database/plugin/blob/badger"
	_ "github.com/blinklabs-io/gavel/database/plugin/metadata/sqlite"
	"github.com/spf13/pflag"
)

func TestPopulateCmdlineOptions(t *testing.T) {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	if err := plugin.PopulateCmdlineOptions(fs); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, name := range []string{
		"blob-badger-data-dir",
		"blob-badger-block-cache-size",
		"blob-badger-gc",
		"metadata-sqlite-data-dir",
	} {
		if fs.Lookup(name) == nil {
			t.Errorf("expected flag %s to be registered", name)
		}
	}
	// Parse the default back in so the shared option state stays untouched
	err := fs.Parse([]string{
		fmt.Sprintf(
			"--blob-badger-block-cache-size=%d",
			badgerplugin.DefaultBlockCacheSize,
		),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
