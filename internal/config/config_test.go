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

package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	_ "github.com/blinklabs-io/gavel/database/plugin/blob/badger"
	_ "github.com/blinklabs-io/gavel/database/plugin/metadata/sqlite"
)

func resetGlobalConfig() {
	globalConfig = &Config{
		BindAddr:        "0.0.0.0",
		DatabasePath:    ".gavel",
		ApiPort:         8080,
		MetricsPort:     12798,
		BlobPlugin:      DefaultBlobPlugin,
		MetadataPlugin:  DefaultMetadataPlugin,
		ShutdownTimeout: DefaultShutdownTimeout,
	}
}

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "gavel.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	return path
}

func TestLoadFlatFile(t *testing.T) {
	resetGlobalConfig()
	path := writeConfigFile(t, `
bindAddr: "127.0.0.1"
databasePath: ".gavel-test"
apiPort: 8090
metricsPort: 8088
owner: "alice"
quorum: 25
ownerTokenFile: "owner.token"
shutdownTimeout: "10s"
tracing: true
tracingStdout: true
`)

	expected := &Config{
		BindAddr:        "127.0.0.1",
		DatabasePath:    ".gavel-test",
		ApiPort:         8090,
		MetricsPort:     8088,
		Owner:           "alice",
		Quorum:          25,
		OwnerTokenFile:  "owner.token",
		BlobPlugin:      DefaultBlobPlugin,
		MetadataPlugin:  DefaultMetadataPlugin,
		ShutdownTimeout: "10s",
		Tracing:         true,
		TracingStdout:   true,
	}

	actual, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if !reflect.DeepEqual(actual, expected) {
		t.Errorf(
			"loaded config does not match expected\nActual: %+v\nExpected: %+v",
			actual,
			expected,
		)
	}
}

func TestLoadWithoutFileUsesDefaults(t *testing.T) {
	resetGlobalConfig()

	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	expected := &Config{
		BindAddr:        "0.0.0.0",
		DatabasePath:    ".gavel",
		ApiPort:         8080,
		MetricsPort:     12798,
		BlobPlugin:      DefaultBlobPlugin,
		MetadataPlugin:  DefaultMetadataPlugin,
		ShutdownTimeout: DefaultShutdownTimeout,
	}
	if !reflect.DeepEqual(cfg, expected) {
		t.Errorf(
			"config mismatch without file\nExpected: %+v\nGot:      %+v",
			expected,
			cfg,
		)
	}
}

func TestLoadConfigSection(t *testing.T) {
	resetGlobalConfig()

	// Config values may be nested under a top-level config section
	path := writeConfigFile(t, `
config:
  owner: "bob"
  quorum: 3
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if cfg.Owner != "bob" {
		t.Errorf("expected Owner to be bob, got: %v", cfg.Owner)
	}
	if cfg.Quorum != 3 {
		t.Errorf("expected Quorum to be 3, got: %v", cfg.Quorum)
	}
	// Values outside the section keep their defaults
	if cfg.ApiPort != 8080 {
		t.Errorf("expected ApiPort to be 8080, got: %v", cfg.ApiPort)
	}
}

func TestLoadDatabasePluginSection(t *testing.T) {
	resetGlobalConfig()

	path := writeConfigFile(t, `
database:
  blob:
    plugin: badger
    badger:
      block-cache-size: 8388608
  metadata:
    plugin: sqlite
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if cfg.BlobPlugin != "badger" {
		t.Errorf("expected BlobPlugin to be badger, got: %v", cfg.BlobPlugin)
	}
	if cfg.MetadataPlugin != "sqlite" {
		t.Errorf(
			"expected MetadataPlugin to be sqlite, got: %v",
			cfg.MetadataPlugin,
		)
	}
}

func TestLoadUnknownPluginErrors(t *testing.T) {
	resetGlobalConfig()

	path := writeConfigFile(t, `
database:
  blob:
    bogus:
      data-dir: "/tmp"
`)

	if _, err := LoadConfig(path); err == nil {
		t.Fatal("expected error for unknown plugin, got nil")
	}
}

func TestLoadEnvOverride(t *testing.T) {
	resetGlobalConfig()

	t.Setenv("GAVEL_OWNER", "carol")
	t.Setenv("GAVEL_QUORUM", "7")
	t.Setenv("GAVEL_DATABASE_PATH", ".gavel-env")

	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if cfg.Owner != "carol" {
		t.Errorf("expected Owner to be carol, got: %v", cfg.Owner)
	}
	if cfg.Quorum != 7 {
		t.Errorf("expected Quorum to be 7, got: %v", cfg.Quorum)
	}
	if cfg.DatabasePath != ".gavel-env" {
		t.Errorf(
			"expected DatabasePath to be .gavel-env, got: %v",
			cfg.DatabasePath,
		)
	}
}
