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
	"context"
	"fmt"
	"maps"
	"os"
	"path/filepath"

	"github.com/blinklabs-io/gavel/database/plugin"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

type ctxKey string

const configContextKey ctxKey = "gavel.config"

const DefaultShutdownTimeout = "30s"

func WithContext(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, configContextKey, cfg)
}

func FromContext(ctx context.Context) *Config {
	cfg, ok := ctx.Value(configContextKey).(*Config)
	if !ok {
		return nil
	}
	return cfg
}

const (
	DefaultBlobPlugin     = "badger"
	DefaultMetadataPlugin = "sqlite"
)

// rawConfig mirrors the accepted config file layouts. Settings may sit at
// the top level, under a config section, or under database/blob/metadata
// sections for the store plugins.
type rawConfig struct {
	Config   *Config                   `yaml:"config,omitempty"`
	Database *rawDatabaseConfig        `yaml:"database,omitempty"`
	Blob     map[string]map[string]any `yaml:"blob,omitempty"`
	Metadata map[string]map[string]any `yaml:"metadata,omitempty"`
}

type rawDatabaseConfig struct {
	Blob     map[string]any `yaml:"blob,omitempty"`
	Metadata map[string]any `yaml:"metadata,omitempty"`
}

type Config struct {
	MetadataPlugin  string `yaml:"metadataPlugin"  envconfig:"GAVEL_DATABASE_METADATA_PLUGIN"`
	BlobPlugin      string `yaml:"blobPlugin"      envconfig:"GAVEL_DATABASE_BLOB_PLUGIN"`
	DatabasePath    string `yaml:"databasePath"                                               split_words:"true"`
	BindAddr        string `yaml:"bindAddr"                                                   split_words:"true"`
	ShutdownTimeout string `yaml:"shutdownTimeout"                                            split_words:"true"`
	// Owner and Quorum seed the governance config on first run against an
	// empty store. An existing store keeps its persisted values.
	Owner          string `yaml:"owner"`
	Quorum         uint64 `yaml:"quorum"`
	OwnerTokenFile string `yaml:"ownerTokenFile"                                              split_words:"true"`
	ApiPort        uint   `yaml:"apiPort"                                                     split_words:"true"`
	MetricsPort    uint   `yaml:"metricsPort"                                                 split_words:"true"`
	Tracing        bool   `yaml:"tracing"`
	TracingStdout  bool   `yaml:"tracingStdout"                                               split_words:"true"`
}

var globalConfig = &Config{
	BindAddr:        "0.0.0.0",
	DatabasePath:    ".gavel",
	ApiPort:         8080,
	MetricsPort:     12798,
	BlobPlugin:      DefaultBlobPlugin,
	MetadataPlugin:  DefaultMetadataPlugin,
	ShutdownTimeout: DefaultShutdownTimeout,
}

// LoadConfig populates the global config from the given YAML file and the
// environment. When no file is given the default locations are checked, and
// it's not an error if none of them exist. Environment variables are applied
// last so they override file values.
func LoadConfig(configFile string) (*Config, error) {
	if configFile == "" {
		configFile = findConfigFile()
	}
	if configFile != "" {
		if err := applyConfigFile(configFile); err != nil {
			return nil, err
		}
	}
	if err := envconfig.Process("gavel", globalConfig); err != nil {
		return nil, fmt.Errorf("error processing environment: %w", err)
	}
	if err := plugin.ProcessEnvVars(); err != nil {
		return nil, fmt.Errorf(
			"error processing plugin environment variables: %w",
			err,
		)
	}
	return globalConfig, nil
}

// findConfigFile returns the first config file that exists among the default
// locations, or an empty string when none do.
func findConfigFile() string {
	var candidates []string
	if homeDir, err := os.UserHomeDir(); err == nil {
		candidates = append(
			candidates,
			filepath.Join(homeDir, ".gavel", "gavel.yaml"),
		)
	}
	candidates = append(candidates, "/etc/gavel/gavel.yaml")
	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// applyConfigFile overlays the given YAML file onto the config defaults and
// feeds any plugin sections to the plugin registry.
func applyConfigFile(configFile string) error {
	buf, err := os.ReadFile(configFile)
	if err != nil {
		return fmt.Errorf("error reading config file: %w", err)
	}
	var raw rawConfig
	if err := yaml.Unmarshal(buf, &raw); err != nil {
		return fmt.Errorf("error parsing config file: %w", err)
	}
	if raw.Config != nil {
		// Round-trip the config section so fields absent from the file
		// keep their defaults
		sectionBytes, err := yaml.Marshal(raw.Config)
		if err != nil {
			return fmt.Errorf("error re-marshalling config: %w", err)
		}
		if err := yaml.Unmarshal(sectionBytes, globalConfig); err != nil {
			return fmt.Errorf("error parsing config section: %w", err)
		}
	} else {
		// Flat layout, the whole file is the main config
		if err := yaml.Unmarshal(buf, globalConfig); err != nil {
			return fmt.Errorf("error parsing config file: %w", err)
		}
	}

	pluginConfig := make(map[string]map[string]map[string]any)
	if raw.Blob != nil {
		pluginConfig["blob"] = raw.Blob
	}
	if raw.Metadata != nil {
		pluginConfig["metadata"] = raw.Metadata
	}
	if raw.Database != nil {
		mergePluginSection(
			pluginConfig,
			"blob",
			raw.Database.Blob,
			&globalConfig.BlobPlugin,
		)
		mergePluginSection(
			pluginConfig,
			"metadata",
			raw.Database.Metadata,
			&globalConfig.MetadataPlugin,
		)
	}
	if len(pluginConfig) > 0 {
		if err := plugin.ProcessConfig(pluginConfig); err != nil {
			return fmt.Errorf("error processing plugin config: %w", err)
		}
	}
	return nil
}

// mergePluginSection folds one database store section into the plugin config
// map. A plugin key selects the store plugin, every other key is taken as an
// option map for the plugin it names.
func mergePluginSection(
	pluginConfig map[string]map[string]map[string]any,
	kind string,
	section map[string]any,
	selected *string,
) {
	if section == nil {
		return
	}
	if name, ok := section["plugin"].(string); ok {
		*selected = name
		delete(section, "plugin")
	}
	options := make(map[string]map[string]any)
	for pluginName, v := range section {
		opts, ok := asStringMap(v)
		if !ok {
			fmt.Fprintf(
				os.Stderr,
				"warning: skipping %s config entry %q: expected map, got %T\n",
				kind,
				pluginName,
				v,
			)
			continue
		}
		options[pluginName] = opts
	}
	if pluginConfig[kind] == nil {
		pluginConfig[kind] = options
	} else {
		maps.Copy(pluginConfig[kind], options)
	}
}

// asStringMap converts YAML mapping values to map[string]any. Older YAML
// decoders produce map[any]any, so both shapes are accepted.
func asStringMap(v any) (map[string]any, bool) {
	switch val := v.(type) {
	case map[string]any:
		return val, true
	case map[any]any:
		out := make(map[string]any, len(val))
		for k, kv := range val {
			if keyStr, ok := k.(string); ok {
				out[keyStr] = kv
			}
		}
		return out, true
	default:
		return nil, false
	}
}

func GetConfig() *Config {
	return globalConfig
}
