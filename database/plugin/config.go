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

package plugin

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// pluginTypeByName maps config section names to plugin types. It is the
// inverse of PluginTypeName.
func pluginTypeByName(name string) (PluginType, bool) {
	switch name {
	case "blob":
		return PluginTypeBlob, true
	case "metadata":
		return PluginTypeMetadata, true
	default:
		return 0, false
	}
}

// ProcessConfig applies plugin options from the parsed node config. The map
// is keyed by plugin type name, then plugin name, then option name, matching
// the database sections of the config file. Options for plugins other than
// the selected one are applied too, since selection happens separately.
func ProcessConfig(pluginConfig map[string]map[string]map[string]any) error {
	for typeName, plugins := range pluginConfig {
		pluginType, ok := pluginTypeByName(typeName)
		if !ok {
			return fmt.Errorf("unknown plugin type in config: %q", typeName)
		}
		for pluginName, options := range plugins {
			for optionName, value := range options {
				err := SetPluginOption(
					pluginType,
					pluginName,
					optionName,
					value,
				)
				if err != nil {
					return fmt.Errorf(
						"config for %s plugin %s: %w",
						typeName,
						pluginName,
						err,
					)
				}
			}
		}
	}
	return nil
}

// ProcessEnvVars applies plugin options from environment variables. Each
// registered option maps to GAVEL_<TYPE>_<PLUGIN>_<OPTION> with dashes
// replaced by underscores, for example GAVEL_BLOB_BADGER_DATA_DIR. This is
// expected to run after ProcessConfig so the environment wins over the
// config file.
func ProcessEnvVars() error {
	for i := range pluginEntries {
		entry := &pluginEntries[i]
		for _, opt := range entry.Options {
			envName := optionEnvVar(entry.Type, entry.Name, opt.Name)
			envVal, ok := os.LookupEnv(envName)
			if !ok {
				continue
			}
			if err := applyEnvValue(opt, envName, envVal); err != nil {
				return err
			}
		}
	}
	return nil
}

func optionEnvVar(
	pluginType PluginType,
	pluginName string,
	optionName string,
) string {
	name := fmt.Sprintf(
		"gavel_%s_%s_%s",
		PluginTypeName(pluginType),
		pluginName,
		optionName,
	)
	return strings.ToUpper(strings.ReplaceAll(name, "-", "_"))
}

func applyEnvValue(opt PluginOption, envName string, envVal string) error {
	switch opt.Type {
	case PluginOptionTypeString:
		return assignOption(opt.Name, opt.Dest, envVal)
	case PluginOptionTypeBool:
		v, err := strconv.ParseBool(envVal)
		if err != nil {
			return fmt.Errorf("invalid value for %s: %w", envName, err)
		}
		return assignOption(opt.Name, opt.Dest, v)
	case PluginOptionTypeInt:
		v, err := strconv.Atoi(envVal)
		if err != nil {
			return fmt.Errorf("invalid value for %s: %w", envName, err)
		}
		return assignOption(opt.Name, opt.Dest, v)
	case PluginOptionTypeUint:
		v, err := strconv.ParseUint(envVal, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid value for %s: %w", envName, err)
		}
		return assignOption(opt.Name, opt.Dest, v)
	default:
		return fmt.Errorf(
			"unknown plugin option type %d for option %s",
			opt.Type,
			opt.Name,
		)
	}
}
