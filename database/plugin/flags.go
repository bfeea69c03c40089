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

	"github.com/spf13/pflag"
)

// PopulateCmdlineOptions registers a command line flag for every option of
// every registered plugin. Flags are named <type>-<plugin>-<option>, the
// command line analog of the GAVEL_<TYPE>_<PLUGIN>_<OPTION> environment
// variables.
func PopulateCmdlineOptions(fs *pflag.FlagSet) error {
	for i := range pluginEntries {
		entry := &pluginEntries[i]
		for _, opt := range entry.Options {
			flagName := optionFlagName(entry.Type, entry.Name, opt.Name)
			if err := bindOptionFlag(fs, flagName, opt); err != nil {
				return err
			}
		}
	}
	return nil
}

func optionFlagName(
	pluginType PluginType,
	pluginName string,
	optionName string,
) string {
	return fmt.Sprintf(
		"%s-%s-%s",
		PluginTypeName(pluginType),
		pluginName,
		optionName,
	)
}

// bindOptionFlag wires a single option to the flag set. Registering a flag
// writes the default into the destination, which is harmless since the
// destinations are seeded with the same defaults.
func bindOptionFlag(fs *pflag.FlagSet, flagName string, opt PluginOption) error {
	switch opt.Type {
	case PluginOptionTypeString:
		dest, ok := opt.Dest.(*string)
		if !ok {
			return flagDestError(flagName, opt.Dest)
		}
		def, _ := opt.DefaultValue.(string)
		fs.StringVar(dest, flagName, def, opt.Description)
	case PluginOptionTypeBool:
		dest, ok := opt.Dest.(*bool)
		if !ok {
			return flagDestError(flagName, opt.Dest)
		}
		def, _ := opt.DefaultValue.(bool)
		fs.BoolVar(dest, flagName, def, opt.Description)
	case PluginOptionTypeInt:
		dest, ok := opt.Dest.(*int)
		if !ok {
			return flagDestError(flagName, opt.Dest)
		}
		def, _ := opt.DefaultValue.(int)
		fs.IntVar(dest, flagName, def, opt.Description)
	case PluginOptionTypeUint:
		dest, ok := opt.Dest.(*uint64)
		if !ok {
			return flagDestError(flagName, opt.Dest)
		}
		def, _ := opt.DefaultValue.(uint64)
		fs.Uint64Var(dest, flagName, def, opt.Description)
	default:
		return fmt.Errorf(
			"unknown plugin option type %d for flag %s",
			opt.Type,
			flagName,
		)
	}
	return nil
}

func flagDestError(flagName string, dest any) error {
	return fmt.Errorf(
		"flag %s: destination %T does not match option type",
		flagName,
		dest,
	)
}
