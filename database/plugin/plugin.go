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
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
)

type Plugin interface {
	Start() error
	Stop() error
}

// Runtime dependencies handed to plugin constructors. Unlike the scalar
// options set through SetPluginOption, these can't be expressed as plugin
// option destinations, so they're shared through the package instead. They
// are set by the database layer before any plugin is instantiated and read
// by each plugin's NewFromCmdlineOptions.
var (
	pluginLogger       *slog.Logger
	pluginPromRegistry prometheus.Registerer
)

// SetLogger sets the logger handed to plugin constructors. It must only be
// called before plugin instantiation.
func SetLogger(logger *slog.Logger) {
	pluginLogger = logger
}

// Logger returns the logger for plugin constructors, or nil if none was set
func Logger() *slog.Logger {
	return pluginLogger
}

// SetPromRegistry sets the metrics registry handed to plugin constructors.
// It must only be called before plugin instantiation.
func SetPromRegistry(registry prometheus.Registerer) {
	pluginPromRegistry = registry
}

// PromRegistry returns the metrics registry for plugin constructors, or nil
// if none was set
func PromRegistry() prometheus.Registerer {
	return pluginPromRegistry
}

// ErrorPlugin defers a construction error to Start(), where plugin failures
// get reported
type ErrorPlugin struct {
	Err error
}

func (e *ErrorPlugin) Start() error {
	return e.Err
}

func (e *ErrorPlugin) Stop() error {
	return nil
}

func NewErrorPlugin(err error) Plugin {
	return &ErrorPlugin{Err: err}
}

// StartPlugin constructs the named plugin from the registry and starts it
func StartPlugin(pluginType PluginType, pluginName string) (Plugin, error) {
	p := GetPlugin(pluginType, pluginName)
	if p == nil {
		return nil, fmt.Errorf(
			"%s plugin '%s' not found",
			PluginTypeName(pluginType),
			pluginName,
		)
	}
	if err := p.Start(); err != nil {
		return nil, fmt.Errorf(
			"failed to start %s plugin '%s': %w",
			PluginTypeName(pluginType),
			pluginName,
			err,
		)
	}
	return p, nil
}

// assignOption performs a type-checked assignment of value into the option's
// Dest pointer
func assignOption[T any](optionName string, dest any, value T) error {
	if dest == nil {
		return fmt.Errorf("nil destination for option %s", optionName)
	}
	ptr, ok := dest.(*T)
	if !ok {
		return fmt.Errorf(
			"invalid destination type for option %s: expected %T",
			optionName,
			(*T)(nil),
		)
	}
	if ptr == nil {
		return fmt.Errorf("nil destination pointer for option %s", optionName)
	}
	*ptr = value
	return nil
}

// setTypedOption asserts the dynamic type of value and assigns it
func setTypedOption[T any](optionName string, dest any, value any) error {
	v, ok := value.(T)
	if !ok {
		return fmt.Errorf(
			"invalid type for option %s: expected %T",
			optionName,
			*new(T),
		)
	}
	return assignOption(optionName, dest, v)
}

// SetPluginOption writes a value into the named option's destination. The
// config file and environment processing funnel through here, and callers
// can use it directly to override plugin defaults (for example to set
// data-dir before starting a plugin). An unknown plugin or a mismatched
// value type is an error. An option name a particular plugin doesn't define
// is not, since not every option is relevant to every implementation.
//
// This function writes directly to plugin option destinations without any
// synchronization, so it must only be called before plugin instantiation.
func SetPluginOption(
	pluginType PluginType,
	pluginName string,
	optionName string,
	value any,
) error {
	for i := range pluginEntries {
		p := &pluginEntries[i]
		if p.Type != pluginType || p.Name != pluginName {
			continue
		}
		for _, opt := range p.Options {
			if opt.Name != optionName {
				continue
			}
			switch opt.Type {
			case PluginOptionTypeString:
				return setTypedOption[string](optionName, opt.Dest, value)
			case PluginOptionTypeBool:
				return setTypedOption[bool](optionName, opt.Dest, value)
			case PluginOptionTypeInt:
				return setTypedOption[int](optionName, opt.Dest, value)
			case PluginOptionTypeUint:
				// Config parsing produces int, destinations want uint64
				switch v := value.(type) {
				case uint64:
					return assignOption(optionName, opt.Dest, v)
				case int:
					if v < 0 {
						return fmt.Errorf(
							"invalid value for option %s: negative int",
							optionName,
						)
					}
					return assignOption(optionName, opt.Dest, uint64(v))
				default:
					return fmt.Errorf(
						"invalid type for option %s: expected uint64 or int",
						optionName,
					)
				}
			default:
				return fmt.Errorf(
					"unknown plugin option type %d for option %s",
					opt.Type,
					optionName,
				)
			}
		}
		return nil
	}
	return fmt.Errorf(
		"plugin %s of type %s not found",
		pluginName,
		PluginTypeName(pluginType),
	)
}
