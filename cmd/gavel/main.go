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

package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/blinklabs-io/gavel/database/plugin"
	"github.com/blinklabs-io/gavel/internal/config"
	"github.com/blinklabs-io/gavel/internal/version"
	"github.com/spf13/cobra"
	"go.uber.org/automaxprocs/maxprocs"
)

const programName = "gavel"

var rootFlags struct {
	debug          bool
	configFile     string
	blobPlugin     string
	metadataPlugin string
}

// maxprocsLogf adapts slog to the printf-style logger maxprocs expects
func maxprocsLogf(format string, v ...any) {
	slog.Info(fmt.Sprintf(format, v...), "component", programName)
}

// setupLogger builds the process logger, installs it as the slog default,
// and pins GOMAXPROCS to the CPU quota
func setupLogger() *slog.Logger {
	level := slog.LevelInfo
	if rootFlags.debug {
		level = slog.LevelDebug
	}
	logger := slog.New(
		slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			AddSource: rootFlags.debug,
			Level:     level,
		}),
	)
	slog.SetDefault(logger)
	if _, err := maxprocs.Set(maxprocs.Logger(maxprocsLogf)); err != nil {
		slog.Error(err.Error())
		os.Exit(1)
	}
	logger.Info(
		fmt.Sprintf("%s %s", programName, version.GetVersionString()),
		"component", programName,
	)
	return logger
}

// requireConfig pulls the loaded config out of the command context. The
// persistent pre-run puts it there, so a miss is a programming error.
func requireConfig(cmd *cobra.Command) *config.Config {
	cfg := config.FromContext(cmd.Context())
	if cfg == nil {
		slog.Error("command context carries no config")
		os.Exit(1)
	}
	return cfg
}

// pluginList renders the registered plugins of one type under a heading
func pluginList(heading string, pluginType plugin.PluginType) string {
	var b strings.Builder
	b.WriteString(heading + ":\n")
	for _, entry := range plugin.GetPlugins(pluginType) {
		fmt.Fprintf(&b, "  %s: %s\n", entry.Name, entry.Description)
	}
	return b.String()
}

// requestedPluginLists handles the "list" sentinel on the plugin selection
// flags. The bool reports whether any listing was requested.
func requestedPluginLists(blobPlugin, metadataPlugin string) (string, bool) {
	var sections []string
	if blobPlugin == "list" {
		sections = append(
			sections,
			pluginList("Available blob plugins", plugin.PluginTypeBlob),
		)
	}
	if metadataPlugin == "list" {
		sections = append(
			sections,
			pluginList("Available metadata plugins", plugin.PluginTypeMetadata),
		)
	}
	return strings.Join(sections, "\n"), len(sections) > 0
}

func listCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all available plugins",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Print("Available plugins:\n\n")
			fmt.Print(pluginList("Blob Storage Plugins", plugin.PluginTypeBlob))
			fmt.Print("\n")
			fmt.Print(
				pluginList(
					"Metadata Storage Plugins",
					plugin.PluginTypeMetadata,
				),
			)
		},
	}
}

func main() {
	rootCmd := &cobra.Command{
		Use: programName,
		Run: func(cmd *cobra.Command, args []string) {
			serveRun(cmd, args, requireConfig(cmd))
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.BoolVarP(
		&rootFlags.debug,
		"debug", "D", false,
		"enable debug logging",
	)
	flags.StringVar(
		&rootFlags.configFile,
		"config", "",
		"path to config file",
	)
	flags.StringVarP(
		&rootFlags.blobPlugin,
		"blob", "b", config.DefaultBlobPlugin,
		"blob store plugin to use, 'list' to show available",
	)
	flags.StringVarP(
		&rootFlags.metadataPlugin,
		"metadata", "m", config.DefaultMetadataPlugin,
		"metadata store plugin to use, 'list' to show available",
	)
	if err := plugin.PopulateCmdlineOptions(flags); err != nil {
		fmt.Fprintf(os.Stderr, "failed to register plugin flags: %v\n", err)
		os.Exit(1)
	}

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		// The "list" sentinel short-circuits startup entirely
		output, ok := requestedPluginLists(
			rootFlags.blobPlugin,
			rootFlags.metadataPlugin,
		)
		if ok {
			fmt.Print(output)
			os.Exit(0)
		}

		cfg, err := config.LoadConfig(rootFlags.configFile)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		// Plugin selection flags win over the config file
		if rootFlags.blobPlugin != config.DefaultBlobPlugin {
			cfg.BlobPlugin = rootFlags.blobPlugin
		}
		if rootFlags.metadataPlugin != config.DefaultMetadataPlugin {
			cfg.MetadataPlugin = rootFlags.metadataPlugin
		}

		cmd.SetContext(config.WithContext(cmd.Context(), cfg))
		return nil
	}

	rootCmd.AddCommand(
		serveCommand(),
		listCommand(),
		versionCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		// Cobra already printed the error
		os.Exit(1)
	}
}
