// Package cmd provides the command line interface for unit-ops
/*
Copyright © 2025 Travis Lyons travis.lyons@gmail.com

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/
package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/trly/unit-ops/internal/config"
	"github.com/trly/unit-ops/internal/log"
)

// RootCommand represents the root command for the unit-ops CLI.
type RootCommand struct{}

var (
	userMode       bool
	configFilePath string
	verbose        bool
	auto           bool
)

// GetCobraCommand returns the cobra root command for the unit-ops CLI.
// Invoked with an input path the root behaves like the convert command.
func (c *RootCommand) GetCobraCommand() *cobra.Command {
	convert := &ConvertCommand{}
	var convertOpts ConvertOptions

	rootCmd := &cobra.Command{
		Use:   "unit-ops [input]",
		Short: "unit-ops converts configuration documents between encodings and synthesizes systemd and quadlet units.",
		Long: `unit-ops converts configuration documents between encodings and synthesizes systemd and quadlet units.
Plain conversions route any supported source encoding to any destination encoding.
The systemd and quadlet destinations instead synthesize installable service-manager unit files.`,
		Args: cobra.MaximumNArgs(1),
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			if configFilePath != "" {
				config.SetConfigFilePath(configFilePath)
			}
			cfg := config.InitConfig()

			if userMode {
				cfg.UserMode = true
			}
			if verbose {
				cfg.Verbose = true
			}
			if auto {
				cfg.Auto = true
			}

			log.Init(cfg.Verbose)
			if cfg.Verbose {
				fmt.Printf("%s using config: %s\n\n", cmd.Root().Name(), viper.GetViper().ConfigFileUsed())
			}

			app := NewApp(log.GetLogger(), cfg)
			cmd.SetContext(context.WithValue(cmd.Context(), appContextKey, app))
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 && convertOpts.From == "" && interactiveStdin() {
				return cmd.Help()
			}
			return convert.Run(cmd, args, convertOpts)
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().BoolVarP(&userMode, "user", "u", false, "Run in user mode")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().BoolVarP(&auto, "auto", "a", false, "Answer every prompt with its default")
	rootCmd.PersistentFlags().StringVar(&configFilePath, "config", "", "Path to the configuration file")
	addConvertFlags(rootCmd, &convertOpts)

	rootCmd.AddCommand(
		convert.GetCobraCommand(),
		(&SystemdCommand{}).GetCobraCommand(),
		(&QuadletCommand{}).GetCobraCommand(),
		(&FormatsCommand{}).GetCobraCommand(),
		(&UpdateCommand{}).GetCobraCommand(),
		(&VersionCommand{}).GetCobraCommand(),
	)

	return rootCmd
}

// Execute builds the root command and runs it.
func Execute() error {
	return (&RootCommand{}).GetCobraCommand().Execute()
}
