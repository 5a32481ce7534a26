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
	"github.com/spf13/cobra"

	"github.com/trly/unit-ops/internal/systemd"
	"github.com/trly/unit-ops/internal/unit"
)

// SystemdCommand represents the systemd command.
type SystemdCommand struct{}

// GetCobraCommand returns the cobra command for synthesizing and activating
// systemd units.
func (c *SystemdCommand) GetCobraCommand() *cobra.Command {
	var opts ConvertOptions

	systemdCmd := &cobra.Command{
		Use:   "systemd [input]",
		Short: "Synthesize systemd unit files and activate them",
		Long: `Synthesize systemd unit files from a configuration document.
Each top-level entry of the decoded document becomes one unit file; entries
carrying a timer section are split into a service and timer pair. With
--output the files are written to a directory, verified with systemd-analyze,
and enabled through systemctl after confirmation. Without --output the units
are printed to stdout and nothing is activated.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := appFromCommand(cmd)

			data, encoding, _, err := readInput(cmd, args, opts.From)
			if err != nil {
				return err
			}
			if opts.Template {
				if data, err = renderTemplate(data); err != nil {
					return err
				}
			}
			return runSystemdPipeline(cmd, app, data, encoding, opts.Output, opts.Output != "")
		},
		SilenceUsage: true,
	}

	systemdCmd.Flags().StringVarP(&opts.Output, "output", "o", "", "Directory to write unit files to (prints to stdout when omitted)")
	systemdCmd.Flags().StringVarP(&opts.From, "from", "f", "", "Source encoding (inferred from the input extension when omitted)")
	systemdCmd.Flags().BoolVar(&opts.Template, "template", false, "Render the input through text/template before decoding")

	return systemdCmd
}

// runSystemdPipeline decodes the input into a unit set, synthesizes unit
// documents, and writes them to outputDir or prints them to stdout. With
// activate set the written files are verified and enabled through systemctl;
// verification failures are reported without failing the command.
func runSystemdPipeline(cmd *cobra.Command, app *App, data []byte, encoding, outputDir string, activate bool) error {
	set, err := unit.DecodeSet(data, encoding)
	if err != nil {
		return err
	}
	units, err := unit.Synthesize(set)
	if err != nil {
		return err
	}

	if outputDir == "" {
		return app.FSService.PrintDocuments(cmd.OutOrStdout(), units)
	}

	paths, err := app.FSService.WriteDocuments(outputDir, units)
	if err != nil {
		return err
	}
	app.Logger.Info("Wrote unit files", "dir", outputDir, "count", len(paths))

	if !activate {
		return nil
	}
	sysd := systemd.NewService(app.Runner, app.Gate, app.Logger, app.Config.UserMode)
	if err := sysd.ActivateUnits(cmd.Context(), paths); err != nil && !systemd.IsVerificationError(err) {
		return err
	}
	return nil
}
