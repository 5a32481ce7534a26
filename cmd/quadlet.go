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
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/trly/unit-ops/internal/codec"
	"github.com/trly/unit-ops/internal/compose"
	"github.com/trly/unit-ops/internal/image"
	"github.com/trly/unit-ops/internal/quadlet"
	"github.com/trly/unit-ops/internal/systemd"
)

// QuadletCommand represents the quadlet command.
type QuadletCommand struct{}

// GetCobraCommand returns the cobra command for compiling compose documents
// into quadlet units and activating them.
func (c *QuadletCommand) GetCobraCommand() *cobra.Command {
	var opts ConvertOptions

	quadletCmd := &cobra.Command{
		Use:   "quadlet [input]",
		Short: "Compile a compose document into podman quadlet units",
		Long: `Compile a compose document into podman quadlet unit files.
The document is normalized first: the project name is resolved, environment
files are sourced, variables are substituted, short image references are
qualified, and host paths are anchored. Compilation runs through podlet. With
--output the generated units are written to a directory, checked against the
quadlet generator, symlinked into the quadlet search path, and restarted
after confirmation. Without --output the units are printed to stdout.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := appFromCommand(cmd)

			data, encoding, inputPath, err := readInput(cmd, args, opts.From)
			if err != nil {
				return err
			}
			if opts.Template {
				if data, err = renderTemplate(data); err != nil {
					return err
				}
			}
			workdir := ""
			if inputPath != "" {
				workdir = filepath.Dir(inputPath)
			}
			return runQuadletPipeline(cmd, app, data, encoding, workdir, opts.Output, opts.Output != "", opts.SkipValidate)
		},
		SilenceUsage: true,
	}

	quadletCmd.Flags().StringVarP(&opts.Output, "output", "o", "", "Directory to write quadlet files to (prints to stdout when omitted)")
	quadletCmd.Flags().StringVarP(&opts.From, "from", "f", "", "Source encoding (inferred from the input extension when omitted)")
	quadletCmd.Flags().BoolVar(&opts.Template, "template", false, "Render the input through text/template before decoding")
	quadletCmd.Flags().BoolVar(&opts.SkipValidate, "skip-validate", false, "Skip compose validation before compiling")

	return quadletCmd
}

// runQuadletPipeline normalizes a compose document, compiles it into quadlet
// units through podlet, applies the generation rules, and writes or prints
// the result. With activate set the written files are dry-run checked,
// symlinked into targetDir, and their pods restarted after confirmation.
// skipValidate bypasses the compose schema check between normalization and
// compilation.
func runQuadletPipeline(cmd *cobra.Command, app *App, data []byte, encoding, workdir, outputDir string, activate, skipValidate bool) error {
	v, err := codec.Decode(encoding, data)
	if err != nil {
		return err
	}
	file, err := compose.FromValue(v)
	if err != nil {
		return err
	}

	normalizer := compose.NewNormalizer(compose.Options{
		Gate:      app.Gate,
		Qualifier: image.NewQualifier(app.Runner, app.Logger),
		Logger:    app.Logger,
		Workdir:   workdir,
	})
	if err := normalizer.Normalize(cmd.Context(), file); err != nil {
		return err
	}
	if !skipValidate {
		if err := compose.Validate(cmd.Context(), file, workdir); err != nil {
			return err
		}
	}

	encoded, err := codec.Encode("yaml", file.Value())
	if err != nil {
		return err
	}
	tmpPath, err := writeComposeArtifact(encoded)
	if err != nil {
		return err
	}

	compiler := quadlet.NewCompiler(app.Runner, app.Logger)
	set, err := compiler.Compile(cmd.Context(), tmpPath)
	if err != nil {
		// The artifact stays behind so the failing input can be inspected.
		app.Logger.Debug("Leaving compose artifact in place", "path", tmpPath)
		return err
	}
	if err := os.Remove(tmpPath); err != nil {
		app.Logger.Debug("Failed to remove compose artifact", "path", tmpPath, "error", err)
	}

	engine := quadlet.NewEngine(app.Gate, app.Logger, workdir)
	if err := engine.Apply(set); err != nil {
		return err
	}

	if outputDir == "" {
		return app.FSService.PrintDocuments(cmd.OutOrStdout(), set)
	}
	paths, err := app.FSService.WriteDocuments(outputDir, set)
	if err != nil {
		return err
	}
	app.Logger.Info("Wrote quadlet files", "dir", outputDir, "count", len(paths))

	if !activate {
		return nil
	}
	names, err := quadlet.ActivationOrder(set)
	if err != nil {
		return err
	}
	sysd := systemd.NewService(app.Runner, app.Gate, app.Logger, app.Config.UserMode)
	return sysd.ActivateQuadlets(cmd.Context(), outputDir, app.Config.EffectiveQuadletDir(), names)
}

// writeComposeArtifact stores the normalized compose document in a temporary
// file for the compiler and returns its path. The caller removes it after a
// successful compile.
func writeComposeArtifact(data []byte) (string, error) {
	tmp, err := os.CreateTemp("", "unit-ops-compose-*.yaml")
	if err != nil {
		return "", fmt.Errorf("failed to create compose artifact: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return "", fmt.Errorf("failed to write %s: %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", tmp.Name(), err)
	}
	return tmp.Name(), nil
}
