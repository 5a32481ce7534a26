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
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/trly/unit-ops/internal/codec"
)

// Destinations that synthesize unit files instead of re-encoding.
const (
	targetSystemd = "systemd"
	targetQuadlet = "quadlet"
)

// ConvertOptions holds convert command options.
type ConvertOptions struct {
	Output       string
	From         string
	To           string
	Template     bool
	SkipValidate bool
}

// ConvertCommand represents the convert command.
type ConvertCommand struct{}

// GetCobraCommand returns the cobra command for converting documents.
func (c *ConvertCommand) GetCobraCommand() *cobra.Command {
	var opts ConvertOptions

	convertCmd := &cobra.Command{
		Use:   "convert [input]",
		Short: "Convert a configuration document between encodings",
		Long: `Convert a configuration document between encodings.
The source encoding comes from --from or the input extension; the destination
from --to or the output extension, falling back to the source encoding. The
systemd and quadlet destinations synthesize unit files instead of re-encoding;
for those, --output names a directory. Without an input path the document is
read from stdin and --from is required.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.Run(cmd, args, opts)
		},
		SilenceUsage: true,
	}
	addConvertFlags(convertCmd, &opts)

	return convertCmd
}

// addConvertFlags registers the conversion flag set. The root command reuses
// it so a bare invocation with an input path converts directly.
func addConvertFlags(cmd *cobra.Command, opts *ConvertOptions) {
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "Output file, or directory for the systemd and quadlet destinations")
	cmd.Flags().StringVarP(&opts.From, "from", "f", "", "Source encoding (inferred from the input extension when omitted)")
	cmd.Flags().StringVarP(&opts.To, "to", "t", "", "Destination encoding (inferred from the output extension, else the source encoding)")
	cmd.Flags().BoolVar(&opts.Template, "template", false, "Render the input through text/template before decoding")
	cmd.Flags().BoolVar(&opts.SkipValidate, "skip-validate", false, "Skip compose validation for the quadlet destination")
}

// Run executes the conversion.
func (c *ConvertCommand) Run(cmd *cobra.Command, args []string, opts ConvertOptions) error {
	app := appFromCommand(cmd)

	data, encoding, inputPath, err := readInput(cmd, args, opts.From)
	if err != nil {
		return err
	}

	target := opts.To
	if target == "" && opts.Output != "" {
		target = targetFromPath(opts.Output)
	}
	if target == "" {
		target = encoding
	}

	if opts.Template {
		data, err = renderTemplate(data)
		if err != nil {
			return err
		}
		if app.Config.Verbose {
			fmt.Fprintf(cmd.OutOrStdout(), "# Template output\n%s\n\n---\n\n", data)
		}
	}

	switch strings.ToLower(target) {
	case targetSystemd:
		return runSystemdPipeline(cmd, app, data, encoding, opts.Output, false)
	case targetQuadlet:
		workdir := ""
		if inputPath != "" {
			workdir = filepath.Dir(inputPath)
		}
		return runQuadletPipeline(cmd, app, data, encoding, workdir, opts.Output, false, opts.SkipValidate)
	}

	v, err := codec.Decode(encoding, data)
	if err != nil {
		return err
	}
	out, err := codec.Encode(target, v)
	if err != nil {
		return err
	}

	if opts.Output != "" {
		return os.WriteFile(opts.Output, out, 0o644)
	}
	_, err = cmd.OutOrStdout().Write(out)
	return err
}

// readInput loads the document bytes and resolves the source encoding from
// the --from flag or the input extension. Reading from stdin requires an
// explicit encoding.
func readInput(cmd *cobra.Command, args []string, from string) (data []byte, encoding, path string, err error) {
	if len(args) > 0 {
		path = args[0]
		data, err = os.ReadFile(path) //nolint:gosec // Converting user-named input files is the point
		if err != nil {
			return nil, "", "", err
		}
		encoding = from
		if encoding == "" {
			encoding = encodingFromPath(path)
		}
		if encoding == "" {
			return nil, "", "", fmt.Errorf("cannot infer the input encoding from %q, pass --from", path)
		}
		return data, encoding, path, nil
	}

	if from == "" {
		return nil, "", "", errors.New("input encoding must be specified with --from when reading from stdin")
	}
	data, err = io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return nil, "", "", err
	}
	return data, from, "", nil
}

// encodingFromPath maps an input path's extension to a registered codec name.
func encodingFromPath(path string) string {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return ""
	}
	if _, ok := codec.Lookup(ext); ok {
		return ext
	}
	return ""
}

// targetFromPath maps an output path's extension to a destination. Service
// manager extensions select the synthesis destinations rather than the ini
// codec they alias on input.
func targetFromPath(path string) string {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	switch ext {
	case "service", "unit":
		return targetSystemd
	case "pod":
		return targetQuadlet
	case "":
		return ""
	}
	if _, ok := codec.Lookup(ext); ok {
		return ext
	}
	return ""
}

// renderTemplate runs the raw input through text/template with an empty data
// context, so inputs can use template pipelines before decoding.
func renderTemplate(input []byte) ([]byte, error) {
	tmpl, err := template.New("input").Option("missingkey=error").Parse(string(input))
	if err != nil {
		return nil, fmt.Errorf("template parsing failed: %w", err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, nil); err != nil {
		return nil, fmt.Errorf("template rendering failed: %w", err)
	}
	return buf.Bytes(), nil
}

func interactiveStdin() bool {
	fd := os.Stdin.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
