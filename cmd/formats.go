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
	"strings"

	"github.com/fatih/color"
	"github.com/rodaine/table"
	"github.com/spf13/cobra"

	"github.com/trly/unit-ops/internal/codec"
)

// FormatsCommand represents the formats command.
type FormatsCommand struct{}

// GetCobraCommand returns the cobra command listing the supported encodings
// and destinations.
func (c *FormatsCommand) GetCobraCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "formats",
		Short: "List supported encodings and destinations",
		Run: func(_ *cobra.Command, _ []string) {
			headerFmt := color.New(color.FgGreen, color.Underline).SprintfFunc()
			columnFmt := color.New(color.FgYellow).SprintfFunc()
			tbl := table.New("Name", "Extensions", "Decode", "Encode")
			tbl.WithHeaderFormatter(headerFmt).WithFirstColumnFormatter(columnFmt)

			for _, name := range codec.Names() {
				decode := "yes"
				if name == "json-pretty" {
					// Encode-only; pretty input parses with json.
					decode = "no"
				}
				tbl.AddRow(name, strings.Join(codec.Aliases(name), ", "), decode, "yes")
			}
			tbl.AddRow(targetSystemd, "service, unit", "no", "yes")
			tbl.AddRow(targetQuadlet, "pod", "no", "yes")

			tbl.Print()
		},
	}
}
