// Package quadlet turns compose files into quadlet unit documents by
// driving the podlet compiler and applying per-unit-type augmentation rules.
package quadlet

import (
	"context"
	"strings"

	"github.com/trly/unit-ops/internal/execx"
	"github.com/trly/unit-ops/internal/log"
	"github.com/trly/unit-ops/internal/unit"
)

// recordDelimiter separates unit records in compiler output.
const recordDelimiter = "\n---\n\n"

// Compiler shells out to podlet to translate a compose file into quadlet
// unit records.
type Compiler struct {
	runner execx.Runner
	logger log.Logger
}

// NewCompiler creates a Compiler using the given runner.
func NewCompiler(runner execx.Runner, logger log.Logger) *Compiler {
	return &Compiler{runner: runner, logger: logger}
}

// Compile converts the compose file at path into a set of quadlet documents.
func (c *Compiler) Compile(ctx context.Context, path string) (*unit.Set, error) {
	if _, err := c.runner.LookPath("podlet"); err != nil {
		return nil, execx.NewExternalToolError("podlet", "not found in PATH, install podlet to convert compose files", nil)
	}

	c.logger.Debug("Running podlet", "path", path)
	out, err := c.runner.Output(ctx, "podlet", "compose", "--pod", path)
	if err != nil {
		return nil, execx.NewExternalToolError("podlet", "conversion failed: "+execx.Stderr(err), nil)
	}
	return ParseRecords(string(out))
}

// ParseRecords splits compiler output into records and parses each record
// body as a unit document. Every non-empty record must open with a
// "# <unit-name>" header line; fragments that are only whitespace are
// skipped.
func ParseRecords(output string) (*unit.Set, error) {
	set := unit.NewSet()
	for _, block := range strings.Split(output, recordDelimiter) {
		if strings.TrimSpace(block) == "" {
			continue
		}
		header, body, _ := strings.Cut(block, "\n")
		name, ok := strings.CutPrefix(header, "# ")
		if !ok {
			return nil, &malformedRecordError{reason: "record does not start with a '# <unit>' header"}
		}
		doc, err := unit.ParseDocument([]byte(body))
		if err != nil {
			return nil, err
		}
		if err := set.Insert(strings.TrimSpace(name), doc); err != nil {
			return nil, err
		}
	}
	return set, nil
}
