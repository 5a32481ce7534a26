// Package image qualifies short container image references into fully
// qualified registry references.
package image

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/trly/unit-ops/internal/execx"
	"github.com/trly/unit-ops/internal/log"
)

// Qualifier resolves short image names through the container tool's
// manifest inspection.
type Qualifier struct {
	runner execx.Runner
	logger log.Logger
}

// NewQualifier creates a new Qualifier.
func NewQualifier(runner execx.Runner, logger log.Logger) *Qualifier {
	return &Qualifier{runner: runner, logger: logger}
}

// NeedsQualification reports whether an image reference looks short. Fewer
// than two slashes means no registry/organization prefix. This is a
// heuristic over common reference spellings, not a parse of the reference
// grammar.
func NeedsQualification(image string) bool {
	return strings.Count(image, "/") < 2
}

// NeedsQualification implements the normalizer's qualifier contract.
func (q *Qualifier) NeedsQualification(image string) bool {
	return NeedsQualification(image)
}

// Qualify asks the manifest tool for the fully qualified reference behind a
// short image name. Callers treat failure as non-fatal and keep the
// original reference.
func (q *Qualifier) Qualify(ctx context.Context, name string) (string, error) {
	q.logger.Debug("Attempting to qualify image name", "image", name)

	out, err := q.runner.Output(ctx, "docker", "manifest", "inspect", "--verbose", name)
	if err != nil {
		return "", execx.NewExternalToolError("docker manifest inspect", execx.Stderr(err), nil)
	}
	return parseQualifiedName(out)
}

// parseQualifiedName pulls the first manifest's Ref field out of the
// inspection output and strips its digest suffix.
func parseQualifiedName(output []byte) (string, error) {
	var manifests []struct {
		Ref string `json:"Ref"`
	}
	if err := json.Unmarshal(output, &manifests); err != nil {
		return "", execx.NewExternalToolError("docker manifest inspect", "unparseable output", err)
	}
	if len(manifests) == 0 || manifests[0].Ref == "" {
		return "", execx.NewExternalToolError("docker manifest inspect", "Ref field missing in manifest", nil)
	}

	ref := manifests[0].Ref
	name, _, found := strings.Cut(ref, "@")
	if !found {
		return "", execx.NewExternalToolError("docker manifest inspect", "no digest in image ref "+ref, nil)
	}
	return name, nil
}
