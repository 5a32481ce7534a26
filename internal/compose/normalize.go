package compose

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/trly/unit-ops/internal/codec"
	"github.com/trly/unit-ops/internal/confirm"
	"github.com/trly/unit-ops/internal/log"
)

// ImageQualifier resolves short image references to fully qualified ones.
type ImageQualifier interface {
	// NeedsQualification reports whether a reference looks unqualified.
	NeedsQualification(image string) bool

	// Qualify returns the fully qualified form of an image reference.
	Qualify(ctx context.Context, image string) (string, error)
}

// Options configures a Normalizer.
type Options struct {
	Gate      confirm.Gate
	Qualifier ImageQualifier
	Logger    log.Logger

	// Env is the variable snapshot used for substitution. Defaults to the
	// process environment.
	Env *Environment

	// Workdir is the directory the compose file was read from. It anchors
	// .env sourcing and the project name fallback. Empty disables both.
	Workdir string

	// Cwd anchors relative path normalization. Defaults to the process
	// working directory.
	Cwd string
}

// Normalizer rewrites a compose document for quadlet generation: it resolves
// the project name, sources environment files, substitutes variables,
// qualifies image references, and normalizes host paths. Mutations that
// change user-authored values are gated.
type Normalizer struct {
	gate      confirm.Gate
	qualifier ImageQualifier
	env       *Environment
	logger    log.Logger
	workdir   string
	cwd       string
}

// NewNormalizer creates a Normalizer from opts.
func NewNormalizer(opts Options) *Normalizer {
	env := opts.Env
	if env == nil {
		env = Snapshot()
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.GetLogger()
	}
	cwd := opts.Cwd
	if cwd == "" {
		cwd, _ = os.Getwd()
	}
	return &Normalizer{
		gate:      opts.Gate,
		qualifier: opts.Qualifier,
		env:       env,
		logger:    logger,
		workdir:   opts.Workdir,
		cwd:       cwd,
	}
}

// variablePattern matches ${NAME} substitution tokens.
var variablePattern = regexp.MustCompile(`\$\{[A-Za-z_][A-Za-z0-9_]*\}`)

// Normalize applies the full rewrite pipeline to file in place. The only
// hard failure is an empty services mapping; per-value problems are logged
// and the value left unchanged.
func (n *Normalizer) Normalize(ctx context.Context, file *File) error {
	if file.Services().Len() == 0 {
		return &emptyServiceSetError{}
	}

	if err := n.resolveName(file); err != nil {
		return err
	}
	if err := n.sourceEnvironment(); err != nil {
		return err
	}

	services := file.Services()
	for _, name := range services.Keys() {
		service, _ := services.Get(name)
		service, err := n.normalizeService(ctx, service)
		if err != nil {
			return err
		}
		services = services.Put(name, service)
	}
	file.SetServices(services)
	return nil
}

// resolveName ensures a top-level project name and offers to rename the
// first service to "app". The derived name is the first service's key,
// unless that key is already "app", in which case the workdir's base name
// stands in.
func (n *Normalizer) resolveName(file *File) error {
	names := file.ServiceNames()
	if len(names) == 0 {
		return &emptyServiceSetError{}
	}
	first := names[0]

	if _, ok := file.Value().Get("name"); !ok {
		name := first
		if first == "app" && n.workdir != "" {
			name = filepath.Base(n.workdir)
		}
		file.SetName(name)
	}

	if first != "app" {
		rename, err := n.gate.Confirm(fmt.Sprintf("Do you want to rename service '%s' to 'app'?", first), false)
		if err != nil {
			return err
		}
		if rename {
			services, ok := file.Services().RenameKey(first, "app")
			if !ok {
				return &invalidShapeError{path: "services." + first, reason: "service cannot be renamed"}
			}
			file.SetServices(services)
		}
	}
	return nil
}

// sourceEnvironment merges the workdir's .env file into the snapshot so
// substitution sees its values.
func (n *Normalizer) sourceEnvironment() error {
	if n.workdir == "" {
		return nil
	}
	path := filepath.Join(n.workdir, ".env")
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	n.logger.Info("Sourcing env file for variable substitution", "path", path)
	return n.env.SourceFile(path, n.gate)
}

func (n *Normalizer) normalizeService(ctx context.Context, service codec.Value) (codec.Value, error) {
	service, err := n.substituteVariables(service)
	if err != nil {
		return service, err
	}
	if service.Kind() != codec.KindMapping {
		return service, nil
	}
	service = n.qualifyImage(ctx, service)
	service = n.normalizeVolumes(service)
	service = n.normalizeEnvFiles(service)
	return service, nil
}

// substituteVariables walks a value tree and offers to substitute ${NAME}
// tokens in string scalars with values from the environment snapshot.
// Undefined variables are left alone.
func (n *Normalizer) substituteVariables(v codec.Value) (codec.Value, error) {
	switch v.Kind() {
	case codec.KindString:
		s, _ := v.AsString()
		replaced, err := n.substituteString(s)
		if err != nil {
			return v, err
		}
		if replaced != s {
			return codec.String(replaced), nil
		}
		return v, nil
	case codec.KindMapping:
		out := v
		for _, key := range v.Keys() {
			val, _ := v.Get(key)
			val, err := n.substituteVariables(val)
			if err != nil {
				return out, err
			}
			out = out.Put(key, val)
		}
		return out, nil
	case codec.KindSequence:
		out := v
		for i, item := range v.Items() {
			item, err := n.substituteVariables(item)
			if err != nil {
				return out, err
			}
			out = out.SetIndex(i, item)
		}
		return out, nil
	default:
		return v, nil
	}
}

func (n *Normalizer) substituteString(s string) (string, error) {
	out := s
	for _, token := range variablePattern.FindAllString(s, -1) {
		name := token[2 : len(token)-1]
		value, ok := n.env.Lookup(name)
		if !ok {
			continue
		}
		replace, err := n.gate.Confirm(fmt.Sprintf("Replace '%s' with '%s'?", token, value), true)
		if err != nil {
			return out, err
		}
		if replace {
			out = strings.ReplaceAll(out, token, value)
		}
	}
	return out, nil
}

// qualifyImage replaces a short image reference with a fully qualified one.
// Qualification failures are not fatal; the reference stays as written.
func (n *Normalizer) qualifyImage(ctx context.Context, service codec.Value) codec.Value {
	imageVal, ok := service.Get("image")
	if !ok {
		return service
	}
	image, ok := imageVal.AsString()
	if !ok || !n.qualifier.NeedsQualification(image) {
		return service
	}
	qualified, err := n.qualifier.Qualify(ctx, image)
	if err != nil {
		n.logger.Warn("Could not qualify image name", "image", image, "error", err)
		return service
	}
	return service.Put("image", codec.String(qualified))
}

// normalizeVolumes rewrites the host part of HOST:CONTAINER volume entries
// to an absolute path. Named volumes are recognized by the absence of path
// syntax and left alone.
func (n *Normalizer) normalizeVolumes(service codec.Value) codec.Value {
	volumesVal, ok := service.Get("volumes")
	if !ok || volumesVal.Kind() != codec.KindSequence {
		return service
	}
	volumes := volumesVal
	for i, item := range volumesVal.Items() {
		s, ok := item.AsString()
		if !ok {
			continue
		}
		host, rest, found := strings.Cut(s, ":")
		if !found || !looksLikePath(host) {
			continue
		}
		normalized := n.normalizePath(host) + ":" + rest
		if normalized != s {
			volumes = volumes.SetIndex(i, codec.String(normalized))
			n.logger.Debug("Volume path replaced", "old", s, "new", normalized)
		}
	}
	service = service.Put("volumes", volumes)
	return service
}

// normalizeEnvFiles rewrites env_file entries, which may be a single string
// or a sequence, to absolute paths.
func (n *Normalizer) normalizeEnvFiles(service codec.Value) codec.Value {
	val, ok := service.Get("env_file")
	if !ok {
		return service
	}
	switch val.Kind() {
	case codec.KindString:
		s, _ := val.AsString()
		if looksLikePath(s) {
			normalized := n.normalizePath(s)
			if normalized != s {
				service = service.Put("env_file", codec.String(normalized))
				n.logger.Debug("env_file path replaced", "old", s, "new", normalized)
			}
		}
	case codec.KindSequence:
		out := val
		for i, item := range val.Items() {
			s, ok := item.AsString()
			if !ok || !looksLikePath(s) {
				continue
			}
			normalized := n.normalizePath(s)
			if normalized != s {
				out = out.SetIndex(i, codec.String(normalized))
				n.logger.Debug("env_file path replaced", "old", s, "new", normalized)
			}
		}
		service = service.Put("env_file", out)
	}
	return service
}

// looksLikePath distinguishes bind mount paths from named volumes. The check
// is a heuristic, not an image of the volume grammar.
func looksLikePath(s string) bool {
	return strings.Contains(s, "/") || strings.HasPrefix(s, ".")
}

// normalizePath resolves a path lexically against the working directory.
// Symlinks are not followed and the path need not exist.
func (n *Normalizer) normalizePath(path string) string {
	if !filepath.IsAbs(path) {
		path = filepath.Join(n.cwd, path)
	}
	return filepath.Clean(path)
}
