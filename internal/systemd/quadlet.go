package systemd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/trly/unit-ops/internal/execx"
)

// generatorPath is where the quadlet generator ships on systemd hosts.
const generatorPath = "/usr/lib/systemd/system-generators/podman-system-generator"

// ActivateQuadlets dry-runs the quadlet generator against outputDir, offers
// symlinking the written files into targetDir when the two differ, then
// offers a daemon-reload followed by a restart of every pod service. names
// must be in activation order; only .pod entries are restarted.
func (s *Service) ActivateQuadlets(ctx context.Context, outputDir, targetDir string, names []string) error {
	args := []string{"--dryrun"}
	if s.userMode {
		args = append(args, "--user")
	}

	out, err := s.runner.OutputEnv(ctx, []string{"QUADLET_UNIT_DIRS=" + outputDir}, generatorPath, args...)
	if err != nil {
		return execx.NewExternalToolError("podman-system-generator", "dry run failed: "+execx.Stderr(err), err)
	}
	fmt.Fprintln(s.out, "Generated systemd unit files (dry run):")
	fmt.Fprintln(s.out, string(out))

	if filepath.Clean(outputDir) != filepath.Clean(targetDir) {
		if err := s.offerSymlinks(outputDir, targetDir, names); err != nil {
			return err
		}
	}

	reload, err := s.gate.Confirm("Reload systemd and restart the services?", true)
	if err != nil {
		return err
	}
	if !reload {
		return nil
	}

	if err := s.systemctl(ctx, "daemon-reload"); err != nil {
		return err
	}
	for _, name := range names {
		stem, ok := strings.CutSuffix(name, ".pod")
		if !ok {
			continue
		}
		service := stem + "-pod.service"
		s.logger.Info("Restarting pod", "unit", service)
		if err := s.systemctl(ctx, "restart", service); err != nil {
			return err
		}
	}
	return nil
}

// offerSymlinks links each written file into targetDir so the generator
// picks it up on real boots. Existing entries are replaced; individual link
// failures are logged and skipped.
func (s *Service) offerSymlinks(outputDir, targetDir string, names []string) error {
	link, err := s.gate.Confirm(fmt.Sprintf("Create symlinks in '%s'?", targetDir), true)
	if err != nil {
		return err
	}
	if !link {
		return nil
	}

	absOut, err := filepath.Abs(outputDir)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(targetDir, 0o750); err != nil {
		return fmt.Errorf("failed to create %s: %w", targetDir, err)
	}

	for _, name := range names {
		src := filepath.Join(absOut, name)
		dst := filepath.Join(targetDir, name)
		if _, err := os.Lstat(dst); err == nil {
			if err := os.Remove(dst); err != nil {
				s.logger.Error("Could not replace existing file", "path", dst, "error", err)
				continue
			}
		}
		if err := os.Symlink(src, dst); err != nil {
			s.logger.Error("Could not create symlink", "path", dst, "error", err)
			continue
		}
		s.logger.Info("Created symlink", "from", src, "to", dst)
	}
	return nil
}
