package quadlet

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/trly/unit-ops/internal/confirm"
	"github.com/trly/unit-ops/internal/log"
	"github.com/trly/unit-ops/internal/unit"
)

// containerAfterTargets is the dependency line offered to container units so
// they start only once storage and the network are up.
const containerAfterTargets = "local-fs.target network-online.target systemd-networkd-wait-online.service"

// Engine applies per-unit-type augmentation rules to compiled quadlet
// documents. Every insertion is offered through the gate first.
type Engine struct {
	gate    confirm.Gate
	logger  log.Logger
	workdir string
}

// NewEngine creates an Engine. workdir is the compose project directory,
// used to locate a .env file for container units; empty disables that rule.
func NewEngine(gate confirm.Gate, logger log.Logger, workdir string) *Engine {
	return &Engine{gate: gate, logger: logger, workdir: workdir}
}

// Apply mutates the documents in set according to their unit type. Units
// with an unrecognized suffix pass through untouched.
func (e *Engine) Apply(set *unit.Set) error {
	for _, name := range set.Names() {
		doc, _ := set.Get(name)
		var err error
		switch {
		case strings.HasSuffix(name, ".pod"):
			err = e.applyPodRules(name, doc)
		case strings.HasSuffix(name, ".container"):
			err = e.applyContainerRules(name, doc)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (e *Engine) applyPodRules(name string, doc *unit.Document) error {
	confirmed, err := e.gate.Confirm(fmt.Sprintf("Add WantedBy=default.target to '%s'?", name), true)
	if err != nil {
		return err
	}
	if confirmed {
		doc.Section("Install").Set("WantedBy", "default.target")
		e.logger.Debug("Added install target", "unit", name)
	}
	return nil
}

func (e *Engine) applyContainerRules(name string, doc *unit.Document) error {
	confirmed, err := e.gate.Confirm(fmt.Sprintf("Add After=%s to '%s'?", containerAfterTargets, name), true)
	if err != nil {
		return err
	}
	if confirmed {
		doc.Section("Unit").Set("After", containerAfterTargets)
		e.logger.Debug("Added startup ordering", "unit", name)
	}

	if err := e.offerEnvironmentFile(name, doc); err != nil {
		return err
	}

	confirmed, err = e.gate.Confirm(fmt.Sprintf("Add AutoUpdate= to '%s'?", name), true)
	if err != nil {
		return err
	}
	if confirmed {
		value := autoUpdateValue(doc)
		doc.Section("Service").Set("AutoUpdate", value)
		e.logger.Debug("Added update policy", "unit", name, "policy", value)
	}
	return nil
}

// offerEnvironmentFile wires the project's .env file into the unit when one
// exists next to the compose file.
func (e *Engine) offerEnvironmentFile(name string, doc *unit.Document) error {
	if e.workdir == "" {
		return nil
	}
	path := filepath.Join(e.workdir, ".env")
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	confirmed, err := e.gate.Confirm(fmt.Sprintf("Add EnvironmentFile=%s to '%s'?", path, name), true)
	if err != nil {
		return err
	}
	if confirmed {
		doc.Section("Service").Set("EnvironmentFile", path)
		e.logger.Debug("Added environment file", "unit", name, "path", path)
	}
	return nil
}

// autoUpdateValue picks the update policy for a container unit: image
// references with a dot look domain-qualified and update from the registry,
// everything else updates locally. This mirrors the qualification heuristic,
// not the full image reference grammar.
func autoUpdateValue(doc *unit.Document) string {
	image := ""
	if container, ok := doc.Get("Container"); ok {
		image, _ = container.Get("Image")
	}
	if strings.Contains(image, ".") {
		return "registry"
	}
	return "local"
}
