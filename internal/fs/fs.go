// Package fs provides file system operations for unit file management
package fs

import (
	"crypto/sha1" //nolint:gosec // Not used for security purposes, just content comparison
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/trly/unit-ops/internal/log"
	"github.com/trly/unit-ops/internal/unit"
)

// Service provides file system operations for writing unit documents.
type Service struct {
	logger log.Logger
}

// NewService creates a new filesystem service.
func NewService(logger log.Logger) *Service {
	return &Service{logger: logger}
}

// WriteDocuments writes one file per document into dir, each named after
// its unit. Files whose content is already current are left untouched so
// re-runs do not disturb modification times. It returns the paths of every
// document's file, written or not, in set order.
func (s *Service) WriteDocuments(dir string, set *unit.Set) ([]string, error) {
	paths := make([]string, 0, set.Len())
	for _, name := range set.Names() {
		doc, _ := set.Get(name)
		path := filepath.Join(dir, name)
		content := doc.String()

		if !s.HasUnitChanged(path, content) {
			paths = append(paths, path)
			continue
		}
		if err := s.WriteUnitFile(path, content); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// PrintDocuments renders every document to w as sequential blocks, each
// headed by a "# <name>" line and separated by the same "---" delimiter the
// quadlet compiler uses, so output can be fed back through a record parser.
func (s *Service) PrintDocuments(w io.Writer, set *unit.Set) error {
	for i, name := range set.Names() {
		if i > 0 {
			if _, err := fmt.Fprint(w, "\n---\n\n"); err != nil {
				return err
			}
		}
		doc, _ := set.Get(name)
		if _, err := fmt.Fprintf(w, "# %s\n%s", name, doc.String()); err != nil {
			return err
		}
	}
	return nil
}

// HasUnitChanged checks if the content of a unit file has changed.
func (s *Service) HasUnitChanged(unitPath, content string) bool {
	existingContent, err := os.ReadFile(unitPath) //nolint:gosec // Safe as path is internally constructed, not user-controlled
	if err != nil {
		// File doesn't exist or can't be read, so it has changed
		return true
	}

	s.logger.Debug("Content hash comparison",
		"existing", fmt.Sprintf("%x", GetContentHash(string(existingContent))),
		"new", fmt.Sprintf("%x", GetContentHash(content)))

	if string(existingContent) == content {
		s.logger.Debug("Unit unchanged, skipping", "path", unitPath)
		return false
	}

	return true
}

// WriteUnitFile writes unit content to the specified file path.
func (s *Service) WriteUnitFile(unitPath, content string) error {
	s.logger.Debug("Writing unit file", "path", unitPath)

	// Ensure the parent directory exists
	if err := os.MkdirAll(filepath.Dir(unitPath), 0750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	return os.WriteFile(unitPath, []byte(content), 0600)
}

// GetContentHash calculates a SHA1 hash for content comparison and change
// tracking.
func GetContentHash(content string) []byte {
	hash := sha1.New() //nolint:gosec // Not used for security purposes, just for content tracking
	hash.Write([]byte(content))
	return hash.Sum(nil)
}
