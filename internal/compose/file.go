// Package compose normalizes compose documents for quadlet generation:
// environment sourcing and substitution, image qualification, and path
// rewriting, each mutation gated by user confirmation.
package compose

import (
	"github.com/trly/unit-ops/internal/codec"
)

// File wraps a decoded compose document. The top-level mapping is kept
// whole so unknown keys survive the round-trip verbatim and in order.
type File struct {
	top codec.Value
}

// FromValue interprets a decoded value as a compose document. The top level
// must be a mapping carrying a services mapping.
func FromValue(v codec.Value) (*File, error) {
	if v.Kind() != codec.KindMapping {
		return nil, &invalidShapeError{reason: "compose document must be a mapping"}
	}
	services, ok := v.Get("services")
	if !ok {
		return nil, &invalidShapeError{path: "services", reason: "missing services mapping"}
	}
	if services.Kind() != codec.KindMapping {
		return nil, &invalidShapeError{path: "services", reason: "services must be a mapping"}
	}
	return &File{top: v}, nil
}

// Value returns the document as a dynamic value for re-encoding.
func (f *File) Value() codec.Value {
	return f.top
}

// Services returns the services mapping.
func (f *File) Services() codec.Value {
	services, _ := f.top.Get("services")
	return services
}

// SetServices replaces the services mapping, keeping its position.
func (f *File) SetServices(services codec.Value) {
	f.top = f.top.Put("services", services)
}

// ServiceNames returns the service names in document order.
func (f *File) ServiceNames() []string {
	return f.Services().Keys()
}

// Name returns the top-level project name, if present as a string.
func (f *File) Name() (string, bool) {
	name, ok := f.top.Get("name")
	if !ok {
		return "", false
	}
	return name.AsString()
}

// SetName sets the top-level project name.
func (f *File) SetName(name string) {
	f.top = f.top.Put("name", codec.String(name))
}
