// Package unit holds the ordered section model for systemd-style unit
// documents and the synthesis of service/timer pairs from logical unit
// descriptions.
package unit

import (
	"bytes"
	"io"

	systemdunit "github.com/coreos/go-systemd/v22/unit"
)

// Entry is a single key-value line inside a section. Repeated keys are
// first-class: a section may hold any number of entries with the same key.
type Entry struct {
	Key   string
	Value string
}

// Section is an ordered list of entries. The zero value is ready to use.
type Section struct {
	entries []Entry
}

// Append adds an entry at the end of the section. It never merges with or
// replaces an existing key.
func (s *Section) Append(key, value string) {
	s.entries = append(s.entries, Entry{Key: key, Value: value})
}

// Set replaces the first entry with the given key, keeping its position, or
// appends when the key is absent.
func (s *Section) Set(key, value string) {
	for i := range s.entries {
		if s.entries[i].Key == key {
			s.entries[i].Value = value
			return
		}
	}
	s.Append(key, value)
}

// SetDefault appends the entry only when the key is absent.
func (s *Section) SetDefault(key, value string) {
	if !s.Has(key) {
		s.Append(key, value)
	}
}

// Get returns the value of the first entry with the given key.
func (s *Section) Get(key string) (string, bool) {
	for _, e := range s.entries {
		if e.Key == key {
			return e.Value, true
		}
	}
	return "", false
}

// Values returns every value stored under key, in order.
func (s *Section) Values(key string) []string {
	var out []string
	for _, e := range s.entries {
		if e.Key == key {
			out = append(out, e.Value)
		}
	}
	return out
}

// Has reports whether at least one entry uses the given key.
func (s *Section) Has(key string) bool {
	_, ok := s.Get(key)
	return ok
}

// Entries returns the entries in order. The returned slice must not be
// modified.
func (s *Section) Entries() []Entry {
	return s.entries
}

// Len returns the number of entries.
func (s *Section) Len() int {
	return len(s.entries)
}

func (s *Section) clone() *Section {
	c := &Section{entries: make([]Entry, len(s.entries))}
	copy(c.entries, s.entries)
	return c
}

type documentSection struct {
	name    string
	section *Section
}

// Document is an ordered collection of named sections.
type Document struct {
	sections []documentSection
}

// NewDocument returns an empty document.
func NewDocument() *Document {
	return &Document{}
}

// Section returns a mutable handle on the named section, inserting an empty
// one at the end when it does not exist yet.
func (d *Document) Section(name string) *Section {
	if sec, ok := d.Get(name); ok {
		return sec
	}
	sec := &Section{}
	d.sections = append(d.sections, documentSection{name: name, section: sec})
	return sec
}

// Get returns the named section without inserting it.
func (d *Document) Get(name string) (*Section, bool) {
	for _, ds := range d.sections {
		if ds.name == name {
			return ds.section, true
		}
	}
	return nil, false
}

// Names returns the section names in document order.
func (d *Document) Names() []string {
	out := make([]string, len(d.sections))
	for i, ds := range d.sections {
		out[i] = ds.name
	}
	return out
}

// Len returns the number of sections.
func (d *Document) Len() int {
	return len(d.sections)
}

// Clone returns a deep copy of the document.
func (d *Document) Clone() *Document {
	c := &Document{sections: make([]documentSection, len(d.sections))}
	for i, ds := range d.sections {
		c.sections[i] = documentSection{name: ds.name, section: ds.section.clone()}
	}
	return c
}

// Serialize renders the document in systemd unit syntax. Section order, key
// order, and key repetition are emitted exactly as held; sections with no
// entries produce no output, matching systemd semantics.
func (d *Document) Serialize() []byte {
	var opts []*systemdunit.UnitOption
	for _, ds := range d.sections {
		for _, e := range ds.section.entries {
			opts = append(opts, &systemdunit.UnitOption{
				Section: ds.name,
				Name:    e.Key,
				Value:   e.Value,
			})
		}
	}
	data, _ := io.ReadAll(systemdunit.Serialize(opts))
	return data
}

// String renders the document in systemd unit syntax.
func (d *Document) String() string {
	return string(d.Serialize())
}

// ParseDocument reads systemd unit syntax into a document. Repeated blocks
// of the same section fold into one section, keeping every key line in file
// order.
func ParseDocument(data []byte) (*Document, error) {
	opts, err := systemdunit.Deserialize(bytes.NewReader(data))
	if err != nil {
		return nil, &parseError{cause: err}
	}
	d := NewDocument()
	for _, opt := range opts {
		d.Section(opt.Section).Append(opt.Name, opt.Value)
	}
	return d, nil
}

type setEntry struct {
	name string
	doc  *Document
}

// Set maps unit names to documents, keeping insertion order for
// deterministic output.
type Set struct {
	entries []setEntry
}

// NewSet returns an empty set.
func NewSet() *Set {
	return &Set{}
}

// Insert adds a named document. Names are unique within a set.
func (s *Set) Insert(name string, doc *Document) error {
	if _, ok := s.Get(name); ok {
		return &duplicateNameError{name: name}
	}
	s.entries = append(s.entries, setEntry{name: name, doc: doc})
	return nil
}

// Get returns the document stored under name.
func (s *Set) Get(name string) (*Document, bool) {
	for _, e := range s.entries {
		if e.name == name {
			return e.doc, true
		}
	}
	return nil, false
}

// Names returns the unit names in insertion order.
func (s *Set) Names() []string {
	out := make([]string, len(s.entries))
	for i, e := range s.entries {
		out[i] = e.name
	}
	return out
}

// Len returns the number of documents.
func (s *Set) Len() int {
	return len(s.entries)
}
