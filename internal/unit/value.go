package unit

import (
	"strconv"

	"github.com/trly/unit-ops/internal/codec"
)

// DecodeSet reads input bytes in the named encoding and bridges the result
// into a unit set.
func DecodeSet(data []byte, encoding string) (*Set, error) {
	v, err := codec.Decode(encoding, data)
	if err != nil {
		return nil, err
	}
	return SetFromValue(v)
}

// SetFromValue interprets a decoded value as a collection of unit
// descriptions. The top level must be a mapping of unit name to unit body.
func SetFromValue(v codec.Value) (*Set, error) {
	if v.Kind() != codec.KindMapping {
		return nil, &invalidShapeError{reason: "top level must be a mapping of unit names"}
	}
	set := NewSet()
	for _, name := range v.Keys() {
		body, _ := v.Get(name)
		doc, err := DocumentFromValue(name, body)
		if err != nil {
			return nil, err
		}
		if err := set.Insert(name, doc); err != nil {
			return nil, err
		}
	}
	return set, nil
}

// DocumentFromValue interprets a decoded value as one unit body: a mapping
// of section name to section body, each section body a mapping of key to
// scalar or to a sequence of scalars. A sequence becomes repeated entries
// under the same key.
func DocumentFromValue(name string, v codec.Value) (*Document, error) {
	if v.Kind() != codec.KindMapping {
		return nil, &invalidShapeError{path: name, reason: "unit body must be a mapping of sections"}
	}
	doc := NewDocument()
	for _, sectionName := range v.Keys() {
		body, _ := v.Get(sectionName)
		sectionPath := name + "." + sectionName
		if body.Kind() != codec.KindMapping {
			return nil, &invalidShapeError{path: sectionPath, reason: "section body must be a mapping of keys"}
		}
		sec := doc.Section(sectionName)
		for _, key := range body.Keys() {
			val, _ := body.Get(key)
			keyPath := sectionPath + "." + key
			if val.Kind() == codec.KindSequence {
				for i, item := range val.Items() {
					text, err := entryText(keyPath+"["+strconv.Itoa(i)+"]", item)
					if err != nil {
						return nil, err
					}
					sec.Append(key, text)
				}
				continue
			}
			text, err := entryText(keyPath, val)
			if err != nil {
				return nil, err
			}
			sec.Append(key, text)
		}
	}
	return doc, nil
}

// entryText renders one decoded value as a unit entry value. Null stands
// for the empty string, which systemd uses to reset list settings.
func entryText(path string, v codec.Value) (string, error) {
	if v.Kind() == codec.KindNull {
		return "", nil
	}
	text, ok := v.Text()
	if !ok {
		return "", &invalidShapeError{path: path, reason: "entry value must be a scalar"}
	}
	return text, nil
}
