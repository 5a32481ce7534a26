package codec

import (
	"bytes"

	"gopkg.in/ini.v1"
)

// iniCodec reads and writes INI documents. The dynamic shape is one level of
// sections holding text values; keys outside any section live at the top
// level of the mapping. Values decode as strings since INI carries no type
// information.
type iniCodec struct{}

func (c *iniCodec) Name() string { return "ini" }

func (c *iniCodec) Decode(data []byte) (Value, error) {
	if err := checkText(c.Name(), data); err != nil {
		return Value{}, err
	}

	f, err := ini.Load(data)
	if err != nil {
		return Value{}, newDecodeError(c.Name(), "", "", err)
	}

	m := Mapping()
	for _, sec := range f.Sections() {
		if sec.Name() == ini.DefaultSection {
			for _, key := range sec.Keys() {
				m = m.Put(key.Name(), String(key.Value()))
			}
			continue
		}
		section := Mapping()
		for _, key := range sec.Keys() {
			section = section.Put(key.Name(), String(key.Value()))
		}
		m = m.Put(sec.Name(), section)
	}
	return m, nil
}

func (c *iniCodec) Encode(v Value) ([]byte, error) {
	if v.Kind() != KindMapping {
		return nil, newEncodeError(c.Name(), "", v.Kind(), "is not a mapping; INI documents need sections or top-level keys")
	}

	f := ini.Empty()
	for _, k := range v.Keys() {
		val, _ := v.Get(k)
		if val.Kind() == KindMapping {
			sec := f.Section(k)
			for _, name := range val.Keys() {
				entry, _ := val.Get(name)
				text, err := c.scalarText(entry, childPath(k, name))
				if err != nil {
					return nil, err
				}
				if _, err := sec.NewKey(name, text); err != nil {
					return nil, newEncodeError(c.Name(), childPath(k, name), entry.Kind(), "cannot be written: "+err.Error())
				}
			}
			continue
		}

		text, err := c.scalarText(val, k)
		if err != nil {
			return nil, err
		}
		if _, err := f.Section("").NewKey(k, text); err != nil {
			return nil, newEncodeError(c.Name(), k, val.Kind(), "cannot be written: "+err.Error())
		}
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, newEncodeError(c.Name(), "", v.Kind(), "cannot be written: "+err.Error())
	}
	return buf.Bytes(), nil
}

func (c *iniCodec) scalarText(v Value, path string) (string, error) {
	if text, ok := v.Text(); ok {
		return text, nil
	}
	return "", newEncodeError(c.Name(), path, v.Kind(), "is not representable in INI")
}
