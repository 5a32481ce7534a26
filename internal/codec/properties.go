package codec

import (
	"bytes"

	"github.com/magiconair/properties"
)

// propertiesCodec reads and writes Java properties files. Decoding keeps the
// flat dotted keys as they appear; encoding flattens nested mappings with a
// dot separator. Reference expansion is disabled in both directions so
// ${...} values pass through untouched.
type propertiesCodec struct{}

func (c *propertiesCodec) Name() string { return "properties" }

func (c *propertiesCodec) Decode(data []byte) (Value, error) {
	if err := checkText(c.Name(), data); err != nil {
		return Value{}, err
	}

	loader := &properties.Loader{Encoding: properties.UTF8, DisableExpansion: true}
	p, err := loader.LoadBytes(data)
	if err != nil {
		return Value{}, newDecodeError(c.Name(), "", "", err)
	}

	m := Mapping()
	for _, k := range p.Keys() {
		val, _ := p.Get(k)
		m = m.Put(k, String(val))
	}
	return m, nil
}

func (c *propertiesCodec) Encode(v Value) ([]byte, error) {
	if v.Kind() != KindMapping {
		return nil, newEncodeError(c.Name(), "", v.Kind(), "is not a mapping; properties documents are key-value lists")
	}

	p := properties.NewProperties()
	p.DisableExpansion = true
	if err := c.flatten(p, "", v); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if _, err := p.Write(&buf, properties.UTF8); err != nil {
		return nil, newEncodeError(c.Name(), "", v.Kind(), "cannot be written: "+err.Error())
	}
	return buf.Bytes(), nil
}

func (c *propertiesCodec) flatten(p *properties.Properties, prefix string, v Value) error {
	for _, k := range v.Keys() {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		val, _ := v.Get(k)

		switch val.Kind() {
		case KindMapping:
			if err := c.flatten(p, key, val); err != nil {
				return err
			}
		case KindNull:
			if _, _, err := p.Set(key, ""); err != nil {
				return newEncodeError(c.Name(), key, KindNull, "cannot be written: "+err.Error())
			}
		default:
			text, ok := val.Text()
			if !ok {
				return newEncodeError(c.Name(), key, val.Kind(), "is not representable in properties")
			}
			if _, _, err := p.Set(key, text); err != nil {
				return newEncodeError(c.Name(), key, val.Kind(), "cannot be written: "+err.Error())
			}
		}
	}
	return nil
}
