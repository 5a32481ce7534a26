package codec

import (
	"bytes"
	"encoding/json"
	"io"
	"math"
	"strconv"
	"strings"
)

// jsonCodec reads and writes JSON. Decoding walks the token stream so
// object key order survives into the mapping; encoding writes entries in
// mapping order. The pretty variant is encode-only.
type jsonCodec struct {
	pretty bool
}

func (c *jsonCodec) Name() string {
	if c.pretty {
		return "json-pretty"
	}
	return "json"
}

func (c *jsonCodec) Decode(data []byte) (Value, error) {
	if c.pretty {
		return Value{}, newDecodeError(c.Name(), "", "encoding is encode-only, decode with json instead", nil)
	}
	if err := checkText(c.Name(), data); err != nil {
		return Value{}, err
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	v, err := c.decodeValue(dec, "")
	if err != nil {
		return Value{}, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return Value{}, newDecodeError(c.Name(), "", "trailing data after top-level value", nil)
	}
	return v, nil
}

func (c *jsonCodec) decodeValue(dec *json.Decoder, path string) (Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return Value{}, newDecodeError("json", path, "", err)
	}

	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			return c.decodeObject(dec, path)
		case '[':
			return c.decodeArray(dec, path)
		}
		return Value{}, newDecodeError("json", path, "unexpected delimiter "+string(rune(t)), nil)
	case bool:
		return Bool(t), nil
	case string:
		return String(t), nil
	case json.Number:
		return numberValue("json", path, t.String())
	case nil:
		return Null(), nil
	default:
		return Value{}, newDecodeError("json", path, "unexpected token", nil)
	}
}

func (c *jsonCodec) decodeObject(dec *json.Decoder, path string) (Value, error) {
	m := Mapping()
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return Value{}, newDecodeError("json", path, "", err)
		}
		key, ok := keyTok.(string)
		if !ok {
			return Value{}, newDecodeError("json", path, "object key is not a string", nil)
		}
		val, err := c.decodeValue(dec, childPath(path, key))
		if err != nil {
			return Value{}, err
		}
		m = m.Put(key, val)
	}
	if _, err := dec.Token(); err != nil {
		return Value{}, newDecodeError("json", path, "unterminated object", err)
	}
	return m, nil
}

func (c *jsonCodec) decodeArray(dec *json.Decoder, path string) (Value, error) {
	s := Sequence()
	for i := 0; dec.More(); i++ {
		val, err := c.decodeValue(dec, indexPath(path, i))
		if err != nil {
			return Value{}, err
		}
		s = s.Append(val)
	}
	if _, err := dec.Token(); err != nil {
		return Value{}, newDecodeError("json", path, "unterminated array", err)
	}
	return s, nil
}

func (c *jsonCodec) Encode(v Value) ([]byte, error) {
	var buf bytes.Buffer
	if err := c.encodeValue(&buf, v, ""); err != nil {
		return nil, err
	}
	if !c.pretty {
		return buf.Bytes(), nil
	}

	var out bytes.Buffer
	if err := json.Indent(&out, buf.Bytes(), "", "  "); err != nil {
		return nil, newEncodeError(c.Name(), "", v.Kind(), "cannot be indented: "+err.Error())
	}
	return out.Bytes(), nil
}

func (c *jsonCodec) encodeValue(buf *bytes.Buffer, v Value, path string) error {
	switch v.Kind() {
	case KindNull:
		buf.WriteString("null")
	case KindBool:
		b, _ := v.AsBool()
		buf.WriteString(strconv.FormatBool(b))
	case KindInt:
		i, _ := v.AsInt()
		buf.WriteString(strconv.FormatInt(i, 10))
	case KindUint:
		u, _ := v.AsUint()
		buf.WriteString(strconv.FormatUint(u, 10))
	case KindFloat:
		f, _ := v.AsFloat()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return newEncodeError(c.Name(), path, KindFloat, "is not finite")
		}
		b, _ := json.Marshal(f)
		buf.Write(b)
	case KindString:
		s, _ := v.AsString()
		b, _ := json.Marshal(s)
		buf.Write(b)
	case KindBytes:
		return newEncodeError(c.Name(), path, KindBytes, "is not representable in JSON")
	case KindTime:
		return newEncodeError(c.Name(), path, KindTime, "is not representable in JSON")
	case KindSequence:
		buf.WriteByte('[')
		for i, item := range v.Items() {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := c.encodeValue(buf, item, indexPath(path, i)); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case KindMapping:
		buf.WriteByte('{')
		for i, k := range v.Keys() {
			if i > 0 {
				buf.WriteByte(',')
			}
			kb, _ := json.Marshal(k)
			buf.Write(kb)
			buf.WriteByte(':')
			val, _ := v.Get(k)
			if err := c.encodeValue(buf, val, childPath(path, k)); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	}
	return nil
}

// numberValue classifies a textual number without precision loss: integers
// land in int64, larger positive magnitudes in uint64, the rest in float64.
func numberValue(encoding, path, s string) (Value, error) {
	if !strings.ContainsAny(s, ".eE") {
		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			return Int(i), nil
		}
		if u, err := strconv.ParseUint(s, 10, 64); err == nil {
			return Uint(u), nil
		}
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return Value{}, newDecodeError(encoding, path, "invalid number "+strconv.Quote(s), nil)
	}
	return Float(f), nil
}
