package codec

import (
	"bytes"
	"fmt"
	"io"
	"math"

	"github.com/vmihailenco/msgpack/v5"
	"github.com/vmihailenco/msgpack/v5/msgpcode"
)

// msgpackCodec reads and writes MessagePack by walking the wire stream
// directly, which keeps map entry order in both directions.
type msgpackCodec struct{}

func (c *msgpackCodec) Name() string { return "msgpack" }

func (c *msgpackCodec) Decode(data []byte) (Value, error) {
	dec := msgpack.NewDecoder(bytes.NewReader(data))
	v, err := c.decodeValue(dec, "")
	if err != nil {
		return Value{}, err
	}
	if _, err := dec.PeekCode(); err != io.EOF {
		return Value{}, newDecodeError(c.Name(), "", "trailing data after top-level value", nil)
	}
	return v, nil
}

func (c *msgpackCodec) decodeValue(dec *msgpack.Decoder, path string) (Value, error) {
	code, err := dec.PeekCode()
	if err != nil {
		return Value{}, newDecodeError(c.Name(), path, "", err)
	}

	switch {
	case code == msgpcode.Nil:
		if err := dec.DecodeNil(); err != nil {
			return Value{}, newDecodeError(c.Name(), path, "", err)
		}
		return Null(), nil

	case code == msgpcode.True, code == msgpcode.False:
		b, err := dec.DecodeBool()
		if err != nil {
			return Value{}, newDecodeError(c.Name(), path, "", err)
		}
		return Bool(b), nil

	case code == msgpcode.Uint64:
		u, err := dec.DecodeUint64()
		if err != nil {
			return Value{}, newDecodeError(c.Name(), path, "", err)
		}
		if u <= math.MaxInt64 {
			return Int(int64(u)), nil
		}
		return Uint(u), nil

	case msgpcode.IsFixedNum(code),
		code == msgpcode.Int8, code == msgpcode.Int16,
		code == msgpcode.Int32, code == msgpcode.Int64,
		code == msgpcode.Uint8, code == msgpcode.Uint16,
		code == msgpcode.Uint32:
		i, err := dec.DecodeInt64()
		if err != nil {
			return Value{}, newDecodeError(c.Name(), path, "", err)
		}
		return Int(i), nil

	case code == msgpcode.Float:
		f, err := dec.DecodeFloat32()
		if err != nil {
			return Value{}, newDecodeError(c.Name(), path, "", err)
		}
		return Float(float64(f)), nil

	case code == msgpcode.Double:
		f, err := dec.DecodeFloat64()
		if err != nil {
			return Value{}, newDecodeError(c.Name(), path, "", err)
		}
		return Float(f), nil

	case msgpcode.IsString(code):
		s, err := dec.DecodeString()
		if err != nil {
			return Value{}, newDecodeError(c.Name(), path, "", err)
		}
		return String(s), nil

	case msgpcode.IsBin(code):
		raw, err := dec.DecodeBytes()
		if err != nil {
			return Value{}, newDecodeError(c.Name(), path, "", err)
		}
		return Bytes(raw), nil

	case msgpcode.IsFixedMap(code), code == msgpcode.Map16, code == msgpcode.Map32:
		n, err := dec.DecodeMapLen()
		if err != nil {
			return Value{}, newDecodeError(c.Name(), path, "", err)
		}
		m := Mapping()
		for i := 0; i < n; i++ {
			key, err := c.decodeValue(dec, path)
			if err != nil {
				return Value{}, err
			}
			text, ok := key.Text()
			if !ok {
				return Value{}, newDecodeError(c.Name(), path, "map key has no text form", nil)
			}
			val, err := c.decodeValue(dec, childPath(path, text))
			if err != nil {
				return Value{}, err
			}
			m = m.Put(text, val)
		}
		return m, nil

	case msgpcode.IsFixedArray(code), code == msgpcode.Array16, code == msgpcode.Array32:
		n, err := dec.DecodeArrayLen()
		if err != nil {
			return Value{}, newDecodeError(c.Name(), path, "", err)
		}
		s := Sequence()
		for i := 0; i < n; i++ {
			v, err := c.decodeValue(dec, indexPath(path, i))
			if err != nil {
				return Value{}, err
			}
			s = s.Append(v)
		}
		return s, nil

	case msgpcode.IsExt(code):
		t, err := dec.DecodeTime()
		if err != nil {
			return Value{}, newDecodeError(c.Name(), path, "unsupported extension", err)
		}
		return Time(t), nil

	default:
		return Value{}, newDecodeError(c.Name(), path, fmt.Sprintf("unsupported code 0x%02x", code), nil)
	}
}

func (c *msgpackCodec) Encode(v Value) ([]byte, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	if err := c.encodeValue(enc, v, ""); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (c *msgpackCodec) encodeValue(enc *msgpack.Encoder, v Value, path string) error {
	var err error
	switch v.Kind() {
	case KindNull:
		err = enc.EncodeNil()
	case KindBool:
		b, _ := v.AsBool()
		err = enc.EncodeBool(b)
	case KindInt:
		i, _ := v.AsInt()
		err = enc.EncodeInt(i)
	case KindUint:
		u, _ := v.AsUint()
		err = enc.EncodeUint(u)
	case KindFloat:
		f, _ := v.AsFloat()
		err = enc.EncodeFloat64(f)
	case KindString:
		s, _ := v.AsString()
		err = enc.EncodeString(s)
	case KindBytes:
		raw, _ := v.AsBytes()
		err = enc.EncodeBytes(raw)
	case KindTime:
		t, _ := v.AsTime()
		err = enc.EncodeTime(t)
	case KindSequence:
		if err := enc.EncodeArrayLen(v.Len()); err != nil {
			return newEncodeError(c.Name(), path, KindSequence, "cannot be emitted: "+err.Error())
		}
		for i, item := range v.Items() {
			if err := c.encodeValue(enc, item, indexPath(path, i)); err != nil {
				return err
			}
		}
		return nil
	case KindMapping:
		if err := enc.EncodeMapLen(v.Len()); err != nil {
			return newEncodeError(c.Name(), path, KindMapping, "cannot be emitted: "+err.Error())
		}
		for _, k := range v.Keys() {
			if err := enc.EncodeString(k); err != nil {
				return newEncodeError(c.Name(), childPath(path, k), KindString, "cannot be emitted: "+err.Error())
			}
			val, _ := v.Get(k)
			if err := c.encodeValue(enc, val, childPath(path, k)); err != nil {
				return err
			}
		}
		return nil
	}
	if err != nil {
		return newEncodeError(c.Name(), path, v.Kind(), "cannot be emitted: "+err.Error())
	}
	return nil
}
