package codec

import (
	"fmt"
	"math"
	"math/big"
	"sort"
	"time"

	"github.com/fxamacker/cbor/v2"
)

// cborCodec reads and writes CBOR (RFC 8949). Encoding uses the core
// deterministic form, so map keys are sorted rather than kept in insertion
// order; decoding orders map keys the same way since the library surfaces
// maps through Go maps.
type cborCodec struct{}

var (
	cborDec cbor.DecMode
	cborEnc cbor.EncMode
)

func init() {
	var err error
	cborDec, err = cbor.DecOptions{TimeTagToAny: cbor.TimeTagToTime}.DecMode()
	if err != nil {
		panic(err)
	}

	opts := cbor.CoreDetEncOptions()
	opts.Time = cbor.TimeRFC3339Nano
	opts.TimeTag = cbor.EncTagRequired
	cborEnc, err = opts.EncMode()
	if err != nil {
		panic(err)
	}
}

func (c *cborCodec) Name() string { return "cbor" }

func (c *cborCodec) Decode(data []byte) (Value, error) {
	var raw interface{}
	if err := cborDec.Unmarshal(data, &raw); err != nil {
		return Value{}, newDecodeError(c.Name(), "", "", err)
	}
	return c.fromGo(raw, "")
}

func (c *cborCodec) fromGo(x interface{}, path string) (Value, error) {
	switch t := x.(type) {
	case nil:
		return Null(), nil
	case bool:
		return Bool(t), nil
	case uint64:
		if t <= math.MaxInt64 {
			return Int(int64(t)), nil
		}
		return Uint(t), nil
	case int64:
		return Int(t), nil
	case float64:
		return Float(t), nil
	case string:
		return String(t), nil
	case []byte:
		return Bytes(t), nil
	case time.Time:
		return Time(t), nil
	case big.Int:
		return bigIntValue(c.Name(), path, &t)
	case *big.Int:
		return bigIntValue(c.Name(), path, t)
	case []interface{}:
		s := Sequence()
		for i, item := range t {
			v, err := c.fromGo(item, indexPath(path, i))
			if err != nil {
				return Value{}, err
			}
			s = s.Append(v)
		}
		return s, nil
	case map[interface{}]interface{}:
		entries := make(map[string]interface{}, len(t))
		keys := make([]string, 0, len(t))
		for rawKey, rawVal := range t {
			kv, err := c.fromGo(rawKey, path)
			if err != nil {
				return Value{}, err
			}
			text, ok := kv.Text()
			if !ok {
				return Value{}, newDecodeError(c.Name(), path, "map key has no text form", nil)
			}
			entries[text] = rawVal
			keys = append(keys, text)
		}
		sort.Strings(keys)

		m := Mapping()
		for _, k := range keys {
			v, err := c.fromGo(entries[k], childPath(path, k))
			if err != nil {
				return Value{}, err
			}
			m = m.Put(k, v)
		}
		return m, nil
	case cbor.Tag:
		return Value{}, newDecodeError(c.Name(), path, fmt.Sprintf("unsupported tag %d", t.Number), nil)
	default:
		return Value{}, newDecodeError(c.Name(), path, fmt.Sprintf("unsupported value of type %T", x), nil)
	}
}

func bigIntValue(encoding, path string, i *big.Int) (Value, error) {
	if i.IsInt64() {
		return Int(i.Int64()), nil
	}
	if i.IsUint64() {
		return Uint(i.Uint64()), nil
	}
	return Value{}, newDecodeError(encoding, path, "integer exceeds 64 bits", nil)
}

func (c *cborCodec) Encode(v Value) ([]byte, error) {
	goVal, err := c.toGo(v, "")
	if err != nil {
		return nil, err
	}
	data, err := cborEnc.Marshal(goVal)
	if err != nil {
		return nil, newEncodeError(c.Name(), "", v.Kind(), "cannot be emitted: "+err.Error())
	}
	return data, nil
}

func (c *cborCodec) toGo(v Value, path string) (interface{}, error) {
	switch v.Kind() {
	case KindNull:
		return nil, nil
	case KindBool:
		b, _ := v.AsBool()
		return b, nil
	case KindInt:
		i, _ := v.AsInt()
		return i, nil
	case KindUint:
		u, _ := v.AsUint()
		return u, nil
	case KindFloat:
		f, _ := v.AsFloat()
		return f, nil
	case KindString:
		s, _ := v.AsString()
		return s, nil
	case KindBytes:
		raw, _ := v.AsBytes()
		return raw, nil
	case KindTime:
		t, _ := v.AsTime()
		return t, nil
	case KindSequence:
		out := make([]interface{}, 0, v.Len())
		for i, item := range v.Items() {
			gv, err := c.toGo(item, indexPath(path, i))
			if err != nil {
				return nil, err
			}
			out = append(out, gv)
		}
		return out, nil
	case KindMapping:
		out := make(map[string]interface{}, v.Len())
		for _, k := range v.Keys() {
			val, _ := v.Get(k)
			gv, err := c.toGo(val, childPath(path, k))
			if err != nil {
				return nil, err
			}
			out[k] = gv
		}
		return out, nil
	default:
		return nil, newEncodeError(c.Name(), path, v.Kind(), "is not representable in CBOR")
	}
}
