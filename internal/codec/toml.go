package codec

import (
	"bytes"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// tomlCodec reads and writes TOML. The library decodes through Go maps, so
// table order is reconstructed from its key metadata; keys the metadata does
// not cover fall back to sorted order to keep output deterministic.
type tomlCodec struct{}

func (c *tomlCodec) Name() string { return "toml" }

func (c *tomlCodec) Decode(data []byte) (Value, error) {
	if err := checkText(c.Name(), data); err != nil {
		return Value{}, err
	}

	var raw map[string]interface{}
	md, err := toml.Decode(string(data), &raw)
	if err != nil {
		return Value{}, newDecodeError(c.Name(), "", "", err)
	}

	order := make(map[string]int, len(md.Keys()))
	for i, key := range md.Keys() {
		joined := strings.Join(key, "\x00")
		if _, seen := order[joined]; !seen {
			order[joined] = i
		}
	}
	return c.fromGo(raw, "", order, "")
}

func (c *tomlCodec) fromGo(x interface{}, keyPath string, order map[string]int, path string) (Value, error) {
	switch t := x.(type) {
	case nil:
		return Null(), nil
	case bool:
		return Bool(t), nil
	case int64:
		return Int(t), nil
	case float64:
		return Float(t), nil
	case string:
		return String(t), nil
	case time.Time:
		return Time(t), nil
	case []interface{}:
		s := Sequence()
		for i, item := range t {
			v, err := c.fromGo(item, keyPath, order, indexPath(path, i))
			if err != nil {
				return Value{}, err
			}
			s = s.Append(v)
		}
		return s, nil
	case []map[string]interface{}:
		s := Sequence()
		for i, item := range t {
			v, err := c.fromGo(item, keyPath, order, indexPath(path, i))
			if err != nil {
				return Value{}, err
			}
			s = s.Append(v)
		}
		return s, nil
	case map[string]interface{}:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Slice(keys, func(a, b int) bool {
			return c.keyLess(keyPath, keys[a], keys[b], order)
		})

		m := Mapping()
		for _, k := range keys {
			v, err := c.fromGo(t[k], joinKeyPath(keyPath, k), order, childPath(path, k))
			if err != nil {
				return Value{}, err
			}
			m = m.Put(k, v)
		}
		return m, nil
	case fmt.Stringer:
		// Local datetimes and similar TOML-only scalars keep their text form.
		return String(t.String()), nil
	default:
		return Value{}, newDecodeError(c.Name(), path, fmt.Sprintf("unsupported value of type %T", x), nil)
	}
}

// keyLess orders sibling table keys by their position in the source
// document, falling back to lexical order for keys without a recorded
// position.
func (c *tomlCodec) keyLess(keyPath, a, b string, order map[string]int) bool {
	ia, oka := order[joinKeyPath(keyPath, a)]
	ib, okb := order[joinKeyPath(keyPath, b)]
	switch {
	case oka && okb:
		if ia != ib {
			return ia < ib
		}
		return a < b
	case oka:
		return true
	case okb:
		return false
	default:
		return a < b
	}
}

func joinKeyPath(keyPath, key string) string {
	if keyPath == "" {
		return key
	}
	return keyPath + "\x00" + key
}

func (c *tomlCodec) Encode(v Value) ([]byte, error) {
	if v.Kind() != KindMapping {
		return nil, newEncodeError(c.Name(), "", v.Kind(), "is not a table; TOML documents must be tables")
	}
	goVal, err := c.toGo(v, "")
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(goVal); err != nil {
		return nil, newEncodeError(c.Name(), "", v.Kind(), "cannot be emitted: "+err.Error())
	}
	return buf.Bytes(), nil
}

func (c *tomlCodec) toGo(v Value, path string) (interface{}, error) {
	switch v.Kind() {
	case KindNull:
		return nil, newEncodeError(c.Name(), path, KindNull, "is not representable in TOML")
	case KindBool:
		b, _ := v.AsBool()
		return b, nil
	case KindInt:
		i, _ := v.AsInt()
		return i, nil
	case KindUint:
		u, _ := v.AsUint()
		if u > math.MaxInt64 {
			return nil, newEncodeError(c.Name(), path, KindUint, "exceeds the TOML integer range")
		}
		return int64(u), nil
	case KindFloat:
		f, _ := v.AsFloat()
		return f, nil
	case KindString:
		s, _ := v.AsString()
		return s, nil
	case KindBytes:
		return nil, newEncodeError(c.Name(), path, KindBytes, "is not representable in TOML")
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
		return nil, newEncodeError(c.Name(), path, v.Kind(), "is not representable in TOML")
	}
}
