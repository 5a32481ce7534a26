// Package codec converts configuration documents between serialization
// encodings through a single dynamic value type.
package codec

import (
	"fmt"
	"math"
	"strconv"
	"time"
)

// Kind identifies the type held by a Value.
type Kind int

// Kinds of values the bridge can carry. Every encoder switches exhaustively
// over these so unrepresentable-value failures are enumerable per encoding.
const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindUint
	KindFloat
	KindString
	KindBytes
	KindTime
	KindSequence
	KindMapping
)

// String returns the lowercase name of the kind.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindUint:
		return "uint"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindBytes:
		return "bytes"
	case KindTime:
		return "time"
	case KindSequence:
		return "sequence"
	case KindMapping:
		return "mapping"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Value is the dynamic form every decoder produces and every encoder
// consumes. Mappings preserve insertion order. The zero Value is null.
//
// Values are updated functionally: mutating methods return a new Value and
// never modify shared state, so holding an old copy is always safe.
type Value struct {
	kind Kind
	b    bool
	i    int64
	u    uint64
	f    float64
	s    string
	raw  []byte
	t    time.Time
	seq  []Value
	keys []string
	vals []Value
}

// Null returns the null value.
func Null() Value { return Value{kind: KindNull} }

// Bool returns a boolean value.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Int returns a signed integer value.
func Int(i int64) Value { return Value{kind: KindInt, i: i} }

// Uint returns an unsigned integer value. Use only for magnitudes that do
// not fit int64; decoders normalize smaller unsigned values to KindInt.
func Uint(u uint64) Value { return Value{kind: KindUint, u: u} }

// Float returns a floating point value.
func Float(f float64) Value { return Value{kind: KindFloat, f: f} }

// String returns a string value.
func String(s string) Value { return Value{kind: KindString, s: s} }

// Bytes returns a binary value.
func Bytes(b []byte) Value { return Value{kind: KindBytes, raw: b} }

// Time returns a timestamp value.
func Time(t time.Time) Value { return Value{kind: KindTime, t: t} }

// Sequence returns an ordered sequence of the given items.
func Sequence(items ...Value) Value {
	return Value{kind: KindSequence, seq: items}
}

// Mapping returns an empty ordered mapping.
func Mapping() Value { return Value{kind: KindMapping} }

// Kind reports the kind of the value.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether the value is null.
func (v Value) IsNull() bool { return v.kind == KindNull }

// AsBool returns the boolean payload.
func (v Value) AsBool() (bool, bool) { return v.b, v.kind == KindBool }

// AsInt returns the signed integer payload.
func (v Value) AsInt() (int64, bool) { return v.i, v.kind == KindInt }

// AsUint returns the unsigned integer payload.
func (v Value) AsUint() (uint64, bool) { return v.u, v.kind == KindUint }

// AsFloat returns the floating point payload.
func (v Value) AsFloat() (float64, bool) { return v.f, v.kind == KindFloat }

// AsString returns the string payload.
func (v Value) AsString() (string, bool) { return v.s, v.kind == KindString }

// AsBytes returns the binary payload.
func (v Value) AsBytes() ([]byte, bool) { return v.raw, v.kind == KindBytes }

// AsTime returns the timestamp payload.
func (v Value) AsTime() (time.Time, bool) { return v.t, v.kind == KindTime }

// Items returns the sequence elements. The returned slice must not be
// modified.
func (v Value) Items() []Value {
	if v.kind != KindSequence {
		return nil
	}
	return v.seq
}

// Keys returns the mapping keys in insertion order. The returned slice must
// not be modified.
func (v Value) Keys() []string {
	if v.kind != KindMapping {
		return nil
	}
	return v.keys
}

// Get returns the value stored under key in a mapping.
func (v Value) Get(key string) (Value, bool) {
	if v.kind != KindMapping {
		return Value{}, false
	}
	for i, k := range v.keys {
		if k == key {
			return v.vals[i], true
		}
	}
	return Value{}, false
}

// Len returns the number of elements in a sequence or entries in a mapping,
// and zero for scalars.
func (v Value) Len() int {
	switch v.kind {
	case KindSequence:
		return len(v.seq)
	case KindMapping:
		return len(v.keys)
	default:
		return 0
	}
}

// Put returns a mapping with key set to val. An existing key keeps its
// position; a new key is appended. Put on a non-mapping returns a fresh
// single-entry mapping.
func (v Value) Put(key string, val Value) Value {
	if v.kind != KindMapping {
		return Value{kind: KindMapping, keys: []string{key}, vals: []Value{val}}
	}
	for i, k := range v.keys {
		if k == key {
			vals := make([]Value, len(v.vals))
			copy(vals, v.vals)
			vals[i] = val
			return Value{kind: KindMapping, keys: v.keys, vals: vals}
		}
	}
	keys := make([]string, len(v.keys), len(v.keys)+1)
	copy(keys, v.keys)
	vals := make([]Value, len(v.vals), len(v.vals)+1)
	copy(vals, v.vals)
	return Value{kind: KindMapping, keys: append(keys, key), vals: append(vals, val)}
}

// RenameKey returns a mapping with the entry under old renamed to new,
// keeping its position. The second result reports whether old existed.
func (v Value) RenameKey(old, new string) (Value, bool) {
	if v.kind != KindMapping {
		return v, false
	}
	for i, k := range v.keys {
		if k == old {
			keys := make([]string, len(v.keys))
			copy(keys, v.keys)
			keys[i] = new
			return Value{kind: KindMapping, keys: keys, vals: v.vals}, true
		}
	}
	return v, false
}

// Append returns a sequence with item added at the end. Append on a
// non-sequence returns a fresh single-element sequence.
func (v Value) Append(item Value) Value {
	if v.kind != KindSequence {
		return Value{kind: KindSequence, seq: []Value{item}}
	}
	seq := make([]Value, len(v.seq), len(v.seq)+1)
	copy(seq, v.seq)
	return Value{kind: KindSequence, seq: append(seq, item)}
}

// SetIndex returns a sequence with the element at i replaced. Out-of-range
// indexes return the value unchanged.
func (v Value) SetIndex(i int, item Value) Value {
	if v.kind != KindSequence || i < 0 || i >= len(v.seq) {
		return v
	}
	seq := make([]Value, len(v.seq))
	copy(seq, v.seq)
	seq[i] = item
	return Value{kind: KindSequence, seq: seq}
}

// Text renders a scalar as its canonical text form. It reports false for
// null, sequences, mappings, bytes, and timestamps.
func (v Value) Text() (string, bool) {
	switch v.kind {
	case KindBool:
		return strconv.FormatBool(v.b), true
	case KindInt:
		return strconv.FormatInt(v.i, 10), true
	case KindUint:
		return strconv.FormatUint(v.u, 10), true
	case KindFloat:
		return formatFloat(v.f), true
	case KindString:
		return v.s, true
	default:
		return "", false
	}
}

// Equal reports deep semantic equality. Sequences compare element order;
// mappings compare by key set regardless of order.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindBool:
		return v.b == o.b
	case KindInt:
		return v.i == o.i
	case KindUint:
		return v.u == o.u
	case KindFloat:
		if math.IsNaN(v.f) && math.IsNaN(o.f) {
			return true
		}
		return v.f == o.f
	case KindString:
		return v.s == o.s
	case KindBytes:
		if len(v.raw) != len(o.raw) {
			return false
		}
		for i := range v.raw {
			if v.raw[i] != o.raw[i] {
				return false
			}
		}
		return true
	case KindTime:
		return v.t.Equal(o.t)
	case KindSequence:
		if len(v.seq) != len(o.seq) {
			return false
		}
		for i := range v.seq {
			if !v.seq[i].Equal(o.seq[i]) {
				return false
			}
		}
		return true
	case KindMapping:
		if len(v.keys) != len(o.keys) {
			return false
		}
		for i, k := range v.keys {
			ov, ok := o.Get(k)
			if !ok || !v.vals[i].Equal(ov) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// formatFloat renders floats the shortest way that round-trips, with the
// spellings YAML and TOML use for the non-finite values.
func formatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "nan"
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	default:
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
}
