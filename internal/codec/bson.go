package codec

import (
	"fmt"
	"math"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// bsonCodec reads and writes BSON documents through bson.D, which keeps
// element order in both directions. The top level must be a mapping since a
// BSON payload is always a document.
type bsonCodec struct{}

func (c *bsonCodec) Name() string { return "bson" }

func (c *bsonCodec) Decode(data []byte) (Value, error) {
	var d bson.D
	if err := bson.Unmarshal(data, &d); err != nil {
		return Value{}, newDecodeError(c.Name(), "", "", err)
	}
	return c.fromDoc(d, "")
}

func (c *bsonCodec) fromDoc(d bson.D, path string) (Value, error) {
	m := Mapping()
	for _, e := range d {
		v, err := c.fromGo(e.Value, childPath(path, e.Key))
		if err != nil {
			return Value{}, err
		}
		m = m.Put(e.Key, v)
	}
	return m, nil
}

func (c *bsonCodec) fromGo(x interface{}, path string) (Value, error) {
	switch t := x.(type) {
	case nil:
		return Null(), nil
	case primitive.Null:
		return Null(), nil
	case bool:
		return Bool(t), nil
	case int32:
		return Int(int64(t)), nil
	case int64:
		return Int(t), nil
	case float64:
		return Float(t), nil
	case string:
		return String(t), nil
	case primitive.Binary:
		return Bytes(t.Data), nil
	case primitive.DateTime:
		return Time(t.Time()), nil
	case primitive.ObjectID:
		return String(t.Hex()), nil
	case primitive.Decimal128:
		return String(t.String()), nil
	case primitive.A:
		s := Sequence()
		for i, item := range t {
			v, err := c.fromGo(item, indexPath(path, i))
			if err != nil {
				return Value{}, err
			}
			s = s.Append(v)
		}
		return s, nil
	case bson.D:
		return c.fromDoc(t, path)
	default:
		return Value{}, newDecodeError(c.Name(), path, fmt.Sprintf("unsupported value of type %T", x), nil)
	}
}

func (c *bsonCodec) Encode(v Value) ([]byte, error) {
	if v.Kind() != KindMapping {
		return nil, newEncodeError(c.Name(), "", v.Kind(), "is not a mapping; BSON payloads are documents")
	}
	doc, err := c.toDoc(v, "")
	if err != nil {
		return nil, err
	}
	data, err := bson.Marshal(doc)
	if err != nil {
		return nil, newEncodeError(c.Name(), "", v.Kind(), "cannot be emitted: "+err.Error())
	}
	return data, nil
}

func (c *bsonCodec) toDoc(v Value, path string) (bson.D, error) {
	doc := make(bson.D, 0, v.Len())
	for _, k := range v.Keys() {
		val, _ := v.Get(k)
		gv, err := c.toGo(val, childPath(path, k))
		if err != nil {
			return nil, err
		}
		doc = append(doc, bson.E{Key: k, Value: gv})
	}
	return doc, nil
}

func (c *bsonCodec) toGo(v Value, path string) (interface{}, error) {
	switch v.Kind() {
	case KindNull:
		return primitive.Null{}, nil
	case KindBool:
		b, _ := v.AsBool()
		return b, nil
	case KindInt:
		i, _ := v.AsInt()
		return i, nil
	case KindUint:
		u, _ := v.AsUint()
		if u > math.MaxInt64 {
			return nil, newEncodeError(c.Name(), path, KindUint, "exceeds the BSON integer range")
		}
		return int64(u), nil
	case KindFloat:
		f, _ := v.AsFloat()
		return f, nil
	case KindString:
		s, _ := v.AsString()
		return s, nil
	case KindBytes:
		raw, _ := v.AsBytes()
		return primitive.Binary{Data: raw}, nil
	case KindTime:
		t, _ := v.AsTime()
		return primitive.NewDateTimeFromTime(t), nil
	case KindSequence:
		out := make(bson.A, 0, v.Len())
		for i, item := range v.Items() {
			gv, err := c.toGo(item, indexPath(path, i))
			if err != nil {
				return nil, err
			}
			out = append(out, gv)
		}
		return out, nil
	case KindMapping:
		return c.toDoc(v, path)
	default:
		return nil, newEncodeError(c.Name(), path, v.Kind(), "is not representable in BSON")
	}
}
