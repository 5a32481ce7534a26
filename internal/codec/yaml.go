package codec

import (
	"bytes"
	"encoding/base64"
	"math"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// yamlCodec reads and writes YAML through the yaml.v3 node tree so mapping
// order and scalar tags survive the trip through the dynamic form.
type yamlCodec struct{}

func (c *yamlCodec) Name() string { return "yaml" }

// yamlTimeFormats are the timestamp layouts accepted for !!timestamp
// scalars, most specific first.
var yamlTimeFormats = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func (c *yamlCodec) Decode(data []byte) (Value, error) {
	if err := checkText(c.Name(), data); err != nil {
		return Value{}, err
	}

	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return Value{}, newDecodeError(c.Name(), "", "", err)
	}
	if root.Kind == 0 {
		return Null(), nil
	}
	if root.Kind == yaml.DocumentNode {
		if len(root.Content) == 0 {
			return Null(), nil
		}
		return c.decodeNode(root.Content[0], "")
	}
	return c.decodeNode(&root, "")
}

func (c *yamlCodec) decodeNode(n *yaml.Node, path string) (Value, error) {
	switch n.Kind {
	case yaml.AliasNode:
		return c.decodeNode(n.Alias, path)
	case yaml.ScalarNode:
		return c.decodeScalar(n, path)
	case yaml.SequenceNode:
		s := Sequence()
		for i, item := range n.Content {
			v, err := c.decodeNode(item, indexPath(path, i))
			if err != nil {
				return Value{}, err
			}
			s = s.Append(v)
		}
		return s, nil
	case yaml.MappingNode:
		m := Mapping()
		for i := 0; i+1 < len(n.Content); i += 2 {
			key, err := c.decodeKey(n.Content[i], path)
			if err != nil {
				return Value{}, err
			}
			v, err := c.decodeNode(n.Content[i+1], childPath(path, key))
			if err != nil {
				return Value{}, err
			}
			m = m.Put(key, v)
		}
		return m, nil
	default:
		return Value{}, newDecodeError(c.Name(), path, "unsupported node kind", nil)
	}
}

func (c *yamlCodec) decodeKey(n *yaml.Node, path string) (string, error) {
	if n.Kind == yaml.AliasNode {
		return c.decodeKey(n.Alias, path)
	}
	if n.Kind != yaml.ScalarNode {
		return "", newDecodeError(c.Name(), path, "mapping key is not a scalar", nil)
	}
	if n.Tag == "!!merge" {
		// Merge keys stay literal; the aliased mapping is kept as the value.
		return "<<", nil
	}
	v, err := c.decodeScalar(n, path)
	if err != nil {
		return "", err
	}
	text, ok := v.Text()
	if !ok {
		return "", newDecodeError(c.Name(), path, "mapping key has no text form", nil)
	}
	return text, nil
}

func (c *yamlCodec) decodeScalar(n *yaml.Node, path string) (Value, error) {
	switch n.Tag {
	case "!!null", "":
		return Null(), nil
	case "!!bool":
		b, err := strconv.ParseBool(strings.ToLower(n.Value))
		if err != nil {
			return Value{}, newDecodeError(c.Name(), path, "invalid boolean "+strconv.Quote(n.Value), nil)
		}
		return Bool(b), nil
	case "!!int":
		if i, err := strconv.ParseInt(n.Value, 0, 64); err == nil {
			return Int(i), nil
		}
		if u, err := strconv.ParseUint(n.Value, 0, 64); err == nil {
			return Uint(u), nil
		}
		return Value{}, newDecodeError(c.Name(), path, "invalid integer "+strconv.Quote(n.Value), nil)
	case "!!float":
		return c.decodeFloat(n.Value, path)
	case "!!str":
		return String(n.Value), nil
	case "!!timestamp":
		for _, layout := range yamlTimeFormats {
			if t, err := time.Parse(layout, n.Value); err == nil {
				return Time(t), nil
			}
		}
		return String(n.Value), nil
	case "!!binary":
		cleaned := strings.Map(dropSpace, n.Value)
		raw, err := base64.StdEncoding.DecodeString(cleaned)
		if err != nil {
			return Value{}, newDecodeError(c.Name(), path, "invalid base64 payload", err)
		}
		return Bytes(raw), nil
	default:
		return Value{}, newDecodeError(c.Name(), path, "unsupported tag "+n.Tag, nil)
	}
}

func (c *yamlCodec) decodeFloat(s, path string) (Value, error) {
	switch strings.ToLower(s) {
	case ".nan":
		return Float(math.NaN()), nil
	case ".inf", "+.inf":
		return Float(math.Inf(1)), nil
	case "-.inf":
		return Float(math.Inf(-1)), nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return Value{}, newDecodeError(c.Name(), path, "invalid float "+strconv.Quote(s), nil)
	}
	return Float(f), nil
}

func (c *yamlCodec) Encode(v Value) ([]byte, error) {
	node, err := c.encodeNode(v, "")
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(node); err != nil {
		return nil, newEncodeError(c.Name(), "", v.Kind(), "cannot be emitted: "+err.Error())
	}
	if err := enc.Close(); err != nil {
		return nil, newEncodeError(c.Name(), "", v.Kind(), "cannot be emitted: "+err.Error())
	}
	return buf.Bytes(), nil
}

func (c *yamlCodec) encodeNode(v Value, path string) (*yaml.Node, error) {
	switch v.Kind() {
	case KindNull:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}, nil
	case KindBool:
		b, _ := v.AsBool()
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: strconv.FormatBool(b)}, nil
	case KindInt:
		i, _ := v.AsInt()
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.FormatInt(i, 10)}, nil
	case KindUint:
		u, _ := v.AsUint()
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.FormatUint(u, 10)}, nil
	case KindFloat:
		f, _ := v.AsFloat()
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!float", Value: yamlFloat(f)}, nil
	case KindString:
		s, _ := v.AsString()
		n := &yaml.Node{}
		n.SetString(s)
		return n, nil
	case KindBytes:
		raw, _ := v.AsBytes()
		return &yaml.Node{
			Kind:  yaml.ScalarNode,
			Tag:   "!!binary",
			Value: base64.StdEncoding.EncodeToString(raw),
		}, nil
	case KindTime:
		t, _ := v.AsTime()
		return &yaml.Node{
			Kind:  yaml.ScalarNode,
			Tag:   "!!timestamp",
			Value: t.Format(time.RFC3339Nano),
		}, nil
	case KindSequence:
		n := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for i, item := range v.Items() {
			child, err := c.encodeNode(item, indexPath(path, i))
			if err != nil {
				return nil, err
			}
			n.Content = append(n.Content, child)
		}
		return n, nil
	case KindMapping:
		n := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for _, k := range v.Keys() {
			key := &yaml.Node{}
			key.SetString(k)
			val, _ := v.Get(k)
			child, err := c.encodeNode(val, childPath(path, k))
			if err != nil {
				return nil, err
			}
			n.Content = append(n.Content, key, child)
		}
		return n, nil
	default:
		return nil, newEncodeError(c.Name(), path, v.Kind(), "is not representable in YAML")
	}
}

func yamlFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return ".nan"
	case math.IsInf(f, 1):
		return ".inf"
	case math.IsInf(f, -1):
		return "-.inf"
	default:
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
}

func dropSpace(r rune) rune {
	switch r {
	case ' ', '\t', '\n', '\r':
		return -1
	}
	return r
}
