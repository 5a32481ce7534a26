package codec

import (
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Codec translates between raw bytes and the dynamic form. Implementations
// return decode errors for malformed input and encode errors for values the
// encoding cannot represent; selection between codecs is purely name driven
// and never inspects payload bytes.
type Codec interface {
	Name() string
	Decode(data []byte) (Value, error)
	Encode(v Value) ([]byte, error)
}

var codecs = map[string]Codec{}

// canonical tracks registration order of canonical names for listings.
var canonical []string

func register(c Codec, aliases ...string) {
	codecs[c.Name()] = c
	canonical = append(canonical, c.Name())
	for _, a := range aliases {
		codecs[a] = c
	}
}

func init() {
	register(&jsonCodec{})
	register(&jsonCodec{pretty: true}, "hjson")
	register(&yamlCodec{}, "yml")
	register(&tomlCodec{})
	register(&iniCodec{}, "cfg", "service", "unit")
	register(&propertiesCodec{}, "props")
	register(&cborCodec{}, "cb")
	register(&msgpackCodec{}, "mp")
	register(&bsonCodec{}, "bs")
}

// Lookup returns the codec registered under name, which may be a canonical
// name, an alias, or a file extension.
func Lookup(name string) (Codec, bool) {
	c, ok := codecs[strings.ToLower(name)]
	return c, ok
}

// Names returns the canonical codec names in registration order.
func Names() []string {
	out := make([]string, len(canonical))
	copy(out, canonical)
	return out
}

// Aliases returns the aliases registered for the named codec, sorted.
func Aliases(name string) []string {
	var out []string
	for alias, c := range codecs {
		if c.Name() == name && alias != name {
			out = append(out, alias)
		}
	}
	sort.Strings(out)
	return out
}

// Decode promotes data into the dynamic form using the named codec.
func Decode(name string, data []byte) (Value, error) {
	c, ok := Lookup(name)
	if !ok {
		return Value{}, &unknownEncodingError{name: name}
	}
	return c.Decode(data)
}

// Encode renders v using the named codec.
func Encode(name string, v Value) ([]byte, error) {
	c, ok := Lookup(name)
	if !ok {
		return nil, &unknownEncodingError{name: name}
	}
	return c.Encode(v)
}

// checkText rejects input that is not valid UTF-8 before a text codec
// attempts to parse it.
func checkText(encoding string, data []byte) error {
	if !utf8.Valid(data) {
		return newDecodeError(encoding, "", "input is not valid UTF-8", nil)
	}
	return nil
}

// childPath extends a dotted value path with a mapping key.
func childPath(path, key string) string {
	if path == "" {
		return key
	}
	return path + "." + key
}

// indexPath extends a dotted value path with a sequence index.
func indexPath(path string, i int) string {
	return path + "[" + strconv.Itoa(i) + "]"
}
