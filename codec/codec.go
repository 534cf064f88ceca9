// Package codec centralizes the encoding of schema descriptors and generic
// JSON input.
//
// Containers record the codec name next to the descriptor, so a codec change
// never silently reinterprets persisted bytes.
package codec

import "fmt"

// Codec encodes/decodes values.
// Implementations must be safe for concurrent use.
type Codec interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
	Name() string
}

// NumberDecoder is implemented by codecs that can decode JSON numbers as
// json.Number, so integers keep their exact value.
type NumberDecoder interface {
	UnmarshalNumbers(data []byte, v any) error
}

// ByName returns a built-in codec by its stable name.
//
// This is used by containers, which store the codec name in their header.
func ByName(name string) (Codec, bool) {
	switch name {
	case "json":
		return JSON{}, true
	case "go-json":
		return GoJSON{}, true
	default:
		return nil, false
	}
}

// MustMarshal is a helper for internal tests/benchmarks.
func MustMarshal(c Codec, v any) []byte {
	if c == nil {
		c = Default
	}
	b, err := c.Marshal(v)
	if err != nil {
		panic(fmt.Errorf("codec %s marshal failed: %w", c.Name(), err))
	}
	return b
}
