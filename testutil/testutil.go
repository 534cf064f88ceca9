package testutil

import (
	"fmt"
	"math/rand"
	"sync"

	"github.com/hupe1980/jagged/buffer"
	"github.com/hupe1980/jagged/convert"
	"github.com/hupe1980/jagged/layout"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Int63 returns a non-negative pseudo-random int64.
func (r *RNG) Int63() int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Int63()
}

// Float64 returns a pseudo-random number in [0.0,1.0).
func (r *RNG) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Float64()
}

// Chance reports true with probability p.
func (r *RNG) Chance(p float64) bool {
	return r.Float64() < p
}

// SchemaKind enumerates the value shapes a Schema generates.
type SchemaKind int

const (
	SchemaInt SchemaKind = iota
	SchemaFloat
	SchemaBool
	SchemaString
	SchemaList
	SchemaRecord
)

// Schema describes a homogeneous family of generic values. Values of one
// schema always convert to the same layout type.
type Schema struct {
	Kind SchemaKind
	// Optional schemas generate nil with probability MissingRate.
	Optional    bool
	MissingRate float64
	// Elem is the element schema of SchemaList.
	Elem *Schema
	// Fields and Children describe SchemaRecord.
	Fields   []string
	Children []*Schema
}

func (s *Schema) String() string {
	var out string
	switch s.Kind {
	case SchemaInt:
		out = "int64"
	case SchemaFloat:
		out = "float64"
	case SchemaBool:
		out = "bool"
	case SchemaString:
		out = "string"
	case SchemaList:
		out = "var * " + s.Elem.String()
	case SchemaRecord:
		out = "{"
		for i, f := range s.Fields {
			if i > 0 {
				out += ", "
			}
			out += f + ": " + s.Children[i].String()
		}
		out += "}"
	}
	if s.Optional {
		out = "?" + out
	}
	return out
}

// Schema returns a random schema nested at most depth levels deep.
func (r *RNG) Schema(depth int) *Schema {
	s := &Schema{}
	if depth <= 0 {
		s.Kind = SchemaKind(r.Intn(int(SchemaString) + 1))
	} else {
		s.Kind = SchemaKind(r.Intn(int(SchemaRecord) + 1))
	}
	switch s.Kind {
	case SchemaList:
		s.Elem = r.Schema(depth - 1)
	case SchemaRecord:
		n := 1 + r.Intn(3)
		for i := range n {
			s.Fields = append(s.Fields, fmt.Sprintf("f%d", i))
			s.Children = append(s.Children, r.Schema(depth-1))
		}
	}
	if r.Chance(0.4) {
		s.Optional = true
		s.MissingRate = 0.1 + 0.4*r.Float64()
	}
	return s
}

// Value returns one random value of s: int64, float64, bool, string,
// []any, map[string]any or nil for a missing element.
func (r *RNG) Value(s *Schema) any {
	if s.Optional && r.Chance(s.MissingRate) {
		return nil
	}
	switch s.Kind {
	case SchemaInt:
		return r.Int63()%2001 - 1000
	case SchemaFloat:
		return float64(r.Intn(1<<20)) / 64
	case SchemaBool:
		return r.Chance(0.5)
	case SchemaString:
		b := make([]byte, r.Intn(8))
		for i := range b {
			b[i] = byte('a' + r.Intn(26))
		}
		return string(b)
	case SchemaList:
		out := make([]any, r.Intn(5))
		for i := range out {
			out[i] = r.Value(s.Elem)
		}
		return out
	case SchemaRecord:
		out := make(map[string]any, len(s.Fields))
		for i, f := range s.Fields {
			out[f] = r.Value(s.Children[i])
		}
		return out
	}
	return nil
}

// Values returns n random values of s.
func (r *RNG) Values(s *Schema, n int) []any {
	out := make([]any, n)
	for i := range out {
		out[i] = r.Value(s)
	}
	return out
}

// Node converts n random values of s with convert.FromSlice and returns the
// node together with the values it was built from.
func (r *RNG) Node(s *Schema, n int, opts ...convert.Option) (layout.Node, []any, error) {
	values := r.Values(s, n)
	node, err := convert.FromSlice(values, opts...)
	if err != nil {
		return nil, nil, fmt.Errorf("testutil: schema %s: %w", s, err)
	}
	return node, values, nil
}

// Walk calls visit for n and every node below it, parents first.
func Walk(n layout.Node, visit func(layout.Node)) {
	visit(n)
	for _, c := range Children(n) {
		Walk(c, visit)
	}
}

// Children returns the direct children of n.
func Children(n layout.Node) []layout.Node {
	switch x := n.(type) {
	case *layout.ListOffset:
		return []layout.Node{x.Content()}
	case *layout.List:
		return []layout.Node{x.Content()}
	case *layout.Regular:
		return []layout.Node{x.Content()}
	case *layout.Indexed:
		return []layout.Node{x.Content()}
	case *layout.IndexedOption:
		return []layout.Node{x.Content()}
	case *layout.ByteMasked:
		return []layout.Node{x.Content()}
	case *layout.BitMasked:
		return []layout.Node{x.Content()}
	case *layout.Unmasked:
		return []layout.Node{x.Content()}
	case *layout.Record:
		return x.Contents()
	case *layout.Tuple:
		return x.Contents()
	case *layout.Union:
		return x.Contents()
	}
	return nil
}

// AsList rewrites a ListOffset as an equivalent List with separate starts
// and stops over the same content.
func AsList(lo *layout.ListOffset) *layout.List {
	n := lo.Len()
	starts := make([]int64, n)
	stops := make([]int64, n)
	offsets := lo.Offsets()
	for i := range n {
		starts[i] = offsets.At(i)
		stops[i] = offsets.At(i + 1)
	}
	return layout.NewList(
		buffer.NewIndex(starts),
		buffer.NewIndex(stops),
		lo.Content(),
		layout.WithParameters(lo.Parameters()),
	)
}
