package convert

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"slices"
	"sort"
	"time"

	"github.com/hupe1980/jagged/buffer"
	"github.com/hupe1980/jagged/layout"
)

// family groups the values that share one node type.
type family uint8

const (
	familyBool family = iota
	familyNumber
	familyTime
	familyDuration
	familyList
	familyRecord
	familyString
	familyBytes
)

// stringish families hold lists of uint8. They are placed after the other
// union specializations so that lists of small integers are not read as text.
func (f family) stringish() bool {
	return f == familyString || f == familyBytes
}

// shape is the inferred type of a column of values.
type shape struct {
	nullable bool
	alts     []*alt
}

// alt is one family observed in a column.
type alt struct {
	family family
	float  bool

	// number: negative is set by any signed value below zero, wide by any
	// unsigned value above math.MaxInt64.
	negative bool
	wide     bool

	// list
	size    int
	content *shape

	// record
	fields []string
	byName map[string]*shape
	seen   map[string]int
	rows   int
}

func (s *shape) observe(v any) error {
	if v == nil {
		s.nullable = true
		return nil
	}
	f, err := familyOf(v)
	if err != nil {
		return err
	}
	var a *alt
	for _, x := range s.alts {
		if x.family == f {
			a = x
			break
		}
	}
	if a == nil {
		a = &alt{family: f, size: -2}
		s.alts = append(s.alts, a)
	}
	return a.observe(v)
}

func (a *alt) observe(v any) error {
	switch a.family {
	case familyNumber:
		rv := reflect.ValueOf(v)
		switch rv.Kind() {
		case reflect.Float32, reflect.Float64:
			a.float = true
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			if rv.Int() < 0 {
				a.negative = true
			}
		default:
			if rv.Uint() > math.MaxInt64 {
				a.wide = true
			}
		}
	case familyList:
		rv := reflect.ValueOf(v)
		size := -1
		if rv.Kind() == reflect.Array {
			size = rv.Len()
		}
		switch {
		case a.size == -2:
			a.size = size
		case a.size != size:
			a.size = -1
		}
		if a.content == nil {
			a.content = &shape{}
		}
		for i := range rv.Len() {
			if err := a.content.observe(rv.Index(i).Interface()); err != nil {
				return err
			}
		}
	case familyRecord:
		m := v.(map[string]any)
		if a.byName == nil {
			a.byName = make(map[string]*shape)
			a.seen = make(map[string]int)
		}
		a.rows++
		keys := make([]string, 0, len(m))
		for k := range m {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fs, ok := a.byName[k]
			if !ok {
				fs = &shape{}
				a.byName[k] = fs
				a.fields = append(a.fields, k)
			}
			a.seen[k]++
			if err := fs.observe(m[k]); err != nil {
				return fmt.Errorf("field %q: %w", k, err)
			}
		}
	}
	return nil
}

// node returns an empty builder node for s.
func (s *shape) node(o options) layout.Node {
	var n layout.Node
	switch len(s.alts) {
	case 0:
		n = layout.NewEmpty()
	case 1:
		n = s.alts[0].node(o)
	default:
		alts := slices.Clone(s.alts)
		slices.SortStableFunc(alts, func(x, y *alt) int {
			switch {
			case !x.family.stringish() && y.family.stringish():
				return -1
			case x.family.stringish() && !y.family.stringish():
				return 1
			}
			return 0
		})
		contents := make([]layout.Node, len(alts))
		for i, a := range alts {
			contents[i] = a.node(o)
		}
		n = layout.NewUnion(nil, nil, contents)
	}
	if s.nullable {
		n = o.wrap(n)
	}
	return n
}

func (a *alt) node(o options) layout.Node {
	switch a.family {
	case familyBool:
		return layout.NewPrimitive[bool](nil)
	case familyNumber:
		if a.float {
			return layout.NewPrimitive[float64](nil)
		}
		if a.wide && !a.negative {
			return layout.NewPrimitive[uint64](nil)
		}
		return layout.NewPrimitive[int64](nil)
	case familyTime:
		return layout.NewPrimitive[buffer.Datetime](nil)
	case familyDuration:
		return layout.NewPrimitive[time.Duration](nil)
	case familyString:
		return layout.NewListOffset(nil,
			layout.NewPrimitive[uint8](nil, layout.WithBehavior(layout.BehaviorChar)),
			layout.WithBehavior(layout.BehaviorString))
	case familyBytes:
		return layout.NewListOffset(nil,
			layout.NewPrimitive[uint8](nil, layout.WithBehavior(layout.BehaviorByte)),
			layout.WithBehavior(layout.BehaviorBytestring))
	case familyList:
		content := a.content.node(o)
		if a.size >= 0 {
			return layout.NewRegular(content, a.size, 0)
		}
		return layout.NewListOffset(nil, content)
	default:
		contents := make([]layout.Node, len(a.fields))
		for i, name := range a.fields {
			fs := *a.byName[name]
			if a.seen[name] < a.rows {
				fs.nullable = true
			}
			contents[i] = fs.node(o)
		}
		return layout.NewRecord(a.fields, contents, 0)
	}
}

var (
	typeTime     = reflect.TypeFor[time.Time]()
	typeDatetime = reflect.TypeFor[buffer.Datetime]()
	typeDuration = reflect.TypeFor[time.Duration]()
)

// familyOf classifies a normalized, non-nil value.
func familyOf(v any) (family, error) {
	switch v.(type) {
	case bool:
		return familyBool, nil
	case string:
		return familyString, nil
	case []byte:
		return familyBytes, nil
	case map[string]any:
		return familyRecord, nil
	}
	rv := reflect.ValueOf(v)
	switch rv.Type() {
	case typeTime, typeDatetime:
		return familyTime, nil
	case typeDuration:
		return familyDuration, nil
	}
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return familyNumber, nil
	case reflect.Slice, reflect.Array:
		return familyList, nil
	}
	return 0, unsupported(v)
}

func unsupported(v any) error {
	return fmt.Errorf("%w: cannot convert value of type %T", layout.ErrUnsupported, v)
}

var typeAny = reflect.TypeFor[any]()

// normalize rewrites v into the plain forms the builders accept: json.Number
// becomes int64 or float64, views and nodes become maps and slices, and maps
// with string keys become map[string]any. Arrays stay arrays so that their
// length is known.
func normalize(v any) (any, error) {
	switch x := v.(type) {
	case nil, bool, string, []byte, time.Time, buffer.Datetime, time.Duration:
		return v, nil
	case json.Number:
		if i, err := x.Int64(); err == nil {
			return i, nil
		}
		f, err := x.Float64()
		if err != nil {
			return nil, fmt.Errorf("%w: number %q", layout.ErrUnsupported, x.String())
		}
		return f, nil
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, e := range x {
			ne, err := normalize(e)
			if err != nil {
				return nil, err
			}
			out[k] = ne
		}
		return out, nil
	case []any:
		return normalizeSlice(len(x), func(i int) any { return x[i] })
	case layout.RecordView:
		m, err := x.Map()
		if err != nil {
			return nil, err
		}
		return normalize(m)
	case layout.TupleView:
		out := make([]any, x.Len())
		for i := range out {
			e, err := x.At(i)
			if err != nil {
				return nil, err
			}
			if out[i], err = normalize(e); err != nil {
				return nil, err
			}
		}
		return out, nil
	case layout.Node:
		out := make([]any, 0, x.Len())
		for e, err := range layout.Values(x) {
			if err != nil {
				return nil, err
			}
			ne, err := normalize(e)
			if err != nil {
				return nil, err
			}
			out = append(out, ne)
		}
		return out, nil
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Bool:
		return rv.Bool(), nil
	case reflect.String:
		return rv.String(), nil
	case reflect.Pointer:
		if rv.IsNil() {
			return nil, nil
		}
		return normalize(rv.Elem().Interface())
	case reflect.Slice:
		if rv.IsNil() {
			return nil, nil
		}
		return normalizeSlice(rv.Len(), func(i int) any { return rv.Index(i).Interface() })
	case reflect.Array:
		out := reflect.New(reflect.ArrayOf(rv.Len(), typeAny)).Elem()
		for i := range rv.Len() {
			e, err := normalize(rv.Index(i).Interface())
			if err != nil {
				return nil, err
			}
			if e != nil {
				out.Index(i).Set(reflect.ValueOf(e))
			}
		}
		return out.Interface(), nil
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil, unsupported(v)
		}
		out := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			e, err := normalize(iter.Value().Interface())
			if err != nil {
				return nil, err
			}
			out[iter.Key().String()] = e
		}
		return out, nil
	}
	if _, err := familyOf(v); err != nil {
		return nil, err
	}
	return v, nil
}

func normalizeSlice(n int, at func(int) any) (any, error) {
	out := make([]any, n)
	for i := range out {
		e, err := normalize(at(i))
		if err != nil {
			return nil, err
		}
		out[i] = e
	}
	return out, nil
}
