package form

import (
	"encoding/json"
	"fmt"

	"github.com/hupe1980/jagged/buffer"
	"github.com/hupe1980/jagged/codec"
	"github.com/hupe1980/jagged/layout"
)

// Class names a node variant in a descriptor.
type Class string

const (
	ClassNumpy         Class = "NumpyArray"
	ClassEmpty         Class = "EmptyArray"
	ClassListOffset    Class = "ListOffsetArray"
	ClassList          Class = "ListArray"
	ClassRegular       Class = "RegularArray"
	ClassRecord        Class = "RecordArray"
	ClassIndexed       Class = "IndexedArray"
	ClassIndexedOption Class = "IndexedOptionArray"
	ClassByteMasked    Class = "ByteMaskedArray"
	ClassBitMasked     Class = "BitMaskedArray"
	ClassUnmasked      Class = "UnmaskedArray"
	ClassUnion         Class = "UnionArray"
)

// Buffer roles.
const (
	RoleData    = "data"
	RoleOffsets = "offsets"
	RoleStarts  = "starts"
	RoleStops   = "stops"
	RoleIndex   = "index"
	RoleTags    = "tags"
	RoleMask    = "mask"
)

// Buffers maps buffer keys to little-endian bytes.
type Buffers map[string][]byte

// Key returns the buffer key for a form key and role.
func Key(formKey, role string) string {
	return formKey + "-" + role
}

// Form describes one node of a layout tree.
type Form struct {
	Class Class
	// Primitive is the dtype of a NumpyArray.
	Primitive buffer.DType
	// Index is the width of offsets, starts/stops or index buffers.
	Index buffer.IndexKind
	// Size is the list size of a RegularArray.
	Size int
	// ValidWhen is the mask polarity of masked arrays.
	ValidWhen bool
	// LSBOrder is the bit order of a BitMaskedArray.
	LSBOrder bool
	// Fields names the contents of a record; it is nil for tuples.
	Fields     []string
	Content    *Form
	Contents   []*Form
	Parameters layout.Parameters
	FormKey    string
}

// IsTuple reports whether f is a RecordArray without field names.
func (f *Form) IsTuple() bool {
	return f.Class == ClassRecord && f.Fields == nil
}

// Keys returns every buffer key f references, in preorder.
func (f *Form) Keys() []string {
	var keys []string
	f.walk(func(g *Form) {
		for _, role := range g.roles() {
			keys = append(keys, Key(g.FormKey, role))
		}
	})
	return keys
}

func (f *Form) walk(visit func(*Form)) {
	visit(f)
	if f.Content != nil {
		f.Content.walk(visit)
	}
	for _, c := range f.Contents {
		c.walk(visit)
	}
}

func (f *Form) roles() []string {
	switch f.Class {
	case ClassNumpy:
		return []string{RoleData}
	case ClassListOffset:
		return []string{RoleOffsets}
	case ClassList:
		return []string{RoleStarts, RoleStops}
	case ClassIndexed, ClassIndexedOption:
		return []string{RoleIndex}
	case ClassByteMasked, ClassBitMasked:
		return []string{RoleMask}
	case ClassUnion:
		return []string{RoleTags, RoleIndex}
	}
	return nil
}

// wireForm is the JSON shape of a Form.
type wireForm struct {
	Class      string          `json:"class"`
	Primitive  string          `json:"primitive,omitempty"`
	Offsets    string          `json:"offsets,omitempty"`
	Starts     string          `json:"starts,omitempty"`
	Stops      string          `json:"stops,omitempty"`
	Index      string          `json:"index,omitempty"`
	Tags       string          `json:"tags,omitempty"`
	Mask       string          `json:"mask,omitempty"`
	Size       *int            `json:"size,omitempty"`
	ValidWhen  *bool           `json:"valid_when,omitempty"`
	LSBOrder   *bool           `json:"lsb_order,omitempty"`
	Fields     json.RawMessage `json:"fields,omitempty"`
	Content    *wireForm       `json:"content,omitempty"`
	Contents   []*wireForm     `json:"contents,omitempty"`
	Parameters map[string]any  `json:"parameters,omitempty"`
	FormKey    string          `json:"form_key,omitempty"`
}

var nullFields = json.RawMessage("null")

// Marshal encodes f as JSON with c, or codec.Default when c is nil.
func Marshal(f *Form, c codec.Codec) ([]byte, error) {
	if c == nil {
		c = codec.Default
	}
	w, err := toWire(f, c)
	if err != nil {
		return nil, err
	}
	return c.Marshal(w)
}

// Unmarshal decodes a JSON descriptor with c, or codec.Default when c is nil.
func Unmarshal(data []byte, c codec.Codec) (*Form, error) {
	if c == nil {
		c = codec.Default
	}
	var w wireForm
	if err := c.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidForm, err)
	}
	return fromWire(&w, c, "root")
}

func toWire(f *Form, c codec.Codec) (*wireForm, error) {
	w := &wireForm{Class: string(f.Class), Parameters: f.Parameters, FormKey: f.FormKey}
	index := string(f.Index)
	switch f.Class {
	case ClassNumpy:
		w.Primitive = f.Primitive.String()
	case ClassListOffset:
		w.Offsets = index
	case ClassList:
		w.Starts, w.Stops = index, index
	case ClassRegular:
		size := f.Size
		w.Size = &size
	case ClassRecord:
		if f.Fields == nil {
			w.Fields = nullFields
		} else {
			raw, err := c.Marshal(f.Fields)
			if err != nil {
				return nil, err
			}
			w.Fields = raw
		}
	case ClassIndexed, ClassIndexedOption:
		w.Index = index
	case ClassByteMasked:
		w.Mask = string(buffer.I8)
		validWhen := f.ValidWhen
		w.ValidWhen = &validWhen
	case ClassBitMasked:
		w.Mask = string(buffer.U8)
		validWhen, lsb := f.ValidWhen, f.LSBOrder
		w.ValidWhen, w.LSBOrder = &validWhen, &lsb
	case ClassUnion:
		w.Tags = string(buffer.I8)
		w.Index = index
	}
	if f.Content != nil {
		inner, err := toWire(f.Content, c)
		if err != nil {
			return nil, err
		}
		w.Content = inner
	}
	for _, sub := range f.Contents {
		inner, err := toWire(sub, c)
		if err != nil {
			return nil, err
		}
		w.Contents = append(w.Contents, inner)
	}
	return w, nil
}

func fromWire(w *wireForm, c codec.Codec, path string) (*Form, error) {
	f := &Form{Class: Class(w.Class), Parameters: w.Parameters, FormKey: w.FormKey}
	var err error
	parseIndex := func(s string) {
		if err == nil {
			f.Index, err = buffer.ParseIndexKind(s)
		}
	}
	switch f.Class {
	case ClassNumpy:
		f.Primitive, err = buffer.ParseDType(w.Primitive)
	case ClassEmpty, ClassUnmasked:
	case ClassListOffset:
		parseIndex(w.Offsets)
	case ClassList:
		parseIndex(w.Starts)
		if err == nil && w.Stops != w.Starts {
			err = fmt.Errorf("starts %q and stops %q differ", w.Starts, w.Stops)
		}
	case ClassRegular:
		if w.Size == nil || *w.Size < 0 {
			return nil, invalid(path, "regular array needs a non-negative size")
		}
		f.Size = *w.Size
	case ClassRecord:
		if len(w.Fields) > 0 && string(w.Fields) != "null" {
			f.Fields = []string{}
			err = c.Unmarshal(w.Fields, &f.Fields)
		}
	case ClassIndexed, ClassIndexedOption, ClassUnion:
		parseIndex(w.Index)
	case ClassByteMasked, ClassBitMasked:
		f.ValidWhen = w.ValidWhen == nil || *w.ValidWhen
		f.LSBOrder = w.LSBOrder != nil && *w.LSBOrder
	default:
		return nil, invalid(path, "unknown class %q", w.Class)
	}
	if err != nil {
		return nil, invalid(path, "%v", err)
	}
	if w.Content != nil {
		if f.Content, err = fromWire(w.Content, c, path+".content"); err != nil {
			return nil, err
		}
	}
	for i, sub := range w.Contents {
		inner, err := fromWire(sub, c, fmt.Sprintf("%s.contents[%d]", path, i))
		if err != nil {
			return nil, err
		}
		f.Contents = append(f.Contents, inner)
	}
	if err := f.check(path); err != nil {
		return nil, err
	}
	return f, nil
}

// check verifies the arity of f's children.
func (f *Form) check(path string) error {
	wantContent := false
	switch f.Class {
	case ClassListOffset, ClassList, ClassRegular, ClassIndexed, ClassIndexedOption,
		ClassByteMasked, ClassBitMasked, ClassUnmasked:
		wantContent = true
	case ClassRecord:
		if f.Fields != nil && len(f.Fields) != len(f.Contents) {
			return invalid(path, "%d fields for %d contents", len(f.Fields), len(f.Contents))
		}
	case ClassUnion:
		if len(f.Contents) == 0 {
			return invalid(path, "union without contents")
		}
	}
	if wantContent && f.Content == nil {
		return invalid(path, "%s needs a content", f.Class)
	}
	if f.Class == ClassIndexedOption && !f.Index.Signed() {
		return invalid(path, "indexed option index %q must be signed", f.Index)
	}
	return nil
}
