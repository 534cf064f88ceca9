package layout

import (
	"fmt"
	"slices"
	"strconv"
)

// rows is the shared state of Record and Tuple: equally long contents, one
// element per row each.
type rows struct {
	contents []Node
	length   int
}

func (r *rows) validateRows(path string, k Kind, names []string, c *collector) {
	if r.length < 0 {
		c.add(path, k, "length %d is negative", r.length)
	}
	for i, content := range r.contents {
		if content.Len() < r.length {
			c.add(path, k, "field %s has length %d < %d", fieldLabel(names, i), content.Len(), r.length)
		}
	}
	for i, content := range r.contents {
		content.validate(fmt.Sprintf("%s.field[%s]", path, fieldLabel(names, i)), c)
	}
}

func (r *rows) sliceRows(start, stop int) ([]Node, error) {
	contents := make([]Node, len(r.contents))
	for i, content := range r.contents {
		s, err := content.Slice(start, stop)
		if err != nil {
			return nil, err
		}
		contents[i] = s
	}
	return contents, nil
}

func (r *rows) cell(k, i int) (any, error) {
	content := r.contents[k]
	if i >= content.Len() {
		return nil, &BoundsError{Index: int64(i), Length: content.Len()}
	}
	return content.at(i)
}

// closeRow checks that every content received exactly one element.
func (r *rows) closeRow(names []string) error {
	for i, content := range r.contents {
		if filled := content.Len() - r.length; filled != 1 {
			return &FieldError{
				Field:  fieldLabel(names, i),
				Detail: fmt.Sprintf("%d elements pushed since the last row was closed, want 1", filled),
			}
		}
	}
	r.length++
	return nil
}

func (r *rows) pushDummyRow() error {
	for _, content := range r.contents {
		if err := content.pushDummy(); err != nil {
			return err
		}
	}
	r.length++
	return nil
}

func (r *rows) markRows() func() {
	length := r.length
	restores := make([]func(), len(r.contents))
	for i, content := range r.contents {
		restores[i] = content.mark()
	}
	return func() {
		r.length = length
		for _, restore := range restores {
			restore()
		}
	}
}

func (r *rows) emptyContents() []Node {
	contents := make([]Node, len(r.contents))
	for i, content := range r.contents {
		contents[i] = content.emptyLike()
	}
	return contents
}

// column returns content k restricted to the node's length.
func (r *rows) column(k int) (Node, error) {
	content := r.contents[k]
	if content.Len() == r.length {
		return content, nil
	}
	return content.Slice(0, r.length)
}

func fieldLabel(names []string, i int) string {
	if names == nil {
		return strconv.Itoa(i)
	}
	return names[i]
}

// Record is a struct-like view over named contents of at least Len()
// elements each.
type Record struct {
	meta
	rows
	fields []string
}

// NewRecord returns a Record with the given field names, contents and length.
// An empty builder is NewRecord(fields, emptyContents, 0).
func NewRecord(fields []string, contents []Node, length int, opts ...Option) *Record {
	return &Record{meta: newMeta(opts), rows: rows{contents: contents, length: length}, fields: fields}
}

func (n *Record) Kind() Kind { return KindRecord }

func (n *Record) Len() int { return n.length }

// Fields returns the field names in order.
func (n *Record) Fields() []string { return n.fields }

// Contents returns the field contents in order.
func (n *Record) Contents() []Node { return n.contents }

// FieldIndex returns the position of a field name.
func (n *Record) FieldIndex(name string) (int, error) {
	if i := slices.Index(n.fields, name); i >= 0 && i < len(n.contents) {
		return i, nil
	}
	return 0, &FieldError{Field: name, Detail: "no such field in record"}
}

// Content returns the content of a field by name, unrestricted by Len. It is
// the target for pushing field values before EndRecord.
func (n *Record) Content(name string) (Node, error) {
	i, err := n.FieldIndex(name)
	if err != nil {
		return nil, err
	}
	return n.contents[i], nil
}

func (n *Record) Get(i int) (any, error) { return get(n, i) }

func (n *Record) at(i int) (any, error) {
	return RecordView{rec: n, at: i}, nil
}

func (n *Record) Slice(start, stop int) (Node, error) {
	if err := checkRange(start, stop, n.Len()); err != nil {
		return nil, err
	}
	contents, err := n.sliceRows(start, stop)
	if err != nil {
		return nil, err
	}
	return &Record{meta: n.meta, rows: rows{contents: contents, length: stop - start}, fields: n.fields}, nil
}

func (n *Record) validate(path string, c *collector) {
	if len(n.fields) != len(n.contents) {
		c.add(path, KindRecord, "%d field names for %d contents", len(n.fields), len(n.contents))
		return
	}
	seen := make(map[string]struct{}, len(n.fields))
	for _, f := range n.fields {
		if _, dup := seen[f]; dup {
			c.add(path, KindRecord, "duplicate field %q", f)
		}
		seen[f] = struct{}{}
	}
	n.validateRows(path, KindRecord, n.fields, c)
}

func (n *Record) withParams(p Parameters) Node {
	c := *n
	c.params = p
	return &c
}

func (n *Record) accepts(v any) bool {
	switch v.(type) {
	case map[string]any, RecordView:
		return true
	}
	return false
}

func (n *Record) push(v any) error {
	switch x := v.(type) {
	case map[string]any:
		for key := range x {
			if !slices.Contains(n.fields, key) {
				return &FieldError{Field: key, Detail: "no such field in record"}
			}
		}
		for i, f := range n.fields {
			if err := n.contents[i].push(x[f]); err != nil {
				return fmt.Errorf("field %q: %w", f, err)
			}
		}
	case RecordView:
		if len(x.Fields()) != len(n.fields) {
			return &FieldError{Detail: fmt.Sprintf("row has %d fields, record has %d", len(x.Fields()), len(n.fields))}
		}
		for i, f := range n.fields {
			val, err := x.Field(f)
			if err != nil {
				return err
			}
			if err := n.contents[i].push(val); err != nil {
				return fmt.Errorf("field %q: %w", f, err)
			}
		}
	default:
		return pushError(v, KindRecord)
	}
	return n.closeRow(n.fields)
}

func (n *Record) pushDummy() error { return n.pushDummyRow() }

func (n *Record) end(k Kind) error {
	if k != KindRecord {
		return unsupported(endName(k), KindRecord)
	}
	return n.closeRow(n.fields)
}

func (n *Record) mark() func() { return n.markRows() }

func (n *Record) emptyLike() Node {
	return &Record{meta: n.meta, rows: rows{contents: n.emptyContents()}, fields: n.fields}
}

func (n *Record) project(sel FieldSelector) (Node, error) {
	var k int
	switch s := sel.(type) {
	case FieldName:
		i, err := n.FieldIndex(string(s))
		if err != nil {
			return nil, err
		}
		k = i
	case FieldIndex:
		if int(s) < 0 || int(s) >= len(n.contents) {
			return nil, &FieldError{Field: strconv.Itoa(int(s)), Detail: "field position out of range"}
		}
		k = int(s)
	default:
		return nil, &FieldError{Detail: "no field selector"}
	}
	return n.column(k)
}

// Tuple is a Record whose fields are numbered instead of named.
type Tuple struct {
	meta
	rows
}

// NewTuple returns a Tuple with the given contents and length.
func NewTuple(contents []Node, length int, opts ...Option) *Tuple {
	return &Tuple{meta: newMeta(opts), rows: rows{contents: contents, length: length}}
}

func (n *Tuple) Kind() Kind { return KindTuple }

func (n *Tuple) Len() int { return n.length }

// Contents returns the slot contents in order.
func (n *Tuple) Contents() []Node { return n.contents }

// Content returns slot i, unrestricted by Len. It is the target for pushing
// slot values before EndTuple. It panics if i is out of range.
func (n *Tuple) Content(i int) Node { return n.contents[i] }

func (n *Tuple) Get(i int) (any, error) { return get(n, i) }

func (n *Tuple) at(i int) (any, error) {
	return TupleView{tup: n, at: i}, nil
}

func (n *Tuple) Slice(start, stop int) (Node, error) {
	if err := checkRange(start, stop, n.Len()); err != nil {
		return nil, err
	}
	contents, err := n.sliceRows(start, stop)
	if err != nil {
		return nil, err
	}
	return &Tuple{meta: n.meta, rows: rows{contents: contents, length: stop - start}}, nil
}

func (n *Tuple) validate(path string, c *collector) {
	n.validateRows(path, KindTuple, nil, c)
}

func (n *Tuple) withParams(p Parameters) Node {
	c := *n
	c.params = p
	return &c
}

func (n *Tuple) accepts(v any) bool {
	switch x := v.(type) {
	case TupleView:
		return x.Len() == len(n.contents)
	case []any:
		return len(x) == len(n.contents)
	}
	return false
}

func (n *Tuple) push(v any) error {
	var slot func(int) (any, error)
	switch x := v.(type) {
	case TupleView:
		if x.Len() != len(n.contents) {
			return &FieldError{Detail: fmt.Sprintf("row has %d slots, tuple has %d", x.Len(), len(n.contents))}
		}
		slot = x.At
	case []any:
		if len(x) != len(n.contents) {
			return &FieldError{Detail: fmt.Sprintf("row has %d slots, tuple has %d", len(x), len(n.contents))}
		}
		slot = func(i int) (any, error) { return x[i], nil }
	default:
		return pushError(v, KindTuple)
	}
	for i, content := range n.contents {
		val, err := slot(i)
		if err != nil {
			return err
		}
		if err := content.push(val); err != nil {
			return fmt.Errorf("slot %d: %w", i, err)
		}
	}
	return n.closeRow(nil)
}

func (n *Tuple) pushDummy() error { return n.pushDummyRow() }

func (n *Tuple) end(k Kind) error {
	if k != KindTuple {
		return unsupported(endName(k), KindTuple)
	}
	return n.closeRow(nil)
}

func (n *Tuple) mark() func() { return n.markRows() }

func (n *Tuple) emptyLike() Node {
	return &Tuple{meta: n.meta, rows: rows{contents: n.emptyContents()}}
}

func (n *Tuple) project(sel FieldSelector) (Node, error) {
	var k int
	switch s := sel.(type) {
	case FieldName:
		i, err := strconv.Atoi(string(s))
		if err != nil {
			return nil, &FieldError{Field: string(s), Detail: "tuple slots are selected by position"}
		}
		k = i
	case FieldIndex:
		k = int(s)
	default:
		return nil, &FieldError{Detail: "no field selector"}
	}
	if k < 0 || k >= len(n.contents) {
		return nil, &FieldError{Field: strconv.Itoa(k), Detail: "slot position out of range"}
	}
	return n.column(k)
}
