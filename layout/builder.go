package layout

import (
	"fmt"
	"iter"
	"reflect"
)

// Push appends one logical element to n, growing its buffers as needed.
//
// Lists accept slices, arrays, Nodes and, when their content is uint8, strings
// and []byte. Records accept map[string]any and RecordView; tuples accept
// []any of matching arity and TupleView. A nil value appends a missing element
// to option variants.
func Push(n Node, v any) error {
	return atomically(n, func() error { return n.push(v) })
}

// Extend pushes every value of values. Either all values are appended or none.
func Extend(n Node, values iter.Seq[any]) error {
	return atomically(n, func() error {
		for v := range values {
			if err := n.push(v); err != nil {
				return err
			}
		}
		return nil
	})
}

// PushNull appends a missing element. Only IndexedOption, ByteMasked and
// BitMasked (or wrappers around them) accept it.
func PushNull(n Node) error {
	return Push(n, nil)
}

// PushDummy appends a valid placeholder element whose value is unspecified.
func PushDummy(n Node) error {
	return atomically(n, n.pushDummy)
}

// EndList closes the open list of a list variant. Elements pushed into the
// list's content since the previous close form the new list.
func EndList(n Node) error {
	return atomically(n, func() error { return n.end(KindList) })
}

// EndRecord closes the open row of a Record once every field received exactly
// one element.
func EndRecord(n Node) error {
	return atomically(n, func() error { return n.end(KindRecord) })
}

// EndTuple closes the open row of a Tuple once every slot received exactly
// one element.
func EndTuple(n Node) error {
	return atomically(n, func() error { return n.end(KindTuple) })
}

func atomically(n Node, f func() error) error {
	restore := n.mark()
	if err := f(); err != nil {
		restore()
		return err
	}
	return nil
}

func endName(k Kind) string {
	switch k {
	case KindRecord:
		return "end_record"
	case KindTuple:
		return "end_tuple"
	}
	return "end_list"
}

func pushError(v any, k Kind) error {
	if v == nil {
		return unsupported("push_null", k)
	}
	return unsupported(fmt.Sprintf("push of %T", v), k)
}

// listElements returns the elements of a list-shaped value.
func listElements(v any) (iter.Seq[any], bool) {
	switch x := v.(type) {
	case nil:
		return nil, false
	case Node:
		return func(yield func(any) bool) {
			for i := range x.Len() {
				e, err := x.at(i)
				if err != nil {
					// Surface the broken element so the push fails.
					e = brokenElement{err}
				}
				if !yield(e) {
					return
				}
			}
		}, true
	case string:
		return bytesSeq([]byte(x)), true
	case []byte:
		return bytesSeq(x), true
	case []any:
		return func(yield func(any) bool) {
			for _, e := range x {
				if !yield(e) {
					return
				}
			}
		}, true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		return func(yield func(any) bool) {
			for i := range rv.Len() {
				if !yield(rv.Index(i).Interface()) {
					return
				}
			}
		}, true
	}
	return nil, false
}

func bytesSeq(b []byte) iter.Seq[any] {
	return func(yield func(any) bool) {
		for _, c := range b {
			if !yield(c) {
				return
			}
		}
	}
}

// brokenElement carries a read error through a push.
type brokenElement struct{ err error }

func pushAll(n Node, values iter.Seq[any]) error {
	for v := range values {
		if b, ok := v.(brokenElement); ok {
			return b.err
		}
		if err := n.push(v); err != nil {
			return err
		}
	}
	return nil
}

// isStringish reports whether v is a string or []byte.
func isStringish(v any) bool {
	switch v.(type) {
	case string, []byte:
		return true
	}
	return false
}

// acceptsList reports whether v can be pushed as one list into content.
func acceptsList(content Node, v any) bool {
	if isStringish(v) {
		_, ok := content.(*Primitive[uint8])
		return ok
	}
	_, ok := listElements(v)
	return ok
}

// admits reports whether a text value matches a list behavior: a string list
// does not select []byte values and a bytestring list does not select
// strings. Push itself accepts both.
func (b Behavior) admits(v any) bool {
	switch v.(type) {
	case string:
		return b != BehaviorBytestring
	case []byte:
		return b != BehaviorString
	}
	return true
}
