package form

import (
	"fmt"

	"github.com/hupe1980/jagged/buffer"
	"github.com/hupe1980/jagged/layout"
)

// Of describes n without exporting its buffers.
func Of(n layout.Node, opts ...Option) (*Form, error) {
	w := walker{opts: newOptions(opts)}
	return w.walk(n)
}

// ToBuffers validates n and returns its descriptor, length and buffers. The
// buffers alias the node's storage on little-endian hosts; nothing is copied.
func ToBuffers(n layout.Node, opts ...Option) (*Form, int, Buffers, error) {
	if err := layout.Check(n); err != nil {
		return nil, 0, nil, err
	}
	w := walker{opts: newOptions(opts), buffers: make(Buffers)}
	f, err := w.walk(n)
	if err != nil {
		return nil, 0, nil, err
	}
	return f, n.Len(), w.buffers, nil
}

type walker struct {
	opts    options
	next    int
	buffers Buffers
}

func (w *walker) key() string {
	k := fmt.Sprintf(w.opts.keyFormat, w.next)
	w.next++
	return k
}

func (w *walker) put(key, role string, b []byte) {
	if w.buffers != nil {
		w.buffers[Key(key, role)] = b
	}
}

func (w *walker) walk(n layout.Node) (*Form, error) {
	f := &Form{Parameters: n.Parameters(), FormKey: w.key()}
	var err error
	switch x := n.(type) {
	case layout.PrimitiveNode:
		f.Class, f.Primitive = ClassNumpy, x.DType()
		w.put(f.FormKey, RoleData, x.Bytes())
	case *layout.Empty:
		f.Class = ClassEmpty
	case *layout.ListOffset:
		f.Class, f.Index = ClassListOffset, x.Offsets().Kind()
		w.put(f.FormKey, RoleOffsets, x.Offsets().Bytes())
		f.Content, err = w.walk(x.Content())
	case *layout.List:
		if x.Starts().Kind() != x.Stops().Kind() {
			return nil, invalid(f.FormKey, "starts %s and stops %s differ", x.Starts().Kind(), x.Stops().Kind())
		}
		f.Class, f.Index = ClassList, x.Starts().Kind()
		w.put(f.FormKey, RoleStarts, x.Starts().Bytes())
		w.put(f.FormKey, RoleStops, x.Stops().Bytes())
		f.Content, err = w.walk(x.Content())
	case *layout.Regular:
		f.Class, f.Size = ClassRegular, max(x.Size(), 0)
		f.Content, err = w.walk(x.Content())
	case *layout.Record:
		f.Class, f.Fields = ClassRecord, append([]string{}, x.Fields()...)
		f.Contents, err = w.walkAll(x.Contents())
	case *layout.Tuple:
		f.Class = ClassRecord
		f.Contents, err = w.walkAll(x.Contents())
	case *layout.Indexed:
		f.Class, f.Index = ClassIndexed, x.Index().Kind()
		w.put(f.FormKey, RoleIndex, x.Index().Bytes())
		f.Content, err = w.walk(x.Content())
	case *layout.IndexedOption:
		f.Class, f.Index = ClassIndexedOption, x.Index().Kind()
		w.put(f.FormKey, RoleIndex, x.Index().Bytes())
		f.Content, err = w.walk(x.Content())
	case *layout.ByteMasked:
		f.Class, f.ValidWhen = ClassByteMasked, x.ValidWhen()
		w.put(f.FormKey, RoleMask, x.Mask().Bytes())
		f.Content, err = w.walk(x.Content())
	case *layout.BitMasked:
		f.Class, f.ValidWhen, f.LSBOrder = ClassBitMasked, x.ValidWhen(), x.LSBOrder()
		w.put(f.FormKey, RoleMask, x.Mask().Bytes())
		f.Content, err = w.walk(x.Content())
	case *layout.Unmasked:
		f.Class = ClassUnmasked
		f.Content, err = w.walk(x.Content())
	case *layout.Union:
		f.Class, f.Index = ClassUnion, x.Index().Kind()
		w.put(f.FormKey, RoleTags, x.Tags().Bytes())
		w.put(f.FormKey, RoleIndex, x.Index().Bytes())
		f.Contents, err = w.walkAll(x.Contents())
	default:
		return nil, invalid(f.FormKey, "unsupported node %s", n.Kind())
	}
	if err != nil {
		return nil, err
	}
	return f, nil
}

func (w *walker) walkAll(nodes []layout.Node) ([]*Form, error) {
	out := make([]*Form, len(nodes))
	for i, n := range nodes {
		f, err := w.walk(n)
		if err != nil {
			return nil, err
		}
		out[i] = f
	}
	return out, nil
}

// indexBytes is the byte width of an index kind.
func indexBytes(k buffer.IndexKind) int {
	switch k {
	case buffer.I8, buffer.U8:
		return 1
	case buffer.I32, buffer.U32:
		return 4
	}
	return 8
}
