package layout

import "github.com/hupe1980/jagged/buffer"

// ListOffset holds variable-length lists: list i spans content elements
// [offsets[i], offsets[i+1]).
type ListOffset struct {
	meta
	offsets buffer.Index
	content Node
}

// NewListOffset returns a ListOffset over content. A nil offsets index yields
// an empty builder with int64 offsets.
func NewListOffset(offsets buffer.Index, content Node, opts ...Option) *ListOffset {
	if offsets == nil {
		offsets = freshOffsets()
	}
	return &ListOffset{meta: newMeta(opts), offsets: offsets, content: content}
}

func (n *ListOffset) Kind() Kind { return KindListOffset }

func (n *ListOffset) Len() int { return max(n.offsets.Len()-1, 0) }

// Offsets returns the offsets index (Len()+1 entries).
func (n *ListOffset) Offsets() buffer.Index { return n.offsets }

// Content returns the child holding the list elements.
func (n *ListOffset) Content() Node { return n.content }

func (n *ListOffset) Get(i int) (any, error) { return get(n, i) }

func (n *ListOffset) at(i int) (any, error) {
	return listValue(n.meta, n.content, n.offsets.At(i), n.offsets.At(i+1))
}

func (n *ListOffset) Slice(start, stop int) (Node, error) {
	if err := checkRange(start, stop, n.Len()); err != nil {
		return nil, err
	}
	return &ListOffset{meta: n.meta, offsets: n.offsets.Slice(start, stop+1), content: n.content}, nil
}

func (n *ListOffset) validate(path string, c *collector) {
	if n.offsets.Len() == 0 {
		c.add(path, KindListOffset, "offsets must have at least one entry")
	} else {
		limit := int64(n.content.Len())
		var bad, neg tally
		if first := n.offsets.At(0); first < 0 {
			neg.fail("offsets[0]=%d is negative", first)
		}
		for i := range n.Len() {
			lo, hi := n.offsets.At(i), n.offsets.At(i+1)
			if lo > hi {
				bad.fail("offsets[%d]=%d > offsets[%d]=%d", i, lo, i+1, hi)
			}
		}
		neg.report(c, path, KindListOffset)
		bad.report(c, path, KindListOffset)
		if last := n.offsets.At(n.offsets.Len() - 1); last > limit {
			c.add(path, KindListOffset, "offsets[%d]=%d exceeds content length %d", n.Len(), last, limit)
		}
	}
	n.content.validate(path+".content", c)
}

func (n *ListOffset) withParams(p Parameters) Node {
	c := *n
	c.params = p
	return &c
}

func (n *ListOffset) accepts(v any) bool {
	return acceptsList(n.content, v) && n.Behavior().admits(v)
}

func (n *ListOffset) push(v any) error {
	elems, ok := listElements(v)
	if !ok || !acceptsList(n.content, v) {
		return pushError(v, KindListOffset)
	}
	if err := pushAll(n.content, elems); err != nil {
		return err
	}
	return n.closeList()
}

func (n *ListOffset) pushDummy() error { return n.closeList() }

func (n *ListOffset) end(k Kind) error {
	if k != KindList {
		return unsupported(endName(k), KindListOffset)
	}
	return n.closeList()
}

func (n *ListOffset) closeList() error {
	if err := n.offsets.Append(int64(n.content.Len())); err != nil {
		return overflow(err)
	}
	return nil
}

func (n *ListOffset) mark() func() {
	size := n.offsets.Len()
	restore := n.content.mark()
	return func() {
		n.offsets.Truncate(size)
		restore()
	}
}

func (n *ListOffset) emptyLike() Node {
	return &ListOffset{meta: n.meta, offsets: freshOffsets(), content: n.content.emptyLike()}
}

func (n *ListOffset) project(sel FieldSelector) (Node, error) {
	content, err := n.content.project(sel)
	if err != nil {
		return nil, err
	}
	return &ListOffset{meta: n.meta, offsets: n.offsets, content: content}, nil
}

// listValue materializes one list element of a list variant.
func listValue(m meta, content Node, start, stop int64) (any, error) {
	limit := int64(content.Len())
	if start < 0 || start > limit {
		return nil, &BoundsError{Index: start, Length: content.Len()}
	}
	if stop < start || stop > limit {
		return nil, &BoundsError{Index: stop, Length: content.Len()}
	}
	switch m.Behavior() {
	case BehaviorString:
		b, err := bytesOf(content, int(start), int(stop))
		if err != nil {
			return nil, err
		}
		return string(b), nil
	case BehaviorBytestring:
		return bytesOf(content, int(start), int(stop))
	}
	return content.Slice(int(start), int(stop))
}

// bytesOf returns content elements [start, stop) as bytes. For a uint8
// Primitive the result aliases its buffer.
func bytesOf(content Node, start, stop int) ([]byte, error) {
	if p, ok := content.(*Primitive[uint8]); ok {
		return p.Data()[start:stop:stop], nil
	}
	out := make([]byte, 0, stop-start)
	for i := start; i < stop; i++ {
		v, err := content.at(i)
		if err != nil {
			return nil, err
		}
		c, err := convertScalar[uint8](v)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}
