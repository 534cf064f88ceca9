package layout

import (
	"errors"

	"github.com/hupe1980/jagged/buffer"
)

// Indexed is a lazy gather view: element i is content element index[i].
type Indexed struct {
	meta
	index   buffer.Index
	content Node
}

// NewIndexed returns an Indexed view of content. A nil index yields an empty
// builder with int64 entries.
func NewIndexed(index buffer.Index, content Node, opts ...Option) *Indexed {
	if index == nil {
		index = freshIndex()
	}
	return &Indexed{meta: newMeta(opts), index: index, content: content}
}

func (n *Indexed) Kind() Kind { return KindIndexed }

func (n *Indexed) Len() int { return n.index.Len() }

// Index returns the gather index.
func (n *Indexed) Index() buffer.Index { return n.index }

// Content returns the gathered child.
func (n *Indexed) Content() Node { return n.content }

func (n *Indexed) Get(i int) (any, error) { return get(n, i) }

func (n *Indexed) at(i int) (any, error) {
	j, err := indexValue(n.index, i, n.content.Len())
	if err != nil {
		return nil, err
	}
	return n.content.at(j)
}

func (n *Indexed) Slice(start, stop int) (Node, error) {
	if err := checkRange(start, stop, n.Len()); err != nil {
		return nil, err
	}
	return &Indexed{meta: n.meta, index: n.index.Slice(start, stop), content: n.content}, nil
}

func (n *Indexed) validate(path string, c *collector) {
	validateIndex(path, KindIndexed, n.index, n.content.Len(), false, c)
	n.content.validate(path+".content", c)
}

func (n *Indexed) withParams(p Parameters) Node {
	c := *n
	c.params = p
	return &c
}

func (n *Indexed) accepts(v any) bool { return n.content.accepts(v) }

func (n *Indexed) push(v any) error {
	if err := n.content.push(v); err != nil {
		return err
	}
	return n.point()
}

func (n *Indexed) pushDummy() error {
	if err := n.content.pushDummy(); err != nil {
		return err
	}
	return n.point()
}

func (n *Indexed) end(k Kind) error {
	if err := n.content.end(k); err != nil {
		return err
	}
	return n.point()
}

// point appends an index entry for the last content element.
func (n *Indexed) point() error {
	if err := n.index.Append(int64(n.content.Len() - 1)); err != nil {
		return overflow(err)
	}
	return nil
}

func (n *Indexed) mark() func() {
	size := n.index.Len()
	restore := n.content.mark()
	return func() {
		n.index.Truncate(size)
		restore()
	}
}

func (n *Indexed) emptyLike() Node {
	return &Indexed{meta: n.meta, index: freshIndex(), content: n.content.emptyLike()}
}

func (n *Indexed) project(sel FieldSelector) (Node, error) {
	content, err := n.content.project(sel)
	if err != nil {
		return nil, err
	}
	return &Indexed{meta: n.meta, index: n.index, content: content}, nil
}

// IndexedOption is an Indexed view where a negative index marks a missing
// element.
type IndexedOption struct {
	meta
	index   buffer.Index
	content Node
}

// NewIndexedOption returns an IndexedOption view of content. The index must
// be signed. A nil index yields an empty builder with int64 entries.
func NewIndexedOption(index buffer.Index, content Node, opts ...Option) *IndexedOption {
	if index == nil {
		index = freshIndex()
	}
	return &IndexedOption{meta: newMeta(opts), index: index, content: content}
}

func (n *IndexedOption) Kind() Kind { return KindIndexedOption }

func (n *IndexedOption) Len() int { return n.index.Len() }

// Index returns the gather index.
func (n *IndexedOption) Index() buffer.Index { return n.index }

// Content returns the gathered child.
func (n *IndexedOption) Content() Node { return n.content }

func (n *IndexedOption) isMissing(i int) bool { return n.index.At(i) < 0 }

func (n *IndexedOption) Get(i int) (any, error) { return get(n, i) }

func (n *IndexedOption) at(i int) (any, error) {
	if n.isMissing(i) {
		return nil, nil
	}
	j, err := indexValue(n.index, i, n.content.Len())
	if err != nil {
		return nil, err
	}
	return n.content.at(j)
}

func (n *IndexedOption) Slice(start, stop int) (Node, error) {
	if err := checkRange(start, stop, n.Len()); err != nil {
		return nil, err
	}
	return &IndexedOption{meta: n.meta, index: n.index.Slice(start, stop), content: n.content}, nil
}

func (n *IndexedOption) validate(path string, c *collector) {
	if !n.index.Kind().Signed() {
		c.add(path, KindIndexedOption, "index kind %s cannot mark missing elements", n.index.Kind())
	}
	validateIndex(path, KindIndexedOption, n.index, n.content.Len(), true, c)
	n.content.validate(path+".content", c)
}

func (n *IndexedOption) withParams(p Parameters) Node {
	c := *n
	c.params = p
	return &c
}

func (n *IndexedOption) accepts(v any) bool { return v == nil || n.content.accepts(v) }

func (n *IndexedOption) push(v any) error {
	if v == nil {
		if err := n.index.Append(-1); err != nil {
			return overflow(err)
		}
		return nil
	}
	if err := n.content.push(v); err != nil {
		return err
	}
	return n.point()
}

// pushDummy stores a placeholder in content when it can hold one and marks
// the slot missing otherwise, as for an always-missing column.
func (n *IndexedOption) pushDummy() error {
	restore := n.content.mark()
	if err := n.content.pushDummy(); err != nil {
		if !errors.Is(err, ErrUnsupported) {
			return err
		}
		restore()
		if err := n.index.Append(-1); err != nil {
			return overflow(err)
		}
		return nil
	}
	return n.point()
}

func (n *IndexedOption) end(k Kind) error {
	if err := n.content.end(k); err != nil {
		return err
	}
	return n.point()
}

func (n *IndexedOption) point() error {
	if err := n.index.Append(int64(n.content.Len() - 1)); err != nil {
		return overflow(err)
	}
	return nil
}

func (n *IndexedOption) mark() func() {
	size := n.index.Len()
	restore := n.content.mark()
	return func() {
		n.index.Truncate(size)
		restore()
	}
}

func (n *IndexedOption) emptyLike() Node {
	return &IndexedOption{meta: n.meta, index: freshIndex(), content: n.content.emptyLike()}
}

func (n *IndexedOption) project(sel FieldSelector) (Node, error) {
	content, err := n.content.project(sel)
	if err != nil {
		return nil, err
	}
	return &IndexedOption{meta: n.meta, index: n.index, content: content}, nil
}

func validateIndex(path string, k Kind, index buffer.Index, limit int, allowNegative bool, c *collector) {
	var bad tally
	for i := range index.Len() {
		j := index.At(i)
		if j < 0 && allowNegative {
			continue
		}
		if j < 0 || j >= int64(limit) {
			bad.fail("index[%d]=%d outside content length %d", i, j, limit)
		}
	}
	bad.report(c, path, k)
}
