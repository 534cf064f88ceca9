package layout

import (
	"fmt"
	"math"

	"github.com/hupe1980/jagged/buffer"
)

// Union holds heterogeneous elements: element i is element index[i] of
// contents[tags[i]].
type Union struct {
	meta
	tags     *buffer.Buffer[int8]
	index    buffer.Index
	contents []Node
}

// NewUnion returns a Union over contents. Nil tags and index yield an empty
// builder that pushes each value into the first content accepting it.
func NewUnion(tags *buffer.Buffer[int8], index buffer.Index, contents []Node, opts ...Option) *Union {
	if tags == nil || index == nil {
		tags, index = buffer.Make[int8](0), freshIndex()
	}
	return &Union{meta: newMeta(opts), tags: tags, index: index, contents: contents}
}

func (n *Union) Kind() Kind { return KindUnion }

func (n *Union) Len() int { return n.tags.Len() }

// Tags returns the per-element specialization tags.
func (n *Union) Tags() *buffer.Buffer[int8] { return n.tags }

// Index returns the per-element positions within the selected content.
func (n *Union) Index() buffer.Index { return n.index }

// Contents returns the specializations.
func (n *Union) Contents() []Node { return n.contents }

func (n *Union) Get(i int) (any, error) { return get(n, i) }

func (n *Union) at(i int) (any, error) {
	tag := int(n.tags.At(i))
	if tag < 0 || tag >= len(n.contents) {
		return nil, &BoundsError{Index: int64(tag), Length: len(n.contents)}
	}
	if i >= n.index.Len() {
		return nil, &BoundsError{Index: int64(i), Length: n.index.Len()}
	}
	content := n.contents[tag]
	j, err := indexValue(n.index, i, content.Len())
	if err != nil {
		return nil, err
	}
	return content.at(j)
}

func (n *Union) Slice(start, stop int) (Node, error) {
	if err := checkRange(start, stop, n.Len()); err != nil {
		return nil, err
	}
	if stop > n.index.Len() {
		return nil, &BoundsError{Index: int64(stop), Length: n.index.Len()}
	}
	return &Union{meta: n.meta, tags: n.tags.Slice(start, stop), index: n.index.Slice(start, stop), contents: n.contents}, nil
}

func (n *Union) validate(path string, c *collector) {
	if len(n.contents) == 0 && n.Len() > 0 {
		c.add(path, KindUnion, "no contents for %d elements", n.Len())
	}
	if len(n.contents) > math.MaxInt8+1 {
		c.add(path, KindUnion, "%d contents exceed the tag range", len(n.contents))
	}
	if n.tags.Len() != n.index.Len() {
		c.add(path, KindUnion, "tags length %d != index length %d", n.tags.Len(), n.index.Len())
	}
	var badTag, badIndex tally
	for i := range min(n.tags.Len(), n.index.Len()) {
		tag := int(n.tags.At(i))
		if tag < 0 || tag >= len(n.contents) {
			badTag.fail("tags[%d]=%d outside [0, %d)", i, tag, len(n.contents))
			continue
		}
		limit := n.contents[tag].Len()
		if j := n.index.At(i); j < 0 || j >= int64(limit) {
			badIndex.fail("index[%d]=%d outside content %d length %d", i, j, tag, limit)
		}
	}
	badTag.report(c, path, KindUnion)
	badIndex.report(c, path, KindUnion)
	for k, content := range n.contents {
		content.validate(fmt.Sprintf("%s.contents[%d]", path, k), c)
	}
}

func (n *Union) withParams(p Parameters) Node {
	c := *n
	c.params = p
	return &c
}

func (n *Union) accepts(v any) bool {
	for _, content := range n.contents {
		if content.accepts(v) {
			return true
		}
	}
	return false
}

// push appends v to the first content that accepts it.
func (n *Union) push(v any) error {
	err := pushError(v, KindUnion)
	for k, content := range n.contents {
		if !content.accepts(v) {
			continue
		}
		restore := content.mark()
		if err = content.push(v); err != nil {
			restore()
			continue
		}
		return n.choose(k)
	}
	return err
}

func (n *Union) pushDummy() error {
	if len(n.contents) == 0 {
		return unsupported("push_dummy", KindUnion)
	}
	if err := n.contents[0].pushDummy(); err != nil {
		return err
	}
	return n.choose(0)
}

func (n *Union) end(k Kind) error { return unsupported(endName(k), KindUnion) }

func (n *Union) choose(k int) error {
	if k > math.MaxInt8 {
		return &BoundsError{Index: int64(k), Length: math.MaxInt8 + 1}
	}
	if err := n.index.Append(int64(n.contents[k].Len() - 1)); err != nil {
		return overflow(err)
	}
	n.tags.Append(int8(k))
	return nil
}

func (n *Union) mark() func() {
	tags, index := n.tags.Len(), n.index.Len()
	restores := make([]func(), len(n.contents))
	for i, content := range n.contents {
		restores[i] = content.mark()
	}
	return func() {
		n.tags.Truncate(tags)
		n.index.Truncate(index)
		for _, restore := range restores {
			restore()
		}
	}
}

func (n *Union) emptyLike() Node {
	contents := make([]Node, len(n.contents))
	for i, content := range n.contents {
		contents[i] = content.emptyLike()
	}
	return &Union{meta: n.meta, tags: buffer.Make[int8](0), index: freshIndex(), contents: contents}
}

func (n *Union) project(sel FieldSelector) (Node, error) {
	contents := make([]Node, len(n.contents))
	for i, content := range n.contents {
		p, err := content.project(sel)
		if err != nil {
			return nil, err
		}
		contents[i] = p
	}
	return &Union{meta: n.meta, tags: n.tags, index: n.index, contents: contents}, nil
}
