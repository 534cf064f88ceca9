package layout

import "fmt"

// Regular holds fixed-size lists: list i spans content elements
// [i*size, (i+1)*size).
type Regular struct {
	meta
	content Node
	size    int
	length  int
}

// NewRegular returns a Regular of length lists of the given size. A negative
// size is only meaningful for an empty builder: the first EndList fixes it.
func NewRegular(content Node, size, length int, opts ...Option) *Regular {
	return &Regular{meta: newMeta(opts), content: content, size: size, length: length}
}

func (n *Regular) Kind() Kind { return KindRegular }

func (n *Regular) Len() int { return n.length }

// Size returns the list size, or -1 while a builder has not closed a list.
func (n *Regular) Size() int { return n.size }

// Content returns the child holding the list elements.
func (n *Regular) Content() Node { return n.content }

func (n *Regular) Get(i int) (any, error) { return get(n, i) }

func (n *Regular) at(i int) (any, error) {
	size := int64(max(n.size, 0))
	return listValue(n.meta, n.content, int64(i)*size, int64(i+1)*size)
}

func (n *Regular) Slice(start, stop int) (Node, error) {
	if err := checkRange(start, stop, n.Len()); err != nil {
		return nil, err
	}
	size := max(n.size, 0)
	content, err := n.content.Slice(start*size, stop*size)
	if err != nil {
		return nil, err
	}
	return &Regular{meta: n.meta, content: content, size: n.size, length: stop - start}, nil
}

func (n *Regular) validate(path string, c *collector) {
	switch {
	case n.size < 0 && n.length > 0:
		c.add(path, KindRegular, "size %d is negative", n.size)
	case n.length < 0:
		c.add(path, KindRegular, "length %d is negative", n.length)
	case n.length*max(n.size, 0) > n.content.Len():
		c.add(path, KindRegular, "length %d * size %d exceeds content length %d", n.length, n.size, n.content.Len())
	}
	n.content.validate(path+".content", c)
}

func (n *Regular) withParams(p Parameters) Node {
	c := *n
	c.params = p
	return &c
}

func (n *Regular) accepts(v any) bool {
	return acceptsList(n.content, v) && n.Behavior().admits(v)
}

func (n *Regular) push(v any) error {
	elems, ok := listElements(v)
	if !ok || !acceptsList(n.content, v) {
		return pushError(v, KindRegular)
	}
	if err := pushAll(n.content, elems); err != nil {
		return err
	}
	return n.closeList()
}

func (n *Regular) pushDummy() error {
	if n.size < 0 {
		n.size = 0
	}
	for range n.size {
		if err := n.content.pushDummy(); err != nil {
			return err
		}
	}
	n.length++
	return nil
}

func (n *Regular) end(k Kind) error {
	if k != KindList {
		return unsupported(endName(k), KindRegular)
	}
	return n.closeList()
}

func (n *Regular) closeList() error {
	filled := n.content.Len() - n.length*max(n.size, 0)
	if n.size < 0 {
		n.size = filled
	} else if filled != n.size {
		return &Violation{
			Path:   "root",
			Kind:   KindRegular,
			Detail: fmt.Sprintf("list of %d elements closed on regular of size %d", filled, n.size),
		}
	}
	n.length++
	return nil
}

func (n *Regular) mark() func() {
	size, length := n.size, n.length
	restore := n.content.mark()
	return func() {
		n.size, n.length = size, length
		restore()
	}
}

func (n *Regular) emptyLike() Node {
	return &Regular{meta: n.meta, content: n.content.emptyLike(), size: n.size}
}

func (n *Regular) project(sel FieldSelector) (Node, error) {
	content, err := n.content.project(sel)
	if err != nil {
		return nil, err
	}
	return &Regular{meta: n.meta, content: content, size: n.size, length: n.length}, nil
}
