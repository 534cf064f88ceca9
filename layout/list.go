package layout

import "github.com/hupe1980/jagged/buffer"

// List holds variable-length lists over independent starts and stops: list i
// spans content elements [starts[i], stops[i]). Ranges may overlap or appear
// in any order.
type List struct {
	meta
	starts  buffer.Index
	stops   buffer.Index
	content Node
	// cursor is where the open list began in content.
	cursor int
}

// NewList returns a List over content. Nil starts and stops yield an empty
// builder with int64 indexes.
func NewList(starts, stops buffer.Index, content Node, opts ...Option) *List {
	if starts == nil || stops == nil {
		starts, stops = freshIndex(), freshIndex()
	}
	return &List{meta: newMeta(opts), starts: starts, stops: stops, content: content, cursor: content.Len()}
}

func (n *List) Kind() Kind { return KindList }

func (n *List) Len() int { return n.starts.Len() }

// Starts returns the starts index.
func (n *List) Starts() buffer.Index { return n.starts }

// Stops returns the stops index.
func (n *List) Stops() buffer.Index { return n.stops }

// Content returns the child holding the list elements.
func (n *List) Content() Node { return n.content }

func (n *List) Get(i int) (any, error) { return get(n, i) }

func (n *List) at(i int) (any, error) {
	if i >= n.stops.Len() {
		return nil, &BoundsError{Index: int64(i), Length: n.stops.Len()}
	}
	return listValue(n.meta, n.content, n.starts.At(i), n.stops.At(i))
}

func (n *List) Slice(start, stop int) (Node, error) {
	if err := checkRange(start, stop, n.Len()); err != nil {
		return nil, err
	}
	if stop > n.stops.Len() {
		return nil, &BoundsError{Index: int64(stop), Length: n.stops.Len()}
	}
	return &List{
		meta:    n.meta,
		starts:  n.starts.Slice(start, stop),
		stops:   n.stops.Slice(start, stop),
		content: n.content,
		cursor:  n.content.Len(),
	}, nil
}

func (n *List) validate(path string, c *collector) {
	if n.starts.Len() != n.stops.Len() {
		c.add(path, KindList, "starts length %d != stops length %d", n.starts.Len(), n.stops.Len())
	}
	limit := int64(n.content.Len())
	var inverted, outside tally
	for i := range min(n.starts.Len(), n.stops.Len()) {
		lo, hi := n.starts.At(i), n.stops.At(i)
		switch {
		case lo > hi:
			inverted.fail("starts[%d]=%d > stops[%d]=%d", i, lo, i, hi)
		case lo < 0 || hi > limit:
			outside.fail("list %d spans [%d, %d) outside content length %d", i, lo, hi, limit)
		}
	}
	inverted.report(c, path, KindList)
	outside.report(c, path, KindList)
	n.content.validate(path+".content", c)
}

func (n *List) withParams(p Parameters) Node {
	c := *n
	c.params = p
	return &c
}

func (n *List) accepts(v any) bool {
	return acceptsList(n.content, v) && n.Behavior().admits(v)
}

func (n *List) push(v any) error {
	elems, ok := listElements(v)
	if !ok || !acceptsList(n.content, v) {
		return pushError(v, KindList)
	}
	if err := pushAll(n.content, elems); err != nil {
		return err
	}
	return n.closeList()
}

func (n *List) pushDummy() error { return n.closeList() }

func (n *List) end(k Kind) error {
	if k != KindList {
		return unsupported(endName(k), KindList)
	}
	return n.closeList()
}

func (n *List) closeList() error {
	stop := n.content.Len()
	if err := n.starts.Append(int64(n.cursor)); err != nil {
		return overflow(err)
	}
	if err := n.stops.Append(int64(stop)); err != nil {
		return overflow(err)
	}
	n.cursor = stop
	return nil
}

func (n *List) mark() func() {
	starts, stops, cursor := n.starts.Len(), n.stops.Len(), n.cursor
	restore := n.content.mark()
	return func() {
		n.starts.Truncate(starts)
		n.stops.Truncate(stops)
		n.cursor = cursor
		restore()
	}
}

func (n *List) emptyLike() Node {
	return &List{meta: n.meta, starts: freshIndex(), stops: freshIndex(), content: n.content.emptyLike()}
}

func (n *List) project(sel FieldSelector) (Node, error) {
	content, err := n.content.project(sel)
	if err != nil {
		return nil, err
	}
	return &List{meta: n.meta, starts: n.starts, stops: n.stops, content: content, cursor: content.Len()}, nil
}
