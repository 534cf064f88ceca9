package layout

// Empty is a zero-length node of unknown type. It unifies with any other node
// in Concatenate.
type Empty struct {
	meta
}

// NewEmpty returns an Empty node.
func NewEmpty(opts ...Option) *Empty {
	return &Empty{meta: newMeta(opts)}
}

func (n *Empty) Kind() Kind { return KindEmpty }

func (n *Empty) Len() int { return 0 }

func (n *Empty) Get(i int) (any, error) { return get(n, i) }

func (n *Empty) at(i int) (any, error) {
	return nil, &BoundsError{Index: int64(i), Length: 0}
}

func (n *Empty) Slice(start, stop int) (Node, error) {
	if err := checkRange(start, stop, 0); err != nil {
		return nil, err
	}
	return n, nil
}

func (n *Empty) validate(string, *collector) {}

func (n *Empty) withParams(p Parameters) Node {
	return &Empty{meta: meta{params: p}}
}

func (n *Empty) accepts(any) bool { return false }

func (n *Empty) push(v any) error { return pushError(v, KindEmpty) }

func (n *Empty) pushDummy() error { return unsupported("push_dummy", KindEmpty) }

func (n *Empty) end(k Kind) error { return unsupported(endName(k), KindEmpty) }

func (n *Empty) mark() func() { return noop }

func (n *Empty) emptyLike() Node { return n }

func (n *Empty) project(FieldSelector) (Node, error) {
	return nil, unsupported("field selection", KindEmpty)
}
