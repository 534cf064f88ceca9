package layout

import "github.com/hupe1980/jagged/buffer"

// Node is one array-shaped value of the layout type system.
//
// The set of implementations is closed; they are the exported variant types of
// this package.
type Node interface {
	// Kind returns the variant.
	Kind() Kind
	// Len returns the number of logical elements.
	Len() int
	// Parameters returns the node's metadata.
	Parameters() Parameters
	// Behavior returns the behavior recorded in the parameters.
	Behavior() Behavior
	// Get returns element i: a scalar, a string or []byte for string-like
	// lists, a Node for other lists, a RecordView or TupleView for rows, or
	// nil for a missing element.
	Get(i int) (any, error)
	// Slice returns the elements [start, stop). Buffers are shared whenever
	// the variant can express the range exactly; otherwise the result is a
	// lazy Indexed view.
	Slice(start, stop int) (Node, error)

	at(i int) (any, error)
	validate(path string, c *collector)
	withParams(p Parameters) Node
	accepts(v any) bool
	push(v any) error
	pushDummy() error
	end(k Kind) error
	mark() func()
	emptyLike() Node
	project(sel FieldSelector) (Node, error)
}

// optionNode is implemented by the variants that can hold missing elements.
type optionNode interface {
	Node
	Content() Node
	isMissing(i int) bool
}

func get(n Node, i int) (any, error) {
	if err := checkBounds(i, n.Len()); err != nil {
		return nil, err
	}
	return n.at(i)
}

// indexValue reads index[i] and checks it against a child of length limit.
func indexValue(index buffer.Index, i, limit int) (int, error) {
	j := index.At(i)
	if j < 0 || j >= int64(limit) {
		return 0, &BoundsError{Index: j, Length: limit}
	}
	return int(j), nil
}

func freshIndex() buffer.Index {
	return buffer.NewIndex[int64](nil)
}

func freshOffsets() buffer.Index {
	return buffer.NewIndex([]int64{0})
}

func noop() {}
