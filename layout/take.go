package layout

import (
	"github.com/hupe1980/jagged/buffer"
)

// Take returns a lazy view of n gathering positions from index. Negative
// positions in a signed index produce missing elements and an IndexedOption
// view; otherwise the result is Indexed. Positions at or beyond n.Len() fail
// with ErrBounds.
func Take(n Node, index buffer.Index) (Node, error) {
	missing := false
	for i := range index.Len() {
		j := index.At(i)
		if j < 0 {
			missing = true
			continue
		}
		if j >= int64(n.Len()) {
			return nil, &BoundsError{Index: j, Length: n.Len()}
		}
	}
	if missing {
		return &IndexedOption{index: index, content: n}, nil
	}
	return &Indexed{index: index, content: n}, nil
}

// rangeIndex returns the positions [start, stop).
func rangeIndex(start, stop int) buffer.Index {
	data := make([]int64, 0, stop-start)
	for i := start; i < stop; i++ {
		data = append(data, int64(i))
	}
	return buffer.NewIndex(data)
}

// Concatenate joins nodes end to end into a newly built node. Empty nodes
// unify with anything; all other nodes must share the same TypeString.
func Concatenate(nodes ...Node) (Node, error) {
	var typed []Node
	for _, n := range nodes {
		if n.Kind() != KindEmpty {
			typed = append(typed, n)
		}
	}
	if len(typed) == 0 {
		return NewEmpty(), nil
	}
	want := TypeString(typed[0])
	for _, n := range typed[1:] {
		if got := TypeString(n); got != want {
			return nil, unsupported("concatenate "+want+" with "+got, n.Kind())
		}
	}
	out := typed[0].emptyLike()
	for _, n := range typed {
		for i := range n.Len() {
			v, err := n.at(i)
			if err != nil {
				return nil, err
			}
			if err := out.push(v); err != nil {
				return nil, err
			}
		}
	}
	return out, nil
}
