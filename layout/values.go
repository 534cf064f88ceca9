package layout

import "iter"

// Values iterates the elements of n in order, as returned by Get. Iteration
// stops after the first element that cannot be read, which is yielded with its
// error. The sequence can be ranged over any number of times.
func Values(n Node) iter.Seq2[any, error] {
	return func(yield func(any, error) bool) {
		for i := range n.Len() {
			v, err := n.at(i)
			if !yield(v, err) || err != nil {
				return
			}
		}
	}
}
