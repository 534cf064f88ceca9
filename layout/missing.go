package layout

import (
	"github.com/RoaringBitmap/roaring/v2"
)

// MissingBitmap returns the positions of missing elements of n.
//
// Option variants answer from their index or mask without touching content;
// other variants are scanned through Get, so an Indexed view over an option
// node reports its gathered missing positions too.
func MissingBitmap(n Node) *roaring.Bitmap {
	rb := roaring.New()
	if on, ok := n.(optionNode); ok {
		for i := range n.Len() {
			if on.isMissing(i) {
				rb.Add(uint32(i)) //nolint:gosec // node lengths are bounded by uint32 in bitmaps
			}
		}
		return rb
	}
	for i := range n.Len() {
		if v, err := n.at(i); err == nil && v == nil {
			rb.Add(uint32(i)) //nolint:gosec // see above
		}
	}
	return rb
}

// ValidBitmap returns the positions of present elements of n.
func ValidBitmap(n Node) *roaring.Bitmap {
	return roaring.Flip(MissingBitmap(n), 0, uint64(n.Len()))
}

// CountMissing returns the number of missing elements of n.
func CountMissing(n Node) int {
	return int(MissingBitmap(n).GetCardinality()) //nolint:gosec // bounded by n.Len()
}
