package cache

// Key identifies one block of one blob.
type Key struct {
	Path  string
	Block uint64
}

// BlockCache caches immutable blocks. Returned slices must not be modified.
type BlockCache interface {
	Get(key Key) ([]byte, bool)
	Set(key Key, b []byte)
	// Invalidate removes entries matching the predicate.
	Invalidate(predicate func(key Key) bool)
	// Stats returns hit and miss counts.
	Stats() (hits, misses int64)
	// Size returns the cached bytes.
	Size() int64
}
