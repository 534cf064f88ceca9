package blobstore

import (
	"context"
	"errors"
	"io"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/jagged/internal/cache"
	"github.com/hupe1980/jagged/resource"
)

// DefaultBlockSize is the caching block size used when none is given.
const DefaultBlockSize = 1 << 20

// CachingStore wraps a BlobStore with an in-memory block cache. Writes and
// deletes through the store invalidate the affected blob. Blobs opened
// through it are never Mappable, so it suits remote stores.
type CachingStore struct {
	inner     BlobStore
	cache     cache.BlockCache
	blockSize int64
	filter    func(name string) bool
	rc        *resource.Controller
}

// CachingOption configures a CachingStore.
type CachingOption func(*CachingStore)

// WithBlockSize sets the caching block size.
func WithBlockSize(n int64) CachingOption {
	return func(s *CachingStore) {
		if n > 0 {
			s.blockSize = n
		}
	}
}

// WithCacheFilter restricts caching to blobs for which keep returns true.
// Blobs that other writers may replace should be excluded.
func WithCacheFilter(keep func(name string) bool) CachingOption {
	return func(s *CachingStore) {
		s.filter = keep
	}
}

// WithCacheController charges cached bytes to rc's memory budget.
func WithCacheController(rc *resource.Controller) CachingOption {
	return func(s *CachingStore) {
		s.rc = rc
	}
}

// NewCachingStore caches up to capacity bytes of inner's blobs.
func NewCachingStore(inner BlobStore, capacity int64, opts ...CachingOption) *CachingStore {
	s := &CachingStore{
		inner:     inner,
		blockSize: DefaultBlockSize,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.cache = cache.NewSharded(capacity, s.rc)
	return s
}

// Stats returns cache hits, misses and cached bytes.
func (s *CachingStore) Stats() (hits, misses, size int64) {
	hits, misses = s.cache.Stats()
	return hits, misses, s.cache.Size()
}

func (s *CachingStore) Open(ctx context.Context, name string) (Blob, error) {
	b, err := s.inner.Open(ctx, name)
	if err != nil {
		return nil, err
	}
	if s.filter != nil && !s.filter(name) {
		return b, nil
	}
	return &cachingBlob{inner: b, cache: s.cache, name: name, blockSize: s.blockSize}, nil
}

func (s *CachingStore) Create(ctx context.Context, name string) (WritableBlob, error) {
	s.invalidate(name)
	return s.inner.Create(ctx, name)
}

func (s *CachingStore) Put(ctx context.Context, name string, data []byte) error {
	s.invalidate(name)
	return s.inner.Put(ctx, name, data)
}

func (s *CachingStore) Delete(ctx context.Context, name string) error {
	s.invalidate(name)
	return s.inner.Delete(ctx, name)
}

func (s *CachingStore) List(ctx context.Context, prefix string) ([]string, error) {
	return s.inner.List(ctx, prefix)
}

func (s *CachingStore) invalidate(name string) {
	s.cache.Invalidate(func(k cache.Key) bool { return k.Path == name })
}

type cachingBlob struct {
	inner     Blob
	cache     cache.BlockCache
	name      string
	blockSize int64
}

func (b *cachingBlob) Close() error { return b.inner.Close() }

func (b *cachingBlob) Size() int64 { return b.inner.Size() }

func (b *cachingBlob) key(blk int64) cache.Key {
	return cache.Key{Path: b.name, Block: uint64(blk)}
}

func (b *cachingBlob) ReadAt(ctx context.Context, p []byte, off int64) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	size := b.Size()
	if off >= size {
		return 0, io.EOF
	}
	want := min(int64(len(p)), size-off)
	first := off / b.blockSize
	last := (off + want - 1) / b.blockSize

	blocks, err := b.fill(ctx, first, last)
	if err != nil {
		return 0, err
	}
	n := 0
	for i, data := range blocks {
		start := (first + int64(i)) * b.blockSize
		lo := max(start, off) - start
		if lo >= int64(len(data)) {
			break
		}
		n += copy(p[n:want], data[lo:])
	}
	if int64(n) < int64(len(p)) {
		return n, io.EOF
	}
	return n, nil
}

// fill returns blocks first..last, fetching each contiguous run of missing
// blocks with one backend read.
func (b *cachingBlob) fill(ctx context.Context, first, last int64) ([][]byte, error) {
	blocks := make([][]byte, last-first+1)
	type run struct{ start, count int64 }
	var missing []run
	for blk := first; blk <= last; blk++ {
		if data, ok := b.cache.Get(b.key(blk)); ok {
			blocks[blk-first] = data
			continue
		}
		if k := len(missing) - 1; k >= 0 && missing[k].start+missing[k].count == blk {
			missing[k].count++
		} else {
			missing = append(missing, run{start: blk, count: 1})
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(16)
	for _, r := range missing {
		g.Go(func() error {
			off := r.start * b.blockSize
			buf := make([]byte, min(r.count*b.blockSize, b.Size()-off))
			n, err := b.inner.ReadAt(gctx, buf, off)
			if err != nil && !errors.Is(err, io.EOF) {
				return err
			}
			buf = buf[:n]
			for i := range r.count {
				lo := i * b.blockSize
				if lo >= int64(len(buf)) {
					break
				}
				hi := min(lo+b.blockSize, int64(len(buf)))
				// Copy so one cached block does not pin the whole run.
				blk := make([]byte, hi-lo)
				copy(blk, buf[lo:hi])
				b.cache.Set(b.key(r.start+i), blk)
				blocks[r.start+i-first] = blk
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return blocks, nil
}

func (b *cachingBlob) ReadRange(ctx context.Context, off, length int64) (io.ReadCloser, error) {
	return io.NopCloser(&sectionReader{blob: b, ctx: ctx, off: off, limit: off + length}), nil
}

type sectionReader struct {
	blob  *cachingBlob
	ctx   context.Context
	off   int64
	limit int64
}

func (r *sectionReader) Read(p []byte) (int, error) {
	if r.off >= r.limit {
		return 0, io.EOF
	}
	if rest := r.limit - r.off; int64(len(p)) > rest {
		p = p[:rest]
	}
	n, err := r.blob.ReadAt(r.ctx, p, r.off)
	r.off += int64(n)
	if errors.Is(err, io.EOF) && n > 0 {
		err = nil
	}
	return n, err
}
