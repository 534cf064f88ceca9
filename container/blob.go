package container

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"path"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/jagged/blobstore"
	"github.com/hupe1980/jagged/layout"
	"github.com/hupe1980/jagged/resource"
)

// Blob store layout below a prefix:
//
//	<prefix>/CURRENT               name of the live generation
//	<prefix>/<gen>/form.json       manifest
//	<prefix>/<gen>/<buffer key>    one object per buffer
const (
	currentName  = "CURRENT"
	manifestName = "form.json"
)

// Immutable reports whether a blob written by Save never changes once
// written. Only CURRENT is rewritten in place. It suits
// blobstore.WithCacheFilter.
func Immutable(name string) bool { return path.Base(name) != currentName }

func genName(g uint64) string { return fmt.Sprintf("%08d", g) }

func parseGen(s string) (uint64, error) {
	g, err := strconv.ParseUint(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: generation %q", ErrInvalidFormat, s)
	}
	return g, nil
}

// Current returns the live generation under prefix.
func Current(ctx context.Context, store blobstore.BlobStore, prefix string) (string, error) {
	data, err := readBlob(ctx, store, path.Join(prefix, currentName))
	if err != nil {
		return "", err
	}
	g, err := parseGen(string(data))
	if err != nil {
		return "", err
	}
	return genName(g), nil
}

// Save writes n as a new generation under prefix and then points CURRENT at
// it. Buffers are uploaded in parallel. Readers never observe a partial
// generation. It returns the new generation.
func Save(ctx context.Context, store blobstore.BlobStore, prefix string, n layout.Node, opts ...Option) (string, error) {
	o := newOptions(opts)
	start := time.Now()

	var next uint64 = 1
	cur, err := Current(ctx, store, prefix)
	switch {
	case err == nil:
		g, _ := parseGen(cur)
		next = g + 1
	case !errors.Is(err, blobstore.ErrNotFound):
		return "", err
	}
	gen := genName(next)
	dir := path.Join(prefix, gen)

	enc, err := encode(ctx, n, o)
	if err != nil {
		return "", err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.concurrency)
	for i, e := range enc.manifest.Buffers {
		g.Go(func() error {
			return upload(gctx, store, o.controller, path.Join(dir, e.Key), enc.payloads[i])
		})
	}
	if err := g.Wait(); err != nil {
		return "", fmt.Errorf("save %s: %w", dir, err)
	}

	meta, err := o.codec.Marshal(&enc.manifest)
	if err != nil {
		return "", err
	}
	if err := upload(ctx, store, o.controller, path.Join(dir, manifestName), meta); err != nil {
		return "", fmt.Errorf("save %s: %w", dir, err)
	}
	if err := store.Put(ctx, path.Join(prefix, currentName), []byte(gen)); err != nil {
		return "", fmt.Errorf("commit %s: %w", dir, err)
	}

	o.logger.Info("container saved",
		"prefix", prefix,
		"generation", gen,
		"length", enc.manifest.Length,
		"buffers", len(enc.manifest.Buffers),
		"raw", humanize.IBytes(enc.manifest.rawSize()),
		"stored", humanize.IBytes(enc.manifest.storedSize()),
		"duration", time.Since(start),
	)
	return gen, nil
}

// streamThreshold is the payload size above which uploads stream through
// Create instead of a single Put.
var streamThreshold = 8 << 20

func upload(ctx context.Context, store blobstore.BlobStore, rc *resource.Controller, name string, data []byte) error {
	if err := rc.Acquire(ctx); err != nil {
		return err
	}
	defer rc.Release()

	if len(data) < streamThreshold {
		if err := rc.AcquireIO(ctx, len(data)); err != nil {
			return err
		}
		return store.Put(ctx, name, data)
	}

	w, err := store.Create(ctx, name)
	if err != nil {
		return err
	}
	if _, err := io.Copy(resource.NewRateLimitedWriter(ctx, w, rc), bytes.NewReader(data)); err != nil {
		abort(w)
		return err
	}
	return w.Close()
}

// abort discards a partially written blob. Stores without Abort leave
// nothing visible until Close.
func abort(w blobstore.WritableBlob) {
	if a, ok := w.(interface{ Abort() error }); ok {
		_ = a.Abort()
	}
}

// Load opens the live generation under prefix.
func Load(ctx context.Context, store blobstore.BlobStore, prefix string, opts ...Option) (*Container, error) {
	gen, err := Current(ctx, store, prefix)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", prefix, err)
	}
	return LoadGeneration(ctx, store, prefix, gen, opts...)
}

// LoadGeneration opens a specific generation under prefix. Buffers are
// fetched in parallel; mappable blobs are bound without copying.
func LoadGeneration(ctx context.Context, store blobstore.BlobStore, prefix, gen string, opts ...Option) (*Container, error) {
	o := newOptions(opts)
	start := time.Now()
	dir := path.Join(prefix, gen)

	meta, err := readBlob(ctx, store, path.Join(dir, manifestName))
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", dir, err)
	}
	m, err := decodeManifest(meta)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", dir, err)
	}

	c := &Container{Length: m.Length, Generation: gen}
	var mu sync.Mutex
	keep := func(cl io.Closer) {
		mu.Lock()
		c.closers = append(c.closers, cl)
		mu.Unlock()
	}

	payloads := make([][]byte, len(m.Buffers))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.concurrency)
	for i, e := range m.Buffers {
		g.Go(func() error {
			data, err := download(gctx, store, o.controller, path.Join(dir, e.Key), e.Stored, keep)
			if err != nil {
				return err
			}
			payloads[i] = data
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("load %s: %w", dir, err)
	}

	n, f, err := restore(ctx, m, payloads, o)
	if err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("load %s: %w", dir, err)
	}
	c.Node, c.Form = n, f

	o.logger.Info("container loaded",
		"prefix", prefix,
		"generation", gen,
		"length", m.Length,
		"buffers", len(m.Buffers),
		"stored", humanize.IBytes(m.storedSize()),
		"duration", time.Since(start),
	)
	return c, nil
}

func download(ctx context.Context, store blobstore.BlobStore, rc *resource.Controller, name string, size uint64, keep func(io.Closer)) ([]byte, error) {
	if err := rc.Acquire(ctx); err != nil {
		return nil, err
	}
	defer rc.Release()

	if size > maxBuffer || size > math.MaxInt {
		return nil, fmt.Errorf("%w: %s too large", ErrInvalidFormat, name)
	}
	if err := rc.AcquireMemory(ctx, int64(size)); err != nil {
		return nil, err
	}
	defer rc.ReleaseMemory(int64(size))

	b, err := store.Open(ctx, name)
	if err != nil {
		return nil, err
	}
	if m, ok := b.(blobstore.Mappable); ok {
		data, err := m.Bytes()
		if err != nil {
			_ = b.Close()
			return nil, err
		}
		keep(b)
		return data, nil
	}
	defer b.Close()

	r, err := b.ReadRange(ctx, 0, b.Size())
	if err != nil {
		return nil, err
	}
	defer r.Close()

	data := make([]byte, b.Size())
	if _, err := io.ReadFull(resource.NewRateLimitedReader(ctx, r, rc), data); err != nil {
		return nil, err
	}
	return data, nil
}

// readBlob returns a private copy of a small blob.
func readBlob(ctx context.Context, store blobstore.BlobStore, name string) ([]byte, error) {
	b, err := store.Open(ctx, name)
	if err != nil {
		return nil, err
	}
	defer b.Close()

	data, err := blobstore.ReadAll(ctx, b)
	if err != nil {
		return nil, err
	}
	if _, ok := b.(blobstore.Mappable); ok {
		data = slices.Clone(data)
	}
	return data, nil
}

// Generations returns the generations stored under prefix, oldest first.
func Generations(ctx context.Context, store blobstore.BlobStore, prefix string) ([]string, error) {
	dir := dirPrefix(prefix)
	names, err := store.List(ctx, dir)
	if err != nil {
		return nil, err
	}
	seen := make(map[uint64]bool)
	for _, name := range names {
		rest := strings.TrimPrefix(name, dir)
		gen, file, ok := strings.Cut(rest, "/")
		if !ok || file != manifestName {
			continue
		}
		if g, err := parseGen(gen); err == nil {
			seen[g] = true
		}
	}
	gens := make([]uint64, 0, len(seen))
	for g := range seen {
		gens = append(gens, g)
	}
	slices.Sort(gens)
	out := make([]string, len(gens))
	for i, g := range gens {
		out[i] = genName(g)
	}
	return out, nil
}

// Prune deletes all but the newest keep generations under prefix. The live
// generation is never deleted. It returns the deleted generations.
func Prune(ctx context.Context, store blobstore.BlobStore, prefix string, keep int, opts ...Option) ([]string, error) {
	o := newOptions(opts)
	gens, err := Generations(ctx, store, prefix)
	if err != nil {
		return nil, err
	}
	cur, err := Current(ctx, store, prefix)
	if err != nil && !errors.Is(err, blobstore.ErrNotFound) {
		return nil, err
	}

	var deleted []string
	for _, gen := range gens[:max(len(gens)-max(keep, 0), 0)] {
		if gen == cur {
			continue
		}
		names, err := store.List(ctx, dirPrefix(path.Join(prefix, gen)))
		if err != nil {
			return deleted, err
		}
		// The manifest goes last so a partly deleted generation stays listed.
		slices.SortStableFunc(names, func(a, b string) int {
			return boolCmp(path.Base(a) == manifestName, path.Base(b) == manifestName)
		})
		for _, name := range names {
			if err := store.Delete(ctx, name); err != nil {
				return deleted, fmt.Errorf("prune %s: %w", name, err)
			}
		}
		deleted = append(deleted, gen)
		o.logger.Info("generation pruned", "prefix", prefix, "generation", gen, "blobs", len(names))
	}
	return deleted, nil
}

func dirPrefix(prefix string) string {
	prefix = strings.TrimSuffix(prefix, "/")
	if prefix == "" {
		return ""
	}
	return prefix + "/"
}

func boolCmp(a, b bool) int {
	switch {
	case a == b:
		return 0
	case a:
		return 1
	}
	return -1
}
