package container

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/jagged/blobstore"
	"github.com/hupe1980/jagged/codec"
	jfs "github.com/hupe1980/jagged/internal/fs"
	"github.com/hupe1980/jagged/layout"
	"github.com/hupe1980/jagged/resource"
)

// plainStore hides Mappable so loads go through range reads.
type plainStore struct {
	*blobstore.MemoryStore
}

type plainBlob struct {
	blobstore.Blob
}

func (s plainStore) Open(ctx context.Context, name string) (blobstore.Blob, error) {
	b, err := s.MemoryStore.Open(ctx, name)
	if err != nil {
		return nil, err
	}
	return plainBlob{b}, nil
}

// failingStore rejects Puts whose name contains fail.
type failingStore struct {
	blobstore.BlobStore
	fail string
}

var errPut = errors.New("put failed")

func (s failingStore) Put(ctx context.Context, name string, data []byte) error {
	if strings.Contains(name, s.fail) {
		return errPut
	}
	return s.BlobStore.Put(ctx, name, data)
}

func TestSaveLoad(t *testing.T) {
	ctx := context.Background()
	stores := map[string]blobstore.BlobStore{
		"memory": blobstore.NewMemoryStore(),
		"local":  blobstore.NewLocalStore(t.TempDir()),
		"plain":  plainStore{blobstore.NewMemoryStore()},
	}
	n := sample(t, 200)

	for name, store := range stores {
		t.Run(name, func(t *testing.T) {
			gen, err := Save(ctx, store, "events", n, WithCompression(CompressionLZ4))
			require.NoError(t, err)
			assert.Equal(t, "00000001", gen)

			names, err := store.List(ctx, "events/00000001/")
			require.NoError(t, err)
			assert.Contains(t, names, "events/00000001/form.json")

			c, err := Load(ctx, store, "events", WithIOLimit(1<<30))
			require.NoError(t, err)
			assert.Equal(t, "00000001", c.Generation)
			assert.True(t, layout.Equal(n, c.Node))
			require.NoError(t, c.Close())
		})
	}
}

func TestSave_Generations(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()
	first := sample(t, 10)
	second := sample(t, 20)

	_, err := Save(ctx, store, "a", first)
	require.NoError(t, err)
	gen, err := Save(ctx, store, "a", second, WithCompression(CompressionZSTD))
	require.NoError(t, err)
	assert.Equal(t, "00000002", gen)

	cur, err := Current(ctx, store, "a")
	require.NoError(t, err)
	assert.Equal(t, "00000002", cur)

	c, err := Load(ctx, store, "a")
	require.NoError(t, err)
	assert.Equal(t, 20, c.Length)

	old, err := LoadGeneration(ctx, store, "a", "00000001")
	require.NoError(t, err)
	assert.True(t, layout.Equal(first, old.Node))

	gens, err := Generations(ctx, store, "a")
	require.NoError(t, err)
	assert.Equal(t, []string{"00000001", "00000002"}, gens)

	deleted, err := Prune(ctx, store, "a", 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"00000001"}, deleted)

	names, err := store.List(ctx, "a/00000001/")
	require.NoError(t, err)
	assert.Empty(t, names)

	_, err = LoadGeneration(ctx, store, "a", "00000001")
	assert.ErrorIs(t, err, blobstore.ErrNotFound)

	// Keeping zero generations still spares the live one.
	deleted, err = Prune(ctx, store, "a", 0)
	require.NoError(t, err)
	assert.Empty(t, deleted)
}

func TestSave_FailureKeepsCurrent(t *testing.T) {
	ctx := context.Background()
	mem := blobstore.NewMemoryStore()
	n := sample(t, 10)

	_, err := Save(ctx, mem, "x", n)
	require.NoError(t, err)

	_, err = Save(ctx, failingStore{BlobStore: mem, fail: "form.json"}, "x", sample(t, 30))
	require.ErrorIs(t, err, errPut)

	c, err := Load(ctx, mem, "x")
	require.NoError(t, err)
	assert.Equal(t, "00000001", c.Generation)
	assert.Equal(t, 10, c.Length)
}

func TestLoad_Errors(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()

	_, err := Load(ctx, store, "missing")
	assert.ErrorIs(t, err, blobstore.ErrNotFound)

	require.NoError(t, store.Put(ctx, "bad/CURRENT", []byte("not-a-number")))
	_, err = Load(ctx, store, "bad")
	assert.ErrorIs(t, err, ErrInvalidFormat)

	_, err = Save(ctx, store, "c", sample(t, 50))
	require.NoError(t, err)
	names, err := store.List(ctx, "c/00000001/")
	require.NoError(t, err)
	for _, name := range names {
		if !strings.HasSuffix(name, "form.json") {
			require.NoError(t, store.Put(ctx, name, []byte("garbage")))
			break
		}
	}
	_, err = Load(ctx, store, "c")
	assert.True(t, errors.Is(err, ErrInvalidFormat) || errors.Is(err, ErrChecksum), err)
}

func TestLoad_MemoryLimit(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()
	_, err := Save(ctx, store, "m", sample(t, 100))
	require.NoError(t, err)

	_, err = Load(ctx, store, "m", WithMemoryLimit(1))
	assert.ErrorIs(t, err, resource.ErrMemoryLimitExceeded)

	rc := resource.NewController(resource.Config{MemoryLimitBytes: 1 << 20, MaxConcurrency: 2})
	c, err := Load(ctx, store, "m", WithController(rc))
	require.NoError(t, err)
	assert.Zero(t, rc.MemoryUsage())
	require.NoError(t, c.Close())
}

func TestLoad_Canceled(t *testing.T) {
	store := blobstore.NewMemoryStore()
	_, err := Save(context.Background(), store, "z", sample(t, 10))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = Load(ctx, plainStore{store}, "z")
	assert.Error(t, err)
}

func TestSave_Streaming(t *testing.T) {
	prev := streamThreshold
	streamThreshold = 1
	t.Cleanup(func() { streamThreshold = prev })

	ctx := context.Background()
	store := blobstore.NewLocalStore(t.TempDir())
	n := sample(t, 100)

	gen, err := Save(ctx, store, "s", n, WithIOLimit(1<<20))
	require.NoError(t, err)

	c, err := LoadGeneration(ctx, store, "s", gen)
	require.NoError(t, err)
	defer c.Close()
	assert.True(t, layout.Equal(n, c.Node))
}

func TestSave_StreamingFailureAborts(t *testing.T) {
	prev := streamThreshold
	streamThreshold = 1
	t.Cleanup(func() { streamThreshold = prev })

	ctx := context.Background()
	faulty := jfs.NewFaultyFS(nil)
	faulty.AddRule("-data", jfs.Fault{FailAfterBytes: 0})
	store := blobstore.NewLocalStore(t.TempDir(), blobstore.WithFileSystem(faulty))

	_, err := Save(ctx, store, "s", sample(t, 100))
	require.ErrorIs(t, err, jfs.ErrInjected)

	names, err := store.List(ctx, "s/")
	require.NoError(t, err)
	for _, name := range names {
		assert.NotContains(t, name, "-data")
		assert.NotEqual(t, "s/CURRENT", name)
	}
}

func TestLoad_CachingStore(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewCachingStore(plainStore{blobstore.NewMemoryStore()}, 64<<20,
		blobstore.WithBlockSize(4<<10),
		blobstore.WithCacheFilter(Immutable),
	)
	n := sample(t, 100)

	_, err := Save(ctx, store, "c", n)
	require.NoError(t, err)
	for range 2 {
		c, err := Load(ctx, store, "c")
		require.NoError(t, err)
		assert.True(t, layout.Equal(n, c.Node))
		require.NoError(t, c.Close())
	}
	hits, _, size := store.Stats()
	assert.Positive(t, hits)
	assert.Positive(t, size)

	// CURRENT bypasses the cache, so a new generation is seen at once.
	_, err = Save(ctx, store, "c", sample(t, 7))
	require.NoError(t, err)
	c, err := Load(ctx, store, "c")
	require.NoError(t, err)
	defer c.Close()
	assert.Equal(t, "00000002", c.Generation)
	assert.Equal(t, 7, c.Length)
}

func TestImmutable(t *testing.T) {
	assert.False(t, Immutable("events/CURRENT"))
	assert.True(t, Immutable("events/00000001/form.json"))
	assert.True(t, Immutable("events/00000001/node0-data"))
}

func TestLoad_RejectsInflatedRawSize(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()
	_, err := Save(ctx, store, "r", sample(t, 2000), WithCompression(CompressionZSTD))
	require.NoError(t, err)

	meta, err := readBlob(ctx, store, "r/00000001/form.json")
	require.NoError(t, err)
	m, err := decodeManifest(meta)
	require.NoError(t, err)

	tamper := func(raw func(e Entry) uint64) {
		t.Helper()
		pick := -1
		for i, e := range m.Buffers {
			if e.Compression == CompressionZSTD && (pick < 0 || e.Stored > m.Buffers[pick].Stored) {
				pick = i
			}
		}
		require.GreaterOrEqual(t, pick, 0, "no compressed buffer")
		require.GreaterOrEqual(t, m.Buffers[pick].Stored, uint64(64))
		m.Buffers[pick].Raw = raw(m.Buffers[pick])
		data, err := codec.Default.Marshal(m)
		require.NoError(t, err)
		require.NoError(t, store.Put(ctx, "r/00000001/form.json", data))
	}

	tamper(func(e Entry) uint64 { return maxRaw(e.Stored, CompressionZSTD) + 1 })
	_, err = Load(ctx, store, "r")
	assert.ErrorIs(t, err, ErrInvalidFormat)

	// Within the codec bound but over the memory budget.
	tamper(func(e Entry) uint64 { return maxRaw(e.Stored, CompressionZSTD) })
	_, err = Load(ctx, store, "r", WithMemoryLimit(1<<20))
	assert.ErrorIs(t, err, resource.ErrMemoryLimitExceeded)
}
