package testutil

import (
	"bytes"
	"context"
	"fmt"
	"testing"
	"unsafe"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/jagged/buffer"
	"github.com/hupe1980/jagged/container"
	"github.com/hupe1980/jagged/convert"
	"github.com/hupe1980/jagged/form"
	"github.com/hupe1980/jagged/layout"
)

const trials = 64

func forEachSeed(t *testing.T, f func(t *testing.T, rng *RNG)) {
	t.Helper()
	for seed := range int64(trials) {
		rng := NewRNG(seed)
		t.Run(fmt.Sprintf("seed=%d", seed), func(t *testing.T) {
			f(t, rng)
		})
	}
}

func TestRNG_Reset(t *testing.T) {
	rng := NewRNG(4711)
	first := rng.Values(rng.Schema(2), 10)

	rng.Reset()
	again := rng.Values(rng.Schema(2), 10)

	assert.Equal(t, int64(4711), rng.Seed())
	assert.Empty(t, cmp.Diff(first, again))
}

func TestSchema_MatchesInferredType(t *testing.T) {
	rng := NewRNG(1)
	s := &Schema{Kind: SchemaList, Elem: &Schema{Kind: SchemaInt, Optional: true, MissingRate: 0.5}}
	assert.Equal(t, "var * ?int64", s.String())

	// Enough values that both present and missing elements occur.
	n, _, err := rng.Node(s, 200)
	require.NoError(t, err)
	assert.Equal(t, s.String(), layout.TypeString(n))
}

func TestProperty_ToVectorRoundTrip(t *testing.T) {
	forEachSeed(t, func(t *testing.T, rng *RNG) {
		n, values, err := rng.Node(rng.Schema(3), rng.Intn(40))
		require.NoError(t, err)
		require.NoError(t, layout.Check(n))

		got, err := convert.ToVector(n)
		require.NoError(t, err)
		if diff := cmp.Diff(values, got, cmpopts.EquateEmpty()); diff != "" {
			t.Errorf("ToVector mismatch (-want +got):\n%s", diff)
		}
	})
}

func TestProperty_BufferRoundTrip(t *testing.T) {
	forEachSeed(t, func(t *testing.T, rng *RNG) {
		n, _, err := rng.Node(rng.Schema(3), rng.Intn(40))
		require.NoError(t, err)

		f, length, bufs, err := form.ToBuffers(n)
		require.NoError(t, err)

		back, err := form.FromBuffers(f, length, bufs)
		require.NoError(t, err)
		assert.True(t, layout.Equal(n, back))

		if !buffer.LittleEndian() {
			return
		}
		_, _, rebufs, err := form.ToBuffers(back)
		require.NoError(t, err)
		for key, b := range bufs {
			if len(b) == 0 {
				continue
			}
			rb := rebufs[key]
			require.NotEmpty(t, rb, key)
			assert.Same(t, unsafe.SliceData(b), unsafe.SliceData(rb), "buffer %s was copied", key)
		}
	})
}

func TestProperty_ContainerRoundTrip(t *testing.T) {
	compressions := []container.Compression{
		container.CompressionNone,
		container.CompressionLZ4,
		container.CompressionZSTD,
	}
	forEachSeed(t, func(t *testing.T, rng *RNG) {
		n, _, err := rng.Node(rng.Schema(3), rng.Intn(40))
		require.NoError(t, err)

		ctx := context.Background()
		c := compressions[rng.Intn(len(compressions))]
		var buf bytes.Buffer
		_, err = container.Write(ctx, &buf, n, container.WithCompression(c))
		require.NoError(t, err)

		got, err := container.Decode(ctx, buf.Bytes())
		require.NoError(t, err)
		defer got.Close()
		assert.True(t, layout.Equal(n, got.Node), "compression %s", c)
	})
}

func TestProperty_OffsetMonotonicity(t *testing.T) {
	forEachSeed(t, func(t *testing.T, rng *RNG) {
		n, _, err := rng.Node(rng.Schema(3), rng.Intn(40))
		require.NoError(t, err)

		Walk(n, func(node layout.Node) {
			lo, ok := node.(*layout.ListOffset)
			if !ok {
				return
			}
			offsets := lo.Offsets()
			for i := 1; i < offsets.Len(); i++ {
				require.LessOrEqual(t, offsets.At(i-1), offsets.At(i))
			}
			if offsets.Len() > 0 {
				assert.LessOrEqual(t, offsets.At(offsets.Len()-1), int64(lo.Content().Len()))
			}
		})
	})
}

func TestProperty_RepresentationIndependence(t *testing.T) {
	t.Run("list", func(t *testing.T) {
		forEachSeed(t, func(t *testing.T, rng *RNG) {
			s := &Schema{Kind: SchemaList, Elem: rng.Schema(2)}
			n, _, err := rng.Node(s, 1+rng.Intn(40))
			require.NoError(t, err)

			lo, ok := n.(*layout.ListOffset)
			require.True(t, ok, "got %T", n)
			assert.True(t, layout.Equal(lo, AsList(lo)))
		})
	})

	t.Run("option", func(t *testing.T) {
		forEachSeed(t, func(t *testing.T, rng *RNG) {
			s := rng.Schema(2)
			s.Optional, s.MissingRate = true, 0.3
			values := rng.Values(s, rng.Intn(40))

			indexed, err := convert.FromSlice(values)
			require.NoError(t, err)
			for _, kind := range []layout.Kind{layout.KindByteMasked, layout.KindBitMasked} {
				masked, err := convert.FromSlice(values, convert.WithOptionKind(kind))
				require.NoError(t, err)
				assert.True(t, layout.Equal(indexed, masked), kind.String())
				assert.True(t, layout.Equal(masked, indexed), kind.String())
			}
		})
	})
}

func TestProperty_MissingAlgebra(t *testing.T) {
	forEachSeed(t, func(t *testing.T, rng *RNG) {
		s := rng.Schema(1)
		s.Optional, s.MissingRate = true, 0.5
		values := rng.Values(s, 1+rng.Intn(20))

		n, err := convert.FromSlice(values)
		require.NoError(t, err)

		missing := layout.MissingBitmap(n)
		for i, v := range values {
			got, err := n.Get(i)
			require.NoError(t, err)
			assert.Equal(t, v == nil, got == nil, "element %d", i)
			assert.Equal(t, v == nil, missing.Contains(uint32(i)), "element %d", i)
			assert.True(t, layout.EqualValues(got, got))
			if v == nil {
				assert.False(t, layout.EqualValues(nil, int64(0)))
			}
		}
		assert.Equal(t, int(missing.GetCardinality()), layout.CountMissing(n))
	})
}

func TestProperty_BuilderEquivalence(t *testing.T) {
	forEachSeed(t, func(t *testing.T, rng *RNG) {
		n, values, err := rng.Node(rng.Schema(2), rng.Intn(30))
		require.NoError(t, err)

		// A fresh builder of the inferred type fed the same values.
		f, err := form.Of(n)
		require.NoError(t, err)
		direct, err := form.NewBuilder(f)
		require.NoError(t, err)
		for _, v := range values {
			require.NoError(t, layout.Push(direct, v))
		}
		assert.True(t, layout.Equal(n, direct))
	})
}

func TestWalk(t *testing.T) {
	n, err := convert.FromSlice([]any{map[string]any{"a": []any{1}, "b": "x"}})
	require.NoError(t, err)

	var kinds []string
	Walk(n, func(node layout.Node) { kinds = append(kinds, node.Kind().String()) })
	assert.Len(t, kinds, 5)
	assert.Equal(t, layout.KindRecord.String(), kinds[0])
}
