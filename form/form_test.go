package form

import (
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/jagged/buffer"
	"github.com/hupe1980/jagged/codec"
	"github.com/hupe1980/jagged/layout"
)

func strs(t *testing.T, words ...string) *layout.ListOffset {
	t.Helper()
	n := layout.NewListOffset(nil,
		layout.NewPrimitive[uint8](nil, layout.WithBehavior(layout.BehaviorChar)),
		layout.WithBehavior(layout.BehaviorString))
	for _, w := range words {
		require.NoError(t, layout.Push(n, w))
	}
	return n
}

func build(t *testing.T, n layout.Node, values ...any) layout.Node {
	t.Helper()
	for _, v := range values {
		require.NoError(t, layout.Push(n, v))
	}
	return n
}

func samples(t *testing.T) map[string]layout.Node {
	t.Helper()
	sliced, err := strs(t, "a", "bb", "ccc", "dddd").Slice(1, 3)
	require.NoError(t, err)

	return map[string]layout.Node{
		"floats":  layout.NewPrimitive([]float64{1.5, 2.5, 3.5}),
		"strings": strs(t, "one", "two", "three"),
		"sliced":  sliced,
		"list": layout.NewList(
			buffer.NewIndex([]int32{2, 0}),
			buffer.NewIndex([]int32{5, 0}),
			layout.NewPrimitive([]float64{4, 5, 1, 2, 3}),
		),
		"regular": layout.NewRegular(layout.NewPrimitive([]int8{1, 2, 3, 4, 5, 6}), 3, 2),
		"record": layout.NewRecord(
			[]string{"x", "name"},
			[]layout.Node{layout.NewPrimitive([]int64{1, 2}), strs(t, "p", "q")},
			2,
			layout.WithParameters(layout.Parameters{"kind": "point"}),
		),
		"tuple": layout.NewTuple(
			[]layout.Node{layout.NewPrimitive([]bool{true, false}), layout.NewPrimitive([]float64{0.5, 1})},
			2,
		),
		"indexed":       layout.NewIndexed(buffer.NewIndex([]uint32{2, 0, 1, 1}), strs(t, "x", "y", "z")),
		"indexedoption": layout.NewIndexedOption(buffer.NewIndex([]int32{0, -1, 1}), layout.NewPrimitive([]float64{1, 3})),
		"bytemasked": layout.NewByteMasked(
			buffer.New([]int8{1, 0, 1}), layout.NewPrimitive([]float32{1, 0, 3}), true),
		"bitmasked": build(t,
			layout.NewBitMasked(nil, layout.NewPrimitive[int64](nil), false, false, 0),
			1, nil, 3, 4, nil, 6, 7, 8, nil, 10),
		"unmasked": layout.NewUnmasked(layout.NewPrimitive([]int64{1, 2})),
		"union": build(t,
			layout.NewUnion(nil, nil, []layout.Node{layout.NewPrimitive[int64](nil), strs(t)}),
			1, "a", 2, "b"),
		"empty": layout.NewEmpty(),
		"empty lists": build(t,
			layout.NewListOffset(nil, layout.NewEmpty()),
			[]any{}, []any{}),
		"datetime": layout.NewPrimitive([]buffer.Datetime{
			buffer.DatetimeOf(time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)),
		}),
		"nested": build(t,
			layout.NewListOffset(nil, layout.NewIndexedOption(nil, strs(t))),
			[]any{"a", nil}, []any{}, []any{"b"}),
	}
}

func TestRoundTrip(t *testing.T) {
	for name, n := range samples(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, layout.Check(n))

			f, length, bufs, err := ToBuffers(n)
			require.NoError(t, err)
			assert.Equal(t, n.Len(), length)
			assert.ElementsMatch(t, f.Keys(), keysOf(bufs))

			back, err := FromBuffers(f, length, bufs)
			require.NoError(t, err)
			assert.True(t, layout.Equal(n, back))

			again, _, rebufs, err := ToBuffers(back)
			require.NoError(t, err)
			assert.Empty(t, cmp.Diff(f, again, cmpopts.EquateEmpty()))
			if buffer.LittleEndian() {
				for key, b := range bufs {
					assert.True(t, prefixOf(b, rebufs[key]), "buffer %s was copied", key)
				}
			}
		})
	}
}

func TestMarshalRoundTrip(t *testing.T) {
	for _, c := range []codec.Codec{codec.JSON{}, codec.GoJSON{}} {
		for name, n := range samples(t) {
			t.Run(c.Name()+"/"+name, func(t *testing.T) {
				f, err := Of(n)
				require.NoError(t, err)

				data, err := Marshal(f, c)
				require.NoError(t, err)
				back, err := Unmarshal(data, c)
				require.NoError(t, err)
				assert.Empty(t, cmp.Diff(f, back, cmpopts.EquateEmpty()))
			})
		}
	}
}

func TestRecordWithParameters(t *testing.T) {
	rec := layout.NewRecord(
		[]string{"x", "y"},
		[]layout.Node{layout.NewPrimitive([]int64{1, 2, 3}), layout.NewPrimitive([]float64{0.1, 0.2, 0.3})},
		3,
		layout.WithParameters(layout.Parameters{"name": "point", "unit": "m"}),
	)

	f, length, bufs, err := ToBuffers(rec)
	require.NoError(t, err)
	data, err := Marshal(f, nil)
	require.NoError(t, err)
	decoded, err := Unmarshal(data, nil)
	require.NoError(t, err)

	back, err := FromBuffers(decoded, length, bufs)
	require.NoError(t, err)
	got, ok := back.(*layout.Record)
	require.True(t, ok)

	assert.Equal(t, []string{"x", "y"}, got.Fields())
	assert.Equal(t, layout.Parameters{"name": "point", "unit": "m"}, got.Parameters())
	for i := range 3 {
		want, err := rec.Get(i)
		require.NoError(t, err)
		have, err := got.Get(i)
		require.NoError(t, err)
		assert.True(t, layout.EqualValues(want, have), "row %d", i)
	}
}

func TestZeroCopyWritesAreShared(t *testing.T) {
	if !buffer.LittleEndian() {
		t.Skip("byte views copy on big-endian hosts")
	}
	src := layout.NewPrimitive([]float64{1, 2, 3})
	f, length, bufs, err := ToBuffers(src)
	require.NoError(t, err)
	back, err := FromBuffers(f, length, bufs)
	require.NoError(t, err)

	src.Data()[1] = 42
	v, err := back.Get(1)
	require.NoError(t, err)
	assert.Equal(t, 42.0, v)
}

func TestWireShape(t *testing.T) {
	tup := layout.NewTuple([]layout.Node{strs(t, "a")}, 1)
	f, err := Of(tup)
	require.NoError(t, err)
	data, err := Marshal(f, codec.JSON{})
	require.NoError(t, err)

	s := string(data)
	assert.Contains(t, s, `"class":"RecordArray"`)
	assert.Contains(t, s, `"fields":null`)
	assert.Contains(t, s, `"class":"ListOffsetArray"`)
	assert.Contains(t, s, `"offsets":"i64"`)
	assert.Contains(t, s, `"primitive":"uint8"`)
	assert.Contains(t, s, `"__array__":"string"`)
	assert.Contains(t, s, `"form_key":"node2"`)
}

func TestWithKeyFormat(t *testing.T) {
	f, _, bufs, err := ToBuffers(strs(t, "a"), WithKeyFormat("part-%03d"))
	require.NoError(t, err)
	assert.Equal(t, "part-000", f.FormKey)
	assert.Contains(t, bufs, "part-000-offsets")
	assert.Contains(t, bufs, "part-001-data")
}

func TestFromBuffers_Errors(t *testing.T) {
	n := strs(t, "ab", "c")
	f, length, bufs, err := ToBuffers(n)
	require.NoError(t, err)

	t.Run("missing buffer", func(t *testing.T) {
		partial := Buffers{"node0-offsets": bufs["node0-offsets"]}
		_, err := FromBuffers(f, length, partial)
		assert.ErrorIs(t, err, ErrMissingBuffer)
	})

	t.Run("short buffer", func(t *testing.T) {
		_, err := FromBuffers(f, length+5, bufs)
		assert.ErrorIs(t, err, ErrInvalidForm)
	})

	t.Run("broken offsets", func(t *testing.T) {
		offsets := buffer.AsBytes([]int64{0, 2, 1})
		_, err := FromBuffers(f, 2, Buffers{"node0-offsets": offsets, "node1-data": bufs["node1-data"]})
		assert.ErrorIs(t, err, ErrInvalidForm)
		assert.ErrorIs(t, err, layout.ErrStructuralViolation)
	})

	t.Run("negative length", func(t *testing.T) {
		_, err := FromBuffers(f, -1, bufs)
		assert.ErrorIs(t, err, ErrInvalidForm)
	})

	t.Run("bool byte out of range", func(t *testing.T) {
		bf, blen, _, err := ToBuffers(layout.NewPrimitive([]bool{true}))
		require.NoError(t, err)
		_, err = FromBuffers(bf, blen, Buffers{"node0-data": {2}})
		assert.ErrorIs(t, err, ErrInvalidForm)
		assert.ErrorContains(t, err, "not 0 or 1")
	})

	t.Run("list start outside content", func(t *testing.T) {
		lf := &Form{
			Class:   ClassList,
			Index:   buffer.I64,
			FormKey: "node0",
			Content: &Form{Class: ClassNumpy, Primitive: buffer.Float64, FormKey: "node1"},
		}
		_, err := FromBuffers(lf, 1, Buffers{
			"node0-starts": buffer.AsBytes([]int64{5}),
			"node0-stops":  buffer.AsBytes([]int64{5}),
		})
		assert.ErrorIs(t, err, layout.ErrStructuralViolation)
	})

	t.Run("unknown class", func(t *testing.T) {
		_, err := Unmarshal([]byte(`{"class":"SparseArray"}`), nil)
		assert.ErrorIs(t, err, ErrInvalidForm)
	})

	t.Run("unsigned option index", func(t *testing.T) {
		_, err := Unmarshal([]byte(`{"class":"IndexedOptionArray","index":"u32","content":{"class":"EmptyArray"}}`), nil)
		assert.ErrorIs(t, err, ErrInvalidForm)
	})
}

func TestToBuffers_RejectsInvalidNodes(t *testing.T) {
	bad := layout.NewIndexed(buffer.NewIndex([]int64{5}), layout.NewPrimitive([]float64{1}))
	_, _, _, err := ToBuffers(bad)
	assert.ErrorIs(t, err, layout.ErrStructuralViolation)
}

func TestNewBuilder(t *testing.T) {
	for name, n := range samples(t) {
		if name == "empty" {
			continue
		}
		t.Run(name, func(t *testing.T) {
			f, err := Of(n)
			require.NoError(t, err)
			b, err := NewBuilder(f)
			require.NoError(t, err)

			for v, err := range layout.Values(n) {
				require.NoError(t, err)
				require.NoError(t, layout.Push(b, v))
			}
			assert.True(t, layout.Equal(n, b))
			assert.Equal(t, layout.TypeString(n), layout.TypeString(b))
		})
	}
}

// prefixOf reports whether sub starts at the same address as b and fits in it.
func prefixOf(b, sub []byte) bool {
	if len(sub) > len(b) {
		return false
	}
	return len(sub) == 0 || buffer.SameMemory(b[:len(sub)], sub)
}

func keysOf(b Buffers) []string {
	out := make([]string, 0, len(b))
	for k := range b {
		out = append(out, k)
	}
	return out
}

func TestErrorMessage(t *testing.T) {
	_, err := Unmarshal([]byte(`{"class":"RegularArray","content":{"class":"EmptyArray"}}`), nil)
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "invalid form at root"))
}
