package layout

import (
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/jagged/buffer"
)

func collect(t *testing.T, n Node) []any {
	t.Helper()
	var out []any
	for v, err := range Values(n) {
		require.NoError(t, err)
		out = append(out, v)
	}
	return out
}

func stringNode(t *testing.T, words ...string) *ListOffset {
	t.Helper()
	n := NewListOffset(nil, NewPrimitive[uint8](nil, WithBehavior(BehaviorChar)), WithBehavior(BehaviorString))
	for _, w := range words {
		require.NoError(t, Push(n, w))
	}
	return n
}

func floats(vs ...float64) *Primitive[float64] { return NewPrimitive(vs) }

func TestListOffset_PushAndExtend(t *testing.T) {
	lo := NewListOffset(nil, NewPrimitive[float64](nil))

	require.NoError(t, Push(lo, []float64{1.1, 2.2, 3.3}))
	require.NoError(t, Push(lo, []any{4.4}))
	require.NoError(t, Extend(lo, slices.Values([]any{
		[]float64{5.5, 6.6},
		[]float64{7.7, 8.8, 9.9},
	})))

	require.Equal(t, 4, lo.Len())
	require.Empty(t, Validate(lo))

	want := [][]float64{{1.1, 2.2, 3.3}, {4.4}, {5.5, 6.6}, {7.7, 8.8, 9.9}}
	sum := 0.0
	for i, v := range collect(t, lo) {
		sub, ok := v.(Node)
		require.True(t, ok)
		assert.True(t, Equal(sub, floats(want[i]...)), "list %d", i)
		for x, err := range Values(sub) {
			require.NoError(t, err)
			sum += x.(float64)
		}
	}
	assert.InDelta(t, 49.5, sum, 1e-9)

	// Values can be ranged over again.
	assert.Len(t, collect(t, lo), 4)
}

func TestListOffset_Incremental(t *testing.T) {
	lo := NewListOffset(nil, NewPrimitive[int64](nil))

	require.NoError(t, Push(lo.Content(), 1))
	require.NoError(t, Push(lo.Content(), 2))
	require.NoError(t, EndList(lo))
	require.NoError(t, EndList(lo))

	assert.Equal(t, 2, lo.Len())
	first, err := lo.Get(0)
	require.NoError(t, err)
	assert.Equal(t, []any{int64(1), int64(2)}, collect(t, first.(Node)))
	second, err := lo.Get(1)
	require.NoError(t, err)
	assert.Equal(t, 0, second.(Node).Len())

	assert.ErrorIs(t, EndList(lo.Content()), ErrUnsupported)
	assert.ErrorIs(t, EndRecord(lo), ErrUnsupported)
}

func TestStringBehavior(t *testing.T) {
	s := stringNode(t, "one", "two", "three", "four", "five")

	v, err := s.Get(2)
	require.NoError(t, err)
	assert.Equal(t, "three", v)
	assert.Equal(t, "string", TypeString(s))

	bs := NewListOffset(nil, NewPrimitive[uint8](nil, WithBehavior(BehaviorByte)), WithBehavior(BehaviorBytestring))
	require.NoError(t, Push(bs, []byte{0x00, 0xff}))
	v, err = bs.Get(0)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x00, 0xff}, v)

	// Strings are only accepted by lists of uint8.
	assert.ErrorIs(t, Push(NewListOffset(nil, NewPrimitive[float64](nil)), "abc"), ErrUnsupported)
}

func TestIndexedOption_Missing(t *testing.T) {
	content := stringNode(t, "a", "b")
	opt := NewIndexedOption(buffer.NewIndex([]int64{0, -1, 1}), content)

	assert.Equal(t, []any{"a", nil, "b"}, collect(t, opt))
	assert.Equal(t, "?string", TypeString(opt))
}

func TestEqual_RepresentationIndependence(t *testing.T) {
	t.Run("lists", func(t *testing.T) {
		lo := NewListOffset(buffer.NewIndex([]int64{0, 3, 3, 5}), floats(1, 2, 3, 4, 5))
		// Same lists, reordered content and non-contiguous ranges.
		l := NewList(
			buffer.NewIndex([]int32{2, 0, 0}),
			buffer.NewIndex([]int32{5, 0, 2}),
			floats(4, 5, 1, 2, 3),
		)
		require.Empty(t, Validate(lo))
		require.Empty(t, Validate(l))
		assert.True(t, Equal(lo, l))
		assert.True(t, Equal(l, lo))
		assert.Equal(t, TypeString(lo), TypeString(l))

		ints := NewListOffset(buffer.NewIndex([]int64{0, 3, 3, 5}), NewPrimitive([]int64{1, 2, 3, 4, 5}))
		assert.True(t, Equal(lo, ints), "numbers compare by value")

		other := NewListOffset(buffer.NewIndex([]int64{0, 2, 3, 5}), floats(1, 2, 3, 4, 5))
		assert.False(t, Equal(lo, other))
	})

	t.Run("options", func(t *testing.T) {
		io := NewIndexedOption(buffer.NewIndex([]int64{0, -1, 1}), floats(1, 3))
		bm := NewByteMasked(buffer.New([]int8{1, 0, 1}), floats(1, 99, 3), true)
		bit := NewBitMasked(buffer.New([]uint8{0b101}), floats(1, 42, 3), true, true, 3)
		inverted := NewByteMasked(buffer.New([]int8{0, 1, 0}), floats(1, 99, 3), false)

		nodes := []Node{io, bm, bit, inverted}
		for _, a := range nodes {
			for _, b := range nodes {
				assert.True(t, Equal(a, b), "%s vs %s", a.Kind(), b.Kind())
			}
		}
	})
}

func TestMissingAlgebra(t *testing.T) {
	values := []any{1.0, nil, 2.0}
	builders := map[string]Node{
		"indexedoption": NewIndexedOption(nil, NewPrimitive[float64](nil)),
		"bytemasked":    NewByteMasked(nil, NewPrimitive[float64](nil), true),
		"bitmasked":     NewBitMasked(nil, NewPrimitive[float64](nil), true, true, 0),
	}
	for name, n := range builders {
		require.NoError(t, Extend(n, slices.Values(values)), name)
		assert.Equal(t, values, collect(t, n), name)
		assert.True(t, MissingBitmap(n).Contains(1), name)
		assert.Equal(t, 1, CountMissing(n), name)
	}
	for a, x := range builders {
		for b, y := range builders {
			assert.True(t, Equal(x, y), "%s vs %s", a, b)
		}
	}

	present := NewUnmasked(floats(1, 0, 2))
	for name, n := range builders {
		assert.False(t, Equal(n, present), "missing must not equal a present value (%s)", name)
	}
	assert.Equal(t, 0, CountMissing(present))
	assert.ErrorIs(t, PushNull(present), ErrUnsupported)
	assert.Equal(t, 3, present.Len())

	assert.True(t, EqualValues(nil, nil))
	assert.False(t, EqualValues(nil, 0.0))
	assert.False(t, EqualValues(0.0, nil))
}

func TestMissingBitmap(t *testing.T) {
	opt := NewIndexedOption(buffer.NewIndex([]int64{0, -1, 1, -1}), floats(1, 2))
	assert.Equal(t, []uint32{1, 3}, MissingBitmap(opt).ToArray())
	assert.Equal(t, []uint32{0, 2}, ValidBitmap(opt).ToArray())

	// Gathering through an Indexed view keeps missing positions.
	view, err := Take(opt, buffer.NewIndex([]int64{1, 0}))
	require.NoError(t, err)
	assert.Equal(t, []uint32{0}, MissingBitmap(view).ToArray())
}

func TestBitMasked_BitOrder(t *testing.T) {
	tests := []struct {
		name      string
		validWhen bool
		lsbOrder  bool
		want      uint8
	}{
		{"lsb valid-when-set", true, true, 0b00000101},
		{"msb valid-when-set", true, false, 0b10100000},
		{"lsb valid-when-clear", false, true, 0b00000010},
		{"msb valid-when-clear", false, false, 0b01000000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := NewBitMasked(nil, NewPrimitive[int64](nil), tt.validWhen, tt.lsbOrder, 0)
			require.NoError(t, Extend(n, slices.Values([]any{1, nil, 2})))
			assert.Equal(t, []uint8{tt.want}, n.Mask().Data())
			assert.Equal(t, []any{int64(1), nil, int64(2)}, collect(t, n))
		})
	}
}

func TestBitMasked_Slice(t *testing.T) {
	n := NewBitMasked(nil, NewPrimitive[int64](nil), true, true, 0)
	for i := range 12 {
		var v any = i
		if i%3 == 0 {
			v = nil
		}
		require.NoError(t, Push(n, v))
	}
	require.Empty(t, Validate(n))

	aligned, err := n.Slice(8, 11)
	require.NoError(t, err)
	assert.Equal(t, KindBitMasked, aligned.Kind())
	assert.Equal(t, []any{int64(8), nil, int64(10)}, collect(t, aligned))

	shifted, err := n.Slice(2, 5)
	require.NoError(t, err)
	assert.Equal(t, KindIndexed, shifted.Kind())
	assert.Equal(t, []any{int64(2), nil, int64(4)}, collect(t, shifted))
}

func TestRecord_Builder(t *testing.T) {
	rec := NewRecord([]string{"x", "y"}, []Node{NewPrimitive[int64](nil), NewPrimitive[float64](nil)}, 0)

	x, err := rec.Content("x")
	require.NoError(t, err)
	y, err := rec.Content("y")
	require.NoError(t, err)

	require.NoError(t, Push(x, 1))
	err = EndRecord(rec)
	require.ErrorIs(t, err, ErrFieldCountMismatch)
	var fe *FieldError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, "y", fe.Field)
	assert.Equal(t, 0, rec.Len())

	require.NoError(t, Push(y, 1.5))
	require.NoError(t, EndRecord(rec))
	require.NoError(t, Push(rec, map[string]any{"x": 2, "y": 2.5}))
	assert.Equal(t, 2, rec.Len())

	row, err := rec.Get(1)
	require.NoError(t, err)
	view := row.(RecordView)
	assert.Equal(t, []string{"x", "y"}, view.Fields())
	got, err := view.Field("y")
	require.NoError(t, err)
	assert.Equal(t, 2.5, got)
	m, err := view.Map()
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"x": int64(2), "y": 2.5}, m)

	assert.ErrorIs(t, Push(rec, map[string]any{"x": 3, "y": 1.0, "z": 1}), ErrFieldCountMismatch)
	assert.ErrorIs(t, EndTuple(rec), ErrUnsupported)
}

func TestRecord_EqualIgnoresFieldOrder(t *testing.T) {
	a := NewRecord([]string{"x", "y"}, []Node{NewPrimitive([]int64{1, 2}), floats(0.5, 1.5)}, 2)
	b := NewRecord([]string{"y", "x"}, []Node{floats(0.5, 1.5, 9), NewPrimitive([]int64{1, 2})}, 2)
	assert.True(t, Equal(a, b))
	assert.Equal(t, "{x: int64, y: float64}", TypeString(a))
}

func TestTuple(t *testing.T) {
	tup := NewTuple([]Node{NewPrimitive[int64](nil), stringNode(t)}, 0)
	require.NoError(t, Push(tup, []any{1, "a"}))
	require.NoError(t, Push(tup, []any{2, "b"}))
	assert.ErrorIs(t, Push(tup, []any{3}), ErrFieldCountMismatch)

	require.NoError(t, Push(tup.Content(0), 3))
	assert.ErrorIs(t, EndTuple(tup), ErrFieldCountMismatch)
	require.NoError(t, Push(tup.Content(1), "c"))
	require.NoError(t, EndTuple(tup))

	row, err := tup.Get(2)
	require.NoError(t, err)
	v, err := row.(TupleView).At(1)
	require.NoError(t, err)
	assert.Equal(t, "c", v)

	byIndex, err := Field(tup, FieldIndex(1))
	require.NoError(t, err)
	byName, err := Field(tup, FieldName("1"))
	require.NoError(t, err)
	assert.Equal(t, []any{"a", "b", "c"}, collect(t, byIndex))
	assert.True(t, Equal(byIndex, byName))

	_, err = Field(tup, FieldName("x"))
	assert.ErrorIs(t, err, ErrFieldCountMismatch)
}

func TestField_ProjectsThroughWrappers(t *testing.T) {
	rec := NewRecord([]string{"x", "y"}, []Node{NewPrimitive[int64](nil), NewPrimitive[float64](nil)}, 0)
	lo := NewListOffset(nil, NewIndexedOption(nil, rec))
	require.NoError(t, Push(lo, []any{map[string]any{"x": 1, "y": 1.5}, nil}))
	require.NoError(t, Push(lo, []any{}))
	require.NoError(t, Push(lo, []any{map[string]any{"x": 3, "y": 3.5}}))

	xs, err := Field(lo, FieldName("x"))
	require.NoError(t, err)
	assert.Equal(t, "var * ?int64", TypeString(xs))

	want := NewListOffset(nil, NewIndexedOption(nil, NewPrimitive[int64](nil)))
	require.NoError(t, Extend(want, slices.Values([]any{[]any{1, nil}, []any{}, []any{3}})))
	assert.True(t, Equal(xs, want))

	_, err = Field(lo, FieldName("z"))
	assert.ErrorIs(t, err, ErrFieldCountMismatch)
	_, err = Field(floats(1), FieldName("x"))
	assert.ErrorIs(t, err, ErrUnsupported)
}

func TestRegular(t *testing.T) {
	reg := NewRegular(NewPrimitive[int64](nil), -1, 0)
	require.NoError(t, Push(reg, []int{1, 2}))
	require.NoError(t, Push(reg, []int{3, 4}))
	assert.Equal(t, 2, reg.Size())

	err := Push(reg, []int{5})
	assert.ErrorIs(t, err, ErrStructuralViolation)
	assert.Equal(t, 2, reg.Len())
	assert.Equal(t, 4, reg.Content().Len())

	require.NoError(t, Push(reg.Content(), 5))
	require.NoError(t, Push(reg.Content(), 6))
	require.NoError(t, EndList(reg))
	assert.Equal(t, "2 * int64", TypeString(reg))

	tail, err := reg.Slice(1, 3)
	require.NoError(t, err)
	want := NewListOffset(buffer.NewIndex([]int64{0, 2, 4}), NewPrimitive([]int64{3, 4, 5, 6}))
	assert.True(t, Equal(tail, want))
}

func TestUnion(t *testing.T) {
	u := NewUnion(nil, nil, []Node{NewPrimitive[int64](nil), stringNode(t)})
	require.NoError(t, Extend(u, slices.Values([]any{1, "a", 2})))

	assert.Equal(t, []any{int64(1), "a", int64(2)}, collect(t, u))
	assert.Equal(t, []int8{0, 1, 0}, u.Tags().Data())
	assert.Equal(t, int64(1), u.Index().At(2))
	assert.Empty(t, Validate(u))

	assert.ErrorIs(t, Push(u, 1.5), ErrUnsupported)
	assert.Equal(t, 3, u.Len())
}

func TestRollback(t *testing.T) {
	t.Run("extend", func(t *testing.T) {
		lo := NewListOffset(nil, NewPrimitive[float64](nil))
		require.NoError(t, Push(lo, []float64{1}))

		err := Extend(lo, slices.Values([]any{[]float64{2, 3}, "bad"}))
		require.Error(t, err)
		assert.Equal(t, 1, lo.Len())
		assert.Equal(t, 1, lo.Content().Len())
	})

	t.Run("record", func(t *testing.T) {
		rec := NewRecord([]string{"a", "b"}, []Node{NewPrimitive[int64](nil), NewPrimitive[int64](nil)}, 0)
		require.Error(t, Push(rec, map[string]any{"a": 1}))
		for _, c := range rec.Contents() {
			assert.Equal(t, 0, c.Len())
		}
	})

	t.Run("index overflow", func(t *testing.T) {
		lo := NewListOffset(buffer.NewIndex([]int8{0}), NewPrimitive[int64](nil))
		long := make([]int64, 200)
		err := Push(lo, long)
		assert.ErrorIs(t, err, ErrBounds)
		assert.Equal(t, 0, lo.Len())
		assert.Equal(t, 0, lo.Content().Len())
	})

	t.Run("bitmasked", func(t *testing.T) {
		n := NewBitMasked(nil, NewPrimitive[uint8](nil), true, true, 0)
		require.NoError(t, Push(n, 1))
		require.ErrorIs(t, Extend(n, slices.Values([]any{nil, 2, 300})), ErrBounds)
		assert.Equal(t, 1, n.Len())
		assert.Equal(t, []uint8{0b1}, n.Mask().Data())
	})
}

func TestByteMasked_IncrementalList(t *testing.T) {
	bm := NewByteMasked(nil, NewListOffset(nil, NewPrimitive[float64](nil)), true)
	inner := bm.Content().(*ListOffset)

	require.NoError(t, Push(inner.Content(), 1.0))
	require.NoError(t, EndList(bm))
	require.NoError(t, PushNull(bm))
	require.NoError(t, PushDummy(bm))

	assert.Equal(t, 3, bm.Len())
	assert.Equal(t, 3, inner.Len())
	vals := collect(t, bm)
	assert.True(t, Equal(vals[0].(Node), floats(1)))
	assert.Nil(t, vals[1])
	assert.Equal(t, 0, vals[2].(Node).Len())
	assert.Empty(t, Validate(bm))
}

func TestPrimitive(t *testing.T) {
	t.Run("overflow", func(t *testing.T) {
		p := NewPrimitive[uint8](nil)
		assert.ErrorIs(t, Push(p, 300), ErrBounds)
		assert.ErrorIs(t, Push(p, -1), ErrBounds)
		assert.ErrorIs(t, Push(p, "x"), ErrUnsupported)
		assert.ErrorIs(t, Push(p, 1.5), ErrUnsupported)
		assert.Equal(t, 0, p.Len())
	})

	t.Run("datetime", func(t *testing.T) {
		ts := time.Date(2024, 1, 2, 3, 4, 5, 6, time.UTC)
		p := NewPrimitive[buffer.Datetime](nil)
		require.NoError(t, Push(p, ts))
		v, err := p.Get(0)
		require.NoError(t, err)
		assert.True(t, ts.Equal(v.(time.Time)))
		assert.Equal(t, "datetime64[ns]", TypeString(p))

		d := NewPrimitive[time.Duration](nil)
		require.NoError(t, Push(d, 3*time.Second))
		assert.ErrorIs(t, Push(d, 3), ErrUnsupported)
	})

	t.Run("bounds", func(t *testing.T) {
		p := floats(1, 2)
		_, err := p.Get(2)
		var be *BoundsError
		require.ErrorAs(t, err, &be)
		assert.Equal(t, int64(2), be.Index)
		assert.Equal(t, 2, be.Length)

		_, err = p.Slice(1, 3)
		assert.ErrorIs(t, err, ErrBounds)
	})

	t.Run("slice shares storage", func(t *testing.T) {
		p := floats(1, 2, 3)
		s, err := p.Slice(1, 3)
		require.NoError(t, err)
		p.Data()[1] = 20
		v, err := s.Get(0)
		require.NoError(t, err)
		assert.Equal(t, 20.0, v)
	})

	t.Run("from bytes", func(t *testing.T) {
		src := floats(1.5, 2.5)
		back, err := PrimitiveFromBytes(buffer.Float64, src.Bytes())
		require.NoError(t, err)
		assert.True(t, Equal(src, back))
		assert.Equal(t, buffer.Float64, back.DType())
	})
}

func TestTake(t *testing.T) {
	p := NewPrimitive([]int64{10, 20, 30})

	v, err := Take(p, buffer.NewIndex([]int64{2, 0, 2}))
	require.NoError(t, err)
	assert.Equal(t, KindIndexed, v.Kind())
	assert.Equal(t, []any{int64(30), int64(10), int64(30)}, collect(t, v))

	v, err = Take(p, buffer.NewIndex([]int32{1, -1}))
	require.NoError(t, err)
	assert.Equal(t, KindIndexedOption, v.Kind())
	assert.Equal(t, []any{int64(20), nil}, collect(t, v))

	_, err = Take(p, buffer.NewIndex([]int64{3}))
	assert.ErrorIs(t, err, ErrBounds)
}

func TestConcatenate(t *testing.T) {
	lo := NewListOffset(buffer.NewIndex([]int64{0, 2}), floats(1, 2))
	l := NewList(buffer.NewIndex([]int64{0}), buffer.NewIndex([]int64{1}), floats(3))

	out, err := Concatenate(NewEmpty(), lo, l, NewEmpty())
	require.NoError(t, err)
	want := NewListOffset(buffer.NewIndex([]int64{0, 2, 3}), floats(1, 2, 3))
	assert.True(t, Equal(out, want))

	only, err := Concatenate(NewEmpty(), lo)
	require.NoError(t, err)
	assert.True(t, Equal(only, lo))

	_, err = Concatenate(floats(1), NewPrimitive([]int64{1}))
	assert.ErrorIs(t, err, ErrUnsupported)

	empty, err := Concatenate()
	require.NoError(t, err)
	assert.Equal(t, KindEmpty, empty.Kind())
}

func TestValidate(t *testing.T) {
	t.Run("valid builder output", func(t *testing.T) {
		assert.NoError(t, Check(stringNode(t, "a", "bc")))
	})

	t.Run("list offsets", func(t *testing.T) {
		bad := NewListOffset(buffer.NewIndex([]int64{0, 3, 2, 10}), floats(1, 2, 3, 4, 5))
		vs := Validate(bad)
		require.Len(t, vs, 2)
		assert.Contains(t, vs[0].Detail, "offsets[1]=3 > offsets[2]=2")
		assert.Contains(t, vs[1].Detail, "exceeds content length 5")
		assert.ErrorIs(t, Check(bad), ErrStructuralViolation)

		// Reading the broken list reports an error instead of panicking.
		_, err := bad.Get(2)
		assert.ErrorIs(t, err, ErrBounds)
	})

	t.Run("empty list outside content", func(t *testing.T) {
		bad := NewList(buffer.NewIndex([]int64{5}), buffer.NewIndex([]int64{5}), floats())
		vs := Validate(bad)
		require.Len(t, vs, 1)
		assert.Contains(t, vs[0].Detail, "outside content length 0")

		ok := NewList(buffer.NewIndex([]int64{1}), buffer.NewIndex([]int64{1}), floats(1))
		assert.NoError(t, Check(ok))
		v, err := ok.Get(0)
		require.NoError(t, err)
		assert.Equal(t, 0, v.(Node).Len())
	})

	t.Run("collects across the tree", func(t *testing.T) {
		rec := NewRecord(
			[]string{"a", "b"},
			[]Node{
				NewIndexed(buffer.NewIndex([]int64{0, 7}), floats(1)),
				NewUnion(buffer.New([]int8{0, 3}), buffer.NewIndex([]int64{0, 0}), []Node{floats(1)}),
			},
			3,
		)
		vs := Validate(rec)
		paths := make([]string, len(vs))
		for i, v := range vs {
			paths[i] = v.Path
		}
		assert.Contains(t, paths, "root")
		assert.Contains(t, paths, "root.field[a]")
		assert.Contains(t, paths, "root.field[b]")
		assert.GreaterOrEqual(t, len(vs), 4)
	})

	t.Run("unsigned option index", func(t *testing.T) {
		n := NewIndexedOption(buffer.NewIndex([]uint8{0}), floats(1))
		require.Len(t, Validate(n), 1)
	})

	t.Run("bit mask too short", func(t *testing.T) {
		n := NewBitMasked(buffer.New([]uint8{0xff}), floats(1, 2, 3, 4, 5, 6, 7, 8, 9), true, true, 9)
		require.Len(t, Validate(n), 1)
		_, err := n.Get(8)
		assert.ErrorIs(t, err, ErrBounds)
	})
}

func TestParameters(t *testing.T) {
	p := floats(1, 2)
	tagged := WithParameter(p, "unit", "m")

	v, err := Parameter(tagged, "unit")
	require.NoError(t, err)
	assert.Equal(t, "m", v)

	_, err = Parameter(p, "unit")
	assert.ErrorIs(t, err, ErrParameterNotFound)

	assert.True(t, Equal(p, tagged))
	assert.Equal(t, p.Data(), tagged.(*Primitive[float64]).Data())
	assert.Equal(t, BehaviorDefault, p.Behavior())

	s := WithParameter(NewListOffset(nil, NewPrimitive[uint8](nil)), BehaviorKey, "string")
	assert.Equal(t, BehaviorString, s.Behavior())
}

func TestOffsetMonotonicity(t *testing.T) {
	lo := NewListOffset(nil, NewPrimitive[int64](nil))
	for i := range 200 {
		n := (i * 7919) % 5
		require.NoError(t, Push(lo, make([]int64, n)))
		if i%17 == 0 {
			require.Error(t, Push(lo, []any{"x"}))
		}
	}
	offsets := lo.Offsets()
	for i := 1; i < offsets.Len(); i++ {
		assert.LessOrEqual(t, offsets.At(i-1), offsets.At(i))
	}
	assert.LessOrEqual(t, offsets.At(offsets.Len()-1), int64(lo.Content().Len()))
}

func BenchmarkPushLists(b *testing.B) {
	row := []float64{1, 2, 3, 4}
	for b.Loop() {
		lo := NewListOffset(nil, NewPrimitive[float64](nil))
		for range 1024 {
			if err := Push(lo, row); err != nil {
				b.Fatal(err)
			}
		}
	}
}
