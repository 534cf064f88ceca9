package form

import (
	"fmt"
	"math"

	"github.com/hupe1980/jagged/buffer"
	"github.com/hupe1980/jagged/layout"
)

// FromBuffers reconstructs a node of the given length from f and buffers.
//
// Buffers are bound directly, never copied, whenever the host is
// little-endian and each buffer is aligned for its element type. Buffers
// longer than needed are used as prefixes. The result is validated; failures
// match ErrInvalidForm, ErrMissingBuffer or layout.ErrStructuralViolation.
func FromBuffers(f *Form, length int, buffers Buffers) (layout.Node, error) {
	if length < 0 {
		return nil, invalid("root", "negative length %d", length)
	}
	r := reader{buffers: buffers}
	n, err := r.read(f, length, "root")
	if err != nil {
		return nil, err
	}
	if err := layout.Check(n); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidForm, err)
	}
	if n.Len() != length {
		return nil, invalid("root", "reconstructed length %d != declared length %d", n.Len(), length)
	}
	return n, nil
}

type reader struct {
	buffers Buffers
}

func (r *reader) bytes(f *Form, role string, count, width int, path string) ([]byte, error) {
	if count < 0 || (width > 0 && count > math.MaxInt/width) {
		return nil, invalid(path, "%d elements of %d bytes overflow", count, width)
	}
	need := count * width
	key := Key(f.FormKey, role)
	b, ok := r.buffers[key]
	if !ok {
		if need == 0 {
			return nil, nil
		}
		return nil, &Error{Path: path, Detail: fmt.Sprintf("buffer %q", key), err: ErrMissingBuffer}
	}
	if len(b) < need {
		return nil, invalid(path, "buffer %q has %d bytes, need %d", key, len(b), need)
	}
	return b[:need:need], nil
}

func (r *reader) index(f *Form, role string, count int, path string) (buffer.Index, error) {
	b, err := r.bytes(f, role, count, indexBytes(f.Index), path)
	if err != nil {
		return nil, err
	}
	idx, err := buffer.IndexFromBytes(f.Index, b)
	if err != nil {
		return nil, invalid(path, "%v", err)
	}
	return idx, nil
}

func (r *reader) content(f *Form, length int, path string) (layout.Node, error) {
	if f.Content == nil {
		return nil, invalid(path, "%s needs a content", f.Class)
	}
	return r.read(f.Content, length, path+".content")
}

func (r *reader) read(f *Form, length int, path string) (layout.Node, error) {
	if f.FormKey == "" && len(f.roles()) > 0 {
		return nil, invalid(path, "%s has no form_key", f.Class)
	}
	params := layout.WithParameters(f.Parameters)
	switch f.Class {
	case ClassNumpy:
		size := f.Primitive.Size()
		if size == 0 {
			return nil, invalid(path, "primitive %s has no size", f.Primitive)
		}
		b, err := r.bytes(f, RoleData, length, size, path)
		if err != nil {
			return nil, err
		}
		n, err := layout.PrimitiveFromBytes(f.Primitive, b, params)
		if err != nil {
			return nil, invalid(path, "%v", err)
		}
		return n, nil

	case ClassEmpty:
		if length != 0 {
			return nil, invalid(path, "empty array of length %d", length)
		}
		return layout.NewEmpty(params), nil

	case ClassListOffset:
		offsets, err := r.index(f, RoleOffsets, length+1, path)
		if err != nil {
			return nil, err
		}
		content, err := r.content(f, clamp(offsets.At(length)), path)
		if err != nil {
			return nil, err
		}
		return layout.NewListOffset(offsets, content, params), nil

	case ClassList:
		starts, err := r.index(f, RoleStarts, length, path)
		if err != nil {
			return nil, err
		}
		stops, err := r.index(f, RoleStops, length, path)
		if err != nil {
			return nil, err
		}
		var need int64
		for i := range length {
			if lo, hi := starts.At(i), stops.At(i); hi > lo && hi > need {
				need = hi
			}
		}
		content, err := r.content(f, clamp(need), path)
		if err != nil {
			return nil, err
		}
		return layout.NewList(starts, stops, content, params), nil

	case ClassRegular:
		if f.Size < 0 || (f.Size > 0 && length > math.MaxInt/f.Size) {
			return nil, invalid(path, "regular size %d for length %d", f.Size, length)
		}
		content, err := r.content(f, length*f.Size, path)
		if err != nil {
			return nil, err
		}
		return layout.NewRegular(content, f.Size, length, params), nil

	case ClassRecord:
		contents := make([]layout.Node, len(f.Contents))
		for i, sub := range f.Contents {
			label := fmt.Sprint(i)
			if f.Fields != nil && i < len(f.Fields) {
				label = f.Fields[i]
			}
			c, err := r.read(sub, length, fmt.Sprintf("%s.field[%s]", path, label))
			if err != nil {
				return nil, err
			}
			contents[i] = c
		}
		if f.IsTuple() {
			return layout.NewTuple(contents, length, params), nil
		}
		return layout.NewRecord(f.Fields, contents, length, params), nil

	case ClassIndexed, ClassIndexedOption:
		index, err := r.index(f, RoleIndex, length, path)
		if err != nil {
			return nil, err
		}
		content, err := r.content(f, clamp(maxIndex(index)+1), path)
		if err != nil {
			return nil, err
		}
		if f.Class == ClassIndexed {
			return layout.NewIndexed(index, content, params), nil
		}
		return layout.NewIndexedOption(index, content, params), nil

	case ClassByteMasked:
		b, err := r.bytes(f, RoleMask, length, 1, path)
		if err != nil {
			return nil, err
		}
		mask, _, err := buffer.View[int8](b)
		if err != nil {
			return nil, invalid(path, "%v", err)
		}
		content, err := r.content(f, length, path)
		if err != nil {
			return nil, err
		}
		return layout.NewByteMasked(buffer.New(mask), content, f.ValidWhen, params), nil

	case ClassBitMasked:
		mask, err := r.bytes(f, RoleMask, (length+7)/8, 1, path)
		if err != nil {
			return nil, err
		}
		content, err := r.content(f, length, path)
		if err != nil {
			return nil, err
		}
		return layout.NewBitMasked(buffer.New(mask), content, f.ValidWhen, f.LSBOrder, length, params), nil

	case ClassUnmasked:
		content, err := r.content(f, length, path)
		if err != nil {
			return nil, err
		}
		return layout.NewUnmasked(content, params), nil

	case ClassUnion:
		b, err := r.bytes(f, RoleTags, length, 1, path)
		if err != nil {
			return nil, err
		}
		tags, _, err := buffer.View[int8](b)
		if err != nil {
			return nil, invalid(path, "%v", err)
		}
		index, err := r.index(f, RoleIndex, length, path)
		if err != nil {
			return nil, err
		}
		need := make([]int64, len(f.Contents))
		for i, tag := range tags {
			if k := int(tag); k >= 0 && k < len(need) {
				need[k] = max(need[k], index.At(i)+1)
			}
		}
		contents := make([]layout.Node, len(f.Contents))
		for k, sub := range f.Contents {
			c, err := r.read(sub, clamp(need[k]), fmt.Sprintf("%s.contents[%d]", path, k))
			if err != nil {
				return nil, err
			}
			contents[k] = c
		}
		return layout.NewUnion(buffer.New(tags), index, contents, params), nil
	}
	return nil, invalid(path, "unknown class %q", f.Class)
}

func maxIndex(index buffer.Index) int64 {
	m := int64(-1)
	for i := range index.Len() {
		m = max(m, index.At(i))
	}
	return m
}

func clamp(v int64) int {
	if v < 0 {
		return 0
	}
	if v > math.MaxInt {
		return math.MaxInt
	}
	return int(v)
}
