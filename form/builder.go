package form

import (
	"fmt"

	"github.com/hupe1980/jagged/buffer"
	"github.com/hupe1980/jagged/layout"
)

// NewBuilder returns an empty node with the structure, index widths and
// parameters of f, ready for layout.Push.
func NewBuilder(f *Form) (layout.Node, error) {
	return newBuilder(f, "root")
}

func newBuilder(f *Form, path string) (layout.Node, error) {
	if err := f.check(path); err != nil {
		return nil, err
	}
	params := layout.WithParameters(f.Parameters)
	content := func() (layout.Node, error) { return newBuilder(f.Content, path+".content") }
	emptyIndex := func() (buffer.Index, error) {
		idx, err := buffer.MakeIndex(f.Index, 0)
		if err != nil {
			return nil, invalid(path, "%v", err)
		}
		return idx, nil
	}

	switch f.Class {
	case ClassNumpy:
		n, err := layout.NewPrimitiveDType(f.Primitive, params)
		if err != nil {
			return nil, invalid(path, "%v", err)
		}
		return n, nil
	case ClassEmpty:
		return layout.NewEmpty(params), nil
	case ClassListOffset:
		offsets, err := emptyIndex()
		if err != nil {
			return nil, err
		}
		if err := offsets.Append(0); err != nil {
			return nil, invalid(path, "%v", err)
		}
		c, err := content()
		if err != nil {
			return nil, err
		}
		return layout.NewListOffset(offsets, c, params), nil
	case ClassList:
		starts, err := emptyIndex()
		if err != nil {
			return nil, err
		}
		stops, _ := emptyIndex()
		c, err := content()
		if err != nil {
			return nil, err
		}
		return layout.NewList(starts, stops, c, params), nil
	case ClassRegular:
		c, err := content()
		if err != nil {
			return nil, err
		}
		return layout.NewRegular(c, f.Size, 0, params), nil
	case ClassRecord:
		contents := make([]layout.Node, len(f.Contents))
		for i, sub := range f.Contents {
			c, err := newBuilder(sub, fmt.Sprintf("%s.contents[%d]", path, i))
			if err != nil {
				return nil, err
			}
			contents[i] = c
		}
		if f.IsTuple() {
			return layout.NewTuple(contents, 0, params), nil
		}
		return layout.NewRecord(f.Fields, contents, 0, params), nil
	case ClassIndexed, ClassIndexedOption:
		index, err := emptyIndex()
		if err != nil {
			return nil, err
		}
		c, err := content()
		if err != nil {
			return nil, err
		}
		if f.Class == ClassIndexed {
			return layout.NewIndexed(index, c, params), nil
		}
		return layout.NewIndexedOption(index, c, params), nil
	case ClassByteMasked:
		c, err := content()
		if err != nil {
			return nil, err
		}
		return layout.NewByteMasked(nil, c, f.ValidWhen, params), nil
	case ClassBitMasked:
		c, err := content()
		if err != nil {
			return nil, err
		}
		return layout.NewBitMasked(nil, c, f.ValidWhen, f.LSBOrder, 0, params), nil
	case ClassUnmasked:
		c, err := content()
		if err != nil {
			return nil, err
		}
		return layout.NewUnmasked(c, params), nil
	case ClassUnion:
		index, err := emptyIndex()
		if err != nil {
			return nil, err
		}
		contents := make([]layout.Node, len(f.Contents))
		for i, sub := range f.Contents {
			c, err := newBuilder(sub, fmt.Sprintf("%s.contents[%d]", path, i))
			if err != nil {
				return nil, err
			}
			contents[i] = c
		}
		return layout.NewUnion(buffer.New([]int8{}), index, contents, params), nil
	}
	return nil, invalid(path, "unknown class %q", f.Class)
}
