package layout

import (
	"fmt"
	"slices"

	"github.com/hupe1980/jagged/buffer"
)

// ByteMasked marks missing elements with one byte per element. An element is
// valid when (mask[i] != 0) == validWhen. Missing elements still occupy a
// placeholder slot in content.
type ByteMasked struct {
	meta
	mask      *buffer.Buffer[int8]
	content   Node
	validWhen bool
}

// NewByteMasked returns a ByteMasked over content. A nil mask yields an empty
// builder.
func NewByteMasked(mask *buffer.Buffer[int8], content Node, validWhen bool, opts ...Option) *ByteMasked {
	if mask == nil {
		mask = buffer.Make[int8](0)
	}
	return &ByteMasked{meta: newMeta(opts), mask: mask, content: content, validWhen: validWhen}
}

func (n *ByteMasked) Kind() Kind { return KindByteMasked }

func (n *ByteMasked) Len() int { return n.mask.Len() }

// Mask returns the validity bytes.
func (n *ByteMasked) Mask() *buffer.Buffer[int8] { return n.mask }

// ValidWhen returns the mask polarity.
func (n *ByteMasked) ValidWhen() bool { return n.validWhen }

// Content returns the masked child.
func (n *ByteMasked) Content() Node { return n.content }

func (n *ByteMasked) isMissing(i int) bool { return (n.mask.At(i) != 0) != n.validWhen }

func (n *ByteMasked) Get(i int) (any, error) { return get(n, i) }

func (n *ByteMasked) at(i int) (any, error) {
	if n.isMissing(i) {
		return nil, nil
	}
	if i >= n.content.Len() {
		return nil, &BoundsError{Index: int64(i), Length: n.content.Len()}
	}
	return n.content.at(i)
}

func (n *ByteMasked) Slice(start, stop int) (Node, error) {
	if err := checkRange(start, stop, n.Len()); err != nil {
		return nil, err
	}
	content, err := n.content.Slice(start, stop)
	if err != nil {
		return nil, err
	}
	return &ByteMasked{meta: n.meta, mask: n.mask.Slice(start, stop), content: content, validWhen: n.validWhen}, nil
}

func (n *ByteMasked) validate(path string, c *collector) {
	if n.content.Len() < n.Len() {
		c.add(path, KindByteMasked, "content length %d < mask length %d", n.content.Len(), n.Len())
	}
	n.content.validate(path+".content", c)
}

func (n *ByteMasked) withParams(p Parameters) Node {
	c := *n
	c.params = p
	return &c
}

func (n *ByteMasked) accepts(v any) bool { return v == nil || n.content.accepts(v) }

func (n *ByteMasked) flag(valid bool) {
	var b int8
	if valid == n.validWhen {
		b = 1
	}
	n.mask.Append(b)
}

func (n *ByteMasked) push(v any) error {
	if err := aligned(KindByteMasked, n.content, n.Len()); err != nil {
		return err
	}
	if v == nil {
		if err := n.content.pushDummy(); err != nil {
			return err
		}
		n.flag(false)
		return nil
	}
	if err := n.content.push(v); err != nil {
		return err
	}
	n.flag(true)
	return nil
}

func (n *ByteMasked) pushDummy() error {
	if err := n.content.pushDummy(); err != nil {
		return err
	}
	n.flag(true)
	return nil
}

func (n *ByteMasked) end(k Kind) error {
	if err := aligned(KindByteMasked, n.content, n.Len()); err != nil {
		return err
	}
	if err := n.content.end(k); err != nil {
		return err
	}
	n.flag(true)
	return nil
}

func (n *ByteMasked) mark() func() {
	size := n.mask.Len()
	restore := n.content.mark()
	return func() {
		n.mask.Truncate(size)
		restore()
	}
}

func (n *ByteMasked) emptyLike() Node {
	return &ByteMasked{meta: n.meta, mask: buffer.Make[int8](0), content: n.content.emptyLike(), validWhen: n.validWhen}
}

func (n *ByteMasked) project(sel FieldSelector) (Node, error) {
	content, err := n.content.project(sel)
	if err != nil {
		return nil, err
	}
	return &ByteMasked{meta: n.meta, mask: n.mask, content: content, validWhen: n.validWhen}, nil
}

// BitMasked marks missing elements with one bit per element, eight per byte.
// lsbOrder selects whether element 0 of each byte is the least significant
// bit. An element is valid when its bit equals validWhen.
type BitMasked struct {
	meta
	mask      *buffer.Buffer[uint8]
	content   Node
	validWhen bool
	lsbOrder  bool
	length    int
}

// NewBitMasked returns a BitMasked of length elements over content. A nil
// mask yields an empty builder.
func NewBitMasked(mask *buffer.Buffer[uint8], content Node, validWhen, lsbOrder bool, length int, opts ...Option) *BitMasked {
	if mask == nil {
		mask = buffer.Make[uint8](0)
	}
	return &BitMasked{
		meta:      newMeta(opts),
		mask:      mask,
		content:   content,
		validWhen: validWhen,
		lsbOrder:  lsbOrder,
		length:    length,
	}
}

func (n *BitMasked) Kind() Kind { return KindBitMasked }

func (n *BitMasked) Len() int { return n.length }

// Mask returns the packed validity bits.
func (n *BitMasked) Mask() *buffer.Buffer[uint8] { return n.mask }

// ValidWhen returns the mask polarity.
func (n *BitMasked) ValidWhen() bool { return n.validWhen }

// LSBOrder reports whether bits are packed least significant first.
func (n *BitMasked) LSBOrder() bool { return n.lsbOrder }

// Content returns the masked child.
func (n *BitMasked) Content() Node { return n.content }

func (n *BitMasked) shift(i int) uint {
	if n.lsbOrder {
		return uint(i % 8)
	}
	return uint(7 - i%8)
}

func (n *BitMasked) isMissing(i int) bool {
	if i/8 >= n.mask.Len() {
		return true
	}
	bit := n.mask.At(i/8)>>n.shift(i)&1 == 1
	return bit != n.validWhen
}

func (n *BitMasked) Get(i int) (any, error) { return get(n, i) }

func (n *BitMasked) at(i int) (any, error) {
	if i/8 >= n.mask.Len() {
		return nil, &BoundsError{Index: int64(i / 8), Length: n.mask.Len()}
	}
	if n.isMissing(i) {
		return nil, nil
	}
	if i >= n.content.Len() {
		return nil, &BoundsError{Index: int64(i), Length: n.content.Len()}
	}
	return n.content.at(i)
}

// Slice shares the mask when start is a multiple of 8 and returns an
// Indexed view otherwise.
func (n *BitMasked) Slice(start, stop int) (Node, error) {
	if err := checkRange(start, stop, n.Len()); err != nil {
		return nil, err
	}
	if start%8 != 0 {
		return Take(n, rangeIndex(start, stop))
	}
	bytes := (stop + 7) / 8
	if bytes > n.mask.Len() {
		return nil, &BoundsError{Index: int64(bytes), Length: n.mask.Len()}
	}
	content, err := n.content.Slice(start, stop)
	if err != nil {
		return nil, err
	}
	return &BitMasked{
		meta:      n.meta,
		mask:      n.mask.Slice(start/8, bytes),
		content:   content,
		validWhen: n.validWhen,
		lsbOrder:  n.lsbOrder,
		length:    stop - start,
	}, nil
}

func (n *BitMasked) validate(path string, c *collector) {
	if n.length < 0 {
		c.add(path, KindBitMasked, "length %d is negative", n.length)
	}
	if need := (n.length + 7) / 8; n.mask.Len() < need {
		c.add(path, KindBitMasked, "mask has %d bytes, need %d for length %d", n.mask.Len(), need, n.length)
	}
	if n.content.Len() < n.length {
		c.add(path, KindBitMasked, "content length %d < length %d", n.content.Len(), n.length)
	}
	n.content.validate(path+".content", c)
}

func (n *BitMasked) withParams(p Parameters) Node {
	c := *n
	c.params = p
	return &c
}

func (n *BitMasked) accepts(v any) bool { return v == nil || n.content.accepts(v) }

func (n *BitMasked) flag(valid bool) {
	i := n.length
	if i/8 >= n.mask.Len() {
		n.mask.Append(0)
	}
	b := n.mask.At(i / 8)
	bit := uint8(1) << n.shift(i)
	if valid == n.validWhen {
		b |= bit
	} else {
		b &^= bit
	}
	n.mask.Set(i/8, b)
	n.length++
}

func (n *BitMasked) push(v any) error {
	if err := aligned(KindBitMasked, n.content, n.length); err != nil {
		return err
	}
	if v == nil {
		if err := n.content.pushDummy(); err != nil {
			return err
		}
		n.flag(false)
		return nil
	}
	if err := n.content.push(v); err != nil {
		return err
	}
	n.flag(true)
	return nil
}

func (n *BitMasked) pushDummy() error {
	if err := n.content.pushDummy(); err != nil {
		return err
	}
	n.flag(true)
	return nil
}

func (n *BitMasked) end(k Kind) error {
	if err := aligned(KindBitMasked, n.content, n.length); err != nil {
		return err
	}
	if err := n.content.end(k); err != nil {
		return err
	}
	n.flag(true)
	return nil
}

func (n *BitMasked) mark() func() {
	size, length := n.mask.Len(), n.length
	pos := min(length/8, size)
	saved := slices.Clone(n.mask.Data()[pos:size])
	restore := n.content.mark()
	return func() {
		n.mask.Truncate(size)
		copy(n.mask.Data()[pos:], saved)
		n.length = length
		restore()
	}
}

func (n *BitMasked) emptyLike() Node {
	return &BitMasked{
		meta:      n.meta,
		mask:      buffer.Make[uint8](0),
		content:   n.content.emptyLike(),
		validWhen: n.validWhen,
		lsbOrder:  n.lsbOrder,
	}
}

func (n *BitMasked) project(sel FieldSelector) (Node, error) {
	content, err := n.content.project(sel)
	if err != nil {
		return nil, err
	}
	c := *n
	c.content = content
	return &c, nil
}

// Unmasked declares an option type without missing elements.
type Unmasked struct {
	meta
	content Node
}

// NewUnmasked wraps content.
func NewUnmasked(content Node, opts ...Option) *Unmasked {
	return &Unmasked{meta: newMeta(opts), content: content}
}

func (n *Unmasked) Kind() Kind { return KindUnmasked }

func (n *Unmasked) Len() int { return n.content.Len() }

// Content returns the wrapped child.
func (n *Unmasked) Content() Node { return n.content }

func (n *Unmasked) isMissing(int) bool { return false }

func (n *Unmasked) Get(i int) (any, error) { return get(n, i) }

func (n *Unmasked) at(i int) (any, error) { return n.content.at(i) }

func (n *Unmasked) Slice(start, stop int) (Node, error) {
	content, err := n.content.Slice(start, stop)
	if err != nil {
		return nil, err
	}
	return &Unmasked{meta: n.meta, content: content}, nil
}

func (n *Unmasked) validate(path string, c *collector) {
	n.content.validate(path+".content", c)
}

func (n *Unmasked) withParams(p Parameters) Node {
	return &Unmasked{meta: meta{params: p}, content: n.content}
}

func (n *Unmasked) accepts(v any) bool { return v != nil && n.content.accepts(v) }

func (n *Unmasked) push(v any) error {
	if v == nil {
		return unsupported("push_null", KindUnmasked)
	}
	return n.content.push(v)
}

func (n *Unmasked) pushDummy() error { return n.content.pushDummy() }

func (n *Unmasked) end(k Kind) error { return n.content.end(k) }

func (n *Unmasked) mark() func() { return n.content.mark() }

func (n *Unmasked) emptyLike() Node {
	return &Unmasked{meta: n.meta, content: n.content.emptyLike()}
}

func (n *Unmasked) project(sel FieldSelector) (Node, error) {
	content, err := n.content.project(sel)
	if err != nil {
		return nil, err
	}
	return &Unmasked{meta: n.meta, content: content}, nil
}

// aligned checks that a masked builder's content has one slot per element.
func aligned(k Kind, content Node, length int) error {
	if content.Len() != length {
		return &Violation{
			Path:   "root",
			Kind:   k,
			Detail: fmt.Sprintf("content length %d != length %d, cannot append", content.Len(), length),
		}
	}
	return nil
}
