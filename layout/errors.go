package layout

import (
	"errors"
	"fmt"

	"github.com/hupe1980/jagged/buffer"
)

var (
	// ErrStructuralViolation is matched by every *Violation.
	ErrStructuralViolation = errors.New("structural violation")
	// ErrBounds is returned for positions outside a node or child.
	ErrBounds = errors.New("index out of bounds")
	// ErrFieldCountMismatch is returned for unevenly filled rows and unknown fields.
	ErrFieldCountMismatch = errors.New("field count mismatch")
	// ErrUnsupported is returned when a variant does not support an operation.
	ErrUnsupported = errors.New("unsupported operation")
	// ErrParameterNotFound is returned by Parameter for absent keys.
	ErrParameterNotFound = errors.New("parameter not found")
)

// BoundsError reports an index outside [0, Length).
type BoundsError struct {
	Index  int64
	Length int
}

func (e *BoundsError) Error() string {
	return fmt.Sprintf("index %d out of bounds for length %d", e.Index, e.Length)
}

func (e *BoundsError) Is(target error) bool { return target == ErrBounds }

// FieldError reports a field that is missing or unevenly filled.
type FieldError struct {
	Field  string
	Detail string
}

func (e *FieldError) Error() string {
	if e.Field == "" {
		return "field count mismatch: " + e.Detail
	}
	return fmt.Sprintf("field %q: %s", e.Field, e.Detail)
}

func (e *FieldError) Is(target error) bool { return target == ErrFieldCountMismatch }

// UnsupportedError reports an operation a variant cannot perform.
type UnsupportedError struct {
	Op   string
	Kind Kind
}

func (e *UnsupportedError) Error() string {
	return fmt.Sprintf("%s is not supported by %s", e.Op, e.Kind)
}

func (e *UnsupportedError) Is(target error) bool { return target == ErrUnsupported }

// Violation is one broken structural invariant found by Validate.
type Violation struct {
	// Path locates the node, e.g. "root.content.field[x]".
	Path   string
	Kind   Kind
	Detail string
}

func (v *Violation) Error() string {
	return fmt.Sprintf("%s (%s): %s", v.Path, v.Kind, v.Detail)
}

func (v *Violation) Is(target error) bool { return target == ErrStructuralViolation }

func unsupported(op string, k Kind) error {
	return &UnsupportedError{Op: op, Kind: k}
}

func checkBounds(i, length int) error {
	if i < 0 || i >= length {
		return &BoundsError{Index: int64(i), Length: length}
	}
	return nil
}

func checkRange(start, stop, length int) error {
	if start < 0 || start > length {
		return &BoundsError{Index: int64(start), Length: length}
	}
	if stop < start || stop > length {
		return &BoundsError{Index: int64(stop), Length: length}
	}
	return nil
}

func overflow(err error) error {
	return fmt.Errorf("%w: %w", ErrBounds, err)
}

func overflowValue(v any, dt buffer.DType) error {
	return fmt.Errorf("%w: %v does not fit %s", ErrBounds, v, dt)
}
