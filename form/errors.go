package form

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidForm is returned for malformed descriptors and for buffers
	// that do not reconstruct a valid tree.
	ErrInvalidForm = errors.New("invalid form")
	// ErrMissingBuffer is returned when a referenced buffer is absent.
	ErrMissingBuffer = errors.New("missing buffer")
)

// Error locates a failure within a form tree.
type Error struct {
	Path   string
	Detail string
	err    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s at %s: %s", e.err, e.Path, e.Detail)
}

func (e *Error) Unwrap() error { return e.err }

func invalid(path, format string, args ...any) error {
	return &Error{Path: path, Detail: fmt.Sprintf(format, args...), err: ErrInvalidForm}
}
