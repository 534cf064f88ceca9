package jagged

import (
	"errors"
	"fmt"

	"github.com/hupe1980/jagged/blobstore"
	"github.com/hupe1980/jagged/container"
	"github.com/hupe1980/jagged/form"
	"github.com/hupe1980/jagged/layout"
)

var (
	// ErrInvalidInput is returned when values, descriptors, buffers or
	// stored containers cannot form a valid node.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotFound is returned when a container or one of its blobs does not
	// exist.
	ErrNotFound = errors.New("not found")
)

// translateError wraps package errors with the root sentinels. The original
// error stays reachable through errors.Is and errors.As.
func translateError(err error) error {
	if err == nil {
		return nil
	}

	// Not found unification.
	if errors.Is(err, blobstore.ErrNotFound) {
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	}

	for _, target := range []error{
		layout.ErrStructuralViolation,
		layout.ErrBounds,
		layout.ErrFieldCountMismatch,
		layout.ErrUnsupported,
		form.ErrInvalidForm,
		form.ErrMissingBuffer,
		container.ErrInvalidFormat,
		container.ErrChecksum,
		container.ErrUnknownCodec,
	} {
		if errors.Is(err, target) {
			return fmt.Errorf("%w: %w", ErrInvalidInput, err)
		}
	}

	return err
}
