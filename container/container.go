package container

import (
	"errors"
	"io"

	"github.com/hupe1980/jagged/form"
	"github.com/hupe1980/jagged/layout"
)

// Container is a loaded node together with its descriptor.
//
// Nodes opened from mapped files or mappable blobs alias that storage;
// they must not be used after Close.
type Container struct {
	Node   layout.Node
	Form   *form.Form
	Length int
	// Generation is the blob-store generation the node was loaded from.
	Generation string

	closers []io.Closer
}

// Close releases the storage backing the node.
func (c *Container) Close() error {
	var errs []error
	for _, cl := range c.closers {
		errs = append(errs, cl.Close())
	}
	c.closers = nil
	return errors.Join(errs...)
}
