// Package resource bounds the memory, concurrency and I/O bandwidth used
// while moving containers to and from blob stores.
//
// A nil *Controller imposes no limits, so callers may pass one through
// unconditionally.
package resource
