// Package form describes layout trees as serializable schema descriptors and
// moves them across a buffer boundary without copying.
//
// A Form mirrors a node tree: variant class, parameters, index widths and a
// form key per node. ToBuffers pairs a Form with a map of flat little-endian
// buffers named "{form_key}-{role}" (roles: data, offsets, starts, stops,
// index, tags, mask). FromBuffers binds those buffers back into nodes
// directly, so both sides share memory: writes through one are visible
// through the other. Buffers stay valid for as long as any node or map refers
// to them.
//
// The JSON encoding of a Form follows the external array ecosystem's layout
// (class names such as "ListOffsetArray", keys such as "form_key").
// Index positions are always zero-based.
package form
