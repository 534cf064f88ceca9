// Package layout implements the columnar node type system.
//
// A Node is one array of Len() logical elements whose physical encoding is one
// of a closed set of variants:
//
//	Primitive      flat buffer of fixed-width scalars
//	Empty          zero-length placeholder of unknown type
//	ListOffset     variable-length lists over offsets (len+1 entries)
//	List           variable-length lists over independent starts/stops
//	Regular        fixed-size lists, no index buffer
//	Record, Tuple  named or positional fields of equal length
//	Indexed        lazy gather view over a child
//	IndexedOption  as Indexed, negative index means missing
//	ByteMasked     byte-per-element validity mask
//	BitMasked      bit-packed validity mask with explicit bit order
//	Unmasked       option type with no missing elements
//	Union          tagged heterogeneous specializations
//
// Every variant shares the same read contract (Get, Slice, Values, Equal,
// Validate) and the same append-only builder contract (Push, Extend, PushNull,
// PushDummy, EndList, EndRecord, EndTuple). Builder calls are atomic: a call
// that fails leaves the node exactly as it was.
//
// Readers may share a node across goroutines. Builders require a single writer.
package layout
