// Package convert moves data between ordinary Go values and layout trees.
//
// FromIter scans a sequence once to infer the smallest node tree that holds
// every value, then drives that tree through the builder protocol:
//
//	integers          int64
//	any float         float64 (integers in the same column widen)
//	bool, time.Time   bool, datetime64[ns]
//	time.Duration     timedelta64[ns]
//	string, []byte    string, bytes
//	slices            var * T
//	arrays [N]T       N * T (var * T once lengths differ)
//	map[string]T      record; keys absent from some rows become ?T
//	nil               ?T, using the configured option variant
//	mixed families    union[...]
//
// ToVector is the inverse and returns nested []any, map[string]any and
// scalar values, with nil for missing elements.
package convert
