// Package testutil provides testing utilities for jagged.
//
// This package is intended for use in tests and benchmarks only. It
// generates random schemas and values with a seeded, thread-safe RNG so that
// property tests are reproducible.
//
// # Random Values
//
//	rng := testutil.NewRNG(seed)
//	schema := rng.Schema(3)             // nested at most 3 levels
//	node, values, _ := rng.Node(schema, 100)
//
// # Tree Helpers
//
//	testutil.Walk(node, func(n layout.Node) { ... })
//	list := testutil.AsList(listOffset) // same lists, separate starts/stops
package testutil
