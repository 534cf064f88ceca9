// Package cache provides byte-bounded LRU caches for immutable blob blocks.
//
// LRU is a single-mutex cache. Sharded spreads keys over 64 LRU shards to
// reduce lock contention when many buffers load in parallel. Both can charge
// their bytes to a resource.Controller memory budget; a block that does not
// fit the budget is simply not cached.
package cache
