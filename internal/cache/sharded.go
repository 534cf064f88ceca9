package cache

import (
	"hash/maphash"

	"github.com/hupe1980/jagged/resource"
)

const numShards = 64

// Sharded distributes keys over 64 LRU shards.
type Sharded struct {
	shards [numShards]*LRU
	seed   maphash.Seed
}

// NewSharded creates a sharded cache. capacity is split evenly across the
// shards.
func NewSharded(capacity int64, rc *resource.Controller) *Sharded {
	s := &Sharded{seed: maphash.MakeSeed()}
	per := max(capacity/numShards, 1)
	for i := range s.shards {
		s.shards[i] = NewLRU(per, rc)
	}
	return s
}

func (s *Sharded) shard(key Key) *LRU {
	return s.shards[maphash.Comparable(s.seed, key)%numShards]
}

func (s *Sharded) Get(key Key) ([]byte, bool) { return s.shard(key).Get(key) }

func (s *Sharded) Set(key Key, b []byte) { s.shard(key).Set(key, b) }

func (s *Sharded) Invalidate(predicate func(key Key) bool) {
	for _, sh := range s.shards {
		sh.Invalidate(predicate)
	}
}

func (s *Sharded) Stats() (hits, misses int64) {
	for _, sh := range s.shards {
		h, m := sh.Stats()
		hits += h
		misses += m
	}
	return hits, misses
}

func (s *Sharded) Size() int64 {
	var total int64
	for _, sh := range s.shards {
		total += sh.Size()
	}
	return total
}
