package cache

import (
	"container/list"
	"sync"
	"sync/atomic"

	"github.com/hupe1980/jagged/resource"
)

// LRU is a least-recently-used BlockCache bounded by total bytes.
type LRU struct {
	mu        sync.Mutex
	capacity  int64
	size      int64
	items     map[Key]*list.Element
	evictList *list.List
	rc        *resource.Controller

	hits   atomic.Int64
	misses atomic.Int64
}

type entry struct {
	key   Key
	value []byte
}

// NewLRU creates a cache holding at most capacity bytes. A non-nil rc is
// charged for every cached byte.
func NewLRU(capacity int64, rc *resource.Controller) *LRU {
	return &LRU{
		capacity:  capacity,
		items:     make(map[Key]*list.Element),
		evictList: list.New(),
		rc:        rc,
	}
}

func (c *LRU) Get(key Key) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.items[key]; ok {
		c.hits.Add(1)
		c.evictList.MoveToFront(e)
		return e.Value.(*entry).value, true
	}
	c.misses.Add(1)
	return nil, false
}

func (c *LRU) Set(key Key, b []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()

	size := int64(len(b))
	if size > c.capacity {
		return
	}
	if e, ok := c.items[key]; ok {
		c.removeElement(e)
	}
	for c.size+size > c.capacity {
		back := c.evictList.Back()
		if back == nil {
			break
		}
		c.removeElement(back)
	}
	// Never block a reader on the budget; skip caching instead.
	if !c.rc.TryAcquireMemory(size) {
		return
	}
	c.items[key] = c.evictList.PushFront(&entry{key: key, value: b})
	c.size += size
}

func (c *LRU) Invalidate(predicate func(key Key) bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var drop []*list.Element
	for key, e := range c.items {
		if predicate(key) {
			drop = append(drop, e)
		}
	}
	for _, e := range drop {
		c.removeElement(e)
	}
}

func (c *LRU) Stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}

func (c *LRU) Size() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.size
}

func (c *LRU) removeElement(e *list.Element) {
	c.evictList.Remove(e)
	ent := e.Value.(*entry)
	delete(c.items, ent.key)
	size := int64(len(ent.value))
	c.size -= size
	c.rc.ReleaseMemory(size)
}
