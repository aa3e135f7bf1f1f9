package object

import (
	"container/list"
	"sync"
)

// objectCache is a small LRU over decoded object bytes, keyed by hash.
// Content-addressed entries never change, so there is no invalidation.
type objectCache struct {
	maxEntries int
	mu         sync.Mutex
	order      *list.List
	items      map[string]*list.Element
}

type cacheEntry struct {
	hash string
	data []byte
}

func newObjectCache(maxEntries int) *objectCache {
	return &objectCache{
		maxEntries: maxEntries,
		order:      list.New(),
		items:      make(map[string]*list.Element),
	}
}

func (c *objectCache) get(hash string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.items[hash]
	if !ok {
		return nil, false
	}
	c.order.MoveToFront(el)
	return el.Value.(*cacheEntry).data, true
}

func (c *objectCache) add(hash string, data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.items[hash]; ok {
		c.order.MoveToFront(el)
		return
	}

	c.items[hash] = c.order.PushFront(&cacheEntry{hash: hash, data: data})
	if c.order.Len() > c.maxEntries {
		oldest := c.order.Back()
		c.order.Remove(oldest)
		delete(c.items, oldest.Value.(*cacheEntry).hash)
	}
}
