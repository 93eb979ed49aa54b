package lrucache

import (
	"container/list"
	"sync"
	"time"
)

type LruCache[K comparable, V any] interface {
	Get(key K) (V, bool)
	Add(key K, val V)
	Remove(key K) bool
	Len() int
}

type lruCache[K comparable, V any] struct {
	mu  sync.Mutex
	cap int
	ttl time.Duration
	now func() time.Time
	ll  *list.List
	m   map[K]*list.Element
}

type lruCacheEntry[K comparable, V any] struct {
	key     K
	val     V
	expires time.Time
}

type Option[K comparable, V any] func(*lruCache[K, V])

// WithTTL expires entries ttl after they were last added. Reads do not
// extend an entry's life.
func WithTTL[K comparable, V any](ttl time.Duration) Option[K, V] {
	return func(c *lruCache[K, V]) { c.ttl = ttl }
}

func WithClock[K comparable, V any](now func() time.Time) Option[K, V] {
	return func(c *lruCache[K, V]) { c.now = now }
}

func NewLruCache[K comparable, V any](capacity int, opts ...Option[K, V]) LruCache[K, V] {
	c := &lruCache[K, V]{cap: max(1, capacity), now: time.Now, ll: list.New(), m: make(map[K]*list.Element)}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *lruCache[K, V]) expired(ent *lruCacheEntry[K, V]) bool {
	return c.ttl > 0 && !c.now().Before(ent.expires)
}

func (c *lruCache[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if ele, ok := c.m[key]; ok {
		ent := ele.Value.(*lruCacheEntry[K, V])
		if c.expired(ent) {
			c.removeElement(ele)
			return *new(V), false
		}
		c.ll.MoveToFront(ele)
		return ent.val, true
	}
	return *new(V), false
}

func (c *lruCache[K, V]) Add(key K, val V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	ent := &lruCacheEntry[K, V]{key: key, val: val, expires: c.now().Add(c.ttl)}
	if ele, ok := c.m[key]; ok {
		ele.Value = ent
		c.ll.MoveToFront(ele)
		return
	}
	ele := c.ll.PushFront(ent)
	c.m[key] = ele
	if c.ll.Len() > c.cap {
		if tail := c.ll.Back(); tail != nil {
			c.removeElement(tail)
		}
	}
}

func (c *lruCache[K, V]) Remove(key K) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	ele, ok := c.m[key]
	if ok {
		c.removeElement(ele)
	}
	return ok
}

// Len counts entries, expired or not, that have not been evicted yet.
func (c *lruCache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ll.Len()
}

func (c *lruCache[K, V]) removeElement(ele *list.Element) {
	c.ll.Remove(ele)
	delete(c.m, ele.Value.(*lruCacheEntry[K, V]).key)
}
