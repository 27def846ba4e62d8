package loader

import (
	"context"

	"github.com/graph-gophers/dataloader/v7"
	lru "github.com/hashicorp/golang-lru/v2"
)

const defaultCacheSize = 500

// lruCache is a bounded thunk cache for one request's loader.
type lruCache[K comparable, V any] struct {
	lruCache *lru.Cache[K, dataloader.Thunk[V]]
}

var _ dataloader.Cache[uint, int] = (*lruCache[uint, int])(nil)

func newLRUCache[K comparable, V any](size int) (*lruCache[K, V], error) {
	l, err := lru.New[K, dataloader.Thunk[V]](size)
	if err != nil {
		return nil, err
	}
	return &lruCache[K, V]{lruCache: l}, nil
}

func (c *lruCache[K, V]) Get(_ context.Context, key K) (dataloader.Thunk[V], bool) {
	return c.lruCache.Get(key)
}

func (c *lruCache[K, V]) Set(_ context.Context, key K, value dataloader.Thunk[V]) {
	c.lruCache.Add(key, value)
}

func (c *lruCache[K, V]) Delete(_ context.Context, key K) bool {
	return c.lruCache.Remove(key)
}

func (c *lruCache[K, V]) Clear() {
	c.lruCache.Purge()
}
