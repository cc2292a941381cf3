// Package cache provides a generic, thread-safe LRU cache.
//
// LRUCache is used as the in-memory fallback medium for feature overrides:
// it keeps the most recently written overrides and evicts the oldest ones once
// its capacity is reached, so a long-running process cannot grow without bound
// when no persistent store is configured.
//
//	c := cache.NewLRUCache[string, string](1024)
//	c.Put("ff_checkout-v2", "on")
//	v, ok := c.Get("ff_checkout-v2")
//
// All methods lock a single mutex; Get also updates recency, so it takes the
// write lock rather than a read lock.
package cache
