// Package cache provides a generic least-recently-used cache with an
// eviction callback, used to keep pre-rendered frame sets alive between
// phase switches.
//
//	c := cache.NewLRU[string, int](8, nil)
//	c.Put("key", 42)
//	value, ok := c.Get("key")
//
// # Thread Safety
//
// LRU is safe for concurrent use. It must not be copied after creation.
package cache
