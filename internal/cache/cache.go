// Package cache provides a small generic LRU cache with optional expiry.
package cache

// Cache defines a generic cache interface
type Cache[T any] interface {
	Get(key string) (T, bool)
	Set(key string, data T)
	Delete(key string)
	Purge()
	Size() int
	Stats() Stats
}

// Stats are cumulative counters since the cache was created.
type Stats struct {
	Hits      uint64
	Misses    uint64
	Evictions uint64
}
