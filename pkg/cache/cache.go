// Package cache provides pluggable byte caches for rendered artifacts.
//
// Rendering a large treebank to SVG or PNG is the slow path of the
// pipeline; artifacts are cached under a content hash of the input and the
// output kind, so re-rendering an unchanged file is a cache hit. Three
// backends are provided:
//
//   - FileCache: directory-based, for CLI usage
//   - RedisCache: shared, for the HTTP server
//   - NullCache: no-op, for tests or when caching is disabled
package cache

import (
	"context"
	"time"
)

// Cache is the interface all cache backends implement.
// A miss is reported through the bool, not through an error.
type Cache interface {
	// Get retrieves a value from the cache.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value with the given TTL. A TTL of 0 never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value from the cache.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// ArtifactKey builds the cache key for a rendered artifact: the output kind
// prefixed to a content hash of the input, so the same input rendered to a
// different kind never collides.
func ArtifactKey(kind string, input []byte) string {
	return kind + ":" + Hash(input)
}
