// Package cache provides the byte cache shared by the CLI and the HTTP
// server.
//
// Three backends implement [Cache]:
//
//   - [FileCache]: JSON entry files under a directory, used by the CLI
//   - [RedisCache]: a Redis instance, used by the server to share archives
//   - [NullCache]: stores nothing, used when caching is disabled
//
// Cache keys are built by a [Keyer] so that every component derives them the
// same way:
//
//	keyer := cache.NewDefaultKeyer()
//	key := keyer.ArchiveKey(graphHash, cache.ArchiveKeyOpts{Mode: "All", Seed: 7})
//	data, hit, err := c.Get(ctx, key)
package cache

import (
	"context"
	"time"
)

// Default TTLs per entry kind.
const (
	// TTLGraph is how long downloaded knowledge graphs are kept.
	TTLGraph = 7 * 24 * time.Hour

	// TTLArchive is how long generated dataset archives are kept.
	TTLArchive = 24 * time.Hour
)

// Cache stores opaque byte values under string keys.
type Cache interface {
	// Get returns the value for key. The bool is false on a miss.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of 0 means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Keyer derives cache keys.
type Keyer interface {
	// HTTPKey is the key for a downloaded resource.
	HTTPKey(namespace, key string) string

	// ArchiveKey is the key for a zipped dataset generated from the graph
	// with content hash graphHash.
	ArchiveKey(graphHash string, opts ArchiveKeyOpts) string
}

// ArchiveKeyOpts are the generation options that change archive content.
type ArchiveKeyOpts struct {
	Mode              string          `json:"mode"`
	Seed              int64           `json:"seed"`
	NumberOfWorkbooks int             `json:"number_of_workbooks"`
	Locale            string          `json:"locale"`
	Patterns          map[string]bool `json:"patterns,omitempty"`
	Artifacts         []string        `json:"artifacts,omitempty"`
}

// DefaultKeyer builds plain keys.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// HTTPKey returns "http:<namespace>:<key>".
func (DefaultKeyer) HTTPKey(namespace, key string) string {
	return "http:" + namespace + ":" + key
}

// ArchiveKey hashes the graph hash together with the options.
func (DefaultKeyer) ArchiveKey(graphHash string, opts ArchiveKeyOpts) string {
	return hashKey("archive", graphHash, opts)
}
