// Package cache provides layout memoization for schemascope.
//
// The core layout engine is a pure function, so results can be memoized
// outside it, keyed by a hash of the schema graph plus the layout options.
// This package defines the Cache interface with three backends:
//   - file: directory-based storage for CLI usage
//   - redis: shared storage for the serve surface
//   - null: disabled caching for tests and one-shot runs
//
// Keyers turn domain inputs into stable cache keys; ScopedKeyer prefixes
// keys for namespace isolation when one backend serves several contexts.
package cache

import (
	"context"
	"time"
)

// Cache stores opaque byte values with optional expiration.
type Cache interface {
	// Get retrieves a value. The second result reports whether the key was
	// present and unexpired.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A non-positive ttl means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// DiagramKeyOpts captures every layout option that affects a built
// diagram. Two calls with different opts must never share a cache entry.
type DiagramKeyOpts struct {
	MaxLanes          int     `json:"max_lanes"`
	TargetAspectRatio float64 `json:"target_aspect_ratio"`
	GridColumns       int     `json:"grid_columns"`
	Focus             string  `json:"focus,omitempty"`
}

// ArtifactKeyOpts captures rendering options for cached artifacts.
type ArtifactKeyOpts struct {
	Format string `json:"format"` // "svg", "png", "dot"
}

// Keyer generates cache keys from domain inputs.
type Keyer interface {
	// DiagramKey generates a key for a built diagram, from the schema
	// graph's content hash and the layout options.
	DiagramKey(graphHash string, opts DiagramKeyOpts) string

	// ArtifactKey generates a key for a rendered artifact, from the
	// diagram's content hash and the render options.
	ArtifactKey(diagramHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer is the standard key scheme: a type prefix plus a SHA-256
// hash over the inputs.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer { return &DefaultKeyer{} }

// DiagramKey generates a key for a built diagram.
func (k *DefaultKeyer) DiagramKey(graphHash string, opts DiagramKeyOpts) string {
	return optionKey("diagram", graphHash, opts)
}

// ArtifactKey generates a key for a rendered artifact.
func (k *DefaultKeyer) ArtifactKey(diagramHash string, opts ArtifactKeyOpts) string {
	return optionKey("artifact", diagramHash, opts)
}
