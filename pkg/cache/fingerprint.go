package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// Fingerprint returns the content hash used throughout the cache: the full
// hex SHA-256 of data. Callers fingerprint the serialized schema graph
// before building a diagram key and the DOT source before building an
// artifact key, so any change to the input invalidates its cached output.
func Fingerprint(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// optionKey derives a kind:hash cache key from a content fingerprint plus
// the option set that shaped the output. Options are folded in via their
// JSON form, so two runs differing in any option never share a key.
func optionKey(kind string, fingerprint string, opts any) string {
	data, _ := json.Marshal([]any{fingerprint, opts})
	sum := sha256.Sum256(data)
	return kind + ":" + hex.EncodeToString(sum[:])
}
