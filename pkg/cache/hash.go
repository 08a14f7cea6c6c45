package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

// ProbeKey returns the cache key for an image-dimension probe of the file
// at path with the given size and modification time.
func ProbeKey(path string, size int64, modTime time.Time) string {
	return "probe:" + Hash([]byte(fmt.Sprintf("%s|%d|%d", path, size, modTime.UnixNano())))
}

// Hash computes a SHA-256 hash of the input data.
// Returns the full 64-character hex string.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}
