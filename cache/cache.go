/*
Package cache maps source paths to the locations of their derived
artifacts. Addressing is pure: the same source path always yields the
same key and the same on-disk locations, with no I/O involved.
*/
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"path/filepath"
)

// Key returns the cache key for a source path: the hex SHA-256 digest
// of the path's raw bytes. Paths that are not valid UTF-8 hash the same
// way as any other byte sequence.
func Key(src string) string {
	sum := sha256.Sum256([]byte(src))
	return hex.EncodeToString(sum[:])
}

// Store locates derived artifacts under the cache root.
type Store struct {
	ThumbDir string
	HLSDir   string
}

// ThumbFile returns where the thumbnail for src lives. The first two
// hex chars of the key form a shard directory so no single directory
// collects every thumbnail. A zero-byte file at this location is the
// failure sentinel.
func (s Store) ThumbFile(src string) string {
	k := Key(src)
	return filepath.Join(s.ThumbDir, k[:2], k[2:]+".jpg")
}

// JobDir returns the directory holding the playlist, segments and state
// markers of the transcode job for a key.
func (s Store) JobDir(key string) string {
	return filepath.Join(s.HLSDir, key)
}
