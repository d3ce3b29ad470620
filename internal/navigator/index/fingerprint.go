package index

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"
)

// fingerprintCache tracks per-path mtime/size so unchanged files skip the
// cost of a fresh digest and re-tokenization, the way the teacher's
// FileCache avoids re-hashing unchanged files across scans.
type fingerprintCache struct {
	entries map[string]Fingerprint
}

func newFingerprintCache() *fingerprintCache {
	return &fingerprintCache{entries: make(map[string]Fingerprint)}
}

// Unchanged reports whether path's fingerprint matches the cached one for
// the given on-disk modtime/size, without reading the file.
func (c *fingerprintCache) Unchanged(path string, modTime int64, size int64) bool {
	entry, ok := c.entries[path]
	if !ok {
		return false
	}
	return entry.ModTime == modTime && entry.Size == size
}

func (c *fingerprintCache) Record(path string, fp Fingerprint) {
	c.entries[path] = fp
}

func digestFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
