package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache stores converted article HTML keyed by a digest of its source
type Cache interface {
	Get(key string) (string, bool)
	Set(key string, value string, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// Key derives a cache key from a converter name and the source bytes.
// Keys are content addressed, so an entry never goes stale for its source.
func Key(converter string, source []byte) string {
	h := sha256.New()
	h.Write([]byte(converter))
	h.Write([]byte{0})
	h.Write(source)
	return "rclink:v1:" + hex.EncodeToString(h.Sum(nil))
}

// Nop is a Cache that never stores anything (used with --no-cache)
type Nop struct{}

func (Nop) Get(string) (string, bool)               { return "", false }
func (Nop) Set(string, string, time.Duration) error { return nil }
func (Nop) Delete(string) error                     { return nil }
func (Nop) Clear() error                            { return nil }
