package layout

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"sync"
)

// Fingerprint hashes the layout inputs. Booking order is part of the hash
// because equal start dates are laid out in input order. Strings are length
// prefixed and keys are written field by field, so distinct inputs cannot
// render to the same byte stream.
func Fingerprint(bookings []Booking, resources []ResourceKey) string {
	h := sha256.New()
	buf := make([]byte, 0, 128)
	for _, key := range resources {
		buf = append(buf[:0], 'R')
		buf = appendKey(buf, key)
		h.Write(buf)
	}
	for _, b := range bookings {
		buf = append(buf[:0], 'B')
		buf = binary.AppendVarint(buf, b.ID)
		buf = appendKey(buf, b.Resource)
		buf = appendString(buf, b.Start)
		buf = appendString(buf, b.End)
		h.Write(buf)
	}
	return hex.EncodeToString(h.Sum(nil))
}

func appendKey(buf []byte, key ResourceKey) []byte {
	buf = appendString(buf, key.Equipment)
	buf = binary.AppendVarint(buf, int64(key.Side))
	return binary.AppendVarint(buf, int64(key.Kind))
}

func appendString(buf []byte, s string) []byte {
	buf = binary.AppendUvarint(buf, uint64(len(s)))
	return append(buf, s...)
}

// Cache holds the most recent layout and the fingerprint it was computed for.
// It is owned by the caller; there is no package-level cache.
type Cache struct {
	mu          sync.Mutex
	fingerprint string
	result      Result
	valid       bool
	hits        int
	misses      int
}

// NewCache returns an empty cache.
func NewCache() *Cache {
	return &Cache{}
}

// Get returns the cached layout when the inputs are unchanged and computes a
// fresh one otherwise. Errors are not cached. The returned Result is shared
// between callers and must be treated as read-only.
func (c *Cache) Get(bookings []Booking, resources []ResourceKey) (Result, error) {
	fp := Fingerprint(bookings, resources)

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.valid && c.fingerprint == fp {
		c.hits++
		return c.result, nil
	}
	c.misses++

	result, err := Compute(bookings, resources)
	if err != nil {
		c.valid = false
		return Result{}, err
	}
	c.fingerprint = fp
	c.result = result
	c.valid = true
	return result, nil
}

// Invalidate drops the cached layout.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	c.valid = false
	c.fingerprint = ""
	c.result = Result{}
	c.mu.Unlock()
}

// Stats reports cache hits and misses since creation.
func (c *Cache) Stats() (hits, misses int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}
