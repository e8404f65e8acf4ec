// Package vorbis reads and writes Vorbis comment blocks.
//
// A block is a vendor string followed by UTF-8 "KEY=VALUE" entries, every
// length stored as a 32-bit little-endian integer. Field names are
// case-insensitive.
package vorbis

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/simonhull/mqascan/internal/binary"
)

// Comments is a decoded Vorbis comment block. Entry order is preserved.
type Comments struct {
	Vendor  string
	Entries []string
}

// Parse decodes a VORBIS_COMMENT block body.
func Parse(data []byte, path string) (*Comments, error) {
	sr := binary.NewSafeReader(bytes.NewReader(data), int64(len(data)), path)
	offset := int64(0)

	vendorLength, err := binary.ReadLE[uint32](sr, offset, "vendor string length")
	if err != nil {
		return nil, err
	}
	offset += 4

	if int64(vendorLength) > int64(len(data))-offset {
		return nil, fmt.Errorf("%s: vendor length %d exceeds block size %d", path, vendorLength, len(data))
	}
	vendor := make([]byte, vendorLength)
	if vendorLength > 0 {
		if err := sr.ReadAt(vendor, offset, "vendor string"); err != nil {
			return nil, err
		}
	}
	offset += int64(vendorLength)

	count, err := binary.ReadLE[uint32](sr, offset, "number of comments")
	if err != nil {
		return nil, err
	}
	offset += 4

	// Each entry needs at least its 4-byte length, so a count larger than
	// the remaining bytes allow is corrupt.
	if int64(count)*4 > int64(len(data))-offset {
		return nil, fmt.Errorf("%s: comment count %d exceeds block size %d", path, count, len(data))
	}

	c := &Comments{Vendor: string(vendor), Entries: make([]string, 0, count)}
	for i := uint32(0); i < count; i++ {
		n, err := binary.ReadLE[uint32](sr, offset, "comment length")
		if err != nil {
			return nil, fmt.Errorf("read comment %d length: %w", i, err)
		}
		offset += 4

		if int64(n) > int64(len(data))-offset {
			return nil, fmt.Errorf("%s: comment %d length %d exceeds block size %d", path, i, n, len(data))
		}
		entry := make([]byte, n)
		if n > 0 {
			if err := sr.ReadAt(entry, offset, fmt.Sprintf("comment %d", i)); err != nil {
				return nil, fmt.Errorf("read comment %d: %w", i, err)
			}
		}
		offset += int64(n)
		c.Entries = append(c.Entries, string(entry))
	}

	return c, nil
}

// Encode serializes the block body.
func (c *Comments) Encode() []byte {
	var buf bytes.Buffer
	sw := binary.NewSafeWriter(&buf)

	// Writes to a bytes.Buffer cannot fail.
	_ = binary.WriteLE(sw, uint32(len(c.Vendor)))
	_ = sw.WriteString(c.Vendor)
	_ = binary.WriteLE(sw, uint32(len(c.Entries)))
	for _, e := range c.Entries {
		_ = binary.WriteLE(sw, uint32(len(e)))
		_ = sw.WriteString(e)
	}
	return buf.Bytes()
}

// Get returns the value of the first entry whose field name matches key.
func (c *Comments) Get(key string) (string, bool) {
	for _, e := range c.Entries {
		name, value, ok := strings.Cut(e, "=")
		if ok && strings.EqualFold(name, key) {
			return value, true
		}
	}
	return "", false
}

// Has reports whether an entry with the field name key exists.
func (c *Comments) Has(key string) bool {
	_, ok := c.Get(key)
	return ok
}

// Add appends a KEY=VALUE entry. Existing entries are left alone.
func (c *Comments) Add(key, value string) {
	c.Entries = append(c.Entries, strings.ToUpper(key)+"="+value)
}

// AddIfAbsent appends the entry only when no entry with that field name
// exists, and reports whether it did.
func (c *Comments) AddIfAbsent(key, value string) bool {
	if c.Has(key) {
		return false
	}
	c.Add(key, value)
	return true
}
