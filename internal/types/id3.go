package types

import (
	"io"

	"github.com/simonhull/mqascan/internal/binary"
)

// ID3v2Size returns the length of an ID3v2 tag at the start of r, footer
// included, or 0 when there is none. Some taggers prepend one to FLAC
// files; the stream signature follows it.
func ID3v2Size(r io.ReaderAt, size int64) int64 {
	sr := binary.NewSafeReader(r, size, "")

	buf := make([]byte, 10)
	if err := sr.ReadAt(buf, 0, "ID3v2 header"); err != nil {
		return 0
	}
	if string(buf[0:3]) != "ID3" || buf[3] == 0xFF || buf[4] == 0xFF {
		return 0
	}
	for _, b := range buf[6:10] {
		if b&0x80 != 0 {
			return 0
		}
	}

	total := 10 + int64(decodeSynchsafe(buf[6:10]))
	if buf[5]&0x10 != 0 {
		total += 10 // footer
	}
	if total > size {
		return 0
	}
	return total
}

// decodeSynchsafe decodes a synchsafe integer (7 bits per byte).
func decodeSynchsafe(b []byte) uint32 {
	return uint32(b[0]&0x7F)<<21 |
		uint32(b[1]&0x7F)<<14 |
		uint32(b[2]&0x7F)<<7 |
		uint32(b[3]&0x7F)
}
