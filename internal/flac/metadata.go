// Package flac adapts FLAC files for watermark scanning: a frame source on
// top of github.com/mewkiz/flac and a metadata-chain tagger.
package flac

import (
	"fmt"
	"io"

	"github.com/simonhull/mqascan/internal/binary"
	"github.com/simonhull/mqascan/internal/types"
)

// Metadata block types
const (
	blockTypeStreamInfo    = 0
	blockTypePadding       = 1
	blockTypeVorbisComment = 4
	blockTypeInvalid       = 127
)

const maxBlockLength = 1<<24 - 1

// block is one metadata block located in the file.
type block struct {
	Type   uint8
	Offset int64 // start of the block body
	Length int64
}

// chain is the metadata section of a FLAC file.
type chain struct {
	Start      int64 // offset of "fLaC", past any prepended ID3v2 tag
	Blocks     []block
	AudioStart int64 // first byte after the last metadata block
}

// readChain walks the metadata blocks following the "fLaC" signature.
func readChain(r io.ReaderAt, size int64, path string) (*chain, error) {
	sr := binary.NewSafeReader(r, size, path)
	start := types.ID3v2Size(r, size)

	magic := make([]byte, 4)
	if err := sr.ReadAt(magic, start, "FLAC magic bytes"); err != nil {
		return nil, fmt.Errorf("read FLAC magic: %w", err)
	}
	if string(magic) != "fLaC" {
		return nil, &types.CorruptedFileError{
			Path:   path,
			Offset: start,
			Reason: "invalid FLAC magic bytes",
		}
	}

	c := &chain{Start: start}
	offset := start + 4 // After "fLaC"
	for {
		header, err := binary.Read[uint32](sr, offset, "metadata block header")
		if err != nil {
			return nil, err
		}

		isLast := (header >> 31) == 1
		blockType := uint8((header >> 24) & 0x7F)
		blockLength := int64(header & 0x00FFFFFF)
		offset += 4

		if blockType == blockTypeInvalid {
			return nil, &types.CorruptedFileError{Path: path, Offset: offset - 4, Reason: "invalid metadata block type"}
		}
		if len(c.Blocks) == 0 && blockType != blockTypeStreamInfo {
			return nil, &types.CorruptedFileError{Path: path, Offset: offset - 4, Reason: "first metadata block is not STREAMINFO"}
		}
		if offset+blockLength > size {
			return nil, &types.CorruptedFileError{Path: path, Offset: offset, Reason: "metadata block exceeds file size"}
		}

		c.Blocks = append(c.Blocks, block{Type: blockType, Offset: offset, Length: blockLength})
		offset += blockLength

		if isLast {
			break
		}
	}

	c.AudioStart = offset
	return c, nil
}

// find returns the index of the first block of the given type, or -1.
func (c *chain) find(blockType uint8) int {
	for i, b := range c.Blocks {
		if b.Type == blockType {
			return i
		}
	}
	return -1
}

// body reads the bytes of block i.
func (c *chain) body(r io.ReaderAt, size int64, path string, i int) ([]byte, error) {
	b := c.Blocks[i]
	data := make([]byte, b.Length)
	if b.Length == 0 {
		return data, nil
	}
	sr := binary.NewSafeReader(r, size, path)
	if err := sr.ReadAt(data, b.Offset, "metadata block body"); err != nil {
		return nil, err
	}
	return data, nil
}
