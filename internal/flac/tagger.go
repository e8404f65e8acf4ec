package flac

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/simonhull/mqascan/internal/binary"
	"github.com/simonhull/mqascan/internal/types"
	"github.com/simonhull/mqascan/internal/vorbis"
)

// vendor is used when a file has no VORBIS_COMMENT block to extend.
const vendor = "mqascan"

// Tagger adds Vorbis comments to FLAC files.
//
// The metadata chain is rewritten into a temporary file next to the
// original, which then replaces it with a rename. Audio frames are copied
// byte for byte. A file that already carries every requested key is not
// touched.
type Tagger struct{}

// AddTags writes each tag whose key is absent and returns the keys written.
func (Tagger) AddTags(path string, tags []types.Tag) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &types.TagError{Path: path, Op: "read", Err: err}
	}
	defer f.Close() //nolint:errcheck // Read-only handle

	info, err := f.Stat()
	if err != nil {
		return nil, &types.TagError{Path: path, Op: "read", Err: err}
	}
	size := info.Size()

	c, err := readChain(f, size, path)
	if err != nil {
		return nil, &types.TagError{Path: path, Op: "read", Err: err}
	}

	comments, vcIndex, err := c.comments(f, size, path)
	if err != nil {
		return nil, &types.TagError{Path: path, Op: "read", Err: err}
	}

	var written []string
	for _, t := range tags {
		if comments.AddIfAbsent(t.Key, t.Value) {
			written = append(written, t.Key)
		}
	}
	if len(written) == 0 {
		return nil, nil
	}

	body := comments.Encode()
	if len(body) > maxBlockLength {
		return nil, &types.TagError{Path: path, Op: "write", Err: fmt.Errorf("comment block of %d bytes exceeds FLAC limit", len(body))}
	}

	if err := rewrite(f, size, path, info.Mode().Perm(), c, vcIndex, body); err != nil {
		return nil, &types.TagError{Path: path, Op: "write", Err: err}
	}
	return written, nil
}

// ReadTag returns the value of a Vorbis comment field.
func (Tagger) ReadTag(path, key string) (string, bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", false, &types.TagError{Path: path, Op: "read", Err: err}
	}
	defer f.Close() //nolint:errcheck // Read-only handle

	info, err := f.Stat()
	if err != nil {
		return "", false, &types.TagError{Path: path, Op: "read", Err: err}
	}

	c, err := readChain(f, info.Size(), path)
	if err != nil {
		return "", false, &types.TagError{Path: path, Op: "read", Err: err}
	}
	comments, _, err := c.comments(f, info.Size(), path)
	if err != nil {
		return "", false, &types.TagError{Path: path, Op: "read", Err: err}
	}

	v, ok := comments.Get(key)
	return v, ok, nil
}

// comments decodes the VORBIS_COMMENT block, or returns an empty set and -1
// when the file has none.
func (c *chain) comments(r io.ReaderAt, size int64, path string) (*vorbis.Comments, int, error) {
	i := c.find(blockTypeVorbisComment)
	if i < 0 {
		return &vorbis.Comments{Vendor: vendor}, -1, nil
	}
	data, err := c.body(r, size, path, i)
	if err != nil {
		return nil, -1, err
	}
	comments, err := vorbis.Parse(data, path)
	if err != nil {
		return nil, -1, fmt.Errorf("parse Vorbis comments: %w", err)
	}
	return comments, i, nil
}

// rewrite writes the file with a new VORBIS_COMMENT body and replaces the
// original. A missing comment block is inserted right after STREAMINFO.
func rewrite(src *os.File, size int64, path string, mode os.FileMode, c *chain, vcIndex int, vc []byte) error { //nolint:gocyclo // Atomic file operations require sequential steps
	type outBlock struct {
		typ  uint8
		data []byte
		from *block
	}

	// Growth of the comment block is taken out of the first PADDING block
	// when it is large enough, so the audio keeps its offset.
	growth := int64(len(vc)) + 4
	if vcIndex >= 0 {
		growth = int64(len(vc)) - c.Blocks[vcIndex].Length
	}
	padIndex := c.find(blockTypePadding)
	shrinkPadding := padIndex >= 0 && growth > 0 && c.Blocks[padIndex].Length >= growth

	var blocks []outBlock
	for i := range c.Blocks {
		b := &c.Blocks[i]
		switch {
		case i == vcIndex:
			blocks = append(blocks, outBlock{typ: blockTypeVorbisComment, data: vc})
		case i == padIndex && shrinkPadding:
			blocks = append(blocks, outBlock{typ: blockTypePadding, data: make([]byte, b.Length-growth)})
		default:
			blocks = append(blocks, outBlock{typ: b.Type, from: b})
		}
		if vcIndex < 0 && i == 0 {
			blocks = append(blocks, outBlock{typ: blockTypeVorbisComment, data: vc})
		}
	}

	// Create temp file in same directory as output (for atomic rename)
	tempFile, err := os.CreateTemp(filepath.Dir(path), ".mqascan-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tempPath := tempFile.Name()

	success := false
	defer func() {
		if !success {
			_ = tempFile.Close()    //nolint:errcheck // Best effort cleanup
			_ = os.Remove(tempPath) //nolint:errcheck // Best effort cleanup
		}
	}()

	// A prepended ID3v2 tag is kept as is.
	if c.Start > 0 {
		if _, err := io.Copy(tempFile, io.NewSectionReader(src, 0, c.Start)); err != nil {
			return fmt.Errorf("copy ID3v2 tag: %w", err)
		}
	}

	sw := binary.NewSafeWriter(tempFile)
	if err := sw.WriteString("fLaC"); err != nil {
		return fmt.Errorf("write signature: %w", err)
	}

	for i, b := range blocks {
		length := int64(len(b.data))
		if b.from != nil {
			length = b.from.Length
		}

		header := uint32(b.typ)<<24 | uint32(length)
		if i == len(blocks)-1 {
			header |= 1 << 31
		}
		if err := binary.Write(sw, header); err != nil {
			return fmt.Errorf("write block header: %w", err)
		}

		if b.from == nil {
			if err := sw.WriteBytes(b.data); err != nil {
				return fmt.Errorf("write block: %w", err)
			}
			continue
		}
		if _, err := io.Copy(tempFile, io.NewSectionReader(src, b.from.Offset, b.from.Length)); err != nil {
			return fmt.Errorf("copy block: %w", err)
		}
	}

	if _, err := io.Copy(tempFile, io.NewSectionReader(src, c.AudioStart, size-c.AudioStart)); err != nil {
		return fmt.Errorf("copy audio frames: %w", err)
	}

	if err := tempFile.Sync(); err != nil {
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tempPath, mode); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}

	if err := os.Rename(tempPath, path); err != nil {
		return fmt.Errorf("rename temp to output: %w", err)
	}
	success = true
	return nil
}
