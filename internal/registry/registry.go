// Package registry maps formats to their decoder adapters and taggers.
package registry

import (
	"io"
	"sync"

	"github.com/simonhull/mqascan/internal/types"
)

// Decoder opens a frame source over an already opened file.
type Decoder interface {
	// Open validates the stream header and returns a lazy frame source.
	// Header problems are reported as *types.FormatError.
	Open(r io.ReadSeeker, path string) (types.FrameSource, error)
}

// Tagger persists tags into a file's metadata container.
type Tagger interface {
	// AddTags writes each tag whose key is absent from the file and returns
	// the keys actually written. Existing values are never replaced.
	AddTags(path string, tags []types.Tag) ([]string, error)
}

// TagReader is an optional interface for taggers that can look up a
// single existing value.
type TagReader interface {
	ReadTag(path, key string) (string, bool, error)
}

var (
	mu       sync.RWMutex
	decoders = make(map[types.Format]Decoder)
	taggers  = make(map[types.Format]Tagger)
)

// Register registers a decoder for a format.
// This is called by format packages during initialization (init functions).
func Register(format types.Format, d Decoder) {
	mu.Lock()
	defer mu.Unlock()
	decoders[format] = d
}

// Get returns the decoder for a given format.
// Returns nil if no decoder is registered for the format.
func Get(format types.Format) Decoder {
	mu.RLock()
	defer mu.RUnlock()
	return decoders[format]
}

// RegisterTagger registers a tagger for a format.
func RegisterTagger(format types.Format, t Tagger) {
	mu.Lock()
	defer mu.Unlock()
	taggers[format] = t
}

// GetTagger returns the tagger for a given format, or nil.
func GetTagger(format types.Format) Tagger {
	mu.RLock()
	defer mu.RUnlock()
	return taggers[format]
}
