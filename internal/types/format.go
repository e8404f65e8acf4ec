package types

import (
	"io"
	"strings"

	"github.com/simonhull/mqascan/internal/binary"
)

// Format represents the detected container of a lossless audio file.
type Format int

const (
	// FormatUnknown represents an unknown or unsupported format.
	FormatUnknown Format = iota // Unknown
	// FormatFLAC represents FLAC audio files.
	FormatFLAC // FLAC
	// FormatWAV represents RIFF/WAVE PCM files.
	FormatWAV // WAV
)

// String returns the display name of the format.
func (f Format) String() string {
	switch f {
	case FormatFLAC:
		return "FLAC"
	case FormatWAV:
		return "WAV"
	default:
		return "Unknown"
	}
}

// Extensions returns common file extensions for this format.
func (f Format) Extensions() []string {
	switch f {
	case FormatFLAC:
		return []string{".flac"}
	case FormatWAV:
		return []string{".wav", ".wave"}
	default:
		return nil
	}
}

// FormatFromExtension maps a file name to the format its extension suggests.
// Matching is case-insensitive. Returns FormatUnknown for anything else.
func FormatFromExtension(name string) Format {
	lower := strings.ToLower(name)
	for _, f := range []Format{FormatFLAC, FormatWAV} {
		for _, ext := range f.Extensions() {
			if strings.HasSuffix(lower, ext) {
				return f
			}
		}
	}
	return FormatUnknown
}

// DetectFormat determines the container by examining magic bytes.
//
// Only the signature is checked; the decoder adapters validate the rest of
// the header when the stream is opened. A FLAC signature may follow an
// ID3v2 tag.
func DetectFormat(r io.ReaderAt, size int64, path string) (Format, error) {
	if size < 4 {
		return FormatUnknown, &FormatError{
			Path:   path,
			Reason: "file too small",
		}
	}

	sr := binary.NewSafeReader(r, size, path)

	magic := make([]byte, 4)
	if err := sr.ReadAt(magic, 0, "file magic bytes"); err != nil {
		return FormatUnknown, &FormatError{
			Path:   path,
			Reason: "failed to read file header",
		}
	}

	if string(magic) == "fLaC" {
		return FormatFLAC, nil
	}

	// FLAC behind a prepended ID3v2 tag
	if start := ID3v2Size(r, size); start > 0 && size-start >= 4 {
		if err := sr.ReadAt(magic, start, "FLAC magic bytes"); err == nil && string(magic) == "fLaC" {
			return FormatFLAC, nil
		}
	}

	// RIFF....WAVE
	if string(magic) == "RIFF" && size >= 12 {
		waveTag := make([]byte, 4)
		if err := sr.ReadAt(waveTag, 8, "WAVE tag"); err == nil && string(waveTag) == "WAVE" {
			return FormatWAV, nil
		}
	}

	return FormatUnknown, &FormatError{
		Path:   path,
		Reason: "unrecognised file signature",
	}
}
