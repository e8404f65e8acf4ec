package types

import "fmt"

// Kind classifies a per-file failure.
type Kind int

const (
	// KindPath means the input path was missing or inaccessible.
	KindPath Kind = iota + 1
	// KindFormat means the header was invalid or the channel/bit-depth layout unsupported.
	KindFormat
	// KindDecode means the underlying decoder failed or the stream ended prematurely.
	KindDecode
	// KindTag means reading or writing the metadata container failed.
	KindTag
	// KindInternal means a task failed unexpectedly and was contained.
	KindInternal
)

// String returns the short label used in reason strings.
func (k Kind) String() string {
	switch k {
	case KindPath:
		return "path error"
	case KindFormat:
		return "format error"
	case KindDecode:
		return "decode error"
	case KindTag:
		return "tag error"
	case KindInternal:
		return "internal error"
	default:
		return "error"
	}
}

// PathError is recorded when an input path cannot be resolved to files.
type PathError struct {
	Path   string
	Reason string
	Err    error
}

func (e *PathError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Path, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Reason)
}

func (e *PathError) Unwrap() error { return e.Err }

// FormatError is returned when a file is not a supported stereo 16/24-bit stream.
type FormatError struct {
	Path   string
	Reason string
}

func (e *FormatError) Error() string {
	if e.Path == "" {
		return "unsupported format: " + e.Reason
	}
	return fmt.Sprintf("%s: unsupported format: %s", e.Path, e.Reason)
}

// DecodeError wraps a terminal failure of the decoder.
type DecodeError struct {
	Path string
	Err  error
}

func (e *DecodeError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("decoding failed: %v", e.Err)
	}
	return fmt.Sprintf("%s: decoding failed: %v", e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// TagError is returned when the metadata container cannot be read or written.
type TagError struct {
	Path string
	Op   string // "read", "write"
	Err  error
}

func (e *TagError) Error() string {
	return fmt.Sprintf("%s: tag %s failed: %v", e.Path, e.Op, e.Err)
}

func (e *TagError) Unwrap() error { return e.Err }

// UnsupportedWriteError indicates tagging is not supported for this format.
type UnsupportedWriteError struct {
	Reason string
	Format Format
}

func (e *UnsupportedWriteError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("write not supported for %s: %s", e.Format, e.Reason)
	}
	return fmt.Sprintf("write not supported for %s", e.Format)
}

// InternalError carries a recovered panic out of a scan task.
type InternalError struct {
	Path  string
	Value any
}

func (e *InternalError) Error() string {
	return fmt.Sprintf("%s: unexpected failure: %v", e.Path, e.Value)
}

// CorruptedFileError is returned when a metadata structure is invalid.
type CorruptedFileError struct {
	Path   string
	Reason string
	Offset int64
}

func (e *CorruptedFileError) Error() string {
	return fmt.Sprintf("%s: corrupted file at offset %d: %s", e.Path, e.Offset, e.Reason)
}
