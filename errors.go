package mqascan

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/simonhull/mqascan/internal/types"
)

// PathError is an alias to types.PathError.
// Re-exporting from internal/types to maintain public API.
type PathError = types.PathError

// FormatError is an alias to types.FormatError.
type FormatError = types.FormatError

// DecodeError is an alias to types.DecodeError.
type DecodeError = types.DecodeError

// TagError is an alias to types.TagError.
type TagError = types.TagError

// UnsupportedWriteError is an alias to types.UnsupportedWriteError.
type UnsupportedWriteError = types.UnsupportedWriteError

// InternalError is an alias to types.InternalError.
type InternalError = types.InternalError

// CorruptedFileError is an alias to types.CorruptedFileError.
type CorruptedFileError = types.CorruptedFileError

// Kind is an alias to types.Kind.
type Kind = types.Kind

// Re-export the error kinds.
const (
	KindPath     = types.KindPath
	KindFormat   = types.KindFormat
	KindDecode   = types.KindDecode
	KindTag      = types.KindTag
	KindInternal = types.KindInternal
)

// KindOf classifies err. It returns 0 for errors outside the taxonomy.
func KindOf(err error) Kind {
	var (
		pe *PathError
		fe *FormatError
		de *DecodeError
		te *TagError
		ie *InternalError
	)
	switch {
	case errors.As(err, &ie):
		return KindInternal
	case errors.As(err, &te):
		return KindTag
	case errors.As(err, &de):
		return KindDecode
	case errors.As(err, &fe):
		return KindFormat
	case errors.As(err, &pe):
		return KindPath
	default:
		return 0
	}
}

// Reason returns the key errors are grouped under in the log: the error
// kind followed by a description that does not mention the file, so that
// files failing the same way share one reason.
func Reason(err error) string {
	if err == nil {
		return ""
	}

	var (
		pe *PathError
		fe *FormatError
		de *DecodeError
		te *TagError
		ie *InternalError
	)
	switch {
	case errors.As(err, &ie):
		return fmt.Sprintf("%s: %v", KindInternal, ie.Value)
	case errors.As(err, &te):
		return fmt.Sprintf("%s: %s: %s", KindTag, te.Op, detail(te.Err))
	case errors.As(err, &de):
		return fmt.Sprintf("%s: %s", KindDecode, detail(de.Err))
	case errors.As(err, &fe):
		return fmt.Sprintf("%s: %s", KindFormat, fe.Reason)
	case errors.As(err, &pe):
		return fmt.Sprintf("%s: %s", KindPath, pe.Reason)
	default:
		return "error: " + err.Error()
	}
}

// detail describes a wrapped cause without the path it may carry.
func detail(err error) string {
	if err == nil {
		return "unknown"
	}

	var (
		fsErr  *fs.PathError
		bad    *CorruptedFileError
		format *FormatError
	)
	switch {
	case errors.As(err, &bad):
		return bad.Reason
	case errors.As(err, &format):
		return format.Reason
	case errors.As(err, &fsErr):
		return fsErr.Op + ": " + fsErr.Err.Error()
	default:
		return err.Error()
	}
}
