package mqascan

import (
	"errors"
	"fmt"
	"os"

	_ "github.com/simonhull/mqascan/internal/flac" // Register FLAC decoder and tagger
	"github.com/simonhull/mqascan/internal/registry"
	"github.com/simonhull/mqascan/internal/types"
	"github.com/simonhull/mqascan/internal/watermark"
	_ "github.com/simonhull/mqascan/internal/wav" // Register WAV decoder
)

// Outcome is the result of scanning one file.
type Outcome struct {
	Index  int    // submission index, starting at 1
	Path   string
	Format Format
	Result Result

	// Tagging, only attempted for detected files.
	Tagged       []string // keys written
	PriorEncoder string   // MQAENCODER value found before writing, if any
	DryRun       bool     // tags would have been written
	TagErr       error

	// Err is set when the file could not be scanned. Result is then zero.
	Err error
}

// Class returns the classification shown for the file, or "ERROR".
func (o Outcome) Class() string {
	if o.Err != nil {
		return "ERROR"
	}
	return Classification(o.Result)
}

// DetectFile runs the watermark detector over one file without tagging it.
//
// Errors are *FormatError for unrecognised or unsupported streams,
// *DecodeError when decoding fails, and *PathError when the file cannot
// be opened.
func DetectFile(path string) (Result, error) {
	_, r, err := detectFile(path)
	return r, err
}

func detectFile(path string) (Format, Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return FormatUnknown, Result{}, &PathError{Path: path, Reason: "Cannot open file", Err: err}
	}
	defer f.Close() //nolint:errcheck // Read-only handle

	info, err := f.Stat()
	if err != nil {
		return FormatUnknown, Result{}, &PathError{Path: path, Reason: "Cannot stat file", Err: err}
	}

	format, err := types.DetectFormat(f, info.Size(), path)
	if err != nil {
		return FormatUnknown, Result{}, err
	}

	d := registry.Get(format)
	if d == nil {
		return format, Result{}, &FormatError{Path: path, Reason: fmt.Sprintf("no decoder registered for %s", format)}
	}

	src, err := d.Open(f, path)
	if err != nil {
		return format, Result{}, withPath(err, path)
	}
	defer src.Close() //nolint:errcheck // Decoder over a read-only handle

	r, err := watermark.Detect(src)
	if err != nil {
		return format, Result{}, withPath(err, path)
	}
	return format, r, nil
}

// withPath fills in the path of detector errors, which do not know it.
func withPath(err error, path string) error {
	var (
		fe *FormatError
		de *DecodeError
	)
	switch {
	case errors.As(err, &fe):
		if fe.Path == "" {
			fe.Path = path
		}
	case errors.As(err, &de):
		if de.Path == "" {
			de.Path = path
		}
	}
	return err
}

// ScanFile detects the watermark in one file and, when found, tags it
// according to the scanner's options. A panic anywhere in the scan is
// returned as an *InternalError in Outcome.Err.
func (s *Scanner) ScanFile(path string) (out Outcome) {
	out.Path = path
	defer func() {
		if v := recover(); v != nil {
			s.log.Error("scan panicked", "path", path, "panic", v)
			out = Outcome{Path: path, Format: out.Format, Err: &InternalError{Path: path, Value: v}}
		}
	}()

	out.Format, out.Result, out.Err = detectFile(path)
	if out.Err != nil {
		return out
	}
	if out.Result.Detected {
		s.tag(&out)
	}
	return out
}
