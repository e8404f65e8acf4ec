package mqascan

import (
	"io"
	"strconv"

	"github.com/simonhull/mqascan/internal/types"
	"github.com/simonhull/mqascan/internal/watermark"
)

// Format is an alias to types.Format.
// Re-exporting from internal/types to maintain public API.
type Format = types.Format

// Re-export all format constants.
const (
	FormatUnknown = types.FormatUnknown
	FormatFLAC    = types.FormatFLAC
	FormatWAV     = types.FormatWAV
)

// Formats lists the containers the scanner can decode.
var Formats = []Format{FormatFLAC, FormatWAV}

// Result is an alias to watermark.Result.
type Result = watermark.Result

// DetectFormat is a wrapper around types.DetectFormat.
func DetectFormat(r io.ReaderAt, size int64, path string) (Format, error) {
	return types.DetectFormat(r, size, path)
}

// NotMQA is the classification of a file without a watermark.
const NotMQA = "NOT MQA"

// Classification renders a detection result as shown in the result lines:
// "MQA", "MQA Studio", "MQA 96K", "MQA Studio 352.8K" or "NOT MQA".
func Classification(r Result) string {
	if !r.Detected {
		return NotMQA
	}
	s := "MQA"
	if r.Studio {
		s += " Studio"
	}
	if r.OriginalSampleRate > 0 {
		s += " " + FormatRate(r.OriginalSampleRate)
	}
	return s
}

// FormatRate renders a sample rate in Hz. Rates up to 768 kHz are shown in
// kHz with a K suffix. Higher rates are shown as a DSD multiple of 44.1 kHz,
// or of 48 kHz with an x48 suffix.
func FormatRate(hz int) string {
	switch {
	case hz <= 768000:
		return strconv.FormatFloat(float64(hz)/1000, 'f', -1, 64) + "K"
	case hz%44100 == 0:
		return "DSD" + strconv.Itoa(hz/44100)
	default:
		return "DSD" + strconv.Itoa(hz/48000) + "x48"
	}
}
