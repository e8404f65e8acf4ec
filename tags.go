package mqascan

import (
	"strconv"

	"github.com/simonhull/mqascan/internal/types"
)

// Tag is an alias to types.Tag.
type Tag = types.Tag

// Tag keys written to detected files.
const (
	EncoderKey = "MQAENCODER"
	RateKey    = "ORIGINALSAMPLERATE"
)

// EncoderSignature is the MQAENCODER value written to detected files.
const EncoderSignature = "MQAEncode v1.1, 2.3.3+800 (a505918), F8EC1703-7616-45E5-B81E-D60821434062, Dec 01 2017 22:19:30"

// TagsFor returns the tags to persist for a detection result. The original
// sample rate is only included when the watermark carried one.
func TagsFor(r Result) []Tag {
	if !r.Detected {
		return nil
	}
	tags := []Tag{{Key: EncoderKey, Value: EncoderSignature}}
	if r.OriginalSampleRate > 0 {
		tags = append(tags, Tag{Key: RateKey, Value: strconv.Itoa(r.OriginalSampleRate)})
	}
	return tags
}
