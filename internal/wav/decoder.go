// Package wav adapts RIFF/WAVE PCM files for watermark scanning using
// github.com/go-audio/wav. WAV files have no Vorbis comment container, so
// the package registers a decoder only.
package wav

import (
	"fmt"
	"io"
	"iter"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/simonhull/mqascan/internal/registry"
	"github.com/simonhull/mqascan/internal/types"
)

// bufferFrames is how many stereo frames are read from the file at a time.
const bufferFrames = 4096

// decoder implements registry.Decoder for WAV files.
type decoder struct{}

func (decoder) Open(r io.ReadSeeker, path string) (types.FrameSource, error) {
	d := wav.NewDecoder(r)
	if !d.IsValidFile() {
		return nil, &types.FormatError{Path: path, Reason: "invalid WAV header"}
	}
	if err := d.FwdToPCM(); err != nil {
		return nil, &types.FormatError{Path: path, Reason: fmt.Sprintf("no PCM data chunk: %v", err)}
	}

	return &source{
		dec: d,
		info: types.StreamInfo{
			SampleRate: int(d.SampleRate),
			Channels:   int(d.NumChans),
			BitDepth:   int(d.BitDepth),
		},
	}, nil
}

// source yields frames from the interleaved PCM buffer.
type source struct {
	dec  *wav.Decoder
	info types.StreamInfo
	err  error
	used bool
}

func (s *source) Info() types.StreamInfo { return s.info }

func (s *source) Err() error { return s.err }

func (s *source) Close() error { return nil }

func (s *source) Frames() iter.Seq[types.Frame] {
	return func(yield func(types.Frame) bool) {
		if s.used {
			return
		}
		s.used = true

		channels := s.info.Channels
		if channels < 1 {
			s.err = fmt.Errorf("invalid channel count %d", channels)
			return
		}
		buf := &audio.IntBuffer{
			Format: &audio.Format{NumChannels: channels, SampleRate: s.info.SampleRate},
			Data:   make([]int, bufferFrames*channels),
		}

		// The data chunk header declares how many samples must follow; a
		// file that ends before that is truncated.
		want := declaredSamples(s.dec)
		read := 0
		for {
			n, err := s.dec.PCMBuffer(buf)
			if err != nil {
				s.err = err
				return
			}
			if n == 0 {
				if read < want {
					s.err = fmt.Errorf("data chunk ended after %d of %d samples: %w", read, want, io.ErrUnexpectedEOF)
				}
				return
			}
			read += n
			for i := 0; i+1 < n; i += channels {
				if !yield(types.Frame{Left: int32(buf.Data[i]), Right: int32(buf.Data[i+1])}) {
					return
				}
			}
		}
	}
}

// declaredSamples returns the sample count announced by the data chunk, or
// 0 when the size is unknown (streamed files leave it 0 or all ones).
func declaredSamples(d *wav.Decoder) int {
	if d.PCMSize <= 0 || uint32(d.PCMSize) == 0xFFFFFFFF || d.BitDepth == 0 {
		return 0
	}
	bytesPerSample := (int(d.BitDepth)-1)/8 + 1
	return d.PCMSize / bytesPerSample
}

func init() {
	registry.Register(types.FormatWAV, decoder{})
}
