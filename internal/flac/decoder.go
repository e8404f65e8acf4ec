package flac

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"iter"

	"github.com/mewkiz/flac"

	"github.com/simonhull/mqascan/internal/registry"
	"github.com/simonhull/mqascan/internal/types"
)

// decoder implements registry.Decoder for FLAC streams.
type decoder struct{}

// Open parses the signature and STREAMINFO; audio frames are decoded lazily.
func (decoder) Open(r io.ReadSeeker, path string) (types.FrameSource, error) {
	stream, err := flac.New(bufio.NewReader(r))
	if err != nil {
		return nil, &types.FormatError{
			Path:   path,
			Reason: fmt.Sprintf("invalid FLAC header: %v", err),
		}
	}

	return &source{
		stream: stream,
		path:   path,
		info: types.StreamInfo{
			SampleRate: int(stream.Info.SampleRate),
			Channels:   int(stream.Info.NChannels),
			BitDepth:   int(stream.Info.BitsPerSample),
		},
	}, nil
}

// source yields interleaved stereo frames one FLAC block at a time.
type source struct {
	stream *flac.Stream
	path   string
	info   types.StreamInfo
	err    error
	used   bool
}

func (s *source) Info() types.StreamInfo { return s.info }

func (s *source) Err() error { return s.err }

func (s *source) Close() error { return s.stream.Close() }

func (s *source) Frames() iter.Seq[types.Frame] {
	return func(yield func(types.Frame) bool) {
		if s.used {
			return
		}
		s.used = true

		for block := 0; ; block++ {
			f, err := s.stream.ParseNext()
			if err != nil {
				if !errors.Is(err, io.EOF) {
					s.err = err
				}
				return
			}
			if len(f.Subframes) < 2 {
				s.err = fmt.Errorf("block %d has %d subframes, want 2", block, len(f.Subframes))
				return
			}

			left, right := f.Subframes[0].Samples, f.Subframes[1].Samples
			n := min(len(left), len(right))
			for i := 0; i < n; i++ {
				if !yield(types.Frame{Left: left[i], Right: right[i]}) {
					return
				}
			}
		}
	}
}

func init() {
	registry.Register(types.FormatFLAC, decoder{})
	registry.RegisterTagger(types.FormatFLAC, Tagger{})
}
