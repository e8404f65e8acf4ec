// Package types provides the core data structures shared by the scanner:
// formats, decoded stream frames, tags and the error taxonomy.
package types

import "iter"

// StreamInfo holds the stream parameters reported by a decoder.
type StreamInfo struct {
	SampleRate int // Hz
	Channels   int
	BitDepth   int // bits per sample
}

// Frame is one sample instant across the two stereo channels.
type Frame struct {
	Left  int32
	Right int32
}

// FrameSource is a pull-based view of a decoded stream.
//
// Frames yields frames lazily in stream order and may be ranged over only
// once. Iteration stops early at a decode failure; Err reports that
// terminal condition after iteration has finished.
type FrameSource interface {
	Info() StreamInfo
	Frames() iter.Seq[Frame]
	Err() error
	Close() error
}

// SliceSource is an in-memory FrameSource. Fail, when set, is reported by
// Err once all frames have been yielded.
type SliceSource struct {
	StreamInfo StreamInfo
	Data       []Frame
	Fail       error

	// Pulled counts frames handed to the consumer.
	Pulled int
	ranged bool
}

// Info returns the stream parameters.
func (s *SliceSource) Info() StreamInfo { return s.StreamInfo }

// Frames yields the frames in order. A second call yields nothing.
func (s *SliceSource) Frames() iter.Seq[Frame] {
	return func(yield func(Frame) bool) {
		if s.ranged {
			return
		}
		s.ranged = true
		for _, f := range s.Data {
			s.Pulled++
			if !yield(f) {
				return
			}
		}
	}
}

// Err returns Fail once the frames have been exhausted.
func (s *SliceSource) Err() error {
	if s.Pulled < len(s.Data) {
		return nil
	}
	return s.Fail
}

// Close is a no-op.
func (s *SliceSource) Close() error { return nil }
