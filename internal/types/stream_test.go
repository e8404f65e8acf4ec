package types

import (
	"errors"
	"testing"
)

func TestSliceSource(t *testing.T) {
	fail := errors.New("bad frame")
	src := &SliceSource{
		StreamInfo: StreamInfo{SampleRate: 48000, Channels: 2, BitDepth: 24},
		Data:       []Frame{{1, 2}, {3, 4}, {5, 6}},
		Fail:       fail,
	}

	for f := range src.Frames() {
		if f.Left == 3 {
			break
		}
	}
	if src.Pulled != 2 {
		t.Errorf("Pulled = %d, want 2", src.Pulled)
	}
	if src.Err() != nil {
		t.Errorf("Err() = %v before the frames were exhausted", src.Err())
	}

	n := 0
	for range src.Frames() {
		n++
	}
	if n != 0 {
		t.Errorf("second range yielded %d frames, want 0", n)
	}
}

func TestSliceSource_FailAfterLastFrame(t *testing.T) {
	fail := errors.New("bad frame")
	src := &SliceSource{Data: []Frame{{1, 1}}, Fail: fail}
	for range src.Frames() {
	}
	if !errors.Is(src.Err(), fail) {
		t.Errorf("Err() = %v, want %v", src.Err(), fail)
	}
}
