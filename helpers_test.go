package mqascan

import (
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/mewkiz/flac"
	"github.com/mewkiz/flac/frame"
	"github.com/mewkiz/flac/meta"

	"github.com/simonhull/mqascan/internal/registry"
	"github.com/simonhull/mqascan/internal/types"
	"github.com/simonhull/mqascan/internal/watermark"
)

// writeWAV encodes stereo frames into a 44.1 kHz PCM WAV file in dir.
func writeWAV(t testing.TB, dir, name string, depth int, frames []types.Frame) string {
	t.Helper()
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	samples := make([]int, 0, 2*len(frames))
	for _, fr := range frames {
		samples = append(samples, int(fr.Left), int(fr.Right))
	}

	enc := wav.NewEncoder(f, 44100, depth, 2, 1)
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 2, SampleRate: 44100},
		Data:           samples,
		SourceBitDepth: depth,
	}
	if err := enc.Write(buf); err != nil {
		t.Fatal(err)
	}
	if err := enc.Close(); err != nil {
		t.Fatal(err)
	}
	return path
}

// writeFLAC encodes stereo frames into a 44.1 kHz FLAC file in dir, as
// verbatim subframes of at most 96 frames each.
func writeFLAC(t testing.TB, dir, name string, depth int, frames []types.Frame) string {
	t.Helper()
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}

	enc, err := flac.NewEncoder(f, &meta.StreamInfo{
		BlockSizeMin:  16,
		BlockSizeMax:  96,
		SampleRate:    44100,
		NChannels:     2,
		BitsPerSample: uint8(depth),
	})
	if err != nil {
		f.Close()
		t.Fatal(err)
	}
	for start := 0; start < len(frames); start += 96 {
		chunk := frames[start:min(start+96, len(frames))]
		left := make([]int32, len(chunk))
		right := make([]int32, len(chunk))
		for i, fr := range chunk {
			left[i], right[i] = fr.Left, fr.Right
		}
		err := enc.WriteFrame(&frame.Frame{
			Header: frame.Header{
				HasFixedBlockSize: true,
				BlockSize:         uint16(len(chunk)),
				SampleRate:        44100,
				Channels:          frame.ChannelsLR,
				BitsPerSample:     uint8(depth),
			},
			Subframes: []*frame.Subframe{
				{SubHeader: frame.SubHeader{Pred: frame.PredVerbatim}, Samples: left, NSamples: len(left)},
				{SubHeader: frame.SubHeader{Pred: frame.PredVerbatim}, Samples: right, NSamples: len(right)},
			},
		})
		if err != nil {
			t.Fatal(err)
		}
	}
	// Close rewrites STREAMINFO and closes f.
	if err := enc.Close(); err != nil {
		t.Fatal(err)
	}
	return path
}

// mqaFrames returns frames carrying the sync word in the lowest examined
// bit plane, then rate code 0b1001 (96 kHz) and provenance 0b10001
// (studio). The sync lands on frame 99.
func mqaFrames(depth int) []types.Frame {
	var bits []uint64
	bits = append(bits, make([]uint64, 64)...)
	for i := 35; i >= 0; i-- {
		bits = append(bits, (watermark.Magic>>uint(i))&1)
	}
	const code, provenance = 0b1001, 0b10001
	for rel := 1; rel <= 33; rel++ {
		var b uint64
		switch {
		case rel >= 3 && rel <= 6:
			b = (code >> uint(6-rel)) & 1
		case rel >= 29:
			b = (provenance >> uint(33-rel)) & 1
		}
		bits = append(bits, b)
	}
	bits = append(bits, make([]uint64, 100)...)

	frames := make([]types.Frame, len(bits))
	for i, b := range bits {
		frames[i] = types.Frame{Left: int32(b) << uint(depth-16)}
	}
	return frames
}

func silence(n int) []types.Frame {
	return make([]types.Frame, n)
}

// fakeDecoder serves frame sources without decoding the file.
type fakeDecoder struct {
	open func(path string) (types.FrameSource, error)
}

func (d fakeDecoder) Open(_ io.ReadSeeker, path string) (types.FrameSource, error) {
	return d.open(path)
}

// swapDecoder registers d for WAV for the duration of the test.
func swapDecoder(t *testing.T, d registry.Decoder) {
	t.Helper()
	orig := registry.Get(FormatWAV)
	registry.Register(FormatWAV, d)
	t.Cleanup(func() { registry.Register(FormatWAV, orig) })
}

// writeRIFF writes a file that passes signature detection as WAV.
func writeRIFF(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("RIFF\x04\x00\x00\x00WAVE"), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// memTagger keeps tags in memory and honours the never-overwrite rule.
type memTagger struct {
	mu    sync.Mutex
	calls int
	tags  map[string]map[string]string // path -> key -> value
}

func newMemTagger() *memTagger {
	return &memTagger{tags: make(map[string]map[string]string)}
}

func (m *memTagger) AddTags(path string, tags []types.Tag) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.tags[path] == nil {
		m.tags[path] = make(map[string]string)
	}
	var written []string
	for _, t := range tags {
		if _, ok := m.tags[path][t.Key]; ok {
			continue
		}
		m.tags[path][t.Key] = t.Value
		written = append(written, t.Key)
	}
	return written, nil
}

func (m *memTagger) ReadTag(path, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.tags[path][key]
	return v, ok, nil
}

// panicTagger fails the way a buggy tagger would.
type panicTagger struct{}

func (panicTagger) AddTags(string, []types.Tag) ([]string, error) {
	panic("tagger exploded")
}
