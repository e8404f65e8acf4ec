package mqascan

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/simonhull/mqascan/internal/types"
)

// TestRun_CancelledBeforeStart verifies that nothing is admitted once the
// context is done.
func TestRun_CancelledBeforeStart(t *testing.T) {
	dir := t.TempDir()
	paths := []string{
		writeWAV(t, dir, "a.wav", 16, silence(10)),
		writeWAV(t, dir, "b.wav", 16, silence(10)),
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sum, err := New().Run(ctx, paths)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Run() error = %v, want context.Canceled", err)
	}
	if sum == nil || sum.Scanned != 0 {
		t.Errorf("Summary = %+v, want nothing scanned", sum)
	}
}

// TestRun_CancelledMidway verifies that admitted files finish and are
// counted while later files are never started.
func TestRun_CancelledMidway(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var opened atomic.Int32
	swapDecoder(t, fakeDecoder{open: func(string) (types.FrameSource, error) {
		if opened.Add(1) == 2 {
			cancel()
		}
		time.Sleep(2 * time.Millisecond)
		return &types.SliceSource{
			StreamInfo: types.StreamInfo{SampleRate: 44100, Channels: 2, BitDepth: 16},
			Data:       silence(4),
		}, nil
	}})

	dir := t.TempDir()
	var paths []string
	for i := range 10 {
		paths = append(paths, writeRIFF(t, dir, fmt.Sprintf("f%d.wav", i)))
	}

	sum, err := New(WithWorkers(1)).Run(ctx, paths)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Run() error = %v, want context.Canceled", err)
	}
	if n := opened.Load(); sum.Scanned != int64(n) {
		t.Errorf("Scanned = %d, but %d files were opened", sum.Scanned, n)
	}
	if sum.Scanned >= int64(len(paths)) {
		t.Errorf("Scanned = %d, want fewer than %d after cancel", sum.Scanned, len(paths))
	}
}
