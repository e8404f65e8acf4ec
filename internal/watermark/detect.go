// Package watermark detects the MQA watermark in decoded PCM.
//
// The watermark is a 36-bit sync word carried in one bit-plane of
// left XOR right, followed by packed fields at fixed frame distances from
// the sync point. Three adjacent bit-planes starting at bit (depth-16) are
// searched in parallel.
package watermark

import (
	"fmt"

	"github.com/simonhull/mqascan/internal/types"
)

const (
	// Magic is the sync word that marks the start of the watermark.
	Magic uint64 = 0xBE0498C88

	// WindowSeconds is how much audio is searched for the sync word.
	WindowSeconds = 3

	registerBits = 36
	registerMask = 1<<registerBits - 1
	planes       = 3

	// Field positions relative to the sync frame, inclusive.
	rateFirst, rateLast             = 3, 6
	provenanceFirst, provenanceLast = 29, 33

	// studioThreshold is the provenance value above which the stream is a
	// studio (authenticated) encode.
	studioThreshold = 8
)

// Result is the verdict for one stream. The zero value means no watermark.
type Result struct {
	Detected           bool
	OriginalSampleRate int // Hz
	Studio             bool

	SyncFrame  int   // index of the frame that completed the sync word
	BitOffset  int   // bit-plane the sync word was found in
	RateCode   uint8 // raw 4-bit original sample rate code
	Provenance uint8 // raw 5-bit provenance code
}

// Detect searches the first WindowSeconds of src for the watermark.
//
// The stream must be stereo at 16 or 24 bits; anything else fails with
// *types.FormatError before a frame is read. A terminal decode error
// reported by src fails with *types.DecodeError and never yields a
// detection.
func Detect(src types.FrameSource) (Result, error) {
	info := src.Info()
	if err := Validate(info); err != nil {
		return Result{}, err
	}

	var (
		pos    = info.BitDepth - 16
		window = info.SampleRate * WindowSeconds
		regs   [planes]uint64

		res    Result
		synced bool
		index  int
	)

	for f := range src.Frames() {
		d := uint32(f.Left) ^ uint32(f.Right)

		if !synced {
			if index >= window {
				break
			}
			for i := range regs {
				bit := uint64(d>>uint(pos+i)) & 1
				regs[i] = (regs[i]<<1)&registerMask | bit
			}
			for i := range regs {
				if regs[i] == Magic {
					synced = true
					res.SyncFrame = index
					res.BitOffset = pos + i
					break
				}
			}
			index++
			continue
		}

		rel := index - res.SyncFrame
		bit := uint8(d>>uint(res.BitOffset)) & 1
		switch {
		case rel >= rateFirst && rel <= rateLast:
			res.RateCode |= bit << (rateLast - rel)
		case rel >= provenanceFirst && rel <= provenanceLast:
			res.Provenance |= bit << (provenanceLast - rel)
		}
		index++
		if rel == provenanceLast {
			break
		}
	}

	if err := src.Err(); err != nil {
		return Result{}, &types.DecodeError{Err: err}
	}
	if !synced {
		return Result{}, nil
	}

	rate, err := OriginalSampleRate(res.RateCode)
	if err != nil {
		return Result{}, err
	}
	res.Detected = true
	res.OriginalSampleRate = rate
	res.Studio = res.Provenance > studioThreshold
	return res, nil
}

// Validate checks the stream parameters the detector depends on.
func Validate(info types.StreamInfo) error {
	if info.Channels != 2 || (info.BitDepth != 16 && info.BitDepth != 24) {
		return &types.FormatError{
			Reason: fmt.Sprintf("unsupported audio format: %d channels, %d bits", info.Channels, info.BitDepth),
		}
	}
	if info.SampleRate <= 0 {
		return &types.FormatError{
			Reason: fmt.Sprintf("invalid sample rate %d", info.SampleRate),
		}
	}
	return nil
}
