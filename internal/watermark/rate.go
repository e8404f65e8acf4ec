package watermark

import "fmt"

// OriginalSampleRate decodes a 4-bit original sample rate code.
//
// The low bit selects the 44.1 kHz or 48 kHz family. The three high bits,
// read in reverse order, give the power of two multiplier; multipliers
// above 16 are doubled again for the DSD range.
func OriginalSampleRate(code uint8) (int, error) {
	if code > 0b1111 {
		return 0, fmt.Errorf("invalid sample rate code %d", code)
	}

	base := 44100
	if code&1 == 1 {
		base = 48000
	}

	rotated := (code>>3)&1 | ((code>>2)&1)<<1 | ((code>>1)&1)<<2
	multiplier := 1 << rotated
	if multiplier > 16 {
		multiplier *= 2
	}

	return base * multiplier, nil
}
