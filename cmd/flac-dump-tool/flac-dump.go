package main

import (
	"fmt"
	"os"

	"github.com/simonhull/mqascan"
	"github.com/simonhull/mqascan/internal/binary"
	"github.com/simonhull/mqascan/internal/vorbis"
)

var blockNames = map[uint8]string{
	0: "STREAMINFO",
	1: "PADDING",
	2: "APPLICATION",
	3: "SEEKTABLE",
	4: "VORBIS_COMMENT",
	5: "CUESHEET",
	6: "PICTURE",
}

// Useful test file to confirm what the tagger left in a FLAC file and what
// the detector sees in its audio.
func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: flac-dump <file.flac>")
		os.Exit(1)
	}
	path := os.Args[1]

	f, err := os.Open(path)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	if err := dumpBlocks(binary.NewSafeReader(f, info.Size(), path)); err != nil {
		fmt.Printf("Error: %v\n", err)
	}

	r, err := mqascan.DetectFile(path)
	if err != nil {
		fmt.Printf("\nDetection failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("\n%s\n", mqascan.Classification(r))
	if r.Detected {
		fmt.Printf("  sync frame:  %d\n", r.SyncFrame)
		fmt.Printf("  bit offset:  %d\n", r.BitOffset)
		fmt.Printf("  rate code:   %04b (%d Hz)\n", r.RateCode, r.OriginalSampleRate)
		fmt.Printf("  provenance:  %05b\n", r.Provenance)
	}
}

func dumpBlocks(sr *binary.SafeReader) error {
	magic := make([]byte, 4)
	if err := sr.ReadAt(magic, 0, "FLAC magic"); err != nil {
		return err
	}
	if string(magic) != "fLaC" {
		return fmt.Errorf("not a FLAC file (magic %q)", magic)
	}

	offset := int64(4)
	for {
		header, err := binary.Read[uint32](sr, offset, "block header")
		if err != nil {
			return err
		}
		last := header>>31 == 1
		typ := uint8(header>>24) & 0x7F
		length := int64(header & 0xFFFFFF)

		name := blockNames[typ]
		if name == "" {
			name = "UNKNOWN"
		}
		fmt.Printf("[%s] type=%d offset=%d length=%d\n", name, typ, offset, length)

		if typ == 4 {
			data := make([]byte, length)
			if err := sr.ReadAt(data, offset+4, "Vorbis comments"); err != nil {
				return err
			}
			c, err := vorbis.Parse(data, sr.Path())
			if err != nil {
				return err
			}
			fmt.Printf("  vendor: %s\n", c.Vendor)
			for _, e := range c.Entries {
				fmt.Printf("  %s\n", e)
			}
		}

		offset += 4 + length
		if last {
			fmt.Printf("audio frames start at %d\n", offset)
			return nil
		}
	}
}
