// Package mqascan finds MQA watermarks in lossless audio files.
//
// MQA hides a 36-bit synchronisation word in the low bits of the PCM
// samples, in the XOR of the left and right channels. Once the word is
// found, the frames that follow carry the original sample rate of the
// master and a provenance code that marks studio-authenticated encodes.
// mqascan decodes FLAC and WAV files, looks for the word within the first
// three seconds of audio and records what it finds as Vorbis comments.
//
// # Quick Start
//
// Checking a single file:
//
//	r, err := mqascan.DetectFile("track.flac")
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Println(mqascan.Classification(r)) // e.g. "MQA Studio 96K"
//
// Scanning many files concurrently and tagging the detected ones:
//
//	s := mqascan.New(
//	    mqascan.WithOutput(os.Stdout, mqascan.IsTerminal(os.Stdout)),
//	    mqascan.WithVerbose(),
//	)
//	sum, err := s.Run(ctx, paths)
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Printf("Found %d MQA files\n", sum.Detected)
//
// # Supported Formats
//
//   - FLAC: detection and tagging (MQAENCODER, ORIGINALSAMPLERATE)
//   - WAV: detection only
//
// Only stereo streams with 16 or 24 bits per sample can carry the
// watermark; anything else is reported as a FormatError.
//
// # Tagging
//
// Tags are only added when absent, so a second scan of the same files
// modifies nothing. Files are rewritten through a temporary file and an
// atomic rename. Use WithDryRun to scan without writing.
//
// # Error Handling
//
// A failure scanning one file never stops the run. Each failure is
// recorded in Summary.Errors under the string returned by Reason, which
// names the kind of error:
//
//   - PathError: the input path is missing or inaccessible
//   - FormatError: the header is invalid or the layout unsupported
//   - DecodeError: decoding failed or the stream ended early
//   - TagError: the tags could not be read or written
//   - InternalError: the scan of the file panicked
//
// Use errors.As to inspect them:
//
//	var fe *mqascan.FormatError
//	if errors.As(err, &fe) {
//		fmt.Println("unsupported:", fe.Reason)
//	}
//
// # Concurrency
//
// Run uses a pool of DefaultWorkers goroutines unless WithWorkers says
// otherwise. Result lines are written whole but in completion order.
// Diagnostics go to the slog.Logger given with WithLogger.
package mqascan
