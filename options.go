package mqascan

import (
	"io"
	"log/slog"
	"runtime"
)

// Pool size bounds used when WithWorkers is not given.
const (
	MaxWorkers      = 16
	FallbackWorkers = 4
)

// Option configures a Scanner.
//
// Options use the functional options pattern for clean, extensible APIs.
//
// Example:
//
//	s := mqascan.New(
//	    mqascan.WithWorkers(8),
//	    mqascan.WithVerbose(),
//	)
type Option func(*scanOptions)

// scanOptions holds configuration for a scan run.
type scanOptions struct {
	workers int          // Pool size
	verbose bool         // Accumulate the event log
	logger  *slog.Logger // Diagnostics
	output  io.Writer    // Per-file result lines
	color   bool         // Highlight detections in output

	tag tagOptions
}

// defaultOptions returns the default configuration.
func defaultOptions() *scanOptions {
	return &scanOptions{
		workers: DefaultWorkers(),
		logger:  slog.New(slog.DiscardHandler),
		output:  io.Discard,
		tag:     defaultTagOptions(),
	}
}

// DefaultWorkers returns the hardware parallelism capped at MaxWorkers,
// or FallbackWorkers when it cannot be determined.
func DefaultWorkers() int {
	n := runtime.GOMAXPROCS(0)
	switch {
	case n < 1:
		return FallbackWorkers
	case n > MaxWorkers:
		return MaxWorkers
	default:
		return n
	}
}

// WithWorkers sets the number of files scanned concurrently.
// Values below 1 keep the default.
func WithWorkers(n int) Option {
	return func(o *scanOptions) {
		if n > 0 {
			o.workers = n
		}
	}
}

// WithVerbose records an event for every stage of every file. The events
// are returned in the Summary and written by Summary.WriteLog.
func WithVerbose() Option {
	return func(o *scanOptions) {
		o.verbose = true
	}
}

// WithLogger sets the logger for diagnostics. By default nothing is logged.
func WithLogger(l *slog.Logger) Option {
	return func(o *scanOptions) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithOutput sets where per-file result lines are printed. Lines from
// concurrent scans never interleave but appear in completion order.
//
// Example:
//
//	s := mqascan.New(mqascan.WithOutput(os.Stdout, mqascan.IsTerminal(os.Stdout)))
func WithOutput(w io.Writer, color bool) Option {
	return func(o *scanOptions) {
		if w != nil {
			o.output = w
			o.color = color
		}
	}
}
