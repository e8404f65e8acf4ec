package mqascan

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/simonhull/mqascan/internal/report"
)

// Scanner detects and tags MQA watermarks across many files.
// A Scanner may be reused for several runs; each run has its own Aggregate.
type Scanner struct {
	opts    *scanOptions
	log     *slog.Logger
	console *report.Console
}

// New returns a Scanner configured by opts.
func New(opts ...Option) *Scanner {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return &Scanner{
		opts:    o,
		log:     o.logger,
		console: report.NewConsole(o.output, o.color),
	}
}

// Workers returns the pool size.
func (s *Scanner) Workers() int { return s.opts.workers }

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool { return report.IsTerminal(f) }

// Run scans paths with a bounded pool of workers and returns the totals.
//
// Files are admitted in order and numbered from 1. Admission blocks while
// every worker is busy and resumes as soon as any running file finishes,
// not necessarily the earliest admitted one, so at most Workers files are
// ever in flight. Per-file failures are recorded in the Summary and
// never stop the run. Cancelling ctx stops admission of further files;
// files already admitted are scanned to completion, and Run returns the
// partial Summary together with ctx.Err().
//
// Example:
//
//	s := mqascan.New(mqascan.WithOutput(os.Stdout, false))
//	sum, err := s.Run(ctx, files)
//	if err != nil {
//		log.Printf("scan interrupted: %v", err)
//	}
//	fmt.Printf("%d of %d files carry MQA\n", sum.Detected, sum.Scanned)
func (s *Scanner) Run(ctx context.Context, paths []string) (*Summary, error) {
	start := time.Now()
	runID := uuid.NewString()
	agg := newAggregate(s.opts.verbose)

	s.log.Debug("scan started", "run", runID, "files", len(paths), "workers", s.opts.workers)

	var g errgroup.Group
	g.SetLimit(s.opts.workers)

	var err error
	for i, path := range paths {
		if err = ctx.Err(); err != nil {
			s.log.Warn("scan cancelled", "run", runID, "admitted", i, "files", len(paths))
			break
		}
		g.Go(func() error {
			s.task(agg, i+1, path)
			return nil
		})
	}
	_ = g.Wait() //nolint:errcheck // Tasks never return errors

	sum := agg.summary(runID, time.Since(start))
	s.log.Debug("scan finished", "run", runID, "scanned", sum.Scanned, "detected", sum.Detected, "errors", sum.ErrorCount())
	return sum, err
}

// task is the boundary of one file's work. Whatever happens inside, the
// outcome is recorded exactly once.
func (s *Scanner) task(agg *Aggregate, index int, path string) {
	var out Outcome
	defer func() {
		if v := recover(); v != nil {
			out = Outcome{Path: path, Err: &InternalError{Path: path, Value: v}}
		}
		out.Index = index
		agg.record(out)
		s.report(agg, out)
		agg.event(index, path, StageFinish, out.Class())
	}()

	agg.event(index, path, StageStart, "")
	out = s.ScanFile(path)
}

// report prints the result line and records the per-stage events.
// Errors are not printed; they are collected under their reason.
func (s *Scanner) report(agg *Aggregate, out Outcome) {
	if out.Err != nil {
		s.log.Debug("scan failed", "path", out.Path, "error", out.Err)
		return
	}

	name := filepath.Base(out.Path)
	agg.event(out.Index, out.Path, StageDetect, out.Class())

	if out.Result.Detected {
		switch {
		case out.DryRun:
			msg := "DRY RUN: Would write tags to " + name
			s.console.Printf("%s\n", msg)
			agg.event(out.Index, out.Path, StageTag, msg)
		case len(out.Tagged) > 0:
			agg.event(out.Index, out.Path, StageTag, "wrote "+strings.Join(out.Tagged, ", "))
		case out.TagErr == nil:
			agg.event(out.Index, out.Path, StageTag, "already tagged")
		}
		if out.PriorEncoder != "" {
			agg.event(out.Index, out.Path, StageTag, "existing "+EncoderKey+": "+out.PriorEncoder)
		}
	}

	s.console.Result(out.Index, out.Class(), name)
}
