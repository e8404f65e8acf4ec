// Command mqascan reports which FLAC and WAV files carry an MQA watermark
// and tags the FLAC files it finds.
//
// Usage:
//
//	mqascan [-v] [--dry-run] [--log=PATH] [--workers=N] [--log-level=LEVEL] paths...
//
// Paths may be files or directories; directories are searched recursively.
// Defaults can be set with MQASCAN_WORKERS, MQASCAN_DRY_RUN,
// MQASCAN_VERBOSE, MQASCAN_LOG and MQASCAN_LOG_LEVEL.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/simonhull/mqascan"
	"github.com/simonhull/mqascan/internal/config"
	"github.com/simonhull/mqascan/internal/report"
	"github.com/simonhull/mqascan/internal/walk"
)

const title = "MQA identifier"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

type options struct {
	config.Config
	version bool
	paths   []string
}

// parseArgs parses flags anywhere among the paths.
func parseArgs(args []string, stderr io.Writer) (options, error) {
	opts := options{Config: config.Load()}
	level := opts.LogLevel.String()

	fs := flag.NewFlagSet("mqascan", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.BoolVar(&opts.Verbose, "v", opts.Verbose, "record every event and write the log file")
	fs.BoolVar(&opts.Verbose, "verbose", opts.Verbose, "same as -v")
	fs.BoolVar(&opts.DryRun, "dry-run", opts.DryRun, "scan without modifying files")
	fs.StringVar(&opts.LogPath, "log", opts.LogPath, "log file written in verbose mode")
	fs.IntVar(&opts.Workers, "workers", opts.Workers, "files scanned concurrently (0 = number of CPUs, at most 16)")
	fs.StringVar(&level, "log-level", level, "diagnostics level on stderr (debug, info, warn, error)")
	fs.BoolVar(&opts.version, "version", false, "print version and exit")

	for {
		if err := fs.Parse(args); err != nil {
			return opts, err
		}
		args = fs.Args()
		if len(args) == 0 {
			break
		}
		opts.paths = append(opts.paths, args[0])
		args = args[1:]
	}

	opts.LogLevel = config.ParseLevel(level, opts.LogLevel)
	return opts, nil
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	opts, err := parseArgs(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	if opts.version {
		fmt.Fprintln(stdout, mqascan.GetVersionInfo())
		return 0
	}

	if len(opts.paths) == 0 {
		fmt.Fprintln(stdout, "HINT: To use the tool provide files and/or directories as program arguments.")
		fmt.Fprintln(stdout, "      Use -v to enable verbose logging to "+opts.LogPath)
		fmt.Fprintln(stdout, "      Use --dry-run to scan without modifying files.")
		fmt.Fprintln(stdout)
		return 0
	}

	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: opts.LogLevel}))

	files, skips := walk.Walk(opts.paths, mqascan.Formats...)
	for _, s := range skips {
		logger.Warn("skipping path", "path", s.Path, "reason", s.Reason, "error", s.Err)
	}

	color := false
	if f, ok := stdout.(*os.File); ok {
		color = mqascan.IsTerminal(f)
	}
	console := report.NewConsole(stdout, color)
	console.Banner(title, len(files))

	scanOpts := []mqascan.Option{
		mqascan.WithOutput(stdout, color),
		mqascan.WithLogger(logger),
		mqascan.WithWorkers(opts.Workers),
	}
	if opts.DryRun {
		scanOpts = append(scanOpts, mqascan.WithDryRun())
	}
	if opts.Verbose {
		scanOpts = append(scanOpts, mqascan.WithVerbose())
	}

	sum, err := mqascan.New(scanOpts...).Run(ctx, files)
	if err != nil {
		logger.Warn("scan interrupted", "error", err)
	}

	// Walker skips belong in the same error log as per-file failures.
	for _, s := range skips {
		reason := mqascan.Reason(s.AsError())
		sum.Errors[reason] = append(sum.Errors[reason], s.Path)
	}

	console.Summary(sum.Scanned, sum.Detected, sum.Elapsed)

	if opts.Verbose && sum.HasLog() {
		if err := sum.WriteLog(opts.LogPath); err != nil {
			fmt.Fprintf(stderr, "Failed to write log file: %v\n", err)
			return 1
		}
		fmt.Fprintf(stdout, "Log written to %s\n", opts.LogPath)
	}

	if err != nil {
		return 130
	}
	return 0
}
