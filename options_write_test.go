package mqascan

import (
	"bytes"
	"io"
	"log/slog"
	"testing"
)

func TestScanOptions(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		opts := defaultOptions()

		if opts.workers != DefaultWorkers() {
			t.Errorf("expected %d workers, got %d", DefaultWorkers(), opts.workers)
		}
		if opts.verbose {
			t.Error("expected verbose to be false")
		}
		if opts.output != io.Discard {
			t.Error("expected output to be discarded")
		}
		if opts.tag.dryRun || opts.tag.validate || opts.tag.backupSuffix != "" {
			t.Errorf("expected zero tag options, got %+v", opts.tag)
		}
	})

	t.Run("WithOutput", func(t *testing.T) {
		opts := defaultOptions()
		var buf bytes.Buffer
		WithOutput(&buf, true)(opts)

		if opts.output != &buf || !opts.color {
			t.Error("expected output and color to be set")
		}

		WithOutput(nil, false)(opts)
		if opts.output != &buf {
			t.Error("nil writer should be ignored")
		}
	})

	t.Run("WithLogger", func(t *testing.T) {
		opts := defaultOptions()
		l := slog.New(slog.NewTextHandler(io.Discard, nil))
		WithLogger(l)(opts)
		if opts.logger != l {
			t.Error("expected logger to be set")
		}
		WithLogger(nil)(opts)
		if opts.logger != l {
			t.Error("nil logger should be ignored")
		}
	})
}

func TestTagOptions(t *testing.T) {
	t.Run("WithDryRun", func(t *testing.T) {
		opts := defaultOptions()
		WithDryRun()(opts)
		if !opts.tag.dryRun {
			t.Error("expected dryRun to be true")
		}
	})

	t.Run("WithBackup", func(t *testing.T) {
		opts := defaultOptions()
		WithBackup(".bak")(opts)
		if opts.tag.backupSuffix != ".bak" {
			t.Errorf("expected backupSuffix %q, got %q", ".bak", opts.tag.backupSuffix)
		}
	})

	t.Run("WithValidation", func(t *testing.T) {
		opts := defaultOptions()
		WithValidation()(opts)
		if !opts.tag.validate {
			t.Error("expected validate to be true")
		}
	})

	t.Run("WithTagger", func(t *testing.T) {
		opts := defaultOptions()
		if opts.tag.tagger(FormatFLAC) == nil {
			t.Fatal("expected the registered FLAC tagger")
		}

		m := newMemTagger()
		WithTagger(FormatWAV, m)(opts)
		WithTagger(FormatFLAC, nil)(opts)

		if opts.tag.tagger(FormatWAV) != Tagger(m) {
			t.Error("expected WAV override")
		}
		if opts.tag.tagger(FormatFLAC) != nil {
			t.Error("expected FLAC tagging to be disabled")
		}
	})
}
