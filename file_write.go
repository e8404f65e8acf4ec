package mqascan

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/simonhull/mqascan/internal/registry"
)

// tag persists the detection tags of a detected file.
//
// Only keys absent from the file are written, so running the scanner
// twice over the same file modifies it at most once. Failures land in
// out.TagErr and never change the classification.
func (s *Scanner) tag(out *Outcome) {
	opts := &s.opts.tag
	tags := TagsFor(out.Result)

	t := opts.tagger(out.Format)
	if tr, ok := t.(registry.TagReader); ok {
		if v, found, err := tr.ReadTag(out.Path, EncoderKey); err == nil && found {
			out.PriorEncoder = v
		}
	}

	if t == nil {
		out.TagErr = &TagError{Path: out.Path, Op: "write", Err: &UnsupportedWriteError{
			Format: out.Format,
			Reason: "no tagger registered",
		}}
		return
	}

	if opts.dryRun {
		out.DryRun = true
		s.log.Info("dry run, tags not written", "path", out.Path)
		return
	}

	var backupPath string
	if opts.backupSuffix != "" {
		backupPath = out.Path + opts.backupSuffix
		if err := copyFile(out.Path, backupPath); err != nil {
			out.TagErr = &TagError{Path: out.Path, Op: "backup", Err: err}
			return
		}
	}

	written, err := t.AddTags(out.Path, tags)
	if err != nil {
		var te *TagError
		if !errors.As(err, &te) {
			err = &TagError{Path: out.Path, Op: "write", Err: err}
		}
		out.TagErr = err
		return
	}
	out.Tagged = written

	// Nothing changed, so there is nothing to back up.
	if backupPath != "" && len(written) == 0 {
		_ = os.Remove(backupPath) //nolint:errcheck // Best effort cleanup
	}

	if opts.validate && len(written) > 0 {
		if err := validateTags(t, out.Path); err != nil {
			out.TagErr = &TagError{Path: out.Path, Op: "verify", Err: err}
		}
	}
	if len(written) > 0 {
		s.log.Debug("tags written", "path", out.Path, "keys", written)
	}
}

// validateTags re-reads the encoder tag after a write.
func validateTags(t Tagger, path string) error {
	tr, ok := t.(registry.TagReader)
	if !ok {
		return nil
	}
	v, found, err := tr.ReadTag(path, EncoderKey)
	if err != nil {
		return fmt.Errorf("re-read: %w", err)
	}
	if !found {
		return fmt.Errorf("%s missing after write", EncoderKey)
	}
	if v == "" {
		return fmt.Errorf("%s empty after write", EncoderKey)
	}
	return nil
}

// copyFile copies src to dst through a temporary file in dst's directory.
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open original: %w", err)
	}
	defer in.Close() //nolint:errcheck // Read-only handle

	info, err := in.Stat()
	if err != nil {
		return fmt.Errorf("stat original: %w", err)
	}

	tempFile, err := os.CreateTemp(filepath.Dir(dst), ".mqascan-*.bak")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tempPath := tempFile.Name()

	success := false
	defer func() {
		if !success {
			_ = tempFile.Close()    //nolint:errcheck // Best effort cleanup
			_ = os.Remove(tempPath) //nolint:errcheck // Best effort cleanup
		}
	}()

	if _, err := io.Copy(tempFile, in); err != nil {
		return fmt.Errorf("copy: %w", err)
	}
	if err := tempFile.Sync(); err != nil {
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tempPath, info.Mode().Perm()); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := os.Rename(tempPath, dst); err != nil {
		return fmt.Errorf("rename temp to backup: %w", err)
	}
	success = true
	return nil
}
