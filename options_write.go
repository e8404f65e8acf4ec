package mqascan

import "github.com/simonhull/mqascan/internal/registry"

// Tagger is an alias to registry.Tagger.
type Tagger = registry.Tagger

// tagOptions holds configuration for writing tags to detected files.
type tagOptions struct {
	dryRun       bool              // Log instead of writing
	backupSuffix string            // Suffix for backup file (e.g., ".bak")
	validate     bool              // Re-read after write to verify
	taggers      map[Format]Tagger // Overrides of the registered taggers
}

// defaultTagOptions returns the default configuration for tagging.
func defaultTagOptions() tagOptions {
	return tagOptions{}
}

// WithDryRun scans without modifying any file. Each tag write that would
// have happened is reported as "DRY RUN: Would write tags to <name>".
func WithDryRun() Option {
	return func(o *scanOptions) {
		o.tag.dryRun = true
	}
}

// WithBackup copies a file before its tags are first modified.
//
// The backup file will have the specified suffix appended to the original
// filename. For example, WithBackup(".bak") will create "song.flac.bak"
// before modifying "song.flac". Files that already carry every tag are not
// backed up because they are not modified.
//
// If the backup file already exists, it will be overwritten.
func WithBackup(suffix string) Option {
	return func(o *scanOptions) {
		o.tag.backupSuffix = suffix
	}
}

// WithValidation re-reads the encoder tag after writing to verify it.
//
// This needs a tagger that can read tags back; for other taggers the
// option has no effect.
func WithValidation() Option {
	return func(o *scanOptions) {
		o.tag.validate = true
	}
}

// WithTagger replaces the registered tagger for a format.
// A nil tagger disables tagging for that format.
func WithTagger(format Format, t Tagger) Option {
	return func(o *scanOptions) {
		if o.tag.taggers == nil {
			o.tag.taggers = make(map[Format]Tagger)
		}
		o.tag.taggers[format] = t
	}
}

// tagger returns the tagger for format, honouring overrides.
func (o *tagOptions) tagger(format Format) Tagger {
	if t, ok := o.taggers[format]; ok {
		return t
	}
	return registry.GetTagger(format)
}
