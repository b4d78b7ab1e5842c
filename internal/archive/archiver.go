// Package archive moves accepted staging files into their place in the
// archive tree and stamps each one with a YAML frontmatter header. The
// archiver never overwrites: a destination that already exists is a
// CollisionError the operator must resolve by hand.
package archive

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"parch/internal/config"
	"parch/internal/manifest"
)

// CollisionError reports a destination path that already exists.
type CollisionError struct {
	Source      string
	Destination string
}

func (e *CollisionError) Error() string {
	return fmt.Sprintf("archive: destination %s already exists (source %s)", e.Destination, e.Source)
}

// MissingSourceError reports a manifest row whose source file is absent from
// the staging area.
type MissingSourceError struct {
	Source string
}

func (e *MissingSourceError) Error() string {
	return fmt.Sprintf("archive: source file %s does not exist", e.Source)
}

// Archiver relocates documents into the archive tree.
type Archiver struct {
	layout config.Layout
	now    func() time.Time
}

// Option customizes an Archiver during construction.
type Option func(*Archiver)

// WithClock overrides the clock used for import dates.
func WithClock(clock func() time.Time) Option {
	return func(a *Archiver) {
		a.now = clock
	}
}

// New builds an archiver for the given layout.
func New(layout config.Layout, opts ...Option) *Archiver {
	archiver := &Archiver{
		layout: layout,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(archiver)
	}
	return archiver
}

// DestPath computes the archive destination for a row with the given
// canonical stage: archive/<domain>/<stage>/<basename>.
func (a *Archiver) DestPath(row manifest.Row, stage manifest.Stage) string {
	name := row.Filename
	if name == "" {
		name = filepath.Base(row.SourcePath)
	}
	return filepath.Join(a.layout.ArchiveDir, row.Domain, string(stage), name)
}

// Archive moves the row's source file to its computed destination and
// injects the metadata header. It returns the destination path on success.
// CollisionError and MissingSourceError are per-row diagnostics; any other
// error is a filesystem failure the caller should treat as fatal.
func (a *Archiver) Archive(row manifest.Row, stage manifest.Stage) (string, error) {
	source := row.SourcePath
	if !filepath.IsAbs(source) {
		source = filepath.Join(a.layout.Root, source)
	}
	content, err := os.ReadFile(source)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", &MissingSourceError{Source: row.SourcePath}
		}
		return "", fmt.Errorf("archive: read %s: %w", source, err)
	}

	dest := a.DestPath(row, stage)
	if _, err := os.Stat(dest); err == nil {
		return "", &CollisionError{Source: row.SourcePath, Destination: dest}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("archive: stat %s: %w", dest, err)
	}

	importDate := a.now().UTC().Format("2006-01-02")
	header := Header{
		Domain:                 row.Domain,
		Stage:                  stage,
		Tags:                   row.Tags,
		ValidationStatus:       row.ValidationStatus,
		InstructionalReadiness: row.InstructionalReadiness,
		Temporal: TemporalContext{
			ExperienceDate: row.ExperienceDate,
			AnalysisDate:   importDate,
		},
		Provenance:   row.Provenance,
		Source:       SourceStagingImport,
		SourceURL:    row.SourceURL,
		RelatedLinks: row.RelatedLinks,
		ImportDate:   importDate,
	}
	if header.Temporal.ExperienceDate == "" {
		header.Temporal.ExperienceDate = importDate
	}

	body := StripFrontMatter(content)
	document, err := WriteFrontMatter(header, body)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return "", fmt.Errorf("archive: create %s: %w", filepath.Dir(dest), err)
	}
	if err := os.WriteFile(dest, document, 0o644); err != nil {
		return "", fmt.Errorf("archive: write %s: %w", dest, err)
	}
	// Write-then-remove instead of rename: the header changes the content
	// anyway, and it works across filesystems.
	if err := os.Remove(source); err != nil {
		return "", fmt.Errorf("archive: remove staged %s: %w", source, err)
	}
	return dest, nil
}
