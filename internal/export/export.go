// Package export bundles the archive tree and the generated indexes into a
// single portable JSON file. The bundle is an external convenience for
// backup and transfer, not part of the core pipeline; importing is out of
// scope.
package export

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	"parch/internal/config"
)

// Version identifies the bundle format.
const Version = "1.0"

// Meta describes the bundle itself.
type Meta struct {
	ExportDate string `json:"export_date"`
	SourceRoot string `json:"source_root"`
	Version    string `json:"version"`
}

// File is one bundled document, path relative to the archive root.
type File struct {
	Path    string `json:"path"`
	Content string `json:"content"`
}

// Bundle is the on-disk JSON shape.
type Bundle struct {
	Meta  Meta   `json:"meta"`
	Files []File `json:"files"`
}

// Exporter writes archive bundles.
type Exporter struct {
	layout config.Layout
	now    func() time.Time
}

// Option customizes an Exporter during construction.
type Option func(*Exporter)

// WithClock overrides the clock used for the export date and file name.
func WithClock(clock func() time.Time) Option {
	return func(e *Exporter) {
		e.now = clock
	}
}

// New builds an exporter for the given layout.
func New(layout config.Layout, opts ...Option) *Exporter {
	exporter := &Exporter{layout: layout, now: time.Now}
	for _, opt := range opts {
		opt(exporter)
	}
	return exporter
}

// DefaultPath is where Export writes when the operator gives no output path.
func (e *Exporter) DefaultPath() string {
	name := fmt.Sprintf("pattern-archive-backup-%s.json", e.now().UTC().Format("2006-01-02"))
	return filepath.Join(e.layout.Root, name)
}

// Export writes the bundle to outPath and returns the number of files
// bundled. Files are ordered by path so repeated exports of an unchanged
// archive are byte-identical apart from the export date.
func (e *Exporter) Export(outPath string) (int, error) {
	bundle := Bundle{
		Meta: Meta{
			ExportDate: e.now().UTC().Format(time.RFC3339),
			SourceRoot: e.layout.Root,
			Version:    Version,
		},
	}
	for _, dir := range []string{e.layout.ArchiveDir, e.layout.IndexDir} {
		files, err := e.collect(dir)
		if err != nil {
			return 0, err
		}
		bundle.Files = append(bundle.Files, files...)
	}
	sort.Slice(bundle.Files, func(i, j int) bool { return bundle.Files[i].Path < bundle.Files[j].Path })

	encoded, err := json.MarshalIndent(bundle, "", "  ")
	if err != nil {
		return 0, fmt.Errorf("export: encode bundle: %w", err)
	}
	if err := os.WriteFile(outPath, encoded, 0o644); err != nil {
		return 0, fmt.Errorf("export: write %s: %w", outPath, err)
	}
	return len(bundle.Files), nil
}

func (e *Exporter) collect(dir string) ([]File, error) {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return nil, nil
	}
	var files []File
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		content, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("export: read %s: %w", path, err)
		}
		rel, err := filepath.Rel(e.layout.Root, path)
		if err != nil {
			return err
		}
		files = append(files, File{Path: filepath.ToSlash(rel), Content: string(content)})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("export: scan %s: %w", dir, err)
	}
	return files, nil
}
