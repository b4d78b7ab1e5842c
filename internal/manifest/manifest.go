// Package manifest reads and writes the classification manifest, the tabular
// control file that maps staged source files to their target taxonomy. The
// manifest is the sole hand-off artifact between classification and
// archival; a human edits it between pipeline stages, so loading tolerates
// reordered columns and the compact stage spellings of older files.
package manifest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// ErrNotFound indicates the manifest file does not exist yet.
var ErrNotFound = errors.New("manifest: file not found")

// Columns is the canonical column order written by Write. Load accepts any
// column order as long as the header names match.
var Columns = []string{
	"source_path",
	"filename",
	"pattern_domain",
	"maturation_stage",
	"pattern_tags",
	"validation_status",
	"instructional_readiness",
	"experience_date",
	"provenance",
	"source_url",
	"related_links",
	"snippet",
	"status",
}

// Row is one manifest entry describing a staged source file. SourcePath is
// the row identity and must be unique within a manifest; the classifier
// rejects duplicates.
type Row struct {
	SourcePath             string
	Filename               string
	Domain                 string
	Stage                  string
	Tags                   []string
	ValidationStatus       string
	InstructionalReadiness string
	ExperienceDate         string
	Provenance             string
	SourceURL              string
	RelatedLinks           []string
	Snippet                string
	Status                 string
}

// Load reads the manifest at path. A missing file returns ErrNotFound so
// callers can hint at running init first.
func Load(path string) ([]Row, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("manifest: open %s: %w", path, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("manifest: read header of %s: %w", path, err)
	}
	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.ToLower(strings.TrimSpace(name))] = i
	}
	if _, ok := index["source_path"]; !ok {
		return nil, fmt.Errorf("manifest: %s: header is missing source_path", path)
	}

	var rows []Row
	line := 1
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("manifest: %s line %d: %w", path, line, err)
		}
		field := func(name string) string {
			i, ok := index[name]
			if !ok || i >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[i])
		}
		row := Row{
			SourcePath:             field("source_path"),
			Filename:               field("filename"),
			Domain:                 field("pattern_domain"),
			Stage:                  field("maturation_stage"),
			Tags:                   SplitList(field("pattern_tags")),
			ValidationStatus:       field("validation_status"),
			InstructionalReadiness: field("instructional_readiness"),
			ExperienceDate:         field("experience_date"),
			Provenance:             field("provenance"),
			SourceURL:              field("source_url"),
			RelatedLinks:           SplitList(field("related_links")),
			Snippet:                field("snippet"),
			Status:                 field("status"),
		}
		if row.SourcePath == "" {
			continue
		}
		if row.Filename == "" {
			row.Filename = filepath.Base(row.SourcePath)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// Write persists rows to path in the canonical column order, replacing any
// existing manifest.
func Write(path string, rows []Row) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("manifest: ensure dir for %s: %w", path, err)
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("manifest: create %s: %w", path, err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write(Columns); err != nil {
		return fmt.Errorf("manifest: write header: %w", err)
	}
	for _, row := range rows {
		record := []string{
			row.SourcePath,
			row.Filename,
			row.Domain,
			row.Stage,
			JoinList(row.Tags),
			row.ValidationStatus,
			row.InstructionalReadiness,
			row.ExperienceDate,
			row.Provenance,
			row.SourceURL,
			JoinList(row.RelatedLinks),
			row.Snippet,
			row.Status,
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("manifest: write row %s: %w", row.SourcePath, err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("manifest: flush %s: %w", path, err)
	}
	return nil
}

// SplitList parses a semicolon-separated multi-value field.
func SplitList(value string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(value, ";") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// JoinList renders a multi-value field back to its manifest form.
func JoinList(values []string) string {
	return strings.Join(values, ";")
}
