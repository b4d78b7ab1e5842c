// Package staging scans the staging area for incoming documents and seeds
// the classification manifest with heuristic suggestions. The suggestions
// are starting points only; the operator edits the manifest before running
// the archiver, and the classifier is the authority on what is valid.
package staging

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"parch/internal/archive"
	"parch/internal/config"
	"parch/internal/index"
	"parch/internal/manifest"
)

// snippetWords matches the index snippet length so the manifest preview and
// the generated index read the same.
const snippetWords = 75

// Scanner builds manifest rows from the staging area.
type Scanner struct {
	layout config.Layout
	now    func() time.Time
}

// Option customizes a Scanner during construction.
type Option func(*Scanner)

// WithClock overrides the clock used for experience dates.
func WithClock(clock func() time.Time) Option {
	return func(s *Scanner) {
		s.now = clock
	}
}

// NewScanner builds a scanner for the given layout.
func NewScanner(layout config.Layout, opts ...Option) *Scanner {
	scanner := &Scanner{layout: layout, now: time.Now}
	for _, opt := range opts {
		opt(scanner)
	}
	return scanner
}

// Scan walks the staging directory recursively and returns one pending
// manifest row per markdown file, sorted by source path.
func (s *Scanner) Scan() ([]manifest.Row, error) {
	var rows []manifest.Row
	today := s.now().UTC().Format("2006-01-02")
	err := filepath.WalkDir(s.layout.StagingDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(strings.ToLower(d.Name()), ".md") {
			return nil
		}
		content, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("staging: read %s: %w", path, err)
		}
		rel, err := filepath.Rel(s.layout.Root, path)
		if err != nil {
			return err
		}
		domain, tags, stage := Suggest(content)
		rows = append(rows, manifest.Row{
			SourcePath:             filepath.ToSlash(rel),
			Filename:               d.Name(),
			Domain:                 domain,
			Stage:                  string(stage),
			Tags:                   tags,
			ValidationStatus:       "single_observation",
			InstructionalReadiness: "internal_reference",
			ExperienceDate:         today,
			Provenance:             "personal_documentation",
			Snippet:                index.Snippet(archive.StripFrontMatter(content), snippetWords),
			Status:                 "pending",
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("staging: scan: %w", err)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].SourcePath < rows[j].SourcePath })
	return rows, nil
}

// Suggest guesses an initial classification from the document content. The
// keyword heuristics are crude on purpose; anything smarter belongs in the
// operator's head, not here.
func Suggest(content []byte) (domain string, tags []string, stage manifest.Stage) {
	lower := strings.ToLower(string(content))
	domain = "social-engineering"
	stage = manifest.StageExperiential
	if strings.Contains(lower, "doctrine") {
		stage = manifest.StageFormalized
	}
	switch {
	case strings.Contains(lower, "code") || strings.Contains(lower, "function") || strings.Contains(lower, "def "):
		domain = "tradecraft"
		tags = append(tags, "code-snippet")
	case strings.Contains(lower, "journal") || strings.Contains(lower, "diary") || strings.Contains(lower, "felt"):
		domain = "forensic-psychology"
		tags = append(tags, "reflection")
	}
	return domain, tags, stage
}
