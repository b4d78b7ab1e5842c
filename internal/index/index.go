// Package index rebuilds the per-domain listing documents from a full scan
// of the archive tree. The tree is the single source of truth: every run
// regenerates all index files wholesale, so two runs over an unchanged
// archive produce byte-identical output.
package index

import (
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"parch/internal/archive"
	"parch/internal/config"
	"parch/internal/manifest"
)

// indexSuffix names the generated files: <domain>-index.md.
const indexSuffix = "-index.md"

// snippetWords is how many words of body each index entry quotes.
const snippetWords = 75

// Entry is one archived document as seen by the indexer. Domain and Stage
// come from the document's position in the tree, not its header.
type Entry struct {
	Domain   string
	Stage    manifest.Stage
	Filename string
	Path     string // absolute
	Snippet  string
}

// Scan walks the archive tree and returns every markdown document that sits
// at the canonical archive/<domain>/<stage>/<name> depth. Files elsewhere in
// the tree are ignored; the validate pass reports them separately.
func Scan(layout config.Layout) ([]Entry, error) {
	var entries []Entry
	err := filepath.WalkDir(layout.ArchiveDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(strings.ToLower(d.Name()), ".md") {
			return nil
		}
		rel, err := filepath.Rel(layout.ArchiveDir, path)
		if err != nil {
			return err
		}
		parts := strings.Split(filepath.ToSlash(rel), "/")
		if len(parts) != 3 {
			return nil
		}
		stage, ok := manifest.ParseStage(parts[1])
		if !ok {
			return nil
		}
		content, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("index: read %s: %w", path, err)
		}
		entries = append(entries, Entry{
			Domain:   parts[0],
			Stage:    stage,
			Filename: parts[2],
			Path:     path,
			Snippet:  Snippet(archive.StripFrontMatter(content), snippetWords),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("index: scan archive: %w", err)
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Domain != entries[j].Domain {
			return entries[i].Domain < entries[j].Domain
		}
		if entries[i].Stage.Order() != entries[j].Stage.Order() {
			return entries[i].Stage.Order() < entries[j].Stage.Order()
		}
		return entries[i].Filename < entries[j].Filename
	})
	return entries, nil
}

// Build regenerates every index document and removes index files for
// domains that no longer have any archived documents.
func Build(layout config.Layout) error {
	entries, err := Scan(layout)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(layout.IndexDir, 0o755); err != nil {
		return fmt.Errorf("index: ensure %s: %w", layout.IndexDir, err)
	}

	byDomain := map[string][]Entry{}
	for _, entry := range entries {
		byDomain[entry.Domain] = append(byDomain[entry.Domain], entry)
	}
	domains := make([]string, 0, len(byDomain))
	for domain := range byDomain {
		domains = append(domains, domain)
	}
	sort.Strings(domains)

	current := map[string]struct{}{}
	for _, domain := range domains {
		doc, err := Render(layout, domain, byDomain[domain])
		if err != nil {
			return err
		}
		name := domain + indexSuffix
		current[name] = struct{}{}
		path := filepath.Join(layout.IndexDir, name)
		if err := os.WriteFile(path, doc, 0o644); err != nil {
			return fmt.Errorf("index: write %s: %w", path, err)
		}
	}

	// Drop stale indexes so a domain emptied by manual deletion does not
	// keep advertising documents.
	stale, err := os.ReadDir(layout.IndexDir)
	if err != nil {
		return fmt.Errorf("index: read %s: %w", layout.IndexDir, err)
	}
	for _, entry := range stale {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, indexSuffix) {
			continue
		}
		if _, ok := current[name]; ok {
			continue
		}
		if err := os.Remove(filepath.Join(layout.IndexDir, name)); err != nil {
			return fmt.Errorf("index: remove stale %s: %w", name, err)
		}
	}
	return nil
}

// Render produces the index document for one domain. Entries must already be
// in stage-then-filename order.
func Render(layout config.Layout, domain string, entries []Entry) ([]byte, error) {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "# Index: %s\n\n", domain)
	for _, entry := range entries {
		rel, err := filepath.Rel(layout.IndexDir, entry.Path)
		if err != nil {
			return nil, fmt.Errorf("index: relativize %s: %w", entry.Path, err)
		}
		fmt.Fprintf(&buf, "## [%s](%s)\n", entry.Filename, filepath.ToSlash(rel))
		if entry.Snippet != "" {
			fmt.Fprintf(&buf, "%s...\n", entry.Snippet)
		}
		buf.WriteString("\n")
	}
	return buf.Bytes(), nil
}

// linkPattern matches the entry headings Render writes. Anchoring to the
// heading keeps markdown links inside snippet text out of the link set;
// those are document content, not index references.
var linkPattern = regexp.MustCompile(`(?m)^## \[[^\]]*\]\(([^)]+)\)`)

// Linked returns the absolute paths of every document referenced by the
// generated indexes, sorted and de-duplicated. The validate pass diffs this
// against the tree.
func Linked(layout config.Layout) ([]string, error) {
	dirEntries, err := os.ReadDir(layout.IndexDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("index: read %s: %w", layout.IndexDir, err)
	}
	seen := map[string]struct{}{}
	for _, dirEntry := range dirEntries {
		name := dirEntry.Name()
		if dirEntry.IsDir() || !strings.HasSuffix(name, indexSuffix) {
			continue
		}
		data, err := os.ReadFile(filepath.Join(layout.IndexDir, name))
		if err != nil {
			return nil, fmt.Errorf("index: read %s: %w", name, err)
		}
		for _, match := range linkPattern.FindAllSubmatch(data, -1) {
			target := strings.TrimSpace(string(match[1]))
			if target == "" || strings.Contains(target, "://") {
				continue
			}
			resolved := filepath.Clean(filepath.Join(layout.IndexDir, filepath.FromSlash(target)))
			seen[resolved] = struct{}{}
		}
	}
	linked := make([]string, 0, len(seen))
	for path := range seen {
		linked = append(linked, path)
	}
	sort.Strings(linked)
	return linked, nil
}

// Snippet extracts the first maxWords words of a document body for index
// listings.
func Snippet(body []byte, maxWords int) string {
	words := strings.Fields(string(body))
	if len(words) > maxWords {
		words = words[:maxWords]
	}
	return strings.Join(words, " ")
}
