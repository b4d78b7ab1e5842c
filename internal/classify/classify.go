// Package classify cross-checks manifest rows against the taxonomy and,
// after an archive run, audits the tree and its indexes for broken links,
// orphaned files, and placement drift. Classification is a pure check: rows
// are judged independently, nothing touches the filesystem, and one row's
// rejection never blocks another.
package classify

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"parch/internal/manifest"
	"parch/internal/taxonomy"
)

// Kind identifies a diagnostic category.
type Kind string

const (
	KindUnknownDomain        Kind = "unknown-domain"
	KindUnknownTag           Kind = "unknown-tag"
	KindInvalidStage         Kind = "invalid-stage"
	KindDuplicateSourcePath  Kind = "duplicate-source-path"
	KindMissingSourceFile    Kind = "missing-source-file"
	KindDestinationCollision Kind = "destination-collision"
	KindBrokenLink           Kind = "broken-link"
	KindOrphanedFile         Kind = "orphaned-file"
	KindPlacementMismatch    Kind = "placement-mismatch"
	KindUnsafeName           Kind = "unsafe-name"
)

// Issue is a single per-row or per-file diagnostic. Issues are collected and
// reported, never fatal to the run.
type Issue struct {
	Kind   Kind
	Path   string
	Detail string
}

func (i Issue) String() string {
	if i.Detail == "" {
		return fmt.Sprintf("%s: %s", i.Kind, i.Path)
	}
	return fmt.Sprintf("%s: %s: %s", i.Kind, i.Path, i.Detail)
}

// Decision is the classification outcome for one manifest row. A row is
// accepted when Issues is empty; Stage then carries the canonical stage.
type Decision struct {
	Row    manifest.Row
	Stage  manifest.Stage
	Issues []Issue
}

// Accepted reports whether the archiver may act on this row.
func (d Decision) Accepted() bool {
	return len(d.Issues) == 0
}

// Classify checks every row against the taxonomy. The result preserves
// manifest order, one decision per row.
func Classify(tax *taxonomy.Taxonomy, rows []manifest.Row) []Decision {
	decisions := make([]Decision, 0, len(rows))
	seen := map[string]struct{}{}
	for _, row := range rows {
		decision := Decision{Row: row}
		if _, dup := seen[row.SourcePath]; dup {
			decision.Issues = append(decision.Issues, Issue{
				Kind:   KindDuplicateSourcePath,
				Path:   row.SourcePath,
				Detail: "source path appears more than once in the manifest",
			})
		}
		seen[row.SourcePath] = struct{}{}

		// The destination is joined from manifest text the operator edits
		// by hand, so names that would escape the archive tree are rejected
		// before the archiver ever sees them.
		name := row.Filename
		if name == "" {
			name = filepath.Base(row.SourcePath)
		}
		if unsafeName(name) {
			decision.Issues = append(decision.Issues, Issue{
				Kind:   KindUnsafeName,
				Path:   row.SourcePath,
				Detail: fmt.Sprintf("filename %q would escape the archive tree", name),
			})
		}
		if row.Domain != "" && unsafeName(row.Domain) {
			decision.Issues = append(decision.Issues, Issue{
				Kind:   KindUnsafeName,
				Path:   row.SourcePath,
				Detail: fmt.Sprintf("domain %q would escape the archive tree", row.Domain),
			})
		}

		if !tax.HasDomain(row.Domain) {
			decision.Issues = append(decision.Issues, Issue{
				Kind:   KindUnknownDomain,
				Path:   row.SourcePath,
				Detail: fmt.Sprintf("domain %q is not in the taxonomy", row.Domain),
			})
		}
		stage, ok := manifest.ParseStage(row.Stage)
		if !ok {
			decision.Issues = append(decision.Issues, Issue{
				Kind:   KindInvalidStage,
				Path:   row.SourcePath,
				Detail: fmt.Sprintf("stage %q is not one of the three maturation stages", row.Stage),
			})
		} else {
			decision.Stage = stage
		}
		for _, tag := range row.Tags {
			if !tax.HasTag(tag) {
				decision.Issues = append(decision.Issues, Issue{
					Kind:   KindUnknownTag,
					Path:   row.SourcePath,
					Detail: fmt.Sprintf("tag %q is not in the taxonomy", tag),
				})
			}
		}
		decisions = append(decisions, decision)
	}
	return decisions
}

// unsafeName reports whether value contains a path separator or names a
// parent directory.
func unsafeName(value string) bool {
	return strings.ContainsAny(value, `/\`) || value == ".." || value == "."
}

// SortIssues orders issues by path then kind so reports are stable across
// runs.
func SortIssues(issues []Issue) {
	sort.Slice(issues, func(i, j int) bool {
		if issues[i].Path != issues[j].Path {
			return issues[i].Path < issues[j].Path
		}
		return issues[i].Kind < issues[j].Kind
	})
}
