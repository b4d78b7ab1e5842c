package classify

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"parch/internal/archive"
	"parch/internal/config"
	"parch/internal/index"
)

// Audit is the post-archival validation pass. It diffs the generated indexes
// against the archive tree (broken links, orphaned files) and checks that
// each document's placement in the tree agrees with its own header. All
// findings are diagnostics sorted by path; only filesystem failures error.
func Audit(layout config.Layout) ([]Issue, error) {
	linked, err := index.Linked(layout)
	if err != nil {
		return nil, err
	}
	linkedSet := make(map[string]struct{}, len(linked))
	for _, path := range linked {
		linkedSet[path] = struct{}{}
	}

	existing := map[string]struct{}{}
	var issues []Issue
	err = filepath.WalkDir(layout.ArchiveDir, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() || !strings.HasSuffix(strings.ToLower(d.Name()), ".md") {
			return nil
		}
		existing[path] = struct{}{}
		if issue, ok := placementIssue(layout, path); ok {
			issues = append(issues, issue)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("classify: audit archive tree: %w", err)
	}

	for _, path := range linked {
		if _, ok := existing[path]; !ok {
			issues = append(issues, Issue{
				Kind:   KindBrokenLink,
				Path:   display(layout, path),
				Detail: "index references a file that no longer exists",
			})
		}
	}
	for path := range existing {
		if _, ok := linkedSet[path]; !ok {
			issues = append(issues, Issue{
				Kind:   KindOrphanedFile,
				Path:   display(layout, path),
				Detail: "archived file has no index entry (re-run `parch run` to regenerate indexes)",
			})
		}
	}

	SortIssues(issues)
	return issues, nil
}

// placementIssue checks the invariant that a document's directory path
// matches the domain and stage recorded in its own header.
func placementIssue(layout config.Layout, path string) (Issue, bool) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Issue{
			Kind:   KindPlacementMismatch,
			Path:   display(layout, path),
			Detail: fmt.Sprintf("unreadable: %v", err),
		}, true
	}
	header, _, err := archive.ParseFrontMatter(content)
	if err != nil {
		return Issue{
			Kind:   KindPlacementMismatch,
			Path:   display(layout, path),
			Detail: "missing or malformed metadata header",
		}, true
	}
	rel, err := filepath.Rel(layout.ArchiveDir, path)
	if err != nil {
		return Issue{}, false
	}
	parts := strings.Split(filepath.ToSlash(rel), "/")
	if len(parts) != 3 {
		return Issue{
			Kind:   KindPlacementMismatch,
			Path:   display(layout, path),
			Detail: "file does not sit at archive/<domain>/<stage>/<name>",
		}, true
	}
	if parts[0] != header.Domain || parts[1] != string(header.Stage) {
		return Issue{
			Kind: KindPlacementMismatch,
			Path: display(layout, path),
			Detail: fmt.Sprintf("tree says %s/%s but header says %s/%s",
				parts[0], parts[1], header.Domain, header.Stage),
		}, true
	}
	return Issue{}, false
}

// display renders an absolute path relative to the archive root for stable,
// readable diagnostics.
func display(layout config.Layout, path string) string {
	rel, err := filepath.Rel(layout.Root, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}
