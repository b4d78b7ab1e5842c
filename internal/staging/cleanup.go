package staging

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"parch/internal/config"
)

// UnprocessedError refuses a cleanup because staged files were never
// archived. Remaining lists them relative to the staging dir.
type UnprocessedError struct {
	Remaining []string
}

func (e *UnprocessedError) Error() string {
	preview := e.Remaining
	suffix := ""
	if len(preview) > 5 {
		preview = preview[:5]
		suffix = ", ..."
	}
	return fmt.Sprintf("staging: %d unprocessed files remain (%s%s); re-run `parch run` or use --force",
		len(e.Remaining), strings.Join(preview, ", "), suffix)
}

// Cleanup removes the staging directory. Unless force is set it refuses when
// any files are still staged, since those were never archived.
func Cleanup(layout config.Layout, force bool) error {
	if _, err := os.Stat(layout.StagingDir); errors.Is(err, fs.ErrNotExist) {
		return nil
	} else if err != nil {
		return fmt.Errorf("staging: stat %s: %w", layout.StagingDir, err)
	}

	if !force {
		var remaining []string
		err := filepath.WalkDir(layout.StagingDir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}
			rel, relErr := filepath.Rel(layout.StagingDir, path)
			if relErr != nil {
				return relErr
			}
			remaining = append(remaining, filepath.ToSlash(rel))
			return nil
		})
		if err != nil {
			return fmt.Errorf("staging: scan before cleanup: %w", err)
		}
		if len(remaining) > 0 {
			sort.Strings(remaining)
			return &UnprocessedError{Remaining: remaining}
		}
	}

	if err := os.RemoveAll(layout.StagingDir); err != nil {
		return fmt.Errorf("staging: remove %s: %w", layout.StagingDir, err)
	}
	return nil
}
