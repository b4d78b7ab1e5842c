package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"parch/internal/archive"
	"parch/internal/classify"
	"parch/internal/config"
	"parch/internal/index"
	"parch/internal/manifest"
	"parch/internal/taxonomy"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Classify manifest rows, archive accepted files, rebuild indexes",
	Long: `Checks every manifest row against the taxonomy, moves each accepted
file to archive/<domain>/<stage>/<name> with its metadata header, and
regenerates all per-domain indexes. Rejected rows are reported and skipped;
they never block the rest of the run. Collisions and missing sources are
per-row diagnostics as well; only filesystem failures abort.`,
	RunE: runRun,
}

func runRun(cmd *cobra.Command, args []string) error {
	root, err := archiveRoot()
	if err != nil {
		return err
	}
	layout, err := config.Load(root)
	if err != nil {
		return err
	}
	lb := openLogbook(layout)
	defer lb.Close()

	tax, err := taxonomy.Load(layout.TaxonomyDir)
	if err != nil {
		return err
	}
	rows, err := manifest.Load(layout.Manifest)
	if err != nil {
		if errors.Is(err, manifest.ErrNotFound) {
			return fmt.Errorf("no manifest at %s (run `parch init` first)", layout.Manifest)
		}
		return err
	}

	decisions := classify.Classify(tax, rows)
	archiver := archive.New(layout)

	var issues []classify.Issue
	archived := 0
	for _, decision := range decisions {
		if !decision.Accepted() {
			issues = append(issues, decision.Issues...)
			continue
		}
		dest, err := archiver.Archive(decision.Row, decision.Stage)
		if err != nil {
			var collision *archive.CollisionError
			var missing *archive.MissingSourceError
			switch {
			case errors.As(err, &collision):
				issues = append(issues, classify.Issue{
					Kind:   classify.KindDestinationCollision,
					Path:   decision.Row.SourcePath,
					Detail: fmt.Sprintf("destination %s already exists", collision.Destination),
				})
			case errors.As(err, &missing):
				issues = append(issues, classify.Issue{
					Kind:   classify.KindMissingSourceFile,
					Path:   decision.Row.SourcePath,
					Detail: "file is absent from the staging area",
				})
			default:
				// Filesystem failure: abort the operation.
				lb.Error("run: %v", err)
				return err
			}
			continue
		}
		archived++
		lb.Info("run: archived %s -> %s", decision.Row.SourcePath, dest)
	}

	if err := index.Build(layout); err != nil {
		lb.Error("run: %v", err)
		return err
	}

	classify.SortIssues(issues)
	for _, issue := range issues {
		fmt.Println(warnStyle.Render("rejected ") + issue.String())
		lb.Warn("run: rejected %s", issue)
	}
	fmt.Printf("%s %d archived, %d rejected\n", okStyle.Render("run complete:"), archived, len(issues))
	return nil
}
