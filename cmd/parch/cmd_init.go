package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"parch/internal/config"
	"parch/internal/manifest"
	"parch/internal/staging"
	"parch/internal/taxonomy"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Scaffold the archive and draft a manifest from the staging area",
	Long: `Creates the directory skeleton (staging, archive, taxonomy, _indexes,
.parch), seeds default taxonomy definitions when none exist, scans the
staging area for markdown files, and writes a fresh classification manifest
with heuristic suggestions. Edit the manifest before running parch run.`,
	RunE: runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	root, err := archiveRoot()
	if err != nil {
		return err
	}
	layout, err := config.Init(root)
	if err != nil {
		return err
	}
	if err := taxonomy.EnsureDefaults(layout.TaxonomyDir); err != nil {
		return err
	}
	lb := openLogbook(layout)
	defer lb.Close()

	rows, err := staging.NewScanner(layout).Scan()
	if err != nil {
		return err
	}
	if err := manifest.Write(layout.Manifest, rows); err != nil {
		return err
	}
	lb.Info("init: manifest rebuilt with %d rows", len(rows))

	fmt.Printf("%s %s\n", okStyle.Render("initialized"), layout.Root)
	fmt.Printf("manifest: %s (%d staged files)\n", layout.Manifest, len(rows))
	if len(rows) > 0 {
		fmt.Println(dimStyle.Render("review the suggested domains, stages, and tags before `parch run`"))
	}
	return nil
}
