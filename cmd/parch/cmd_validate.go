package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"parch/internal/classify"
	"parch/internal/config"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check indexes against the archive tree",
	Long: `Cross-checks the generated indexes and the archive tree: index links
that point at missing files (broken links), archived files with no index
entry (orphans), and documents whose tree placement disagrees with their own
metadata header. Findings are diagnostics; remediation is manual.`,
	RunE: runValidate,
}

func runValidate(cmd *cobra.Command, args []string) error {
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

	issues, err := classify.Audit(layout)
	if err != nil {
		lb.Error("validate: %v", err)
		return err
	}
	if len(issues) == 0 {
		fmt.Println(okStyle.Render("validate: archive and indexes are consistent"))
		lb.Info("validate: clean")
		return nil
	}
	for _, issue := range issues {
		fmt.Println(warnStyle.Render("finding ") + issue.String())
		lb.Warn("validate: %s", issue)
	}
	fmt.Printf("validate: %d findings\n", len(issues))
	return nil
}
