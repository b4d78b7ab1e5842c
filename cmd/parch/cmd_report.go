package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"parch/internal/config"
	"parch/internal/report"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Show document counts per domain, stage, and tag",
	RunE:  runReport,
}

func runReport(cmd *cobra.Command, args []string) error {
	root, err := archiveRoot()
	if err != nil {
		return err
	}
	layout, err := config.Load(root)
	if err != nil {
		return err
	}
	stats, err := report.Collect(layout)
	if err != nil {
		return err
	}
	fmt.Print(report.Render(stats))
	return nil
}
