package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"parch/internal/config"
	"parch/internal/export"
)

var exportOut string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Bundle the archive and indexes into a single JSON file",
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "output path (default: pattern-archive-backup-<date>.json in the root)")
}

func runExport(cmd *cobra.Command, args []string) error {
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

	exporter := export.New(layout)
	outPath := exportOut
	if outPath == "" {
		outPath = exporter.DefaultPath()
	}
	count, err := exporter.Export(outPath)
	if err != nil {
		lb.Error("export: %v", err)
		return err
	}
	lb.Info("export: %d files bundled to %s", count, outPath)
	fmt.Printf("%s %d files bundled into %s\n", okStyle.Render("export complete:"), count, outPath)
	return nil
}
