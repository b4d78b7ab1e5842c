package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"parch/internal/config"
	"parch/internal/staging"
)

var cleanupForce bool

var cleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Remove the staging area",
	Long: `Removes the staging directory once its files have been archived.
Refuses when unprocessed files remain unless --force is given; forced
cleanup discards them permanently.`,
	RunE: runCleanup,
}

func init() {
	cleanupCmd.Flags().BoolVar(&cleanupForce, "force", false, "delete remaining staged files without refusing")
}

func runCleanup(cmd *cobra.Command, args []string) error {
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

	if err := staging.Cleanup(layout, cleanupForce); err != nil {
		lb.Warn("cleanup: %v", err)
		return err
	}
	lb.Info("cleanup: staging area removed")
	fmt.Println(okStyle.Render("cleanup complete:") + " staging area removed")
	return nil
}
