// cmd/parch/main.go
//
// Entry point for the parch CLI. The pipeline is a strict linear batch
// workflow driven by one subcommand per stage:
//
//	init → (operator edits manifest) → run → validate → report
//
// plus the auxiliary export and cleanup utilities.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"parch/internal/config"
	"parch/internal/logbook"
)

var rootFlag string

var rootCmd = &cobra.Command{
	Use:   "parch",
	Short: "Organize personal text files into a taxonomy-driven archive",
	Long: `parch organizes staged markdown files into a domain/stage archive tree
driven by a classification manifest, injects a metadata header into each
archived document, and rebuilds per-domain cross-reference indexes.

Typical session:
  parch init        scaffold directories and draft a manifest from staging
  (edit manifest.csv by hand)
  parch run         classify, archive accepted rows, regenerate indexes
  parch validate    check indexes against the tree
  parch report      show counts per domain, stage, and tag`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&rootFlag, "root", "r", "", "archive root directory (default: current)")
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(cleanupCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, errStyle.Render("error: ")+err.Error())
		os.Exit(1)
	}
}

// archiveRoot resolves the --root flag, defaulting to the working directory.
func archiveRoot() (string, error) {
	if rootFlag != "" {
		return rootFlag, nil
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("resolve working directory: %w", err)
	}
	return cwd, nil
}

// openLogbook opens the run journal. Logging is best-effort: a nil logbook
// is safe to use, so commands proceed even when the log cannot be opened.
func openLogbook(layout config.Layout) *logbook.Logbook {
	lb, err := logbook.Open(layout.LogDir)
	if err != nil {
		fmt.Fprintln(os.Stderr, warnStyle.Render(err.Error()))
		return nil
	}
	return lb
}
