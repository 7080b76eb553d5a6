package cmd

import (
	"github.com/spf13/cobra"
)

// Version is injected at build time via -ldflags
var Version = "dev"

// NewRootCommand creates and returns the root cobra command for logscan
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "logscan",
		Short: "Parallel error survey across plain-text log files",
		Long: `Logscan scans a set of log files in parallel, searching each for lines
matching error and warning patterns, and reports aggregate statistics:
files scanned, errors found, files skipped, large files encountered and
elapsed time.

Per-file failures (unreadable files, oversized files, binary content) are
recorded in the summary without aborting the scan.`,
		Version: Version,
		// Silence usage on errors to avoid duplicate help text
		SilenceUsage: true,
	}

	cmd.AddCommand(NewScanCommand())

	return cmd
}
