package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/harrison/logscan/internal/config"
	"github.com/harrison/logscan/internal/display"
	"github.com/harrison/logscan/internal/logger"
	"github.com/harrison/logscan/internal/match"
	"github.com/harrison/logscan/internal/models"
	"github.com/harrison/logscan/internal/scan"
)

// defaultRoot is scanned when no root directories are given on the
// command line.
const defaultRoot = "/var/log"

// NewScanCommand creates the scan command
func NewScanCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan [root-dir]...",
		Short: "Scan directories for log files containing errors",
		Long: `Scan one or more directories for plain-text log files and search every
file for error and warning patterns.

Each root is enumerated one directory level deep; entries are visited in
lexicographic order so repeated runs produce identical output. Files are
scanned concurrently across a bounded worker pool, and per-file results
are reported in enumeration order regardless of completion order.

Configuration is loaded from .logscan.yaml if present.
CLI flags override configuration file settings.

Examples:
  # Scan the system log directory (the default root)
  logscan scan

  # Scan specific directories
  logscan scan /var/log ./logs

  # Restrict candidates and raise the size cap
  logscan scan --include '*.log' --size-limit 256MB /var/log

  # Add custom patterns and show matched lines
  logscan scan --pattern 'segfault' --warn-pattern 'retrying' --verbose ./logs

  # Other options
  logscan scan --workers 4 ./logs        # Bound the worker pool
  logscan scan --no-progress ./logs      # Suppress per-file progress
  logscan scan --config custom.yaml ./logs`,
		Args: cobra.ArbitraryArgs,
		RunE: runScan,
	}

	cmd.Flags().String("config", "", "Path to config file (default: .logscan.yaml)")
	cmd.Flags().Int("workers", 0, "Number of concurrent file scans (0 = number of CPUs)")
	cmd.Flags().String("size-limit", "", "Per-file size cap, e.g. 64MB or 1GiB (inclusive)")
	cmd.Flags().StringSlice("include", nil, "Glob pattern a candidate file must match (repeatable)")
	cmd.Flags().StringSlice("exclude", nil, "Glob pattern that drops a candidate file (repeatable)")
	cmd.Flags().StringSlice("pattern", nil, "Extra substring classified as an error (repeatable)")
	cmd.Flags().StringSlice("warn-pattern", nil, "Extra substring classified as a warning (repeatable)")
	cmd.Flags().Bool("verbose", false, "Show matched lines and clean files")
	cmd.Flags().Bool("no-progress", false, "Disable per-file progress output")
	cmd.Flags().String("log-level", "", "Log verbosity: trace, debug, info, warn, error")

	return cmd
}

// runScan implements the scan command logic
func runScan(cmd *cobra.Command, args []string) error {
	configPath, _ := cmd.Flags().GetString("config")
	var cfg *config.Config
	var err error

	if configPath != "" {
		cfg, err = config.LoadConfig(configPath)
		if err != nil {
			return fmt.Errorf("failed to load config from %s: %w", configPath, err)
		}
	} else {
		cfg, err = config.LoadConfigFromDir(".")
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
	}

	// Build flag pointers for merge (only explicitly set values)
	var workersPtr *int
	if cmd.Flags().Changed("workers") {
		workers, _ := cmd.Flags().GetInt("workers")
		workersPtr = &workers
	}

	var sizeLimitPtr *int64
	if cmd.Flags().Changed("size-limit") {
		sizeLimitStr, _ := cmd.Flags().GetString("size-limit")
		limit, err := config.ParseSize(sizeLimitStr)
		if err != nil {
			return fmt.Errorf("invalid size limit %q: %w", sizeLimitStr, err)
		}
		sizeLimitPtr = &limit
	}

	var logLevelPtr *string
	if cmd.Flags().Changed("log-level") {
		logLevel, _ := cmd.Flags().GetString("log-level")
		logLevelPtr = &logLevel
	}

	var includePtr, excludePtr, errorPatternsPtr, warnPatternsPtr *[]string
	if cmd.Flags().Changed("include") {
		include, _ := cmd.Flags().GetStringSlice("include")
		includePtr = &include
	}
	if cmd.Flags().Changed("exclude") {
		exclude, _ := cmd.Flags().GetStringSlice("exclude")
		excludePtr = &exclude
	}
	if cmd.Flags().Changed("pattern") {
		patterns, _ := cmd.Flags().GetStringSlice("pattern")
		errorPatternsPtr = &patterns
	}
	if cmd.Flags().Changed("warn-pattern") {
		patterns, _ := cmd.Flags().GetStringSlice("warn-pattern")
		warnPatternsPtr = &patterns
	}

	var noProgressPtr *bool
	if cmd.Flags().Changed("no-progress") {
		noProgress, _ := cmd.Flags().GetBool("no-progress")
		noProgressPtr = &noProgress
	}

	// Merge CLI flags with config (flags take precedence)
	cfg.MergeWithFlags(workersPtr, sizeLimitPtr, logLevelPtr, includePtr, excludePtr, errorPatternsPtr, warnPatternsPtr, noProgressPtr)

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	verbose, _ := cmd.Flags().GetBool("verbose")
	logLevel := cfg.LogLevel
	if verbose {
		logLevel = "debug"
	}

	policy, err := buildPolicy(cfg)
	if err != nil {
		return fmt.Errorf("invalid match policy: %w", err)
	}

	roots := args
	if len(roots) == 0 {
		roots = []string{resolveDefaultRoot()}
	}

	consoleLog := logger.NewConsoleLogger(cmd.OutOrStdout(), logLevel)

	// Progress is only useful on an interactive terminal
	var progress scan.ProgressFunc
	var indicator *display.ProgressIndicator
	if !cfg.NoProgress && stdoutIsTerminal(cmd) {
		indicator = display.NewProgressIndicator(cmd.OutOrStdout())
		progress = indicator.Step
	}

	coord := scan.NewCoordinator(consoleLog)

	opts := scan.Options{
		Policy:    policy,
		SizeLimit: cfg.SizeLimit,
		Workers:   cfg.Workers,
		Include:   cfg.Include,
		Exclude:   cfg.Exclude,
		Progress:  progress,
	}

	summary, err := coord.Run(context.Background(), roots, opts)
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	if indicator != nil {
		indicator.Complete(summary.FilesScanned)
	}

	display.RenderReports(cmd.OutOrStdout(), summary, verbose)
	display.RenderSummary(cmd.OutOrStdout(), summary)

	return nil
}

// buildPolicy extends the default policy with configured extra patterns.
func buildPolicy(cfg *config.Config) (*match.Policy, error) {
	patterns := match.DefaultPolicy().Patterns()
	for _, token := range cfg.ErrorPatterns {
		patterns = append(patterns, match.Pattern{Token: token, Severity: models.SeverityError})
	}
	for _, token := range cfg.WarnPatterns {
		patterns = append(patterns, match.Pattern{Token: token, Severity: models.SeverityWarning})
	}
	return match.NewPolicy(patterns)
}

// resolveDefaultRoot prefers the platform log directory, falling back to
// the current directory when it is absent.
func resolveDefaultRoot() string {
	if info, err := os.Stat(defaultRoot); err == nil && info.IsDir() {
		return defaultRoot
	}
	return "."
}

// stdoutIsTerminal reports whether the command's stdout is an interactive
// terminal. Redirected or test writers never get progress output.
func stdoutIsTerminal(cmd *cobra.Command) bool {
	if cmd.OutOrStdout() != os.Stdout {
		return false
	}
	return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
}
