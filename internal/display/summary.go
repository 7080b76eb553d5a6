// Package display provides terminal rendering for scan summaries and
// progress. All functions accept io.Writer for testability; color output
// follows the fatih/color global NoColor setting.
package display

import (
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"

	"github.com/harrison/logscan/internal/models"
)

// RenderSummary writes the aggregate statistics block for a completed run.
func RenderSummary(w io.Writer, summary *models.Summary) {
	heading := color.New(color.FgCyan, color.Bold)
	good := color.New(color.FgGreen)
	warn := color.New(color.FgYellow)

	fmt.Fprintf(w, "\n%s\n", heading.Sprint("Scan Statistics:"))
	fmt.Fprintf(w, "  Scan time:               %s\n", summary.Elapsed.Round(time.Millisecond))
	fmt.Fprintf(w, "  Total files scanned:     %s\n", good.Sprintf("%d", summary.FilesScanned))
	fmt.Fprintf(w, "  Total errors found:      %s\n", countColor(summary.ErrorsFound, warn, good).Sprintf("%d", summary.ErrorsFound))
	fmt.Fprintf(w, "  Total warnings found:    %s\n", countColor(summary.WarningsFound, warn, good).Sprintf("%d", summary.WarningsFound))
	fmt.Fprintf(w, "  Files skipped:           %s\n", countColor(summary.FilesSkipped, warn, good).Sprintf("%d", summary.FilesSkipped))
	fmt.Fprintf(w, "  Large files encountered: %s\n", countColor(summary.LargeFiles, warn, good).Sprintf("%d", summary.LargeFiles))

	for _, re := range summary.RootErrors {
		fmt.Fprintf(w, "  %s %s\n", warn.Sprint("Root skipped:"), re.Error())
	}
}

// countColor picks nonzero for counts above zero, zero otherwise.
func countColor(n int, nonzero, zero *color.Color) *color.Color {
	if n > 0 {
		return nonzero
	}
	return zero
}

// RenderReports writes per-file detail for every report that has something
// to say: matched lines, skip reasons, read errors, oversized files.
// Clean files are listed only when verbose is set.
func RenderReports(w io.Writer, summary *models.Summary, verbose bool) {
	pathColor := color.New(color.Bold)
	errColor := color.New(color.FgRed)
	warnColor := color.New(color.FgYellow)

	for _, report := range summary.Reports {
		switch report.Outcome {
		case models.OutcomeOK:
			if report.ErrorCount == 0 && report.WarningCount == 0 {
				if verbose {
					fmt.Fprintf(w, "%s: clean (%d lines)\n", pathColor.Sprint(report.Path), report.LineCount)
				}
				continue
			}
			fmt.Fprintf(w, "%s: %d error(s), %d warning(s) in %d lines\n",
				pathColor.Sprint(report.Path), report.ErrorCount, report.WarningCount, report.LineCount)
			if verbose {
				for _, m := range report.Matches {
					lineColor := errColor
					if m.Severity == models.SeverityWarning {
						lineColor = warnColor
					}
					fmt.Fprintf(w, "  line %d: %s\n", m.Number, lineColor.Sprint(m.Text))
				}
				if truncated := report.ErrorCount + report.WarningCount - len(report.Matches); truncated > 0 {
					fmt.Fprintf(w, "  ... %d more match(es) not shown\n", truncated)
				}
			}
		case models.OutcomeTooLarge:
			fmt.Fprintf(w, "%s: %s (%s, limit exceeded)\n",
				pathColor.Sprint(report.Path), warnColor.Sprint("too large"), humanize.IBytes(uint64(report.Size)))
		case models.OutcomeSkipped:
			fmt.Fprintf(w, "%s: %s (%s)\n",
				pathColor.Sprint(report.Path), warnColor.Sprint("skipped"), report.Reason)
		case models.OutcomeReadError:
			fmt.Fprintf(w, "%s: %s (%v)\n",
				pathColor.Sprint(report.Path), errColor.Sprint("read error"), report.Err)
		}
	}
}
