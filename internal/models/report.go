package models

import (
	"fmt"
	"time"
)

// Severity classifies a matched log line.
type Severity int

const (
	// SeverityError marks lines matching an error pattern.
	SeverityError Severity = iota
	// SeverityWarning marks lines matching a warning pattern.
	SeverityWarning
)

// String returns the string representation of Severity.
func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return "unknown"
	}
}

// Outcome constants describe how processing a single file ended.
const (
	OutcomeOK        = "OK"         // File read and matched successfully
	OutcomeSkipped   = "SKIPPED"    // File skipped (e.g., binary content)
	OutcomeTooLarge  = "TOO_LARGE"  // File exceeds the configured size limit
	OutcomeReadError = "READ_ERROR" // File could not be opened or read
)

// MatchedLine records a single line that matched a pattern, retained for
// verbose display.
type MatchedLine struct {
	Number   int      // 1-based line number within the file
	Severity Severity // Classification of the match
	Text     string   // Line content as read
}

// FileReport represents the result of scanning a single file.
// Exactly one outcome is recorded per file; failures are data, not errors.
type FileReport struct {
	Path         string        // Absolute path of the scanned file
	Outcome      string        // One of the Outcome* constants
	Size         int64         // File size in bytes (set for TOO_LARGE and OK)
	LineCount    int           // Total lines read (OK only)
	ErrorCount   int           // Lines classified as errors (OK only)
	WarningCount int           // Lines classified as warnings (OK only)
	Matches      []MatchedLine // Matched lines, capped (OK only)
	Reason       string        // Skip reason (SKIPPED only)
	Err          error         // Underlying error (READ_ERROR only)
	Elapsed      time.Duration // Time spent processing this file
}

// RootError records a root directory that could not be enumerated.
// It is recovered locally: enumeration continues with the remaining roots
// and the failure is surfaced on the Summary rather than aborting the run.
type RootError struct {
	Root string // The root path as supplied
	Err  error  // Why enumeration failed
}

// Error implements the error interface for RootError.
func (e *RootError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("root %s: %v", e.Root, e.Err)
	}
	return fmt.Sprintf("root %s: cannot enumerate", e.Root)
}

// Unwrap returns the underlying error for error wrapping support.
func (e *RootError) Unwrap() error {
	return e.Err
}

// Summary represents the aggregate result of a scan run.
// Reports preserve enumeration order regardless of completion order, and
// every counter is an exact fold over Reports.
type Summary struct {
	RunID         string        // Unique identifier for this run
	FilesScanned  int           // Files attempted (every dispatched file)
	ErrorsFound   int           // Sum of ErrorCount across OK reports
	WarningsFound int           // Sum of WarningCount across OK reports
	FilesSkipped  int           // TOO_LARGE, SKIPPED and READ_ERROR reports
	LargeFiles    int           // TOO_LARGE reports
	Elapsed       time.Duration // Wall-clock time for the whole run
	Reports       []FileReport  // Per-file results in enumeration order
	RootErrors    []RootError   // Roots that could not be listed
}
