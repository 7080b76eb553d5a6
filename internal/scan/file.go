package scan

import (
	"bufio"
	"os"
	"time"

	"github.com/harrison/logscan/internal/match"
	"github.com/harrison/logscan/internal/models"
)

const (
	// sniffLen is how many leading bytes are inspected for binary content.
	sniffLen = 512

	// maxMatchedLines caps the matched lines retained per file so one noisy
	// file cannot balloon memory.
	maxMatchedLines = 50

	// readBufferSize is the bufio buffer used for line iteration.
	readBufferSize = 128 * 1024

	// maxLineSize is the longest single line the scanner will accept before
	// reporting a read error.
	maxLineSize = 1024 * 1024
)

// ScanFile processes a single file against the policy and returns a
// per-file report. Every failure mode is encoded in the report's outcome;
// ScanFile never fails outright for a reachable file.
//
// Files larger than sizeLimit are reported TOO_LARGE without reading any
// content, bounding worst-case cost per file. A size exactly at the limit
// is within bounds.
func ScanFile(path string, policy *match.Policy, sizeLimit int64) models.FileReport {
	start := time.Now()
	report := models.FileReport{Path: path}

	info, err := os.Stat(path)
	if err != nil {
		report.Outcome = models.OutcomeReadError
		report.Err = err
		report.Elapsed = time.Since(start)
		return report
	}
	report.Size = info.Size()

	if sizeLimit > 0 && info.Size() > sizeLimit {
		report.Outcome = models.OutcomeTooLarge
		report.Elapsed = time.Since(start)
		return report
	}

	f, err := os.Open(path)
	if err != nil {
		report.Outcome = models.OutcomeReadError
		report.Err = err
		report.Elapsed = time.Since(start)
		return report
	}
	defer f.Close()

	reader := bufio.NewReaderSize(f, readBufferSize)

	sniff, err := reader.Peek(sniffLen)
	if err != nil && len(sniff) == 0 && info.Size() > 0 {
		report.Outcome = models.OutcomeReadError
		report.Err = err
		report.Elapsed = time.Since(start)
		return report
	}
	if looksBinary(sniff) {
		report.Outcome = models.OutcomeSkipped
		report.Reason = "binary"
		report.Elapsed = time.Since(start)
		return report
	}

	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 0, readBufferSize), maxLineSize)

	for scanner.Scan() {
		report.LineCount++
		line := scanner.Text()

		severity, ok := policy.Classify(line)
		if !ok {
			continue
		}
		switch severity {
		case models.SeverityError:
			report.ErrorCount++
		case models.SeverityWarning:
			report.WarningCount++
		}
		if len(report.Matches) < maxMatchedLines {
			report.Matches = append(report.Matches, models.MatchedLine{
				Number:   report.LineCount,
				Severity: severity,
				Text:     line,
			})
		}
	}

	if err := scanner.Err(); err != nil {
		report.Outcome = models.OutcomeReadError
		report.Err = err
		report.Elapsed = time.Since(start)
		return report
	}

	report.Outcome = models.OutcomeOK
	report.Elapsed = time.Since(start)
	return report
}

// looksBinary applies the text heuristic to the leading bytes of a file:
// any NUL byte, or more than 30% of bytes outside the ASCII range, marks
// the content as binary.
func looksBinary(sniff []byte) bool {
	if len(sniff) == 0 {
		return false
	}

	highBytes := 0
	for _, b := range sniff {
		if b == 0 {
			return true
		}
		if b > 127 {
			highBytes++
		}
	}

	return float64(highBytes)/float64(len(sniff)) > 0.3
}
