package scan

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harrison/logscan/internal/models"
)

func TestRunSingleFile(t *testing.T) {
	// Scenario: one log file with one error and one warning line.
	dir := t.TempDir()
	writeTestFile(t, dir, "app.log", []byte("INFO start\nERROR disk full\nWARN low memory\n"))

	coord := NewCoordinator(nil)
	summary, err := coord.Run(context.Background(), []string{dir}, Options{})
	require.NoError(t, err)

	assert.Equal(t, 1, summary.FilesScanned)
	assert.Equal(t, 1, summary.ErrorsFound)
	assert.Equal(t, 1, summary.WarningsFound)
	assert.Equal(t, 0, summary.FilesSkipped)
	assert.NotEmpty(t, summary.RunID)

	require.Len(t, summary.Reports, 1)
	report := summary.Reports[0]
	assert.Equal(t, models.OutcomeOK, report.Outcome)
	assert.Equal(t, 1, report.ErrorCount)
	assert.Equal(t, 1, report.WarningCount)
	assert.Equal(t, 3, report.LineCount)
}

func TestRunSkipAndLargeFileCounting(t *testing.T) {
	// Scenario: a 0-byte file and a file exceeding the size limit.
	dir := t.TempDir()
	writeTestFile(t, dir, "empty.log", nil)
	writeTestFile(t, dir, "huge.log", []byte(strings.Repeat("ERROR x\n", 64)))

	coord := NewCoordinator(nil)
	summary, err := coord.Run(context.Background(), []string{dir}, Options{SizeLimit: 16})
	require.NoError(t, err)

	assert.Equal(t, 2, summary.FilesScanned)
	// An oversized file counts as skipped AND as a large-file encounter
	assert.Equal(t, 1, summary.FilesSkipped)
	assert.Equal(t, 1, summary.LargeFiles)
	assert.Equal(t, 0, summary.ErrorsFound)

	require.Len(t, summary.Reports, 2)
	assert.Equal(t, models.OutcomeOK, summary.Reports[0].Outcome)
	assert.Equal(t, models.OutcomeTooLarge, summary.Reports[1].Outcome)
}

func TestRunAllRootsInvalid(t *testing.T) {
	// Scenario: the only root does not exist. No summary is produced.
	missing := filepath.Join(t.TempDir(), "nope")

	coord := NewCoordinator(nil)
	summary, err := coord.Run(context.Background(), []string{missing}, Options{})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoFiles)
	assert.True(t, IsFatal(err))
	assert.Nil(t, summary)
}

func TestRunPartialRootFailure(t *testing.T) {
	// One bad root next to a good one is not fatal; it is data on the summary.
	dir := t.TempDir()
	writeTestFile(t, dir, "app.log", []byte("ERROR one\n"))
	missing := filepath.Join(dir, "nope")

	coord := NewCoordinator(nil)
	summary, err := coord.Run(context.Background(), []string{missing, dir}, Options{})
	require.NoError(t, err)

	assert.Equal(t, 1, summary.FilesScanned)
	require.Len(t, summary.RootErrors, 1)
	assert.Equal(t, missing, summary.RootErrors[0].Root)
}

func TestRunUnreadableFileAmongReadable(t *testing.T) {
	// Scenario: one permission-denied file and one normal file with 2 errors.
	if os.Geteuid() == 0 {
		t.Skip("running as root, permission bits are not enforced")
	}

	dir := t.TempDir()
	locked := writeTestFile(t, dir, "locked.log", []byte("ERROR hidden\n"))
	writeTestFile(t, dir, "ok.log", []byte("ERROR one\nERROR two\nINFO done\n"))
	require.NoError(t, os.Chmod(locked, 0000))

	coord := NewCoordinator(nil)
	summary, err := coord.Run(context.Background(), []string{dir}, Options{})
	require.NoError(t, err)

	assert.Equal(t, 2, summary.FilesScanned)
	assert.Equal(t, 2, summary.ErrorsFound)
	assert.Equal(t, 1, summary.FilesSkipped)

	require.Len(t, summary.Reports, 2)
	assert.Equal(t, models.OutcomeReadError, summary.Reports[0].Outcome)
	assert.Equal(t, models.OutcomeOK, summary.Reports[1].Outcome)
}

func TestRunEmptyReadableRoot(t *testing.T) {
	// A listable root with no files is a successful zero-count run.
	coord := NewCoordinator(nil)
	summary, err := coord.Run(context.Background(), []string{t.TempDir()}, Options{})

	require.NoError(t, err)
	assert.Equal(t, 0, summary.FilesScanned)
	assert.Empty(t, summary.Reports)
}

func TestRunRejectsNegativeWorkers(t *testing.T) {
	dir := t.TempDir()
	writeTestFile(t, dir, "app.log", []byte("ERROR x\n"))

	coord := NewCoordinator(nil)
	summary, err := coord.Run(context.Background(), []string{dir}, Options{Workers: -1})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoWorkers)
	assert.True(t, IsFatal(err))
	assert.Nil(t, summary)
}

func TestRunFoldIndependentOfWorkerCount(t *testing.T) {
	// Counters must be identical for 1 worker and N workers.
	dir := t.TempDir()
	for i := 0; i < 20; i++ {
		content := fmt.Sprintf("INFO start\nERROR failure %d\nWARN note\nERROR again\n", i)
		writeTestFile(t, dir, fmt.Sprintf("file-%02d.log", i), []byte(content))
	}

	coord := NewCoordinator(nil)

	var baseline *models.Summary
	for _, workers := range []int{1, 2, 8} {
		summary, err := coord.Run(context.Background(), []string{dir}, Options{Workers: workers})
		require.NoError(t, err)

		assert.Equal(t, 20, summary.FilesScanned, "workers=%d", workers)
		assert.Equal(t, 40, summary.ErrorsFound, "workers=%d", workers)
		assert.Equal(t, 20, summary.WarningsFound, "workers=%d", workers)

		if baseline == nil {
			baseline = summary
			continue
		}
		assert.Equal(t, baseline.FilesScanned, summary.FilesScanned)
		assert.Equal(t, baseline.ErrorsFound, summary.ErrorsFound)
		assert.Equal(t, baseline.WarningsFound, summary.WarningsFound)
		assert.Equal(t, baseline.FilesSkipped, summary.FilesSkipped)
	}
}

func TestRunPreservesEnumerationOrder(t *testing.T) {
	// Vary file sizes so completion order differs from enumeration order,
	// then check the report sequence still matches enumeration.
	dir := t.TempDir()

	var wantPaths []string
	for i := 0; i < 30; i++ {
		size := 1
		if i%3 == 0 {
			size = 20000
		}
		name := fmt.Sprintf("file-%02d.log", i)
		wantPaths = append(wantPaths, writeTestFile(t, dir, name, []byte(strings.Repeat("ERROR x\n", size))))
	}

	coord := NewCoordinator(nil)
	summary, err := coord.Run(context.Background(), []string{dir}, Options{Workers: 8})
	require.NoError(t, err)

	require.Len(t, summary.Reports, len(wantPaths))
	for i, report := range summary.Reports {
		assert.Equal(t, wantPaths[i], report.Path, "report %d out of enumeration order", i)
	}
}

func TestRunIdempotentCounters(t *testing.T) {
	dir := t.TempDir()
	writeTestFile(t, dir, "a.log", []byte("ERROR one\nWARN two\n"))
	writeTestFile(t, dir, "b.log", []byte("all quiet\n"))

	coord := NewCoordinator(nil)

	first, err := coord.Run(context.Background(), []string{dir}, Options{})
	require.NoError(t, err)
	second, err := coord.Run(context.Background(), []string{dir}, Options{})
	require.NoError(t, err)

	// Only elapsed-time fields and the run ID may differ between runs
	assert.Equal(t, first.FilesScanned, second.FilesScanned)
	assert.Equal(t, first.ErrorsFound, second.ErrorsFound)
	assert.Equal(t, first.WarningsFound, second.WarningsFound)
	assert.Equal(t, first.FilesSkipped, second.FilesSkipped)
	assert.Equal(t, first.LargeFiles, second.LargeFiles)
	assert.NotEqual(t, first.RunID, second.RunID)
}

func TestRunProgressCallback(t *testing.T) {
	dir := t.TempDir()
	for i := 0; i < 5; i++ {
		writeTestFile(t, dir, fmt.Sprintf("f%d.log", i), []byte("ERROR x\n"))
	}

	var mu sync.Mutex
	var doneValues []int
	progress := func(done, total int, path string) {
		mu.Lock()
		defer mu.Unlock()
		assert.Equal(t, 5, total)
		doneValues = append(doneValues, done)
	}

	coord := NewCoordinator(nil)
	_, err := coord.Run(context.Background(), []string{dir}, Options{Workers: 3, Progress: progress})
	require.NoError(t, err)

	require.Len(t, doneValues, 5)
	for i, v := range doneValues {
		assert.Equal(t, i+1, v)
	}
}

func TestRunCancelledContext(t *testing.T) {
	dir := t.TempDir()
	for i := 0; i < 10; i++ {
		writeTestFile(t, dir, fmt.Sprintf("f%d.log", i), []byte("ERROR x\n"))
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	coord := NewCoordinator(nil)
	summary, err := coord.Run(ctx, []string{dir}, Options{Workers: 2})
	require.NoError(t, err)

	// Undispatched files are still accounted for so the fold covers every
	// enumerated candidate.
	require.Len(t, summary.Reports, 10)
	assert.Equal(t, 10, summary.FilesScanned)
	for _, report := range summary.Reports {
		assert.Equal(t, models.OutcomeReadError, report.Outcome)
	}
	assert.Equal(t, 10, summary.FilesSkipped)
}

func TestRunBinaryFileSkipped(t *testing.T) {
	dir := t.TempDir()
	writeTestFile(t, dir, "blob.bin", []byte("ERROR\x00payload"))
	writeTestFile(t, dir, "ok.log", []byte("ERROR real\n"))

	coord := NewCoordinator(nil)
	summary, err := coord.Run(context.Background(), []string{dir}, Options{})
	require.NoError(t, err)

	assert.Equal(t, 2, summary.FilesScanned)
	assert.Equal(t, 1, summary.FilesSkipped)
	assert.Equal(t, 0, summary.LargeFiles)
	assert.Equal(t, 1, summary.ErrorsFound)

	require.Len(t, summary.Reports, 2)
	assert.Equal(t, models.OutcomeSkipped, summary.Reports[0].Outcome)
	assert.Equal(t, "binary", summary.Reports[0].Reason)
}
