// Package scan implements the parallel file-scan pipeline: enumeration of
// candidate files, bounded fan-out across a worker pool, per-file matching,
// and the fold of per-file reports into a single run summary.
package scan

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/harrison/logscan/internal/match"
	"github.com/harrison/logscan/internal/models"
)

// ProgressFunc is invoked once per completed file. Implementations must be
// safe for concurrent use; completion order is not deterministic.
type ProgressFunc func(done, total int, path string)

// Options configures a scan run.
type Options struct {
	// Policy classifies lines; nil selects match.DefaultPolicy().
	Policy *match.Policy
	// SizeLimit is the per-file byte cap (inclusive). Files larger than
	// this are reported TOO_LARGE without being read. Zero selects
	// DefaultSizeLimit.
	SizeLimit int64
	// Workers bounds concurrent file scans. Zero selects runtime.NumCPU();
	// negative values are rejected.
	Workers int
	// Include and Exclude are doublestar glob filters applied during
	// enumeration.
	Include []string
	Exclude []string
	// Progress, when non-nil, is called after each file completes.
	Progress ProgressFunc
}

// DefaultSizeLimit is the per-file size cap applied when none is configured.
const DefaultSizeLimit int64 = 64 * 1024 * 1024

// Coordinator owns the worker pool: it fans candidate paths out across a
// bounded set of goroutines and folds the per-file reports into a Summary.
type Coordinator struct {
	logger Logger
}

// Logger receives run progress messages. All methods may be called from
// the coordinator goroutine only.
type Logger interface {
	LogDebug(message string)
	LogWarn(message string)
}

// NewCoordinator constructs a Coordinator. The logger is optional and can
// be nil to disable logging.
func NewCoordinator(logger Logger) *Coordinator {
	return &Coordinator{logger: logger}
}

// Run enumerates candidates under roots and scans them in parallel,
// returning the aggregate Summary. Per-file and per-root failures are
// folded into the Summary as data; Run returns an error only when no
// Summary can be produced at all (no root was listable, or the worker
// pool cannot be constructed).
//
// The per-file report order in the Summary always equals enumeration
// order, independent of which worker finished first.
func (c *Coordinator) Run(ctx context.Context, roots []string, opts Options) (*models.Summary, error) {
	start := time.Now()

	policy := opts.Policy
	if policy == nil {
		policy = match.DefaultPolicy()
	}
	sizeLimit := opts.SizeLimit
	if sizeLimit == 0 {
		sizeLimit = DefaultSizeLimit
	}
	workers := opts.Workers
	if workers == 0 {
		workers = runtime.NumCPU()
	}
	if workers < 1 {
		return nil, ErrNoWorkers
	}

	paths, rootErrs := Enumerate(roots, EnumerateOptions{
		Include: opts.Include,
		Exclude: opts.Exclude,
	})

	if c.logger != nil {
		for _, re := range rootErrs {
			c.logger.LogWarn(re.Error())
		}
	}

	// Misconfiguration (every root failed to list) is fatal; readable roots
	// that simply contain nothing yield an empty, successful summary.
	if len(paths) == 0 && len(rootErrs) == len(roots) {
		return nil, ErrNoFiles
	}

	summary := &models.Summary{
		RunID:      uuid.NewString(),
		Reports:    make([]models.FileReport, len(paths)),
		RootErrors: rootErrs,
	}

	if len(paths) == 0 {
		summary.Elapsed = time.Since(start)
		return summary, nil
	}

	if c.logger != nil {
		c.logger.LogDebug(c.startMessage(summary.RunID, len(paths), workers))
	}

	type indexedReport struct {
		index  int
		report models.FileReport
	}

	semaphore := make(chan struct{}, workers)
	results := make(chan indexedReport, len(paths))

	var wg sync.WaitGroup

dispatch:
	for i, path := range paths {
		// Cancellation is honored between dispatches; in-flight reads run
		// to completion.
		if ctx.Err() != nil {
			break dispatch
		}
		select {
		case <-ctx.Done():
			break dispatch
		case semaphore <- struct{}{}:
		}

		wg.Add(1)
		go func(index int, path string) {
			defer wg.Done()
			defer func() { <-semaphore }()

			results <- indexedReport{index: index, report: ScanFile(path, policy, sizeLimit)}
		}(i, path)
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	done := 0
	for r := range results {
		summary.Reports[r.index] = r.report
		done++
		if opts.Progress != nil {
			opts.Progress(done, len(paths), r.report.Path)
		}
	}

	// Undispatched paths (cancellation) are recorded as read errors so the
	// fold invariants still hold over the full report sequence.
	if err := ctx.Err(); err != nil {
		for i := range summary.Reports {
			if summary.Reports[i].Outcome == "" {
				summary.Reports[i] = models.FileReport{
					Path:    paths[i],
					Outcome: models.OutcomeReadError,
					Err:     err,
				}
			}
		}
	}

	fold(summary)
	summary.Elapsed = time.Since(start)
	return summary, nil
}

// fold accumulates per-file reports into the summary counters. Counters
// are commutative sums, so the iteration order does not affect the totals.
func fold(summary *models.Summary) {
	for _, r := range summary.Reports {
		summary.FilesScanned++
		switch r.Outcome {
		case models.OutcomeOK:
			summary.ErrorsFound += r.ErrorCount
			summary.WarningsFound += r.WarningCount
		case models.OutcomeTooLarge:
			summary.LargeFiles++
			summary.FilesSkipped++
		case models.OutcomeSkipped, models.OutcomeReadError:
			summary.FilesSkipped++
		}
	}
}

func (c *Coordinator) startMessage(runID string, files, workers int) string {
	return fmt.Sprintf("run %s: scanning %d file(s) with %d worker(s)", runID, files, workers)
}
