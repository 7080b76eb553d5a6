package scan

import (
	"errors"

	"github.com/harrison/logscan/internal/models"
)

// Sentinel errors for run-level failures. These are the only conditions
// that prevent a Summary from being produced.
var (
	// ErrNoFiles indicates that no supplied root could be listed at all,
	// distinguishing misconfiguration from an empty-but-successful scan.
	ErrNoFiles = errors.New("no readable files found under the supplied roots")

	// ErrNoWorkers indicates an invalid worker pool size.
	ErrNoWorkers = errors.New("worker count must be at least 1")
)

// IsRootError checks if the error is or wraps a models.RootError.
func IsRootError(err error) bool {
	if err == nil {
		return false
	}
	var re *models.RootError
	return errors.As(err, &re)
}

// IsFatal checks whether the error is a run-level failure, i.e. one that
// prevented any Summary from being produced.
func IsFatal(err error) bool {
	return errors.Is(err, ErrNoFiles) || errors.Is(err, ErrNoWorkers)
}
