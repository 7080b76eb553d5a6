package scan

import (
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/harrison/logscan/internal/models"
)

// EnumerateOptions configures candidate file discovery.
type EnumerateOptions struct {
	// Include is a list of doublestar glob patterns; when non-empty, a file
	// must match at least one pattern to become a candidate.
	Include []string
	// Exclude is a list of doublestar glob patterns; a file matching any
	// pattern is dropped.
	Exclude []string
}

// Enumerate walks each root in the given order, one directory level deep,
// and returns the ordered list of candidate file paths. Entries within a
// root are visited in lexicographic order for determinism. Roots that do
// not exist or cannot be listed produce a RootError and zero entries; they
// never abort enumeration. Entries that are not regular files
// (directories, symlinks, special files) are excluded silently.
//
// Depth is deliberately limited to a single level to bound worst-case
// scan size; recursive descent trades predictable latency for discovery.
func Enumerate(roots []string, opts EnumerateOptions) ([]string, []models.RootError) {
	var files []string
	var rootErrs []models.RootError

	for _, root := range roots {
		entries, err := os.ReadDir(root)
		if err != nil {
			rootErrs = append(rootErrs, models.RootError{Root: root, Err: err})
			continue
		}

		// os.ReadDir returns entries sorted by filename.
		for _, entry := range entries {
			if !entry.Type().IsRegular() {
				continue
			}
			path := filepath.Join(root, entry.Name())
			if !matchesFilters(path, entry.Name(), opts) {
				continue
			}
			files = append(files, path)
		}
	}

	return files, rootErrs
}

// matchesFilters applies the include/exclude glob patterns to a candidate.
// Patterns are matched against both the bare filename and the joined path
// so that "*.log" and "dir/*.log" both behave as operators expect.
func matchesFilters(path, name string, opts EnumerateOptions) bool {
	if len(opts.Include) > 0 && !matchesAny(opts.Include, path, name) {
		return false
	}
	return !matchesAny(opts.Exclude, path, name)
}

func matchesAny(patterns []string, path, name string) bool {
	for _, pattern := range patterns {
		if ok, err := doublestar.Match(pattern, name); err == nil && ok {
			return true
		}
		if ok, err := doublestar.Match(pattern, filepath.ToSlash(path)); err == nil && ok {
			return true
		}
	}
	return false
}
