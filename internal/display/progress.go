package display

import (
	"fmt"
	"io"
	"path/filepath"
	"sync"
)

// ProgressIndicator manages per-file scan progress display with ANSI colors.
// Step is safe to call from multiple workers. The header is printed lazily
// on the first step, once the candidate count is known.
type ProgressIndicator struct {
	writer  io.Writer
	mutex   sync.Mutex
	started bool
}

// NewProgressIndicator creates a new progress indicator.
func NewProgressIndicator(w io.Writer) *ProgressIndicator {
	return &ProgressIndicator{writer: w}
}

// Step displays progress for a completed file: [done/total] filename (cyan).
func (p *ProgressIndicator) Step(done, total int, path string) {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	if !p.started {
		fmt.Fprintf(p.writer, "Scanning %d file(s):\n", total)
		p.started = true
	}
	fmt.Fprintf(p.writer, "\x1b[36m  [%d/%d] %s\x1b[0m\n", done, total, filepath.Base(path))
}

// Complete displays a success message with a green checkmark.
func (p *ProgressIndicator) Complete(total int) {
	fmt.Fprintf(p.writer, "\x1b[32m✓\x1b[0m Scanned %d file(s)\n", total)
}
