// internal/progress/reporter.go
package progress

import (
	"sync"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/bstardust/photo-geometa/internal/logger"
)

// Summary is a point-in-time view of the counters
type Summary struct {
	Total     int
	Completed int
	Skipped   int
	Errors    int
	Bytes     int64
	Elapsed   time.Duration
}

// Processed returns the number of files that reached a final state.
func (s Summary) Processed() int {
	return s.Completed + s.Skipped + s.Errors
}

// Reporter tracks and reports inspection progress
type Reporter struct {
	mu             sync.Mutex
	total          int
	completed      int
	skipped        int
	errors         int
	bytes          int64
	startTime      time.Time
	lastUpdateTime time.Time
	updateInterval time.Duration
}

// New creates a new progress reporter
func New() *Reporter {
	return &Reporter{
		updateInterval: 2 * time.Second,
	}
}

// Start initializes the progress reporter with the total number of files
func (r *Reporter) Start(total int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.total = total
	r.completed = 0
	r.skipped = 0
	r.errors = 0
	r.bytes = 0
	r.startTime = time.Now()
	r.lastUpdateTime = time.Now()

	logger.Info("Inspecting %s files", humanize.Comma(int64(total)))
}

// Complete marks a file as inspected
func (r *Reporter) Complete(path string, size int64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.completed++
	r.bytes += size
	r.updateProgress()
}

// Skip marks a file as skipped
func (r *Reporter) Skip(path string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	logger.Debug("Skipped %s", path)
	r.skipped++
	r.updateProgress()
}

// Error marks a file as failed
func (r *Reporter) Error(path string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	logger.Warn("Failed to inspect %s: %v", path, err)
	r.errors++
	r.updateProgress()
}

// Summary returns the current counters
func (r *Reporter) Summary() Summary {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.summary()
}

func (r *Reporter) summary() Summary {
	return Summary{
		Total:     r.total,
		Completed: r.completed,
		Skipped:   r.skipped,
		Errors:    r.errors,
		Bytes:     r.bytes,
		Elapsed:   time.Since(r.startTime),
	}
}

// Finish completes the progress reporting
func (r *Reporter) Finish() Summary {
	r.mu.Lock()
	defer r.mu.Unlock()

	s := r.summary()
	logger.Info("Inspection complete: %d/%d files inspected (%s), %d skipped, %d errors in %s",
		s.Completed, s.Total, humanize.Bytes(uint64(s.Bytes)), s.Skipped, s.Errors, s.Elapsed.Round(time.Millisecond))
	return s
}

// updateProgress updates and displays the progress
func (r *Reporter) updateProgress() {
	now := time.Now()
	if now.Sub(r.lastUpdateTime) < r.updateInterval {
		return
	}

	r.lastUpdateTime = now
	duration := now.Sub(r.startTime)
	processed := r.completed + r.skipped + r.errors

	if processed == 0 || r.total == 0 {
		return
	}

	percentage := float64(processed) / float64(r.total) * 100

	// Calculate estimated time remaining
	var eta string
	if r.completed > 0 {
		timePerFile := duration / time.Duration(processed)
		remaining := timePerFile * time.Duration(r.total-processed)
		eta = remaining.Round(time.Second).String()
	} else {
		eta = "unknown"
	}

	logger.Info("Progress: %.1f%% (%d/%d, %s read, %d skipped, %d errors) ETA: %s",
		percentage, processed, r.total, humanize.Bytes(uint64(r.bytes)), r.skipped, r.errors, eta)
}
