package model

import (
	"path/filepath"
	"strings"
	"time"
)

// DownloadTask binds an episode to the file it downloads into.
type DownloadTask struct {
	ID       string  // task id assigned by the plan builder
	Episode  Episode // source episode
	DestPath string  // destination file path under the output directory
}

// DownloadOutcome records the terminal result of a single task. Outcomes are
// never mutated after the worker emits them.
type DownloadOutcome struct {
	Task      DownloadTask
	Status    TaskStatus
	Skipped   bool          // destination already existed; no tool run
	Bytes     int64         // downloaded file size, 0 when skipped or failed
	Elapsed   time.Duration // tool run time, 0 when skipped
	ErrorText string        // captured tool output for failures
}

// GetDisplayName returns the destination file name, episode title, or URL
// in order of preference
func (t *DownloadTask) GetDisplayName() string {
	if t.DestPath != "" {
		return filepath.Base(t.DestPath)
	}
	if t.Episode.Title != "" {
		return t.Episode.Title
	}
	return t.Episode.SourceURL
}

// Succeeded reports whether the task ended with a usable file on disk.
func (o DownloadOutcome) Succeeded() bool {
	return o.Status == TaskStatusCompleted
}

// Mbps returns the transfer speed of this outcome in megabits per second,
// or 0 when nothing was measured.
func (o DownloadOutcome) Mbps() float64 {
	if o.Elapsed <= 0 {
		return 0
	}
	return float64(o.Bytes) * 8 / (1024 * 1024) / o.Elapsed.Seconds()
}

// ErrorSummary returns the last non-empty line of the captured tool output,
// the conventional one-line failure reason.
func (o DownloadOutcome) ErrorSummary() string {
	lines := strings.Split(o.ErrorText, "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if line := strings.TrimSpace(lines[i]); line != "" {
			return line
		}
	}
	return "Unknown error"
}
