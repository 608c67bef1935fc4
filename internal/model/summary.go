package model

import "time"

// RunSummary aggregates the outcomes of one download run. Succeeded counts
// fresh downloads only; Skipped counts destinations that already existed;
// the three counters partition the outcome set.
type RunSummary struct {
	Succeeded  int
	Failed     int
	Skipped    int
	TotalBytes int64         // bytes across fresh successful downloads
	Wall       time.Duration // wall-clock time of the whole run
	Cumulative time.Duration // sum of every task's own tool time
	Failures   []DownloadOutcome
}

// AverageMbps returns run throughput over wall-clock time in megabits per
// second.
func (s RunSummary) AverageMbps() float64 {
	if s.Wall <= 0 {
		return 0
	}
	return float64(s.TotalBytes) * 8 / (1024 * 1024) / s.Wall.Seconds()
}

// TimeSaved returns how much wall time the parallel run saved compared to
// downloading the same tasks one after another.
func (s RunSummary) TimeSaved() time.Duration {
	if s.Cumulative <= s.Wall {
		return 0
	}
	return s.Cumulative - s.Wall
}
