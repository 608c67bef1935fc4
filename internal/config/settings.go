package config

import "time"

// Download tool settings
const (
	// DefaultTool fetches each episode; any tool accepting the same
	// argument contract works
	DefaultTool = "wget"

	// DefaultUserAgent mirrors a desktop browser so the CDN serves us
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"

	// DefaultReferer satisfies the hotlink check on the video host
	DefaultReferer = "https://thoughtmaybe.com/"

	// DefaultToolTimeoutSec is wget's own per-connection timeout
	DefaultToolTimeoutSec = 30

	// DefaultToolTries is wget's retry count per file
	DefaultToolTries = 3
)

// Run settings
const (
	// DefaultOutputDir receives the episode folders when no directory
	// argument is given
	DefaultOutputDir = "./thoughtmaybe_collection"

	// DefaultTaskTimeout caps a single download; feature-length files on
	// slow links need hours, not minutes
	DefaultTaskTimeout = 2 * time.Hour
)

// Config carries one run's settings. Zero Workers means the pool is sized
// from the speed probe.
type Config struct {
	Tool           string
	UserAgent      string
	Referer        string
	ToolTimeoutSec int
	ToolTries      int
	TaskTimeout    time.Duration
	OutputDir      string
	Workers        int
	NoProbe        bool
	Verbose        bool
}

// Default returns a Config populated with the shipped defaults.
func Default() Config {
	return Config{
		Tool:           DefaultTool,
		UserAgent:      DefaultUserAgent,
		Referer:        DefaultReferer,
		ToolTimeoutSec: DefaultToolTimeoutSec,
		ToolTries:      DefaultToolTries,
		TaskTimeout:    DefaultTaskTimeout,
		OutputDir:      DefaultOutputDir,
	}
}
