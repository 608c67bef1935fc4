package download

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
)

// Speed probe settings
const (
	// ProbeTool measures connection speed; distinct from the download tool
	// so a missing curl only degrades pool sizing
	ProbeTool = "curl"

	// ProbeRange limits the probe transfer to the first mebibyte
	ProbeRange = "0-1048576"

	// ProbeMaxTimeSec is curl's own transfer cap
	ProbeMaxTimeSec = 5

	// ProbeTimeout bounds the whole probe subprocess
	ProbeTimeout = (ProbeMaxTimeSec + 2) * time.Second
)

// Probe estimates download speed by fetching the first mebibyte of url with
// curl, returning megabits per second.
func Probe(ctx context.Context, r Runner, url string) (float64, error) {
	if _, err := r.LookPath(ProbeTool); err != nil {
		return 0, fmt.Errorf("%s not installed: %w", ProbeTool, err)
	}

	ctx, cancel := context.WithTimeout(ctx, ProbeTimeout)
	defer cancel()

	stdout, stderr, runErr := r.Run(ctx, ProbeTool,
		"-s", "-o", os.DevNull, "-w", "%{speed_download}",
		"--max-time", strconv.Itoa(ProbeMaxTimeSec),
		"--range", ProbeRange,
		url)

	// curl can exit nonzero after the range cap and still print a usable
	// speed, so the output decides before the exit status.
	speed, parseErr := strconv.ParseFloat(strings.TrimSpace(stdout), 64)
	if parseErr != nil || speed <= 0 {
		if runErr != nil {
			return 0, fmt.Errorf("probe transfer: %w: %s", runErr, strings.TrimSpace(stderr))
		}
		return 0, fmt.Errorf("probe reported no usable speed: %q", strings.TrimSpace(stdout))
	}
	return speed * 8 / (1024 * 1024), nil
}

// AutoWorkers sizes the worker pool from a speed probe of url, falling back
// to DefaultWorkers when the probe fails.
func AutoWorkers(ctx context.Context, r Runner, url string) int {
	log.Info("running speed test to determine worker count")

	mbps, err := Probe(ctx, r, url)
	if err != nil {
		log.Warnf("speed test failed: %v; using default %d workers", err, DefaultWorkers)
		return DefaultWorkers
	}

	workers := WorkerCount(mbps)
	log.Infof("estimated download speed %.1f Mbps, using %d parallel workers", mbps, workers)
	return workers
}
