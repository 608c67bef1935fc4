package download

// Package download implements the core download pipeline: connection speed
// probing, worker pool sizing, and bounded-parallel execution of download
// tasks through an external tool (wget by default). Tool invocations are
// isolated from each other; a failed task never stops the run.
