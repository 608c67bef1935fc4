package plan

// Package plan maps parsed episodes onto download tasks: destination paths
// under the output directory, safe file names, and the missing-file filter
// used by the retry pass.
