package download

import "context"

// Runner defines the interface to external tool execution, so the download
// pipeline can be exercised without spawning real subprocesses.
type Runner interface {
	// LookPath returns the absolute path of a tool, or an error when it is
	// not installed.
	LookPath(name string) (string, error)

	// Run executes a tool and waits for it, returning captured stdout and
	// stderr. Implementations must kill the subprocess when ctx ends.
	Run(ctx context.Context, name string, args ...string) (stdout string, stderr string, err error)
}
