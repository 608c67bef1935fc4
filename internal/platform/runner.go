package platform

import (
	"bytes"
	"context"
	"os/exec"
)

// ExecRunner executes external tools as subprocesses with separated output
// capture. It satisfies the download service's Runner interface.
type ExecRunner struct{}

// LookPath returns the absolute path of a tool, or an error when it is not
// installed.
func (ExecRunner) LookPath(name string) (string, error) {
	return exec.LookPath(name)
}

// Run executes a tool and waits for it, returning captured stdout and stderr.
// The subprocess is killed when ctx is cancelled or times out.
func (ExecRunner) Run(ctx context.Context, name string, args ...string) (string, string, error) {
	cmd := exec.CommandContext(ctx, name, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	return stdout.String(), stderr.String(), err
}
