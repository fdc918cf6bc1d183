// Package exec provides a stub-friendly interface for running external
// commands. tramy only runs tools read-only, to report their presence.
package exec

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strings"
	"time"
)

// DefaultToolTimeout bounds a single tool version probe.
const DefaultToolTimeout = 5 * time.Second

// CmdResult holds the result of a command execution.
type CmdResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// RunOpts holds optional parameters for command execution.
type RunOpts struct {
	Dir     string            // working directory (optional)
	Env     map[string]string // extra environment variables (overlay)
	Timeout time.Duration     // zero means no limit beyond ctx
}

// CommandRunner is the interface for running external commands.
// Implementations must be safe for stubbing in tests.
type CommandRunner interface {
	// Run executes a command and returns the result.
	// Returns CmdResult with ExitCode set if the process exits (even non-zero).
	// Returns error only for execution failures (binary not found, ctx canceled, timeout).
	Run(ctx context.Context, name string, args []string, opts RunOpts) (CmdResult, error)
}

// RealRunner is the production implementation of CommandRunner using os/exec.
type RealRunner struct{}

// NewRealRunner creates a new RealRunner.
func NewRealRunner() *RealRunner {
	return &RealRunner{}
}

// Run executes the command and captures stdout/stderr.
func (r *RealRunner) Run(ctx context.Context, name string, args []string, opts RunOpts) (CmdResult, error) {
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, name, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if opts.Dir != "" {
		cmd.Dir = opts.Dir
	}

	if len(opts.Env) > 0 {
		cmd.Env = cmd.Environ()
		for k, v := range opts.Env {
			cmd.Env = append(cmd.Env, k+"="+v)
		}
	}

	err := cmd.Run()

	result := CmdResult{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		return result, ctxErr
	}
	if err != nil {
		// Process ran but exited non-zero
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
			return result, nil
		}
		// Binary not found, start failure
		return result, err
	}
	return result, nil
}

// ToolVersion runs "<name> <args...>" and returns the first line of its
// output. ok is false when the tool is missing or exits non-zero.
func ToolVersion(ctx context.Context, cr CommandRunner, name string, args ...string) (version string, ok bool) {
	res, err := cr.Run(ctx, name, args, RunOpts{Timeout: DefaultToolTimeout})
	if err != nil || res.ExitCode != 0 {
		return "", false
	}
	out := strings.TrimSpace(res.Stdout)
	if out == "" {
		out = strings.TrimSpace(res.Stderr)
	}
	first, _, _ := strings.Cut(out, "\n")
	return strings.TrimSpace(first), true
}
