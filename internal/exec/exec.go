// Package exec runs external commands (hook scripts, mostly) with context
// support and configurable streams.
package exec

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
)

// Executor runs external commands.
type Executor struct {
	stdout io.Writer
	stderr io.Writer
	env    []string
	dir    string

	// For mocking in tests
	commandFunc func(name string, args ...string) *exec.Cmd
}

// Options configures command execution.
type Options struct {
	Stdout io.Writer
	Stderr io.Writer
	Env    []string // Additional environment variables
	Dir    string   // Working directory
}

// New creates an executor with sensible defaults.
func New(opts *Options) *Executor {
	if opts == nil {
		opts = &Options{}
	}
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}

	return &Executor{
		stdout:      opts.Stdout,
		stderr:      opts.Stderr,
		env:         opts.Env,
		dir:         opts.Dir,
		commandFunc: exec.Command,
	}
}

// Run executes a command and waits for it to finish. The process is killed
// if ctx is cancelled.
func (e *Executor) Run(ctx context.Context, name string, args ...string) error {
	cmd := e.commandFunc(name, args...)

	if e.dir != "" {
		cmd.Dir = e.dir
	}
	if len(e.env) > 0 {
		cmd.Env = append(os.Environ(), e.env...)
	}
	cmd.Stdout = e.stdout
	cmd.Stderr = e.stderr

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start %s: %w", name, err)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- cmd.Wait()
	}()

	select {
	case <-ctx.Done():
		if cmd.Process != nil {
			cmd.Process.Kill()
		}
		<-errCh
		return fmt.Errorf("%s cancelled: %w", name, ctx.Err())
	case err := <-errCh:
		return err
	}
}
