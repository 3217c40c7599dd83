// Package executor runs workflow steps sequentially against the host,
// enforcing per-step timeouts and the continue-vs-abort failure policy.
package executor

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"syscall"
	"time"
)

// Command is one fully expanded invocation, ready to spawn. The engine
// builds these from steps after variable resolution; nothing here is a
// template anymore.
type Command struct {
	// Shell selects interpretation through the shell. When false, Argv is
	// executed directly and no shell metacharacter interpretation occurs.
	Shell bool

	// Line is the complete command line for shell mode.
	Line string

	// Argv is the program and arguments for direct mode.
	Argv []string

	// Timeout bounds execution. Zero means wait indefinitely.
	Timeout time.Duration
}

// Result holds the raw outcome of one spawned process.
type Result struct {
	ExitCode int
	Stdout   string
	Stderr   string
	TimedOut bool
}

// CommandRunner spawns a command and waits for its outcome. Implementations
// must return a spawn failure (command not found, permission denied) as an
// error; all other outcomes, including non-zero exits and timeouts, are
// reported through the Result.
type CommandRunner interface {
	Run(ctx context.Context, cmd Command) (*Result, error)
}

// OSRunner executes commands as real host processes.
type OSRunner struct {
	// Shell is the interpreter for shell-mode commands. Defaults to "/bin/sh".
	Shell string

	// KillGrace is how long to wait between SIGTERM and SIGKILL when
	// terminating a timed-out or cancelled process. Defaults to 3s.
	KillGrace time.Duration
}

// NewOSRunner creates an OSRunner with default settings.
func NewOSRunner() *OSRunner {
	return &OSRunner{
		Shell:     "/bin/sh",
		KillGrace: 3 * time.Second,
	}
}

// Run spawns the command and blocks until it exits, times out, or the
// context is cancelled. The process runs in its own process group so that
// termination reaches the whole tree.
func (r *OSRunner) Run(ctx context.Context, cmd Command) (*Result, error) {
	var proc *exec.Cmd
	if cmd.Shell {
		shell := r.Shell
		if shell == "" {
			shell = "/bin/sh"
		}
		proc = exec.Command(shell, "-c", cmd.Line)
	} else {
		if len(cmd.Argv) == 0 {
			return nil, fmt.Errorf("empty argv")
		}
		proc = exec.Command(cmd.Argv[0], cmd.Argv[1:]...)
	}

	var stdout, stderr bytes.Buffer
	proc.Stdout = &stdout
	proc.Stderr = &stderr

	// Own process group so the whole tree can be killed
	proc.SysProcAttr = &syscall.SysProcAttr{
		Setpgid: true,
	}

	if err := proc.Start(); err != nil {
		return nil, err
	}

	done := make(chan error, 1)
	go func() {
		done <- proc.Wait()
	}()

	var timeout <-chan time.Time
	if cmd.Timeout > 0 {
		timer := time.NewTimer(cmd.Timeout)
		defer timer.Stop()
		timeout = timer.C
	}

	result := &Result{}

	select {
	case <-timeout:
		r.terminate(proc, done)
		result.ExitCode = -1
		result.TimedOut = true

	case <-ctx.Done():
		r.terminate(proc, done)
		result.Stdout = stdout.String()
		result.Stderr = stderr.String()
		result.ExitCode = -1
		return result, ctx.Err()

	case err := <-done:
		if err != nil {
			if exitErr, ok := err.(*exec.ExitError); ok {
				result.ExitCode = exitErr.ExitCode()
			} else {
				result.ExitCode = -1
			}
		}
	}

	result.Stdout = stdout.String()
	result.Stderr = stderr.String()
	return result, nil
}

// terminate sends SIGTERM to the process group, escalating to SIGKILL if
// the process has not exited within the grace period.
func (r *OSRunner) terminate(proc *exec.Cmd, done <-chan error) {
	if proc.Process == nil {
		return
	}
	_ = syscall.Kill(-proc.Process.Pid, syscall.SIGTERM)

	grace := r.KillGrace
	if grace <= 0 {
		grace = 3 * time.Second
	}
	select {
	case <-done:
	case <-time.After(grace):
		_ = syscall.Kill(-proc.Process.Pid, syscall.SIGKILL)
		<-done
	}
}
