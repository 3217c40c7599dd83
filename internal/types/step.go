package types

import (
	"fmt"
	"time"
)

// StepStatus represents the recorded outcome of a single step.
type StepStatus string

const (
	StepStatusSuccess  StepStatus = "success"   // Command exited zero
	StepStatusFailed   StepStatus = "failed"    // Non-zero exit, spawn failure, or unresolved variable
	StepStatusSkipped  StepStatus = "skipped"   // Never executed because an earlier step aborted the run
	StepStatusTimedOut StepStatus = "timed_out" // Killed after exceeding its timeout
)

// Valid returns true if this is a recognized status.
func (s StepStatus) Valid() bool {
	switch s {
	case StepStatusSuccess, StepStatusFailed, StepStatusSkipped, StepStatusTimedOut:
		return true
	}
	return false
}

// IsFailure returns true for outcomes that count against the run.
func (s StepStatus) IsFailure() bool {
	return s == StepStatusFailed || s == StepStatusTimedOut
}

// Step is one executable unit within a workflow. Steps are built by the
// loader and never mutated afterward; the engine works on copies of the
// expanded command strings, not on the Step itself.
//
// Exactly one of ShellLine or Argv is populated, decided once at load time
// based on the step's shell flag:
//   - shell mode: ShellLine holds the full command-line template, passed to
//     the shell interpreter after variable expansion and quoting
//   - direct mode: Argv holds the program and argument templates, executed
//     without any shell in between
type Step struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description,omitempty"`

	Shell           bool   `yaml:"shell,omitempty"`
	CaptureOutput   bool   `yaml:"capture_output"`
	ContinueOnError bool   `yaml:"continue_on_error,omitempty"`
	Alternative     string `yaml:"alternative,omitempty"`

	// Timeout is the per-step execution bound. Zero means no timeout.
	Timeout time.Duration `yaml:"-"`

	ShellLine string   `yaml:"-"`
	Argv      []string `yaml:"-"`
}

// Validate checks the step is well-formed. The loader calls this after
// resolving the execution mode.
func (s *Step) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("step name is required")
	}
	if s.Timeout < 0 {
		return fmt.Errorf("step %s: timeout must be positive", s.Name)
	}
	if s.Shell {
		if s.ShellLine == "" {
			return fmt.Errorf("step %s: command is empty", s.Name)
		}
		if len(s.Argv) != 0 {
			return fmt.Errorf("step %s: has argv but shell mode is set", s.Name)
		}
		return nil
	}
	if len(s.Argv) == 0 {
		return fmt.Errorf("step %s: command is empty", s.Name)
	}
	if s.ShellLine != "" {
		return fmt.Errorf("step %s: has shell line but direct mode is set", s.Name)
	}
	return nil
}
