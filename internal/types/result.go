package types

import "time"

// RunStatus is the overall outcome of a workflow run.
type RunStatus string

const (
	// RunStatusSuccess means every step succeeded.
	RunStatusSuccess RunStatus = "success"

	// RunStatusPartialFailure means at least one step failed or timed out
	// but every failure allowed the run to continue, so all steps executed.
	RunStatusPartialFailure RunStatus = "partial_failure"

	// RunStatusFailed means a non-continuing failure aborted the run,
	// leaving at least one step skipped.
	RunStatusFailed RunStatus = "failed"
)

// Valid returns true if this is a recognized run status.
func (s RunStatus) Valid() bool {
	switch s {
	case RunStatusSuccess, RunStatusPartialFailure, RunStatusFailed:
		return true
	}
	return false
}

// StepResult records the outcome of one step. Results are created by the
// engine, appended to the ledger in definition order, and never mutated.
type StepResult struct {
	StepName string     `json:"step_name"`
	Status   StepStatus `json:"status"`

	// ExitCode is nil for skipped steps and spawn failures.
	ExitCode *int `json:"exit_code,omitempty"`

	// Stdout and Stderr are populated only when the step requested
	// capture_output; otherwise process output is discarded.
	Stdout string `json:"stdout,omitempty"`
	Stderr string `json:"stderr,omitempty"`

	// Error holds the failure reason when the step never produced an exit
	// code: spawn failures, unresolved variables, timeouts.
	Error string `json:"error,omitempty"`

	UsedAlternative bool          `json:"used_alternative,omitempty"`
	Duration        time.Duration `json:"duration"`
}

// WorkflowResult is the complete ledger of a run. The engine returns it to
// the caller and retains no reference.
type WorkflowResult struct {
	WorkflowName string        `json:"workflow_name"`
	Status       RunStatus     `json:"overall_status"`
	Steps        []StepResult  `json:"steps"`
	StartedAt    time.Time     `json:"started_at"`
	FinishedAt   time.Time     `json:"finished_at"`
}

// Duration returns the wall-clock time of the whole run.
func (r *WorkflowResult) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// Failures returns the results of steps that failed or timed out.
func (r *WorkflowResult) Failures() []StepResult {
	var out []StepResult
	for _, sr := range r.Steps {
		if sr.Status.IsFailure() {
			out = append(out, sr)
		}
	}
	return out
}
