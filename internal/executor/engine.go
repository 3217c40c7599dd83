package executor

import (
	"context"
	"log/slog"
	"time"

	"github.com/nexus-stack/nexus/internal/types"
	"github.com/nexus-stack/nexus/internal/workflow"
)

// Engine executes workflows step by step, strictly sequentially. No step
// begins before the previous step's outcome has been determined; later
// steps may depend on side effects of earlier ones.
type Engine struct {
	runner CommandRunner
	logger *slog.Logger

	// now is injectable for deterministic tests.
	now func() time.Time
}

// New creates an Engine. A nil runner defaults to real host execution.
func New(runner CommandRunner, logger *slog.Logger) *Engine {
	if runner == nil {
		runner = NewOSRunner()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		runner: runner,
		logger: logger,
		now:    time.Now,
	}
}

// Run executes every step of the workflow in definition order and returns
// the complete ledger. Run itself never fails for a valid workflow: spawn
// errors, non-zero exits, timeouts, and unresolved variables are all
// absorbed into step results. Cancelling ctx terminates the in-flight step
// and skips the rest.
func (e *Engine) Run(ctx context.Context, def *types.WorkflowDefinition, vars *workflow.Context) *types.WorkflowResult {
	result := &types.WorkflowResult{
		WorkflowName: def.Name,
		StartedAt:    e.now(),
	}

	log := e.logger.With("workflow", def.Name)
	log.Debug("starting workflow", "steps", len(def.Steps))

	aborted := false
	for _, step := range def.Steps {
		if aborted {
			result.Steps = append(result.Steps, types.StepResult{
				StepName: step.Name,
				Status:   types.StepStatusSkipped,
			})
			continue
		}

		sr := e.runStep(ctx, step, vars)
		result.Steps = append(result.Steps, sr)

		log.Debug("step finished",
			"step", step.Name,
			"status", sr.Status,
			"duration", sr.Duration,
			"used_alternative", sr.UsedAlternative)

		if sr.Status.IsFailure() && !step.ContinueOnError {
			aborted = true
		}
		if ctx.Err() != nil {
			aborted = true
		}
	}

	result.FinishedAt = e.now()
	result.Status = overallStatus(result.Steps, aborted)
	log.Debug("workflow finished", "status", result.Status, "duration", result.Duration())
	return result
}

// runStep executes one step: primary command first, then the alternative if
// the primary failed (but not if it timed out). The recorded outcome is the
// last command actually run.
func (e *Engine) runStep(ctx context.Context, step *types.Step, vars *workflow.Context) types.StepResult {
	start := e.now()

	sr := e.runCommand(ctx, step, primaryCommand(step), vars)

	if sr.Status == types.StepStatusFailed && step.Alternative != "" && ctx.Err() == nil {
		alt := e.runCommand(ctx, step, alternativeCommand(step), vars)
		alt.UsedAlternative = true
		sr = alt
	}

	sr.StepName = step.Name
	sr.Duration = e.now().Sub(start)
	return sr
}

// stepCommand is a step's primary or alternative invocation before
// variable expansion.
type stepCommand struct {
	shellLine string
	argv      []string
	rawDirect string // direct-mode alternative, split at run time
}

func primaryCommand(step *types.Step) stepCommand {
	return stepCommand{shellLine: step.ShellLine, argv: step.Argv}
}

func alternativeCommand(step *types.Step) stepCommand {
	if step.Shell {
		return stepCommand{shellLine: step.Alternative}
	}
	return stepCommand{rawDirect: step.Alternative}
}

// runCommand expands and spawns one invocation, translating every failure
// mode into a StepResult. Expansion failures and spawn errors are step
// failures, never faults.
func (e *Engine) runCommand(ctx context.Context, step *types.Step, sc stepCommand, vars *workflow.Context) types.StepResult {
	cmd := Command{Shell: step.Shell, Timeout: step.Timeout}

	if step.Shell {
		line, err := vars.ExpandShell(sc.shellLine)
		if err != nil {
			return types.StepResult{Status: types.StepStatusFailed, Error: err.Error()}
		}
		cmd.Line = line
	} else {
		argv := sc.argv
		if argv == nil {
			split, err := workflow.SplitCommand(sc.rawDirect)
			if err != nil || len(split) == 0 {
				return types.StepResult{Status: types.StepStatusFailed, Error: "invalid alternative command"}
			}
			argv = split
		}
		expanded, err := vars.ExpandArgv(argv)
		if err != nil {
			return types.StepResult{Status: types.StepStatusFailed, Error: err.Error()}
		}
		cmd.Argv = expanded
	}

	res, err := e.runner.Run(ctx, cmd)
	if err != nil {
		// Spawn failure or cancellation: same policy as a non-zero exit
		sr := types.StepResult{Status: types.StepStatusFailed, Error: err.Error()}
		if res != nil && step.CaptureOutput {
			sr.Stdout = res.Stdout
			sr.Stderr = res.Stderr
		}
		return sr
	}

	sr := types.StepResult{ExitCode: &res.ExitCode}
	if step.CaptureOutput {
		sr.Stdout = res.Stdout
		sr.Stderr = res.Stderr
	}

	switch {
	case res.TimedOut:
		sr.Status = types.StepStatusTimedOut
		sr.Error = timeoutMessage(step.Timeout)
		sr.ExitCode = nil
	case res.ExitCode == 0:
		sr.Status = types.StepStatusSuccess
	default:
		sr.Status = types.StepStatusFailed
	}
	return sr
}

func timeoutMessage(d time.Duration) string {
	return "command timed out after " + d.String()
}

// overallStatus derives the run outcome from the ledger: failed when a
// failure aborted the run (even on the final step, where no skipped tail
// exists), partial_failure when failures occurred but every one was
// tolerated, success otherwise.
func overallStatus(steps []types.StepResult, aborted bool) types.RunStatus {
	anyFailure := false
	for _, sr := range steps {
		if sr.Status.IsFailure() {
			anyFailure = true
			break
		}
	}
	switch {
	case anyFailure && aborted:
		return types.RunStatusFailed
	case anyFailure:
		return types.RunStatusPartialFailure
	default:
		return types.RunStatusSuccess
	}
}
