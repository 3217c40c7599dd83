package status

import (
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/nexus-stack/nexus/internal/types"
)

// Options controls result rendering.
type Options struct {
	// Verbose includes captured output and failure reasons per step, even
	// in summary format.
	Verbose bool

	// NoColor disables ANSI colors.
	NoColor bool
}

// Render formats a workflow result. The summary format is one line per step
// plus an overall line; detailed (or verbose) adds captured stdout/stderr
// and the alternative-used flag for each step.
func Render(result *types.WorkflowResult, format types.OutputFormat, opts Options) string {
	detailed := format == types.OutputFormatDetailed || opts.Verbose

	var b strings.Builder
	b.WriteString(fmt.Sprintf("Workflow: %s\n", result.WorkflowName))

	for _, sr := range result.Steps {
		b.WriteString(formatStepLine(sr, opts))
		b.WriteString("\n")
		if detailed {
			b.WriteString(formatStepDetail(sr))
		}
	}

	b.WriteString("\n")
	b.WriteString(formatOverall(result, opts))
	b.WriteString("\n")
	return b.String()
}

func formatStepLine(sr types.StepResult, opts Options) string {
	icon := stepIcon(sr.Status)
	painted := paintStatus(sr.Status, fmt.Sprintf("%s %s", icon, sr.StepName), opts.NoColor)

	if sr.Status == types.StepStatusSkipped {
		return fmt.Sprintf("  %s (%s)", painted, sr.Status)
	}
	line := fmt.Sprintf("  %s (%s, %s)", painted, sr.Status, formatDuration(sr.Duration))
	if sr.UsedAlternative {
		line += " [alternative]"
	}
	return line
}

func formatStepDetail(sr types.StepResult) string {
	var b strings.Builder
	if sr.Error != "" {
		b.WriteString(fmt.Sprintf("      error: %s\n", sr.Error))
	}
	if sr.ExitCode != nil && *sr.ExitCode != 0 {
		b.WriteString(fmt.Sprintf("      exit code: %d\n", *sr.ExitCode))
	}
	if out := strings.TrimRight(sr.Stdout, "\n"); out != "" {
		b.WriteString(indentBlock("stdout", out))
	}
	if errOut := strings.TrimRight(sr.Stderr, "\n"); errOut != "" {
		b.WriteString(indentBlock("stderr", errOut))
	}
	return b.String()
}

func formatOverall(result *types.WorkflowResult, opts Options) string {
	stats := ComputeStepStats(result)

	parts := []string{fmt.Sprintf("%d succeeded", stats.Success)}
	if stats.Failed > 0 {
		parts = append(parts, fmt.Sprintf("%d failed", stats.Failed))
	}
	if stats.TimedOut > 0 {
		parts = append(parts, fmt.Sprintf("%d timed out", stats.TimedOut))
	}
	if stats.Skipped > 0 {
		parts = append(parts, fmt.Sprintf("%d skipped", stats.Skipped))
	}

	label := paintRunStatus(result.Status, opts.NoColor)
	return fmt.Sprintf("%s: %s (%s in %s)",
		label, strings.Join(parts, ", "), plural(stats.Total, "step"), formatDuration(result.Duration()))
}

func indentBlock(label, content string) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("      %s:\n", label))
	for _, line := range strings.Split(content, "\n") {
		b.WriteString("        " + line + "\n")
	}
	return b.String()
}

func stepIcon(s types.StepStatus) string {
	switch s {
	case types.StepStatusSuccess:
		return "✓"
	case types.StepStatusFailed:
		return "✗"
	case types.StepStatusTimedOut:
		return "⏱"
	case types.StepStatusSkipped:
		return "⊘"
	default:
		return "?"
	}
}

func paintStatus(s types.StepStatus, text string, noColor bool) string {
	if noColor {
		return text
	}
	switch s {
	case types.StepStatusSuccess:
		return color.GreenString(text)
	case types.StepStatusFailed, types.StepStatusTimedOut:
		return color.RedString(text)
	case types.StepStatusSkipped:
		return color.HiBlackString(text)
	default:
		return text
	}
}

func paintRunStatus(s types.RunStatus, noColor bool) string {
	text := string(s)
	if noColor {
		return text
	}
	switch s {
	case types.RunStatusSuccess:
		return color.GreenString(text)
	case types.RunStatusPartialFailure:
		return color.YellowString(text)
	case types.RunStatusFailed:
		return color.RedString(text)
	default:
		return text
	}
}

func plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}

func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	return fmt.Sprintf("%dm%ds", int(d.Minutes()), int(d.Seconds())%60)
}
