// Package status renders workflow results for terminal display. Rendering
// is a pure transformation of the ledger; nothing here re-executes steps.
package status

import (
	"github.com/nexus-stack/nexus/internal/types"
)

// StepStats contains step count breakdown for a run.
type StepStats struct {
	Total    int `json:"total"`
	Success  int `json:"success"`
	Failed   int `json:"failed"`
	TimedOut int `json:"timed_out"`
	Skipped  int `json:"skipped"`
}

// ComputeStepStats tallies up step statuses in a result.
func ComputeStepStats(result *types.WorkflowResult) StepStats {
	stats := StepStats{
		Total: len(result.Steps),
	}
	for _, sr := range result.Steps {
		switch sr.Status {
		case types.StepStatusSuccess:
			stats.Success++
		case types.StepStatusFailed:
			stats.Failed++
		case types.StepStatusTimedOut:
			stats.TimedOut++
		case types.StepStatusSkipped:
			stats.Skipped++
		}
	}
	return stats
}
