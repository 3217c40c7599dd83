// Package types defines the data model shared by the workflow loader,
// execution engine, and reporter.
package types

import "fmt"

// OutputFormat selects how a workflow result is rendered.
type OutputFormat string

const (
	OutputFormatSummary  OutputFormat = "summary"
	OutputFormatDetailed OutputFormat = "detailed"
)

// Valid returns true if this is a recognized output format.
func (f OutputFormat) Valid() bool {
	return f == OutputFormatSummary || f == OutputFormatDetailed
}

// WorkflowDefinition is a validated, immutable workflow. It is constructed
// once by the loader; execution never mutates it, so a single definition can
// back any number of runs.
type WorkflowDefinition struct {
	Name        string
	Version     string
	Description string
	Category    string
	Tags        []string

	// Steps execute in definition order.
	Steps []*Step

	// Variables are workflow-level defaults, overridable per run.
	Variables map[string]string

	OutputFormat      OutputFormat
	EstimatedDuration string
}

// Validate checks workflow-level invariants. Step-level validation happens
// in Step.Validate; the loader runs both.
func (w *WorkflowDefinition) Validate() error {
	if w.Name == "" {
		return fmt.Errorf("workflow name is required")
	}
	if len(w.Steps) == 0 {
		return fmt.Errorf("workflow %s has no steps", w.Name)
	}
	if !w.OutputFormat.Valid() {
		return fmt.Errorf("workflow %s: invalid output format %q", w.Name, w.OutputFormat)
	}
	seen := make(map[string]bool, len(w.Steps))
	for _, step := range w.Steps {
		if seen[step.Name] {
			return fmt.Errorf("workflow %s: duplicate step name %q", w.Name, step.Name)
		}
		seen[step.Name] = true
	}
	return nil
}

// Step returns the step with the given name, or nil if not found.
func (w *WorkflowDefinition) Step(name string) *Step {
	for _, s := range w.Steps {
		if s.Name == name {
			return s
		}
	}
	return nil
}
