// Package workflow provides YAML workflow definition parsing, the variable
// resolver, and multi-source template loading.
package workflow

import (
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/nexus-stack/nexus/internal/errors"
	"github.com/nexus-stack/nexus/internal/types"
)

// rawDefinition mirrors the YAML document shape before validation.
type rawDefinition struct {
	Name              string            `yaml:"name"`
	Version           string            `yaml:"version"`
	Description       string            `yaml:"description"`
	Category          string            `yaml:"category"`
	Tags              []string          `yaml:"tags"`
	Steps             []rawStep         `yaml:"steps"`
	Variables         map[string]string `yaml:"variables"`
	OutputFormat      string            `yaml:"output_format"`
	EstimatedDuration string            `yaml:"estimated_duration"`
}

type rawStep struct {
	Name            string   `yaml:"name"`
	Command         string   `yaml:"command"`
	Description     string   `yaml:"description"`
	Shell           bool     `yaml:"shell"`
	CaptureOutput   *bool    `yaml:"capture_output"`
	ContinueOnError bool     `yaml:"continue_on_error"`
	Alternative     string   `yaml:"alternative"`
	Timeout         *float64 `yaml:"timeout"`
}

var knownTopLevelKeys = map[string]bool{
	"name": true, "version": true, "description": true, "category": true,
	"tags": true, "steps": true, "variables": true, "output_format": true,
	"estimated_duration": true,
}

// ParseOptions controls definition parsing.
type ParseOptions struct {
	// Strict rejects unknown top-level keys instead of ignoring them.
	Strict bool
}

// ParseDefinition parses and validates a workflow definition. The source
// string only labels error messages. Parsing never executes anything.
func ParseDefinition(data []byte, source string, opts ParseOptions) (*types.WorkflowDefinition, error) {
	if opts.Strict {
		if err := checkUnknownKeys(data, source); err != nil {
			return nil, err
		}
	}

	var raw rawDefinition
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, errors.DefinitionParse(source, err)
	}

	if raw.Name == "" {
		return nil, errors.DefinitionMissingField(source, "name")
	}
	if len(raw.Steps) == 0 {
		return nil, errors.DefinitionMissingField(source, "steps")
	}

	def := &types.WorkflowDefinition{
		Name:              raw.Name,
		Version:           raw.Version,
		Description:       raw.Description,
		Category:          raw.Category,
		Tags:              raw.Tags,
		Variables:         raw.Variables,
		OutputFormat:      types.OutputFormat(raw.OutputFormat),
		EstimatedDuration: raw.EstimatedDuration,
	}
	if def.Category == "" {
		def.Category = "general"
	}
	if def.OutputFormat == "" {
		def.OutputFormat = types.OutputFormatSummary
	}
	if !def.OutputFormat.Valid() {
		return nil, errors.DefinitionInvalidValue(source, "output_format",
			fmt.Sprintf("%q is not one of summary, detailed", raw.OutputFormat))
	}

	seen := make(map[string]bool, len(raw.Steps))
	for i, rs := range raw.Steps {
		step, err := buildStep(rs, i, source)
		if err != nil {
			return nil, err
		}
		if seen[step.Name] {
			return nil, errors.DefinitionDuplicateStep(source, step.Name)
		}
		seen[step.Name] = true
		def.Steps = append(def.Steps, step)
	}

	return def, nil
}

// buildStep converts a raw step entry into the execution-mode-resolved Step.
// The shell-vs-direct decision is made here, once, so the engine's hot path
// never re-inspects the flag against the command text.
func buildStep(rs rawStep, index int, source string) (*types.Step, error) {
	if rs.Name == "" {
		return nil, errors.DefinitionMissingField(source, fmt.Sprintf("steps[%d].name", index))
	}
	if strings.TrimSpace(rs.Command) == "" {
		return nil, errors.DefinitionInvalidValue(source,
			fmt.Sprintf("steps[%d].command", index), "command is empty")
	}

	step := &types.Step{
		Name:            rs.Name,
		Description:     rs.Description,
		Shell:           rs.Shell,
		CaptureOutput:   true,
		ContinueOnError: rs.ContinueOnError,
		Alternative:     rs.Alternative,
	}
	if rs.CaptureOutput != nil {
		step.CaptureOutput = *rs.CaptureOutput
	}

	if rs.Timeout != nil {
		if *rs.Timeout <= 0 {
			return nil, errors.DefinitionInvalidValue(source,
				fmt.Sprintf("steps[%d].timeout", index), "timeout must be positive")
		}
		step.Timeout = time.Duration(*rs.Timeout * float64(time.Second))
	}

	if rs.Shell {
		step.ShellLine = rs.Command
	} else {
		argv, err := SplitCommand(rs.Command)
		if err != nil {
			return nil, errors.DefinitionInvalidValue(source,
				fmt.Sprintf("steps[%d].command", index), err.Error())
		}
		if len(argv) == 0 {
			return nil, errors.DefinitionInvalidValue(source,
				fmt.Sprintf("steps[%d].command", index), "command is empty after parsing")
		}
		step.Argv = argv
	}

	if err := step.Validate(); err != nil {
		return nil, errors.DefinitionInvalidValue(source, fmt.Sprintf("steps[%d]", index), err.Error())
	}
	return step, nil
}

// checkUnknownKeys decodes only the top-level mapping keys and rejects
// anything outside the documented set.
func checkUnknownKeys(data []byte, source string) error {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return errors.DefinitionParse(source, err)
	}
	if len(doc.Content) == 0 || doc.Content[0].Kind != yaml.MappingNode {
		return nil
	}
	mapping := doc.Content[0]
	for i := 0; i < len(mapping.Content)-1; i += 2 {
		key := mapping.Content[i].Value
		if !knownTopLevelKeys[key] {
			return errors.DefinitionUnknownKey(source, key)
		}
	}
	return nil
}

// SplitCommand tokenizes a command line into argv the way a POSIX shell
// would, honoring single quotes, double quotes, and backslash escapes, but
// without performing any expansion. Used for direct-mode steps so the
// command never passes through an actual shell.
func SplitCommand(line string) ([]string, error) {
	var argv []string
	var cur strings.Builder
	inToken := false

	for i := 0; i < len(line); i++ {
		ch := line[i]
		switch ch {
		case ' ', '\t', '\n':
			if inToken {
				argv = append(argv, cur.String())
				cur.Reset()
				inToken = false
			}
		case '\'':
			inToken = true
			end := strings.IndexByte(line[i+1:], '\'')
			if end < 0 {
				return nil, fmt.Errorf("unterminated single quote")
			}
			cur.WriteString(line[i+1 : i+1+end])
			i += end + 1
		case '"':
			inToken = true
			i++
			for ; i < len(line); i++ {
				if line[i] == '\\' && i+1 < len(line) && (line[i+1] == '"' || line[i+1] == '\\') {
					cur.WriteByte(line[i+1])
					i++
					continue
				}
				if line[i] == '"' {
					break
				}
				cur.WriteByte(line[i])
			}
			if i >= len(line) {
				return nil, fmt.Errorf("unterminated double quote")
			}
		case '\\':
			if i+1 >= len(line) {
				return nil, fmt.Errorf("trailing backslash")
			}
			inToken = true
			cur.WriteByte(line[i+1])
			i++
		default:
			inToken = true
			cur.WriteByte(ch)
		}
	}
	if inToken {
		argv = append(argv, cur.String())
	}
	return argv, nil
}
