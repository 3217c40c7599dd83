package workflow

import (
	"reflect"
	"testing"
	"time"

	"github.com/nexus-stack/nexus/internal/errors"
	"github.com/nexus-stack/nexus/internal/types"
)

const validDefinition = `
name: backup
version: "1.0"
description: Back up a directory
variables:
  TARGET: /tmp/backup
steps:
  - name: archive
    command: tar -czf ${TARGET}.tar.gz ${TARGET}
    timeout: 30
  - name: verify
    command: tar -tzf ${TARGET}.tar.gz > /dev/null
    shell: true
    alternative: ls -la ${TARGET}.tar.gz
    continue_on_error: true
`

func TestParseDefinition_Valid(t *testing.T) {
	def, err := ParseDefinition([]byte(validDefinition), "test", ParseOptions{})
	if err != nil {
		t.Fatalf("ParseDefinition failed: %v", err)
	}

	if def.Name != "backup" {
		t.Errorf("name = %q, want backup", def.Name)
	}
	if len(def.Steps) != 2 {
		t.Fatalf("got %d steps, want 2", len(def.Steps))
	}

	archive := def.Steps[0]
	if archive.Shell {
		t.Error("archive should be direct mode")
	}
	wantArgv := []string{"tar", "-czf", "${TARGET}.tar.gz", "${TARGET}"}
	if !reflect.DeepEqual(archive.Argv, wantArgv) {
		t.Errorf("argv = %v, want %v", archive.Argv, wantArgv)
	}
	if archive.Timeout != 30*time.Second {
		t.Errorf("timeout = %v, want 30s", archive.Timeout)
	}
	if !archive.CaptureOutput {
		t.Error("capture_output should default to true")
	}

	verify := def.Steps[1]
	if !verify.Shell || verify.ShellLine == "" {
		t.Error("verify should be shell mode with the raw line preserved")
	}
	if !verify.ContinueOnError {
		t.Error("verify should continue on error")
	}
}

func TestParseDefinition_Defaults(t *testing.T) {
	def, err := ParseDefinition([]byte("name: x\nsteps:\n  - name: a\n    command: \"true\"\n"), "test", ParseOptions{})
	if err != nil {
		t.Fatalf("ParseDefinition failed: %v", err)
	}
	if def.OutputFormat != types.OutputFormatSummary {
		t.Errorf("output_format should default to summary, got %s", def.OutputFormat)
	}
	if def.Category != "general" {
		t.Errorf("category should default to general, got %s", def.Category)
	}
	if def.Steps[0].Timeout != 0 {
		t.Error("timeout should default to none")
	}
}

func TestParseDefinition_Errors(t *testing.T) {
	tests := []struct {
		name     string
		yaml     string
		wantCode string
	}{
		{
			name:     "malformed yaml",
			yaml:     "name: [unclosed",
			wantCode: errors.CodeDefinitionParse,
		},
		{
			name:     "missing name",
			yaml:     "steps:\n  - name: a\n    command: ls\n",
			wantCode: errors.CodeDefinitionMissing,
		},
		{
			name:     "no steps",
			yaml:     "name: x\nsteps: []\n",
			wantCode: errors.CodeDefinitionMissing,
		},
		{
			name:     "duplicate step names",
			yaml:     "name: x\nsteps:\n  - name: a\n    command: ls\n  - name: a\n    command: pwd\n",
			wantCode: errors.CodeDefinitionDuplicate,
		},
		{
			name:     "empty command",
			yaml:     "name: x\nsteps:\n  - name: a\n    command: \"  \"\n",
			wantCode: errors.CodeDefinitionInvalid,
		},
		{
			name:     "negative timeout",
			yaml:     "name: x\nsteps:\n  - name: a\n    command: ls\n    timeout: -5\n",
			wantCode: errors.CodeDefinitionInvalid,
		},
		{
			name:     "bad output format",
			yaml:     "name: x\noutput_format: fancy\nsteps:\n  - name: a\n    command: ls\n",
			wantCode: errors.CodeDefinitionInvalid,
		},
		{
			name:     "unterminated quote in direct mode",
			yaml:     "name: x\nsteps:\n  - name: a\n    command: \"echo 'oops\"\n",
			wantCode: errors.CodeDefinitionInvalid,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseDefinition([]byte(tt.yaml), "test", ParseOptions{})
			if err == nil {
				t.Fatal("expected error")
			}
			if errors.Code(err) != tt.wantCode {
				t.Errorf("code = %s, want %s (err: %v)", errors.Code(err), tt.wantCode, err)
			}
			if !errors.IsDefinitionError(err) {
				t.Errorf("IsDefinitionError should be true for %v", err)
			}
		})
	}
}

func TestParseDefinition_StrictUnknownKey(t *testing.T) {
	doc := "name: x\nbogus_key: 1\nsteps:\n  - name: a\n    command: ls\n"

	if _, err := ParseDefinition([]byte(doc), "test", ParseOptions{}); err != nil {
		t.Fatalf("lenient parse should ignore unknown keys: %v", err)
	}

	_, err := ParseDefinition([]byte(doc), "test", ParseOptions{Strict: true})
	if errors.Code(err) != errors.CodeDefinitionUnknown {
		t.Errorf("strict parse: code = %s, want %s", errors.Code(err), errors.CodeDefinitionUnknown)
	}
}

func TestSplitCommand(t *testing.T) {
	tests := []struct {
		line    string
		want    []string
		wantErr bool
	}{
		{line: "ls -la /tmp", want: []string{"ls", "-la", "/tmp"}},
		{line: `echo 'hello world'`, want: []string{"echo", "hello world"}},
		{line: `echo "a \"quoted\" word"`, want: []string{"echo", `a "quoted" word`}},
		{line: `printf a\ b`, want: []string{"printf", "a b"}},
		{line: "  spaced   out  ", want: []string{"spaced", "out"}},
		{line: `grep ''`, want: []string{"grep", ""}},
		{line: `echo 'unterminated`, wantErr: true},
		{line: `echo "unterminated`, wantErr: true},
		{line: `echo trailing\`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got, err := SplitCommand(tt.line)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("SplitCommand(%q): %v", tt.line, err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("SplitCommand(%q) = %v, want %v", tt.line, got, tt.want)
			}
		})
	}
}
