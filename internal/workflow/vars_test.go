package workflow

import (
	"strings"
	"testing"

	"github.com/nexus-stack/nexus/internal/errors"
)

func TestContext_ResolutionOrder(t *testing.T) {
	defaults := map[string]string{"NAME": "default", "ONLY_DEFAULT": "d"}
	overrides := map[string]string{"NAME": "override"}

	ctx := NewContext(defaults, overrides).WithEnvLookup(func(name string) (string, bool) {
		if name == "FROM_ENV" {
			return "env-value", true
		}
		return "", false
	})

	tests := []struct {
		name     string
		expected string
	}{
		{"NAME", "override"},
		{"ONLY_DEFAULT", "d"},
		{"FROM_ENV", "env-value"},
	}
	for _, tt := range tests {
		got, ok := ctx.Resolve(tt.name)
		if !ok {
			t.Fatalf("Resolve(%q) not found", tt.name)
		}
		if got != tt.expected {
			t.Errorf("Resolve(%q) = %q, want %q", tt.name, got, tt.expected)
		}
	}

	if _, ok := ctx.Resolve("MISSING"); ok {
		t.Error("expected MISSING to be unresolved")
	}
}

func TestContext_OverrideShadowsEnv(t *testing.T) {
	ctx := NewContext(nil, map[string]string{"PATH": "custom"}).
		WithEnvLookup(func(string) (string, bool) { return "from-env", true })

	got, _ := ctx.Resolve("PATH")
	if got != "custom" {
		t.Errorf("override should shadow env, got %q", got)
	}
}

func TestContext_ExpandUnresolved(t *testing.T) {
	ctx := NewContext(nil, nil).WithEnvLookup(func(string) (string, bool) { return "", false })

	_, err := ctx.Expand("echo ${NOPE}")
	if err == nil {
		t.Fatal("expected error for unresolved variable")
	}
	if !errors.HasCode(err, errors.CodeVarUnresolved) {
		t.Errorf("expected code %s, got %s", errors.CodeVarUnresolved, errors.Code(err))
	}
	if !strings.Contains(err.Error(), "NOPE") {
		t.Errorf("error should name the variable: %v", err)
	}
}

func TestContext_ExpandShellQuotes(t *testing.T) {
	ctx := NewContext(map[string]string{
		"SAFE":   "hello",
		"SPACES": "two words",
		"EVIL":   "x; rm -rf /",
		"QUOTE":  "it's",
	}, nil)

	tests := []struct {
		template string
		expected string
	}{
		{"echo ${SAFE}", "echo hello"},
		{"echo ${SPACES}", "echo 'two words'"},
		{"echo ${EVIL}", "echo 'x; rm -rf /'"},
		{"echo ${QUOTE}", `echo 'it'"'"'s'`},
	}
	for _, tt := range tests {
		got, err := ctx.ExpandShell(tt.template)
		if err != nil {
			t.Fatalf("ExpandShell(%q): %v", tt.template, err)
		}
		if got != tt.expected {
			t.Errorf("ExpandShell(%q) = %q, want %q", tt.template, got, tt.expected)
		}
	}
}

func TestContext_ExpandArgvNoQuoting(t *testing.T) {
	ctx := NewContext(map[string]string{"ARG": "two words"}, nil)

	got, err := ctx.ExpandArgv([]string{"printf", "%s", "${ARG}"})
	if err != nil {
		t.Fatalf("ExpandArgv: %v", err)
	}
	// Direct mode passes values as single argv entries, no shell quoting
	if got[2] != "two words" {
		t.Errorf("argv[2] = %q, want %q", got[2], "two words")
	}
}

func TestShellQuote(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"simple", "simple"},
		{"with space", "'with space'"},
		{"", "''"},
		{"a;b", "'a;b'"},
		{"$HOME", "'$HOME'"},
		{"back`tick`", "'back`tick`'"},
		{"don't", `'don'"'"'t'`},
		{"path/to/file.txt", "path/to/file.txt"},
	}
	for _, tt := range tests {
		if got := ShellQuote(tt.input); got != tt.expected {
			t.Errorf("ShellQuote(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}
