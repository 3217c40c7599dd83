package workflow

import (
	"os"
	"regexp"
	"strings"

	"github.com/nexus-stack/nexus/internal/errors"
)

// varPattern matches ${NAME} tokens in command templates.
var varPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// Context holds the variable scope for one workflow run. Resolution order
// per token: run-time override, then workflow default, then process
// environment. A token that resolves nowhere is a hard error rather than
// being passed through verbatim, so a malformed command never reaches the
// host.
//
// The context is read-only during a run and discarded afterward.
type Context struct {
	overrides map[string]string
	defaults  map[string]string

	// lookupEnv defaults to os.LookupEnv; tests inject their own.
	lookupEnv func(string) (string, bool)
}

// NewContext builds a Context from workflow defaults and run-time overrides.
// Either map may be nil.
func NewContext(defaults, overrides map[string]string) *Context {
	return &Context{
		overrides: overrides,
		defaults:  defaults,
		lookupEnv: os.LookupEnv,
	}
}

// WithEnvLookup replaces the environment lookup. Used by tests to keep
// resolution hermetic.
func (c *Context) WithEnvLookup(fn func(string) (string, bool)) *Context {
	c.lookupEnv = fn
	return c
}

// Resolve looks up a single variable through the resolution chain.
func (c *Context) Resolve(name string) (string, bool) {
	if v, ok := c.overrides[name]; ok {
		return v, true
	}
	if v, ok := c.defaults[name]; ok {
		return v, true
	}
	return c.lookupEnv(name)
}

// Expand substitutes every ${NAME} token in the template with its resolved
// value, without quoting. Used for direct-mode steps where each argument is
// passed discretely to the process and no shell ever sees the value.
func (c *Context) Expand(template string) (string, error) {
	return c.expand(template, false)
}

// ExpandShell substitutes every ${NAME} token with its resolved value
// wrapped in shell-safe single quotes, so variable content cannot break out
// of its argument position or inject additional shell syntax. The template
// itself is not quoted; shell metacharacters written by the workflow author
// keep their meaning.
func (c *Context) ExpandShell(template string) (string, error) {
	return c.expand(template, true)
}

// ExpandArgv expands each argument of a direct-mode command independently.
func (c *Context) ExpandArgv(argv []string) ([]string, error) {
	out := make([]string, len(argv))
	for i, arg := range argv {
		expanded, err := c.Expand(arg)
		if err != nil {
			return nil, err
		}
		out[i] = expanded
	}
	return out, nil
}

func (c *Context) expand(template string, quote bool) (string, error) {
	var unresolved string

	result := varPattern.ReplaceAllStringFunc(template, func(match string) string {
		name := match[2 : len(match)-1]
		value, ok := c.Resolve(name)
		if !ok {
			if unresolved == "" {
				unresolved = name
			}
			return match
		}
		if quote {
			return ShellQuote(value)
		}
		return value
	})

	if unresolved != "" {
		return "", errors.UnresolvedVariable(unresolved)
	}
	return result, nil
}

// ShellQuote wraps a string in single quotes for safe shell usage,
// equivalent to Python's shlex.quote. Single quotes inside the value are
// escaped with the '"'"' technique.
func ShellQuote(s string) string {
	if s == "" {
		return "''"
	}
	if !needsQuoting(s) {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'"'"'`) + "'"
}

// needsQuoting reports whether s contains anything outside the POSIX-safe
// unquoted character set.
func needsQuoting(s string) bool {
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == '@' || r == '%' || r == '+' || r == '=' || r == ':' ||
			r == ',' || r == '.' || r == '/' || r == '-' || r == '_':
		default:
			return true
		}
	}
	return false
}
