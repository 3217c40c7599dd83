package workflow

import (
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/nexus-stack/nexus/internal/errors"
	"github.com/nexus-stack/nexus/internal/types"
)

// embeddedFS holds the built-in workflow templates. Set by the main package.
var embeddedFS fs.FS

// SetEmbeddedFS sets the embedded filesystem for built-in templates. The
// dir argument is the subdirectory within the filesystem holding *.yaml
// definitions.
func SetEmbeddedFS(fsys fs.FS, dir string) {
	if dir != "" && dir != "." {
		sub, err := fs.Sub(fsys, dir)
		if err == nil {
			embeddedFS = sub
			return
		}
	}
	embeddedFS = fsys
}

// Loader resolves workflow names to definitions across sources. User-
// authored definitions take precedence over built-ins on name collision.
type Loader struct {
	// UserDir holds user-authored definitions (<name>.yaml).
	// Default: ~/.config/nexus/workflows
	UserDir string

	// Parse options applied to every loaded definition.
	Options ParseOptions
}

// AvailableWorkflow describes a workflow available for execution.
type AvailableWorkflow struct {
	Name        string // File name without .yaml
	Description string // From workflow metadata
	Category    string
	Source      string // "user" or "builtin"
	Path        string
}

// NewLoader creates a loader with the default user directory.
func NewLoader() *Loader {
	userDir := ""
	if home, err := os.UserHomeDir(); err == nil {
		userDir = filepath.Join(home, ".config", "nexus", "workflows")
	}
	return &Loader{UserDir: userDir}
}

// Load resolves a workflow name, parses the definition, and validates it.
// User definitions shadow built-ins of the same name.
func (l *Loader) Load(name string) (*types.WorkflowDefinition, error) {
	if l.UserDir != "" {
		userPath := filepath.Join(l.UserDir, name+".yaml")
		if data, err := os.ReadFile(userPath); err == nil {
			return ParseDefinition(data, userPath, l.Options)
		}
	}

	if embeddedFS != nil {
		embeddedPath := name + ".yaml"
		if data, err := fs.ReadFile(embeddedFS, embeddedPath); err == nil {
			return ParseDefinition(data, path.Join("<builtin>", embeddedPath), l.Options)
		}
	}

	return nil, errors.DefinitionNotFound(name, l.searchPaths(name))
}

// List returns all available workflows, user definitions first, with
// shadowed built-ins excluded.
func (l *Loader) List() ([]AvailableWorkflow, error) {
	var out []AvailableWorkflow
	seen := make(map[string]bool)

	if l.UserDir != "" {
		entries, err := os.ReadDir(l.UserDir)
		if err == nil {
			for _, entry := range entries {
				if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
					continue
				}
				name := strings.TrimSuffix(entry.Name(), ".yaml")
				fullPath := filepath.Join(l.UserDir, entry.Name())
				wf, err := l.describe(name, fullPath, "user", func() ([]byte, error) {
					return os.ReadFile(fullPath)
				})
				if err != nil {
					continue // Skip files that fail to parse
				}
				out = append(out, wf)
				seen[name] = true
			}
		}
	}

	if embeddedFS != nil {
		entries, err := fs.ReadDir(embeddedFS, ".")
		if err == nil {
			for _, entry := range entries {
				if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
					continue
				}
				name := strings.TrimSuffix(entry.Name(), ".yaml")
				if seen[name] {
					continue
				}
				embeddedPath := entry.Name()
				wf, err := l.describe(name, path.Join("<builtin>", embeddedPath), "builtin", func() ([]byte, error) {
					return fs.ReadFile(embeddedFS, embeddedPath)
				})
				if err != nil {
					continue
				}
				out = append(out, wf)
			}
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Source != out[j].Source {
			return out[i].Source < out[j].Source // builtin before user
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func (l *Loader) describe(name, displayPath, source string, read func() ([]byte, error)) (AvailableWorkflow, error) {
	data, err := read()
	if err != nil {
		return AvailableWorkflow{}, err
	}
	def, err := ParseDefinition(data, displayPath, l.Options)
	if err != nil {
		return AvailableWorkflow{}, err
	}
	return AvailableWorkflow{
		Name:        name,
		Description: def.Description,
		Category:    def.Category,
		Source:      source,
		Path:        displayPath,
	}, nil
}

func (l *Loader) searchPaths(name string) []string {
	var paths []string
	if l.UserDir != "" {
		paths = append(paths, filepath.Join(l.UserDir, name+".yaml"))
	}
	if embeddedFS != nil {
		paths = append(paths, "<builtin>/"+name+".yaml")
	}
	return paths
}
