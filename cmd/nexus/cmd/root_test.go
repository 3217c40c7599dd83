package cmd

import (
	"path/filepath"
	"testing"

	"github.com/nexus-stack/nexus/internal/config"
)

func TestNewWorkflowLoader_UsesConfiguredDir(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.WorkflowsDir = "/srv/nexus/workflows"

	loader := newWorkflowLoader(cfg)
	if loader.UserDir != "/srv/nexus/workflows" {
		t.Errorf("UserDir = %q, want configured absolute dir", loader.UserDir)
	}
}

func TestNewWorkflowLoader_RelativeDirUnderConfigDir(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.WorkflowsDir = "workflows"

	loader := newWorkflowLoader(cfg)
	want := filepath.Join(config.DefaultDir(), "workflows")
	if loader.UserDir != want {
		t.Errorf("UserDir = %q, want %q", loader.UserDir, want)
	}
}
