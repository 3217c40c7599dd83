package executor

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/nexus-stack/nexus/internal/workflow"
)

func TestOSRunner_ShellMode(t *testing.T) {
	runner := NewOSRunner()

	res, err := runner.Run(context.Background(), Command{
		Shell: true,
		Line:  "echo hello && echo oops >&2",
	})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if res.ExitCode != 0 {
		t.Errorf("exit code = %d, want 0", res.ExitCode)
	}
	if res.Stdout != "hello\n" {
		t.Errorf("stdout = %q", res.Stdout)
	}
	if res.Stderr != "oops\n" {
		t.Errorf("stderr = %q", res.Stderr)
	}
}

func TestOSRunner_DirectMode(t *testing.T) {
	runner := NewOSRunner()

	res, err := runner.Run(context.Background(), Command{
		Argv: []string{"echo", "a b", "&&", "echo"},
	})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	// Direct mode: && is just an argument, not an operator
	if res.Stdout != "a b && echo\n" {
		t.Errorf("stdout = %q, metacharacters should be inert", res.Stdout)
	}
}

func TestOSRunner_NonZeroExit(t *testing.T) {
	runner := NewOSRunner()

	res, err := runner.Run(context.Background(), Command{
		Shell: true,
		Line:  "exit 7",
	})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if res.ExitCode != 7 {
		t.Errorf("exit code = %d, want 7", res.ExitCode)
	}
}

func TestOSRunner_SpawnFailure(t *testing.T) {
	runner := NewOSRunner()

	_, err := runner.Run(context.Background(), Command{
		Argv: []string{"/no/such/binary/anywhere"},
	})
	if err == nil {
		t.Fatal("expected spawn error")
	}
}

func TestOSRunner_Timeout(t *testing.T) {
	runner := &OSRunner{Shell: "/bin/sh", KillGrace: 200 * time.Millisecond}

	start := time.Now()
	res, err := runner.Run(context.Background(), Command{
		Shell:   true,
		Line:    "sleep 5",
		Timeout: 300 * time.Millisecond,
	})
	elapsed := time.Since(start)

	if err != nil {
		t.Fatalf("timeout is a result, not an error: %v", err)
	}
	if !res.TimedOut {
		t.Error("TimedOut not set")
	}
	if elapsed > 3*time.Second {
		t.Errorf("took %v, process was not killed promptly", elapsed)
	}
}

func TestOSRunner_ContextCancellation(t *testing.T) {
	runner := &OSRunner{Shell: "/bin/sh", KillGrace: 200 * time.Millisecond}

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	_, err := runner.Run(ctx, Command{Shell: true, Line: "sleep 5"})
	if err != context.DeadlineExceeded {
		t.Errorf("err = %v, want context.DeadlineExceeded", err)
	}
}

func TestOSRunner_QuotedVariableIsInert(t *testing.T) {
	// A hostile variable value expanded with shell quoting must be printed
	// verbatim, not executed.
	vars := workflow.NewContext(map[string]string{
		"MSG": "hi; echo INJECTED",
	}, nil)

	line, err := vars.ExpandShell("echo ${MSG}")
	if err != nil {
		t.Fatal(err)
	}

	runner := NewOSRunner()
	res, err := runner.Run(context.Background(), Command{Shell: true, Line: line})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if strings.Contains(res.Stdout, "INJECTED\n") && !strings.Contains(res.Stdout, "echo INJECTED") {
		t.Errorf("stdout = %q, injected command was executed", res.Stdout)
	}
	if res.Stdout != "hi; echo INJECTED\n" {
		t.Errorf("stdout = %q, want the literal value", res.Stdout)
	}
}
