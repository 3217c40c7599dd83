package format

import (
	"strings"
	"testing"
	"time"

	"github.com/nexus-stack/nexus/internal/storage"
)

func TestBrief(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "code block preferred",
			in:   "You can list files like this:\n\n```bash\nls -la\n```\n\nMore detail follows.",
			want: "ls -la",
		},
		{
			name: "first paragraph without code",
			in:   "The short answer.\n\nThe long explanation nobody asked for.",
			want: "The short answer.",
		},
		{
			name: "single paragraph verbatim",
			in:   "Just one line.",
			want: "Just one line.",
		},
		{
			name: "empty code block falls back",
			in:   "Intro.\n\n```\n```\n\nRest.",
			want: "Intro.",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Brief(tt.in); got != tt.want {
				t.Errorf("Brief() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestResponse(t *testing.T) {
	var b strings.Builder
	Response(&b, "short answer\n\nlong tail", "ollama", true, Options{NoColor: true})
	out := b.String()

	if !strings.Contains(out, "short answer") {
		t.Errorf("output missing answer:\n%s", out)
	}
	if strings.Contains(out, "long tail") {
		t.Errorf("brief mode should drop the tail:\n%s", out)
	}
	if !strings.Contains(out, "ollama (cached)") {
		t.Errorf("output should attribute the cached provider:\n%s", out)
	}
}

func TestCommandList(t *testing.T) {
	var b strings.Builder
	CommandList(&b, []storage.Command{
		{ID: 1, Command: "docker ps", Category: "docker", Description: "running containers"},
	}, Options{NoColor: true})
	out := b.String()

	for _, want := range []string{"ID", "docker ps", "running containers"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	b.Reset()
	CommandList(&b, nil, Options{NoColor: true})
	if !strings.Contains(b.String(), "No saved commands") {
		t.Errorf("empty list message missing:\n%s", b.String())
	}
}

func TestHistoryList(t *testing.T) {
	entries := []storage.HistoryEntry{
		{Query: "what is a mutex", Provider: "ollama", Response: "a lock", CreatedAt: time.Date(2025, 6, 1, 9, 30, 0, 0, time.UTC)},
	}

	var b strings.Builder
	HistoryList(&b, entries, Options{NoColor: true})
	out := b.String()
	if !strings.Contains(out, "what is a mutex") || !strings.Contains(out, "[ollama]") {
		t.Errorf("history line malformed:\n%s", out)
	}
	if strings.Contains(out, "a lock") {
		t.Errorf("responses only show in verbose mode:\n%s", out)
	}

	b.Reset()
	HistoryList(&b, entries, Options{NoColor: true, Verbose: true})
	if !strings.Contains(b.String(), "a lock") {
		t.Errorf("verbose history should include the response:\n%s", b.String())
	}
}

func TestErrorAndSuccess_NoColor(t *testing.T) {
	opts := Options{NoColor: true}

	var b strings.Builder
	Error(&b, opts, "cannot load %s", "thing")
	if got := b.String(); got != "Error: cannot load thing\n" {
		t.Errorf("Error output = %q, want plain text without escape codes", got)
	}

	b.Reset()
	Success(&b, opts, "saved %d items", 3)
	if got := b.String(); got != "saved 3 items\n" {
		t.Errorf("Success output = %q, want plain text without escape codes", got)
	}
}
