// Package format renders AI responses, saved command tables, and history
// listings for the terminal.
package format

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"

	"github.com/nexus-stack/nexus/internal/storage"
)

// Options controls output rendering.
type Options struct {
	// Verbose prints full responses; otherwise only the essential part.
	Verbose bool
	// NoColor disables ANSI colors.
	NoColor bool
}

// Response renders an AI answer. In brief mode only the lead of the answer
// is shown, preferring the first code block when one exists.
func Response(w io.Writer, text, provider string, cached bool, opts Options) {
	if opts.Verbose {
		fmt.Fprintln(w, text)
	} else {
		fmt.Fprintln(w, Brief(text))
	}

	source := provider
	if cached {
		source += " (cached)"
	}
	fmt.Fprintln(w, paint(opts, color.HiBlackString, "-- "+source))
}

// Brief extracts the essential part of a response: the first fenced code
// block if present, otherwise the first paragraph.
func Brief(text string) string {
	text = strings.TrimSpace(text)

	if i := strings.Index(text, "```"); i >= 0 {
		rest := text[i+3:]
		// skip the language tag line
		if nl := strings.IndexByte(rest, '\n'); nl >= 0 {
			rest = rest[nl+1:]
		}
		if end := strings.Index(rest, "```"); end >= 0 {
			if block := strings.TrimSpace(rest[:end]); block != "" {
				return block
			}
		}
	}

	if i := strings.Index(text, "\n\n"); i >= 0 {
		return strings.TrimSpace(text[:i])
	}
	return text
}

// CommandList renders saved commands as an aligned table.
func CommandList(w io.Writer, commands []storage.Command, opts Options) {
	if len(commands) == 0 {
		fmt.Fprintln(w, "No saved commands.")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCATEGORY\tCOMMAND\tDESCRIPTION")
	for _, c := range commands {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n",
			c.ID, paint(opts, color.CyanString, c.Category), c.Command, c.Description)
	}
	tw.Flush()
}

// HistoryList renders recent queries, newest first.
func HistoryList(w io.Writer, entries []storage.HistoryEntry, opts Options) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "No history.")
		return
	}

	for _, e := range entries {
		ts := e.CreatedAt.Format("2006-01-02 15:04")
		fmt.Fprintf(w, "%s %s [%s]\n", paint(opts, color.HiBlackString, ts), e.Query, e.Provider)
		if opts.Verbose && e.Response != "" {
			fmt.Fprintf(w, "  %s\n", strings.ReplaceAll(Brief(e.Response), "\n", "\n  "))
		}
	}
}

// Error prints an error message to w in red.
func Error(w io.Writer, opts Options, format string, args ...any) {
	fmt.Fprintln(w, paint(opts, color.RedString, "Error: "+fmt.Sprintf(format, args...)))
}

// Success prints a confirmation message to w in green.
func Success(w io.Writer, opts Options, format string, args ...any) {
	fmt.Fprintln(w, paint(opts, color.GreenString, fmt.Sprintf(format, args...)))
}

// Info prints an informational message to w.
func Info(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, format+"\n", args...)
}

func paint(opts Options, painter func(string, ...any) string, s string) string {
	if opts.NoColor {
		return s
	}
	return painter(s)
}
