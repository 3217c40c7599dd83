package cmd

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var workflowsCmd = &cobra.Command{
	Use:   "workflows",
	Short: "List available workflows",
	Long: `List all runnable workflows: built-ins shipped with nexus plus any
YAML definitions in ~/.config/nexus/workflows.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return listWorkflows(cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(workflowsCmd)
}

func listWorkflows(w io.Writer) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	available, err := newWorkflowLoader(cfg).List()
	if err != nil {
		return err
	}
	if len(available) == 0 {
		fmt.Fprintln(w, "No workflows available.")
		return nil
	}

	fmt.Fprintln(w, "Available workflows:")
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, wf := range available {
		desc := wf.Description
		if wf.Source == "user" {
			desc += " (user)"
		}
		fmt.Fprintf(tw, "  %s\t%s\n", wf.Name, desc)
	}
	tw.Flush()
	fmt.Fprintln(w, "\nRun one with: nexus run <name>")
	return nil
}
