package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nexus-stack/nexus/internal/format"
	"github.com/nexus-stack/nexus/internal/workflow"
)

var validateCmd = &cobra.Command{
	Use:   "validate <workflow-or-file>",
	Short: "Validate a workflow definition",
	Long: `Validate a workflow without running it. The argument is either a
workflow name resolved like 'run' does, or a path to a YAML file.`,
	Args: cobra.ExactArgs(1),
	RunE: runValidate,
}

var validateStrict bool

func init() {
	validateCmd.Flags().BoolVar(&validateStrict, "strict", false, "reject unknown top-level keys")
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	arg := args[0]
	opts := workflow.ParseOptions{Strict: validateStrict}
	out := cmd.OutOrStdout()

	// A path argument is parsed directly; anything else goes through the
	// loader's name resolution.
	if strings.ContainsAny(arg, "/\\") || strings.HasSuffix(arg, ".yaml") || strings.HasSuffix(arg, ".yml") {
		data, err := os.ReadFile(arg)
		if err != nil {
			return err
		}
		def, err := workflow.ParseDefinition(data, arg, opts)
		if err != nil {
			return err
		}
		format.Success(out, format.Options{Verbose: verbose, NoColor: noColor}, "%s is valid (%d steps)", def.Name, len(def.Steps))
		return nil
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	loader := newWorkflowLoader(cfg)
	loader.Options = opts
	def, err := loader.Load(arg)
	if err != nil {
		return err
	}
	format.Success(out, format.Options{Verbose: verbose, NoColor: noColor}, "%s is valid (%d steps)", def.Name, len(def.Steps))
	if verbose {
		for _, step := range def.Steps {
			fmt.Fprintf(out, "  %s\n", step.Name)
		}
	}
	return nil
}
