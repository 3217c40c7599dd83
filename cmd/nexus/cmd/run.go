package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nexus-stack/nexus/internal/executor"
	"github.com/nexus-stack/nexus/internal/status"
	"github.com/nexus-stack/nexus/internal/types"
	"github.com/nexus-stack/nexus/internal/workflow"
)

var runCmd = &cobra.Command{
	Use:   "run <workflow>",
	Short: "Run a workflow",
	Long: `Run a workflow by name. User workflows in ~/.config/nexus/workflows
take precedence over built-ins of the same name.

Steps execute sequentially. A failing step triggers its alternative
command when one is defined; otherwise the run aborts unless the step
sets continue_on_error. The exit code is non-zero only when the overall
run fails.`,
	Args: cobra.ExactArgs(1),
	RunE: runRun,
}

var (
	runVars   []string
	runOutput string
)

func init() {
	runCmd.Flags().StringArrayVar(&runVars, "var", nil, "variable values (format: name=value)")
	runCmd.Flags().StringVarP(&runOutput, "output", "o", "", "output format: summary or detailed (default: from workflow)")
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(cfg)

	overrides := make(map[string]string)
	for _, v := range runVars {
		name, value, ok := strings.Cut(v, "=")
		if !ok || name == "" {
			return fmt.Errorf("invalid --var %q (expected name=value)", v)
		}
		overrides[name] = value
	}

	def, err := newWorkflowLoader(cfg).Load(args[0])
	if err != nil {
		return err
	}

	format := def.OutputFormat
	if runOutput != "" {
		format = types.OutputFormat(runOutput)
		if !format.Valid() {
			return fmt.Errorf("invalid output format: %s", runOutput)
		}
	}

	// Ctrl-C cancels the in-flight step and skips the rest
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	vars := workflow.NewContext(def.Variables, overrides)
	engine := executor.New(executor.NewOSRunner(), logger)

	result := engine.Run(ctx, def, vars)

	fmt.Fprint(cmd.OutOrStdout(), status.Render(result, format, status.Options{
		Verbose: verbose,
		NoColor: noColor,
	}))

	if result.Status == types.RunStatusFailed {
		// Distinguish run failure from CLI usage errors
		os.Exit(1)
	}
	return nil
}
