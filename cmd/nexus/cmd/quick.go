package cmd

import (
	"github.com/spf13/cobra"

	"github.com/nexus-stack/nexus/internal/format"
)

var quickCmd = &cobra.Command{
	Use:   "quick <keyword>",
	Short: "Quickly find saved commands by keyword",
	Long: `Search the command library by keyword across command text, category,
and description. Shorthand for 'nexus list --search'.`,
	Args: cobra.ExactArgs(1),
	RunE: runQuick,
}

func init() {
	rootCmd.AddCommand(quickCmd)
}

func runQuick(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	commands, err := store.SearchCommands(args[0])
	if err != nil {
		return err
	}
	format.CommandList(cmd.OutOrStdout(), commands, format.Options{Verbose: verbose, NoColor: noColor})
	return nil
}
