package cmd

import (
	"github.com/spf13/cobra"

	"github.com/nexus-stack/nexus/internal/format"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent AI queries",
	RunE:  runHistory,
}

var historyLimit int

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 10, "number of entries to show")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	entries, err := store.History(historyLimit)
	if err != nil {
		return err
	}
	format.HistoryList(cmd.OutOrStdout(), entries, format.Options{Verbose: verbose, NoColor: noColor})
	return nil
}
