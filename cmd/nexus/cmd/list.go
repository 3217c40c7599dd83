package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nexus-stack/nexus/internal/format"
	"github.com/nexus-stack/nexus/internal/storage"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved commands",
	RunE:  runList,
}

var (
	listCategory string
	listSearch   string
)

func init() {
	listCmd.Flags().StringVarP(&listCategory, "category", "c", "", "only show this category")
	listCmd.Flags().StringVarP(&listSearch, "search", "s", "", "filter by keyword")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	var commands []storage.Command
	if listSearch != "" {
		commands, err = store.SearchCommands(listSearch)
	} else {
		commands, err = store.Commands(listCategory)
	}
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	format.CommandList(out, commands, format.Options{Verbose: verbose, NoColor: noColor})

	if listCategory == "" && listSearch == "" {
		categories, err := store.Categories()
		if err == nil && len(categories) > 0 {
			fmt.Fprintf(out, "\nCategories: %s\n", strings.Join(categories, ", "))
		}
	}
	return nil
}
