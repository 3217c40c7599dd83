package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/nexus-stack/nexus/internal/format"
)

var deleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a saved command by ID",
	Args:  cobra.ExactArgs(1),
	RunE:  runDelete,
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}

func runDelete(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid command ID: %s", args[0])
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	deleted, err := store.DeleteCommand(id)
	if err != nil {
		return err
	}
	if !deleted {
		return fmt.Errorf("no command with ID %d", id)
	}
	format.Success(cmd.OutOrStdout(), format.Options{Verbose: verbose, NoColor: noColor}, "Deleted command #%d", id)
	return nil
}
