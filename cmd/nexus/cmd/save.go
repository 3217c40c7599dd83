package cmd

import (
	"github.com/spf13/cobra"

	"github.com/nexus-stack/nexus/internal/format"
)

var saveCmd = &cobra.Command{
	Use:     "save <command>",
	Short:   "Save a shell command to the library",
	Example: `  nexus save "tar -xzf archive.tar.gz" -c archives -d "extract a gzipped tarball"`,
	Args:    cobra.ExactArgs(1),
	RunE:    runSave,
}

var (
	saveCategory    string
	saveDescription string
)

func init() {
	saveCmd.Flags().StringVarP(&saveCategory, "category", "c", "general", "category for the command")
	saveCmd.Flags().StringVarP(&saveDescription, "description", "d", "", "what the command does")
	rootCmd.AddCommand(saveCmd)
}

func runSave(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	id, err := store.SaveCommand(args[0], saveCategory, saveDescription)
	if err != nil {
		return err
	}
	format.Success(cmd.OutOrStdout(), format.Options{Verbose: verbose, NoColor: noColor}, "Saved command #%d in category %q", id, saveCategory)
	return nil
}
