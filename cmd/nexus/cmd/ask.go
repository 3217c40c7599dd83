package cmd

import (
	"context"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/nexus-stack/nexus/internal/format"
)

var askCmd = &cobra.Command{
	Use:   "ask <question>...",
	Short: "Ask the AI assistant a question",
	Long: `Ask a question and print the answer. Responses are cached, so
repeating a question is free. The provider comes from the config file
unless overridden with --provider.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

var askProvider string

func init() {
	askCmd.Flags().StringVarP(&askProvider, "provider", "p", "", "AI provider (ollama, openai, anthropic, deepseek)")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(cfg)

	service, store, err := newService(cfg, askProvider, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx, cancel := context.WithTimeout(cmd.Context(), 3*time.Minute)
	defer cancel()

	answer, err := service.Ask(ctx, strings.Join(args, " "))
	if err != nil {
		return err
	}

	format.Response(cmd.OutOrStdout(), answer.Text, answer.Provider, answer.Cached, format.Options{
		Verbose: verbose,
		NoColor: noColor,
	})
	return nil
}
