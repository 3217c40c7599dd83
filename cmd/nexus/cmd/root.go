package cmd

import (
	"embed"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/nexus-stack/nexus/internal/ai"
	"github.com/nexus-stack/nexus/internal/cache"
	"github.com/nexus-stack/nexus/internal/config"
	"github.com/nexus-stack/nexus/internal/logging"
	"github.com/nexus-stack/nexus/internal/ratelimit"
	"github.com/nexus-stack/nexus/internal/storage"
	"github.com/nexus-stack/nexus/internal/workflow"
)

var (
	// Version is set at build time via ldflags
	Version = "dev"

	// Global flags
	verbose    bool
	noColor    bool
	configPath string
)

//go:embed workflows/*.yaml
var builtinWorkflows embed.FS

var rootCmd = &cobra.Command{
	Use:   "nexus",
	Short: "Nexus - CLI assistant for workflows, commands, and quick answers",
	Long: `Nexus is a terminal assistant that runs declarative task workflows,
keeps a searchable library of shell commands, and answers questions
through a configurable AI provider.

Workflows are YAML files: a named sequence of commands with per-step
timeouts, fallbacks, and error policy. Run 'nexus' with no arguments
to see what is available.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	Run: func(cmd *cobra.Command, args []string) {
		// No subcommand: list available workflows, like `make` with no args
		if err := listWorkflows(cmd.OutOrStdout()); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	},
}

// Execute runs the root command.
func Execute() error {
	workflow.SetEmbeddedFS(builtinWorkflows, "workflows")
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default: ~/.config/nexus/config.toml)")

	rootCmd.Version = Version
	rootCmd.SetVersionTemplate("nexus {{.Version}}\n")
}

// loadConfig reads the effective configuration.
func loadConfig() (*config.Config, error) {
	path := configPath
	if path == "" {
		path = config.DefaultPath()
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if verbose {
		cfg.OutputMode = config.OutputModeVerbose
	}
	return cfg, nil
}

// newLogger builds the logger from config, returning a closer for any log
// file. Falls back to the default logger if config cannot be read.
func newLogger(cfg *config.Config) *slog.Logger {
	logger, closer, err := logging.NewFromConfig(cfg)
	if err != nil {
		return logging.NewDefault()
	}
	cobra.OnFinalize(func() {
		if closer != nil {
			closer.Close()
		}
	})
	return logger
}

// newWorkflowLoader builds a loader whose user directory comes from the
// configured workflows path rather than the compiled-in default.
func newWorkflowLoader(cfg *config.Config) *workflow.Loader {
	loader := workflow.NewLoader()
	loader.UserDir = cfg.WorkflowsDir(config.DefaultDir())
	return loader
}

// openStore opens the SQLite database at the configured path.
func openStore(cfg *config.Config) (*storage.Store, error) {
	return storage.Open(cfg.DatabasePath(config.DefaultDir()))
}

// newService assembles the AI service: provider client, cache, rate
// limiter, and history store. The returned store must be closed by the
// caller.
func newService(cfg *config.Config, provider string, logger *slog.Logger) (*ai.Service, *storage.Store, error) {
	if provider == "" {
		provider = cfg.AIProvider
	}
	client, err := ai.NewClient(provider, cfg.Providers[provider])
	if err != nil {
		return nil, nil, err
	}

	store, err := openStore(cfg)
	if err != nil {
		return nil, nil, err
	}

	var responseCache *cache.Cache
	if cfg.Cache.Enabled {
		responseCache = cache.New(store, cfg.Cache.TTL(), cfg.Cache.MaxEntries)
	}
	var limiter *ratelimit.Limiter
	if cfg.RateLimiting.Enabled {
		limiter = ratelimit.New(cfg.RateLimiting.RequestsPerMinute, cfg.RateLimiting.RequestsPerHour)
	}

	return ai.NewService(client, responseCache, limiter, store, logger), store, nil
}
