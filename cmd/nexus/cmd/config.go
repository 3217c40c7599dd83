package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/nexus-stack/nexus/internal/ai"
	"github.com/nexus-stack/nexus/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the effective configuration",
	RunE:  runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	path := configPath
	if path == "" {
		path = config.DefaultPath()
	}
	fmt.Fprintf(out, "Config file: %s\n\n", path)

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "ai_provider\t%s\n", cfg.AIProvider)
	fmt.Fprintf(tw, "output_mode\t%s\n", cfg.OutputMode)
	fmt.Fprintf(tw, "cache.enabled\t%t\n", cfg.Cache.Enabled)
	fmt.Fprintf(tw, "cache.ttl_seconds\t%d\n", cfg.Cache.TTLSeconds)
	fmt.Fprintf(tw, "rate_limiting.enabled\t%t\n", cfg.RateLimiting.Enabled)
	fmt.Fprintf(tw, "rate_limiting.requests_per_minute\t%d\n", cfg.RateLimiting.RequestsPerMinute)
	fmt.Fprintf(tw, "rate_limiting.requests_per_hour\t%d\n", cfg.RateLimiting.RequestsPerHour)
	fmt.Fprintf(tw, "logging.level\t%s\n", cfg.Logging.Level)
	fmt.Fprintf(tw, "logging.format\t%s\n", cfg.Logging.Format)
	tw.Flush()

	fmt.Fprintln(out, "\nProviders:")
	for _, name := range ai.Providers() {
		p, configured := cfg.Providers[name]
		state := "not configured"
		if configured {
			state = "configured"
			if name != "ollama" && p.APIKey == "" {
				state = "missing api_key"
			}
		} else if name == "ollama" {
			state = "available (no key needed)"
		}
		marker := " "
		if name == cfg.AIProvider {
			marker = "*"
		}
		fmt.Fprintf(out, "  %s %s: %s\n", marker, name, state)
	}
	return nil
}
