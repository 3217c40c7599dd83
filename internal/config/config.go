package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/BurntSushi/toml"
)

// LogLevel specifies the logging verbosity.
type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

// LogFormat specifies the log output format.
type LogFormat string

const (
	LogFormatJSON   LogFormat = "json"
	LogFormatText   LogFormat = "text"
	LogFormatPretty LogFormat = "pretty"
)

// OutputMode selects how AI responses are displayed.
type OutputMode string

const (
	OutputModeBrief   OutputMode = "brief"
	OutputModeVerbose OutputMode = "verbose"
)

// ProviderConfig holds settings for one AI provider.
type ProviderConfig struct {
	APIKey  string `toml:"api_key"`
	Model   string `toml:"model"`
	BaseURL string `toml:"base_url"`
}

// RateLimitingConfig holds local rate limit settings for AI calls.
type RateLimitingConfig struct {
	Enabled           bool `toml:"enabled"`
	RequestsPerMinute int  `toml:"requests_per_minute"`
	RequestsPerHour   int  `toml:"requests_per_hour"`
}

// CacheConfig holds query cache settings.
type CacheConfig struct {
	Enabled    bool `toml:"enabled"`
	TTLSeconds int  `toml:"ttl_seconds"`
	MaxEntries int  `toml:"max_entries"`
}

// TTL returns the cache lifetime as a duration.
func (c CacheConfig) TTL() time.Duration {
	return time.Duration(c.TTLSeconds) * time.Second
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  LogLevel  `toml:"level"`
	Format LogFormat `toml:"format"`
	File   string    `toml:"file"`
}

// PathsConfig holds path configuration. Relative paths resolve against the
// config directory.
type PathsConfig struct {
	DataDir           string `toml:"data_dir"`
	WorkflowsDir      string `toml:"workflows_dir"`
	TranscriptionsDir string `toml:"transcriptions_dir"`
}

// Config is the main configuration struct for Nexus.
type Config struct {
	AIProvider   string                    `toml:"ai_provider"`
	DefaultModel string                    `toml:"default_model"`
	OutputMode   OutputMode                `toml:"output_mode"`
	RateLimiting RateLimitingConfig        `toml:"rate_limiting"`
	Cache        CacheConfig               `toml:"cache"`
	Providers    map[string]ProviderConfig `toml:"providers"`
	Logging      LoggingConfig             `toml:"logging"`
	Paths        PathsConfig               `toml:"paths"`
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		AIProvider:   "ollama",
		DefaultModel: "llama3.2",
		OutputMode:   OutputModeBrief,
		RateLimiting: RateLimitingConfig{
			Enabled:           true,
			RequestsPerMinute: 30,
			RequestsPerHour:   500,
		},
		Cache: CacheConfig{
			Enabled:    true,
			TTLSeconds: 3600,
			MaxEntries: 1000,
		},
		Providers: map[string]ProviderConfig{
			"ollama": {
				BaseURL: "http://localhost:11434",
				Model:   "llama3.2",
			},
		},
		Logging: LoggingConfig{
			Level:  LogLevelInfo,
			Format: LogFormatPretty,
		},
		Paths: PathsConfig{
			DataDir:           "data",
			WorkflowsDir:      "workflows",
			TranscriptionsDir: "transcriptions",
		},
	}
}

// DefaultDir returns the standard config directory (~/.config/nexus).
func DefaultDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".nexus"
	}
	return filepath.Join(home, ".config", "nexus")
}

// DefaultPath returns the standard config file path.
func DefaultPath() string {
	return filepath.Join(DefaultDir(), "config.toml")
}

// Load loads configuration from file, merging with defaults. A missing file
// is not an error; defaults apply. Environment references of the form
// ${NAME} in provider credentials and URLs are expanded after decode, so
// API keys can live outside the config file.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if _, err := toml.Decode(string(data), cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	cfg.expandEnv()
	return cfg, nil
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if c.AIProvider == "" {
		return fmt.Errorf("ai_provider is required")
	}
	switch c.OutputMode {
	case OutputModeBrief, OutputModeVerbose:
	default:
		return fmt.Errorf("invalid output_mode: %s", c.OutputMode)
	}
	if c.RateLimiting.Enabled {
		if c.RateLimiting.RequestsPerMinute <= 0 {
			return fmt.Errorf("requests_per_minute must be positive")
		}
		if c.RateLimiting.RequestsPerHour <= 0 {
			return fmt.Errorf("requests_per_hour must be positive")
		}
	}
	if c.Cache.Enabled && c.Cache.TTLSeconds <= 0 {
		return fmt.Errorf("cache ttl_seconds must be positive")
	}
	return nil
}

// DataDir returns the absolute data directory path.
func (c *Config) DataDir(baseDir string) string {
	return c.resolvePath(c.Paths.DataDir, baseDir)
}

// WorkflowsDir returns the absolute user workflows directory path.
func (c *Config) WorkflowsDir(baseDir string) string {
	return c.resolvePath(c.Paths.WorkflowsDir, baseDir)
}

// TranscriptionsDir returns the absolute transcriptions directory path.
func (c *Config) TranscriptionsDir(baseDir string) string {
	return c.resolvePath(c.Paths.TranscriptionsDir, baseDir)
}

// DatabasePath returns the SQLite database path inside the data directory.
func (c *Config) DatabasePath(baseDir string) string {
	return filepath.Join(c.DataDir(baseDir), "commands.db")
}

func (c *Config) resolvePath(p, baseDir string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(baseDir, p)
}

var envPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// expandEnv expands ${NAME} references in provider settings, leaving
// unknown variables verbatim.
func (c *Config) expandEnv() {
	for name, p := range c.Providers {
		p.APIKey = expandEnvValue(p.APIKey)
		p.BaseURL = expandEnvValue(p.BaseURL)
		p.Model = expandEnvValue(p.Model)
		c.Providers[name] = p
	}
	c.Logging.File = expandEnvValue(c.Logging.File)
}

func expandEnvValue(s string) string {
	return envPattern.ReplaceAllStringFunc(s, func(match string) string {
		if v, ok := os.LookupEnv(match[2 : len(match)-1]); ok {
			return v
		}
		return match
	})
}
