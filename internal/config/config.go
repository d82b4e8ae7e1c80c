package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sigreer/partid/internal/partid"
	"gopkg.in/yaml.v3"
)

// EnvRoot overrides the symlink root, e.g. for a chroot or test tree.
const EnvRoot = "PARTID_ROOT"

type Config struct {
	// Directory holding the by-* symlink directories
	Root     string `yaml:"root"`
	Retry    Retry  `yaml:"retry"`
	Database string `yaml:"database"`
	// Default output format: "table" or "json"
	Output   string `yaml:"output"`
	LogLevel string `yaml:"log_level"`
}

type Retry struct {
	Attempts int           `yaml:"attempts"`
	Delay    time.Duration `yaml:"delay"`
}

// defaultConfig mirrors the host conventions
var defaultConfig = Config{
	Root: partid.DefaultRoot,
	Retry: Retry{
		Attempts: partid.DefaultAttempts,
		Delay:    partid.DefaultDelay,
	},
	Database: "/var/lib/partid/history.db",
	Output:   "table",
	LogLevel: "warn",
}

// Default returns a copy of the built-in configuration.
func Default() *Config {
	cfg := defaultConfig
	return &cfg
}

// candidates are searched in order when no config path is given
func candidates() []string {
	paths := []string{"/etc/partid/config.yaml"}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config/partid/config.yaml"))
	}
	return append(paths, "config.yaml")
}

// Load reads the config at path, or the first existing default location.
// Missing files yield the defaults; unreadable or malformed ones are errors.
func Load(path string) (*Config, error) {
	if path == "" {
		for _, c := range candidates() {
			if _, err := os.Stat(c); err == nil {
				path = c
				break
			}
		}
	}

	cfg := defaultConfig
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}

	if root := os.Getenv(EnvRoot); root != "" {
		cfg.Root = root
	}

	// Apply defaults for fields left empty
	if cfg.Root == "" {
		cfg.Root = defaultConfig.Root
	}
	if cfg.Retry.Attempts == 0 {
		cfg.Retry.Attempts = defaultConfig.Retry.Attempts
	}
	if cfg.Database == "" {
		cfg.Database = defaultConfig.Database
	}
	if cfg.Output == "" {
		cfg.Output = defaultConfig.Output
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = defaultConfig.LogLevel
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if !filepath.IsAbs(c.Root) {
		return fmt.Errorf("root must be an absolute path, got %q", c.Root)
	}
	if c.Retry.Attempts < 1 {
		return fmt.Errorf("retry.attempts must be at least 1, got %d", c.Retry.Attempts)
	}
	if c.Retry.Delay < 0 {
		return fmt.Errorf("retry.delay must not be negative, got %s", c.Retry.Delay)
	}
	switch c.Output {
	case "table", "json":
	default:
		return fmt.Errorf("unknown output format %q", c.Output)
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// Resolver builds a resolver that follows this configuration.
func (c *Config) Resolver(logger *slog.Logger) *partid.Resolver {
	r := partid.NewResolver(c.Root, logger)
	r.Attempts = c.Retry.Attempts
	r.Delay = c.Retry.Delay
	return r
}

// ParseLevel maps a log_level value to a slog level.
func ParseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("unknown log level %q", level)
	}
}
