package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// =============================================================================
// Config Types
// =============================================================================

// Config holds all application configuration. The fleet file is separate;
// this only covers tool behavior.
type Config struct {
	Log    LogConfig    `mapstructure:"log"`
	Docker DockerConfig `mapstructure:"docker"`
	Start  StartConfig  `mapstructure:"start"`
	Stop   StopConfig   `mapstructure:"stop"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// DockerConfig holds per-ship Docker connection configuration.
type DockerConfig struct {
	ConnectTimeout time.Duration `mapstructure:"connect_timeout"`

	// SSHIdentity is the fallback private key for ships with ssh://
	// endpoints that declare no identity of their own.
	SSHIdentity string `mapstructure:"ssh_identity"`
}

// StartConfig holds start-play tunables.
type StartConfig struct {
	// ReadyTimeout bounds how long to wait for a started container's
	// ports to accept connections.
	ReadyTimeout time.Duration `mapstructure:"ready_timeout"`

	// ProbeTimeout bounds a single port probe dial.
	ProbeTimeout time.Duration `mapstructure:"probe_timeout"`
}

// StopConfig holds stop-play tunables.
type StopConfig struct {
	// Timeout is the graceful-stop grace period for containers that
	// declare none in the fleet file.
	Timeout time.Duration `mapstructure:"timeout"`
}

// =============================================================================
// Config Loading
// =============================================================================

// LoadConfig loads configuration from file and environment.
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()

	// Set defaults. Logs default to warn so they do not fight the
	// status board for the terminal.
	v.SetDefault("log.level", "warn")
	v.SetDefault("log.format", "text")
	v.SetDefault("docker.connect_timeout", "10s")
	v.SetDefault("docker.ssh_identity", "")
	v.SetDefault("start.ready_timeout", "30s")
	v.SetDefault("start.probe_timeout", "2s")
	v.SetDefault("stop.timeout", "10s")

	// Load from file if provided
	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			// Only return error if the file is present but invalid
			if _, ok := err.(viper.ConfigParseError); ok {
				return nil, fmt.Errorf("failed to parse config file: %w", err)
			}
		}
	}

	// Enable environment variable overrides
	v.SetEnvPrefix("FLOTILLA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}

// =============================================================================
// Logger Setup
// =============================================================================

// SetupLogger creates a logger with the configured level and format.
// Logs go to stderr; stdout belongs to the status board.
func SetupLogger(cfg *Config) *slog.Logger {
	var level slog.Level
	switch strings.ToLower(cfg.Log.Level) {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn", "warning":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelWarn
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	var handler slog.Handler
	if strings.ToLower(cfg.Log.Format) == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}

	return slog.New(handler)
}
