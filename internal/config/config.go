package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config defines server configuration.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	DB         DBConfig         `yaml:"db"`
	Log        LogConfig        `yaml:"log"`
	Transport  TransportConfig  `yaml:"transport"`
	Auth       AuthConfig       `yaml:"auth"`
	Accounting AccountingConfig `yaml:"accounting"`
	Metrics    MetricsConfig    `yaml:"metrics"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
	// RequestsPerMinute caps /api calls per user; 0 disables the limit.
	RequestsPerMinute float64 `yaml:"requests_per_minute"`
	Burst             int     `yaml:"burst"`
}

type DBConfig struct {
	Path string `yaml:"path"`
}

// LogConfig selects the log level and, when Path is set, a rotated log file
// in place of stdout.
type LogConfig struct {
	Level      string `yaml:"level"`
	Path       string `yaml:"path"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
}

// SlogLevel parses Level. Unparsable levels fall back to info; Validate
// rejects them before that matters.
func (c LogConfig) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Level)); err != nil {
		return slog.LevelInfo
	}
	return level
}

// TransportConfig selects how the server is reached: "http" serves the REST
// API and MCP over HTTP, "stdio" serves MCP on stdin/stdout.
type TransportConfig struct {
	Mode string `yaml:"mode"`
}

// AuthConfig controls bearer-token authentication. When disabled every
// request belongs to DefaultUser.
type AuthConfig struct {
	Enabled     bool   `yaml:"enabled"`
	DefaultUser string `yaml:"default_user"`
	// BootstrapToken, when set, is registered as an API key for DefaultUser.
	BootstrapToken string `yaml:"bootstrap_token"`
}

type AccountingConfig struct {
	// DefaultTimezone is the IANA zone given to users created without one.
	DefaultTimezone string `yaml:"default_timezone"`
	// MaxRangeDays bounds a single days query; 0 means unbounded.
	MaxRangeDays int `yaml:"max_range_days"`
}

type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

// Load reads configuration from an optional YAML file and environment variables.
func Load() (Config, error) {
	cfg := Default()

	if path := os.Getenv("TIMEBANK_CONFIG_PATH"); path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Default returns the configuration used when nothing overrides it.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Host:  "0.0.0.0",
			Port:  8080,
			Burst: 20,
		},
		DB: DBConfig{
			Path: "timebank.db",
		},
		Log: LogConfig{
			Level:      "info",
			MaxSizeMB:  5,
			MaxBackups: 3,
		},
		Transport: TransportConfig{
			Mode: "http",
		},
		Auth: AuthConfig{
			Enabled:     true,
			DefaultUser: "default",
		},
		Accounting: AccountingConfig{
			DefaultTimezone: "UTC",
			MaxRangeDays:    366,
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
	}
}

func applyEnv(cfg *Config) error {
	if host := os.Getenv("TIMEBANK_SERVER_HOST"); host != "" {
		cfg.Server.Host = host
	}
	if portStr := os.Getenv("TIMEBANK_SERVER_PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return fmt.Errorf("invalid TIMEBANK_SERVER_PORT: %w", err)
		}
		cfg.Server.Port = port
	}
	if v := os.Getenv("TIMEBANK_REQUESTS_PER_MINUTE"); v != "" {
		n, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid TIMEBANK_REQUESTS_PER_MINUTE: %w", err)
		}
		cfg.Server.RequestsPerMinute = n
	}
	if dbPath := os.Getenv("TIMEBANK_DB_PATH"); dbPath != "" {
		cfg.DB.Path = dbPath
	}
	if level := os.Getenv("TIMEBANK_LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}
	if path := os.Getenv("TIMEBANK_LOG_PATH"); path != "" {
		cfg.Log.Path = path
	}
	if mode := os.Getenv("TIMEBANK_TRANSPORT"); mode != "" {
		cfg.Transport.Mode = mode
	}
	if v := os.Getenv("TIMEBANK_AUTH_ENABLED"); v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid TIMEBANK_AUTH_ENABLED: %w", err)
		}
		cfg.Auth.Enabled = enabled
	}
	if user := os.Getenv("TIMEBANK_DEFAULT_USER"); user != "" {
		cfg.Auth.DefaultUser = user
	}
	if token := os.Getenv("TIMEBANK_API_KEY"); token != "" {
		cfg.Auth.BootstrapToken = token
	}
	if tz := os.Getenv("TIMEBANK_DEFAULT_TIMEZONE"); tz != "" {
		cfg.Accounting.DefaultTimezone = tz
	}
	if v := os.Getenv("TIMEBANK_MAX_RANGE_DAYS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid TIMEBANK_MAX_RANGE_DAYS: %w", err)
		}
		cfg.Accounting.MaxRangeDays = n
	}
	if v := os.Getenv("TIMEBANK_METRICS_ENABLED"); v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid TIMEBANK_METRICS_ENABLED: %w", err)
		}
		cfg.Metrics.Enabled = enabled
	}
	return nil
}

// Validate reports the first setting the server cannot start with.
func (c Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server port %d out of range", c.Server.Port)
	}
	if c.Server.RequestsPerMinute < 0 {
		return errors.New("server requests_per_minute must not be negative")
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return fmt.Errorf("invalid log level %q", c.Log.Level)
	}
	if c.Log.Path != "" && c.Log.MaxSizeMB <= 0 {
		return errors.New("log max_size_mb must be positive")
	}
	if c.Transport.Mode != "http" && c.Transport.Mode != "stdio" {
		return fmt.Errorf("unknown transport mode %q", c.Transport.Mode)
	}
	if c.Auth.DefaultUser == "" {
		return errors.New("auth default_user is required")
	}
	if _, err := time.LoadLocation(c.Accounting.DefaultTimezone); err != nil {
		return fmt.Errorf("invalid default timezone %q: %w", c.Accounting.DefaultTimezone, err)
	}
	if c.Accounting.MaxRangeDays < 0 {
		return errors.New("accounting max_range_days must not be negative")
	}
	return nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}
