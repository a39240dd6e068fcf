package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Auth      AuthConfig      `yaml:"auth"`
	Tailscale TailscaleConfig `yaml:"tailscale"`
	Coach     CoachConfig     `yaml:"coach"`
	Import    ImportConfig    `yaml:"import"`
	Metrics   MetricsConfig   `yaml:"metrics"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
	MCP  bool   `yaml:"mcp"` // serve MCP over streamable HTTP at /mcp
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"sslmode"`
}

type AuthConfig struct {
	APIKey string `yaml:"api_key"`
}

// TailscaleConfig enables serving on the tailnet via tsnet instead of a plain listener.
type TailscaleConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Hostname string `yaml:"hostname"`
	StateDir string `yaml:"state_dir"`
}

// CoachConfig bounds how much history the coach reads per request.
type CoachConfig struct {
	LogWindow      int `yaml:"log_window"`
	FeedbackWindow int `yaml:"feedback_window"`
}

type ImportConfig struct {
	StateDir string `yaml:"state_dir"`
}

// MetricsConfig serves Prometheus metrics on a separate listener. Empty Addr disables it.
type MetricsConfig struct {
	Addr string `yaml:"addr"`
}

const (
	defaultLogWindow      = 60
	defaultFeedbackWindow = 10
)

// DSN returns a PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	sslmode := d.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, sslmode)
}

// Load reads config from a YAML file, then applies environment variable overrides.
// Env vars use the prefix REPCOACH_ and underscore-separated paths:
//
//	REPCOACH_SERVER_HOST, REPCOACH_SERVER_PORT, REPCOACH_SERVER_MCP,
//	REPCOACH_DB_HOST, REPCOACH_DB_PORT, REPCOACH_DB_NAME,
//	REPCOACH_DB_USER, REPCOACH_DB_PASSWORD, REPCOACH_DB_SSLMODE,
//	REPCOACH_AUTH_API_KEY,
//	REPCOACH_TAILSCALE_ENABLED, REPCOACH_TAILSCALE_HOSTNAME, REPCOACH_TAILSCALE_STATE_DIR,
//	REPCOACH_COACH_LOG_WINDOW, REPCOACH_COACH_FEEDBACK_WINDOW,
//	REPCOACH_IMPORT_STATE_DIR, REPCOACH_METRICS_ADDR
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyEnvOverrides(cfg)
	applyDefaults(cfg)

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("REPCOACH_SERVER_HOST"); v != "" {
		cfg.Server.Host = v
	}
	envInt("REPCOACH_SERVER_PORT", &cfg.Server.Port)
	envBool("REPCOACH_SERVER_MCP", &cfg.Server.MCP)
	if v := os.Getenv("REPCOACH_DB_HOST"); v != "" {
		cfg.Database.Host = v
	}
	envInt("REPCOACH_DB_PORT", &cfg.Database.Port)
	if v := os.Getenv("REPCOACH_DB_NAME"); v != "" {
		cfg.Database.Name = v
	}
	if v := os.Getenv("REPCOACH_DB_USER"); v != "" {
		cfg.Database.User = v
	}
	if v := os.Getenv("REPCOACH_DB_PASSWORD"); v != "" {
		cfg.Database.Password = v
	}
	if v := os.Getenv("REPCOACH_DB_SSLMODE"); v != "" {
		cfg.Database.SSLMode = v
	}
	if v := os.Getenv("REPCOACH_AUTH_API_KEY"); v != "" {
		cfg.Auth.APIKey = v
	}
	envBool("REPCOACH_TAILSCALE_ENABLED", &cfg.Tailscale.Enabled)
	if v := os.Getenv("REPCOACH_TAILSCALE_HOSTNAME"); v != "" {
		cfg.Tailscale.Hostname = v
	}
	if v := os.Getenv("REPCOACH_TAILSCALE_STATE_DIR"); v != "" {
		cfg.Tailscale.StateDir = v
	}
	envInt("REPCOACH_COACH_LOG_WINDOW", &cfg.Coach.LogWindow)
	envInt("REPCOACH_COACH_FEEDBACK_WINDOW", &cfg.Coach.FeedbackWindow)
	if v := os.Getenv("REPCOACH_IMPORT_STATE_DIR"); v != "" {
		cfg.Import.StateDir = v
	}
	if v := os.Getenv("REPCOACH_METRICS_ADDR"); v != "" {
		cfg.Metrics.Addr = v
	}
}

// envInt overwrites dst when the variable is set to a valid integer.
func envInt(key string, dst *int) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func envBool(key string, dst *bool) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Coach.LogWindow == 0 {
		cfg.Coach.LogWindow = defaultLogWindow
	}
	if cfg.Coach.FeedbackWindow == 0 {
		cfg.Coach.FeedbackWindow = defaultFeedbackWindow
	}
	if cfg.Tailscale.Hostname == "" {
		cfg.Tailscale.Hostname = "repcoach"
	}
	if cfg.Import.StateDir == "" {
		cfg.Import.StateDir = ".repcoach-import"
	}
}

func (c *Config) validate() error {
	if c.Server.Port == 0 && !c.Tailscale.Enabled {
		return fmt.Errorf("server.port is required")
	}
	if c.Database.Host == "" {
		return fmt.Errorf("database.host is required")
	}
	if c.Database.Port == 0 {
		return fmt.Errorf("database.port is required")
	}
	if c.Database.Name == "" {
		return fmt.Errorf("database.name is required")
	}
	if c.Database.User == "" {
		return fmt.Errorf("database.user is required")
	}
	if c.Auth.APIKey == "" {
		return fmt.Errorf("auth.api_key is required")
	}
	if c.Coach.LogWindow < 0 || c.Coach.FeedbackWindow < 0 {
		return fmt.Errorf("coach history windows must not be negative")
	}
	return nil
}
