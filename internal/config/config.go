package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Tailscale TailscaleConfig `yaml:"tailscale"`
	Log       LogConfig       `yaml:"log"`
	Metrics   MetricsConfig   `yaml:"metrics"`
	Progress  ProgressConfig  `yaml:"progress"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// Database drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type DatabaseConfig struct {
	Driver   string `yaml:"driver"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"sslmode"`
	// Path is the SQLite database file, or ":memory:".
	Path string `yaml:"path"`
}

type TailscaleConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Hostname string `yaml:"hostname"`
	StateDir string `yaml:"state_dir"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	// File enables rotated file logging when set.
	File   string `yaml:"file"`
	Stdout bool   `yaml:"stdout"`
}

type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

type ProgressConfig struct {
	// DefaultExercise is first, latest or none.
	DefaultExercise string `yaml:"default_exercise"`
}

// DSN returns a PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	sslmode := d.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, sslmode)
}

func defaults() *Config {
	return &Config{
		Server:    ServerConfig{Host: "127.0.0.1", Port: 8080},
		Database:  DatabaseConfig{Driver: DriverPostgres, Port: 5432, Path: "data/liftlog.db"},
		Tailscale: TailscaleConfig{Hostname: "liftlog", StateDir: "tsnet-state"},
		Log:       LogConfig{Level: "info", Format: "text", Stdout: true},
		Progress:  ProgressConfig{DefaultExercise: "first"},
	}
}

// Load reads a .env file if present, then config from a YAML file, then
// applies environment variable overrides. Env vars use the prefix LIFTLOG_
// and underscore-separated paths:
//
//	LIFTLOG_SERVER_HOST, LIFTLOG_SERVER_PORT,
//	LIFTLOG_DB_DRIVER, LIFTLOG_DB_HOST, LIFTLOG_DB_PORT, LIFTLOG_DB_NAME,
//	LIFTLOG_DB_USER, LIFTLOG_DB_PASSWORD, LIFTLOG_DB_SSLMODE, LIFTLOG_DB_PATH,
//	LIFTLOG_TAILSCALE_ENABLED, LIFTLOG_TAILSCALE_HOSTNAME, LIFTLOG_TAILSCALE_STATE_DIR,
//	LIFTLOG_LOG_LEVEL, LIFTLOG_LOG_FORMAT, LIFTLOG_LOG_FILE, LIFTLOG_LOG_STDOUT,
//	LIFTLOG_METRICS_ENABLED, LIFTLOG_PROGRESS_DEFAULT_EXERCISE
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	cfg := defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	setString(&cfg.Server.Host, "LIFTLOG_SERVER_HOST")
	setInt(&cfg.Server.Port, "LIFTLOG_SERVER_PORT")

	setString(&cfg.Database.Driver, "LIFTLOG_DB_DRIVER")
	setString(&cfg.Database.Host, "LIFTLOG_DB_HOST")
	setInt(&cfg.Database.Port, "LIFTLOG_DB_PORT")
	setString(&cfg.Database.Name, "LIFTLOG_DB_NAME")
	setString(&cfg.Database.User, "LIFTLOG_DB_USER")
	setString(&cfg.Database.Password, "LIFTLOG_DB_PASSWORD")
	setString(&cfg.Database.SSLMode, "LIFTLOG_DB_SSLMODE")
	setString(&cfg.Database.Path, "LIFTLOG_DB_PATH")

	setBool(&cfg.Tailscale.Enabled, "LIFTLOG_TAILSCALE_ENABLED")
	setString(&cfg.Tailscale.Hostname, "LIFTLOG_TAILSCALE_HOSTNAME")
	setString(&cfg.Tailscale.StateDir, "LIFTLOG_TAILSCALE_STATE_DIR")

	setString(&cfg.Log.Level, "LIFTLOG_LOG_LEVEL")
	setString(&cfg.Log.Format, "LIFTLOG_LOG_FORMAT")
	setString(&cfg.Log.File, "LIFTLOG_LOG_FILE")
	setBool(&cfg.Log.Stdout, "LIFTLOG_LOG_STDOUT")

	setBool(&cfg.Metrics.Enabled, "LIFTLOG_METRICS_ENABLED")
	setString(&cfg.Progress.DefaultExercise, "LIFTLOG_PROGRESS_DEFAULT_EXERCISE")
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func (c *Config) validate() error {
	if c.Server.Port == 0 && !c.Tailscale.Enabled {
		return fmt.Errorf("server.port is required")
	}
	switch c.Database.Driver {
	case DriverPostgres:
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
	case DriverSQLite:
		if c.Database.Path == "" {
			return fmt.Errorf("database.path is required for the sqlite driver")
		}
	default:
		return fmt.Errorf("database.driver must be %q or %q, got %q", DriverPostgres, DriverSQLite, c.Database.Driver)
	}
	if c.Tailscale.Enabled && c.Tailscale.Hostname == "" {
		return fmt.Errorf("tailscale.hostname is required when tailscale is enabled")
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("log.format must be text or json, got %q", c.Log.Format)
	}
	switch c.Progress.DefaultExercise {
	case "first", "latest", "none":
	default:
		return fmt.Errorf("progress.default_exercise must be first, latest or none, got %q", c.Progress.DefaultExercise)
	}
	return nil
}
